package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/volunteer-hub/internal/models"
)

type memorySessionStore struct {
	user *models.User
}

func (m *memorySessionStore) SaveSession(user *models.User) error { m.user = user; return nil }
func (m *memorySessionStore) LoadSession() (*models.User, error)  { return m.user, nil }
func (m *memorySessionStore) ClearSession() error                 { m.user = nil; return nil }

func newTestBridge(t *testing.T) (*Bridge, *memorySessionStore) {
	t.Helper()
	sessions := &memorySessionStore{}
	bridge := NewBridge(Config{
		Tokens:   NewTokenService("test-secret", time.Hour),
		Sessions: sessions,
	})
	return bridge, sessions
}

func TestSignInDemo(t *testing.T) {
	bridge, sessions := newTestBridge(t)

	user, err := bridge.SignInDemo("Jane", "jane@example.com")
	if err != nil {
		t.Fatalf("Failed to sign in demo user: %v", err)
	}

	if !strings.HasPrefix(user.ID, "demo-") {
		t.Errorf("Expected demo-prefixed id, got %q", user.ID)
	}
	if user.DisplayName != "Jane" {
		t.Errorf("Expected display name 'Jane', got %q", user.DisplayName)
	}
	if user.Email != "jane@example.com" {
		t.Errorf("Expected email 'jane@example.com', got %q", user.Email)
	}
	if user.AvatarURL == "" {
		t.Error("Expected a derived avatar URL")
	}

	if sessions.user == nil || sessions.user.ID != user.ID {
		t.Error("Expected demo session to be persisted")
	}
	if current := bridge.CurrentUser(); current == nil || current.ID != user.ID {
		t.Error("Expected demo user to become the current user")
	}
}

func TestSignInDemoValidation(t *testing.T) {
	bridge, _ := newTestBridge(t)

	cases := []struct {
		name  string
		email string
	}{
		{"", "jane@example.com"},
		{"Jane", ""},
		{"Jane", "not-an-email"},
		{"   ", "jane@example.com"},
	}
	for _, tc := range cases {
		if _, err := bridge.SignInDemo(tc.name, tc.email); err == nil {
			t.Errorf("Expected validation error for name=%q email=%q", tc.name, tc.email)
		}
	}

	if bridge.CurrentUser() != nil {
		t.Error("Expected no state change after failed sign-in")
	}
}

func TestSignOut(t *testing.T) {
	bridge, sessions := newTestBridge(t)

	if _, err := bridge.SignInDemo("Jane", "jane@example.com"); err != nil {
		t.Fatalf("Failed to sign in: %v", err)
	}
	if err := bridge.SignOut(); err != nil {
		t.Fatalf("Failed to sign out: %v", err)
	}

	if bridge.CurrentUser() != nil {
		t.Error("Expected nil current user after sign-out")
	}
	if sessions.user != nil {
		t.Error("Expected persisted session to be cleared")
	}
}

func TestSubscriberFanOut(t *testing.T) {
	bridge, _ := newTestBridge(t)

	var order []string
	bridge.Subscribe(func(user *models.User) {
		if user != nil {
			order = append(order, "first:in")
		} else {
			order = append(order, "first:out")
		}
	})
	bridge.Subscribe(func(user *models.User) {
		if user != nil {
			order = append(order, "second:in")
		} else {
			order = append(order, "second:out")
		}
	})

	if _, err := bridge.SignInDemo("Jane", "jane@example.com"); err != nil {
		t.Fatalf("Failed to sign in: %v", err)
	}
	if err := bridge.SignOut(); err != nil {
		t.Fatalf("Failed to sign out: %v", err)
	}

	want := []string{"first:in", "second:in", "first:out", "second:out"}
	if len(order) != len(want) {
		t.Fatalf("Expected %d notifications, got %d (%v)", len(want), len(order), order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("Notification %d: expected %q, got %q", i, want[i], order[i])
		}
	}
}

func TestBridgeRestoresPersistedSession(t *testing.T) {
	sessions := &memorySessionStore{
		user: &models.User{ID: "demo-42", DisplayName: "Jane", Email: "jane@example.com"},
	}
	bridge := NewBridge(Config{
		Tokens:   NewTokenService("test-secret", time.Hour),
		Sessions: sessions,
	})

	current := bridge.CurrentUser()
	if current == nil || current.ID != "demo-42" {
		t.Fatalf("Expected persisted session to be restored, got %+v", current)
	}
}

func TestSignInWithProvider(t *testing.T) {
	bridge := NewBridge(Config{
		Tokens:          NewTokenService("test-secret", time.Hour),
		ProviderBaseURL: "https://auth.example.com/",
		RedirectURL:     "https://app.example.com/callback",
	})

	redirect, err := bridge.SignInWithProvider("google")
	if err != nil {
		t.Fatalf("Failed to build provider redirect: %v", err)
	}
	if !strings.HasPrefix(redirect, "https://auth.example.com/authorize?") {
		t.Errorf("Unexpected redirect URL: %q", redirect)
	}
	if !strings.Contains(redirect, "provider=google") {
		t.Errorf("Expected provider parameter in %q", redirect)
	}

	if _, err := bridge.SignInWithProvider(""); err == nil {
		t.Error("Expected error for empty provider")
	}

	unconfigured := NewBridge(Config{Tokens: NewTokenService("test-secret", time.Hour)})
	if _, err := unconfigured.SignInWithProvider("google"); err == nil {
		t.Error("Expected error when no hosted auth service is configured")
	}
}

func TestVerifyTokenDoesNotTouchSession(t *testing.T) {
	bridge, _ := newTestBridge(t)

	var notified int
	bridge.Subscribe(func(user *models.User) { notified++ })

	tokens := NewTokenService("test-secret", time.Hour)
	signed, err := tokens.Issue(NormalizeUser("user-alice", "Alice", "alice@example.com", ""))
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}

	user, err := bridge.VerifyToken(signed)
	if err != nil {
		t.Fatalf("Failed to verify token: %v", err)
	}
	if user.ID != "user-alice" {
		t.Errorf("Expected user-alice, got %q", user.ID)
	}

	if current := bridge.CurrentUser(); current != nil {
		t.Errorf("Expected verification to leave the session signed out, got %+v", current)
	}
	if notified != 0 {
		t.Errorf("Expected no subscriber notifications, got %d", notified)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	tokens := NewTokenService("test-secret", time.Hour)
	user := NormalizeUser("user-1", "Jane", "jane@example.com", "")

	signed, err := tokens.Issue(user)
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}

	got, err := tokens.Validate(signed)
	if err != nil {
		t.Fatalf("Failed to validate token: %v", err)
	}
	if got.ID != user.ID || got.Email != user.Email || got.DisplayName != user.DisplayName {
		t.Errorf("Round-tripped user mismatch: %+v vs %+v", got, user)
	}
	if got.AvatarURL != user.AvatarURL {
		t.Errorf("Expected avatar URL %q, got %q", user.AvatarURL, got.AvatarURL)
	}
}

func TestTokenValidateRejectsBadInput(t *testing.T) {
	tokens := NewTokenService("test-secret", time.Hour)

	if _, err := tokens.Validate("not-a-token"); err != ErrTokenInvalid {
		t.Errorf("Expected ErrTokenInvalid, got %v", err)
	}

	other := NewTokenService("other-secret", time.Hour)
	signed, err := other.Issue(NormalizeUser("user-1", "Jane", "jane@example.com", ""))
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}
	if _, err := tokens.Validate(signed); err != ErrTokenInvalid {
		t.Errorf("Expected ErrTokenInvalid for wrong secret, got %v", err)
	}

	expired := NewTokenService("test-secret", -time.Minute)
	signed, err = expired.Issue(NormalizeUser("user-1", "Jane", "jane@example.com", ""))
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}
	if _, err := tokens.Validate(signed); err != ErrTokenExpired {
		t.Errorf("Expected ErrTokenExpired, got %v", err)
	}

	empty := NewTokenService("", time.Hour)
	if _, err := empty.Validate(signed); err != ErrTokenInvalid {
		t.Errorf("Expected ErrTokenInvalid with empty secret, got %v", err)
	}
}

func TestNormalizeUserIdempotent(t *testing.T) {
	a := NormalizeUser("user-1", "", "jane@example.com", "")
	b := NormalizeUser("user-1", "", "jane@example.com", "")

	if *a != *b {
		t.Errorf("Expected identical users, got %+v and %+v", a, b)
	}
	if a.DisplayName != "jane" {
		t.Errorf("Expected display name derived from email, got %q", a.DisplayName)
	}
	if !strings.Contains(a.AvatarURL, "gravatar.com/avatar/") {
		t.Errorf("Expected derived gravatar URL, got %q", a.AvatarURL)
	}

	explicit := NormalizeUser("user-1", "Jane", "jane@example.com", "https://cdn.example.com/a.png")
	if explicit.AvatarURL != "https://cdn.example.com/a.png" {
		t.Error("Expected explicit avatar URL to be preserved")
	}
}
