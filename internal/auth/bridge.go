// Package auth normalizes the three auth sources of the volunteer hub
// (hosted OAuth session, demo local user, none) into one user shape and
// broadcasts state changes to subscribers.
package auth

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/volunteer-hub/internal/errors"
	"github.com/volunteer-hub/internal/logging"
	"github.com/volunteer-hub/internal/models"
)

// SessionStore persists the demo session under a well-known key. The local
// fallback store implements it; in remote mode the hosted session always
// takes precedence over anything persisted here.
type SessionStore interface {
	SaveSession(user *models.User) error
	LoadSession() (*models.User, error) // nil, nil when no session is persisted
	ClearSession() error
}

// Subscriber receives every auth state change. A non-nil user is the
// signed-in signal, nil is the signed-out signal; the two are mutually
// exclusive and delivered synchronously in subscription order.
type Subscriber func(user *models.User)

// Bridge produces a single normalized user regardless of auth source and
// notifies subscribers whenever it changes.
type Bridge struct {
	tokens   *TokenService
	sessions SessionStore
	logger   *logging.Logger

	providerBaseURL string
	redirectURL     string

	mu          sync.Mutex
	current     *models.User
	subscribers []Subscriber
}

// Config carries the bridge wiring.
type Config struct {
	Tokens          *TokenService
	Sessions        SessionStore
	ProviderBaseURL string
	RedirectURL     string
	Logger          *logging.Logger
}

// NewBridge creates the auth bridge. Any demo session persisted under the
// well-known key is loaded once at startup; a load failure is degraded to
// the signed-out state, never returned.
func NewBridge(cfg Config) *Bridge {
	b := &Bridge{
		tokens:          cfg.Tokens,
		sessions:        cfg.Sessions,
		providerBaseURL: strings.TrimRight(cfg.ProviderBaseURL, "/"),
		redirectURL:     cfg.RedirectURL,
		logger:          cfg.Logger,
	}
	if b.logger == nil {
		b.logger = logging.GetGlobalLogger()
	}

	if cfg.Sessions != nil {
		user, err := cfg.Sessions.LoadSession()
		if err != nil {
			b.logger.WithError(err).Warn("Failed to load persisted session, starting signed out")
		} else {
			b.current = user
		}
	}

	return b
}

// Subscribe registers a subscriber for auth state changes. Subscribers are
// not called with the initial state; read CurrentUser for that.
func (b *Bridge) Subscribe(fn Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, fn)
}

// CurrentUser returns the normalized current user, or nil when signed out.
func (b *Bridge) CurrentUser() *models.User {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// SignInWithProvider delegates to the hosted OAuth service and returns the
// redirect URL the client should follow. There is no automatic retry; a
// missing provider configuration is surfaced to the caller.
func (b *Bridge) SignInWithProvider(provider string) (string, error) {
	if provider == "" {
		return "", errors.NewValidationError("provider", "must not be empty")
	}
	if b.providerBaseURL == "" {
		return "", errors.NewBackendError("provider sign-in", fmt.Errorf("no hosted auth service configured"))
	}

	q := url.Values{}
	q.Set("provider", provider)
	if b.redirectURL != "" {
		q.Set("redirect_to", b.redirectURL)
	}
	return fmt.Sprintf("%s/authorize?%s", b.providerBaseURL, q.Encode()), nil
}

// VerifyToken validates a bearer token minted by the hosted auth service
// or a demo sign-in and returns its user. Verification is stateless: the
// bridge session is never touched, so concurrent callers with different
// tokens cannot see each other's identity.
func (b *Bridge) VerifyToken(token string) (*models.User, error) {
	return b.tokens.Validate(token)
}

// SignInDemo validates the demo credentials, persists the session under
// the well-known key and notifies subscribers. Validation failures abort
// with no state change.
func (b *Bridge) SignInDemo(name, email string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if name == "" {
		return nil, errors.NewValidationError("name", "must not be empty")
	}
	if email == "" {
		return nil, errors.NewValidationError("email", "must not be empty")
	}
	if !strings.Contains(email, "@") {
		return nil, errors.NewValidationError("email", "must contain @")
	}

	user := NormalizeUser(demoID(), name, email, "")

	if b.sessions != nil {
		if err := b.sessions.SaveSession(user); err != nil {
			return nil, fmt.Errorf("failed to persist demo session: %w", err)
		}
	}

	b.setCurrent(user)
	return user, nil
}

// SignOut clears the persisted session and notifies subscribers with nil.
func (b *Bridge) SignOut() error {
	if b.sessions != nil {
		if err := b.sessions.ClearSession(); err != nil {
			return fmt.Errorf("failed to clear persisted session: %w", err)
		}
	}
	b.setCurrent(nil)
	return nil
}

// IssueToken mints a session token for the current user, for clients that
// talk to the API with bearer auth.
func (b *Bridge) IssueToken() (string, error) {
	user := b.CurrentUser()
	if user == nil {
		return "", errors.NewUnauthenticatedError()
	}
	return b.tokens.Issue(user)
}

// setCurrent swaps the current user and fans the change out to every
// subscriber synchronously, in subscription order.
func (b *Bridge) setCurrent(user *models.User) {
	b.mu.Lock()
	b.current = user
	subscribers := make([]Subscriber, len(b.subscribers))
	copy(subscribers, b.subscribers)
	b.mu.Unlock()

	for _, fn := range subscribers {
		fn(user)
	}
}

// demoID generates a demo-prefixed id. Timestamp-based ids are acceptable
// because demo sessions never sync across devices.
func demoID() string {
	return fmt.Sprintf("demo-%d", time.Now().UnixNano())
}
