package auth

import (
	"crypto/md5" // #nosec G501 - avatar fingerprint only, not a security boundary
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/volunteer-hub/internal/models"
)

// Token validation errors
var (
	ErrTokenInvalid = errors.New("invalid session token")
	ErrTokenExpired = errors.New("session token expired")
)

// SessionClaims is the claim set shared between tokens minted by the
// hosted auth service and demo-session tokens minted locally.
type SessionClaims struct {
	DisplayName string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	jwt.RegisteredClaims
}

// TokenService issues demo-session tokens and validates both demo and
// hosted-session tokens with the shared signing secret.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a token service. An empty secret is allowed in
// local mode; validation then rejects every token.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Issue mints a session token for a user.
func (s *TokenService) Issue(user *models.User) (string, error) {
	if len(s.secret) == 0 {
		return "", errors.New("no signing secret configured")
	}

	now := time.Now()
	claims := SessionClaims{
		DisplayName: user.DisplayName,
		Email:       user.Email,
		AvatarURL:   user.AvatarURL,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Validate parses a session token and returns the normalized user. The
// same token always normalizes to the same user.
func (s *TokenService) Validate(tokenString string) (*models.User, error) {
	if len(s.secret) == 0 {
		return nil, ErrTokenInvalid
	}

	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrTokenInvalid
	}

	return NormalizeUser(claims.Subject, claims.DisplayName, claims.Email, claims.AvatarURL), nil
}

// NormalizeUser produces the common user shape from any auth source. It is
// idempotent: the same inputs always yield an identical user, including the
// derived avatar URL, which is a pure function of the email.
func NormalizeUser(id, displayName, email, avatarURL string) *models.User {
	if avatarURL == "" && email != "" {
		avatarURL = gravatarURL(email)
	}
	if displayName == "" {
		displayName = displayNameFromEmail(email)
	}
	return &models.User{
		ID:          id,
		DisplayName: displayName,
		Email:       email,
		AvatarURL:   avatarURL,
	}
}

func gravatarURL(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	sum := md5.Sum([]byte(normalized)) // #nosec G401 - fingerprint, not auth
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?d=identicon", sum)
}

func displayNameFromEmail(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}
