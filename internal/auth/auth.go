// Package auth implements the admin login: a bcrypt-checked password and signed
// session tokens backed by server-side session rows.
package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	CookieName = "admin_session"
	DefaultTTL = 7 * 24 * time.Hour
	issuer     = "ministryhub"
)

var (
	ErrNotConfigured   = errors.New("admin password not configured")
	ErrInvalidPassword = errors.New("invalid password")
	ErrUnauthorized    = errors.New("unauthorized - admin login required")
)

// SessionStore persists active session ids.
type SessionStore interface {
	CreateSession(ctx context.Context, id string, expiresAt time.Time) error
	SessionActive(ctx context.Context, id string, now time.Time) (bool, error)
	DeleteSession(ctx context.Context, id string) error
}

type Claims struct {
	Admin bool `json:"adm"`
	jwt.RegisteredClaims
}

type Config struct {
	Password      string
	SessionSecret string
	TTL           time.Duration
}

type Manager struct {
	passwordHash []byte
	secret       []byte
	ttl          time.Duration
	store        SessionStore
	now          func() time.Time
}

// NewManager hashes the configured password once. Without a password the manager
// refuses every login. Without a secret a random one is generated, which invalidates
// tokens across restarts.
func NewManager(cfg Config, store SessionStore) (*Manager, error) {
	m := &Manager{
		ttl:   cfg.TTL,
		store: store,
		now:   time.Now,
	}
	if m.ttl <= 0 {
		m.ttl = DefaultTTL
	}

	if cfg.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash admin password: %w", err)
		}
		m.passwordHash = hash
	}

	if cfg.SessionSecret != "" {
		m.secret = []byte(cfg.SessionSecret)
	} else {
		m.secret = make([]byte, 32)
		if _, err := rand.Read(m.secret); err != nil {
			return nil, fmt.Errorf("generate session secret: %w", err)
		}
	}
	return m, nil
}

func (m *Manager) Configured() bool {
	return len(m.passwordHash) > 0
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Login checks password and opens a new session, returning its signed token.
func (m *Manager) Login(ctx context.Context, password string) (string, time.Time, error) {
	if !m.Configured() {
		return "", time.Time{}, ErrNotConfigured
	}
	if err := bcrypt.CompareHashAndPassword(m.passwordHash, []byte(password)); err != nil {
		return "", time.Time{}, ErrInvalidPassword
	}

	now := m.now()
	expiresAt := now.Add(m.ttl)
	id := uuid.NewString()

	if err := m.store.CreateSession(ctx, id, expiresAt); err != nil {
		return "", time.Time{}, err
	}

	claims := Claims{
		Admin: true,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}
	return token, expiresAt, nil
}

// Validate verifies the token signature and expiry and that its session is still
// active in the store. Store failures are returned as-is; every other rejection is
// ErrUnauthorized.
func (m *Manager) Validate(ctx context.Context, token string) (*Claims, error) {
	claims, err := m.parse(token)
	if err != nil {
		return nil, ErrUnauthorized
	}

	active, err := m.store.SessionActive(ctx, claims.ID, m.now())
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, ErrUnauthorized
	}
	return claims, nil
}

// Logout ends the token's session. Invalid tokens are ignored.
func (m *Manager) Logout(ctx context.Context, token string) error {
	claims, err := m.parse(token)
	if err != nil {
		return nil
	}
	return m.store.DeleteSession(ctx, claims.ID)
}

func (m *Manager) parse(token string) (*Claims, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}

	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	parser.SkipClaimsValidation = true

	claims := &Claims{}
	if _, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}); err != nil {
		return nil, err
	}

	if !claims.Admin || claims.ID == "" || claims.Issuer != issuer {
		return nil, ErrUnauthorized
	}
	if claims.ExpiresAt == nil || !m.now().Before(claims.ExpiresAt.Time) {
		return nil, ErrUnauthorized
	}
	return claims, nil
}

// TokenFromRequest returns the session token from the admin cookie, falling back
// to an Authorization bearer header.
func TokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value
	}
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
