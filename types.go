package gatekeeper

import (
	"context"
	"fmt"
	"time"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Authenticator holds methods to deal with authentication
type Authenticator interface {
	Login(ctx context.Context, username, password string) (string, error)
}

// Identity holds the attributes of an authenticated identity
type Identity interface {
	ID() string
	Username() string
	Email() string
	Role() string
	Authorities() []string
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetSigningMethod() string
	GetIssuer() string
	GetAudience() []string
	GetTokenExpiration() int
	GetAuthScheme() string
	GetContextKey() string
}

// IdentityProvider ensures we have a store to retrieve auth identities
type IdentityProvider interface {
	VerifyIdentity(ctx context.Context, username, password string) (Identity, error)
	FindIdentityByUsername(ctx context.Context, username string) (Identity, error)
}

// IdentityStore is the narrow persistence contract this package consumes.
// Implementations live outside this module; the provider only needs lookup
// plus a save to update last-login metadata.
type IdentityStore interface {
	FindByUsername(ctx context.Context, username string) (*User, error)
	Save(ctx context.Context, user *User) error
}

// TokenService issues and verifies signed bearer tokens
type TokenService interface {
	Issue(username string, authorities []string) (string, error)
	SignClaims(claims *TokenClaims) (string, error)
	Verify(token string) (AccessClaims, error)
	IsExpired(claims AccessClaims) bool
	IsValid(username, token string) bool
}

// AttemptTracker counts failed logins per username
type AttemptTracker interface {
	RecordFailure(username string)
	ClearUser(username string)
	HasExceededLimit(username string) bool
}

// User is the stored account record the IdentityStore hands back. It carries
// only what the authentication flow needs; profile attributes stay with the
// owning service.
type User struct {
	ID                 string     `json:"id,omitempty"`
	Username           string     `json:"username,omitempty"`
	Email              string     `json:"email,omitempty"`
	PasswordHash       string     `json:"-"`
	Role               Role       `json:"role,omitempty"`
	Active             bool       `json:"active"`
	NotLocked          bool       `json:"not_locked"`
	JoinedAt           *time.Time `json:"joined_at,omitempty"`
	LastLoginAt        *time.Time `json:"last_login_at,omitempty"`
	LastLoginDisplayAt *time.Time `json:"last_login_display_at,omitempty"`
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] GATEKEEPER "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] GATEKEEPER "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] GATEKEEPER "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] GATEKEEPER "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
