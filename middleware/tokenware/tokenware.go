// Package tokenware provides a Fiber middleware that authenticates requests
// from a bearer token. It never terminates the request itself: a request
// without a usable token simply continues downstream unauthenticated, and the
// route guards decide whether that is acceptable.
package tokenware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// AccessClaims is the subset of verified token claims the middleware needs.
// It mirrors the claims interface of the root package so the two packages do
// not depend on each other.
type AccessClaims interface {
	Subject() string
	Authorities() []string
}

// Codec verifies raw token strings. It mirrors the token service of the root
// package for the same reason as AccessClaims.
type Codec interface {
	Verify(token string) (AccessClaims, error)
	IsValid(username, token string) bool
}

// Config holds the middleware wiring. Codec is required; everything else has
// a usable default.
type Config struct {
	// Codec verifies incoming tokens. Required.
	Codec Codec

	// ContextKey is the Locals key under which the principal is installed.
	ContextKey string

	// AuthScheme is the expected Authorization prefix, "Bearer" by default.
	AuthScheme string

	// PrincipalFactory converts verified claims into the value stored in the
	// request context. Required.
	PrincipalFactory func(claims AccessClaims) any

	// ContextEnricher installs the principal into the request's user context
	// so code below the HTTP layer can read it without Fiber.
	ContextEnricher func(ctx context.Context, claims AccessClaims) context.Context

	// Filter skips the middleware entirely when it returns true.
	Filter func(c *fiber.Ctx) bool
}

const defaultContextKey = "principal"
const defaultAuthScheme = "Bearer"

// New builds the authentication middleware. It panics when the configuration
// is unusable, since that is a programming error rather than a runtime
// condition.
func New(config ...Config) fiber.Handler {
	cfg := Config{}
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Codec == nil {
		panic("tokenware: Codec is required")
	}

	if cfg.PrincipalFactory == nil {
		panic("tokenware: PrincipalFactory is required")
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = defaultContextKey
	}

	if cfg.AuthScheme == "" {
		cfg.AuthScheme = defaultAuthScheme
	}

	return func(c *fiber.Ctx) error {
		if cfg.Filter != nil && cfg.Filter(c) {
			return c.Next()
		}

		// CORS preflights carry no credentials. Answer 200 and let the
		// request continue through the CORS layer.
		if c.Method() == fiber.MethodOptions {
			c.Status(fiber.StatusOK)
			return c.Next()
		}

		// A previous pass through this middleware already decided. Do not
		// overwrite its outcome.
		if _, done := c.Locals(cfg.ContextKey).(principalMarker); done {
			return c.Next()
		}

		token, ok := tokenFromHeader(c, cfg.AuthScheme)
		if !ok {
			return c.Next()
		}

		claims, err := cfg.Codec.Verify(token)
		if err != nil || claims.Subject() == "" || !cfg.Codec.IsValid(claims.Subject(), token) {
			// Invalid credentials leave the request anonymous, never
			// half-authenticated.
			c.Locals(cfg.ContextKey, nil)
			return c.Next()
		}

		c.Locals(cfg.ContextKey, cfg.PrincipalFactory(claims))

		if cfg.ContextEnricher != nil {
			c.SetUserContext(cfg.ContextEnricher(c.UserContext(), claims))
		}

		return c.Next()
	}
}

// principalMarker exists only for the idempotence check above; the concrete
// principal type lives in the root package.
type principalMarker interface {
	HasAuthority(tag string) bool
}

func tokenFromHeader(c *fiber.Ctx, scheme string) (string, bool) {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return "", false
	}

	prefix := scheme + " "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}

	token := strings.TrimSpace(header[len(prefix):])
	if token == "" {
		return "", false
	}

	return token, true
}
