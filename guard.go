package gatekeeper

import (
	"github.com/gofiber/fiber/v2"
)

// Guard builds route handlers that enforce authentication and authority
// requirements against the principal installed by the token middleware.
type Guard struct {
	responder  *Responder
	contextKey string
}

func NewGuard(responder *Responder, contextKey string) *Guard {
	if responder == nil {
		responder = NewResponder()
	}
	if contextKey == "" {
		contextKey = DefaultContextKey
	}
	return &Guard{
		responder:  responder,
		contextKey: contextKey,
	}
}

// Authenticated rejects requests that carry no principal.
func (g *Guard) Authenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if g.principal(c) == nil {
			return g.responder.Unauthenticated(c)
		}
		return c.Next()
	}
}

// Authority rejects unauthenticated requests, and authenticated requests
// whose principal lacks the given authority tag.
func (g *Guard) Authority(tag string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal := g.principal(c)
		if principal == nil {
			return g.responder.Unauthenticated(c)
		}
		if !principal.HasAuthority(tag) {
			return g.responder.AccessDenied(c)
		}
		return c.Next()
	}
}

func (g *Guard) principal(c *fiber.Ctx) *Principal {
	if principal, ok := c.Locals(g.contextKey).(*Principal); ok {
		return principal
	}
	return nil
}
