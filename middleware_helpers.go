package gatekeeper

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-gatekeeper/middleware/tokenware"
)

// codecAdapter exposes a TokenService through the middleware's local Codec
// interface. The claim types are structurally compatible, only the declared
// return type differs.
type codecAdapter struct {
	ts TokenService
}

var _ tokenware.Codec = codecAdapter{}

func (a codecAdapter) Verify(token string) (tokenware.AccessClaims, error) {
	claims, err := a.ts.Verify(token)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func (a codecAdapter) IsValid(username, token string) bool {
	return a.ts.IsValid(username, token)
}

// PrincipalFromClaims builds the request principal installed by the
// middleware on successful verification.
func PrincipalFromClaims(claims tokenware.AccessClaims) any {
	return &Principal{
		Username:    claims.Subject(),
		Authorities: claims.Authorities(),
	}
}

// NewInterceptor wires a TokenService into the request authentication
// middleware using the module's configuration.
func NewInterceptor(cfg Config, ts TokenService) fiber.Handler {
	return tokenware.New(tokenware.Config{
		Codec:            codecAdapter{ts: ts},
		ContextKey:       cfg.GetContextKey(),
		AuthScheme:       cfg.GetAuthScheme(),
		PrincipalFactory: PrincipalFromClaims,
		ContextEnricher: func(ctx context.Context, claims tokenware.AccessClaims) context.Context {
			return WithPrincipal(ctx, &Principal{
				Username:    claims.Subject(),
				Authorities: claims.Authorities(),
			})
		},
	})
}
