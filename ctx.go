package gatekeeper

import "context"

var principalCtxKey = &contextKey{"principal"}

type contextKey struct {
	name string
}

// Principal is the authenticated identity attached to one in-flight request.
// It is built from verified claims, scoped to a single request, and never
// shared between requests.
type Principal struct {
	Username    string   `json:"username"`
	Authorities []string `json:"authorities,omitempty"`
}

// HasAuthority checks whether the principal was granted a permission tag
func (p *Principal) HasAuthority(tag string) bool {
	if p == nil {
		return false
	}
	for _, granted := range p.Authorities {
		if granted == tag {
			return true
		}
	}
	return false
}

// WithPrincipal sets the Principal in the given context
func WithPrincipal(ctx context.Context, principal *Principal) context.Context {
	return context.WithValue(ctx, principalCtxKey, principal)
}

// PrincipalFromContext finds the principal from the context.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	raw, ok := ctx.Value(principalCtxKey).(*Principal)
	if !ok || raw == nil {
		return nil, false
	}
	return raw, true
}

// HasAuthority is a convenience function to check permissions directly from
// the standard context
func HasAuthority(ctx context.Context, tag string) bool {
	principal, ok := PrincipalFromContext(ctx)
	if !ok {
		return false
	}
	return principal.HasAuthority(tag)
}
