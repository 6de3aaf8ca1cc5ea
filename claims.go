package gatekeeper

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims is the verified identity data carried inside a signed token
type AccessClaims interface {
	Subject() string
	Issuer() string
	Audience() []string
	Authorities() []string
	HasAuthority(tag string) bool
	Expires() time.Time
	IssuedAt() time.Time
}

// TokenClaims is the concrete wire representation of AccessClaims. The
// authorities claim mirrors the permission tags granted by the subject's role
// at issue time.
type TokenClaims struct {
	jwt.RegisteredClaims
	Grants []string `json:"authorities,omitempty"`
}

// Verify interface compliance
var _ AccessClaims = (*TokenClaims)(nil)

// Subject returns the subject claim
func (c *TokenClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// Issuer returns the issuer claim
func (c *TokenClaims) Issuer() string {
	return c.RegisteredClaims.Issuer
}

// Audience returns the audience claim
func (c *TokenClaims) Audience() []string {
	return c.RegisteredClaims.Audience
}

// Authorities returns a copy of the granted permission tags
func (c *TokenClaims) Authorities() []string {
	if len(c.Grants) == 0 {
		return nil
	}
	out := make([]string, len(c.Grants))
	copy(out, c.Grants)
	return out
}

// HasAuthority checks whether a permission tag was granted
func (c *TokenClaims) HasAuthority(tag string) bool {
	for _, grant := range c.Grants {
		if grant == tag {
			return true
		}
	}
	return false
}

// Expires returns the expiration time
func (c *TokenClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *TokenClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
