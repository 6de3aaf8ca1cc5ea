package gatekeeper

import (
	"os"
	"strconv"
	"strings"
)

// Default configuration values. The signing key has no default: it is
// provisioned out of band and issuance fails without it.
const (
	DefaultIssuer     = "Gatekeeper, LLC"
	DefaultAudience   = "Gatekeeper Administration"
	DefaultAuthScheme = "Bearer"
	DefaultContextKey = "principal"
)

// SimpleConfig is a plain struct implementation of Config
type SimpleConfig struct {
	SigningKey      string
	SigningMethod   string
	Issuer          string
	Audience        []string
	TokenExpiration int
	AuthScheme      string
	ContextKey      string
}

var _ Config = (*SimpleConfig)(nil)

func (c *SimpleConfig) GetSigningKey() string {
	return c.SigningKey
}

func (c *SimpleConfig) GetSigningMethod() string {
	return c.SigningMethod
}

func (c *SimpleConfig) GetIssuer() string {
	if c.Issuer == "" {
		return DefaultIssuer
	}
	return c.Issuer
}

func (c *SimpleConfig) GetAudience() []string {
	if len(c.Audience) == 0 {
		return []string{DefaultAudience}
	}
	return c.Audience
}

func (c *SimpleConfig) GetTokenExpiration() int {
	if c.TokenExpiration <= 0 {
		return DefaultTokenExpiration
	}
	return c.TokenExpiration
}

func (c *SimpleConfig) GetAuthScheme() string {
	if c.AuthScheme == "" {
		return DefaultAuthScheme
	}
	return c.AuthScheme
}

func (c *SimpleConfig) GetContextKey() string {
	if c.ContextKey == "" {
		return DefaultContextKey
	}
	return c.ContextKey
}

// NewConfigFromEnv loads configuration from environment variables with safe
// defaults for everything except the signing key, which must be provisioned
// out of band (GATEKEEPER_SIGNING_KEY).
func NewConfigFromEnv() *SimpleConfig {
	cfg := &SimpleConfig{
		SigningKey:    os.Getenv("GATEKEEPER_SIGNING_KEY"),
		SigningMethod: os.Getenv("GATEKEEPER_SIGNING_METHOD"),
		Issuer:        os.Getenv("GATEKEEPER_ISSUER"),
		AuthScheme:    os.Getenv("GATEKEEPER_AUTH_SCHEME"),
		ContextKey:    os.Getenv("GATEKEEPER_CONTEXT_KEY"),
	}

	if raw := os.Getenv("GATEKEEPER_AUDIENCE"); raw != "" {
		for _, aud := range strings.Split(raw, ",") {
			if aud = strings.TrimSpace(aud); aud != "" {
				cfg.Audience = append(cfg.Audience, aud)
			}
		}
	}

	if raw := os.Getenv("GATEKEEPER_TOKEN_EXPIRATION"); raw != "" {
		if hours, err := strconv.Atoi(raw); err == nil && hours > 0 {
			cfg.TokenExpiration = hours
		}
	}

	return cfg
}
