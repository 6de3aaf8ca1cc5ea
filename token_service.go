package gatekeeper

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// DefaultTokenExpiration is the token lifetime in hours when the
// configuration does not provide one.
const DefaultTokenExpiration = 24

// TokenServiceImpl implements the TokenService interface
type TokenServiceImpl struct {
	signingKey      []byte
	signingMethod   *jwt.SigningMethodHMAC
	tokenExpiration int
	issuer          string
	audience        jwt.ClaimStrings
	logger          Logger
	now             func() time.Time
}

// NewTokenService creates a new TokenService instance
func NewTokenService(signingKey []byte, tokenExpiration int, issuer string, audience []string, logger Logger) *TokenServiceImpl {
	if logger == nil {
		logger = defLogger{}
	}
	if tokenExpiration <= 0 {
		tokenExpiration = DefaultTokenExpiration
	}

	var aud jwt.ClaimStrings
	if len(audience) > 0 {
		aud = make(jwt.ClaimStrings, len(audience))
		copy(aud, audience)
	}

	return &TokenServiceImpl{
		signingKey:      signingKey,
		signingMethod:   jwt.SigningMethodHS512,
		tokenExpiration: tokenExpiration,
		issuer:          issuer,
		audience:        aud,
		logger:          logger,
		now:             time.Now,
	}
}

// NewTokenServiceFromConfig builds a TokenService from a Config
func NewTokenServiceFromConfig(cfg Config) *TokenServiceImpl {
	ts := NewTokenService(
		[]byte(cfg.GetSigningKey()),
		cfg.GetTokenExpiration(),
		cfg.GetIssuer(),
		cfg.GetAudience(),
		nil,
	)
	if method, ok := hmacMethod(cfg.GetSigningMethod()); ok {
		ts.signingMethod = method
	}
	return ts
}

// WithLogger overrides the logger used for verification failures
func (ts *TokenServiceImpl) WithLogger(logger Logger) *TokenServiceImpl {
	if logger != nil {
		ts.logger = logger
	}
	return ts
}

// WithClock injects a custom clock (useful for tests)
func (ts *TokenServiceImpl) WithClock(clock func() time.Time) *TokenServiceImpl {
	if clock != nil {
		ts.now = clock
	}
	return ts
}

// Issue creates a signed token carrying the username as subject plus the
// granted authority tags. Issuance fails only on signing-key
// misconfiguration, never per request.
func (ts *TokenServiceImpl) Issue(username string, authorities []string) (string, error) {
	now := ts.now()

	var aud jwt.ClaimStrings
	if len(ts.audience) > 0 {
		aud = make(jwt.ClaimStrings, len(ts.audience))
		copy(aud, ts.audience)
	}

	var grants []string
	if len(authorities) > 0 {
		grants = make([]string, len(authorities))
		copy(grants, authorities)
	}

	claims := &TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   username,
			Audience:  aud,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(ts.tokenExpiration) * time.Hour)),
		},
		Grants: grants,
	}

	ensureTokenID(&claims.RegisteredClaims)

	return ts.SignClaims(claims)
}

// SignClaims signs arbitrary token claims using the configured signing key.
func (ts *TokenServiceImpl) SignClaims(claims *TokenClaims) (string, error) {
	if claims == nil {
		return "", errors.New("claims must not be nil", errors.CategoryInternal)
	}

	if len(ts.signingKey) == 0 {
		return "", ErrSigningKeyMissing
	}

	token := jwt.NewWithClaims(ts.signingMethod, claims)

	signedString, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign token")
	}

	return signedString, nil
}

// Verify parses the token and checks signature, signing method, issuer, and
// audience. It does NOT check expiry: that lives in IsExpired so callers can
// tell a forged token from a stale one.
func (ts *TokenServiceImpl) Verify(tokenString string) (AccessClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(t *jwt.Token) (any, error) {
		method, ok := t.Method.(*jwt.SigningMethodHMAC)
		if !ok || method.Alg() != ts.signingMethod.Alg() {
			ts.logger.Error("TokenService verify encountered unexpected signing method: %v", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, jwt.WithoutClaimsValidation())

	if err != nil {
		return nil, errors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).
			WithTextCode(ErrTokenMalformed.TextCode)
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		ts.logger.Error("TokenService verify could not decode claims")
		return nil, ErrTokenMalformed
	}

	if ts.issuer != "" && claims.Issuer() != ts.issuer {
		return nil, ErrTokenMalformed
	}

	if len(ts.audience) > 0 && !audienceMatch(ts.audience, claims.RegisteredClaims.Audience) {
		return nil, ErrTokenMalformed
	}

	return claims, nil
}

// IsExpired compares the expiry claim against the local wall clock. Clock
// skew is not compensated.
func (ts *TokenServiceImpl) IsExpired(claims AccessClaims) bool {
	if claims == nil {
		return true
	}
	return !claims.Expires().After(ts.now())
}

// IsValid is the convenience combinator: non-empty username, verified
// signature, and not yet expired.
func (ts *TokenServiceImpl) IsValid(username, token string) bool {
	if username == "" {
		return false
	}

	claims, err := ts.Verify(token)
	if err != nil {
		return false
	}

	return !ts.IsExpired(claims)
}

func ensureTokenID(claims *jwt.RegisteredClaims) {
	if claims.ID == "" {
		claims.ID = uuid.NewString()
	}
}

func audienceMatch(want, got jwt.ClaimStrings) bool {
	for _, w := range want {
		for _, g := range got {
			if w == g {
				return true
			}
		}
	}
	return false
}

func hmacMethod(alg string) (*jwt.SigningMethodHMAC, bool) {
	switch alg {
	case jwt.SigningMethodHS256.Alg():
		return jwt.SigningMethodHS256, true
	case jwt.SigningMethodHS384.Alg():
		return jwt.SigningMethodHS384, true
	case jwt.SigningMethodHS512.Alg(), "":
		return jwt.SigningMethodHS512, true
	default:
		return nil, false
	}
}
