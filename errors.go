package gatekeeper

import (
	"strings"

	"github.com/goliatone/go-errors"
)

// ErrTokenMalformed covers every verification failure that is not expiry:
// bad encoding, signature mismatch, wrong signing method, issuer or audience
// mismatch. Callers get a single opaque failure so forgery attempts have no
// oracle to probe.
var ErrTokenMalformed = errors.New("Token cannot be verified", errors.CategoryAuth).
	WithTextCode("TOKEN_MALFORMED").
	WithCode(errors.CodeUnauthorized)

// ErrTokenExpired is returned by IsValid-style checks for syntactically valid
// but stale tokens.
var ErrTokenExpired = errors.New("Authentication token has expired", errors.CategoryAuth).
	WithTextCode("TOKEN_EXPIRED").
	WithCode(errors.CodeUnauthorized)

// ErrIdentityNotFound is the error we return for non found identities
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryNotFound).
	WithTextCode("IDENTITY_NOT_FOUND").
	WithCode(errors.CodeNotFound)

// ErrMismatchedHashAndPassword is the uniform bad-credentials failure.
// Unknown usernames collapse into it on purpose.
var ErrMismatchedHashAndPassword = errors.New("Username / password incorrect. Please try again", errors.CategoryAuth).
	WithTextCode("BAD_CREDENTIALS").
	WithCode(errors.CodeBadRequest)

// ErrAccountLocked is surfaced at login time once the failure limit has been
// exceeded, before any password comparison or token issuance.
var ErrAccountLocked = errors.New("Your account has been locked. Please contact administration", errors.CategoryAuth).
	WithTextCode("ACCOUNT_LOCKED").
	WithCode(errors.CodeUnauthorized)

// ErrAccountDisabled is surfaced for accounts flagged inactive.
var ErrAccountDisabled = errors.New("Your account has been disabled. If this is an error, please contact administration", errors.CategoryAuth).
	WithTextCode("ACCOUNT_DISABLED").
	WithCode(errors.CodeBadRequest)

// ErrNoEmptyString rejects empty passwords before hashing
var ErrNoEmptyString = errors.New("value must not be an empty string", errors.CategoryBadInput).
	WithTextCode("EMPTY_STRING").
	WithCode(errors.CodeBadRequest)

// ErrSigningKeyMissing indicates fatal signing-key misconfiguration; it is
// not a per-request condition.
var ErrSigningKeyMissing = errors.New("token signing key is not configured", errors.CategoryInternal).
	WithTextCode("SIGNING_KEY_MISSING").
	WithCode(errors.CodeInternal)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenExpired) {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	if hasTextCode(err, ErrTokenMalformed.TextCode) {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}

// IsAccountLockedError reports whether the failure is the lockout business rule
func IsAccountLockedError(err error) bool {
	return hasTextCode(err, ErrAccountLocked.TextCode)
}

// IsAccountDisabledError reports whether the failure is the disabled-account
// business rule
func IsAccountDisabledError(err error) bool {
	return hasTextCode(err, ErrAccountDisabled.TextCode)
}

// IsBadCredentialsError reports whether the failure is the uniform
// bad-credentials outcome
func IsBadCredentialsError(err error) bool {
	return hasTextCode(err, ErrMismatchedHashAndPassword.TextCode)
}

func hasTextCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var richErr *errors.Error
	if errors.As(err, &richErr) {
		return richErr.TextCode == code
	}
	return false
}
