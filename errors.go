package gatekeeper

import (
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes give log consumers a stable identifier for the specific cause
// while the client-facing message stays uniform.
const (
	TextCodeBadRegistration    = "BAD_REGISTRATION"
	TextCodeDuplicateEmail     = "DUPLICATE_EMAIL"
	TextCodeInvalidCreds       = "INVALID_CREDENTIALS"
	TextCodeMissingAuth        = "MISSING_AUTHORIZATION"
	TextCodeTokenExpired       = "TOKEN_EXPIRED"
	TextCodeTokenMalformed     = "TOKEN_MALFORMED"
	TextCodeUserNotFound       = "USER_NOT_FOUND"
	TextCodeSigningUnavailable = "SIGNING_UNAVAILABLE"
	TextCodeEmptyPassword      = "EMPTY_PASSWORD"
)

// ErrBadRegistration is returned when a registration payload is missing
// required fields or carries non-string values.
var ErrBadRegistration = goerrors.New("Bad Request", goerrors.CategoryValidation).
	WithTextCode(TextCodeBadRegistration).
	WithCode(goerrors.CodeBadRequest)

// ErrDuplicateEmail is returned when registration targets an email that
// already has a user.
var ErrDuplicateEmail = goerrors.New("Conflict", goerrors.CategoryConflict).
	WithTextCode(TextCodeDuplicateEmail).
	WithCode(goerrors.CodeConflict)

// ErrInvalidCredentials covers both unknown user and wrong password so a
// caller cannot learn which one failed.
var ErrInvalidCredentials = goerrors.New("Invalid username or password", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(goerrors.CodeUnauthorized)

// ErrMissingAuthorization is returned when a protected route sees no bearer
// credential at all.
var ErrMissingAuthorization = goerrors.New("Unauthorized - invalid token", goerrors.CategoryAuth).
	WithTextCode(TextCodeMissingAuth).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenExpired shares its client message with the other verification
// failures; the text code records the cause for the logs.
var ErrTokenExpired = goerrors.New("Unauthorized - invalid token", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenMalformed covers signature mismatch, algorithm substitution, and
// undecodable tokens.
var ErrTokenMalformed = goerrors.New("Unauthorized - invalid token", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(goerrors.CodeUnauthorized)

// ErrUserNotFound is the store-level absence error. The flows translate it
// before it can reach a client.
var ErrUserNotFound = goerrors.New("user not found", goerrors.CategoryNotFound).
	WithTextCode(TextCodeUserNotFound).
	WithCode(goerrors.CodeNotFound)

// ErrSigningUnavailable is returned for every sign/verify call when key
// material was not loaded at startup. Infrastructure failure, not the
// caller's fault.
var ErrSigningUnavailable = goerrors.New("signing key material not loaded", goerrors.CategoryInternal).
	WithTextCode(TextCodeSigningUnavailable).
	WithCode(goerrors.CodeInternal)

// ErrMismatchedHashAndPassword is the hasher's mismatch sentinel
var ErrMismatchedHashAndPassword = goerrors.New("the credentials provided are invalid", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(goerrors.CodeUnauthorized)

// ErrNoEmptyString rejects empty passwords before they reach bcrypt
var ErrNoEmptyString = goerrors.New("password must not be empty", goerrors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword).
	WithCode(goerrors.CodeBadRequest)

// Normalize converts any error into a rich error carrying an HTTP status and
// a client-safe message. Errors that already carry a status keep it; fiber's
// own errors pass their status through; everything else collapses to a
// generic 500.
func Normalize(err error) *goerrors.Error {
	if err == nil {
		return nil
	}

	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		if rich.Code == 0 {
			return rich.WithCode(goerrors.CodeInternal)
		}
		return rich
	}

	return goerrors.Wrap(err, goerrors.CategoryInternal, "Internal Server Error").
		WithCode(goerrors.CodeInternal)
}

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}

	var rich *goerrors.Error
	if goerrors.As(err, &rich) && rich.TextCode == TextCodeTokenExpired {
		return true
	}

	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}

	var rich *goerrors.Error
	if goerrors.As(err, &rich) && rich.TextCode == TextCodeTokenMalformed {
		return true
	}

	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
