package lectures

import (
	"errors"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// ErrNoEmptyString guards against hashing empty passwords
var ErrNoEmptyString = errors.New("string must not be empty")

// ErrMismatchedHashAndPassword is the error for bad credentials
var ErrMismatchedHashAndPassword = errors.New("invalid email or password")

// ErrNoActiveSession is returned when sign-out runs without a session
var ErrNoActiveSession = errors.New("no active session")

// ErrUnableToDecodeSession unable to decode the session token
var ErrUnableToDecodeSession = errors.New("unable to decode session")

const (
	textCodeTokenExpired   = "TOKEN_EXPIRED"
	textCodeTokenMalformed = "TOKEN_MALFORMED"
	textCodeEmailTaken     = "EMAIL_TAKEN"
)

// ErrTokenExpired is returned when validating an expired session token.
var ErrTokenExpired = goerrors.New("session token is expired", goerrors.CategoryAuth).
	WithTextCode(textCodeTokenExpired).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenMalformed is returned for tokens that fail structural validation.
var ErrTokenMalformed = goerrors.New("session token is malformed", goerrors.CategoryAuth).
	WithTextCode(textCodeTokenMalformed).
	WithCode(goerrors.CodeUnauthorized)

// ErrEmailTaken is returned when sign-up collides with an existing profile.
var ErrEmailTaken = goerrors.New("a profile with this email already exists", goerrors.CategoryConflict).
	WithTextCode(textCodeEmailTaken).
	WithCode(goerrors.CodeConflict)

// IsNotFound reports whether err represents a missing record rather
// than a transport failure. The distinction matters to the
// synchronizer: not-found is an expected steady state for a principal
// mid-setup and is never logged as an error.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	return goerrors.IsNotFound(err)
}

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
	return strings.Contains(err.Error(), "token is malformed")
}
