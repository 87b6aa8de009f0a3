package lectures_test

import (
	"errors"
	"testing"

	lectures "github.com/Najite/lecture-reminder"
	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
)

func TestErrorCategories(t *testing.T) {
	assert.Equal(t, goerrors.CategoryAuth, lectures.ErrTokenExpired.Category)
	assert.Equal(t, "TOKEN_EXPIRED", lectures.ErrTokenExpired.TextCode)

	assert.Equal(t, goerrors.CategoryAuth, lectures.ErrTokenMalformed.Category)
	assert.Equal(t, goerrors.CategoryConflict, lectures.ErrEmailTaken.Category)
	assert.Equal(t, "EMAIL_TAKEN", lectures.ErrEmailTaken.TextCode)
}

func TestIsNotFound(t *testing.T) {
	assert.False(t, lectures.IsNotFound(nil))
	assert.False(t, lectures.IsNotFound(errors.New("boom")))
	assert.True(t, lectures.IsNotFound(goerrors.New("missing", goerrors.CategoryNotFound)))
}

func TestIsTokenExpiredError(t *testing.T) {
	assert.False(t, lectures.IsTokenExpiredError(nil))
	assert.True(t, lectures.IsTokenExpiredError(lectures.ErrTokenExpired))
	assert.True(t, lectures.IsTokenExpiredError(errors.New("jwt: token is expired")))
	assert.False(t, lectures.IsTokenExpiredError(errors.New("boom")))
}

func TestIsMalformedError(t *testing.T) {
	assert.False(t, lectures.IsMalformedError(nil))
	assert.True(t, lectures.IsMalformedError(lectures.ErrTokenMalformed))
	assert.False(t, lectures.IsMalformedError(errors.New("boom")))
}
