package lectures_test

import (
	"testing"

	lectures "github.com/Najite/lecture-reminder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := lectures.HashPassword("sekret password")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "sekret password", hash)

	require.NoError(t, lectures.ComparePasswordAndHash("sekret password", hash))

	err = lectures.ComparePasswordAndHash("wrong password", hash)
	assert.ErrorIs(t, err, lectures.ErrMismatchedHashAndPassword)
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	_, err := lectures.HashPassword("")
	assert.ErrorIs(t, err, lectures.ErrNoEmptyString)
}

func TestRandomPasswordHash(t *testing.T) {
	h1 := lectures.RandomPasswordHash()
	h2 := lectures.RandomPasswordHash()
	assert.NotEmpty(t, h1)
	assert.NotEqual(t, h1, h2)
}
