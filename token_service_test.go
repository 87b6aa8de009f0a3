package lectures_test

import (
	"testing"
	"time"

	lectures "github.com/Najite/lecture-reminder"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService() lectures.TokenService {
	return lectures.NewTokenService(
		[]byte("test-signing-key"),
		24,
		"test-issuer",
		jwt.ClaimStrings{"test:audience"},
		quietLogger{},
	)
}

func TestTokenRoundTrip(t *testing.T) {
	tokens := newTestTokenService()
	profile := testProfile("", "ada@example.com", lectures.RoleLecturer)

	token, err := tokens.Generate(profile)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := tokens.Validate(token)
	require.NoError(t, err)

	assert.Equal(t, profile.ID.String(), claims.Subject())
	assert.Equal(t, profile.ID.String(), claims.UserID())
	assert.Equal(t, "ada@example.com", claims.Email())
	assert.Equal(t, "test-issuer", claims.Issuer())
	assert.Equal(t, "lecturer", claims.Role())
	assert.True(t, claims.HasRole("lecturer"))
	assert.True(t, claims.IsAtLeast(lectures.RoleStudent))
	assert.False(t, claims.IsAtLeast(lectures.RoleAdmin))
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.Expires(), time.Minute)
}

func TestTokenGenerateRequiresProfile(t *testing.T) {
	tokens := newTestTokenService()
	_, err := tokens.Generate(nil)
	assert.Error(t, err)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	tokens := newTestTokenService()
	profile := testProfile("", "ada@example.com", lectures.RoleStudent)

	now := time.Now()
	claims := &lectures.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "test-issuer",
			Subject:   profile.ID.String(),
			Audience:  jwt.ClaimStrings{"test:audience"},
			IssuedAt:  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
		},
		UID:       profile.ID.String(),
		UserEmail: profile.Email,
	}

	token, err := tokens.SignClaims(claims)
	require.NoError(t, err)

	_, err = tokens.Validate(token)
	require.Error(t, err)
	assert.True(t, lectures.IsTokenExpiredError(err))
	assert.False(t, lectures.IsMalformedError(err))
}

func TestValidateRejectsGarbage(t *testing.T) {
	tokens := newTestTokenService()

	_, err := tokens.Validate("not.a.token")
	require.Error(t, err)
	assert.True(t, lectures.IsMalformedError(err))
}

func TestValidateRejectsWrongSigningKey(t *testing.T) {
	tokens := newTestTokenService()
	other := lectures.NewTokenService(
		[]byte("a-different-key"),
		24,
		"test-issuer",
		jwt.ClaimStrings{"test:audience"},
		quietLogger{},
	)

	profile := testProfile("", "ada@example.com", lectures.RoleStudent)
	token, err := other.Generate(profile)
	require.NoError(t, err)

	_, err = tokens.Validate(token)
	assert.Error(t, err)
}

func TestValidateRejectsWrongIssuer(t *testing.T) {
	tokens := newTestTokenService()
	other := lectures.NewTokenService(
		[]byte("test-signing-key"),
		24,
		"someone-else",
		jwt.ClaimStrings{"test:audience"},
		quietLogger{},
	)

	profile := testProfile("", "ada@example.com", lectures.RoleStudent)
	token, err := other.Generate(profile)
	require.NoError(t, err)

	_, err = tokens.Validate(token)
	assert.Error(t, err)
}
