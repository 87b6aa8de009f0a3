package lectures_test

import (
	"testing"
	"time"

	lectures "github.com/Najite/lecture-reminder"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionObjectAccessors(t *testing.T) {
	id := uuid.New()
	issued := time.Now().Add(-time.Minute)
	expires := time.Now().Add(time.Hour)

	session := &lectures.SessionObject{
		UserID:         id.String(),
		Email:          "ada@example.com",
		AccessToken:    "a-token",
		Issuer:         "test-issuer",
		IssuedAt:       &issued,
		ExpirationDate: &expires,
		Data:           map[string]any{"role": "lecturer"},
	}

	assert.Equal(t, id.String(), session.GetUserID())
	assert.Equal(t, "ada@example.com", session.GetEmail())
	assert.Equal(t, "a-token", session.GetAccessToken())
	assert.Equal(t, "test-issuer", session.GetIssuer())
	assert.Equal(t, &issued, session.GetIssuedAt())
	assert.Equal(t, &expires, session.GetExpiration())
	assert.Equal(t, "lecturer", session.GetData()["role"])

	parsed, err := session.GetUserUUID()
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	principal := session.Principal()
	assert.Equal(t, id.String(), principal.ID)
	assert.Equal(t, "ada@example.com", principal.Email)
}

func TestSessionObjectUUIDParseFailure(t *testing.T) {
	session := &lectures.SessionObject{UserID: "not-a-uuid"}
	_, err := session.GetUserUUID()
	assert.Error(t, err)
}

func TestSessionObjectString(t *testing.T) {
	session := lectures.SessionObject{
		UserID: "u1",
		Email:  "ada@example.com",
		Issuer: "test-issuer",
	}

	out := session.String()
	assert.Contains(t, out, "user=u1")
	assert.Contains(t, out, "email=ada@example.com")
	assert.Contains(t, out, "iat=<nil>")
}
