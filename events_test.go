package lectures_test

import (
	"testing"

	lectures "github.com/Najite/lecture-reminder"
	"github.com/stretchr/testify/assert"
)

func TestAuthEventKindIsKnown(t *testing.T) {
	known := []lectures.AuthEventKind{
		lectures.AuthEventSignedIn,
		lectures.AuthEventSignedOut,
		lectures.AuthEventTokenRefreshed,
		lectures.AuthEventUserUpdated,
		lectures.AuthEventPasswordRecovery,
	}
	for _, kind := range known {
		assert.True(t, kind.IsKnown(), string(kind))
	}

	assert.False(t, lectures.AuthEventKind("MFA_CHALLENGE_VERIFIED").IsKnown())
	assert.False(t, lectures.AuthEventKind("").IsKnown())
}

func TestAuthSubscriptionFunc(t *testing.T) {
	called := 0
	sub := lectures.AuthSubscriptionFunc(func() { called++ })
	sub.Unsubscribe()
	assert.Equal(t, 1, called)

	var nilSub lectures.AuthSubscriptionFunc
	assert.NotPanics(t, func() { nilSub.Unsubscribe() })
}
