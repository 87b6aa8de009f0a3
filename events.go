package lectures

import "time"

// AuthEventKind enumerates the auth lifecycle events delivered by an
// IdentityBackend. The set is closed: anything outside it is handled
// as a generic session update.
type AuthEventKind string

const (
	AuthEventSignedIn         AuthEventKind = "SIGNED_IN"
	AuthEventSignedOut        AuthEventKind = "SIGNED_OUT"
	AuthEventTokenRefreshed   AuthEventKind = "TOKEN_REFRESHED"
	AuthEventUserUpdated      AuthEventKind = "USER_UPDATED"
	AuthEventPasswordRecovery AuthEventKind = "PASSWORD_RECOVERY"
)

// IsKnown reports whether the kind belongs to the closed event set.
func (k AuthEventKind) IsKnown() bool {
	switch k {
	case AuthEventSignedIn, AuthEventSignedOut, AuthEventTokenRefreshed,
		AuthEventUserUpdated, AuthEventPasswordRecovery:
		return true
	default:
		return false
	}
}

// AuthEvent is the payload delivered to subscribers. Session is nil
// for SIGNED_OUT and may be nil for unrecognized kinds.
type AuthEvent struct {
	Kind       AuthEventKind
	Session    Session
	OccurredAt time.Time
}

// AuthEventHandler consumes auth lifecycle events. Handlers run one at
// a time; handler N returns before event N+1 is delivered.
type AuthEventHandler func(event AuthEvent)

// AuthSubscription detaches a previously registered handler.
type AuthSubscription interface {
	Unsubscribe()
}

// AuthSubscriptionFunc adapts a function to the AuthSubscription interface.
type AuthSubscriptionFunc func()

// Unsubscribe implements AuthSubscription.
func (f AuthSubscriptionFunc) Unsubscribe() {
	if f != nil {
		f()
	}
}
