package lectures

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Principal is the authenticated identity bound to the current session.
type Principal struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session holds attributes that are part of an auth session
type Session interface {
	GetUserID() string
	GetUserUUID() (uuid.UUID, error)
	GetEmail() string
	GetAccessToken() string
	GetIssuer() string
	GetIssuedAt() *time.Time
	GetExpiration() *time.Time
	GetData() map[string]any
}

// IdentityBackend is the identity/session provider the synchronizer
// reconciles against. Implementations must deliver subscribed events
// in arrival order, one handler invocation at a time.
type IdentityBackend interface {
	GetCurrentSession(ctx context.Context) (Session, error)
	SubscribeAuthEvents(handler AuthEventHandler) AuthSubscription
	SignInWithPassword(ctx context.Context, email, password string) error
	SignUp(ctx context.Context, email, password string, seed ProfileSeed) error
	SignOut(ctx context.Context) error
}

// ProfileStore retrieves the application profile keyed by principal id.
// A missing row is reported through a not-found error, distinct from
// transport failures.
type ProfileStore interface {
	GetProfileByID(ctx context.Context, id string) (*Profile, error)
}

// Notifier is a one-way sink for human readable outcome messages.
// Nothing is ever read back from it.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// ProfileSeed carries the profile attributes collected at sign-up.
type ProfileSeed struct {
	FullName          string `json:"full_name"`
	Role              Role   `json:"role"`
	Department        string `json:"department"`
	Level             string `json:"level"`
	NotificationEmail string `json:"notification_email"`
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetSigningMethod() string
	GetContextKey() string
	GetTokenExpiration() int
	GetTokenLookup() string
	GetAuthScheme() string
	GetIssuer() string
	GetAudience() []string
}

// PasswordAuthenticator authenticates passwords
type PasswordAuthenticator interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] LECTURES "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] LECTURES "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] LECTURES "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] LECTURES "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
