package lectures

import (
	"context"
	"strings"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
)

// MaxLoginAttempts is the maximum number of attempts a profile gets
// in a cool down period
var MaxLoginAttempts = 5

// CoolDownPeriod is the period in which we enforce a cool down
var CoolDownPeriod = "24h"

// ProfileDirectory is the narrow store surface the backend needs.
// The Profiles repository satisfies it.
type ProfileDirectory interface {
	GetProfileByID(ctx context.Context, id string) (*Profile, error)
	GetByEmail(ctx context.Context, email string) (*Profile, error)
	Register(ctx context.Context, profile *Profile) (*Profile, error)
	TrackAttemptedLogin(ctx context.Context, profile *Profile) error
	TrackSuccessfulLogin(ctx context.Context, profile *Profile) error
}

var _ IdentityBackend = (*LocalBackend)(nil)

// LocalBackend is an IdentityBackend backed by the profiles
// repository: password verification with attempt tracking, JWT
// session minting, and an ordered auth event stream. Events are
// dispatched synchronously, one at a time, in subscription order.
type LocalBackend struct {
	directory    ProfileDirectory
	tokens       TokenService
	logger       Logger
	activitySink ActivitySink

	mu      sync.Mutex
	current Session

	subMu    sync.Mutex
	handlers map[int]AuthEventHandler
	order    []int
	nextID   int

	dispatchMu sync.Mutex
}

// NewLocalBackend builds a backend over the given directory and
// token service.
func NewLocalBackend(directory ProfileDirectory, tokens TokenService) *LocalBackend {
	return &LocalBackend{
		directory:    directory,
		tokens:       tokens,
		logger:       defLogger{},
		activitySink: noopActivitySink{},
		handlers:     map[int]AuthEventHandler{},
	}
}

func (b *LocalBackend) WithLogger(logger Logger) *LocalBackend {
	if logger != nil {
		b.logger = logger
	}
	return b
}

// WithActivitySink configures an ActivitySink for emitting auth events.
func (b *LocalBackend) WithActivitySink(sink ActivitySink) *LocalBackend {
	b.activitySink = normalizeActivitySink(sink)
	return b
}

// GetCurrentSession returns the restored session, or nil when signed out.
func (b *LocalBackend) GetCurrentSession(ctx context.Context) (Session, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current, nil
}

// SubscribeAuthEvents registers a handler for the event stream.
// Handlers attached later receive only events dispatched after the
// subscription, in arrival order.
func (b *LocalBackend) SubscribeAuthEvents(handler AuthEventHandler) AuthSubscription {
	b.subMu.Lock()
	id := b.nextID
	b.nextID++
	b.handlers[id] = handler
	b.order = append(b.order, id)
	b.subMu.Unlock()

	return AuthSubscriptionFunc(func() {
		b.subMu.Lock()
		defer b.subMu.Unlock()
		delete(b.handlers, id)
		for i, v := range b.order {
			if v == id {
				b.order = append(b.order[:i], b.order[i+1:]...)
				break
			}
		}
	})
}

// SignInWithPassword verifies credentials and, on success, installs a
// fresh session and dispatches SIGNED_IN.
func (b *LocalBackend) SignInWithPassword(ctx context.Context, email, password string) error {
	profile, err := b.directory.GetByEmail(ctx, email)
	if err != nil {
		if IsNotFound(err) {
			b.emitActivity(ctx, ActivityEventLoginFailure, ActorRef{Type: "unknown"}, "", map[string]any{
				"email": email,
			})
			return ErrMismatchedHashAndPassword
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve profile during sign in")
	}

	if profile.LoginAttemptAt != nil {
		expired, err := IsOutsideThresholdPeriod(*profile.LoginAttemptAt, CoolDownPeriod)
		if err != nil {
			return err
		}
		if expired {
			profile.LoginAttempts = 0
		}
	}

	if profile.LoginAttempts >= MaxLoginAttempts {
		b.emitActivity(ctx, ActivityEventLoginFailure, b.actorFromProfile(profile), profile.ID.String(), map[string]any{
			"email":  email,
			"reason": "too many attempts",
		})
		return goerrors.New("too many sign in attempts, try again later", goerrors.CategoryAuth).
			WithCode(goerrors.CodeUnauthorized)
	}

	if err := ComparePasswordAndHash(password, profile.PasswordHash); err != nil {
		if trackErr := b.directory.TrackAttemptedLogin(ctx, profile); trackErr != nil {
			b.logger.Warn("track attempted login: %v", trackErr)
		}
		b.emitActivity(ctx, ActivityEventLoginFailure, b.actorFromProfile(profile), profile.ID.String(), map[string]any{
			"email": email,
		})
		return ErrMismatchedHashAndPassword
	}

	if err := b.directory.TrackSuccessfulLogin(ctx, profile); err != nil {
		b.logger.Warn("track successful login: %v", err)
	}

	session, err := b.installSession(profile)
	if err != nil {
		return err
	}

	b.emitActivity(ctx, ActivityEventLoginSuccess, b.actorFromProfile(profile), profile.ID.String(), map[string]any{
		"email": email,
	})

	b.dispatch(AuthEvent{Kind: AuthEventSignedIn, Session: session, OccurredAt: time.Now()})
	return nil
}

// SignUp registers a profile seeded from the form and signs the new
// account in. Profile ids are derived deterministically from the
// email so re-registration attempts collide instead of duplicating.
func (b *LocalBackend) SignUp(ctx context.Context, email, password string, seed ProfileSeed) error {
	email = strings.ToLower(strings.TrimSpace(email))

	if _, err := b.directory.GetByEmail(ctx, email); err == nil {
		return ErrEmailTaken
	} else if !IsNotFound(err) {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check profile email")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid password provided")
	}

	role := seed.Role
	if !role.IsValid() {
		role = RoleStudent
	}

	profile := &Profile{
		Email:             email,
		FullName:          seed.FullName,
		Role:              role,
		Department:        seed.Department,
		Level:             seed.Level,
		NotificationEmail: seed.NotificationEmail,
		PasswordHash:      hash,
	}

	if id, err := hashid.NewUUID(email); err == nil {
		profile.ID = id
	}

	created, err := b.directory.Register(ctx, profile)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to register profile")
	}

	b.emitActivity(ctx, ActivityEventSignUp, b.actorFromProfile(created), created.ID.String(), map[string]any{
		"email": email,
		"role":  string(created.Role),
	})

	session, err := b.installSession(created)
	if err != nil {
		return err
	}

	b.dispatch(AuthEvent{Kind: AuthEventSignedIn, Session: session, OccurredAt: time.Now()})
	return nil
}

// SignOut drops the current session and dispatches SIGNED_OUT.
func (b *LocalBackend) SignOut(ctx context.Context) error {
	b.mu.Lock()
	current := b.current
	b.current = nil
	b.mu.Unlock()

	if current == nil {
		return ErrNoActiveSession
	}

	b.emitActivity(ctx, ActivityEventSignOut, ActorRef{ID: current.GetUserID(), Type: "user"}, current.GetUserID(), nil)

	b.dispatch(AuthEvent{Kind: AuthEventSignedOut, OccurredAt: time.Now()})
	return nil
}

// RefreshSession mints a replacement token for the current principal
// and dispatches TOKEN_REFRESHED. Identity does not change.
func (b *LocalBackend) RefreshSession(ctx context.Context) error {
	b.mu.Lock()
	current := b.current
	b.mu.Unlock()

	if current == nil {
		return ErrNoActiveSession
	}

	profile, err := b.directory.GetProfileByID(ctx, current.GetUserID())
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load profile during refresh")
	}

	session, err := b.installSession(profile)
	if err != nil {
		return err
	}

	b.emitActivity(ctx, ActivityEventTokenRefreshed, b.actorFromProfile(profile), profile.ID.String(), nil)

	b.dispatch(AuthEvent{Kind: AuthEventTokenRefreshed, Session: session, OccurredAt: time.Now()})
	return nil
}

// EmitUserUpdated dispatches USER_UPDATED against the current
// session. Call it after mutating the signed-in user's profile so
// dependent state refetches.
func (b *LocalBackend) EmitUserUpdated(ctx context.Context) error {
	b.mu.Lock()
	current := b.current
	b.mu.Unlock()

	if current == nil {
		return ErrNoActiveSession
	}

	b.dispatch(AuthEvent{Kind: AuthEventUserUpdated, Session: current, OccurredAt: time.Now()})
	return nil
}

func (b *LocalBackend) installSession(profile *Profile) (Session, error) {
	token, err := b.tokens.Generate(profile)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to mint session token")
	}

	claims, err := b.tokens.Validate(token)
	if err != nil {
		return nil, err
	}

	session, err := sessionFromClaims(claims, token)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	b.current = session
	b.mu.Unlock()

	return session, nil
}

// dispatch delivers the event to every subscriber in subscription
// order. The dispatch mutex guarantees event N's handlers finish
// before event N+1 starts.
func (b *LocalBackend) dispatch(event AuthEvent) {
	b.dispatchMu.Lock()
	defer b.dispatchMu.Unlock()

	b.subMu.Lock()
	handlers := make([]AuthEventHandler, 0, len(b.order))
	for _, id := range b.order {
		if h, ok := b.handlers[id]; ok {
			handlers = append(handlers, h)
		}
	}
	b.subMu.Unlock()

	for _, h := range handlers {
		h(event)
	}
}

func (b *LocalBackend) emitActivity(ctx context.Context, eventType ActivityEventType, actor ActorRef, subjectID string, metadata map[string]any) {
	sink := normalizeActivitySink(b.activitySink)
	event := ActivityEvent{
		EventType: eventType,
		Actor:     actor,
		SubjectID: subjectID,
		Metadata:  metadata,
	}

	if event.Metadata == nil {
		event.Metadata = map[string]any{}
	}

	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	if err := sink.Record(ctx, event); err != nil {
		b.logger.Warn("activity sink record error: %v", err)
	}
}

func (b *LocalBackend) actorFromProfile(profile *Profile) ActorRef {
	if profile == nil {
		return ActorRef{Type: "unknown"}
	}

	return ActorRef{
		ID:   profile.ID.String(),
		Type: "user",
	}
}
