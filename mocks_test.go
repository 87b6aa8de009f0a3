package lectures_test

import (
	"context"
	"sync"
	"time"

	lectures "github.com/Najite/lecture-reminder"
	goerrors "github.com/goliatone/go-errors"
)

// fakeBackend is a scriptable IdentityBackend. Tests control the
// startup session and push events through Dispatch.
type fakeBackend struct {
	mu         sync.Mutex
	session    lectures.Session
	sessionErr error
	signInErr  error
	signUpErr  error
	signOutErr error

	handlers     []lectures.AuthEventHandler
	unsubscribed int

	sessionCalls int
	signInCalls  int
}

func (b *fakeBackend) GetCurrentSession(ctx context.Context) (lectures.Session, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sessionCalls++
	return b.session, b.sessionErr
}

func (b *fakeBackend) SubscribeAuthEvents(handler lectures.AuthEventHandler) lectures.AuthSubscription {
	b.mu.Lock()
	b.handlers = append(b.handlers, handler)
	b.mu.Unlock()

	return lectures.AuthSubscriptionFunc(func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.unsubscribed++
	})
}

func (b *fakeBackend) SignInWithPassword(ctx context.Context, email, password string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.signInCalls++
	return b.signInErr
}

func (b *fakeBackend) SignUp(ctx context.Context, email, password string, seed lectures.ProfileSeed) error {
	return b.signUpErr
}

func (b *fakeBackend) SignOut(ctx context.Context) error {
	return b.signOutErr
}

// Dispatch delivers the event to subscribers synchronously, the way a
// real backend does.
func (b *fakeBackend) Dispatch(event lectures.AuthEvent) {
	b.mu.Lock()
	handlers := make([]lectures.AuthEventHandler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.Unlock()

	for _, h := range handlers {
		h(event)
	}
}

func (b *fakeBackend) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handlers)
}

func (b *fakeBackend) Unsubscribed() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.unsubscribed
}

// fakeProfileStore is a ProfileStore over an in-memory map. Tests can
// inject latency, a hard block, or a transport error, and read back
// how many queries actually reached the store.
type fakeProfileStore struct {
	mu       sync.Mutex
	profiles map[string]*lectures.Profile
	err      error
	delay    time.Duration
	gate     chan struct{}
	calls    int
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{profiles: map[string]*lectures.Profile{}}
}

func (s *fakeProfileStore) put(id string, profile *lectures.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[id] = profile
}

func (s *fakeProfileStore) GetProfileByID(ctx context.Context, id string) (*lectures.Profile, error) {
	s.mu.Lock()
	s.calls++
	err := s.err
	delay := s.delay
	gate := s.gate
	profile, ok := s.profiles[id]
	s.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if delay > 0 {
		time.Sleep(delay)
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, goerrors.New("profile not found", goerrors.CategoryNotFound)
	}
	return profile, nil
}

func (s *fakeProfileStore) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// captureNotifier records every message pushed through it.
type captureNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (n *captureNotifier) Success(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, message)
}

func (n *captureNotifier) Error(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, message)
}

func (n *captureNotifier) Errors() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.errors))
	copy(out, n.errors)
	return out
}

func (n *captureNotifier) Successes() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.successes))
	copy(out, n.successes)
	return out
}

// captureSink records activity events in arrival order.
type captureSink struct {
	mu     sync.Mutex
	events []lectures.ActivityEvent
}

func (s *captureSink) Record(ctx context.Context, event lectures.ActivityEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *captureSink) Events() []lectures.ActivityEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]lectures.ActivityEvent, len(s.events))
	copy(out, s.events)
	return out
}

func (s *captureSink) Types() []lectures.ActivityEventType {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]lectures.ActivityEventType, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e.EventType)
	}
	return out
}

// quietLogger discards all log output.
type quietLogger struct{}

func (quietLogger) Debug(string, ...any) {}
func (quietLogger) Info(string, ...any)  {}
func (quietLogger) Warn(string, ...any)  {}
func (quietLogger) Error(string, ...any) {}

// fakeDirectory is an in-memory ProfileDirectory keyed by email.
type fakeDirectory struct {
	mu        sync.Mutex
	byEmail   map[string]*lectures.Profile
	byID      map[string]*lectures.Profile
	attempted int
	succeeded int
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		byEmail: map[string]*lectures.Profile{},
		byID:    map[string]*lectures.Profile{},
	}
}

func (d *fakeDirectory) add(profile *lectures.Profile) *fakeDirectory {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.byEmail[profile.Email] = profile
	d.byID[profile.ID.String()] = profile
	return d
}

func (d *fakeDirectory) GetProfileByID(ctx context.Context, id string) (*lectures.Profile, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if profile, ok := d.byID[id]; ok {
		return profile, nil
	}
	return nil, goerrors.New("profile not found", goerrors.CategoryNotFound)
}

func (d *fakeDirectory) GetByEmail(ctx context.Context, email string) (*lectures.Profile, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if profile, ok := d.byEmail[email]; ok {
		return profile, nil
	}
	return nil, goerrors.New("profile not found", goerrors.CategoryNotFound)
}

func (d *fakeDirectory) Register(ctx context.Context, profile *lectures.Profile) (*lectures.Profile, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.byEmail[profile.Email] = profile
	d.byID[profile.ID.String()] = profile
	return profile, nil
}

func (d *fakeDirectory) TrackAttemptedLogin(ctx context.Context, profile *lectures.Profile) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.attempted++
	profile.LoginAttempts++
	now := time.Now()
	profile.LoginAttemptAt = &now
	return nil
}

func (d *fakeDirectory) TrackSuccessfulLogin(ctx context.Context, profile *lectures.Profile) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.succeeded++
	profile.LoginAttempts = 0
	now := time.Now()
	profile.LoggedInAt = &now
	return nil
}
