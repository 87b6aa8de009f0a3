package lectures

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultProfileTimeout bounds how long a profile lookup may stay in
// flight before the synchronizer resolves it to "no profile".
var DefaultProfileTimeout = 10 * time.Second

// Snapshot is the self-consistent state tuple exposed to dependent
// UI. Profile is nil whenever the role is unknown; consumers must
// treat that as "role not recognized", never as an error.
type Snapshot struct {
	Principal   *Principal
	Session     Session
	Profile     *Profile
	Loading     bool
	Initialized bool
}

// Synchronizer reconciles (principal, session, profile, loading,
// initialized) against a startup session query and the backend's auth
// event stream. The startup reconciliation always completes before
// the event subscription is attached, and every state mutation is
// serialized on one mutex, so observers never see a half-updated
// tuple.
type Synchronizer struct {
	backend  IdentityBackend
	profiles ProfileStore
	notifier Notifier
	logger   Logger

	profileTimeout time.Duration
	fetches        singleflight.Group

	mu          sync.Mutex
	principal   *Principal
	session     Session
	profile     *Profile
	loading     bool
	initialized bool
	started     bool
	closed      bool
	sub         AuthSubscription
}

// NewSynchronizer returns a Synchronizer wired to the given backend
// and profile store. Call Start to run the startup reconciliation and
// attach the event stream.
func NewSynchronizer(backend IdentityBackend, profiles ProfileStore) *Synchronizer {
	return &Synchronizer{
		backend:        backend,
		profiles:       profiles,
		notifier:       logNotifier{logger: defLogger{}},
		logger:         defLogger{},
		profileTimeout: DefaultProfileTimeout,
	}
}

func (s *Synchronizer) WithLogger(logger Logger) *Synchronizer {
	if logger != nil {
		s.logger = logger
		if _, ok := s.notifier.(logNotifier); ok {
			s.notifier = logNotifier{logger: logger}
		}
	}
	return s
}

// WithNotifier sets the sink for human readable outcome messages.
func (s *Synchronizer) WithNotifier(notifier Notifier) *Synchronizer {
	s.notifier = normalizeNotifier(notifier)
	return s
}

// WithProfileTimeout overrides the bounded wait on profile lookups.
func (s *Synchronizer) WithProfileTimeout(d time.Duration) *Synchronizer {
	if d > 0 {
		s.profileTimeout = d
	}
	return s
}

// Start performs the two-phase boot: phase 1 awaits the backend's
// current-session query and settles the state tuple; phase 2 attaches
// the auth event subscription. Phase 1 strictly precedes phase 2 so
// no event is ever handled against uninitialized state. Start never
// fails: backend errors degrade to the signed-out shape with
// initialized set, so the UI can render a sign-in prompt instead of
// hanging.
func (s *Synchronizer) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started || s.closed {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.loading = true
	s.mu.Unlock()

	session, err := s.backend.GetCurrentSession(ctx)
	switch {
	case err != nil:
		s.logger.Error("session restore failed: %v", err)
		s.applyClear()
	case session == nil:
		s.applyClear()
	default:
		s.reconcile(ctx, session)
	}

	sub := s.backend.SubscribeAuthEvents(s.handleAuthEvent)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		sub.Unsubscribe()
		return
	}
	s.sub = sub
	s.mu.Unlock()
}

// Close detaches the event subscription and marks the synchronizer
// dead. Async results that settle afterwards are discarded instead of
// applied.
func (s *Synchronizer) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	sub := s.sub
	s.sub = nil
	s.mu.Unlock()

	if sub != nil {
		sub.Unsubscribe()
	}
}

// Snapshot returns a copy of the current state tuple.
func (s *Synchronizer) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Principal:   s.principal,
		Session:     s.session,
		Profile:     s.profile,
		Loading:     s.loading,
		Initialized: s.initialized,
	}
}

// Role returns the current profile role. ok is false while the
// profile is absent or carries an unrecognized role.
func (s *Synchronizer) Role() (Role, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return "", false
	}
	return ParseRole(string(s.profile.Role))
}

func (s *Synchronizer) hasRole(role Role) bool {
	current, ok := s.Role()
	return ok && current == role
}

func (s *Synchronizer) IsAdmin() bool    { return s.hasRole(RoleAdmin) }
func (s *Synchronizer) IsLecturer() bool { return s.hasRole(RoleLecturer) }
func (s *Synchronizer) IsStudent() bool  { return s.hasRole(RoleStudent) }

// SignIn forwards to the backend. Credential errors are surfaced
// verbatim through the notifier; the state tuple is only changed by
// the SIGNED_IN event the backend dispatches on success.
func (s *Synchronizer) SignIn(ctx context.Context, email, password string) error {
	s.setLoading(true)
	defer s.setLoading(false)

	if err := s.backend.SignInWithPassword(ctx, email, password); err != nil {
		s.notifier.Error(err.Error())
		return err
	}

	s.notifier.Success("Signed in successfully")
	return nil
}

// SignUp creates an account with the given profile seed.
func (s *Synchronizer) SignUp(ctx context.Context, email, password string, seed ProfileSeed) error {
	s.setLoading(true)
	defer s.setLoading(false)

	if err := s.backend.SignUp(ctx, email, password, seed); err != nil {
		s.notifier.Error(err.Error())
		return err
	}

	s.notifier.Success("Account created successfully")
	return nil
}

// SignOut forwards to the backend; the SIGNED_OUT event clears state.
func (s *Synchronizer) SignOut(ctx context.Context) error {
	s.setLoading(true)
	defer s.setLoading(false)

	if err := s.backend.SignOut(ctx); err != nil {
		s.notifier.Error(err.Error())
		return err
	}

	s.notifier.Success("Signed out")
	return nil
}

// FetchProfile resolves the profile for a principal id, bounded by
// the profile timeout. Concurrent calls for the same id collapse into
// one store query and observe the same outcome. Not-found, transport
// errors, and timeouts all resolve to nil rather than propagating.
func (s *Synchronizer) FetchProfile(ctx context.Context, principalID string) *Profile {
	v, _, _ := s.fetches.Do(principalID, func() (any, error) {
		return s.lookupProfile(ctx, principalID), nil
	})

	profile, _ := v.(*Profile)
	return profile
}

func (s *Synchronizer) lookupProfile(ctx context.Context, principalID string) *Profile {
	ctx, cancel := context.WithTimeout(ctx, s.profileTimeout)
	defer cancel()

	type result struct {
		profile *Profile
		err     error
	}

	out := make(chan result, 1)
	go func() {
		profile, err := s.profiles.GetProfileByID(ctx, principalID)
		out <- result{profile: profile, err: err}
	}()

	select {
	case <-ctx.Done():
		s.logger.Warn("profile fetch for %s gave up: %v", principalID, ctx.Err())
		return nil
	case res := <-out:
		if res.err != nil {
			if IsNotFound(res.err) {
				// expected while a principal is mid-setup
				return nil
			}
			s.logger.Error("profile fetch for %s failed: %v", principalID, res.err)
			return nil
		}
		return res.profile
	}
}

// handleAuthEvent is the dispatch table for the event stream. The
// backend delivers events in arrival order, one at a time, so each
// case runs to completion (including its profile fetch) before the
// next event is handled.
func (s *Synchronizer) handleAuthEvent(event AuthEvent) {
	switch event.Kind {
	case AuthEventSignedOut:
		s.applyClear()
	case AuthEventTokenRefreshed:
		// refresh does not change identity: swap the session, leave
		// principal and profile untouched
		s.applySessionSwap(event.Session)
	case AuthEventSignedIn, AuthEventUserUpdated, AuthEventPasswordRecovery:
		s.reconcile(context.Background(), event.Session)
	default:
		// unrecognized kinds are generic session updates
		s.reconcile(context.Background(), event.Session)
	}
}

// reconcile adopts the session and principal, refetches the profile
// for the (possibly new) principal, and settles loading/initialized.
func (s *Synchronizer) reconcile(ctx context.Context, session Session) {
	if session == nil {
		s.applyClear()
		return
	}

	principal := Principal{ID: session.GetUserID(), Email: session.GetEmail()}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.loading = true
	s.session = session
	if s.principal == nil || s.principal.ID != principal.ID {
		// never leave the previous principal's profile visible
		s.profile = nil
	}
	s.principal = &principal
	s.mu.Unlock()

	profile := s.FetchProfile(ctx, principal.ID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if s.principal != nil && s.principal.ID == principal.ID {
		s.profile = profile
	}
	s.loading = false
	s.initialized = true
}

// applyClear collapses state to the signed-out shape.
func (s *Synchronizer) applyClear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.principal = nil
	s.session = nil
	s.profile = nil
	s.loading = false
	s.initialized = true
}

// applySessionSwap replaces the session wholesale without touching
// principal or profile.
func (s *Synchronizer) applySessionSwap(session Session) {
	if session == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.session = session
	s.loading = false
	s.initialized = true
}

func (s *Synchronizer) setLoading(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.loading = v
}
