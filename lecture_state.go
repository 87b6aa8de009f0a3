package lectures

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

const (
	textCodeInvalidTransition = "INVALID_LECTURE_STATE_TRANSITION"
	textCodeTerminalState     = "TERMINAL_LECTURE_STATE"
)

// ErrInvalidTransition is returned when a requested status change is not allowed.
var ErrInvalidTransition = goerrors.New("invalid lecture state transition", goerrors.CategoryValidation).
	WithTextCode(textCodeInvalidTransition).
	WithCode(goerrors.CodeBadRequest)

// ErrTerminalState is returned when attempting to move away from a terminal status (e.g., cancelled).
var ErrTerminalState = goerrors.New("lecture state is terminal", goerrors.CategoryConflict).
	WithTextCode(textCodeTerminalState).
	WithCode(goerrors.CodeConflict)

// LectureStateMachine defines lifecycle operations for lectures.
type LectureStateMachine interface {
	Transition(ctx context.Context, actor ActorRef, lecture *Lecture, target LectureStatus) (*Lecture, error)
	CurrentStatus(lecture *Lecture) LectureStatus
}

// StateMachineOption customizes state machine construction.
type StateMachineOption func(*lectureStateMachine)

// WithStateMachineClock injects a custom clock (useful for tests).
func WithStateMachineClock(clock func() time.Time) StateMachineOption {
	return func(sm *lectureStateMachine) {
		if clock != nil {
			sm.now = clock
		}
	}
}

// WithStateMachineActivitySink sets the ActivitySink used to publish lifecycle events.
func WithStateMachineActivitySink(sink ActivitySink) StateMachineOption {
	return func(sm *lectureStateMachine) {
		sm.activitySink = normalizeActivitySink(sink)
	}
}

// WithStateMachineLogger overrides the logger used for sink failures.
func WithStateMachineLogger(logger Logger) StateMachineOption {
	return func(sm *lectureStateMachine) {
		if logger != nil {
			sm.logger = logger
		}
	}
}

// NewLectureStateMachine returns the default implementation backed by
// the provided repository. A nil repository yields an in-memory
// machine that mutates the passed record only.
func NewLectureStateMachine(lectures Lectures, opts ...StateMachineOption) LectureStateMachine {
	sm := &lectureStateMachine{
		lectures: lectures,
		transitions: map[LectureStatus]map[LectureStatus]struct{}{
			LectureStatusScheduled: {
				LectureStatusOngoing:   {},
				LectureStatusCancelled: {},
			},
			LectureStatusOngoing: {
				LectureStatusCompleted: {},
				LectureStatusCancelled: {},
			},
		},
		now:          time.Now,
		activitySink: noopActivitySink{},
		logger:       defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(sm)
		}
	}

	return sm
}

type lectureStateMachine struct {
	lectures     Lectures
	transitions  map[LectureStatus]map[LectureStatus]struct{}
	now          func() time.Time
	activitySink ActivitySink
	logger       Logger
}

func (sm *lectureStateMachine) CurrentStatus(lecture *Lecture) LectureStatus {
	if lecture == nil {
		return ""
	}
	if lecture.Status == "" {
		return LectureStatusScheduled
	}
	return lecture.Status
}

func (sm *lectureStateMachine) Transition(ctx context.Context, actor ActorRef, lecture *Lecture, target LectureStatus) (*Lecture, error) {
	if lecture == nil {
		return nil, ErrInvalidTransition.WithMetadata(map[string]any{
			"target": target,
			"reason": "lecture is nil",
		})
	}

	from := sm.CurrentStatus(lecture)
	if from == target {
		return lecture, nil
	}

	allowed, known := sm.transitions[from]
	if !known {
		// completed and cancelled have no outgoing edges
		return nil, ErrTerminalState.WithMetadata(map[string]any{
			"from":   from,
			"target": target,
		})
	}

	if _, ok := allowed[target]; !ok {
		return nil, ErrInvalidTransition.WithMetadata(map[string]any{
			"from":   from,
			"target": target,
		})
	}

	lecture.Status = target
	now := sm.now()
	lecture.UpdatedAt = &now
	if target == LectureStatusCancelled {
		lecture.CancelledAt = &now
	}

	if sm.lectures != nil {
		if err := sm.persist(ctx, lecture); err != nil {
			return nil, err
		}
	}

	sm.emit(ctx, actor, lecture, from, target)

	return lecture, nil
}

func (sm *lectureStateMachine) persist(ctx context.Context, lecture *Lecture) error {
	var err error
	if tx, ok := txFromContext(ctx); ok {
		_, err = sm.lectures.UpdateStatusTx(ctx, tx, lecture)
	} else {
		_, err = sm.lectures.Update(ctx, lecture)
	}
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to persist lecture status")
	}
	return nil
}

func (sm *lectureStateMachine) emit(ctx context.Context, actor ActorRef, lecture *Lecture, from, to LectureStatus) {
	event := ActivityEvent{
		EventType: ActivityEventLectureStatusChanged,
		Actor:     actor,
		SubjectID: lecture.ID.String(),
		Metadata: map[string]any{
			"from": string(from),
			"to":   string(to),
		},
		OccurredAt: sm.now(),
	}

	if err := sm.activitySink.Record(ctx, event); err != nil {
		sm.logger.Warn("activity sink record error: %v", err)
	}
}

type txCtxKey struct{}

// WithTxContext stores a bun transaction in the context so state
// transitions join an enclosing transaction.
func WithTxContext(ctx context.Context, tx bun.IDB) context.Context {
	return context.WithValue(ctx, txCtxKey{}, tx)
}

func txFromContext(ctx context.Context) (bun.IDB, bool) {
	tx, ok := ctx.Value(txCtxKey{}).(bun.IDB)
	return tx, ok
}
