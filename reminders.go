package lectures

import (
	"context"
	"fmt"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// LectureScanner is the narrow repository surface the reminder sweep
// needs. The Lectures repository satisfies it.
type LectureScanner interface {
	ListUpcoming(ctx context.Context, within time.Duration) ([]*Lecture, error)
	MarkReminded(ctx context.Context, id uuid.UUID) error
}

// DefaultReminderWindow is how far ahead the reminder sweep looks for
// upcoming lectures.
var DefaultReminderWindow = time.Hour

// DefaultReminderInterval is the pause between sweeps.
var DefaultReminderInterval = 5 * time.Minute

// ReminderService periodically sweeps for scheduled lectures starting
// inside the window and pushes a reminder through the Notifier. The
// notification goes out before the record is marked, so a sweep that
// dies mid-pass re-reminds rather than silently skipping a lecture.
type ReminderService struct {
	lectures     LectureScanner
	notifier     Notifier
	logger       Logger
	activitySink ActivitySink

	window   time.Duration
	interval time.Duration
}

// NewReminderService builds a service over the lectures repository.
func NewReminderService(lectures LectureScanner, notifier Notifier) *ReminderService {
	return &ReminderService{
		lectures:     lectures,
		notifier:     normalizeNotifier(notifier),
		logger:       defLogger{},
		activitySink: noopActivitySink{},
		window:       DefaultReminderWindow,
		interval:     DefaultReminderInterval,
	}
}

func (s *ReminderService) WithLogger(logger Logger) *ReminderService {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithActivitySink configures an ActivitySink for reminder events.
func (s *ReminderService) WithActivitySink(sink ActivitySink) *ReminderService {
	s.activitySink = normalizeActivitySink(sink)
	return s
}

// WithWindow overrides how far ahead a sweep looks.
func (s *ReminderService) WithWindow(d time.Duration) *ReminderService {
	if d > 0 {
		s.window = d
	}
	return s
}

// WithInterval overrides the pause between sweeps.
func (s *ReminderService) WithInterval(d time.Duration) *ReminderService {
	if d > 0 {
		s.interval = d
	}
	return s
}

// Run sweeps until the context is cancelled.
func (s *ReminderService) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if _, err := s.Sweep(ctx); err != nil {
			s.logger.Error("reminder sweep failed: %v", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Sweep runs one pass and returns how many reminders went out.
func (s *ReminderService) Sweep(ctx context.Context) (int, error) {
	upcoming, err := s.lectures.ListUpcoming(ctx, s.window)
	if err != nil {
		return 0, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to list upcoming lectures")
	}

	sent := 0
	for _, lecture := range upcoming {
		select {
		case <-ctx.Done():
			return sent, ctx.Err()
		default:
		}

		s.notifier.Success(reminderMessage(lecture))

		if err := s.lectures.MarkReminded(ctx, lecture.ID); err != nil {
			s.logger.Error("failed to mark lecture %s reminded: %v", lecture.ID, err)
			continue
		}
		sent++

		event := ActivityEvent{
			EventType: ActivityEventLectureReminderSent,
			Actor:     ActorRef{ID: "reminder", Type: "system"},
			SubjectID: lecture.ID.String(),
			Metadata: map[string]any{
				"starts_at": lecture.StartsAt,
			},
			OccurredAt: time.Now(),
		}
		if err := s.activitySink.Record(ctx, event); err != nil {
			s.logger.Warn("activity sink record error: %v", err)
		}
	}

	return sent, nil
}

func reminderMessage(lecture *Lecture) string {
	title := lecture.Title
	if lecture.Course != nil && lecture.Course.Code != "" {
		title = fmt.Sprintf("%s: %s", lecture.Course.Code, lecture.Title)
	}

	msg := fmt.Sprintf("Upcoming lecture %q at %s", title, lecture.StartsAt.Format(time.Kitchen))
	if lecture.Venue != "" {
		msg += " in " + lecture.Venue
	}
	return msg
}
