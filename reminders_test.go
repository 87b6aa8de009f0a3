package lectures_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	lectures "github.com/Najite/lecture-reminder"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeScanner implements lectures.LectureScanner over a slice.
type fakeScanner struct {
	mu       sync.Mutex
	upcoming []*lectures.Lecture
	listErr  error
	markErr  error
	marked   []uuid.UUID
}

func (s *fakeScanner) ListUpcoming(ctx context.Context, within time.Duration) ([]*lectures.Lecture, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]*lectures.Lecture, 0, len(s.upcoming))
	for _, l := range s.upcoming {
		if !l.ReminderSent {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *fakeScanner) MarkReminded(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.markErr != nil {
		return s.markErr
	}
	s.marked = append(s.marked, id)
	for _, l := range s.upcoming {
		if l.ID == id {
			l.ReminderSent = true
		}
	}
	return nil
}

func upcomingLecture(title string, startsIn time.Duration) *lectures.Lecture {
	return &lectures.Lecture{
		ID:       uuid.New(),
		CourseID: uuid.New(),
		Title:    title,
		Venue:    "LT-2",
		Status:   lectures.LectureStatusScheduled,
		StartsAt: time.Now().Add(startsIn),
		EndsAt:   time.Now().Add(startsIn + time.Hour),
	}
}

func TestReminderSweep(t *testing.T) {
	ctx := context.Background()

	t.Run("notifies and marks each upcoming lecture once", func(t *testing.T) {
		scanner := &fakeScanner{upcoming: []*lectures.Lecture{
			upcomingLecture("Week 1: Intro", 30*time.Minute),
			upcomingLecture("Week 2: Processes", 45*time.Minute),
		}}
		notifier := &captureNotifier{}
		sink := &captureSink{}

		svc := lectures.NewReminderService(scanner, notifier).
			WithLogger(quietLogger{}).
			WithActivitySink(sink)

		sent, err := svc.Sweep(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, sent)
		assert.Len(t, notifier.Successes(), 2)
		assert.Contains(t, notifier.Successes()[0], "Week 1: Intro")
		assert.Contains(t, notifier.Successes()[0], "LT-2")
		assert.Len(t, scanner.marked, 2)

		types := sink.Types()
		require.Len(t, types, 2)
		assert.Equal(t, lectures.ActivityEventLectureReminderSent, types[0])

		// second pass finds nothing left to remind
		sent, err = svc.Sweep(ctx)
		require.NoError(t, err)
		assert.Zero(t, sent)
		assert.Len(t, notifier.Successes(), 2)
	})

	t.Run("list failure surfaces as an error", func(t *testing.T) {
		scanner := &fakeScanner{listErr: errors.New("connection reset")}
		svc := lectures.NewReminderService(scanner, nil).WithLogger(quietLogger{})

		_, err := svc.Sweep(ctx)
		assert.Error(t, err)
	})

	t.Run("mark failure skips the count but keeps sweeping", func(t *testing.T) {
		scanner := &fakeScanner{
			upcoming: []*lectures.Lecture{upcomingLecture("Week 1: Intro", 30 * time.Minute)},
			markErr:  errors.New("locked"),
		}
		notifier := &captureNotifier{}
		svc := lectures.NewReminderService(scanner, notifier).WithLogger(quietLogger{})

		sent, err := svc.Sweep(ctx)
		require.NoError(t, err)
		assert.Zero(t, sent)
		assert.Len(t, notifier.Successes(), 1, "the notification still went out")
	})
}

func TestReminderRunStopsOnCancel(t *testing.T) {
	scanner := &fakeScanner{}
	svc := lectures.NewReminderService(scanner, nil).
		WithLogger(quietLogger{}).
		WithInterval(10 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- svc.Run(ctx)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancellation")
	}
}
