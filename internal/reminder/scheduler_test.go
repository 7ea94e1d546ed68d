package reminder

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/runnaapp/runna-backend/internal/db"
	"github.com/runnaapp/runna-backend/internal/email"
)

// ─── STUBS ────────────────────────────────────────────────────────────────────

type fixedQuerier struct {
	db.Querier
	rows []db.ReminderRow
}

func (q *fixedQuerier) ListRemindersByDate(_ context.Context, _ string) ([]db.ReminderRow, error) {
	return q.rows, nil
}

// blockingSender blocks inside the first send until released, and counts
// every call.
type blockingSender struct {
	mu      sync.Mutex
	calls   int
	entered chan struct{}
	release chan struct{}
}

func (s *blockingSender) SendWorkoutReminder(_ context.Context, _ email.WorkoutReminderParams) error {
	s.mu.Lock()
	s.calls++
	first := s.calls == 1
	s.mu.Unlock()
	if first {
		close(s.entered)
		<-s.release
	}
	return nil
}

func (s *blockingSender) SendPlanReady(_ context.Context, _ email.PlanReadyParams) error {
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ─── Tomorrow ─────────────────────────────────────────────────────────────────

func TestTomorrow(t *testing.T) {
	cases := []struct {
		name string
		now  time.Time
		want string
	}{
		{
			name: "plain day",
			now:  time.Date(2024, 3, 15, 16, 0, 0, 0, time.UTC),
			want: "2024-03-16",
		},
		{
			name: "month boundary",
			now:  time.Date(2024, 2, 29, 16, 0, 0, 0, time.UTC),
			want: "2024-03-01",
		},
		{
			name: "non-UTC wall clock normalised to UTC first",
			now:  time.Date(2024, 3, 15, 23, 30, 0, 0, time.FixedZone("IST", 5*3600+1800)),
			want: "2024-03-16", // 18:00 UTC on the 15th
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Tomorrow(tc.now); got != tc.want {
				t.Errorf("Tomorrow(%v) = %q, want %q", tc.now, got, tc.want)
			}
		})
	}
}

// ─── Overlap guard ────────────────────────────────────────────────────────────

func TestTrigger_SkipsWhileDispatchStillRunning(t *testing.T) {
	q := &fixedQuerier{rows: []db.ReminderRow{{
		UserID:        uuid.New(),
		Email:         "runner@example.com",
		WorkoutID:     uuid.New(),
		ScheduledDate: "2024-03-16",
		Title:         "Easy Run",
		Type:          "easy_run",
	}}}
	sender := &blockingSender{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}

	dispatcher := NewDispatcher(NewResolver(q), sender, testLogger())
	s := NewScheduler(dispatcher, "0 16 * * *", testLogger())

	done := make(chan struct{})
	go func() {
		s.trigger()
		close(done)
	}()

	// Wait until the first dispatch is mid-send, then fire again.
	<-sender.entered
	s.trigger() // must be skipped, not queued

	close(sender.release)
	<-done

	sender.mu.Lock()
	defer sender.mu.Unlock()
	if sender.calls != 1 {
		t.Errorf("overlapping trigger should be skipped: got %d sends, want 1", sender.calls)
	}
}

func TestTrigger_RunsAgainAfterCompletion(t *testing.T) {
	q := &fixedQuerier{} // no recipients — dispatch completes immediately
	dispatcher := NewDispatcher(NewResolver(q), &blockingSender{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}, testLogger())
	s := NewScheduler(dispatcher, "0 16 * * *", testLogger())

	s.trigger()
	s.trigger() // guard must have been released by the first run

	if s.running.Load() {
		t.Error("running flag should be clear after triggers complete")
	}
}

// ─── Start ────────────────────────────────────────────────────────────────────

func TestStart_RejectsInvalidCronSpec(t *testing.T) {
	dispatcher := NewDispatcher(NewResolver(&fixedQuerier{}), &blockingSender{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}, testLogger())

	s := NewScheduler(dispatcher, "not a cron spec", testLogger())
	if err := s.Start(); err == nil {
		t.Fatal("expected an error for an invalid cron expression")
	}
}

func TestStartAndStop(t *testing.T) {
	dispatcher := NewDispatcher(NewResolver(&fixedQuerier{}), &blockingSender{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}, testLogger())

	s := NewScheduler(dispatcher, "0 16 * * *", testLogger())
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx) // no in-flight run — must return promptly
}
