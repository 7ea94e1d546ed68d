package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler drives the daily dispatch off a fixed UTC cron trigger. Its
// state is process-local and intentionally not durable: if the process is
// down at the trigger instant, that day's run is simply missed — there is no
// catch-up on startup and no persisted record of past runs. Re-triggering a
// date re-sends; callers accept that in exchange for not needing a dedup
// store at daily cadence.
type Scheduler struct {
	dispatcher *Dispatcher
	spec       string // five-field cron expression, evaluated in UTC
	logger     *slog.Logger
	cron       *cron.Cron

	// running guards against overlapping triggers. Daily cadence makes
	// overlap extremely unlikely; when it does happen the new trigger is
	// skipped with a warning rather than queued.
	running atomic.Bool

	// now is swappable in tests.
	now func() time.Time

	// runTimeout bounds one dispatch run.
	runTimeout time.Duration
}

// NewScheduler constructs a Scheduler. spec is a standard five-field cron
// expression (e.g. "0 16 * * *" for 16:00 UTC daily).
func NewScheduler(dispatcher *Dispatcher, spec string, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		dispatcher: dispatcher,
		spec:       spec,
		logger:     logger,
		now:        time.Now,
		runTimeout: 10 * time.Minute,
	}
}

// Start registers the daily trigger and starts the cron loop. It returns an
// error only for an invalid cron expression; after that the scheduler runs
// until Stop.
func (s *Scheduler) Start() error {
	s.cron = cron.New(cron.WithLocation(time.UTC))
	if _, err := s.cron.AddFunc(s.spec, s.trigger); err != nil {
		return fmt.Errorf("reminder: invalid cron spec %q: %w", s.spec, err)
	}
	s.cron.Start()
	s.logger.Info("reminder: scheduler started", "cron", s.spec, "tz", "UTC")
	return nil
}

// Stop halts future triggers and waits for an in-flight run to finish, up to
// the deadline on ctx. A run that has started is allowed to complete — there
// is no mid-batch cancellation.
func (s *Scheduler) Stop(ctx context.Context) {
	if s.cron == nil {
		return
	}
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.logger.Warn("reminder: shutdown deadline hit with dispatch still running")
	}
}

// trigger is the cron callback: one full dispatch for tomorrow's date.
func (s *Scheduler) trigger() {
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Warn("reminder: previous dispatch still running, skipping this trigger")
		return
	}
	defer s.running.Store(false)

	targetDate := Tomorrow(s.now())
	s.logger.Info("reminder: dispatch starting", "target_date", targetDate)

	ctx, cancel := context.WithTimeout(context.Background(), s.runTimeout)
	defer cancel()

	outcomes, err := s.dispatcher.Run(ctx, targetDate)
	if err != nil {
		// Resolver failure — the whole run aborted with nothing sent.
		s.logger.Error("reminder: dispatch aborted", "target_date", targetDate, "error", err)
		return
	}

	sent, skipped, failed := Tally(outcomes)
	s.logger.Info("reminder: dispatch complete",
		"target_date", targetDate,
		"recipients", len(outcomes),
		"sent", sent,
		"skipped", skipped,
		"failed", failed,
	)
}
