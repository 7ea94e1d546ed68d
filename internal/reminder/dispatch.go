package reminder

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/runnaapp/runna-backend/internal/email"
)

// Status classifies one recipient's delivery attempt.
type Status string

const (
	StatusSent    Status = "sent"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Skip reasons. Exposed so the manual trigger endpoint can map
// ReasonChannelDisabled to a 503 without string matching.
const (
	ReasonNoAddress       = "no address"
	ReasonChannelDisabled = "channel disabled"
)

// Outcome is one recipient's result. Outcomes are never persisted — they
// exist for logging and for the manual trigger's HTTP response.
type Outcome struct {
	Recipient string // email address, or the user ID when no address exists
	Status    Status
	Reason    string // empty for sent
}

// Dispatcher runs one reminder dispatch: resolve the recipients for a date,
// then attempt delivery to each independently. One recipient's failure never
// prevents attempting the remaining recipients — that isolation is the whole
// point of this type. The dispatcher performs no retries; a failed send is
// reported, not retried.
type Dispatcher struct {
	resolver *Resolver
	sender   email.Sender
	logger   *slog.Logger

	// now is swappable in tests to pin "tomorrow".
	now func() time.Time
}

// NewDispatcher constructs a Dispatcher.
func NewDispatcher(resolver *Resolver, sender email.Sender, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		resolver: resolver,
		sender:   sender,
		logger:   logger,
		now:      time.Now,
	}
}

// Tomorrow returns now+1d as a plain YYYY-MM-DD string in UTC. No timezone
// component is carried into the comparison — scheduled_date is a plain date.
func Tomorrow(now time.Time) string {
	return now.UTC().AddDate(0, 0, 1).Format("2006-01-02")
}

// Run dispatches reminders to every user with a workout on targetDate and
// returns one outcome per recipient, in resolver order. The only error it
// returns is a resolver failure, which aborts the whole run with no partial
// sends attempted.
func (d *Dispatcher) Run(ctx context.Context, targetDate string) ([]Outcome, error) {
	entries, err := d.resolver.Resolve(ctx, targetDate)
	if err != nil {
		return nil, err
	}

	outcomes := make([]Outcome, 0, len(entries))
	for _, entry := range entries {
		outcomes = append(outcomes, d.deliver(ctx, entry))
	}
	return outcomes, nil
}

// RunForUser dispatches a single reminder for one user's workout tomorrow.
// ErrNoWorkout means the caller has nothing scheduled; email.ErrChannelDisabled
// means the channel is not configured. Both are reported to the caller, not
// treated as system failures.
func (d *Dispatcher) RunForUser(ctx context.Context, userID uuid.UUID) (Outcome, error) {
	targetDate := Tomorrow(d.now())

	entry, err := d.resolver.ResolveUser(ctx, userID, targetDate)
	if err != nil {
		return Outcome{}, err
	}

	outcome := d.deliver(ctx, entry)
	if outcome.Status == StatusSkipped && outcome.Reason == ReasonChannelDisabled {
		return outcome, email.ErrChannelDisabled
	}
	return outcome, nil
}

// deliver attempts one send and converts the result into an Outcome. Every
// provider-level error is absorbed here — nothing propagates, so a bad
// recipient cannot abort the batch.
func (d *Dispatcher) deliver(ctx context.Context, entry Entry) Outcome {
	id := entry.Recipient.Email
	if id == "" {
		id = entry.Recipient.UserID.String()
	}

	err := d.sender.SendWorkoutReminder(ctx, email.WorkoutReminderParams{
		To:              entry.Recipient.Email,
		DisplayName:     entry.Recipient.DisplayName,
		Date:            entry.Notice.ScheduledDate,
		Title:           entry.Notice.Title,
		Type:            entry.Notice.Type,
		Warmup:          entry.Notice.Warmup,
		MainSet:         entry.Notice.MainSet,
		Description:     entry.Notice.Description,
		Cooldown:        entry.Notice.Cooldown,
		DurationMinutes: entry.Notice.DurationMinutes,
		DistanceKm:      entry.Notice.DistanceKm,
	})

	switch {
	case err == nil:
		d.logger.Info("reminder: sent", "recipient", id, "date", entry.Notice.ScheduledDate)
		return Outcome{Recipient: id, Status: StatusSent}

	case errors.Is(err, email.ErrChannelDisabled):
		d.logger.Debug("reminder: channel disabled, skipping", "recipient", id)
		return Outcome{Recipient: id, Status: StatusSkipped, Reason: ReasonChannelDisabled}

	case errors.Is(err, email.ErrNoAddress):
		d.logger.Warn("reminder: recipient has no address, skipping",
			"user_id", entry.Recipient.UserID,
			"date", entry.Notice.ScheduledDate,
		)
		return Outcome{Recipient: id, Status: StatusSkipped, Reason: ReasonNoAddress}

	default:
		// Logged with enough detail to support manual follow-up.
		d.logger.Error("reminder: delivery failed",
			"recipient", id,
			"date", entry.Notice.ScheduledDate,
			"workout_id", entry.Notice.WorkoutID,
			"error", err,
		)
		return Outcome{Recipient: id, Status: StatusFailed, Reason: err.Error()}
	}
}

// Tally summarises a batch of outcomes for logging.
func Tally(outcomes []Outcome) (sent, skipped, failed int) {
	for _, o := range outcomes {
		switch o.Status {
		case StatusSent:
			sent++
		case StatusSkipped:
			skipped++
		case StatusFailed:
			failed++
		}
	}
	return sent, skipped, failed
}
