// Package reminder implements the daily workout reminder pipeline: resolving
// which users have a workout scheduled for a target date, dispatching one
// email per recipient with per-recipient failure isolation, and the cron
// scheduler that triggers the dispatch every evening.
package reminder

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/runnaapp/runna-backend/internal/db"
)

// ErrStoreUnavailable wraps any database failure during resolution. It is
// fatal to a whole dispatch run — with no recipient list there is nothing to
// send — and is never reported per-recipient.
var ErrStoreUnavailable = errors.New("reminder: store unavailable")

// ErrNoWorkout is returned by ResolveUser when the user has nothing scheduled
// for the target date. The manual trigger endpoint reports it as 404; it is
// not a system error.
var ErrNoWorkout = errors.New("reminder: no workout scheduled")

// Recipient is who a notice is sent to. Email may be empty (profile without a
// confirmed address) — such recipients are skipped at delivery, not dropped
// at resolution, so the outcome tally still accounts for them.
type Recipient struct {
	UserID      uuid.UUID
	DisplayName string
	Email       string
}

// Notice is the structured content of one day's scheduled workout for one
// user. Zero values mean "absent"; Description substitutes for MainSet at
// render time when MainSet is empty.
type Notice struct {
	WorkoutID       uuid.UUID
	ScheduledDate   string // YYYY-MM-DD
	Title           string
	Type            string
	Description     string
	Warmup          string
	MainSet         string
	Cooldown        string
	DurationMinutes int64
	DistanceKm      float64
}

// Entry pairs a recipient with their notice for the target date.
type Entry struct {
	Recipient Recipient
	Notice    Notice
}

// Resolver produces the (recipient, notice) pairs for a calendar date by
// querying the workout × profile join. It never mutates the store.
type Resolver struct {
	q db.Querier
}

// NewResolver constructs a Resolver over the query layer.
func NewResolver(q db.Querier) *Resolver {
	return &Resolver{q: q}
}

// Resolve returns every entry scheduled for targetDate (YYYY-MM-DD). An empty
// result is a valid outcome, not an error.
//
// The underlying join should yield at most one workout per user per date; if
// it ever yields more, the first row by insertion order wins and the rest are
// dropped so no user is notified twice in one run.
func (r *Resolver) Resolve(ctx context.Context, targetDate string) ([]Entry, error) {
	rows, err := r.q.ListRemindersByDate(ctx, targetDate)
	if err != nil {
		return nil, fmt.Errorf("%w: list reminders for %s: %v", ErrStoreUnavailable, targetDate, err)
	}

	entries := make([]Entry, 0, len(rows))
	seen := make(map[uuid.UUID]bool, len(rows))
	for _, row := range rows {
		if seen[row.UserID] {
			continue
		}
		seen[row.UserID] = true
		entries = append(entries, entryFromRow(row))
	}
	return entries, nil
}

// ResolveUser returns the single entry for one user on targetDate. Used by
// the manual trigger, which is scoped to the caller only.
func (r *Resolver) ResolveUser(ctx context.Context, userID uuid.UUID, targetDate string) (Entry, error) {
	rows, err := r.q.ListRemindersForUser(ctx, db.ListRemindersForUserParams{
		UserID:        userID,
		ScheduledDate: targetDate,
	})
	if err != nil {
		return Entry{}, fmt.Errorf("%w: reminder for user %s on %s: %v", ErrStoreUnavailable, userID, targetDate, err)
	}
	if len(rows) == 0 {
		return Entry{}, ErrNoWorkout
	}
	// First by insertion order, same rule as the batch path.
	return entryFromRow(rows[0]), nil
}

func entryFromRow(row db.ReminderRow) Entry {
	return Entry{
		Recipient: Recipient{
			UserID:      row.UserID,
			DisplayName: row.DisplayName.String,
			Email:       row.Email,
		},
		Notice: Notice{
			WorkoutID:       row.WorkoutID,
			ScheduledDate:   row.ScheduledDate,
			Title:           row.Title,
			Type:            row.Type,
			Description:     row.Description.String,
			Warmup:          row.Warmup.String,
			MainSet:         row.MainSet.String,
			Cooldown:        row.Cooldown.String,
			DurationMinutes: row.DurationMinutes.Int64,
			DistanceKm:      row.DistanceKm.Float64,
		},
	}
}
