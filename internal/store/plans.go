package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/runnaapp/runna-backend/internal/ai"
	"github.com/runnaapp/runna-backend/internal/db"
)

// SavePlanParams is everything the plans handler hands to the store once plan
// generation has completed.
type SavePlanParams struct {
	UserID     uuid.UUID
	Philosophy string
	StartDate  string // YYYY-MM-DD; day 1 of week 1
	Generated  ai.GeneratedPlan
}

// SavedPlan is the persisted result: the plan row plus its workouts in
// schedule order.
type SavedPlan struct {
	Plan     db.Plan
	Workouts []db.Workout
}

// SavePlan atomically replaces the user's active plan:
//
//  1. Archives any existing active plan.
//  2. Creates the new plan row.
//  3. Inserts one workout row per generated day, with scheduled_date computed
//     from the start date and the day's (week, day) position.
//
// If any workout insert fails the whole transaction rolls back, so the user
// never ends up with a plan that has half its workouts.
func (s *Store) SavePlan(ctx context.Context, arg SavePlanParams) (SavedPlan, error) {
	start, err := time.Parse("2006-01-02", arg.StartDate)
	if err != nil {
		return SavedPlan{}, fmt.Errorf("store: invalid start date %q: %w", arg.StartDate, err)
	}
	if len(arg.Generated.Workouts) == 0 {
		return SavedPlan{}, fmt.Errorf("store: generated plan has no workouts")
	}

	var saved SavedPlan
	err = s.withTx(ctx, func(ctx context.Context, q db.Querier) error {
		if err := q.ArchivePlans(ctx, arg.UserID); err != nil {
			return fmt.Errorf("archive previous plans: %w", err)
		}

		plan, err := q.CreatePlan(ctx, db.CreatePlanParams{
			UserID:     arg.UserID,
			Philosophy: arg.Philosophy,
			StartDate:  arg.StartDate,
			Weeks:      int64(arg.Generated.Weeks),
		})
		if err != nil {
			return fmt.Errorf("create plan: %w", err)
		}
		saved.Plan = plan

		for _, pw := range arg.Generated.Workouts {
			offset := (pw.Week-1)*7 + (pw.Day - 1)
			scheduled := start.AddDate(0, 0, offset).Format("2006-01-02")

			workout, err := q.CreateWorkout(ctx, db.CreateWorkoutParams{
				PlanID:          plan.ID,
				UserID:          arg.UserID,
				ScheduledDate:   scheduled,
				Title:           pw.Title,
				Type:            pw.Type,
				Description:     nullString(pw.Description),
				Warmup:          nullString(pw.Warmup),
				MainSet:         nullString(pw.MainSet),
				Cooldown:        nullString(pw.Cooldown),
				DurationMinutes: nullInt64(pw.DurationMinutes),
			})
			if err != nil {
				return fmt.Errorf("create workout (week %d day %d): %w", pw.Week, pw.Day, err)
			}
			saved.Workouts = append(saved.Workouts, workout)
		}
		return nil
	})
	if err != nil {
		return SavedPlan{}, err
	}
	return saved, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt64(n int64) sql.NullInt64 {
	return sql.NullInt64{Int64: n, Valid: n != 0}
}
