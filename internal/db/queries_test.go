package db_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/runnaapp/runna-backend/internal/db"
	_ "modernc.org/sqlite"
)

// ─── TEST INFRASTRUCTURE ──────────────────────────────────────────────────────

// openTestDB returns a migrated in-memory database. Each test gets its own —
// no shared state, no cleanup.
func openTestDB(t *testing.T) *db.Queries {
	t.Helper()
	pool, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	pool.SetMaxOpenConns(1)
	t.Cleanup(func() { pool.Close() })

	if err := db.Migrate(context.Background(), pool); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db.New(pool)
}

func seedProfile(t *testing.T, q *db.Queries, email, displayName string) db.Profile {
	t.Helper()
	p, err := q.CreateProfile(context.Background(), db.CreateProfileParams{
		Email:        email,
		PasswordHash: "x",
		DisplayName:  sql.NullString{String: displayName, Valid: displayName != ""},
	})
	if err != nil {
		t.Fatalf("seed profile %s: %v", email, err)
	}
	return p
}

func seedPlan(t *testing.T, q *db.Queries, userID uuid.UUID) db.Plan {
	t.Helper()
	p, err := q.CreatePlan(context.Background(), db.CreatePlanParams{
		UserID:     userID,
		Philosophy: "The Gentle Start",
		StartDate:  "2024-03-11",
		Weeks:      2,
	})
	if err != nil {
		t.Fatalf("seed plan: %v", err)
	}
	return p
}

func seedWorkout(t *testing.T, q *db.Queries, planID, userID uuid.UUID, date, title, mainSet string) db.Workout {
	t.Helper()
	w, err := q.CreateWorkout(context.Background(), db.CreateWorkoutParams{
		PlanID:        planID,
		UserID:        userID,
		ScheduledDate: date,
		Title:         title,
		Type:          "tempo_run",
		MainSet:       sql.NullString{String: mainSet, Valid: mainSet != ""},
	})
	if err != nil {
		t.Fatalf("seed workout %s: %v", title, err)
	}
	return w
}

// ─── ListRemindersByDate ──────────────────────────────────────────────────────

func TestListRemindersByDate_JoinsProfileFields(t *testing.T) {
	q := openTestDB(t)
	ctx := context.Background()

	u := seedProfile(t, q, "u@example.com", "Asha")
	plan := seedPlan(t, q, u.ID)
	seedWorkout(t, q, plan.ID, u.ID, "2024-03-15", "Tempo Run", "20 min @ tempo")

	rows, err := q.ListRemindersByDate(ctx, "2024-03-15")
	if err != nil {
		t.Fatalf("ListRemindersByDate: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}

	got := rows[0]
	if got.Email != "u@example.com" {
		t.Errorf("email: got %q", got.Email)
	}
	if got.DisplayName.String != "Asha" {
		t.Errorf("display_name: got %q", got.DisplayName.String)
	}
	if got.Title != "Tempo Run" || got.MainSet.String != "20 min @ tempo" {
		t.Errorf("workout fields: got %q / %q", got.Title, got.MainSet.String)
	}
	if got.ScheduledDate != "2024-03-15" {
		t.Errorf("scheduled_date: got %q", got.ScheduledDate)
	}

	// A date with nothing scheduled is an empty result, not an error.
	empty, err := q.ListRemindersByDate(ctx, "2024-03-16")
	if err != nil {
		t.Fatalf("ListRemindersByDate (empty): %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected no rows for 2024-03-16, got %d", len(empty))
	}
}

func TestListRemindersByDate_OneRowPerScheduledWorkout(t *testing.T) {
	q := openTestDB(t)
	ctx := context.Background()

	const date = "2024-03-15"
	for i := 0; i < 3; i++ {
		u := seedProfile(t, q, fmt.Sprintf("u%d@example.com", i), fmt.Sprintf("Runner %d", i))
		plan := seedPlan(t, q, u.ID)
		seedWorkout(t, q, plan.ID, u.ID, date, "Easy Run", "30 min easy")
		// Same user, different date — must not appear.
		seedWorkout(t, q, plan.ID, u.ID, "2024-03-20", "Long Run", "60 min easy")
	}

	rows, err := q.ListRemindersByDate(ctx, date)
	if err != nil {
		t.Fatalf("ListRemindersByDate: %v", err)
	}
	if len(rows) != 3 {
		t.Errorf("expected 3 rows, got %d", len(rows))
	}
}

func TestListRemindersForUser_ScopedToOneUser(t *testing.T) {
	q := openTestDB(t)
	ctx := context.Background()

	const date = "2024-03-15"
	a := seedProfile(t, q, "a@example.com", "A")
	b := seedProfile(t, q, "b@example.com", "B")
	planA := seedPlan(t, q, a.ID)
	planB := seedPlan(t, q, b.ID)
	seedWorkout(t, q, planA.ID, a.ID, date, "A's run", "")
	seedWorkout(t, q, planB.ID, b.ID, date, "B's run", "")

	rows, err := q.ListRemindersForUser(ctx, db.ListRemindersForUserParams{
		UserID:        a.ID,
		ScheduledDate: date,
	})
	if err != nil {
		t.Fatalf("ListRemindersForUser: %v", err)
	}
	if len(rows) != 1 || rows[0].Title != "A's run" {
		t.Errorf("expected only A's workout, got %+v", rows)
	}
}

// ─── Workouts ─────────────────────────────────────────────────────────────────

func TestCompleteWorkout_OtherUsersWorkoutReadsAsNotFound(t *testing.T) {
	q := openTestDB(t)
	ctx := context.Background()

	owner := seedProfile(t, q, "owner@example.com", "")
	intruder := seedProfile(t, q, "intruder@example.com", "")
	plan := seedPlan(t, q, owner.ID)
	w := seedWorkout(t, q, plan.ID, owner.ID, "2024-03-15", "Tempo Run", "")

	_, err := q.CompleteWorkout(ctx, db.CompleteWorkoutParams{ID: w.ID, UserID: intruder.ID})
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows, got: %v", err)
	}

	done, err := q.CompleteWorkout(ctx, db.CompleteWorkoutParams{ID: w.ID, UserID: owner.ID})
	if err != nil {
		t.Fatalf("CompleteWorkout: %v", err)
	}
	if !done.Completed {
		t.Error("workout should be marked completed")
	}
}

func TestListWorkoutsInRange_InclusiveBounds(t *testing.T) {
	q := openTestDB(t)
	ctx := context.Background()

	u := seedProfile(t, q, "u@example.com", "")
	plan := seedPlan(t, q, u.ID)
	for _, date := range []string{"2024-03-14", "2024-03-15", "2024-03-17", "2024-03-18"} {
		seedWorkout(t, q, plan.ID, u.ID, date, "Run "+date, "")
	}

	rows, err := q.ListWorkoutsInRange(ctx, db.ListWorkoutsInRangeParams{
		UserID: u.ID,
		From:   "2024-03-15",
		To:     "2024-03-17",
	})
	if err != nil {
		t.Fatalf("ListWorkoutsInRange: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 workouts in range, got %d", len(rows))
	}
	if rows[0].ScheduledDate != "2024-03-15" || rows[1].ScheduledDate != "2024-03-17" {
		t.Errorf("range results out of order: %q, %q", rows[0].ScheduledDate, rows[1].ScheduledDate)
	}
}

// ─── Plans ────────────────────────────────────────────────────────────────────

func TestGetActivePlan_IgnoresArchived(t *testing.T) {
	q := openTestDB(t)
	ctx := context.Background()

	u := seedProfile(t, q, "u@example.com", "")
	first := seedPlan(t, q, u.ID)

	if err := q.ArchivePlans(ctx, u.ID); err != nil {
		t.Fatalf("ArchivePlans: %v", err)
	}
	second := seedPlan(t, q, u.ID)

	active, err := q.GetActivePlan(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetActivePlan: %v", err)
	}
	if active.ID != second.ID {
		t.Errorf("active plan: got %s, want %s (first archived was %s)", active.ID, second.ID, first.ID)
	}
}

func TestProfiles_UniqueEmail(t *testing.T) {
	q := openTestDB(t)

	seedProfile(t, q, "dup@example.com", "")
	_, err := q.CreateProfile(context.Background(), db.CreateProfileParams{
		Email:        "dup@example.com",
		PasswordHash: "x",
	})
	if err == nil {
		t.Fatal("expected a unique constraint violation for duplicate email")
	}
}
