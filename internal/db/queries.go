package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Querier is the full set of single-statement operations. Handlers and the
// reminder resolver hold this interface; tests stub it.
type Querier interface {
	CreateProfile(ctx context.Context, arg CreateProfileParams) (Profile, error)
	GetProfileByEmail(ctx context.Context, email string) (Profile, error)
	GetProfileByID(ctx context.Context, id uuid.UUID) (Profile, error)
	UpdateProfile(ctx context.Context, arg UpdateProfileParams) (Profile, error)

	CreatePlan(ctx context.Context, arg CreatePlanParams) (Plan, error)
	GetActivePlan(ctx context.Context, userID uuid.UUID) (Plan, error)
	ArchivePlans(ctx context.Context, userID uuid.UUID) error

	CreateWorkout(ctx context.Context, arg CreateWorkoutParams) (Workout, error)
	GetWorkout(ctx context.Context, id uuid.UUID) (Workout, error)
	ListWorkoutsByPlan(ctx context.Context, planID uuid.UUID) ([]Workout, error)
	ListWorkoutsInRange(ctx context.Context, arg ListWorkoutsInRangeParams) ([]Workout, error)
	CompleteWorkout(ctx context.Context, arg CompleteWorkoutParams) (Workout, error)

	ListRemindersByDate(ctx context.Context, scheduledDate string) ([]ReminderRow, error)
	ListRemindersForUser(ctx context.Context, arg ListRemindersForUserParams) ([]ReminderRow, error)
}

var _ Querier = (*Queries)(nil)

// ─── PROFILES ────────────────────────────────────────────────────────────────

const profileColumns = `id, email, password_hash, display_name, sex, age_range,
	fitness_level, goal, motivation, target_outcome, philosophy, commitment_days,
	created_at, updated_at`

func scanProfile(row *sql.Row) (Profile, error) {
	var p Profile
	err := row.Scan(&p.ID, &p.Email, &p.PasswordHash, &p.DisplayName, &p.Sex,
		&p.AgeRange, &p.FitnessLevel, &p.Goal, &p.Motivation, &p.TargetOutcome,
		&p.Philosophy, &p.CommitmentDays, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

type CreateProfileParams struct {
	Email        string
	PasswordHash string
	DisplayName  sql.NullString
}

func (q *Queries) CreateProfile(ctx context.Context, arg CreateProfileParams) (Profile, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO profiles (id, email, password_hash, display_name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING `+profileColumns,
		uuid.New(), arg.Email, arg.PasswordHash, arg.DisplayName, time.Now().UTC(), time.Now().UTC())
	return scanProfile(row)
}

func (q *Queries) GetProfileByEmail(ctx context.Context, email string) (Profile, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE email = ?`, email)
	return scanProfile(row)
}

func (q *Queries) GetProfileByID(ctx context.Context, id uuid.UUID) (Profile, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = ?`, id)
	return scanProfile(row)
}

type UpdateProfileParams struct {
	ID             uuid.UUID
	DisplayName    sql.NullString
	Sex            sql.NullString
	AgeRange       sql.NullString
	FitnessLevel   sql.NullString
	Goal           sql.NullString
	Motivation     sql.NullString
	TargetOutcome  sql.NullString
	Philosophy     sql.NullString
	CommitmentDays sql.NullInt64
}

func (q *Queries) UpdateProfile(ctx context.Context, arg UpdateProfileParams) (Profile, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE profiles SET
			display_name = ?, sex = ?, age_range = ?, fitness_level = ?, goal = ?,
			motivation = ?, target_outcome = ?, philosophy = ?, commitment_days = ?,
			updated_at = ?
		WHERE id = ?
		RETURNING `+profileColumns,
		arg.DisplayName, arg.Sex, arg.AgeRange, arg.FitnessLevel, arg.Goal,
		arg.Motivation, arg.TargetOutcome, arg.Philosophy, arg.CommitmentDays,
		time.Now().UTC(), arg.ID)
	return scanProfile(row)
}

// ─── PLANS ───────────────────────────────────────────────────────────────────

const planColumns = `id, user_id, philosophy, start_date, weeks, status, created_at`

func scanPlan(row *sql.Row) (Plan, error) {
	var p Plan
	err := row.Scan(&p.ID, &p.UserID, &p.Philosophy, &p.StartDate, &p.Weeks,
		&p.Status, &p.CreatedAt)
	return p, err
}

type CreatePlanParams struct {
	UserID     uuid.UUID
	Philosophy string
	StartDate  string
	Weeks      int64
}

func (q *Queries) CreatePlan(ctx context.Context, arg CreatePlanParams) (Plan, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO plans (id, user_id, philosophy, start_date, weeks, status, created_at)
		VALUES (?, ?, ?, ?, ?, 'active', ?)
		RETURNING `+planColumns,
		uuid.New(), arg.UserID, arg.Philosophy, arg.StartDate, arg.Weeks, time.Now().UTC())
	return scanPlan(row)
}

func (q *Queries) GetActivePlan(ctx context.Context, userID uuid.UUID) (Plan, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT `+planColumns+` FROM plans
		WHERE user_id = ? AND status = 'active'
		ORDER BY created_at DESC LIMIT 1`, userID)
	return scanPlan(row)
}

func (q *Queries) ArchivePlans(ctx context.Context, userID uuid.UUID) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE plans SET status = 'archived' WHERE user_id = ? AND status = 'active'`, userID)
	return err
}

// ─── WORKOUTS ────────────────────────────────────────────────────────────────

const workoutColumns = `id, plan_id, user_id, scheduled_date, title, type,
	description, warmup, main_set, cooldown, duration_minutes, distance_km,
	completed, created_at`

func scanWorkoutRow(scan func(dest ...any) error) (Workout, error) {
	var w Workout
	err := scan(&w.ID, &w.PlanID, &w.UserID, &w.ScheduledDate, &w.Title, &w.Type,
		&w.Description, &w.Warmup, &w.MainSet, &w.Cooldown, &w.DurationMinutes,
		&w.DistanceKm, &w.Completed, &w.CreatedAt)
	return w, err
}

type CreateWorkoutParams struct {
	PlanID          uuid.UUID
	UserID          uuid.UUID
	ScheduledDate   string
	Title           string
	Type            string
	Description     sql.NullString
	Warmup          sql.NullString
	MainSet         sql.NullString
	Cooldown        sql.NullString
	DurationMinutes sql.NullInt64
	DistanceKm      sql.NullFloat64
}

func (q *Queries) CreateWorkout(ctx context.Context, arg CreateWorkoutParams) (Workout, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO workouts (id, plan_id, user_id, scheduled_date, title, type,
			description, warmup, main_set, cooldown, duration_minutes, distance_km,
			completed, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?)
		RETURNING `+workoutColumns,
		uuid.New(), arg.PlanID, arg.UserID, arg.ScheduledDate, arg.Title, arg.Type,
		arg.Description, arg.Warmup, arg.MainSet, arg.Cooldown, arg.DurationMinutes,
		arg.DistanceKm, time.Now().UTC())
	return scanWorkoutRow(row.Scan)
}

func (q *Queries) GetWorkout(ctx context.Context, id uuid.UUID) (Workout, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+workoutColumns+` FROM workouts WHERE id = ?`, id)
	return scanWorkoutRow(row.Scan)
}

func (q *Queries) ListWorkoutsByPlan(ctx context.Context, planID uuid.UUID) ([]Workout, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+workoutColumns+` FROM workouts
		WHERE plan_id = ?
		ORDER BY scheduled_date, created_at`, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectWorkouts(rows)
}

type ListWorkoutsInRangeParams struct {
	UserID uuid.UUID
	From   string // inclusive, YYYY-MM-DD
	To     string // inclusive, YYYY-MM-DD
}

func (q *Queries) ListWorkoutsInRange(ctx context.Context, arg ListWorkoutsInRangeParams) ([]Workout, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+workoutColumns+` FROM workouts
		WHERE user_id = ? AND scheduled_date >= ? AND scheduled_date <= ?
		ORDER BY scheduled_date, created_at`,
		arg.UserID, arg.From, arg.To)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectWorkouts(rows)
}

func collectWorkouts(rows *sql.Rows) ([]Workout, error) {
	var out []Workout
	for rows.Next() {
		w, err := scanWorkoutRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

type CompleteWorkoutParams struct {
	ID     uuid.UUID
	UserID uuid.UUID
}

// CompleteWorkout marks a workout done. The user_id predicate means a caller
// can never complete another user's workout; a mismatch reads as not found.
func (q *Queries) CompleteWorkout(ctx context.Context, arg CompleteWorkoutParams) (Workout, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE workouts SET completed = 1
		WHERE id = ? AND user_id = ?
		RETURNING `+workoutColumns, arg.ID, arg.UserID)
	return scanWorkoutRow(row.Scan)
}

// ─── REMINDERS ───────────────────────────────────────────────────────────────

const reminderColumns = `p.id, p.display_name, p.email, w.id, w.scheduled_date,
	w.title, w.type, w.description, w.warmup, w.main_set, w.cooldown,
	w.duration_minutes, w.distance_km`

func scanReminderRow(scan func(dest ...any) error) (ReminderRow, error) {
	var r ReminderRow
	err := scan(&r.UserID, &r.DisplayName, &r.Email, &r.WorkoutID, &r.ScheduledDate,
		&r.Title, &r.Type, &r.Description, &r.Warmup, &r.MainSet, &r.Cooldown,
		&r.DurationMinutes, &r.DistanceKm)
	return r, err
}

// ListRemindersByDate returns every (profile, workout) pair scheduled for the
// given date. Ordered by user then insertion order so the resolver's
// first-row-wins dedup is deterministic.
func (q *Queries) ListRemindersByDate(ctx context.Context, scheduledDate string) ([]ReminderRow, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+reminderColumns+`
		FROM workouts w
		JOIN profiles p ON w.user_id = p.id
		WHERE w.scheduled_date = ?
		ORDER BY p.id, w.created_at, w.id`, scheduledDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ReminderRow
	for rows.Next() {
		r, err := scanReminderRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type ListRemindersForUserParams struct {
	UserID        uuid.UUID
	ScheduledDate string
}

// ListRemindersForUser is the single-user variant used by the manual trigger.
func (q *Queries) ListRemindersForUser(ctx context.Context, arg ListRemindersForUserParams) ([]ReminderRow, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+reminderColumns+`
		FROM workouts w
		JOIN profiles p ON w.user_id = p.id
		WHERE w.user_id = ? AND w.scheduled_date = ?
		ORDER BY w.created_at, w.id`, arg.UserID, arg.ScheduledDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ReminderRow
	for rows.Next() {
		r, err := scanReminderRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
