package db

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Profile is one registered runner. Onboarding fields (sex, age range, goal,
// philosophy, ...) are nullable because registration happens before the
// onboarding questionnaire is filled in.
type Profile struct {
	ID             uuid.UUID
	Email          string
	PasswordHash   string
	DisplayName    sql.NullString
	Sex            sql.NullString
	AgeRange       sql.NullString
	FitnessLevel   sql.NullString
	Goal           sql.NullString
	Motivation     sql.NullString
	TargetOutcome  sql.NullString
	Philosophy     sql.NullString
	CommitmentDays sql.NullInt64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Plan is one generated training plan. A user has at most one plan with
// status "active"; regenerating archives the previous one.
type Plan struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	Philosophy string
	StartDate  string // YYYY-MM-DD
	Weeks      int64
	Status     string // "active" | "archived"
	CreatedAt  time.Time
}

// Workout is one scheduled session inside a plan. ScheduledDate is a plain
// YYYY-MM-DD string — the reminder join compares it textually, never as a
// timestamp.
type Workout struct {
	ID              uuid.UUID
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
	Completed       bool
	CreatedAt       time.Time
}

// ReminderRow is the joined workouts × profiles projection the reminder
// resolver consumes: who to notify plus what their workout for the date is.
type ReminderRow struct {
	UserID          uuid.UUID
	DisplayName     sql.NullString
	Email           string
	WorkoutID       uuid.UUID
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
