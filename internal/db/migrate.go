package db

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is applied in full at startup. Every statement is idempotent
// (CREATE ... IF NOT EXISTS) so restarts are safe without a migration table.
const schema = `
CREATE TABLE IF NOT EXISTS profiles (
	id              TEXT PRIMARY KEY,
	email           TEXT NOT NULL UNIQUE,
	password_hash   TEXT NOT NULL,
	display_name    TEXT,
	sex             TEXT,
	age_range       TEXT,
	fitness_level   TEXT,
	goal            TEXT,
	motivation      TEXT,
	target_outcome  TEXT,
	philosophy      TEXT,
	commitment_days INTEGER,
	created_at      TIMESTAMP NOT NULL,
	updated_at      TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS plans (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL REFERENCES profiles(id),
	philosophy TEXT NOT NULL,
	start_date TEXT NOT NULL,
	weeks      INTEGER NOT NULL,
	status     TEXT NOT NULL DEFAULT 'active',
	created_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS workouts (
	id               TEXT PRIMARY KEY,
	plan_id          TEXT NOT NULL REFERENCES plans(id),
	user_id          TEXT NOT NULL REFERENCES profiles(id),
	scheduled_date   TEXT NOT NULL,
	title            TEXT NOT NULL,
	type             TEXT NOT NULL,
	description      TEXT,
	warmup           TEXT,
	main_set         TEXT,
	cooldown         TEXT,
	duration_minutes INTEGER,
	distance_km      REAL,
	completed        INTEGER NOT NULL DEFAULT 0,
	created_at       TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_workouts_scheduled_date ON workouts(scheduled_date);
CREATE INDEX IF NOT EXISTS idx_workouts_user_date ON workouts(user_id, scheduled_date);
CREATE INDEX IF NOT EXISTS idx_plans_user_status ON plans(user_id, status);
`

// Migrate applies the schema. Call once at startup before serving traffic.
func Migrate(ctx context.Context, pool *sql.DB) error {
	if _, err := pool.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("db: apply schema: %w", err)
	}
	return nil
}
