// Package ai defines the interface for generative training-plan creation and
// provides a Gemini-backed implementation.
package ai

import "context"

// PlanRequest carries the onboarding answers the plan prompt is built from.
type PlanRequest struct {
	Sex            string // "Male" | "Female" | "Prefer not to say"
	AgeRange       string // "18-24" ... "55+"
	FitnessLevel   string // "Just Starting" ... "Advanced Runner"
	Goal           string // "Run Faster" | "Run Longer" | "Stay Fit"
	Motivation     string
	TargetOutcome  string // only meaningful for the "Run Faster" goal
	Philosophy     string // one of the named running philosophies
	CommitmentDays int    // 3, 4, or 5 days per week
}

// PlannedWorkout is one day of the generated plan, normalised from the
// model's week/day JSON. Week and Day are 1-based.
type PlannedWorkout struct {
	Week            int
	Day             int
	Type            string // "Easy Run", "Tempo Run", "Strength", "Rest", ...
	Title           string
	Description     string // the day's purpose / free-text summary
	Warmup          string
	MainSet         string
	Cooldown        string
	DurationMinutes int64 // 0 when the model gave no total duration
}

// GeneratedPlan is the structured output of a successful GeneratePlan call.
type GeneratedPlan struct {
	Weeks    int
	Workouts []PlannedWorkout // ordered by (Week, Day)
}

// Planner is the interface the plans handler uses to generate a training
// plan. The concrete implementation lives in gemini.go. Tests inject a stub
// that returns canned plans.
type Planner interface {
	// GeneratePlan builds the coaching prompt from the onboarding answers,
	// calls the model, and parses the day-by-day JSON response.
	//
	// Implementations must be safe to call concurrently. A non-nil error
	// means no usable plan was produced; there is no partial result.
	GeneratePlan(ctx context.Context, req PlanRequest) (GeneratedPlan, error)
}
