// Package email defines the interface for transactional email delivery and
// provides a Resend-backed implementation plus a disabled no-op variant.
package email

import (
	"context"
	"errors"
)

// ErrChannelDisabled is returned by every send on a disabled Sender (no
// RESEND_API_KEY at startup). The reminder dispatcher maps it to a skipped
// outcome; the manual trigger endpoint maps it to 503.
var ErrChannelDisabled = errors.New("email: channel disabled")

// ErrNoAddress is returned when the recipient has no email address. Checked
// before any network I/O so an unreachable recipient costs nothing.
var ErrNoAddress = errors.New("email: recipient has no address")

// WorkoutReminderParams holds everything the workout reminder email needs.
// Field shapes mirror the reminder notice: zero values mean "absent" and the
// template omits the corresponding section rather than rendering it empty.
type WorkoutReminderParams struct {
	To              string // recipient address; empty → ErrNoAddress
	DisplayName     string // greeting name; empty → generic greeting
	Date            string // the workout's date, YYYY-MM-DD
	Title           string
	Type            string // category, e.g. "easy_run", "rest"
	Warmup          string
	MainSet         string
	Description     string // substitutes for MainSet when MainSet is empty
	Cooldown        string
	DurationMinutes int64
	DistanceKm      float64
}

// PlanReadyParams holds the data for the "your plan is ready" email sent
// after plan generation completes.
type PlanReadyParams struct {
	To          string
	DisplayName string
	Weeks       int64
	StartDate   string // YYYY-MM-DD
}

// Sender is the interface the reminder dispatcher and plan handler use to
// send email. Tests inject a stub that records calls without hitting the
// network.
type Sender interface {
	// SendWorkoutReminder sends one workout reminder. It performs exactly one
	// outbound call and never retries; provider failures come back as plain
	// errors for the dispatcher to record.
	SendWorkoutReminder(ctx context.Context, p WorkoutReminderParams) error

	// SendPlanReady sends the plan delivery email. Callers treat failure as
	// best-effort: log it, never fail the surrounding request.
	SendPlanReady(ctx context.Context, p PlanReadyParams) error
}

// disabledSender satisfies Sender without any configuration or network
// access. Chosen once in main.go when no API key is present — the
// enabled/disabled decision is never re-checked per call.
type disabledSender struct{}

// NewDisabledSender returns a Sender whose every call fails with
// ErrChannelDisabled.
func NewDisabledSender() Sender {
	return disabledSender{}
}

func (disabledSender) SendWorkoutReminder(context.Context, WorkoutReminderParams) error {
	return ErrChannelDisabled
}

func (disabledSender) SendPlanReady(context.Context, PlanReadyParams) error {
	return ErrChannelDisabled
}
