package email

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// ─── Disabled channel ─────────────────────────────────────────────────────────

func TestDisabledSender_ShortCircuitsEveryCall(t *testing.T) {
	s := NewDisabledSender()

	err := s.SendWorkoutReminder(context.Background(), WorkoutReminderParams{
		To: "runner@example.com", Date: "2024-03-15", Title: "Tempo Run",
	})
	if !errors.Is(err, ErrChannelDisabled) {
		t.Fatalf("expected ErrChannelDisabled, got: %v", err)
	}

	if err := s.SendPlanReady(context.Background(), PlanReadyParams{To: "runner@example.com"}); !errors.Is(err, ErrChannelDisabled) {
		t.Fatalf("expected ErrChannelDisabled, got: %v", err)
	}
}

// ─── Missing address ──────────────────────────────────────────────────────────

func TestSendWorkoutReminder_EmptyAddressNeverHitsTheNetwork(t *testing.T) {
	// The client's httpClient would panic on a real call here only after the
	// address check; ErrNoAddress must come back before any request is built.
	s := NewResendClient("test_key", "coach@runna.fit", "Runna", "https://app.runna.fit")

	err := s.SendWorkoutReminder(context.Background(), WorkoutReminderParams{
		To: "", Date: "2024-03-15", Title: "Tempo Run",
	})
	if !errors.Is(err, ErrNoAddress) {
		t.Fatalf("expected ErrNoAddress, got: %v", err)
	}
}

// ─── Rendering ────────────────────────────────────────────────────────────────

func TestWorkoutReminderHTML_MainSetPresent(t *testing.T) {
	body := workoutReminderHTML(WorkoutReminderParams{
		DisplayName:     "Asha",
		Title:           "Tempo Run",
		Type:            "tempo",
		Warmup:          "10 min easy jog",
		MainSet:         "20 min @ tempo",
		Description:     "A comfortably hard effort",
		Cooldown:        "5 min walk",
		DurationMinutes: 35,
		DistanceKm:      6.5,
	}, "Friday, March 15", "https://app.runna.fit")

	for _, want := range []string{
		"Hello Asha",
		"Friday, March 15",
		"Tempo Run",
		"tempo",
		"35 min",
		"6.5 km",
		"10 min easy jog",
		"20 min @ tempo",
		"5 min walk",
		"https://app.runna.fit/today",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
	// Description must not replace a present main set.
	if strings.Contains(body, "A comfortably hard effort") {
		t.Error("description should not render when main set is present")
	}
}

func TestWorkoutReminderHTML_DescriptionFallback(t *testing.T) {
	body := workoutReminderHTML(WorkoutReminderParams{
		Title:       "Recovery Day",
		Type:        "rest",
		MainSet:     "",
		Description: "Take it easy, light stretching only",
	}, "Saturday, March 16", "https://app.runna.fit")

	if !strings.Contains(body, "Take it easy, light stretching only") {
		t.Error("description should substitute for an empty main set")
	}
	if !strings.Contains(body, "Hello runner") {
		t.Error("missing display name should fall back to the generic greeting")
	}
}

func TestWorkoutReminderHTML_OmitsEmptySections(t *testing.T) {
	body := workoutReminderHTML(WorkoutReminderParams{
		Title: "Rest",
		Type:  "rest",
	}, "Sunday, March 17", "https://app.runna.fit")

	for _, label := range []string{"Main set", "Warm-up", "Cool-down", "Duration", "Distance"} {
		if strings.Contains(body, label) {
			t.Errorf("empty section %q should be omitted, not rendered as an empty heading", label)
		}
	}
}

func TestWorkoutReminderHTML_EscapesUserContent(t *testing.T) {
	body := workoutReminderHTML(WorkoutReminderParams{
		DisplayName: "<script>alert(1)</script>",
		Title:       "Easy Run",
		MainSet:     "30 min <b>easy</b>",
	}, "Friday, March 15", "https://app.runna.fit")

	if strings.Contains(body, "<script>") {
		t.Error("display name must be HTML-escaped")
	}
	if strings.Contains(body, "30 min <b>easy</b>") {
		t.Error("main set must be HTML-escaped")
	}
}

// ─── Date formatting ──────────────────────────────────────────────────────────

func TestLongDate(t *testing.T) {
	if got := longDate("2024-03-15"); got != "Friday, March 15" {
		t.Errorf("longDate: got %q", got)
	}
	// Unparseable input is passed through rather than dropped.
	if got := longDate("not-a-date"); got != "not-a-date" {
		t.Errorf("longDate passthrough: got %q", got)
	}
}
