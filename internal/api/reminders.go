package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/runnaapp/runna-backend/internal/email"
	"github.com/runnaapp/runna-backend/internal/reminder"
)

// handleSendReminder is the manual trigger: it sends the caller their own
// reminder for tomorrow's workout, bypassing the daily schedule. Used for
// testing a fresh plan and for recovery when the evening run was missed.
// Its latency is bounded by a single delivery call.
//
//	POST /api/reminders/send
func (s *Server) handleSendReminder(w http.ResponseWriter, r *http.Request) {
	outcome, err := s.dispatcher.RunForUser(r.Context(), userID(r))

	switch {
	case err == nil:
		switch outcome.Status {
		case reminder.StatusSent:
			respond(w, http.StatusOK, map[string]any{
				"success": true,
				"message": fmt.Sprintf("reminder sent to %s", outcome.Recipient),
			})
		case reminder.StatusSkipped:
			// Only the no-address skip reaches here; channel-disabled comes
			// back as an error.
			respondErr(w, http.StatusBadRequest, "your profile has no email address")
		default:
			respondErr(w, http.StatusBadGateway, "reminder delivery failed: "+outcome.Reason)
		}

	case errors.Is(err, reminder.ErrNoWorkout):
		respondErr(w, http.StatusNotFound, "no workout scheduled for tomorrow")

	case errors.Is(err, email.ErrChannelDisabled):
		respondErr(w, http.StatusServiceUnavailable, "email reminders are not configured")

	default:
		s.respondInternalErr(w, r, err)
	}
}
