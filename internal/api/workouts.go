package api

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/runnaapp/runna-backend/internal/db"
)

func workoutJSON(w db.Workout) map[string]any {
	out := map[string]any{
		"id":             w.ID,
		"plan_id":        w.PlanID,
		"scheduled_date": w.ScheduledDate,
		"title":          w.Title,
		"type":           w.Type,
		"description":    w.Description.String,
		"warmup":         w.Warmup.String,
		"main_set":       w.MainSet.String,
		"cooldown":       w.Cooldown.String,
		"completed":      w.Completed,
	}
	if w.DurationMinutes.Valid {
		out["duration_minutes"] = w.DurationMinutes.Int64
	}
	if w.DistanceKm.Valid {
		out["distance_km"] = w.DistanceKm.Float64
	}
	return out
}

// handleListWorkouts returns the caller's workouts in a date range,
// defaulting to the coming week.
//
//	GET /api/workouts?from=2024-03-15&to=2024-03-21
func (s *Server) handleListWorkouts(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" {
		from = time.Now().UTC().Format("2006-01-02")
	}
	if to == "" {
		to = time.Now().UTC().AddDate(0, 0, 6).Format("2006-01-02")
	}
	for _, d := range []string{from, to} {
		if _, err := time.Parse("2006-01-02", d); err != nil {
			respondErr(w, http.StatusBadRequest, "dates must be YYYY-MM-DD")
			return
		}
	}

	workouts, err := s.q.ListWorkoutsInRange(r.Context(), db.ListWorkoutsInRangeParams{
		UserID: userID(r),
		From:   from,
		To:     to,
	})
	if err != nil {
		s.respondInternalErr(w, r, err)
		return
	}

	out := make([]map[string]any, len(workouts))
	for i, workout := range workouts {
		out[i] = workoutJSON(workout)
	}
	respond(w, http.StatusOK, map[string]any{"workouts": out})
}

// handleCompleteWorkout marks one of the caller's workouts as done.
//
//	POST /api/workouts/{workoutID}/complete
func (s *Server) handleCompleteWorkout(w http.ResponseWriter, r *http.Request) {
	workoutID, err := uuid.Parse(chi.URLParam(r, "workoutID"))
	if err != nil {
		respondErr(w, http.StatusBadRequest, "invalid workout id")
		return
	}

	workout, err := s.q.CompleteWorkout(r.Context(), db.CompleteWorkoutParams{
		ID:     workoutID,
		UserID: userID(r),
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondErr(w, http.StatusNotFound, "workout not found")
			return
		}
		s.respondInternalErr(w, r, err)
		return
	}

	respond(w, http.StatusOK, workoutJSON(workout))
}
