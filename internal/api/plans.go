package api

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/runnaapp/runna-backend/internal/ai"
	"github.com/runnaapp/runna-backend/internal/db"
	"github.com/runnaapp/runna-backend/internal/email"
	"github.com/runnaapp/runna-backend/internal/store"
)

// handleGeneratePlan runs the plan builder for the caller's onboarding
// answers and persists the result as their new active plan. The generative
// call happens once per onboarding — this is a request/response integration,
// not a scheduled system.
//
//	POST /api/plans
//	{"start_date": "2024-03-18"}   // optional, defaults to tomorrow
func (s *Server) handleGeneratePlan(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StartDate string `json:"start_date"`
	}
	if r.ContentLength > 0 && !decode(w, r, &req) {
		return
	}
	if req.StartDate == "" {
		req.StartDate = time.Now().UTC().AddDate(0, 0, 1).Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", req.StartDate); err != nil {
		respondErr(w, http.StatusBadRequest, "start_date must be YYYY-MM-DD")
		return
	}

	profile, err := s.q.GetProfileByID(r.Context(), userID(r))
	if err != nil {
		s.respondInternalErr(w, r, err)
		return
	}
	if !profile.Philosophy.Valid {
		respondErr(w, http.StatusBadRequest, "complete onboarding before generating a plan")
		return
	}

	generated, err := s.planner.GeneratePlan(r.Context(), ai.PlanRequest{
		Sex:            profile.Sex.String,
		AgeRange:       profile.AgeRange.String,
		FitnessLevel:   profile.FitnessLevel.String,
		Goal:           profile.Goal.String,
		Motivation:     profile.Motivation.String,
		TargetOutcome:  profile.TargetOutcome.String,
		Philosophy:     profile.Philosophy.String,
		CommitmentDays: int(profile.CommitmentDays.Int64),
	})
	if err != nil {
		s.logger.Error("plan generation failed", "user_id", profile.ID, "error", err)
		respondErr(w, http.StatusBadGateway, "plan generation failed, please try again")
		return
	}

	saved, err := s.store.SavePlan(r.Context(), store.SavePlanParams{
		UserID:     profile.ID,
		Philosophy: profile.Philosophy.String,
		StartDate:  req.StartDate,
		Generated:  generated,
	})
	if err != nil {
		s.respondInternalErr(w, r, err)
		return
	}

	// Best-effort delivery notice. A failed or disabled email never fails the
	// request — the plan is already saved.
	if err := s.mailer.SendPlanReady(r.Context(), email.PlanReadyParams{
		To:          profile.Email,
		DisplayName: profile.DisplayName.String,
		Weeks:       saved.Plan.Weeks,
		StartDate:   saved.Plan.StartDate,
	}); err != nil && !errors.Is(err, email.ErrChannelDisabled) {
		s.logger.Error("plan-ready email failed", "user_id", profile.ID, "error", err)
	}

	respond(w, http.StatusCreated, planResponse(saved.Plan, saved.Workouts))
}

// handleGetCurrentPlan returns the caller's active plan with its workouts.
//
//	GET /api/plans/current
func (s *Server) handleGetCurrentPlan(w http.ResponseWriter, r *http.Request) {
	plan, err := s.q.GetActivePlan(r.Context(), userID(r))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondErr(w, http.StatusNotFound, "no active plan")
			return
		}
		s.respondInternalErr(w, r, err)
		return
	}

	workouts, err := s.q.ListWorkoutsByPlan(r.Context(), plan.ID)
	if err != nil {
		s.respondInternalErr(w, r, err)
		return
	}

	respond(w, http.StatusOK, planResponse(plan, workouts))
}

func planResponse(plan db.Plan, workouts []db.Workout) map[string]any {
	ws := make([]map[string]any, len(workouts))
	for i, w := range workouts {
		ws[i] = workoutJSON(w)
	}
	return map[string]any{
		"id":         plan.ID,
		"philosophy": plan.Philosophy,
		"start_date": plan.StartDate,
		"weeks":      plan.Weeks,
		"status":     plan.Status,
		"created_at": plan.CreatedAt,
		"workouts":   ws,
	}
}
