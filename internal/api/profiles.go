package api

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/runnaapp/runna-backend/internal/ai"
	"github.com/runnaapp/runna-backend/internal/db"
)

// profileJSON shapes a profile row for responses. The password hash never
// leaves this package.
func profileJSON(p db.Profile) map[string]any {
	return map[string]any{
		"id":              p.ID,
		"email":           p.Email,
		"display_name":    p.DisplayName.String,
		"sex":             p.Sex.String,
		"age_range":       p.AgeRange.String,
		"fitness_level":   p.FitnessLevel.String,
		"goal":            p.Goal.String,
		"motivation":      p.Motivation.String,
		"target_outcome":  p.TargetOutcome.String,
		"philosophy":      p.Philosophy.String,
		"commitment_days": p.CommitmentDays.Int64,
		"created_at":      p.CreatedAt,
	}
}

// handleGetProfile returns the caller's profile.
//
//	GET /api/profile
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.q.GetProfileByID(r.Context(), userID(r))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondErr(w, http.StatusNotFound, "profile not found")
			return
		}
		s.respondInternalErr(w, r, err)
		return
	}
	respond(w, http.StatusOK, profileJSON(profile))
}

// handleUpdateProfile saves the onboarding answers.
//
//	PUT /api/profile
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DisplayName    string `json:"display_name"`
		Sex            string `json:"sex"`
		AgeRange       string `json:"age_range"`
		FitnessLevel   string `json:"fitness_level"`
		Goal           string `json:"goal"`
		Motivation     string `json:"motivation"`
		TargetOutcome  string `json:"target_outcome"`
		Philosophy     string `json:"philosophy"`
		CommitmentDays int64  `json:"commitment_days"`
	}
	if !decode(w, r, &req) {
		return
	}

	if req.Philosophy != "" {
		if _, ok := ai.Philosophies[req.Philosophy]; !ok {
			respondErr(w, http.StatusBadRequest, "unknown philosophy: "+req.Philosophy)
			return
		}
	}

	profile, err := s.q.UpdateProfile(r.Context(), db.UpdateProfileParams{
		ID:             userID(r),
		DisplayName:    sql.NullString{String: req.DisplayName, Valid: req.DisplayName != ""},
		Sex:            sql.NullString{String: req.Sex, Valid: req.Sex != ""},
		AgeRange:       sql.NullString{String: req.AgeRange, Valid: req.AgeRange != ""},
		FitnessLevel:   sql.NullString{String: req.FitnessLevel, Valid: req.FitnessLevel != ""},
		Goal:           sql.NullString{String: req.Goal, Valid: req.Goal != ""},
		Motivation:     sql.NullString{String: req.Motivation, Valid: req.Motivation != ""},
		TargetOutcome:  sql.NullString{String: req.TargetOutcome, Valid: req.TargetOutcome != ""},
		Philosophy:     sql.NullString{String: req.Philosophy, Valid: req.Philosophy != ""},
		CommitmentDays: sql.NullInt64{Int64: req.CommitmentDays, Valid: req.CommitmentDays != 0},
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondErr(w, http.StatusNotFound, "profile not found")
			return
		}
		s.respondInternalErr(w, r, err)
		return
	}
	respond(w, http.StatusOK, profileJSON(profile))
}
