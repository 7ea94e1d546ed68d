package api

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/runnaapp/runna-backend/internal/auth"
	"github.com/runnaapp/runna-backend/internal/db"
)

// handleRegister creates a profile and returns a bearer token.
//
//	POST /api/auth/register
//	{"email": "...", "password": "...", "display_name": "..."}
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email       string `json:"email"`
		Password    string `json:"password"`
		DisplayName string `json:"display_name"`
	}
	if !decode(w, r, &req) {
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		respondErr(w, http.StatusBadRequest, "email and password are required")
		return
	}
	if len(req.Password) < 8 {
		respondErr(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.respondInternalErr(w, r, err)
		return
	}

	profile, err := s.q.CreateProfile(r.Context(), db.CreateProfileParams{
		Email:        req.Email,
		PasswordHash: hash,
		DisplayName:  sql.NullString{String: req.DisplayName, Valid: req.DisplayName != ""},
	})
	if err != nil {
		// The unique index on email is the only constraint this insert can hit.
		if strings.Contains(err.Error(), "UNIQUE") {
			respondErr(w, http.StatusConflict, "an account with this email already exists")
			return
		}
		s.respondInternalErr(w, r, err)
		return
	}

	token, err := s.tokens.IssueToken(profile.ID)
	if err != nil {
		s.respondInternalErr(w, r, err)
		return
	}

	respond(w, http.StatusCreated, map[string]any{
		"token":   token,
		"profile": profileJSON(profile),
	})
}

// handleLogin verifies credentials and returns a bearer token.
//
//	POST /api/auth/login
//	{"email": "...", "password": "..."}
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decode(w, r, &req) {
		return
	}

	profile, err := s.q.GetProfileByEmail(r.Context(), strings.TrimSpace(strings.ToLower(req.Email)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondErr(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		s.respondInternalErr(w, r, err)
		return
	}

	if !auth.CheckPassword(req.Password, profile.PasswordHash) {
		respondErr(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	token, err := s.tokens.IssueToken(profile.ID)
	if err != nil {
		s.respondInternalErr(w, r, err)
		return
	}

	respond(w, http.StatusOK, map[string]any{
		"token":   token,
		"profile": profileJSON(profile),
	})
}
