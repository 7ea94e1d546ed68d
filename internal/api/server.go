// Package api implements the HTTP layer for the Runna backend. Handlers are
// methods on *Server. Each handler file is responsible for one resource group
// and only imports the dependencies it actually uses.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/runnaapp/runna-backend/internal/ai"
	"github.com/runnaapp/runna-backend/internal/auth"
	"github.com/runnaapp/runna-backend/internal/db"
	"github.com/runnaapp/runna-backend/internal/email"
	"github.com/runnaapp/runna-backend/internal/reminder"
	"github.com/runnaapp/runna-backend/internal/store"
)

// Config holds values read from environment variables at startup.
type Config struct {
	// BaseURL is used in email links, e.g. "https://app.runna.fit".
	BaseURL string

	// Env is "production", "staging", or "development".
	Env string
}

// Server holds all shared dependencies. Each handler file attaches methods to
// this type and uses only the fields it needs.
type Server struct {
	// q handles all single-query reads. Injected directly — no repo wrapper.
	q db.Querier

	// store handles multi-step atomic writes (persisting a generated plan).
	store *store.Store

	// planner generates the training plan from onboarding answers.
	planner ai.Planner

	// mailer sends transactional email (plan-ready notice).
	mailer email.Sender

	// dispatcher runs the single-user reminder for the manual trigger.
	dispatcher *reminder.Dispatcher

	// tokens issues and verifies bearer tokens.
	tokens *auth.Tokens

	cfg    Config
	logger *slog.Logger
}

// NewServer constructs the Server and wires the chi router. The returned
// http.Handler is ready to pass to http.ListenAndServe.
func NewServer(
	q db.Querier,
	st *store.Store,
	planner ai.Planner,
	mailer email.Sender,
	dispatcher *reminder.Dispatcher,
	tokens *auth.Tokens,
	cfg Config,
	logger *slog.Logger,
) http.Handler {
	s := &Server{
		q:          q,
		store:      st,
		planner:    planner,
		mailer:     mailer,
		dispatcher: dispatcher,
		tokens:     tokens,
		cfg:        cfg,
		logger:     logger,
	}

	return s.routes()
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	// ── Global middleware ─────────────────────────────────────────────────────
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggerMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(s.corsMiddleware)
	r.Use(middleware.Timeout(120 * time.Second)) // plan generation can be slow

	// ── Health ────────────────────────────────────────────────────────────────
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// ── API v1 ────────────────────────────────────────────────────────────────
	r.Route("/api", func(r chi.Router) {

		// Auth — no token required.
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)

		// Everything else requires a valid bearer token.
		r.Group(func(r chi.Router) {
			r.Use(s.requireUser)

			r.Get("/profile", s.handleGetProfile)
			r.Put("/profile", s.handleUpdateProfile)

			r.Post("/plans", s.handleGeneratePlan)
			r.Get("/plans/current", s.handleGetCurrentPlan)

			r.Get("/workouts", s.handleListWorkouts)
			r.Post("/workouts/{workoutID}/complete", s.handleCompleteWorkout)

			r.Post("/reminders/send", s.handleSendReminder)
		})
	})

	return r
}
