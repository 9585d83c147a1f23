// Package api assembles the HTTP surface of the DailyDiff backend.
package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/progate-hackathon-strawberry-flavor/DailyDiff-backend/internal/api/handlers"
	"github.com/progate-hackathon-strawberry-flavor/DailyDiff-backend/internal/api/middleware"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Public        *handlers.PublicHandler
	Auth          *handlers.AuthHandler
	User          *handlers.UserHandler
	Schedule      *handlers.ScheduleHandler
	Commit        *handlers.CommitHandler
	Contributions *handlers.ContributionHandler
	Debug         *handlers.DebugHandler // nil disables /api/debug
}

// NewRouter wires routes, auth and CORS.
func NewRouter(h Handlers, sessions *middleware.SessionManager, allowedOrigins []string) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.RequestLogger)

	// 認証不要な公開エンドポイント
	r.HandleFunc("/", h.Public.Root).Methods(http.MethodGet)
	r.HandleFunc("/health", h.Public.Health).Methods(http.MethodGet)
	r.HandleFunc("/api/content-strategies", h.Public.ContentStrategies).Methods(http.MethodGet)

	r.HandleFunc("/auth/github", h.Auth.Login).Methods(http.MethodGet)
	r.HandleFunc("/auth/github/callback", h.Auth.Callback).Methods(http.MethodGet)
	r.HandleFunc("/api/logout", h.Auth.Logout).Methods(http.MethodPost)

	r.Handle("/api/user", sessions.OptionalAuth(http.HandlerFunc(h.User.GetUser))).Methods(http.MethodGet)

	if h.Debug != nil {
		r.HandleFunc("/api/debug/schedules", h.Debug.ListSchedules).Methods(http.MethodGet)
		r.HandleFunc("/api/test-contributions", h.Debug.MockContributions).Methods(http.MethodGet)
	}

	// 認証が必要なルート
	protected := r.PathPrefix("/api").Subrouter()
	protected.Use(sessions.RequireAuth)
	protected.HandleFunc("/schedule", h.Schedule.GetSchedule).Methods(http.MethodGet)
	protected.HandleFunc("/schedule", h.Schedule.SaveSchedule).Methods(http.MethodPost)
	protected.HandleFunc("/schedule", h.Schedule.PauseSchedule).Methods(http.MethodDelete)
	protected.HandleFunc("/commit-now", h.Commit.CommitNow).Methods(http.MethodPost)
	protected.HandleFunc("/contributions", h.Contributions.GetContributions).Methods(http.MethodGet)

	return middleware.CORSHandler(allowedOrigins)(r)
}
