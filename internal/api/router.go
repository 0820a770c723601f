package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/portfolio/internal/api/apierr"
	"github.com/mcoot/portfolio/internal/api/handler"
	"github.com/mcoot/portfolio/internal/api/middleware"
	"github.com/mcoot/portfolio/internal/services/profile"
	"github.com/mcoot/portfolio/internal/services/session"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger            *slog.Logger
	SessionController *session.Controller
	ProfileService    *profile.Service
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	Register(r, cfg)
	return r
}

// Register mounts the API routes under /api/v1 on an existing router
func Register(r *mux.Router, cfg RouterConfig) {
	// Create handlers
	sessionHandler := handler.NewSessionHandler(cfg.SessionController)
	profileHandler := handler.NewProfileHandler(cfg.ProfileService)

	// Create middleware
	ownerMiddleware := middleware.SessionOwner(cfg.SessionController)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)
	api.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		apierr.WriteError(w, apierr.NewNotFoundError())
	})

	// Health check endpoint (no auth)
	api.HandleFunc("/health", sessionHandler.Health).Methods(http.MethodGet)

	// Session routes; anyone may create or watch a session
	api.HandleFunc("/sessions", sessionHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}", sessionHandler.Get).Methods(http.MethodGet)

	// Owner-only session routes
	owned := api.PathPrefix("/sessions/{id}").Subrouter()
	owned.Use(ownerMiddleware)
	owned.HandleFunc("/commands", sessionHandler.Command).Methods(http.MethodPost)
	owned.HandleFunc("/tick", sessionHandler.Tick).Methods(http.MethodPost)
	owned.HandleFunc("", sessionHandler.Delete).Methods(http.MethodDelete)

	// Profile proxy routes
	api.HandleFunc("/github/{username}", profileHandler.GitHub).Methods(http.MethodGet)
	api.HandleFunc("/leetcode/{username}", profileHandler.LeetCode).Methods(http.MethodGet)
	api.HandleFunc("/latest-blog-post", profileHandler.LatestBlogPost).Methods(http.MethodGet)
}
