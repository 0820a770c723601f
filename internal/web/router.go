package web

//go:generate go run github.com/a-h/templ/cmd/templ generate -path ./templates

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/portfolio/internal/services/session"
	"github.com/mcoot/portfolio/internal/web/handler"
	"github.com/mcoot/portfolio/internal/web/middleware"
	"github.com/mcoot/portfolio/internal/web/sse"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger            *slog.Logger
	SessionController *session.Controller
	HubManager        *sse.HubManager
	GitHubUsername    string // Shown as a profile link when set
	LeetCodeUsername  string
	StaticDir         string // Path to static files directory
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	Register(r, cfg)
	return r
}

// Register adds the web routes to an existing router
func Register(r *mux.Router, cfg RouterConfig) {
	hubManager := cfg.HubManager
	if hubManager == nil {
		hubManager = sse.NewHubManager(cfg.Logger)
	}

	homeHandler := handler.NewHomeHandler(cfg.GitHubUsername, cfg.LeetCodeUsername)
	gameHandler := handler.NewGameHandler(cfg.SessionController, hubManager, cfg.Logger)

	site := r.NewRoute().Subrouter()
	site.Use(middleware.Recovery(cfg.Logger))
	site.Use(middleware.Logging(cfg.Logger))

	if cfg.StaticDir != "" {
		staticHandler := http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir)))
		site.PathPrefix("/static/").Handler(staticHandler)
	}

	pages := site.NewRoute().Subrouter()
	pages.Use(middleware.Flash())
	pages.Use(middleware.ActiveSession(cfg.SessionController))
	pages.HandleFunc("/", homeHandler.Home).Methods(http.MethodGet)
	pages.HandleFunc("/play", gameHandler.Create).Methods(http.MethodPost)
	pages.HandleFunc("/play/{id}", gameHandler.View).Methods(http.MethodGet)
	pages.HandleFunc("/play/{id}/events", gameHandler.Events).Methods(http.MethodGet)

	owned := pages.PathPrefix("/play/{id}").Subrouter()
	owned.Use(middleware.RequireOwner(cfg.SessionController))
	owned.HandleFunc("/command", gameHandler.Command).Methods(http.MethodPost)
	owned.HandleFunc("/end", gameHandler.End).Methods(http.MethodPost)
}
