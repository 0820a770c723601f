package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/portfolio/internal/model"
	"github.com/mcoot/portfolio/internal/services/session"
	"github.com/mcoot/portfolio/internal/web/middleware"
	"github.com/mcoot/portfolio/internal/web/sse"
	"github.com/mcoot/portfolio/internal/web/templates/layout"
	"github.com/mcoot/portfolio/internal/web/templates/pages"
)

// GameHandler handles the game pages and their controls
type GameHandler struct {
	sessionController *session.Controller
	hubManager        *sse.HubManager
	renderer          *sse.Renderer
	logger            *slog.Logger
}

// NewGameHandler creates a new GameHandler
func NewGameHandler(sessionController *session.Controller, hubManager *sse.HubManager, logger *slog.Logger) *GameHandler {
	return &GameHandler{
		sessionController: sessionController,
		hubManager:        hubManager,
		renderer:          sse.NewRenderer(),
		logger:            logger,
	}
}

// Create starts a new game for the viewer and sends them to it
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess, token, err := h.sessionController.Create(r.Context())
	if err != nil {
		h.logger.Error("failed to create session", slog.Any("error", err))
		middleware.SetFlash(w, "error", "Could not start a new game")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	middleware.SetSessionCookies(w, sess.ID, token)
	http.Redirect(w, r, "/play/"+string(sess.ID), http.StatusSeeOther)
}

// View renders the game page
func (h *GameHandler) View(w http.ResponseWriter, r *http.Request) {
	id := model.SessionID(mux.Vars(r)["id"])

	snapshot, err := h.sessionController.Get(r.Context(), id)
	if err != nil {
		h.redirectHome(w, r, err)
		return
	}

	data := pages.PlayData{
		PageData: layout.PageData{
			Title: "Play",
			Flash: middleware.GetFlash(r.Context()),
		},
		Snapshot: snapshot,
		Owner:    middleware.IsOwner(r, h.sessionController, id),
	}
	render(w, r, http.StatusOK, pages.Play(data))
}

// Command applies a key binding or command name posted from the controls
func (h *GameHandler) Command(w http.ResponseWriter, r *http.Request) {
	id := model.SessionID(mux.Vars(r)["id"])
	back := "/play/" + string(id)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	input := r.PostFormValue("key")
	if input == "" {
		input = r.PostFormValue("command")
	}

	cmd, err := model.ParseCommand(input)
	if err != nil {
		if isHTMX(r) {
			http.Error(w, "Unknown key", http.StatusBadRequest)
			return
		}
		middleware.SetFlash(w, "error", "Unknown key: "+input)
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	if _, _, err := h.sessionController.Command(r.Context(), id, cmd); err != nil {
		h.redirectHome(w, r, err)
		return
	}

	// The board reaches htmx clients over the event stream
	if isHTMX(r) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// End deletes the viewer's game and forgets it
func (h *GameHandler) End(w http.ResponseWriter, r *http.Request) {
	id := model.SessionID(mux.Vars(r)["id"])

	if err := h.sessionController.Delete(r.Context(), id); err != nil && !errors.Is(err, model.ErrSessionNotFound) {
		h.logger.Error("failed to delete session",
			slog.String("session_id", string(id)),
			slog.Any("error", err))
		middleware.SetFlash(w, "error", "Could not end the game")
		http.Redirect(w, r, "/play/"+string(id), http.StatusSeeOther)
		return
	}

	middleware.ClearSessionCookies(w)
	middleware.SetFlash(w, "info", "Game ended")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Events streams the session's frames as server-sent events
func (h *GameHandler) Events(w http.ResponseWriter, r *http.Request) {
	id := model.SessionID(mux.Vars(r)["id"])

	snapshot, err := h.sessionController.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrSessionNotFound) {
			http.Error(w, "Game not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	initial, err := h.renderer.RenderEvent(r.Context(), model.Event{
		Type:      model.EventFrame,
		Timestamp: snapshot.UpdatedAt,
		SessionID: id,
		Snapshot:  snapshot,
	})
	if err != nil {
		h.logger.Error("sse failed to render initial frame",
			slog.String("session_id", string(id)),
			slog.Any("error", err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	viewer := "spectator"
	if middleware.IsOwner(r, h.sessionController, id) {
		viewer = "owner"
	}

	hub := h.hubManager.GetOrCreateHub(id)
	sse.ServeSSE(w, r, hub, viewer, sse.Messages(initial)...)
}

func (h *GameHandler) redirectHome(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, model.ErrSessionNotFound) {
		middleware.SetFlash(w, "error", "Game not found")
	} else {
		h.logger.Error("session request failed", slog.Any("error", err))
		middleware.SetFlash(w, "error", "Something went wrong")
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
