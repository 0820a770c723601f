package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/portfolio/internal/api/middleware"
	"github.com/mcoot/portfolio/internal/api/request"
	"github.com/mcoot/portfolio/internal/api/response"
	"github.com/mcoot/portfolio/internal/model"
	"github.com/mcoot/portfolio/internal/services/session"
)

// SessionHandler handles game session endpoints
type SessionHandler struct {
	controller *session.Controller
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(controller *session.Controller) *SessionHandler {
	return &SessionHandler{
		controller: controller,
	}
}

// Create handles POST /api/v1/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	s, token, err := h.controller.Create(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.Created(w, "/api/v1/sessions/"+string(s.ID), response.CreateSessionResponse{
		Session: response.SessionFromSnapshot(s.Snapshot()),
		Token:   token,
	})
}

// Get handles GET /api/v1/sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.SessionID(mux.Vars(r)["id"])

	snapshot, err := h.controller.Get(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionFromSnapshot(snapshot))
}

// Command handles POST /api/v1/sessions/{id}/commands
func (h *SessionHandler) Command(w http.ResponseWriter, r *http.Request) {
	id := middleware.GetSessionID(r.Context())

	var req request.CommandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	cmd, err := model.ParseCommand(req.Command)
	if err != nil {
		WriteError(w, err)
		return
	}

	changed, snapshot, err := h.controller.Command(r.Context(), id, cmd)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.CommandResponse{
		Changed: changed,
		Session: response.SessionFromSnapshot(snapshot),
	})
}

// Tick handles POST /api/v1/sessions/{id}/tick. An empty body advances one tick.
func (h *SessionHandler) Tick(w http.ResponseWriter, r *http.Request) {
	id := middleware.GetSessionID(r.Context())

	req := request.TickRequest{Count: 1}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	snapshot, err := h.controller.Tick(r.Context(), id, req.Count)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionFromSnapshot(snapshot))
}

// Delete handles DELETE /api/v1/sessions/{id}
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := middleware.GetSessionID(r.Context())

	if err := h.controller.Delete(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Health handles GET /api/v1/health
func (h *SessionHandler) Health(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.HealthResponse{
		Status:         "ok",
		ActiveSessions: h.controller.ActiveCount(),
	})
}
