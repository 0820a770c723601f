package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/portfolio/internal/api/response"
	"github.com/mcoot/portfolio/internal/services/profile"
)

// ProfileHandler proxies the external profile APIs
type ProfileHandler struct {
	service *profile.Service
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(service *profile.Service) *ProfileHandler {
	return &ProfileHandler{
		service: service,
	}
}

// GitHub handles GET /api/v1/github/{username}
func (h *ProfileHandler) GitHub(w http.ResponseWriter, r *http.Request) {
	calendar, err := h.service.GitHubContributions(r.Context(), mux.Vars(r)["username"])
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, calendar)
}

// LeetCode handles GET /api/v1/leetcode/{username}
func (h *ProfileHandler) LeetCode(w http.ResponseWriter, r *http.Request) {
	solved, err := h.service.LeetCodeSolved(r.Context(), mux.Vars(r)["username"])
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, solved)
}

// LatestBlogPost handles GET /api/v1/latest-blog-post
func (h *ProfileHandler) LatestBlogPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.service.LatestBlogPost(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, post)
}
