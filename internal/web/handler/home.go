package handler

import (
	"net/http"

	"github.com/mcoot/portfolio/internal/web/middleware"
	"github.com/mcoot/portfolio/internal/web/templates/layout"
	"github.com/mcoot/portfolio/internal/web/templates/pages"
)

// HomeHandler handles the home page
type HomeHandler struct {
	githubUsername   string
	leetcodeUsername string
}

// NewHomeHandler creates a new HomeHandler. Empty usernames hide the matching profile link.
func NewHomeHandler(githubUsername, leetcodeUsername string) *HomeHandler {
	return &HomeHandler{
		githubUsername:   githubUsername,
		leetcodeUsername: leetcodeUsername,
	}
}

// Home renders the home page
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	data := pages.HomeData{
		PageData: layout.PageData{
			Title: "Home",
			Flash: middleware.GetFlash(r.Context()),
		},
		GitHubUsername:   h.githubUsername,
		LeetCodeUsername: h.leetcodeUsername,
		Session:          middleware.GetActiveSession(r.Context()),
	}

	render(w, r, http.StatusOK, pages.Home(data))
}
