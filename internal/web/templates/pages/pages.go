package pages

import (
	"net/url"

	"github.com/mcoot/portfolio/internal/model"
	"github.com/mcoot/portfolio/internal/web/templates/layout"
)

// HomeData is the data for the landing page
type HomeData struct {
	layout.PageData
	GitHubUsername   string
	LeetCodeUsername string
	Session          model.SessionID // Session owned by the viewer, if any
}

type profileLink struct {
	Class string
	Href  string
	Label string
}

func (d HomeData) profileLinks() []profileLink {
	var links []profileLink
	if d.GitHubUsername != "" {
		links = append(links, profileLink{"github", "/api/v1/github/" + url.PathEscape(d.GitHubUsername), "GitHub contributions"})
	}
	if d.LeetCodeUsername != "" {
		links = append(links, profileLink{"leetcode", "/api/v1/leetcode/" + url.PathEscape(d.LeetCodeUsername), "LeetCode progress"})
	}
	return append(links, profileLink{"blog", "/api/v1/latest-blog-post", "Latest blog post"})
}

// PlayData is the data for the game page
type PlayData struct {
	layout.PageData
	Snapshot model.Snapshot
	Owner    bool // Viewer holds the session token
}

func (d PlayData) basePath() string {
	return "/play/" + url.PathEscape(string(d.Snapshot.SessionID))
}

// commandURL is empty for spectators, which renders a read-only board
func (d PlayData) commandURL() string {
	if !d.Owner {
		return ""
	}
	return d.basePath() + "/command"
}
