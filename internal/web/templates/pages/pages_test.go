package pages

import (
	"bytes"
	"context"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/portfolio/internal/model"
	"github.com/mcoot/portfolio/internal/web/templates/layout"
)

func render(t *testing.T, c templ.Component) *goquery.Document {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	return doc
}

func pausedSnapshot() model.Snapshot {
	s := &model.Session{
		ID:      "abc",
		Board:   model.NewBoard(),
		Current: model.NewPiece(model.PieceT, model.SpawnPosition),
		State:   model.GameStatePaused,
		Delay:   model.DefaultDropDelay,
	}
	return s.Snapshot()
}

func TestPlayOwnerGetsControls(t *testing.T) {
	doc := render(t, Play(PlayData{Snapshot: pausedSnapshot(), Owner: true}))

	assert.Equal(t, "/play/abc/events", doc.Find("section.game").AttrOr("sse-connect", ""))
	assert.Equal(t, "#board", doc.Find("[sse-swap=board]").AttrOr("hx-target", ""))
	assert.Equal(t, "/play/abc/command", doc.Find(".overlay form").AttrOr("action", ""))
	assert.Equal(t, 6, doc.Find(".controls button").Length())
	assert.Equal(t, "/play/abc/end", doc.Find("form.end").AttrOr("action", ""))
	assert.Equal(t, 0, doc.Find(".spectating").Length())
}

func TestPlaySpectatorIsReadOnly(t *testing.T) {
	doc := render(t, Play(PlayData{PageData: layout.PageData{Title: "Game"}, Snapshot: pausedSnapshot()}))

	assert.Equal(t, 0, doc.Find(".controls").Length())
	assert.Equal(t, 0, doc.Find(".overlay form").Length())
	assert.Equal(t, 0, doc.Find("form.end").Length())
	assert.Equal(t, 1, doc.Find(".spectating").Length())
	assert.Equal(t, "Game | Portfolio", doc.Find("title").Text())
}

func TestHomeLinks(t *testing.T) {
	doc := render(t, Home(HomeData{GitHubUsername: "octo<cat>", Session: "abc"}))

	assert.Equal(t, "/play", doc.Find("form").AttrOr("action", ""))
	assert.Equal(t, "/play/abc", doc.Find("a.resume").AttrOr("href", ""))
	assert.Equal(t, "/api/v1/github/octo%3Ccat%3E", doc.Find("a.github").AttrOr("href", ""))
	assert.Equal(t, 0, doc.Find("a.leetcode").Length())
	assert.Equal(t, 1, doc.Find("a.blog").Length())
	assert.Equal(t, "Portfolio", doc.Find("title").Text())
}

func TestHomeWithoutSession(t *testing.T) {
	doc := render(t, Home(HomeData{LeetCodeUsername: "alice"}))

	assert.Equal(t, 0, doc.Find("a.resume").Length())
	assert.Equal(t, "/api/v1/leetcode/alice", doc.Find("a.leetcode").AttrOr("href", ""))
}

func TestPageFlash(t *testing.T) {
	doc := render(t, Home(HomeData{PageData: layout.PageData{Flash: &layout.FlashMessage{Type: "error", Message: "Game not found"}}}))

	flash := doc.Find(".flash")
	assert.True(t, flash.HasClass("flash-error"))
	assert.Equal(t, "Game not found", flash.Text())
}

func TestErrorPage(t *testing.T) {
	doc := render(t, Error("Internal Server Error", "Something went wrong <again>."))

	assert.Equal(t, "Internal Server Error", doc.Find("h1").Text())
	assert.Equal(t, "Something went wrong <again>.", doc.Find("main p").First().Text())
	assert.Equal(t, "/", doc.Find("a").Last().AttrOr("href", ""))
}
