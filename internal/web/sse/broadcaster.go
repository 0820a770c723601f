package sse

import (
	"context"
	"log/slog"

	"github.com/mcoot/portfolio/internal/model"
)

// Broadcaster pushes session events to the SSE hub of that session
type Broadcaster struct {
	hubManager *HubManager
	renderer   *Renderer
	logger     *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		renderer:   NewRenderer(),
		logger:     logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// Publish renders an event and broadcasts it. Sessions nobody watches are skipped.
func (b *Broadcaster) Publish(event model.Event) {
	hub := b.hubManager.GetHub(event.SessionID)
	if hub == nil {
		return
	}

	events, err := b.renderer.RenderEvent(context.Background(), event)
	if err != nil {
		b.logger.Error("sse failed to render event",
			slog.String("session_id", string(event.SessionID)),
			slog.String("event", string(event.Type)),
			slog.Any("error", err))
		return
	}
	for _, e := range events {
		hub.BroadcastEvent(e.EventName, e.Data)
	}
}

// SessionClosed drops the session's hub, ending every open stream
func (b *Broadcaster) SessionClosed(id model.SessionID) {
	b.hubManager.RemoveHub(id)
}

// Watching reports whether the session has at least one open stream
func (b *Broadcaster) Watching(id model.SessionID) bool {
	hub := b.hubManager.GetHub(id)
	return hub != nil && hub.ClientCount() > 0
}
