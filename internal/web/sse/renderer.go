package sse

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/mcoot/portfolio/internal/model"
	"github.com/mcoot/portfolio/internal/web/templates/components"
)

// BoardEvent is the SSE event carrying the rendered board fragment
const BoardEvent = "board"

// Renderer converts session events into SSE payloads
type Renderer struct{}

// NewRenderer creates a new Renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// EventData is one named SSE event
type EventData struct {
	EventName string
	Data      string
}

// RenderBoard renders the read-only board fragment for a snapshot
func (r *Renderer) RenderBoard(ctx context.Context, snap model.Snapshot) (string, error) {
	var buf bytes.Buffer
	if err := components.Board(snap, "").Render(ctx, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderEvent returns the JSON event, followed by a board fragment when the
// event changes what is drawn
func (r *Renderer) RenderEvent(ctx context.Context, event model.Event) ([]EventData, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}
	events := []EventData{{EventName: string(event.Type), Data: string(payload)}}

	switch event.Type {
	case model.EventFrame, model.EventPaused, model.EventResumed, model.EventRestarted, model.EventGameOver:
		html, err := r.RenderBoard(ctx, event.Snapshot)
		if err != nil {
			return nil, err
		}
		events = append(events, EventData{EventName: BoardEvent, Data: html})
	}
	return events, nil
}

// Messages frames rendered events for the wire
func Messages(events []EventData) [][]byte {
	out := make([][]byte, 0, len(events))
	for _, e := range events {
		out = append(out, formatSSEMessage(e.EventName, e.Data))
	}
	return out
}
