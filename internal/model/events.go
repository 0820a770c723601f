package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	EventFrame        EventType = "frame"
	EventPieceLocked  EventType = "piece_locked"
	EventLinesCleared EventType = "lines_cleared"
	EventGameOver     EventType = "game_over"
	EventRestarted    EventType = "restarted"
	EventPaused       EventType = "paused"
	EventResumed      EventType = "resumed"
)

// Event is published to listeners of a session
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	SessionID SessionID `json:"session_id"`
	Snapshot  Snapshot  `json:"snapshot"`
	Lines     int       `json:"lines,omitempty"` // Set for lines_cleared
}
