package response

import (
	"time"

	"github.com/mcoot/portfolio/internal/model"
)

// Piece represents the falling piece
type Piece struct {
	Type  string  `json:"type"`
	Color string  `json:"color"`
	X     int     `json:"x"`
	Y     int     `json:"y"`
	Shape [][]int `json:"shape"`
}

// Session represents a game session in API responses
type Session struct {
	ID        string    `json:"id"`
	State     string    `json:"state"`
	Grid      [][]int   `json:"grid"`
	Current   Piece     `json:"current"`
	Score     int       `json:"score"`
	Lines     int       `json:"lines"`
	DropTick  int       `json:"drop_tick"`
	Delay     int       `json:"delay"`
	Frames    uint64    `json:"frames"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SessionFromSnapshot converts a model.Snapshot
func SessionFromSnapshot(s model.Snapshot) Session {
	return Session{
		ID:    string(s.SessionID),
		State: string(s.State),
		Grid:  toInts(s.Grid),
		Current: Piece{
			Type:  s.Current.Name,
			Color: s.Current.Color,
			X:     s.Current.Pos.X,
			Y:     s.Current.Pos.Y,
			Shape: toInts(s.Current.Shape),
		},
		Score:     s.Score,
		Lines:     s.Lines,
		DropTick:  s.DropTick,
		Delay:     s.Delay,
		Frames:    s.Frames,
		UpdatedAt: s.UpdatedAt,
	}
}

func toInts(rows [][]model.PieceType) [][]int {
	out := make([][]int, len(rows))
	for i, row := range rows {
		out[i] = make([]int, len(row))
		for j, c := range row {
			out[i][j] = int(c)
		}
	}
	return out
}

// CreateSessionResponse is returned once, when a session is created
type CreateSessionResponse struct {
	Session Session `json:"session"`
	Token   string  `json:"token"`
}

// CommandResponse reports whether a command changed the session
type CommandResponse struct {
	Changed bool    `json:"changed"`
	Session Session `json:"session"`
}

// HealthResponse is the response for the health check
type HealthResponse struct {
	Status         string `json:"status"`
	ActiveSessions int    `json:"active_sessions"`
}
