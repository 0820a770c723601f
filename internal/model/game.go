package model

import "time"

// SessionID uniquely identifies a game session
type SessionID string

// GameState represents the phase of the simulation state machine
type GameState string

const (
	GameStateRunning GameState = "running" // Pieces fall on every drop interval
	GameStatePaused  GameState = "paused"  // Idle until resumed
	GameStateOver    GameState = "over"    // Terminal until restarted
)

// Simulation defaults
const (
	DefaultDropDelay = 28 // Ticks between automatic drop steps
	PointsPerLine    = 100
)

// SpawnPosition is the anchor every new piece starts from
var SpawnPosition = Position{X: 3, Y: 0}

// Session is the single mutable aggregate for one game
type Session struct {
	ID        SessionID `json:"id"`
	OwnerHash string    `json:"owner_hash"` // sha256 of the owner token, hex encoded

	Board   *Board    `json:"board"`
	Current Piece     `json:"current"`
	State   GameState `json:"state"`

	// Drop cadence
	DropTick int `json:"drop_tick"`
	Delay    int `json:"delay"`

	// Progress
	Score  int    `json:"score"`
	Lines  int    `json:"lines"`
	Frames uint64 `json:"frames"` // Ticks simulated while running
	Games  int    `json:"games"`  // Number of restarts plus one

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsRunning returns true while pieces are falling
func (s *Session) IsRunning() bool {
	return s.State == GameStateRunning
}

// IsOver returns true once the game has reached its terminal state
func (s *Session) IsOver() bool {
	return s.State == GameStateOver
}

// Snapshot is the read-only view handed to renderers
type Snapshot struct {
	SessionID SessionID     `json:"session_id"`
	State     GameState     `json:"state"`
	Grid      [][]PieceType `json:"grid"`
	Current   PieceView     `json:"current"`
	Score     int           `json:"score"`
	Lines     int           `json:"lines"`
	DropTick  int           `json:"drop_tick"`
	Delay     int           `json:"delay"`
	Frames    uint64        `json:"frames"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// PieceView describes the falling piece for rendering
type PieceView struct {
	Type  PieceType `json:"type"`
	Name  string    `json:"name"`
	Color string    `json:"color"`
	Shape Shape     `json:"shape"`
	Pos   Position  `json:"pos"`
}

// Snapshot copies the current state into a value safe to share
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		SessionID: s.ID,
		State:     s.State,
		Grid:      s.Board.Rows(),
		Current: PieceView{
			Type:  s.Current.Type,
			Name:  s.Current.Type.Name(),
			Color: s.Current.Color(),
			Shape: s.Current.Shape.Clone(),
			Pos:   s.Current.Pos,
		},
		Score:     s.Score,
		Lines:     s.Lines,
		DropTick:  s.DropTick,
		Delay:     s.Delay,
		Frames:    s.Frames,
		UpdatedAt: s.UpdatedAt,
	}
}

// Clone returns a deep copy of the session
func (s *Session) Clone() *Session {
	c := *s
	c.Board = s.Board.Clone()
	c.Current.Shape = s.Current.Shape.Clone()
	return &c
}
