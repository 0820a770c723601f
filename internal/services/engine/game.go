package engine

import (
	"time"

	"github.com/mcoot/portfolio/internal/model"
)

// TickResult describes what a single tick did
type TickResult struct {
	Advanced bool // The simulation was running and the tick counter moved
	Stepped  bool // The drop interval elapsed and a drop step ran
	Moved    bool // The piece fell one row
	Landed   bool // The piece was merged into the board
	Lines    int  // Rows cleared by the landing
	GameOver bool // The landing occupied the top row
}

// Changed returns true if the tick altered anything a renderer would show
func (r TickResult) Changed() bool {
	return r.Advanced
}

// Game runs the simulation for one session. It is not safe for concurrent use;
// callers serialize access (see Loop).
type Game struct {
	session   *model.Session
	generator *Generator
	now       func() time.Time
}

// Options configures a Game
type Options struct {
	// Delay fills in the drop delay of a session stored without one
	// (default model.DefaultDropDelay). The session's own delay always wins.
	Delay int
	// Now supplies timestamps (default time.Now)
	Now func() time.Time
}

// NewSession creates a fresh, paused session
func NewSession(id model.SessionID, ownerHash string, generator *Generator, delay int, now time.Time) *model.Session {
	if delay <= 0 {
		delay = model.DefaultDropDelay
	}
	return &model.Session{
		ID:        id,
		OwnerHash: ownerHash,
		Board:     model.NewBoard(),
		Current:   generator.Next(),
		State:     model.GameStatePaused,
		DropTick:  0,
		Delay:     delay,
		Score:     0,
		Games:     1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// New wraps an existing session
func New(session *model.Session, generator *Generator, opts Options) *Game {
	if session.Delay <= 0 {
		session.Delay = opts.Delay
	}
	if session.Delay <= 0 {
		session.Delay = model.DefaultDropDelay
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Game{
		session:   session,
		generator: generator,
		now:       now,
	}
}

// Session returns the underlying aggregate
func (g *Game) Session() *model.Session {
	return g.session
}

// Snapshot returns a read-only copy of the state for rendering
func (g *Game) Snapshot() model.Snapshot {
	return g.session.Snapshot()
}

// State returns the machine state
func (g *Game) State() model.GameState {
	return g.session.State
}

// Tick advances the simulation by one frame. It is a no-op unless running.
func (g *Game) Tick() TickResult {
	s := g.session
	var result TickResult
	if s.State != model.GameStateRunning {
		return result
	}

	result.Advanced = true
	s.Frames++
	s.DropTick++
	if s.DropTick >= s.Delay {
		s.DropTick = 0
		result.Stepped = true

		next := s.Current.Moved(0, 1)
		if Fits(s.Board, next) {
			s.Current = next
			result.Moved = true
		} else {
			result.Landed = true
			result.Lines, result.GameOver = g.land()
		}
	}
	s.UpdatedAt = g.now()
	return result
}

// land merges the current piece, clears rows, scores and either ends the game
// or spawns the next piece
func (g *Game) land() (int, bool) {
	s := g.session
	Merge(s.Board, s.Current)
	lines := ClearLines(s.Board)
	s.Score += LineScore(lines)
	s.Lines += lines

	if s.Board.RowOccupied(0) {
		s.State = model.GameStateOver
		return lines, true
	}
	s.Current = g.generator.Next()
	return lines, false
}

// Apply executes a command and reports whether the state changed.
// Rejected moves and commands that do not apply in the current state are no-ops.
func (g *Game) Apply(cmd model.Command) bool {
	var changed bool
	switch cmd {
	case model.CommandMoveLeft:
		changed = g.MoveLeft()
	case model.CommandMoveRight:
		changed = g.MoveRight()
	case model.CommandSoftDrop:
		changed = g.SoftDrop()
	case model.CommandRotate:
		changed = g.Rotate()
	case model.CommandHardDrop:
		changed = g.HardDrop()
	case model.CommandPauseToggle:
		changed = g.PauseToggle()
	case model.CommandPause:
		changed = g.Pause()
	case model.CommandResume:
		changed = g.Resume()
	case model.CommandRestart:
		g.Restart()
		changed = true
	case model.CommandClick:
		changed = g.Click()
	}
	if changed {
		g.session.UpdatedAt = g.now()
	}
	return changed
}

// MoveLeft shifts the piece one column left if it fits
func (g *Game) MoveLeft() bool {
	return g.try(g.session.Current.Moved(-1, 0))
}

// MoveRight shifts the piece one column right if it fits
func (g *Game) MoveRight() bool {
	return g.try(g.session.Current.Moved(1, 0))
}

// SoftDrop moves the piece one row down if it fits. Landing is left to the tick.
func (g *Game) SoftDrop() bool {
	return g.try(g.session.Current.Moved(0, 1))
}

// Rotate turns the piece clockwise if the rotated matrix fits
func (g *Game) Rotate() bool {
	return g.try(g.session.Current.Rotated())
}

// HardDrop moves the piece to its lowest fitting row. The merge still happens on
// the next tick whose drop step fails.
func (g *Game) HardDrop() bool {
	s := g.session
	if s.State != model.GameStateRunning {
		return false
	}
	dropped := DropPosition(s.Board, s.Current)
	if dropped.Pos == s.Current.Pos {
		return false
	}
	s.Current = dropped
	return true
}

// try accepts the candidate only while running and only if it fits
func (g *Game) try(candidate model.Piece) bool {
	s := g.session
	if s.State != model.GameStateRunning {
		return false
	}
	if !Fits(s.Board, candidate) {
		return false
	}
	s.Current = candidate
	return true
}

// PauseToggle flips between running and paused; it does nothing once over
func (g *Game) PauseToggle() bool {
	switch g.session.State {
	case model.GameStateRunning:
		g.session.State = model.GameStatePaused
		return true
	case model.GameStatePaused:
		g.session.State = model.GameStateRunning
		return true
	default:
		return false
	}
}

// Pause stops a running game
func (g *Game) Pause() bool {
	if g.session.State != model.GameStateRunning {
		return false
	}
	g.session.State = model.GameStatePaused
	return true
}

// Resume starts a paused game
func (g *Game) Resume() bool {
	if g.session.State != model.GameStatePaused {
		return false
	}
	g.session.State = model.GameStateRunning
	return true
}

// Click restarts a finished game, otherwise toggles pause
func (g *Game) Click() bool {
	if g.session.State == model.GameStateOver {
		g.Restart()
		return true
	}
	return g.PauseToggle()
}

// Restart replaces the whole game state with a fresh running game. Identity,
// ownership, drop delay and creation time are kept.
func (g *Game) Restart() {
	old := g.session
	fresh := NewSession(old.ID, old.OwnerHash, g.generator, old.Delay, g.now())
	fresh.CreatedAt = old.CreatedAt
	fresh.Games = old.Games + 1
	fresh.State = model.GameStateRunning
	*g.session = *fresh
}
