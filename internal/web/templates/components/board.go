package components

import "github.com/mcoot/portfolio/internal/model"

// Overlay text shown over a stopped board
const (
	PausedTitle    = "Paused"
	PausedControls = "Controls: ← → ↓ (move), F (rotate), D (drop)"
	PausedAction   = "Click to resume"
	OverTitle      = "Game Over"
	OverAction     = "Click to restart"
)

// BoardID is the element id swapped by the live event stream
const BoardID = "board"

// composeGrid returns the settled cells with the falling piece painted on top.
// The piece is only drawn while the game is running.
func composeGrid(snap model.Snapshot) [][]model.PieceType {
	grid := make([][]model.PieceType, len(snap.Grid))
	for y, row := range snap.Grid {
		grid[y] = make([]model.PieceType, len(row))
		copy(grid[y], row)
	}
	if snap.State != model.GameStateRunning {
		return grid
	}
	for dy, row := range snap.Current.Shape {
		for dx, t := range row {
			if t == 0 {
				continue
			}
			x, y := snap.Current.Pos.X+dx, snap.Current.Pos.Y+dy
			if y < 0 || y >= len(grid) || x < 0 || x >= len(grid[y]) {
				continue
			}
			grid[y][x] = t
		}
	}
	return grid
}

type controlKey struct {
	Label string
	Key   string
}

// controlKeys lists the on-screen buttons and the key binding each one posts
var controlKeys = []controlKey{
	{"←", "ArrowLeft"},
	{"→", "ArrowRight"},
	{"↓", "ArrowDown"},
	{"Rotate", "f"},
	{"Drop", "d"},
	{"Pause", "click"},
}
