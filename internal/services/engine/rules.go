package engine

import "github.com/mcoot/portfolio/internal/model"

// Fits reports whether every occupied cell of the piece lies inside the side and
// bottom walls and does not overlap a settled cell. Cells above the board (negative
// row) are neither bounded above nor checked against the grid, so a piece may spawn
// partly off the top.
func Fits(board *model.Board, piece model.Piece) bool {
	for y, row := range piece.Shape {
		for x, t := range row {
			if t == 0 {
				continue
			}
			bx, by := piece.Pos.X+x, piece.Pos.Y+y
			if bx < 0 || bx >= board.Width || by >= board.Height {
				return false
			}
			if by >= 0 && !board.IsEmpty(bx, by) {
				return false
			}
		}
	}
	return true
}

// Merge settles the piece into the grid. Cells still above the board are dropped.
func Merge(board *model.Board, piece model.Piece) {
	for _, c := range piece.Cells() {
		if c.Pos.Y >= 0 {
			board.Set(c.Pos.X, c.Pos.Y, c.Type)
		}
	}
}

// ClearLines removes every full row, shifting the rows above down and inserting
// empty rows at the top. Returns the number of rows removed.
func ClearLines(board *model.Board) int {
	lines := 0
	for y := board.Height - 1; y >= 0; y-- {
		if !board.RowFull(y) {
			continue
		}
		w := board.Width
		// Shift rows [0, y) down by one, then blank the top row
		copy(board.Cells[w:(y+1)*w], board.Cells[:y*w])
		for x := 0; x < w; x++ {
			board.Cells[x] = 0
		}
		lines++
		// Re-check the same index, it now holds the row that was above
		y++
	}
	return lines
}

// LineScore returns the points awarded for clearing the given number of rows
func LineScore(lines int) int {
	return lines * model.PointsPerLine
}

// DropPosition returns the piece moved down as far as it still fits
func DropPosition(board *model.Board, piece model.Piece) model.Piece {
	for {
		next := piece.Moved(0, 1)
		if !Fits(board, next) {
			return piece
		}
		piece = next
	}
}
