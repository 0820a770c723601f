package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/portfolio/internal/model"
)

// fillRow occupies every cell of row y except the listed columns
func fillRow(b *model.Board, y int, except ...int) {
	skip := make(map[int]bool)
	for _, x := range except {
		skip[x] = true
	}
	for x := 0; x < b.Width; x++ {
		if !skip[x] {
			b.Set(x, y, model.PieceZ)
		}
	}
}

func TestFitsBounds(t *testing.T) {
	board := model.NewBoard()

	tests := []struct {
		name  string
		piece model.Piece
		want  bool
	}{
		{"inside", model.NewPiece(model.PieceI, model.Position{X: 3, Y: 0}), true},
		{"flush left", model.NewPiece(model.PieceI, model.Position{X: 0, Y: 5}), true},
		{"flush right", model.NewPiece(model.PieceI, model.Position{X: 6, Y: 5}), true},
		{"past left wall", model.NewPiece(model.PieceI, model.Position{X: -1, Y: 5}), false},
		{"past right wall", model.NewPiece(model.PieceI, model.Position{X: 7, Y: 5}), false},
		{"on bottom row", model.NewPiece(model.PieceI, model.Position{X: 0, Y: 19}), true},
		{"below bottom row", model.NewPiece(model.PieceI, model.Position{X: 0, Y: 20}), false},
		{"tall piece through floor", model.NewPiece(model.PieceJ, model.Position{X: 0, Y: 18}), false},
		{"above board", model.NewPiece(model.PieceJ, model.Position{X: 0, Y: -3}), true},
		{"above board past wall", model.NewPiece(model.PieceJ, model.Position{X: 9, Y: -3}), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Fits(board, tt.piece))
		})
	}
}

func TestFitsEmptyShapeCellsIgnored(t *testing.T) {
	board := model.NewBoard()
	// J has an empty column on the left: (x, y) and (x, y+1) are empty
	board.Set(0, 0, model.PieceO)
	board.Set(0, 1, model.PieceO)

	assert.True(t, Fits(board, model.NewPiece(model.PieceJ, model.Position{X: 0, Y: 0})))
}

func TestFitsOverlap(t *testing.T) {
	board := model.NewBoard()
	board.Set(4, 10, model.PieceT)

	assert.False(t, Fits(board, model.NewPiece(model.PieceI, model.Position{X: 2, Y: 10})))
	assert.True(t, Fits(board, model.NewPiece(model.PieceI, model.Position{X: 5, Y: 10})))
	assert.True(t, Fits(board, model.NewPiece(model.PieceI, model.Position{X: 2, Y: 9})))
}

func TestFitsNegativeRowsSkipCollision(t *testing.T) {
	board := model.NewBoard()
	for y := 0; y < board.Height; y++ {
		fillRow(board, y)
	}

	for _, pt := range model.AllPieceTypes() {
		piece := model.NewPiece(pt, model.Position{X: 3, Y: -4})
		assert.True(t, Fits(board, piece), "piece %s above a full board", pt.Name())
	}

	// Any cell reaching row 0 collides
	assert.False(t, Fits(board, model.NewPiece(model.PieceJ, model.Position{X: 3, Y: -2})))
}

func TestRotateFourTimesIsIdentity(t *testing.T) {
	for _, pt := range model.AllPieceTypes() {
		t.Run(pt.Name(), func(t *testing.T) {
			original := pt.Shape()
			shape := original
			for i := 0; i < 4; i++ {
				shape = shape.Rotate()
			}
			assert.True(t, original.Equal(shape))
		})
	}
}

func TestRotateTwiceRestoresDimensions(t *testing.T) {
	for _, pt := range model.AllPieceTypes() {
		original := pt.Shape()
		once := original.Rotate()
		twice := once.Rotate()

		assert.Equal(t, original.Cols(), once.Rows(), pt.Name())
		assert.Equal(t, original.Rows(), once.Cols(), pt.Name())
		assert.Equal(t, original.Rows(), twice.Rows(), pt.Name())
		assert.Equal(t, original.Cols(), twice.Cols(), pt.Name())
	}
}

func TestRotateClockwise(t *testing.T) {
	// J: [[0,2],[0,2],[2,2]] turns into [[2,0,0],[2,2,2]]
	rotated := model.PieceJ.Shape().Rotate()
	assert.Equal(t, model.Shape{{2, 0, 0}, {2, 2, 2}}, rotated)

	// The source matrix is left alone
	assert.Equal(t, model.Shape{{0, 2}, {0, 2}, {2, 2}}, model.PieceJ.Shape())
}

func TestMerge(t *testing.T) {
	board := model.NewBoard()
	piece := model.NewPiece(model.PieceT, model.Position{X: 4, Y: 18})

	Merge(board, piece)

	assert.Equal(t, model.PieceT, board.Get(4, 18))
	assert.Equal(t, model.PieceT, board.Get(5, 18))
	assert.Equal(t, model.PieceT, board.Get(6, 18))
	assert.Equal(t, model.PieceT, board.Get(5, 19))
	assert.True(t, board.IsEmpty(4, 19))
	assert.Equal(t, 4, board.FilledCount())
}

func TestMergeDropsCellsAboveBoard(t *testing.T) {
	board := model.NewBoard()
	// L spans rows -1, 0 and 1
	piece := model.NewPiece(model.PieceL, model.Position{X: 0, Y: -1})

	Merge(board, piece)

	assert.Equal(t, model.PieceL, board.Get(0, 0))
	assert.Equal(t, model.PieceL, board.Get(0, 1))
	assert.Equal(t, model.PieceL, board.Get(1, 1))
	assert.Equal(t, 3, board.FilledCount())
}

func TestClearLinesNone(t *testing.T) {
	board := model.NewBoard()
	fillRow(board, 19, 5)
	before := board.Clone()

	assert.Equal(t, 0, ClearLines(board))
	assert.Equal(t, before.Cells, board.Cells)
}

func TestClearLinesSingle(t *testing.T) {
	board := model.NewBoard()
	fillRow(board, 19)
	board.Set(2, 18, model.PieceI)

	require.Equal(t, 1, ClearLines(board))

	assert.Equal(t, model.BoardHeight, board.Height)
	assert.Len(t, board.Cells, model.BoardWidth*model.BoardHeight)
	assert.Equal(t, model.PieceI, board.Get(2, 19))
	assert.Equal(t, 1, board.FilledCount())
}

func TestClearLinesMultiplePreservesOrder(t *testing.T) {
	board := model.NewBoard()
	fillRow(board, 19)
	board.Set(0, 18, model.PieceS) // survivor A
	fillRow(board, 17)
	fillRow(board, 16)
	board.Set(9, 15, model.PieceJ) // survivor B
	fillRow(board, 14)

	require.Equal(t, 4, ClearLines(board))

	// Survivors keep their relative order and settle at the bottom
	assert.Equal(t, model.PieceS, board.Get(0, 19))
	assert.Equal(t, model.PieceJ, board.Get(9, 18))
	assert.Equal(t, 2, board.FilledCount())
	for y := 0; y < 18; y++ {
		assert.False(t, board.RowOccupied(y), "row %d should be empty", y)
	}
}

func TestClearLinesAdjacentFullRows(t *testing.T) {
	board := model.NewBoard()
	for y := 16; y < 20; y++ {
		fillRow(board, y)
	}

	assert.Equal(t, 4, ClearLines(board))
	assert.Equal(t, 0, board.FilledCount())
}

func TestClearLinesTopRow(t *testing.T) {
	board := model.NewBoard()
	fillRow(board, 0)

	assert.Equal(t, 1, ClearLines(board))
	assert.False(t, board.RowOccupied(0))
}

func TestIPieceLandsOnBottomRow(t *testing.T) {
	board := model.NewBoard()

	first := DropPosition(board, model.NewPiece(model.PieceI, model.Position{X: 0, Y: 0}))
	assert.Equal(t, model.Position{X: 0, Y: 19}, first.Pos)
	Merge(board, first)

	// Row 19 is only partly filled so a second I fits beside the first
	second := DropPosition(board, model.NewPiece(model.PieceI, model.Position{X: 4, Y: 0}))
	assert.Equal(t, model.Position{X: 4, Y: 19}, second.Pos)
	Merge(board, second)

	// A vertical I fits in the remaining columns
	upright := model.NewPiece(model.PieceI, model.Position{X: 8, Y: 0}).Rotated()
	upright = DropPosition(board, upright)
	assert.Equal(t, model.Position{X: 8, Y: 16}, upright.Pos)
}

func TestFillingRowAcrossPiecesClearsIt(t *testing.T) {
	board := model.NewBoard()
	for _, p := range []model.Piece{
		model.NewPiece(model.PieceI, model.Position{X: 0, Y: 0}),
		model.NewPiece(model.PieceI, model.Position{X: 4, Y: 0}),
		model.NewPiece(model.PieceO, model.Position{X: 8, Y: 0}),
	} {
		Merge(board, DropPosition(board, p))
	}
	require.True(t, board.RowFull(19))

	assert.Equal(t, 1, ClearLines(board))
	assert.Equal(t, model.BoardHeight, board.Height)
	assert.False(t, board.RowFull(19))
	// The top half of the O drops into the bottom row
	assert.Equal(t, model.PieceO, board.Get(8, 19))
	assert.Equal(t, model.PieceO, board.Get(9, 19))
	assert.Equal(t, 2, board.FilledCount())
}

func TestLineScore(t *testing.T) {
	assert.Equal(t, 0, LineScore(0))
	assert.Equal(t, 100, LineScore(1))
	assert.Equal(t, 400, LineScore(4))
}
