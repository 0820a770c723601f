package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBoardIsEmpty(t *testing.T) {
	b := NewBoard()
	assert.Equal(t, BoardWidth, b.Width)
	assert.Equal(t, BoardHeight, b.Height)
	assert.Len(t, b.Cells, BoardWidth*BoardHeight)
	assert.Equal(t, 0, b.FilledCount())
}

func TestBoardOutOfBoundsAccess(t *testing.T) {
	b := NewBoard()
	b.Set(-1, 0, PieceI)
	b.Set(0, BoardHeight, PieceI)

	assert.Equal(t, 0, b.FilledCount())
	assert.True(t, b.IsEmpty(BoardWidth, 0))
	assert.Nil(t, b.Row(-1))
	assert.False(t, b.RowFull(BoardHeight))
}

func TestBoardRowHelpers(t *testing.T) {
	b := NewBoard()
	for x := 0; x < BoardWidth; x++ {
		b.Set(x, 5, PieceT)
	}
	b.Set(0, 6, PieceO)

	assert.True(t, b.RowFull(5))
	assert.False(t, b.RowFull(6))
	assert.True(t, b.RowOccupied(6))
	assert.False(t, b.RowOccupied(7))

	row := b.Row(6)
	row[0] = 0
	assert.Equal(t, PieceO, b.Get(0, 6), "Row returns a copy")
}

func TestBoardClone(t *testing.T) {
	b := NewBoard()
	b.Set(2, 3, PieceL)
	c := b.Clone()
	c.Set(2, 3, 0)

	assert.Equal(t, PieceL, b.Get(2, 3))
}

func TestPieceDefinitions(t *testing.T) {
	for _, pt := range AllPieceTypes() {
		assert.True(t, pt.Valid())
		shape := pt.Shape()
		require.NotEmpty(t, shape, pt.Name())
		for _, row := range shape {
			for _, c := range row {
				assert.True(t, c == 0 || c == pt, "shape cells carry their own tag")
			}
		}
	}
	assert.False(t, PieceType(0).Valid())
	assert.Equal(t, "#232328", PieceType(0).Color())
	assert.Equal(t, "unknown", PieceType(-1).Name())
	assert.Nil(t, PieceType(8).Shape())
}

func TestSessionSnapshotEncodesGridAsNumbers(t *testing.T) {
	s := &Session{ID: "abc", Board: NewBoard(), Current: NewPiece(PieceT, SpawnPosition), State: GameStatePaused}
	s.Board.Set(0, 19, PieceZ)

	data, err := json.Marshal(s.Snapshot())
	require.NoError(t, err)

	var decoded struct {
		Grid    [][]int `json:"grid"`
		Current struct {
			Name  string `json:"name"`
			Color string `json:"color"`
		} `json:"current"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 7, decoded.Grid[19][0])
	assert.Equal(t, "T", decoded.Current.Name)
	assert.Equal(t, "#a21caf", decoded.Current.Color)
}
