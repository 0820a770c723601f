package model

// Board dimensions
const (
	BoardWidth  = 10
	BoardHeight = 20
)

// Position identifies a cell on the board
type Position struct {
	X int `json:"x"` // Column, 0-indexed from left
	Y int `json:"y"` // Row, 0-indexed from top (negative is above the board)
}

// Board is the grid of settled cells
type Board struct {
	Width  int         `json:"width"`
	Height int         `json:"height"`
	Cells  []PieceType `json:"cells"` // Row-major: Cells[y*Width+x], 0 means empty
}

// NewBoard creates an empty board of the standard size
func NewBoard() *Board {
	return &Board{
		Width:  BoardWidth,
		Height: BoardHeight,
		Cells:  make([]PieceType, BoardWidth*BoardHeight),
	}
}

// Get returns the piece tag at the given cell, or 0 if empty or out of bounds
func (b *Board) Get(x, y int) PieceType {
	if !b.InBounds(x, y) {
		return 0
	}
	return b.Cells[y*b.Width+x]
}

// Set stores a piece tag at the given cell
func (b *Board) Set(x, y int, t PieceType) {
	if b.InBounds(x, y) {
		b.Cells[y*b.Width+x] = t
	}
}

// IsEmpty returns true if the cell holds no settled piece
func (b *Board) IsEmpty(x, y int) bool {
	return b.Get(x, y) == 0
}

// InBounds returns true if the cell lies on the visible board
func (b *Board) InBounds(x, y int) bool {
	return x >= 0 && x < b.Width && y >= 0 && y < b.Height
}

// Row returns a copy of the given row
func (b *Board) Row(y int) []PieceType {
	if y < 0 || y >= b.Height {
		return nil
	}
	result := make([]PieceType, b.Width)
	copy(result, b.Cells[y*b.Width:(y+1)*b.Width])
	return result
}

// RowFull returns true if every cell of the row is occupied
func (b *Board) RowFull(y int) bool {
	if y < 0 || y >= b.Height {
		return false
	}
	for _, c := range b.Cells[y*b.Width : (y+1)*b.Width] {
		if c == 0 {
			return false
		}
	}
	return true
}

// RowOccupied returns true if any cell of the row is occupied
func (b *Board) RowOccupied(y int) bool {
	if y < 0 || y >= b.Height {
		return false
	}
	for _, c := range b.Cells[y*b.Width : (y+1)*b.Width] {
		if c != 0 {
			return true
		}
	}
	return false
}

// Rows returns a copy of the grid as a slice of rows
func (b *Board) Rows() [][]PieceType {
	rows := make([][]PieceType, b.Height)
	for y := range rows {
		rows[y] = b.Row(y)
	}
	return rows
}

// Clone returns a deep copy of the board
func (b *Board) Clone() *Board {
	cells := make([]PieceType, len(b.Cells))
	copy(cells, b.Cells)
	return &Board{Width: b.Width, Height: b.Height, Cells: cells}
}

// FilledCount returns the number of occupied cells
func (b *Board) FilledCount() int {
	count := 0
	for _, c := range b.Cells {
		if c != 0 {
			count++
		}
	}
	return count
}
