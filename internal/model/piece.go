package model

// PieceType tags one of the seven fixed shapes. The zero value means empty.
type PieceType int

const (
	PieceI PieceType = iota + 1
	PieceJ
	PieceL
	PieceO
	PieceS
	PieceT
	PieceZ
)

// PieceTypeCount is the number of distinct shapes
const PieceTypeCount = 7

// Shape is a small matrix of piece tags, 0 for empty cells
type Shape [][]PieceType

type pieceDef struct {
	name  string
	color string
	shape Shape
}

var pieceDefs = [PieceTypeCount + 1]pieceDef{
	{name: "empty", color: "#232328"},
	PieceI: {name: "I", color: "#06b6d4", shape: Shape{
		{1, 1, 1, 1},
	}},
	PieceJ: {name: "J", color: "#2563EB", shape: Shape{
		{0, 2},
		{0, 2},
		{2, 2},
	}},
	PieceL: {name: "L", color: "#f59e42", shape: Shape{
		{3, 0},
		{3, 0},
		{3, 3},
	}},
	PieceO: {name: "O", color: "#FFD600", shape: Shape{
		{4, 4},
		{4, 4},
	}},
	PieceS: {name: "S", color: "#22d3ee", shape: Shape{
		{0, 5, 5},
		{5, 5, 0},
	}},
	PieceT: {name: "T", color: "#a21caf", shape: Shape{
		{6, 6, 6},
		{0, 6, 0},
	}},
	PieceZ: {name: "Z", color: "#ef4444", shape: Shape{
		{7, 7, 0},
		{0, 7, 7},
	}},
}

// AllPieceTypes returns every shape tag in definition order
func AllPieceTypes() []PieceType {
	return []PieceType{PieceI, PieceJ, PieceL, PieceO, PieceS, PieceT, PieceZ}
}

// Valid returns true for the seven defined shapes
func (t PieceType) Valid() bool {
	return t >= PieceI && t <= PieceZ
}

// Name returns the conventional letter for the shape
func (t PieceType) Name() string {
	if t < 0 || int(t) >= len(pieceDefs) {
		return "unknown"
	}
	return pieceDefs[t].name
}

// Color returns the display color; the zero tag yields the background color
func (t PieceType) Color() string {
	if t < 0 || int(t) >= len(pieceDefs) {
		return pieceDefs[0].color
	}
	return pieceDefs[t].color
}

// Shape returns a fresh copy of the spawn orientation
func (t PieceType) Shape() Shape {
	if !t.Valid() {
		return nil
	}
	return pieceDefs[t].shape.Clone()
}

// Clone returns a deep copy of the matrix
func (s Shape) Clone() Shape {
	out := make(Shape, len(s))
	for i, row := range s {
		out[i] = make([]PieceType, len(row))
		copy(out[i], row)
	}
	return out
}

// Rows returns the matrix height
func (s Shape) Rows() int {
	return len(s)
}

// Cols returns the matrix width
func (s Shape) Cols() int {
	if len(s) == 0 {
		return 0
	}
	return len(s[0])
}

// Equal reports whether both matrices have the same dimensions and cells
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if len(s[i]) != len(other[i]) {
			return false
		}
		for j := range s[i] {
			if s[i][j] != other[i][j] {
				return false
			}
		}
	}
	return true
}

// Rotate returns the matrix turned 90 degrees clockwise: transpose, then reverse each row
func (s Shape) Rotate() Shape {
	rows, cols := s.Rows(), s.Cols()
	out := make(Shape, cols)
	for i := 0; i < cols; i++ {
		out[i] = make([]PieceType, rows)
		for j := 0; j < rows; j++ {
			out[i][j] = s[rows-1-j][i]
		}
	}
	return out
}

// Piece is a shape anchored on the board by its top-left corner
type Piece struct {
	Type  PieceType `json:"type"`
	Shape Shape     `json:"shape"`
	Pos   Position  `json:"pos"`
}

// NewPiece creates a piece of the given type at the given anchor
func NewPiece(t PieceType, pos Position) Piece {
	return Piece{Type: t, Shape: t.Shape(), Pos: pos}
}

// Moved returns a copy translated by (dx, dy)
func (p Piece) Moved(dx, dy int) Piece {
	p.Pos = Position{X: p.Pos.X + dx, Y: p.Pos.Y + dy}
	return p
}

// Rotated returns a copy with the matrix turned clockwise
func (p Piece) Rotated() Piece {
	p.Shape = p.Shape.Rotate()
	return p
}

// Color returns the display color of the piece
func (p Piece) Color() string {
	return p.Type.Color()
}

// Cells returns the absolute positions and tags of all occupied cells
func (p Piece) Cells() []Cell {
	var cells []Cell
	for y, row := range p.Shape {
		for x, t := range row {
			if t != 0 {
				cells = append(cells, Cell{
					Pos:  Position{X: p.Pos.X + x, Y: p.Pos.Y + y},
					Type: t,
				})
			}
		}
	}
	return cells
}

// Cell is a single occupied square at an absolute position
type Cell struct {
	Pos  Position
	Type PieceType
}
