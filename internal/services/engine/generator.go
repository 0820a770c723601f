package engine

import (
	"github.com/mcoot/portfolio/internal/dependencies/random"
	"github.com/mcoot/portfolio/internal/model"
)

// Generator produces new falling pieces, uniformly over the seven shapes
type Generator struct {
	random random.Random
}

// NewGenerator creates a Generator backed by the given random source
func NewGenerator(random random.Random) *Generator {
	return &Generator{random: random}
}

// Next returns a random piece at the spawn anchor
func (g *Generator) Next() model.Piece {
	types := model.AllPieceTypes()
	t := types[g.random.Intn(len(types))]
	return model.NewPiece(t, model.SpawnPosition)
}
