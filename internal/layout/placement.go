// Package layout snaps blocks to the surface grid and keeps them from
// sharing a cell.
package layout

import (
	"math"

	"benchboard/internal/domain"
)

const (
	DefaultGrid = 175 // one block cell
	maxRowCells = 8
)

// Engine places blocks on a square grid.
type Engine struct {
	grid int
}

// NewEngine creates an Engine with grid unit g. Non-positive values fall
// back to DefaultGrid.
func NewEngine(g int) *Engine {
	if g <= 0 {
		g = DefaultGrid
	}
	return &Engine{grid: g}
}

func (e *Engine) Grid() int { return e.grid }

// snap rounds v to the nearest grid multiple, halves rounding up.
func (e *Engine) snap(v float64) int {
	g := float64(e.grid)
	return int(math.Floor(v/g+0.5)) * e.grid
}

// Snap aligns each axis of p independently.
func (e *Engine) Snap(p domain.Point) domain.Pos {
	return domain.Pos{X: e.snap(p.X), Y: e.snap(p.Y)}
}

// ResolveCollision snaps candidate and then probes downwards one cell at a
// time until no block other than excludeID occupies the cell.
func (e *Engine) ResolveCollision(blocks []domain.Block, candidate domain.Point, excludeID string) domain.Pos {
	occupied := occupancy(blocks, excludeID)
	pos := e.Snap(candidate)
	for occupied[pos] {
		pos.Y += e.grid
	}
	return pos
}

// NextFree returns the first free cell scanning rows top-to-bottom and
// columns left-to-right from the origin.
func (e *Engine) NextFree(blocks []domain.Block) domain.Pos {
	occupied := occupancy(blocks, "")
	for row := 0; ; row++ {
		for col := 0; col < maxRowCells; col++ {
			p := domain.Pos{X: col * e.grid, Y: row * e.grid}
			if !occupied[p] {
				return p
			}
		}
	}
}

// Rect returns the cell rectangle of a block at pos with the given size.
func (e *Engine) Rect(pos domain.Pos, w, h float64) domain.Rect {
	return domain.Rect{X: float64(pos.X), Y: float64(pos.Y), W: w, H: h}
}

func occupancy(blocks []domain.Block, excludeID string) map[domain.Pos]bool {
	occupied := make(map[domain.Pos]bool, len(blocks))
	for _, b := range blocks {
		if excludeID != "" && b.ID == excludeID {
			continue
		}
		occupied[b.Pos()] = true
	}
	return occupied
}
