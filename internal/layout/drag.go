package layout

import "benchboard/internal/domain"

// Drag tracks one block being moved by the pointer. While moving, the block
// follows the pointer freely and the preview only snaps, so the block may
// pass over occupied cells. Collisions are resolved on release.
type Drag struct {
	engine  *Engine
	blockID string
	origin  domain.Pos
	cur     domain.Point
	done    bool
}

// BeginDrag starts a drag of b from its current position.
func (e *Engine) BeginDrag(b domain.Block) *Drag {
	return &Drag{engine: e, blockID: b.ID, origin: b.Pos(), cur: b.Pos().Point()}
}

func (d *Drag) BlockID() string { return d.blockID }

// Move shifts the live position by the pointer movement and returns the
// snapped preview.
func (d *Drag) Move(dx, dy float64) domain.Pos {
	if d.done {
		return d.Preview()
	}
	d.cur.X += dx
	d.cur.Y += dy
	return d.Preview()
}

// Current is the unsnapped live position of the block.
func (d *Drag) Current() domain.Point { return d.cur }

// Preview is the cell the block would snap to if released now.
func (d *Drag) Preview() domain.Pos { return d.engine.Snap(d.cur) }

// Release ends the drag and returns the committed collision-free position.
// blocks may include the dragged block itself; it is excluded from the probe.
func (d *Drag) Release(blocks []domain.Block) domain.Pos {
	d.done = true
	return d.engine.ResolveCollision(blocks, d.cur, d.blockID)
}

func (d *Drag) Done() bool { return d.done }
