package layout

import "benchboard/internal/domain"

// InsertPosition converts a pointer position in client coordinates into a
// free cell. container is the surface origin in client coordinates and
// scroll the current pan offset.
func (e *Engine) InsertPosition(blocks []domain.Block, pointer, container, scroll domain.Point) domain.Pos {
	return e.ResolveCollision(blocks, pointer.Sub(container).Sub(scroll), "")
}
