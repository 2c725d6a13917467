package sandbox

import (
	"benchboard/internal/domain"
	"benchboard/internal/layout"
)

// Button identifies the pointer button of a press.
type Button int

const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
)

// PinRadius is how close a press must land to a pin anchor to hit it.
const PinRadius = 6.0

type gestureKind int

const (
	gestureNone gestureKind = iota
	gestureDrag
	gesturePan
)

// gesture is the owner of the pointer stream between press and release.
type gesture struct {
	kind gestureKind
	drag *layout.Drag
	last domain.Point
}

// Menu is the open context menu.
type Menu struct {
	At    domain.Point  `json:"at"` // host coordinates
	Kinds []domain.Kind `json:"kinds"`
}

// Resize records the container origin and size in host coordinates.
func (s *Session) Resize(origin domain.Point, width, height float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.origin = origin
	s.size = domain.Point{X: width, Y: height}
	s.redraw()
}

// local converts a host point to container-relative coordinates.
func (s *Session) local(p domain.Point) domain.Point { return p.Sub(s.origin) }

// PointerDown starts a drag when p lands on a block and a pan when it lands
// on the empty surface. Presses on a pin and non-left presses start nothing.
func (s *Session) PointerDown(p domain.Point, button Button) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || button != ButtonLeft || s.gesture.kind != gestureNone {
		return
	}
	if s.menu != nil {
		s.menu = nil
		s.emitBlocks()
	}

	at := s.local(p)
	if _, ok := s.pinAt(at); ok {
		return
	}
	if b, ok := s.blockAt(at); ok {
		s.gesture = gesture{kind: gestureDrag, drag: s.engine.BeginDrag(b), last: p}
		return
	}
	s.gesture = gesture{kind: gesturePan, last: p}
}

// PointerMove feeds the active gesture.
func (s *Session) PointerMove(p domain.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delta := p.Sub(s.gesture.last)
	switch s.gesture.kind {
	case gestureDrag:
		s.gesture.last = p
		s.gesture.drag.Move(delta.X, delta.Y)
		s.emitBlocks()
		s.redraw()
	case gesturePan:
		s.gesture.last = p
		s.scroll = s.scroll.Add(delta)
		s.emitBlocks()
		s.redraw()
	}
}

// PointerUp ends the active gesture wherever the pointer is. A drag commits
// its block to the nearest free cell.
func (s *Session) PointerUp(p domain.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := s.gesture
	s.gesture = gesture{}
	if g.kind != gestureDrag {
		return
	}

	d := g.drag
	delta := p.Sub(g.last)
	d.Move(delta.X, delta.Y)
	i := s.indexOf(d.BlockID())
	if i < 0 {
		return
	}
	pos := d.Release(s.blocks)
	s.blocks[i].X, s.blocks[i].Y = pos.X, pos.Y
	s.logger.Debug("block settled", "id", d.BlockID(), "x", pos.X, "y", pos.Y)
	s.emitBlocks()
	s.redraw()
}

// Dragging reports the block being dragged, if any.
func (s *Session) Dragging() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gesture.kind != gestureDrag {
		return "", false
	}
	return s.gesture.drag.BlockID(), true
}

// OpenMenu opens the insert menu at host point p.
func (s *Session) OpenMenu(p domain.Point) *Menu {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.menu = &Menu{At: p, Kinds: domain.Insertable()}
	s.emitBlocks()
	m := *s.menu
	return &m
}

func (s *Session) CloseMenu() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.menu == nil {
		return
	}
	s.menu = nil
	s.emitBlocks()
}

// ── Hit testing (container-relative coordinates) ──────────

// livePos is where b is drawn: under the pointer while it is being dragged,
// its committed cell otherwise.
func (s *Session) livePos(b domain.Block) domain.Point {
	if s.gesture.kind == gestureDrag && s.gesture.drag.BlockID() == b.ID {
		return s.gesture.drag.Current()
	}
	return b.Pos().Point()
}

func (s *Session) blockRect(b domain.Block) domain.Rect {
	pos := s.livePos(b).Add(s.scroll)
	w, h := s.mounted[b.ID].inst.Size()
	return domain.Rect{X: pos.X, Y: pos.Y, W: w, H: h}
}

// blockAt returns the topmost block under at.
func (s *Session) blockAt(at domain.Point) (domain.Block, bool) {
	for i := len(s.blocks) - 1; i >= 0; i-- {
		if s.blockRect(s.blocks[i]).Contains(at) {
			return s.blocks[i], true
		}
	}
	return domain.Block{}, false
}

func (s *Session) pinAt(at domain.Point) (string, bool) {
	for i := len(s.blocks) - 1; i >= 0; i-- {
		m := s.mounted[s.blocks[i].ID]
		for _, c := range m.pins {
			p, ok := s.anchor(c.ID())
			if !ok {
				continue
			}
			if d := p.Sub(at); d.X*d.X+d.Y*d.Y <= PinRadius*PinRadius {
				return c.ID(), true
			}
		}
	}
	return "", false
}

// anchor is the container-relative midpoint of a mounted pin.
func (s *Session) anchor(id string) (domain.Point, bool) {
	ref, ok := s.owners[id]
	if !ok {
		return domain.Point{}, false
	}
	i := s.indexOf(ref.blockID)
	if i < 0 {
		return domain.Point{}, false
	}
	m := s.mounted[ref.blockID]
	if ref.index >= len(m.pins) || !m.pins[ref.index].Mounted() {
		return domain.Point{}, false
	}
	offset := m.pins[ref.index].Spec().Offset
	return s.livePos(s.blocks[i]).Add(s.scroll).Add(offset), true
}
