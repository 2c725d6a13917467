package sandbox

import (
	"benchboard/internal/catalog"
	"benchboard/internal/domain"
	"benchboard/internal/wires"
)

// Events emitted by a session.
const (
	EventBlocks  = "bench:blocks"
	EventWires   = "bench:wires"
	EventVisual  = "bench:visual"
	EventClock   = "bench:clock"
	EventPending = "bench:pending"
)

// BlockView is a block as drawn right now.
type BlockView struct {
	domain.Block
	Width   float64        `json:"width"`
	Height  float64        `json:"height"`
	Live    domain.Point   `json:"live"`    // container-relative, follows a drag
	Preview *domain.Pos    `json:"preview"` // snap target while dragged
	Visual  catalog.Visual `json:"visual"`
}

// Layout is the payload of EventBlocks.
type Layout struct {
	Scroll domain.Point `json:"scroll"`
	Blocks []BlockView  `json:"blocks"`
	Menu   *Menu        `json:"menu,omitempty"`
}

type VisualEvent struct {
	BlockID string         `json:"blockId"`
	Visual  catalog.Visual `json:"visual"`
}

// ClockEvent reports the frequency feeding the FPGA clock pin. MHz is zero
// while the pin is not wired to a clock source.
type ClockEvent struct {
	MHz int `json:"mhz"`
}

// End names one side of a wire by block and pin.
type End struct {
	BlockID string      `json:"blockId"`
	Kind    domain.Kind `json:"kind"`
	Pin     string      `json:"pin"`
}

// Link is a wire with both connectors resolved to block pins.
type Link struct {
	From End `json:"from"`
	To   End `json:"to"`
}

// State is a full snapshot for hosts that poll.
type State struct {
	BenchID string          `json:"benchId"`
	Layout  Layout          `json:"layout"`
	Wires   []wires.Segment `json:"wires"`
	Pending string          `json:"pending,omitempty"`
	Clock   int             `json:"clock"`
}

// Visuals returns every block as currently drawn.
func (s *Session) Visuals() []BlockView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.views()
}

// Frame returns the last drawn wire segments.
func (s *Session) Frame() []wires.Segment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]wires.Segment(nil), s.renderer.Last()...)
}

// Clock returns the frequency on the FPGA clock pin in MHz, zero for none.
func (s *Session) Clock() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clock
}

// Scroll returns the pan offset.
func (s *Session) Scroll() domain.Point {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scroll
}

// Pins lists the mounted pins of a block in layout order.
func (s *Session) Pins(blockID string) ([]domain.Pin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.mounted[blockID]
	if !ok {
		return nil, ErrBlockNotFound
	}
	pending, _ := s.reg.Pending()
	pins := make([]domain.Pin, len(m.pins))
	for i, c := range m.pins {
		spec := c.Spec()
		peer, _ := c.Peer()
		pins[i] = domain.Pin{
			ID:      c.ID(),
			BlockID: blockID,
			Index:   i,
			Name:    spec.Name,
			Role:    spec.Role,
			Mode:    spec.Mode,
			Value:   c.Value(),
			Peer:    peer,
			Pending: c.ID() == pending,
		}
	}
	return pins, nil
}

// PinLayout returns the pin specs of kind as configured for this session.
func (s *Session) PinLayout(kind domain.Kind) ([]domain.PinSpec, error) {
	return s.catalog.PinLayout(kind)
}

// Owner returns the block and pin index holding connector id.
func (s *Session) Owner(id string) (blockID string, index int, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ref, ok := s.owners[id]
	return ref.blockID, ref.index, ok
}

// Wires lists the connected pairs.
func (s *Session) Wires() []domain.Wire {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reg.Wires()
}

// Links lists the connected pairs by block and pin name.
func (s *Session) Links() []Link {
	s.mu.Lock()
	defer s.mu.Unlock()
	ws := s.reg.Wires()
	out := make([]Link, 0, len(ws))
	for _, w := range ws {
		a, okA := s.end(w.A)
		b, okB := s.end(w.B)
		if okA && okB {
			out = append(out, Link{From: a, To: b})
		}
	}
	return out
}

// State snapshots the whole surface.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	pending, _ := s.reg.Pending()
	return State{
		BenchID: s.benchID,
		Layout:  s.layout(),
		Wires:   append([]wires.Segment(nil), s.renderer.Last()...),
		Pending: pending,
		Clock:   s.clock,
	}
}

// ── Derived state (lock held) ─────────────────────────────

func (s *Session) views() []BlockView {
	out := make([]BlockView, 0, len(s.blocks))
	for _, b := range s.blocks {
		m := s.mounted[b.ID]
		w, h := m.inst.Size()
		v := BlockView{
			Block:  b,
			Width:  w,
			Height: h,
			Live:   s.livePos(b).Add(s.scroll),
			Visual: m.inst.Render(),
		}
		if s.gesture.kind == gestureDrag && s.gesture.drag.BlockID() == b.ID {
			p := s.gesture.drag.Preview()
			v.Preview = &p
		}
		out = append(out, v)
	}
	return out
}

func (s *Session) end(id string) (End, bool) {
	ref, ok := s.owners[id]
	if !ok {
		return End{}, false
	}
	i := s.indexOf(ref.blockID)
	if i < 0 {
		return End{}, false
	}
	m := s.mounted[ref.blockID]
	return End{
		BlockID: ref.blockID,
		Kind:    s.blocks[i].Kind,
		Pin:     m.pins[ref.index].Spec().Name,
	}, true
}

func (s *Session) layout() Layout {
	l := Layout{Scroll: s.scroll, Blocks: s.views()}
	if s.menu != nil {
		m := *s.menu
		l.Menu = &m
	}
	return l
}

// redraw recomputes the wire frame from the registry and live anchors.
func (s *Session) redraw() {
	obstacles := make([]domain.Rect, 0, len(s.blocks))
	for _, b := range s.blocks {
		obstacles = append(obstacles, s.blockRect(b))
	}
	segs := s.renderer.Render(s.reg.Wires(), wires.AnchorFunc(s.anchor), obstacles)
	s.emit(EventWires, segs)
}

// trackClock follows the frequency wired into the FPGA clock pin.
func (s *Session) trackClock() {
	mhz := 0
	if b, ok := s.findKind(domain.KindFPGA); ok {
		m := s.mounted[b.ID]
		if catalog.FPGAClockPin < len(m.pins) {
			if peer, ok := m.pins[catalog.FPGAClockPin].Peer(); ok {
				mhz, _ = s.reg.Data(peer).(int)
			}
		}
	}
	if mhz == s.clock {
		return
	}
	s.clock = mhz
	s.logger.Info("board clock changed", "mhz", mhz)
	s.emit(EventClock, ClockEvent{MHz: mhz})
}

func (s *Session) emit(event string, data any) {
	if s.emitter != nil {
		s.emitter.Emit(s.ctx, event, data)
	}
}

func (s *Session) emitBlocks() { s.emit(EventBlocks, s.layout()) }

func (s *Session) emitPending(id string) { s.emit(EventPending, id) }

func (s *Session) emitVisual(blockID string, m *mount) {
	s.emit(EventVisual, VisualEvent{BlockID: blockID, Visual: m.inst.Render()})
}
