// Package sandbox is the bench surface: it owns the placed blocks, their
// mounted connectors, the wiring registry and the derived wire frame, and
// turns host events into operations on them.
//
// Every exported method takes the session lock, so hosts with several event
// goroutines (desktop runtime, MCP tool calls, terminal UI) see each gesture
// handler run atomically. Change callbacks and topology listeners run
// synchronously under that lock. Emitters must not call back into the
// session.
package sandbox

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"benchboard/internal/catalog"
	"benchboard/internal/domain"
	"benchboard/internal/layout"
	"benchboard/internal/wires"
	"benchboard/internal/wiring"
)

var (
	ErrBlockNotFound   = errors.New("block not found")
	ErrPersistentBlock = errors.New("block is persistent")
	ErrNotInsertable   = errors.New("block kind cannot be inserted")
	ErrPinNotFound     = errors.New("pin not found")
	ErrClosed          = errors.New("session closed")
)

// DefaultScroll is the pan offset of a fresh surface.
var DefaultScroll = domain.Point{X: 20, Y: 20}

// Emitter receives session events. service.EventEmitter satisfies it.
type Emitter interface {
	Emit(ctx context.Context, event string, data any)
}

type Options struct {
	Context context.Context
	Grid    int
	Scroll  *domain.Point
	Catalog *catalog.Catalog
	Emitter Emitter
	Logger  *log.Logger

	// StraightWires disables orthogonal routing.
	StraightWires bool
}

// Session is one open bench.
type Session struct {
	mu sync.Mutex

	ctx      context.Context
	emitter  Emitter
	logger   *log.Logger
	catalog  *catalog.Catalog
	reg      *wiring.Registry
	engine   *layout.Engine
	renderer *wires.Renderer

	benchID string
	blocks  []domain.Block
	mounted map[string]*mount
	owners  map[string]pinRef

	scroll  domain.Point
	origin  domain.Point
	size    domain.Point
	gesture gesture
	menu    *Menu
	clock   int

	quiet      int
	dirty      bool
	stopListen func()
	closed     bool
}

// mount is a live block instance and its connectors, indexed like its pin
// layout.
type mount struct {
	inst catalog.Block
	pins []*wiring.Connector
}

type pinRef struct {
	blockID string
	index   int
}

// New creates an empty session.
func New(opts Options) *Session {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Catalog == nil {
		opts.Catalog = catalog.New(catalog.Options{})
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	scroll := DefaultScroll
	if opts.Scroll != nil {
		scroll = *opts.Scroll
	}
	var router *wires.Router
	if !opts.StraightWires {
		router = wires.NewRouter(0)
	}

	s := &Session{
		ctx:      opts.Context,
		emitter:  opts.Emitter,
		logger:   opts.Logger,
		catalog:  opts.Catalog,
		reg:      wiring.New(),
		engine:   layout.NewEngine(opts.Grid),
		renderer: wires.NewRenderer(router),
		mounted:  make(map[string]*mount),
		owners:   make(map[string]pinRef),
		scroll:   scroll,
	}
	s.stopListen = s.reg.OnChange(s.topologyChanged)
	return s
}

// Grid is the placement grid unit.
func (s *Session) Grid() int { return s.engine.Grid() }

// BenchID is the bench the session was loaded from.
func (s *Session) BenchID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.benchID
}

// Load replaces the surface with blocks. Positions are snapped and cells
// already taken are resolved downwards. Blocks of unknown kind are skipped.
func (s *Session) Load(benchID string, blocks []domain.Block) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	s.batch(func() {
		for _, b := range s.blocks {
			s.unmount(b.ID)
		}
		s.blocks = nil
		s.gesture = gesture{}
		s.menu = nil
		s.benchID = benchID

		for _, b := range blocks {
			if !b.Kind.Valid() {
				s.logger.Warn("skipping block of unknown kind", "id", b.ID, "kind", b.Kind)
				continue
			}
			if b.ID == "" {
				b.ID = uuid.New().String()
			}
			if _, dup := s.mounted[b.ID]; dup {
				s.logger.Warn("skipping duplicate block id", "id", b.ID)
				continue
			}
			pos := s.engine.ResolveCollision(s.blocks, domain.Point{X: float64(b.X), Y: float64(b.Y)}, b.ID)
			b.X, b.Y = pos.X, pos.Y
			b.BenchID = benchID
			if err := s.mountBlock(b); err != nil {
				s.logger.Warn("skipping block", "id", b.ID, "err", err)
				continue
			}
			s.blocks = append(s.blocks, b)
		}
	})
	s.logger.Debug("bench loaded", "bench", benchID, "blocks", len(s.blocks))
	s.emitBlocks()
	return nil
}

// Blocks returns the authoritative block list in surface order.
func (s *Session) Blocks() []domain.Block {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Block(nil), s.blocks...)
}

// Close unmounts every block and invalidates all connector ids.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.stopListen()
	for _, b := range s.blocks {
		s.unmount(b.ID)
	}
	s.blocks = nil
	s.reg.Close()
	s.closed = true
}

func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Verify checks the registry invariants.
func (s *Session) Verify() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reg.Verify()
}

// ── Mounting ──────────────────────────────────────────────

func (s *Session) mountBlock(b domain.Block) error {
	inst, err := s.catalog.New(b.Kind)
	if err != nil {
		return err
	}
	m := &mount{inst: inst}
	s.mounted[b.ID] = m
	for i, spec := range inst.PinLayout() {
		blockID, index := b.ID, i
		c := wiring.Mount(s.reg, spec, func(v domain.Signal) { s.pinChanged(blockID, index, v) })
		m.pins = append(m.pins, c)
		s.owners[c.ID()] = pinRef{blockID: b.ID, index: i}
	}
	s.driveOutputs(m)
	return nil
}

func (s *Session) unmount(blockID string) {
	m, ok := s.mounted[blockID]
	if !ok {
		return
	}
	delete(s.mounted, blockID)
	for _, c := range m.pins {
		delete(s.owners, c.ID())
		c.Unmount()
	}
}

// driveOutputs pushes every source level of m into the registry.
func (s *Session) driveOutputs(m *mount) {
	out := m.inst.Outputs()
	for i, c := range m.pins {
		if c.Role() == domain.RoleSource && i < len(out) {
			c.Drive(out[i])
		}
	}
}

// send delivers msg to a block and publishes its new face and outputs.
func (s *Session) send(blockID string, msg catalog.Msg) error {
	m, ok := s.mounted[blockID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrBlockNotFound, blockID)
	}
	if m.inst.Update(msg) {
		s.emitVisual(blockID, m)
	}
	s.driveOutputs(m)
	return nil
}

func (s *Session) pinChanged(blockID string, index int, v domain.Signal) {
	m, ok := s.mounted[blockID]
	if !ok {
		return
	}
	if m.inst.Update(catalog.PinChanged{Pin: index, Value: v}) {
		s.emitVisual(blockID, m)
	}
}

// ── Topology ──────────────────────────────────────────────

// batch runs fn with topology notifications held back and handles them once
// at the end.
func (s *Session) batch(fn func()) {
	s.quiet++
	fn()
	s.quiet--
	if s.quiet == 0 && s.dirty {
		s.dirty = false
		s.topologyChanged()
	}
}

func (s *Session) topologyChanged() {
	if s.quiet > 0 {
		s.dirty = true
		return
	}
	s.redraw()
	s.trackClock()
}

func (s *Session) indexOf(blockID string) int {
	for i, b := range s.blocks {
		if b.ID == blockID {
			return i
		}
	}
	return -1
}

func (s *Session) findKind(kind domain.Kind) (domain.Block, bool) {
	for _, b := range s.blocks {
		if b.Kind == kind {
			return b, true
		}
	}
	return domain.Block{}, false
}
