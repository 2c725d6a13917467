package sandbox

import (
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/google/uuid"

	"benchboard/internal/catalog"
	"benchboard/internal/domain"
)

// Insert adds a block of kind. With the menu open it lands under the menu
// position, otherwise in the first free cell.
func (s *Session) Insert(kind domain.Kind) (domain.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !slices.Contains(domain.Insertable(), kind) {
		return domain.Block{}, fmt.Errorf("%w: %s", ErrNotInsertable, kind)
	}
	var pos domain.Pos
	if s.menu != nil {
		pos = s.engine.InsertPosition(s.blocks, s.menu.At, s.origin, s.scroll)
	} else {
		pos = s.engine.NextFree(s.blocks)
	}
	s.menu = nil
	return s.add(kind, pos)
}

// Place adds a block of kind at the free cell nearest to surface point at.
func (s *Session) Place(kind domain.Kind, at domain.Point) (domain.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !slices.Contains(domain.Insertable(), kind) {
		return domain.Block{}, fmt.Errorf("%w: %s", ErrNotInsertable, kind)
	}
	return s.add(kind, s.engine.ResolveCollision(s.blocks, at, ""))
}

func (s *Session) add(kind domain.Kind, pos domain.Pos) (domain.Block, error) {
	if s.closed {
		return domain.Block{}, ErrClosed
	}
	now := time.Now()
	b := domain.Block{
		ID:        uuid.New().String(),
		BenchID:   s.benchID,
		Kind:      kind,
		X:         pos.X,
		Y:         pos.Y,
		CreatedAt: now,
		UpdatedAt: now,
	}
	var err error
	s.batch(func() { err = s.mountBlock(b) })
	if err != nil {
		return domain.Block{}, err
	}
	s.blocks = append(s.blocks, b)
	s.logger.Debug("block inserted", "id", b.ID, "kind", kind, "x", b.X, "y", b.Y)
	s.emitBlocks()
	return b, nil
}

// Move commits blockID to the free cell nearest to surface point at.
func (s *Session) Move(blockID string, at domain.Point) (domain.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(blockID)
	if i < 0 {
		return domain.Block{}, fmt.Errorf("%w: %s", ErrBlockNotFound, blockID)
	}
	pos := s.engine.ResolveCollision(s.blocks, at, blockID)
	s.blocks[i].X, s.blocks[i].Y = pos.X, pos.Y
	s.blocks[i].UpdatedAt = time.Now()
	s.emitBlocks()
	s.redraw()
	return s.blocks[i], nil
}

// Delete removes a block and every wire attached to it. Peers of removed
// source pins fall back to UNDEFINED.
func (s *Session) Delete(blockID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(blockID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrBlockNotFound, blockID)
	}
	if s.blocks[i].Persistent {
		return fmt.Errorf("%w: %s", ErrPersistentBlock, blockID)
	}
	if s.gesture.kind == gestureDrag && s.gesture.drag.BlockID() == blockID {
		s.gesture = gesture{}
	}
	s.batch(func() {
		s.unmount(blockID)
		s.blocks = slices.Delete(s.blocks, i, i+1)
	})
	s.logger.Debug("block deleted", "id", blockID)
	s.emitBlocks()
	return nil
}

// ClickPin forwards a wiring click to the registry.
func (s *Session) ClickPin(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	before, _ := s.reg.Pending()
	s.reg.Click(id)
	if after, _ := s.reg.Pending(); after != before {
		s.emitPending(after)
	}
}

// Connect wires a to b, dropping any pending selection and existing wires
// on either pin. It reports whether the pins ended up paired.
func (s *Session) Connect(a, b string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.reg.Pending(); ok {
		s.reg.Click(p)
	}
	s.reg.Click(a)
	s.reg.Click(b)
	// b stays selected when a is not a registered pin
	if p, ok := s.reg.Pending(); ok {
		s.reg.Click(p)
	}
	s.emitPending("")
	peer, ok := s.reg.Peer(a)
	return ok && peer == b
}

// Disconnect removes the wire on pin id, if any. A pending selection on
// another pin survives.
func (s *Session) Disconnect(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reg.Disconnect(id)
}

// Toggle flips switch index of a block.
func (s *Session) Toggle(blockID string, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.send(blockID, catalog.Toggle{Index: index})
}

// Press holds (down) or releases a push button of a block.
func (s *Session) Press(blockID string, index int, down bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.send(blockID, catalog.Press{Index: index, Down: down})
}

// SetBoardOutput replays a level reported by the board on an FPGA output pin.
func (s *Session) SetBoardOutput(pin int, v domain.Signal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.findKind(domain.KindFPGA)
	if !ok {
		return fmt.Errorf("%w: %s", ErrBlockNotFound, domain.KindFPGA)
	}
	return s.send(b.ID, catalog.BoardOutput{Pin: pin, Value: v})
}

// PinID resolves a pin of blockID by name or index.
func (s *Session) PinID(blockID, pin string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.mounted[blockID]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrBlockNotFound, blockID)
	}
	for _, c := range m.pins {
		if c.Spec().Name == pin {
			return c.ID(), nil
		}
	}
	if i, err := strconv.Atoi(pin); err == nil && i >= 0 && i < len(m.pins) {
		return m.pins[i].ID(), nil
	}
	return "", fmt.Errorf("%w: %s/%s", ErrPinNotFound, blockID, pin)
}
