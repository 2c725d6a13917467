// Package catalog holds the static set of block kinds that can be placed on
// the bench. Each kind owns its state and changes it only through Update.
package catalog

import (
	"errors"
	"fmt"

	"benchboard/internal/domain"
)

var ErrUnknownKind = errors.New("unknown block kind")

// Block is a live block instance.
type Block interface {
	Kind() domain.Kind
	// Size is the footprint in surface pixels.
	Size() (w, h float64)
	// PinLayout is fixed for the lifetime of the instance.
	PinLayout() []domain.PinSpec
	// Outputs holds the level each source pin drives, indexed like PinLayout.
	// Entries for sink pins are ignored.
	Outputs() []domain.Signal
	// Update applies msg and reports whether the face changed.
	Update(msg Msg) bool
	Render() Visual
}

// Msg is an input to Block.Update.
type Msg interface{ isMsg() }

// PinChanged reports a value pushed to sink pin Pin.
type PinChanged struct {
	Pin   int
	Value domain.Signal
}

// Toggle flips switch Index.
type Toggle struct{ Index int }

// Press holds or releases push button Index.
type Press struct {
	Index int
	Down  bool
}

// BoardOutput sets the level of an FPGA output pin.
type BoardOutput struct {
	Pin   int
	Value domain.Signal
}

func (PinChanged) isMsg()  {}
func (Toggle) isMsg()      {}
func (Press) isMsg()       {}
func (BoardOutput) isMsg() {}

// Options tune constructors.
type Options struct {
	FPGAInputs int // pins 0..FPGAInputs-1 of the FPGA are sinks
}

type constructor func(Options) Block

// Catalog maps kinds to constructors.
type Catalog struct {
	opts  Options
	ctors map[domain.Kind]constructor
}

// New creates the catalog with every built-in kind.
func New(opts Options) *Catalog {
	if opts.FPGAInputs <= 0 || opts.FPGAInputs > FPGAClockPin {
		opts.FPGAInputs = DefaultFPGAInputs
	}
	return &Catalog{
		opts: opts,
		ctors: map[domain.Kind]constructor{
			domain.KindFPGA:    newFPGA,
			domain.KindSwitch4: func(Options) Block { return newSwitch4() },
			domain.KindDigit4:  func(Options) Block { return newDigit4() },
			domain.KindDigit7:  func(Options) Block { return newDigit7() },
			domain.KindClock:   func(Options) Block { return newClock() },
		},
	}
}

// New builds a fresh instance of kind.
func (c *Catalog) New(kind domain.Kind) (Block, error) {
	ctor, ok := c.ctors[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return ctor(c.opts), nil
}

// PinLayout returns the pins of kind without keeping an instance.
func (c *Catalog) PinLayout(kind domain.Kind) ([]domain.PinSpec, error) {
	b, err := c.New(kind)
	if err != nil {
		return nil, err
	}
	return b.PinLayout(), nil
}

const (
	BlockWidth  = 160.0
	BlockHeight = 160.0
)

func pin(name string, role domain.Role, x, y float64) domain.PinSpec {
	return domain.PinSpec{Name: name, Role: role, Offset: domain.Point{X: x, Y: y}}
}
