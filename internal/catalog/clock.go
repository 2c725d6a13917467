package catalog

import (
	"fmt"

	"benchboard/internal/domain"
)

// ClockFrequencies are the fixed outputs of the clock block, in MHz.
var ClockFrequencies = []int{16, 8, 4, 2, 1}

const (
	pressClock = iota
	pressReset
)

// clock offers fixed-frequency clock-source pins plus manual clock and
// reset push buttons. Frequencies are not simulated; the pins carry their
// frequency as pin data so the FPGA side can request it from the board.
type clock struct {
	pressed [2]bool
}

func newClock() *clock { return &clock{} }

func (c *clock) Kind() domain.Kind        { return domain.KindClock }
func (c *clock) Size() (float64, float64) { return BlockWidth, BlockHeight }

func (c *clock) PinLayout() []domain.PinSpec {
	pins := make([]domain.PinSpec, 0, len(ClockFrequencies)+2)
	for i, f := range ClockFrequencies {
		p := pin(fmt.Sprintf("%dM", f), domain.RoleSource, 16+32*float64(i), 30)
		p.Mode = domain.ModeClockSrc
		p.Data = f
		pins = append(pins, p)
	}
	pins = append(pins,
		pin("clk", domain.RoleSource, 50, 130),
		pin("rst", domain.RoleSource, 110, 130),
	)
	return pins
}

func (c *clock) buttonLevel(i int) domain.Signal {
	if c.pressed[i] {
		return domain.SignalHigh
	}
	return domain.SignalLow
}

func (c *clock) Outputs() []domain.Signal {
	out := make([]domain.Signal, len(ClockFrequencies)+2)
	out[len(ClockFrequencies)] = c.buttonLevel(pressClock)
	out[len(ClockFrequencies)+1] = c.buttonLevel(pressReset)
	return out
}

func (c *clock) Update(msg Msg) bool {
	m, ok := msg.(Press)
	if !ok || m.Index < 0 || m.Index >= len(c.pressed) || c.pressed[m.Index] == m.Down {
		return false
	}
	c.pressed[m.Index] = m.Down
	return true
}

func (c *clock) Render() Visual {
	buttons := []domain.Signal{c.buttonLevel(pressClock), c.buttonLevel(pressReset)}
	return Visual{
		Kind:  domain.KindClock,
		Title: "Clock",
		Lines: []string{
			"16 8 4 2 1 MHz",
			"clk " + lamp(buttons[0]) + "  rst " + lamp(buttons[1]),
		},
		Signals: map[string][]domain.Signal{"buttons": buttons},
	}
}
