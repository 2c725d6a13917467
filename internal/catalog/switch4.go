package catalog

import (
	"fmt"

	"benchboard/internal/domain"
)

const switchCount = 4

// switch4 has four LEDs driven by sink pins and four toggle switches
// driving source pins.
type switch4 struct {
	leds     []domain.Signal
	switches []domain.Signal
}

func newSwitch4() *switch4 {
	s := &switch4{
		leds:     make([]domain.Signal, switchCount),
		switches: make([]domain.Signal, switchCount),
	}
	for i := range s.switches {
		s.switches[i] = domain.SignalLow
	}
	return s
}

func (s *switch4) Kind() domain.Kind        { return domain.KindSwitch4 }
func (s *switch4) Size() (float64, float64) { return BlockWidth, BlockHeight }

func (s *switch4) PinLayout() []domain.PinSpec {
	pins := make([]domain.PinSpec, 0, 2*switchCount)
	for i := 0; i < switchCount; i++ {
		pins = append(pins, pin(fmt.Sprintf("led%d", i), domain.RoleSink, 20+40*float64(i), 30))
	}
	for i := 0; i < switchCount; i++ {
		pins = append(pins, pin(fmt.Sprintf("sw%d", i), domain.RoleSource, 20+40*float64(i), 130))
	}
	return pins
}

func (s *switch4) Outputs() []domain.Signal {
	out := make([]domain.Signal, 2*switchCount)
	copy(out[switchCount:], s.switches)
	return out
}

func (s *switch4) Update(msg Msg) bool {
	switch m := msg.(type) {
	case PinChanged:
		if m.Pin < 0 || m.Pin >= switchCount || s.leds[m.Pin] == m.Value {
			return false
		}
		s.leds[m.Pin] = m.Value
		return true
	case Toggle:
		if m.Index < 0 || m.Index >= switchCount {
			return false
		}
		s.switches[m.Index] = s.switches[m.Index].Toggle()
		return true
	}
	return false
}

func (s *switch4) Render() Visual {
	return Visual{
		Kind:  domain.KindSwitch4,
		Title: "Switch4",
		Lines: []string{lamps(s.leds), levers(s.switches)},
		Signals: map[string][]domain.Signal{
			"leds":     clone(s.leds),
			"switches": clone(s.switches),
		},
	}
}
