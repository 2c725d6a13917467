package catalog

import (
	"fmt"

	"benchboard/internal/domain"
)

var digitGroups = []string{"A", "B", "C"}

var (
	digit4Labels = []string{"8", "4", "2", "1"}
	digit7Labels = []string{"a", "b", "c", "d", "e", "f", "g"}
)

// hexSegments maps 0x0-0xF to segments a..g.
var hexSegments = [16]string{
	"1111110", "0110000", "1101101", "1111001",
	"0110011", "1011011", "1011111", "1110000",
	"1111111", "1111011", "1110111", "0011111",
	"0001101", "0111101", "1001111", "1000111",
}

func segmentsOf(pattern string) [7]bool {
	var seg [7]bool
	for i := range seg {
		seg[i] = pattern[i] == '1'
	}
	return seg
}

// segmentDisplay is a row of three seven-segment digits fed by sink pins.
// Every group has len(labels) pins; decode turns one group into segments.
type segmentDisplay struct {
	kind   domain.Kind
	labels []string
	pins   []domain.Signal
	decode func(group []domain.Signal) [7]bool
}

func newDigit4() *segmentDisplay {
	return &segmentDisplay{
		kind:   domain.KindDigit4,
		labels: digit4Labels,
		pins:   make([]domain.Signal, len(digitGroups)*len(digit4Labels)),
		decode: func(group []domain.Signal) [7]bool {
			return segmentsOf(hexSegments[weight(group)])
		},
	}
}

func newDigit7() *segmentDisplay {
	return &segmentDisplay{
		kind:   domain.KindDigit7,
		labels: digit7Labels,
		pins:   make([]domain.Signal, len(digitGroups)*len(digit7Labels)),
		decode: func(group []domain.Signal) [7]bool {
			var seg [7]bool
			for i, s := range group {
				seg[i] = s == domain.SignalHigh
			}
			return seg
		},
	}
}

// weight reads pins as a binary number, most significant first. Anything
// but HIGH counts as zero.
func weight(pins []domain.Signal) int {
	n := 0
	for _, p := range pins {
		n *= 2
		if p == domain.SignalHigh {
			n++
		}
	}
	return n
}

func (d *segmentDisplay) Kind() domain.Kind        { return d.kind }
func (d *segmentDisplay) Size() (float64, float64) { return BlockWidth, BlockHeight }

func (d *segmentDisplay) PinLayout() []domain.PinSpec {
	n := len(d.labels)
	step := 80.0 / float64(n)
	pins := make([]domain.PinSpec, 0, len(d.pins))
	for g, group := range digitGroups {
		for i, label := range d.labels {
			x := 10 + step*float64(i)
			pins = append(pins, pin(fmt.Sprintf("%s:%s", group, label), domain.RoleSink, x, 30+50*float64(g)))
		}
	}
	return pins
}

func (d *segmentDisplay) Outputs() []domain.Signal {
	return make([]domain.Signal, len(d.pins))
}

func (d *segmentDisplay) Update(msg Msg) bool {
	m, ok := msg.(PinChanged)
	if !ok || m.Pin < 0 || m.Pin >= len(d.pins) || d.pins[m.Pin] == m.Value {
		return false
	}
	d.pins[m.Pin] = m.Value
	return true
}

func (d *segmentDisplay) group(g int) []domain.Signal {
	n := len(d.labels)
	return d.pins[g*n : (g+1)*n]
}

// Segments returns the lit segments of each digit.
func (d *segmentDisplay) Segments() [][7]bool {
	out := make([][7]bool, len(digitGroups))
	for g := range digitGroups {
		out[g] = d.decode(d.group(g))
	}
	return out
}

func (d *segmentDisplay) Render() Visual {
	signals := make(map[string][]domain.Signal, len(digitGroups))
	for g, name := range digitGroups {
		signals[name] = clone(d.group(g))
	}
	return Visual{
		Kind:    d.kind,
		Title:   string(d.kind),
		Lines:   glyphRows(d.Segments()),
		Signals: signals,
	}
}
