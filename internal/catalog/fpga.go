package catalog

import (
	"strconv"

	"benchboard/internal/domain"
)

const (
	FPGAPinCount      = 38
	FPGAClockPin      = 37
	DefaultFPGAInputs = 16
)

// fpga stands in for the remote board. Pins below inputs receive bench
// signals, the remaining pins up to the clock pin replay board outputs and
// the last pin accepts a clock source.
type fpga struct {
	inputs int
	levels []domain.Signal // received on sinks, driven on sources
}

func newFPGA(opts Options) Block {
	return &fpga{inputs: opts.FPGAInputs, levels: make([]domain.Signal, FPGAPinCount)}
}

func (f *fpga) Kind() domain.Kind        { return domain.KindFPGA }
func (f *fpga) Size() (float64, float64) { return BlockWidth, BlockHeight }

func (f *fpga) isOutput(i int) bool { return i >= f.inputs && i < FPGAClockPin }

func (f *fpga) PinLayout() []domain.PinSpec {
	const perRow = FPGAPinCount / 2
	pins := make([]domain.PinSpec, FPGAPinCount)
	for i := range pins {
		role := domain.RoleSink
		if f.isOutput(i) {
			role = domain.RoleSource
		}
		x := 8 + 8*float64(i%perRow)
		y := 10.0
		if i >= perRow {
			y = 150
		}
		pins[i] = pin(strconv.Itoa(i), role, x, y)
	}
	pins[FPGAClockPin].Mode = domain.ModeClockDest
	return pins
}

func (f *fpga) Outputs() []domain.Signal {
	out := make([]domain.Signal, FPGAPinCount)
	for i := range out {
		if f.isOutput(i) {
			out[i] = f.levels[i]
		}
	}
	return out
}

func (f *fpga) Update(msg Msg) bool {
	switch m := msg.(type) {
	case PinChanged:
		if m.Pin < 0 || m.Pin >= FPGAPinCount || f.isOutput(m.Pin) || f.levels[m.Pin] == m.Value {
			return false
		}
		f.levels[m.Pin] = m.Value
		return true
	case BoardOutput:
		if !f.isOutput(m.Pin) || f.levels[m.Pin] == m.Value {
			return false
		}
		f.levels[m.Pin] = m.Value
		return true
	}
	return false
}

func (f *fpga) Render() Visual {
	in := clone(f.levels[:f.inputs])
	out := clone(f.levels[f.inputs:FPGAClockPin])
	return Visual{
		Kind:  domain.KindFPGA,
		Title: "FPGA",
		Lines: []string{
			"in  " + levels(in),
			"out " + levels(out),
		},
		Signals: map[string][]domain.Signal{"in": in, "out": out},
	}
}
