package catalog_test

import (
	"errors"
	"testing"

	"benchboard/internal/catalog"
	"benchboard/internal/domain"
)

func mustNew(t *testing.T, c *catalog.Catalog, kind domain.Kind) catalog.Block {
	t.Helper()
	b, err := c.New(kind)
	if err != nil {
		t.Fatalf("New(%s): %v", kind, err)
	}
	return b
}

func TestNew_UnknownKind(t *testing.T) {
	c := catalog.New(catalog.Options{})
	_, err := c.New("Oscilloscope")
	if !errors.Is(err, catalog.ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
}

func TestEveryKindIsBuilt(t *testing.T) {
	c := catalog.New(catalog.Options{})
	for _, kind := range domain.Kinds() {
		b := mustNew(t, c, kind)
		if b.Kind() != kind {
			t.Errorf("%s: Kind() = %s", kind, b.Kind())
		}
		pins := b.PinLayout()
		if len(pins) == 0 {
			t.Errorf("%s: no pins", kind)
		}
		if len(b.Outputs()) != len(pins) {
			t.Errorf("%s: %d outputs for %d pins", kind, len(b.Outputs()), len(pins))
		}
		w, h := b.Size()
		for _, p := range pins {
			if p.Offset.X < 0 || p.Offset.X > w || p.Offset.Y < 0 || p.Offset.Y > h {
				t.Errorf("%s pin %s offset %v outside %vx%v", kind, p.Name, p.Offset, w, h)
			}
		}
	}
}

func TestSwitch4_ToggleDrivesOutputs(t *testing.T) {
	b := mustNew(t, catalog.New(catalog.Options{}), domain.KindSwitch4)

	out := b.Outputs()
	for i := 4; i < 8; i++ {
		if out[i] != domain.SignalLow {
			t.Fatalf("switch %d should start LOW, got %s", i-4, out[i])
		}
	}
	if !b.Update(catalog.Toggle{Index: 2}) {
		t.Fatal("toggle should report a change")
	}
	if got := b.Outputs()[6]; got != domain.SignalHigh {
		t.Errorf("sw2 = %s, want H", got)
	}
	if b.Update(catalog.Toggle{Index: 9}) {
		t.Error("out-of-range toggle should be ignored")
	}
}

func TestSwitch4_LEDsFollowPins(t *testing.T) {
	b := mustNew(t, catalog.New(catalog.Options{}), domain.KindSwitch4)
	b.Update(catalog.PinChanged{Pin: 1, Value: domain.SignalHigh})

	leds := b.Render().Signals["leds"]
	want := []domain.Signal{domain.SignalUndefined, domain.SignalHigh, domain.SignalUndefined, domain.SignalUndefined}
	for i := range want {
		if leds[i] != want[i] {
			t.Fatalf("leds = %v, want %v", leds, want)
		}
	}
	if b.Update(catalog.PinChanged{Pin: 1, Value: domain.SignalHigh}) {
		t.Error("same value should not report a change")
	}
}

func TestClock_PinsCarryFrequency(t *testing.T) {
	b := mustNew(t, catalog.New(catalog.Options{}), domain.KindClock)
	pins := b.PinLayout()
	for i, f := range catalog.ClockFrequencies {
		if pins[i].Mode != domain.ModeClockSrc {
			t.Errorf("pin %d mode = %s", i, pins[i].Mode)
		}
		if pins[i].Data != f {
			t.Errorf("pin %d data = %v, want %d", i, pins[i].Data, f)
		}
	}
}

func TestClock_ButtonsHighWhilePressed(t *testing.T) {
	b := mustNew(t, catalog.New(catalog.Options{}), domain.KindClock)
	n := len(catalog.ClockFrequencies)

	b.Update(catalog.Press{Index: 1, Down: true})
	if got := b.Outputs()[n+1]; got != domain.SignalHigh {
		t.Errorf("reset pressed = %s, want H", got)
	}
	b.Update(catalog.Press{Index: 1, Down: false})
	if got := b.Outputs()[n+1]; got != domain.SignalLow {
		t.Errorf("reset released = %s, want L", got)
	}
}

func TestDigit4_HexDecode(t *testing.T) {
	tests := []struct {
		name  string
		bits  [4]domain.Signal
		lines []string
	}{
		{"zero", [4]domain.Signal{}, []string{" _ ", "| |", "|_|"}},
		{"one", [4]domain.Signal{domain.SignalLow, domain.SignalLow, domain.SignalLow, domain.SignalHigh}, []string{"   ", "  |", "  |"}},
		{"F", [4]domain.Signal{domain.SignalHigh, domain.SignalHigh, domain.SignalHigh, domain.SignalHigh}, []string{" _ ", "|_ ", "|  "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := mustNew(t, catalog.New(catalog.Options{}), domain.KindDigit4)
			for i, s := range tt.bits {
				b.Update(catalog.PinChanged{Pin: i, Value: s})
			}
			lines := b.Render().Lines
			for r, want := range tt.lines {
				if got := lines[r][:3]; got != want {
					t.Errorf("row %d = %q, want %q", r, got, want)
				}
			}
		})
	}
}

func TestDigit7_SegmentsDirect(t *testing.T) {
	b := mustNew(t, catalog.New(catalog.Options{}), domain.KindDigit7)
	// second digit, segment g
	b.Update(catalog.PinChanged{Pin: 7 + 6, Value: domain.SignalHigh})
	lines := b.Render().Lines
	if got := lines[1][4:7]; got != " _ " {
		t.Errorf("digit B middle row = %q", got)
	}
	if got := lines[1][:3]; got != "   " {
		t.Errorf("digit A middle row = %q", got)
	}
}

func TestFPGA_PinRoles(t *testing.T) {
	b := mustNew(t, catalog.New(catalog.Options{FPGAInputs: 4}), domain.KindFPGA)
	pins := b.PinLayout()
	if len(pins) != catalog.FPGAPinCount {
		t.Fatalf("pins = %d", len(pins))
	}
	for i, p := range pins {
		want := domain.RoleSource
		if i < 4 || i == catalog.FPGAClockPin {
			want = domain.RoleSink
		}
		if p.Role != want {
			t.Errorf("pin %d role = %s, want %s", i, p.Role, want)
		}
	}
	if pins[catalog.FPGAClockPin].Mode != domain.ModeClockDest {
		t.Error("clock pin should be clock-dest")
	}
}

func TestFPGA_BoardOutputOnlyOnSources(t *testing.T) {
	b := mustNew(t, catalog.New(catalog.Options{}), domain.KindFPGA)
	if b.Update(catalog.BoardOutput{Pin: 0, Value: domain.SignalHigh}) {
		t.Error("pin 0 is an input")
	}
	if !b.Update(catalog.BoardOutput{Pin: 20, Value: domain.SignalHigh}) {
		t.Fatal("pin 20 is an output")
	}
	if got := b.Outputs()[20]; got != domain.SignalHigh {
		t.Errorf("pin 20 = %s", got)
	}
}
