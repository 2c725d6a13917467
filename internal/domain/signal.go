package domain

import "fmt"

// Signal is the logic level carried by a pin.
type Signal int

const (
	SignalUndefined Signal = iota
	SignalLow
	SignalHigh
)

func (s Signal) String() string {
	switch s {
	case SignalLow:
		return "L"
	case SignalHigh:
		return "H"
	}
	return "X"
}

func (s Signal) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Signal) UnmarshalText(b []byte) error {
	switch string(b) {
	case "H", "high", "1":
		*s = SignalHigh
	case "L", "low", "0":
		*s = SignalLow
	case "X", "undefined", "":
		*s = SignalUndefined
	default:
		return fmt.Errorf("unknown signal %q", string(b))
	}
	return nil
}

// Toggle flips HIGH and LOW. An undefined level becomes HIGH.
func (s Signal) Toggle() Signal {
	if s == SignalHigh {
		return SignalLow
	}
	return SignalHigh
}

// Role says whether a pin drives its connection or receives from it.
type Role int

const (
	RoleSink Role = iota
	RoleSource
)

func (r Role) String() string {
	if r == RoleSource {
		return "source"
	}
	return "sink"
}

func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Mode restricts which pins may be paired.
//
// Normal pins connect to normal or clock-destination pins. Clock-source pins
// only connect to clock-destination pins. Clock-destination pins connect to
// anything.
type Mode int

const (
	ModeNormal Mode = iota
	ModeClockSrc
	ModeClockDest
)

func (m Mode) String() string {
	switch m {
	case ModeClockSrc:
		return "clock-src"
	case ModeClockDest:
		return "clock-dest"
	}
	return "normal"
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Connectable reports whether pins of mode a and b may be wired together.
func Connectable(a, b Mode) bool {
	if a == ModeClockDest || b == ModeClockDest {
		return true
	}
	return a != ModeClockSrc && b != ModeClockSrc
}
