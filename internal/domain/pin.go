package domain

// PinSpec describes one connector of a block kind.
type PinSpec struct {
	Name   string `json:"name"`
	Role   Role   `json:"role"`
	Mode   Mode   `json:"mode"`
	Offset Point  `json:"offset"` // anchor midpoint relative to the block origin
	Data   any    `json:"data,omitempty"`
}

// Wire is an unordered pair of connected connector ids.
type Wire struct {
	A string `json:"a"`
	B string `json:"b"`
}

// Normalize orders the ids so equal wires compare equal.
func (w Wire) Normalize() Wire {
	if w.B < w.A {
		return Wire{A: w.B, B: w.A}
	}
	return w
}

// Pin is a mounted connector as reported to hosts.
type Pin struct {
	ID      string `json:"id"`
	BlockID string `json:"blockId"`
	Index   int    `json:"index"`
	Name    string `json:"name"`
	Role    Role   `json:"role"`
	Mode    Mode   `json:"mode"`
	Value   Signal `json:"value"`
	Peer    string `json:"peer,omitempty"`
	Pending bool   `json:"pending"`
}
