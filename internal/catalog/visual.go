package catalog

import (
	"strings"

	"benchboard/internal/domain"
)

// Visual is the rendered face of a block. Lines is a plain-text face for
// terminal hosts; Signals carries the same state by group for richer hosts.
type Visual struct {
	Kind    domain.Kind                `json:"kind"`
	Title   string                     `json:"title"`
	Lines   []string                   `json:"lines"`
	Signals map[string][]domain.Signal `json:"signals"`
}

func lamp(s domain.Signal) string {
	switch s {
	case domain.SignalHigh:
		return "●"
	case domain.SignalLow:
		return "○"
	}
	return "·"
}

func lamps(sigs []domain.Signal) string {
	parts := make([]string, len(sigs))
	for i, s := range sigs {
		parts[i] = lamp(s)
	}
	return strings.Join(parts, " ")
}

func levers(sigs []domain.Signal) string {
	parts := make([]string, len(sigs))
	for i, s := range sigs {
		if s == domain.SignalHigh {
			parts[i] = "▲"
		} else {
			parts[i] = "▼"
		}
	}
	return strings.Join(parts, " ")
}

func levels(sigs []domain.Signal) string {
	var b strings.Builder
	for _, s := range sigs {
		b.WriteString(s.String())
	}
	return b.String()
}

// glyph draws segments a..g as three text rows.
func glyph(seg [7]bool) [3]string {
	on := func(i int, c string) string {
		if seg[i] {
			return c
		}
		return " "
	}
	return [3]string{
		" " + on(0, "_") + " ",
		on(5, "|") + on(6, "_") + on(1, "|"),
		on(4, "|") + on(3, "_") + on(2, "|"),
	}
}

// glyphRows lays glyphs side by side.
func glyphRows(glyphs [][7]bool) []string {
	rows := make([]string, 3)
	for i, g := range glyphs {
		rendered := glyph(g)
		for r := range rows {
			if i > 0 {
				rows[r] += " "
			}
			rows[r] += rendered[r]
		}
	}
	return rows
}

func clone(sigs []domain.Signal) []domain.Signal {
	return append([]domain.Signal(nil), sigs...)
}
