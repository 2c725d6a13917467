// Package wires turns the connection set and live pin anchors into drawable
// segments. Rendering is pure: the same connections and anchors always give
// the same frame.
package wires

import "benchboard/internal/domain"

// Locator reports the live anchor midpoint of a connector, relative to the
// surface container. ok is false while the pin has no geometry.
type Locator interface {
	Anchor(id string) (domain.Point, bool)
}

// AnchorFunc adapts a function to Locator.
type AnchorFunc func(id string) (domain.Point, bool)

func (f AnchorFunc) Anchor(id string) (domain.Point, bool) { return f(id) }

// Segment is one drawn wire.
type Segment struct {
	Wire domain.Wire    `json:"wire"`
	From domain.Point   `json:"from"`
	To   domain.Point   `json:"to"`
	Path []domain.Point `json:"path"` // orthogonal polyline From..To
}

// Renderer draws frames and keeps the last one.
type Renderer struct {
	router *Router
	last   []Segment
}

// NewRenderer returns a renderer. A nil router draws straight paths.
func NewRenderer(router *Router) *Renderer {
	return &Renderer{router: router}
}

// Render produces one segment per distinct pair. Pairs with a missing
// anchor are left out of this frame. Obstacles are block rectangles; the
// ones holding either end of a wire are not avoided by that wire.
func (r *Renderer) Render(wires []domain.Wire, loc Locator, obstacles []domain.Rect) []Segment {
	seen := make(map[domain.Wire]bool, len(wires))
	segs := make([]Segment, 0, len(wires))
	for _, w := range wires {
		w = w.Normalize()
		if seen[w] {
			continue
		}
		seen[w] = true

		from, ok := loc.Anchor(w.A)
		if !ok {
			continue
		}
		to, ok := loc.Anchor(w.B)
		if !ok {
			continue
		}
		seg := Segment{Wire: w, From: from, To: to}
		if r.router != nil {
			seg.Path = r.router.Route(from, to, others(obstacles, from, to))
		} else {
			seg.Path = []domain.Point{from, to}
		}
		segs = append(segs, seg)
	}
	r.last = segs
	return segs
}

// Last returns the most recent frame.
func (r *Renderer) Last() []Segment { return r.last }

func others(rects []domain.Rect, a, b domain.Point) []domain.Rect {
	out := make([]domain.Rect, 0, len(rects))
	for _, rc := range rects {
		if rc.Contains(a) || rc.Contains(b) {
			continue
		}
		out = append(out, rc)
	}
	return out
}
