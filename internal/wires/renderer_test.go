package wires

import (
	"container/heap"
	"testing"

	"benchboard/internal/domain"
)

func anchors(m map[string]domain.Point) Locator {
	return AnchorFunc(func(id string) (domain.Point, bool) {
		p, ok := m[id]
		return p, ok
	})
}

func TestRender_DedupesPairs(t *testing.T) {
	r := NewRenderer(nil)
	loc := anchors(map[string]domain.Point{"a": {X: 0, Y: 0}, "b": {X: 10, Y: 0}})

	segs := r.Render([]domain.Wire{{A: "a", B: "b"}, {A: "b", B: "a"}}, loc, nil)
	if len(segs) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segs))
	}
	if segs[0].From != (domain.Point{X: 0, Y: 0}) || segs[0].To != (domain.Point{X: 10, Y: 0}) {
		t.Errorf("unexpected segment %+v", segs[0])
	}
}

func TestRender_MissingAnchorOmitted(t *testing.T) {
	r := NewRenderer(nil)
	loc := anchors(map[string]domain.Point{"a": {}, "b": {X: 5}, "c": {X: 9}})

	segs := r.Render([]domain.Wire{{A: "a", B: "b"}, {A: "c", B: "gone"}}, loc, nil)
	if len(segs) != 1 || segs[0].Wire != (domain.Wire{A: "a", B: "b"}) {
		t.Fatalf("got %+v", segs)
	}
}

func TestRender_IdempotentAndRetained(t *testing.T) {
	r := NewRenderer(NewRouter(0))
	loc := anchors(map[string]domain.Point{"a": {X: 0, Y: 0}, "b": {X: 100, Y: 60}})
	wires := []domain.Wire{{A: "a", B: "b"}}

	first := r.Render(wires, loc, nil)
	second := r.Render(wires, loc, nil)
	if len(first) != len(second) || len(first[0].Path) != len(second[0].Path) {
		t.Fatalf("frames differ: %+v vs %+v", first, second)
	}
	for i := range first[0].Path {
		if first[0].Path[i] != second[0].Path[i] {
			t.Fatalf("paths differ at %d", i)
		}
	}
	if len(r.Last()) != 1 {
		t.Errorf("Last() = %+v", r.Last())
	}

	r.Render(nil, loc, nil)
	if len(r.Last()) != 0 {
		t.Errorf("Last() should be the empty frame, got %+v", r.Last())
	}
}

func TestRender_OwnBlocksAreNotObstacles(t *testing.T) {
	r := NewRenderer(NewRouter(0))
	loc := anchors(map[string]domain.Point{"a": {X: 20, Y: 30}, "b": {X: 195, Y: 30}})
	blocks := []domain.Rect{{X: 0, Y: 0, W: 160, H: 160}, {X: 175, Y: 0, W: 160, H: 160}}

	segs := r.Render([]domain.Wire{{A: "a", B: "b"}}, loc, blocks)
	if got := len(segs[0].Path); got != 2 {
		t.Errorf("expected a straight path, got %v", segs[0].Path)
	}
}

func assertOrthogonal(t *testing.T, path []domain.Point, from, to domain.Point) {
	t.Helper()
	if path[0] != from || path[len(path)-1] != to {
		t.Fatalf("path %v does not join %v and %v", path, from, to)
	}
	for i := 1; i < len(path); i++ {
		a, b := path[i-1], path[i]
		if !near(a.X, b.X) && !near(a.Y, b.Y) {
			t.Fatalf("diagonal step %v -> %v in %v", a, b, path)
		}
	}
}

func TestRoute_Straight(t *testing.T) {
	path := NewRouter(0).Route(domain.Point{X: 0, Y: 5}, domain.Point{X: 50, Y: 5}, nil)
	if len(path) != 2 {
		t.Fatalf("expected straight path, got %v", path)
	}
}

func TestRoute_Bends(t *testing.T) {
	from, to := domain.Point{X: 0, Y: 0}, domain.Point{X: 100, Y: 50}
	path := NewRouter(0).Route(from, to, nil)
	assertOrthogonal(t, path, from, to)
	if len(path) != 3 {
		t.Errorf("expected a single bend, got %v", path)
	}
}

func TestRoute_AvoidsObstacle(t *testing.T) {
	from, to := domain.Point{X: 0, Y: 50}, domain.Point{X: 200, Y: 50}
	wall := domain.Rect{X: 80, Y: 0, W: 40, H: 100}

	path := NewRouter(0).Route(from, to, []domain.Rect{wall})
	assertOrthogonal(t, path, from, to)
	for i := 1; i < len(path); i++ {
		if crosses(path[i-1], path[i], wall) {
			t.Fatalf("step %v -> %v crosses %v", path[i-1], path[i], wall)
		}
	}
}

func TestLShape(t *testing.T) {
	path := lShape(domain.Point{X: 0, Y: 0}, domain.Point{X: 30, Y: 40})
	want := []domain.Point{{X: 0, Y: 0}, {X: 30, Y: 0}, {X: 30, Y: 40}}
	if len(path) != len(want) {
		t.Fatalf("got %v", path)
	}
	for i := range want {
		if path[i] != want[i] {
			t.Fatalf("got %v, want %v", path, want)
		}
	}
}

func TestQueue_PopsNearestFirst(t *testing.T) {
	n := &node{}
	q := &queue{}
	for _, d := range []float64{40, 5, 25, 5, 90, 0, 12} {
		heap.Push(q, entry{n: n, dist: d})
	}
	prev := -1.0
	for q.Len() > 0 {
		e := heap.Pop(q).(entry)
		if e.dist < prev {
			t.Fatalf("popped %v after %v", e.dist, prev)
		}
		prev = e.dist
	}
}

func TestRoute_AvoidsTwoWalls(t *testing.T) {
	from, to := domain.Point{X: 0, Y: 50}, domain.Point{X: 300, Y: 50}
	walls := []domain.Rect{
		{X: 80, Y: 0, W: 40, H: 100},
		{X: 180, Y: 20, W: 40, H: 120},
	}

	path := NewRouter(0).Route(from, to, walls)
	assertOrthogonal(t, path, from, to)
	for i := 1; i < len(path); i++ {
		for _, w := range walls {
			if crosses(path[i-1], path[i], w) {
				t.Fatalf("step %v -> %v crosses %v", path[i-1], path[i], w)
			}
		}
	}
}
