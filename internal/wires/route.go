package wires

import (
	"container/heap"
	"math"
	"sort"

	"benchboard/internal/domain"
)

// ═══════════════════════════════════════════════════════════════
// Orthogonal wire routing with obstacle avoidance
// (Dijkstra over a ruler grid, bends penalized)
// ═══════════════════════════════════════════════════════════════

const DefaultMargin = 6.0

// Router computes orthogonal paths around block rectangles.
type Router struct {
	margin float64
}

func NewRouter(margin float64) *Router {
	if margin <= 0 {
		margin = DefaultMargin
	}
	return &Router{margin: margin}
}

// Route returns an orthogonal polyline from a to b. When no path around the
// obstacles exists it falls back to an L shape.
func (r *Router) Route(a, b domain.Point, obstacles []domain.Rect) []domain.Point {
	if same(a, b) {
		return []domain.Point{a}
	}

	inflated := make([]domain.Rect, len(obstacles))
	for i, o := range obstacles {
		inflated[i] = o.Inflate(r.margin)
	}
	if (near(a.X, b.X) || near(a.Y, b.Y)) && !blocked(a, b, inflated) {
		return []domain.Point{a, b}
	}

	// Rulers from obstacle edges and both endpoints
	xs := []float64{a.X, b.X}
	ys := []float64{a.Y, b.Y}
	for _, o := range inflated {
		xs = append(xs, o.X, o.X+o.W)
		ys = append(ys, o.Y, o.Y+o.H)
	}
	xs = uniqSort(xs)
	ys = uniqSort(ys)
	xs = withMidpoints(append([]float64{xs[0] - r.margin}, append(xs, xs[len(xs)-1]+r.margin)...))
	ys = withMidpoints(append([]float64{ys[0] - r.margin}, append(ys, ys[len(ys)-1]+r.margin)...))

	spots := []domain.Point{a, b}
	for _, x := range xs {
		for _, y := range ys {
			p := domain.Point{X: x, Y: y}
			if !insideAny(p, inflated) {
				spots = append(spots, p)
			}
		}
	}

	path := shortest(dedupe(spots), a, b, inflated)
	if len(path) < 2 {
		return lShape(a, b)
	}
	return simplify(path)
}

func lShape(a, b domain.Point) []domain.Point {
	return simplify([]domain.Point{a, {X: b.X, Y: a.Y}, b})
}

// ── Geometry helpers ──────────────────────────────────────

func near(a, b float64) bool { return math.Abs(a-b) < 0.5 }

func same(a, b domain.Point) bool { return near(a.X, b.X) && near(a.Y, b.Y) }

func insideAny(p domain.Point, rects []domain.Rect) bool {
	for _, r := range rects {
		if p.X > r.X && p.X < r.X+r.W && p.Y > r.Y && p.Y < r.Y+r.H {
			return true
		}
	}
	return false
}

// crosses reports whether the axis-aligned edge a-b passes through the
// interior of r.
func crosses(a, b domain.Point, r domain.Rect) bool {
	if near(a.Y, b.Y) {
		y := a.Y
		if y <= r.Y || y >= r.Y+r.H {
			return false
		}
		return math.Min(a.X, b.X) < r.X+r.W && math.Max(a.X, b.X) > r.X
	}
	if near(a.X, b.X) {
		x := a.X
		if x <= r.X || x >= r.X+r.W {
			return false
		}
		return math.Min(a.Y, b.Y) < r.Y+r.H && math.Max(a.Y, b.Y) > r.Y
	}
	return false
}

func blocked(a, b domain.Point, rects []domain.Rect) bool {
	for _, r := range rects {
		if crosses(a, b, r) {
			return true
		}
	}
	return false
}

func key(v float64) int64 { return int64(math.Round(v * 100)) }

func pointKey(p domain.Point) [2]int64 { return [2]int64{key(p.X), key(p.Y)} }

func uniqSort(vals []float64) []float64 {
	seen := map[int64]bool{}
	var out []float64
	for _, v := range vals {
		if k := key(v); !seen[k] {
			seen[k] = true
			out = append(out, v)
		}
	}
	sort.Float64s(out)
	return out
}

func withMidpoints(sorted []float64) []float64 {
	out := make([]float64, 0, 2*len(sorted))
	for i, v := range sorted {
		if i > 0 {
			out = append(out, (sorted[i-1]+v)/2)
		}
		out = append(out, v)
	}
	return uniqSort(out)
}

func dedupe(pts []domain.Point) []domain.Point {
	seen := map[[2]int64]bool{}
	out := pts[:0:0]
	for _, p := range pts {
		if k := pointKey(p); !seen[k] {
			seen[k] = true
			out = append(out, p)
		}
	}
	return out
}

// simplify drops collinear waypoints and consecutive duplicates.
func simplify(pts []domain.Point) []domain.Point {
	clean := []domain.Point{pts[0]}
	for _, p := range pts[1:] {
		if !same(p, clean[len(clean)-1]) {
			clean = append(clean, p)
		}
	}
	if len(clean) < 3 {
		return clean
	}
	out := []domain.Point{clean[0]}
	for i := 1; i < len(clean)-1; i++ {
		prev, cur, next := clean[i-1], clean[i], clean[i+1]
		sameX := near(prev.X, cur.X) && near(cur.X, next.X)
		sameY := near(prev.Y, cur.Y) && near(cur.Y, next.Y)
		if !sameX && !sameY {
			out = append(out, cur)
		}
	}
	return append(out, clean[len(clean)-1])
}

// ── Dijkstra on the sparse spot graph ────────────────────

type node struct {
	pt   domain.Point
	dist float64
	prev *node
	dir  byte // 'h', 'v' or 0
}

type edge struct {
	to  [2]int64
	w   float64
	dir byte
}

// queue is a min-heap of entries keyed by the distance at push time; stale
// entries are skipped through the visited set.
type queue []entry

type entry struct {
	n    *node
	dist float64
}

func (q queue) Len() int           { return len(q) }
func (q queue) Less(i, j int) bool { return q[i].dist < q[j].dist }
func (q queue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *queue) Push(x any)        { *q = append(*q, x.(entry)) }

func (q *queue) Pop() any {
	old := *q
	e := old[len(old)-1]
	*q = old[:len(old)-1]
	return e
}

func shortest(spots []domain.Point, from, to domain.Point, rects []domain.Rect) []domain.Point {
	byX := map[int64][]domain.Point{}
	byY := map[int64][]domain.Point{}
	nodes := make(map[[2]int64]*node, len(spots))
	for _, s := range spots {
		byX[key(s.X)] = append(byX[key(s.X)], s)
		byY[key(s.Y)] = append(byY[key(s.Y)], s)
		nodes[pointKey(s)] = &node{pt: s, dist: math.Inf(1)}
	}

	adj := map[[2]int64][]edge{}
	link := func(line []domain.Point, dir byte, less func(i, j int) bool, span func(a, b domain.Point) float64) {
		sort.Slice(line, less)
		for i := 0; i+1 < len(line); i++ {
			a, b := line[i], line[i+1]
			if blocked(a, b, rects) {
				continue
			}
			w := span(a, b)
			ka, kb := pointKey(a), pointKey(b)
			adj[ka] = append(adj[ka], edge{kb, w, dir})
			adj[kb] = append(adj[kb], edge{ka, w, dir})
		}
	}
	for _, col := range byX {
		link(col, 'v', func(i, j int) bool { return col[i].Y < col[j].Y },
			func(a, b domain.Point) float64 { return math.Abs(b.Y - a.Y) })
	}
	for _, row := range byY {
		link(row, 'h', func(i, j int) bool { return row[i].X < row[j].X },
			func(a, b domain.Point) float64 { return math.Abs(b.X - a.X) })
	}

	start, goal := nodes[pointKey(from)], nodes[pointKey(to)]
	start.dist = 0
	visited := map[[2]int64]bool{}
	q := &queue{{n: start}}
	for q.Len() > 0 {
		cur := heap.Pop(q).(entry).n
		ck := pointKey(cur.pt)
		if visited[ck] {
			continue
		}
		visited[ck] = true
		if cur == goal {
			break
		}
		for _, e := range adj[ck] {
			if visited[e.to] {
				continue
			}
			next := nodes[e.to]
			bend := 0.0
			if cur.dir != 0 && cur.dir != e.dir {
				bend = (e.w + 1) * (e.w + 1)
			}
			if d := cur.dist + e.w + bend; d < next.dist {
				next.dist = d
				next.prev = cur
				next.dir = e.dir
				heap.Push(q, entry{n: next, dist: d})
			}
		}
	}

	if !visited[pointKey(to)] {
		return nil
	}
	var path []domain.Point
	for n := goal; n != nil; n = n.prev {
		path = append([]domain.Point{n.pt}, path...)
	}
	return path
}
