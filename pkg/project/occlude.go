package project

import (
	"math"
	"sort"
)

// occluder answers "is this view-plane point covered by a nearer face?"
// Triangles are binned on a coarse screen grid so a query only tests the
// faces overlapping its bin.
type occluder struct {
	faces  []face
	screen []Point2
	depth  []float64
	origin Point2
	cell   float64
	eps    float64
	bins   [binCount * binCount][]int
}

func newOccluder(faces []face, screen []Point2, depth []float64, origin Point2, extent float64) *occluder {
	o := &occluder{
		faces:  faces,
		screen: screen,
		depth:  depth,
		origin: origin,
		cell:   extent / binCount,
		eps:    extent * 1e-4,
	}
	for fi, f := range faces {
		a, b, c := screen[f.v[0]], screen[f.v[1]], screen[f.v[2]]
		i0, j0 := o.bin(Point2{X: math.Min(a.X, math.Min(b.X, c.X)), Y: math.Min(a.Y, math.Min(b.Y, c.Y))})
		i1, j1 := o.bin(Point2{X: math.Max(a.X, math.Max(b.X, c.X)), Y: math.Max(a.Y, math.Max(b.Y, c.Y))})
		for j := j0; j <= j1; j++ {
			for i := i0; i <= i1; i++ {
				o.bins[j*binCount+i] = append(o.bins[j*binCount+i], fi)
			}
		}
	}
	return o
}

func (o *occluder) bin(p Point2) (int, int) {
	clamp := func(v int) int {
		if v < 0 {
			return 0
		}
		if v >= binCount {
			return binCount - 1
		}
		return v
	}
	return clamp(int((p.X - o.origin.X) / o.cell)), clamp(int((p.Y - o.origin.Y) / o.cell))
}

// piece is a part of a feature edge with uniform visibility.
type piece struct {
	Segment
	hidden bool
}

// split cuts an edge where it passes behind or out from behind another
// face. Coverage is sampled at interval midpoints along the edge and each
// change is located by bisection. Pieces shorter than the tolerance are
// folded into their neighbour.
func (o *occluder) split(adj []int, seg Segment, dA, dB float64) []piece {
	hiddenAt := func(t float64) bool {
		p := Point2{X: seg.A.X + t*(seg.B.X-seg.A.X), Y: seg.A.Y + t*(seg.B.Y-seg.A.Y)}
		return o.covered(p, dA+t*(dB-dA), adj)
	}

	n := 2 * int(math.Ceil(seg.Length()/o.cell))
	n = max(minSamples, min(n, maxSamples))
	step := 1 / float64(n)

	type run struct {
		from, to float64
		hidden   bool
	}
	runs := []run{{from: 0, hidden: hiddenAt(step / 2)}}
	for i := 1; i < n; i++ {
		state := hiddenAt((float64(i) + 0.5) * step)
		last := &runs[len(runs)-1]
		if state == last.hidden {
			continue
		}
		lo, hi := (float64(i)-0.5)*step, (float64(i)+0.5)*step
		for k := 0; k < bisectSteps; k++ {
			mid := (lo + hi) / 2
			if hiddenAt(mid) == last.hidden {
				lo = mid
			} else {
				hi = mid
			}
		}
		cut := (lo + hi) / 2
		if (cut-last.from)*seg.Length() < o.eps {
			// Too short to draw; the previous run takes over.
			if len(runs) > 1 {
				runs = runs[:len(runs)-1]
				continue
			}
			last.hidden = state
			continue
		}
		last.to = cut
		runs = append(runs, run{from: cut, hidden: state})
	}
	last := &runs[len(runs)-1]
	last.to = 1
	if len(runs) > 1 && (last.to-last.from)*seg.Length() < o.eps {
		runs = runs[:len(runs)-1]
		runs[len(runs)-1].to = 1
	}

	at := func(t float64) Point2 {
		switch t {
		case 0:
			return seg.A
		case 1:
			return seg.B
		}
		return Point2{X: seg.A.X + t*(seg.B.X-seg.A.X), Y: seg.A.Y + t*(seg.B.Y-seg.A.Y)}
	}
	pieces := make([]piece, 0, len(runs))
	for _, r := range runs {
		if n := len(pieces); n > 0 && pieces[n-1].hidden == r.hidden {
			pieces[n-1].B = at(r.to)
			continue
		}
		pieces = append(pieces, piece{Segment: Segment{A: at(r.from), B: at(r.to)}, hidden: r.hidden})
	}
	return pieces
}

// covered reports whether a face, other than those in skip, strictly
// contains p at a depth nearer to the viewer than d.
func (o *occluder) covered(p Point2, d float64, skip []int) bool {
	i, j := o.bin(p)
	for _, fi := range o.bins[j*binCount+i] {
		if contains(skip, fi) {
			continue
		}
		f := o.faces[fi]
		z, ok := o.depthAt(f, p)
		if ok && z > d+o.eps {
			return true
		}
	}
	return false
}

// depthAt interpolates the depth of face f at p if p lies strictly
// inside the face's projection.
func (o *occluder) depthAt(f face, p Point2) (float64, bool) {
	a, b, c := o.screen[f.v[0]], o.screen[f.v[1]], o.screen[f.v[2]]
	den := (b.Y-c.Y)*(a.X-c.X) + (c.X-b.X)*(a.Y-c.Y)
	if math.Abs(den) < 1e-18 {
		// Face seen edge-on.
		return 0, false
	}
	l1 := ((b.Y-c.Y)*(p.X-c.X) + (c.X-b.X)*(p.Y-c.Y)) / den
	l2 := ((c.Y-a.Y)*(p.X-c.X) + (a.X-c.X)*(p.Y-c.Y)) / den
	l3 := 1 - l1 - l2
	const inside = 1e-9
	if l1 <= inside || l2 <= inside || l3 <= inside {
		return 0, false
	}
	return l1*o.depth[f.v[0]] + l2*o.depth[f.v[1]] + l3*o.depth[f.v[2]], true
}

func contains(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

// segmentSet collects segments, merging those whose endpoints coincide
// within a small tolerance regardless of direction.
type segmentSet struct {
	quantum float64
	byKey   map[[4]int64]Segment
}

func newSegmentSet(extent float64) *segmentSet {
	return &segmentSet{quantum: extent * 1e-4, byKey: make(map[[4]int64]Segment)}
}

func (s *segmentSet) key(seg Segment) [4]int64 {
	q := func(v float64) int64 { return int64(math.Round(v / s.quantum)) }
	a := [2]int64{q(seg.A.X), q(seg.A.Y)}
	b := [2]int64{q(seg.B.X), q(seg.B.Y)}
	if b[0] < a[0] || (b[0] == a[0] && b[1] < a[1]) {
		a, b = b, a
	}
	return [4]int64{a[0], a[1], b[0], b[1]}
}

// add keeps, among coincident segments, the lexicographically smallest
// one so the result does not depend on insertion order.
func (s *segmentSet) add(seg Segment) {
	if less(seg.B, seg.A) {
		seg.A, seg.B = seg.B, seg.A
	}
	k := s.key(seg)
	if cur, ok := s.byKey[k]; !ok || less(seg.A, cur.A) || (seg.A == cur.A && less(seg.B, cur.B)) {
		s.byKey[k] = seg
	}
}

func less(a, b Point2) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	return a.Y < b.Y
}

func (s *segmentSet) contains(seg Segment) bool {
	_, ok := s.byKey[s.key(seg)]
	return ok
}

// segments returns the collected segments in a stable order.
func (s *segmentSet) segments() []Segment {
	keys := make([][4]int64, 0, len(s.byKey))
	for k := range s.byKey {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		for n := 0; n < 4; n++ {
			if keys[i][n] != keys[j][n] {
				return keys[i][n] < keys[j][n]
			}
		}
		return false
	})
	out := make([]Segment, len(keys))
	for i, k := range keys {
		out[i] = s.byKey[k]
	}
	return out
}
