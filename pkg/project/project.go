// Package project computes orthographic hidden-line projections of a
// triangle mesh. One projection is produced per view orientation: the
// feature edges of the mesh are flattened onto the view plane and cut
// into visible and hidden pieces where they pass behind nearer faces.
package project

import (
	"errors"
	"fmt"
	"math"

	"github.com/chazu/drafter/pkg/kernel"
	"github.com/chazu/drafter/pkg/views"
)

// ErrEmptyMesh is returned when there is nothing to project.
var ErrEmptyMesh = errors.New("project: mesh is empty")

// ErrDegenerate is returned when the mesh collapses to a point or line in
// the requested orientation.
var ErrDegenerate = errors.New("project: mesh is degenerate in this orientation")

const (
	// creaseCos is the cosine of the dihedral angle above which an edge
	// between two faces is drawn.
	creaseCos = 0.8660254037844387 // cos(30°)

	// binCount is the number of screen bins per axis used to find
	// occluding triangles.
	binCount = 64

	// Bounds on the coverage samples taken along one edge, and the
	// bisection steps used to place a visibility change.
	minSamples  = 3
	maxSamples  = 128
	bisectSteps = 24
)

// Point2 is a point on the view plane.
type Point2 struct {
	X, Y float64
}

// Segment is a straight line between two view-plane points.
type Segment struct {
	A, B Point2
}

// Length returns the length of the segment.
func (s Segment) Length() float64 {
	return math.Hypot(s.B.X-s.A.X, s.B.Y-s.A.Y)
}

// Projection is the hidden-line drawing of a mesh in one orientation.
// Coordinates are in model units on the view plane.
type Projection struct {
	Orientation views.Kind
	Visible     []Segment
	Hidden      []Segment
	Min, Max    Point2
}

// Center returns the center of the projected bounds.
func (p *Projection) Center() Point2 {
	return Point2{X: (p.Min.X + p.Max.X) / 2, Y: (p.Min.Y + p.Max.Y) / 2}
}

// Basis is the view frame of an orientation: screen right, screen up, and
// the direction pointing from the model toward the viewer.
type Basis struct {
	Right, Up, Toward [3]float64
}

// BasisFor returns the view frame of k. Z is up for every side view.
func BasisFor(k views.Kind) (Basis, error) {
	switch k {
	case views.Front:
		return Basis{Right: [3]float64{1, 0, 0}, Up: [3]float64{0, 0, 1}, Toward: [3]float64{0, -1, 0}}, nil
	case views.Back:
		return Basis{Right: [3]float64{-1, 0, 0}, Up: [3]float64{0, 0, 1}, Toward: [3]float64{0, 1, 0}}, nil
	case views.Top:
		return Basis{Right: [3]float64{1, 0, 0}, Up: [3]float64{0, 1, 0}, Toward: [3]float64{0, 0, 1}}, nil
	case views.Bottom:
		return Basis{Right: [3]float64{1, 0, 0}, Up: [3]float64{0, -1, 0}, Toward: [3]float64{0, 0, -1}}, nil
	case views.Right:
		return Basis{Right: [3]float64{0, 1, 0}, Up: [3]float64{0, 0, 1}, Toward: [3]float64{1, 0, 0}}, nil
	case views.Left:
		return Basis{Right: [3]float64{0, -1, 0}, Up: [3]float64{0, 0, 1}, Toward: [3]float64{-1, 0, 0}}, nil
	}
	return Basis{}, fmt.Errorf("project: unsupported orientation %v", k)
}

// face is a welded triangle with its unit normal.
type face struct {
	v      [3]uint32
	normal [3]float64
}

type edgeKey struct {
	lo, hi uint32
}

func makeEdgeKey(a, b uint32) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{lo: a, hi: b}
}

// Project draws m as seen from orientation k.
func Project(m *kernel.Mesh, k views.Kind) (*Projection, error) {
	if m.IsEmpty() {
		return nil, ErrEmptyMesh
	}
	basis, err := BasisFor(k)
	if err != nil {
		return nil, err
	}

	verts, faces, err := weld(m)
	if err != nil {
		return nil, err
	}

	// Flatten every vertex: screen x, screen y, and depth toward the viewer.
	screen := make([]Point2, len(verts))
	depth := make([]float64, len(verts))
	p := &Projection{
		Orientation: k,
		Min:         Point2{X: math.Inf(1), Y: math.Inf(1)},
		Max:         Point2{X: math.Inf(-1), Y: math.Inf(-1)},
	}
	for i, v := range verts {
		s := Point2{X: dot(v, basis.Right), Y: dot(v, basis.Up)}
		screen[i] = s
		depth[i] = dot(v, basis.Toward)
		p.Min.X = math.Min(p.Min.X, s.X)
		p.Min.Y = math.Min(p.Min.Y, s.Y)
		p.Max.X = math.Max(p.Max.X, s.X)
		p.Max.Y = math.Max(p.Max.Y, s.Y)
	}
	extent := math.Max(p.Max.X-p.Min.X, p.Max.Y-p.Min.Y)
	if !(extent > 0) {
		return nil, ErrDegenerate
	}

	occ := newOccluder(faces, screen, depth, p.Min, extent)
	minLen := extent * 1e-6

	edges := make(map[edgeKey][]int)
	for fi, f := range faces {
		for j := 0; j < 3; j++ {
			key := makeEdgeKey(f.v[j], f.v[(j+1)%3])
			edges[key] = append(edges[key], fi)
		}
	}

	visible := newSegmentSet(extent)
	hidden := newSegmentSet(extent)
	for key, adj := range edges {
		if !isFeature(faces, adj, basis.Toward) {
			continue
		}
		seg := Segment{A: screen[key.lo], B: screen[key.hi]}
		if seg.Length() < minLen {
			// Edge runs along the line of sight.
			continue
		}
		for _, pc := range occ.split(adj, seg, depth[key.lo], depth[key.hi]) {
			if pc.hidden {
				hidden.add(pc.Segment)
			} else {
				visible.add(pc.Segment)
			}
		}
	}

	p.Visible = visible.segments()
	for _, s := range hidden.segments() {
		if !visible.contains(s) {
			p.Hidden = append(p.Hidden, s)
		}
	}
	return p, nil
}

// isFeature reports whether an edge with the given adjacent faces is
// drawn: boundary and non-manifold edges, creases, and silhouettes.
func isFeature(faces []face, adj []int, toward [3]float64) bool {
	if len(adj) != 2 {
		return true
	}
	n1, n2 := faces[adj[0]].normal, faces[adj[1]].normal
	if dot(n1, n2) < creaseCos {
		return true
	}
	return dot(n1, toward)*dot(n2, toward) < 0
}

// weld merges coincident vertices so that triangles share edges, and drops
// triangles with zero area.
func weld(m *kernel.Mesh) ([][3]float64, []face, error) {
	lo := [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi := [3]float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for i := 0; i < m.VertexCount(); i++ {
		v := m.Vertex(uint32(i))
		for a := 0; a < 3; a++ {
			lo[a] = math.Min(lo[a], v[a])
			hi[a] = math.Max(hi[a], v[a])
		}
	}
	diag := math.Sqrt(sq(hi[0]-lo[0]) + sq(hi[1]-lo[1]) + sq(hi[2]-lo[2]))
	if !(diag > 0) || math.IsInf(diag, 0) {
		return nil, nil, ErrDegenerate
	}
	quantum := diag * 1e-7

	index := make(map[[3]int64]uint32)
	var verts [][3]float64
	weldOne := func(v [3]float64) uint32 {
		key := [3]int64{
			int64(math.Round(v[0] / quantum)),
			int64(math.Round(v[1] / quantum)),
			int64(math.Round(v[2] / quantum)),
		}
		if id, ok := index[key]; ok {
			return id
		}
		id := uint32(len(verts))
		index[key] = id
		verts = append(verts, v)
		return id
	}

	faces := make([]face, 0, m.TriangleCount())
	for i := 0; i < m.TriangleCount(); i++ {
		t := m.Triangle(i)
		ids := [3]uint32{weldOne(m.Vertex(t[0])), weldOne(m.Vertex(t[1])), weldOne(m.Vertex(t[2]))}
		if ids[0] == ids[1] || ids[1] == ids[2] || ids[0] == ids[2] {
			continue
		}
		n := cross(sub(verts[ids[1]], verts[ids[0]]), sub(verts[ids[2]], verts[ids[0]]))
		l := math.Sqrt(dot(n, n))
		if l == 0 {
			continue
		}
		faces = append(faces, face{v: ids, normal: [3]float64{n[0] / l, n[1] / l, n[2] / l}})
	}
	if len(faces) == 0 {
		return nil, nil, ErrDegenerate
	}
	return verts, faces, nil
}

func dot(a, b [3]float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func sub(a, b [3]float64) [3]float64 {
	return [3]float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func cross(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func sq(x float64) float64 { return x * x }
