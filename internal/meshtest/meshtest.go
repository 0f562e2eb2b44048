// Package meshtest provides hand-built meshes and a stub kernel for tests
// that should not depend on marching cubes output.
package meshtest

import (
	"errors"

	"github.com/chazu/drafter/pkg/kernel"
)

// AddCube appends an axis-aligned cube of half-size h centered at
// (cx, cy, cz), with outward-facing triangles.
func AddCube(m *kernel.Mesh, cx, cy, cz, h float64) {
	p := func(x, y, z float64) [3]float64 { return [3]float64{cx + x*h, cy + y*h, cz + z*h} }
	quad := func(a, b, c, d [3]float64) {
		m.AddTriangle(a, b, c)
		m.AddTriangle(a, c, d)
	}
	quad(p(1, -1, -1), p(1, 1, -1), p(1, 1, 1), p(1, -1, 1))     // +X
	quad(p(-1, -1, -1), p(-1, -1, 1), p(-1, 1, 1), p(-1, 1, -1)) // -X
	quad(p(-1, 1, -1), p(-1, 1, 1), p(1, 1, 1), p(1, 1, -1))     // +Y
	quad(p(-1, -1, -1), p(1, -1, -1), p(1, -1, 1), p(-1, -1, 1)) // -Y
	quad(p(-1, -1, 1), p(1, -1, 1), p(1, 1, 1), p(-1, 1, 1))     // +Z
	quad(p(-1, -1, -1), p(-1, 1, -1), p(1, 1, -1), p(1, -1, -1)) // -Z
}

// Cube returns a single cube mesh.
func Cube(cx, cy, cz, h float64) *kernel.Mesh {
	m := &kernel.Mesh{}
	AddCube(m, cx, cy, cz, h)
	return m
}

// Solid is a stub solid carrying a prebuilt mesh.
type Solid struct {
	Mesh *kernel.Mesh
}

// BoundingBox returns the bounds of the carried mesh.
func (s *Solid) BoundingBox() (min, max [3]float64) {
	for i := 0; i < s.Mesh.VertexCount(); i++ {
		v := s.Mesh.Vertex(uint32(i))
		for a := 0; a < 3; a++ {
			if i == 0 || v[a] < min[a] {
				min[a] = v[a]
			}
			if i == 0 || v[a] > max[a] {
				max[a] = v[a]
			}
		}
	}
	return min, max
}

// Kernel is a stub kernel whose Mesh returns the mesh carried by a Solid.
// Box builds a cube mesh of the larger half-extent; other operations
// return their first operand. MeshCalls counts tessellations.
type Kernel struct {
	MeshCalls int
}

var _ kernel.Kernel = (*Kernel)(nil)

func (k *Kernel) Box(x, y, z float64) (kernel.Solid, error) {
	if err := kernel.Positive("box", "x", x); err != nil {
		return nil, err
	}
	return &Solid{Mesh: Cube(0, 0, 0, max(x, y, z)/2)}, nil
}

func (k *Kernel) Cylinder(height, radius float64) (kernel.Solid, error) {
	return k.Box(2*radius, 2*radius, height)
}

func (k *Kernel) Sphere(radius float64) (kernel.Solid, error) {
	return k.Box(2*radius, 2*radius, 2*radius)
}

func (k *Kernel) Union(a, _ kernel.Solid) kernel.Solid        { return a }
func (k *Kernel) Difference(a, _ kernel.Solid) kernel.Solid   { return a }
func (k *Kernel) Intersection(a, _ kernel.Solid) kernel.Solid { return a }

func (k *Kernel) Translate(s kernel.Solid, _, _, _ float64) kernel.Solid { return s }
func (k *Kernel) Rotate(s kernel.Solid, _, _, _ float64) kernel.Solid    { return s }

func (k *Kernel) Mesh(s kernel.Solid, _ int) (*kernel.Mesh, error) {
	k.MeshCalls++
	ms, ok := s.(*Solid)
	if !ok || ms.Mesh == nil {
		return nil, errors.New("meshtest: solid carries no mesh")
	}
	return ms.Mesh, nil
}
