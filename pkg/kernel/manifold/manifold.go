//go:build manifold

// Package manifold is a geometry kernel backed by the Manifold C library
// (https://github.com/elalish/manifold). Its meshes are exact polyhedra,
// so drawings get crisp edges without marching cubes artefacts.
//
// Requires manifoldc. Build with: go build -tags=manifold
package manifold

/*
#cgo CFLAGS: -I/usr/local/include
#cgo LDFLAGS: -L/usr/local/lib -lmanifoldc

#include <stdlib.h>
#include <manifold/manifoldc.h>
*/
import "C"

import (
	"fmt"
	"runtime"
	"unsafe"

	"github.com/chazu/drafter/pkg/kernel"
)

// Available reports whether this build includes the Manifold kernel.
const Available = true

// circleSegments is the polygon resolution of cylinders and spheres.
const circleSegments = 64

var _ kernel.Kernel = (*Kernel)(nil)
var _ kernel.Solid = (*solid)(nil)

type solid struct {
	ptr *C.ManifoldManifold
}

func (s *solid) BoundingBox() (min, max [3]float64) {
	bbox := C.manifold_bounding_box(C.manifold_alloc_box(), s.ptr)
	defer C.manifold_delete_box(bbox)

	min = [3]float64{
		float64(C.manifold_box_min_x(bbox)),
		float64(C.manifold_box_min_y(bbox)),
		float64(C.manifold_box_min_z(bbox)),
	}
	max = [3]float64{
		float64(C.manifold_box_max_x(bbox)),
		float64(C.manifold_box_max_y(bbox)),
		float64(C.manifold_box_max_z(bbox)),
	}
	return min, max
}

// wrap takes ownership of ptr; it is freed when the solid is collected.
func wrap(ptr *C.ManifoldManifold) *solid {
	s := &solid{ptr: ptr}
	runtime.SetFinalizer(s, func(s *solid) {
		if s.ptr != nil {
			C.manifold_delete_manifold(s.ptr)
			s.ptr = nil
		}
	})
	return s
}

func unwrap(s kernel.Solid) *C.ManifoldManifold {
	return s.(*solid).ptr
}

// Kernel implements kernel.Kernel with Manifold.
type Kernel struct{}

// New returns a Manifold kernel.
func New() (kernel.Kernel, error) {
	return &Kernel{}, nil
}

// Box creates a box centered at the origin.
func (k *Kernel) Box(x, y, z float64) (kernel.Solid, error) {
	for _, d := range []struct {
		name string
		v    float64
	}{{"x", x}, {"y", y}, {"z", z}} {
		if err := kernel.Positive("box", d.name, d.v); err != nil {
			return nil, err
		}
	}
	return wrap(C.manifold_cube(C.manifold_alloc_manifold(), C.double(x), C.double(y), C.double(z), C.int(1))), nil
}

// Cylinder creates a cylinder along Z, centered at the origin.
func (k *Kernel) Cylinder(height, radius float64) (kernel.Solid, error) {
	if err := kernel.Positive("cylinder", "height", height); err != nil {
		return nil, err
	}
	if err := kernel.Positive("cylinder", "radius", radius); err != nil {
		return nil, err
	}
	ptr := C.manifold_cylinder(C.manifold_alloc_manifold(),
		C.double(height), C.double(radius), C.double(radius), C.int(circleSegments), C.int(1))
	return wrap(ptr), nil
}

// Sphere creates a sphere centered at the origin.
func (k *Kernel) Sphere(radius float64) (kernel.Solid, error) {
	if err := kernel.Positive("sphere", "radius", radius); err != nil {
		return nil, err
	}
	return wrap(C.manifold_sphere(C.manifold_alloc_manifold(), C.double(radius), C.int(circleSegments))), nil
}

func (k *Kernel) Union(a, b kernel.Solid) kernel.Solid {
	return wrap(C.manifold_union(C.manifold_alloc_manifold(), unwrap(a), unwrap(b)))
}

func (k *Kernel) Difference(a, b kernel.Solid) kernel.Solid {
	return wrap(C.manifold_difference(C.manifold_alloc_manifold(), unwrap(a), unwrap(b)))
}

func (k *Kernel) Intersection(a, b kernel.Solid) kernel.Solid {
	return wrap(C.manifold_intersection(C.manifold_alloc_manifold(), unwrap(a), unwrap(b)))
}

func (k *Kernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return wrap(C.manifold_translate(C.manifold_alloc_manifold(), unwrap(s), C.double(x), C.double(y), C.double(z)))
}

// Rotate rotates by Euler angles in degrees around X, then Y, then Z.
func (k *Kernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return wrap(C.manifold_rotate(C.manifold_alloc_manifold(), unwrap(s), C.double(x), C.double(y), C.double(z)))
}

// Mesh extracts the exact triangle mesh of s. The cell count is ignored.
func (k *Kernel) Mesh(s kernel.Solid, _ int) (*kernel.Mesh, error) {
	meshGL := C.manifold_get_meshgl(C.manifold_alloc_meshgl(), unwrap(s))
	defer C.manifold_delete_meshgl(meshGL)

	numVert := int(C.manifold_meshgl_num_vert(meshGL))
	numTri := int(C.manifold_meshgl_num_tri(meshGL))
	if numVert == 0 || numTri == 0 {
		return nil, fmt.Errorf("manifold mesh: solid is empty")
	}

	// Vertex properties are interleaved; position is always the first three.
	numProp := int(C.manifold_meshgl_num_prop(meshGL))
	props := make([]float32, numVert*numProp)
	C.manifold_meshgl_vert_properties((*C.float)(unsafe.Pointer(&props[0])), meshGL)

	indices := make([]uint32, numTri*3)
	C.manifold_meshgl_tri_verts((*C.uint32_t)(unsafe.Pointer(&indices[0])), meshGL)

	vertices := make([]float64, numVert*3)
	for i := 0; i < numVert; i++ {
		for a := 0; a < 3; a++ {
			vertices[i*3+a] = float64(props[i*numProp+a])
		}
	}

	m := &kernel.Mesh{Vertices: vertices, Indices: indices}
	if m.VertexCount() != numVert {
		return nil, fmt.Errorf("manifold mesh: vertex count mismatch: got %d, expected %d", m.VertexCount(), numVert)
	}
	return m, nil
}
