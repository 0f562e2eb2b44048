// Package kernel defines the abstract geometry kernel interface used to
// build part solids and tessellate them for projection. The sdfx package
// provides the default implementation.
package kernel

import "fmt"

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Primitives. Dimensions must be positive.
	Box(x, y, z float64) (Solid, error)
	Cylinder(height, radius float64) (Solid, error)
	Sphere(radius float64) (Solid, error)

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees

	// Mesh tessellates s on a grid of roughly cells steps along the
	// longest bounding box axis.
	Mesh(s Solid, cells int) (*Mesh, error)
}

// DimensionError reports a primitive created with a non-positive size.
type DimensionError struct {
	Primitive string
	Name      string
	Value     float64
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("%s: %s must be positive, got %g", e.Primitive, e.Name, e.Value)
}

// Positive returns a DimensionError if v is not a positive number.
func Positive(primitive, name string, v float64) error {
	if !(v > 0) {
		return &DimensionError{Primitive: primitive, Name: name, Value: v}
	}
	return nil
}

// Extent returns the size of a bounding box along each axis.
func Extent(s Solid) [3]float64 {
	min, max := s.BoundingBox()
	return [3]float64{max[0] - min[0], max[1] - min[1], max[2] - min[2]}
}
