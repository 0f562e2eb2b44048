package kernel

// Mesh is an indexed triangle mesh.
// Vertices has 3 floats per vertex (x,y,z); Indices has 3 entries per
// triangle. Coordinates are kept in float64 because the mesh feeds
// projection, not a GPU.
type Mesh struct {
	Vertices []float64
	Indices  []uint32
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no triangles.
func (m *Mesh) IsEmpty() bool {
	return m == nil || len(m.Indices) == 0
}

// Vertex returns vertex i.
func (m *Mesh) Vertex(i uint32) [3]float64 {
	j := int(i) * 3
	return [3]float64{m.Vertices[j], m.Vertices[j+1], m.Vertices[j+2]}
}

// Triangle returns the vertex indices of triangle i.
func (m *Mesh) Triangle(i int) [3]uint32 {
	j := i * 3
	return [3]uint32{m.Indices[j], m.Indices[j+1], m.Indices[j+2]}
}

// AddTriangle appends a triangle with three fresh vertices.
func (m *Mesh) AddTriangle(a, b, c [3]float64) {
	base := uint32(m.VertexCount())
	m.Vertices = append(m.Vertices, a[0], a[1], a[2], b[0], b[1], b[2], c[0], c[1], c[2])
	m.Indices = append(m.Indices, base, base+1, base+2)
}
