package tessellate

// RenderBuffer is the flat vertex/index data handed to a renderer.
// Positions and normals hold 3 floats per vertex, Indices 3 per triangle
// and Edges 2 per line segment.
type RenderBuffer struct {
	Positions []float32 `json:"positions"`
	Normals   []float32 `json:"normals"`
	Indices   []uint32  `json:"indices"`
	Edges     []uint32  `json:"edges"`
}

// VertexCount returns the number of vertices.
func (b *RenderBuffer) VertexCount() int {
	return len(b.Positions) / 3
}

// TriangleCount returns the number of triangles.
func (b *RenderBuffer) TriangleCount() int {
	return len(b.Indices) / 3
}

// EdgeCount returns the number of line segments.
func (b *RenderBuffer) EdgeCount() int {
	return len(b.Edges) / 2
}

// IsEmpty returns true if the buffer has no geometry.
func (b *RenderBuffer) IsEmpty() bool {
	return len(b.Positions) == 0
}

// Reset empties all four arrays, keeping their capacity.
func (b *RenderBuffer) Reset() {
	b.Positions = b.Positions[:0]
	b.Normals = b.Normals[:0]
	b.Indices = b.Indices[:0]
	b.Edges = b.Edges[:0]
}

func (b *RenderBuffer) addVertex(px, py, pz, nx, ny, nz float64) uint32 {
	i := uint32(b.VertexCount())
	b.Positions = append(b.Positions, float32(px), float32(py), float32(pz))
	b.Normals = append(b.Normals, float32(nx), float32(ny), float32(nz))
	return i
}
