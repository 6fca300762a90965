package mesh

import "fmt"

// EachFaceEdge calls fn for every half-edge of the face in winding order,
// starting at the face's entry edge. Iteration stops early if fn returns
// false. A cycle that does not close within the mesh's half-edge count
// means the topology is corrupt and panics.
func (m *Mesh) EachFaceEdge(f FaceID, fn func(EdgeID, HalfEdge) bool) {
	start := m.Face(f).Edge
	if !start.Valid() {
		return
	}
	e := start
	for steps := 0; ; steps++ {
		if steps > len(m.edges) {
			panic(fmt.Sprintf("mesh %q: face %d edge cycle does not close", m.Name, f))
		}
		he := m.edges[e]
		if !fn(e, he) {
			return
		}
		e = he.Next
		if e == start {
			return
		}
		if !e.Valid() {
			panic(fmt.Sprintf("mesh %q: face %d edge cycle broken at half-edge %d", m.Name, f, e))
		}
	}
}

// FaceEdges returns the half-edges of the face in winding order.
func (m *Mesh) FaceEdges(f FaceID) []EdgeID {
	var out []EdgeID
	m.EachFaceEdge(f, func(id EdgeID, _ HalfEdge) bool {
		out = append(out, id)
		return true
	})
	return out
}

// FaceVertices returns the vertices of the face in winding order.
func (m *Mesh) FaceVertices(f FaceID) []VertexID {
	var out []VertexID
	m.EachFaceEdge(f, func(_ EdgeID, he HalfEdge) bool {
		out = append(out, he.Origin)
		return true
	})
	return out
}

// FaceSize returns the number of vertices bounding the face.
func (m *Mesh) FaceSize(f FaceID) int {
	n := 0
	m.EachFaceEdge(f, func(EdgeID, HalfEdge) bool {
		n++
		return true
	})
	return n
}

// Dest returns the vertex a half-edge points to.
func (m *Mesh) Dest(e EdgeID) VertexID {
	return m.edges[m.HalfEdge(e).Next].Origin
}
