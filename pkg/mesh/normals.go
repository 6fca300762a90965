package mesh

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// zeroLength is the length below which a vector has no direction.
const zeroLength = 1e-12

// ComputeNormals recomputes every vertex normal as the normalized sum of
// the normals of its incident faces. Faces are not weighted by area or
// angle. A vertex with no incident face, or whose contributions cancel,
// keeps a zero normal.
func (m *Mesh) ComputeNormals() {
	for i := range m.vertices {
		m.vertices[i].Normal = v3.Vec{}
	}

	for f := range m.faces {
		n, ok := m.faceNormal(FaceID(f))
		if !ok {
			continue
		}
		m.EachFaceEdge(FaceID(f), func(_ EdgeID, he HalfEdge) bool {
			v := &m.vertices[he.Origin]
			v.Normal = v.Normal.Add(n)
			return true
		})
	}

	for i := range m.vertices {
		m.vertices[i].Normal = Normalize(m.vertices[i].Normal)
	}
	m.markTopology()
}

// FaceNormal returns the unit normal of the plane through the face's first
// three vertices. Degenerate faces yield the zero vector.
func (m *Mesh) FaceNormal(f FaceID) v3.Vec {
	n, _ := m.faceNormal(f)
	return n
}

// faceNormal reports false when the face has fewer than three reachable
// edges.
func (m *Mesh) faceNormal(f FaceID) (v3.Vec, bool) {
	e0 := m.Face(f).Edge
	if !e0.Valid() {
		return v3.Vec{}, false
	}
	e1 := m.edges[e0].Next
	if !e1.Valid() {
		return v3.Vec{}, false
	}
	e2 := m.edges[e1].Next
	if !e2.Valid() {
		return v3.Vec{}, false
	}
	p0 := m.vertices[m.edges[e0].Origin].Position
	p1 := m.vertices[m.edges[e1].Origin].Position
	p2 := m.vertices[m.edges[e2].Origin].Position
	return TriangleNormal(p0, p1, p2), true
}

// TriangleNormal returns the unit normal of the counter-clockwise triangle
// (p0, p1, p2), or zero if the triangle is degenerate.
func TriangleNormal(p0, p1, p2 v3.Vec) v3.Vec {
	return Normalize(p1.Sub(p0).Cross(p2.Sub(p0)))
}

// Normalize returns v scaled to unit length. Vectors with no usable
// direction map to zero.
func Normalize(v v3.Vec) v3.Vec {
	l := v.Length()
	if l < zeroLength {
		return v3.Vec{}
	}
	return v.MulScalar(1 / l)
}
