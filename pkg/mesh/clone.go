package mesh

import (
	"github.com/deadsy/sdfx/sdf"
)

// Clone returns a deep copy of the mesh under a new name. Because all
// relations are arena indices, the copy shares nothing with m and the
// indices carry over unchanged.
func (m *Mesh) Clone(name string) *Mesh {
	c := &Mesh{
		Name:      name,
		vertices:  append([]Vertex(nil), m.vertices...),
		edges:     append([]HalfEdge(nil), m.edges...),
		faces:     append([]Face(nil), m.faces...),
		twins:     make(twinIndex, len(m.twins)),
		shading:   m.shading,
		state:     TopologyDirty,
		transform: m.transform,
	}
	for k, v := range m.twins {
		c.twins[k] = v
	}
	return c
}

// Triangles returns the fan triangulation of every face in local space.
func (m *Mesh) Triangles() []*sdf.Triangle3 {
	var out []*sdf.Triangle3
	for f := range m.faces {
		vs := m.FaceVertices(FaceID(f))
		for i := 1; i+1 < len(vs); i++ {
			out = append(out, &sdf.Triangle3{
				m.vertices[vs[0]].Position,
				m.vertices[vs[i]].Position,
				m.vertices[vs[i+1]].Position,
			})
		}
	}
	return out
}

// Area returns the total surface area of the mesh in local space.
func (m *Mesh) Area() float64 {
	var a float64
	for _, t := range m.Triangles() {
		a += t[1].Sub(t[0]).Cross(t[2].Sub(t[0])).Length() / 2
	}
	return a
}
