// Package tessellate turns half-edge meshes into flat triangle and line
// buffers for rendering. Polygons are fan-triangulated from their first
// vertex.
package tessellate

import (
	"github.com/chazu/facet/pkg/mesh"
)

// MeshToTriangles clears buf and fills it with the triangulation of m,
// sharing vertices in smooth mode and duplicating them per triangle in
// flat mode. Smooth mode reads the vertex normals as they are; call
// m.ComputeNormals first (Render does).
func MeshToTriangles(m *mesh.Mesh, buf *RenderBuffer) {
	buf.Reset()
	if m.Shading() == mesh.ShadingSmooth {
		smooth(m, buf)
		return
	}
	flat(m, buf)
}

// Render is the per-frame render-data request. When the mesh geometry is
// dirty it recomputes normals and the buffer, and reports true. In every
// case the mesh is marked clean afterwards.
func Render(m *mesh.Mesh, buf *RenderBuffer) bool {
	rebuilt := false
	if m.GeometryDirty() {
		m.ComputeNormals()
		MeshToTriangles(m, buf)
		rebuilt = true
	}
	m.MarkClean()
	return rebuilt
}

// undirected is a mesh edge with its endpoints ordered low to high.
type undirected struct {
	lo, hi uint32
}

func makeUndirected(a, b uint32) undirected {
	if a > b {
		a, b = b, a
	}
	return undirected{lo: a, hi: b}
}

// smooth emits one vertex per mesh vertex, so buffer index == VertexID.
func smooth(m *mesh.Mesh, buf *RenderBuffer) {
	for i := 0; i < m.VertexCount(); i++ {
		v := m.Vertex(mesh.VertexID(i))
		buf.addVertex(v.Position.X, v.Position.Y, v.Position.Z, v.Normal.X, v.Normal.Y, v.Normal.Z)
	}

	seen := make(map[undirected]struct{})
	for f := 0; f < m.FaceCount(); f++ {
		loop := m.FaceVertices(mesh.FaceID(f))
		for i := 1; i+1 < len(loop); i++ {
			buf.Indices = append(buf.Indices, uint32(loop[0]), uint32(loop[i]), uint32(loop[i+1]))
		}
		for i := range loop {
			e := makeUndirected(uint32(loop[i]), uint32(loop[(i+1)%len(loop)]))
			if _, ok := seen[e]; ok {
				continue
			}
			seen[e] = struct{}{}
			buf.Edges = append(buf.Edges, e.lo, e.hi)
		}
	}
}

// flat emits three fresh vertices per fan triangle, all carrying the face
// normal. Edges outline each face separately; segments shared by two
// faces are emitted once per face.
func flat(m *mesh.Mesh, buf *RenderBuffer) {
	for f := 0; f < m.FaceCount(); f++ {
		fid := mesh.FaceID(f)
		loop := m.FaceVertices(fid)
		if len(loop) < 3 {
			continue
		}
		n := m.FaceNormal(fid)
		p0 := m.Position(loop[0])
		last := len(loop) - 2
		for i := 1; i <= last; i++ {
			p1 := m.Position(loop[i])
			p2 := m.Position(loop[i+1])
			a := buf.addVertex(p0.X, p0.Y, p0.Z, n.X, n.Y, n.Z)
			b := buf.addVertex(p1.X, p1.Y, p1.Z, n.X, n.Y, n.Z)
			c := buf.addVertex(p2.X, p2.Y, p2.Z, n.X, n.Y, n.Z)
			buf.Indices = append(buf.Indices, a, b, c)

			if i == 1 {
				buf.Edges = append(buf.Edges, a, b)
			}
			buf.Edges = append(buf.Edges, b, c)
			if i == last {
				buf.Edges = append(buf.Edges, c, a)
			}
		}
	}
}
