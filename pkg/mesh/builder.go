package mesh

import (
	"errors"
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

var (
	// ErrTooFewVertices is returned by AddFace for loops of fewer than 3 vertices.
	ErrTooFewVertices = errors.New("face needs at least 3 vertices")

	// ErrUnknownVertex is returned by AddFace when a vertex ID is not in the mesh.
	ErrUnknownVertex = errors.New("unknown vertex")
)

// edgeKey is a directed vertex pair (origin, destination).
type edgeKey struct {
	from, to VertexID
}

// twinIndex maps directed edges that have not yet met their opposite to
// the half-edge that owns them. It lives as long as the mesh so faces can
// be added in any order.
type twinIndex map[edgeKey]EdgeID

func newTwinIndex() twinIndex {
	return make(twinIndex)
}

// AddVertex appends a vertex at p and returns its ID.
func (m *Mesh) AddVertex(p v3.Vec) VertexID {
	id := VertexID(len(m.vertices))
	m.vertices = append(m.vertices, Vertex{Position: p, Outgoing: NoEdge})
	m.markTopology()
	return id
}

// AddFace appends a face bounded by verts, which should wind
// counter-clockwise seen from the outside. Winding is not checked; a
// clockwise loop produces an inward normal.
//
// On failure the mesh is left untouched and NoFace is returned.
func (m *Mesh) AddFace(verts ...VertexID) (FaceID, error) {
	if len(verts) < 3 {
		return NoFace, fmt.Errorf("add face with %d vertices: %w", len(verts), ErrTooFewVertices)
	}
	for _, v := range verts {
		if v < 0 || int(v) >= len(m.vertices) {
			return NoFace, fmt.Errorf("add face: vertex %d: %w", v, ErrUnknownVertex)
		}
	}

	fid := FaceID(len(m.faces))
	first := EdgeID(len(m.edges))
	n := EdgeID(len(verts))

	for i, v := range verts {
		eid := first + EdgeID(i)
		m.edges = append(m.edges, HalfEdge{
			Origin: v,
			Next:   first + (EdgeID(i)+1)%n,
			Twin:   NoEdge,
			Face:   fid,
		})
		if !m.vertices[v].Outgoing.Valid() {
			m.vertices[v].Outgoing = eid
		}
	}
	m.faces = append(m.faces, Face{Edge: first})

	for eid := first; eid < first+n; eid++ {
		m.resolveTwin(eid)
	}

	m.markTopology()
	return fid, nil
}

// resolveTwin pairs eid with a pending opposite edge, or registers eid as
// pending when none exists yet.
func (m *Mesh) resolveTwin(eid EdgeID) {
	e := m.edges[eid]
	to := m.edges[e.Next].Origin

	reverse := edgeKey{from: to, to: e.Origin}
	if other, ok := m.twins[reverse]; ok {
		m.edges[eid].Twin = other
		m.edges[other].Twin = eid
		delete(m.twins, reverse)
		return
	}
	m.twins[edgeKey{from: e.Origin, to: to}] = eid
}

// BoundaryEdgeCount returns the number of half-edges without a twin.
func (m *Mesh) BoundaryEdgeCount() int {
	n := 0
	for _, e := range m.edges {
		if !e.Twin.Valid() {
			n++
		}
	}
	return n
}

// IsClosed reports whether every half-edge has a twin.
func (m *Mesh) IsClosed() bool {
	return len(m.edges) > 0 && m.BoundaryEdgeCount() == 0
}
