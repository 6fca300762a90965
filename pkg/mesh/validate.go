package mesh

import "fmt"

// ValidationError describes a broken topology invariant.
type ValidationError struct {
	Face    FaceID // NoFace if not face-specific
	Edge    EdgeID // NoEdge if not edge-specific
	Vertex  VertexID
	Message string
}

func (e ValidationError) Error() string {
	switch {
	case e.Edge.Valid():
		return fmt.Sprintf("half-edge %d: %s", e.Edge, e.Message)
	case e.Face.Valid():
		return fmt.Sprintf("face %d: %s", e.Face, e.Message)
	case e.Vertex.Valid():
		return fmt.Sprintf("vertex %d: %s", e.Vertex, e.Message)
	default:
		return e.Message
	}
}

func faceErr(f FaceID, format string, args ...any) ValidationError {
	return ValidationError{Face: f, Edge: NoEdge, Vertex: NoVertex, Message: fmt.Sprintf(format, args...)}
}

func edgeErr(e EdgeID, format string, args ...any) ValidationError {
	return ValidationError{Face: NoFace, Edge: e, Vertex: NoVertex, Message: fmt.Sprintf(format, args...)}
}

func vertexErr(v VertexID, format string, args ...any) ValidationError {
	return ValidationError{Face: NoFace, Edge: NoEdge, Vertex: v, Message: fmt.Sprintf(format, args...)}
}

// Validate checks the half-edge invariants and returns every violation.
// An empty slice means the mesh is consistent. Validate never mutates
// the mesh and never panics, even on corrupt topology.
func (m *Mesh) Validate() []ValidationError {
	var errs []ValidationError
	errs = append(errs, m.validateReferences()...)
	if len(errs) > 0 {
		// Loop walks below would index out of range.
		return errs
	}
	errs = append(errs, m.validateLoops()...)
	errs = append(errs, m.validateTwins()...)
	errs = append(errs, m.validateOutgoing()...)
	return errs
}

// validateReferences checks that every stored index is in range.
func (m *Mesh) validateReferences() []ValidationError {
	var errs []ValidationError
	nv, ne, nf := len(m.vertices), len(m.edges), len(m.faces)

	for i, e := range m.edges {
		id := EdgeID(i)
		if e.Origin < 0 || int(e.Origin) >= nv {
			errs = append(errs, edgeErr(id, "origin %d out of range", e.Origin))
		}
		if e.Next < 0 || int(e.Next) >= ne {
			errs = append(errs, edgeErr(id, "next %d out of range", e.Next))
		}
		if e.Twin != NoEdge && (e.Twin < 0 || int(e.Twin) >= ne) {
			errs = append(errs, edgeErr(id, "twin %d out of range", e.Twin))
		}
		if e.Face < 0 || int(e.Face) >= nf {
			errs = append(errs, edgeErr(id, "face %d out of range", e.Face))
		}
	}
	for i, f := range m.faces {
		if f.Edge < 0 || int(f.Edge) >= ne {
			errs = append(errs, faceErr(FaceID(i), "edge %d out of range", f.Edge))
		}
	}
	for i, v := range m.vertices {
		if v.Outgoing != NoEdge && (v.Outgoing < 0 || int(v.Outgoing) >= ne) {
			errs = append(errs, vertexErr(VertexID(i), "outgoing %d out of range", v.Outgoing))
		}
	}
	return errs
}

// validateLoops checks that each face's next-cycle closes, stays on the
// face and has at least 3 edges.
func (m *Mesh) validateLoops() []ValidationError {
	var errs []ValidationError
	for i, f := range m.faces {
		id := FaceID(i)
		e := f.Edge
		n := 0
		closed := false
		for n <= len(m.edges) {
			if m.edges[e].Face != id {
				errs = append(errs, faceErr(id, "half-edge %d in cycle belongs to face %d", e, m.edges[e].Face))
				break
			}
			n++
			e = m.edges[e].Next
			if e == f.Edge {
				closed = true
				break
			}
		}
		if !closed {
			errs = append(errs, faceErr(id, "edge cycle does not return to its start"))
			continue
		}
		if n < 3 {
			errs = append(errs, faceErr(id, "has %d vertices, need at least 3", n))
		}
	}
	return errs
}

// validateTwins checks twin symmetry and that twins run between the same
// vertices in reverse.
func (m *Mesh) validateTwins() []ValidationError {
	var errs []ValidationError
	for i, e := range m.edges {
		id := EdgeID(i)
		if !e.Twin.Valid() {
			continue
		}
		t := m.edges[e.Twin]
		if t.Twin != id {
			errs = append(errs, edgeErr(id, "twin %d points back to %d", e.Twin, t.Twin))
			continue
		}
		if t.Origin != m.edges[e.Next].Origin {
			errs = append(errs, edgeErr(id, "twin origin %d, want %d", t.Origin, m.edges[e.Next].Origin))
		}
		if m.edges[t.Next].Origin != e.Origin {
			errs = append(errs, edgeErr(id, "twin destination %d, want %d", m.edges[t.Next].Origin, e.Origin))
		}
	}
	return errs
}

// validateOutgoing checks that each vertex's outgoing edge starts at it.
func (m *Mesh) validateOutgoing() []ValidationError {
	var errs []ValidationError
	for i, v := range m.vertices {
		if !v.Outgoing.Valid() {
			continue
		}
		if o := m.edges[v.Outgoing].Origin; o != VertexID(i) {
			errs = append(errs, vertexErr(VertexID(i), "outgoing half-edge %d starts at vertex %d", v.Outgoing, o))
		}
	}
	return errs
}
