package mesh

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// VertexID indexes a vertex in its owning mesh.
type VertexID int32

// EdgeID indexes a half-edge in its owning mesh.
type EdgeID int32

// FaceID indexes a face in its owning mesh.
type FaceID int32

// Sentinels for absent references.
const (
	NoVertex VertexID = -1
	NoEdge   EdgeID   = -1
	NoFace   FaceID   = -1
)

// Valid reports whether the ID refers to a vertex.
func (id VertexID) Valid() bool { return id >= 0 }

// Valid reports whether the ID refers to a half-edge.
func (id EdgeID) Valid() bool { return id >= 0 }

// Valid reports whether the ID refers to a face.
func (id FaceID) Valid() bool { return id >= 0 }

// Vertex is a point of the mesh.
type Vertex struct {
	Position v3.Vec
	Normal   v3.Vec // zero until ComputeNormals runs
	Outgoing EdgeID // any half-edge leaving this vertex, NoEdge if unused
}

// HalfEdge is a directed edge owned by exactly one face.
type HalfEdge struct {
	Origin VertexID
	Next   EdgeID // counter-clockwise successor around Face
	Twin   EdgeID // opposite half-edge on the neighbouring face, NoEdge on a boundary
	Face   FaceID
}

// Face is a polygon bounded by a cycle of half-edges.
type Face struct {
	Edge EdgeID // entry point into the boundary cycle
}

// Shading selects how the mesh is triangulated for rendering.
type Shading int

const (
	ShadingFlat   Shading = iota // one normal per face, corners duplicated
	ShadingSmooth                // shared vertices with averaged normals
)

func (s Shading) String() string {
	switch s {
	case ShadingFlat:
		return "flat"
	case ShadingSmooth:
		return "smooth"
	default:
		return fmt.Sprintf("Shading(%d)", int(s))
	}
}

// ParseShading converts "flat" or "smooth" to a Shading.
func ParseShading(s string) (Shading, error) {
	switch s {
	case "flat":
		return ShadingFlat, nil
	case "smooth":
		return ShadingSmooth, nil
	}
	return 0, fmt.Errorf("invalid shading %q, expected flat or smooth", s)
}

// Mesh is a half-edge polygon mesh. It is not safe for concurrent use.
type Mesh struct {
	Name string

	vertices []Vertex
	edges    []HalfEdge
	faces    []Face

	twins twinIndex

	shading   Shading
	state     State
	transform Transform
}

// New returns an empty mesh with flat shading and an identity transform.
func New(name string) *Mesh {
	return &Mesh{
		Name:      name,
		twins:     newTwinIndex(),
		shading:   ShadingFlat,
		state:     TopologyDirty,
		transform: identityTransform(),
	}
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.vertices) }

// EdgeCount returns the number of half-edges.
func (m *Mesh) EdgeCount() int { return len(m.edges) }

// FaceCount returns the number of faces.
func (m *Mesh) FaceCount() int { return len(m.faces) }

// IsEmpty returns true if the mesh has no faces.
func (m *Mesh) IsEmpty() bool { return len(m.faces) == 0 }

// Vertex returns a copy of the vertex with the given ID.
// It panics if the ID is out of range.
func (m *Mesh) Vertex(id VertexID) Vertex {
	return m.vertices[m.checkVertex(id)]
}

// HalfEdge returns a copy of the half-edge with the given ID.
// It panics if the ID is out of range.
func (m *Mesh) HalfEdge(id EdgeID) HalfEdge {
	if id < 0 || int(id) >= len(m.edges) {
		panic(fmt.Sprintf("mesh %q: half-edge %d out of range [0,%d)", m.Name, id, len(m.edges)))
	}
	return m.edges[id]
}

// Face returns a copy of the face with the given ID.
// It panics if the ID is out of range.
func (m *Mesh) Face(id FaceID) Face {
	if id < 0 || int(id) >= len(m.faces) {
		panic(fmt.Sprintf("mesh %q: face %d out of range [0,%d)", m.Name, id, len(m.faces)))
	}
	return m.faces[id]
}

// Position is shorthand for Vertex(id).Position.
func (m *Mesh) Position(id VertexID) v3.Vec {
	return m.vertices[m.checkVertex(id)].Position
}

// Shading returns the triangulation mode.
func (m *Mesh) Shading() Shading { return m.shading }

// SetShading changes the triangulation mode. The render data must be
// rebuilt afterwards, so the mesh becomes topology-dirty.
func (m *Mesh) SetShading(s Shading) {
	if s == m.shading {
		return
	}
	m.shading = s
	m.markTopology()
}

// Bounds returns the local-space axis-aligned bounding box of all vertices.
// Both corners are zero for a mesh without vertices.
func (m *Mesh) Bounds() (min, max v3.Vec) {
	if len(m.vertices) == 0 {
		return v3.Vec{}, v3.Vec{}
	}
	min = m.vertices[0].Position
	max = min
	for _, v := range m.vertices[1:] {
		p := v.Position
		min = v3.Vec{X: minf(min.X, p.X), Y: minf(min.Y, p.Y), Z: minf(min.Z, p.Z)}
		max = v3.Vec{X: maxf(max.X, p.X), Y: maxf(max.Y, p.Y), Z: maxf(max.Z, p.Z)}
	}
	return min, max
}

func (m *Mesh) checkVertex(id VertexID) VertexID {
	if id < 0 || int(id) >= len(m.vertices) {
		panic(fmt.Sprintf("mesh %q: vertex %d out of range [0,%d)", m.Name, id, len(m.vertices)))
	}
	return id
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
