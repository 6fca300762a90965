// Package primitive builds simple half-edge meshes: cube, cylinder, cone,
// circle and plane. Every closed primitive is a manifold with all faces
// wound counter-clockwise seen from outside. Round shapes are centered on
// the Y axis.
package primitive

import (
	"fmt"
	"math"

	"github.com/chazu/facet/pkg/mesh"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// MinSegments is the smallest ring resolution accepted for round shapes.
const MinSegments = 3

// Cube returns the unit cube centered at the origin: 8 vertices and 6
// quads.
func Cube(name string) *mesh.Mesh {
	m := mesh.New(name)

	bbl := m.AddVertex(v3.Vec{X: -0.5, Y: -0.5, Z: -0.5})
	bbr := m.AddVertex(v3.Vec{X: 0.5, Y: -0.5, Z: -0.5})
	btr := m.AddVertex(v3.Vec{X: 0.5, Y: 0.5, Z: -0.5})
	btl := m.AddVertex(v3.Vec{X: -0.5, Y: 0.5, Z: -0.5})
	fbl := m.AddVertex(v3.Vec{X: -0.5, Y: -0.5, Z: 0.5})
	fbr := m.AddVertex(v3.Vec{X: 0.5, Y: -0.5, Z: 0.5})
	ftr := m.AddVertex(v3.Vec{X: 0.5, Y: 0.5, Z: 0.5})
	ftl := m.AddVertex(v3.Vec{X: -0.5, Y: 0.5, Z: 0.5})

	mustFace(m, fbl, fbr, ftr, ftl) // front (+Z)
	mustFace(m, bbr, bbl, btl, btr) // back (-Z)
	mustFace(m, bbl, fbl, ftl, btl) // left (-X)
	mustFace(m, fbr, bbr, btr, ftr) // right (+X)
	mustFace(m, btl, ftl, ftr, btr) // top (+Y)
	mustFace(m, bbl, bbr, fbr, fbl) // bottom (-Y)

	return m
}

// Cylinder returns a closed cylinder of the given radius and height with
// segments side quads and two n-gon caps.
func Cylinder(name string, segments int, radius, height float64) (*mesh.Mesh, error) {
	if err := checkRound("cylinder", segments, radius, height); err != nil {
		return nil, err
	}
	m := mesh.New(name)
	bottom := ring(m, segments, radius, -height/2)
	top := ring(m, segments, radius, height/2)

	for i := 0; i < segments; i++ {
		j := (i + 1) % segments
		mustFace(m, bottom[i], top[i], top[j], bottom[j])
	}
	mustFace(m, bottom...)
	mustFace(m, reversed(top)...)
	return m, nil
}

// Cone returns a closed cone with its apex on +Y and a base n-gon.
func Cone(name string, segments int, radius, height float64) (*mesh.Mesh, error) {
	if err := checkRound("cone", segments, radius, height); err != nil {
		return nil, err
	}
	m := mesh.New(name)
	base := ring(m, segments, radius, -height/2)
	apex := m.AddVertex(v3.Vec{Y: height / 2})

	for i := 0; i < segments; i++ {
		mustFace(m, base[i], apex, base[(i+1)%segments])
	}
	mustFace(m, base...)
	return m, nil
}

// Circle returns a single n-gon in the XZ plane facing +Y. All of its
// edges are boundary edges.
func Circle(name string, segments int, radius float64) (*mesh.Mesh, error) {
	if err := checkRound("circle", segments, radius, 1); err != nil {
		return nil, err
	}
	m := mesh.New(name)
	mustFace(m, reversed(ring(m, segments, radius, 0))...)
	return m, nil
}

// Plane returns a size x size quad in the XZ plane facing +Y.
func Plane(name string, size float64) *mesh.Mesh {
	m := mesh.New(name)
	h := size / 2
	a := m.AddVertex(v3.Vec{X: -h, Z: -h})
	b := m.AddVertex(v3.Vec{X: -h, Z: h})
	c := m.AddVertex(v3.Vec{X: h, Z: h})
	d := m.AddVertex(v3.Vec{X: h, Z: -h})
	mustFace(m, a, b, c, d)
	return m
}

// ring adds segments vertices on a circle at height y. Increasing index
// runs counter-clockwise seen from -Y.
func ring(m *mesh.Mesh, segments int, radius, y float64) []mesh.VertexID {
	ids := make([]mesh.VertexID, segments)
	for i := range ids {
		a := 2 * math.Pi * float64(i) / float64(segments)
		ids[i] = m.AddVertex(v3.Vec{X: radius * math.Cos(a), Y: y, Z: radius * math.Sin(a)})
	}
	return ids
}

func reversed(ids []mesh.VertexID) []mesh.VertexID {
	out := make([]mesh.VertexID, len(ids))
	for i, id := range ids {
		out[len(ids)-1-i] = id
	}
	return out
}

func checkRound(kind string, segments int, radius, height float64) error {
	if segments < MinSegments {
		return fmt.Errorf("%s: %d segments, need at least %d", kind, segments, MinSegments)
	}
	if radius <= 0 {
		return fmt.Errorf("%s: radius %.4f must be positive", kind, radius)
	}
	if height <= 0 {
		return fmt.Errorf("%s: height %.4f must be positive", kind, height)
	}
	return nil
}

// mustFace adds a face whose vertices were just created by the caller.
func mustFace(m *mesh.Mesh, verts ...mesh.VertexID) {
	if _, err := m.AddFace(verts...); err != nil {
		panic(fmt.Sprintf("primitive %q: %v", m.Name, err))
	}
}
