// Package pick finds the mesh face struck by a world-space ray.
package pick

import (
	"math"

	"github.com/chazu/facet/pkg/mesh"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Epsilon bounds the ray/plane determinant and the hit distance.
const Epsilon = 1e-6

// Ray is a half-line in world space. Direction need not be normalized.
type Ray struct {
	Origin    v3.Vec
	Direction v3.Vec
}

// Hit describes the closest intersection found by a pick.
type Hit struct {
	Mesh     *mesh.Mesh
	Face     mesh.FaceID
	Distance float64 // world-space distance from the ray origin
	Point    v3.Vec  // world-space hit point
}

// RayTriangle intersects a ray with the triangle (v0, v1, v2) using the
// Möller–Trumbore algorithm. It returns the parametric distance t along
// dir. Rays parallel to the triangle plane, and hits at or behind the
// origin, are rejected.
func RayTriangle(orig, dir, v0, v1, v2 v3.Vec) (float64, bool) {
	e1 := v1.Sub(v0)
	e2 := v2.Sub(v0)
	h := dir.Cross(e2)
	det := e1.Dot(h)
	if math.Abs(det) < Epsilon {
		return 0, false
	}
	inv := 1 / det
	s := orig.Sub(v0)
	u := inv * s.Dot(h)
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(e1)
	v := inv * dir.Dot(q)
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t := inv * e2.Dot(q)
	if t <= Epsilon {
		return 0, false
	}
	return t, true
}

// PickMesh tests ray against every face of m, placed by its model matrix,
// and returns the closest hit.
func PickMesh(m *mesh.Mesh, ray Ray) (Hit, bool) {
	best := Hit{Face: mesh.NoFace, Distance: math.Inf(1)}
	if m.IsEmpty() {
		return best, false
	}

	model := m.ModelMatrix()
	inv := model.Inverse()
	origin := inv.MulPosition(ray.Origin)
	dir := mesh.Normalize(inv.MulPosition(ray.Direction).Sub(inv.MulPosition(v3.Vec{})))
	if dir == (v3.Vec{}) {
		return best, false
	}

	found := false
	for f := 0; f < m.FaceCount(); f++ {
		fid := mesh.FaceID(f)
		edges := m.FaceEdges(fid)
		p0 := m.Position(m.HalfEdge(edges[0]).Origin)
		for i := 1; i+1 < len(edges); i++ {
			p1 := m.Position(m.HalfEdge(edges[i]).Origin)
			p2 := m.Position(m.HalfEdge(edges[i+1]).Origin)
			t, ok := RayTriangle(origin, dir, p0, p1, p2)
			if !ok {
				continue
			}
			world := model.MulPosition(origin.Add(dir.MulScalar(t)))
			d := world.Sub(ray.Origin).Length()
			if d < best.Distance {
				best = Hit{Mesh: m, Face: fid, Distance: d, Point: world}
				found = true
			}
		}
	}
	return best, found
}

// Pick returns the closest hit across all meshes.
func Pick(meshes []*mesh.Mesh, ray Ray) (Hit, bool) {
	best := Hit{Face: mesh.NoFace, Distance: math.Inf(1)}
	found := false
	for _, m := range meshes {
		h, ok := PickMesh(m, ray)
		if ok && h.Distance < best.Distance {
			best = h
			found = true
		}
	}
	return best, found
}
