package tessellate_test

import (
	"math"
	"slices"
	"testing"

	"github.com/chazu/facet/pkg/mesh"
	"github.com/chazu/facet/pkg/primitive"
	"github.com/chazu/facet/pkg/tessellate"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smoothCube() *mesh.Mesh {
	m := primitive.Cube("cube")
	m.SetShading(mesh.ShadingSmooth)
	return m
}

// corner reads buffer vertex i out of a flat float32 array.
func corner(data []float32, i uint32) v3.Vec {
	return v3.Vec{X: float64(data[3*i]), Y: float64(data[3*i+1]), Z: float64(data[3*i+2])}
}

func TestSmoothCube(t *testing.T) {
	m := smoothCube()
	m.ComputeNormals()

	var buf tessellate.RenderBuffer
	tessellate.MeshToTriangles(m, &buf)

	assert.Equal(t, 8, buf.VertexCount())
	assert.Len(t, buf.Indices, 36)
	assert.Equal(t, 12, buf.TriangleCount())
	assert.Equal(t, 12, buf.EdgeCount())
	require.Len(t, buf.Normals, len(buf.Positions))

	// Buffer vertex i is mesh vertex i.
	for i := 0; i < m.VertexCount(); i++ {
		p := m.Position(mesh.VertexID(i))
		got := corner(buf.Positions, uint32(i))
		assert.InDelta(t, p.X, got.X, 1e-6, "position %d", i)
		assert.InDelta(t, p.Y, got.Y, 1e-6, "position %d", i)
		assert.InDelta(t, p.Z, got.Z, 1e-6, "position %d", i)
	}

	seen := map[[2]uint32]bool{}
	for i := 0; i < len(buf.Edges); i += 2 {
		a, b := buf.Edges[i], buf.Edges[i+1]
		assert.Less(t, a, b, "edge %d: low index first", i/2)
		assert.False(t, seen[[2]uint32{a, b}], "edge (%d,%d) emitted twice", a, b)
		seen[[2]uint32{a, b}] = true
	}
}

func TestSmoothFanOrder(t *testing.T) {
	m := mesh.New("pent")
	m.SetShading(mesh.ShadingSmooth)
	var ids []mesh.VertexID
	for i := 0; i < 5; i++ {
		a := 2 * math.Pi * float64(i) / 5
		ids = append(ids, m.AddVertex(v3.Vec{X: math.Cos(a), Y: math.Sin(a)}))
	}
	_, err := m.AddFace(ids...)
	require.NoError(t, err)

	var buf tessellate.RenderBuffer
	tessellate.MeshToTriangles(m, &buf)

	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3, 0, 3, 4}, buf.Indices)
	assert.Equal(t, []uint32{0, 1, 1, 2, 2, 3, 3, 4, 0, 4}, buf.Edges)
}

func TestTriangleCountPerFace(t *testing.T) {
	for n := 3; n <= 9; n++ {
		m, err := primitive.Circle("disc", n, 1)
		require.NoError(t, err)
		for _, s := range []mesh.Shading{mesh.ShadingFlat, mesh.ShadingSmooth} {
			m.SetShading(s)
			var buf tessellate.RenderBuffer
			tessellate.MeshToTriangles(m, &buf)
			assert.Equal(t, n-2, buf.TriangleCount(), "%s %d-gon", s, n)
		}
	}
}

func TestFlatCube(t *testing.T) {
	m := primitive.Cube("cube")

	var buf tessellate.RenderBuffer
	tessellate.MeshToTriangles(m, &buf)

	assert.Equal(t, 36, buf.VertexCount())
	assert.Equal(t, 12, buf.TriangleCount())
	// Each quad is outlined on its own: 4 segments per face.
	assert.Equal(t, 24, buf.EdgeCount())

	// Every triangle carries its face's normal on all three corners, and
	// that normal agrees with the triangle's winding.
	for tri := 0; tri < buf.TriangleCount(); tri++ {
		var p, n [3]v3.Vec
		for j := 0; j < 3; j++ {
			i := buf.Indices[3*tri+j]
			p[j] = corner(buf.Positions, i)
			n[j] = corner(buf.Normals, i)
		}
		assert.Equal(t, n[0], n[1], "triangle %d", tri)
		assert.Equal(t, n[1], n[2], "triangle %d", tri)
		want := mesh.TriangleNormal(p[0], p[1], p[2])
		assert.InDelta(t, 0, want.Sub(n[0]).Length(), 1e-6, "triangle %d normal", tri)
	}
}

func TestRepeatedCallsAreIdempotent(t *testing.T) {
	for _, s := range []mesh.Shading{mesh.ShadingFlat, mesh.ShadingSmooth} {
		m := primitive.Cube("cube")
		m.SetShading(s)
		m.ComputeNormals()

		var buf tessellate.RenderBuffer
		tessellate.MeshToTriangles(m, &buf)
		positions := slices.Clone(buf.Positions)
		normals := slices.Clone(buf.Normals)
		indices := slices.Clone(buf.Indices)
		edges := slices.Clone(buf.Edges)

		tessellate.MeshToTriangles(m, &buf)
		assert.Equal(t, positions, buf.Positions, s.String())
		assert.Equal(t, normals, buf.Normals, s.String())
		assert.Equal(t, indices, buf.Indices, s.String())
		assert.Equal(t, edges, buf.Edges, s.String())
	}
}

func TestRenderStateMachine(t *testing.T) {
	m := smoothCube()
	var buf tessellate.RenderBuffer

	require.True(t, tessellate.Render(m, &buf), "first Render rebuilds")
	assert.Equal(t, mesh.Clean, m.State())
	// Render computed normals for smooth shading.
	assert.NotEqual(t, v3.Vec{}, corner(buf.Normals, 0))

	assert.False(t, tessellate.Render(m, &buf), "clean mesh does not rebuild")

	m.Translate(v3.Vec{X: 2})
	assert.False(t, tessellate.Render(m, &buf), "transform-only change does not rebuild")
	assert.Equal(t, mesh.Clean, m.State())

	m.SetShading(mesh.ShadingFlat)
	assert.True(t, tessellate.Render(m, &buf), "shading change rebuilds")
	assert.Equal(t, 36, buf.VertexCount())
}

func TestEmptyMesh(t *testing.T) {
	m := mesh.New("empty")
	buf := tessellate.RenderBuffer{Positions: []float32{1, 2, 3}, Indices: []uint32{0, 0, 0}}
	tessellate.MeshToTriangles(m, &buf)

	assert.True(t, buf.IsEmpty(), "stale data cleared")
	assert.Zero(t, buf.TriangleCount())
	assert.Zero(t, buf.EdgeCount())
}
