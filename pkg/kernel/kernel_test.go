package kernel

import (
	"testing"

	"github.com/chazu/facet/pkg/mesh"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSolid is a minimal Solid implementation for testing.
type stubSolid struct {
	minBB, maxBB v3.Vec
}

func (s *stubSolid) BoundingBox() (min, max v3.Vec) {
	return s.minBB, s.maxBB
}

// stubKernel proves the interface is satisfiable. Booleans and transforms
// pass their first operand through; ToMesh emits one triangle spanning
// the bounding box, or ErrEmptySolid for a flat box.
type stubKernel struct{}

func (k *stubKernel) Box(x, y, z float64) Solid {
	h := v3.Vec{X: x / 2, Y: y / 2, Z: z / 2}
	return &stubSolid{minBB: h.MulScalar(-1), maxBB: h}
}

func (k *stubKernel) Sphere(r float64) Solid { return k.Box(2*r, 2*r, 2*r) }

func (k *stubKernel) Cylinder(height, radius float64) Solid {
	return k.Box(2*radius, 2*radius, height)
}

func (k *stubKernel) Union(a, _ Solid) Solid        { return a }
func (k *stubKernel) Difference(a, _ Solid) Solid   { return a }
func (k *stubKernel) Intersection(a, _ Solid) Solid { return a }

func (k *stubKernel) Translate(s Solid, _, _, _ float64) Solid { return s }
func (k *stubKernel) Rotate(s Solid, _, _, _ float64) Solid    { return s }

func (k *stubKernel) ToMesh(s Solid, name string) (*mesh.Mesh, error) {
	lo, hi := s.BoundingBox()
	if lo.X == hi.X || lo.Y == hi.Y || lo.Z == hi.Z {
		return nil, ErrEmptySolid
	}
	m := mesh.New(name)
	a := m.AddVertex(lo)
	b := m.AddVertex(v3.Vec{X: hi.X, Y: lo.Y, Z: lo.Z})
	c := m.AddVertex(hi)
	if _, err := m.AddFace(a, b, c); err != nil {
		return nil, err
	}
	return m, nil
}

// Compile-time checks that the stubs implement the interfaces.
var _ Solid = (*stubSolid)(nil)
var _ Kernel = (*stubKernel)(nil)

func TestStubKernelBoxBoundingBox(t *testing.T) {
	var k Kernel = &stubKernel{}
	min, max := k.Box(10, 20, 30).BoundingBox()
	assert.Equal(t, v3.Vec{X: -5, Y: -10, Z: -15}, min)
	assert.Equal(t, v3.Vec{X: 5, Y: 10, Z: 15}, max)
}

func TestStubKernelToMesh(t *testing.T) {
	tests := []struct {
		name      string
		solid     Solid
		wantErr   error
		wantFaces int
	}{
		{"box", (&stubKernel{}).Box(1, 1, 1), nil, 1},
		{"flat box", (&stubKernel{}).Box(1, 0, 1), ErrEmptySolid, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var k Kernel = &stubKernel{}
			m, err := k.ToMesh(tt.solid, tt.name)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, m)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.name, m.Name)
			assert.Equal(t, tt.wantFaces, m.FaceCount())
		})
	}
}
