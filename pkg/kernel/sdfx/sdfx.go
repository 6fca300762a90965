// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"fmt"
	"math"

	"github.com/chazu/facet/pkg/kernel"
	"github.com/chazu/facet/pkg/mesh"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// DefaultCells is the marching cubes resolution along the longest axis.
const DefaultCells = 64

// weldFraction sets the weld grid as a fraction of one marching cubes cell.
const weldFraction = 1e-4

// sdfxSolid wraps an sdf.SDF3 to implement kernel.Solid.
type sdfxSolid struct {
	s sdf.SDF3
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() (min, max v3.Vec) {
	bb := s.s.BoundingBox()
	return bb.Min, bb.Max
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct {
	// Cells is the marching cubes resolution used by ToMesh.
	Cells int
}

// New returns a new SdfxKernel with DefaultCells resolution.
func New() *SdfxKernel {
	return &SdfxKernel{Cells: DefaultCells}
}

// unwrap extracts the underlying sdf.SDF3 from a kernel.Solid.
func unwrap(s kernel.Solid) sdf.SDF3 {
	return s.(*sdfxSolid).s
}

// wrap creates a kernel.Solid from an sdf.SDF3.
func wrap(s sdf.SDF3) kernel.Solid {
	return &sdfxSolid{s: s}
}

// Box creates a box with the given dimensions centered on the origin.
func (k *SdfxKernel) Box(x, y, z float64) kernel.Solid {
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Box3D: %v", err))
	}
	return wrap(s)
}

// Sphere creates a sphere centered on the origin.
func (k *SdfxKernel) Sphere(radius float64) kernel.Solid {
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Sphere3D: %v", err))
	}
	return wrap(s)
}

// Cylinder creates a cylinder along Z with the given height and radius.
func (k *SdfxKernel) Cylinder(height, radius float64) kernel.Solid {
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Cylinder3D: %v", err))
	}
	return wrap(s)
}

// Union returns the union of two solids.
func (k *SdfxKernel) Union(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Union3D(unwrap(a), unwrap(b)))
}

// Difference returns the difference a - b.
func (k *SdfxKernel) Difference(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Difference3D(unwrap(a), unwrap(b)))
}

// Intersection returns the intersection of two solids.
func (k *SdfxKernel) Intersection(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Intersect3D(unwrap(a), unwrap(b)))
}

// Translate moves a solid by (x, y, z).
func (k *SdfxKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	m := sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z})
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// Rotate rotates a solid by Euler angles (degrees) around X, Y, Z axes.
func (k *SdfxKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	xRad := x * math.Pi / 180.0
	yRad := y * math.Pi / 180.0
	zRad := z * math.Pi / 180.0

	m := sdf.RotateZ(zRad).Mul(sdf.RotateY(yRad)).Mul(sdf.RotateX(xRad))
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// ToMesh converts a solid to a half-edge mesh using marching cubes.
// Marching cubes emits a triangle soup; corners that land on the same
// point are welded into one vertex so neighbouring triangles become
// twins, and triangles that collapse under welding are dropped.
func (k *SdfxKernel) ToMesh(s kernel.Solid, name string) (*mesh.Mesh, error) {
	cells := k.Cells
	if cells <= 0 {
		cells = DefaultCells
	}
	sdf3 := unwrap(s)

	// Disjoint intersections can report an empty or inverted box.
	bb := sdf3.BoundingBox()
	size := bb.Max.Sub(bb.Min)
	if size.X <= 0 || size.Y <= 0 || size.Z <= 0 {
		return nil, fmt.Errorf("mesh %q: %w", name, kernel.ErrEmptySolid)
	}
	longest := math.Max(size.X, math.Max(size.Y, size.Z))

	renderer := render.NewMarchingCubesUniform(cells)
	triangles := render.ToTriangles(sdf3, renderer)
	if len(triangles) == 0 {
		return nil, fmt.Errorf("mesh %q: %w", name, kernel.ErrEmptySolid)
	}

	w := newWelder(name, longest/float64(cells)*weldFraction)

	for _, tri := range triangles {
		if err := w.add(tri[0], tri[1], tri[2]); err != nil {
			return nil, fmt.Errorf("mesh %q: %w", name, err)
		}
	}
	if w.m.FaceCount() == 0 {
		return nil, fmt.Errorf("mesh %q: %w", name, kernel.ErrEmptySolid)
	}
	return w.m, nil
}

// gridKey is a position snapped to the weld grid.
type gridKey [3]int64

// welder merges coincident triangle corners into shared mesh vertices.
type welder struct {
	m       *mesh.Mesh
	quantum float64
	ids     map[gridKey]mesh.VertexID
}

func newWelder(name string, quantum float64) *welder {
	if quantum <= 0 {
		quantum = 1e-9
	}
	return &welder{
		m:       mesh.New(name),
		quantum: quantum,
		ids:     make(map[gridKey]mesh.VertexID),
	}
}

func (w *welder) vertex(p v3.Vec) mesh.VertexID {
	key := gridKey{
		int64(math.Round(p.X / w.quantum)),
		int64(math.Round(p.Y / w.quantum)),
		int64(math.Round(p.Z / w.quantum)),
	}
	if id, ok := w.ids[key]; ok {
		return id
	}
	id := w.m.AddVertex(p)
	w.ids[key] = id
	return id
}

// add appends triangle (a, b, c) unless two of its corners weld together.
func (w *welder) add(a, b, c v3.Vec) error {
	va, vb, vc := w.vertex(a), w.vertex(b), w.vertex(c)
	if va == vb || vb == vc || va == vc {
		return nil
	}
	_, err := w.m.AddFace(va, vb, vc)
	return err
}
