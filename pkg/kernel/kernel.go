// Package kernel defines the solid-modeling kernel interface. A kernel
// builds implicit solids, combines them with boolean operations and
// converts the result into a half-edge mesh that the rest of the system
// edits, renders and picks like any hand-built mesh.
package kernel

import (
	"errors"

	"github.com/chazu/facet/pkg/mesh"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ErrEmptySolid is returned by ToMesh when a solid has no surface to mesh,
// for example the intersection of two disjoint solids.
var ErrEmptySolid = errors.New("solid produced no surface")

// Solid is an opaque handle to a kernel solid.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max v3.Vec)
}

// Kernel is implemented by solid-modeling backends.
type Kernel interface {
	// Primitives, centered on the origin.
	Box(x, y, z float64) Solid
	Sphere(radius float64) Solid
	Cylinder(height, radius float64) Solid // axis along Z

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees

	// ToMesh tessellates s into a new mesh called name.
	ToMesh(s Solid, name string) (*mesh.Mesh, error)
}
