package mesh

import (
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Transform places a mesh in the world. Points are scaled, then rotated
// about X, Y and Z (radians, in that order), then translated.
type Transform struct {
	Scale       v3.Vec
	Rotation    v3.Vec
	Translation v3.Vec
}

func identityTransform() Transform {
	return Transform{Scale: v3.Vec{X: 1, Y: 1, Z: 1}}
}

// Matrix returns the model matrix T * Rz * Ry * Rx * S. Translation is
// applied last and is never scaled or rotated, unlike an S * R * T order.
func (t Transform) Matrix() sdf.M44 {
	return sdf.Translate3d(t.Translation).
		Mul(sdf.RotateZ(t.Rotation.Z)).
		Mul(sdf.RotateY(t.Rotation.Y)).
		Mul(sdf.RotateX(t.Rotation.X)).
		Mul(sdf.Scale3d(t.Scale))
}

// Transform returns the mesh's current placement.
func (m *Mesh) Transform() Transform { return m.transform }

// SetTransform replaces the placement.
func (m *Mesh) SetTransform(t Transform) {
	m.transform = t
	m.markTransform()
}

// ModelMatrix returns the local-to-world matrix.
func (m *Mesh) ModelMatrix() sdf.M44 { return m.transform.Matrix() }

// ScaleBy multiplies the current scale component-wise by factor.
func (m *Mesh) ScaleBy(factor v3.Vec) {
	s := m.transform.Scale
	m.transform.Scale = v3.Vec{X: s.X * factor.X, Y: s.Y * factor.Y, Z: s.Z * factor.Z}
	m.markTransform()
}

// Rotate adds delta (radians) to the current Euler rotation.
func (m *Mesh) Rotate(delta v3.Vec) {
	m.transform.Rotation = m.transform.Rotation.Add(delta)
	m.markTransform()
}

// Translate adds delta to the current translation.
func (m *Mesh) Translate(delta v3.Vec) {
	m.transform.Translation = m.transform.Translation.Add(delta)
	m.markTransform()
}

// Scale returns the current scale.
func (m *Mesh) Scale() v3.Vec { return m.transform.Scale }

// Rotation returns the current Euler rotation in radians.
func (m *Mesh) Rotation() v3.Vec { return m.transform.Rotation }

// Translation returns the current translation.
func (m *Mesh) Translation() v3.Vec { return m.transform.Translation }
