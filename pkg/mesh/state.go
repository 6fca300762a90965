package mesh

import "fmt"

// State tracks what a host must redo before the next draw.
//
// Transitions:
//
//	AddVertex, AddFace, SetShading, ComputeNormals -> TopologyDirty
//	transform setters -> TransformDirty, unless already TopologyDirty
//	MarkClean (after render data is rebuilt)       -> Clean
type State int

const (
	Clean          State = iota // render data is current
	TopologyDirty               // vertex/index buffers must be rebuilt
	TransformDirty              // only the model matrix changed
)

func (s State) String() string {
	switch s {
	case Clean:
		return "clean"
	case TopologyDirty:
		return "topology-dirty"
	case TransformDirty:
		return "transform-dirty"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// State returns the current render state.
func (m *Mesh) State() State { return m.state }

// GeometryDirty reports whether render buffers must be rebuilt.
func (m *Mesh) GeometryDirty() bool { return m.state == TopologyDirty }

// TransformChanged reports whether the model matrix changed since the
// last MarkClean. It is also true when the geometry is dirty.
func (m *Mesh) TransformChanged() bool { return m.state != Clean }

// MarkClean records that the host has consumed the current geometry and
// transform.
func (m *Mesh) MarkClean() { m.state = Clean }

func (m *Mesh) markTopology() { m.state = TopologyDirty }

func (m *Mesh) markTransform() {
	if m.state != TopologyDirty {
		m.state = TransformDirty
	}
}
