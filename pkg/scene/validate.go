package scene

import (
	"fmt"

	"github.com/chazu/facet/pkg/mesh"
)

// Severity indicates whether a finding makes an object unusable or is
// merely informational.
type Severity int

const (
	SeverityError   Severity = iota // broken topology
	SeverityWarning                 // advisory
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// Finding describes one validation result for an object.
type Finding struct {
	Object   string // object name, empty for unnamed meshes
	Message  string
	Severity Severity
}

func (f Finding) Error() string {
	if f.Object == "" {
		return fmt.Sprintf("[%s] %s", f.Severity, f.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", f.Severity, f.Object, f.Message)
}

// Report bundles errors and warnings from every check.
type Report struct {
	Errors   []Finding
	Warnings []Finding
}

// OK reports whether the scene has no errors. Warnings do not count.
func (r Report) OK() bool { return len(r.Errors) == 0 }

// Validate checks every object. Topology violations are errors; empty
// meshes, open surfaces, degenerate faces and collapsing scales are
// warnings. Validate never mutates the scene.
func (s *Scene) Validate() Report {
	var r Report
	for _, o := range s.objects {
		if errs := validateTopology(o); len(errs) > 0 {
			// The geometric checks walk face loops.
			r.Errors = append(r.Errors, errs...)
			continue
		}
		r.Warnings = append(r.Warnings, validateGeometry(o)...)
	}
	return r
}

func validateTopology(o *Object) []Finding {
	var out []Finding
	for _, e := range o.Mesh.Validate() {
		out = append(out, Finding{Object: o.Name, Message: e.Error(), Severity: SeverityError})
	}
	return out
}

func validateGeometry(o *Object) []Finding {
	m := o.Mesh
	warn := func(format string, args ...any) Finding {
		return Finding{Object: o.Name, Message: fmt.Sprintf(format, args...), Severity: SeverityWarning}
	}

	if m.IsEmpty() {
		return []Finding{warn("mesh has no faces")}
	}

	var out []Finding
	if n := m.BoundaryEdgeCount(); n > 0 {
		out = append(out, warn("open surface with %d boundary edges", n))
	}
	for f := 0; f < m.FaceCount(); f++ {
		if m.FaceNormal(mesh.FaceID(f)).Length() == 0 {
			out = append(out, warn("face %d is degenerate", f))
		}
	}
	sc := m.Scale()
	for _, axis := range []struct {
		name string
		v    float64
	}{{"x", sc.X}, {"y", sc.Y}, {"z", sc.Z}} {
		if axis.v == 0 {
			out = append(out, warn("scale collapses the %s axis", axis.name))
		}
	}
	return out
}
