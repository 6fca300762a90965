// Package scene holds the meshes produced by one evaluation together with
// their display state: color, selection and the render buffer each mesh
// was last triangulated into.
//
// A Scene is not safe for concurrent use.
package scene

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/chazu/facet/pkg/mesh"
	"github.com/chazu/facet/pkg/pick"
	"github.com/chazu/facet/pkg/tessellate"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// DefaultPalette assigns distinct colors to objects in insertion order.
var DefaultPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// ErrDuplicateName is returned by Add when another object already uses
// the mesh's name.
var ErrDuplicateName = errors.New("duplicate object name")

// Object is one mesh placed in the scene.
type Object struct {
	ID       uuid.UUID
	Name     string
	Mesh     *mesh.Mesh
	Color    string
	Selected bool

	// Buffer is the render data from the last Refresh.
	Buffer tessellate.RenderBuffer
}

// Scene is an ordered collection of objects with at most one selected.
type Scene struct {
	objects   []*Object
	byID      map[uuid.UUID]*Object
	nameIndex map[string]uuid.UUID
	palette   []string
	selected  uuid.UUID
	log       *slog.Logger
}

// Option configures a Scene.
type Option func(*Scene)

// WithPalette sets the colors handed out by Add. An empty palette keeps
// DefaultPalette.
func WithPalette(colors []string) Option {
	return func(s *Scene) {
		if len(colors) > 0 {
			s.palette = colors
		}
	}
}

// WithLogger sets the logger used for selection changes.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scene) {
		if l != nil {
			s.log = l
		}
	}
}

// New returns an empty scene.
func New(opts ...Option) *Scene {
	s := &Scene{
		byID:      make(map[uuid.UUID]*Object),
		nameIndex: make(map[string]uuid.UUID),
		palette:   DefaultPalette,
		log:       slog.Default(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Add places m in the scene under m.Name and assigns it the next palette
// color. Unnamed meshes are added but cannot be looked up by name.
func (s *Scene) Add(m *mesh.Mesh) (*Object, error) {
	if m == nil {
		return nil, errors.New("scene: add nil mesh")
	}
	if m.Name != "" {
		if _, ok := s.nameIndex[m.Name]; ok {
			return nil, fmt.Errorf("scene: %q: %w", m.Name, ErrDuplicateName)
		}
	}
	obj := &Object{
		ID:    uuid.New(),
		Name:  m.Name,
		Mesh:  m,
		Color: s.palette[len(s.objects)%len(s.palette)],
	}
	s.objects = append(s.objects, obj)
	s.byID[obj.ID] = obj
	if obj.Name != "" {
		s.nameIndex[obj.Name] = obj.ID
	}
	return obj, nil
}

// Lookup returns the object with the given name, or nil.
func (s *Scene) Lookup(name string) *Object {
	id, ok := s.nameIndex[name]
	if !ok {
		return nil
	}
	return s.byID[id]
}

// Get returns the object with the given ID, or nil.
func (s *Scene) Get(id uuid.UUID) *Object {
	return s.byID[id]
}

// Len returns the number of objects.
func (s *Scene) Len() int {
	return len(s.objects)
}

// Objects returns the objects in insertion order.
func (s *Scene) Objects() []*Object {
	return append([]*Object(nil), s.objects...)
}

// Meshes returns every object's mesh in insertion order.
func (s *Scene) Meshes() []*mesh.Mesh {
	return lo.Map(s.objects, func(o *Object, _ int) *mesh.Mesh {
		return o.Mesh
	})
}

// Selected returns the selected object, or nil.
func (s *Scene) Selected() *Object {
	if s.selected == uuid.Nil {
		return nil
	}
	return s.byID[s.selected]
}

// Select marks the object with the given ID as the only selected object.
// It reports whether the ID names an object in the scene.
func (s *Scene) Select(id uuid.UUID) bool {
	obj := s.byID[id]
	if obj == nil {
		return false
	}
	s.ClearSelection()
	obj.Selected = true
	s.selected = id
	s.log.Debug("object selected", "name", obj.Name, "id", obj.ID)
	return true
}

// ClearSelection deselects the selected object, if any.
func (s *Scene) ClearSelection() {
	if obj := s.Selected(); obj != nil {
		obj.Selected = false
		s.log.Debug("selection cleared", "name", obj.Name, "id", obj.ID)
	}
	s.selected = uuid.Nil
}

// Pick casts ray into the scene and selects the closest object hit. A
// miss clears the selection.
func (s *Scene) Pick(ray pick.Ray) (*Object, pick.Hit, bool) {
	hit, ok := pick.Pick(s.Meshes(), ray)
	if !ok {
		s.ClearSelection()
		return nil, hit, false
	}
	obj, found := lo.Find(s.objects, func(o *Object) bool {
		return o.Mesh == hit.Mesh
	})
	if !found {
		s.ClearSelection()
		return nil, hit, false
	}
	s.Select(obj.ID)
	return obj, hit, true
}

// Refresh brings every object's render buffer up to date and returns how
// many buffers were rebuilt. Objects whose topology is unchanged since the
// last Refresh keep their buffers.
func (s *Scene) Refresh() int {
	return lo.CountBy(s.objects, func(o *Object) bool {
		return tessellate.Render(o.Mesh, &o.Buffer)
	})
}
