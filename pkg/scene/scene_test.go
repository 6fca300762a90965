package scene

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/chazu/facet/pkg/mesh"
	"github.com/chazu/facet/pkg/pick"
	"github.com/chazu/facet/pkg/primitive"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoCubes returns a scene with cube "a" at the origin and cube "b" at x=3.
func twoCubes(t *testing.T, opts ...Option) *Scene {
	t.Helper()
	s := New(opts...)
	_, err := s.Add(primitive.Cube("a"))
	require.NoError(t, err)
	b := primitive.Cube("b")
	b.Translate(v3.Vec{X: 3})
	_, err = s.Add(b)
	require.NoError(t, err)
	return s
}

func TestAddAndLookup(t *testing.T) {
	s := twoCubes(t)

	require.Equal(t, 2, s.Len())
	a := s.Lookup("a")
	require.NotNil(t, a)
	assert.Equal(t, "a", a.Name)
	assert.NotEqual(t, uuid.Nil, a.ID)
	assert.Same(t, a, s.Get(a.ID))
	assert.Nil(t, s.Lookup("missing"))
	assert.Nil(t, s.Get(uuid.New()))

	names := []string{}
	for _, o := range s.Objects() {
		names = append(names, o.Name)
	}
	assert.Equal(t, []string{"a", "b"}, names)
	assert.Len(t, s.Meshes(), 2)
}

func TestAddAssignsPaletteColors(t *testing.T) {
	s := New(WithPalette([]string{"red", "blue"}))
	var colors []string
	for _, name := range []string{"a", "b", "c"} {
		o, err := s.Add(mesh.New(name))
		require.NoError(t, err)
		colors = append(colors, o.Color)
	}
	assert.Equal(t, []string{"red", "blue", "red"}, colors)

	o, err := New(WithPalette(nil)).Add(mesh.New("x"))
	require.NoError(t, err)
	assert.Equal(t, DefaultPalette[0], o.Color)
}

func TestAddErrors(t *testing.T) {
	s := twoCubes(t)

	_, err := s.Add(primitive.Cube("a"))
	assert.True(t, errors.Is(err, ErrDuplicateName))
	assert.Equal(t, 2, s.Len())

	_, err = s.Add(nil)
	assert.Error(t, err)

	// Unnamed meshes are not indexed, so several may coexist.
	_, err = s.Add(mesh.New(""))
	require.NoError(t, err)
	_, err = s.Add(mesh.New(""))
	require.NoError(t, err)
	assert.Equal(t, 4, s.Len())
}

func TestPickSelects(t *testing.T) {
	s := twoCubes(t)

	obj, hit, ok := s.Pick(pick.Ray{Origin: v3.Vec{X: 3.1, Y: 0.2, Z: 5}, Direction: v3.Vec{Z: -1}})
	require.True(t, ok)
	assert.Equal(t, "b", obj.Name)
	assert.InDelta(t, 4.5, hit.Distance, 1e-9)
	assert.True(t, obj.Selected)
	assert.Same(t, obj, s.Selected())

	obj, _, ok = s.Pick(pick.Ray{Origin: v3.Vec{X: 0.1, Y: 0.2, Z: 5}, Direction: v3.Vec{Z: -1}})
	require.True(t, ok)
	assert.Equal(t, "a", obj.Name)
	assert.False(t, s.Lookup("b").Selected, "previous selection is cleared")

	_, _, ok = s.Pick(pick.Ray{Origin: v3.Vec{Y: 10}, Direction: v3.Vec{Y: 1}})
	assert.False(t, ok)
	assert.Nil(t, s.Selected())
	assert.False(t, s.Lookup("a").Selected)
}

func TestSelectAndClear(t *testing.T) {
	s := twoCubes(t)
	assert.False(t, s.Select(uuid.New()))
	assert.Nil(t, s.Selected())

	b := s.Lookup("b")
	assert.True(t, s.Select(b.ID))
	assert.True(t, b.Selected)

	s.ClearSelection()
	assert.False(t, b.Selected)
	assert.Nil(t, s.Selected())
}

func TestSelectionIsLogged(t *testing.T) {
	var out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&out, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s := twoCubes(t, WithLogger(logger))

	s.Select(s.Lookup("a").ID)
	s.ClearSelection()

	log := out.String()
	assert.True(t, strings.Contains(log, "object selected"), log)
	assert.True(t, strings.Contains(log, "selection cleared"), log)
	assert.True(t, strings.Contains(log, "name=a"), log)
}

func TestRefresh(t *testing.T) {
	s := twoCubes(t)

	assert.Equal(t, 2, s.Refresh(), "new meshes are built on first refresh")
	assert.Equal(t, 0, s.Refresh(), "clean meshes are skipped")

	a := s.Lookup("a")
	assert.Equal(t, 36, a.Buffer.VertexCount(), "cubes default to flat shading")

	a.Mesh.Translate(v3.Vec{Y: 1})
	assert.Equal(t, 0, s.Refresh(), "moving a mesh keeps its buffer")

	a.Mesh.SetShading(mesh.ShadingSmooth)
	assert.Equal(t, 1, s.Refresh())
	assert.Equal(t, 8, a.Buffer.VertexCount())
	assert.Equal(t, 36, s.Lookup("b").Buffer.VertexCount())
}
