package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/chazu/facet/pkg/config"
	"github.com/chazu/facet/pkg/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exampleScript = "../../examples/scene.facet"

// testConfig keeps the solid kernel coarse so tests stay fast.
func testConfig() config.Config {
	cfg := config.Default()
	cfg.Kernel.Cells = 16
	return cfg
}

func newTestApp() *App {
	return NewApp(testConfig(), nil)
}

func evaluateOK(t *testing.T, app *App, source string) EvalResult {
	t.Helper()
	result := app.Evaluate(source)
	require.Empty(t, result.Errors, "eval errors")
	return result
}

func evalExample(t *testing.T, app *App) EvalResult {
	t.Helper()
	source, err := os.ReadFile(exampleScript)
	require.NoError(t, err)
	return evaluateOK(t, app, string(source))
}

// TestE2EExampleScene exercises the full pipeline: Lisp source -> engine ->
// scene -> triangulation -> flat buffers.
func TestE2EExampleScene(t *testing.T) {
	result := evalExample(t, newTestApp())

	require.Len(t, result.Meshes, 5)
	byName := map[string]MeshData{}
	for _, m := range result.Meshes {
		byName[m.Name] = m

		assert.NotEmpty(t, m.Positions, m.Name)
		assert.Len(t, m.Normals, len(m.Positions), m.Name)
		assert.NotEmpty(t, m.Indices, m.Name)
		assert.Zero(t, len(m.Indices)%3, "%s: index count", m.Name)
		assert.NotEmpty(t, m.Edges, m.Name)
		assert.NotEmpty(t, m.Color, m.Name)
	}
	for _, name := range []string{"pyramid", "box", "can", "floor", "nut"} {
		assert.Contains(t, byName, name)
	}

	assert.Equal(t, "smooth", byName["can"].Shading)
	assert.Equal(t, "#808080", byName["floor"].Color)
	assert.Equal(t, [3]float64{-3, 0, 0}, byName["pyramid"].Translation)
	// Flat pyramid: a quad and four triangles give 6 triangles, 18 corners.
	assert.Len(t, byName["pyramid"].Positions, 18*3)

	// The floor is a single open quad.
	assert.Contains(t, result.Warnings, "[warning] floor: open surface with 4 boundary edges")

	assert.Equal(t, 5, result.Stats.Objects)
	tris := 0
	for _, m := range result.Meshes {
		tris += len(m.Indices) / 3
	}
	assert.Equal(t, tris, result.Stats.Triangles)
}

func TestE2EEmptySource(t *testing.T) {
	for _, source := range []string{"", "   \n\t ", ";; nothing to see\n; here either\n"} {
		result := evaluateOK(t, newTestApp(), source)
		assert.Empty(t, result.Meshes, "source %q", source)
		// Non-nil slices serialize as [] rather than null.
		assert.NotNil(t, result.Meshes)
		assert.NotNil(t, result.Errors)
		assert.NotNil(t, result.Warnings)
	}
}

func TestE2ESyntaxError(t *testing.T) {
	result := newTestApp().Evaluate(`(cube "test"`)
	assert.NotEmpty(t, result.Errors)
	assert.Empty(t, result.Meshes)
}

func TestE2EBadFaceKeepsPreviousScene(t *testing.T) {
	app := newTestApp()
	evaluateOK(t, app, `(cube "first")`)

	result := app.Evaluate(`(def m (mesh "m")) (vertex m 0 0 0) (face m 0 0 7)`)
	require.NotEmpty(t, result.Errors)
	require.NotNil(t, app.Scene())
	assert.NotNil(t, app.Scene().Lookup("first"), "a failed evaluation keeps the previous scene")
}

func TestE2ERapidEvaluationAlternating(t *testing.T) {
	app := newTestApp()
	sources := []string{
		`(cube "ok")`,
		`(cube "broken"`,
		``,
		`(face 1 2 3)`,
		`(cylinder "also-ok" :segments 6)`,
		`(+ 1 2)`,
		`;; just a comment`,
		`(solid "fine" (sphere 1))`,
		`(undefined-func 1 2 3)`,
		`(circle "last" :segments 3)`,
	}
	for _, source := range sources {
		assert.NotPanics(t, func() { app.Evaluate(source) }, source)
	}
	assert.NotNil(t, app.Scene().Lookup("last"))
}

func TestE2EColorPaletteWrapping(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 9; i++ {
		fmt.Fprintf(&b, "(translate (cube \"c%d\") %d 0 0)\n", i, i)
	}
	result := evaluateOK(t, newTestApp(), b.String())
	require.Len(t, result.Meshes, 9)

	palette := testConfig().Scene.Palette
	for i, m := range result.Meshes {
		assert.Equal(t, palette[i%len(palette)], m.Color, m.Name)
	}
}

func TestE2EPick(t *testing.T) {
	app := newTestApp()
	evalExample(t, app)

	tests := []struct {
		name     string
		origin   [3]float64
		dir      [3]float64
		wantHit  bool
		wantName string
	}{
		{"box from front", [3]float64{0.1, 0.2, 5}, [3]float64{0, 0, -1}, true, "box"},
		{"can from front", [3]float64{3.1, 0.2, 5}, [3]float64{0, 0, -2}, true, "can"},
		{"floor from above", [3]float64{4, 5, 2}, [3]float64{0, -1, 0}, true, "floor"},
		{"pyramid from the side", [3]float64{-8, 0.2, 0.1}, [3]float64{1, 0, 0}, true, "pyramid"},
		{"sky", [3]float64{0, 10, 0}, [3]float64{0, 1, 0}, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := app.Pick(tt.origin, tt.dir)
			require.NoError(t, err)
			require.Equal(t, tt.wantHit, p.Hit)
			assert.Equal(t, tt.wantName, p.Name)

			sel := app.Scene().Selected()
			if tt.wantHit {
				require.NotNil(t, sel)
				assert.Equal(t, tt.wantName, sel.Name)
			} else {
				assert.Nil(t, sel, "a miss clears the selection")
				assert.Equal(t, -1, p.Face)
			}
		})
	}

	// Faces are numbered in script order; the fifth is the -X side.
	p, err := app.Pick([3]float64{-8, 0.2, 0.1}, [3]float64{1, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, 4, p.Face)
}

func TestPickBeforeEvaluate(t *testing.T) {
	_, err := newTestApp().Pick([3]float64{}, [3]float64{0, 0, 1})
	assert.Error(t, err)
}

func TestRefreshMarksSelection(t *testing.T) {
	app := newTestApp()
	evaluateOK(t, app, `(cube "a")`)

	_, err := app.Pick([3]float64{0.1, 0.2, 5}, [3]float64{0, 0, -1})
	require.NoError(t, err)

	meshes := app.Refresh()
	require.Len(t, meshes, 1)
	assert.True(t, meshes[0].Selected)
}

func TestEvalResultSurvivesRefresh(t *testing.T) {
	app := newTestApp()
	result := evaluateOK(t, app, `(cube "c")`)
	require.Len(t, result.Meshes, 1)
	before := slices.Clone(result.Meshes[0].Positions)

	// Smooth shading rebuilds the buffer in place.
	app.Scene().Lookup("c").Mesh.SetShading(mesh.ShadingSmooth)
	refreshed := app.Refresh()
	require.Len(t, refreshed, 1)
	require.Len(t, refreshed[0].Positions, 8*3)

	assert.Equal(t, before, result.Meshes[0].Positions, "earlier result must not change")
}

// ---------------------------------------------------------------------------
// Command line
// ---------------------------------------------------------------------------

func TestParseRay(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		origin  [3]float64
		dir     [3]float64
	}{
		{"valid", "0,0,5,0,0,-1", false, [3]float64{0, 0, 5}, [3]float64{0, 0, -1}},
		{"spaces", " 1, 2 ,3, 4,5 , 6", false, [3]float64{1, 2, 3}, [3]float64{4, 5, 6}},
		{"too few", "0,0,5", true, [3]float64{}, [3]float64{}},
		{"not a number", "0,0,x,0,0,1", true, [3]float64{}, [3]float64{}},
		{"zero direction", "1,1,1,0,0,0", true, [3]float64{}, [3]float64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, d, err := parseRay(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.origin, o)
			assert.Equal(t, tt.dir, d)
		})
	}
}

func TestRunSummary(t *testing.T) {
	settings := filepath.Join(t.TempDir(), "facet.toml")
	require.NoError(t, os.WriteFile(settings, []byte("[kernel]\ncells = 12\n"), 0o644))

	var stdout, stderr bytes.Buffer
	c := &Config{Settings: settings, Script: exampleScript, Pick: "0.1,0.2,5,0,0,-1"}
	require.NoError(t, run(c, nil, &stdout, &stderr), stderr.String())

	out := stdout.String()
	for _, want := range []string{"pyramid", "5 objects", `pick: "box"`, "* box", "[warning] floor"} {
		assert.Contains(t, out, want)
	}
}

func TestRunJSONFromStdin(t *testing.T) {
	var stdout, stderr bytes.Buffer
	c := &Config{Script: "-", JSON: true, Pick: "0,10,0,0,1,0"}
	require.NoError(t, run(c, strings.NewReader(`(cube "a")`), &stdout, &stderr), stderr.String())

	var got struct {
		Meshes []MeshData  `json:"meshes"`
		Stats  Stats       `json:"stats"`
		Pick   *PickResult `json:"pick"`
	}
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &got), stdout.String())
	require.Len(t, got.Meshes, 1)
	assert.Equal(t, "a", got.Meshes[0].Name)
	assert.Equal(t, 12, got.Stats.Triangles)
	require.NotNil(t, got.Pick)
	assert.False(t, got.Pick.Hit)
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.facet")
	require.NoError(t, os.WriteFile(bad, []byte("(cube \"a\")\n(face 1 2 3)\n"), 0o644))

	tests := []struct {
		name string
		c    Config
	}{
		{"no script", Config{}},
		{"missing script", Config{Script: filepath.Join(dir, "missing.facet")}},
		{"missing settings", Config{Settings: filepath.Join(dir, "missing.toml"), Script: bad}},
		{"eval error", Config{Script: bad}},
		{"bad pick", Config{Script: exampleScript, Pick: "1,2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			assert.Error(t, run(&tt.c, nil, &stdout, &stderr))
		})
	}

	var stdout, stderr bytes.Buffer
	require.Error(t, run(&Config{Script: bad}, nil, &stdout, &stderr))
	assert.Contains(t, stderr.String(), bad, "errors are reported against the script path")
}
