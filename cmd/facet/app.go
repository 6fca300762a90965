package main

import (
	"errors"
	"log/slog"
	"slices"
	"sync"

	"github.com/chazu/facet/pkg/config"
	"github.com/chazu/facet/pkg/engine"
	"github.com/chazu/facet/pkg/kernel/sdfx"
	"github.com/chazu/facet/pkg/pick"
	"github.com/chazu/facet/pkg/scene"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/samber/lo"
)

// App is the front-end binding. It evaluates scripts into a scene, keeps
// the last good scene for picking and hands out flat render buffers.
type App struct {
	mu     sync.Mutex
	engine *engine.Engine
	scene  *scene.Scene
	log    *slog.Logger
}

// MeshData is the JSON-serializable mesh format sent to the renderer.
// Positions are in the mesh's local space; Translation, Rotation (radians)
// and Scale place it in the world.
type MeshData struct {
	Name        string     `json:"name"`
	Color       string     `json:"color"`
	Selected    bool       `json:"selected"`
	Shading     string     `json:"shading"`
	Positions   []float32  `json:"positions"`
	Normals     []float32  `json:"normals"`
	Indices     []uint32   `json:"indices"`
	Edges       []uint32   `json:"edges"`
	Translation [3]float64 `json:"translation"`
	Rotation    [3]float64 `json:"rotation"`
	Scale       [3]float64 `json:"scale"`
}

// EvalErrorData is a JSON-serializable eval error for the front-end.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// Stats summarizes the evaluated scene.
type Stats struct {
	Objects   int `json:"objects"`
	Vertices  int `json:"vertices"`
	Faces     int `json:"faces"`
	Triangles int `json:"triangles"`
}

// EvalResult is the full result returned to the front-end.
type EvalResult struct {
	Meshes   []MeshData      `json:"meshes"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []string        `json:"warnings"`
	Stats    Stats           `json:"stats"`
}

// PickResult reports what a pick ray struck.
type PickResult struct {
	Hit      bool       `json:"hit"`
	Name     string     `json:"name,omitempty"`
	Face     int        `json:"face"`
	Distance float64    `json:"distance"`
	Point    [3]float64 `json:"point"`
}

// NewApp creates a new App with an engine configured from cfg.
func NewApp(cfg config.Config, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	opts := []engine.Option{
		engine.WithKernel(&sdfx.SdfxKernel{Cells: cfg.Kernel.Cells}),
		engine.WithPalette(cfg.Scene.Palette),
		engine.WithLogger(logger),
	}
	if s, err := cfg.Shading(); err == nil {
		opts = append(opts, engine.WithShading(s))
	}
	if d, err := cfg.Timeout(); err == nil {
		opts = append(opts, engine.WithTimeout(d))
	}
	return &App{
		engine: engine.NewEngine(opts...),
		log:    logger,
	}
}

// Evaluate takes Lisp source and returns mesh data + errors.
// On success the resulting scene replaces the one used by Pick.
func (a *App) Evaluate(source string) EvalResult {
	result := EvalResult{
		Meshes:   []MeshData{},
		Errors:   []EvalErrorData{},
		Warnings: []string{},
	}

	// Step 1: Evaluate the Lisp source into a scene.
	s, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		a.log.Error("evaluate failed", "err", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}

	// Step 2: Convert eval errors to the front-end format.
	if len(evalErrs) > 0 {
		result.Errors = lo.Map(evalErrs, func(e engine.EvalError, _ int) EvalErrorData {
			return EvalErrorData{Line: e.Line, Col: e.Col, Message: e.Message}
		})
		return result
	}

	// Step 3: Reject broken topology before anything is triangulated.
	report := s.Validate()
	if !report.OK() {
		result.Errors = lo.Map(report.Errors, func(f scene.Finding, _ int) EvalErrorData {
			return EvalErrorData{Message: f.Error()}
		})
		return result
	}
	result.Warnings = lo.Map(report.Warnings, func(f scene.Finding, _ int) string {
		return f.Error()
	})

	// Step 4: Triangulate every object.
	s.Refresh()

	a.mu.Lock()
	a.scene = s
	a.mu.Unlock()

	result.Meshes = meshData(s)
	result.Stats = stats(s)
	return result
}

// Refresh re-triangulates objects changed since the last call and returns
// the current render data.
func (a *App) Refresh() []MeshData {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.scene == nil {
		return []MeshData{}
	}
	a.scene.Refresh()
	return meshData(a.scene)
}

// Pick casts a world-space ray into the current scene and selects the
// closest object hit. A miss clears the selection.
func (a *App) Pick(origin, direction [3]float64) (PickResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.scene == nil {
		return PickResult{}, errors.New("pick: nothing has been evaluated")
	}
	ray := pick.Ray{
		Origin:    v3.Vec{X: origin[0], Y: origin[1], Z: origin[2]},
		Direction: v3.Vec{X: direction[0], Y: direction[1], Z: direction[2]},
	}
	obj, hit, ok := a.scene.Pick(ray)
	if !ok {
		return PickResult{Face: -1}, nil
	}
	return PickResult{
		Hit:      true,
		Name:     obj.Name,
		Face:     int(hit.Face),
		Distance: hit.Distance,
		Point:    [3]float64{hit.Point.X, hit.Point.Y, hit.Point.Z},
	}, nil
}

// Scene returns the last successfully evaluated scene, or nil.
func (a *App) Scene() *scene.Scene {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.scene
}

// meshData copies the render buffers out of the scene; the next Refresh
// reuses their memory.
func meshData(s *scene.Scene) []MeshData {
	return lo.Map(s.Objects(), func(o *scene.Object, _ int) MeshData {
		m := o.Mesh
		return MeshData{
			Name:        o.Name,
			Color:       o.Color,
			Selected:    o.Selected,
			Shading:     m.Shading().String(),
			Positions:   slices.Clone(o.Buffer.Positions),
			Normals:     slices.Clone(o.Buffer.Normals),
			Indices:     slices.Clone(o.Buffer.Indices),
			Edges:       slices.Clone(o.Buffer.Edges),
			Translation: vecArray(m.Translation()),
			Rotation:    vecArray(m.Rotation()),
			Scale:       vecArray(m.Scale()),
		}
	})
}

func stats(s *scene.Scene) Stats {
	objs := s.Objects()
	return Stats{
		Objects:   len(objs),
		Vertices:  lo.SumBy(objs, func(o *scene.Object) int { return o.Mesh.VertexCount() }),
		Faces:     lo.SumBy(objs, func(o *scene.Object) int { return o.Mesh.FaceCount() }),
		Triangles: lo.SumBy(objs, func(o *scene.Object) int { return o.Buffer.TriangleCount() }),
	}
}

func vecArray(v v3.Vec) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}
