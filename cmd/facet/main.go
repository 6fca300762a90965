// Command facet evaluates a mesh script, triangulates the resulting scene
// and optionally picks it with a ray. It prints a summary, or the full
// render data as JSON.
//
// Usage:
//
//	facet -script scene.facet [-settings facet.toml] [-pick "ox,oy,oz,dx,dy,dz"] [-json]
//
// With -script - the script is read from standard input.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"cogentcore.org/core/cli"
	"github.com/chazu/facet/pkg/config"
)

// Config is the command line configuration for facet.
type Config struct {

	// Settings is an optional TOML settings file for the engine,
	// kernel and scene.
	Settings string `flag:"settings"`

	// Script is the script to evaluate, or - for standard input.
	Script string `flag:"s,script"`

	// Pick is a ray "ox,oy,oz,dx,dy,dz" to pick the scene with
	// after evaluation.
	Pick string `flag:"p,pick"`

	// JSON prints the full render data as JSON instead of a summary.
	JSON bool `flag:"json"`
}

func main() { //types:skip
	opts := cli.DefaultOptions("facet", "Evaluates a mesh script and reports the triangulated scene.")
	cli.Run(opts, &Config{}, Run)
}

// Run evaluates the configured script and prints the result.
func Run(c *Config) error { //cli:cmd -root
	return run(c, os.Stdin, os.Stdout, os.Stderr)
}

func run(c *Config, stdin io.Reader, stdout, stderr io.Writer) error {
	if c.Script == "" {
		return errors.New("-script is required")
	}

	cfg := config.Default()
	if c.Settings != "" {
		var err error
		if cfg, err = config.Load(c.Settings); err != nil {
			return err
		}
	}
	level, err := cfg.LogLevel()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	source, err := readScript(c.Script, stdin)
	if err != nil {
		return err
	}

	var origin, dir [3]float64
	if c.Pick != "" {
		if origin, dir, err = parseRay(c.Pick); err != nil {
			return err
		}
	}

	app := NewApp(cfg, logger)
	result := app.Evaluate(source)
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			if e.Line > 0 {
				fmt.Fprintf(stderr, "%s:%d: %s\n", c.Script, e.Line, e.Message)
			} else {
				fmt.Fprintf(stderr, "%s: %s\n", c.Script, e.Message)
			}
		}
		return fmt.Errorf("%d evaluation error(s)", len(result.Errors))
	}

	var picked *PickResult
	if c.Pick != "" {
		p, err := app.Pick(origin, dir)
		if err != nil {
			return err
		}
		picked = &p
		// Selection changed; pick up the new flags.
		result.Meshes = app.Refresh()
	}

	if c.JSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			EvalResult
			Pick *PickResult `json:"pick,omitempty"`
		}{result, picked})
	}
	printSummary(stdout, result, picked)
	return nil
}

func readScript(path string, stdin io.Reader) (string, error) {
	var (
		b   []byte
		err error
	)
	if path == "-" {
		b, err = io.ReadAll(stdin)
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read script: %w", err)
	}
	return string(b), nil
}

// parseRay parses six comma-separated numbers: origin then direction.
func parseRay(s string) (origin, dir [3]float64, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 6 {
		return origin, dir, fmt.Errorf("pick: want 6 comma-separated numbers, got %d", len(parts))
	}
	var v [6]float64
	for i, p := range parts {
		if v[i], err = strconv.ParseFloat(strings.TrimSpace(p), 64); err != nil {
			return origin, dir, fmt.Errorf("pick: component %d: %w", i, err)
		}
	}
	if v[3] == 0 && v[4] == 0 && v[5] == 0 {
		return origin, dir, errors.New("pick: direction must be non-zero")
	}
	return [3]float64{v[0], v[1], v[2]}, [3]float64{v[3], v[4], v[5]}, nil
}

func printSummary(w io.Writer, r EvalResult, p *PickResult) {
	for _, m := range r.Meshes {
		mark := " "
		if m.Selected {
			mark = "*"
		}
		fmt.Fprintf(w, "%s %-16s %-6s %6d triangles %6d edges  %s\n",
			mark, m.Name, m.Shading, len(m.Indices)/3, len(m.Edges)/2, m.Color)
	}
	for _, warning := range r.Warnings {
		fmt.Fprintln(w, warning)
	}
	fmt.Fprintf(w, "%d objects, %d vertices, %d faces, %d triangles\n",
		r.Stats.Objects, r.Stats.Vertices, r.Stats.Faces, r.Stats.Triangles)
	if p == nil {
		return
	}
	if !p.Hit {
		fmt.Fprintln(w, "pick: miss")
		return
	}
	fmt.Fprintf(w, "pick: %q face %d at distance %.4f (%.4f, %.4f, %.4f)\n",
		p.Name, p.Face, p.Distance, p.Point[0], p.Point[1], p.Point[2])
}
