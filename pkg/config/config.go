// Package config loads facet settings from a TOML file.
//
// Every field has a default, so a file only needs the keys it changes:
//
//	[log]
//	level = "debug"
//
//	[mesh]
//	shading = "smooth"
//
//	[kernel]
//	cells = 96
//
//	[engine]
//	timeout = "10s"
//
//	[scene]
//	palette = ["#FF0000", "#00FF00"]
//
// Unknown keys are rejected so typos surface as errors.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/chazu/facet/pkg/kernel/sdfx"
	"github.com/chazu/facet/pkg/mesh"
	"github.com/chazu/facet/pkg/scene"
	"github.com/pelletier/go-toml/v2"
)

// DefaultTimeout bounds a single script evaluation.
const DefaultTimeout = 5 * time.Second

// Config is the full set of settings.
type Config struct {
	Log    LogConfig    `toml:"log"`
	Mesh   MeshConfig   `toml:"mesh"`
	Kernel KernelConfig `toml:"kernel"`
	Engine EngineConfig `toml:"engine"`
	Scene  SceneConfig  `toml:"scene"`
}

type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn or error
}

type MeshConfig struct {
	Shading string `toml:"shading"` // flat or smooth
}

type KernelConfig struct {
	Cells int `toml:"cells"` // marching cubes resolution
}

type EngineConfig struct {
	Timeout string `toml:"timeout"` // Go duration syntax
}

type SceneConfig struct {
	Palette []string `toml:"palette"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Log:    LogConfig{Level: "info"},
		Mesh:   MeshConfig{Shading: mesh.ShadingFlat.String()},
		Kernel: KernelConfig{Cells: sdfx.DefaultCells},
		Engine: EngineConfig{Timeout: DefaultTimeout.String()},
		Scene:  SceneConfig{Palette: append([]string(nil), scene.DefaultPalette...)},
	}
}

// Load reads and parses the TOML file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML data over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return Config{}, fmt.Errorf("config: unknown keys:\n%s", strict.String())
		}
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that every field holds a usable value.
func (c Config) Validate() error {
	var errs []error
	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Shading(); err != nil {
		errs = append(errs, err)
	}
	if c.Kernel.Cells <= 0 {
		errs = append(errs, fmt.Errorf("kernel.cells: %d must be positive", c.Kernel.Cells))
	}
	if d, err := c.Timeout(); err != nil {
		errs = append(errs, err)
	} else if d <= 0 {
		errs = append(errs, fmt.Errorf("engine.timeout: %s must be positive", d))
	}
	if len(c.Scene.Palette) == 0 {
		errs = append(errs, errors.New("scene.palette: must not be empty"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// LogLevel returns the parsed log level.
func (c Config) LogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return l, nil
}

// Shading returns the parsed default shading mode.
func (c Config) Shading() (mesh.Shading, error) {
	s, err := mesh.ParseShading(c.Mesh.Shading)
	if err != nil {
		return 0, fmt.Errorf("mesh.shading: %w", err)
	}
	return s, nil
}

// Timeout returns the parsed evaluation timeout.
func (c Config) Timeout() (time.Duration, error) {
	d, err := time.ParseDuration(c.Engine.Timeout)
	if err != nil {
		return 0, fmt.Errorf("engine.timeout: %w", err)
	}
	return d, nil
}

// String renders the configuration as TOML.
func (c Config) String() string {
	b, err := toml.Marshal(c)
	if err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return string(b)
}
