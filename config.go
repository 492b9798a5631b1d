package warpgrid

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable of the pipeline. DefaultConfig returns the
// values the effect was designed with; LoadConfig overlays a YAML file on top.
type Config struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	// TPS is the pan loop rate (Ebitengine ticks per second).
	TPS int `yaml:"tps"`

	// Supersample is the rasterization scale relative to the viewport.
	Supersample float64 `yaml:"supersample"`

	Pan struct {
		Damping float64 `yaml:"damping"`
		Ease    float64 `yaml:"ease"`
	} `yaml:"pan"`

	Pointer struct {
		Ease float64 `yaml:"ease"`
	} `yaml:"pointer"`

	Grid GridConfig `yaml:"grid"`

	Assets struct {
		Dir     string `yaml:"dir"`
		Pattern string `yaml:"pattern"`
		Count   int    `yaml:"count"`
		Workers int    `yaml:"workers"`
	} `yaml:"assets"`

	// Shaders are paths, file system paths, or http(s) URLs. Empty values
	// select the sources embedded in the module.
	Shaders struct {
		Vertex   string `yaml:"vertex"`
		Fragment string `yaml:"fragment"`
	} `yaml:"shaders"`

	Sampler struct {
		Filter string `yaml:"filter"` // "linear" or "nearest"
		Wrap   string `yaml:"wrap"`   // "clamp" or "zero"
	} `yaml:"sampler"`

	// Interpolation selects the resampler used to build cached cell tiles:
	// "catmullrom", "bilinear" or "nearest".
	Interpolation string `yaml:"interpolation"`

	Intro struct {
		Duration float32 `yaml:"duration"`
		Ease     string  `yaml:"ease"`
	} `yaml:"intro"`

	Debug         bool   `yaml:"debug"`
	ScreenshotDir string `yaml:"screenshot_dir"`
	Script        string `yaml:"script"`
}

// GridConfig describes the image grid layout.
type GridConfig struct {
	Count      int     `yaml:"count"`
	Columns    int     `yaml:"columns"`
	CellWidth  float64 `yaml:"cell_width"`
	CellHeight float64 `yaml:"cell_height"`
	Gap        float64 `yaml:"gap"`
	Seed       uint64  `yaml:"seed"`
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	var c Config
	c.Title = "warpgrid"
	c.Width = 1280
	c.Height = 800
	c.TPS = 60
	c.Supersample = 4
	c.Pan.Damping = 0.75
	c.Pan.Ease = 0.035
	c.Pointer.Ease = 0.1
	c.Grid = GridConfig{
		Count:      300,
		Columns:    20,
		CellWidth:  180,
		CellHeight: 240,
		Gap:        0,
	}
	c.Assets.Dir = "assets"
	c.Assets.Pattern = "%d.jpg"
	c.Assets.Count = 40
	c.Assets.Workers = 8
	c.Sampler.Filter = "linear"
	c.Sampler.Wrap = "clamp"
	c.Interpolation = "catmullrom"
	c.Intro.Duration = 1.2
	c.Intro.Ease = "outCubic"
	c.ScreenshotDir = "screenshots"
	return c
}

// LoadConfig reads a YAML file and overlays it on DefaultConfig. Fields
// absent from the file keep their defaults. The result is validated.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate reports every out-of-range field.
func (c Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Width, c.Height))
	}
	if c.TPS <= 0 {
		errs = append(errs, fmt.Errorf("tps %d must be positive", c.TPS))
	}
	if c.Supersample <= 0 {
		errs = append(errs, fmt.Errorf("supersample %v must be positive", c.Supersample))
	}
	if c.Pan.Damping < 0 || c.Pan.Damping > 1 {
		errs = append(errs, fmt.Errorf("pan.damping %v must be in [0, 1]", c.Pan.Damping))
	}
	if c.Pan.Ease <= 0 || c.Pan.Ease >= 1 {
		errs = append(errs, fmt.Errorf("pan.ease %v must be in (0, 1)", c.Pan.Ease))
	}
	if c.Pointer.Ease <= 0 || c.Pointer.Ease >= 1 {
		errs = append(errs, fmt.Errorf("pointer.ease %v must be in (0, 1)", c.Pointer.Ease))
	}
	if c.Grid.Count < 0 || c.Grid.Columns <= 0 {
		errs = append(errs, fmt.Errorf("grid %d cells in %d columns is invalid", c.Grid.Count, c.Grid.Columns))
	}
	if c.Grid.CellWidth <= 0 || c.Grid.CellHeight <= 0 || c.Grid.Gap < 0 {
		errs = append(errs, fmt.Errorf("grid cell %vx%v gap %v is invalid", c.Grid.CellWidth, c.Grid.CellHeight, c.Grid.Gap))
	}
	if c.Assets.Count <= 0 {
		errs = append(errs, fmt.Errorf("assets.count %d must be positive", c.Assets.Count))
	}
	if _, err := parseSampler(c.Sampler.Filter, c.Sampler.Wrap); err != nil {
		errs = append(errs, err)
	}
	if _, err := interpolatorByName(c.Interpolation); err != nil {
		errs = append(errs, err)
	}
	if _, err := EaseFunc(c.Intro.Ease); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
