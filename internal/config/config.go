// Package config handles viewer and pipeline configuration loading and management.
package config

import (
	"fmt"
	"time"

	"github.com/Faultbox/glbkit/pkg/glb"
)

// Config holds all settings.
type Config struct {
	Assets   AssetsConfig   `yaml:"assets"`
	Graphics GraphicsConfig `yaml:"graphics"`
	Viewer   ViewerConfig   `yaml:"viewer"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// AssetsConfig holds asset sources and decoding settings.
type AssetsConfig struct {
	Roots                []string      `yaml:"roots"`  // Local directories, last has highest priority
	Remote               string        `yaml:"remote"` // Base URL for assets missing locally
	MaxConcurrentFetches int           `yaml:"max_concurrent_fetches"`
	FetchTimeout         time.Duration `yaml:"fetch_timeout"`

	// SkipAttributes lists vertex attribute semantics dropped during decoding.
	SkipAttributes []string `yaml:"skip_attributes"`
	// Semantics adds or overrides semantic to vertex slot bindings.
	Semantics map[string]int `yaml:"semantics"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit"`
}

// ViewerConfig holds model viewer settings.
type ViewerConfig struct {
	FOV           float32    `yaml:"fov"`      // Vertical field of view in degrees
	Distance      float32    `yaml:"distance"` // Initial camera distance
	MinDistance   float32    `yaml:"min_distance"`
	MaxDistance   float32    `yaml:"max_distance"`
	Spacing       float32    `yaml:"spacing"` // Distance between models on the X axis
	SpringFreq    float64    `yaml:"spring_frequency"`
	SpringDamp    float64    `yaml:"spring_damping"`
	ShowPending   bool       `yaml:"show_pending"` // Put pending load count in the window title
	Background    [3]float32 `yaml:"background"`
	ScreenshotDir string     `yaml:"screenshot_dir"` // F12 captures go here
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Assets: AssetsConfig{
			Roots:                []string{"."},
			MaxConcurrentFetches: 8,
			FetchTimeout:         30 * time.Second,
			SkipAttributes:       []string{"TANGENT"},
		},
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   0,
		},
		Viewer: ViewerConfig{
			FOV:           45,
			Distance:      4,
			MinDistance:   0.5,
			MaxDistance:   100,
			Spacing:       2,
			SpringFreq:    6,
			SpringDamp:    1,
			ShowPending:   true,
			Background:    [3]float32{0.1, 0.1, 0.12},
			ScreenshotDir: "screenshots",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// SkipSet returns the configured skip set.
func (a AssetsConfig) SkipSet() glb.SkipSet {
	return glb.NewSkipSet(a.SkipAttributes...)
}

// SemanticTable returns the default table with the configured overrides applied.
func (a AssetsConfig) SemanticTable() glb.SemanticTable {
	return glb.DefaultSemantics().With(a.Semantics)
}

// DecodeOptions returns decoding options for a model under basePath.
func (a AssetsConfig) DecodeOptions(basePath string) glb.Options {
	return glb.Options{
		Semantics: a.SemanticTable(),
		Skip:      a.SkipSet(),
		BasePath:  basePath,
	}
}

// Validate checks settings that would otherwise fail later.
func (c *Config) Validate() error {
	if c.Assets.MaxConcurrentFetches < 1 {
		return fmt.Errorf("assets.max_concurrent_fetches must be positive, got %d", c.Assets.MaxConcurrentFetches)
	}
	if c.Assets.FetchTimeout < 0 {
		return fmt.Errorf("assets.fetch_timeout must not be negative, got %v", c.Assets.FetchTimeout)
	}
	for name, slot := range c.Assets.Semantics {
		if slot < 0 || slot > 15 {
			return fmt.Errorf("assets.semantics.%s: slot %d out of range [0, 15]", name, slot)
		}
	}
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		return fmt.Errorf("graphics size must be positive, got %dx%d", c.Graphics.Width, c.Graphics.Height)
	}
	if c.Viewer.MinDistance <= 0 || c.Viewer.MinDistance > c.Viewer.MaxDistance {
		return fmt.Errorf("viewer distance range [%g, %g] is invalid", c.Viewer.MinDistance, c.Viewer.MaxDistance)
	}
	return nil
}
