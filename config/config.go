// Package config holds the colexgraph configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds colexgraph configuration.
type Config struct {
	Seed     int64  `toml:"seed"`
	LogLevel string `toml:"log_level"`

	Canvas  CanvasConfig `toml:"canvas"`
	Map     MapConfig    `toml:"map"`
	Primary ForceConfig  `toml:"primary"`
	Labels  ForceConfig  `toml:"labels"`
	View    ViewConfig   `toml:"view"`
	Server  ServerConfig `toml:"server"`
	Export  ExportConfig `toml:"export"`
	Data    DataConfig   `toml:"data"`
}

// CanvasConfig sizes the main canvas. The layout area is the canvas with
// Padding taken off each axis.
type CanvasConfig struct {
	Width      float64 `toml:"width"`
	Height     float64 `toml:"height"`
	Padding    float64 `toml:"padding"`
	Background string  `toml:"background"`
	NodeRadius float64 `toml:"node_radius"`
	FontSize   float64 `toml:"font_size"`
}

// MapConfig sizes the inset map and places its projection.
type MapConfig struct {
	Width      float64    `toml:"width"`
	Height     float64    `toml:"height"`
	Background string     `toml:"background"`
	Center     [2]float64 `toml:"center"`    // lon, lat
	Translate  [2]float64 `toml:"translate"` // pixels
	Scale      float64    `toml:"scale"`
}

// ForceConfig tunes one force simulation.
type ForceConfig struct {
	Gravity      float64 `toml:"gravity"`
	Charge       float64 `toml:"charge"`
	Friction     float64 `toml:"friction"`
	Theta        float64 `toml:"theta"`
	LinkDistance float64 `toml:"link_distance"`
	LinkStrength float64 `toml:"link_strength"`
}

// ViewConfig sets the initial render context.
type ViewConfig struct {
	Coloring string  `toml:"coloring"` // "Family" or "Geolocation"
	Opacity  int     `toml:"opacity"`  // percent
	ShiftY   float64 `toml:"shift_y"`
}

// ServerConfig controls the live viewer.
type ServerConfig struct {
	Addr string `toml:"addr"`
	FPS  int    `toml:"fps"`
}

// ExportConfig controls file exports.
type ExportConfig struct {
	// Endpoint is a conversion service receiving the SVG as form field
	// "data". Empty rasterizes locally with headless Chrome.
	Endpoint string   `toml:"endpoint"`
	Timeout  Duration `toml:"timeout"`
}

// DataConfig names the default input files.
type DataConfig struct {
	Graph     string `toml:"graph"`
	Words     string `toml:"words"`
	Languages string `toml:"languages"`
}

// Duration is a time.Duration written as a string such as "30s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Seed:     1,
		LogLevel: "info",
		Canvas: CanvasConfig{
			Width:      600,
			Height:     400,
			Padding:    50,
			Background: "#fff",
			NodeRadius: 5,
			FontSize:   12,
		},
		Map: MapConfig{
			Width:      300,
			Height:     200,
			Background: "#fafafa",
			Center:     [2]float64{65, 25},
			Translate:  [2]float64{210, 53},
			Scale:      48,
		},
		Primary: ForceConfig{
			Gravity:      1,
			Charge:       -3000,
			Friction:     0.9,
			Theta:        0.8,
			LinkDistance: 50,
			LinkStrength: 10,
		},
		Labels: ForceConfig{
			Gravity:      0,
			Charge:       -100,
			Friction:     0.9,
			Theta:        0.8,
			LinkDistance: 0,
			LinkStrength: 8,
		},
		View: ViewConfig{
			Coloring: "Family",
			Opacity:  100,
			ShiftY:   5,
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8080",
			FPS:  30,
		},
		Export: ExportConfig{
			Timeout: Duration{30 * time.Second},
		},
	}
}

// Load reads the TOML file at path over the defaults. An empty path
// returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("config %s: unknown keys %v", path, undecoded)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the values a layout cannot run without.
func (c *Config) Validate() error {
	switch {
	case c.Canvas.Width <= c.Canvas.Padding || c.Canvas.Height <= c.Canvas.Padding:
		return fmt.Errorf("canvas %gx%g leaves no room inside padding %g", c.Canvas.Width, c.Canvas.Height, c.Canvas.Padding)
	case c.Primary.Friction < 0 || c.Primary.Friction > 1 || c.Labels.Friction < 0 || c.Labels.Friction > 1:
		return fmt.Errorf("friction must be within [0, 1]")
	case c.View.Opacity < 0 || c.View.Opacity > 100:
		return fmt.Errorf("opacity %d outside [0, 100]", c.View.Opacity)
	case c.Server.FPS <= 0:
		return fmt.Errorf("fps must be positive, got %d", c.Server.FPS)
	case c.Map.Scale <= 0:
		return fmt.Errorf("map scale must be positive, got %g", c.Map.Scale)
	}
	return nil
}

// Save writes the config as TOML.
func Save(cfg *Config, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}
