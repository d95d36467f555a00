// Package config provides configuration management for davitframe.
//
// The config file selects a frame variant, overrides individual spec
// fields, and controls outputs, rendering, the preview server and the
// watcher. A missing file means defaults.
//
// Config file locations (priority order):
//  1. $DAVITFRAME_CONFIG
//  2. ./davitframe.yaml
//  3. $XDG_CONFIG_HOME/davitframe/config.yaml
//  4. ~/.config/davitframe/config.yaml
//  5. /etc/davitframe/config.yaml
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"davitframe/internal/domain"
	"davitframe/internal/render"

	"gopkg.in/yaml.v3"
)

// Environment overrides, applied after the file is read
const (
	EnvVariant   = "DAVITFRAME_VARIANT"
	EnvOutputDir = "DAVITFRAME_OUTPUT_DIR"
	EnvAddr      = "DAVITFRAME_ADDR"
)

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		// No config found - return defaults
		cfg := DefaultConfig()
		cfg.applyEnv()
		return cfg, "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, path, err
	}

	return cfg, path, nil
}

// Parse decodes config YAML and fills in defaults
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()

	if _, err := cfg.FrameSpec(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns the davit variant with every output enabled
func DefaultConfig() *Config {
	cfg := &Config{Version: 1}
	cfg.applyDefaults()
	return cfg
}

// DefaultFormats lists the formats generate writes when none are configured
func DefaultFormats() []string {
	return []string{"dxf", "step", "obj", "json", "yaml"}
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Variant == "" {
		c.Variant = domain.VariantDavit
	}

	if c.Output.Dir == "" {
		c.Output.Dir = "./output"
	}
	if c.Output.BaseName == "" {
		c.Output.BaseName = "davit_frame"
	}
	if len(c.Output.Formats) == 0 {
		c.Output.Formats = DefaultFormats()
	}

	d := render.DefaultOptions()
	if c.Render.Width <= 0 {
		c.Render.Width = d.Width
	}
	if c.Render.Height <= 0 {
		c.Render.Height = d.Height
	}
	if c.Render.Supersample <= 0 {
		c.Render.Supersample = d.Supersample
	}
	if c.Render.Frames <= 0 {
		c.Render.Frames = d.Frames
	}
	if c.Render.FrameDelay <= 0 {
		c.Render.FrameDelay = Duration(d.FrameDelay)
	}

	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Watch.Debounce <= 0 {
		c.Watch.Debounce = Duration(500 * time.Millisecond)
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvVariant); v != "" {
		c.Variant = strings.TrimSpace(v)
	}
	if v := os.Getenv(EnvOutputDir); v != "" {
		c.Output.Dir = v
	}
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
}

// FrameSpec returns the variant's spec with the frame overrides applied
func (c *Config) FrameSpec() (domain.FrameSpec, error) {
	spec, err := domain.FrameSpecVariant(c.Variant)
	if err != nil {
		return domain.FrameSpec{}, fmt.Errorf("config variant: %w", err)
	}

	if c.Frame != nil {
		if err := c.Frame.Decode(&spec); err != nil {
			return domain.FrameSpec{}, fmt.Errorf("config frame: %w", err)
		}
	}

	return spec, nil
}

// SetFrame stores spec as the frame overrides
func (c *Config) SetFrame(spec domain.FrameSpec) error {
	var node yaml.Node
	if err := node.Encode(spec); err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	c.Frame = &node
	return nil
}

// RenderOptions converts the render section to renderer options
func (c *Config) RenderOptions() render.Options {
	opts := render.DefaultOptions()
	opts.Width = c.Render.Width
	opts.Height = c.Render.Height
	opts.Supersample = c.Render.Supersample
	opts.Frames = c.Render.Frames
	opts.FrameDelay = c.Render.FrameDelay.Duration()
	if c.Render.Elevation != nil {
		opts.Elevation = *c.Render.Elevation
	}
	if c.Render.Azimuth != nil {
		opts.Azimuth = *c.Render.Azimuth
	}
	if c.Render.Legend != nil {
		opts.Legend = *c.Render.Legend
	}
	return opts
}

// StillEnabled reports whether generate writes the PNG still
func (c *Config) StillEnabled() bool {
	return c.Output.Still == nil || *c.Output.Still
}

// AnimationEnabled reports whether generate writes the rotating GIF
func (c *Config) AnimationEnabled() bool {
	return c.Output.Animate == nil || *c.Output.Animate
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	summary := fmt.Sprintf("Variant: %s, Output: %s/%s.*\n", c.Variant, c.Output.Dir, c.Output.BaseName)
	summary += fmt.Sprintf("Formats: %s, Still: %t, Animation: %t\n",
		strings.Join(c.Output.Formats, ","), c.StillEnabled(), c.AnimationEnabled())
	summary += fmt.Sprintf("Render: %dx%d, %d frames @ %s", c.Render.Width, c.Render.Height,
		c.Render.Frames, c.Render.FrameDelay.Duration())

	return summary
}
