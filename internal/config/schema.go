package config

import (
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure
type Config struct {
	Version int    `yaml:"version"`
	Variant string `yaml:"variant"`
	// Frame overrides individual spec fields on top of the variant defaults
	Frame  *yaml.Node   `yaml:"frame,omitempty"`
	Output OutputConfig `yaml:"output"`
	Render RenderConfig `yaml:"render"`
	Server ServerConfig `yaml:"server"`
	Watch  WatchConfig  `yaml:"watch"`
}

// OutputConfig controls what generate writes and where
type OutputConfig struct {
	Dir      string   `yaml:"dir"`
	BaseName string   `yaml:"base_name"`
	Formats  []string `yaml:"formats"`
	Still    *bool    `yaml:"still,omitempty"`     // nil = enabled
	Animate  *bool    `yaml:"animation,omitempty"` // nil = enabled
}

// RenderConfig holds renderer settings
type RenderConfig struct {
	Width       int      `yaml:"width"`
	Height      int      `yaml:"height"`
	Elevation   *float64 `yaml:"elevation,omitempty"`
	Azimuth     *float64 `yaml:"azimuth,omitempty"`
	Supersample int      `yaml:"supersample"`
	Frames      int      `yaml:"frames"`
	FrameDelay  Duration `yaml:"frame_delay"`
	Legend      *bool    `yaml:"legend,omitempty"`
}

// ServerConfig holds preview server settings
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// WatchConfig holds file watcher settings
type WatchConfig struct {
	Debounce Duration `yaml:"debounce"`
}

// Duration wraps time.Duration for YAML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
