package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"davitframe/internal/domain"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != 1 || cfg.Variant != domain.VariantDavit {
		t.Errorf("version=%d variant=%s", cfg.Version, cfg.Variant)
	}
	if len(cfg.Output.Formats) != 5 {
		t.Errorf("Formats = %v", cfg.Output.Formats)
	}
	if !cfg.StillEnabled() || !cfg.AnimationEnabled() {
		t.Error("still and animation should default to enabled")
	}
	if cfg.Render.Frames != 24 || cfg.Render.FrameDelay.Duration() != 200*time.Millisecond {
		t.Errorf("render = %+v", cfg.Render)
	}

	spec, err := cfg.FrameSpec()
	if err != nil {
		t.Fatalf("FrameSpec() error = %v", err)
	}
	if spec != domain.DavitFrameSpec() {
		t.Error("default spec should be the davit frame")
	}
}

func TestParseFrameOverrides(t *testing.T) {
	data := []byte(`
variant: legacy
frame:
  tube_height: 50
  support_bar_count: 4
output:
  formats: [dxf, obj]
  animation: false
render:
  elevation: 35
  frame_delay: 100ms
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	spec, err := cfg.FrameSpec()
	if err != nil {
		t.Fatalf("FrameSpec() error = %v", err)
	}
	if spec.TubeHeight != 50 || spec.SupportBarCount != 4 {
		t.Errorf("overrides not applied: height=%g bars=%d", spec.TubeHeight, spec.SupportBarCount)
	}
	// untouched fields keep the legacy values
	if spec.TubeDiameter != 2.0 || spec.BottomTubeOffset != 12 {
		t.Errorf("legacy defaults lost: od=%g offset=%g", spec.TubeDiameter, spec.BottomTubeOffset)
	}

	if cfg.AnimationEnabled() || !cfg.StillEnabled() {
		t.Error("animation should be disabled, still enabled")
	}
	if strings.Join(cfg.Output.Formats, ",") != "dxf,obj" {
		t.Errorf("Formats = %v", cfg.Output.Formats)
	}

	opts := cfg.RenderOptions()
	if opts.Elevation != 35 || opts.Azimuth != 45 || opts.FrameDelay != 100*time.Millisecond {
		t.Errorf("RenderOptions() = %+v", opts)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"malformed", "variant: [\n"},
		{"unknown variant", "variant: catamaran\n"},
		{"bad frame field type", "frame:\n  tube_height: tall\n"},
		{"bad duration", "render:\n  frame_delay: soon\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvVariant, "legacy")
	t.Setenv(EnvOutputDir, "/tmp/frames")
	t.Setenv(EnvAddr, "127.0.0.1:9000")

	cfg, err := Parse([]byte("variant: davit\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Variant != "legacy" || cfg.Output.Dir != "/tmp/frames" || cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "config.yaml")

	cfg := DefaultConfig()
	spec := domain.DavitFrameSpec()
	spec.TubeHeight = 33
	if err := cfg.SetFrame(spec); err != nil {
		t.Fatalf("SetFrame() error: %v", err)
	}
	cfg.Output.Dir = "/srv/frames"

	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, path, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath() error: %v", err)
	}
	if path != configPath {
		t.Errorf("path = %s, want %s", path, configPath)
	}
	if loaded.Output.Dir != "/srv/frames" {
		t.Errorf("Output.Dir = %s", loaded.Output.Dir)
	}

	got, err := loaded.FrameSpec()
	if err != nil {
		t.Fatal(err)
	}
	if got != spec {
		t.Errorf("FrameSpec() = %+v, want %+v", got, spec)
	}
}

func TestLoadFromPathMissing(t *testing.T) {
	if _, _, err := LoadFromPath(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFindConfigPath(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv(EnvConfigPath, "")
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	t.Setenv("HOME", filepath.Join(tmpDir, "home"))

	oldWd, _ := os.Getwd()
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(oldWd)

	if found := FindConfigPath(); found != "" && !strings.HasPrefix(found, "/etc/") {
		t.Errorf("FindConfigPath() = %q with no config present", found)
	}

	// XDG location
	xdgPath := filepath.Join(tmpDir, "xdg", ConfigDirName, "config.yaml")
	if err := DefaultConfig().Save(xdgPath); err != nil {
		t.Fatal(err)
	}
	if found := FindConfigPath(); found != xdgPath {
		t.Errorf("FindConfigPath() = %q, want %q", found, xdgPath)
	}
	if got := DefaultConfigPath(); got != xdgPath {
		t.Errorf("DefaultConfigPath() = %q, want %q", got, xdgPath)
	}

	// working directory beats XDG
	if err := DefaultConfig().Save(filepath.Join(tmpDir, ConfigFileName)); err != nil {
		t.Fatal(err)
	}
	if found := FindConfigPath(); filepath.Base(found) != ConfigFileName {
		t.Errorf("FindConfigPath() = %q, want working directory file", found)
	}

	// explicit path beats everything; a missing one falls through
	explicit := filepath.Join(tmpDir, "explicit.yaml")
	t.Setenv(EnvConfigPath, explicit)
	if found := FindConfigPath(); filepath.Base(found) != ConfigFileName {
		t.Errorf("missing explicit path should fall through, got %q", found)
	}
	if err := DefaultConfig().Save(explicit); err != nil {
		t.Fatal(err)
	}
	if found := FindConfigPath(); found != explicit {
		t.Errorf("FindConfigPath() = %q, want %q", found, explicit)
	}
}

func TestSearchPathsOrder(t *testing.T) {
	t.Setenv(EnvConfigPath, "/x/explicit.yaml")
	t.Setenv("XDG_CONFIG_HOME", "/x/xdg")
	t.Setenv("HOME", "/x/home")

	want := []string{
		"/x/explicit.yaml",
		ConfigFileName,
		"/x/xdg/davitframe/config.yaml",
		"/x/home/.config/davitframe/config.yaml",
		"/etc/davitframe/config.yaml",
	}
	got := SearchPaths()
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("SearchPaths() = %v, want %v", got, want)
	}
}

func TestDuration(t *testing.T) {
	d := Duration(5 * time.Minute)

	if d.Duration() != 5*time.Minute {
		t.Errorf("Duration() = %s, want 5m", d.Duration())
	}

	marshaled, err := d.MarshalYAML()
	if err != nil {
		t.Fatalf("MarshalYAML() error: %v", err)
	}
	if marshaled != "5m0s" {
		t.Errorf("MarshalYAML() = %v, want 5m0s", marshaled)
	}
}

func TestSummary(t *testing.T) {
	s := DefaultConfig().Summary()
	for _, want := range []string{"Variant: davit", "dxf,step,obj,json,yaml", "24 frames"} {
		if !strings.Contains(s, want) {
			t.Errorf("Summary() missing %q:\n%s", want, s)
		}
	}
}
