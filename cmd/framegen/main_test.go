package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"davitframe/internal/codec"
	"davitframe/internal/domain"
)

// writeConfig writes a small config with renders kept cheap
func writeConfig(t *testing.T, frame string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "davitframe.yaml")
	data := "variant: davit\n" + frame + `
output:
  still: false
  animation: false
render:
  width: 64
  height: 48
  supersample: 1
  frames: 2
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		out, err := run(t, "validate", "--config", writeConfig(t, ""))
		if err != nil {
			t.Fatalf("validate error = %v", err)
		}
		if !strings.Contains(out, "OK: 2 verticals, 2 horizontals, 4 braces, 2 ring segments") {
			t.Errorf("output = %s", out)
		}
	})

	t.Run("offset above height", func(t *testing.T) {
		_, err := run(t, "validate", "--config", writeConfig(t, "frame:\n  bottom_tube_offset: 50\n"))
		if !errors.Is(err, domain.ErrInvalidSpec) {
			t.Errorf("validate error = %v, want ErrInvalidSpec", err)
		}
	})

	t.Run("variant flag", func(t *testing.T) {
		out, err := run(t, "validate", "--config", writeConfig(t, ""), "--variant", "legacy")
		if err != nil || !strings.Contains(out, "Variant: legacy") {
			t.Errorf("validate --variant legacy: err=%v out=%s", err, out)
		}
	})
}

func TestSpecWriteAndRead(t *testing.T) {
	cfgPath := writeConfig(t, "frame:\n  tube_height: 33\n")
	saved := filepath.Join(t.TempDir(), "saved.yaml")

	if _, err := run(t, "spec", "--config", cfgPath, "--write", saved); err != nil {
		t.Fatalf("spec --write error = %v", err)
	}

	out, err := run(t, "spec", "--config", saved)
	if err != nil {
		t.Fatalf("spec error = %v", err)
	}
	if !strings.Contains(out, "tube_height: 33") {
		t.Errorf("spec output missing override:\n%s", out)
	}
}

func TestExport(t *testing.T) {
	cfgPath := writeConfig(t, "")

	out, err := run(t, "export", "obj", "--config", cfgPath)
	if err != nil {
		t.Fatalf("export error = %v", err)
	}
	model, err := codec.NewOBJCodec().Parse(strings.NewReader(out))
	if err != nil {
		t.Fatalf("parse exported obj: %v", err)
	}
	if _, ok := model.Object("vertical-left"); !ok {
		t.Error("exported obj missing vertical-left")
	}

	target := filepath.Join(t.TempDir(), "frame.dxf")
	if _, err := run(t, "export", "dxf", "--config", cfgPath, "-o", target); err != nil {
		t.Fatalf("export -o error = %v", err)
	}
	if data, err := os.ReadFile(target); err != nil || !bytes.Contains(data, []byte("AC1024")) {
		t.Errorf("dxf file: err=%v", err)
	}

	if _, err := run(t, "export", "iges", "--config", cfgPath); !errors.Is(err, codec.ErrUnknownFormat) {
		t.Errorf("export iges error = %v", err)
	}
}

func TestCutList(t *testing.T) {
	out, err := run(t, "cutlist", "--config", writeConfig(t, ""))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"PART", "Vertical tube", "Corner brace", "Material: 316 stainless steel"} {
		if !strings.Contains(out, want) {
			t.Errorf("cutlist missing %q:\n%s", want, out)
		}
	}
}

func TestGenerate(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	out, err := run(t, "generate", "--config", writeConfig(t, ""), "--out", dir, "-f", "json,obj")
	if err != nil {
		t.Fatalf("generate error = %v", err)
	}
	for _, name := range []string{"davit_frame.json", "davit_frame.obj"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
		if !strings.Contains(out, name) {
			t.Errorf("output does not list %s:\n%s", name, out)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "davit_frame.png")); !os.IsNotExist(err) {
		t.Error("still written although disabled")
	}
}

func TestRenderToFile(t *testing.T) {
	target := filepath.Join(t.TempDir(), "still.png")
	if _, err := run(t, "render", "--config", writeConfig(t, ""), "-o", target, "--azim", "90"); err != nil {
		t.Fatalf("render error = %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("render output is not a PNG")
	}
}

func TestSpecFileFlag(t *testing.T) {
	specPath := filepath.Join(t.TempDir(), "frame.json")
	if err := os.WriteFile(specPath, []byte(`{"tube_height": 40}`), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "spec", "--config", writeConfig(t, ""), "--spec", specPath)
	if err != nil {
		t.Fatalf("spec --spec error = %v", err)
	}
	if !strings.Contains(out, "tube_height: 40") {
		t.Errorf("spec file not applied:\n%s", out)
	}

	if _, err := run(t, "validate", "--config", writeConfig(t, ""), "--spec", filepath.Join(t.TempDir(), "frame.toml")); !errors.Is(err, codec.ErrUnknownFormat) {
		t.Errorf("validate with .toml spec error = %v", err)
	}
}
