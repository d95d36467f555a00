package codec

import (
	"bytes"
	"strings"
	"testing"
)

func TestOBJRoundTrip(t *testing.T) {
	f := buildFrame(t)
	c := NewOBJCodec()

	var buf bytes.Buffer
	if err := c.Export(f, &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	model, err := c.Parse(&buf)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	for _, tube := range f.Tubes() {
		obj, ok := model.Object(tube.ID)
		if !ok {
			t.Fatalf("object %s missing", tube.ID)
		}
		if len(obj.Vertices) < 2 {
			t.Fatalf("object %s has %d vertices", tube.ID, len(obj.Vertices))
		}
		start := model.Vertices[obj.Vertices[0]]
		end := model.Vertices[obj.Vertices[1]]
		if !start.ApproxEqual(tube.Start, 1e-6) {
			t.Errorf("%s start = %v, want %v", tube.ID, start, tube.Start)
		}
		if !end.ApproxEqual(tube.End, 1e-6) {
			t.Errorf("%s end = %v, want %v", tube.ID, end, tube.End)
		}
	}

	if obj, ok := model.Object("vertical-left"); !ok || obj.Group != LayerVerticalTubes {
		t.Errorf("vertical-left group = %+v", obj)
	}
	if obj, ok := model.Object("cleat"); !ok || obj.Group != LayerCleat || len(obj.Faces) != 12 {
		t.Errorf("cleat = %+v", obj)
	}
}

func TestOBJParse(t *testing.T) {
	src := `# comment
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
o quad
g PANEL
f 1/1/1 2/2/1 3/3/1 4/4/1
f -4 -3 -2
`
	model, err := NewOBJCodec().Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if len(model.Vertices) != 4 {
		t.Fatalf("vertices = %d, want 4", len(model.Vertices))
	}
	// vertices before the first "o" land in an implicit object
	if len(model.Objects) != 2 || model.Objects[0].Name != "default" {
		t.Fatalf("objects = %+v", model.Objects)
	}

	quad := model.Objects[1]
	if quad.Name != "quad" || quad.Group != "PANEL" {
		t.Errorf("quad = %+v", quad)
	}
	want := [][3]int{{0, 1, 2}, {0, 2, 3}, {0, 1, 2}}
	if len(quad.Faces) != len(want) {
		t.Fatalf("faces = %v, want %v", quad.Faces, want)
	}
	for i := range want {
		if quad.Faces[i] != want[i] {
			t.Errorf("face %d = %v, want %v", i, quad.Faces[i], want[i])
		}
	}
}

func TestOBJParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"short vertex", "v 1 2\n"},
		{"bad coordinate", "v 1 two 3\n"},
		{"short face", "v 0 0 0\nf 1 1\n"},
		{"index out of range", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 4\n"},
		{"bad index", "v 0 0 0\nf a b c\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewOBJCodec().Parse(strings.NewReader(tt.src)); err == nil {
				t.Error("expected error")
			}
		})
	}
}
