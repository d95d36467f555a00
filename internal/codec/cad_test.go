package codec

import (
	"bufio"
	"bytes"
	"strings"
	"testing"
	"time"

	"davitframe/internal/domain"
	"davitframe/internal/mesh"
)

// dxfPairs splits DXF output into (code, value) pairs
func dxfPairs(t *testing.T, data []byte) [][2]string {
	t.Helper()
	var pairs [][2]string
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		code := strings.TrimSpace(sc.Text())
		if !sc.Scan() {
			t.Fatalf("dangling group code %q", code)
		}
		pairs = append(pairs, [2]string{code, sc.Text()})
	}
	return pairs
}

func TestDXFExport(t *testing.T) {
	f := buildFrame(t)
	var buf bytes.Buffer
	if err := NewDXFCodec().Export(f, &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	pairs := dxfPairs(t, buf.Bytes())
	if last := pairs[len(pairs)-1]; last != [2]string{"0", "EOF"} {
		t.Errorf("last pair = %v, want EOF", last)
	}

	entities := map[string]int{}
	layers := map[string]bool{}
	current := ""
	for _, p := range pairs {
		switch {
		case p[0] == "0":
			current = p[1]
			entities[current]++
		case p[0] == "2" && current == "LAYER":
			layers[p[1]] = true
		}
	}

	for _, name := range Layers() {
		if !layers[name] {
			t.Errorf("layer %s not declared", name)
		}
	}

	m := mesh.Build(f)
	if entities["3DFACE"] != m.TriangleCount() {
		t.Errorf("3DFACE count = %d, want %d", entities["3DFACE"], m.TriangleCount())
	}
	// 4 bolt holes per support plate
	if want := 4 * len(f.SupportBars); entities["CIRCLE"] != want {
		t.Errorf("CIRCLE count = %d, want %d", entities["CIRCLE"], want)
	}
	if entities["LINE"] < len(f.Tubes()) {
		t.Errorf("LINE count = %d, want at least one centerline per tube", entities["LINE"])
	}

	out := buf.String()
	for _, want := range []string{"AC1024", "$FINGERPRINTGUID", "CENTER", "30.500\"", "24.125\"", "All joints to be welded"} {
		if !strings.Contains(out, want) {
			t.Errorf("DXF missing %q", want)
		}
	}
}

func TestFingerprint(t *testing.T) {
	a, err := Fingerprint(domain.DavitFrameSpec())
	if err != nil {
		t.Fatal(err)
	}
	b, _ := Fingerprint(domain.DavitFrameSpec())
	c, _ := Fingerprint(domain.LegacyFrameSpec())

	if a != b {
		t.Error("fingerprint not stable")
	}
	if a == c {
		t.Error("different specs share a fingerprint")
	}
	if a.Version() != 5 {
		t.Errorf("version = %d, want 5", a.Version())
	}
}

func TestSTEPExport(t *testing.T) {
	f := buildFrame(t)
	c := &STEPCodec{Now: func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }}

	var buf bytes.Buffer
	if err := c.Export(f, &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	out := buf.String()

	if !strings.HasPrefix(out, "ISO-10303-21;\n") || !strings.HasSuffix(out, "END-ISO-10303-21;\n") {
		t.Error("missing ISO-10303-21 envelope")
	}
	for _, want := range []string{
		"AUTOMOTIVE_DESIGN { 1 0 10303 214 1 1 1 1 }",
		"CONVERSION_BASED_UNIT('INCH'",
		"2024-05-01T12:00:00",
		"FACETED_BREP('vertical-left'",
		"FACETED_BREP('cleat'",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("STEP missing %q", want)
		}
	}

	m := mesh.Build(f)
	if got := strings.Count(out, "=FACETED_BREP("); got != len(m.Parts) {
		t.Errorf("FACETED_BREP count = %d, want %d", got, len(m.Parts))
	}
	if got := strings.Count(out, "=POLY_LOOP("); got != m.TriangleCount() {
		t.Errorf("POLY_LOOP count = %d, want %d", got, m.TriangleCount())
	}
}

func TestStepHelpers(t *testing.T) {
	if got := stepString("it's"); got != "'it''s'" {
		t.Errorf("stepString = %s", got)
	}
	if got := stepReal(0); got != "0." {
		t.Errorf("stepReal(0) = %s", got)
	}
	if got := stepReal(-1.5); got != "-1.500000" {
		t.Errorf("stepReal(-1.5) = %s", got)
	}
}
