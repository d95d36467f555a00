package codec

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"davitframe/internal/domain"
	"davitframe/internal/geom"
	"davitframe/internal/mesh"

	"github.com/google/uuid"
)

// fingerprintNamespace seeds the name-based $FINGERPRINTGUID so the same
// spec always yields the same drawing identity
var fingerprintNamespace = uuid.MustParse("6f1e0f52-8d3c-4a8e-9d0b-3c2a6f7e5d41")

// Text heights in drawing units (inches)
const (
	dxfTitleHeight = 0.75
	dxfNoteHeight  = 0.35
	dxfDimHeight   = 0.4
)

// AutoCAD color index per layer
var dxfLayerColors = map[string]int{
	LayerVerticalTubes:   1, // red
	LayerHorizontalTubes: 2, // yellow
	LayerCornerBraces:    3, // green
	LayerRings:           6, // magenta
	LayerCleat:           4, // cyan
	LayerSupportBars:     5, // blue
	LayerCenterlines:     8,
	LayerDimensions:      7,
}

// DXFCodec writes ASCII DXF (R2010) drawings
type DXFCodec struct{}

// NewDXFCodec creates a new DXF codec
func NewDXFCodec() *DXFCodec {
	return &DXFCodec{}
}

// Format returns the codec format identifier
func (c *DXFCodec) Format() string {
	return "dxf"
}

// Extension returns the file extension including the dot
func (c *DXFCodec) Extension() string {
	return ".dxf"
}

// Fingerprint returns the deterministic drawing GUID for spec
func Fingerprint(spec domain.FrameSpec) (uuid.UUID, error) {
	data, err := json.Marshal(spec)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to fingerprint spec: %w", err)
	}
	return uuid.NewSHA1(fingerprintNamespace, data), nil
}

// Export writes frame as a DXF drawing: solids as 3DFACE meshes per layer,
// centerlines, dimensions, bolt holes and the fabrication notes
func (c *DXFCodec) Export(frame *domain.FrameAssembly, w io.Writer) error {
	guid, err := Fingerprint(frame.Spec)
	if err != nil {
		return err
	}

	m := mesh.Build(frame)
	d := &dxfWriter{w: bufio.NewWriter(w), handle: 0x20}

	d.header(m.Bounds(), guid)
	d.tables()

	d.section("ENTITIES")
	for _, part := range m.Parts {
		layer := LayerFor(part.Kind)
		for _, tri := range part.Faces {
			d.face(layer, m.Vertices[tri[0]], m.Vertices[tri[1]], m.Vertices[tri[2]])
		}
	}
	for _, t := range frame.Tubes() {
		d.line(LayerCenterlines, t.Start, t.End)
	}
	for _, s := range frame.SupportBars {
		for i := range s.Plate.BoltHoles {
			d.circle(LayerSupportBars, s.Plate.HoleCenter(i), s.Plate.HoleDiameter/2)
		}
	}
	d.dimensions(frame)
	d.notes(frame)
	d.endSection()

	d.pair(0, "EOF")
	return d.flush()
}

// dxfWriter emits group-code/value pairs. The first write error sticks and
// every later call becomes a no-op.
type dxfWriter struct {
	w      *bufio.Writer
	err    error
	handle int
}

func (d *dxfWriter) pair(code int, value string) {
	if d.err != nil {
		return
	}
	_, d.err = fmt.Fprintf(d.w, "%3d\n%s\n", code, value)
}

func (d *dxfWriter) num(code int, v float64) {
	d.pair(code, strconv.FormatFloat(v, 'f', 6, 64))
}

func (d *dxfWriter) integer(code, v int) {
	d.pair(code, strconv.Itoa(v))
}

// point writes p with codes base, base+10, base+20
func (d *dxfWriter) point(base int, p geom.Point3D) {
	d.num(base, p.X)
	d.num(base+10, p.Y)
	d.num(base+20, p.Z)
}

func (d *dxfWriter) nextHandle() string {
	h := strconv.FormatInt(int64(d.handle), 16)
	d.handle++
	return strings.ToUpper(h)
}

func (d *dxfWriter) section(name string) {
	d.pair(0, "SECTION")
	d.pair(2, name)
}

func (d *dxfWriter) endSection() {
	d.pair(0, "ENDSEC")
}

func (d *dxfWriter) flush() error {
	if d.err != nil {
		return fmt.Errorf("failed to write DXF: %w", d.err)
	}
	if err := d.w.Flush(); err != nil {
		return fmt.Errorf("failed to write DXF: %w", err)
	}
	return nil
}

func (d *dxfWriter) header(b geom.Bounds, guid uuid.UUID) {
	d.section("HEADER")
	d.pair(9, "$ACADVER")
	d.pair(1, "AC1024")
	d.pair(9, "$INSUNITS")
	d.integer(70, 1) // inches
	d.pair(9, "$MEASUREMENT")
	d.integer(70, 0) // imperial
	d.pair(9, "$EXTMIN")
	d.point(10, b.Min)
	d.pair(9, "$EXTMAX")
	d.point(10, b.Max)
	d.pair(9, "$FINGERPRINTGUID")
	d.pair(2, "{"+strings.ToUpper(guid.String())+"}")
	d.endSection()
}

func (d *dxfWriter) tables() {
	d.section("TABLES")

	d.table("LTYPE", 2)
	d.linetype("CONTINUOUS", "Solid line", nil)
	d.linetype("CENTER", "Center ____ _ ____ _ ____", []float64{1.25, -0.25, 0.25, -0.25})
	d.pair(0, "ENDTAB")

	layers := Layers()
	d.table("LAYER", len(layers))
	for _, name := range layers {
		ltype := "CONTINUOUS"
		if name == LayerCenterlines {
			ltype = "CENTER"
		}
		d.pair(0, "LAYER")
		d.pair(5, d.nextHandle())
		d.pair(100, "AcDbSymbolTableRecord")
		d.pair(100, "AcDbLayerTableRecord")
		d.pair(2, name)
		d.integer(70, 0)
		d.integer(62, dxfLayerColors[name])
		d.pair(6, ltype)
	}
	d.pair(0, "ENDTAB")

	d.endSection()
}

func (d *dxfWriter) table(name string, entries int) {
	d.pair(0, "TABLE")
	d.pair(2, name)
	d.pair(5, d.nextHandle())
	d.pair(100, "AcDbSymbolTable")
	d.integer(70, entries)
}

func (d *dxfWriter) linetype(name, description string, pattern []float64) {
	total := 0.0
	for _, p := range pattern {
		if p < 0 {
			total -= p
		} else {
			total += p
		}
	}

	d.pair(0, "LTYPE")
	d.pair(5, d.nextHandle())
	d.pair(100, "AcDbSymbolTableRecord")
	d.pair(100, "AcDbLinetypeTableRecord")
	d.pair(2, name)
	d.integer(70, 0)
	d.pair(3, description)
	d.integer(72, 65)
	d.integer(73, len(pattern))
	d.num(40, total)
	for _, p := range pattern {
		d.num(49, p)
		d.integer(74, 0)
	}
}

func (d *dxfWriter) entity(kind, layer, subclass string) {
	d.pair(0, kind)
	d.pair(5, d.nextHandle())
	d.pair(100, "AcDbEntity")
	d.pair(8, layer)
	d.pair(100, subclass)
}

// face writes a triangle as a 3DFACE with the last corner repeated
func (d *dxfWriter) face(layer string, a, b, c geom.Point3D) {
	d.entity("3DFACE", layer, "AcDbFace")
	d.point(10, a)
	d.point(11, b)
	d.point(12, c)
	d.point(13, c)
}

func (d *dxfWriter) line(layer string, a, b geom.Point3D) {
	d.entity("LINE", layer, "AcDbLine")
	d.point(10, a)
	d.point(11, b)
}

func (d *dxfWriter) circle(layer string, center geom.Point3D, radius float64) {
	d.entity("CIRCLE", layer, "AcDbCircle")
	d.point(10, center)
	d.num(40, radius)
}

func (d *dxfWriter) text(layer string, at geom.Point3D, height float64, value string) {
	d.entity("TEXT", layer, "AcDbText")
	d.point(10, at)
	d.num(40, height)
	d.pair(1, value)
	d.pair(100, "AcDbText")
}

// dimension draws a dimension line offset from the measured span with
// extension lines back to it and the length as text at its midpoint
func (d *dxfWriter) dimension(from, to, offset geom.Point3D) {
	a, b := from.Add(offset), to.Add(offset)
	d.line(LayerDimensions, from, a)
	d.line(LayerDimensions, to, b)
	d.line(LayerDimensions, a, b)
	d.text(LayerDimensions, a.Lerp(b, 0.5), dxfDimHeight, fmt.Sprintf("%.3f\"", from.Distance(to)))
}

func (d *dxfWriter) dimensions(f *domain.FrameAssembly) {
	s := f.Spec
	gap := s.TubeDiameter * 2
	left, right := f.Verticals[0], f.Verticals[1]

	d.dimension(left.Start, left.End, geom.Pt(-gap, 0, 0))
	d.dimension(left.Start, right.Start, geom.Pt(0, 0, -gap))
	d.dimension(right.Start, f.Bottom().End, geom.Pt(gap, 0, 0))
	d.dimension(right.Start, geom.Pt(right.Start.X, 0, s.RingHeight), geom.Pt(2*gap, 0, 0))
}

func (d *dxfWriter) notes(f *domain.FrameAssembly) {
	x := f.Spec.TubeSeparation + 4*f.Spec.TubeDiameter + 2
	z := f.Spec.TubeHeight

	d.text(LayerDimensions, geom.Pt(x, 0, z), dxfTitleHeight, strings.ToUpper(f.Spec.Name))
	for i, note := range domain.FabricationNotes(f.Spec) {
		z := z - dxfTitleHeight - float64(i+1)*dxfNoteHeight*1.6
		d.text(LayerDimensions, geom.Pt(x, 0, z), dxfNoteHeight, note)
	}
}
