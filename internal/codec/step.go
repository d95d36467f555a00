package codec

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"davitframe/internal/domain"
	"davitframe/internal/geom"
	"davitframe/internal/mesh"
)

// stepEpoch stamps FILE_NAME unless Now is set, so identical frames export
// byte-identical files
var stepEpoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// STEPCodec writes ISO 10303-21 files in the AP214 schema. Each part is a
// FACETED_BREP built from the shared mesh.
type STEPCodec struct {
	// Now overrides the FILE_NAME timestamp
	Now func() time.Time
}

// NewSTEPCodec creates a new STEP codec
func NewSTEPCodec() *STEPCodec {
	return &STEPCodec{}
}

// Format returns the codec format identifier
func (c *STEPCodec) Format() string {
	return "step"
}

// Extension returns the file extension including the dot
func (c *STEPCodec) Extension() string {
	return ".step"
}

// Export writes frame as a STEP AP214 file with inch units
func (c *STEPCodec) Export(frame *domain.FrameAssembly, w io.Writer) error {
	stamp := stepEpoch
	if c.Now != nil {
		stamp = c.Now()
	}

	m := mesh.Build(frame)
	s := &stepWriter{w: bufio.NewWriter(w)}

	name := frame.Spec.Name
	if name == "" {
		name = "davit frame"
	}

	s.line("ISO-10303-21;")
	s.line("HEADER;")
	s.line("FILE_DESCRIPTION((%s),'2;1');", stepString(name))
	s.line("FILE_NAME(%s,%s,(''),(''),'davitframe','davitframe','');",
		stepString("davit_frame.step"), stepString(stamp.UTC().Format("2006-01-02T15:04:05")))
	s.line("FILE_SCHEMA(('AUTOMOTIVE_DESIGN { 1 0 10303 214 1 1 1 1 }'));")
	s.line("ENDSEC;")
	s.line("DATA;")

	appCtx := s.entity("APPLICATION_CONTEXT('automotive_design')")
	s.entity("APPLICATION_PROTOCOL_DEFINITION('international standard','automotive_design',2000,%s)", ref(appCtx))
	prodCtx := s.entity("PRODUCT_CONTEXT('',%s,'mechanical')", ref(appCtx))
	defCtx := s.entity("PRODUCT_DEFINITION_CONTEXT('part definition',%s,'design')", ref(appCtx))
	product := s.entity("PRODUCT('davit-frame',%s,'',(%s))", stepString(name), ref(prodCtx))
	formation := s.entity("PRODUCT_DEFINITION_FORMATION('','',%s)", ref(product))
	definition := s.entity("PRODUCT_DEFINITION('design','',%s,%s)", ref(formation), ref(defCtx))
	shape := s.entity("PRODUCT_DEFINITION_SHAPE('','',%s)", ref(definition))

	geomCtx := s.units()

	origin := s.entity("CARTESIAN_POINT('',(0.,0.,0.))")
	zDir := s.entity("DIRECTION('',(0.,0.,1.))")
	xDir := s.entity("DIRECTION('',(1.,0.,0.))")
	placement := s.entity("AXIS2_PLACEMENT_3D('',%s,%s,%s)", ref(origin), ref(zDir), ref(xDir))

	items := []int{placement}
	for _, part := range m.Parts {
		items = append(items, s.brep(m, part))
	}

	refs := make([]string, len(items))
	for i, id := range items {
		refs[i] = ref(id)
	}
	rep := s.entity("FACETED_BREP_SHAPE_REPRESENTATION('',(%s),%s)", strings.Join(refs, ","), ref(geomCtx))
	s.entity("SHAPE_DEFINITION_REPRESENTATION(%s,%s)", ref(shape), ref(rep))

	s.line("ENDSEC;")
	s.line("END-ISO-10303-21;")
	return s.flush()
}

// stepWriter numbers entity instances sequentially. The first write error
// sticks.
type stepWriter struct {
	w    *bufio.Writer
	err  error
	next int
}

func (s *stepWriter) line(format string, args ...any) {
	if s.err != nil {
		return
	}
	_, s.err = fmt.Fprintf(s.w, format+"\n", args...)
}

// entity writes one instance and returns its id
func (s *stepWriter) entity(format string, args ...any) int {
	s.next++
	s.line("#%d=%s;", s.next, fmt.Sprintf(format, args...))
	return s.next
}

func (s *stepWriter) flush() error {
	if s.err != nil {
		return fmt.Errorf("failed to write STEP: %w", s.err)
	}
	if err := s.w.Flush(); err != nil {
		return fmt.Errorf("failed to write STEP: %w", err)
	}
	return nil
}

// units declares inches as a conversion-based unit over millimetres and
// returns the geometric representation context
func (s *stepWriter) units() int {
	mm := s.entity("(LENGTH_UNIT()NAMED_UNIT(*)SI_UNIT(.MILLI.,.METRE.))")
	measure := s.entity("LENGTH_MEASURE_WITH_UNIT(LENGTH_MEASURE(25.4),%s)", ref(mm))
	exps := s.entity("DIMENSIONAL_EXPONENTS(1.,0.,0.,0.,0.,0.,0.)")
	inch := s.entity("(CONVERSION_BASED_UNIT('INCH',%s)LENGTH_UNIT()NAMED_UNIT(%s))", ref(measure), ref(exps))
	rad := s.entity("(NAMED_UNIT(*)PLANE_ANGLE_UNIT()SI_UNIT($,.RADIAN.))")
	sr := s.entity("(NAMED_UNIT(*)SI_UNIT($,.STERADIAN.)SOLID_ANGLE_UNIT())")
	tol := s.entity("UNCERTAINTY_MEASURE_WITH_UNIT(LENGTH_MEASURE(1.E-06),%s,'distance_accuracy_value','confusion accuracy')", ref(inch))
	return s.entity("(GEOMETRIC_REPRESENTATION_CONTEXT(3)GLOBAL_UNCERTAINTY_ASSIGNED_CONTEXT((%s))"+
		"GLOBAL_UNIT_ASSIGNED_CONTEXT((%s,%s,%s))REPRESENTATION_CONTEXT('Context #1','3D Context with UNIT and UNCERTAINTY'))",
		ref(tol), ref(inch), ref(rad), ref(sr))
}

// brep writes one part as a closed shell of triangular poly-loop faces
func (s *stepWriter) brep(m *mesh.Mesh, part mesh.Part) int {
	points := make(map[int]int, part.Last-part.First)
	for i := part.First; i < part.Last; i++ {
		points[i] = s.entity("CARTESIAN_POINT('',(%s))", stepPoint(m.Vertices[i]))
	}

	faces := make([]string, 0, len(part.Faces))
	for _, tri := range part.Faces {
		loop := s.entity("POLY_LOOP('',(%s,%s,%s))", ref(points[tri[0]]), ref(points[tri[1]]), ref(points[tri[2]]))
		bound := s.entity("FACE_OUTER_BOUND('',%s,.T.)", ref(loop))
		faces = append(faces, ref(s.entity("FACE('',(%s))", ref(bound))))
	}

	shell := s.entity("CLOSED_SHELL('',(%s))", strings.Join(faces, ","))
	return s.entity("FACETED_BREP(%s,%s)", stepString(part.Name), ref(shell))
}

func ref(id int) string {
	return "#" + strconv.Itoa(id)
}

func stepString(v string) string {
	return "'" + strings.ReplaceAll(v, "'", "''") + "'"
}

func stepReal(v float64) string {
	if v == 0 {
		return "0."
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func stepPoint(p geom.Point3D) string {
	return stepReal(p.X) + "," + stepReal(p.Y) + "," + stepReal(p.Z)
}
