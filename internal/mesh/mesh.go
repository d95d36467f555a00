// Package mesh tessellates a frame assembly into triangles.
//
// Every exporter and the renderer consume the same Mesh, built with the
// assembly's Tessellation count, so polygonal output stays dimensionally
// consistent across formats.
package mesh

import (
	"math"

	"davitframe/internal/domain"
	"davitframe/internal/geom"
)

// Kind classifies a part for layering and coloring
type Kind string

const (
	KindVertical   Kind = Kind(domain.TubeKindVertical)
	KindHorizontal Kind = Kind(domain.TubeKindHorizontal)
	KindBrace      Kind = Kind(domain.TubeKindBrace)
	KindSupport    Kind = Kind(domain.TubeKindSupport)
	KindRing       Kind = "ring"
	KindCleat      Kind = "cleat"
	KindPlate      Kind = "plate"
)

// Kinds lists every part kind in drawing order
func Kinds() []Kind {
	return []Kind{KindVertical, KindHorizontal, KindBrace, KindRing, KindCleat, KindSupport, KindPlate}
}

// Triangle indexes three vertices, counter-clockwise seen from outside
type Triangle [3]int

// Part is a named solid made of triangles
type Part struct {
	Name  string
	Kind  Kind
	Faces []Triangle
	// First and Last bound the part's vertex range [First, Last)
	First, Last int
}

// Mesh is an indexed triangle mesh of a whole assembly
type Mesh struct {
	Vertices []geom.Point3D
	Parts    []Part
	Segments int
}

// Build tessellates every component of f
func Build(f *domain.FrameAssembly) *Mesh {
	segments := f.Tessellation
	if segments < domain.MinTessellation {
		segments = domain.DefaultTessellation
	}
	m := &Mesh{Segments: segments}

	for _, t := range f.Verticals {
		m.Cylinder(t.ID, KindVertical, t.Start, t.End, t.Radius())
	}
	for _, t := range f.Horizontals {
		m.Cylinder(t.ID, KindHorizontal, t.Start, t.End, t.Radius())
	}
	for _, b := range f.Braces {
		m.Cylinder(b.ID, KindBrace, b.Start, b.End, b.Radius())
	}
	for i, r := range f.Rings {
		m.Ring(ringName(i, r), r)
	}

	lo, hi := f.Cleat.Extents()
	m.Box("cleat", KindCleat, lo, hi)

	for _, s := range f.SupportBars {
		m.Cylinder(s.ID, KindSupport, s.Start, s.End, s.Radius())
		p := s.Plate
		m.Box("plate-"+s.ID, KindPlate, p.Anchor, p.Anchor.Add(geom.Pt(p.Width, p.Height, p.Thickness)))
	}

	return m
}

func ringName(i int, r domain.RingSegment) string {
	if r.TubeID != "" {
		return "ring-" + r.TubeID
	}
	return "ring-" + string(rune('a'+i))
}

func (m *Mesh) add(p geom.Point3D) int {
	m.Vertices = append(m.Vertices, p)
	return len(m.Vertices) - 1
}

func (m *Mesh) begin(name string, kind Kind) *Part {
	m.Parts = append(m.Parts, Part{Name: name, Kind: kind, First: len(m.Vertices)})
	return &m.Parts[len(m.Parts)-1]
}

func (m *Mesh) end(p *Part) {
	p.Last = len(m.Vertices)
}

// Cylinder appends a capped cylinder. The cap centers are the exact
// centerline endpoints, so they survive any vertex-only round trip.
func (m *Mesh) Cylinder(name string, kind Kind, start, end geom.Point3D, radius float64) {
	part := m.begin(name, kind)
	defer m.end(part)

	axis := end.Sub(start)
	perp1, perp2 := geom.Basis(axis)
	n := m.Segments

	sc := m.add(start)
	ec := m.add(end)
	ring := make([][2]int, n)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		offset := perp1.Scale(radius * math.Cos(a)).Add(perp2.Scale(radius * math.Sin(a)))
		ring[i] = [2]int{m.add(start.Add(offset)), m.add(end.Add(offset))}
	}

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		s0, e0 := ring[i][0], ring[i][1]
		s1, e1 := ring[j][0], ring[j][1]
		part.Faces = append(part.Faces,
			Triangle{s0, s1, e1},
			Triangle{s0, e1, e0},
			Triangle{sc, s1, s0},
			Triangle{ec, e0, e1},
		)
	}
}

// Ring appends a flat annular sector extruded by the ring thickness
func (m *Mesh) Ring(name string, r domain.RingSegment) {
	part := m.begin(name, KindRing)
	defer m.end(part)

	steps := m.Segments / 2
	if steps < 2 {
		steps = 2
	}
	half := r.Normal.Scale(r.Thickness / 2)

	// per step: outer-front, inner-front, outer-back, inner-back
	idx := make([][4]int, steps+1)
	for k := 0; k <= steps; k++ {
		a := r.StartAngle + (r.EndAngle-r.StartAngle)*float64(k)/float64(steps)
		outer := r.PointAt(r.OuterRadius, a)
		inner := r.PointAt(r.InnerRadius, a)
		idx[k] = [4]int{
			m.add(outer.Add(half)),
			m.add(inner.Add(half)),
			m.add(outer.Sub(half)),
			m.add(inner.Sub(half)),
		}
	}

	for k := 0; k < steps; k++ {
		a, b := idx[k], idx[k+1]
		part.Faces = append(part.Faces,
			// front
			Triangle{a[0], b[0], b[1]}, Triangle{a[0], b[1], a[1]},
			// back
			Triangle{a[2], b[3], b[2]}, Triangle{a[2], a[3], b[3]},
			// outer wall
			Triangle{a[0], a[2], b[2]}, Triangle{a[0], b[2], b[0]},
			// inner wall
			Triangle{a[1], b[1], b[3]}, Triangle{a[1], b[3], a[3]},
		)
	}

	first, last := idx[0], idx[steps]
	part.Faces = append(part.Faces,
		Triangle{first[0], first[1], first[3]}, Triangle{first[0], first[3], first[2]},
		Triangle{last[0], last[2], last[3]}, Triangle{last[0], last[3], last[1]},
	)
}

// Box appends an axis-aligned box spanning lo to hi
func (m *Mesh) Box(name string, kind Kind, lo, hi geom.Point3D) {
	part := m.begin(name, kind)
	defer m.end(part)

	var v [8]int
	for i := 0; i < 8; i++ {
		p := lo
		if i&1 != 0 {
			p.X = hi.X
		}
		if i&2 != 0 {
			p.Y = hi.Y
		}
		if i&4 != 0 {
			p.Z = hi.Z
		}
		v[i] = m.add(p)
	}

	quads := [6][4]int{
		{0, 2, 3, 1}, // bottom (-Z)
		{4, 5, 7, 6}, // top (+Z)
		{0, 1, 5, 4}, // front (-Y)
		{2, 6, 7, 3}, // back (+Y)
		{0, 4, 6, 2}, // left (-X)
		{1, 3, 7, 5}, // right (+X)
	}
	for _, q := range quads {
		part.Faces = append(part.Faces,
			Triangle{v[q[0]], v[q[1]], v[q[2]]},
			Triangle{v[q[0]], v[q[2]], v[q[3]]},
		)
	}
}

// Normal returns the unit normal of t, or the zero vector for a degenerate triangle
func (m *Mesh) Normal(t Triangle) geom.Point3D {
	a, b, c := m.Vertices[t[0]], m.Vertices[t[1]], m.Vertices[t[2]]
	n, _ := b.Sub(a).Cross(c.Sub(a)).Unit()
	return n
}

// TriangleCount returns the number of faces across all parts
func (m *Mesh) TriangleCount() int {
	n := 0
	for _, p := range m.Parts {
		n += len(p.Faces)
	}
	return n
}

// Bounds returns the box around every vertex
func (m *Mesh) Bounds() geom.Bounds {
	b := geom.EmptyBounds()
	for _, v := range m.Vertices {
		b = b.Extend(v)
	}
	return b
}

// Part looks up a part by name
func (m *Mesh) Part(name string) (Part, bool) {
	for _, p := range m.Parts {
		if p.Name == name {
			return p, true
		}
	}
	return Part{}, false
}
