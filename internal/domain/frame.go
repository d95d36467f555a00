package domain

import (
	"fmt"

	"davitframe/internal/geom"
)

// Rail indexes into FrameAssembly.Horizontals
const (
	RailBottom = 0
	RailTop    = 1
)

var sides = [2]string{"left", "right"}

// FrameAssembly is one fully specified frame. It is built once by BuildFrame
// and read by exporters and the renderer; nothing mutates it afterwards.
type FrameAssembly struct {
	Spec         FrameSpec      `json:"spec"`
	Verticals    [2]Tube        `json:"verticals"`
	Horizontals  [2]Tube        `json:"horizontals"`
	Braces       [4]Brace       `json:"braces"`
	// Rings holds the one mounted half of each vertical's split ring, indexed
	// like Verticals. The two entries are halves of different rings.
	Rings        [2]RingSegment `json:"rings"`
	Cleat        Cleat          `json:"cleat"`
	SupportBars  []SupportBar   `json:"support_bars"`
	Tessellation int            `json:"tessellation"`
}

// PartCounts tallies the components of an assembly
type PartCounts struct {
	Verticals    int `json:"verticals" yaml:"verticals"`
	Horizontals  int `json:"horizontals" yaml:"horizontals"`
	Braces       int `json:"braces" yaml:"braces"`
	RingSegments int `json:"ring_segments" yaml:"ring_segments"`
	Cleats       int `json:"cleats" yaml:"cleats"`
	SupportBars  int `json:"support_bars" yaml:"support_bars"`
}

// BuildFrame applies the fixed layout rules to spec. The spec is validated
// before any primitive is constructed.
func BuildFrame(spec FrameSpec) (*FrameAssembly, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	f := &FrameAssembly{
		Spec:         spec,
		Tessellation: spec.EffectiveTessellation(),
	}

	h := spec.TubeHeight
	xs := [2]float64{0, spec.TubeSeparation}

	for i, x := range xs {
		t, err := wallTube(geom.Pt(x, 0, 0), geom.Pt(x, 0, h), spec.TubeDiameter, spec)
		if err != nil {
			return nil, fmt.Errorf("%s vertical tube: %w", sides[i], err)
		}
		f.Verticals[i] = t.withIdentity("vertical-"+sides[i], TubeKindVertical)
	}

	railZ := [2]float64{RailBottom: spec.BottomTubeOffset, RailTop: h}
	railNames := [2]string{RailBottom: "bottom", RailTop: "top"}
	for i, z := range railZ {
		t, err := wallTube(geom.Pt(xs[0], 0, z), geom.Pt(xs[1], 0, z), spec.TubeDiameter, spec)
		if err != nil {
			return nil, fmt.Errorf("%s horizontal tube: %w", railNames[i], err)
		}
		f.Horizontals[i] = t.withIdentity("horizontal-"+railNames[i], TubeKindHorizontal)
	}

	// Top corners first, then bottom; left before right.
	n := 0
	for _, rail := range [2]int{RailTop, RailBottom} {
		for side, x := range xs {
			corner := geom.Pt(x, 0, railZ[rail])
			b, err := MakeBrace(corner, f.Verticals[side], f.Horizontals[rail],
				spec.BraceLength, StandardBraceAngle, spec.BraceDiameter)
			if err != nil {
				return nil, fmt.Errorf("%s %s brace: %w", railNames[rail], sides[side], err)
			}
			if b.Tube, err = b.Tube.WithWall(spec.WallMin, spec.WallMax); err != nil {
				return nil, fmt.Errorf("%s %s brace: %w", railNames[rail], sides[side], err)
			}
			b.Tube = b.Tube.withIdentity(fmt.Sprintf("brace-%s-%s", railNames[rail], sides[side]), TubeKindBrace)
			f.Braces[n] = b
			n++
		}
	}

	for i, v := range f.Verticals {
		plusX, minusX, err := MakeRingPair(spec.RingHeight, v.Centerline(),
			spec.RingInnerRadius, spec.RingOuterRadius, spec.RingThickness, spec.RingGap)
		if err != nil {
			return nil, fmt.Errorf("%s ring: %w", sides[i], err)
		}
		// Only the outboard half is mounted; the inboard half would sit in the braced corner.
		ring := minusX
		if i == 1 {
			ring = plusX
		}
		ring.TubeID = v.ID
		f.Rings[i] = ring
	}

	top := f.Horizontals[RailTop]
	cleat, err := MakeCleat(geom.Pt(spec.TubeSeparation/2, 0, h+top.Radius()),
		spec.CleatLength, spec.CleatWidth, spec.CleatHeight)
	if err != nil {
		return nil, fmt.Errorf("cleat: %w", err)
	}
	cleat.TubeID = top.ID
	f.Cleat = cleat

	for i := 0; i < spec.SupportBarCount; i++ {
		bar, err := buildSupportBar(i, xs, f.Verticals, spec)
		if err != nil {
			return nil, fmt.Errorf("support bar %d: %w", i, err)
		}
		f.SupportBars = append(f.SupportBars, bar)
	}

	return f, nil
}

// buildSupportBar places bar i on vertical tube i%2. The first pair kicks out
// behind the frame (-Y), the second pair in front (+Y).
func buildSupportBar(i int, xs [2]float64, verticals [2]Tube, spec FrameSpec) (SupportBar, error) {
	side := i % 2
	dirY := -1.0
	if i >= 2 {
		dirY = 1.0
	}

	x := xs[side]
	run := spec.SupportBarRun()
	footY := dirY * run

	anchor := geom.Pt(x-spec.PlateWidth/2, footY-spec.PlateHeight/2, 0)
	plate, err := MakePlate(anchor, spec.PlateWidth, spec.PlateHeight,
		cornerHoles(spec.PlateWidth, spec.PlateHeight, spec.BoltHoleInset))
	if err != nil {
		return SupportBar{}, err
	}
	if plate, err = plate.WithThickness(spec.PlateThickness, spec.BoltHoleDiameter); err != nil {
		return SupportBar{}, err
	}

	foot := geom.Pt(x, footY, spec.PlateThickness)
	top := geom.Pt(x, 0, spec.PlateThickness+spec.SupportBarRise())
	bar, err := MakeSupportBar(foot, top, spec.SupportBarDiameter, spec.SupportBarAngle, plate)
	if err != nil {
		return SupportBar{}, err
	}
	if bar.Tube, err = bar.Tube.WithWall(spec.WallMin, spec.WallMax); err != nil {
		return SupportBar{}, err
	}
	bar.Tube = bar.Tube.withIdentity(fmt.Sprintf("support-%d", i), TubeKindSupport)
	bar.TubeID = verticals[side].ID
	return bar, nil
}

func wallTube(bottom, top geom.Point3D, diameter float64, spec FrameSpec) (Tube, error) {
	t, err := MakeTube(bottom, top, diameter)
	if err != nil {
		return Tube{}, err
	}
	return t.WithWall(spec.WallMin, spec.WallMax)
}

// Top returns the top horizontal tube
func (f *FrameAssembly) Top() Tube {
	return f.Horizontals[RailTop]
}

// Bottom returns the bottom horizontal tube
func (f *FrameAssembly) Bottom() Tube {
	return f.Horizontals[RailBottom]
}

// Tubes returns every cylindrical member in assembly order: verticals,
// horizontals, braces, support bars
func (f *FrameAssembly) Tubes() []Tube {
	tubes := make([]Tube, 0, 8+len(f.SupportBars))
	tubes = append(tubes, f.Verticals[:]...)
	tubes = append(tubes, f.Horizontals[:]...)
	for _, b := range f.Braces {
		tubes = append(tubes, b.Tube)
	}
	for _, s := range f.SupportBars {
		tubes = append(tubes, s.Tube)
	}
	return tubes
}

// Tube looks up a member by ID
func (f *FrameAssembly) Tube(id string) (Tube, bool) {
	for _, t := range f.Tubes() {
		if t.ID == id {
			return t, true
		}
	}
	return Tube{}, false
}

// Counts tallies the components
func (f *FrameAssembly) Counts() PartCounts {
	return PartCounts{
		Verticals:    len(f.Verticals),
		Horizontals:  len(f.Horizontals),
		Braces:       len(f.Braces),
		RingSegments: len(f.Rings),
		Cleats:       1,
		SupportBars:  len(f.SupportBars),
	}
}

// Bounds returns an axis-aligned box around every component
func (f *FrameAssembly) Bounds() geom.Bounds {
	b := geom.EmptyBounds()
	for _, t := range f.Tubes() {
		r := geom.Pt(t.Radius(), t.Radius(), t.Radius())
		b = b.Extend(t.Start.Sub(r)).Extend(t.Start.Add(r))
		b = b.Extend(t.End.Sub(r)).Extend(t.End.Add(r))
	}
	for _, ring := range f.Rings {
		b = b.Extend(ring.Center.Add(ring.Bulge().Scale(ring.OuterRadius)))
	}
	lo, hi := f.Cleat.Extents()
	b = b.Extend(lo).Extend(hi)
	for _, s := range f.SupportBars {
		for _, c := range s.Plate.Corners() {
			b = b.Extend(c)
		}
		b = b.Extend(s.Plate.Anchor)
	}
	return b
}
