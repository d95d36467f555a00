package domain

import (
	"fmt"
	"math"
	"strings"
)

// Frame variants documented for the project
const (
	VariantDavit  = "davit"
	VariantLegacy = "legacy"
)

// MinTessellation is the smallest accepted radial facet count
const MinTessellation = 6

// FrameSpec enumerates every tunable dimension of the frame. All lengths are
// inches and all angles are degrees.
type FrameSpec struct {
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	TubeHeight       float64 `json:"tube_height" yaml:"tube_height"`
	TubeSeparation   float64 `json:"tube_separation" yaml:"tube_separation"`
	TubeDiameter     float64 `json:"tube_diameter" yaml:"tube_diameter"`
	WallMin          float64 `json:"wall_min" yaml:"wall_min"`
	WallMax          float64 `json:"wall_max" yaml:"wall_max"`
	BottomTubeOffset float64 `json:"bottom_tube_offset" yaml:"bottom_tube_offset"`

	BraceLength   float64 `json:"brace_length" yaml:"brace_length"`
	BraceDiameter float64 `json:"brace_diameter" yaml:"brace_diameter"`
	BraceCount    int     `json:"brace_count" yaml:"brace_count"`

	RingHeight      float64 `json:"ring_height" yaml:"ring_height"`
	RingInnerRadius float64 `json:"ring_inner_radius" yaml:"ring_inner_radius"`
	RingOuterRadius float64 `json:"ring_outer_radius" yaml:"ring_outer_radius"`
	RingThickness   float64 `json:"ring_thickness" yaml:"ring_thickness"`
	RingGap         float64 `json:"ring_gap" yaml:"ring_gap"`

	CleatLength float64 `json:"cleat_length" yaml:"cleat_length"`
	CleatWidth  float64 `json:"cleat_width" yaml:"cleat_width"`
	CleatHeight float64 `json:"cleat_height" yaml:"cleat_height"`

	SupportBarCount    int     `json:"support_bar_count" yaml:"support_bar_count"`
	SupportBarLength   float64 `json:"support_bar_length" yaml:"support_bar_length"`
	SupportBarDiameter float64 `json:"support_bar_diameter" yaml:"support_bar_diameter"`
	SupportBarAngle    float64 `json:"support_bar_angle" yaml:"support_bar_angle"`

	PlateWidth       float64 `json:"plate_width" yaml:"plate_width"`
	PlateHeight      float64 `json:"plate_height" yaml:"plate_height"`
	PlateThickness   float64 `json:"plate_thickness" yaml:"plate_thickness"`
	BoltHoleDiameter float64 `json:"bolt_hole_diameter" yaml:"bolt_hole_diameter"`
	BoltHoleInset    float64 `json:"bolt_hole_inset" yaml:"bolt_hole_inset"`

	// Tessellation is the radial facet count for mesh output; 0 selects the default
	Tessellation int `json:"tessellation,omitempty" yaml:"tessellation,omitempty"`
}

// DavitFrameSpec returns the 30.5" x 24.125" marine davit support frame.
// This is the canonical default.
func DavitFrameSpec() FrameSpec {
	return FrameSpec{
		Name:             "316 Stainless Steel Marine Davit Support Frame",
		TubeHeight:       30.5,
		TubeSeparation:   24.125,
		TubeDiameter:     1.375,
		WallMin:          0.065,
		WallMax:          0.120,
		BottomTubeOffset: 5.0,

		BraceLength:   12.0,
		BraceDiameter: 1.125,
		BraceCount:    4,

		RingHeight:      27.5,
		RingInnerRadius: 1.0,
		RingOuterRadius: 1.5,
		RingThickness:   0.25,
		RingGap:         0.0625,

		CleatLength: 6.0,
		CleatWidth:  1.5,
		CleatHeight: 0.3,

		SupportBarCount:    2,
		SupportBarLength:   14.0,
		SupportBarDiameter: 1.0,
		SupportBarAngle:    60.0,

		PlateWidth:       4.0,
		PlateHeight:      4.0,
		PlateThickness:   0.25,
		BoltHoleDiameter: 0.375,
		BoltHoleInset:    0.75,

		Tessellation: 16,
	}
}

// LegacyFrameSpec returns the earlier 48" frame built from 2" tube throughout
func LegacyFrameSpec() FrameSpec {
	s := DavitFrameSpec()
	s.Name = "Stainless Steel Metal Frame With Corner Reinforcement Braces"
	s.TubeHeight = 48.0
	s.TubeSeparation = 24.0
	s.TubeDiameter = 2.0
	s.BottomTubeOffset = 12.0
	s.BraceDiameter = 2.0
	s.RingHeight = 40.0
	s.RingInnerRadius = 1.25
	s.RingOuterRadius = 1.75
	s.SupportBarLength = 20.0
	s.SupportBarDiameter = 1.5
	return s
}

// FrameSpecVariant resolves a variant name to its spec
func FrameSpecVariant(name string) (FrameSpec, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", VariantDavit:
		return DavitFrameSpec(), nil
	case VariantLegacy:
		return LegacyFrameSpec(), nil
	default:
		return FrameSpec{}, fmt.Errorf("unknown frame variant %q (want %s or %s)", name, VariantDavit, VariantLegacy)
	}
}

// Variants lists the known variant names
func Variants() []string {
	return []string{VariantDavit, VariantLegacy}
}

// EffectiveTessellation returns the facet count to use for mesh output
func (s FrameSpec) EffectiveTessellation() int {
	if s.Tessellation == 0 {
		return DefaultTessellation
	}
	return s.Tessellation
}

// DefaultTessellation is the radial facet count used when a spec leaves it unset
const DefaultTessellation = 16

// BraceLeg returns the distance from each corner to the brace ends along both members
func (s FrameSpec) BraceLeg() float64 {
	return s.BraceLength * math.Sin(StandardBraceAngle*math.Pi/180)
}

// SupportBarRise returns the height at which a support bar meets its vertical tube
func (s FrameSpec) SupportBarRise() float64 {
	return s.SupportBarLength * math.Sin(s.SupportBarAngle*math.Pi/180)
}

// SupportBarRun returns the horizontal distance from a vertical tube to the bar foot
func (s FrameSpec) SupportBarRun() float64 {
	return s.SupportBarLength * math.Cos(s.SupportBarAngle*math.Pi/180)
}

// Validate checks that every derived position stays inside the bounds implied
// by the other dimensions. It runs before any primitive is constructed.
func (s FrameSpec) Validate() error {
	for _, f := range s.floatFields() {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return specError(f.name, f.value, "must be finite")
		}
	}

	if !(s.TubeHeight > 0) {
		return specError("tube_height", s.TubeHeight, "must be positive")
	}
	if s.BottomTubeOffset < 0 {
		return specError("bottom_tube_offset", s.BottomTubeOffset, "must not be negative")
	}
	if s.BottomTubeOffset >= s.TubeHeight {
		return specError("bottom_tube_offset", s.BottomTubeOffset,
			fmt.Sprintf("must be below the tube height %g", s.TubeHeight))
	}

	if s.BraceCount != 4 {
		return specError("brace_count", float64(s.BraceCount), "frame has exactly four corner braces")
	}
	leg := s.BraceLeg()
	if leg > s.TubeSeparation/2 {
		return specError("brace_length", s.BraceLength,
			fmt.Sprintf("brace leg %.3f exceeds half the tube separation %g", leg, s.TubeSeparation))
	}
	if s.BottomTubeOffset+leg > s.TubeHeight-leg {
		return specError("brace_length", s.BraceLength, "top and bottom braces overlap along the vertical tubes")
	}

	if s.RingHeight-s.RingOuterRadius < 0 {
		return specError("ring_height", s.RingHeight, "ring extends below the base of the tube")
	}
	if s.RingHeight+s.RingOuterRadius > s.TubeHeight {
		return specError("ring_height", s.RingHeight,
			fmt.Sprintf("ring extends above the tube height %g", s.TubeHeight))
	}
	if s.RingInnerRadius <= s.TubeDiameter/2 {
		return specError("ring_inner_radius", s.RingInnerRadius, "ring does not clear the vertical tube")
	}

	if s.CleatLength > s.TubeSeparation {
		return specError("cleat_length", s.CleatLength, "cleat overhangs the top tube")
	}

	if s.SupportBarCount < 0 || s.SupportBarCount > 4 {
		return specError("support_bar_count", float64(s.SupportBarCount), "must be between 0 and 4")
	}
	if s.SupportBarCount > 0 {
		if !(s.SupportBarLength > 0) {
			return specError("support_bar_length", s.SupportBarLength, "must be positive")
		}
		if !(s.SupportBarAngle > 0 && s.SupportBarAngle < 90) {
			return specError("support_bar_angle", s.SupportBarAngle, "must be between 0 and 90 degrees")
		}
		if top := s.PlateThickness + s.SupportBarRise(); top > s.TubeHeight {
			return specError("support_bar_length", s.SupportBarLength,
				fmt.Sprintf("bar meets the frame at %.3f, above the tube height %g", top, s.TubeHeight))
		}
	}

	if s.Tessellation != 0 && s.Tessellation < MinTessellation {
		return specError("tessellation", float64(s.Tessellation),
			fmt.Sprintf("must be at least %d", MinTessellation))
	}

	return nil
}

type namedFloat struct {
	name  string
	value float64
}

// floatFields lists every float dimension under its config key
func (s FrameSpec) floatFields() []namedFloat {
	return []namedFloat{
		{"tube_height", s.TubeHeight},
		{"tube_separation", s.TubeSeparation},
		{"tube_diameter", s.TubeDiameter},
		{"wall_min", s.WallMin},
		{"wall_max", s.WallMax},
		{"bottom_tube_offset", s.BottomTubeOffset},
		{"brace_length", s.BraceLength},
		{"brace_diameter", s.BraceDiameter},
		{"ring_height", s.RingHeight},
		{"ring_inner_radius", s.RingInnerRadius},
		{"ring_outer_radius", s.RingOuterRadius},
		{"ring_thickness", s.RingThickness},
		{"ring_gap", s.RingGap},
		{"cleat_length", s.CleatLength},
		{"cleat_width", s.CleatWidth},
		{"cleat_height", s.CleatHeight},
		{"support_bar_length", s.SupportBarLength},
		{"support_bar_diameter", s.SupportBarDiameter},
		{"support_bar_angle", s.SupportBarAngle},
		{"plate_width", s.PlateWidth},
		{"plate_height", s.PlateHeight},
		{"plate_thickness", s.PlateThickness},
		{"bolt_hole_diameter", s.BoltHoleDiameter},
		{"bolt_hole_inset", s.BoltHoleInset},
	}
}
