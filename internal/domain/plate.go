package domain

import (
	"fmt"
	"math"

	"davitframe/internal/geom"
)

// BoltHole is a hole position in plate-local coordinates (U along X, V along Y)
type BoltHole struct {
	U float64 `json:"u" yaml:"u"`
	V float64 `json:"v" yaml:"v"`
}

// Plate is a flat rectangular mounting plate lying on the foundation plane.
// Anchor is the corner with the smallest X and Y.
type Plate struct {
	Anchor       geom.Point3D `json:"anchor"`
	Width        float64      `json:"width"`
	Height       float64      `json:"height"`
	Thickness    float64      `json:"thickness"`
	HoleDiameter float64      `json:"hole_diameter"`
	BoltHoles    []BoltHole   `json:"bolt_holes"`
}

// MakePlate creates a plate of width (X) by height (Y) at anchor
func MakePlate(anchor geom.Point3D, width, height float64, holes []BoltHole) (Plate, error) {
	if !(width > 0) || math.IsInf(width, 0) {
		return Plate{}, dimensionError("plate_width", width, "must be positive and finite")
	}
	if !(height > 0) || math.IsInf(height, 0) {
		return Plate{}, dimensionError("plate_height", height, "must be positive and finite")
	}
	if !anchor.IsFinite() {
		return Plate{}, dimensionError("plate_anchor", math.NaN(), "must be finite")
	}
	for i, h := range holes {
		if !isFinite(h.U) || !isFinite(h.V) {
			return Plate{}, dimensionError(fmt.Sprintf("bolt_holes[%d]", i), math.NaN(), "must be finite")
		}
		if h.U < 0 || h.U > width {
			return Plate{}, dimensionError(fmt.Sprintf("bolt_holes[%d].u", i), h.U, "outside plate bounds")
		}
		if h.V < 0 || h.V > height {
			return Plate{}, dimensionError(fmt.Sprintf("bolt_holes[%d].v", i), h.V, "outside plate bounds")
		}
	}

	return Plate{
		Anchor:    anchor,
		Width:     width,
		Height:    height,
		BoltHoles: append([]BoltHole(nil), holes...),
	}, nil
}

// WithThickness returns a copy of p with the given plate thickness and bolt hole diameter.
// Holes must clear the plate edges once their radius is taken into account.
func (p Plate) WithThickness(thickness, holeDiameter float64) (Plate, error) {
	if !(thickness > 0) || math.IsInf(thickness, 0) {
		return Plate{}, dimensionError("plate_thickness", thickness, "must be positive and finite")
	}
	if !(holeDiameter >= 0) || math.IsInf(holeDiameter, 0) {
		return Plate{}, dimensionError("bolt_hole_diameter", holeDiameter, "must be finite and not negative")
	}
	r := holeDiameter / 2
	for i, h := range p.BoltHoles {
		if h.U-r < 0 || h.U+r > p.Width || h.V-r < 0 || h.V+r > p.Height {
			return Plate{}, dimensionError(fmt.Sprintf("bolt_holes[%d]", i), holeDiameter, "hole breaks out of plate edge")
		}
	}
	p.Thickness = thickness
	p.HoleDiameter = holeDiameter
	return p, nil
}

// Center returns the center of the plate's top face
func (p Plate) Center() geom.Point3D {
	return p.Anchor.Add(geom.Pt(p.Width/2, p.Height/2, p.Thickness))
}

// HoleCenter returns the world position of hole i on the plate's top face
func (p Plate) HoleCenter(i int) geom.Point3D {
	h := p.BoltHoles[i]
	return p.Anchor.Add(geom.Pt(h.U, h.V, p.Thickness))
}

// Corners returns the four top-face corners in counter-clockwise order
func (p Plate) Corners() [4]geom.Point3D {
	z := p.Thickness
	return [4]geom.Point3D{
		p.Anchor.Add(geom.Pt(0, 0, z)),
		p.Anchor.Add(geom.Pt(p.Width, 0, z)),
		p.Anchor.Add(geom.Pt(p.Width, p.Height, z)),
		p.Anchor.Add(geom.Pt(0, p.Height, z)),
	}
}

// cornerHoles returns four holes inset from each corner
func cornerHoles(width, height, inset float64) []BoltHole {
	return []BoltHole{
		{U: inset, V: inset},
		{U: width - inset, V: inset},
		{U: width - inset, V: height - inset},
		{U: inset, V: height - inset},
	}
}
