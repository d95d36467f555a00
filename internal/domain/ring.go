package domain

import (
	"math"

	"davitframe/internal/geom"
)

// RingSegment is a flat semicircular arc. Angles are measured in degrees from
// Axis toward Radial, so a segment spanning (0, 180) bulges toward Radial and
// has its chord along Axis.
type RingSegment struct {
	TubeID      string       `json:"tube_id,omitempty"`
	Center      geom.Point3D `json:"center"`
	Axis        geom.Point3D `json:"axis"`
	Radial      geom.Point3D `json:"radial"`
	Normal      geom.Point3D `json:"normal"`
	Height      float64      `json:"height"`
	InnerRadius float64      `json:"inner_radius"`
	OuterRadius float64      `json:"outer_radius"`
	Thickness   float64      `json:"thickness"`
	StartAngle  float64      `json:"start_angle"`
	EndAngle    float64      `json:"end_angle"`
}

// MakeRingPair creates the two halves of a split ring centered on axis at
// centerHeight. Both chords lie along the axis; the halves sit on either side
// of it, separated by gap inches at the mean radius.
func MakeRingPair(centerHeight float64, axis Axis, innerRadius, outerRadius, thickness, gap float64) (RingSegment, RingSegment, error) {
	if !isFinite(centerHeight) {
		return RingSegment{}, RingSegment{}, dimensionError("ring_height", centerHeight, "must be finite")
	}
	if !(innerRadius >= 0) {
		return RingSegment{}, RingSegment{}, dimensionError("ring_inner_radius", innerRadius, "must not be negative")
	}
	if !(innerRadius < outerRadius) || math.IsInf(outerRadius, 0) {
		return RingSegment{}, RingSegment{}, dimensionError("ring_outer_radius", outerRadius, "must be finite and greater than the inner radius")
	}
	if !(thickness > 0) || math.IsInf(thickness, 0) {
		return RingSegment{}, RingSegment{}, dimensionError("ring_thickness", thickness, "must be positive and finite")
	}
	if !(gap >= 0) || math.IsInf(gap, 0) {
		return RingSegment{}, RingSegment{}, dimensionError("ring_gap", gap, "must be finite and not negative")
	}
	if !axis.Origin.IsFinite() || !axis.Direction.IsFinite() {
		return RingSegment{}, RingSegment{}, dimensionError("ring_axis", math.NaN(), "must be finite")
	}

	dir, ok := axis.Direction.Unit()
	if !ok {
		return RingSegment{}, RingSegment{}, dimensionError("ring_axis", 0, "axis direction is zero")
	}

	mean := (innerRadius + outerRadius) / 2
	gapDeg := geom.Degrees(gap / mean)
	if gapDeg >= 180 {
		return RingSegment{}, RingSegment{}, dimensionError("ring_gap", gap, "gap consumes the whole segment")
	}

	radial, normal := geom.Basis(dir)
	base := RingSegment{
		Center:      axis.Origin.Add(dir.Scale(centerHeight)),
		Axis:        dir,
		Radial:      radial,
		Normal:      normal,
		Height:      centerHeight,
		InnerRadius: innerRadius,
		OuterRadius: outerRadius,
		Thickness:   thickness,
	}

	a := base
	a.StartAngle = gapDeg / 2
	a.EndAngle = 180 - gapDeg/2

	b := base
	b.StartAngle = 180 + gapDeg/2
	b.EndAngle = 360 - gapDeg/2

	return a, b, nil
}

// Sweep returns the angular extent in degrees
func (r RingSegment) Sweep() float64 {
	return r.EndAngle - r.StartAngle
}

// PointAt returns the point at radius and angle (degrees) in the ring plane
func (r RingSegment) PointAt(radius, angleDeg float64) geom.Point3D {
	theta := geom.Radians(angleDeg)
	offset := r.Axis.Scale(math.Cos(theta)).Add(r.Radial.Scale(math.Sin(theta)))
	return r.Center.Add(offset.Scale(radius))
}

// Bulge returns the unit in-plane direction from the center to the arc midpoint
func (r RingSegment) Bulge() geom.Point3D {
	return r.PointAt(1, (r.StartAngle+r.EndAngle)/2).Sub(r.Center)
}
