package domain

import (
	"math"

	"davitframe/internal/geom"
)

// StandardBraceAngle is the joint angle of every corner brace in the frame
const StandardBraceAngle = 45.0

// Brace is a diagonal tube reinforcing the corner between two members
type Brace struct {
	Tube
	Connects   [2]string `json:"connects"`
	JointAngle float64   `json:"joint_angle"`
}

// MakeBrace creates a brace spanning the corner where first and second meet.
//
// The brace starts on first at corner + u1·L·cos(θ), where u1 points from the
// corner along first. Its second endpoint comes from rotating -u1 by θ in the
// plane of the two members, which lands on second at corner + u2·L·sin(θ).
func MakeBrace(corner geom.Point3D, first, second Tube, length, angleDegrees, outerDiameter float64) (Brace, error) {
	if !(length > 0) || math.IsInf(length, 0) {
		return Brace{}, dimensionError("brace_length", length, "must be positive")
	}
	if !(outerDiameter > 0) {
		return Brace{}, dimensionError("brace_diameter", outerDiameter, "must be positive")
	}
	if !(angleDegrees > 0 && angleDegrees < 90) {
		return Brace{}, dimensionError("brace_angle", angleDegrees, "must be between 0 and 90 degrees")
	}

	u1 := awayFrom(corner, first)
	u2 := awayFrom(corner, second)
	normal := u2.Cross(u1)
	if normal.Norm() < 1e-9 {
		return Brace{}, dimensionError("brace_angle", angleDegrees, "joined members are parallel")
	}

	theta := geom.Radians(angleDegrees)
	start := corner.Add(u1.Scale(length * math.Cos(theta)))
	dir := u1.Neg().Rotate(theta, normal)
	end := start.Add(dir.Scale(length))

	tube, err := MakeTube(start, end, outerDiameter)
	if err != nil {
		return Brace{}, err
	}

	return Brace{
		Tube:       tube,
		Connects:   [2]string{first.ID, second.ID},
		JointAngle: angleDegrees,
	}, nil
}

// Legs returns the distances from the corner to the brace endpoints along the
// first and second member
func (b Brace) Legs() (float64, float64) {
	theta := geom.Radians(b.JointAngle)
	l := b.Length()
	return l * math.Cos(theta), l * math.Sin(theta)
}

// awayFrom returns the unit direction along t pointing away from corner
func awayFrom(corner geom.Point3D, t Tube) geom.Point3D {
	axis := t.Axis()
	if corner.Distance(t.End) < corner.Distance(t.Start) {
		return axis.Neg()
	}
	return axis
}
