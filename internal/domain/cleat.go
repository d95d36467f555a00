package domain

import (
	"math"

	"davitframe/internal/geom"
)

// Cleat is the deck cleat mounted on top of the top horizontal tube.
// Center is the bottom-center of the cleat base; Length runs along the tube.
type Cleat struct {
	TubeID string       `json:"tube_id,omitempty"`
	Center geom.Point3D `json:"center"`
	Length float64      `json:"length"`
	Width  float64      `json:"width"`
	Height float64      `json:"height"`
}

// MakeCleat creates a cleat with its base centered at center
func MakeCleat(center geom.Point3D, length, width, height float64) (Cleat, error) {
	if !(length > 0) || math.IsInf(length, 0) {
		return Cleat{}, dimensionError("cleat_length", length, "must be positive and finite")
	}
	if !(width > 0) || math.IsInf(width, 0) {
		return Cleat{}, dimensionError("cleat_width", width, "must be positive and finite")
	}
	if !(height > 0) || math.IsInf(height, 0) {
		return Cleat{}, dimensionError("cleat_height", height, "must be positive and finite")
	}
	if !center.IsFinite() {
		return Cleat{}, dimensionError("cleat_center", math.NaN(), "must be finite")
	}
	return Cleat{Center: center, Length: length, Width: width, Height: height}, nil
}

// Extents returns the min and max corners of the cleat's bounding box
func (c Cleat) Extents() (geom.Point3D, geom.Point3D) {
	half := geom.Pt(c.Length/2, c.Width/2, 0)
	lo := c.Center.Sub(half)
	hi := c.Center.Add(half).Add(geom.Pt(0, 0, c.Height))
	return lo, hi
}
