package domain

import (
	"math"

	"davitframe/internal/geom"
)

// TubeKind classifies a tube by its structural role
type TubeKind string

const (
	TubeKindVertical   TubeKind = "vertical"
	TubeKindHorizontal TubeKind = "horizontal"
	TubeKindBrace      TubeKind = "brace"
	TubeKindSupport    TubeKind = "support"
)

// Tube is a hollow cylindrical member defined by its centerline and outer diameter
type Tube struct {
	ID            string       `json:"id"`
	Kind          TubeKind     `json:"kind"`
	Start         geom.Point3D `json:"start"`
	End           geom.Point3D `json:"end"`
	OuterDiameter float64      `json:"outer_diameter"`
	WallMin       float64      `json:"wall_min,omitempty"`
	WallMax       float64      `json:"wall_max,omitempty"`
}

// MakeTube creates a tube whose centerline runs from bottom to top
func MakeTube(bottom, top geom.Point3D, outerDiameter float64) (Tube, error) {
	if !(outerDiameter > 0) || math.IsInf(outerDiameter, 0) {
		return Tube{}, dimensionError("outer_diameter", outerDiameter, "must be positive")
	}
	if !bottom.IsFinite() || !top.IsFinite() {
		return Tube{}, dimensionError("length", math.NaN(), "endpoints must be finite")
	}
	if bottom == top {
		return Tube{}, dimensionError("length", 0, "zero-length axis")
	}

	return Tube{
		Start:         bottom,
		End:           top,
		OuterDiameter: outerDiameter,
	}, nil
}

// WithWall returns a copy of t carrying the wall-thickness range
func (t Tube) WithWall(lo, hi float64) (Tube, error) {
	if !(lo > 0) {
		return Tube{}, dimensionError("wall_min", lo, "must be positive")
	}
	if hi < lo {
		return Tube{}, dimensionError("wall_max", hi, "must not be less than wall_min")
	}
	if hi >= t.OuterDiameter/2 {
		return Tube{}, dimensionError("wall_max", hi, "must be less than half the outer diameter")
	}
	t.WallMin = lo
	t.WallMax = hi
	return t, nil
}

func (t Tube) withIdentity(id string, kind TubeKind) Tube {
	t.ID = id
	t.Kind = kind
	return t
}

// Radius returns half the outer diameter
func (t Tube) Radius() float64 {
	return t.OuterDiameter / 2
}

// Length returns the centerline length
func (t Tube) Length() float64 {
	return t.Start.Distance(t.End)
}

// Axis returns the unit direction from Start to End
func (t Tube) Axis() geom.Point3D {
	u, _ := t.End.Sub(t.Start).Unit()
	return u
}

// Centerline returns the tube as an axis anchored at Start
func (t Tube) Centerline() Axis {
	return Axis{Origin: t.Start, Direction: t.Axis()}
}

// PointAt returns the centerline point at distance d from Start
func (t Tube) PointAt(d float64) geom.Point3D {
	return t.Start.Add(t.Axis().Scale(d))
}

// Axis is an infinite line through Origin along a unit Direction
type Axis struct {
	Origin    geom.Point3D `json:"origin"`
	Direction geom.Point3D `json:"direction"`
}
