package geom

import "math"

// Basis returns two unit vectors perpendicular to dir and to each other.
// For near-vertical directions the first perpendicular is +X, which keeps
// vertical tubes and their rings aligned with the frame plane.
func Basis(dir Point3D) (Point3D, Point3D) {
	d, ok := dir.Unit()
	if !ok {
		return UnitX, UnitY
	}

	var perp1 Point3D
	if math.Abs(d.Z) < 0.99 {
		perp1, _ = Pt(-d.Y, d.X, 0).Unit()
	} else {
		perp1 = UnitX
	}
	perp2, _ := d.Cross(perp1).Unit()
	return perp1, perp2
}

// Bounds is an axis-aligned bounding box
type Bounds struct {
	Min Point3D `json:"min"`
	Max Point3D `json:"max"`
}

// EmptyBounds returns a box that any point will expand
func EmptyBounds() Bounds {
	inf := math.Inf(1)
	return Bounds{
		Min: Pt(inf, inf, inf),
		Max: Pt(-inf, -inf, -inf),
	}
}

// Extend returns b grown to contain p
func (b Bounds) Extend(p Point3D) Bounds {
	return Bounds{
		Min: Pt(math.Min(b.Min.X, p.X), math.Min(b.Min.Y, p.Y), math.Min(b.Min.Z, p.Z)),
		Max: Pt(math.Max(b.Max.X, p.X), math.Max(b.Max.Y, p.Y), math.Max(b.Max.Z, p.Z)),
	}
}

// IsEmpty reports whether no point has been added
func (b Bounds) IsEmpty() bool {
	return b.Min.X > b.Max.X
}

// Center returns the box midpoint
func (b Bounds) Center() Point3D {
	return b.Min.Lerp(b.Max, 0.5)
}

// Size returns the box extents
func (b Bounds) Size() Point3D {
	return b.Max.Sub(b.Min)
}
