// Package geom provides the immutable 3D point/vector type shared by every
// frame component. Coordinates are inches.
package geom

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Point3D is an immutable triple of coordinates. It doubles as a vector.
type Point3D struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// Axis unit vectors
var (
	UnitX = Point3D{X: 1}
	UnitY = Point3D{Y: 1}
	UnitZ = Point3D{Z: 1}
)

// Pt is shorthand for Point3D{x, y, z}
func Pt(x, y, z float64) Point3D {
	return Point3D{X: x, Y: y, Z: z}
}

func (p Point3D) vec() r3.Vec { return r3.Vec(p) }

func fromVec(v r3.Vec) Point3D { return Point3D(v) }

// Add returns p+q
func (p Point3D) Add(q Point3D) Point3D {
	return fromVec(r3.Add(p.vec(), q.vec()))
}

// Sub returns p-q
func (p Point3D) Sub(q Point3D) Point3D {
	return fromVec(r3.Sub(p.vec(), q.vec()))
}

// Scale returns f*p
func (p Point3D) Scale(f float64) Point3D {
	return fromVec(r3.Scale(f, p.vec()))
}

// Neg returns -p
func (p Point3D) Neg() Point3D {
	return p.Scale(-1)
}

// Dot returns the dot product p·q
func (p Point3D) Dot(q Point3D) float64 {
	return r3.Dot(p.vec(), q.vec())
}

// Cross returns the cross product p×q
func (p Point3D) Cross(q Point3D) Point3D {
	return fromVec(r3.Cross(p.vec(), q.vec()))
}

// Norm returns the Euclidean length of p
func (p Point3D) Norm() float64 {
	return r3.Norm(p.vec())
}

// Distance returns |p-q|
func (p Point3D) Distance(q Point3D) float64 {
	return p.Sub(q).Norm()
}

// Unit returns p scaled to length 1. The zero vector yields ok=false.
func (p Point3D) Unit() (Point3D, bool) {
	n := p.Norm()
	if n == 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return Point3D{}, false
	}
	return p.Scale(1 / n), true
}

// Rotate rotates p by angle radians about axis (right hand rule).
// axis need not be normalized.
func (p Point3D) Rotate(angle float64, axis Point3D) Point3D {
	return fromVec(r3.Rotate(p.vec(), angle, axis.vec()))
}

// Lerp returns p + t*(q-p)
func (p Point3D) Lerp(q Point3D, t float64) Point3D {
	return p.Add(q.Sub(p).Scale(t))
}

// IsFinite reports whether every coordinate is a finite number
func (p Point3D) IsFinite() bool {
	for _, c := range [3]float64{p.X, p.Y, p.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// ApproxEqual reports whether p and q differ by at most tol on every axis
func (p Point3D) ApproxEqual(q Point3D, tol float64) bool {
	return math.Abs(p.X-q.X) <= tol &&
		math.Abs(p.Y-q.Y) <= tol &&
		math.Abs(p.Z-q.Z) <= tol
}

func (p Point3D) String() string {
	return fmt.Sprintf("(%g, %g, %g)", p.X, p.Y, p.Z)
}

// Radians converts degrees to radians
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Degrees converts radians to degrees
func Degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
