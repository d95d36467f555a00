package domain

import (
	"errors"
	"math"
	"testing"

	"davitframe/internal/geom"
)

func TestMakeTube(t *testing.T) {
	t.Run("creates tube", func(t *testing.T) {
		tube, err := MakeTube(geom.Pt(0, 0, 0), geom.Pt(0, 0, 30.5), 1.375)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tube.Length() != 30.5 {
			t.Errorf("expected length 30.5, got %f", tube.Length())
		}
		if tube.Radius() != 0.6875 {
			t.Errorf("expected radius 0.6875, got %f", tube.Radius())
		}
		if !tube.Axis().ApproxEqual(geom.UnitZ, 1e-12) {
			t.Errorf("expected +Z axis, got %v", tube.Axis())
		}
	})

	t.Run("zero diameter fails", func(t *testing.T) {
		_, err := MakeTube(geom.Pt(0, 0, 0), geom.Pt(0, 0, 1), 0)
		if !errors.Is(err, ErrInvalidDimension) {
			t.Fatalf("expected ErrInvalidDimension, got %v", err)
		}
		var de *DimensionError
		if !errors.As(err, &de) {
			t.Fatalf("expected *DimensionError, got %T", err)
		}
		if de.Field != "outer_diameter" || de.Value != 0 {
			t.Errorf("unexpected field/value: %s=%g", de.Field, de.Value)
		}
	})

	t.Run("negative diameter fails", func(t *testing.T) {
		_, err := MakeTube(geom.Pt(0, 0, 0), geom.Pt(0, 0, 1), -2)
		if !errors.Is(err, ErrInvalidDimension) {
			t.Errorf("expected ErrInvalidDimension, got %v", err)
		}
	})

	t.Run("zero length fails", func(t *testing.T) {
		p := geom.Pt(1, 2, 3)
		_, err := MakeTube(p, p, 1)
		if !errors.Is(err, ErrInvalidDimension) {
			t.Errorf("expected ErrInvalidDimension, got %v", err)
		}
	})

	t.Run("non-finite endpoint fails", func(t *testing.T) {
		_, err := MakeTube(geom.Pt(0, 0, 0), geom.Pt(math.NaN(), 0, 1), 1)
		if !errors.Is(err, ErrInvalidDimension) {
			t.Errorf("expected ErrInvalidDimension, got %v", err)
		}
	})
}

func TestTubeWithWall(t *testing.T) {
	tube, err := MakeTube(geom.Pt(0, 0, 0), geom.Pt(10, 0, 0), 1.0)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		lo, hi  float64
		wantErr bool
	}{
		{"valid range", 0.065, 0.12, false},
		{"single value", 0.1, 0.1, false},
		{"zero min", 0, 0.1, true},
		{"max below min", 0.2, 0.1, true},
		{"max at half diameter", 0.1, 0.5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tube.WithWall(tt.lo, tt.hi)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDimension) {
					t.Errorf("expected ErrInvalidDimension, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.WallMin != tt.lo || got.WallMax != tt.hi {
				t.Errorf("wall = %g-%g, want %g-%g", got.WallMin, got.WallMax, tt.lo, tt.hi)
			}
		})
	}
}

func TestMakeBrace(t *testing.T) {
	vertical, _ := MakeTube(geom.Pt(0, 0, 0), geom.Pt(0, 0, 30.5), 1.375)
	vertical.ID = "v"
	rail, _ := MakeTube(geom.Pt(0, 0, 30.5), geom.Pt(24.125, 0, 30.5), 1.375)
	rail.ID = "h"
	corner := geom.Pt(0, 0, 30.5)
	leg := 12 / math.Sqrt2

	t.Run("45 degree corner brace", func(t *testing.T) {
		b, err := MakeBrace(corner, vertical, rail, 12, 45, 1.125)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !b.Start.ApproxEqual(geom.Pt(0, 0, 30.5-leg), 1e-9) {
			t.Errorf("start = %v, want on vertical at z=%f", b.Start, 30.5-leg)
		}
		if !b.End.ApproxEqual(geom.Pt(leg, 0, 30.5), 1e-9) {
			t.Errorf("end = %v, want on rail at x=%f", b.End, leg)
		}
		if math.Abs(b.Length()-12) > 1e-9 {
			t.Errorf("length = %f, want 12", b.Length())
		}
		if b.Connects != [2]string{"v", "h"} {
			t.Errorf("connects = %v", b.Connects)
		}

		// 45 degrees to both members
		for _, member := range []geom.Point3D{geom.UnitZ, geom.UnitX} {
			cos := math.Abs(b.Axis().Dot(member))
			if math.Abs(cos-math.Sqrt2/2) > 1e-9 {
				t.Errorf("angle to %v: cos=%f", member, cos)
			}
		}
	})

	t.Run("legs follow angle", func(t *testing.T) {
		b, err := MakeBrace(corner, vertical, rail, 10, 30, 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		l1, l2 := b.Legs()
		if math.Abs(l1-10*math.Cos(math.Pi/6)) > 1e-9 || math.Abs(l2-5) > 1e-9 {
			t.Errorf("legs = %f, %f", l1, l2)
		}
		if !b.End.ApproxEqual(geom.Pt(5, 0, 30.5), 1e-9) {
			t.Errorf("end = %v, want (5, 0, 30.5)", b.End)
		}
	})

	t.Run("invalid inputs", func(t *testing.T) {
		cases := []struct {
			name         string
			length, a, d float64
		}{
			{"zero length", 0, 45, 1},
			{"negative length", -3, 45, 1},
			{"zero diameter", 12, 45, 0},
			{"zero angle", 12, 0, 1},
			{"right angle", 12, 90, 1},
		}
		for _, c := range cases {
			_, err := MakeBrace(corner, vertical, rail, c.length, c.a, c.d)
			if !errors.Is(err, ErrInvalidDimension) {
				t.Errorf("%s: expected ErrInvalidDimension, got %v", c.name, err)
			}
		}
	})

	t.Run("parallel members fail", func(t *testing.T) {
		_, err := MakeBrace(geom.Pt(0, 0, 0), vertical, vertical, 12, 45, 1)
		if !errors.Is(err, ErrInvalidDimension) {
			t.Errorf("expected ErrInvalidDimension, got %v", err)
		}
	})
}

func TestMakeRingPair(t *testing.T) {
	axis := Axis{Origin: geom.Pt(0, 0, 0), Direction: geom.UnitZ}

	t.Run("covers both halves", func(t *testing.T) {
		a, b, err := MakeRingPair(27.5, axis, 1.0, 1.5, 0.25, 0.0625)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if a.Center != geom.Pt(0, 0, 27.5) || b.Center != a.Center {
			t.Errorf("centers = %v, %v", a.Center, b.Center)
		}

		gapDeg := geom.Degrees(0.0625 / 1.25)
		if math.Abs(a.Sweep()+b.Sweep()+2*gapDeg-360) > 1e-9 {
			t.Errorf("segments + gaps should cover 360, got %f", a.Sweep()+b.Sweep()+2*gapDeg)
		}
		if math.Abs(a.StartAngle-gapDeg/2) > 1e-12 || math.Abs(b.EndAngle-(360-gapDeg/2)) > 1e-12 {
			t.Errorf("angles = [%f,%f] [%f,%f]", a.StartAngle, a.EndAngle, b.StartAngle, b.EndAngle)
		}

		if a.Bulge().Dot(geom.UnitX) < 0.99 {
			t.Errorf("first half should bulge toward +X, got %v", a.Bulge())
		}
		if b.Bulge().Dot(geom.UnitX) > -0.99 {
			t.Errorf("second half should bulge toward -X, got %v", b.Bulge())
		}
	})

	t.Run("chord lies along axis", func(t *testing.T) {
		a, _, err := MakeRingPair(10, axis, 1, 2, 0.25, 0)
		if err != nil {
			t.Fatal(err)
		}
		start := a.PointAt(2, a.StartAngle)
		end := a.PointAt(2, a.EndAngle)
		if !start.ApproxEqual(geom.Pt(0, 0, 12), 1e-9) || !end.ApproxEqual(geom.Pt(0, 0, 8), 1e-9) {
			t.Errorf("chord endpoints = %v, %v", start, end)
		}
	})

	t.Run("invalid radii", func(t *testing.T) {
		cases := []struct {
			name                   string
			inner, outer, thick, g float64
		}{
			{"inner equals outer", 1.5, 1.5, 0.25, 0},
			{"inner above outer", 2, 1.5, 0.25, 0},
			{"negative inner", -1, 1.5, 0.25, 0},
			{"zero thickness", 1, 1.5, 0, 0},
			{"negative gap", 1, 1.5, 0.25, -0.1},
			{"gap too wide", 1, 1.5, 0.25, 10},
			{"NaN inner", math.NaN(), 1.5, 0.25, 0},
			{"NaN outer", 1, math.NaN(), 0.25, 0},
			{"infinite outer", 1, math.Inf(1), 0.25, 0},
			{"infinite thickness", 1, 1.5, math.Inf(1), 0},
			{"NaN gap", 1, 1.5, 0.25, math.NaN()},
			{"infinite gap", 1, 1.5, 0.25, math.Inf(1)},
		}
		for _, c := range cases {
			_, _, err := MakeRingPair(10, axis, c.inner, c.outer, c.thick, c.g)
			if !errors.Is(err, ErrInvalidDimension) {
				t.Errorf("%s: expected ErrInvalidDimension, got %v", c.name, err)
			}
		}
	})

	t.Run("non-finite center height", func(t *testing.T) {
		for _, h := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
			if _, _, err := MakeRingPair(h, axis, 1, 1.5, 0.25, 0); !errors.Is(err, ErrInvalidDimension) {
				t.Errorf("height %v: expected ErrInvalidDimension, got %v", h, err)
			}
		}
	})
}

func TestMakePlate(t *testing.T) {
	holes := cornerHoles(4, 4, 0.75)

	t.Run("valid plate", func(t *testing.T) {
		p, err := MakePlate(geom.Pt(-2, -9, 0), 4, 4, holes)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		p, err = p.WithThickness(0.25, 0.375)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Center() != geom.Pt(0, -7, 0.25) {
			t.Errorf("center = %v", p.Center())
		}
		if got := p.HoleCenter(2); got != geom.Pt(1.25, -5.75, 0.25) {
			t.Errorf("hole 2 = %v", got)
		}
	})

	t.Run("holes are copied", func(t *testing.T) {
		in := []BoltHole{{U: 1, V: 1}}
		p, _ := MakePlate(geom.Pt(0, 0, 0), 2, 2, in)
		in[0].U = 5
		if p.BoltHoles[0].U != 1 {
			t.Error("plate should not alias caller's holes")
		}
	})

	t.Run("invalid", func(t *testing.T) {
		cases := []struct {
			name  string
			w, h  float64
			holes []BoltHole
		}{
			{"zero width", 0, 4, nil},
			{"negative height", 4, -1, nil},
			{"hole outside u", 4, 4, []BoltHole{{U: 4.5, V: 1}}},
			{"hole outside v", 4, 4, []BoltHole{{U: 1, V: -0.1}}},
			{"NaN width", math.NaN(), 4, nil},
			{"infinite width", math.Inf(1), 4, nil},
			{"infinite height", 4, math.Inf(1), nil},
			{"NaN hole u", 4, 4, []BoltHole{{U: math.NaN(), V: 1}}},
			{"NaN hole v", 4, 4, []BoltHole{{U: 1, V: math.NaN()}}},
		}
		for _, c := range cases {
			_, err := MakePlate(geom.Pt(0, 0, 0), c.w, c.h, c.holes)
			if !errors.Is(err, ErrInvalidDimension) {
				t.Errorf("%s: expected ErrInvalidDimension, got %v", c.name, err)
			}
		}
	})

	t.Run("hole breaks out of edge", func(t *testing.T) {
		p, err := MakePlate(geom.Pt(0, 0, 0), 4, 4, []BoltHole{{U: 0.1, V: 2}})
		if err != nil {
			t.Fatal(err)
		}
		if _, err := p.WithThickness(0.25, 0.5); !errors.Is(err, ErrInvalidDimension) {
			t.Errorf("expected ErrInvalidDimension, got %v", err)
		}
	})

	t.Run("non-finite thickness or hole diameter", func(t *testing.T) {
		p, err := MakePlate(geom.Pt(0, 0, 0), 4, 4, holes)
		if err != nil {
			t.Fatal(err)
		}
		cases := []struct {
			name           string
			thick, holeDia float64
		}{
			{"NaN thickness", math.NaN(), 0.375},
			{"infinite thickness", math.Inf(1), 0.375},
			{"NaN hole diameter", 0.25, math.NaN()},
			{"infinite hole diameter", 0.25, math.Inf(1)},
		}
		for _, c := range cases {
			if _, err := p.WithThickness(c.thick, c.holeDia); !errors.Is(err, ErrInvalidDimension) {
				t.Errorf("%s: expected ErrInvalidDimension, got %v", c.name, err)
			}
		}
	})
}

func TestMakeCleatAndSupportBar(t *testing.T) {
	if _, err := MakeCleat(geom.Pt(0, 0, 0), 0, 1, 1); !errors.Is(err, ErrInvalidDimension) {
		t.Errorf("expected ErrInvalidDimension for zero cleat length, got %v", err)
	}

	c, err := MakeCleat(geom.Pt(12, 0, 31), 6, 1.5, 0.3)
	if err != nil {
		t.Fatal(err)
	}
	lo, hi := c.Extents()
	if lo != geom.Pt(9, -0.75, 31) || !hi.ApproxEqual(geom.Pt(15, 0.75, 31.3), 1e-12) {
		t.Errorf("extents = %v, %v", lo, hi)
	}

	bad := []struct {
		name                  string
		center                geom.Point3D
		length, width, height float64
	}{
		{"infinite length", geom.Pt(0, 0, 0), math.Inf(1), 1, 1},
		{"NaN width", geom.Pt(0, 0, 0), 6, math.NaN(), 1},
		{"infinite width", geom.Pt(0, 0, 0), 6, math.Inf(1), 1},
		{"infinite height", geom.Pt(0, 0, 0), 6, 1, math.Inf(1)},
		{"NaN center", geom.Pt(math.NaN(), 0, 0), 6, 1, 1},
	}
	for _, c := range bad {
		if _, err := MakeCleat(c.center, c.length, c.width, c.height); !errors.Is(err, ErrInvalidDimension) {
			t.Errorf("%s: expected ErrInvalidDimension, got %v", c.name, err)
		}
	}

	plate, _ := MakePlate(geom.Pt(0, 0, 0), 4, 4, nil)
	if _, err := MakeSupportBar(geom.Pt(0, 0, 0), geom.Pt(0, 1, 1), 1, 95, plate); !errors.Is(err, ErrInvalidDimension) {
		t.Errorf("expected ErrInvalidDimension for 95 degree bar, got %v", err)
	}
}
