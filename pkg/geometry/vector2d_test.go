package geometry

import (
	"math"
	"testing"
)

func TestNewVectorPolar(t *testing.T) {
	tests := []struct {
		name   string
		radius float64
		theta  float64
		want   Vector2D
	}{
		{"Zero radius", 0, 0, Vector2D{0, 0}},
		{"Zero angle (X-axis)", 1, 0, Vector2D{1, 0}},
		{"90 degrees (Y-axis)", 1, math.Pi / 2, Vector2D{0, 1}},
		{"180 degrees (Negative X)", 1, math.Pi, Vector2D{-1, 0}},
		{"45 degrees", math.Sqrt(2), math.Pi / 4, Vector2D{1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewVectorPolar(tt.radius, tt.theta)
			if !got.Eq(tt.want) {
				t.Errorf("NewVectorPolar(%v, %v) = %v; want %v", tt.radius, tt.theta, got, tt.want)
			}
		})
	}
}

func TestNewVectorPolar_UnitLength(t *testing.T) {
	// Headings are initialized from a uniformly sampled angle; whatever the
	// angle, the result must be unit length.
	for i := 0; i < 16; i++ {
		theta := float64(i) * math.Pi / 8
		v := NewVectorPolar(1, theta)
		if math.Abs(v.Len()-1) > Epsilon {
			t.Errorf("NewVectorPolar(1, %v).Len() = %v; want 1", theta, v.Len())
		}
	}
}

func TestVector_String(t *testing.T) {
	v := Vector2D{1.234, 5.678}
	want := "(1.23, 5.68)"
	if got := v.String(); got != want {
		t.Errorf("Vector2D.String() = %q; want %q", got, want)
	}
}

func TestVector_Arithmetic(t *testing.T) {
	v1 := Vector2D{1, 2}
	v2 := Vector2D{3, 4}

	t.Run("Add", func(t *testing.T) {
		want := Vector2D{4, 6}
		if got := v1.Add(v2); !got.Eq(want) {
			t.Errorf("%v.Add(%v) = %v; want %v", v1, v2, got, want)
		}
	})

	t.Run("Sub", func(t *testing.T) {
		want := Vector2D{-2, -2}
		if got := v1.Sub(v2); !got.Eq(want) {
			t.Errorf("%v.Sub(%v) = %v; want %v", v1, v2, got, want)
		}
	})

	t.Run("Mul", func(t *testing.T) {
		want := Vector2D{2, 4}
		if got := v1.Mul(2); !got.Eq(want) {
			t.Errorf("%v.Mul(2) = %v; want %v", v1, got, want)
		}
	})
}

func TestVector_Lengths(t *testing.T) {
	v := Vector2D{3, 4}
	if got := v.Len(); got != 5 {
		t.Errorf("Len() = %v; want 5", got)
	}
	if got := v.LenSqr(); got != 25 {
		t.Errorf("LenSqr() = %v; want 25", got)
	}
	if got := v.DistanceSquaredTo(Vector2D{0, 0}); got != 25 {
		t.Errorf("DistanceSquaredTo(origin) = %v; want 25", got)
	}
}

func TestVector_Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   Vector2D
		want Vector2D
	}{
		{"Along X", Vector2D{10, 0}, Vector2D{1, 0}},
		{"Diagonal", Vector2D{3, 4}, Vector2D{0.6, 0.8}},
		{"Already unit", Vector2D{0, 1}, Vector2D{0, 1}},
		// The documented degenerate fallback: a zero vector stays zero.
		{"Zero vector", Vector2D{0, 0}, Vector2D{0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalize()
			if !got.Eq(tt.want) {
				t.Errorf("%v.Normalize() = %v; want %v", tt.in, got, tt.want)
			}
			if math.IsNaN(got.X) || math.IsNaN(got.Y) {
				t.Errorf("%v.Normalize() produced NaN", tt.in)
			}
		})
	}
}

func TestVector_Rotate(t *testing.T) {
	v := Vector2D{1, 0}
	got := v.Rotate(math.Pi / 2)
	if !got.Eq(Vector2D{0, 1}) {
		t.Errorf("Rotate(pi/2) = %v; want (0, 1)", got)
	}
}
