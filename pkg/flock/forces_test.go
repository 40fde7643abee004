package flock

import (
	"math"
	"testing"

	"github.com/lao-tseu-is-alive/go-flock-sim/pkg/geometry"
)

func TestBucketAlignment(t *testing.T) {
	headings := []geometry.Vector2D{
		{X: 1, Y: 0},
		{X: 0, Y: 1},
		{X: -1, Y: 0},
	}

	t.Run("Two headings", func(t *testing.T) {
		got := bucketAlignment([]int{0, 1}, headings)
		want := geometry.Vector2D{X: math.Sqrt2 / 2, Y: math.Sqrt2 / 2}
		if !got.Eq(want) {
			t.Errorf("bucketAlignment = %s; want %s", got, want)
		}
	})

	t.Run("Opposed headings cancel to zero", func(t *testing.T) {
		// The defined degenerate fallback: the sum is exactly zero, the
		// safe normalize returns zero rather than NaN.
		got := bucketAlignment([]int{0, 2}, headings)
		if !got.Eq(geometry.Vector2D{}) {
			t.Errorf("bucketAlignment of opposed headings = %s; want zero", got)
		}
	})
}

func TestBucketCentroid(t *testing.T) {
	positions := []geometry.Vector2D{
		{X: 0, Y: 0},
		{X: 10, Y: 0},
	}
	got := bucketCentroid([]int{0, 1}, positions)
	want := geometry.Vector2D{X: 5, Y: 0}
	if !got.Eq(want) {
		t.Errorf("bucketCentroid = %s; want %s", got, want)
	}
}

func TestBucketSeparation(t *testing.T) {
	t.Run("Two agents push apart along x", func(t *testing.T) {
		positions := []geometry.Vector2D{
			{X: 0, Y: 0},
			{X: 10, Y: 0},
		}
		out := make([]geometry.Vector2D, 2)
		bucketSeparation([]int{0, 1}, positions, 0.01, 100, out)

		// Unit vector away from the neighbor scaled by clamp(1/10).
		if !out[0].Eq(geometry.Vector2D{X: -0.1, Y: 0}) {
			t.Errorf("out[0] = %s; want (-0.10, 0.00)", out[0])
		}
		if !out[1].Eq(geometry.Vector2D{X: 0.1, Y: 0}) {
			t.Errorf("out[1] = %s; want (0.10, 0.00)", out[1])
		}
	})

	t.Run("Single member gets zero force", func(t *testing.T) {
		positions := []geometry.Vector2D{{X: 42, Y: 42}}
		out := []geometry.Vector2D{{X: 9, Y: 9}} // stale from a previous tick
		bucketSeparation([]int{0}, positions, 0.01, 100, out)
		if !out[0].Eq(geometry.Vector2D{}) {
			t.Errorf("single-member separation = %s; want zero", out[0])
		}
	})

	t.Run("Distance tie breaks to first member in order", func(t *testing.T) {
		positions := []geometry.Vector2D{
			{X: 0, Y: 0},
			{X: 1, Y: 0}, // distance 1, encountered first
			{X: 0, Y: 1}, // distance 1, encountered second
		}
		out := make([]geometry.Vector2D, 3)
		bucketSeparation([]int{0, 1, 2}, positions, 0.01, 100, out)
		// Away from agent 1, i.e. along -x.
		if !out[0].Eq(geometry.Vector2D{X: -1, Y: 0}) {
			t.Errorf("out[0] = %s; want (-1.00, 0.00)", out[0])
		}
	})

	t.Run("Coincident agents do not explode", func(t *testing.T) {
		positions := []geometry.Vector2D{
			{X: 5, Y: 5},
			{X: 5, Y: 5},
		}
		out := make([]geometry.Vector2D, 2)
		bucketSeparation([]int{0, 1}, positions, 0.01, 100, out)
		// 1/0 clamps to the max scale, but the direction is the zero
		// vector, so the force stays zero and finite.
		for i, v := range out {
			if math.IsNaN(v.X) || math.IsInf(v.X, 0) || math.IsNaN(v.Y) || math.IsInf(v.Y, 0) {
				t.Errorf("out[%d] = %s; not finite", i, v)
			}
		}
	})
}

func TestBlendHeading_AgentAlone(t *testing.T) {
	// An agent alone in its cell: alignment is its own heading, the
	// centroid is its own position (zero cohesion), separation is zero.
	// The blended heading must equal the normalized old heading.
	cfg := DefaultConfig()
	cfg.AlignmentWeight = 1
	cfg.CohesionWeight = 1
	cfg.SeparationWeight = 1

	heading := geometry.Vector2D{X: 0.6, Y: 0.8}
	pos := geometry.Vector2D{X: 100, Y: 100}
	cell := cellForces{alignment: heading, centroid: pos}

	got := blendHeading(heading, pos, cell, geometry.Vector2D{}, cfg)
	if !got.Eq(heading) {
		t.Errorf("blendHeading = %s; want unchanged %s", got, heading)
	}
	if math.Abs(got.Len()-1) > geometry.Epsilon {
		t.Errorf("|blendHeading| = %v; want 1", got.Len())
	}
}

func TestBlendHeading_CohesionPullsTowardCentroid(t *testing.T) {
	// Two agents at (0,0) and (10,0): centroid (5,0). With only cohesion
	// active, the agent at the origin is pulled toward +x.
	cfg := DefaultConfig()
	cfg.AlignmentWeight = 0
	cfg.CohesionWeight = 1
	cfg.SeparationWeight = 0

	cell := cellForces{centroid: geometry.Vector2D{X: 5, Y: 0}}
	got := blendHeading(geometry.Vector2D{X: 0, Y: 1}, geometry.Vector2D{}, cell, geometry.Vector2D{}, cfg)

	if got.X <= 0 {
		t.Errorf("expected positive x pull toward centroid, got %s", got)
	}
}

func TestBlendHeading_FullyCancelledIsZero(t *testing.T) {
	// Heading exactly cancelled by the separation force: the one permitted
	// exception to the unit-length invariant is the exact zero vector.
	cfg := DefaultConfig()
	cfg.AlignmentWeight = 0
	cfg.CohesionWeight = 0
	cfg.SeparationWeight = 1

	heading := geometry.Vector2D{X: 1, Y: 0}
	sep := geometry.Vector2D{X: -1, Y: 0}
	cell := cellForces{centroid: geometry.Vector2D{}}

	got := blendHeading(heading, geometry.Vector2D{}, cell, sep, cfg)
	if !got.Eq(geometry.Vector2D{}) {
		t.Errorf("fully cancelled blend = %s; want zero", got)
	}
}

func TestClampForceScale(t *testing.T) {
	tests := []struct {
		name string
		x    float64
		want float64
	}{
		{"Below min", 0.001, 0.01},
		{"Within", 1.5, 1.5},
		{"Above max", 1000, 100},
		{"Infinite", math.Inf(1), 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := clampForceScale(tt.x, 0.01, 100); got != tt.want {
				t.Errorf("clampForceScale(%v) = %v; want %v", tt.x, got, tt.want)
			}
		})
	}
}
