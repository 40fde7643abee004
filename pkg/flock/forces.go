package flock

import (
	"math"

	"github.com/lao-tseu-is-alive/go-flock-sim/pkg/geometry"
)

// cellForces holds the per-bucket reductions read by the blend pass.
// Entries for cells not occupied this tick are stale and never read.
type cellForces struct {
	alignment geometry.Vector2D // unit average heading of the bucket
	centroid  geometry.Vector2D // arithmetic mean of member positions
}

// bucketAlignment sums the member headings and safely normalizes the sum.
// Two exactly opposed headings cancel to the zero vector and stay zero.
func bucketAlignment(members []int, headings []geometry.Vector2D) geometry.Vector2D {
	var sum geometry.Vector2D
	for _, id := range members {
		sum = sum.Add(headings[id])
	}
	return sum.Normalize()
}

// bucketCentroid returns the mean of the member positions.
func bucketCentroid(members []int, positions []geometry.Vector2D) geometry.Vector2D {
	var sum geometry.Vector2D
	for _, id := range members {
		sum = sum.Add(positions[id])
	}
	return sum.Mul(1 / float64(len(members)))
}

// bucketSeparation writes, for every member, the force pushing it away from
// its nearest bucket-mate: the unit vector neighbor->member scaled by
// clamp(1/distance, minScale, maxScale). A single-member bucket gets the
// zero vector. Ties on squared distance break to the first-encountered index
// in membership order. Neighbors outside the bucket are never considered.
func bucketSeparation(members []int, positions []geometry.Vector2D, minScale, maxScale float64, out []geometry.Vector2D) {
	if len(members) == 1 {
		out[members[0]] = geometry.Vector2D{}
		return
	}

	for _, id := range members {
		nearest := -1
		minDistSq := math.MaxFloat64

		for _, neighbor := range members {
			if neighbor == id {
				continue
			}
			distSq := positions[id].DistanceSquaredTo(positions[neighbor])
			if distSq < minDistSq {
				minDistSq = distSq
				nearest = neighbor
			}
		}

		away := positions[id].Sub(positions[nearest])
		scale := clampForceScale(1/math.Sqrt(minDistSq), minScale, maxScale)
		out[id] = away.Normalize().Mul(scale)
	}
}

// blendHeading combines the previous heading with the three flocking forces
// and renormalizes. The result is unit length, or exactly zero when the
// blended vector cancelled to zero.
func blendHeading(heading, position geometry.Vector2D, cell cellForces, separation geometry.Vector2D, cfg *Config) geometry.Vector2D {
	res := heading

	// Cohesion: steer toward the bucket centroid, 1/distance falloff.
	coh := cell.centroid.Sub(position)
	if dist := coh.Len(); dist > 0 {
		scale := clampForceScale(1/dist, cfg.MinForceScale, cfg.MaxForceScale)
		res = res.Add(coh.Normalize().Mul(scale * cfg.CohesionWeight))
	}

	// Alignment: match the bucket's average heading.
	res = res.Add(cell.alignment.Mul(cfg.AlignmentWeight))

	// Separation: push away from the nearest bucket-mate.
	res = res.Add(separation.Mul(cfg.SeparationWeight))

	return res.Normalize()
}

// clampForceScale bounds the 1/distance factor. The upper bound keeps
// near-contact forces finite; 1/0 = +Inf clamps to max.
func clampForceScale(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
