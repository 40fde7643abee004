package flock

import "github.com/lao-tseu-is-alive/go-flock-sim/pkg/geometry"

// applyBounds keeps an agent inside [0, width] x [0, height] according to
// the configured policy, returning the corrected position and heading.
//
// Wrap is the reference behavior: a coordinate past an edge snaps to the
// opposite edge, exactly 0 or the dimension, in a single step. It is not
// modulo-reduced; per-tick displacement never exceeds one world span.
func applyBounds(policy string, pos, heading geometry.Vector2D, width, height float64) (geometry.Vector2D, geometry.Vector2D) {
	switch policy {
	case BoundaryClamp:
		pos.X = clampCoord(pos.X, width)
		pos.Y = clampCoord(pos.Y, height)

	case BoundaryBounce:
		if pos.X < 0 {
			pos.X = -pos.X
			heading.X = -heading.X
		} else if pos.X > width {
			pos.X = 2*width - pos.X
			heading.X = -heading.X
		}
		if pos.Y < 0 {
			pos.Y = -pos.Y
			heading.Y = -heading.Y
		} else if pos.Y > height {
			pos.Y = 2*height - pos.Y
			heading.Y = -heading.Y
		}

	default: // BoundaryWrap
		if pos.X < 0 {
			pos.X = width
		} else if pos.X > width {
			pos.X = 0
		}
		if pos.Y < 0 {
			pos.Y = height
		} else if pos.Y > height {
			pos.Y = 0
		}
	}
	return pos, heading
}

func clampCoord(v, max float64) float64 {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}
