// Package render is the external rendering collaborator of the simulation
// core: it turns the core's read-only position/heading views into
// per-instance transforms. The core itself never touches this package.
package render

import "github.com/lao-tseu-is-alive/go-flock-sim/pkg/geometry"

// Matrix is a column-major 4x4 instance transform, laid out the way GPU
// instancing APIs expect it: columns 0 and 1 carry the rotation, column 3
// the translation.
type Matrix [16]float32

// Instance builds the transform for one agent: rotation from the heading's
// cosine/sine, translation from the position. A zero heading (the core's
// transient degenerate fallback) yields the identity rotation.
func Instance(pos, heading geometry.Vector2D) Matrix {
	c, s := heading.X, heading.Y
	if c == 0 && s == 0 {
		c = 1
	}
	return Matrix{
		float32(c), float32(s), 0, 0,
		float32(-s), float32(c), 0, 0,
		0, 0, 1, 0,
		float32(pos.X), float32(pos.Y), 0, 1,
	}
}

// InstanceBuffer holds the derived transform per agent, parallel to the
// core's position and heading arrays.
type InstanceBuffer struct {
	matrices []Matrix
}

// NewInstanceBuffer allocates a buffer for n agents.
func NewInstanceBuffer(n int) *InstanceBuffer {
	return &InstanceBuffer{matrices: make([]Matrix, n)}
}

// Update recomputes every transform from the given parallel arrays.
// Called once per tick, after the core has emitted its updated state.
func (b *InstanceBuffer) Update(positions, headings []geometry.Vector2D) {
	for i := range b.matrices {
		b.matrices[i] = Instance(positions[i], headings[i])
	}
}

// Matrices returns the transform array, valid until the next Update.
func (b *InstanceBuffer) Matrices() []Matrix {
	return b.matrices
}
