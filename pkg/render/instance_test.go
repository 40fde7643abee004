package render

import (
	"math"
	"testing"

	"github.com/lao-tseu-is-alive/go-flock-sim/pkg/geometry"
)

func TestInstance_RotationAndTranslation(t *testing.T) {
	// Heading (0,1) is a quarter turn: cos=0, sin=1.
	m := Instance(geometry.Vector2D{X: 10, Y: 20}, geometry.Vector2D{X: 0, Y: 1})

	if m[0] != 0 || m[1] != 1 || m[4] != -1 || m[5] != 0 {
		t.Errorf("rotation block = [%v %v; %v %v]; want [0 1; -1 0]", m[0], m[1], m[4], m[5])
	}
	if m[12] != 10 || m[13] != 20 {
		t.Errorf("translation = (%v, %v); want (10, 20)", m[12], m[13])
	}
	if m[10] != 1 || m[15] != 1 {
		t.Errorf("expected identity z/w diagonal, got %v, %v", m[10], m[15])
	}
}

func TestInstance_ZeroHeadingIsIdentityRotation(t *testing.T) {
	m := Instance(geometry.Vector2D{X: 5, Y: 5}, geometry.Vector2D{})
	if m[0] != 1 || m[1] != 0 || m[4] != 0 || m[5] != 1 {
		t.Errorf("zero heading rotation block = [%v %v; %v %v]; want identity", m[0], m[1], m[4], m[5])
	}
}

func TestInstanceBuffer_Update(t *testing.T) {
	positions := []geometry.Vector2D{{X: 1, Y: 2}, {X: 3, Y: 4}}
	headings := []geometry.Vector2D{{X: 1, Y: 0}, {X: 0, Y: -1}}

	buf := NewInstanceBuffer(2)
	buf.Update(positions, headings)

	got := buf.Matrices()
	if len(got) != 2 {
		t.Fatalf("expected 2 matrices, got %d", len(got))
	}
	if got[0][12] != 1 || got[0][13] != 2 {
		t.Errorf("matrix 0 translation = (%v, %v); want (1, 2)", got[0][12], got[0][13])
	}
	if got[1][1] != -1 {
		t.Errorf("matrix 1 sin = %v; want -1", got[1][1])
	}

	// Rotation columns stay orthonormal because headings are unit length.
	for i, m := range got {
		l := math.Hypot(float64(m[0]), float64(m[1]))
		if math.Abs(l-1) > 1e-6 {
			t.Errorf("matrix %d rotation column length = %v; want 1", i, l)
		}
	}
}
