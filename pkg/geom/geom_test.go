package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

const eps = 1e-9

func TestMidpoint(t *testing.T) {
	m := Midpoint(Pt(50, 10), Pt(20, 25))
	assert.InDelta(t, 35, m.X, eps)
	assert.InDelta(t, 17.5, m.Y, eps)
}

func TestPerpendicularOffset(t *testing.T) {
	tests := []struct {
		name string
		a, b Point
		want Point
	}{
		{"horizontal", Pt(0, 0), Pt(10, 0), Pt(0, 2)},
		{"vertical", Pt(0, 0), Pt(0, 10), Pt(-2, 0)},
		{"not normalised", Pt(50, 10), Pt(20, 25), Pt(-3, -6)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := PerpendicularOffset(tc.a, tc.b, 0.2)
			assert.InDelta(t, tc.want.X, got.X, eps)
			assert.InDelta(t, tc.want.Y, got.Y, eps)
		})
	}
}

func TestQuadAt(t *testing.T) {
	p0, c, p1 := Pt(0, 0), Pt(5, 10), Pt(10, 0)

	assert.Equal(t, p0, QuadAt(p0, c, p1, 0))
	assert.Equal(t, p1, QuadAt(p0, c, p1, 1))

	// (1/4)p0 + (1/2)c + (1/4)p1
	mid := QuadAt(p0, c, p1, 0.5)
	assert.InDelta(t, 5, mid.X, eps)
	assert.InDelta(t, 5, mid.Y, eps)
}

func TestQuadTangentAtEnd(t *testing.T) {
	p0, c, p1 := Pt(0, 0), Pt(5, 10), Pt(10, 0)
	tan := QuadTangent(p0, c, p1, 1)
	// End tangent is parallel to p1 - c.
	assert.InDelta(t, 0, tan.X*(p1.Y-c.Y)-tan.Y*(p1.X-c.X), eps)
}

func TestCubicAtEndpoints(t *testing.T) {
	p0, c1, c2, p1 := Pt(78, 50), Pt(60, 30), Pt(40, 70), Pt(22, 50)
	assert.Equal(t, p0, CubicAt(p0, c1, c2, p1, 0))
	assert.Equal(t, p1, CubicAt(p0, c1, c2, p1, 1))
	mid := CubicAt(p0, c1, c2, p1, 0.5)
	assert.InDelta(t, 50, mid.X, eps)
	assert.InDelta(t, 50, mid.Y, eps)
}

func TestPointAtAngle(t *testing.T) {
	c := Pt(100, 100)
	assert.InDelta(t, 150, PointAtAngle(c, 50, 0).X, eps)
	p := PointAtAngle(c, 50, math.Pi/2)
	assert.InDelta(t, 100, p.X, eps)
	assert.InDelta(t, 150, p.Y, eps)
}

func TestToward(t *testing.T) {
	p := Toward(Pt(0, 0), Pt(10, 0), 4)
	assert.Equal(t, Pt(4, 0), p)

	same := Toward(Pt(3, 3), Pt(3, 3), 4)
	assert.Equal(t, Pt(3, 3), same)
}

func TestUnitZero(t *testing.T) {
	_, ok := Point{}.Unit()
	assert.False(t, ok)

	u, ok := Pt(3, 4).Unit()
	assert.True(t, ok)
	assert.InDelta(t, 1, u.Len(), eps)
}

func TestRotate(t *testing.T) {
	r := Pt(1, 0).Rotate(math.Pi / 2)
	assert.InDelta(t, 0, r.X, eps)
	assert.InDelta(t, 1, r.Y, eps)
}

func TestBounds(t *testing.T) {
	lo, hi := Bounds([]Point{Pt(3, 9), Pt(-1, 4), Pt(7, 2)})
	assert.Equal(t, Pt(-1, 2), lo)
	assert.Equal(t, Pt(7, 9), hi)
}
