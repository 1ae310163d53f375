// Package geom holds the small amount of vector math the diagram code needs:
// midpoints, perpendicular offsets, quadratic Bézier evaluation and polar
// projection.
package geom

import "math"

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// Scale returns p scaled by k.
func (p Point) Scale(k float64) Point {
	return Point{p.X * k, p.Y * k}
}

// Len returns the Euclidean length of p.
func (p Point) Len() float64 {
	return math.Hypot(p.X, p.Y)
}

// Unit returns p normalised to length 1. The zero vector is returned
// unchanged with ok == false.
func (p Point) Unit() (Point, bool) {
	l := p.Len()
	if l == 0 {
		return p, false
	}
	return Point{p.X / l, p.Y / l}, true
}

// Rotate returns p rotated by theta radians (y grows downward, so a positive
// angle turns clockwise on screen).
func (p Point) Rotate(theta float64) Point {
	s, c := math.Sincos(theta)
	return Point{p.X*c - p.Y*s, p.X*s + p.Y*c}
}

// Angle returns the direction of p in radians.
func (p Point) Angle() float64 {
	return math.Atan2(p.Y, p.X)
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b Point) Point {
	return Point{(a.X + b.X) / 2, (a.Y + b.Y) / 2}
}

// PerpendicularOffset returns (-Δy, Δx)·k for the chord a->b. The offset is
// proportional to the coordinate delta, not normalised to the chord length.
func PerpendicularOffset(a, b Point, k float64) Point {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return Point{-dy * k, dx * k}
}

// QuadAt evaluates the quadratic Bézier p0, c, p1 at parameter t:
// (1-t)²·p0 + 2(1-t)t·c + t²·p1.
func QuadAt(p0, c, p1 Point, t float64) Point {
	mt := 1 - t
	a := mt * mt
	b := 2 * mt * t
	d := t * t
	return Point{
		X: a*p0.X + b*c.X + d*p1.X,
		Y: a*p0.Y + b*c.Y + d*p1.Y,
	}
}

// QuadTangent returns the derivative of the quadratic Bézier at t.
func QuadTangent(p0, c, p1 Point, t float64) Point {
	return Point{
		X: 2*(1-t)*(c.X-p0.X) + 2*t*(p1.X-c.X),
		Y: 2*(1-t)*(c.Y-p0.Y) + 2*t*(p1.Y-c.Y),
	}
}

// CubicAt evaluates the cubic Bézier p0, c1, c2, p1 at parameter t.
func CubicAt(p0, c1, c2, p1 Point, t float64) Point {
	mt := 1 - t
	a := mt * mt * mt
	b := 3 * mt * mt * t
	c := 3 * mt * t * t
	d := t * t * t
	return Point{
		X: a*p0.X + b*c1.X + c*c2.X + d*p1.X,
		Y: a*p0.Y + b*c1.Y + c*c2.Y + d*p1.Y,
	}
}

// PointAtAngle projects from centre by radius along angle theta.
func PointAtAngle(centre Point, radius, theta float64) Point {
	return Point{
		X: centre.X + radius*math.Cos(theta),
		Y: centre.Y + radius*math.Sin(theta),
	}
}

// Toward moves from p toward q by dist. If p == q, p is returned.
func Toward(p, q Point, dist float64) Point {
	u, ok := q.Sub(p).Unit()
	if !ok {
		return p
	}
	return p.Add(u.Scale(dist))
}

// Bounds returns the axis-aligned bounding box of pts.
func Bounds(pts []Point) (lo, hi Point) {
	if len(pts) == 0 {
		return Point{}, Point{}
	}
	lo, hi = pts[0], pts[0]
	for _, p := range pts[1:] {
		lo.X = math.Min(lo.X, p.X)
		lo.Y = math.Min(lo.Y, p.Y)
		hi.X = math.Max(hi.X, p.X)
		hi.Y = math.Max(hi.Y, p.Y)
	}
	return lo, hi
}
