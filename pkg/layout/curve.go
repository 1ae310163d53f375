package layout

import (
	"fmt"
	"math"
	"strconv"

	"github.com/great-houk/FSM-Simulator/pkg/geom"
)

// Curve is the drawn shape of one edge. It is one of QuadCurve, ArcCurve or
// ExplicitCurve.
type Curve interface {
	// PathData returns the curve as SVG path data.
	PathData() string
	curve()
}

// QuadCurve is a quadratic Bézier between two distinct states. End is
// already pulled back to the target's rim.
type QuadCurve struct {
	Start   geom.Point
	Control geom.Point
	End     geom.Point
}

// At evaluates the curve at t.
func (q QuadCurve) At(t float64) geom.Point {
	return geom.QuadAt(q.Start, q.Control, q.End, t)
}

func (q QuadCurve) PathData() string {
	return fmt.Sprintf("M %s %s Q %s %s %s %s",
		num(q.Start.X), num(q.Start.Y),
		num(q.Control.X), num(q.Control.Y),
		num(q.End.X), num(q.End.Y))
}

func (QuadCurve) curve() {}

// ArcCurve is a self-loop: the long way round a circle of Radius about
// Centre, from Start to End in the positive-angle direction. Both endpoints
// lie on the node rim.
type ArcCurve struct {
	Centre geom.Point
	Radius float64
	Start  geom.Point
	End    geom.Point
}

func (a ArcCurve) PathData() string {
	r := num(a.Radius)
	return fmt.Sprintf("M %s %s A %s %s 0 1 1 %s %s",
		num(a.Start.X), num(a.Start.Y), r, r, num(a.End.X), num(a.End.Y))
}

// Angles returns the start angle and the positive sweep of the arc, measured
// about Centre.
func (a ArcCurve) Angles() (start, sweep float64) {
	start = a.Start.Sub(a.Centre).Angle()
	end := a.End.Sub(a.Centre).Angle()
	sweep = end - start
	for sweep <= 0 {
		sweep += 2 * math.Pi
	}
	return start, sweep
}

func (ArcCurve) curve() {}

// ExplicitCurve carries a path override from the definition. It is never
// interpreted by the layout engine.
type ExplicitCurve struct {
	Path string
}

func (e ExplicitCurve) PathData() string { return e.Path }

func (ExplicitCurve) curve() {}

// num formats a coordinate compactly: no trailing zeros, at most 3 decimals.
func num(v float64) string {
	r := math.Round(v*1000) / 1000
	if r == 0 {
		r = 0 // drop negative zero
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
