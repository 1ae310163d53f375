// Package layout places states and computes the curve, arrowhead and label
// anchor of every transition.
//
// Definitions that give coordinates for every state are laid out on a
// 100×100 grid. Otherwise all states are spread on a circle that fills the
// canvas (the radial fallback); sizes then scale with the canvas.
package layout

import (
	"math"

	"github.com/great-houk/FSM-Simulator/pkg/fsm"
	"github.com/great-houk/FSM-Simulator/pkg/geom"
)

// Sizes in grid units.
const (
	GridSize     = 100.0
	NodeRadius   = 4.0
	LoopRadius   = 3.0
	LoopLabelGap = 2.0
	BowFactor    = 0.2

	radialFill = 0.95
)

// Mode selects how states are placed.
type Mode int

const (
	ModeExplicit Mode = iota
	ModeRadial
)

func (m Mode) String() string {
	if m == ModeExplicit {
		return "explicit"
	}
	return "radial"
}

// Arrow is an arrowhead: the tip and the unit direction it points in.
type Arrow struct {
	Tip geom.Point
	Dir geom.Point
}

// Edge is the laid-out geometry of one transition.
type Edge struct {
	Transition fsm.Transition
	Curve      Curve
	Label      geom.Point
	// Arrow is nil for explicit paths; the renderer puts a marker on the
	// path end instead.
	Arrow *Arrow
}

// Engine lays out one model. It only reads the model.
type Engine struct {
	model  *fsm.Model
	mode   Mode
	width  float64
	height float64
	pos    map[string]geom.Point
}

// NewEngine lays out m on a width×height canvas. The canvas size only
// matters for the radial fallback.
func NewEngine(m *fsm.Model, width, height float64) *Engine {
	e := &Engine{model: m, mode: ModeRadial}
	if m.HasPositions() {
		e.mode = ModeExplicit
	}
	e.Resize(width, height)
	return e
}

// Resize changes the canvas and recomputes radial positions.
func (e *Engine) Resize(width, height float64) {
	e.width, e.height = width, height
	e.place()
}

func (e *Engine) place() {
	states := e.model.States()
	e.pos = make(map[string]geom.Point, len(states))

	if e.mode == ModeExplicit {
		for _, s := range states {
			e.pos[s.ID] = *s.Pos
		}
		return
	}

	centre := e.Centre()
	radius := math.Min(e.width, e.height) / 2 * radialFill
	n := float64(len(states))
	for i, s := range states {
		theta := 2 * math.Pi / n * float64(i)
		e.pos[s.ID] = geom.PointAtAngle(centre, radius, theta)
	}
}

// Mode reports the placement mode chosen for the model.
func (e *Engine) Mode() Mode { return e.mode }

// Size returns the extent of the drawing coordinate space.
func (e *Engine) Size() (width, height float64) {
	if e.mode == ModeExplicit {
		return GridSize, GridSize
	}
	return e.width, e.height
}

// Centre returns the centre of the coordinate space, which self-loops point
// away from.
func (e *Engine) Centre() geom.Point {
	w, h := e.Size()
	return geom.Pt(w/2, h/2)
}

// Scale converts grid units to drawing units.
func (e *Engine) Scale() float64 {
	if e.mode == ModeExplicit {
		return 1
	}
	return math.Min(e.width, e.height) / GridSize
}

// NodeRadius returns the drawn state radius.
func (e *Engine) NodeRadius() float64 { return NodeRadius * e.Scale() }

// Position returns the centre of a state.
func (e *Engine) Position(id string) (geom.Point, bool) {
	p, ok := e.pos[id]
	return p, ok
}

// Edge lays out t. It reports false when either endpoint is not a state of
// the model; such transitions are not drawn.
func (e *Engine) Edge(t fsm.Transition) (Edge, bool) {
	from, ok := e.pos[t.From]
	if !ok {
		return Edge{}, false
	}
	to, ok := e.pos[t.To]
	if !ok {
		return Edge{}, false
	}

	switch {
	case t.HasPath():
		return Edge{
			Transition: t,
			Curve:      ExplicitCurve{Path: t.Path},
			Label:      geom.Midpoint(from, to),
		}, true
	case t.IsSelfLoop():
		return e.selfLoop(t, from), true
	default:
		return e.quad(t, from, to), true
	}
}

// Edges lays out every drawable transition in definition order.
func (e *Engine) Edges() []Edge {
	var edges []Edge
	for _, t := range e.model.Transitions() {
		if edge, ok := e.Edge(t); ok {
			edges = append(edges, edge)
		}
	}
	return edges
}

func (e *Engine) quad(t fsm.Transition, from, to geom.Point) Edge {
	c := geom.Midpoint(from, to).Add(geom.PerpendicularOffset(from, to, BowFactor))
	end := geom.Toward(to, c, e.NodeRadius())
	q := QuadCurve{Start: from, Control: c, End: end}

	dir, ok := end.Sub(c).Unit()
	if !ok {
		dir, _ = to.Sub(from).Unit()
	}

	return Edge{
		Transition: t,
		Curve:      q,
		Label:      q.At(0.5),
		Arrow:      &Arrow{Tip: end, Dir: dir},
	}
}

// selfLoop hangs a loop circle on the node rim, on the side facing away from
// the centre. The arc runs between the two points where the circles cross.
func (e *Engine) selfLoop(t fsm.Transition, at geom.Point) Edge {
	scale := e.Scale()
	nodeR := NodeRadius * scale
	loopR := LoopRadius * scale

	d, ok := at.Sub(e.Centre()).Unit()
	if !ok {
		d = geom.Pt(0, -1)
	}

	centre := at.Add(d.Scale(nodeR))

	// Circles of radius nodeR and loopR whose centres are nodeR apart cross
	// at angle ±phi from d, seen from the node centre.
	phi := math.Acos(1 - (loopR*loopR)/(2*nodeR*nodeR))
	start := at.Add(d.Rotate(-phi).Scale(nodeR))
	end := at.Add(d.Rotate(phi).Scale(nodeR))

	tangent, _ := end.Sub(centre).Rotate(math.Pi / 2).Unit()

	return Edge{
		Transition: t,
		Curve:      ArcCurve{Centre: centre, Radius: loopR, Start: start, End: end},
		Label:      centre.Add(d.Scale(loopR + LoopLabelGap*scale)),
		Arrow:      &Arrow{Tip: end, Dir: tangent},
	}
}
