package layout

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/great-houk/FSM-Simulator/pkg/catalog"
	"github.com/great-houk/FSM-Simulator/pkg/fsm"
	"github.com/great-houk/FSM-Simulator/pkg/geom"
)

const eps = 1e-9

func assertPoint(t *testing.T, want, got geom.Point, msgAndArgs ...interface{}) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-6, msgAndArgs...)
	assert.InDelta(t, want.Y, got.Y, 1e-6, msgAndArgs...)
}

func load(t *testing.T, def *fsm.Definition) *fsm.Model {
	t.Helper()
	m, err := fsm.Load(def)
	require.NoError(t, err)
	return m
}

func at(x, y float64) *geom.Point { return &geom.Point{X: x, Y: y} }

func TestModeSelection(t *testing.T) {
	e := NewEngine(catalog.MustModel("vending_machine"), 640, 480)
	assert.Equal(t, ModeExplicit, e.Mode())
	w, h := e.Size()
	assert.Equal(t, GridSize, w)
	assert.Equal(t, GridSize, h)
	assert.Equal(t, 1.0, e.Scale())

	e = NewEngine(catalog.MustModel("ring_counter"), 640, 480)
	assert.Equal(t, ModeRadial, e.Mode())

	// One state without coordinates sends everything radial.
	partial := load(t, &fsm.Definition{
		States:  []fsm.State{{ID: "a", Pos: at(10, 10)}, {ID: "b"}},
		Initial: "a",
	})
	e = NewEngine(partial, 200, 200)
	assert.Equal(t, ModeRadial, e.Mode())
	p, ok := e.Position("a")
	require.True(t, ok)
	assertPoint(t, geom.Pt(195, 100), p)
}

func TestExplicitPositions(t *testing.T) {
	e := NewEngine(catalog.MustModel("traffic_light"), 640, 480)

	p, ok := e.Position("Yellow")
	require.True(t, ok)
	assert.Equal(t, geom.Pt(75, 50), p)

	// Resizing does not move explicit states.
	e.Resize(10, 10)
	p, _ = e.Position("Yellow")
	assert.Equal(t, geom.Pt(75, 50), p)

	_, ok = e.Position("Blue")
	assert.False(t, ok)
}

func TestRadialPositions(t *testing.T) {
	e := NewEngine(catalog.MustModel("ring_counter"), 200, 100)

	radius := 100.0 / 2 * 0.95
	centre := geom.Pt(100, 50)
	for i, id := range []string{"S0", "S1", "S2", "S3"} {
		theta := 2 * math.Pi * float64(i) / 4
		p, ok := e.Position(id)
		require.True(t, ok)
		assertPoint(t, geom.PointAtAngle(centre, radius, theta), p, id)
	}

	p, _ := e.Position("S1")
	assertPoint(t, geom.Pt(100, 97.5), p)

	e.Resize(100, 100)
	p, _ = e.Position("S1")
	assertPoint(t, geom.Pt(50, 97.5), p)
	assert.Equal(t, 1.0, e.Scale())
}

func TestRadialDeterministic(t *testing.T) {
	m := catalog.MustModel("ring_counter")
	a := NewEngine(m, 300, 300)
	b := NewEngine(m, 300, 300)
	for _, s := range m.States() {
		pa, _ := a.Position(s.ID)
		pb, _ := b.Position(s.ID)
		assert.Equal(t, pa, pb)
	}
}

func TestQuadEdge(t *testing.T) {
	m := catalog.MustModel("custom_path")
	e := NewEngine(m, 0, 0)

	tr, ok := m.Lookup("A", "auto")
	require.True(t, ok)
	edge, ok := e.Edge(tr)
	require.True(t, ok)

	q, ok := edge.Curve.(QuadCurve)
	require.True(t, ok, "want QuadCurve, got %T", edge.Curve)

	from, to := geom.Pt(20, 50), geom.Pt(80, 50)
	c := geom.Pt(50, 62) // mid (50,50) + (-0, 60)·0.2
	assertPoint(t, from, q.Start)
	assertPoint(t, c, q.Control)

	// End sits one node radius from the target, on the line to the control point.
	assert.InDelta(t, NodeRadius, q.End.Sub(to).Len(), eps)
	dc, _ := c.Sub(to).Unit()
	de, _ := q.End.Sub(to).Unit()
	assertPoint(t, dc, de)
	assertPoint(t, geom.Pt(76.2861, 51.4856), geom.Pt(math.Round(q.End.X*1e4)/1e4, math.Round(q.End.Y*1e4)/1e4))

	assertPoint(t, geom.QuadAt(from, c, q.End, 0.5), edge.Label)

	require.NotNil(t, edge.Arrow)
	assertPoint(t, q.End, edge.Arrow.Tip)
	assert.InDelta(t, 1, edge.Arrow.Dir.Len(), eps)
	assert.Greater(t, edge.Arrow.Dir.X, 0.0)
}

func TestQuadEdgeScalesInRadialMode(t *testing.T) {
	m := catalog.MustModel("ring_counter")
	e := NewEngine(m, 400, 400)

	tr, _ := m.Lookup("S0", "0")
	edge, ok := e.Edge(tr)
	require.True(t, ok)
	q := edge.Curve.(QuadCurve)
	to, _ := e.Position("S1")
	assert.InDelta(t, NodeRadius*4, q.End.Sub(to).Len(), eps)
}

func TestSelfLoopEdge(t *testing.T) {
	m := catalog.MustModel("ring_counter")
	e := NewEngine(m, 100, 100)

	tr, ok := m.Lookup("S2", "1")
	require.True(t, ok)
	edge, ok := e.Edge(tr)
	require.True(t, ok)

	arc, ok := edge.Curve.(ArcCurve)
	require.True(t, ok, "want ArcCurve, got %T", edge.Curve)

	node := geom.Pt(2.5, 50) // θ = π on a radius of 47.5
	assertPoint(t, geom.Pt(-1.5, 50), arc.Centre)
	assert.Equal(t, LoopRadius, arc.Radius)

	for _, p := range []geom.Point{arc.Start, arc.End} {
		assert.InDelta(t, NodeRadius, p.Sub(node).Len(), 1e-6)
		assert.InDelta(t, LoopRadius, p.Sub(arc.Centre).Len(), 1e-6)
	}

	// Label continues outward along the same direction.
	assertPoint(t, geom.Pt(-1.5-LoopRadius-LoopLabelGap, 50), edge.Label)

	_, sweep := arc.Angles()
	assert.Greater(t, sweep, math.Pi)

	require.NotNil(t, edge.Arrow)
	assertPoint(t, arc.End, edge.Arrow.Tip)
	assert.InDelta(t, 0, edge.Arrow.Dir.X*(arc.End.X-arc.Centre.X)+edge.Arrow.Dir.Y*(arc.End.Y-arc.Centre.Y), 1e-6)
}

func TestSelfLoopAtCentre(t *testing.T) {
	m := load(t, &fsm.Definition{
		States:      []fsm.State{{ID: "hub", Pos: at(50, 50)}},
		Transitions: []fsm.Transition{{From: "hub", To: "hub", Input: "spin"}},
		Initial:     "hub",
		Inputs:      []fsm.Input{{Name: "spin"}},
	})
	e := NewEngine(m, 0, 0)

	edge, ok := e.Edge(m.Transitions()[0])
	require.True(t, ok)
	arc := edge.Curve.(ArcCurve)
	assertPoint(t, geom.Pt(50, 46), arc.Centre)
	assert.Less(t, edge.Label.Y, arc.Centre.Y)
}

func TestExplicitPathWins(t *testing.T) {
	m := load(t, &fsm.Definition{
		States: []fsm.State{{ID: "a", Pos: at(20, 20)}, {ID: "b", Pos: at(60, 20)}},
		Transitions: []fsm.Transition{
			{From: "a", To: "a", Input: "x", Path: "M 20 16 C 10 0, 30 0, 20 16"},
			{From: "b", To: "a", Input: "y", Path: "M 60 20 L 20 20"},
		},
		Initial: "a",
		Inputs:  []fsm.Input{{Name: "x"}, {Name: "y"}},
	})
	e := NewEngine(m, 0, 0)

	loop, ok := e.Edge(m.Transitions()[0])
	require.True(t, ok)
	assert.Equal(t, ExplicitCurve{Path: "M 20 16 C 10 0, 30 0, 20 16"}, loop.Curve)
	assert.Nil(t, loop.Arrow)
	assertPoint(t, geom.Pt(20, 20), loop.Label)

	line, ok := e.Edge(m.Transitions()[1])
	require.True(t, ok)
	assert.Equal(t, "M 60 20 L 20 20", line.Curve.PathData())
	assertPoint(t, geom.Pt(40, 20), line.Label)
}

func TestDanglingEdgeSkipped(t *testing.T) {
	m := load(t, &fsm.Definition{
		States: []fsm.State{{ID: "a"}, {ID: "b"}},
		Transitions: []fsm.Transition{
			{From: "a", To: "ghost", Input: "x"},
			{From: "a", To: "b", Input: "x"},
			{From: "ghost", To: "a", Input: "y"},
		},
		Initial: "a",
	})
	e := NewEngine(m, 100, 100)

	_, ok := e.Edge(m.Transitions()[0])
	assert.False(t, ok)

	edges := e.Edges()
	require.Len(t, edges, 1)
	assert.Equal(t, "b", edges[0].Transition.To)
}

func TestPathData(t *testing.T) {
	q := QuadCurve{Start: geom.Pt(0, 0), Control: geom.Pt(1.5, 2), End: geom.Pt(3, 4.12345)}
	assert.Equal(t, "M 0 0 Q 1.5 2 3 4.123", q.PathData())

	a := ArcCurve{Centre: geom.Pt(0, 0), Radius: 3, Start: geom.Pt(-1, 2), End: geom.Pt(1, 2)}
	assert.Equal(t, "M -1 2 A 3 3 0 1 1 1 2", a.PathData())

	assert.Equal(t, "M 0 0 Q 0 0 0 0", QuadCurve{}.PathData())
	assert.Equal(t, "0", num(-0.0001))
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "explicit", ModeExplicit.String())
	assert.Equal(t, "radial", ModeRadial.String())
}
