package render

import (
	"github.com/great-houk/FSM-Simulator/pkg/fsm"
	"github.com/great-houk/FSM-Simulator/pkg/layout"
)

// Emit projects a model, its session and its layout into draw commands:
// edges first so nodes paint over their ends, each group in definition
// order. Transitions naming an unknown state are left out. last, when it is
// a successful step, marks the transition that fired.
//
// Emit only reads its arguments. A nil or disposed session highlights
// nothing.
func Emit(m *fsm.Model, s *fsm.Session, eng *layout.Engine, last *fsm.StepResult) []Command {
	var cmds []Command

	fired := -1
	if last != nil && last.OK() {
		fired = firedIndex(m, last)
	}

	for i, t := range m.Transitions() {
		edge, ok := eng.Edge(t)
		if !ok {
			continue
		}
		cmds = append(cmds, &EdgeCommand{
			From:    t.From,
			To:      t.To,
			Input:   t.Input,
			Curve:   edge.Curve,
			Arrow:   edge.Arrow,
			Label:   t.Label(),
			LabelAt: edge.Label,
			Fired:   i == fired,
		})
	}

	active := ""
	if s != nil {
		active = s.ActiveState()
	}
	radius := eng.NodeRadius()
	for _, st := range m.States() {
		pos, _ := eng.Position(st.ID)
		cmds = append(cmds, &NodeCommand{
			ID:          st.ID,
			Centre:      pos,
			Radius:      radius,
			Label:       st.ID,
			Initial:     st.ID == m.Initial(),
			Highlighted: active != "" && st.ID == active,
		})
	}

	return cmds
}

// NewFrame emits the commands for the session's current state and wraps them
// with the layout's coordinate space.
func NewFrame(s *fsm.Session, eng *layout.Engine, last *fsm.StepResult) Frame {
	w, h := eng.Size()
	f := Frame{Width: w, Height: h}
	m := s.Model()
	if m == nil {
		return f
	}
	f.Title = m.Name()
	f.Commands = Emit(m, s, eng, last)
	if last != nil && last.OK() {
		f.Outputs = append([]string(nil), last.Outputs...)
	}
	return f
}

// firedIndex finds the transition a step took. Lookup returns the first
// match, so the first (from, input) match is the one that fired.
func firedIndex(m *fsm.Model, r *fsm.StepResult) int {
	for i, t := range m.Transitions() {
		if t.From == r.From && t.Input == r.Input {
			return i
		}
	}
	return -1
}
