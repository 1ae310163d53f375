package fsm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/great-houk/FSM-Simulator/pkg/fsm"
	"github.com/great-houk/FSM-Simulator/pkg/geom"
)

func group(g int) *int { return &g }

func twoState() *fsm.Definition {
	return &fsm.Definition{
		Name: "toggle",
		States: []fsm.State{
			{ID: "off", Pos: &geom.Point{X: 25, Y: 50}},
			{ID: "on", Pos: &geom.Point{X: 75, Y: 50}},
		},
		Transitions: []fsm.Transition{
			{From: "off", To: "on", Input: "press", Outputs: []string{"light"}},
			{From: "on", To: "off", Input: "press"},
		},
		Initial: "off",
		Inputs:  []fsm.Input{{Name: "press", Group: group(0)}},
		Outputs: []fsm.Output{{Name: "light"}},
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		def  *fsm.Definition
		want error
	}{
		{"nil", nil, fsm.ErrNoStates},
		{"no states", &fsm.Definition{Initial: "a"}, fsm.ErrNoStates},
		{"no initial", &fsm.Definition{States: []fsm.State{{ID: "a"}}}, fsm.ErrNoInitial},
		{"unknown initial", &fsm.Definition{States: []fsm.State{{ID: "a"}}, Initial: "b"}, fsm.ErrUnknownInitial},
		{"duplicate", &fsm.Definition{States: []fsm.State{{ID: "a"}, {ID: "a"}}, Initial: "a"}, fsm.ErrDuplicateState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fsm.Load(tt.def)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoadCopiesDefinition(t *testing.T) {
	def := twoState()
	m, err := fsm.Load(def)
	require.NoError(t, err)

	def.States[0].Pos.X = 999
	def.Transitions[0].Outputs[0] = "changed"
	*def.Inputs[0].Group = 7

	st, ok := m.State("off")
	require.True(t, ok)
	assert.Equal(t, 25.0, st.Pos.X)
	assert.Equal(t, []string{"light"}, m.Transitions()[0].Outputs)
	in, ok := m.Input("press")
	require.True(t, ok)
	g, grouped := in.ExclusiveGroup()
	assert.True(t, grouped)
	assert.Equal(t, 0, g)

	cp := m.Definition()
	cp.States[1].ID = "other"
	assert.True(t, m.HasState("on"))
}

func TestModelAccessors(t *testing.T) {
	m, err := fsm.Load(twoState())
	require.NoError(t, err)

	assert.Equal(t, "toggle", m.Name())
	assert.Equal(t, "off", m.Initial())
	assert.Equal(t, []string{"press"}, m.InputNames())
	assert.Equal(t, []string{"light"}, m.OutputNames())
	assert.True(t, m.HasPositions())
	assert.False(t, m.HasState("dim"))
	assert.Contains(t, m.String(), "States: 2")
}

func TestLookupFirstMatch(t *testing.T) {
	def := twoState()
	def.Transitions = append(def.Transitions, fsm.Transition{From: "off", To: "off", Input: "press"})
	m, err := fsm.Load(def)
	require.NoError(t, err)

	tr, ok := m.Lookup("off", "press")
	require.True(t, ok)
	assert.Equal(t, "on", tr.To)

	_, ok = m.Lookup("off", "hold")
	assert.False(t, ok)
}

func TestTransitionLabel(t *testing.T) {
	assert.Equal(t, "a", fsm.Transition{Input: "a"}.Label())
	assert.Equal(t, "a / x", fsm.Transition{Input: "a", Outputs: []string{"x"}}.Label())
	assert.Equal(t, "a / x, y", fsm.Transition{Input: "a", Outputs: []string{"x", "y"}}.Label())
	assert.True(t, fsm.Transition{From: "s", To: "s"}.IsSelfLoop())
	assert.False(t, fsm.Transition{}.HasPath())
}

func TestHasPositionsPartial(t *testing.T) {
	def := twoState()
	def.States[1].Pos = nil
	m, err := fsm.Load(def)
	require.NoError(t, err)
	assert.False(t, m.HasPositions())
}

func TestAnalyse(t *testing.T) {
	def := twoState()
	def.Transitions = append(def.Transitions,
		fsm.Transition{From: "off", To: "ghost", Input: "press"},
		fsm.Transition{From: "on", To: "off", Input: "kick", Outputs: []string{"boom"}},
	)
	m, err := fsm.Load(def)
	require.NoError(t, err)

	warnings := m.Analyse()
	require.Len(t, warnings, 4)
	assert.Contains(t, warnings[0], `to state "ghost"`)
	assert.Contains(t, warnings[1], "shadowed by transition 0")
	assert.Contains(t, warnings[2], `input "kick" not declared`)
	assert.Contains(t, warnings[3], `output "boom" not declared`)

	clean, err := fsm.Load(twoState())
	require.NoError(t, err)
	assert.Empty(t, clean.Analyse())
}

func TestSelectableInputs(t *testing.T) {
	def := twoState()
	def.Inputs = append(def.Inputs, fsm.Input{Name: "press"}, fsm.Input{Name: "idle"})
	def.Transitions = append(def.Transitions,
		fsm.Transition{From: "on", To: "on", Input: "kick"},
		fsm.Transition{From: "off", To: "off", Input: ""},
		fsm.Transition{From: "on", To: "off", Input: "kick"},
	)
	m, err := fsm.Load(def)
	require.NoError(t, err)

	var names []string
	for _, in := range m.SelectableInputs() {
		names = append(names, in.Name)
	}
	assert.Equal(t, []string{"press", "idle", "kick", ""}, names)

	in, ok := m.SelectableInput("press")
	require.True(t, ok)
	g, grouped := in.ExclusiveGroup()
	assert.True(t, grouped)
	assert.Equal(t, 0, g)

	in, ok = m.SelectableInput("kick")
	require.True(t, ok)
	_, grouped = in.ExclusiveGroup()
	assert.False(t, grouped)

	_, ok = m.Input("kick")
	assert.False(t, ok, "Input only knows declared names")
	_, ok = m.SelectableInput("nope")
	assert.False(t, ok)
}
