// Package fsm provides the automaton model and the simulation session that
// steps it.
package fsm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/great-houk/FSM-Simulator/pkg/geom"
)

// State is a named node of the automaton. Pos is nil when the definition
// gives no coordinates for it.
type State struct {
	ID  string
	Pos *geom.Point
}

// Transition represents a state transition fired by a named input.
type Transition struct {
	From    string
	To      string
	Input   string
	Outputs []string // fired together, in order; empty when the transition is silent
	Path    string   // explicit curve override, passed to renderers verbatim
}

// IsSelfLoop reports whether the transition returns to its source state.
func (t Transition) IsSelfLoop() bool {
	return t.From == t.To
}

// HasPath reports whether the transition carries an explicit curve override.
func (t Transition) HasPath() bool {
	return t.Path != ""
}

// Label returns "input" or "input / out1, out2".
func (t Transition) Label() string {
	if len(t.Outputs) == 0 {
		return t.Input
	}
	return t.Input + " / " + strings.Join(t.Outputs, ", ")
}

// Input is a selectable input symbol. Inputs sharing a Group form a radio set.
type Input struct {
	Name  string
	Group *int
}

// ExclusiveGroup returns the radio group of the input, if any.
func (in Input) ExclusiveGroup() (int, bool) {
	if in.Group == nil {
		return 0, false
	}
	return *in.Group, true
}

// Output is a named output label.
type Output struct {
	Name string
}

// Definition is the loadable description of an automaton.
type Definition struct {
	Name        string
	Description string
	States      []State
	Transitions []Transition
	Initial     string
	Inputs      []Input
	Outputs     []Output
}

// Load errors.
var (
	ErrNoStates       = errors.New("definition has no states")
	ErrNoInitial      = errors.New("definition has no initial state")
	ErrUnknownInitial = errors.New("initial state not in states")
	ErrDuplicateState = errors.New("duplicate state id")
)

// Model is an automaton definition that has been validated and frozen.
// It is never mutated after Load and may be shared by readers.
type Model struct {
	def        Definition
	stateIndex map[string]int
	inputIndex map[string]int

	// selectable is the declared inputs followed by the undeclared input
	// names transitions use, which act as ungrouped inputs.
	selectable  []Input
	selectIndex map[string]int
}

// Load validates def and returns a model holding a private copy of it.
func Load(def *Definition) (*Model, error) {
	if def == nil || len(def.States) == 0 {
		return nil, ErrNoStates
	}
	if def.Initial == "" {
		return nil, ErrNoInitial
	}

	m := &Model{
		def:        def.clone(),
		stateIndex: make(map[string]int, len(def.States)),
		inputIndex: make(map[string]int, len(def.Inputs)),
	}
	for i, s := range m.def.States {
		if _, dup := m.stateIndex[s.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateState, s.ID)
		}
		m.stateIndex[s.ID] = i
	}
	if _, ok := m.stateIndex[m.def.Initial]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownInitial, m.def.Initial)
	}
	m.selectIndex = make(map[string]int, len(def.Inputs))
	for i, in := range m.def.Inputs {
		// Names are display labels; the first declaration wins a lookup.
		if _, seen := m.inputIndex[in.Name]; !seen {
			m.inputIndex[in.Name] = i
			m.selectIndex[in.Name] = len(m.selectable)
			m.selectable = append(m.selectable, in)
		}
	}
	for _, t := range m.def.Transitions {
		if _, seen := m.selectIndex[t.Input]; !seen {
			m.selectIndex[t.Input] = len(m.selectable)
			m.selectable = append(m.selectable, Input{Name: t.Input})
		}
	}
	return m, nil
}

// Name returns the definition name, which may be empty.
func (m *Model) Name() string { return m.def.Name }

// Description returns the definition description, which may be empty.
func (m *Model) Description() string { return m.def.Description }

// Initial returns the initial state id.
func (m *Model) Initial() string { return m.def.Initial }

// Definition returns a deep copy of the loaded definition.
func (m *Model) Definition() Definition { return m.def.clone() }

// States returns the states in definition order. The slice must not be modified.
func (m *Model) States() []State { return m.def.States }

// Transitions returns the transitions in definition order. The slice must not be modified.
func (m *Model) Transitions() []Transition { return m.def.Transitions }

// Inputs returns the declared inputs. The slice must not be modified.
func (m *Model) Inputs() []Input { return m.def.Inputs }

// HasState reports whether id names a declared state.
func (m *Model) HasState(id string) bool {
	_, ok := m.stateIndex[id]
	return ok
}

// State returns the state with the given id.
func (m *Model) State(id string) (State, bool) {
	i, ok := m.stateIndex[id]
	if !ok {
		return State{}, false
	}
	return m.def.States[i], true
}

// Input returns the declared input with the given name.
func (m *Model) Input(name string) (Input, bool) {
	i, ok := m.inputIndex[name]
	if !ok {
		return Input{}, false
	}
	return m.def.Inputs[i], true
}

// SelectableInputs returns every input a session accepts: the declared
// inputs, first declaration of each name, followed by the ungrouped input
// names that transitions use without declaring. The slice must not be
// modified.
func (m *Model) SelectableInputs() []Input { return m.selectable }

// SelectableInput returns the selectable input with the given name.
func (m *Model) SelectableInput(name string) (Input, bool) {
	i, ok := m.selectIndex[name]
	if !ok {
		return Input{}, false
	}
	return m.selectable[i], true
}

// InputNames returns the declared input names in order.
func (m *Model) InputNames() []string {
	names := make([]string, len(m.def.Inputs))
	for i, in := range m.def.Inputs {
		names[i] = in.Name
	}
	return names
}

// OutputNames returns the declared output names in order.
func (m *Model) OutputNames() []string {
	names := make([]string, len(m.def.Outputs))
	for i, o := range m.def.Outputs {
		names[i] = o.Name
	}
	return names
}

// Lookup returns the first transition, in definition order, leaving state on
// input. It does not check that the endpoints are declared states.
func (m *Model) Lookup(state, input string) (Transition, bool) {
	for _, t := range m.def.Transitions {
		if t.From == state && t.Input == input {
			return t, true
		}
	}
	return Transition{}, false
}

// HasPositions reports whether every state carries explicit coordinates.
func (m *Model) HasPositions() bool {
	for _, s := range m.def.States {
		if s.Pos == nil {
			return false
		}
	}
	return true
}

// Analyse returns warnings about definition problems that do not stop a
// simulation: dangling references, shadowed transitions and undeclared
// symbols.
func (m *Model) Analyse() []string {
	var warnings []string

	declaredOut := make(map[string]bool, len(m.def.Outputs))
	for _, o := range m.def.Outputs {
		declaredOut[o.Name] = true
	}

	type key struct{ from, input string }
	first := make(map[key]int)

	for i, t := range m.def.Transitions {
		if !m.HasState(t.From) {
			warnings = append(warnings, fmt.Sprintf("transition %d: from state %q not in states", i, t.From))
		}
		if !m.HasState(t.To) {
			warnings = append(warnings, fmt.Sprintf("transition %d: to state %q not in states", i, t.To))
		}
		if _, ok := m.inputIndex[t.Input]; !ok {
			warnings = append(warnings, fmt.Sprintf("transition %d: input %q not declared", i, t.Input))
		}
		if len(m.def.Outputs) > 0 {
			for _, o := range t.Outputs {
				if !declaredOut[o] {
					warnings = append(warnings, fmt.Sprintf("transition %d: output %q not declared", i, o))
				}
			}
		}

		k := key{t.From, t.Input}
		if j, dup := first[k]; dup {
			warnings = append(warnings, fmt.Sprintf("transition %d: shadowed by transition %d (%s on %q)", i, j, t.From, t.Input))
		} else {
			first[k] = i
		}
	}

	return warnings
}

// String returns a short summary of the model.
func (m *Model) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("FSM: %s\n", m.def.Name))
	sb.WriteString(fmt.Sprintf("  States: %d\n", len(m.def.States)))
	sb.WriteString(fmt.Sprintf("  Inputs: %v\n", m.InputNames()))
	sb.WriteString(fmt.Sprintf("  Initial: %s\n", m.def.Initial))
	sb.WriteString(fmt.Sprintf("  Transitions: %d\n", len(m.def.Transitions)))
	return sb.String()
}

func (d *Definition) clone() Definition {
	c := Definition{
		Name:        d.Name,
		Description: d.Description,
		Initial:     d.Initial,
		States:      make([]State, len(d.States)),
		Transitions: make([]Transition, len(d.Transitions)),
		Inputs:      make([]Input, len(d.Inputs)),
		Outputs:     make([]Output, len(d.Outputs)),
	}
	for i, s := range d.States {
		c.States[i] = State{ID: s.ID}
		if s.Pos != nil {
			p := *s.Pos
			c.States[i].Pos = &p
		}
	}
	for i, t := range d.Transitions {
		c.Transitions[i] = t
		if t.Outputs != nil {
			c.Transitions[i].Outputs = append([]string(nil), t.Outputs...)
		}
	}
	for i, in := range d.Inputs {
		c.Inputs[i] = Input{Name: in.Name}
		if in.Group != nil {
			g := *in.Group
			c.Inputs[i].Group = &g
		}
	}
	copy(c.Outputs, d.Outputs)
	return c
}
