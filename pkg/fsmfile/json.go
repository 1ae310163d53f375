package fsmfile

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/great-houk/FSM-Simulator/pkg/fsm"
	"github.com/great-houk/FSM-Simulator/pkg/geom"
)

// jsonDefinition is the on-disk representation of a definition. The same
// struct is used for YAML.
type jsonDefinition struct {
	Name         string           `json:"name,omitempty" yaml:"name,omitempty"`
	Description  string           `json:"description,omitempty" yaml:"description,omitempty"`
	States       stateMap         `json:"states" yaml:"states"`
	Transitions  []jsonTransition `json:"transitions" yaml:"transitions"`
	InitialState string           `json:"initialState" yaml:"initialState"`
	Inputs       []jsonInput      `json:"inputs" yaml:"inputs"`
	Outputs      []jsonOutput     `json:"outputs,omitempty" yaml:"outputs,omitempty"`
}

type jsonTransition struct {
	From   string    `json:"from" yaml:"from"`
	To     string    `json:"to" yaml:"to"`
	Input  string    `json:"input" yaml:"input"`
	Output outputSet `json:"output,omitempty" yaml:"output,omitempty"`
	Path   string    `json:"path,omitempty" yaml:"path,omitempty"`
}

type jsonInput struct {
	Name           string `json:"name" yaml:"name"`
	ExclusiveGroup *int   `json:"exclusiveGroup,omitempty" yaml:"exclusiveGroup,omitempty"`
}

type jsonOutput struct {
	Name string `json:"name" yaml:"name"`
}

// statePos is the value of one entry of the states object. Either
// coordinate may be absent.
type statePos struct {
	X *float64 `json:"x,omitempty" yaml:"x,omitempty"`
	Y *float64 `json:"y,omitempty" yaml:"y,omitempty"`
}

type stateEntry struct {
	ID  string
	Pos statePos
}

// stateMap is the states object, kept in document order so the radial
// fallback layout is stable.
type stateMap []stateEntry

func (s *stateMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("states: expected object, got %v", tok)
	}

	var out stateMap
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		id, ok := tok.(string)
		if !ok {
			return fmt.Errorf("states: unexpected key %v", tok)
		}
		var pos statePos
		if err := dec.Decode(&pos); err != nil {
			return fmt.Errorf("state %q: %w", id, err)
		}
		out = append(out, stateEntry{ID: id, Pos: pos})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*s = out
	return nil
}

func (s stateMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.ID)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(e.Pos)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// outputSet accepts either a single label or a list of labels.
type outputSet []string

func (o *outputSet) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = nil
		return nil
	}
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*o = outputSet{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("output: expected string or list of strings")
	}
	*o = many
	return nil
}

func (o outputSet) MarshalJSON() ([]byte, error) {
	if len(o) == 1 {
		return json.Marshal(o[0])
	}
	return json.Marshal([]string(o))
}

// ParseJSON parses and validates a definition from JSON.
func ParseJSON(data []byte) (*fsm.Definition, error) {
	if err := ValidateJSON(data); err != nil {
		return nil, err
	}

	var j jsonDefinition
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("failed to parse definition: %w", err)
	}
	return j.definition(), nil
}

// ToJSON converts a definition to JSON.
func ToJSON(def *fsm.Definition, pretty bool) ([]byte, error) {
	j := fromDefinition(def)
	if pretty {
		return json.MarshalIndent(j, "", "  ")
	}
	return json.Marshal(j)
}

func (j *jsonDefinition) definition() *fsm.Definition {
	def := &fsm.Definition{
		Name:        j.Name,
		Description: j.Description,
		Initial:     j.InitialState,
	}

	for _, e := range j.States {
		st := fsm.State{ID: e.ID}
		if e.Pos.X != nil && e.Pos.Y != nil {
			st.Pos = &geom.Point{X: *e.Pos.X, Y: *e.Pos.Y}
		}
		def.States = append(def.States, st)
	}

	for _, jt := range j.Transitions {
		t := fsm.Transition{
			From:  jt.From,
			To:    jt.To,
			Input: jt.Input,
			Path:  jt.Path,
		}
		if len(jt.Output) > 0 {
			t.Outputs = append([]string(nil), jt.Output...)
		}
		def.Transitions = append(def.Transitions, t)
	}

	for _, ji := range j.Inputs {
		in := fsm.Input{Name: ji.Name}
		if ji.ExclusiveGroup != nil {
			g := *ji.ExclusiveGroup
			in.Group = &g
		}
		def.Inputs = append(def.Inputs, in)
	}

	for _, jo := range j.Outputs {
		def.Outputs = append(def.Outputs, fsm.Output{Name: jo.Name})
	}

	return def
}

func fromDefinition(def *fsm.Definition) *jsonDefinition {
	j := &jsonDefinition{
		Name:         def.Name,
		Description:  def.Description,
		InitialState: def.Initial,
		States:       stateMap{},
		Transitions:  []jsonTransition{},
		Inputs:       []jsonInput{},
	}

	for _, st := range def.States {
		e := stateEntry{ID: st.ID}
		if st.Pos != nil {
			x, y := st.Pos.X, st.Pos.Y
			e.Pos = statePos{X: &x, Y: &y}
		}
		j.States = append(j.States, e)
	}

	for _, t := range def.Transitions {
		j.Transitions = append(j.Transitions, jsonTransition{
			From:   t.From,
			To:     t.To,
			Input:  t.Input,
			Output: outputSet(t.Outputs),
			Path:   t.Path,
		})
	}

	for _, in := range def.Inputs {
		ji := jsonInput{Name: in.Name}
		if g, ok := in.ExclusiveGroup(); ok {
			ji.ExclusiveGroup = &g
		}
		j.Inputs = append(j.Inputs, ji)
	}

	for _, o := range def.Outputs {
		j.Outputs = append(j.Outputs, jsonOutput{Name: o.Name})
	}

	return j
}
