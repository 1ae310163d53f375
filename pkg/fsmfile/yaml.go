package fsmfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/great-houk/FSM-Simulator/pkg/fsm"
)

func (s *stateMap) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: states: expected mapping", value.Line)
	}

	out := make(stateMap, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, val := value.Content[i], value.Content[i+1]
		var pos statePos
		if err := val.Decode(&pos); err != nil {
			return fmt.Errorf("line %d: state %q: %w", val.Line, key.Value, err)
		}
		out = append(out, stateEntry{ID: key.Value, Pos: pos})
	}

	*s = out
	return nil
}

func (s stateMap) MarshalYAML() (interface{}, error) {
	n := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range s {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.ID}
		val := &yaml.Node{}
		if err := val.Encode(e.Pos); err != nil {
			return nil, err
		}
		val.Style = yaml.FlowStyle
		n.Content = append(n.Content, key, val)
	}
	return n, nil
}

func (o *outputSet) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		*o = outputSet{value.Value}
		return nil
	case yaml.SequenceNode:
		var many []string
		if err := value.Decode(&many); err != nil {
			return err
		}
		*o = many
		return nil
	}
	return fmt.Errorf("line %d: output: expected string or list of strings", value.Line)
}

func (o outputSet) MarshalYAML() (interface{}, error) {
	if len(o) == 1 {
		return o[0], nil
	}
	return []string(o), nil
}

// ParseYAML parses and validates a definition from YAML. Unknown keys are
// rejected.
func ParseYAML(data []byte) (*fsm.Definition, error) {
	var j jsonDefinition
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&j); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse definition: empty document")
		}
		return nil, fmt.Errorf("failed to parse definition: %w", err)
	}

	// Scalars were coerced by the decoder; validate the normalised form.
	normalised, err := json.Marshal(&j)
	if err != nil {
		return nil, fmt.Errorf("failed to normalise definition: %w", err)
	}
	if err := ValidateJSON(normalised); err != nil {
		return nil, err
	}

	return j.definition(), nil
}

// ToYAML converts a definition to YAML, keeping state order.
func ToYAML(def *fsm.Definition) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fromDefinition(def)); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
