// Package catalog ships the example automata.
package catalog

import (
	"embed"
	"fmt"

	"github.com/great-houk/FSM-Simulator/pkg/fsm"
	"github.com/great-houk/FSM-Simulator/pkg/fsmfile"
)

//go:embed data/*.yaml
var files embed.FS

var entries = []struct {
	name string
	file string
}{
	{"vending_machine", "data/vending_machine.yaml"},
	{"traffic_light", "data/traffic_light.yaml"},
	{"binary-division", "data/binary_division.yaml"},
	{"custom_path", "data/custom_path.yaml"},
	{"ring_counter", "data/ring_counter.yaml"},
}

// Names returns the example names in catalog order.
func Names() []string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.name
	}
	return names
}

// Source returns the raw YAML of an example.
func Source(name string) ([]byte, error) {
	for _, e := range entries {
		if e.name == name {
			return files.ReadFile(e.file)
		}
	}
	return nil, fmt.Errorf("example %q not found", name)
}

// Definition parses an example.
func Definition(name string) (*fsm.Definition, error) {
	data, err := Source(name)
	if err != nil {
		return nil, err
	}
	def, err := fsmfile.ParseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("example %q: %w", name, err)
	}
	return def, nil
}

// Model parses and loads an example.
func Model(name string) (*fsm.Model, error) {
	def, err := Definition(name)
	if err != nil {
		return nil, err
	}
	return fsm.Load(def)
}

// MustModel is like Model but panics on error. Intended for tests and
// examples, where the catalog is known to be valid.
func MustModel(name string) *fsm.Model {
	m, err := Model(name)
	if err != nil {
		panic(err)
	}
	return m
}
