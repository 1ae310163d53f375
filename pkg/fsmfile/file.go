// Package fsmfile reads and writes automaton definitions and converts them
// to exchange formats (DOT, editable SVG).
package fsmfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/great-houk/FSM-Simulator/pkg/fsm"
)

// Format is a definition file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the encoding from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown file format: %s", filepath.Ext(path))
}

// Parse decodes a definition in the given format.
func Parse(data []byte, format Format) (*fsm.Definition, error) {
	switch format {
	case FormatJSON:
		return ParseJSON(data)
	case FormatYAML:
		return ParseYAML(data)
	}
	return nil, fmt.Errorf("unknown format %q", format)
}

// Encode encodes a definition in the given format.
func Encode(def *fsm.Definition, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := ToJSON(def, true)
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case FormatYAML:
		return ToYAML(def)
	}
	return nil, fmt.Errorf("unknown format %q", format)
}

// ReadFile reads a definition from a .json, .yaml or .yml file.
func ReadFile(path string) (*fsm.Definition, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	def, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

// WriteFile writes a definition, choosing the encoding from the extension.
func WriteFile(path string, def *fsm.Definition) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	data, err := Encode(def, format)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadModel reads a definition file and loads it.
func LoadModel(path string) (*fsm.Model, error) {
	def, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := fsm.Load(def)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}
