package fsmfile

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"
)

const definitionSchemaURL = "https://fsm-simulator.local/schemas/definition.json"

// definitionSchemaJSON describes a definition document. Semantic checks
// (initial state declared, unique ids) are left to fsm.Load.
const definitionSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["states", "transitions", "initialState", "inputs"],
  "properties": {
    "name": {"type": "string"},
    "description": {"type": "string"},
    "states": {
      "type": "object",
      "minProperties": 1,
      "additionalProperties": {
        "anyOf": [
          {"type": "null"},
          {
            "type": "object",
            "properties": {
              "x": {"type": "number"},
              "y": {"type": "number"}
            },
            "additionalProperties": false
          }
        ]
      }
    },
    "transitions": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["from", "to", "input"],
        "properties": {
          "from": {"type": "string", "minLength": 1},
          "to": {"type": "string", "minLength": 1},
          "input": {"type": "string"},
          "output": {
            "anyOf": [
              {"type": "string"},
              {"type": "array", "items": {"type": "string"}}
            ]
          },
          "path": {"type": "string"}
        },
        "additionalProperties": false
      }
    },
    "initialState": {"type": "string", "minLength": 1},
    "inputs": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name"],
        "properties": {
          "name": {"type": "string"},
          "exclusiveGroup": {"type": "integer"}
        },
        "additionalProperties": false
      }
    },
    "outputs": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name"],
        "properties": {
          "name": {"type": "string"}
        },
        "additionalProperties": false
      }
    }
  },
  "additionalProperties": false
}`

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func definitionSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(definitionSchemaJSON))
		if err != nil {
			schemaErr = fmt.Errorf("unmarshal definition schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(definitionSchemaURL, doc); err != nil {
			schemaErr = fmt.Errorf("add definition schema resource: %w", err)
			return
		}
		schema, schemaErr = c.Compile(definitionSchemaURL)
	})
	return schema, schemaErr
}

// ValidateJSON checks a JSON document against the definition schema.
func ValidateJSON(data []byte) error {
	sch, err := definitionSchema()
	if err != nil {
		return err
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to parse definition: %w", err)
	}
	if err := sch.Validate(doc); err != nil {
		return fmt.Errorf("invalid definition: %w", err)
	}
	return nil
}
