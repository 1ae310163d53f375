package fsmfile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateDOT(t *testing.T) {
	def, err := ParseYAML([]byte(pathDoc))
	require.NoError(t, err)

	out := GenerateDOT(def, "")

	assert.True(t, strings.HasPrefix(out, "digraph FSM {\n"))
	assert.Contains(t, out, `label="paths";`)
	assert.Contains(t, out, `__start -> "A";`)
	assert.Contains(t, out, `"A" [shape=circle, pos="2,5!"];`)
	assert.Contains(t, out, `"B" [shape=circle, pos="8,5!"];`)
	assert.Contains(t, out, `"A" -> "B" [label="go"];`)
	assert.Contains(t, out, `"B" -> "B" [label="wait"];`)
	assert.NotContains(t, out, "ghost")
}

func TestGenerateDOTUnpinnedAndGrouped(t *testing.T) {
	def, err := ParseYAML([]byte(`states:
  a:
  b:
transitions:
  - {from: a, to: b, input: x, output: "say \"hi\""}
  - {from: a, to: b, input: y}
initialState: a
inputs: [{name: x}, {name: y}]
`))
	require.NoError(t, err)

	out := GenerateDOT(def, "Title")
	assert.Contains(t, out, `label="Title";`)
	assert.Contains(t, out, `"a" [shape=circle];`)
	assert.Contains(t, out, `"a" -> "b" [label="x / say \"hi\"\ny"];`)
	assert.NotContains(t, out, "pos=")
}
