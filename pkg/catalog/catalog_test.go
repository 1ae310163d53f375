package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllExamplesLoad(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			m, err := Model(name)
			require.NoError(t, err)
			assert.Equal(t, name, m.Name())
		})
	}
}

func TestExampleShapes(t *testing.T) {
	vm := MustModel("vending_machine")
	assert.Len(t, vm.States(), 8)
	assert.Len(t, vm.Transitions(), 24)
	assert.Equal(t, "0", vm.Initial())
	assert.True(t, vm.HasPositions())
	assert.Empty(t, vm.Analyse())

	ring := MustModel("ring_counter")
	assert.False(t, ring.HasPositions())

	cp := MustModel("custom_path")
	tr, ok := cp.Lookup("B", "custom")
	require.True(t, ok)
	assert.Equal(t, "M 78 50 C 60 30, 40 70, 22 50", tr.Path)
}

func TestUnknownExample(t *testing.T) {
	_, err := Model("nope")
	assert.Error(t, err)
	assert.Panics(t, func() { MustModel("nope") })
}
