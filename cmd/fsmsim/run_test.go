package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/great-houk/FSM-Simulator/pkg/catalog"
	"github.com/great-houk/FSM-Simulator/pkg/fsm"
)

func runScript(t *testing.T, name string, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	s := fsm.NewSession(catalog.MustModel(name))
	repl(strings.NewReader(strings.Join(lines, "\n")+"\n"), &out, s)
	return out.String()
}

func TestREPLFire(t *testing.T) {
	out := runScript(t, "vending_machine",
		"fire insert quarter",
		"fire insert nickel",
		"fire insert quarter",
		"quit",
	)
	assert.Contains(t, out, "FSM: vending_machine")
	assert.Contains(t, out, "0 --insert quarter--> 25")
	assert.Contains(t, out, "25 --insert nickel--> 30")
	assert.Contains(t, out, "30 --insert quarter--> 0 [dispense candy, change 20]")
}

func TestREPLSelectAndStep(t *testing.T) {
	out := runScript(t, "vending_machine",
		"step",
		"select insert dime",
		"step",
		"step",
		"status",
	)
	assert.Contains(t, out, "Cannot step: no input selected")
	assert.Contains(t, out, "Selected insert dime")
	assert.Contains(t, out, "0 --insert dime--> 10")
	assert.Contains(t, out, "10 --insert dime--> 20")
	assert.Contains(t, out, "State: 20  (pending: insert dime)")
}

func TestREPLBranchAndDiscard(t *testing.T) {
	out := runScript(t, "vending_machine",
		"fire insert nickel",
		"fire insert nickel",
		"back",
		"fire insert dime",
		"history",
	)
	assert.Contains(t, out, "History:\n   0: 0\n   1: 5\n * 2: 15\n")
}

func TestREPLBackAtStart(t *testing.T) {
	out := runScript(t, "vending_machine", "back")
	assert.Contains(t, out, "Cannot go back: already at the start of history")
}

func TestREPLExclusiveToggle(t *testing.T) {
	out := runScript(t, "traffic_light",
		"select timer",
		"select timer",
		"step",
		"fire timer",
		"fire timer",
	)
	assert.Contains(t, out, "Selected timer")
	assert.Contains(t, out, "Cleared timer")
	assert.Contains(t, out, "Cannot step: no input selected")
	assert.Contains(t, out, "Red --timer--> Green")
	assert.Contains(t, out, "Green --timer--> Yellow")
}

func TestREPLNoTransition(t *testing.T) {
	out := runScript(t, "ring_counter", "fire 1")
	assert.Contains(t, out, "No transition from S0 on 1")
}

func TestREPLMisc(t *testing.T) {
	out := runScript(t, "ring_counter",
		"select",
		"select nope",
		"inputs",
		"frobnicate",
		"help",
		"fire 0",
		"reset",
		"clear",
	)
	assert.Contains(t, out, "Usage: select <input>")
	assert.Contains(t, out, `Unknown input "nope"`)
	assert.Contains(t, out, "Inputs:\n + 0\n   1\n")
	assert.Contains(t, out, `Unknown command "frobnicate", try help`)
	assert.Contains(t, out, "fire <input>")
	assert.Contains(t, out, "Reset to initial state\nState: S0")
}

func TestREPLEmptyInput(t *testing.T) {
	out := runScript(t, "binary-division",
		"inputs",
		`fire ""`,
		"fire 0",
		"fire 1",
		`fire ""`,
		"status",
	)
	assert.Contains(t, out, "Inputs:\n   0  (group 0)\n   1  (group 0)\n + \"\"\n")
	assert.Contains(t, out, `start --""--> q0`)
	assert.Contains(t, out, "q0 --0--> q1")
	assert.Contains(t, out, "q1 --1--> q2")
	assert.Contains(t, out, `q2 --""--> end`)
	assert.Contains(t, out, `State: end  (pending: "")`)
}
