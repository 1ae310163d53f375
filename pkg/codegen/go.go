// Package codegen turns an automaton into standalone source code.
package codegen

import (
	"fmt"
	"strings"

	"github.com/great-houk/FSM-Simulator/pkg/fsm"
)

// GenerateGo generates a Go implementation of the automaton: typed state,
// input and output enums and a machine type with Step, CanStep and Reset.
// The generated code has no dependencies and does not allocate except for
// the returned outputs.
//
// Only the first transition for a state and input is emitted, as only that
// one can ever fire. Transitions touching undeclared states are left out.
func GenerateGo(m *fsm.Model, packageName string) string {
	var sb strings.Builder
	typeName := toPascalCase(m.Name())
	if typeName == "Unknown" {
		typeName = "Machine"
	}
	if !startsWithLetter(typeName) {
		typeName = "M" + typeName
	}
	if packageName == "" {
		packageName = "fsm"
	}
	varPrefix := lowerFirst(typeName)

	states := newNamer(typeName + "State")
	for _, st := range m.States() {
		states.add(st.ID)
	}
	inputs := newNamer(typeName + "Input")
	for _, name := range m.InputNames() {
		inputs.add(name)
	}
	outputs := newNamer(typeName + "Output")
	for _, name := range m.OutputNames() {
		outputs.add(name)
	}
	// Undeclared inputs and outputs still need constants.
	var transitions []fsm.Transition
	seen := make(map[[2]string]bool)
	for _, t := range m.Transitions() {
		key := [2]string{t.From, t.Input}
		if seen[key] {
			continue
		}
		seen[key] = true
		if !m.HasState(t.From) || !m.HasState(t.To) {
			continue
		}
		transitions = append(transitions, t)
		inputs.add(t.Input)
		for _, o := range t.Outputs {
			outputs.add(o)
		}
	}

	name := m.Name()
	if name == "" {
		name = "(unnamed)"
	}
	sb.WriteString(fmt.Sprintf(`// Code generated by fsmsim from %q. DO NOT EDIT.

package %s

`, name, packageName))

	writeEnum(&sb, states, typeName+"State", varPrefix+"StateNames", "s", "a state of the machine")
	writeEnum(&sb, inputs, typeName+"Input", varPrefix+"InputNames", "i", "an input symbol")
	if len(outputs.order) > 0 {
		writeEnum(&sb, outputs, typeName+"Output", varPrefix+"OutputNames", "o", "an output fired by a transition")
	}

	outType := typeName + "Output"
	if len(outputs.order) == 0 {
		// Keep Step's signature stable for automata without outputs.
		outType = "string"
	}

	// Machine struct
	sb.WriteString(fmt.Sprintf("// %s steps through the states of %s.\n", typeName, name))
	sb.WriteString(fmt.Sprintf("type %s struct {\n", typeName))
	sb.WriteString(fmt.Sprintf("\tstate %sState\n", typeName))
	sb.WriteString("}\n\n")

	initial := states.ident(m.Initial())
	sb.WriteString(fmt.Sprintf("// New%s creates a machine in its initial state.\n", typeName))
	sb.WriteString(fmt.Sprintf("func New%s() *%s {\n", typeName, typeName))
	sb.WriteString(fmt.Sprintf("\treturn &%s{state: %s}\n", typeName, initial))
	sb.WriteString("}\n\n")

	sb.WriteString("// State returns the current state.\n")
	sb.WriteString(fmt.Sprintf("func (f *%s) State() %sState {\n", typeName, typeName))
	sb.WriteString("\treturn f.state\n")
	sb.WriteString("}\n\n")

	byState := make(map[string][]fsm.Transition)
	for _, t := range transitions {
		byState[t.From] = append(byState[t.From], t)
	}

	// Step function
	sb.WriteString("// Step fires input from the current state and returns the outputs of the\n")
	sb.WriteString("// transition taken. It reports false, leaving the state unchanged, when no\n")
	sb.WriteString("// transition matches.\n")
	sb.WriteString(fmt.Sprintf("func (f *%s) Step(input %sInput) ([]%s, bool) {\n", typeName, typeName, outType))
	sb.WriteString("\tswitch f.state {\n")
	for _, st := range m.States() {
		trans := byState[st.ID]
		if len(trans) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("\tcase %s:\n", states.ident(st.ID)))
		sb.WriteString("\t\tswitch input {\n")
		for _, t := range trans {
			sb.WriteString(fmt.Sprintf("\t\tcase %s:\n", inputs.ident(t.Input)))
			sb.WriteString(fmt.Sprintf("\t\t\tf.state = %s\n", states.ident(t.To)))
			if len(t.Outputs) == 0 {
				sb.WriteString("\t\t\treturn nil, true\n")
				continue
			}
			outs := make([]string, len(t.Outputs))
			for i, o := range t.Outputs {
				outs[i] = outputs.ident(o)
			}
			sb.WriteString(fmt.Sprintf("\t\t\treturn []%s{%s}, true\n", outType, strings.Join(outs, ", ")))
		}
		sb.WriteString("\t\t}\n")
	}
	sb.WriteString("\t}\n")
	sb.WriteString("\treturn nil, false\n")
	sb.WriteString("}\n\n")

	// CanStep function
	sb.WriteString("// CanStep reports whether input has a transition from the current state.\n")
	sb.WriteString(fmt.Sprintf("func (f *%s) CanStep(input %sInput) bool {\n", typeName, typeName))
	sb.WriteString("\tswitch f.state {\n")
	for _, st := range m.States() {
		trans := byState[st.ID]
		if len(trans) == 0 {
			continue
		}
		cases := make([]string, len(trans))
		for i, t := range trans {
			cases[i] = inputs.ident(t.Input)
		}
		sb.WriteString(fmt.Sprintf("\tcase %s:\n", states.ident(st.ID)))
		sb.WriteString("\t\tswitch input {\n")
		sb.WriteString(fmt.Sprintf("\t\tcase %s:\n", strings.Join(cases, ", ")))
		sb.WriteString("\t\t\treturn true\n")
		sb.WriteString("\t\t}\n")
	}
	sb.WriteString("\t}\n")
	sb.WriteString("\treturn false\n")
	sb.WriteString("}\n\n")

	sb.WriteString("// Reset returns the machine to its initial state.\n")
	sb.WriteString(fmt.Sprintf("func (f *%s) Reset() {\n", typeName))
	sb.WriteString(fmt.Sprintf("\tf.state = %s\n", initial))
	sb.WriteString("}\n")

	return sb.String()
}

// writeEnum writes a uint16 enum with a names table and a String method.
func writeEnum(sb *strings.Builder, n *namer, typ, namesVar, recv, doc string) {
	sb.WriteString(fmt.Sprintf("// %s is %s.\n", typ, doc))
	sb.WriteString(fmt.Sprintf("type %s uint16\n\n", typ))

	sb.WriteString("const (\n")
	for i, name := range n.order {
		if i == 0 {
			sb.WriteString(fmt.Sprintf("\t%s %s = iota\n", n.ident(name), typ))
		} else {
			sb.WriteString(fmt.Sprintf("\t%s\n", n.ident(name)))
		}
	}
	sb.WriteString(")\n\n")

	sb.WriteString(fmt.Sprintf("var %s = [...]string{\n", namesVar))
	for _, name := range n.order {
		sb.WriteString(fmt.Sprintf("\t%q,\n", name))
	}
	sb.WriteString("}\n\n")

	sb.WriteString(fmt.Sprintf("func (%s %s) String() string {\n", recv, typ))
	sb.WriteString(fmt.Sprintf("\tif int(%s) < len(%s) {\n", recv, namesVar))
	sb.WriteString(fmt.Sprintf("\t\treturn %s[%s]\n", namesVar, recv))
	sb.WriteString("\t}\n")
	sb.WriteString("\treturn \"unknown\"\n")
	sb.WriteString("}\n\n")
}
