package fsmfile

import (
	"fmt"
	"strings"

	"github.com/great-houk/FSM-Simulator/pkg/fsm"
)

// dotInchesPerUnit maps grid units to Graphviz inches for pinned positions.
const dotInchesPerUnit = 0.1

// GenerateDOT converts a definition to Graphviz DOT format. When every state
// has coordinates they are pinned (for neato -n), with y flipped since DOT
// grows upward.
func GenerateDOT(def *fsm.Definition, title string) string {
	var sb strings.Builder

	sb.WriteString("digraph FSM {\n")
	sb.WriteString("    rankdir=LR;\n")
	sb.WriteString("    node [fontname=\"Helvetica\", fontsize=11];\n")
	sb.WriteString("    edge [fontname=\"Helvetica\", fontsize=10];\n")
	sb.WriteString("\n")

	if title == "" {
		title = def.Name
	}
	if title != "" {
		sb.WriteString("    labelloc=\"t\";\n")
		sb.WriteString(fmt.Sprintf("    label=\"%s\";\n", escapeDOT(title)))
		sb.WriteString("\n")
	}

	// Invisible start node
	if def.Initial != "" {
		sb.WriteString("    __start [shape=none, label=\"\", width=0, height=0];\n")
		sb.WriteString(fmt.Sprintf("    __start -> \"%s\";\n", escapeDOT(def.Initial)))
		sb.WriteString("\n")
	}

	pinned := len(def.States) > 0
	declared := make(map[string]bool, len(def.States))
	for _, st := range def.States {
		declared[st.ID] = true
		if st.Pos == nil {
			pinned = false
		}
	}

	for _, st := range def.States {
		attrs := []string{"shape=circle"}
		if pinned {
			attrs = append(attrs, fmt.Sprintf("pos=\"%g,%g!\"",
				st.Pos.X*dotInchesPerUnit, (100-st.Pos.Y)*dotInchesPerUnit))
		}
		sb.WriteString(fmt.Sprintf("    \"%s\" [%s];\n", escapeDOT(st.ID), strings.Join(attrs, ", ")))
	}
	sb.WriteString("\n")

	// Group transitions by (from, to), keeping first-seen order.
	var order [][2]string
	edgeLabels := make(map[[2]string][]string)
	for _, t := range def.Transitions {
		if !declared[t.From] || !declared[t.To] {
			continue
		}
		key := [2]string{t.From, t.To}
		if _, seen := edgeLabels[key]; !seen {
			order = append(order, key)
		}
		edgeLabels[key] = append(edgeLabels[key], escapeDOT(t.Label()))
	}

	for _, key := range order {
		combined := strings.Join(edgeLabels[key], "\\n")
		sb.WriteString(fmt.Sprintf("    \"%s\" -> \"%s\" [label=\"%s\"];\n",
			escapeDOT(key[0]), escapeDOT(key[1]), combined))
	}

	sb.WriteString("}\n")

	return sb.String()
}

// escapeDOT escapes s for a quoted DOT string.
func escapeDOT(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	return s
}
