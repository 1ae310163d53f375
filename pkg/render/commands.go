// Package render turns a laid-out automaton and a simulation session into a
// list of draw commands, and rasterises or serialises those commands.
package render

import (
	"github.com/great-houk/FSM-Simulator/pkg/geom"
	"github.com/great-houk/FSM-Simulator/pkg/layout"
)

// Command is one draw primitive. It is either an *EdgeCommand or a
// *NodeCommand.
type Command interface {
	command()
}

// EdgeCommand draws one transition.
type EdgeCommand struct {
	From  string
	To    string
	Input string

	Curve layout.Curve
	// Arrow is set for computed curves. Explicit paths have none and get
	// an arrow marker at the path end instead.
	Arrow *layout.Arrow

	Label   string
	LabelAt geom.Point

	// Fired marks the transition taken by the last step.
	Fired bool
}

// SelfLoop reports whether the edge is drawn as a loop arc.
func (e *EdgeCommand) SelfLoop() bool {
	_, ok := e.Curve.(layout.ArcCurve)
	return ok
}

// Explicit reports whether the edge uses a path override.
func (e *EdgeCommand) Explicit() bool {
	_, ok := e.Curve.(layout.ExplicitCurve)
	return ok
}

func (*EdgeCommand) command() {}

// NodeCommand draws one state.
type NodeCommand struct {
	ID          string
	Centre      geom.Point
	Radius      float64
	Label       string
	Initial     bool
	Highlighted bool
}

func (*NodeCommand) command() {}

// Frame is what a renderer needs for one picture: the coordinate space and
// the commands to draw in it, in drawing order.
type Frame struct {
	Width    float64
	Height   float64
	Title    string
	Outputs  []string // emitted by the last step
	Commands []Command
}

// Edges returns the edge commands of f.
func (f Frame) Edges() []*EdgeCommand {
	var edges []*EdgeCommand
	for _, c := range f.Commands {
		if e, ok := c.(*EdgeCommand); ok {
			edges = append(edges, e)
		}
	}
	return edges
}

// Nodes returns the node commands of f.
func (f Frame) Nodes() []*NodeCommand {
	var nodes []*NodeCommand
	for _, c := range f.Commands {
		if n, ok := c.(*NodeCommand); ok {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// arrowHead returns the three corners of a filled arrowhead with its tip at
// a.Tip.
func arrowHead(a *layout.Arrow, length, width float64) [3]geom.Point {
	back := a.Tip.Sub(a.Dir.Scale(length))
	side := geom.Pt(-a.Dir.Y, a.Dir.X).Scale(width / 2)
	return [3]geom.Point{a.Tip, back.Add(side), back.Sub(side)}
}
