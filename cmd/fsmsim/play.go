package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/great-houk/FSM-Simulator/pkg/fsm"
	"github.com/great-houk/FSM-Simulator/pkg/geom"
	"github.com/great-houk/FSM-Simulator/pkg/layout"
	"github.com/great-houk/FSM-Simulator/pkg/render"
)

// Styles
var (
	styleTitle     = tcell.StyleDefault.Bold(true).Foreground(tcell.ColorWhite)
	styleState     = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleStateInit = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleStateAct  = tcell.StyleDefault.Background(tcell.ColorGreen).Foreground(tcell.ColorBlack)
	styleTrans     = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	styleTransLit  = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleLabel     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleSidebar   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleSidebarH  = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleCursor    = tcell.StyleDefault.Background(tcell.ColorDarkGray)
	styleStatus    = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleMsgError  = tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorNavy).Bold(true)
	styleHelp      = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleBorder    = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

const sidebarWidth = 28

func newPlayCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "play <definition>",
		Short: "Step an automaton in an interactive terminal view",
		Long: `Show the automaton graph in the terminal and step it from the keyboard.

  Up/Down   choose an input        Enter  select or deselect it
  s, Space  step                   b      back
  c         clear pending input    r      reset
  q, Esc    quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := a.loadModel(args[0])
			if err != nil {
				return err
			}

			a.rememberDir(args[0])
			screen, err := tcell.NewScreen()
			if err != nil {
				return fmt.Errorf("creating screen: %w", err)
			}
			if err := screen.Init(); err != nil {
				return fmt.Errorf("initializing screen: %w", err)
			}
			defer screen.Fini()

			p := newPlayer(screen, fsm.NewSession(m, fsm.WithLogger(a.log)))
			p.run()
			return nil
		},
	}
}

// player is the interactive view: a graph canvas on the left, the input list
// on the right and a status bar at the bottom.
type player struct {
	screen  tcell.Screen
	session *fsm.Session
	engine  *layout.Engine
	last    *fsm.StepResult

	inputs []fsm.Input
	cursor int

	message string
	isError bool
}

func newPlayer(screen tcell.Screen, s *fsm.Session) *player {
	p := &player{
		screen:  screen,
		session: s,
		inputs:  s.Model().SelectableInputs(),
	}
	p.engine = layout.NewEngine(s.Model(), 1, 1)
	p.fit()
	return p
}

func (p *player) run() {
	for {
		p.draw()
		p.screen.Show()

		switch ev := p.screen.PollEvent().(type) {
		case *tcell.EventResize:
			p.fit()
			p.screen.Sync()
		case *tcell.EventKey:
			if p.handleKey(ev) {
				return
			}
		case nil:
			return
		}
	}
}

// canvasSize is the cell area left for the graph.
func (p *player) canvasSize() (w, h int) {
	w, h = p.screen.Size()
	w -= sidebarWidth + 1
	h -= 2
	return max(w, 1), max(h, 1)
}

// fit sizes the layout to the canvas. Cells are about twice as tall as they
// are wide, so radial layouts get a doubled height and are squashed when
// drawn.
func (p *player) fit() {
	w, h := p.canvasSize()
	p.engine.Resize(float64(w), float64(h*2))
}

// toCell maps a layout point onto the canvas.
func (p *player) toCell(pt geom.Point) (int, int) {
	w, h := p.canvasSize()
	lw, lh := p.engine.Size()
	return int(math.Round(pt.X * float64(w) / lw)), int(math.Round(pt.Y * float64(h) / lh))
}

func (p *player) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyUp:
		if p.cursor > 0 {
			p.cursor--
		}
	case tcell.KeyDown:
		if p.cursor < len(p.inputs)-1 {
			p.cursor++
		}
	case tcell.KeyEnter:
		p.toggleInput()
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case 's', ' ':
			p.step()
		case 'b':
			p.back()
		case 'c':
			p.session.ClearInput()
			p.setMessage("Input cleared", false)
		case 'r':
			p.session.Reset(p.session.Model())
			p.last = nil
			p.setMessage("Reset to "+p.session.ActiveState(), false)
		}
	}
	return false
}

func (p *player) toggleInput() {
	if len(p.inputs) == 0 {
		return
	}
	name := p.inputs[p.cursor].Name
	if _, ok := p.session.SelectInput(name); !ok {
		p.setMessage(fmt.Sprintf("Unknown input %q", name), true)
		return
	}
	if pending, ok := p.session.PendingInput(); ok {
		p.setMessage("Pending: "+displayInput(pending), false)
	} else {
		p.setMessage("Input cleared", false)
	}
}

func (p *player) step() {
	r := p.session.Step()
	if !r.OK() {
		p.setMessage(r.Status.String(), true)
		return
	}
	p.last = &r
	msg := fmt.Sprintf("%s --%s--> %s", r.From, displayInput(r.Input), r.To)
	if len(r.Outputs) > 0 {
		msg += "  [" + strings.Join(r.Outputs, ", ") + "]"
	}
	p.setMessage(msg, false)
}

func (p *player) back() {
	if st := p.session.Back(); st != fsm.StatusOK {
		p.setMessage(st.String(), true)
		return
	}
	// The edge that led here is no longer the latest step.
	p.last = nil
	p.setMessage("Back to "+p.session.ActiveState(), false)
}

func (p *player) setMessage(msg string, isError bool) {
	p.message = msg
	p.isError = isError
}

func (p *player) draw() {
	p.screen.Clear()
	w, h := p.screen.Size()

	frame := render.NewFrame(p.session, p.engine, p.last)
	p.drawEdges(frame)
	p.drawNodes(frame)
	p.drawSidebar(w, h)
	p.drawStatusBar(w, h)
}

func (p *player) drawEdges(f render.Frame) {
	cw, ch := p.canvasSize()
	for _, e := range f.Edges() {
		style := styleTrans
		if e.Fired {
			style = styleTransLit
		}
		for _, pt := range sampleCurve(e.Curve) {
			x, y := p.toCell(pt)
			if x >= 0 && y >= 0 && x < cw && y < ch {
				p.screen.SetContent(x, y, '·', nil, style)
			}
		}
		if e.Arrow != nil {
			x, y := p.toCell(e.Arrow.Tip)
			if x >= 0 && y >= 0 && x < cw && y < ch {
				p.screen.SetContent(x, y, arrowRune(e.Arrow.Dir), nil, style)
			}
		}
		lx, ly := p.toCell(e.LabelAt)
		p.drawClipped(lx-len(e.Input)/2, ly, e.Input, cw, styleLabel)
	}
}

func (p *player) drawNodes(f render.Frame) {
	cw, _ := p.canvasSize()
	for _, n := range f.Nodes() {
		style := styleState
		switch {
		case n.Highlighted:
			style = styleStateAct
		case n.Initial:
			style = styleStateInit
		}
		label := "(" + n.Label + ")"
		x, y := p.toCell(n.Centre)
		p.drawClipped(x-len(label)/2, y, label, cw, style)
	}
}

func (p *player) drawSidebar(w, h int) {
	x := w - sidebarWidth
	for y := 0; y < h-1; y++ {
		p.screen.SetContent(x-1, y, '│', nil, styleBorder)
	}

	name := p.session.Model().Name()
	if name == "" {
		name = "(unnamed)"
	}
	y := 0
	p.drawString(x+1, y, truncate(name, sidebarWidth-2), styleTitle)
	y += 2

	p.drawString(x+1, y, "State", styleSidebarH)
	y++
	p.drawString(x+2, y, truncate(p.session.ActiveState(), sidebarWidth-3), styleSidebar)
	y += 2

	p.drawString(x+1, y, "Inputs", styleSidebarH)
	y++
	pending, hasPending := p.session.PendingInput()
	enabled := make(map[string]bool)
	for _, in := range p.session.EnabledInputs() {
		enabled[in] = true
	}
	for i, in := range p.inputs {
		if y >= h-2 {
			break
		}
		mark := "[ ]"
		if _, grouped := in.ExclusiveGroup(); grouped {
			mark = "( )"
			if hasPending && pending == in.Name {
				mark = "(*)"
			}
		} else if hasPending && pending == in.Name {
			mark = "[x]"
		}
		line := fmt.Sprintf("%s %s", mark, displayInput(in.Name))
		if !enabled[in.Name] {
			line += " -"
		}
		style := styleSidebar
		if i == p.cursor {
			style = styleCursor
		}
		p.drawString(x+1, y, truncate(line, sidebarWidth-2), style)
		y++
	}

	if p.last != nil && len(p.last.Outputs) > 0 && y < h-4 {
		y++
		p.drawString(x+1, y, "Outputs", styleSidebarH)
		y++
		for _, out := range p.last.Outputs {
			if y >= h-2 {
				break
			}
			p.drawString(x+2, y, truncate(out, sidebarWidth-3), styleSidebar)
			y++
		}
	}
}

func (p *player) drawStatusBar(w, h int) {
	for x := 0; x < w; x++ {
		p.screen.SetContent(x, h-2, ' ', nil, styleStatus)
	}
	style := styleStatus
	if p.isError {
		style = styleMsgError
	}
	status := fmt.Sprintf(" %s  step %d/%d", p.session.ActiveState(), p.session.Cursor(), len(p.session.History())-1)
	if p.message != "" {
		status += "  " + p.message
	}
	p.drawString(0, h-2, truncate(status, w), style)
	p.drawString(0, h-1, truncate("↑↓ input  Enter select  s step  b back  c clear  r reset  q quit", w), styleHelp)
}

func (p *player) drawString(x, y int, s string, style tcell.Style) {
	for i, r := range []rune(s) {
		p.screen.SetContent(x+i, y, r, nil, style)
	}
}

// drawClipped draws s, dropping the runes that fall outside the canvas.
func (p *player) drawClipped(x, y int, s string, width int, style tcell.Style) {
	_, ch := p.canvasSize()
	if y < 0 || y >= ch {
		return
	}
	for i, r := range []rune(s) {
		if cx := x + i; cx >= 0 && cx < width {
			p.screen.SetContent(cx, y, r, nil, style)
		}
	}
}

// sampleCurve turns an edge curve into points for plotting. Explicit paths
// that cannot be flattened are not drawn.
func sampleCurve(c layout.Curve) []geom.Point {
	if arc, ok := c.(layout.ArcCurve); ok {
		start, sweep := arc.Angles()
		const steps = 24
		pts := make([]geom.Point, 0, steps+1)
		for i := 0; i <= steps; i++ {
			pts = append(pts, geom.PointAtAngle(arc.Centre, arc.Radius, start+sweep*float64(i)/steps))
		}
		return pts
	}

	lines, err := render.FlattenPath(c.PathData())
	if err != nil {
		return nil
	}
	var pts []geom.Point
	for _, l := range lines {
		pts = append(pts, l...)
	}
	return pts
}

// arrowRune picks the arrow glyph closest to a direction. Screen y grows
// downward.
func arrowRune(dir geom.Point) rune {
	if math.Abs(dir.X) >= math.Abs(dir.Y) {
		if dir.X >= 0 {
			return '>'
		}
		return '<'
	}
	if dir.Y >= 0 {
		return 'v'
	}
	return '^'
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
