package fsmfile

import (
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"

	"github.com/great-houk/FSM-Simulator/pkg/fsm"
	"github.com/great-houk/FSM-Simulator/pkg/geom"
)

// Path editor SVGs use the grid coordinate space and a smaller node than the
// simulator, so curves stay grabbable in a vector editor.
const (
	editNodeRadius = 2.0
	editLoopRadius = 2.0
	editBowFactor  = 0.2
)

// ErrNoPositions is returned when an editable SVG is requested for a
// definition whose states lack coordinates.
var ErrNoPositions = errors.New("every state needs x and y to generate an editable SVG")

// GeneratePathSVG writes an SVG meant to be edited by hand: one path per
// transition carrying data-from, data-to and data-input, and one circle per
// state carrying data-state-name. Read the result back with ImportPathSVG.
func GeneratePathSVG(def *fsm.Definition) (string, error) {
	pos := make(map[string]geom.Point, len(def.States))
	for _, st := range def.States {
		if st.Pos == nil {
			return "", fmt.Errorf("state %q: %w", st.ID, ErrNoPositions)
		}
		pos[st.ID] = *st.Pos
	}

	var sb strings.Builder
	sb.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100" preserveAspectRatio="xMidYMid meet">
  <defs>
    <marker id="arrowhead" viewBox="-10 -5 10 10" refX="-5" refY="0" markerWidth="4" markerHeight="4" orient="auto-start-reverse">
      <path d="M 0 0 L -10 -5 L -10 5 Z"/>
    </marker>
  </defs>
`)

	for _, t := range def.Transitions {
		from, ok1 := pos[t.From]
		to, ok2 := pos[t.To]
		if !ok1 || !ok2 {
			continue
		}

		var d string
		switch {
		case t.HasPath():
			d = t.Path
		case t.IsSelfLoop():
			d = fmt.Sprintf("M %s %s A %s %s 0 1 1 %s %s",
				coord(from.X), coord(from.Y), coord(editLoopRadius), coord(editLoopRadius),
				coord(from.X-0.1), coord(from.Y))
		default:
			c := geom.Midpoint(from, to).Add(geom.PerpendicularOffset(from, to, editBowFactor))
			d = fmt.Sprintf("M %s %s Q %s %s %s %s",
				coord(from.X), coord(from.Y), coord(c.X), coord(c.Y), coord(to.X), coord(to.Y))
		}

		sb.WriteString(fmt.Sprintf(`  <path d="%s" stroke="black" fill="none" marker-end="url(#arrowhead)" data-from="%s" data-to="%s" data-input="%s"/>
`, html.EscapeString(d), html.EscapeString(t.From), html.EscapeString(t.To), html.EscapeString(t.Input)))
	}

	for _, st := range def.States {
		p := pos[st.ID]
		sb.WriteString(fmt.Sprintf(`  <circle cx="%s" cy="%s" r="%s" stroke="black" fill="white" data-state-name="%s"/>
`, coord(p.X), coord(p.Y), coord(editNodeRadius), html.EscapeString(st.ID)))
		sb.WriteString(fmt.Sprintf(`  <text x="%s" y="%s" font-size="2" text-anchor="middle" dominant-baseline="middle">%s</text>
`, coord(p.X), coord(p.Y), html.EscapeString(st.ID)))
	}

	sb.WriteString("</svg>\n")
	return sb.String(), nil
}

// StatePosition is a state circle read back from an edited SVG.
type StatePosition struct {
	ID string
	X  float64
	Y  float64
}

// PathUpdate is a transition path read back from an edited SVG.
type PathUpdate struct {
	From  string
	To    string
	Input string
	Path  string
}

// PathImport holds everything found in an edited SVG, in document order.
type PathImport struct {
	States []StatePosition
	Paths  []PathUpdate
}

// ImportPathSVG reads the state circles and transition paths of an SVG
// written by GeneratePathSVG and then edited. Elements without the data
// attributes are ignored.
func ImportPathSVG(r io.Reader) (*PathImport, error) {
	dec := xml.NewDecoder(r)
	imp := &PathImport{}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse SVG: %w", err)
		}

		el, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		attrs := make(map[string]string, len(el.Attr))
		for _, a := range el.Attr {
			attrs[a.Name.Local] = a.Value
		}

		switch el.Name.Local {
		case "circle":
			name, ok := attrs["data-state-name"]
			if !ok {
				continue
			}
			x, err := strconv.ParseFloat(strings.TrimSpace(attrs["cx"]), 64)
			if err != nil {
				return nil, fmt.Errorf("state %q: bad cx %q", name, attrs["cx"])
			}
			y, err := strconv.ParseFloat(strings.TrimSpace(attrs["cy"]), 64)
			if err != nil {
				return nil, fmt.Errorf("state %q: bad cy %q", name, attrs["cy"])
			}
			imp.States = append(imp.States, StatePosition{ID: name, X: x, Y: y})
		case "path":
			from, ok := attrs["data-from"]
			if !ok {
				continue
			}
			imp.Paths = append(imp.Paths, PathUpdate{
				From:  from,
				To:    attrs["data-to"],
				Input: attrs["data-input"],
				Path:  attrs["d"],
			})
		}
	}

	if len(imp.States) == 0 && len(imp.Paths) == 0 {
		return nil, errors.New("no states or paths with data attributes found in the SVG")
	}
	return imp, nil
}

// Apply writes the imported positions and paths into def. Each path goes to
// the first transition with the same from, to and input that has not already
// received one. It returns descriptions of imported items that matched
// nothing in def.
func (imp *PathImport) Apply(def *fsm.Definition) (unmatched []string) {
	index := make(map[string]int, len(def.States))
	for i, st := range def.States {
		index[st.ID] = i
	}
	for _, sp := range imp.States {
		i, ok := index[sp.ID]
		if !ok {
			unmatched = append(unmatched, fmt.Sprintf("state %q", sp.ID))
			continue
		}
		def.States[i].Pos = &geom.Point{X: sp.X, Y: sp.Y}
	}

	used := make([]bool, len(def.Transitions))
	for _, pu := range imp.Paths {
		found := false
		for i, t := range def.Transitions {
			if used[i] || t.From != pu.From || t.To != pu.To || t.Input != pu.Input {
				continue
			}
			def.Transitions[i].Path = pu.Path
			used[i] = true
			found = true
			break
		}
		if !found {
			unmatched = append(unmatched, fmt.Sprintf("transition %s -> %s on %q", pu.From, pu.To, pu.Input))
		}
	}

	return unmatched
}

// coord formats a grid coordinate with at most two decimals.
func coord(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
