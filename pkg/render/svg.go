package render

import (
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"
)

// SVGOptions controls SVG output.
type SVGOptions struct {
	Width     int    // output width in pixels
	Height    int    // output height in pixels
	Highlight string // fill of the active state
	Fired     string // stroke of the edge taken by the last step
	ShowTitle bool
}

// DefaultSVGOptions returns sensible defaults.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		Width:     800,
		Height:    800,
		Highlight: "#ffd54f",
		Fired:     "#d84315",
		ShowTitle: true,
	}
}

// RenderSVG serialises a frame. The viewBox is the frame's coordinate space,
// so sizes come out proportional to the node radius whatever the pixel size.
func RenderSVG(f Frame, opts SVGOptions) string {
	if opts.Width == 0 {
		opts.Width = 800
	}
	if opts.Height == 0 {
		opts.Height = 800
	}
	if opts.Highlight == "" {
		opts.Highlight = "#ffd54f"
	}
	if opts.Fired == "" {
		opts.Fired = "#d84315"
	}

	r := nodeRadius(f)
	// Room for loops and labels of states on the edge of the space.
	pad := r * 2.5
	stroke := r / 12
	stateFont := r * 0.7
	labelFont := r * 0.55

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="%s %s %s %s" preserveAspectRatio="xMidYMid meet">
<defs>
  <marker id="arrowhead" viewBox="-10 -5 10 10" refX="0" refY="0" markerWidth="4" markerHeight="4" orient="auto-start-reverse">
    <path d="M 0 0 L -10 -5 L -10 5 Z" fill="#333"/>
  </marker>
</defs>
<style>
  .state { fill: white; stroke: #333; stroke-width: %s; }
  .state-initial { stroke-width: %s; }
  .state-active { fill: %s; }
  .state-label { font-family: sans-serif; font-size: %spx; text-anchor: middle; dominant-baseline: middle; }
  .transition { fill: none; stroke: #333; stroke-width: %s; }
  .transition-explicit { marker-end: url(#arrowhead); }
  .transition-fired { stroke: %s; }
  .arrow { fill: #333; }
  .arrow-fired { fill: %s; }
  .trans-label { font-family: sans-serif; font-size: %spx; fill: #333; text-anchor: middle; dominant-baseline: middle; }
  .title { font-family: sans-serif; font-size: %spx; font-weight: bold; text-anchor: middle; }
</style>
`, opts.Width, opts.Height, num(-pad), num(-pad), num(f.Width+2*pad), num(f.Height+2*pad),
		num(stroke), num(stroke*2), opts.Highlight, num(stateFont),
		num(stroke), opts.Fired, opts.Fired, num(labelFont), num(stateFont)))

	sb.WriteString(fmt.Sprintf(`<rect x="%s" y="%s" width="%s" height="%s" fill="white"/>
`, num(-pad), num(-pad), num(f.Width+2*pad), num(f.Height+2*pad)))

	if opts.ShowTitle && f.Title != "" {
		sb.WriteString(fmt.Sprintf(`<text x="%s" y="%s" class="title">%s</text>
`, num(f.Width/2), num(-pad+stateFont*1.2), html.EscapeString(f.Title)))
	}

	for _, e := range f.Edges() {
		class := "transition"
		if e.Explicit() {
			class += " transition-explicit"
		}
		if e.Fired {
			class += " transition-fired"
		}
		sb.WriteString(fmt.Sprintf(`<path d="%s" class="%s" data-from="%s" data-to="%s" data-input="%s"/>
`, html.EscapeString(e.Curve.PathData()), class,
			html.EscapeString(e.From), html.EscapeString(e.To), html.EscapeString(e.Input)))

		if e.Arrow != nil {
			pts := arrowHead(e.Arrow, r*0.6, r*0.45)
			arrowClass := "arrow"
			if e.Fired {
				arrowClass = "arrow-fired"
			}
			sb.WriteString(fmt.Sprintf(`<polygon points="%s,%s %s,%s %s,%s" class="%s"/>
`, num(pts[0].X), num(pts[0].Y), num(pts[1].X), num(pts[1].Y), num(pts[2].X), num(pts[2].Y), arrowClass))
		}

		if e.Label != "" {
			sb.WriteString(fmt.Sprintf(`<text x="%s" y="%s" class="trans-label">%s</text>
`, num(e.LabelAt.X), num(e.LabelAt.Y), html.EscapeString(e.Label)))
		}
	}

	for _, n := range f.Nodes() {
		class := "state"
		if n.Initial {
			class += " state-initial"
		}
		if n.Highlighted {
			class += " state-active"
		}
		sb.WriteString(fmt.Sprintf(`<circle cx="%s" cy="%s" r="%s" class="%s" data-state-name="%s"/>
`, num(n.Centre.X), num(n.Centre.Y), num(n.Radius), class, html.EscapeString(n.ID)))
		sb.WriteString(fmt.Sprintf(`<text x="%s" y="%s" class="state-label">%s</text>
`, num(n.Centre.X), num(n.Centre.Y), html.EscapeString(n.Label)))
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

// nodeRadius picks the drawing unit of a frame from its first node.
func nodeRadius(f Frame) float64 {
	for _, n := range f.Nodes() {
		if n.Radius > 0 {
			return n.Radius
		}
	}
	return 4
}

func num(v float64) string {
	r := math.Round(v*1000) / 1000
	if r == 0 {
		r = 0
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}
