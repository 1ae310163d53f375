// Native PNG rendering of frames, mirroring the SVG output.

package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/great-houk/FSM-Simulator/pkg/geom"
	"github.com/great-houk/FSM-Simulator/pkg/layout"
)

// PNGOptions configures PNG rendering.
type PNGOptions struct {
	Width     int
	Height    int
	Highlight color.RGBA
	Fired     color.RGBA
	ShowTitle bool
}

// DefaultPNGOptions returns sensible defaults for PNG rendering.
func DefaultPNGOptions() PNGOptions {
	return PNGOptions{
		Width:     800,
		Height:    800,
		Highlight: color.RGBA{255, 213, 79, 255}, // #ffd54f
		Fired:     color.RGBA{216, 67, 21, 255},  // #d84315
		ShowTitle: true,
	}
}

// Colors used in rendering
var (
	colorWhite = color.RGBA{255, 255, 255, 255}
	colorBlack = color.RGBA{51, 51, 51, 255} // #333
)

// supersample is the factor frames are drawn at before downscaling.
const supersample = 4

var (
	goFontOnce sync.Once
	goFont     *opentype.Font
	goFontErr  error
)

func regularFont() (*opentype.Font, error) {
	goFontOnce.Do(func() {
		goFont, goFontErr = opentype.Parse(goregular.TTF)
	})
	return goFont, goFontErr
}

// renderContext holds rendering parameters including the mapping from frame
// coordinates to pixels.
type renderContext struct {
	img       *image.RGBA
	unit      float64 // pixels per frame unit
	origin    geom.Point
	lineWidth float64
	stateFace font.Face
	labelFace font.Face
	titleFace font.Face
}

func newRenderContext(img *image.RGBA, f Frame) (*renderContext, error) {
	r := nodeRadius(f)
	pad := r * 2.5
	w := float64(img.Bounds().Dx())
	h := float64(img.Bounds().Dy())
	unit := math.Min(w/(f.Width+2*pad), h/(f.Height+2*pad))

	ctx := &renderContext{
		img:  img,
		unit: unit,
		// Centre the padded frame in the image.
		origin: geom.Pt(
			(w-(f.Width+2*pad)*unit)/2+pad*unit,
			(h-(f.Height+2*pad)*unit)/2+pad*unit,
		),
		lineWidth: math.Max(r/12*unit, 1),
	}

	fnt, err := regularFont()
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	faces := []struct {
		dst  *font.Face
		size float64
	}{
		{&ctx.stateFace, r * 0.7 * unit},
		{&ctx.labelFace, r * 0.55 * unit},
		{&ctx.titleFace, r * 0.8 * unit},
	}
	for _, fc := range faces {
		face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
			Size:    math.Max(fc.size, 1),
			DPI:     72,
			Hinting: font.HintingNone, // No hinting - we supersample instead
		})
		if err != nil {
			return nil, fmt.Errorf("font face: %w", err)
		}
		*fc.dst = face
	}
	return ctx, nil
}

func (ctx *renderContext) px(p geom.Point) geom.Point {
	return geom.Pt(ctx.origin.X+p.X*ctx.unit, ctx.origin.Y+p.Y*ctx.unit)
}

// RenderPNG renders a frame to PNG format.
// Uses 4x supersampling for smoother output.
func RenderPNG(f Frame, w io.Writer, opts PNGOptions) error {
	img, err := RenderImage(f, opts)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// RenderImage draws a frame into an opts.Width×opts.Height image.
func RenderImage(f Frame, opts PNGOptions) (*image.RGBA, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("invalid image size %dx%d", opts.Width, opts.Height)
	}
	if f.Width <= 0 || f.Height <= 0 {
		return nil, fmt.Errorf("invalid frame size %gx%g", f.Width, f.Height)
	}

	large := image.NewRGBA(image.Rect(0, 0, opts.Width*supersample, opts.Height*supersample))
	if err := drawFrame(large, f, opts); err != nil {
		return nil, err
	}

	// Downsample to target size using high-quality interpolation
	final := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.CatmullRom.Scale(final, final.Bounds(), large, large.Bounds(), draw.Over, nil)
	return final, nil
}

func drawFrame(img *image.RGBA, f Frame, opts PNGOptions) error {
	ctx, err := newRenderContext(img, f)
	if err != nil {
		return err
	}

	draw.Draw(img, img.Bounds(), image.NewUniform(colorWhite), image.Point{}, draw.Src)

	if opts.ShowTitle && f.Title != "" {
		top := ctx.titleFace.Metrics().Ascent.Ceil()
		drawTextCentered(ctx, ctx.titleFace, geom.Pt(float64(img.Bounds().Dx())/2, float64(top)), f.Title, colorBlack)
	}

	r := nodeRadius(f)
	for _, e := range f.Edges() {
		c := color.Color(colorBlack)
		if e.Fired {
			c = opts.Fired
		}

		var tail []geom.Point
		switch cv := e.Curve.(type) {
		case layout.QuadCurve:
			tail = drawPolyline(ctx, sampleQuad(cv), c)
		case layout.ArcCurve:
			tail = drawPolyline(ctx, sampleArc(cv), c)
		case layout.ExplicitCurve:
			lines, err := FlattenPath(cv.Path)
			if err != nil {
				// Unsupported override: label only, as a browser would show
				// nothing for a broken path.
				break
			}
			for _, line := range lines {
				tail = drawPolyline(ctx, line, c)
			}
		}

		arrow := e.Arrow
		if arrow == nil && len(tail) >= 2 {
			// Marker at the end of an explicit path.
			end := tail[len(tail)-1]
			if dir, ok := end.Sub(tail[len(tail)-2]).Unit(); ok {
				arrow = &layout.Arrow{Tip: end, Dir: dir}
			}
		}
		if arrow != nil {
			pts := arrowHead(arrow, r*0.6, r*0.45)
			fillTriangle(ctx, ctx.px(pts[0]), ctx.px(pts[1]), ctx.px(pts[2]), c)
		}

		if e.Label != "" {
			drawTextCentered(ctx, ctx.labelFace, ctx.px(e.LabelAt), e.Label, colorBlack)
		}
	}

	for _, n := range f.Nodes() {
		fill := color.Color(colorWhite)
		if n.Highlighted {
			fill = opts.Highlight
		}
		centre := ctx.px(n.Centre)
		radius := n.Radius * ctx.unit
		drawCircle(ctx, centre, radius, fill, colorBlack)
		if n.Initial {
			drawCircle(ctx, centre, radius*0.85, nil, colorBlack)
		}
		drawTextCentered(ctx, ctx.stateFace, centre, n.Label, colorBlack)
	}

	return nil
}

func sampleQuad(q layout.QuadCurve) []geom.Point {
	pts := make([]geom.Point, 0, flattenSteps+1)
	for i := 0; i <= flattenSteps; i++ {
		pts = append(pts, q.At(float64(i)/flattenSteps))
	}
	return pts
}

func sampleArc(a layout.ArcCurve) []geom.Point {
	start, sweep := a.Angles()
	pts := make([]geom.Point, 0, flattenSteps+1)
	for i := 0; i <= flattenSteps; i++ {
		pts = append(pts, geom.PointAtAngle(a.Centre, a.Radius, start+sweep*float64(i)/flattenSteps))
	}
	return pts
}

// drawPolyline strokes pts (frame coordinates) and returns them.
func drawPolyline(ctx *renderContext, pts []geom.Point, c color.Color) []geom.Point {
	for i := 1; i < len(pts); i++ {
		drawLine(ctx, ctx.px(pts[i-1]), ctx.px(pts[i]), c)
	}
	return pts
}

// drawCircle draws a circle outline and optional fill, in pixels.
func drawCircle(ctx *renderContext, centre geom.Point, r float64, fill, stroke color.Color) {
	img := ctx.img
	thickness := ctx.lineWidth

	// Fill interior first
	if fill != nil {
		for dy := -r; dy <= r; dy++ {
			xExtent := math.Sqrt(math.Max(r*r-dy*dy, 0))
			for dx := -xExtent; dx <= xExtent; dx++ {
				img.Set(int(centre.X+dx), int(centre.Y+dy), fill)
			}
		}
	}

	// Draw thick outline
	step := 0.5 / math.Max(r, 1)
	for angle := 0.0; angle < 2*math.Pi; angle += step {
		nx, ny := math.Cos(angle), math.Sin(angle)
		for t := -thickness / 2; t <= thickness/2; t += 0.5 {
			img.Set(int(centre.X+nx*(r+t)), int(centre.Y+ny*(r+t)), stroke)
		}
	}
}

// drawLine draws a line between two pixel points with thickness from context.
func drawLine(ctx *renderContext, a, b geom.Point, c color.Color) {
	img := ctx.img
	halfThick := ctx.lineWidth / 2

	d := b.Sub(a)
	dist := d.Len()
	if dist < 1 {
		for ty := -halfThick; ty <= halfThick; ty++ {
			for tx := -halfThick; tx <= halfThick; tx++ {
				img.Set(int(a.X+tx), int(a.Y+ty), c)
			}
		}
		return
	}

	steps := math.Max(math.Abs(d.X), math.Abs(d.Y))
	perp := geom.Pt(-d.Y/dist, d.X/dist)

	for i := 0.0; i <= steps; i++ {
		p := a.Add(d.Scale(i / steps))
		for offset := -halfThick; offset <= halfThick; offset += 0.5 {
			img.Set(int(p.X+perp.X*offset), int(p.Y+perp.Y*offset), c)
		}
	}
}

// fillTriangle fills the triangle a, b, c given in pixels.
func fillTriangle(ctx *renderContext, a, b, c geom.Point, col color.Color) {
	lo, hi := geom.Bounds([]geom.Point{a, b, c})
	area := cross(b.Sub(a), c.Sub(a))
	if area == 0 {
		return
	}
	for y := math.Floor(lo.Y); y <= math.Ceil(hi.Y); y++ {
		for x := math.Floor(lo.X); x <= math.Ceil(hi.X); x++ {
			p := geom.Pt(x+0.5, y+0.5)
			w0 := cross(b.Sub(a), p.Sub(a)) / area
			w1 := cross(c.Sub(b), p.Sub(b)) / area
			w2 := cross(a.Sub(c), p.Sub(c)) / area
			if w0 >= 0 && w1 >= 0 && w2 >= 0 {
				ctx.img.Set(int(x), int(y), col)
			}
		}
	}
}

func cross(u, v geom.Point) float64 {
	return u.X*v.Y - u.Y*v.X
}

// drawTextCentered draws text centred on p using the given face.
func drawTextCentered(ctx *renderContext, face font.Face, p geom.Point, text string, c color.Color) {
	width := font.MeasureString(face, text).Ceil()

	// Baseline a little below the centre so capitals look centred.
	ascent := face.Metrics().Ascent.Ceil()
	baselineY := int(p.Y) + int(float64(ascent)*0.35)

	d := &font.Drawer{
		Dst:  ctx.img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I(int(p.X) - width/2),
			Y: fixed.I(baselineY),
		},
	}
	d.DrawString(text)
}
