package render

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/great-houk/FSM-Simulator/pkg/layout"
)

func TestRenderPNG(t *testing.T) {
	_, s, eng := setup(t, "custom_path")

	var buf bytes.Buffer
	opts := DefaultPNGOptions()
	opts.Width, opts.Height = 240, 200
	require.NoError(t, RenderPNG(NewFrame(s, eng, nil), &buf, opts))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 240, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())
}

func TestRenderImageHighlightsActiveState(t *testing.T) {
	_, s, eng := setup(t, "traffic_light")

	opts := DefaultPNGOptions()
	opts.Width, opts.Height = 600, 600
	opts.ShowTitle = false
	img, err := RenderImage(NewFrame(s, eng, nil), opts)
	require.NoError(t, err)

	// The 100-unit space is padded by 10 units per side, so 1 unit = 5 px
	// with the origin at (50, 50). Sample inside each circle, below the label.
	sample := func(x, y float64) color.RGBA {
		return color.RGBAModel.Convert(img.At(int(50+x*5), int(50+y*5))).(color.RGBA)
	}
	assertColor(t, opts.Highlight, sample(50-2, 25+2.2)) // Red, active
	assertColor(t, colorWhite, sample(50-2, 75+2.2))     // Green
}

func assertColor(t *testing.T, want, got color.RGBA) {
	t.Helper()
	assert.InDelta(t, want.R, got.R, 2)
	assert.InDelta(t, want.G, got.G, 2)
	assert.InDelta(t, want.B, got.B, 2)
}

func TestRenderImageRejectsBadSizes(t *testing.T) {
	_, s, eng := setup(t, "custom_path")
	f := NewFrame(s, eng, nil)

	_, err := RenderImage(f, PNGOptions{Width: 0, Height: 10})
	assert.Error(t, err)

	_, err = RenderImage(Frame{}, DefaultPNGOptions())
	assert.Error(t, err)
}

func TestRenderImageSurvivesBadPath(t *testing.T) {
	_, s, eng := setup(t, "custom_path")
	f := NewFrame(s, eng, nil)
	for _, e := range f.Edges() {
		if e.Explicit() {
			e.Curve = layout.ExplicitCurve{Path: "M 1 1 A 2 2 0 0 1 3 3"}
		}
	}
	_, err := RenderImage(f, PNGOptions{Width: 50, Height: 50})
	assert.NoError(t, err)
}
