package raster

import (
	"image"
	"image/color"
	"testing"

	"MyLocalPaint/internal/state"

	"github.com/stretchr/testify/assert"
)

var (
	whiteBG   = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	workspace = color.NRGBA{R: 0x60, G: 0x60, B: 0x60, A: 255}
)

func layerOf(img *image.RGBA, opacity float64) state.Layer {
	return state.Layer{ID: "l", Visible: true, Opacity: opacity, Pixels: img}
}

func TestCompositeBackgroundOnly(t *testing.T) {
	out := Flatten(4, 4, whiteBG, nil, nil)
	assert.Equal(t, 16, count(out, white))
}

func TestCompositeOrderAndVisibility(t *testing.T) {
	bottom := image.NewRGBA(image.Rect(0, 0, 4, 4))
	bottom.SetRGBA(1, 1, red)
	bottom.SetRGBA(2, 2, red)
	top := image.NewRGBA(image.Rect(0, 0, 4, 4))
	top.SetRGBA(1, 1, black)

	out := Flatten(4, 4, whiteBG, nil, []state.Layer{layerOf(bottom, 1), layerOf(top, 1)})
	assert.Equal(t, black, out.RGBAAt(1, 1), "upper layer wins")
	assert.Equal(t, red, out.RGBAAt(2, 2))
	assert.Equal(t, white, out.RGBAAt(0, 0))

	hidden := layerOf(top, 1)
	hidden.Visible = false
	out = Flatten(4, 4, whiteBG, nil, []state.Layer{layerOf(bottom, 1), hidden})
	assert.Equal(t, red, out.RGBAAt(1, 1), "hidden layer skipped")
}

func TestCompositeLayerOpacity(t *testing.T) {
	out := Flatten(2, 2, whiteBG, nil, []state.Layer{layerOf(uniform(2, 2, red), 0.5)})
	c := out.RGBAAt(0, 0)
	assert.Equal(t, uint8(255), c.R)
	assert.InDelta(t, 127, int(c.G), 2)
	assert.InDelta(t, 127, int(c.B), 2)
	assert.Equal(t, uint8(255), c.A)

	out = Flatten(2, 2, whiteBG, nil, []state.Layer{layerOf(uniform(2, 2, red), 0)})
	assert.Equal(t, white, out.RGBAAt(0, 0), "zero opacity contributes nothing")
}

func TestOverSingleLayer(t *testing.T) {
	dst := uniform(2, 2, white)
	Over(dst, layerOf(uniform(2, 2, red), 1))
	assert.Equal(t, red, dst.RGBAAt(1, 1))

	dst = uniform(2, 2, white)
	hidden := layerOf(uniform(2, 2, red), 1)
	hidden.Visible = false
	Over(dst, hidden)
	Over(dst, layerOf(nil, 1))
	assert.Equal(t, white, dst.RGBAAt(1, 1))
}

func TestCompositeGridUnderLayers(t *testing.T) {
	gridColor := color.NRGBA{R: 0xe0, G: 0xe0, B: 0xe0, A: 0xff}
	g := &Grid{Size: 5, Color: gridColor}
	layer := image.NewRGBA(image.Rect(0, 0, 10, 10))
	layer.SetRGBA(5, 0, red)

	out := Flatten(10, 10, whiteBG, g, []state.Layer{layerOf(layer, 1)})
	line := Premultiplied(gridColor)
	assert.Equal(t, line, out.RGBAAt(0, 3))
	assert.Equal(t, line, out.RGBAAt(3, 5))
	assert.Equal(t, red, out.RGBAAt(5, 0), "layers cover the grid")
	assert.Equal(t, white, out.RGBAAt(2, 2))
}

func TestRenderViewZoom(t *testing.T) {
	surface := uniform(4, 4, white)
	surface.SetRGBA(1, 1, red)
	vp := state.NewViewport()
	vp.SetZoom(2)

	dst := image.NewRGBA(image.Rect(0, 0, 10, 10))
	RenderView(dst, surface, vp, workspace)
	for _, p := range []image.Point{{2, 2}, {3, 2}, {2, 3}, {3, 3}} {
		assert.Equal(t, red, dst.RGBAAt(p.X, p.Y), "device %v", p)
	}
	assert.Equal(t, white, dst.RGBAAt(1, 1))
	assert.Equal(t, white, dst.RGBAAt(4, 4))
	assert.Equal(t, Premultiplied(workspace), dst.RGBAAt(9, 9), "outside the 8x8 surface")
}

func TestRenderViewPan(t *testing.T) {
	surface := uniform(4, 4, red)
	vp := state.NewViewport()
	vp.SetPan(10, 0)

	dst := image.NewRGBA(image.Rect(0, 0, 20, 4))
	RenderView(dst, surface, vp, workspace)
	assert.Equal(t, Premultiplied(workspace), dst.RGBAAt(9, 0))
	assert.Equal(t, red, dst.RGBAAt(10, 0))
	assert.Equal(t, red, dst.RGBAAt(13, 3))
	assert.Equal(t, Premultiplied(workspace), dst.RGBAAt(14, 0))
}
