package raster

import (
	"image"
	"image/color"
	"math"

	"MyLocalPaint/internal/state"

	"golang.org/x/image/draw"
)

// Grid describes the guide lines drawn under the layers.
type Grid struct {
	Size  int
	Color color.NRGBA
}

// Composite renders one pass of the logical surface into dst: the
// background first, then the grid when grid is non-nil, then every visible
// layer bottom first, each weighted by its opacity.
func Composite(dst *image.RGBA, background color.NRGBA, grid *Grid, layers []state.Layer) {
	b := dst.Bounds()
	draw.Draw(dst, b, image.NewUniform(background), image.Point{}, draw.Src)
	if grid != nil {
		drawGrid(dst, *grid)
	}
	for _, l := range layers {
		Over(dst, l)
	}
}

// Over draws one layer onto dst weighted by its opacity. Hidden, empty and
// fully transparent layers draw nothing.
func Over(dst *image.RGBA, l state.Layer) {
	if !l.Visible || l.Pixels == nil || l.Opacity <= 0 {
		return
	}
	b := dst.Bounds()
	sp := l.Pixels.Bounds().Min
	if l.Opacity >= 1 {
		draw.Draw(dst, b, l.Pixels, sp, draw.Over)
		return
	}
	mask := image.NewUniform(color.Alpha{A: uint8(math.Round(l.Opacity * 255))})
	draw.DrawMask(dst, b, l.Pixels, sp, mask, image.Point{}, draw.Over)
}

// Flatten returns a new image of the given size holding the composite.
func Flatten(width, height int, background color.NRGBA, grid *Grid, layers []state.Layer) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	Composite(dst, background, grid, layers)
	return dst
}

func drawGrid(dst *image.RGBA, g Grid) {
	if g.Size <= 0 || g.Color.A == 0 {
		return
	}
	b := dst.Bounds()
	src := image.NewUniform(g.Color)
	for x := b.Min.X; x < b.Max.X; x += g.Size {
		draw.Draw(dst, image.Rect(x, b.Min.Y, x+1, b.Max.Y), src, image.Point{}, draw.Over)
	}
	for y := b.Min.Y; y < b.Max.Y; y += g.Size {
		draw.Draw(dst, image.Rect(b.Min.X, y, b.Max.X, y+1), src, image.Point{}, draw.Over)
	}
}
