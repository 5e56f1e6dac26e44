package raster

import (
	"image"
	"image/color"
)

// FloodFill repaints the 4-connected region of pixels that exactly match the
// color at seed with fill, and returns the number of pixels changed. A seed
// outside dst, or a region already of the fill color, changes nothing.
//
// Matching is exact on all four channels; anti-aliased edges are left as
// they are.
func FloodFill(dst *image.RGBA, seed image.Point, fill color.RGBA) int {
	b := dst.Bounds()
	if !seed.In(b) {
		return 0
	}
	start := dst.RGBAAt(seed.X, seed.Y)
	if start == fill {
		return 0
	}

	n := 0
	stack := []image.Point{seed}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !p.In(b) {
			continue
		}
		i := dst.PixOffset(p.X, p.Y)
		px := dst.Pix[i : i+4 : i+4]
		if px[0] != start.R || px[1] != start.G || px[2] != start.B || px[3] != start.A {
			continue
		}
		px[0], px[1], px[2], px[3] = fill.R, fill.G, fill.B, fill.A
		n++
		stack = append(stack,
			image.Pt(p.X, p.Y-1),
			image.Pt(p.X, p.Y+1),
			image.Pt(p.X-1, p.Y),
			image.Pt(p.X+1, p.Y),
		)
	}
	return n
}
