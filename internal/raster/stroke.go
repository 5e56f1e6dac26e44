// Package raster draws shapes, flood fills and composites layer buffers.
// All drawing happens in logical surface pixels; zoom and pan are only
// applied when a view is rendered.
package raster

import (
	"image"
	"image/color"
	"math"

	"MyLocalPaint/internal/state"

	"golang.org/x/image/vector"
)

// minRadius keeps hairline strokes visible.
const minRadius = 0.5

// FreehandSegment paints a round-capped segment between two consecutive
// pointer samples. A zero-length segment paints a dot.
func FreehandSegment(dst *image.RGBA, from, to state.Point, width float64, c color.NRGBA, opacity float64) {
	z := newRasterizer(dst)
	capsule(z, from, to, radius(width))
	paint(dst, z, WithOpacity(c, opacity))
}

// EraseSegment clears a round-capped segment with destination-out
// compositing. Opacity does not apply; coverage alone decides how much is
// removed.
func EraseSegment(dst *image.RGBA, from, to state.Point, width float64) {
	r := radius(width)
	z := newRasterizer(dst)
	capsule(z, from, to, r)
	box := image.Rect(
		int(math.Floor(math.Min(from.X, to.X)-r))-1,
		int(math.Floor(math.Min(from.Y, to.Y)-r))-1,
		int(math.Ceil(math.Max(from.X, to.X)+r))+1,
		int(math.Ceil(math.Max(from.Y, to.Y)+r))+1,
	)
	erase(dst, z, box)
}

// StraightLine paints a round-capped line from a to b.
func StraightLine(dst *image.RGBA, a, b state.Point, width float64, c color.NRGBA, opacity float64) {
	FreehandSegment(dst, a, b, width, c, opacity)
}

// Rectangle paints the axis-aligned rectangle spanned by two opposite
// corners, given in any order. Unfilled rectangles are outlined with a
// stroke of the given width centred on the edges.
func Rectangle(dst *image.RGBA, a, b state.Point, filled bool, width float64, c color.NRGBA, opacity float64) {
	x0, x1 := math.Min(a.X, b.X), math.Max(a.X, b.X)
	y0, y1 := math.Min(a.Y, b.Y), math.Max(a.Y, b.Y)
	z := newRasterizer(dst)
	if filled {
		rect(z, x0, y0, x1, y1, false)
	} else {
		h := radius(width)
		rect(z, x0-h, y0-h, x1+h, y1+h, false)
		if x1-x0 > 2*h && y1-y0 > 2*h {
			rect(z, x0+h, y0+h, x1-h, y1-h, true)
		}
	}
	paint(dst, z, WithOpacity(c, opacity))
}

// Circle paints a circle. Unfilled circles are outlined with a ring of the
// given width centred on the radius.
func Circle(dst *image.RGBA, center state.Point, r float64, filled bool, width float64, c color.NRGBA, opacity float64) {
	z := newRasterizer(dst)
	if filled {
		circle(z, center, math.Max(r, minRadius), false)
	} else {
		h := radius(width)
		circle(z, center, r+h, false)
		if r-h > 0 {
			circle(z, center, r-h, true)
		}
	}
	paint(dst, z, WithOpacity(c, opacity))
}

func radius(width float64) float64 {
	return math.Max(width/2, minRadius)
}

func newRasterizer(dst *image.RGBA) *vector.Rasterizer {
	size := dst.Bounds().Size()
	return vector.NewRasterizer(size.X, size.Y)
}

// paint composites c over dst through the coverage accumulated in z.
func paint(dst *image.RGBA, z *vector.Rasterizer, c color.NRGBA) {
	if c.A == 0 {
		return
	}
	z.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{})
}

// erase scales every channel of dst inside box by one minus the coverage
// accumulated in z.
func erase(dst *image.RGBA, z *vector.Rasterizer, box image.Rectangle) {
	b := dst.Bounds()
	mask := image.NewAlpha(image.Rect(0, 0, b.Dx(), b.Dy()))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	box = box.Intersect(mask.Bounds())
	for y := box.Min.Y; y < box.Max.Y; y++ {
		for x := box.Min.X; x < box.Max.X; x++ {
			m := uint32(mask.Pix[mask.PixOffset(x, y)])
			if m == 0 {
				continue
			}
			i := dst.PixOffset(b.Min.X+x, b.Min.Y+y)
			keep := 255 - m
			for k := 0; k < 4; k++ {
				dst.Pix[i+k] = uint8((uint32(dst.Pix[i+k])*keep + 127) / 255)
			}
		}
	}
}

// capsule adds the outline of a stroked segment with round caps: one convex
// path, so overlapping parts never cancel.
func capsule(z *vector.Rasterizer, a, b state.Point, r float64) {
	dx, dy := b.X-a.X, b.Y-a.Y
	l := math.Hypot(dx, dy)
	if l < 1e-9 {
		circle(z, a, r, false)
		return
	}
	theta := math.Atan2(dx, -dy) // direction of the left normal (-dy, dx)
	nx, ny := -dy/l*r, dx/l*r
	z.MoveTo(float32(a.X+nx), float32(a.Y+ny))
	z.LineTo(float32(b.X+nx), float32(b.Y+ny))
	arc(z, b, r, theta, theta-math.Pi)
	z.LineTo(float32(a.X-nx), float32(a.Y-ny))
	arc(z, a, r, theta-math.Pi, theta-2*math.Pi)
	z.ClosePath()
}

func circle(z *vector.Rasterizer, c state.Point, r float64, reverse bool) {
	sweep := 2 * math.Pi
	if reverse {
		sweep = -sweep
	}
	z.MoveTo(float32(c.X+r), float32(c.Y))
	arc(z, c, r, 0, sweep)
	z.ClosePath()
}

func rect(z *vector.Rasterizer, x0, y0, x1, y1 float64, reverse bool) {
	z.MoveTo(float32(x0), float32(y0))
	if reverse {
		z.LineTo(float32(x0), float32(y1))
		z.LineTo(float32(x1), float32(y1))
		z.LineTo(float32(x1), float32(y0))
	} else {
		z.LineTo(float32(x1), float32(y0))
		z.LineTo(float32(x1), float32(y1))
		z.LineTo(float32(x0), float32(y1))
	}
	z.ClosePath()
}

// arc appends cubic Béziers approximating the arc of radius r around c from
// angle a0 to a1. The pen must already be at the arc's start.
func arc(z *vector.Rasterizer, c state.Point, r, a0, a1 float64) {
	n := int(math.Ceil(math.Abs(a1-a0) / (math.Pi / 2)))
	if n < 1 {
		return
	}
	step := (a1 - a0) / float64(n)
	k := 4.0 / 3.0 * math.Tan(step/4) * r
	for i := 0; i < n; i++ {
		s := a0 + float64(i)*step
		e := s + step
		sx, sy := c.X+r*math.Cos(s), c.Y+r*math.Sin(s)
		ex, ey := c.X+r*math.Cos(e), c.Y+r*math.Sin(e)
		z.CubeTo(
			float32(sx-k*math.Sin(s)), float32(sy+k*math.Cos(s)),
			float32(ex+k*math.Sin(e)), float32(ey-k*math.Cos(e)),
			float32(ex), float32(ey),
		)
	}
}
