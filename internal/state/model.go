package state

import (
	"image"
	"math"
)

// Point is a position in logical surface coordinates.
type Point struct{ X, Y float64 }

// Pixel returns the integer pixel containing p.
func (p Point) Pixel() image.Point {
	return image.Pt(int(math.Floor(p.X)), int(math.Floor(p.Y)))
}

// Layer is one raster plane of the drawing. Pixels holds premultiplied RGBA
// in logical surface space and is the same size for every layer.
type Layer struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Visible bool        `json:"visible"`
	Opacity float64     `json:"opacity"`
	Pixels  *image.RGBA `json:"-"`
}

// Clone returns a deep copy of l, including its pixel buffer.
func (l Layer) Clone() Layer {
	l.Pixels = CloneImage(l.Pixels)
	return l
}

// CloneImage returns a copy of img that shares no memory with it.
func CloneImage(img *image.RGBA) *image.RGBA {
	if img == nil {
		return nil
	}
	c := &image.RGBA{
		Pix:    make([]uint8, len(img.Pix)),
		Stride: img.Stride,
		Rect:   img.Rect,
	}
	copy(c.Pix, img.Pix)
	return c
}

func cloneLayers(layers []Layer) []Layer {
	out := make([]Layer, len(layers))
	for i, l := range layers {
		out[i] = l.Clone()
	}
	return out
}
