package state

import (
	"math"
)

// Zoom bounds. Pan has no bound.
const (
	MinZoom = 0.1
	MaxZoom = 5.0
)

// ToLogical maps a device position to logical surface coordinates given the
// zoom factor, the pan offset and the device position of the surface origin.
func ToLogical(deviceX, deviceY, zoom float64, pan, origin Point) Point {
	return Point{
		X: (deviceX - origin.X - pan.X) / zoom,
		Y: (deviceY - origin.Y - pan.Y) / zoom,
	}
}

// ClampZoom limits z to [MinZoom, MaxZoom].
func ClampZoom(z float64) float64 {
	return math.Max(MinZoom, math.Min(MaxZoom, z))
}

// Viewport is the zoom and pan applied when presenting the logical surface.
// Origin is where the surface's top-left corner sits in device space before
// panning, e.g. the offset of the drawing area inside a window.
type Viewport struct {
	Zoom   float64
	Pan    Point
	Origin Point
}

// NewViewport returns an unzoomed, unpanned viewport.
func NewViewport() Viewport {
	return Viewport{Zoom: 1}
}

// ToLogical maps a device position through v.
func (v Viewport) ToLogical(deviceX, deviceY float64) Point {
	return ToLogical(deviceX, deviceY, v.Zoom, v.Pan, v.Origin)
}

// ToDevice is the inverse of ToLogical.
func (v Viewport) ToDevice(p Point) Point {
	return Point{
		X: p.X*v.Zoom + v.Pan.X + v.Origin.X,
		Y: p.Y*v.Zoom + v.Pan.Y + v.Origin.Y,
	}
}

// SetZoom stores the requested zoom clamped to the valid range. NaN is ignored.
func (v *Viewport) SetZoom(z float64) {
	if math.IsNaN(z) {
		return
	}
	v.Zoom = ClampZoom(z)
}

// ZoomBy multiplies the current zoom by f.
func (v *Viewport) ZoomBy(f float64) {
	v.SetZoom(v.Zoom * f)
}

// ZoomAt zooms by f while keeping the logical point under the device
// position (deviceX, deviceY) in place.
func (v *Viewport) ZoomAt(f, deviceX, deviceY float64) {
	anchor := v.ToLogical(deviceX, deviceY)
	old := v.Zoom
	v.ZoomBy(f)
	if v.Zoom == old {
		return
	}
	v.Pan.X = deviceX - v.Origin.X - anchor.X*v.Zoom
	v.Pan.Y = deviceY - v.Origin.Y - anchor.Y*v.Zoom
}

// SetPan sets the absolute pan offset.
func (v *Viewport) SetPan(x, y float64) {
	v.Pan = Point{X: x, Y: y}
}

// PanBy moves the pan offset by a device-space delta.
func (v *Viewport) PanBy(dx, dy float64) {
	v.Pan.X += dx
	v.Pan.Y += dy
}

// ZoomPercent returns the zoom as a rounded percentage for display.
func (v Viewport) ZoomPercent() int {
	return int(math.Round(v.Zoom * 100))
}
