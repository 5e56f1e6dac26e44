package raster

import (
	"image"
	"image/color"

	"MyLocalPaint/internal/state"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// RenderView draws surface into dst as seen through vp: scaled by the zoom,
// then translated by the pan and origin. Device pixels not covered by the
// surface are filled with workspace.
func RenderView(dst *image.RGBA, surface image.Image, vp state.Viewport, workspace color.NRGBA) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(workspace), image.Point{}, draw.Src)
	tx := vp.Pan.X + vp.Origin.X
	ty := vp.Pan.Y + vp.Origin.Y
	m := f64.Aff3{
		vp.Zoom, 0, tx,
		0, vp.Zoom, ty,
	}
	var q draw.Interpolator = draw.NearestNeighbor
	if vp.Zoom < 1 {
		q = draw.ApproxBiLinear
	}
	q.Transform(dst, m, surface, surface.Bounds(), draw.Over, nil)
}
