package ui

import (
	"image"

	"MyLocalPaint/internal/board"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// wheelStep is the zoom factor applied per wheel notch.
const wheelStep = 1.1

// BoardWidget shows a board and feeds it pointer events.
type BoardWidget struct {
	widget.BaseWidget
	board  *board.Board
	raster *canvas.Raster

	// pxScale converts widget units to the raster's device pixels.
	pxScale float32
	last    board.Pointer
	panning bool // middle button held

	// OnChanged runs after every event that may change what the toolbar
	// and layer panel show.
	OnChanged func()
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ fyne.Scrollable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)
var _ desktop.Hoverable = (*BoardWidget)(nil)

func NewBoardWidget(b *board.Board) *BoardWidget {
	w := &BoardWidget{board: b, pxScale: 1}
	w.raster = canvas.NewRaster(w.render)
	w.raster.ScaleMode = canvas.ImageScalePixels
	w.ExtendBaseWidget(w)
	return w
}

// Board returns the board being shown.
func (w *BoardWidget) Board() *board.Board { return w.board }

func (w *BoardWidget) render(width, height int) image.Image {
	if s := w.Size().Width; s > 0 {
		w.pxScale = float32(width) / s
	}
	return w.board.RenderView(width, height)
}

func (w *BoardWidget) pointer(pos fyne.Position, pan bool) board.Pointer {
	return board.Pointer{
		X:   float64(pos.X * w.pxScale),
		Y:   float64(pos.Y * w.pxScale),
		Pan: pan,
	}
}

func (w *BoardWidget) changed() {
	w.raster.Refresh()
	if w.OnChanged != nil {
		w.OnChanged()
	}
}

func (w *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	switch e.Button {
	case desktop.MouseButtonPrimary:
	case desktop.MouseButtonTertiary:
		w.panning = true
	default:
		return
	}
	pan := w.panning || e.Modifier&fyne.KeyModifierShift != 0
	w.last = w.pointer(e.Position, pan)
	w.board.PointerDown(w.last)
	w.changed()
}

func (w *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	w.panning = false
	w.last = w.pointer(e.Position, false)
	w.board.PointerUp(w.last)
	w.changed()
}

func (w *BoardWidget) Dragged(e *fyne.DragEvent) {
	w.move(e.Position)
}

func (w *BoardWidget) DragEnd() {}

func (w *BoardWidget) MouseIn(*desktop.MouseEvent) {}

func (w *BoardWidget) MouseMoved(e *desktop.MouseEvent) {
	if w.board.Mode() != board.Idle {
		w.move(e.Position)
	}
}

func (w *BoardWidget) MouseOut() {
	if w.board.Mode() == board.Idle {
		return
	}
	w.panning = false
	w.board.PointerLeave(w.last)
	w.changed()
}

func (w *BoardWidget) move(pos fyne.Position) {
	w.last = w.pointer(pos, w.last.Pan)
	w.board.PointerMove(w.last)
	w.raster.Refresh()
}

func (w *BoardWidget) Scrolled(e *fyne.ScrollEvent) {
	f := wheelStep
	switch {
	case e.Scrolled.DY < 0:
		f = 1 / wheelStep
	case e.Scrolled.DY == 0:
		return
	}
	p := w.pointer(e.Position, false)
	w.board.ZoomAt(f, p.X, p.Y)
	w.changed()
}

// Redraw repaints after a change made outside the widget.
func (w *BoardWidget) Redraw() {
	w.changed()
}

func (w *BoardWidget) MinSize() fyne.Size {
	return fyne.NewSize(320, 240)
}

func (w *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(w.raster)
}
