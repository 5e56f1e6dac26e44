package board

import (
	"MyLocalPaint/internal/raster"
	"MyLocalPaint/internal/state"
)

// Mode is the state of the pointer gesture machine.
type Mode int

const (
	Idle Mode = iota
	Drawing
	Panning
)

func (m Mode) String() string {
	switch m {
	case Drawing:
		return "drawing"
	case Panning:
		return "panning"
	default:
		return "idle"
	}
}

// Pointer is one pointer sample in device coordinates. Pan is set while the
// pan modifier is held.
type Pointer struct {
	X, Y float64
	Pan  bool
}

// gesture is the transient state of the pointer drag in progress.
type gesture struct {
	mode  Mode
	tool  Tool        // tool captured at pointer-down
	start state.Point // logical drag start
	last  state.Point // logical previous sample, brush and eraser
	cur   state.Point // logical latest sample, shape preview
	dev   state.Point // device previous sample
}

// PointerDown starts a gesture with the active tool. A pointer-down that
// arrives mid-gesture first finishes the old gesture.
func (b *Board) PointerDown(p Pointer) {
	if b.g.mode != Idle {
		b.finish(p)
	}
	if p.Pan || b.tool == ToolPan {
		b.g = gesture{mode: Panning, tool: ToolPan, dev: state.Point{X: p.X, Y: p.Y}}
		return
	}
	pos := b.view.ToLogical(p.X, p.Y)
	dev := state.Point{X: p.X, Y: p.Y}
	switch {
	case b.tool == ToolFill:
		b.fill(pos)
	case b.tool.incremental():
		b.g = gesture{mode: Drawing, tool: b.tool, start: pos, last: pos, cur: pos, dev: dev}
	case b.tool.shape():
		b.g = gesture{mode: Drawing, tool: b.tool, start: pos, cur: pos, dev: dev}
	}
}

// PointerMove continues the gesture in progress.
func (b *Board) PointerMove(p Pointer) {
	switch b.g.mode {
	case Panning:
		b.view.PanBy(p.X-b.g.dev.X, p.Y-b.g.dev.Y)
		b.g.dev = state.Point{X: p.X, Y: p.Y}
	case Drawing:
		pos := b.view.ToLogical(p.X, p.Y)
		b.g.cur = pos
		b.g.dev = state.Point{X: p.X, Y: p.Y}
		if !b.g.tool.incremental() {
			return
		}
		if l := b.store.Current(); l != nil {
			if b.g.tool == ToolEraser {
				raster.EraseSegment(l.Pixels, b.g.last, pos, float64(b.style.Width))
			} else {
				raster.FreehandSegment(l.Pixels, b.g.last, pos, float64(b.style.Width), b.style.Color, b.style.Opacity)
			}
		}
		b.g.last = pos
	}
}

// PointerUp ends the gesture, committing shapes and recording history.
func (b *Board) PointerUp(p Pointer) {
	b.finish(p)
}

// PointerLeave ends the gesture exactly like PointerUp, so that no drag is
// left open when the pointer leaves the surface.
func (b *Board) PointerLeave(p Pointer) {
	b.finish(p)
}

// EndGesture finishes any gesture in progress at the last pointer
// position, for shells that lose the pointer without a final sample.
func (b *Board) EndGesture() {
	b.finish(Pointer{X: b.g.dev.X, Y: b.g.dev.Y})
}

func (b *Board) finish(p Pointer) {
	g := b.g
	b.g = gesture{}
	if g.mode != Drawing {
		return
	}
	if g.tool.shape() {
		g.cur = b.view.ToLogical(p.X, p.Y)
		if l := b.store.Current(); l != nil {
			b.drawShape(l, g)
		}
	}
	b.store.PushHistory()
}

func (b *Board) drawShape(l *state.Layer, g gesture) {
	w := float64(b.style.Width)
	switch g.tool {
	case ToolLine:
		raster.StraightLine(l.Pixels, g.start, g.cur, w, b.style.Color, b.style.Opacity)
	case ToolRectangle:
		raster.Rectangle(l.Pixels, g.start, g.cur, b.style.Filled, w, b.style.Color, b.style.Opacity)
	case ToolCircle:
		raster.Circle(l.Pixels, g.start, distance(g.start, g.cur), b.style.Filled, w, b.style.Color, b.style.Opacity)
	}
}

func (b *Board) fill(pos state.Point) {
	l := b.store.Current()
	if l == nil {
		return
	}
	c := raster.Premultiplied(raster.WithOpacity(b.style.Color, b.style.Opacity))
	if raster.FloodFill(l.Pixels, pos.Pixel(), c) > 0 {
		b.store.PushHistory()
	}
}
