// Package board is the drawing engine: it owns the layer store, the
// viewport, the drawing style and the pointer gesture machine, and exposes
// the commands and outputs a shell needs. A Board is driven from a single
// goroutine; shells serialize access.
package board

import (
	"image"
	"image/color"
	"log/slog"
	"math"

	"MyLocalPaint/internal/raster"
	"MyLocalPaint/internal/state"

	"golang.org/x/image/draw"
)

// Style is the paint applied by the drawing tools.
type Style struct {
	Color   color.NRGBA
	Width   int
	Opacity float64
	Filled  bool // rectangles and circles
}

// Options configures a new Board.
type Options struct {
	Width, Height int
	HistoryLimit  int
	Background    color.NRGBA
	Workspace     color.NRGBA // device area outside the surface
	Grid          raster.Grid
	ShowGrid      bool
	Style         Style
}

// DefaultOptions returns an 800x600 white surface with a black 5px brush.
func DefaultOptions() Options {
	return Options{
		Width:        800,
		Height:       600,
		HistoryLimit: state.DefaultHistoryLimit,
		Background:   color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		Workspace:    color.NRGBA{R: 0x60, G: 0x60, B: 0x60, A: 0xff},
		Grid:         raster.Grid{Size: 20, Color: color.NRGBA{R: 0xe0, G: 0xe0, B: 0xe0, A: 0xff}},
		Style:        Style{Color: color.NRGBA{A: 0xff}, Width: 5, Opacity: 1},
	}
}

// LayerInfo is the listing of one layer for a shell.
type LayerInfo struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Visible bool    `json:"visible"`
	Opacity float64 `json:"opacity"`
	Current bool    `json:"current"`
}

// Board is the drawing engine.
type Board struct {
	store      *state.Store
	view       state.Viewport
	style      Style
	tool       Tool
	showGrid   bool
	grid       raster.Grid
	background color.NRGBA
	workspace  color.NRGBA
	g          gesture
}

// SetLogger enables engine logging. See state.SetLogger.
func SetLogger(l *slog.Logger) {
	state.SetLogger(l)
}

// New creates a board with a single empty layer and records that blank
// state as the first history entry.
func New(opts Options) *Board {
	if opts.Width <= 0 || opts.Height <= 0 {
		d := DefaultOptions()
		opts.Width, opts.Height = d.Width, d.Height
	}
	b := &Board{
		store:      state.NewStore(opts.Width, opts.Height, opts.HistoryLimit),
		view:       state.NewViewport(),
		tool:       ToolBrush,
		showGrid:   opts.ShowGrid,
		grid:       opts.Grid,
		background: opts.Background,
		workspace:  opts.Workspace,
	}
	b.style = Style{Color: color.NRGBA{A: 0xff}, Width: 1, Opacity: 1}
	b.SetStyle(opts.Style)
	b.store.PushHistory()
	return b
}

// SelectTool activates the named tool. Unknown names leave the active tool
// unchanged and report false.
func (b *Board) SelectTool(name string) bool {
	t, ok := ParseTool(name)
	if !ok {
		state.Logger().Debug("unknown tool ignored", "tool", name)
		return false
	}
	b.tool = t
	return true
}

// SetTool activates t.
func (b *Board) SetTool(t Tool) {
	if t.String() != "unknown" {
		b.tool = t
	}
}

// Tool returns the active tool.
func (b *Board) Tool() Tool { return b.tool }

// Mode returns the gesture machine state.
func (b *Board) Mode() Mode { return b.g.mode }

// SetColor sets the paint color from a hex string. Invalid strings are
// ignored and report false.
func (b *Board) SetColor(hex string) bool {
	c, err := raster.ParseHex(hex)
	if err != nil {
		state.Logger().Debug("color ignored", "err", err)
		return false
	}
	b.style.Color = c
	return true
}

// SetRGBA sets the paint color directly.
func (b *Board) SetRGBA(c color.NRGBA) { b.style.Color = c }

// SetWidth sets the brush width in pixels, at least 1.
func (b *Board) SetWidth(w int) {
	if w < 1 {
		w = 1
	}
	b.style.Width = w
}

// SetOpacity sets the paint opacity, clamped to [0,1]. NaN is ignored.
func (b *Board) SetOpacity(v float64) {
	if math.IsNaN(v) {
		return
	}
	b.style.Opacity = state.Clamp01(v)
}

// SetFilled selects filled or outlined rectangles and circles.
func (b *Board) SetFilled(filled bool) { b.style.Filled = filled }

// SetStyle applies every field of s through the individual setters.
func (b *Board) SetStyle(s Style) {
	b.style.Color = s.Color
	b.SetWidth(s.Width)
	b.SetOpacity(s.Opacity)
	b.SetFilled(s.Filled)
}

// Style returns the current paint style.
func (b *Board) Style() Style { return b.style }

// SetZoom sets the absolute zoom, clamped to [0.1, 5].
func (b *Board) SetZoom(z float64) { b.view.SetZoom(z) }

// ZoomBy multiplies the zoom by f.
func (b *Board) ZoomBy(f float64) { b.view.ZoomBy(f) }

// ZoomAt zooms by f around the device position (x, y).
func (b *Board) ZoomAt(f, x, y float64) { b.view.ZoomAt(f, x, y) }

// SetPan sets the absolute pan offset.
func (b *Board) SetPan(x, y float64) { b.view.SetPan(x, y) }

// SetOrigin sets where the surface's top-left sits in device space.
func (b *Board) SetOrigin(x, y float64) { b.view.Origin = state.Point{X: x, Y: y} }

// ResetView restores 100% zoom and no pan.
func (b *Board) ResetView() {
	b.view.Zoom = 1
	b.view.Pan = state.Point{}
}

// Viewport returns the current zoom, pan and origin.
func (b *Board) Viewport() state.Viewport { return b.view }

// ZoomPercent returns the zoom for a UI indicator.
func (b *Board) ZoomPercent() int { return b.view.ZoomPercent() }

// ToggleGrid shows or hides the grid.
func (b *Board) ToggleGrid() { b.showGrid = !b.showGrid }

// GridVisible reports whether the grid is drawn.
func (b *Board) GridVisible() bool { return b.showGrid }

// AddLayer adds a layer on top and selects it.
func (b *Board) AddLayer() string { return b.store.AddLayer() }

// DeleteLayer removes a layer unless it is the last one.
func (b *Board) DeleteLayer(id string) bool { return b.store.DeleteLayer(id) }

// DuplicateLayer copies a layer above itself.
func (b *Board) DuplicateLayer(id string) string { return b.store.DuplicateLayer(id) }

// SetLayerOpacity sets a layer's opacity, clamped to [0,1].
func (b *Board) SetLayerOpacity(id string, v float64) { b.store.SetLayerOpacity(id, v) }

// ToggleLayerVisibility flips a layer's visibility.
func (b *Board) ToggleLayerVisibility(id string) { b.store.ToggleLayerVisibility(id) }

// SetCurrentLayer selects the layer drawn on.
func (b *Board) SetCurrentLayer(id string) { b.store.SetCurrentLayer(id) }

// RenameLayer renames a layer.
func (b *Board) RenameLayer(id, name string) { b.store.RenameLayer(id, name) }

// MoveLayer moves a layer up (positive delta) or down the stack.
func (b *Board) MoveLayer(id string, delta int) { b.store.MoveLayer(id, delta) }

// Layers lists the layers bottom first.
func (b *Board) Layers() []LayerInfo {
	cur := b.store.CurrentID()
	ls := b.store.Layers()
	out := make([]LayerInfo, len(ls))
	for i, l := range ls {
		out[i] = LayerInfo{ID: l.ID, Name: l.Name, Visible: l.Visible, Opacity: l.Opacity, Current: l.ID == cur}
	}
	return out
}

// CurrentLayer returns the id of the layer drawn on.
func (b *Board) CurrentLayer() string { return b.store.CurrentID() }

// Undo steps back one history entry.
func (b *Board) Undo() bool { return b.store.Undo() }

// Redo steps forward one history entry.
func (b *Board) Redo() bool { return b.store.Redo() }

// HistoryLen returns the number of history entries.
func (b *Board) HistoryLen() int { return b.store.HistoryLen() }

// HistoryCursor returns the history cursor.
func (b *Board) HistoryCursor() int { return b.store.HistoryCursor() }

// CanUndo reports whether Undo would change anything.
func (b *Board) CanUndo() bool { return b.store.CanUndo() }

// CanRedo reports whether Redo would change anything.
func (b *Board) CanRedo() bool { return b.store.CanRedo() }

// Size returns the surface size in pixels.
func (b *Board) Size() (width, height int) { return b.store.Size() }

// Snapshot returns a deep copy of the layers and the current layer id, for
// saving a project.
func (b *Board) Snapshot() ([]state.Layer, string) {
	ls := b.store.Layers()
	for i := range ls {
		ls[i] = ls[i].Clone()
	}
	return ls, b.store.CurrentID()
}

// LoadProject replaces all layers and records a history entry.
func (b *Board) LoadProject(layers []state.Layer, current string) {
	b.g = gesture{}
	b.store.Load(layers, current)
}

// ImportImage draws img onto the current layer, scaled down to fit and
// centred, and records a history entry.
func (b *Board) ImportImage(img image.Image) {
	l := b.store.Current()
	if l == nil || img == nil {
		return
	}
	dst := l.Pixels.Bounds()
	src := img.Bounds()
	if src.Empty() {
		return
	}
	scale := math.Min(1, math.Min(float64(dst.Dx())/float64(src.Dx()), float64(dst.Dy())/float64(src.Dy())))
	w := int(math.Round(float64(src.Dx()) * scale))
	h := int(math.Round(float64(src.Dy()) * scale))
	x := dst.Min.X + (dst.Dx()-w)/2
	y := dst.Min.Y + (dst.Dy()-h)/2
	draw.CatmullRom.Scale(l.Pixels, image.Rect(x, y, x+w, y+h), img, src, draw.Over, nil)
	b.store.PushHistory()
}

// ClearLayer erases the current layer and records a history entry.
func (b *Board) ClearLayer() {
	l := b.store.Current()
	if l == nil {
		return
	}
	clear(l.Pixels.Pix)
	b.store.PushHistory()
}

func (b *Board) gridSpec() *raster.Grid {
	if !b.showGrid {
		return nil
	}
	g := b.grid
	return &g
}

// Surface returns the composited logical surface: background, grid when
// shown, then the visible layers.
func (b *Board) Surface() *image.RGBA {
	w, h := b.store.Size()
	return raster.Flatten(w, h, b.background, b.gridSpec(), b.store.Layers())
}

// Flatten returns the composite without the grid, for export.
func (b *Board) Flatten() *image.RGBA {
	w, h := b.store.Size()
	return raster.Flatten(w, h, b.background, nil, b.store.Layers())
}

// RenderView returns a device-space image of the given size showing the
// surface through the viewport, with the pending shape preview on top.
func (b *Board) RenderView(width, height int) *image.RGBA {
	surface := b.Surface()
	if cur := b.store.Current(); cur != nil && b.g.mode == Drawing && b.g.tool.shape() {
		// The preview shows the shape as its layer will composite it.
		preview := state.Layer{Pixels: image.NewRGBA(surface.Bounds()), Visible: cur.Visible, Opacity: cur.Opacity}
		b.drawShape(&preview, b.g)
		raster.Over(surface, preview)
	}
	dst := image.NewRGBA(image.Rect(0, 0, max(width, 1), max(height, 1)))
	raster.RenderView(dst, surface, b.view, b.workspace)
	return dst
}

// ColorAt returns the composited color under a device position, or
// transparent outside the surface.
func (b *Board) ColorAt(x, y float64) color.NRGBA {
	p := b.view.ToLogical(x, y).Pixel()
	s := b.Flatten()
	if !p.In(s.Bounds()) {
		return color.NRGBA{}
	}
	return color.NRGBAModel.Convert(s.RGBAAt(p.X, p.Y)).(color.NRGBA)
}

func distance(a, b state.Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}
