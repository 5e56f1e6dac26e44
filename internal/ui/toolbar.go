package ui

import (
	"fmt"
	"image/color"
	"strings"

	"MyLocalPaint/internal/board"
	"MyLocalPaint/internal/raster"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

var palette = []string{"#000000", "#ffffff", "#ff0000", "#00a000", "#0000ff", "#ffff00", "#ff8000", "#8000ff"}

type colorSwatch struct {
	widget.BaseWidget
	Color    color.NRGBA
	OnTapped func(color.NRGBA)
}

func newColorSwatch(c color.NRGBA, tapped func(color.NRGBA)) *colorSwatch {
	s := &colorSwatch{Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(s.Color)
	rect.SetMinSize(fyne.NewSize(24, 24))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Color)
	}
}

// Toolbar holds the tool, style and view controls for one board.
type Toolbar struct {
	view *BoardWidget

	tools    *widget.RadioGroup
	zoom     *widget.Label
	undo     *widget.Button
	redo     *widget.Button
	grid     *widget.Check
	current  *canvas.Rectangle
	colorHex *widget.Entry

	content fyne.CanvasObject
}

func toolLabel(t board.Tool) string {
	s := t.String()
	return strings.ToUpper(s[:1]) + s[1:]
}

// NewToolbar builds the controls. Call Sync after board changes.
func NewToolbar(view *BoardWidget) *Toolbar {
	tb := &Toolbar{view: view}
	b := view.Board()

	var labels []string
	byLabel := map[string]board.Tool{}
	for _, t := range board.Tools() {
		labels = append(labels, toolLabel(t))
		byLabel[toolLabel(t)] = t
	}
	tb.tools = widget.NewRadioGroup(labels, func(s string) {
		if t, ok := byLabel[s]; ok {
			b.SetTool(t)
		}
	})
	tb.tools.Horizontal = true
	tb.tools.Required = true

	tb.current = canvas.NewRectangle(b.Style().Color)
	tb.current.SetMinSize(fyne.NewSize(24, 24))
	tb.colorHex = widget.NewEntry()
	tb.colorHex.OnSubmitted = func(s string) {
		if !b.SetColor(s) {
			tb.colorHex.SetText(raster.Hex(b.Style().Color))
		}
		tb.Sync()
	}
	onColorTapped := func(c color.NRGBA) {
		b.SetRGBA(c)
		tb.Sync()
	}
	swatches := container.NewHBox()
	for _, hex := range palette {
		c, _ := raster.ParseHex(hex)
		swatches.Add(newColorSwatch(c, onColorTapped))
	}

	width := widget.NewSlider(1, 50)
	width.SetValue(float64(b.Style().Width))
	width.OnChanged = func(v float64) { b.SetWidth(int(v)) }

	opacity := widget.NewSlider(0, 1)
	opacity.Step = 0.05
	opacity.SetValue(b.Style().Opacity)
	opacity.OnChanged = func(v float64) { b.SetOpacity(v) }

	filled := widget.NewCheck("Filled", func(on bool) { b.SetFilled(on) })
	filled.SetChecked(b.Style().Filled)

	tb.zoom = widget.NewLabel("100%")
	zoomIn := widget.NewButtonWithIcon("", theme.ZoomInIcon(), func() { b.ZoomBy(1.25); view.Redraw() })
	zoomOut := widget.NewButtonWithIcon("", theme.ZoomOutIcon(), func() { b.ZoomBy(0.8); view.Redraw() })
	zoomReset := widget.NewButtonWithIcon("", theme.ZoomFitIcon(), func() { b.ResetView(); view.Redraw() })

	tb.grid = widget.NewCheck("Grid", func(on bool) {
		if on != b.GridVisible() {
			b.ToggleGrid()
			view.Redraw()
		}
	})
	tb.undo = widget.NewButtonWithIcon("", theme.ContentUndoIcon(), func() { b.Undo(); view.Redraw() })
	tb.redo = widget.NewButtonWithIcon("", theme.ContentRedoIcon(), func() { b.Redo(); view.Redraw() })

	sized := func(o fyne.CanvasObject) fyne.CanvasObject {
		return container.New(layout.NewGridWrapLayout(fyne.NewSize(120, 35)), o)
	}
	tb.content = container.NewVBox(
		container.NewHBox(
			widget.NewLabel("Tool:"),
			tb.tools,
			layout.NewSpacer(),
			tb.undo,
			tb.redo,
		),
		container.NewHBox(
			widget.NewLabel("Color:"),
			tb.current,
			swatches,
			sized(tb.colorHex),
			widget.NewSeparator(),
			widget.NewLabel("Size:"),
			sized(width),
			widget.NewLabel("Opacity:"),
			sized(opacity),
			filled,
			widget.NewSeparator(),
			zoomOut,
			tb.zoom,
			zoomIn,
			zoomReset,
			tb.grid,
			layout.NewSpacer(),
		),
	)
	tb.Sync()
	return tb
}

// Content returns the toolbar's canvas object.
func (tb *Toolbar) Content() fyne.CanvasObject { return tb.content }

// Sync updates every control from the board.
func (tb *Toolbar) Sync() {
	b := tb.view.Board()
	tb.tools.SetSelected(toolLabel(b.Tool()))
	tb.current.FillColor = b.Style().Color
	tb.current.Refresh()
	tb.colorHex.SetText(raster.Hex(b.Style().Color))
	tb.zoom.SetText(fmt.Sprintf("%d%%", b.ZoomPercent()))
	tb.grid.SetChecked(b.GridVisible())
	if b.CanUndo() {
		tb.undo.Enable()
	} else {
		tb.undo.Disable()
	}
	if b.CanRedo() {
		tb.redo.Enable()
	} else {
		tb.redo.Disable()
	}
}
