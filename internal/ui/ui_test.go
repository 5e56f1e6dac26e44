package ui

import (
	"os"
	"path/filepath"
	"testing"

	"MyLocalPaint/internal/board"
	"MyLocalPaint/internal/state"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBoard() *board.Board {
	opts := board.DefaultOptions()
	opts.Width, opts.Height = 80, 60
	return board.New(opts)
}

func mouse(x, y float32, button desktop.MouseButton, mod fyne.KeyModifier) *desktop.MouseEvent {
	return &desktop.MouseEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)},
		Button:     button,
		Modifier:   mod,
	}
}

func drag(x, y float32) *fyne.DragEvent {
	return &fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)}}
}

func newTestWidget(t *testing.T) *BoardWidget {
	t.Helper()
	test.NewTempApp(t)
	w := NewBoardWidget(newTestBoard())
	w.Resize(fyne.NewSize(100, 100))
	return w
}

func TestBoardWidgetStroke(t *testing.T) {
	w := newTestWidget(t)
	changes := 0
	w.OnChanged = func() { changes++ }

	w.MouseDown(mouse(10, 10, desktop.MouseButtonPrimary, 0))
	assert.Equal(t, board.Drawing, w.Board().Mode())
	w.Dragged(drag(30, 10))
	w.MouseUp(mouse(30, 10, desktop.MouseButtonPrimary, 0))

	assert.Equal(t, board.Idle, w.Board().Mode())
	assert.Equal(t, 2, w.Board().HistoryLen())
	assert.Equal(t, 2, changes)
}

func TestBoardWidgetPanModifiers(t *testing.T) {
	w := newTestWidget(t)

	w.MouseDown(mouse(0, 0, desktop.MouseButtonPrimary, fyne.KeyModifierShift))
	assert.Equal(t, board.Panning, w.Board().Mode())
	w.Dragged(drag(12, 8))
	w.MouseUp(mouse(12, 8, desktop.MouseButtonPrimary, fyne.KeyModifierShift))
	assert.Equal(t, state.Point{X: 12, Y: 8}, w.Board().Viewport().Pan)

	w.MouseDown(mouse(0, 0, desktop.MouseButtonTertiary, 0))
	assert.Equal(t, board.Panning, w.Board().Mode())
	w.Dragged(drag(-2, 2))
	w.MouseUp(mouse(-2, 2, desktop.MouseButtonTertiary, 0))
	assert.Equal(t, state.Point{X: 10, Y: 10}, w.Board().Viewport().Pan)
	assert.Equal(t, 1, w.Board().HistoryLen())

	w.MouseDown(mouse(5, 5, desktop.MouseButtonSecondary, 0))
	assert.Equal(t, board.Idle, w.Board().Mode(), "right button does nothing")
}

func TestBoardWidgetMouseOutCommits(t *testing.T) {
	w := newTestWidget(t)
	w.MouseDown(mouse(10, 10, desktop.MouseButtonPrimary, 0))
	w.Dragged(drag(40, 20))
	w.MouseOut()
	assert.Equal(t, board.Idle, w.Board().Mode())
	assert.Equal(t, 2, w.Board().HistoryLen())

	w.MouseOut()
	assert.Equal(t, 2, w.Board().HistoryLen())
}

func TestBoardWidgetWheelZoom(t *testing.T) {
	w := newTestWidget(t)
	w.Scrolled(&fyne.ScrollEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(20, 20)}, Scrolled: fyne.Delta{DY: 1}})
	assert.Equal(t, 110, w.Board().ZoomPercent())
	w.Scrolled(&fyne.ScrollEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(20, 20)}, Scrolled: fyne.Delta{DY: -1}})
	assert.Equal(t, 100, w.Board().ZoomPercent())
}

func TestToolbarSync(t *testing.T) {
	w := newTestWidget(t)
	tb := NewToolbar(w)
	assert.True(t, tb.undo.Disabled())
	assert.Equal(t, "Brush", tb.tools.Selected)

	tb.tools.SetSelected("Fill")
	assert.Equal(t, board.ToolFill, w.Board().Tool())

	w.MouseDown(mouse(5, 5, desktop.MouseButtonPrimary, 0))
	tb.Sync()
	assert.False(t, tb.undo.Disabled())
	assert.True(t, tb.redo.Disabled())

	tb.colorHex.SetText("#00ff00")
	tb.colorHex.OnSubmitted("#00ff00")
	assert.Equal(t, "#00ff00", tb.colorHex.Text)
	tb.colorHex.OnSubmitted("nonsense")
	assert.Equal(t, "#00ff00", tb.colorHex.Text, "invalid input is reverted")
}

func TestLayerPanel(t *testing.T) {
	w := newTestWidget(t)
	lp := NewLayerPanel(w)
	assert.True(t, lp.del.Disabled(), "the last layer cannot be deleted")

	w.Board().AddLayer()
	lp.Sync()
	require.Len(t, lp.layers, 2)
	assert.Equal(t, "Layer 2", lp.layers[0].Name, "listed top first")
	assert.False(t, lp.del.Disabled())

	lp.list.Select(1)
	assert.Equal(t, lp.layers[1].ID, w.Board().CurrentLayer())
}

func TestAppProjectRoundTrip(t *testing.T) {
	a := test.NewTempApp(t)
	b := newTestBoard()
	ui := NewApp(a, b)
	b.AddLayer()
	dir := t.TempDir()

	path := filepath.Join(dir, "art"+projectExt)
	require.NoError(t, ui.SaveProject(path))
	assert.Equal(t, "MyLocalPaint - art.mlp", ui.Window().Title())

	other := NewApp(a, newTestBoard())
	require.NoError(t, other.OpenProject(path))
	assert.Len(t, other.view.Board().Layers(), 2)

	png := filepath.Join(dir, "art.png")
	require.NoError(t, ui.ExportPNG(png))
	require.NoError(t, ui.ImportImage(png))
	assert.Equal(t, 2, ui.view.Board().HistoryLen())

	pdf := filepath.Join(dir, "art.pdf")
	require.NoError(t, ui.ExportPDF(pdf))
	_, err := os.Stat(pdf)
	assert.NoError(t, err)

	assert.Error(t, ui.OpenProject(png))
}

func TestWithExt(t *testing.T) {
	assert.Equal(t, "a.mlp", withExt("a", ".mlp"))
	assert.Equal(t, "a.MLP", withExt("a.MLP", ".mlp"))
}
