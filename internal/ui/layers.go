package ui

import (
	"MyLocalPaint/internal/board"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// LayerPanel lists the layers top first and edits the selected one.
type LayerPanel struct {
	view   *BoardWidget
	layers []board.LayerInfo // top first, as listed

	list    *widget.List
	opacity *widget.Slider
	name    *widget.Entry
	del     *widget.Button
	syncing bool

	content fyne.CanvasObject
}

func NewLayerPanel(view *BoardWidget) *LayerPanel {
	lp := &LayerPanel{view: view}
	b := view.Board()

	lp.list = widget.NewList(
		func() int { return len(lp.layers) },
		func() fyne.CanvasObject {
			return container.NewHBox(widget.NewCheck("", nil), widget.NewLabel("Layer"))
		},
		func(i widget.ListItemID, o fyne.CanvasObject) {
			if i >= len(lp.layers) {
				return
			}
			l := lp.layers[i]
			row := o.(*fyne.Container)
			check := row.Objects[0].(*widget.Check)
			check.OnChanged = nil
			check.SetChecked(l.Visible)
			check.OnChanged = func(on bool) {
				if on != l.Visible {
					b.ToggleLayerVisibility(l.ID)
					view.Redraw()
				}
			}
			row.Objects[1].(*widget.Label).SetText(l.Name)
		},
	)
	lp.list.OnSelected = func(i widget.ListItemID) {
		if lp.syncing || i >= len(lp.layers) {
			return
		}
		b.SetCurrentLayer(lp.layers[i].ID)
		view.Redraw()
	}

	lp.opacity = widget.NewSlider(0, 1)
	lp.opacity.Step = 0.05
	lp.opacity.OnChanged = func(v float64) {
		if lp.syncing {
			return
		}
		b.SetLayerOpacity(b.CurrentLayer(), v)
		view.raster.Refresh()
	}

	lp.name = widget.NewEntry()
	lp.name.OnSubmitted = func(s string) {
		b.RenameLayer(b.CurrentLayer(), s)
		view.Redraw()
	}

	add := widget.NewButtonWithIcon("", theme.ContentAddIcon(), func() {
		b.AddLayer()
		view.Redraw()
	})
	lp.del = widget.NewButtonWithIcon("", theme.DeleteIcon(), func() {
		b.DeleteLayer(b.CurrentLayer())
		view.Redraw()
	})
	dup := widget.NewButtonWithIcon("", theme.ContentCopyIcon(), func() {
		b.DuplicateLayer(b.CurrentLayer())
		view.Redraw()
	})
	up := widget.NewButtonWithIcon("", theme.MoveUpIcon(), func() {
		b.MoveLayer(b.CurrentLayer(), 1)
		view.Redraw()
	})
	down := widget.NewButtonWithIcon("", theme.MoveDownIcon(), func() {
		b.MoveLayer(b.CurrentLayer(), -1)
		view.Redraw()
	})

	lp.content = container.NewBorder(
		widget.NewLabelWithStyle("Layers", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewVBox(
			lp.name,
			widget.NewLabel("Opacity"),
			lp.opacity,
			container.NewHBox(add, dup, lp.del, up, down),
		),
		nil, nil,
		lp.list,
	)
	lp.Sync()
	return lp
}

// Content returns the panel's canvas object.
func (lp *LayerPanel) Content() fyne.CanvasObject { return lp.content }

// Sync reloads the list and the selected layer's controls from the board.
func (lp *LayerPanel) Sync() {
	lp.syncing = true
	defer func() { lp.syncing = false }()

	ls := lp.view.Board().Layers()
	lp.layers = lp.layers[:0]
	for i := len(ls) - 1; i >= 0; i-- {
		lp.layers = append(lp.layers, ls[i])
	}
	lp.list.Refresh()
	for i, l := range lp.layers {
		if l.Current {
			lp.list.Select(i)
			lp.opacity.SetValue(l.Opacity)
			lp.name.SetText(l.Name)
		}
	}
	if len(lp.layers) > 1 {
		lp.del.Enable()
	} else {
		lp.del.Disable()
	}
}

