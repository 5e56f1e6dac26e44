// Package ui is the Fyne desktop shell around a board.
package ui

import (
	"fmt"
	"log"
	"path/filepath"

	"MyLocalPaint/internal/board"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

const appID = "io.github.mylocalpaint"

// App is the main window with its controls.
type App struct {
	app     fyne.App
	window  fyne.Window
	view    *BoardWidget
	toolbar *Toolbar
	layers  *LayerPanel
	status  *widget.Label

	projectPath string
}

// NewApp builds the main window of a for b without showing it.
func NewApp(a fyne.App, b *board.Board) *App {
	ui := &App{app: a}
	ui.window = a.NewWindow("MyLocalPaint")
	ui.window.Resize(fyne.NewSize(1024, 768))

	ui.view = NewBoardWidget(b)
	ui.toolbar = NewToolbar(ui.view)
	ui.layers = NewLayerPanel(ui.view)
	ui.status = widget.NewLabel("Ready")
	ui.view.OnChanged = ui.sync

	side := container.NewGridWrap(fyne.NewSize(220, 500), ui.layers.Content())
	content := container.NewBorder(ui.toolbar.Content(), ui.status, nil, side, ui.view)
	ui.window.SetContent(content)
	ui.window.SetMainMenu(ui.menu())
	ui.addShortcuts()
	ui.updateTitle()
	return ui
}

// RunApp opens the desktop shell and blocks until it is closed. A non-empty
// project path is loaded first.
func RunApp(b *board.Board, project string) {
	ui := NewApp(app.NewWithID(appID), b)
	if project != "" {
		if err := ui.OpenProject(project); err != nil {
			log.Printf("[UI] %v", err)
			ui.SetStatus(err.Error())
		}
	}
	ui.window.ShowAndRun()
}

// Window returns the main window.
func (ui *App) Window() fyne.Window { return ui.window }

// SetStatus shows text in the status bar.
func (ui *App) SetStatus(text string) {
	ui.status.SetText(text)
}

func (ui *App) sync() {
	ui.toolbar.Sync()
	ui.layers.Sync()
}

func (ui *App) refresh() {
	ui.view.Redraw()
	ui.updateTitle()
}

func (ui *App) updateTitle() {
	name := "Untitled"
	if ui.projectPath != "" {
		name = filepath.Base(ui.projectPath)
	}
	ui.window.SetTitle(fmt.Sprintf("MyLocalPaint - %s", name))
}

func (ui *App) undo() {
	ui.view.Board().Undo()
	ui.refresh()
}

func (ui *App) redo() {
	ui.view.Board().Redo()
	ui.refresh()
}

func (ui *App) menu() *fyne.MainMenu {
	b := ui.view.Board()
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Project...", ui.onOpenProject),
		fyne.NewMenuItem("Save Project", ui.onSaveProject),
		fyne.NewMenuItem("Save Project As...", ui.onSaveProjectAs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Import Image...", ui.onImportImage),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export PNG...", func() { ui.onExport(".png", ui.ExportPNG) }),
		fyne.NewMenuItem("Export PDF...", func() { ui.onExport(".pdf", ui.ExportPDF) }),
	)
	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Undo", ui.undo),
		fyne.NewMenuItem("Redo", ui.redo),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Clear Layer", func() { b.ClearLayer(); ui.refresh() }),
	)
	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", func() { b.ZoomBy(1.25); ui.refresh() }),
		fyne.NewMenuItem("Zoom Out", func() { b.ZoomBy(0.8); ui.refresh() }),
		fyne.NewMenuItem("Actual Size", func() { b.ResetView(); ui.refresh() }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Toggle Grid", func() { b.ToggleGrid(); ui.refresh() }),
	)
	return fyne.NewMainMenu(fileMenu, editMenu, viewMenu)
}

func (ui *App) addShortcuts() {
	c := ui.window.Canvas()
	add := func(key fyne.KeyName, mod fyne.KeyModifier, fn func()) {
		c.AddShortcut(&desktop.CustomShortcut{KeyName: key, Modifier: mod}, func(fyne.Shortcut) { fn() })
	}
	ctrl := fyne.KeyModifierShortcutDefault
	add(fyne.KeyZ, ctrl, ui.undo)
	add(fyne.KeyZ, ctrl|fyne.KeyModifierShift, ui.redo)
	add(fyne.KeyY, ctrl, ui.redo)
	add(fyne.KeyS, ctrl, ui.onSaveProject)
	add(fyne.KeyO, ctrl, ui.onOpenProject)
}
