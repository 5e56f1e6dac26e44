package ui

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"MyLocalPaint/internal/export"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
)

const (
	projectExt     = ".mlp"
	prefKeyLastDir = "lastDir"
)

// OpenProject replaces the board's layers with the project at path.
func (ui *App) OpenProject(path string) error {
	p, err := export.LoadProjectFile(path)
	if err != nil {
		return err
	}
	ui.view.Board().LoadProject(p.Layers, p.Current)
	ui.projectPath = path
	ui.refresh()
	ui.SetStatus(fmt.Sprintf("Opened %s", filepath.Base(path)))
	log.Printf("[UI] opened project %s (%d layers)", path, len(p.Layers))
	return nil
}

// SaveProject writes the board to path and remembers it for later saves.
func (ui *App) SaveProject(path string) error {
	b := ui.view.Board()
	layers, current := b.Snapshot()
	w, h := b.Size()
	if err := export.SaveProjectFile(path, export.Project{Width: w, Height: h, Layers: layers, Current: current}); err != nil {
		return err
	}
	ui.projectPath = path
	ui.updateTitle()
	ui.SetStatus(fmt.Sprintf("Saved %s", filepath.Base(path)))
	log.Printf("[UI] saved project %s", path)
	return nil
}

// ImportImage draws the image file at path onto the current layer.
func (ui *App) ImportImage(path string) error {
	img, err := export.OpenImage(path)
	if err != nil {
		return err
	}
	ui.view.Board().ImportImage(img)
	ui.refresh()
	ui.SetStatus(fmt.Sprintf("Imported %s", filepath.Base(path)))
	return nil
}

// ExportPNG writes the flattened drawing to path.
func (ui *App) ExportPNG(path string) error {
	if err := export.SavePNG(path, ui.view.Board().Flatten()); err != nil {
		return err
	}
	ui.SetStatus(fmt.Sprintf("Exported %s", filepath.Base(path)))
	return nil
}

// ExportPDF writes the flattened drawing to path as a one-page PDF.
func (ui *App) ExportPDF(path string) error {
	if err := export.WritePDF(path, ui.view.Board().Flatten()); err != nil {
		return err
	}
	ui.SetStatus(fmt.Sprintf("Exported %s", filepath.Base(path)))
	return nil
}

func (ui *App) showError(err error) {
	log.Printf("[UI] %v", err)
	dialog.ShowError(err, ui.window)
}

func (ui *App) saveLastDir(path string) {
	ui.app.Preferences().SetString(prefKeyLastDir, filepath.Dir(path))
}

func (ui *App) lastDir() fyne.ListableURI {
	dir := ui.app.Preferences().String(prefKeyLastDir)
	if dir == "" {
		return nil
	}
	l, err := storage.ListerForURI(storage.NewFileURI(dir))
	if err != nil {
		return nil
	}
	return l
}

func withExt(path, ext string) string {
	if strings.EqualFold(filepath.Ext(path), ext) {
		return path
	}
	return path + ext
}

func (ui *App) onOpenProject() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		ui.saveLastDir(path)
		if err := ui.OpenProject(path); err != nil {
			ui.showError(err)
		}
	}, ui.window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{projectExt}))
	if loc := ui.lastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (ui *App) onSaveProject() {
	if ui.projectPath == "" {
		ui.onSaveProjectAs()
		return
	}
	if err := ui.SaveProject(ui.projectPath); err != nil {
		ui.showError(err)
	}
}

func (ui *App) onSaveProjectAs() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := withExt(writer.URI().Path(), projectExt)
		ui.saveLastDir(path)
		if err := ui.SaveProject(path); err != nil {
			ui.showError(err)
		}
	}, ui.window)
	fd.SetFileName("drawing" + projectExt)
	if loc := ui.lastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (ui *App) onImportImage() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		ui.saveLastDir(path)
		if err := ui.ImportImage(path); err != nil {
			ui.showError(err)
		}
	}, ui.window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp"}))
	if loc := ui.lastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (ui *App) onExport(ext string, write func(string) error) {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := withExt(writer.URI().Path(), ext)
		ui.saveLastDir(path)
		if err := write(path); err != nil {
			ui.showError(err)
		}
	}, ui.window)
	fd.SetFileName("drawing" + ext)
	if loc := ui.lastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}
