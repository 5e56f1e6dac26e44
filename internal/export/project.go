package export

import (
	"archive/zip"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"os"

	"MyLocalPaint/internal/state"
)

// ErrNotProject is returned when a file is not a readable project archive.
var ErrNotProject = errors.New("not a project file")

const (
	manifestName = "project.json"

	// Version 2 stores layer PNGs as the raw premultiplied bytes. Version 1
	// files hold ordinary straight-alpha PNGs.
	projectVersion     = 2
	premultipliedSince = 2
)

// Project is everything a project file stores.
type Project struct {
	Width   int
	Height  int
	Layers  []state.Layer
	Current string
}

type manifest struct {
	Version int             `json:"version"`
	Width   int             `json:"width"`
	Height  int             `json:"height"`
	Current string          `json:"current"`
	Layers  []layerManifest `json:"layers"`
}

type layerManifest struct {
	state.Layer
	File string `json:"file"`
}

func layerFile(i int) string {
	return fmt.Sprintf("layer_%d.png", i)
}

// SaveProject writes p as a zip archive: project.json with the canvas size
// and layer metadata, then one PNG per layer, bottom first.
func SaveProject(w io.Writer, p Project) error {
	zw := zip.NewWriter(w)
	m := manifest{Version: projectVersion, Width: p.Width, Height: p.Height, Current: p.Current}
	for i, l := range p.Layers {
		m.Layers = append(m.Layers, layerManifest{Layer: l, File: layerFile(i)})
	}

	mw, err := zw.Create(manifestName)
	if err != nil {
		return fmt.Errorf("save project: %w", err)
	}
	enc := json.NewEncoder(mw)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("save project: %w", err)
	}

	for i, l := range p.Layers {
		if l.Pixels == nil {
			continue
		}
		fw, err := zw.Create(layerFile(i))
		if err != nil {
			return fmt.Errorf("save project: %w", err)
		}
		if err := png.Encode(fw, rawView(l.Pixels)); err != nil {
			return fmt.Errorf("save project layer %q: %w", l.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("save project: %w", err)
	}
	return nil
}

// LoadProject reads a project archive of the given size. Layers whose PNG is
// missing come back with nil pixels; the store allocates them.
func LoadProject(r io.ReaderAt, size int64) (Project, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return Project{}, fmt.Errorf("%w: %v", ErrNotProject, err)
	}
	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}

	mf, ok := files[manifestName]
	if !ok {
		return Project{}, fmt.Errorf("%w: missing %s", ErrNotProject, manifestName)
	}
	var m manifest
	if err := readJSON(mf, &m); err != nil {
		return Project{}, fmt.Errorf("%w: %v", ErrNotProject, err)
	}
	if len(m.Layers) == 0 {
		return Project{}, fmt.Errorf("%w: no layers", ErrNotProject)
	}

	p := Project{Width: m.Width, Height: m.Height, Current: m.Current}
	for _, lm := range m.Layers {
		l := lm.Layer
		if f, ok := files[lm.File]; ok {
			img, err := readPNG(f, m.Version >= premultipliedSince)
			if err != nil {
				return Project{}, fmt.Errorf("load project layer %q: %w", l.Name, err)
			}
			l.Pixels = img
		}
		p.Layers = append(p.Layers, l)
	}
	return p, nil
}

// SaveProjectFile writes p to path.
func SaveProjectFile(path string, p Project) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := SaveProject(f, p); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadProjectFile reads the project at path.
func LoadProjectFile(path string) (Project, error) {
	f, err := os.Open(path)
	if err != nil {
		return Project{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return Project{}, fmt.Errorf("stat %s: %w", path, err)
	}
	return LoadProject(f, info.Size())
}

func readJSON(f *zip.File, v any) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	return json.NewDecoder(rc).Decode(v)
}

// rawView exposes the premultiplied bytes of img as NRGBA so the encoder
// writes them unchanged.
func rawView(img *image.RGBA) *image.NRGBA {
	return &image.NRGBA{Pix: img.Pix, Stride: img.Stride, Rect: img.Rect}
}

func readPNG(f *zip.File, raw bool) (*image.RGBA, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	img, err := png.Decode(rc)
	if err != nil {
		return nil, err
	}
	switch src := img.(type) {
	case *image.RGBA:
		return src, nil
	case *image.NRGBA:
		if raw {
			return &image.RGBA{Pix: src.Pix, Stride: src.Stride, Rect: src.Rect}, nil
		}
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba, nil
}
