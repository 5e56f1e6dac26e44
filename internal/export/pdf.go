package export

import (
	"bytes"
	"fmt"
	"image"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// pdfImageName is the name the flattened surface is registered under.
const pdfImageName = "surface"

// newPDF builds a one-page document sized to img, 1pt per pixel, with img
// filling the page.
func newPDF(img image.Image) (*gofpdf.Fpdf, error) {
	b := img.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("export pdf: empty image")
	}
	orientation := "P"
	if w > h {
		orientation = "L"
	}
	p := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: orientation,
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: w, Ht: h},
	})
	p.SetMargins(0, 0, 0)
	p.SetAutoPageBreak(false, 0)
	p.AddPage()

	var buf bytes.Buffer
	if err := WritePNG(&buf, img); err != nil {
		return nil, err
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	p.RegisterImageOptionsReader(pdfImageName, opts, &buf)
	p.ImageOptions(pdfImageName, 0, 0, w, h, false, opts, 0, "")
	if err := p.Error(); err != nil {
		return nil, fmt.Errorf("export pdf: %w", err)
	}
	return p, nil
}

// EncodePDF writes img as a single-page PDF.
func EncodePDF(w io.Writer, img image.Image) error {
	p, err := newPDF(img)
	if err != nil {
		return err
	}
	if err := p.Output(w); err != nil {
		return fmt.Errorf("export pdf: %w", err)
	}
	return nil
}

// WritePDF writes img as a single-page PDF file at path.
func WritePDF(path string, img image.Image) error {
	p, err := newPDF(img)
	if err != nil {
		return err
	}
	if err := p.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("export pdf %s: %w", path, err)
	}
	return nil
}
