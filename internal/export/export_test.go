package export

import (
	"archive/zip"
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"MyLocalPaint/internal/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var red = color.RGBA{R: 255, A: 255}

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestPNGRoundTrip(t *testing.T) {
	src := solid(6, 4, red)
	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, src))

	img, format, err := DecodeImage(&buf)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, src.Bounds(), img.Bounds())
	r, g, b, a := img.At(3, 2).RGBA()
	assert.Equal(t, [4]uint32{0xffff, 0, 0, 0xffff}, [4]uint32{r, g, b, a})
}

func TestDecodeJPEG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, solid(8, 8, red), nil))
	_, format, err := DecodeImage(&buf)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}

func TestDecodeGarbage(t *testing.T) {
	_, _, err := DecodeImage(bytes.NewReader([]byte("not an image")))
	assert.Error(t, err)
}

func TestEncodePDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodePDF(&buf, solid(40, 20, red)))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Contains(t, buf.String(), "/Subtype /Image")

	assert.Error(t, EncodePDF(&buf, image.NewRGBA(image.Rectangle{})))
}

func TestWritePDFFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.pdf")
	require.NoError(t, WritePDF(path, solid(10, 10, red)))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestProjectRoundTrip(t *testing.T) {
	bottom := image.NewRGBA(image.Rect(0, 0, 5, 3))
	bottom.SetRGBA(1, 2, red)
	p := Project{
		Width:  5,
		Height: 3,
		Layers: []state.Layer{
			{ID: "a", Name: "Sketch", Visible: true, Opacity: 1, Pixels: bottom},
			{ID: "b", Name: "Ink", Visible: false, Opacity: 0.25, Pixels: solid(5, 3, red)},
		},
		Current: "b",
	}

	path := filepath.Join(t.TempDir(), "drawing.mlp")
	require.NoError(t, SaveProjectFile(path, p))
	got, err := LoadProjectFile(path)
	require.NoError(t, err)

	assert.Equal(t, 5, got.Width)
	assert.Equal(t, 3, got.Height)
	assert.Equal(t, "b", got.Current)
	require.Len(t, got.Layers, 2)
	for i, want := range p.Layers {
		l := got.Layers[i]
		assert.Equal(t, want.ID, l.ID)
		assert.Equal(t, want.Name, l.Name)
		assert.Equal(t, want.Visible, l.Visible)
		assert.Equal(t, want.Opacity, l.Opacity)
		require.NotNil(t, l.Pixels)
		assert.Equal(t, want.Pixels.Pix, l.Pixels.Pix, "layer %d pixels", i)
	}
}

func TestProjectKeepsSoftAlpha(t *testing.T) {
	soft := image.NewRGBA(image.Rect(0, 0, 4, 1))
	soft.SetRGBA(0, 0, color.RGBA{R: 1, A: 2})
	soft.SetRGBA(1, 0, color.RGBA{R: 3, G: 1, A: 7})
	soft.SetRGBA(2, 0, color.RGBA{R: 20, G: 10, B: 5, A: 40})
	soft.SetRGBA(3, 0, color.RGBA{R: 60, G: 30, B: 15, A: 77})
	p := Project{
		Width:  4,
		Height: 1,
		Layers: []state.Layer{{ID: "a", Name: "Soft", Visible: true, Opacity: 1, Pixels: soft}},
	}

	var buf bytes.Buffer
	for i := 0; i < 3; i++ {
		buf.Reset()
		require.NoError(t, SaveProject(&buf, p))
		got, err := LoadProject(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
		require.NoError(t, err)
		require.Len(t, got.Layers, 1)
		assert.Equal(t, soft.Pix, got.Layers[0].Pixels.Pix, "save %d", i+1)
		p = got
	}
}

func TestLoadProjectStraightAlphaVersion1(t *testing.T) {
	straight := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	straight.SetNRGBA(0, 0, color.NRGBA{R: 255, A: 128})

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(manifestName)
	require.NoError(t, err)
	_, err = w.Write([]byte(`{"version":1,"width":1,"height":1,"layers":[{"id":"x","name":"Old","visible":true,"opacity":1,"file":"layer_0.png"}]}`))
	require.NoError(t, err)
	w, err = zw.Create("layer_0.png")
	require.NoError(t, err)
	require.NoError(t, png.Encode(w, straight))
	require.NoError(t, zw.Close())

	p, err := LoadProject(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, p.Layers, 1)
	assert.Equal(t, color.RGBA{R: 128, A: 128}, p.Layers[0].Pixels.RGBAAt(0, 0))
}

func TestLoadProjectRejectsOtherFiles(t *testing.T) {
	data := []byte("plain text")
	_, err := LoadProject(bytes.NewReader(data), int64(len(data)))
	assert.ErrorIs(t, err, ErrNotProject)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("readme.txt")
	require.NoError(t, err)
	_, err = w.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	_, err = LoadProject(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	assert.ErrorIs(t, err, ErrNotProject)
}

func TestLoadProjectMissingLayerImage(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(manifestName)
	require.NoError(t, err)
	_, err = w.Write([]byte(`{"version":1,"width":4,"height":4,"layers":[{"id":"x","name":"Only","visible":true,"opacity":1,"file":"layer_0.png"}]}`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	p, err := LoadProject(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, p.Layers, 1)
	assert.Nil(t, p.Layers[0].Pixels)
	assert.Equal(t, "Only", p.Layers[0].Name)
}
