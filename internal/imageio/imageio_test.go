package imageio

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xff
	}
	img.SetRGBA(1, 1, color.RGBA{R: 0xe0, G: 0x11, B: 0x5f, A: 0xff})
	return img
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "", want: PNG},
		{in: "PNG", want: PNG},
		{in: ".bmp", want: BMP},
		{in: "tif", want: TIFF},
		{in: "tiff", want: TIFF},
		{in: "gif", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			f, err := ParseFormat(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, f)
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	f, err := FormatFromPath("walls/output.BMP")
	require.NoError(t, err)
	require.Equal(t, BMP, f)
	f, err = FormatFromPath("output")
	require.NoError(t, err)
	require.Equal(t, PNG, f)
	require.Equal(t, ".tiff", TIFF.Ext())
	require.Equal(t, "image/tiff", TIFF.ContentType())
}

func TestEncodeDecode(t *testing.T) {
	src := testImage()
	decoders := map[Format]func(*bytes.Buffer) (image.Image, error){
		PNG:  func(b *bytes.Buffer) (image.Image, error) { return png.Decode(b) },
		BMP:  func(b *bytes.Buffer) (image.Image, error) { return bmp.Decode(b) },
		TIFF: func(b *bytes.Buffer) (image.Image, error) { return tiff.Decode(b) },
	}
	for _, f := range Formats {
		t.Run(string(f), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, src, f))
			img, err := decoders[f](&buf)
			require.NoError(t, err)
			require.Equal(t, src.Bounds(), img.Bounds())
			r, g, b, _ := img.At(1, 1).RGBA()
			require.Equal(t, uint32(0xe0e0), r)
			require.Equal(t, uint32(0x1111), g)
			require.Equal(t, uint32(0x5f5f), b)
		})
	}
	require.ErrorIs(t, Encode(&bytes.Buffer{}, src, "gif"), ErrUnknownFormat)
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "wall.png")
	require.NoError(t, Save(path, testImage(), PNG))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	img, err := png.Decode(f)
	require.NoError(t, err)
	require.Equal(t, 3, img.Bounds().Dx())

	entries, err := os.ReadDir(filepath.Join(dir, "nested"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestNameTemplate(t *testing.T) {
	tmpl, err := NewNameTemplate("example_{index}{ext}")
	require.NoError(t, err)
	require.Equal(t, "example_3.png", tmpl.Execute(map[string]string{"index": "3", "ext": ".png"}))
	require.Equal(t, "example_.png", tmpl.Execute(map[string]string{"ext": ".png"}))

	_, err = NewNameTemplate("broken_{index")
	require.Error(t, err)
}
