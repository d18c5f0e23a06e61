package canvas

import (
	"image"
	"image/color"

	"github.com/nickymarino/virgo/internal/palette"
)

// Materialize resolves every key of m through p row by row and returns the
// resulting image. Nothing is returned if any key is missing in p.
func Materialize(m *Map, p *palette.Palette) (*image.RGBA, error) {
	colors := make([]color.RGBA, p.Len())
	for i := range colors {
		c, err := p.ColorForKey(palette.Key(i))
		if err != nil {
			return nil, err
		}
		colors[i] = c
	}

	img := image.NewRGBA(image.Rect(0, 0, m.width, m.height))
	for row := 0; row < m.height; row++ {
		line := m.cells[row*m.width : (row+1)*m.width]
		pix := img.Pix[row*img.Stride : row*img.Stride+m.width*4]
		for col, key := range line {
			if int(key) >= len(colors) {
				_, err := p.ColorForKey(key)
				return nil, err
			}
			c := colors[key]
			i := col * 4
			pix[i+0] = c.R
			pix[i+1] = c.G
			pix[i+2] = c.B
			pix[i+3] = c.A
		}
	}
	return img, nil
}
