package knit

import (
	"fmt"

	"github.com/davidje13/knit/grid"
	knitimage "github.com/davidje13/knit/image"
)

// Transform is a sequence of whole-grid edits. They are applied in the order
// resize, shift, transpose, rotate, mirror.
type Transform struct {
	MirrorX   bool
	MirrorY   bool
	Transpose bool
	// Rotate is the number of clockwise quarter turns, negative for
	// anticlockwise
	Rotate int
	ShiftX int
	ShiftY int
	// Width and Height resize the grid when non-zero, keeping the top left
	// corner in place
	Width  int
	Height int
	// Fill is the palette index of cells added by resizing
	Fill int
}

func (t Transform) grid(g *grid.Grid) (*grid.Grid, error) {
	if t.Width != 0 || t.Height != 0 {
		width, height := t.Width, t.Height
		if width == 0 {
			width = g.Width
		}
		if height == 0 {
			height = g.Height
		}
		var err error
		if g, err = g.Resize(width, height, 0, 0, uint8(t.Fill)); err != nil {
			return nil, err
		}
	}
	if t.ShiftX != 0 || t.ShiftY != 0 {
		g = g.Shift(t.ShiftX, t.ShiftY)
	}
	if t.Transpose {
		g = g.Transpose()
	}
	for i := 0; i < (t.Rotate%4+4)%4; i++ {
		g = g.RotateCW()
	}
	if t.MirrorX {
		g = g.MirrorX()
	}
	if t.MirrorY {
		g = g.MirrorY()
	}
	return g, nil
}

// Apply decodes pattern text, transforms it and returns the new text.
func (t Transform) Apply(s string) (string, error) {
	g, p, err := knitimage.Decompress(s)
	if err != nil {
		return "", err
	}
	if (t.Width != 0 || t.Height != 0) && (t.Fill < 0 || t.Fill >= len(p)) {
		return "", fmt.Errorf("%w: fill %d", knitimage.ErrBadPalette, t.Fill)
	}
	if g, err = t.grid(g); err != nil {
		return "", err
	}
	return knitimage.Compress(g, p)
}
