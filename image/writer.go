package image

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"

	"github.com/davidje13/knit/bitstream"
	"github.com/davidje13/knit/grid"
	"github.com/davidje13/knit/huffman"
	"github.com/ericpauley/go-quantize/quantize"
)

type encoder struct {
	w     bitstream.Writer
	cache *huffman.Cache
}

func validate(g *grid.Grid, p Palette) error {
	if err := g.Validate(); err != nil {
		return err
	}
	if g.Width < 1 || g.Width > maxSize || g.Height < 1 || g.Height > maxSize {
		return fmt.Errorf("%w: %dx%d", ErrBounds, g.Width, g.Height)
	}
	if len(p) > maxPalette {
		return fmt.Errorf("%w: %d colors", ErrBounds, len(p))
	}
	for i, v := range g.Pix {
		if int(v) >= len(p) {
			return fmt.Errorf("%w: %d at (%d, %d)", ErrBadPalette, v, i%g.Width, i/g.Width)
		}
	}
	return nil
}

func (e *encoder) encode(g *grid.Grid, p Palette) error {
	if err := validate(g, p); err != nil {
		return err
	}

	for _, v := range []int{g.Width, g.Height, len(p)} {
		if err := sizeFormat.Write(&e.w, v); err != nil {
			return err
		}
	}

	// Write out palette, noting the rank of each used color
	used := g.Used(len(p))
	ranks := make([]int, len(p))
	n := 0
	for i, c := range p {
		if err := e.w.WriteBinary(int(c), colorBits); err != nil {
			return fmt.Errorf("image: color %d: %w", i, err)
		}
		e.w.WriteBit(used[i])
		if used[i] {
			ranks[i] = n
			n++
		}
	}

	code, err := e.cache.Uniform(n - 1)
	if err != nil {
		return err
	}

	// Write out pixel information
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if err := code.Write(&e.w, ranks[g.At(x, y)]); err != nil {
				return err
			}
		}
	}

	return nil
}

// Compress serializes the grid g, whose cells index p, as text.
func (c *Codec) Compress(g *grid.Grid, p Palette) (string, error) {
	e := encoder{cache: c.codes()}
	if err := e.encode(g, p); err != nil {
		return "", err
	}
	return string(tag) + e.w.String(), nil
}

// Compress serializes g and p using the default Codec.
func Compress(g *grid.Grid, p Palette) (string, error) {
	return defaultCodec.Compress(g, p)
}

func toPaletted(m image.Image) *image.Paletted {
	b := m.Bounds()

	pm, _ := m.(*image.Paletted)
	if pm == nil {
		if cp, ok := m.ColorModel().(color.Palette); ok {
			pm = image.NewPaletted(b, cp)
			for y := b.Min.Y; y < b.Max.Y; y++ {
				for x := b.Min.X; x < b.Max.X; x++ {
					pm.Set(x, y, cp.Convert(m.At(x, y)))
				}
			}
		}
	}

	if pm == nil || len(pm.Palette) > maxPalette {
		q := quantize.MedianCutQuantizer{}
		pm = image.NewPaletted(b, q.Quantize(make(color.Palette, 0, maxPalette), m))
		draw.Draw(pm, b, m, b.Min, draw.Src)
	}

	return pm
}

// FromImage converts m to a grid and palette, reducing it to at most 255
// colors if necessary.
func FromImage(m image.Image) (*grid.Grid, Palette, error) {
	pm := toPaletted(m)
	b := pm.Bounds()

	g, err := grid.New(b.Dx(), b.Dy())
	if err != nil {
		return nil, nil, err
	}
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			g.Set(x, y, pm.ColorIndexAt(b.Min.X+x, b.Min.Y+y))
		}
	}

	return g, FromColors(pm.Palette), nil
}

// Encode writes the Image m to w as pattern text.
func (c *Codec) Encode(w io.Writer, m image.Image) error {
	g, p, err := FromImage(m)
	if err != nil {
		return err
	}
	s, err := c.Compress(g, p)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, s)
	return err
}

// Encode writes the Image m to w as pattern text using the default Codec.
func Encode(w io.Writer, m image.Image) error {
	return defaultCodec.Encode(w, m)
}
