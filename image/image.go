/*
Package image implements the knit pattern encoder and decoder.

A pattern is a grid of at most 1000 by 1000 cells, each holding an index into
a palette of up to 255 24-bit RGB colors. It is serialized as URL-safe text:
the tag 'I' followed by a bit stream (see package bitstream) containing the
width, height and palette size as order 4 exponential Golomb codes, then each
palette entry as 24 bits of color and a flag that is set if any cell uses it,
and finally every cell in row-major order as a uniform prefix code over the
ranks of the used palette entries. Unused colors cost nothing per cell and a
pattern using a single color stores no per-cell data at all.
*/
package image

import (
	"errors"
	"image/color"

	"github.com/davidje13/knit/golomb"
	"github.com/davidje13/knit/huffman"
)

const (
	tag        = 'I'
	maxSize    = 1000
	maxPalette = 255
	colorBits  = 24
	sizeOrder  = 4
)

var (
	// ErrFormat is returned for text that does not start with the pattern tag.
	ErrFormat = errors.New("image: unknown image compression")
	// ErrBounds is returned when a size or palette exceeds the format limits.
	ErrBounds = errors.New("image: unsupported size")
	// ErrBadPalette is returned for cells that do not index a usable color.
	ErrBadPalette = errors.New("image: invalid palette index")
	// ErrTooMuch is returned when data follows the last cell.
	ErrTooMuch = errors.New("image: too much image data")
)

var sizeFormat = golomb.New(sizeOrder)

// Palette is an ordered list of 24-bit 0xRRGGBB colors.
type Palette []uint32

// RGB returns c as a 24-bit color, discarding alpha.
func RGB(c color.Color) uint32 {
	r, g, b, _ := c.RGBA()
	return r>>8<<16 | g>>8<<8 | b>>8
}

// FromColors converts p to a Palette.
func FromColors(p color.Palette) Palette {
	out := make(Palette, len(p))
	for i, c := range p {
		out[i] = RGB(c)
	}
	return out
}

// Colors returns p as opaque colors.
func (p Palette) Colors() color.Palette {
	out := make(color.Palette, len(p))
	for i, c := range p {
		out[i] = color.RGBA{byte(c >> 16), byte(c >> 8), byte(c), 0xff}
	}
	return out
}

// Codec compresses and decompresses patterns, reusing prefix codes between
// calls. A Codec is safe for concurrent use. The zero value shares the
// prefix codes of the package level functions.
type Codec struct {
	cache *huffman.Cache
}

// NewCodec returns a Codec building its prefix codes with opts.
func NewCodec(opts huffman.Options) *Codec {
	return &Codec{
		cache: huffman.NewCache(opts),
	}
}

var defaultCodec = NewCodec(huffman.Options{})

func (c *Codec) codes() *huffman.Cache {
	if c.cache == nil {
		return defaultCodec.cache
	}
	return c.cache
}

// PixelCode returns the prefix code written for each cell of a pattern with
// used distinct colors in use.
func (c *Codec) PixelCode(used int) (*huffman.Code, error) {
	return c.codes().Uniform(used - 1)
}

// PixelCode returns the cell prefix code from the default Codec.
func PixelCode(used int) (*huffman.Code, error) {
	return defaultCodec.PixelCode(used)
}
