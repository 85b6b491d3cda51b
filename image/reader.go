package image

import (
	"fmt"
	"image"
	"io"
	"io/ioutil"
	"strings"

	"github.com/davidje13/knit/bitstream"
	"github.com/davidje13/knit/grid"
	"github.com/davidje13/knit/huffman"
)

// Header describes a pattern without its cells.
type Header struct {
	Width   int
	Height  int
	Palette Palette
	// Used reports whether each palette entry appears in the grid
	Used []bool
}

// UsedCount returns the number of palette entries in use.
func (h *Header) UsedCount() int {
	n := 0
	for _, u := range h.Used {
		if u {
			n++
		}
	}
	return n
}

type decoder struct {
	r     *bitstream.Reader
	cache *huffman.Cache

	header Header
	// Palette indices in rank order
	ranks []uint8

	grid *grid.Grid
}

func (d *decoder) readHeader() error {
	var sizes [3]int
	for i := range sizes {
		v, err := sizeFormat.Read(d.r)
		if err != nil {
			return err
		}
		sizes[i] = v
	}
	width, height, colors := sizes[0], sizes[1], sizes[2]
	if width < 1 || width > maxSize || height < 1 || height > maxSize || colors > maxPalette {
		return fmt.Errorf("%w: %dx%d with %d colors", ErrBounds, width, height, colors)
	}
	d.header.Width = width
	d.header.Height = height
	d.header.Palette = make(Palette, colors)
	d.header.Used = make([]bool, colors)
	return nil
}

func (d *decoder) readPalette() error {
	for i := range d.header.Palette {
		c, err := d.r.ReadBinary(colorBits)
		if err != nil {
			return err
		}
		used, err := d.r.ReadBit()
		if err != nil {
			return err
		}
		d.header.Palette[i] = uint32(c)
		d.header.Used[i] = used
		if used {
			d.ranks = append(d.ranks, uint8(i))
		}
	}
	if len(d.ranks) == 0 {
		return fmt.Errorf("%w: no colors in use", ErrBadPalette)
	}
	return nil
}

func (d *decoder) readPixels() error {
	code, err := d.cache.Uniform(len(d.ranks) - 1)
	if err != nil {
		return err
	}

	d.grid, err = grid.New(d.header.Width, d.header.Height)
	if err != nil {
		return err
	}
	for i := range d.grid.Pix {
		rank, err := code.Read(d.r)
		if err != nil {
			return err
		}
		d.grid.Pix[i] = d.ranks[rank]
	}

	d.r.Pad()
	if d.r.Remaining() > 0 {
		return ErrTooMuch
	}
	return nil
}

func (d *decoder) decode(s string, configOnly bool) error {
	if len(s) == 0 || s[0] != tag {
		return ErrFormat
	}

	var err error
	if d.r, err = bitstream.NewReader(s[1:]); err != nil {
		return err
	}

	if err := d.readHeader(); err != nil {
		return err
	}
	if err := d.readPalette(); err != nil {
		return err
	}

	if configOnly {
		return nil
	}

	return d.readPixels()
}

// Decompress parses pattern text, returning the grid and its palette.
func (c *Codec) Decompress(s string) (*grid.Grid, Palette, error) {
	d := decoder{cache: c.codes()}
	if err := d.decode(s, false); err != nil {
		return nil, nil, err
	}
	return d.grid, d.header.Palette, nil
}

// Decompress parses pattern text using the default Codec.
func Decompress(s string) (*grid.Grid, Palette, error) {
	return defaultCodec.Decompress(s)
}

// ReadHeader parses the dimensions and palette of pattern text without
// decoding its cells.
func ReadHeader(s string) (*Header, error) {
	d := decoder{cache: defaultCodec.cache}
	if err := d.decode(s, true); err != nil {
		return nil, err
	}
	return &d.header, nil
}

func readText(r io.Reader) (string, error) {
	b, err := ioutil.ReadAll(r)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

// ToImage returns g as an image using the colors of p.
func ToImage(g *grid.Grid, p Palette) *image.Paletted {
	m := image.NewPaletted(image.Rect(0, 0, g.Width, g.Height), p.Colors())
	copy(m.Pix, g.Pix)
	return m
}

// Decode reads pattern text from r and returns it as an image.Image.
func (c *Codec) Decode(r io.Reader) (image.Image, error) {
	s, err := readText(r)
	if err != nil {
		return nil, err
	}
	g, p, err := c.Decompress(s)
	if err != nil {
		return nil, err
	}
	return ToImage(g, p), nil
}

// Decode reads pattern text from r using the default Codec.
func Decode(r io.Reader) (image.Image, error) {
	return defaultCodec.Decode(r)
}

// DecodeConfig returns the color model and dimensions of a pattern without
// decoding its cells.
func DecodeConfig(r io.Reader) (image.Config, error) {
	s, err := readText(r)
	if err != nil {
		return image.Config{}, err
	}
	h, err := ReadHeader(s)
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: h.Palette.Colors(),
		Width:      h.Width,
		Height:     h.Height,
	}, nil
}

func init() {
	image.RegisterFormat("knit", string(tag), Decode, DecodeConfig)
}
