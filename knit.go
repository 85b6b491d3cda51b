/*
Package knit is a library for maintaining a collection of colorwork patterns.

Patterns are stored in their compact text form (see package image) in a
SQLite database and can be imported from ordinary image files, either one at
a time or by scanning a directory tree.
*/
package knit

import (
	"bytes"
	"image"
	"image/png"
	"io"
	"log"

	knitimage "github.com/davidje13/knit/image"
)

type Knit struct {
	db     *PatternDB
	logger *log.Logger
}

// New opens the pattern database in file, creating it if necessary.
func New(file string, logger *log.Logger) (*Knit, error) {
	db, err := NewPatternDB(file)
	if err != nil {
		return nil, err
	}
	return &Knit{
		db:     db,
		logger: logger,
	}, nil
}

// DB returns the underlying pattern database.
func (k *Knit) DB() *PatternDB {
	return k.db
}

func (k *Knit) Close() error {
	return k.db.Close()
}

// Scale returns m with every pixel enlarged to an n by n block.
func Scale(m *image.Paletted, n int) *image.Paletted {
	if n <= 1 {
		return m
	}
	b := m.Bounds()
	out := image.NewPaletted(image.Rect(0, 0, b.Dx()*n, b.Dy()*n), m.Palette)
	for y := 0; y < out.Rect.Dy(); y++ {
		for x := 0; x < out.Rect.Dx(); x++ {
			out.SetColorIndex(x, y, m.ColorIndexAt(b.Min.X+x/n, b.Min.Y+y/n))
		}
	}
	return out
}

// WritePNG renders pattern text as a PNG with each cell scale pixels square.
func WritePNG(w io.Writer, text string, scale int) error {
	g, p, err := knitimage.Decompress(text)
	if err != nil {
		return err
	}
	return png.Encode(w, Scale(knitimage.ToImage(g, p), scale))
}

// Export writes the named pattern to w as a PNG.
func (k *Knit) Export(name string, w io.Writer, scale int) error {
	p, err := k.db.Get(name)
	if err != nil {
		return err
	}
	b := new(bytes.Buffer)
	if err := WritePNG(b, p.Data, scale); err != nil {
		return err
	}
	_, err = b.WriteTo(w)
	return err
}
