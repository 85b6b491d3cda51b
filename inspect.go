package knit

import (
	"fmt"
	"io"

	knitimage "github.com/davidje13/knit/image"
	"github.com/kr/pretty"
)

// ColorInfo describes one palette entry of a pattern.
type ColorInfo struct {
	Index int
	Color string
	Cells int
	// Code is the bit pattern written for each cell of this color, empty for
	// unused colors and for a pattern with only one color
	Code string
}

// Info summarises the contents of pattern text.
type Info struct {
	Width     int
	Height    int
	Length    int
	CellBits  int
	Colors    []ColorInfo
	UsedCount int
}

// Inspect decodes pattern text and reports how its space is used.
func Inspect(s string) (*Info, error) {
	g, p, err := knitimage.Decompress(s)
	if err != nil {
		return nil, err
	}

	info := &Info{
		Width:  g.Width,
		Height: g.Height,
		Length: len(s),
		Colors: make([]ColorInfo, len(p)),
	}
	for i, c := range p {
		info.Colors[i] = ColorInfo{Index: i, Color: fmt.Sprintf("#%06x", c)}
	}
	for _, v := range g.Pix {
		info.Colors[v].Cells++
	}

	var ranks []int
	for i, c := range info.Colors {
		if c.Cells > 0 {
			ranks = append(ranks, i)
		}
	}
	info.UsedCount = len(ranks)

	code, err := knitimage.PixelCode(len(ranks))
	if err != nil {
		return nil, err
	}
	for rank, i := range ranks {
		e, _ := code.Lookup(rank)
		info.Colors[i].Code = e.Bits()
		info.CellBits += e.Length * info.Colors[i].Cells
	}

	return info, nil
}

// Print writes a readable dump of i to w.
func (i *Info) Print(w io.Writer) error {
	_, err := pretty.Fprintf(w, "%# v\n", i)
	return err
}
