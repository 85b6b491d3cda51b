/*
Package grid implements the pixel grid of a pattern and the whole-grid
transforms available when editing one.

A Grid stores one palette index per cell in row-major order. All transforms
return a new Grid and leave the receiver untouched.
*/
package grid

import (
	"errors"
	"fmt"
)

// ErrInvalidSize is returned for grids with a negative size or a pixel
// buffer that does not match their dimensions.
var ErrInvalidSize = errors.New("grid: invalid size")

// Grid is a row-major grid of palette indices.
type Grid struct {
	Width  int
	Height int
	Pix    []uint8
}

// New returns a Grid of the given size with every cell set to zero.
func New(width, height int) (*Grid, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	return &Grid{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height),
	}, nil
}

// Validate checks the pixel buffer matches the dimensions.
func (g *Grid) Validate() error {
	if g.Width < 0 || g.Height < 0 || len(g.Pix) != g.Width*g.Height {
		return fmt.Errorf("%w: %dx%d with %d cells", ErrInvalidSize, g.Width, g.Height, len(g.Pix))
	}
	return nil
}

// At returns the value of the cell at (x, y).
func (g *Grid) At(x, y int) uint8 {
	return g.Pix[y*g.Width+x]
}

// Set sets the value of the cell at (x, y).
func (g *Grid) Set(x, y int, v uint8) {
	g.Pix[y*g.Width+x] = v
}

// Fill sets every cell to v.
func (g *Grid) Fill(v uint8) {
	for i := range g.Pix {
		g.Pix[i] = v
	}
}

// Used reports which values in [0, n) appear in the grid.
func (g *Grid) Used(n int) []bool {
	used := make([]bool, n)
	for _, v := range g.Pix {
		if int(v) < n {
			used[v] = true
		}
	}
	return used
}

// Clone returns a deep copy of g.
func (g *Grid) Clone() *Grid {
	return &Grid{
		Width:  g.Width,
		Height: g.Height,
		Pix:    append([]uint8(nil), g.Pix...),
	}
}

func (g *Grid) blank(width, height int) *Grid {
	return &Grid{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height),
	}
}

// MirrorX flips the grid left to right.
func (g *Grid) MirrorX() *Grid {
	n := g.blank(g.Width, g.Height)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			n.Set(x, y, g.At(g.Width-x-1, y))
		}
	}
	return n
}

// MirrorY flips the grid top to bottom.
func (g *Grid) MirrorY() *Grid {
	n := g.blank(g.Width, g.Height)
	for y := 0; y < g.Height; y++ {
		copy(n.Pix[y*g.Width:(y+1)*g.Width], g.Pix[(g.Height-y-1)*g.Width:])
	}
	return n
}

// Transpose swaps rows and columns.
func (g *Grid) Transpose() *Grid {
	n := g.blank(g.Height, g.Width)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			n.Set(y, x, g.At(x, y))
		}
	}
	return n
}

// RotateCW rotates the grid a quarter turn clockwise.
func (g *Grid) RotateCW() *Grid {
	return g.Transpose().MirrorX()
}

// RotateCCW rotates the grid a quarter turn anticlockwise.
func (g *Grid) RotateCCW() *Grid {
	return g.Transpose().MirrorY()
}

func posmod(a, b int) int {
	return (a%b + b) % b
}

// Shift pans the grid so that the cell at (dx, dy) moves to the origin.
// Cells wrap around the edges.
func (g *Grid) Shift(dx, dy int) *Grid {
	n := g.blank(g.Width, g.Height)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			n.Set(x, y, g.At(posmod(x+dx, g.Width), posmod(y+dy, g.Height)))
		}
	}
	return n
}

// Resize returns a grid of the given size with the content of g offset by
// (dx, dy). Cells not covered by g are set to fill.
func (g *Grid) Resize(width, height, dx, dy int, fill uint8) (*Grid, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	n := g.blank(width, height)
	for y := 0; y < height; y++ {
		oy := y - dy
		for x := 0; x < width; x++ {
			ox := x - dx
			if oy >= 0 && oy < g.Height && ox >= 0 && ox < g.Width {
				n.Set(x, y, g.At(ox, oy))
			} else {
				n.Set(x, y, fill)
			}
		}
	}
	return n, nil
}
