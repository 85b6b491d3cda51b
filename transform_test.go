package knit

import (
	"bytes"
	"errors"
	"testing"

	"github.com/davidje13/knit/grid"
	knitimage "github.com/davidje13/knit/image"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compress(t *testing.T, g *grid.Grid, p knitimage.Palette) string {
	t.Helper()
	s, err := knitimage.Compress(g, p)
	require.NoError(t, err)
	return s
}

func TestTransform(t *testing.T) {
	p := knitimage.Palette{0xffffff, 0x000000, 0x339966}
	s := compress(t, &grid.Grid{Width: 3, Height: 2, Pix: []uint8{0, 1, 2, 1, 2, 0}}, p)

	tests := []struct {
		name string
		t    Transform
		want *grid.Grid
	}{
		{"identity", Transform{}, &grid.Grid{Width: 3, Height: 2, Pix: []uint8{0, 1, 2, 1, 2, 0}}},
		{"mirror x", Transform{MirrorX: true}, &grid.Grid{Width: 3, Height: 2, Pix: []uint8{2, 1, 0, 0, 2, 1}}},
		{"rotate", Transform{Rotate: 1}, &grid.Grid{Width: 2, Height: 3, Pix: []uint8{1, 0, 2, 1, 0, 2}}},
		{"rotate back", Transform{Rotate: -3}, &grid.Grid{Width: 2, Height: 3, Pix: []uint8{1, 0, 2, 1, 0, 2}}},
		{"shift", Transform{ShiftX: 1}, &grid.Grid{Width: 3, Height: 2, Pix: []uint8{1, 2, 0, 2, 0, 1}}},
		{"resize", Transform{Width: 4, Fill: 2}, &grid.Grid{Width: 4, Height: 2, Pix: []uint8{0, 1, 2, 2, 1, 2, 0, 2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := tt.t.Apply(s)
			require.NoError(t, err)
			g, dp, err := knitimage.Decompress(out)
			require.NoError(t, err)
			assert.Equal(t, tt.want, g)
			assert.Equal(t, p, dp)
		})
	}

	_, err := Transform{Height: 3, Fill: 3}.Apply(s)
	assert.True(t, errors.Is(err, knitimage.ErrBadPalette))

	_, err = Transform{Width: 1001}.Apply(s)
	assert.True(t, errors.Is(err, knitimage.ErrBounds))
}

func TestInspect(t *testing.T) {
	p := knitimage.Palette{0xffffff, 0x000000, 0x339966}
	s := compress(t, &grid.Grid{Width: 4, Height: 1, Pix: []uint8{0, 2, 2, 2}}, p)

	info, err := Inspect(s)
	require.NoError(t, err)
	assert.Equal(t, 4, info.Width)
	assert.Equal(t, 1, info.Height)
	assert.Equal(t, len(s), info.Length)
	assert.Equal(t, 2, info.UsedCount)
	assert.Equal(t, 4, info.CellBits)
	assert.Equal(t, []ColorInfo{
		{Index: 0, Color: "#ffffff", Cells: 1, Code: "0"},
		{Index: 1, Color: "#000000"},
		{Index: 2, Color: "#339966", Cells: 3, Code: "1"},
	}, info.Colors)

	b := new(bytes.Buffer)
	require.NoError(t, info.Print(b))
	assert.Contains(t, b.String(), "#339966")

	_, err = Inspect("nope")
	assert.True(t, errors.Is(err, knitimage.ErrFormat))
}
