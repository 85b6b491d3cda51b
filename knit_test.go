package knit

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/davidje13/knit/grid"
	knitimage "github.com/davidje13/knit/image"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newKnit(t *testing.T) *Knit {
	t.Helper()
	k, err := New(filepath.Join(t.TempDir(), "knit.db"), log.New(ioutil.Discard, "", 0))
	require.NoError(t, err)
	t.Cleanup(func() { k.Close() })
	return k
}

func testPattern(t *testing.T, width, height int) string {
	t.Helper()
	g, err := grid.New(width, height)
	require.NoError(t, err)
	for i := range g.Pix {
		g.Pix[i] = uint8(i % 3)
	}
	s, err := knitimage.Compress(g, knitimage.Palette{0xffffff, 0x000000, 0xaa3311})
	require.NoError(t, err)
	return s
}

func writePNG(t *testing.T, file string, width, height int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(file), 0755))
	m := image.NewPaletted(image.Rect(0, 0, width, height), color.Palette{
		color.RGBA{0xff, 0xff, 0xff, 0xff},
		color.RGBA{0x11, 0x88, 0xbb, 0xff},
	})
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			m.SetColorIndex(x, y, uint8((x^y)&1))
		}
	}
	f, err := os.Create(file)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, m))
}

func TestPatternDB(t *testing.T) {
	db := newKnit(t).DB()

	s := testPattern(t, 10, 4)
	id, err := db.Add("stripes", s)
	require.NoError(t, err)

	p, err := db.Get("stripes")
	require.NoError(t, err)
	assert.Equal(t, id, p.ID)
	assert.Equal(t, s, p.Data)
	assert.Equal(t, 10, p.Width)
	assert.Equal(t, 4, p.Height)
	assert.Equal(t, 3, p.Colors)

	// Replacing drops the old text once nothing refers to it
	s2 := testPattern(t, 5, 5)
	id2, err := db.Add("stripes", s2)
	require.NoError(t, err)
	names, err := db.FindBySHA1(checksum(s))
	require.NoError(t, err)
	assert.Empty(t, names)

	// Identical text is stored once
	id3, err := db.Add("copy", s2)
	require.NoError(t, err)
	assert.Equal(t, id2, id3)
	names, err = db.FindBySHA1(checksum(s2))
	require.NoError(t, err)
	assert.Equal(t, []string{"copy", "stripes"}, names)

	list, err := db.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "copy", list[0].Name)
	assert.Equal(t, "stripes", list[1].Name)

	require.NoError(t, db.Delete("copy"))
	assert.True(t, errors.Is(db.Delete("copy"), ErrNotFound))
	_, err = db.Get("copy")
	assert.True(t, errors.Is(err, ErrNotFound))
	p, err = db.Get("stripes")
	require.NoError(t, err)
	assert.Equal(t, s2, p.Data)

	_, err = db.Add("bad", "Xnope")
	assert.True(t, errors.Is(err, knitimage.ErrFormat))
}

func TestImportImage(t *testing.T) {
	k := newKnit(t)
	file := filepath.Join(t.TempDir(), "check.png")
	writePNG(t, file, 6, 4)

	_, err := k.DB().ImportImage("check", file)
	require.NoError(t, err)

	p, err := k.DB().Get("check")
	require.NoError(t, err)
	g, palette, err := knitimage.Decompress(p.Data)
	require.NoError(t, err)
	assert.Equal(t, 6, g.Width)
	assert.Equal(t, 4, g.Height)
	assert.Equal(t, knitimage.Palette{0xffffff, 0x1188bb}, palette)
	assert.Equal(t, uint8(1), g.At(1, 0))

	b := new(bytes.Buffer)
	require.NoError(t, k.Export("check", b, 3))
	m, err := png.Decode(b)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 18, 12), m.Bounds())

	// The same file under another path and name shares the stored pattern
	data, err := ioutil.ReadFile(file)
	require.NoError(t, err)
	dup := filepath.Join(t.TempDir(), "dup.png")
	require.NoError(t, ioutil.WriteFile(dup, data, 0644))
	id, err := k.DB().ImportImage("dup", dup)
	require.NoError(t, err)
	assert.Equal(t, p.ID, id)
	names, err := k.DB().FindBySHA1(p.SHA1)
	require.NoError(t, err)
	assert.Equal(t, []string{"check", "dup"}, names)

	list, err := k.DB().List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, list[0].ID, list[1].ID)

	bad := filepath.Join(t.TempDir(), "bad.png")
	require.NoError(t, ioutil.WriteFile(bad, []byte("not an image"), 0644))
	_, err = k.DB().ImportImage("bad", bad)
	assert.True(t, errors.Is(err, ErrUnreadable))
}

func TestScan(t *testing.T) {
	k := newKnit(t)
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), 3, 3)
	writePNG(t, filepath.Join(dir, "sub", "b.PNG"), 4, 2)
	writePNG(t, filepath.Join(dir, ".hidden", "c.png"), 2, 2)
	writePNG(t, filepath.Join(dir, ".d.png"), 2, 2)
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello"), 0644))
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "broken.png"), []byte("hello"), 0644))

	require.NoError(t, k.Scan(dir))

	list, err := k.DB().List()
	require.NoError(t, err)
	var names []string
	for _, p := range list {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"a", "sub/b"}, names)
}

func TestScanAborts(t *testing.T) {
	k := newKnit(t)
	dir := t.TempDir()
	for _, name := range []string{"a", "b", "c", "d", "e", "f"} {
		writePNG(t, filepath.Join(dir, name+".png"), 3, 3)
	}
	writePNG(t, filepath.Join(dir, "wide.png"), 1001, 1)

	err := k.Scan(dir)
	assert.True(t, errors.Is(err, knitimage.ErrBounds))

	// Every worker has stopped so the library is safe to use and close
	_, err = k.DB().List()
	require.NoError(t, err)
	require.NoError(t, k.Close())
}

func TestScale(t *testing.T) {
	m := image.NewPaletted(image.Rect(1, 1, 3, 2), color.Palette{color.Black, color.White})
	m.SetColorIndex(2, 1, 1)
	s := Scale(m, 2)
	assert.Equal(t, image.Rect(0, 0, 4, 2), s.Bounds())
	assert.Equal(t, []uint8{0, 0, 1, 1, 0, 0, 1, 1}, s.Pix)
	assert.Same(t, m, Scale(m, 1))
}
