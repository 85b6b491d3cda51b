package bitstream

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlphabet(t *testing.T) {
	require.Len(t, Alphabet, 64)
	for i := 0; i < 64; i++ {
		c := Encode(byte(i))
		v, ok := Decode(c)
		assert.True(t, ok)
		assert.Equal(t, byte(i), v)
	}
	for _, c := range []byte{'=', '+', '/', ' ', 0, 0xff} {
		_, ok := Decode(c)
		assert.False(t, ok, "%q", c)
	}
}

func TestWriterBits(t *testing.T) {
	tests := []struct {
		bits []bool
		want string
	}{
		{nil, ""},
		{[]bool{false}, "A"},
		{[]bool{true}, "g"},
		{[]bool{true, true, true, true, true, true}, "_"},
		{[]bool{false, false, false, false, false, true, true}, "Bg"},
	}
	for _, tt := range tests {
		var w Writer
		w.WriteBits(tt.bits)
		assert.Equal(t, tt.want, w.String())
	}
}

func TestWriteBinary(t *testing.T) {
	var w Writer
	require.NoError(t, w.WriteBinary(0x0fc, 12))
	assert.Equal(t, 2, w.Len())
	assert.Equal(t, "D8", w.String())

	for _, tt := range []struct{ v, bits int }{
		{-1, 4},
		{16, 4},
		{1, 0},
		{0, 63},
	} {
		var w Writer
		err := w.WriteBinary(tt.v, tt.bits)
		assert.True(t, errors.Is(err, ErrRange), "WriteBinary(%d, %d) = %v", tt.v, tt.bits, err)
	}

	require.NoError(t, w.WriteBinary(0, 0))
}

func TestLen(t *testing.T) {
	var w Writer
	assert.Equal(t, 0, w.Len())
	w.WriteBit(true)
	assert.Equal(t, 1, w.Len())
	w.WriteBits(make([]bool, 5))
	assert.Equal(t, 1, w.Len())
	w.WriteBit(false)
	assert.Equal(t, 2, w.Len())
	w.Pad()
	assert.Equal(t, 2, w.Len())
	w.Pad()
	assert.Equal(t, 2, w.Len())
}

func TestRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for n := 0; n <= 1000; n += 7 {
		bits := make([]bool, n)
		for i := range bits {
			bits[i] = rnd.Intn(2) == 1
		}

		var w Writer
		w.WriteBits(bits)
		assert.Equal(t, (n+5)/6, w.Len())

		r, err := NewReader(w.String())
		require.NoError(t, err)
		got, err := r.ReadBits(n)
		require.NoError(t, err)
		if n == 0 {
			assert.Empty(t, got)
		} else {
			assert.Equal(t, bits, got)
		}
	}
}

func TestReadBinary(t *testing.T) {
	var w Writer
	require.NoError(t, w.WriteBinary(5, 3))
	require.NoError(t, w.WriteBinary(0xabcdef, 24))
	require.NoError(t, w.WriteBinary(1, 1))

	r, err := NewReader(w.String())
	require.NoError(t, err)
	for _, tt := range []struct{ bits, want int }{{3, 5}, {24, 0xabcdef}, {1, 1}} {
		v, err := r.ReadBinary(tt.bits)
		require.NoError(t, err)
		assert.Equal(t, tt.want, v)
	}
}

func TestReadWhile(t *testing.T) {
	var w Writer
	w.WriteBits([]bool{false, false, false, false, false, false, false, true})
	r, err := NewReader(w.String())
	require.NoError(t, err)

	n, err := r.ReadWhile(false)
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	b, err := r.ReadBit()
	require.NoError(t, err)
	assert.True(t, b)

	// Only padding remains, no terminating one bit
	_, err = r.ReadWhile(false)
	assert.True(t, errors.Is(err, ErrEOF))

	r, err = NewReader("")
	require.NoError(t, err)
	_, err = r.ReadWhile(true)
	assert.True(t, errors.Is(err, ErrEOF))
}

func TestReaderEOF(t *testing.T) {
	r, err := NewReader("g")
	require.NoError(t, err)
	assert.Equal(t, 6, r.Remaining())
	_, err = r.ReadBits(6)
	require.NoError(t, err)
	assert.Equal(t, 0, r.Remaining())
	_, err = r.ReadBit()
	assert.True(t, errors.Is(err, ErrEOF))
	_, err = r.ReadBinary(3)
	assert.True(t, errors.Is(err, ErrEOF))
}

func TestReaderPad(t *testing.T) {
	r, err := NewReader("_A")
	require.NoError(t, err)
	r.Pad()
	b, err := r.ReadBit()
	require.NoError(t, err)
	assert.True(t, b)
	r.Pad()
	b, err = r.ReadBit()
	require.NoError(t, err)
	assert.False(t, b)
	assert.Equal(t, 5, r.Remaining())
}

func TestInvalidSymbol(t *testing.T) {
	_, err := NewReader("AB=C")
	assert.True(t, errors.Is(err, ErrInvalidSymbol))
}
