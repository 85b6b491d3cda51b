package bitstream

import "fmt"

// A Writer accumulates bits and renders them as text.
// The zero value is ready to use.
type Writer struct {
	out []byte
	cur byte
	// Mask of the next bit to set in cur; zero until the first write
	bit byte
}

func (w *Writer) mask() byte {
	if w.bit == 0 {
		w.bit = firstBit
	}
	return w.bit
}

// WriteBit appends a single bit.
func (w *Writer) WriteBit(b bool) {
	m := w.mask()
	if b {
		w.cur |= m
	}
	w.bit = m >> 1
	if w.bit == 0 {
		w.out = append(w.out, Encode(w.cur))
		w.cur = 0
		w.bit = firstBit
	}
}

// WriteBits appends each bit of bits in order.
func (w *Writer) WriteBits(bits []bool) {
	for _, b := range bits {
		w.WriteBit(b)
	}
}

// WriteBinary appends v as an unsigned integer of the given width, most
// significant bit first. It fails if v cannot be represented in that width.
func (w *Writer) WriteBinary(v, bits int) error {
	if bits < 0 || bits > 62 || v < 0 || v >= 1<<uint(bits) {
		return fmt.Errorf("%w: %d does not fit in %d bits", ErrRange, v, bits)
	}
	for i := bits - 1; i >= 0; i-- {
		w.WriteBit(v>>uint(i)&1 != 0)
	}
	return nil
}

func (w *Writer) pending() bool {
	return w.bit != 0 && w.bit != firstBit
}

// Pad flushes any partial group, filling the remaining low bits with zeros.
func (w *Writer) Pad() {
	if w.pending() {
		w.out = append(w.out, Encode(w.cur))
		w.cur = 0
		w.bit = firstBit
	}
}

// Len returns the number of characters written so far, counting a partial
// group as one.
func (w *Writer) Len() int {
	if w.pending() {
		return len(w.out) + 1
	}
	return len(w.out)
}

// String pads the stream and returns it as text.
func (w *Writer) String() string {
	w.Pad()
	return string(w.out)
}
