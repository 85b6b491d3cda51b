package bitstream

import "fmt"

// A Reader consumes bits from text produced by a Writer.
type Reader struct {
	groups []byte
	pos    int
	bit    byte
}

// NewReader returns a Reader over s. It fails if s contains a character
// outside Alphabet.
func NewReader(s string) (*Reader, error) {
	groups := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		v, ok := Decode(s[i])
		if !ok {
			return nil, fmt.Errorf("%w: %q at offset %d", ErrInvalidSymbol, s[i], i)
		}
		groups[i] = v
	}
	return &Reader{groups: groups, bit: firstBit}, nil
}

// ReadBit returns the next bit.
func (r *Reader) ReadBit() (bool, error) {
	if r.pos >= len(r.groups) {
		return false, ErrEOF
	}
	b := r.groups[r.pos]&r.bit != 0
	r.bit >>= 1
	if r.bit == 0 {
		r.pos++
		r.bit = firstBit
	}
	return b, nil
}

// ReadWhile consumes bits equal to b and returns how many there were. The
// first differing bit is left unread. Running out of input before a
// differing bit is found is an error.
func (r *Reader) ReadWhile(b bool) (int, error) {
	n := 0
	for {
		if r.pos >= len(r.groups) {
			return n, ErrEOF
		}
		if (r.groups[r.pos]&r.bit != 0) != b {
			return n, nil
		}
		r.bit >>= 1
		if r.bit == 0 {
			r.pos++
			r.bit = firstBit
		}
		n++
	}
}

// ReadBits returns the next n bits.
func (r *Reader) ReadBits(n int) ([]bool, error) {
	bits := make([]bool, n)
	for i := range bits {
		b, err := r.ReadBit()
		if err != nil {
			return nil, err
		}
		bits[i] = b
	}
	return bits, nil
}

// ReadBinary reads an unsigned integer of the given width, most significant
// bit first.
func (r *Reader) ReadBinary(bits int) (int, error) {
	if bits < 0 || bits > 62 {
		return 0, fmt.Errorf("%w: cannot read %d bit value", ErrRange, bits)
	}
	v := 0
	for i := 0; i < bits; i++ {
		b, err := r.ReadBit()
		if err != nil {
			return 0, err
		}
		v <<= 1
		if b {
			v |= 1
		}
	}
	return v, nil
}

// Pad discards the unread bits of the current group.
func (r *Reader) Pad() {
	if r.bit != firstBit {
		r.pos++
		r.bit = firstBit
	}
}

// Remaining returns the number of unread bits.
func (r *Reader) Remaining() int {
	if r.pos >= len(r.groups) {
		return 0
	}
	n := (len(r.groups) - r.pos - 1) * groupBits
	for m := r.bit; m != 0; m >>= 1 {
		n++
	}
	return n
}
