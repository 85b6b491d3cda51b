/*
Package golomb implements order-k exponential Golomb codes for non-negative
integers.

A value v is split into a quotient q = v>>k and a k bit remainder. q+1 is
written in binary preceded by one fewer zero bits than its length, which makes
the code self-delimiting, and the remainder follows as a fixed-width field.
Larger k suits larger typical values.
*/
package golomb

import (
	"fmt"
	"math/bits"

	"github.com/davidje13/knit/bitstream"
)

// maxBits bounds the width of any decoded field to what fits in an int.
const maxBits = 62

// Code is an order-K exponential Golomb code.
type Code struct {
	K int
}

// New returns the order k code.
func New(k int) Code {
	return Code{K: k}
}

// Write encodes v to w.
func (c Code) Write(w *bitstream.Writer, v int) error {
	if v < 0 {
		return fmt.Errorf("%w: %d is negative", bitstream.ErrRange, v)
	}
	a := v>>uint(c.K) + 1
	n := bits.Len(uint(a))
	if n+c.K > maxBits {
		return fmt.Errorf("%w: %d does not fit", bitstream.ErrRange, v)
	}
	for i := 0; i < n-1; i++ {
		w.WriteBit(false)
	}
	if err := w.WriteBinary(a, n); err != nil {
		return err
	}
	if c.K > 0 {
		return w.WriteBinary(v&(1<<uint(c.K)-1), c.K)
	}
	return nil
}

// Read decodes a value from r.
func (c Code) Read(r *bitstream.Reader) (int, error) {
	zeros, err := r.ReadWhile(false)
	if err != nil {
		return 0, err
	}
	n := zeros + 1
	if n+c.K > maxBits {
		return 0, fmt.Errorf("%w: %d bit prefix", bitstream.ErrRange, n)
	}
	a, err := r.ReadBinary(n)
	if err != nil {
		return 0, err
	}
	a--
	if c.K == 0 {
		return a, nil
	}
	low, err := r.ReadBinary(c.K)
	if err != nil {
		return 0, err
	}
	return a<<uint(c.K) | low, nil
}

// Len returns the number of bits used to encode v.
func (c Code) Len(v int) int {
	return 2*bits.Len(uint(v>>uint(c.K)+1)) - 1 + c.K
}
