/*
Package bitstream implements bit-level readers and writers over a text
alphabet.

Bits are packed most significant first into 6-bit groups and each group is
stored as one character of Alphabet, so the output is safe to use unescaped in
URLs. A partial final group is padded with zero bits.
*/
package bitstream

import "errors"

// Alphabet maps each 6-bit value to a character.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

const (
	groupBits = 6
	firstBit  = 1 << (groupBits - 1)
	invalid   = 0xff
)

var (
	// ErrEOF is returned when a read runs past the end of the input.
	ErrEOF = errors.New("bitstream: out of data")
	// ErrRange is returned when a value does not fit the requested width.
	ErrRange = errors.New("bitstream: value out of range")
	// ErrInvalidSymbol is returned for input characters outside Alphabet.
	ErrInvalidSymbol = errors.New("bitstream: invalid symbol")
)

var decodeMap [256]byte

func init() {
	for i := range decodeMap {
		decodeMap[i] = invalid
	}
	for i := 0; i < len(Alphabet); i++ {
		decodeMap[Alphabet[i]] = byte(i)
	}
}

// Encode returns the character for the 6-bit value v.
func Encode(v byte) byte {
	return Alphabet[v&(1<<groupBits-1)]
}

// Decode returns the 6-bit value of character c, or false if c is not part of
// Alphabet.
func Decode(c byte) (byte, bool) {
	v := decodeMap[c]
	return v, v != invalid
}
