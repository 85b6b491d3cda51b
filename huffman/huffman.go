/*
Package huffman implements canonical minimum-redundancy prefix codes.

A Code can be built either from explicit code lengths or from symbol weights.
Weights are exact rationals so that equal or near-equal weights are never
mis-ordered by rounding, which keeps the resulting code reproducible from the
weights alone. Because codes are canonical, an encoder and a decoder that
agree on the lengths agree on every bit pattern.
*/
package huffman

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/davidje13/knit/bitstream"
)

var (
	// ErrUnknownSymbol is returned when writing a symbol with no code.
	ErrUnknownSymbol = errors.New("huffman: unknown symbol")
	// ErrEmpty is returned when reading from a code with no symbols.
	ErrEmpty = errors.New("huffman: empty code")
	// ErrOversubscribed is returned for lengths that cannot form a prefix code.
	ErrOversubscribed = errors.New("huffman: code space oversubscribed")
	// ErrDuplicate is returned when a symbol appears more than once.
	ErrDuplicate = errors.New("huffman: duplicate symbol")
	// ErrNegativeWeight is returned for weights below zero.
	ErrNegativeWeight = errors.New("huffman: negative weight")
	// ErrInvalidLength is returned for code lengths below zero.
	ErrInvalidLength = errors.New("huffman: invalid code length")
	// ErrNoMatch is returned when the input does not match any code.
	ErrNoMatch = errors.New("huffman: no matching code")
)

// Length pairs a symbol with its code length. A length of zero marks the
// symbol as unused.
type Length struct {
	Symbol int
	Length int
}

// Weight pairs a symbol with its relative frequency. A nil or zero weight
// marks the symbol as unused.
type Weight struct {
	Symbol int
	Weight *Rat
}

// Entry is a row of a canonical code table.
type Entry struct {
	Symbol  int
	Length  int
	Pattern []bool
}

// Bits returns the pattern of e as a string of '0' and '1' characters.
func (e Entry) Bits() string {
	b := make([]byte, len(e.Pattern))
	for i, bit := range e.Pattern {
		b[i] = '0'
		if bit {
			b[i] = '1'
		}
	}
	return string(b)
}

func (e *Entry) bit(i int) bool {
	return i < len(e.Pattern) && e.Pattern[i]
}

// Options controls how codes are built from weights.
type Options struct {
	// ReduceThreshold is passed to Rat.Add when summing weights. Zero selects
	// DefaultReduceThreshold and a negative value disables reduction.
	ReduceThreshold int64
}

func (o Options) threshold() int64 {
	if o.ReduceThreshold == 0 {
		return DefaultReduceThreshold
	}
	return o.ReduceThreshold
}

// Code is a canonical prefix code. It is immutable once built and safe for
// concurrent use.
type Code struct {
	sorted  []Entry
	symbols map[int]int
}

// New builds a canonical code from explicit lengths. Symbols sharing a length
// keep their relative input order. If only one symbol has a non-zero length it
// is given a zero length code, so writing it emits nothing.
func New(lengths []Length) (*Code, error) {
	seen := make(map[int]struct{}, len(lengths))
	var entries []Entry
	for _, l := range lengths {
		if l.Length < 0 {
			return nil, fmt.Errorf("%w: %d for symbol %d", ErrInvalidLength, l.Length, l.Symbol)
		}
		if _, ok := seen[l.Symbol]; ok {
			return nil, fmt.Errorf("%w: %d", ErrDuplicate, l.Symbol)
		}
		seen[l.Symbol] = struct{}{}
		if l.Length > 0 {
			entries = append(entries, Entry{Symbol: l.Symbol, Length: l.Length})
		}
	}
	if len(entries) == 1 {
		entries[0].Length = 0
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Length < entries[j].Length
	})

	c := &Code{
		sorted:  entries,
		symbols: make(map[int]int, len(entries)),
	}

	var v []bool
	for i := range entries {
		if i > 0 {
			// Increment
			j := len(v) - 1
			for j >= 0 && v[j] {
				v[j] = false
				j--
			}
			if j < 0 {
				return nil, ErrOversubscribed
			}
			v[j] = true
		}
		for len(v) < entries[i].Length {
			v = append(v, false)
		}
		entries[i].Pattern = append([]bool(nil), v...)
		c.symbols[entries[i].Symbol] = i
	}

	return c, nil
}

// Lengths computes minimum-redundancy code lengths for weights. The result
// has one entry per input weight, in input order; unused symbols get a length
// of zero.
func Lengths(weights []Weight, opts Options) ([]Length, error) {
	type node struct {
		weight *Rat
		parent int
	}

	// One node per input weight, followed by the merged parents
	nodes := make([]node, len(weights), 2*len(weights))
	queue := make([]int, 0, len(weights))
	for i, w := range weights {
		weight := w.Weight
		if weight == nil {
			weight = Int(0)
		}
		if weight.Sign() < 0 {
			return nil, fmt.Errorf("%w: %s for symbol %d", ErrNegativeWeight, weight, w.Symbol)
		}
		nodes[i] = node{weight: weight, parent: -1}
		if weight.Sign() > 0 {
			queue = append(queue, i)
		}
	}

	// Heaviest first, so the lightest two are always at the end
	sort.SliceStable(queue, func(i, j int) bool {
		return nodes[queue[i]].weight.Cmp(nodes[queue[j]].weight) > 0
	})

	if len(queue) == 1 {
		// A lone symbol still needs a non-zero length to be recorded
		nodes = append(nodes, node{weight: Int(0), parent: -1})
		nodes[queue[0]].parent = len(nodes) - 1
		queue = queue[:0]
	}

	threshold := opts.threshold()
	for len(queue) > 1 {
		c2 := queue[len(queue)-1]
		c1 := queue[len(queue)-2]
		queue = queue[:len(queue)-2]

		w := nodes[c1].weight.Add(nodes[c2].weight, threshold)
		p := len(nodes)
		nodes = append(nodes, node{weight: w, parent: -1})
		nodes[c1].parent = p
		nodes[c2].parent = p

		i := sort.Search(len(queue), func(j int) bool {
			return nodes[queue[j]].weight.Cmp(w) <= 0
		})
		queue = append(queue, 0)
		copy(queue[i+1:], queue[i:])
		queue[i] = p
	}

	lengths := make([]Length, len(weights))
	for i, w := range weights {
		n := 0
		for p := nodes[i].parent; p >= 0; p = nodes[p].parent {
			n++
		}
		lengths[i] = Length{Symbol: w.Symbol, Length: n}
	}
	return lengths, nil
}

// FromWeights builds a minimum-redundancy canonical code for weights.
func FromWeights(weights []Weight, opts Options) (*Code, error) {
	lengths, err := Lengths(weights, opts)
	if err != nil {
		return nil, err
	}
	return New(lengths)
}

// Uniform builds the code for symbols 0 to limit inclusive, all equally
// likely.
func Uniform(limit int, opts Options) (*Code, error) {
	if limit < 0 {
		return nil, fmt.Errorf("huffman: invalid uniform limit %d", limit)
	}
	weights := make([]Weight, limit+1)
	one := Int(1)
	for i := range weights {
		weights[i] = Weight{Symbol: i, Weight: one}
	}
	return FromWeights(weights, opts)
}

// Len returns the number of symbols with a code.
func (c *Code) Len() int {
	return len(c.sorted)
}

// Entries returns a copy of the code table in canonical order.
func (c *Code) Entries() []Entry {
	entries := make([]Entry, len(c.sorted))
	for i, e := range c.sorted {
		entries[i] = Entry{
			Symbol:  e.Symbol,
			Length:  e.Length,
			Pattern: append([]bool(nil), e.Pattern...),
		}
	}
	return entries
}

// Lookup returns the table entry for symbol.
func (c *Code) Lookup(symbol int) (Entry, bool) {
	i, ok := c.symbols[symbol]
	if !ok {
		return Entry{}, false
	}
	return c.sorted[i], true
}

// Write writes the code for symbol to w.
func (c *Code) Write(w *bitstream.Writer, symbol int) error {
	i, ok := c.symbols[symbol]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownSymbol, symbol)
	}
	w.WriteBits(c.sorted[i].Pattern)
	return nil
}

// Read reads one code from r and returns its symbol.
func (c *Code) Read(r *bitstream.Reader) (int, error) {
	from, to := 0, len(c.sorted)
	if to == 0 {
		return 0, ErrEmpty
	}
	for i := 0; to > from+1; i++ {
		// Candidates share the first i bits and are ordered by pattern, so
		// those with a one in position i form a suffix of the range
		p := from + sort.Search(to-from, func(j int) bool {
			return c.sorted[from+j].bit(i)
		})
		b, err := r.ReadBit()
		if err != nil {
			return 0, err
		}
		if b {
			from = p
		} else {
			to = p
		}
	}
	if from >= to {
		return 0, ErrNoMatch
	}
	return c.sorted[from].Symbol, nil
}

func (c *Code) String() string {
	var b strings.Builder
	for i, e := range c.sorted {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%5d => ", e.Symbol)
		if len(e.Pattern) == 0 {
			b.WriteByte('-')
		}
		b.WriteString(e.Bits())
	}
	return b.String()
}
