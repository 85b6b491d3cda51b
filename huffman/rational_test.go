package huffman

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatNormalize(t *testing.T) {
	r := NewRat(1, -2)
	assert.Equal(t, -1, r.Sign())
	assert.Equal(t, "-1/2", r.String())
	assert.Equal(t, 0, Int(0).Sign())
	assert.Panics(t, func() { NewRat(1, 0) })
}

func TestRatCmp(t *testing.T) {
	tests := []struct {
		a, b *Rat
		want int
	}{
		{NewRat(1, 3), NewRat(2, 6), 0},
		{NewRat(1, 3), NewRat(1, 2), -1},
		{NewRat(2, 3), NewRat(1, 2), 1},
		{NewRat(-1, 3), Int(0), -1},
		// Indistinguishable as float64
		{NewRat(1<<53+1, 1<<53), NewRat(1<<53, 1<<53), 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.a.Cmp(tt.b), "%s <=> %s", tt.a, tt.b)
	}
}

func TestRatAdd(t *testing.T) {
	sum := NewRat(1, 3).Add(NewRat(1, 6), DefaultReduceThreshold)
	assert.Equal(t, 0, sum.Cmp(NewRat(1, 2)))
	// Small denominators are left alone
	assert.Equal(t, "9/18", sum.String())

	sum = NewRat(1, 1000).Add(NewRat(1, 1000), DefaultReduceThreshold)
	assert.Equal(t, big.NewInt(500), sum.Denom())

	sum = NewRat(1, 1000).Add(NewRat(1, 1000), -1)
	assert.Equal(t, big.NewInt(1000000), sum.Denom())
	assert.InDelta(t, 0.002, sum.Float64(), 1e-12)
}

func TestRatReduce(t *testing.T) {
	r := NewRat(-6, 8)
	r.Reduce()
	assert.Equal(t, "-3/4", r.String())

	r = Int(0)
	r.Reduce()
	assert.Equal(t, 0, r.Sign())
}
