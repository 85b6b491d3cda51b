package huffman

import (
	"fmt"
	"math/big"
)

// DefaultReduceThreshold is the denominator magnitude above which sums are
// reduced to lowest terms.
const DefaultReduceThreshold = 100000

// Rat is an exact rational number. Unlike big.Rat it is not kept in lowest
// terms after every operation; Reduce is applied lazily once the denominator
// grows past a threshold.
type Rat struct {
	num, den big.Int
}

// NewRat returns num/den. It panics if den is zero.
func NewRat(num, den int64) *Rat {
	if den == 0 {
		panic("huffman: zero denominator")
	}
	r := new(Rat)
	r.num.SetInt64(num)
	r.den.SetInt64(den)
	r.normalize()
	return r
}

// Int returns the integer n as a rational.
func Int(n int64) *Rat {
	return NewRat(n, 1)
}

func (r *Rat) normalize() {
	if r.den.Sign() < 0 {
		r.num.Neg(&r.num)
		r.den.Neg(&r.den)
	}
}

// Sign returns -1, 0 or +1 depending on the sign of r.
func (r *Rat) Sign() int {
	return r.num.Sign()
}

// Cmp compares r and s by cross multiplication and returns -1, 0 or +1.
func (r *Rat) Cmp(s *Rat) int {
	var a, b big.Int
	a.Mul(&r.num, &s.den)
	b.Mul(&s.num, &r.den)
	return a.Cmp(&b)
}

// Add returns r+s. The result is reduced if its denominator exceeds
// threshold; a threshold of zero or less disables reduction.
func (r *Rat) Add(s *Rat, threshold int64) *Rat {
	z := new(Rat)
	var t big.Int
	z.num.Mul(&r.num, &s.den)
	t.Mul(&s.num, &r.den)
	z.num.Add(&z.num, &t)
	z.den.Mul(&r.den, &s.den)
	if threshold > 0 && z.den.Cmp(big.NewInt(threshold)) > 0 {
		z.Reduce()
	}
	return z
}

// Reduce divides the numerator and denominator by their greatest common
// divisor.
func (r *Rat) Reduce() {
	var a, g big.Int
	a.Abs(&r.num)
	g.GCD(nil, nil, &a, &r.den)
	if g.Sign() == 0 || g.Cmp(big.NewInt(1)) == 0 {
		return
	}
	r.num.Quo(&r.num, &g)
	r.den.Quo(&r.den, &g)
}

// Denom returns a copy of the denominator.
func (r *Rat) Denom() *big.Int {
	return new(big.Int).Set(&r.den)
}

// Float64 returns the nearest float64 value of r.
func (r *Rat) Float64() float64 {
	f, _ := new(big.Rat).SetFrac(&r.num, &r.den).Float64()
	return f
}

func (r *Rat) String() string {
	return fmt.Sprintf("%s/%s", r.num.String(), r.den.String())
}
