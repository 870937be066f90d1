package value

import (
	"fmt"
	"math"
	"math/big"
)

// maxFracDenominator bounds the denominators produced by MixedFracInch.
const maxFracDenominator = 1000000

// MixedFracInch renders an inch value as a mixed fraction, e.g. 1.75 as
// `1 3/4"`. The fractional part is the best rational approximation with a
// bounded denominator; the sign is preserved and a zero fractional part
// omits the fraction.
func MixedFracInch(inches float64) string {
	sign := ""
	if math.Signbit(inches) {
		sign = "-"
	}

	num, den := limitDenominator(math.Abs(inches), maxFracDenominator)
	intPart := num / den
	fracNum := num % den

	switch {
	case intPart == 0 && fracNum == 0:
		return sign + `0"`
	case intPart == 0:
		return fmt.Sprintf(`%s%d/%d"`, sign, fracNum, den)
	case fracNum == 0:
		return fmt.Sprintf(`%s%d"`, sign, intPart)
	default:
		return fmt.Sprintf(`%s%d %d/%d"`, sign, intPart, fracNum, den)
	}
}

// limitDenominator returns the closest fraction to v with a denominator of at
// most maxDen, walking the continued-fraction convergents of v's exact binary
// expansion.
func limitDenominator(v float64, maxDen int64) (num, den int64) {
	rat := new(big.Rat).SetFloat64(v)
	if rat == nil {
		return 0, 1
	}
	n := new(big.Int).Set(rat.Num())
	d := new(big.Int).Set(rat.Denom())
	limit := big.NewInt(maxDen)

	if d.Cmp(limit) <= 0 {
		return n.Int64(), d.Int64()
	}

	p0, q0 := big.NewInt(0), big.NewInt(1)
	p1, q1 := big.NewInt(1), big.NewInt(0)
	for {
		a := new(big.Int)
		rem := new(big.Int)
		a.QuoRem(n, d, rem)

		// q2 = q0 + a*q1; stop before exceeding the limit.
		q2 := new(big.Int).Mul(a, q1)
		q2.Add(q2, q0)
		if q2.Cmp(limit) > 0 {
			break
		}
		p2 := new(big.Int).Mul(a, p1)
		p2.Add(p2, p0)

		p0, q0, p1, q1 = p1, q1, p2, q2
		n, d = d, rem
		if d.Sign() == 0 {
			break
		}
	}

	// Either the last convergent, or the semiconvergent that squeezes the
	// largest coefficient under the limit. Pick whichever is closer to v.
	k := new(big.Int).Sub(limit, q0)
	k.Div(k, q1)
	b1n := new(big.Int).Mul(k, p1)
	b1n.Add(b1n, p0)
	b1d := new(big.Int).Mul(k, q1)
	b1d.Add(b1d, q0)

	bound1 := new(big.Rat).SetFrac(b1n, b1d)
	bound2 := new(big.Rat).SetFrac(p1, q1)
	target := new(big.Rat).SetFloat64(v)

	d1 := new(big.Rat).Sub(bound1, target)
	d1.Abs(d1)
	d2 := new(big.Rat).Sub(bound2, target)
	d2.Abs(d2)

	best := bound1
	if d2.Cmp(d1) <= 0 {
		best = bound2
	}
	return best.Num().Int64(), best.Denom().Int64()
}
