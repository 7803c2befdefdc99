package scoreboard

import (
	"math/big"

	"github.com/hupe1980/fpgold/format"
	"github.com/hupe1980/fpgold/rounding"
)

// Exact computes the infinitely precise sum with math/big and rounds it
// once to M+1 significant bits. Out-of-range results follow the hardware
// packer: an infinity on overflow and a signed zero below the normal range.
// The golden adder must agree with it at adder.ExactPrecision.
type Exact struct{}

func (Exact) Name() string { return "exact" }

func (Exact) Add(a, b uint64, f format.Format, rm rounding.Mode) uint64 {
	a &= f.Mask()
	b &= f.Mask()
	x, y := f.Unpack(a), f.Unpack(b)
	cx, cy := f.ClassOf(x), f.ClassOf(y)

	switch {
	case cx.IsNaN() || cy.IsNaN(), cx.IsInf() && cy.IsInf() && x.Sign != y.Sign:
		return f.QuietNaN()
	case cx.IsInf():
		return a
	case cy.IsInf():
		return b
	case cx.IsZero() && cy.IsZero():
		if x.Sign != y.Sign {
			return f.Zero(rm == rounding.RNI)
		}
		return a
	case cx.IsZero():
		return b
	case cy.IsZero():
		return a
	}

	// Both operands as integers in units of the smallest subnormal.
	sum := scaled(f, x)
	sum.Add(sum, scaled(f, y))
	if sum.Sign() == 0 {
		return f.Zero(rm == rounding.RNI)
	}

	neg := sum.Sign() < 0
	mag := sum.Abs(sum)
	m := f.MantBits()
	l := uint(mag.BitLen())
	exp := int(l) - int(m)

	var kept uint64
	if l > m+1 {
		drop := l - m - 1
		g := rounding.GRS{
			LSB:   mag.Bit(int(drop)) != 0,
			Guard: mag.Bit(int(drop)-1) != 0,
		}
		if drop >= 2 {
			g.Round = mag.Bit(int(drop)-2) != 0
			low := new(big.Int).Lsh(big.NewInt(1), drop-2)
			low.Sub(low, big.NewInt(1))
			g.Sticky = low.And(low, mag).Sign() != 0
		}
		kept = new(big.Int).Rsh(mag, drop).Uint64()
		if rounding.Increment(rm, g, neg) {
			kept++
		}
	} else {
		kept = mag.Uint64() << (m + 1 - l)
	}
	if kept>>(m+1) != 0 {
		kept >>= 1
		exp++
	}

	switch {
	case exp >= int(f.ExpAllOnes()):
		return f.Inf(neg)
	case exp <= 0:
		return f.Zero(neg)
	}
	return f.Pack(format.Fields{Sign: b2u(neg), Exp: uint64(exp), Mant: kept & f.MantMask()})
}

func scaled(f format.Format, x format.Fields) *big.Int {
	v := new(big.Int).SetUint64(f.Significand(x))
	v.Lsh(v, uint(max(int(x.Exp), 1)-1))
	if x.Negative() {
		v.Neg(v)
	}
	return v
}

func b2u(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
