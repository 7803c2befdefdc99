// Package adder is the bit-accurate IEEE-754 floating-point adder used as the
// golden model for hardware adders.
//
// The model follows the datapath of the RTL adder step by step: unpack,
// special-case bypass, alignment into a P-bit extended buffer, magnitude
// add/subtract, normalization, guard/round/sticky rounding and repacking.
// Subnormal results are flushed to a signed zero like the hardware does.
package adder

import (
	"github.com/hupe1980/fpgold/format"
	"github.com/hupe1980/fpgold/internal/wide"
	"github.com/hupe1980/fpgold/rounding"
)

// DefaultPrecision returns the alignment precision the hardware testbench
// uses: 32 extra bits for binary16, 7 for binary32 and binary64.
func DefaultPrecision(f format.Format) uint {
	if f.Width() == 16 {
		return 32
	}
	return 7
}

// ExactPrecision returns the smallest precision at which alignment never
// discards a set bit, so the rounding decision sees the exact sum.
// Larger precisions produce identical results.
func ExactPrecision(f format.Format) uint {
	return 1 << f.ExpBits()
}

// AddDefault is Add with DefaultPrecision.
func AddDefault(a, b uint64, f format.Format, rm rounding.Mode) uint64 {
	return Add(a, b, f, rm, DefaultPrecision(f))
}

// Sub returns a - b, computed as a + (-b).
func Sub(a, b uint64, f format.Format, rm rounding.Mode, precision uint) uint64 {
	return Add(a, f.Negate(b), f, rm, precision)
}

// Add returns the W-bit sum of the bit patterns a and b rounded with rm.
// Precision is the number of extra bits kept below the mantissa during
// alignment; values above ExactPrecision(f) are clamped to it.
// Bits of a and b above W are ignored. Add never panics.
func Add(a, b uint64, f format.Format, rm rounding.Mode, precision uint) uint64 {
	a &= f.Mask()
	b &= f.Mask()
	x, y := f.Unpack(a), f.Unpack(b)
	cx, cy := f.ClassOf(x), f.ClassOf(y)

	switch {
	case cx.IsNaN() || cy.IsNaN():
		return f.QuietNaN()
	case cx.IsInf() && cy.IsInf() && x.Sign != y.Sign:
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

	precision = min(precision, ExactPrecision(f))
	m := f.MantBits()
	width := m + 1 + precision

	// Two spare bits hold the carry of an effective addition.
	ma := wide.New(width + 2).SetUint64(f.Significand(x)).Lsh(precision)
	mb := wide.New(width + 2).SetUint64(f.Significand(y)).Lsh(precision)

	ea, eb := max(int(x.Exp), 1), max(int(y.Exp), 1)
	exp := ea
	if d := ea - eb; d > 0 {
		mb.Rsh(uint(d))
	} else {
		ma.Rsh(uint(-d))
		exp = eb
	}

	sub := x.Sign != y.Sign
	sign := x.Sign
	sum := ma
	switch {
	case !sub:
		sum.Add(mb)
	case ma.Cmp(mb) >= 0:
		sum.Sub(mb)
	default:
		sum = mb.Sub(ma)
		sign = y.Sign
	}

	if sum.IsZero() {
		return f.Zero(sub && rm == rounding.RNI)
	}

	// Normalize the leading one to bit width-1. On carry this drops bit 0,
	// as the RTL normalizer does.
	shift := int(width) - int(sum.BitLen())
	if shift > 0 {
		sum.Lsh(uint(shift))
	} else if shift < 0 {
		sum.Rsh(uint(-shift))
	}
	exp -= shift

	negative := sign != 0
	frac := sum.Mask(width - 1)
	inc := rounding.Decide(frac, negative, rm, width-1, m)

	sig := frac.Rsh(precision).Uint64() | 1<<m
	if inc {
		sig++
	}
	if sig>>(m+1) != 0 {
		sig >>= 1
		exp++
	}

	return pack(f, sign, exp, sig)
}

// pack applies the final range checks: overflow to a signed infinity and
// underflow flushed to a signed zero.
func pack(f format.Format, sign uint64, exp int, sig uint64) uint64 {
	switch {
	case exp >= int(f.ExpAllOnes()):
		return f.Inf(sign != 0)
	case exp <= 0:
		return f.Zero(sign != 0)
	}
	return f.Pack(format.Fields{Sign: sign, Exp: uint64(exp), Mant: sig})
}

// Repack re-applies the packer's range checks to a packed value: NaNs become
// the canonical quiet NaN and subnormals flush to a signed zero. It is the
// identity on every value the general add path produces.
func Repack(bits uint64, f format.Format) uint64 {
	x := f.Unpack(bits)
	switch f.ClassOf(x) {
	case format.ClassQNaN, format.ClassSNaN:
		return f.QuietNaN()
	case format.ClassInf:
		return f.Inf(x.Negative())
	}
	return pack(f, x.Sign, int(x.Exp), f.Significand(x))
}
