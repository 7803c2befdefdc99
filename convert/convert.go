// Package convert implements bit-accurate conversions between the IEEE-754
// binary layouts, with the same rounding decisions as the adder.
package convert

import (
	"math"
	"math/bits"

	"github.com/hupe1980/fpgold/format"
	"github.com/hupe1980/fpgold/rounding"
)

// Narrow rounds a pattern of layout from to the narrower layout to.
//
// NaNs become the quiet NaN of the target with the sign kept and the payload
// dropped. Subnormal results are produced (not flushed). Overflow follows
// the rounding direction: RTZ, and the directed mode pointing back toward
// zero, saturate at the largest finite magnitude; every other mode gives an
// infinity.
//
// When to is not narrower than from, Narrow widens exactly.
func Narrow(b uint64, from, to format.Format, rm rounding.Mode) uint64 {
	if to.Width() >= from.Width() {
		return Widen(b, from, to)
	}

	x := from.Unpack(b)
	neg := x.Negative()
	switch from.ClassOf(x) {
	case format.ClassQNaN, format.ClassSNaN:
		return to.QuietNaN() | to.Zero(neg)
	case format.ClassInf:
		return to.Inf(neg)
	case format.ClassZero:
		return to.Zero(neg)
	}

	sig, e := normalize(from, x)
	exp := e + to.Bias()
	drop := from.MantBits() - to.MantBits()
	if exp <= 0 {
		// Below the normal range the target keeps fewer bits.
		drop += uint(1 - exp)
		exp = 0
	}

	kept := uint64(0)
	if drop < 64 {
		kept = sig >> drop
	}
	if rounding.Increment(rm, rounding.ExtractUint64(sig, drop), neg) {
		kept++
	}

	if exp > 0 && kept>>(to.MantBits()+1) != 0 {
		kept >>= 1
		exp++
	}
	if exp == 0 && kept>>to.MantBits() != 0 {
		// Rounded up out of the subnormal range.
		exp = 1
	}
	if exp >= int(to.ExpAllOnes()) {
		return overflow(to, neg, rm)
	}

	return to.Pack(format.Fields{Sign: x.Sign, Exp: uint64(exp), Mant: kept})
}

func overflow(f format.Format, neg bool, rm rounding.Mode) uint64 {
	switch {
	case rm == rounding.RTZ,
		rm == rounding.RPI && neg,
		rm == rounding.RNI && !neg:
		return f.MaxNormal(neg)
	}
	return f.Inf(neg)
}

// normalize returns the significand with its leading one at bit M and the
// unbiased exponent of that bit. x must be finite and nonzero.
func normalize(f format.Format, x format.Fields) (uint64, int) {
	sig := f.Significand(x)
	e := max(int(x.Exp), 1) - f.Bias()
	if s := int(f.MantBits()) + 1 - bits.Len64(sig); s > 0 {
		sig <<= uint(s)
		e -= s
	}
	return sig, e
}

// Widen converts a pattern to a layout at least as wide. The conversion is
// exact; subnormal inputs are normalized and NaN payloads are kept.
// When to is narrower than from, Widen rounds to nearest even via Narrow.
func Widen(b uint64, from, to format.Format) uint64 {
	switch {
	case to.Width() < from.Width():
		return Narrow(b, from, to, rounding.RNE)
	case to.Width() == from.Width():
		return b & from.Mask()
	}

	x := from.Unpack(b)
	grow := to.MantBits() - from.MantBits()
	switch from.ClassOf(x) {
	case format.ClassQNaN, format.ClassSNaN:
		return to.Pack(format.Fields{Sign: x.Sign, Exp: to.ExpAllOnes(), Mant: x.Mant << grow})
	case format.ClassInf:
		return to.Inf(x.Negative())
	case format.ClassZero:
		return to.Zero(x.Negative())
	}

	sig, e := normalize(from, x)
	return to.Pack(format.Fields{
		Sign: x.Sign,
		Exp:  uint64(e + to.Bias()),
		Mant: sig << grow,
	})
}

// ToFloat64 returns the value of a pattern as a host float64. The conversion
// is exact for every supported layout.
func ToFloat64(b uint64, f format.Format) float64 {
	return math.Float64frombits(Widen(b, f, format.Binary64))
}

// FromFloat64 rounds a host float64 to layout f with mode rm.
func FromFloat64(v float64, f format.Format, rm rounding.Mode) uint64 {
	return Narrow(math.Float64bits(v), format.Binary64, f, rm)
}
