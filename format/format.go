package format

import (
	"errors"
	"fmt"
)

// ErrUnsupportedWidth is returned when a bit-width has no IEEE-754 binary layout here.
var ErrUnsupportedWidth = errors.New("unsupported floating-point width")

// Format describes an IEEE-754 binary interchange layout.
//
// Layout (most significant bit first):
//
//	sign:     1 bit
//	exponent: E bits (bias 2^(E-1)-1)
//	mantissa: M bits (fraction only, implicit leading bit)
//
// Bit patterns are carried in the low W bits of a uint64.
type Format struct {
	width    uint
	expBits  uint
	mantBits uint
}

var (
	// Binary16 is IEEE-754 half precision (E=5, M=10).
	Binary16 = Format{width: 16, expBits: 5, mantBits: 10}
	// Binary32 is IEEE-754 single precision (E=8, M=23).
	Binary32 = Format{width: 32, expBits: 8, mantBits: 23}
	// Binary64 is IEEE-754 double precision (E=11, M=52).
	Binary64 = Format{width: 64, expBits: 11, mantBits: 52}
)

// Formats lists the supported layouts in ascending width.
func Formats() []Format {
	return []Format{Binary16, Binary32, Binary64}
}

// ForWidth returns the layout for a total bit-width of 16, 32 or 64.
func ForWidth(width int) (Format, error) {
	switch width {
	case 16:
		return Binary16, nil
	case 32:
		return Binary32, nil
	case 64:
		return Binary64, nil
	default:
		return Format{}, fmt.Errorf("%w: %d", ErrUnsupportedWidth, width)
	}
}

// Width returns the total number of bits W.
func (f Format) Width() uint { return f.width }

// ExpBits returns the exponent field width E.
func (f Format) ExpBits() uint { return f.expBits }

// MantBits returns the fraction field width M.
func (f Format) MantBits() uint { return f.mantBits }

// Bias returns the exponent bias 2^(E-1)-1.
func (f Format) Bias() int { return 1<<(f.expBits-1) - 1 }

// ExpAllOnes returns the all-ones exponent field value (infinity/NaN).
func (f Format) ExpAllOnes() uint64 { return 1<<f.expBits - 1 }

// MantMask returns the mask selecting the fraction field.
func (f Format) MantMask() uint64 { return 1<<f.mantBits - 1 }

// SignBit returns the mask selecting the sign bit.
func (f Format) SignBit() uint64 { return 1 << (f.width - 1) }

// Mask returns the mask selecting all W bits.
func (f Format) Mask() uint64 {
	if f.width >= 64 {
		return ^uint64(0)
	}
	return 1<<f.width - 1
}

// IsZero reports whether f is the zero Format (no layout selected).
func (f Format) IsZero() bool { return f.width == 0 }

// String returns "fp16", "fp32" or "fp64".
func (f Format) String() string { return fmt.Sprintf("fp%d", f.width) }

// Fields holds the unpacked bit-fields of a pattern.
type Fields struct {
	Sign uint64
	Exp  uint64
	Mant uint64
}

// Negative reports whether the sign bit is set.
func (x Fields) Negative() bool { return x.Sign != 0 }

// Unpack splits a bit pattern into its sign, exponent and fraction fields.
// Bits above W are ignored.
func (f Format) Unpack(bits uint64) Fields {
	return Fields{
		Sign: (bits >> (f.width - 1)) & 1,
		Exp:  (bits >> f.mantBits) & f.ExpAllOnes(),
		Mant: bits & f.MantMask(),
	}
}

// Pack assembles fields into a bit pattern. Fields are masked to their widths.
func (f Format) Pack(x Fields) uint64 {
	return (x.Sign&1)<<(f.width-1) | (x.Exp&f.ExpAllOnes())<<f.mantBits | x.Mant&f.MantMask()
}

// Significand returns the fraction with the implicit leading bit restored:
// 1 for normal numbers, 0 for zero and subnormals. The result has M+1 bits.
func (f Format) Significand(x Fields) uint64 {
	if x.Exp != 0 {
		return 1<<f.mantBits | x.Mant
	}
	return x.Mant
}

// QuietNaN returns the canonical quiet NaN: sign 0, exponent all ones,
// fraction with only its most significant bit set.
func (f Format) QuietNaN() uint64 {
	return f.ExpAllOnes()<<f.mantBits | 1<<(f.mantBits-1)
}

// Inf returns the infinity with the given sign.
func (f Format) Inf(negative bool) uint64 {
	v := f.ExpAllOnes() << f.mantBits
	if negative {
		v |= f.SignBit()
	}
	return v
}

// Zero returns the zero with the given sign.
func (f Format) Zero(negative bool) uint64 {
	if negative {
		return f.SignBit()
	}
	return 0
}

// MaxNormal returns the largest finite magnitude with the given sign.
func (f Format) MaxNormal(negative bool) uint64 {
	v := (f.ExpAllOnes()-1)<<f.mantBits | f.MantMask()
	if negative {
		v |= f.SignBit()
	}
	return v
}

// Negate flips the sign bit.
func (f Format) Negate(bits uint64) uint64 {
	return (bits ^ f.SignBit()) & f.Mask()
}

// CanonicalizeNaN maps every NaN encoding to the canonical quiet NaN and
// returns all other patterns unchanged.
func (f Format) CanonicalizeNaN(bits uint64) uint64 {
	bits &= f.Mask()
	if f.Classify(bits).IsNaN() {
		return f.QuietNaN()
	}
	return bits
}

// CanonicalizeForCompare is CanonicalizeNaN that also maps -0 to +0, so two
// results that only differ in NaN payload or zero sign compare equal.
func (f Format) CanonicalizeForCompare(bits uint64) uint64 {
	bits = f.CanonicalizeNaN(bits)
	if bits == f.SignBit() {
		return 0
	}
	return bits
}
