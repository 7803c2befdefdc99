package format

import "strings"

// Class is the IEEE-754 category of a bit pattern.
type Class uint8

const (
	ClassZero Class = iota
	ClassSubnormal
	ClassNormal
	ClassInf
	ClassQNaN
	ClassSNaN
)

// IsNaN reports whether c is a quiet or signaling NaN.
func (c Class) IsNaN() bool { return c == ClassQNaN || c == ClassSNaN }

// IsInf reports whether c is an infinity.
func (c Class) IsInf() bool { return c == ClassInf }

// IsZero reports whether c is a (signed) zero.
func (c Class) IsZero() bool { return c == ClassZero }

// IsFinite reports whether c is zero, subnormal or normal.
func (c Class) IsFinite() bool { return c <= ClassNormal }

func (c Class) String() string {
	switch c {
	case ClassZero:
		return "zero"
	case ClassSubnormal:
		return "subnormal"
	case ClassNormal:
		return "normal"
	case ClassInf:
		return "inf"
	case ClassQNaN:
		return "qnan"
	case ClassSNaN:
		return "snan"
	default:
		return "unknown"
	}
}

// ClassOf categorizes unpacked fields. The quiet bit is the fraction MSB.
func (f Format) ClassOf(x Fields) Class {
	switch x.Exp {
	case 0:
		if x.Mant == 0 {
			return ClassZero
		}
		return ClassSubnormal
	case f.ExpAllOnes():
		if x.Mant == 0 {
			return ClassInf
		}
		if x.Mant&(1<<(f.mantBits-1)) != 0 {
			return ClassQNaN
		}
		return ClassSNaN
	default:
		return ClassNormal
	}
}

// Classify categorizes a bit pattern.
func (f Format) Classify(bits uint64) Class {
	return f.ClassOf(f.Unpack(bits))
}

// ClassFlags is the one-hot classifier output word. The bit order matches the
// packed struct driven by the hardware classifier, LSB first.
type ClassFlags uint16

const (
	FlagPosInf ClassFlags = 1 << iota
	FlagPosNormal
	FlagPosSubnormal
	FlagPosZero
	FlagNegZero
	FlagNegSubnormal
	FlagNegNormal
	FlagNegInf
	FlagQNaN
	FlagSNaN
)

var flagNames = [...]string{
	"pos_inf", "pos_normal", "pos_subnormal", "pos_zero", "neg_zero",
	"neg_subnormal", "neg_normal", "neg_inf", "qnan", "snan",
}

// Has reports whether every flag in g is set.
func (c ClassFlags) Has(g ClassFlags) bool { return c&g == g }

// String lists the set flags joined by "|".
func (c ClassFlags) String() string {
	var parts []string
	for i, name := range flagNames {
		if c&(1<<i) != 0 {
			parts = append(parts, name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// Flags returns the classifier word for a bit pattern. Exactly one flag is set.
// NaNs set only FlagQNaN or FlagSNaN regardless of sign.
func (f Format) Flags(bits uint64) ClassFlags {
	x := f.Unpack(bits)
	neg := x.Negative()
	switch f.ClassOf(x) {
	case ClassQNaN:
		return FlagQNaN
	case ClassSNaN:
		return FlagSNaN
	case ClassInf:
		if neg {
			return FlagNegInf
		}
		return FlagPosInf
	case ClassNormal:
		if neg {
			return FlagNegNormal
		}
		return FlagPosNormal
	case ClassSubnormal:
		if neg {
			return FlagNegSubnormal
		}
		return FlagPosSubnormal
	default:
		if neg {
			return FlagNegZero
		}
		return FlagPosZero
	}
}
