// Package rounding holds the IEEE-754 rounding modes and the guard/round/sticky
// increment decision shared by the adder and the format conversions.
package rounding

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hupe1980/fpgold/internal/wide"
)

// ErrInvalidMode is returned when a rounding mode name or code is unknown.
var ErrInvalidMode = errors.New("invalid rounding mode")

// Mode is an IEEE-754 rounding direction. The numeric values are the codes
// used on the DPI boundary.
type Mode uint8

const (
	// RNE rounds to nearest, ties to even.
	RNE Mode = iota
	// RTZ rounds toward zero.
	RTZ
	// RPI rounds toward positive infinity.
	RPI
	// RNI rounds toward negative infinity.
	RNI
	// RNA rounds to nearest, ties away from zero.
	RNA
)

var modeNames = [...]string{"rne", "rtz", "rpi", "rni", "rna"}

// All returns every mode in code order.
func All() []Mode {
	return []Mode{RNE, RTZ, RPI, RNI, RNA}
}

// Valid reports whether m is one of the five defined modes.
func (m Mode) Valid() bool { return m <= RNA }

func (m Mode) String() string {
	if !m.Valid() {
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
	return modeNames[m]
}

// ParseMode accepts a mode name ("rne", "RTZ", ...) or its numeric code.
func ParseMode(s string) (Mode, error) {
	l := strings.ToLower(strings.TrimSpace(s))
	for i, name := range modeNames {
		if l == name {
			return Mode(i), nil
		}
	}
	if len(l) == 1 && l[0] >= '0' && l[0] <= '4' {
		return Mode(l[0] - '0'), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

// ModeFromCode converts a DPI integer code. Unknown codes report false.
func ModeFromCode(code int) (Mode, bool) {
	if code < 0 || code > int(RNA) {
		return RTZ, false
	}
	return Mode(code), true
}

// GRS holds the bits that decide a rounding increment: the LSB that is kept,
// the guard and round bits below it, and the sticky OR of everything further down.
type GRS struct {
	LSB    bool
	Guard  bool
	Round  bool
	Sticky bool
}

// Inexact reports whether any discarded bit is set.
func (g GRS) Inexact() bool { return g.Guard || g.Round || g.Sticky }

// Increment reports whether the kept value must be incremented by one ULP.
// Undefined modes never increment.
func Increment(m Mode, g GRS, negative bool) bool {
	switch m {
	case RNE:
		return g.Guard && (g.Round || g.Sticky || g.LSB)
	case RPI:
		return !negative && g.Inexact()
	case RNI:
		return negative && g.Inexact()
	case RNA:
		return g.Guard
	default:
		return false
	}
}

// Extract reads the GRS bits of v when its low drop bits are discarded.
// Positions below bit 0 read as zero.
func Extract(v *wide.Uint, drop uint) GRS {
	var g GRS
	g.LSB = v.Bit(drop) != 0
	if drop >= 1 {
		g.Guard = v.Bit(drop-1) != 0
	}
	if drop >= 2 {
		g.Round = v.Bit(drop-2) != 0
	}
	if drop >= 3 {
		g.Sticky = v.AnyBelow(drop - 2)
	}
	return g
}

// ExtractUint64 is Extract for values that fit a machine word.
func ExtractUint64(v uint64, drop uint) GRS {
	bit := func(i uint) bool { return i < 64 && v>>i&1 != 0 }
	var g GRS
	g.LSB = bit(drop)
	if drop >= 1 {
		g.Guard = bit(drop - 1)
	}
	if drop >= 2 {
		g.Round = bit(drop - 2)
	}
	if drop >= 3 {
		k := drop - 2
		if k >= 64 {
			g.Sticky = v != 0
		} else {
			g.Sticky = v&(1<<k-1) != 0
		}
	}
	return g
}

// Decide reports whether an inWidth-bit value truncated to its top outWidth
// bits must be incremented. Nothing is discarded when inWidth <= outWidth.
func Decide(v *wide.Uint, negative bool, m Mode, inWidth, outWidth uint) bool {
	if inWidth <= outWidth {
		return false
	}
	return Increment(m, Extract(v, inWidth-outWidth), negative)
}
