package format

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidOperand is returned when an operand string cannot be parsed as a
// bit pattern of the requested width.
var ErrInvalidOperand = errors.New("invalid operand")

// OperandError describes an operand that failed to parse or does not fit W bits.
//
// The underlying strconv error (if any) can be accessed via errors.Unwrap.
type OperandError struct {
	Input string
	Width uint
	cause error
}

func (e *OperandError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("invalid fp%d operand %q: %v", e.Width, e.Input, e.cause)
	}
	return fmt.Sprintf("invalid fp%d operand %q: does not fit in %d bits", e.Width, e.Input, e.Width)
}

func (e *OperandError) Unwrap() error { return e.cause }

// Is makes errors.Is(err, ErrInvalidOperand) true for every OperandError.
func (e *OperandError) Is(target error) bool { return target == ErrInvalidOperand }

// Radix is the notation of an operand string.
type Radix uint8

const (
	Dec Radix = iota
	Hex
	Bin
	Oct
)

// Prefix returns the literal prefix for r ("0x", "0b", "0o" or "").
func (r Radix) Prefix() string {
	switch r {
	case Hex:
		return "0x"
	case Bin:
		return "0b"
	case Oct:
		return "0o"
	default:
		return ""
	}
}

func (r Radix) base() int {
	switch r {
	case Hex:
		return 16
	case Bin:
		return 2
	case Oct:
		return 8
	default:
		return 10
	}
}

func (r Radix) String() string {
	switch r {
	case Hex:
		return "hex"
	case Bin:
		return "bin"
	case Oct:
		return "oct"
	default:
		return "dec"
	}
}

// DetectRadix inspects the prefix of s.
func DetectRadix(s string) Radix {
	l := strings.ToLower(s)
	switch {
	case strings.HasPrefix(l, "0x"):
		return Hex
	case strings.HasPrefix(l, "0b"):
		return Bin
	case strings.HasPrefix(l, "0o"):
		return Oct
	default:
		return Dec
	}
}

// ParseBits parses a bit pattern written in hex ("0x3c00"), binary ("0b…"),
// octal ("0o…") or decimal. Underscores are accepted as digit separators.
// It returns the detected radix so results can be echoed in the same notation.
func (f Format) ParseBits(s string) (uint64, Radix, error) {
	r := DetectRadix(s)
	digits := strings.ReplaceAll(s[len(r.Prefix()):], "_", "")
	v, err := strconv.ParseUint(digits, r.base(), 64)
	if err != nil {
		return 0, r, &OperandError{Input: s, Width: f.width, cause: err}
	}
	if v&^f.Mask() != 0 {
		return 0, r, &OperandError{Input: s, Width: f.width}
	}
	return v, r, nil
}

// FormatBits renders a bit pattern without prefix. Hex is zero-padded to W/4
// digits and binary to W digits; decimal and octal are not padded.
func (f Format) FormatBits(bits uint64, r Radix) string {
	bits &= f.Mask()
	switch r {
	case Hex:
		return fmt.Sprintf("%0*x", int(f.width/4), bits)
	case Bin:
		return fmt.Sprintf("%0*b", int(f.width), bits)
	case Oct:
		return strconv.FormatUint(bits, 8)
	default:
		return strconv.FormatUint(bits, 10)
	}
}

// Hex renders bits as zero-padded hex without prefix.
func (f Format) Hex(bits uint64) string {
	return f.FormatBits(bits, Hex)
}
