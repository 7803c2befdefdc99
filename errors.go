package fpgold

import (
	"errors"
	"fmt"

	"github.com/hupe1980/fpgold/format"
	"github.com/hupe1980/fpgold/rounding"
)

var (
	// ErrInvalidWidth is returned when a width is not 16, 32 or 64.
	ErrInvalidWidth = format.ErrUnsupportedWidth

	// ErrInvalidRoundingMode is returned when a rounding mode name or code is unknown.
	ErrInvalidRoundingMode = rounding.ErrInvalidMode

	// ErrInvalidOperand is returned when an operand does not parse as a W-bit pattern.
	ErrInvalidOperand = format.ErrInvalidOperand
)

// ErrWidth indicates an unsupported floating-point width.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrWidth struct {
	Width int
	cause error
}

func (e *ErrWidth) Error() string {
	return fmt.Sprintf("invalid width: %d (want 16, 32 or 64)", e.Width)
}

func (e *ErrWidth) Unwrap() error { return e.cause }

// ErrOperand indicates an operand string that is not a valid bit pattern for
// the selected width.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrOperand struct {
	Operand string
	Width   int
	cause   error
}

func (e *ErrOperand) Error() string {
	return fmt.Sprintf("invalid fp%d operand: %q", e.Width, e.Operand)
}

func (e *ErrOperand) Unwrap() error { return e.cause }

func translateError(err error) error {
	if err == nil {
		return nil
	}

	var oe *format.OperandError
	if errors.As(err, &oe) {
		return &ErrOperand{Operand: oe.Input, Width: int(oe.Width), cause: err}
	}
	if errors.Is(err, rounding.ErrInvalidMode) {
		return fmt.Errorf("%w: %w", ErrInvalidRoundingMode, err)
	}

	return err
}
