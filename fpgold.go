package fpgold

import (
	"context"
	"time"

	"github.com/hupe1980/fpgold/adder"
	"github.com/hupe1980/fpgold/format"
	"github.com/hupe1980/fpgold/rounding"
)

// AddBits is the DPI-style entry point: operands and result are W-bit
// patterns, width and rm are the integer codes the testbench passes.
//
// Like the hardware it never fails. An unknown width selects binary16, an
// unknown rounding code never increments (round toward zero) and a negative
// precision is treated as 0.
func AddBits(a, b uint64, width, rm, precision int) uint64 {
	f, err := format.ForWidth(width)
	if err != nil {
		f = format.Binary16
	}
	mode, ok := rounding.ModeFromCode(rm)
	if !ok {
		mode = rounding.RTZ
	}
	return adder.Add(a, b, f, mode, uint(max(precision, 0)))
}

// Add returns a + b in layout f with the default precision for f.
func Add(a, b uint64, f format.Format, rm rounding.Mode) uint64 {
	return adder.AddDefault(a, b, f, rm)
}

// AddEx returns a + b in layout f with an explicit alignment precision.
func AddEx(a, b uint64, f format.Format, rm rounding.Mode, precision uint) uint64 {
	return adder.Add(a, b, f, rm, precision)
}

// Sub returns a - b in layout f with the default precision for f.
func Sub(a, b uint64, f format.Format, rm rounding.Mode) uint64 {
	return adder.Sub(a, b, f, rm, adder.DefaultPrecision(f))
}

// ParseFormat returns the layout for a width of 16, 32 or 64.
func ParseFormat(width int) (format.Format, error) {
	f, err := format.ForWidth(width)
	if err != nil {
		return format.Format{}, &ErrWidth{Width: width, cause: err}
	}
	return f, nil
}

// ParseMode parses a rounding mode name ("rne", "rtz", "rpi", "rni", "rna")
// or code ("0".."4").
func ParseMode(s string) (rounding.Mode, error) {
	m, err := rounding.ParseMode(s)
	return m, translateError(err)
}

// ParseOperand parses an operand string as a bit pattern of layout f.
func ParseOperand(f format.Format, s string) (uint64, format.Radix, error) {
	v, r, err := f.ParseBits(s)
	return v, r, translateError(err)
}

// Model evaluates the golden adder with logging, metrics and an optional
// fixed precision. A Model is safe for concurrent use.
type Model struct {
	opts options
}

// New creates a Model.
func New(optFns ...Option) *Model {
	opts := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Model{opts: opts}
}

// Logger returns the configured logger.
func (m *Model) Logger() *Logger { return m.opts.logger }

// Metrics returns the configured metrics collector.
func (m *Model) Metrics() MetricsCollector { return m.opts.metricsCollector }

// Precision returns the alignment precision used for f.
func (m *Model) Precision(f format.Format) uint {
	if m.opts.fixedPrecision {
		return m.opts.precision
	}
	return adder.DefaultPrecision(f)
}

// Add evaluates a + b.
func (m *Model) Add(ctx context.Context, f format.Format, rm rounding.Mode, a, b uint64) uint64 {
	start := time.Now()
	r := adder.Add(a, b, f, rm, m.Precision(f))
	m.opts.metricsCollector.RecordAdd(int(f.Width()), f.Classify(r), time.Since(start))
	m.opts.logger.LogAdd(ctx, f, rm, a, b, r)
	return r
}

// Sub evaluates a - b.
func (m *Model) Sub(ctx context.Context, f format.Format, rm rounding.Mode, a, b uint64) uint64 {
	return m.Add(ctx, f, rm, a, f.Negate(b))
}

// Result is an evaluated operation together with its layout and the radix
// of the first operand, so it can be echoed in the caller's notation.
type Result struct {
	Bits   uint64
	Format format.Format
	Radix  format.Radix
}

// Class returns the IEEE-754 class of the result.
func (r Result) Class() format.Class { return r.Format.Classify(r.Bits) }

// String renders the result with the radix prefix of the first operand.
func (r Result) String() string {
	return r.Radix.Prefix() + r.Format.FormatBits(r.Bits, r.Radix)
}

// AddOperands parses the width, rounding mode and operand strings and
// evaluates a + b.
func (m *Model) AddOperands(ctx context.Context, width int, mode, a, b string) (Result, error) {
	return m.evalOperands(ctx, width, mode, a, b, m.Add)
}

// SubOperands parses the width, rounding mode and operand strings and
// evaluates a - b.
func (m *Model) SubOperands(ctx context.Context, width int, mode, a, b string) (Result, error) {
	return m.evalOperands(ctx, width, mode, a, b, m.Sub)
}

type evalFunc func(ctx context.Context, f format.Format, rm rounding.Mode, a, b uint64) uint64

func (m *Model) evalOperands(ctx context.Context, width int, mode, a, b string, fn evalFunc) (Result, error) {
	f, err := ParseFormat(width)
	if err != nil {
		return Result{}, err
	}
	rm, err := ParseMode(mode)
	if err != nil {
		return Result{}, err
	}
	av, radix, err := ParseOperand(f, a)
	if err != nil {
		return Result{}, err
	}
	bv, _, err := ParseOperand(f, b)
	if err != nil {
		return Result{}, err
	}
	return Result{Bits: fn(ctx, f, rm, av, bv), Format: f, Radix: radix}, nil
}
