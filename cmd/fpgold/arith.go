package main

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/hupe1980/fpgold"
	"github.com/hupe1980/fpgold/convert"
	"github.com/hupe1980/fpgold/format"
)

func parseWidth(s string) (format.Format, error) {
	w, err := strconv.Atoi(s)
	if err != nil {
		return format.Format{}, fmt.Errorf("invalid width %q", s)
	}
	return fpgold.ParseFormat(w)
}

func arith(sub bool) command {
	name := "add"
	if sub {
		name = "sub"
	}
	return func(ctx context.Context, e *env, args []string) (int, error) {
		fs := newFlagSet(name, e)
		round := fs.String("round", "rne", "rounding mode: rne, rtz, rpi, rni, rna or 0-4")
		precision := fs.Int("precision", -1, "alignment precision (default: 32 for fp16, 7 otherwise)")
		pos, err := parseArgs(fs, args)
		if err != nil {
			return exitUsage, err
		}
		if len(pos) != 3 {
			fs.Usage()
			return exitUsage, errUsage
		}
		width, err := strconv.Atoi(pos[0])
		if err != nil {
			return 1, fmt.Errorf("invalid width %q", pos[0])
		}

		opts := []fpgold.Option{fpgold.WithLogger(e.logger), fpgold.WithMetrics(e.metrics)}
		if *precision >= 0 {
			opts = append(opts, fpgold.WithPrecision(uint(*precision)))
		}
		m := fpgold.New(opts...)

		eval := m.AddOperands
		if sub {
			eval = m.SubOperands
		}
		res, err := eval(ctx, width, *round, pos[1], pos[2])
		if err != nil {
			return 1, err
		}
		fmt.Fprintln(e.stdout, res.String())
		return 0, nil
	}
}

var printDigits = map[uint]int{16: 5, 32: 10, 64: 18}

func printValues(_ context.Context, e *env, args []string) (int, error) {
	fs := newFlagSet("print", e)
	pos, err := parseArgs(fs, args)
	if err != nil {
		return exitUsage, err
	}
	if len(pos) < 2 {
		fs.Usage()
		return exitUsage, errUsage
	}
	f, err := parseWidth(pos[0])
	if err != nil {
		return 1, err
	}

	d := printDigits[f.Width()]
	for _, s := range pos[1:] {
		bits, _, err := fpgold.ParseOperand(f, s)
		if err != nil {
			return 1, err
		}
		v := convert.ToFloat64(bits, f)
		fmt.Fprintf(e.stdout, "%s -> %s\t%s\n", s, formatFloat(v, 'f', d), formatFloat(v, 'e', d))
	}
	return 0, nil
}

func formatFloat(v float64, fmtc byte, digits int) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	return strconv.FormatFloat(v, fmtc, digits, 64)
}

func classify(_ context.Context, e *env, args []string) (int, error) {
	fs := newFlagSet("classify", e)
	pos, err := parseArgs(fs, args)
	if err != nil {
		return exitUsage, err
	}
	if len(pos) < 2 {
		fs.Usage()
		return exitUsage, errUsage
	}
	f, err := parseWidth(pos[0])
	if err != nil {
		return 1, err
	}

	for _, s := range pos[1:] {
		bits, _, err := fpgold.ParseOperand(f, s)
		if err != nil {
			return 1, err
		}
		flags := f.Flags(bits)
		fmt.Fprintf(e.stdout, "%s -> %s\t%s\t0b%010b\n", s, f.Classify(bits), flags, uint16(flags))
	}
	return 0, nil
}

func narrow(_ context.Context, e *env, args []string) (int, error) {
	fs := newFlagSet("narrow", e)
	round := fs.String("round", "rne", "rounding mode for narrowing conversions")
	pos, err := parseArgs(fs, args)
	if err != nil {
		return exitUsage, err
	}
	if len(pos) < 3 {
		fs.Usage()
		return exitUsage, errUsage
	}
	from, err := parseWidth(pos[0])
	if err != nil {
		return 1, err
	}
	to, err := parseWidth(pos[1])
	if err != nil {
		return 1, err
	}
	rm, err := fpgold.ParseMode(*round)
	if err != nil {
		return 1, err
	}

	for _, s := range pos[2:] {
		bits, radix, err := fpgold.ParseOperand(from, s)
		if err != nil {
			return 1, err
		}
		r := convert.Narrow(bits, from, to, rm)
		fmt.Fprintln(e.stdout, fpgold.Result{Bits: r, Format: to, Radix: radix}.String())
	}
	return 0, nil
}

func special(_ context.Context, e *env, args []string) (int, error) {
	fs := newFlagSet("special", e)
	pos, err := parseArgs(fs, args)
	if err != nil {
		return exitUsage, err
	}
	if len(pos) < 1 {
		fs.Usage()
		return exitUsage, errUsage
	}
	f, err := parseWidth(pos[0])
	if err != nil {
		return 1, err
	}

	names := pos[1:]
	if len(names) == 0 {
		names = format.SpecialNames
	}
	for _, n := range names {
		bits, ok := f.Special(n)
		if !ok {
			return 1, fmt.Errorf("unknown special value %q (want one of %v)", n, format.SpecialNames)
		}
		fmt.Fprintf(e.stdout, "%-6s 0x%s\n", n, f.Hex(bits))
	}
	return 0, nil
}
