// Package fpgold provides a bit-accurate IEEE-754 floating-point golden model
// for verifying hardware adders.
//
// The model reproduces the hardware datapath exactly: operands are unpacked,
// aligned into a buffer extended by a configurable number of precision bits,
// added or subtracted by magnitude, normalized, rounded with guard, round and
// sticky bits, and repacked. Results are W-bit patterns, never host floats.
//
// # Quick Start
//
// The DPI-style entry point takes integer codes, like the testbench does:
//
//	r := fpgold.AddBits(0x3C00, 0x3C00, 16, 0, 32) // 0x4000, 1.0 + 1.0 in binary16
//
// Typed calls select the layout and rounding mode explicitly:
//
//	r := fpgold.Add(a, b, format.Binary32, rounding.RNE)
//	r = fpgold.AddEx(a, b, format.Binary32, rounding.RTZ, 24)
//
// A Model carries logging, metrics and a fixed precision:
//
//	m := fpgold.New(
//	    fpgold.WithLogger(fpgold.NewTextLogger(slog.LevelDebug)),
//	    fpgold.WithMetrics(&fpgold.BasicMetricsCollector{}),
//	)
//	res, err := m.AddOperands(ctx, 16, "rne", "0x3c00", "0xbc00")
//
// # Rounding Modes
//
// The five IEEE-754 directions use the hardware codes:
//
//	0 RNE  round to nearest, ties to even
//	1 RTZ  round toward zero
//	2 RPI  round toward +infinity
//	3 RNI  round toward -infinity
//	4 RNA  round to nearest, ties away from zero
//
// # Special Values
//
// Any NaN operand yields the canonical quiet NaN (sign 0, exponent all ones,
// fraction MSB set). Infinities of opposite sign also yield it. Exact zero
// sums are +0, except under RNI where a cancelling subtraction gives -0.
// Results below the normal range flush to a signed zero.
//
// # Verification
//
// Package scoreboard compares a device under test against reference models
// over generated vector sets (package vector), and can persist vector sets
// and reports through package blobstore and record runs in package ledger.
package fpgold
