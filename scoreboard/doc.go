// Package scoreboard checks a device under test against a reference adder.
//
// A check is partitioned by width and rounding mode. Each partition draws
// its cases from a Source (generated or loaded from a blob store), runs them
// through both models and records every disagreement in a roaring bitmap.
// Results are summarized in a verdict table and can be published as a
// Report to a blob store and a ledger.
//
// Available references:
//
//	golden    the bit-accurate adder at its default precision
//	exact     exact sum rounded once, with the adder's flush-to-zero
//	host      the host FPU (binary32/64 always round to nearest even)
//	host-ftz  host with subnormal results flushed like the hardware
package scoreboard
