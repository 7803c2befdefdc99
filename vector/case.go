package vector

import (
	"github.com/hupe1980/fpgold/format"
	"github.com/hupe1980/fpgold/rounding"
	"github.com/hupe1980/fpgold/testutil"
)

// Case is one addition to check. When HasExpect is set the device under test
// must produce Expect; otherwise it is compared against a reference model.
type Case struct {
	A, B      uint64
	Mode      rounding.Mode
	Expect    uint64
	HasExpect bool
}

// Set is a list of cases for one layout.
type Set struct {
	Format format.Format
	Cases  []Case
}

// GenerateOptions controls Generate.
type GenerateOptions struct {
	// RandomCount is the number of random normal pairs appended.
	RandomCount int
	// Seed makes the random pairs reproducible.
	Seed int64
	// SkipRegressions leaves out the recorded binary16 regression cases.
	SkipRegressions bool
}

// specialNames are the operands crossed with every table value.
var specialNames = []string{"+zero", "-zero", "+inf", "-inf", "+qnan", "-qnan", "+snan", "-snan"}

// tables holds hand-picked normal and subnormal operands per width.
var tables = map[uint][]uint64{
	16: {
		0x3C00, // 1.0
		0xC000, // -2.0
		0x06F3, 0x0E82, 0x02AB, 0x82AB,
		0x0001, // smallest subnormal
	},
	32: {
		0x3F800000, 0xC0000000, 0x40000000,
		0x00400001, 0x80400001,
		0x00000001,
	},
	64: {
		0x3FF0000000000000, 0xC000000000000000, 0x4000000000000000,
		0x0008000000000001, 0x8008000000000001,
		0x0000000000000001,
	},
}

// regressions16 are binary16 cases that once failed in RTL simulation. They
// keep their recorded rounding mode.
var regressions16 = []Case{
	{A: 0x899C, B: 0x0974, Mode: rounding.RPI},
	{A: 0x12D4, B: 0xF7E2, Mode: rounding.RPI},
}

// Regressions returns the recorded regression cases for f.
func Regressions(f format.Format) []Case {
	if f.Width() != 16 {
		return nil
	}
	return append([]Case(nil), regressions16...)
}

// Generate builds the standard directed and random cases for f under rm.
//
// Every special value is paired with every special and table value in both
// operand orders, so symmetric pairs appear twice. Two fixed normal pairs
// and RandomCount random normal pairs follow.
func Generate(f format.Format, rm rounding.Mode, opts GenerateOptions) Set {
	var cases []Case
	if !opts.SkipRegressions {
		cases = append(cases, Regressions(f)...)
	}

	specials := make([]uint64, len(specialNames))
	for i, name := range specialNames {
		specials[i] = f.MustSpecial(name)
	}
	all := append(append([]uint64(nil), specials...), tables[f.Width()]...)
	isSpecial := func(i int) bool { return i < len(specials) }

	for i, a := range all {
		for j, b := range all {
			if isSpecial(i) || isSpecial(j) {
				cases = append(cases, Case{A: a, B: b, Mode: rm}, Case{A: b, B: a, Mode: rm})
			}
		}
	}

	shift := f.Width() - 16
	cases = append(cases,
		Case{A: 0xC540 << shift, B: 0x2CAB << shift, Mode: rm},
		Case{A: 0x5A63 << shift, B: 0xDBDB << shift, Mode: rm},
	)

	rng := testutil.NewRNG(opts.Seed)
	for range opts.RandomCount {
		cases = append(cases, Case{A: rng.Normal(f), B: rng.Normal(f), Mode: rm})
	}

	return Set{Format: f, Cases: cases}
}

// Concat joins sets of the same layout.
func Concat(f format.Format, sets ...Set) Set {
	out := Set{Format: f}
	for _, s := range sets {
		out.Cases = append(out.Cases, s.Cases...)
	}
	return out
}
