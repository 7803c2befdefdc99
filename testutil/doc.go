// Package testutil provides testing utilities for fpgold.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded, thread-safe generator of IEEE-754 operand bit
// patterns biased toward the classes that stress an adder datapath.
//
// # Random Operands
//
//	rng := testutil.NewRNG(seed)
//	a := rng.Normal(format.Binary16)
//	b := rng.Operand(format.Binary16) // any class, specials included
//	pairs := rng.OperandPairs(format.Binary32, 1000)
package testutil
