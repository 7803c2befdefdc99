// Package format describes the IEEE-754 binary16/32/64 layouts and the
// bit-level operations shared by the golden models: unpacking, packing,
// classification, NaN canonicalization, the named special values and operand
// parsing.
//
// Values are always carried as packed bit patterns in the low W bits of a
// uint64; nothing in this package converts through host floating point.
package format
