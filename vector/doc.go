// Package vector generates, encodes and stores the operand pairs the
// scoreboard checks.
//
// # Generation
//
// Generate builds the directed cases (every special value against every
// special and table value, both operand orders), two fixed normal pairs and
// a number of random normal pairs from a seed. Binary16 sets also carry the
// recorded RTL regression cases.
//
// # File format
//
// A vector file starts with a 32-byte header (magic "FPGV", version,
// compression, width, case count, CRC32C of the records, block size and a
// CRC32C of the header itself). The records follow in framed blocks that
// are stored raw or compressed with LZ4 or ZSTD:
//
//	[uncompressed uint32][compressed uint32 (0 = raw)][data]
//
// Each record is 26 bytes: A, B and Expect as little-endian uint64, then
// the rounding mode and a flag byte.
//
// Sets are stored under vectors/<fmt>-<fingerprint>.fpgv, where the
// fingerprint is a murmur3 digest of the records, so regenerating the same
// set maps to the same object.
package vector
