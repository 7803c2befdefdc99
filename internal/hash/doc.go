// Package hash provides the checksums and fingerprints used by the vector
// file format.
//
// CRC32C (Castagnoli) guards headers and blocks against corruption and is
// hardware accelerated by hash/crc32 on x86 (SSE4.2) and ARM64.
//
//	sum := hash.CRC32C(block)
//
// Fingerprint is a murmur3 digest over 64-bit words. It names vector sets by
// content, so regenerating an identical set maps to the same object.
//
//	id := hash.Fingerprint(uint64(width), seed, uint64(count))
package hash
