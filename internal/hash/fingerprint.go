package hash

import (
	"encoding/binary"

	"github.com/spaolacci/murmur3"
)

// Fingerprint hashes a sequence of 64-bit words with murmur3. Vector sets use
// it to derive content-addressed object names; it is not a checksum.
func Fingerprint(words ...uint64) uint64 {
	h := murmur3.New64()
	var buf [8]byte
	for _, w := range words {
		binary.LittleEndian.PutUint64(buf[:], w)
		_, _ = h.Write(buf[:])
	}
	return h.Sum64()
}

// FingerprintBytes hashes raw bytes with murmur3.
func FingerprintBytes(data []byte) uint64 {
	return murmur3.Sum64(data)
}
