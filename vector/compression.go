package vector

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the block codec of a vector file.
type Compression uint8

const (
	CompressionNone Compression = 0
	// CompressionLZ4 favours speed.
	CompressionLZ4 Compression = 1
	// CompressionZSTD favours size; large random sets shrink well.
	CompressionZSTD Compression = 2
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	}
	return fmt.Sprintf("compression(%d)", uint8(c))
}

// ParseCompression accepts "none", "lz4" or "zstd".
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZSTD, nil
	}
	return 0, fmt.Errorf("vector: unknown compression %q", s)
}

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

// Block layout: [uncompressed uint32][compressed uint32][data]. A compressed
// size of 0 marks a block stored raw.
const blockHeaderSize = 8

var errShortBlock = errors.New("vector: truncated block")

// appendBlock appends the framed, possibly compressed form of data to dst.
// Blocks that do not shrink by at least 10% are stored raw.
func appendBlock(dst, data []byte, c Compression) ([]byte, error) {
	var packed []byte
	switch c {
	case CompressionLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, err
		}
		packed = buf[:n]
	case CompressionZSTD:
		enc := getZstdEncoder()
		packed = enc.EncodeAll(data, nil)
		zstdEncoderPool.Put(enc)
	}

	var hdr [blockHeaderSize]byte
	binary.LittleEndian.PutUint32(hdr[0:], uint32(len(data)))
	if len(packed) == 0 || len(packed)*10 > len(data)*9 {
		dst = append(dst, hdr[:]...)
		return append(dst, data...), nil
	}
	binary.LittleEndian.PutUint32(hdr[4:], uint32(len(packed)))
	dst = append(dst, hdr[:]...)
	return append(dst, packed...), nil
}

// readBlock decodes the block at the start of src, appends its content to
// dst and returns the remaining input. Blocks larger than maxRaw bytes
// uncompressed are rejected.
func readBlock(dst, src []byte, c Compression, maxRaw int) ([]byte, []byte, error) {
	if len(src) < blockHeaderSize {
		return nil, nil, errShortBlock
	}
	raw := binary.LittleEndian.Uint32(src[0:])
	packed := binary.LittleEndian.Uint32(src[4:])
	src = src[blockHeaderSize:]
	if uint64(raw) > uint64(max(maxRaw, 0)) {
		return nil, nil, fmt.Errorf("vector: block of %d bytes exceeds %d", raw, maxRaw)
	}

	if packed == 0 {
		if uint64(len(src)) < uint64(raw) {
			return nil, nil, errShortBlock
		}
		return append(dst, src[:raw]...), src[raw:], nil
	}
	if uint64(len(src)) < uint64(packed) {
		return nil, nil, errShortBlock
	}
	body, rest := src[:packed], src[packed:]

	start := len(dst)
	switch c {
	case CompressionLZ4:
		dst = append(dst, make([]byte, raw)...)
		n, err := lz4.UncompressBlock(body, dst[start:])
		if err != nil {
			return nil, nil, fmt.Errorf("vector: lz4 block: %w", err)
		}
		dst = dst[:start+n]
	case CompressionZSTD:
		dec := getZstdDecoder()
		var err error
		dst, err = dec.DecodeAll(body, dst)
		zstdDecoderPool.Put(dec)
		if err != nil {
			return nil, nil, fmt.Errorf("vector: zstd block: %w", err)
		}
	default:
		return nil, nil, fmt.Errorf("vector: compressed block in %s file", c)
	}

	if uint32(len(dst)-start) != raw {
		return nil, nil, errors.New("vector: decompressed size mismatch")
	}
	return dst, rest, nil
}
