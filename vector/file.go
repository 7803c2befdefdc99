package vector

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/hupe1980/fpgold/format"
	"github.com/hupe1980/fpgold/internal/hash"
	"github.com/hupe1980/fpgold/rounding"
)

var (
	// ErrInvalidVectorSet is returned for data that is not a vector file.
	ErrInvalidVectorSet = errors.New("invalid vector set")
	// ErrChecksumMismatch is returned when a vector file fails its CRC32C check.
	ErrChecksumMismatch = errors.New("vector set checksum mismatch")
)

const (
	magic   = "FPGV"
	version = 1

	// Header layout:
	//	0  magic [4]byte
	//	4  version uint8
	//	5  compression uint8
	//	6  width uint8
	//	7  reserved
	//	8  case count uint64
	//	16 payload CRC32C uint32
	//	20 block size uint32
	//	24 header CRC32C uint32 (over bytes 0-23)
	//	28 reserved [4]byte
	headerSize = 32

	// Case record: A, B, Expect uint64 then mode and flags.
	caseSize = 26

	flagHasExpect = 1 << 0

	// DefaultBlockSize is the uncompressed size of a block.
	DefaultBlockSize = 64 * 1024
)

// WriterOptions controls the encoding of a vector file.
type WriterOptions struct {
	Compression Compression
	// BlockSize is rounded down to a multiple of the record size.
	// Zero selects DefaultBlockSize.
	BlockSize int
}

func (o WriterOptions) blockSize() int {
	n := o.BlockSize
	if n <= 0 {
		n = DefaultBlockSize
	}
	return max(n/caseSize, 1) * caseSize
}

// payload returns the uncompressed record stream.
func (s Set) payload() []byte {
	mask := s.Format.Mask()
	buf := make([]byte, len(s.Cases)*caseSize)
	for i, c := range s.Cases {
		r := buf[i*caseSize:]
		binary.LittleEndian.PutUint64(r[0:], c.A&mask)
		binary.LittleEndian.PutUint64(r[8:], c.B&mask)
		binary.LittleEndian.PutUint64(r[16:], c.Expect&mask)
		r[24] = uint8(c.Mode)
		if c.HasExpect {
			r[25] = flagHasExpect
		}
	}
	return buf
}

// Fingerprint is a murmur3 digest of the layout and the cases. It does not
// depend on the compression.
func (s Set) Fingerprint() uint64 {
	return hash.Fingerprint(uint64(s.Format.Width()), hash.FingerprintBytes(s.payload()))
}

// Name is the content-addressed object name of the set.
func (s Set) Name() string {
	return fmt.Sprintf("vectors/%s-%016x.fpgv", s.Format, s.Fingerprint())
}

// Encode serializes the set.
func (s Set) Encode(opts WriterOptions) ([]byte, error) {
	if s.Format.IsZero() {
		return nil, fmt.Errorf("%w: missing format", ErrInvalidVectorSet)
	}
	switch opts.Compression {
	case CompressionNone, CompressionLZ4, CompressionZSTD:
	default:
		return nil, fmt.Errorf("vector: unknown compression %d", opts.Compression)
	}

	payload := s.payload()
	block := opts.blockSize()

	out := make([]byte, headerSize, headerSize+len(payload)/2)
	copy(out, magic)
	out[4] = version
	out[5] = uint8(opts.Compression)
	out[6] = uint8(s.Format.Width())
	binary.LittleEndian.PutUint64(out[8:], uint64(len(s.Cases)))
	binary.LittleEndian.PutUint32(out[16:], hash.CRC32C(payload))
	binary.LittleEndian.PutUint32(out[20:], uint32(block))
	binary.LittleEndian.PutUint32(out[24:], hash.CRC32C(out[:24]))

	for off := 0; off < len(payload); off += block {
		var err error
		out, err = appendBlock(out, payload[off:min(off+block, len(payload))], opts.Compression)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// WriteTo encodes the set to w.
func (s Set) WriteTo(w io.Writer, opts WriterOptions) (int64, error) {
	data, err := s.Encode(opts)
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

// Info is the decoded header of a vector file.
type Info struct {
	Format      format.Format
	Compression Compression
	Count       uint64
	BlockSize   int
}

// ReadInfo decodes and verifies the header.
func ReadInfo(data []byte) (Info, error) {
	if len(data) < headerSize || string(data[:4]) != magic {
		return Info{}, fmt.Errorf("%w: bad magic", ErrInvalidVectorSet)
	}
	if !hash.Verify(data[:24], binary.LittleEndian.Uint32(data[24:])) {
		return Info{}, fmt.Errorf("%w: header", ErrChecksumMismatch)
	}
	if data[4] != version {
		return Info{}, fmt.Errorf("%w: unsupported version %d", ErrInvalidVectorSet, data[4])
	}
	f, err := format.ForWidth(int(data[6]))
	if err != nil {
		return Info{}, fmt.Errorf("%w: %w", ErrInvalidVectorSet, err)
	}
	c := Compression(data[5])
	if c > CompressionZSTD {
		return Info{}, fmt.Errorf("%w: unknown compression %d", ErrInvalidVectorSet, c)
	}
	block := int(binary.LittleEndian.Uint32(data[20:]))
	if block < caseSize || block%caseSize != 0 {
		return Info{}, fmt.Errorf("%w: block size %d", ErrInvalidVectorSet, block)
	}
	return Info{
		Format:      f,
		Compression: c,
		Count:       binary.LittleEndian.Uint64(data[8:]),
		BlockSize:   block,
	}, nil
}

// Decode parses a vector file and verifies both checksums.
func Decode(data []byte) (Set, error) {
	info, err := ReadInfo(data)
	if err != nil {
		return Set{}, err
	}

	// Each block carries at most BlockSize bytes, so the framing bounds the
	// count before it is multiplied or allocated.
	blocks := uint64(len(data)-headerSize) / blockHeaderSize
	if info.Count > blocks*uint64(info.BlockSize/caseSize) {
		return Set{}, fmt.Errorf("%w: %d cases do not fit %d bytes", ErrInvalidVectorSet, info.Count, len(data))
	}
	want := info.Count * caseSize

	// The header count is untrusted until the checksum passes.
	payload := make([]byte, 0, min(want, uint64(len(data))*4))
	rest := data[headerSize:]
	for len(rest) > 0 {
		payload, rest, err = readBlock(payload, rest, info.Compression, info.BlockSize)
		if err != nil {
			return Set{}, fmt.Errorf("%w: %w", ErrInvalidVectorSet, err)
		}
	}
	if uint64(len(payload)) != want {
		return Set{}, fmt.Errorf("%w: payload is %d bytes, want %d", ErrInvalidVectorSet, len(payload), want)
	}
	if !hash.Verify(payload, binary.LittleEndian.Uint32(data[16:])) {
		return Set{}, fmt.Errorf("%w: payload", ErrChecksumMismatch)
	}

	set := Set{Format: info.Format, Cases: make([]Case, info.Count)}
	for i := range set.Cases {
		r := payload[i*caseSize:]
		mode := rounding.Mode(r[24])
		if !mode.Valid() {
			return Set{}, fmt.Errorf("%w: case %d has %s", ErrInvalidVectorSet, i, mode)
		}
		set.Cases[i] = Case{
			A:         binary.LittleEndian.Uint64(r[0:]),
			B:         binary.LittleEndian.Uint64(r[8:]),
			Expect:    binary.LittleEndian.Uint64(r[16:]),
			Mode:      mode,
			HasExpect: r[25]&flagHasExpect != 0,
		}
	}
	return set, nil
}
