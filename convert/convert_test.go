package convert

import (
	"math"
	"testing"

	"github.com/hupe1980/fpgold/format"
	"github.com/hupe1980/fpgold/rounding"
	"github.com/hupe1980/fpgold/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNarrowFloat32ToHalf(t *testing.T) {
	from, to := format.Binary32, format.Binary16
	tests := []struct {
		name string
		in   uint64
		rm   rounding.Mode
		want uint64
	}{
		{"one", 0x3F800000, rounding.RNE, 0x3C00},
		{"minus two", 0xC0000000, rounding.RNE, 0xC000},
		{"overflow rne", 0x477FF000, rounding.RNE, 0x7C00},
		{"overflow rtz", 0x477FF000, rounding.RTZ, 0x7BFF},
		{"overflow rni positive", 0x477FF000, rounding.RNI, 0x7BFF},
		{"overflow rpi positive", 0x477FF000, rounding.RPI, 0x7C00},
		{"overflow rpi negative", 0xC77FF000, rounding.RPI, 0xFBFF},
		{"overflow rni negative", 0xC77FF000, rounding.RNI, 0xFC00},
		{"huge rtz", 0x7F7FFFFF, rounding.RTZ, 0x7BFF},
		{"tiny rne", 0x00000001, rounding.RNE, 0x0000},
		{"tiny rpi", 0x00000001, rounding.RPI, 0x0001},
		{"tiny rni", 0x00000001, rounding.RNI, 0x0000},
		{"tiny negative rni", 0x80000001, rounding.RNI, 0x8001},
		{"tiny negative rpi", 0x80000001, rounding.RPI, 0x8000},
		{"min subnormal", 0x33800000, rounding.RNE, 0x0001},
		{"half min subnormal rne", 0x33000000, rounding.RNE, 0x0000},
		{"half min subnormal rna", 0x33000000, rounding.RNA, 0x0001},
		{"three quarter min subnormal", 0x33400000, rounding.RNE, 0x0001},
		{"subnormal rounds to min normal", 0x387FF000, rounding.RNE, 0x0400},
		{"mantissa carry", 0x3FFFF000, rounding.RNE, 0x4000},
		{"mantissa carry rtz", 0x3FFFF000, rounding.RTZ, 0x3FFF},
		{"zero", 0x00000000, rounding.RPI, 0x0000},
		{"negative zero", 0x80000000, rounding.RPI, 0x8000},
		{"inf", 0xFF800000, rounding.RTZ, 0xFC00},
		{"snan", 0x7F800001, rounding.RNE, 0x7E00},
		{"negative qnan", 0xFFC00000, rounding.RNE, 0xFE00},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Narrow(tt.in, from, to, tt.rm), "got %s", to.Hex(Narrow(tt.in, from, to, tt.rm)))
		})
	}
}

func TestNarrowFloat64ToFloat32(t *testing.T) {
	third := math.Float64bits(1.0 / 3.0)
	assert.Equal(t, uint64(0x3EAAAAAB), Narrow(third, format.Binary64, format.Binary32, rounding.RNE))
	assert.Equal(t, uint64(0x3EAAAAAA), Narrow(third, format.Binary64, format.Binary32, rounding.RTZ))
	assert.Equal(t, uint64(0x3EAAAAAB), Narrow(third, format.Binary64, format.Binary32, rounding.RPI))
	assert.Equal(t, uint64(0xBEAAAAAB), Narrow(third|1<<63, format.Binary64, format.Binary32, rounding.RNI))
}

func TestNarrowMatchesHostConversion(t *testing.T) {
	rng := testutil.NewRNG(4711)
	f := format.Binary64
	for i := 0; i < 20000; i++ {
		// Exponents that stay within float32 range, subnormals included.
		exp := uint64(1023 - 150 + rng.Intn(150+127))
		b := f.Pack(format.Fields{Sign: rng.Uint64() & 1, Exp: exp, Mant: rng.Uint64() & f.MantMask()})
		want := uint64(math.Float32bits(float32(math.Float64frombits(b))))
		require.Equal(t, want, Narrow(b, format.Binary64, format.Binary32, rounding.RNE), "%016x", b)
	}
}

func TestWidenHalfExhaustive(t *testing.T) {
	h := format.Binary16
	for b := uint64(0); b <= 0xFFFF; b++ {
		x := h.Unpack(b)
		c := h.ClassOf(x)

		w32 := Widen(b, h, format.Binary32)
		w64 := Widen(b, h, format.Binary64)
		require.Equal(t, w64, Widen(w32, format.Binary32, format.Binary64))

		if c.IsNaN() {
			require.True(t, math.IsNaN(float64(math.Float32frombits(uint32(w32)))))
			require.Equal(t, h.QuietNaN()|h.Zero(x.Negative()), Narrow(w64, format.Binary64, h, rounding.RNE))
			continue
		}

		want := math.Ldexp(float64(h.Significand(x)), max(int(x.Exp), 1)-h.Bias()-int(h.MantBits()))
		if c.IsInf() {
			want = math.Inf(1)
		}
		if x.Negative() {
			want = -want
		}
		require.Equal(t, want, ToFloat64(b, h), "%04x", b)

		for _, rm := range rounding.All() {
			require.Equal(t, b, Narrow(w32, format.Binary32, h, rm), "%04x %s", b, rm)
			require.Equal(t, b, Narrow(w64, format.Binary64, h, rm), "%04x %s", b, rm)
		}
	}
}

func TestWidenKeepsNaNPayload(t *testing.T) {
	assert.Equal(t, uint64(0x7F802000), Widen(0x7C01, format.Binary16, format.Binary32))
	assert.Equal(t, uint64(0xFFF8000000000000), Widen(0xFE00, format.Binary16, format.Binary64))
}

func TestSameWidthIsIdentity(t *testing.T) {
	assert.Equal(t, uint64(0x3C00), Narrow(0xFFFF3C00, format.Binary16, format.Binary16, rounding.RNE))
	assert.Equal(t, uint64(0x3C00), Widen(0x3C00, format.Binary16, format.Binary16))
	assert.Equal(t, uint64(0x3C00), Widen(0x3F800000, format.Binary32, format.Binary16))
}

func TestFromFloat64(t *testing.T) {
	assert.Equal(t, uint64(0x3555), FromFloat64(1.0/3.0, format.Binary16, rounding.RNE))
	assert.Equal(t, uint64(0x7BFF), FromFloat64(65504, format.Binary16, rounding.RNE))
	assert.Equal(t, uint64(0x7C00), FromFloat64(1e6, format.Binary16, rounding.RNE))
	assert.Equal(t, 0.333251953125, ToFloat64(0x3555, format.Binary16))
	assert.Equal(t, 1.5, ToFloat64(0x3FC00000, format.Binary32))
}
