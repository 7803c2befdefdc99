package scoreboard

import (
	"testing"

	"github.com/hupe1980/fpgold/adder"
	"github.com/hupe1980/fpgold/format"
	"github.com/hupe1980/fpgold/rounding"
	"github.com/hupe1980/fpgold/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExactKnownValues(t *testing.T) {
	f := format.Binary16
	ref := Exact{}
	assert.Equal(t, uint64(0x4000), ref.Add(0x3C00, 0x3C00, f, rounding.RNE))
	assert.Equal(t, uint64(0x3C00), ref.Add(0x3BFF, 0x0001, f, rounding.RPI))
	assert.Equal(t, uint64(0x3BFF), ref.Add(0x3BFF, 0x0001, f, rounding.RNE))
	assert.Equal(t, uint64(0x7C00), ref.Add(0x7BFF, 0x4C00, f, rounding.RNE))
	assert.Equal(t, uint64(0x7BFF), ref.Add(0x7BFF, 0x4C00, f, rounding.RTZ))
	assert.Equal(t, uint64(0x0000), ref.Add(0x0001, 0x0001, f, rounding.RNE))
	assert.Equal(t, uint64(0x8000), ref.Add(0x3C00, 0xBC00, f, rounding.RNI))
	assert.Equal(t, uint64(0x3C02), ref.Add(0x3C01, 0x1000, f, rounding.RNE))
	assert.Equal(t, f.QuietNaN(), ref.Add(0x7C00, 0xFC00, f, rounding.RNE))
}

func TestGoldenAtExactPrecisionMatchesExact(t *testing.T) {
	rng := testutil.NewRNG(99)
	for _, f := range format.Formats() {
		t.Run(f.String(), func(t *testing.T) {
			golden := Golden{Precision: adder.ExactPrecision(f), Fixed: true}
			for _, pair := range rng.OperandPairs(f, 2000) {
				for _, rm := range rounding.All() {
					want := Exact{}.Add(pair[0], pair[1], f, rm)
					require.Equal(t, want, golden.Add(pair[0], pair[1], f, rm),
						"%s + %s %s", f.Hex(pair[0]), f.Hex(pair[1]), rm)
				}
			}
		})
	}
}

func TestHostFlushMatchesExactUnderRNE(t *testing.T) {
	rng := testutil.NewRNG(123)
	host := Host{FlushSubnormals: true}
	for _, f := range format.Formats() {
		t.Run(f.String(), func(t *testing.T) {
			for _, pair := range rng.OperandPairs(f, 2000) {
				want := f.CanonicalizeForCompare(Exact{}.Add(pair[0], pair[1], f, rounding.RNE))
				got := f.CanonicalizeForCompare(host.Add(pair[0], pair[1], f, rounding.RNE))
				require.Equal(t, want, got, "%s + %s", f.Hex(pair[0]), f.Hex(pair[1]))
			}
		})
	}
}

func TestHostKeepsSubnormals(t *testing.T) {
	f := format.Binary32
	assert.Equal(t, uint64(0x00000002), Host{}.Add(0x00000001, 0x00000001, f, rounding.RNE))
	assert.Equal(t, uint64(0x00000000), Host{FlushSubnormals: true}.Add(0x00000001, 0x00000001, f, rounding.RNE))
	assert.Equal(t, uint64(0x80000000), Host{FlushSubnormals: true}.Add(0x80000001, 0x80000001, f, rounding.RNE))
	// A zero operand passes the other one through unchanged.
	assert.Equal(t, uint64(0x00000001), Host{FlushSubnormals: true}.Add(0x00000001, 0, f, rounding.RNE))
}

func TestHostHalfUsesMode(t *testing.T) {
	f := format.Binary16
	assert.Equal(t, uint64(0x3C00), Host{}.Add(0x3C00, 0x1000, f, rounding.RNE))
	assert.Equal(t, uint64(0x3C01), Host{}.Add(0x3C00, 0x1000, f, rounding.RPI))
}

func TestByName(t *testing.T) {
	for _, name := range []string{"golden", "host", "host-ftz", "exact"} {
		ref, ok := ByName(name, -1)
		require.True(t, ok, name)
		assert.NotEmpty(t, ref.Name())
	}
	ref, ok := ByName("golden", 12)
	require.True(t, ok)
	assert.Equal(t, Golden{Precision: 12, Fixed: true}, ref)

	ref, ok = ByName("golden", 0)
	require.True(t, ok)
	assert.Equal(t, Golden{Fixed: true}, ref)

	ref, ok = ByName("golden", -1)
	require.True(t, ok)
	assert.Equal(t, Golden{}, ref)

	_, ok = ByName("fma", -1)
	assert.False(t, ok)
}

func TestGoldenDefaultPrecision(t *testing.T) {
	f := format.Binary32
	assert.Equal(t,
		adder.AddDefault(0x3F800000, 0x33800000, f, rounding.RPI),
		Golden{}.Add(0x3F800000, 0x33800000, f, rounding.RPI))
}

func TestGoldenZeroPrecision(t *testing.T) {
	// 1.0 + 2^-24 is inexact in binary32. With no extra bits the addend is
	// shifted out entirely and RPI cannot see it.
	f := format.Binary32
	a, b := uint64(0x3F800000), uint64(0x33800000)
	assert.Equal(t, uint64(0x3F800001), Golden{}.Add(a, b, f, rounding.RPI))
	assert.Equal(t, uint64(0x3F800000), Golden{Fixed: true}.Add(a, b, f, rounding.RPI))
	assert.Equal(t, adder.Add(a, b, f, rounding.RPI, 0), Golden{Fixed: true}.Add(a, b, f, rounding.RPI))

	ref, ok := ByName("golden", 0)
	require.True(t, ok)
	assert.Equal(t, uint64(0x3F800000), ref.Add(a, b, f, rounding.RPI))
}
