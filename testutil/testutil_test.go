package testutil

import (
	"testing"

	"github.com/hupe1980/fpgold/format"
	"github.com/stretchr/testify/assert"
)

func TestNormal(t *testing.T) {
	rng := NewRNG(4711)

	for _, f := range format.Formats() {
		for i := 0; i < 200; i++ {
			assert.Equal(t, format.ClassNormal, f.Classify(rng.Normal(f)))
			assert.Equal(t, format.ClassSubnormal, f.Classify(rng.Subnormal(f)))
		}
	}
}

func TestOperandCoversClasses(t *testing.T) {
	rng := NewRNG(4711)
	f := format.Binary16

	seen := map[format.Class]int{}
	for i := 0; i < 5000; i++ {
		v := rng.Operand(f)
		assert.Zero(t, v&^f.Mask())
		seen[f.Classify(v)]++
	}
	for _, c := range []format.Class{
		format.ClassZero, format.ClassSubnormal, format.ClassNormal,
		format.ClassInf, format.ClassQNaN, format.ClassSNaN,
	} {
		assert.Positive(t, seen[c], c.String())
	}
}

func TestNearBy(t *testing.T) {
	rng := NewRNG(1)
	f := format.Binary32
	x := f.Pack(format.Fields{Exp: 1})
	for i := 0; i < 100; i++ {
		y := f.Unpack(rng.NearBy(f, x, 3))
		assert.GreaterOrEqual(t, y.Exp, uint64(1))
		assert.LessOrEqual(t, y.Exp, uint64(4))
	}
}

func TestReset(t *testing.T) {
	rng := NewRNG(99)
	first := rng.OperandPairs(format.Binary64, 16)
	rng.Reset()
	assert.Equal(t, first, rng.OperandPairs(format.Binary64, 16))
	assert.Equal(t, int64(99), rng.Seed())
}
