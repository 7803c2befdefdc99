package testutil

import (
	"math/rand"
	"sync"

	"github.com/hupe1980/fpgold/format"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Uint64 returns a pseudo-random uint64.
func (r *RNG) Uint64() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Uint64()
}

// Bits returns a uniformly random W-bit pattern.
func (r *RNG) Bits(f format.Format) uint64 {
	return r.Uint64() & f.Mask()
}

// Normal returns a random normal number with uniform sign, exponent and fraction.
func (r *RNG) Normal(f format.Format) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.normalLocked(f)
}

func (r *RNG) normalLocked(f format.Format) uint64 {
	return f.Pack(format.Fields{
		Sign: r.rand.Uint64() & 1,
		Exp:  1 + uint64(r.rand.Int63n(int64(f.ExpAllOnes()-1))),
		Mant: r.rand.Uint64() & f.MantMask(),
	})
}

// Subnormal returns a random nonzero subnormal number.
func (r *RNG) Subnormal(f format.Format) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.subnormalLocked(f)
}

func (r *RNG) subnormalLocked(f format.Format) uint64 {
	mant := r.rand.Uint64() & f.MantMask()
	if mant == 0 {
		mant = 1
	}
	return f.Pack(format.Fields{Sign: r.rand.Uint64() & 1, Mant: mant})
}

// NearBy returns a normal number whose exponent is within spread of x's,
// which exercises cancellation and carry paths. Spread 0 keeps the exponent.
func (r *RNG) NearBy(f format.Format, x uint64, spread int) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	fx := f.Unpack(x)
	exp := int(fx.Exp)
	if spread > 0 {
		exp += r.rand.Intn(2*spread+1) - spread
	}
	exp = min(max(exp, 1), int(f.ExpAllOnes())-1)
	return f.Pack(format.Fields{
		Sign: r.rand.Uint64() & 1,
		Exp:  uint64(exp),
		Mant: r.rand.Uint64() & f.MantMask(),
	})
}

// Operand returns a pattern from a class-weighted mix: mostly normals, plus
// subnormals, zeros, infinities, quiet and signaling NaNs, and the extremes
// of the normal range.
func (r *RNG) Operand(f format.Format) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	neg := r.rand.Intn(2) == 1
	switch k := r.rand.Intn(32); {
	case k < 20:
		return r.normalLocked(f)
	case k < 24:
		return r.subnormalLocked(f)
	case k < 26:
		return f.Zero(neg)
	case k < 27:
		return f.Inf(neg)
	case k < 28:
		return f.MaxNormal(neg)
	case k < 29:
		return f.Pack(format.Fields{Sign: b2u(neg), Exp: 1})
	case k < 30:
		return f.Pack(format.Fields{Sign: b2u(neg), Mant: f.MantMask()})
	case k < 31:
		return f.QuietNaN() | r.rand.Uint64()&f.MantMask() | f.Zero(neg)
	default:
		mant := r.rand.Uint64() & (f.MantMask() >> 1)
		if mant == 0 {
			mant = 1
		}
		return f.Pack(format.Fields{Sign: b2u(neg), Exp: f.ExpAllOnes(), Mant: mant})
	}
}

// OperandPairs returns n operand pairs drawn with Operand. Every fourth pair
// uses NearBy for its second operand.
func (r *RNG) OperandPairs(f format.Format, n int) [][2]uint64 {
	pairs := make([][2]uint64, n)
	for i := range pairs {
		a := r.Operand(f)
		b := r.Operand(f)
		if i%4 == 3 && f.Classify(a).IsFinite() {
			b = r.NearBy(f, a, 2)
		}
		pairs[i] = [2]uint64{a, b}
	}
	return pairs
}

func b2u(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
