package scoreboard

import (
	"math"

	"github.com/hupe1980/fpgold/adder"
	"github.com/hupe1980/fpgold/convert"
	"github.com/hupe1980/fpgold/format"
	"github.com/hupe1980/fpgold/rounding"
)

// Reference is a model that adds two bit patterns of layout f.
type Reference interface {
	Name() string
	Add(a, b uint64, f format.Format, rm rounding.Mode) uint64
}

// Golden is the bit-accurate adder. Precision is used only when Fixed is
// set; otherwise each layout gets its default precision.
type Golden struct {
	Precision uint
	Fixed     bool
}

func (g Golden) Name() string { return "golden" }

func (g Golden) Add(a, b uint64, f format.Format, rm rounding.Mode) uint64 {
	p := adder.DefaultPrecision(f)
	if g.Fixed {
		p = g.Precision
	}
	return adder.Add(a, b, f, rm, p)
}

// Host adds on the host FPU. Binary32 and binary64 always round to nearest
// even whatever rm says. Binary16 sums are exact in float64 and are narrowed
// with rm.
//
// With FlushSubnormals, subnormal results of two nonzero finite operands are
// replaced by a signed zero, matching the hardware packer.
type Host struct {
	FlushSubnormals bool
}

func (h Host) Name() string {
	if h.FlushSubnormals {
		return "host-ftz"
	}
	return "host"
}

func (h Host) Add(a, b uint64, f format.Format, rm rounding.Mode) uint64 {
	a &= f.Mask()
	b &= f.Mask()

	var r uint64
	switch f.Width() {
	case 32:
		r = uint64(math.Float32bits(math.Float32frombits(uint32(a)) + math.Float32frombits(uint32(b))))
	case 64:
		r = math.Float64bits(math.Float64frombits(a) + math.Float64frombits(b))
	default:
		sum := convert.ToFloat64(a, f) + convert.ToFloat64(b, f)
		r = convert.Narrow(math.Float64bits(sum), format.Binary64, f, rm)
	}

	r = f.CanonicalizeNaN(r)
	if h.FlushSubnormals && f.Classify(r) == format.ClassSubnormal &&
		f.Classify(a).IsFinite() && !f.Classify(a).IsZero() &&
		f.Classify(b).IsFinite() && !f.Classify(b).IsZero() {
		r = f.Zero(f.Unpack(r).Negative())
	}
	return r
}

// Func adapts a function, for example a lookup into a DUT dump, to Reference.
type Func struct {
	Label string
	Fn    func(a, b uint64, f format.Format, rm rounding.Mode) uint64
}

func (r Func) Name() string { return r.Label }

func (r Func) Add(a, b uint64, f format.Format, rm rounding.Mode) uint64 {
	return r.Fn(a, b, f, rm)
}

// ByName returns "golden", "host", "host-ftz" or "exact". A negative
// precision gives the golden model its per-layout default.
func ByName(name string, precision int) (Reference, bool) {
	switch name {
	case "golden":
		if precision < 0 {
			return Golden{}, true
		}
		return Golden{Precision: uint(precision), Fixed: true}, true
	case "host":
		return Host{}, true
	case "host-ftz":
		return Host{FlushSubnormals: true}, true
	case "exact":
		return Exact{}, true
	}
	return nil, false
}
