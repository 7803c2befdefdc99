package scoreboard

import (
	"context"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/fpgold/format"
	"github.com/hupe1980/fpgold/rounding"
	"github.com/hupe1980/fpgold/vector"
)

// Mismatch is a case whose DUT result differs from the expected one. Got and
// Want are canonicalized: NaNs are the quiet NaN and -0 is +0.
type Mismatch struct {
	Index int
	Case  vector.Case
	Got   uint64
	Want  uint64
}

func (m Mismatch) String() string {
	return fmt.Sprintf("#%d %#x + %#x (%s): got %#x, want %#x", m.Index, m.Case.A, m.Case.B, m.Case.Mode, m.Got, m.Want)
}

// Result is the outcome of comparing one set.
type Result struct {
	Format format.Format
	Mode   rounding.Mode
	Total  int
	// Failures holds the indices of every failing case.
	Failures *roaring.Bitmap
	// Mismatches holds the first failing cases, up to the configured limit.
	Mismatches []Mismatch
}

// Failed returns the number of failing cases.
func (r Result) Failed() int { return int(r.Failures.GetCardinality()) }

// Passed reports whether every case matched.
func (r Result) Passed() bool { return r.Failures.IsEmpty() }

// CompareOptions tunes Compare.
type CompareOptions struct {
	// MaxMismatches bounds Result.Mismatches. Zero keeps 100; negative keeps all.
	MaxMismatches int
	// OnMismatch is called for every failing case.
	OnMismatch func(Mismatch)
}

const checkEvery = 4096

// Compare runs every case of set through dut and checks it against the
// case's expected value or, when it has none, against ref.
// It stops early with ctx.Err() when ctx is cancelled.
func Compare(ctx context.Context, dut, ref Reference, set vector.Set, opts CompareOptions) (Result, error) {
	f := set.Format
	limit := opts.MaxMismatches
	if limit == 0 {
		limit = 100
	}

	res := Result{Format: f, Total: len(set.Cases), Failures: roaring.New()}
	if len(set.Cases) > 0 {
		res.Mode = set.Cases[len(set.Cases)-1].Mode
	}

	for i, c := range set.Cases {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return res, err
			}
		}

		got := f.CanonicalizeForCompare(dut.Add(c.A, c.B, f, c.Mode))
		var want uint64
		if c.HasExpect {
			want = f.CanonicalizeForCompare(c.Expect)
		} else {
			want = f.CanonicalizeForCompare(ref.Add(c.A, c.B, f, c.Mode))
		}
		if got == want {
			continue
		}

		res.Failures.Add(uint32(i))
		m := Mismatch{Index: i, Case: c, Got: got, Want: want}
		if limit < 0 || len(res.Mismatches) < limit {
			res.Mismatches = append(res.Mismatches, m)
		}
		if opts.OnMismatch != nil {
			opts.OnMismatch(m)
		}
	}
	return res, nil
}
