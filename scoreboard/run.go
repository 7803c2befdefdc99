package scoreboard

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"github.com/hupe1980/fpgold"
	"github.com/hupe1980/fpgold/format"
	"github.com/hupe1980/fpgold/rounding"
	"github.com/hupe1980/fpgold/vector"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Source returns the cases of one partition.
type Source func(ctx context.Context, f format.Format, rm rounding.Mode) (vector.Set, error)

// Config configures Run.
type Config struct {
	// Workers bounds the partitions checked in parallel. Default: GOMAXPROCS.
	Workers int
	// RandomCount is the number of random pairs per partition when cases are
	// generated. Default: 10.
	RandomCount int
	// Seed seeds generation; each partition derives its own stream from it.
	Seed int64
	// ProgressEvery throttles progress logs. Default: 5s.
	ProgressEvery time.Duration
	// MismatchLogRate caps mismatch log lines per second. Default: 20.
	MismatchLogRate float64
	// MaxMismatches bounds the mismatches kept per partition (see CompareOptions).
	MaxMismatches int
	// Source overrides case generation, for example to load stored sets.
	Source Source

	Logger  *fpgold.Logger
	Metrics fpgold.MetricsCollector
}

func (c *Config) setDefaults() {
	if c.Workers <= 0 {
		c.Workers = runtime.GOMAXPROCS(0)
	}
	if c.RandomCount == 0 {
		c.RandomCount = 10
	}
	if c.ProgressEvery <= 0 {
		c.ProgressEvery = 5 * time.Second
	}
	if c.MismatchLogRate <= 0 {
		c.MismatchLogRate = 20
	}
	if c.Logger == nil {
		c.Logger = fpgold.NoopLogger()
	}
	if c.Metrics == nil {
		c.Metrics = fpgold.NoopMetricsCollector{}
	}
	if c.Source == nil {
		c.Source = GenerateSource(c.RandomCount, c.Seed)
	}
}

// GenerateSource generates cases with vector.Generate. Partitions get
// distinct seeds so widths and modes do not share random pairs.
func GenerateSource(randomCount int, seed int64) Source {
	return func(_ context.Context, f format.Format, rm rounding.Mode) (vector.Set, error) {
		return vector.Generate(f, rm, vector.GenerateOptions{
			RandomCount: randomCount,
			Seed:        seed + int64(f.Width())*16 + int64(rm),
		}), nil
	}
}

// Row is the outcome of one (width, mode) partition.
type Row struct {
	Width    int
	Mode     rounding.Mode
	Total    int
	Failed   int
	Duration time.Duration
}

// Summary is the outcome of Run. Rows and Results are ordered by width,
// then mode, in the order they were requested.
type Summary struct {
	DUT       string
	Reference string
	Rows      []Row
	Results   []Result
}

// Total returns the number of checked cases.
func (s *Summary) Total() int {
	n := 0
	for _, r := range s.Rows {
		n += r.Total
	}
	return n
}

// Failed returns the number of failing cases.
func (s *Summary) Failed() int {
	n := 0
	for _, r := range s.Rows {
		n += r.Failed
	}
	return n
}

// ExitCode is the process status for the run: the failure count capped at 255.
func (s *Summary) ExitCode() int { return min(s.Failed(), 255) }

// Err returns a *MismatchError when any case failed.
func (s *Summary) Err() error {
	if s.Failed() == 0 {
		return nil
	}
	err := &MismatchError{Failed: s.Failed(), Total: s.Total()}
	for _, r := range s.Results {
		if len(r.Mismatches) > 0 {
			m := r.Mismatches[0]
			err.First = &m
			err.Format = r.Format
			break
		}
	}
	return err
}

var tableCols = []int{8, 5, 15, 20}

// Table writes the verdict table.
func (s *Summary) Table(w io.Writer) error {
	line := func(cells ...string) string {
		parts := make([]string, len(cells))
		for i, c := range cells {
			parts[i] = fmt.Sprintf("%-*s", tableCols[i], c)
		}
		return strings.Join(parts, " | ")
	}

	width := 3 * (len(tableCols) - 1)
	for _, c := range tableCols {
		width += c
	}

	var b strings.Builder
	b.WriteString(line("Verdict", "Width", "Rounding Mode", "ADD (errors/total)") + "\n")
	b.WriteString(strings.Repeat("-", width) + "\n")
	for _, r := range s.Rows {
		verdict := "PASS"
		if r.Failed > 0 {
			verdict = "FAIL"
		}
		b.WriteString(line(verdict, fmt.Sprintf("fp%d", r.Width), r.Mode.String(), fmt.Sprintf("%d / %d", r.Failed, r.Total)) + "\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Run checks dut against ref for every combination of formats and modes.
// Partitions run in parallel; the first error cancels the rest.
func Run(ctx context.Context, cfg Config, dut, ref Reference, formats []format.Format, modes []rounding.Mode) (*Summary, error) {
	cfg.setDefaults()

	n := len(formats) * len(modes)
	sum := &Summary{
		DUT:       dut.Name(),
		Reference: ref.Name(),
		Rows:      make([]Row, n),
		Results:   make([]Result, n),
	}

	var (
		done     atomic.Int64
		progress = rate.Sometimes{Interval: cfg.ProgressEvery}
		limiter  = rate.NewLimiter(rate.Limit(cfg.MismatchLogRate), int(max(cfg.MismatchLogRate, 1)))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)

	for i, f := range formats {
		for j, rm := range modes {
			idx := i*len(modes) + j
			g.Go(func() error {
				log := cfg.Logger.WithFormat(f).WithMode(rm)
				name := fmt.Sprintf("%s/%s", f, rm)
				start := time.Now()

				set, err := cfg.Source(gctx, f, rm)
				if err != nil {
					log.LogCheck(gctx, name, 0, 0, err)
					return fmt.Errorf("scoreboard: cases for %s: %w", name, err)
				}

				res, err := Compare(gctx, dut, ref, set, CompareOptions{
					MaxMismatches: cfg.MaxMismatches,
					OnMismatch: func(m Mismatch) {
						if limiter.Allow() {
							cfg.Logger.LogMismatch(gctx, f, m.Case.Mode, m.Case.A, m.Case.B, m.Got, m.Want)
						}
					},
				})
				if err != nil {
					log.LogCheck(gctx, name, res.Total, res.Failed(), err)
					return err
				}
				res.Mode = rm

				elapsed := time.Since(start)
				sum.Results[idx] = res
				sum.Rows[idx] = Row{Width: int(f.Width()), Mode: rm, Total: res.Total, Failed: res.Failed(), Duration: elapsed}
				cfg.Metrics.RecordCheck(int(f.Width()), rm, res.Total, res.Failed(), elapsed)
				log.LogCheck(gctx, name, res.Total, res.Failed(), nil)

				finished := done.Add(1)
				progress.Do(func() {
					cfg.Logger.InfoContext(gctx, "check progress", "done", finished, "partitions", n)
				})
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sum, nil
}
