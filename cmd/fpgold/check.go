package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hupe1980/fpgold"
	"github.com/hupe1980/fpgold/blobstore"
	"github.com/hupe1980/fpgold/codec"
	"github.com/hupe1980/fpgold/format"
	ddbledger "github.com/hupe1980/fpgold/ledger/dynamodb"
	"github.com/hupe1980/fpgold/rounding"
	"github.com/hupe1980/fpgold/scoreboard"
	"github.com/hupe1980/fpgold/vector"
)

func parseWidths(s string) ([]format.Format, error) {
	var out []format.Format
	for _, part := range strings.Split(s, ",") {
		f, err := parseWidth(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func parseModes(s string) ([]rounding.Mode, error) {
	if s == "all" {
		return rounding.All(), nil
	}
	var out []rounding.Mode
	for _, part := range strings.Split(s, ",") {
		rm, err := fpgold.ParseMode(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	return out, nil
}

func gen(ctx context.Context, e *env, args []string) (int, error) {
	fs := newFlagSet("gen", e)
	widths := fs.String("width", "16,32,64", "comma separated widths")
	modes := fs.String("round", "all", "comma separated rounding modes or all")
	count := fs.Int("count", 10, "random pairs per set")
	seed := fs.Int64("seed", 1, "random seed")
	compress := fs.String("compress", "zstd", "block compression: none, lz4 or zstd")
	blockSize := fs.Int("block-size", 0, "uncompressed block size in bytes (0: default)")
	storeURI := fs.String("store", "", "store URI")
	if _, err := parseArgs(fs, args); err != nil {
		return exitUsage, err
	}

	formats, err := parseWidths(*widths)
	if err != nil {
		return 1, err
	}
	rms, err := parseModes(*modes)
	if err != nil {
		return 1, err
	}
	comp, err := vector.ParseCompression(*compress)
	if err != nil {
		return 1, err
	}
	store, err := openStore(ctx, *storeURI)
	if err != nil {
		return 1, err
	}

	opts := vector.WriterOptions{Compression: comp, BlockSize: *blockSize}
	src := scoreboard.GenerateSource(*count, *seed)
	for _, f := range formats {
		for _, rm := range rms {
			set, err := src(ctx, f, rm)
			if err != nil {
				return 1, err
			}
			start := time.Now()
			name, n, err := vector.Save(ctx, store, set, opts)
			e.metrics.RecordUpload(n, time.Since(start), err)
			e.logger.LogVectorSet(ctx, name, len(set.Cases), err)
			if err != nil {
				return 1, err
			}
			fmt.Fprintln(e.stdout, name)
		}
	}
	return 0, nil
}

func check(ctx context.Context, e *env, args []string) (int, error) {
	fs := newFlagSet("check", e)
	widths := fs.String("width", "16,32,64", "comma separated widths")
	modes := fs.String("round", "all", "comma separated rounding modes or all")
	count := fs.Int("count", 10, "random pairs per partition when generating")
	seed := fs.Int64("seed", 1, "random seed")
	workers := fs.Int("workers", 0, "parallel partitions (0: GOMAXPROCS)")
	dutName := fs.String("dut", "golden", "model under test: golden, exact, host, host-ftz")
	refName := fs.String("ref", "exact", "reference model: golden, exact, host, host-ftz")
	precision := fs.Int("precision", -1, "alignment precision of a golden model (default: per width)")
	vectors := fs.String("vectors", "", "comma separated stored vector sets, or all")
	storeURI := fs.String("store", "", "store URI for vector sets and reports")
	cacheBytes := fs.Int64("cache-bytes", 64<<20, "read cache for stored vector sets")
	reportCodec := fs.String("report", "", "store a report with this codec: "+strings.Join(codec.Names(), ", "))
	runID := fs.String("run", "", "run identifier (default: run-<unix time>)")
	ledgerTable := fs.String("ledger-table", "", "record partitions in this DynamoDB table")
	maxMismatches := fs.Int("max-mismatches", 100, "mismatches kept per partition (-1: all)")
	if _, err := parseArgs(fs, args); err != nil {
		return exitUsage, err
	}

	formats, err := parseWidths(*widths)
	if err != nil {
		return 1, err
	}
	rms, err := parseModes(*modes)
	if err != nil {
		return 1, err
	}
	dut, ok := scoreboard.ByName(*dutName, *precision)
	if !ok {
		return 1, fmt.Errorf("unknown model %q", *dutName)
	}
	ref, ok := scoreboard.ByName(*refName, *precision)
	if !ok {
		return 1, fmt.Errorf("unknown model %q", *refName)
	}
	if *runID == "" {
		*runID = "run-" + strconv.FormatInt(time.Now().Unix(), 10)
	}

	var store blobstore.BlobStore
	if *storeURI != "" {
		if store, err = openStore(ctx, *storeURI); err != nil {
			return 1, err
		}
	}

	cfg := scoreboard.Config{
		Workers:       *workers,
		RandomCount:   *count,
		Seed:          *seed,
		MaxMismatches: *maxMismatches,
		Logger:        e.logger.WithRun(*runID),
		Metrics:       e.metrics,
	}
	if *vectors != "" {
		if store == nil {
			return 1, fmt.Errorf("-vectors needs -store")
		}
		sets, err := loadSets(ctx, blobstore.NewCachingStore(store, *cacheBytes), *vectors, e.logger)
		if err != nil {
			return 1, err
		}
		cfg.Source = storedSource(sets)
	}

	sum, err := scoreboard.Run(ctx, cfg, dut, ref, formats, rms)
	if err != nil {
		return 1, err
	}
	if err := sum.Table(e.stdout); err != nil {
		return 1, err
	}
	e.logger.LogCheck(ctx, *runID, sum.Total(), sum.Failed(), nil)

	if *reportCodec != "" || *ledgerTable != "" {
		if err := publish(ctx, e, sum, store, *runID, *reportCodec, *ledgerTable); err != nil {
			return 1, err
		}
	}
	return sum.ExitCode(), nil
}

func publish(ctx context.Context, e *env, sum *scoreboard.Summary, store blobstore.BlobStore, run, codecName, table string) error {
	p := scoreboard.Publisher{Logger: e.logger, Metrics: e.metrics}
	if codecName != "" {
		c, ok := codec.ByName(codecName)
		if !ok {
			return fmt.Errorf("unknown codec %q", codecName)
		}
		if store == nil {
			return fmt.Errorf("-report needs -store")
		}
		p.Store, p.Codec = store, c
	}
	if table != "" {
		l, err := ddbledger.New(ctx, table)
		if err != nil {
			return err
		}
		p.Ledger = l
	}

	r, err := scoreboard.NewReport(run, sum, time.Now())
	if err != nil {
		return err
	}
	name, err := p.Publish(ctx, r)
	if err != nil {
		return err
	}
	if name != "" {
		fmt.Fprintln(e.stdout, "report:", name)
	}
	return nil
}

func loadSets(ctx context.Context, store blobstore.BlobStore, spec string, log *fpgold.Logger) ([]vector.Set, error) {
	var names []string
	if spec == "all" {
		var err error
		if names, err = vector.List(ctx, store); err != nil {
			return nil, err
		}
	} else {
		for _, n := range strings.Split(spec, ",") {
			names = append(names, strings.TrimSpace(n))
		}
	}

	sets := make([]vector.Set, 0, len(names))
	for _, name := range names {
		s, err := vector.Load(ctx, store, name)
		log.LogVectorSet(ctx, name, len(s.Cases), err)
		if err != nil {
			return nil, err
		}
		sets = append(sets, s)
	}
	return sets, nil
}

// storedSource serves each partition the stored cases of its width and mode.
func storedSource(sets []vector.Set) scoreboard.Source {
	return func(_ context.Context, f format.Format, rm rounding.Mode) (vector.Set, error) {
		out := vector.Set{Format: f}
		for _, s := range sets {
			if s.Format.Width() != f.Width() {
				continue
			}
			for _, c := range s.Cases {
				if c.Mode == rm {
					out.Cases = append(out.Cases, c)
				}
			}
		}
		return out, nil
	}
}
