// Command fpgold evaluates the golden floating-point adder and runs the
// verification scoreboard.
//
// Usage:
//
//	fpgold [-log-format text|json] [-v] [-metrics-addr addr] <command> [args]
//
// Commands:
//
//	add <width> <a> <b>         a + b, printed in the radix of a
//	sub <width> <a> <b>         a - b
//	print <width> <n>...        value in fixed and scientific notation
//	classify <width> <n>...     IEEE class and classifier flag word
//	narrow <from> <to> <n>...   convert between widths
//	special <width> [name]...   special value table
//	gen                         write generated vector sets to a store
//	check                       run the scoreboard and print the verdict table
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/hupe1980/fpgold"
	promcollector "github.com/hupe1980/fpgold/metrics/prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const exitUsage = 2

// errUsage marks errors already reported by a flag set.
var errUsage = errors.New("usage")

type env struct {
	stdout  io.Writer
	stderr  io.Writer
	logger  *fpgold.Logger
	metrics fpgold.MetricsCollector
}

type command func(ctx context.Context, e *env, args []string) (int, error)

var commands = map[string]command{
	"add":      arith(false),
	"sub":      arith(true),
	"print":    printValues,
	"classify": classify,
	"narrow":   narrow,
	"special":  special,
	"gen":      gen,
	"check":    check,
}

var usages = map[string]string{
	"add":      "add <width> <a> <b> [-round mode] [-precision P]",
	"sub":      "sub <width> <a> <b> [-round mode] [-precision P]",
	"print":    "print <width> <n>...",
	"classify": "classify <width> <n>...",
	"narrow":   "narrow <from> <to> <n>... [-round mode]",
	"special":  "special <width> [name]...",
	"gen":      "gen -store URI [-width 16,32,64] [-round all] [-count N] [-compress zstd]",
	"check":    "check [-width 16,32,64] [-round all] [-dut golden] [-ref exact] [-vectors names] [-store URI]",
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("fpgold", flag.ContinueOnError)
	fs.SetOutput(stderr)
	logFormat := fs.String("log-format", "text", "log format: text or json")
	verbose := fs.Bool("v", false, "debug logging")
	metricsAddr := fs.String("metrics-addr", "", "serve Prometheus metrics on this address")
	fs.Usage = func() { usage(stderr, fs) }

	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return exitUsage
	}
	name := fs.Arg(0)
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(stderr, "fpgold: unknown command %q\n", name)
		fs.Usage()
		return exitUsage
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	e := &env{stdout: stdout, stderr: stderr, metrics: fpgold.NoopMetricsCollector{}}
	switch *logFormat {
	case "text":
		e.logger = fpgold.NewLogger(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	case "json":
		e.logger = fpgold.NewLogger(slog.NewJSONHandler(stderr, &slog.HandlerOptions{Level: level}))
	default:
		fmt.Fprintf(stderr, "fpgold: invalid -log-format %q (want text or json)\n", *logFormat)
		return exitUsage
	}

	if *metricsAddr != "" {
		shutdown, err := serveMetrics(e, *metricsAddr)
		if err != nil {
			fmt.Fprintf(stderr, "fpgold: %v\n", err)
			return 1
		}
		defer shutdown()
	}

	code, err := cmd(ctx, e, fs.Args()[1:])
	switch {
	case errors.Is(err, errUsage):
		return exitUsage
	case err != nil:
		fmt.Fprintf(stderr, "fpgold %s: %v\n", name, err)
		if code == 0 {
			code = 1
		}
	}
	return code
}

func usage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(w, "Usage: fpgold [flags] <command> [args]")
	fmt.Fprintln(w, "\nFlags:")
	fs.PrintDefaults()
	fmt.Fprintln(w, "\nCommands:")
	names := make([]string, 0, len(usages))
	for n := range usages {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(w, "  %s\n", usages[n])
	}
}

func serveMetrics(e *env, addr string) (func(), error) {
	reg := prometheus.NewRegistry()
	e.metrics = promcollector.NewCollector(reg)

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listener: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.logger.Error("metrics server failed", "error", err)
		}
	}()
	e.logger.Info("serving metrics", "addr", ln.Addr().String())

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}

// newFlagSet creates a subcommand flag set that reports to e.stderr.
func newFlagSet(name string, e *env) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	fs.Usage = func() {
		fmt.Fprintf(e.stderr, "Usage: fpgold %s\n", usages[name])
		fs.PrintDefaults()
	}
	return fs
}

// parseArgs parses flags that may appear before, between or after the
// positional arguments and returns the positionals.
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	var pos []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, errUsage
		}
		args = fs.Args()
		if len(args) == 0 {
			return pos, nil
		}
		pos = append(pos, args[0])
		args = args[1:]
	}
}
