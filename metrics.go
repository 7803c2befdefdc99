package fpgold

import (
	"sync/atomic"
	"time"

	"github.com/hupe1980/fpgold/format"
	"github.com/hupe1980/fpgold/rounding"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; package
// metrics/prometheus provides a Prometheus implementation.
type MetricsCollector interface {
	// RecordAdd is called after each model evaluation with the result class.
	RecordAdd(width int, class format.Class, duration time.Duration)

	// RecordCheck is called after each scoreboard partition.
	// total is the number of cases compared, failed the number of mismatches.
	RecordCheck(width int, mode rounding.Mode, total, failed int, duration time.Duration)

	// RecordUpload is called after each blob written to a store.
	RecordUpload(bytes int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordAdd(int, format.Class, time.Duration)              {}
func (NoopMetricsCollector) RecordCheck(int, rounding.Mode, int, int, time.Duration) {}
func (NoopMetricsCollector) RecordUpload(int, time.Duration, error)                  {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	AddCount        atomic.Int64
	AddNaNs         atomic.Int64
	AddInfs         atomic.Int64
	AddZeros        atomic.Int64
	AddTotalNanos   atomic.Int64
	CheckCount      atomic.Int64
	CheckCases      atomic.Int64
	CheckFailed     atomic.Int64
	CheckTotalNanos atomic.Int64
	UploadCount     atomic.Int64
	UploadBytes     atomic.Int64
	UploadErrors    atomic.Int64
}

// RecordAdd implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAdd(width int, class format.Class, duration time.Duration) {
	b.AddCount.Add(1)
	b.AddTotalNanos.Add(duration.Nanoseconds())
	switch {
	case class.IsNaN():
		b.AddNaNs.Add(1)
	case class.IsInf():
		b.AddInfs.Add(1)
	case class.IsZero():
		b.AddZeros.Add(1)
	}
}

// RecordCheck implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCheck(width int, mode rounding.Mode, total, failed int, duration time.Duration) {
	b.CheckCount.Add(1)
	b.CheckCases.Add(int64(total))
	b.CheckFailed.Add(int64(failed))
	b.CheckTotalNanos.Add(duration.Nanoseconds())
}

// RecordUpload implements MetricsCollector.
func (b *BasicMetricsCollector) RecordUpload(bytes int, duration time.Duration, err error) {
	b.UploadCount.Add(1)
	if err != nil {
		b.UploadErrors.Add(1)
		return
	}
	b.UploadBytes.Add(int64(bytes))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		AddCount:     b.AddCount.Load(),
		AddNaNs:      b.AddNaNs.Load(),
		AddInfs:      b.AddInfs.Load(),
		AddZeros:     b.AddZeros.Load(),
		AddAvgNanos:  avg(b.AddTotalNanos.Load(), b.AddCount.Load()),
		CheckCount:   b.CheckCount.Load(),
		CheckCases:   b.CheckCases.Load(),
		CheckFailed:  b.CheckFailed.Load(),
		UploadCount:  b.UploadCount.Load(),
		UploadBytes:  b.UploadBytes.Load(),
		UploadErrors: b.UploadErrors.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	AddCount     int64
	AddNaNs      int64
	AddInfs      int64
	AddZeros     int64
	AddAvgNanos  int64
	CheckCount   int64
	CheckCases   int64
	CheckFailed  int64
	UploadCount  int64
	UploadBytes  int64
	UploadErrors int64
}
