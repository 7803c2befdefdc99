// Package prometheus exports fpgold metrics to Prometheus.
package prometheus

import (
	"strconv"
	"time"

	"github.com/hupe1980/fpgold"
	"github.com/hupe1980/fpgold/format"
	"github.com/hupe1980/fpgold/rounding"
	"github.com/prometheus/client_golang/prometheus"
)

// Collector implements fpgold.MetricsCollector with Prometheus metrics.
type Collector struct {
	adds          *prometheus.CounterVec
	addLatency    *prometheus.HistogramVec
	checks        *prometheus.CounterVec
	checkCases    *prometheus.CounterVec
	checkFailures *prometheus.CounterVec
	checkLatency  *prometheus.HistogramVec
	uploads       *prometheus.CounterVec
	uploadBytes   prometheus.Counter
	uploadLatency prometheus.Histogram
}

var _ fpgold.MetricsCollector = (*Collector)(nil)

// NewCollector creates a Collector and registers its metrics with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	c := &Collector{
		adds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fpgold_adds_total",
			Help: "Total model evaluations by width and result class",
		}, []string{"width", "class"}),
		addLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fpgold_add_latency_seconds",
			Help:    "Latency of model evaluations",
			Buckets: prometheus.ExponentialBuckets(1e-8, 4, 10),
		}, []string{"width"}),
		checks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fpgold_checks_total",
			Help: "Scoreboard partitions checked",
		}, []string{"width", "mode", "status"}),
		checkCases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fpgold_check_cases_total",
			Help: "Cases compared by the scoreboard",
		}, []string{"width", "mode"}),
		checkFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fpgold_check_failures_total",
			Help: "Cases where the device under test disagreed with the reference",
		}, []string{"width", "mode"}),
		checkLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fpgold_check_latency_seconds",
			Help:    "Duration of scoreboard partitions",
			Buckets: prometheus.DefBuckets,
		}, []string{"width"}),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fpgold_uploads_total",
			Help: "Blobs written to a store",
		}, []string{"status"}),
		uploadBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fpgold_upload_bytes_total",
			Help: "Bytes written to a store",
		}),
		uploadLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "fpgold_upload_latency_seconds",
			Help:    "Latency of blob writes",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.adds, c.addLatency,
		c.checks, c.checkCases, c.checkFailures, c.checkLatency,
		c.uploads, c.uploadBytes, c.uploadLatency,
	)
	return c
}

// RecordAdd implements fpgold.MetricsCollector.
func (c *Collector) RecordAdd(width int, class format.Class, d time.Duration) {
	w := strconv.Itoa(width)
	c.adds.WithLabelValues(w, class.String()).Inc()
	c.addLatency.WithLabelValues(w).Observe(d.Seconds())
}

// RecordCheck implements fpgold.MetricsCollector.
func (c *Collector) RecordCheck(width int, mode rounding.Mode, total, failed int, d time.Duration) {
	w, m := strconv.Itoa(width), mode.String()
	status := "pass"
	if failed > 0 {
		status = "fail"
	}
	c.checks.WithLabelValues(w, m, status).Inc()
	c.checkCases.WithLabelValues(w, m).Add(float64(total))
	c.checkFailures.WithLabelValues(w, m).Add(float64(failed))
	c.checkLatency.WithLabelValues(w).Observe(d.Seconds())
}

// RecordUpload implements fpgold.MetricsCollector.
func (c *Collector) RecordUpload(bytes int, d time.Duration, err error) {
	if err != nil {
		c.uploads.WithLabelValues("error").Inc()
		return
	}
	c.uploads.WithLabelValues("success").Inc()
	c.uploadBytes.Add(float64(bytes))
	c.uploadLatency.Observe(d.Seconds())
}
