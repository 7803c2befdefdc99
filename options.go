package fpgold

import "log/slog"

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
	precision        uint
	fixedPrecision   bool
}

// Option configures a Model.
type Option func(*options)

// WithMetrics configures a metrics collector.
// If nil is passed, metrics are disabled.
func WithMetrics(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures the logger.
// If nil is passed, logging is disabled.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel configures a text logger at the given level.
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithPrecision fixes the alignment precision for every width. Without it
// the model uses adder.DefaultPrecision: 32 bits for binary16, 7 otherwise.
func WithPrecision(p uint) Option {
	return func(o *options) {
		o.precision = p
		o.fixedPrecision = true
	}
}
