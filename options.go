package incdbscan

import (
	"log/slog"
)

type options struct {
	epsilon   float64
	minPoints int
	p         float64
	logger    *Logger
	metrics   MetricsCollector
}

// Option configures engine construction.
type Option func(*options)

// WithEpsilon configures the neighborhood radius. Two points are neighbors
// when their distance is at most epsilon (inclusive). Must be > 0.
// Default: 1.0.
func WithEpsilon(epsilon float64) Option {
	return func(o *options) {
		o.epsilon = epsilon
	}
}

// WithMinPoints configures the core-point threshold: a point is a core
// point when at least minPoints points (counting duplicates and itself) lie
// within epsilon of it. Must be >= 1. Default: 5.
func WithMinPoints(minPoints int) Option {
	return func(o *options) {
		o.minPoints = minPoints
	}
}

// WithP configures the Minkowski distance parameter. Must be >= 1;
// +Inf selects the Chebyshev distance. Default: 2.0 (Euclidean).
func WithP(p float64) Option {
	return func(o *options) {
		o.p = p
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// operations. Pass nil to disable metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metrics = mc
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		epsilon:   1.0,
		minPoints: 5,
		p:         2.0,
		logger:    NoopLogger(),
		metrics:   NoopMetricsCollector{},
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
