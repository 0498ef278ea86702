package dispatch

import (
	"log/slog"

	"github.com/atlanticdynamic/lynxeval/internal/metrics"
)

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogHandler sets the handler for dispatcher logs.
func WithLogHandler(handler slog.Handler) Option {
	return func(d *Dispatcher) {
		if handler != nil {
			d.logger = slog.New(handler).WithGroup("dispatch.Dispatcher")
		}
	}
}

// WithMetrics records session and evaluation metrics on c.
func WithMetrics(c *metrics.Collector) Option {
	return func(d *Dispatcher) {
		d.metrics = c
	}
}

// WithMaxConcurrent caps the number of evaluations running at once across all
// sessions. Zero or less means no cap.
func WithMaxConcurrent(n int64) Option {
	return func(d *Dispatcher) {
		d.maxConcurrent = n
	}
}
