package repository

import "time"

const defaultMetricsUpdateInterval = 5 * time.Second

type options struct {
	metricsUpdateInterval time.Duration
	now                   func() time.Time
}

func defaultOptions() options {
	return options{
		metricsUpdateInterval: defaultMetricsUpdateInterval,
		now:                   time.Now,
	}
}

// Option applies a configuration option to a store.
type Option func(*options)

// WithMetricsUpdateInterval sets the interval for background metrics updates.
func WithMetricsUpdateInterval(interval time.Duration) Option {
	return func(o *options) {
		if interval > 0 {
			o.metricsUpdateInterval = interval
		}
	}
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}
