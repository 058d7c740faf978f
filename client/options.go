package client

import (
	"io"
	"time"

	"go.uber.org/zap"

	"weavelab.xyz/latsweep/metric"
	"weavelab.xyz/latsweep/payloads"
	"weavelab.xyz/latsweep/stats"
)

type Option func(*Driver)

func WithLogger(l *zap.Logger) Option {
	return func(d *Driver) {
		if l != nil {
			d.logger = l
		}
	}
}

func WithMetrics(m metric.ClientMetrics) Option {
	return func(d *Driver) {
		d.metrics = m
	}
}

// WithPayloadSource sets where payload bytes are read from.
func WithPayloadSource(r io.Reader) Option {
	return func(d *Driver) {
		d.source = r
	}
}

// WithObserver is called after each completed step, from the Run goroutine.
func WithObserver(f func(k int, s payloads.Step)) Option {
	return func(d *Driver) {
		d.observer = f
	}
}

func WithClock(now func() time.Time) Option {
	return func(d *Driver) {
		d.now = now
	}
}

func WithOSStats(s stats.OSStats) Option {
	return func(d *Driver) {
		d.osStats = s
	}
}
