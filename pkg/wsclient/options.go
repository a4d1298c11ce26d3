package wsclient

import (
	"log/slog"
	"time"
)

const defaultKeepalive = 1 * time.Second

// Option configures a Client at Dial time.
type Option func(*options)

type options struct {
	keepalive time.Duration
	logger    *slog.Logger
	opsBuffer int
}

func defaultOptions() options {
	return options{
		keepalive: defaultKeepalive,
		logger:    slog.Default(),
		opsBuffer: 1024,
	}
}

// WithKeepalive overrides the interval between keepalive pings sent to
// the server. The default is 1s.
func WithKeepalive(d time.Duration) Option {
	return func(o *options) { o.keepalive = d }
}

// WithLogger overrides the structured logger used for connection-level
// diagnostics. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}
