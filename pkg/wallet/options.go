package wallet

import (
	"log/slog"
	"net/http"
	"time"
)

const (
	DefaultTimeout      = 10 * time.Second
	DefaultMaxIdleConns = 100
)

type options struct {
	httpClient    *http.Client
	timeout       time.Duration
	maxIdleConns  int
	logger        *slog.Logger
	checkResponse bool
}

// Option configures a Client.
type Option func(*options)

// WithHTTPClient replaces the pooled default client. The client's Timeout is
// overridden when WithTimeout is also given.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) {
		o.httpClient = hc
	}
}

// WithTimeout bounds every call, health check included.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

func WithMaxIdleConns(n int) Option {
	return func(o *options) {
		o.maxIdleConns = n
	}
}

// WithLogger sets the logger used for per-call debug lines. Defaults to
// slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithResponseIDCheck makes every call fail with a decode error when the
// response id differs from the request id.
func WithResponseIDCheck() Option {
	return func(o *options) {
		o.checkResponse = true
	}
}

func buildOptions(opts []Option) options {
	o := options{
		timeout:      DefaultTimeout,
		maxIdleConns: DefaultMaxIdleConns,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.httpClient == nil {
		o.httpClient = &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        o.maxIdleConns,
				MaxIdleConnsPerHost: o.maxIdleConns,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	} else {
		hc := *o.httpClient
		o.httpClient = &hc
	}
	if o.timeout > 0 {
		o.httpClient.Timeout = o.timeout
	}
	return o
}
