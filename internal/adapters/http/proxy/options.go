package proxy

import (
	"net/http"
	"time"

	"github.com/emopulse/emopulse-api/pkg/logger"
)

// Option configures a Proxy.
type Option func(*Proxy)

// WithTimeout bounds each upstream round trip.
func WithTimeout(d time.Duration) Option {
	return func(p *Proxy) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithPrefix changes the mount prefix (default /demo).
func WithPrefix(prefix string) Option {
	return func(p *Proxy) {
		if prefix != "" && prefix != "/" {
			p.prefix = prefix
		}
	}
}

// WithTransport replaces the upstream transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(p *Proxy) {
		if rt != nil {
			p.transport = rt
		}
	}
}

// WithLogger sets the logger upstream failures are reported to.
func WithLogger(l logger.Logger) Option {
	return func(p *Proxy) {
		if l != nil {
			p.logger = l
		}
	}
}
