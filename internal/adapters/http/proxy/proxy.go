// Package proxy forwards a path prefix to the external demo service.
package proxy

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"time"

	"github.com/emopulse/emopulse-api/pkg/logger"
	"github.com/emopulse/emopulse-api/pkg/metrics"
)

const (
	defaultPrefix  = "/demo"
	defaultTimeout = 10 * time.Second
)

// Proxy is a reverse proxy mounted under a prefix that is stripped before
// forwarding: /demo/x -> <target>/x, /demo -> <target>/.
type Proxy struct {
	target    *url.URL
	prefix    string
	timeout   time.Duration
	transport http.RoundTripper
	logger    logger.Logger
	rp        *httputil.ReverseProxy
}

// New creates a proxy to target, an absolute http(s) URL.
func New(target string, opts ...Option) (*Proxy, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTarget, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTarget, target)
	}

	p := &Proxy{
		target:    u,
		prefix:    defaultPrefix,
		timeout:   defaultTimeout,
		transport: http.DefaultTransport,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = logger.Get().Named("proxy")
	}

	p.rp = &httputil.ReverseProxy{
		Rewrite:        p.rewrite,
		Transport:      p.transport,
		ModifyResponse: p.modifyResponse,
		ErrorHandler:   p.handleError,
		FlushInterval:  -1,
	}
	return p, nil
}

// Register mounts the proxy on mux at the prefix and everything below it.
func (p *Proxy) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle(p.prefix, p)
	mux.Handle(p.prefix+"/", p)
}

func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), p.timeout)
	defer cancel()
	p.rp.ServeHTTP(w, r.WithContext(ctx))
}

func (p *Proxy) rewrite(pr *httputil.ProxyRequest) {
	pr.Out.URL.Path = p.strip(pr.In.URL.Path)
	if pr.In.URL.RawPath != "" {
		pr.Out.URL.RawPath = p.strip(pr.In.URL.RawPath)
	}
	pr.SetURL(p.target)
	pr.SetXForwarded()
}

func (p *Proxy) strip(path string) string {
	rest := strings.TrimPrefix(path, p.prefix)
	if rest == "" || rest[0] != '/' {
		rest = "/" + rest
	}
	return rest
}

func (p *Proxy) modifyResponse(*http.Response) error {
	metrics.RecordProxyRequest("ok")
	return nil
}

func (p *Proxy) handleError(w http.ResponseWriter, r *http.Request, err error) {
	metrics.RecordProxyRequest("error")
	p.logger.Error(r.Context(), "demo proxy failed",
		logger.String("path", r.URL.Path),
		logger.Error(fmt.Errorf("%w: %w", ErrUpstream, err)),
	)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusBadGateway)
	_ = json.NewEncoder(w).Encode(struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}{Error: "Bad gateway", Message: err.Error()})
}
