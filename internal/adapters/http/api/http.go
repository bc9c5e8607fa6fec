// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/emopulse/emopulse-api/internal/adapters/repository"
	"github.com/emopulse/emopulse-api/internal/domain/analysis"
	"github.com/emopulse/emopulse-api/pkg/logger"
)

const (
	defaultMaxBodyBytes  = 100 << 10
	defaultMaxUsageLimit = 100
)

// UsageEntry mirrors the read shape returned by usage queries.
type UsageEntry = repository.Entry

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	AnalysisDependencies
	HealthDependencies
	UsageDependencies
	RoutesDependencies
	StatsProvider
}

// Server wires HTTP routes for the business API.
type Server struct {
	rootHandler     *RootHandler
	healthHandler   *HealthHandler
	analyzeHandler  *AnalyzeHandler
	usageHandler    *UsageHandler
	routesHandler   *RoutesHandler
	statsHandler    *StatsHandler
	metricsHandler  http.Handler
	notFoundHandler http.HandlerFunc

	deps Dependencies
}

type serverConfig struct {
	maxBodyBytes  int64
	maxUsageLimit int
	logger        logger.Logger
}

// ServerOption configures NewServer.
type ServerOption func(*serverConfig)

// WithMaxBodyBytes caps request bodies; larger bodies fail with 500.
func WithMaxBodyBytes(n int64) ServerOption {
	return func(c *serverConfig) {
		if n > 0 {
			c.maxBodyBytes = n
		}
	}
}

// WithMaxUsageLimit caps the limit query parameter of GET /api/usage.
func WithMaxUsageLimit(n int) ServerOption {
	return func(c *serverConfig) {
		if n > 0 {
			c.maxUsageLimit = n
		}
	}
}

// WithLogger sets the logger handlers report internal errors to.
func WithLogger(l logger.Logger) ServerOption {
	return func(c *serverConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...ServerOption) *Server {
	cfg := serverConfig{
		maxBodyBytes:  defaultMaxBodyBytes,
		maxUsageLimit: defaultMaxUsageLimit,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = logger.Get().Named("api")
	}

	return &Server{
		rootHandler:     NewRootHandler(deps, cfg.maxBodyBytes, cfg.logger),
		healthHandler:   NewHealthHandler(deps),
		analyzeHandler:  NewAnalyzeHandler(deps, cfg.maxBodyBytes, cfg.logger),
		usageHandler:    NewUsageHandler(deps, cfg.maxUsageLimit),
		routesHandler:   NewRoutesHandler(deps),
		statsHandler:    NewStatsHandler(deps),
		metricsHandler:  NewMetricsHandler(),
		notFoundHandler: HandleNotFound,
		deps:            deps,
	}
}

// Register attaches all HTTP routes to mux. Unmatched requests fall through
// to the JSON 404 handler.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", MetricsMiddleware(s.rootHandler.HandleRoot, "root"))
	mux.HandleFunc("POST /{$}", MetricsMiddleware(s.rootHandler.HandleRotate, "rotate"))
	mux.HandleFunc("GET /api/health", MetricsMiddleware(s.healthHandler.HandleHealth, "health"))
	mux.HandleFunc("GET /api/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("GET /api/usage", MetricsMiddleware(s.usageHandler.HandleTopUsage, "usage"))
	mux.HandleFunc("GET /api/usage/{route}", MetricsMiddleware(s.usageHandler.HandleRouteUsage, "usage_route"))
	mux.HandleFunc("GET /api/routes", MetricsMiddleware(s.routesHandler.HandleRoutes, "routes"))
	mux.Handle("GET /metrics", s.metricsHandler)

	for _, rt := range s.deps.Routes() {
		mux.HandleFunc("POST /api/"+rt.Name, MetricsMiddleware(s.analyzeHandler.Handle(rt.Name), "analyze"))
	}

	mux.HandleFunc("/", MetricsMiddleware(s.notFoundHandler, "not_found"))
}

// errorResponse is the JSON error body. Message is omitted for client
// validation errors.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, title string, err error) {
	resp := errorResponse{Error: title}
	if err != nil {
		resp.Message = cause(err).Error()
	}
	writeJSON(w, status, resp)
}

// writeFailure maps a handler error to its status and body and returns the
// status written. Missing fields are the only client error; body decoding
// failures, oversized bodies included, are internal errors carrying the
// parser message.
func writeFailure(ctx context.Context, w http.ResponseWriter, log logger.Logger, err error) int {
	var verr *analysis.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: verr.Error()})
		return http.StatusBadRequest
	default:
		log.Error(ctx, "API Error", logger.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal server error", err)
		return http.StatusInternalServerError
	}
}
