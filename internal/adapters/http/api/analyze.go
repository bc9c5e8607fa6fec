package api

import (
	"context"
	"net/http"
	"time"

	"github.com/emopulse/emopulse-api/internal/domain/analysis"
	"github.com/emopulse/emopulse-api/internal/domain/model"
	"github.com/emopulse/emopulse-api/pkg/logger"
)

// AnalysisDependencies defines the interface for response generation.
type AnalysisDependencies interface {
	Analyze(ctx context.Context, route string, payload map[string]any) (analysis.Envelope, error)
	Rotate(ctx context.Context, payload map[string]any) (string, error)
	RecordUsage(ctx context.Context, u model.Usage)
}

// AnalyzeHandler serves POST /api/<name>.
type AnalyzeHandler struct {
	deps         AnalysisDependencies
	maxBodyBytes int64
	logger       logger.Logger
}

// NewAnalyzeHandler creates a new analyze handler.
func NewAnalyzeHandler(deps AnalysisDependencies, maxBodyBytes int64, log logger.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{deps: deps, maxBodyBytes: maxBodyBytes, logger: log}
}

// Handle returns the handler for one route name.
func (h *AnalyzeHandler) Handle(route string) http.HandlerFunc {
	op := "api.analyze." + route
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := r.Context()

		status := h.serve(ctx, op, route, w, r)

		h.deps.RecordUsage(ctx, model.Usage{
			RequestID: logger.RequestIDFromContext(ctx),
			Route:     route,
			Status:    status,
			Latency:   time.Since(start),
		})
	}
}

func (h *AnalyzeHandler) serve(ctx context.Context, op, route string, w http.ResponseWriter, r *http.Request) int {
	payload, err := decodeBody(op, w, r, h.maxBodyBytes)
	if err != nil {
		return writeFailure(ctx, w, h.logger, err)
	}
	env, err := h.deps.Analyze(ctx, route, payload)
	if err != nil {
		return writeFailure(ctx, w, h.logger, Wrap(op, err))
	}
	writeJSON(w, http.StatusOK, env)
	return http.StatusOK
}
