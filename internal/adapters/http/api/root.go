package api

import (
	"context"
	"net/http"
	"time"

	"github.com/emopulse/emopulse-api/internal/domain/model"
	"github.com/emopulse/emopulse-api/pkg/logger"
)

const (
	rootMessage = "Emopulse API is running"
	rotateRoute = "rotate"
)

// RootHandler serves GET / and the POST / rotate endpoint.
type RootHandler struct {
	deps         AnalysisDependencies
	maxBodyBytes int64
	logger       logger.Logger
}

// NewRootHandler creates a new root handler.
func NewRootHandler(deps AnalysisDependencies, maxBodyBytes int64, log logger.Logger) *RootHandler {
	return &RootHandler{deps: deps, maxBodyBytes: maxBodyBytes, logger: log}
}

// HandleRoot handles GET / requests.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(rootMessage))
}

type rotateResponse struct {
	Rotated string `json:"rotated"`
}

// HandleRotate handles POST / requests: {"text":"abc"} -> {"rotated":"cba"}.
func (h *RootHandler) HandleRotate(w http.ResponseWriter, r *http.Request) {
	const op = "api.rotate"
	start := time.Now()
	ctx := r.Context()

	status := h.rotate(ctx, op, w, r)

	h.deps.RecordUsage(ctx, model.Usage{
		RequestID: logger.RequestIDFromContext(ctx),
		Route:     rotateRoute,
		Status:    status,
		Latency:   time.Since(start),
	})
}

func (h *RootHandler) rotate(ctx context.Context, op string, w http.ResponseWriter, r *http.Request) int {
	payload, err := decodeBody(op, w, r, h.maxBodyBytes)
	if err != nil {
		return writeFailure(ctx, w, h.logger, err)
	}
	rotated, err := h.deps.Rotate(ctx, payload)
	if err != nil {
		return writeFailure(ctx, w, h.logger, Wrap(op, err))
	}
	writeJSON(w, http.StatusOK, rotateResponse{Rotated: rotated})
	return http.StatusOK
}
