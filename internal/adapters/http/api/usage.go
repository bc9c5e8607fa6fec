package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/emopulse/emopulse-api/internal/adapters/repository"
)

const defaultUsageLimit = 10

// UsageDependencies defines the interface for usage reads.
type UsageDependencies interface {
	TopUsage(ctx context.Context, n int) ([]UsageEntry, error)
	RouteUsage(ctx context.Context, route string) (UsageEntry, error)
}

// UsageHandler handles usage requests.
type UsageHandler struct {
	deps     UsageDependencies
	maxLimit int
}

// NewUsageHandler creates a new usage handler.
func NewUsageHandler(deps UsageDependencies, maxLimit int) *UsageHandler {
	return &UsageHandler{deps: deps, maxLimit: maxLimit}
}

// HandleTopUsage handles GET /api/usage?limit=N requests. limit defaults to
// 10 and must be within [1, maxLimit].
func (h *UsageHandler) HandleTopUsage(w http.ResponseWriter, r *http.Request) {
	const op = "api.top_usage"

	n := defaultUsageLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > h.maxLimit {
			writeError(w, http.StatusBadRequest, "Invalid limit",
				WrapKind(op, ErrInvalidLimit, fmt.Errorf("limit must be an integer between 1 and %d", h.maxLimit)))
			return
		}
		n = v
	}

	entries, err := h.deps.TopUsage(r.Context(), n)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal server error", WrapKind(op, ErrInternal, err))
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// HandleRouteUsage handles GET /api/usage/{route} requests.
func (h *UsageHandler) HandleRouteUsage(w http.ResponseWriter, r *http.Request) {
	const op = "api.route_usage"

	route := r.PathValue("route")
	entry, err := h.deps.RouteUsage(r.Context(), route)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Not found", WrapKind(op, ErrNotFound, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "Internal server error", WrapKind(op, ErrInternal, err))
		return
	}
	writeJSON(w, http.StatusOK, entry)
}
