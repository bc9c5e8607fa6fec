package api

import (
	"net/http"

	"github.com/samber/lo"

	"github.com/emopulse/emopulse-api/internal/domain/analysis"
)

// RoutesDependencies exposes the registered analysis routes.
type RoutesDependencies interface {
	Routes() []analysis.Route
}

// RoutesHandler lists analysis routes.
type RoutesHandler struct {
	deps RoutesDependencies
}

// NewRoutesHandler creates a new routes handler.
func NewRoutesHandler(deps RoutesDependencies) *RoutesHandler {
	return &RoutesHandler{deps: deps}
}

type routeInfo struct {
	Name        string   `json:"name"`
	Path        string   `json:"path"`
	EnvelopeKey string   `json:"envelopeKey"`
	Required    []string `json:"required"`
	Fields      []string `json:"fields"`
	Family      string   `json:"family"`
}

// HandleRoutes handles GET /api/routes requests.
func (h *RoutesHandler) HandleRoutes(w http.ResponseWriter, _ *http.Request) {
	out := lo.Map(h.deps.Routes(), func(rt analysis.Route, _ int) routeInfo {
		return routeInfo{
			Name:        rt.Name,
			Path:        "/api/" + rt.Name,
			EnvelopeKey: rt.EnvelopeKey,
			Required:    rt.Required,
			Fields:      rt.Template.Names(),
			Family:      string(rt.Family()),
		}
	})
	writeJSON(w, http.StatusOK, out)
}
