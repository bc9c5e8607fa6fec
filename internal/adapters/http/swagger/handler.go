// Package swagger serves the generated OpenAPI document and a ReDoc page.
package swagger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"gopkg.in/yaml.v3"

	"github.com/emopulse/emopulse-api/internal/domain/analysis"
)

// Error constants.
var (
	ErrGenerate = errors.New("openapi generation failed")
)

// Handler holds the rendered document.
type Handler struct {
	yamlDoc []byte
	jsonDoc []byte
}

// New renders the OpenAPI document for routes once, at startup.
func New(routes []analysis.Route, version string) (*Handler, error) {
	doc := Build(routes, version)

	y, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: yaml: %w", ErrGenerate, err)
	}
	j, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: json: %w", ErrGenerate, err)
	}
	return &Handler{yamlDoc: y, jsonDoc: j}, nil
}

// Register attaches the documentation routes to mux.
//
//	GET /api-docs      -> ReDoc HTML
//	GET /openapi.yaml  -> OpenAPI document (YAML)
//	GET /openapi.json  -> OpenAPI document (JSON)
func (h *Handler) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	mux.HandleFunc("GET /api-docs", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(indexHTML))
	})

	mux.HandleFunc("GET /openapi.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
		_, _ = w.Write(h.yamlDoc)
	})

	mux.HandleFunc("GET /openapi.json", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write(h.jsonDoc)
	})
}

// Minimal HTML that loads ReDoc from its CDN and renders /openapi.yaml.
const indexHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8">
    <title>Emopulse API Docs</title>
    <style>body{margin:0;padding:0}</style>
  </head>
  <body>
    <redoc id="redoc-container"></redoc>
    <script src="https://cdn.redoc.ly/redoc/latest/bundles/redoc.standalone.js"></script>
    <script>Redoc.init('/openapi.yaml', { suppressWarnings: true }, document.getElementById('redoc-container'));</script>
  </body>
</html>`
