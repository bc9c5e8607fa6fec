package swagger

import (
	"github.com/samber/lo"

	"github.com/emopulse/emopulse-api/internal/domain/analysis"
)

const (
	openAPIVersion = "3.0.3"
	jsonMediaType  = "application/json"
	scorePattern   = `^[01]\.\d{2}$`
)

// Document is the subset of OpenAPI 3.0 the service describes itself with.
type Document struct {
	OpenAPI    string               `yaml:"openapi" json:"openapi"`
	Info       Info                 `yaml:"info" json:"info"`
	Paths      map[string]*PathItem `yaml:"paths" json:"paths"`
	Components Components           `yaml:"components" json:"components"`
}

type Info struct {
	Title       string `yaml:"title" json:"title"`
	Version     string `yaml:"version" json:"version"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

type Components struct {
	Schemas map[string]*Schema `yaml:"schemas" json:"schemas"`
}

type PathItem struct {
	Get  *Operation `yaml:"get,omitempty" json:"get,omitempty"`
	Post *Operation `yaml:"post,omitempty" json:"post,omitempty"`
}

type Operation struct {
	Summary     string               `yaml:"summary" json:"summary"`
	OperationID string               `yaml:"operationId" json:"operationId"`
	Tags        []string             `yaml:"tags,omitempty" json:"tags,omitempty"`
	Parameters  []Parameter          `yaml:"parameters,omitempty" json:"parameters,omitempty"`
	RequestBody *RequestBody         `yaml:"requestBody,omitempty" json:"requestBody,omitempty"`
	Responses   map[string]*Response `yaml:"responses" json:"responses"`
}

type Parameter struct {
	Name        string  `yaml:"name" json:"name"`
	In          string  `yaml:"in" json:"in"`
	Required    bool    `yaml:"required" json:"required"`
	Description string  `yaml:"description,omitempty" json:"description,omitempty"`
	Schema      *Schema `yaml:"schema" json:"schema"`
}

type RequestBody struct {
	Required bool                 `yaml:"required" json:"required"`
	Content  map[string]MediaType `yaml:"content" json:"content"`
}

type Response struct {
	Description string               `yaml:"description" json:"description"`
	Content     map[string]MediaType `yaml:"content,omitempty" json:"content,omitempty"`
}

type MediaType struct {
	Schema *Schema `yaml:"schema" json:"schema"`
}

// Schema is a JSON schema object. Ref excludes every other member.
type Schema struct {
	Ref         string             `yaml:"$ref,omitempty" json:"$ref,omitempty"`
	Type        string             `yaml:"type,omitempty" json:"type,omitempty"`
	Description string             `yaml:"description,omitempty" json:"description,omitempty"`
	Pattern     string             `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	Format      string             `yaml:"format,omitempty" json:"format,omitempty"`
	Minimum     *int               `yaml:"minimum,omitempty" json:"minimum,omitempty"`
	Maximum     *int               `yaml:"maximum,omitempty" json:"maximum,omitempty"`
	Enum        []any              `yaml:"enum,omitempty" json:"enum,omitempty"`
	Items       *Schema            `yaml:"items,omitempty" json:"items,omitempty"`
	Properties  map[string]*Schema `yaml:"properties,omitempty" json:"properties,omitempty"`
	Required    []string           `yaml:"required,omitempty" json:"required,omitempty"`
	Example     any                `yaml:"example,omitempty" json:"example,omitempty"`
}

func ref(name string) *Schema { return &Schema{Ref: "#/components/schemas/" + name} }

func jsonContent(s *Schema) map[string]MediaType {
	return map[string]MediaType{jsonMediaType: {Schema: s}}
}

// Build describes the fixed endpoints and one POST path per route.
func Build(routes []analysis.Route, version string) *Document {
	doc := &Document{
		OpenAPI: openAPIVersion,
		Info: Info{
			Title:       "Emopulse API",
			Version:     version,
			Description: "Placeholder emotional-analysis endpoints. Values are random or trivially derived from the input text.",
		},
		Paths:      fixedPaths(),
		Components: Components{Schemas: sharedSchemas()},
	}
	for _, rt := range routes {
		doc.Paths["/api/"+rt.Name] = &PathItem{Post: routeOperation(rt)}
	}
	return doc
}

func routeOperation(rt analysis.Route) *Operation {
	summary := rt.Summary
	if summary == "" {
		summary = "Placeholder " + rt.Name + " analysis"
	}

	body := &Schema{
		Type:       "object",
		Required:   rt.Required,
		Properties: lo.SliceToMap(rt.Required, func(name string) (string, *Schema) { return name, &Schema{Type: "string"} }),
	}
	result := &Schema{
		Type:       "object",
		Required:   rt.Template.Names(),
		Properties: lo.SliceToMap(rt.Template, func(f analysis.FieldSpec) (string, *Schema) { return f.Name, fieldSchema(f) }),
	}
	envelope := &Schema{
		Type:       "object",
		Required:   []string{rt.EnvelopeKey},
		Properties: map[string]*Schema{rt.EnvelopeKey: result},
	}

	return &Operation{
		Summary:     summary,
		OperationID: lo.CamelCase("analyze " + rt.Name),
		Tags:        []string{string(rt.Family())},
		RequestBody: &RequestBody{Required: true, Content: jsonContent(body)},
		Responses: map[string]*Response{
			"200": {Description: "Generated result", Content: jsonContent(envelope)},
			"400": {Description: "Missing required field", Content: jsonContent(ref("ValidationError"))},
			"500": {Description: "Internal server error, including malformed or oversized bodies", Content: jsonContent(ref("Error"))},
		},
	}
}

// fieldSchema renders one template field.
func fieldSchema(f analysis.FieldSpec) *Schema {
	switch f.Kind {
	case analysis.KindFloat:
		return &Schema{Type: "string", Pattern: scorePattern, Description: "Score in [0,1] with two decimals", Example: "0.42"}
	case analysis.KindEnum:
		return &Schema{Type: "string", Enum: lo.ToAnySlice(f.Labels)}
	case analysis.KindConst:
		switch v := f.Value.(type) {
		case []string:
			return &Schema{Type: "array", Items: &Schema{Type: "string"}, Example: v}
		case string:
			return &Schema{Type: "string", Enum: []any{v}}
		case bool:
			return &Schema{Type: "boolean", Enum: []any{v}}
		default:
			return &Schema{Type: "number", Example: v}
		}
	case analysis.KindDerived:
		s := &Schema{Type: f.Type, Description: "Derived from the request text"}
		if f.Type == "array" {
			s.Items = &Schema{Type: "string"}
		}
		return s
	default:
		return &Schema{}
	}
}

func fixedPaths() map[string]*PathItem {
	minLimit, maxLimit := 1, 100
	return map[string]*PathItem{
		"/": {
			Get: &Operation{
				Summary:     "Liveness text",
				OperationID: "root",
				Responses: map[string]*Response{
					"200": {Description: "Emopulse API is running", Content: map[string]MediaType{"text/plain": {Schema: &Schema{Type: "string"}}}},
				},
			},
			Post: &Operation{
				Summary:     "Reverse a string",
				OperationID: "rotate",
				RequestBody: &RequestBody{Required: true, Content: jsonContent(&Schema{
					Type: "object", Required: []string{"text"},
					Properties: map[string]*Schema{"text": {Type: "string"}},
				})},
				Responses: map[string]*Response{
					"200": {Description: "Reversed text", Content: jsonContent(&Schema{
						Type: "object", Properties: map[string]*Schema{"rotated": {Type: "string"}},
					})},
					"400": {Description: "Missing text", Content: jsonContent(ref("ValidationError"))},
				},
			},
		},
		"/api/health": {Get: &Operation{
			Summary:     "Health check",
			OperationID: "health",
			Responses:   map[string]*Response{"200": {Description: "Service is healthy", Content: jsonContent(ref("Health"))}},
		}},
		"/api/stats": {Get: &Operation{
			Summary:     "Service statistics",
			OperationID: "stats",
			Responses:   map[string]*Response{"200": {Description: "Statistics", Content: jsonContent(&Schema{Type: "object"})}},
		}},
		"/api/routes": {Get: &Operation{
			Summary:     "Registered analysis routes",
			OperationID: "routes",
			Responses:   map[string]*Response{"200": {Description: "Route list", Content: jsonContent(&Schema{Type: "array", Items: &Schema{Type: "object"}})}},
		}},
		"/api/usage": {Get: &Operation{
			Summary:     "Most requested routes",
			OperationID: "topUsage",
			Parameters: []Parameter{{
				Name: "limit", In: "query", Description: "Number of routes, default 10",
				Schema: &Schema{Type: "integer", Minimum: &minLimit, Maximum: &maxLimit},
			}},
			Responses: map[string]*Response{
				"200": {Description: "Usage entries", Content: jsonContent(&Schema{Type: "array", Items: ref("UsageEntry")})},
				"400": {Description: "Invalid limit", Content: jsonContent(ref("Error"))},
			},
		}},
		"/api/usage/{route}": {Get: &Operation{
			Summary:     "Usage of one route",
			OperationID: "routeUsage",
			Parameters:  []Parameter{{Name: "route", In: "path", Required: true, Schema: &Schema{Type: "string"}}},
			Responses: map[string]*Response{
				"200": {Description: "Usage entry", Content: jsonContent(ref("UsageEntry"))},
				"404": {Description: "Route unused or unknown", Content: jsonContent(ref("Error"))},
			},
		}},
	}
}

func sharedSchemas() map[string]*Schema {
	return map[string]*Schema{
		"Error": {
			Type: "object", Required: []string{"error"},
			Properties: map[string]*Schema{"error": {Type: "string"}, "message": {Type: "string"}},
		},
		"ValidationError": {
			Type: "object", Required: []string{"error"},
			Properties: map[string]*Schema{"error": {Type: "string", Example: "Missing 'text' field"}},
		},
		"Health": {
			Type: "object", Required: []string{"status", "uptime", "version", "timestamp"},
			Properties: map[string]*Schema{
				"status":    {Type: "string", Enum: []any{"ok"}},
				"uptime":    {Type: "number"},
				"version":   {Type: "string"},
				"timestamp": {Type: "string", Format: "date-time"},
			},
		},
		"UsageEntry": {
			Type: "object",
			Properties: map[string]*Schema{
				"rank":         {Type: "integer"},
				"route":        {Type: "string"},
				"requests":     {Type: "integer"},
				"failures":     {Type: "integer"},
				"avgLatencyMs": {Type: "number"},
				"lastStatus":   {Type: "integer"},
				"lastSeen":     {Type: "string", Format: "date-time"},
			},
		},
	}
}
