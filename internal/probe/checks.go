package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/samber/lo"

	"github.com/emopulse/emopulse-api/internal/domain/analysis"
)

const sampleText = "I feel calm but a little tired after a long week"

// Check is one named probe against the service.
type Check struct {
	Name string
	Run  func(ctx context.Context, c *Client) error
}

// Checks returns the fixed endpoint checks followed by two checks per route.
func Checks(routes []analysis.Route) []Check {
	checks := []Check{
		{Name: "GET /api/health", Run: checkHealth},
		{Name: "GET /", Run: checkRoot},
		{Name: "POST / rotate", Run: checkRotate},
		{Name: "POST / rotate (empty)", Run: expectMissing("/", "text")},
	}
	for _, rt := range routes {
		checks = append(checks,
			Check{Name: "POST /api/" + rt.Name, Run: checkRoute(rt)},
			Check{Name: "POST /api/" + rt.Name + " (missing)", Run: expectMissing("/api/"+rt.Name, rt.Required...)},
		)
	}
	return checks
}

func expectStatus(got, want int, body []byte) error {
	if got != want {
		return fmt.Errorf("%w: got %d, want %d: %s", ErrStatus, got, want, body)
	}
	return nil
}

func decodeObject(body []byte) (map[string]any, error) {
	var m map[string]any
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnexpectedBody, err)
	}
	return m, nil
}

func checkHealth(ctx context.Context, c *Client) error {
	status, body, err := c.Get(ctx, "/api/health")
	if err != nil {
		return err
	}
	if err := expectStatus(status, http.StatusOK, body); err != nil {
		return err
	}
	m, err := decodeObject(body)
	if err != nil {
		return err
	}
	if m["status"] != "ok" {
		return fmt.Errorf("%w: status %v", ErrUnexpectedBody, m["status"])
	}
	for _, k := range []string{"uptime", "version", "timestamp"} {
		if _, ok := m[k]; !ok {
			return fmt.Errorf("%w: missing %q", ErrUnexpectedBody, k)
		}
	}
	return nil
}

func checkRoot(ctx context.Context, c *Client) error {
	status, body, err := c.Get(ctx, "/")
	if err != nil {
		return err
	}
	if err := expectStatus(status, http.StatusOK, body); err != nil {
		return err
	}
	if string(body) != "Emopulse API is running" {
		return fmt.Errorf("%w: %q", ErrUnexpectedBody, body)
	}
	return nil
}

func checkRotate(ctx context.Context, c *Client) error {
	status, body, err := c.PostJSON(ctx, "/", map[string]any{"text": "abc"})
	if err != nil {
		return err
	}
	if err := expectStatus(status, http.StatusOK, body); err != nil {
		return err
	}
	m, err := decodeObject(body)
	if err != nil {
		return err
	}
	if m["rotated"] != "cba" {
		return fmt.Errorf("%w: rotated %v, want cba", ErrUnexpectedBody, m["rotated"])
	}
	return nil
}

// checkRoute posts a sample body and checks the envelope against the template.
func checkRoute(rt analysis.Route) func(context.Context, *Client) error {
	return func(ctx context.Context, c *Client) error {
		payload := lo.SliceToMap(rt.Required, func(name string) (string, any) { return name, sampleText })
		status, body, err := c.PostJSON(ctx, "/api/"+rt.Name, payload)
		if err != nil {
			return err
		}
		if err := expectStatus(status, http.StatusOK, body); err != nil {
			return err
		}
		m, err := decodeObject(body)
		if err != nil {
			return err
		}
		if len(m) != 1 {
			return fmt.Errorf("%w: envelope has keys %v", ErrUnexpectedBody, lo.Keys(m))
		}
		result, ok := m[rt.EnvelopeKey].(map[string]any)
		if !ok {
			return fmt.Errorf("%w: missing envelope %q", ErrUnexpectedBody, rt.EnvelopeKey)
		}
		return rt.Template.Check(result)
	}
}

// expectMissing posts an empty object and expects the validation message.
func expectMissing(path string, required ...string) func(context.Context, *Client) error {
	want := (&analysis.ValidationError{Fields: required}).Error()
	return func(ctx context.Context, c *Client) error {
		status, body, err := c.PostJSON(ctx, path, map[string]any{})
		if err != nil {
			return err
		}
		if err := expectStatus(status, http.StatusBadRequest, body); err != nil {
			return err
		}
		m, err := decodeObject(body)
		if err != nil {
			return err
		}
		if m["error"] != want {
			return fmt.Errorf("%w: error %v, want %q", ErrUnexpectedBody, m["error"], want)
		}
		return nil
	}
}
