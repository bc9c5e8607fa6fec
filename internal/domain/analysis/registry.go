package analysis

import (
	"errors"
	"fmt"
	"sync"

	"github.com/samber/lo"
)

// Family groups routes by how their values are produced.
type Family string

const (
	FamilyDerived Family = "derived"
	FamilyRandom  Family = "random"
)

// Route is one registered analysis endpoint.
type Route struct {
	Name        string
	EnvelopeKey string
	Required    []string
	Template    Template
	Summary     string
}

// Family reports derived when any field is computed from the payload.
func (r Route) Family() Family {
	if lo.SomeBy(r.Template, func(f FieldSpec) bool { return f.Kind == KindDerived }) {
		return FamilyDerived
	}
	return FamilyRandom
}

func (r Route) validate() error {
	switch {
	case r.Name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidRoute)
	case r.EnvelopeKey == "":
		return fmt.Errorf("%w: %s: empty envelope key", ErrInvalidRoute, r.Name)
	case len(r.Required) == 0:
		return fmt.Errorf("%w: %s: no required fields", ErrInvalidRoute, r.Name)
	case len(r.Template) == 0:
		return fmt.Errorf("%w: %s: empty template", ErrInvalidRoute, r.Name)
	}
	if dups := lo.FindDuplicates(r.Template.Names()); len(dups) > 0 {
		return fmt.Errorf("%w: %s: duplicate fields %v", ErrInvalidRoute, r.Name, dups)
	}
	for _, f := range r.Template {
		if f.Kind == KindEnum && len(f.Labels) == 0 {
			return fmt.Errorf("%w: %s.%s: enum without labels", ErrInvalidRoute, r.Name, f.Name)
		}
		if f.Kind == KindDerived && f.Derive == nil {
			return fmt.Errorf("%w: %s.%s: derived field without function", ErrInvalidRoute, r.Name, f.Name)
		}
	}
	return nil
}

// Registry maps route names to their definitions and generates responses.
type Registry struct {
	mu     sync.RWMutex
	routes map[string]Route
	order  []string
	src    Source
}

// Option configures a Registry.
type Option func(*Registry)

// WithSource replaces the random source, e.g. with a seeded one in tests.
func WithSource(src Source) Option {
	return func(r *Registry) {
		if src != nil {
			r.src = src
		}
	}
}

// NewRegistry returns an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		routes: make(map[string]Route),
		src:    DefaultSource,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewDefaultRegistry returns a registry holding every catalog route.
func NewDefaultRegistry(opts ...Option) (*Registry, error) {
	r := NewRegistry(opts...)
	var errs []error
	for _, rt := range Catalog() {
		if err := r.Register(rt); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return r, nil
}

// Register adds a route. Registering a name twice fails with ErrDuplicateRoute.
func (r *Registry) Register(rt Route) error {
	if err := rt.validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.routes[rt.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateRoute, rt.Name)
	}
	r.routes[rt.Name] = rt
	r.order = append(r.order, rt.Name)
	return nil
}

// Replace adds or overwrites a route, keeping its original position.
func (r *Registry) Replace(rt Route) error {
	if err := rt.validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.routes[rt.Name]; !ok {
		r.order = append(r.order, rt.Name)
	}
	r.routes[rt.Name] = rt
	return nil
}

// Lookup returns the named route.
func (r *Registry) Lookup(name string) (Route, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rt, ok := r.routes[name]
	return rt, ok
}

// Routes returns every route in registration order.
func (r *Registry) Routes() []Route {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Map(r.order, func(name string, _ int) Route { return r.routes[name] })
}

// Len returns the number of registered routes.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Generate validates payload for the named route and builds its envelope.
// Missing fields yield *ValidationError; unknown names ErrUnknownRoute.
func (r *Registry) Generate(name string, payload map[string]any) (Envelope, error) {
	rt, ok := r.Lookup(name)
	if !ok {
		return Envelope{}, fmt.Errorf("%w: %s", ErrUnknownRoute, name)
	}
	if err := Validate(payload, rt.Required); err != nil {
		return Envelope{}, err
	}
	res, err := rt.Template.Generate(r.src, payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("%s: %w", name, err)
	}
	return Envelope{Key: rt.EnvelopeKey, Result: res}, nil
}
