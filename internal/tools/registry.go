package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Param declares one tool parameter.
type Param struct {
	Name     string
	Type     string
	Required bool
	Default  any
}

// Handler is a tool implementation. Arguments arrive as decoded JSON
// (strings, float64 numbers, bools) with declared defaults applied.
type Handler func(ctx context.Context, args map[string]any) (any, error)

// Descriptor binds a tool name to its schema, parameters and handler.
// Descriptors are immutable once registered.
type Descriptor struct {
	Name        string
	Description string
	Schema      json.RawMessage
	Params      []Param
	Handler     Handler
}

// Registry maps tool names to descriptors. It is populated once at
// startup and read-only afterwards, so lookups need no locking.
type Registry struct {
	tools map[string]*Descriptor
	names []string
	now   func() time.Time
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithRegistryClock overrides the envelope timestamp source. Used by tests.
func WithRegistryClock(now func() time.Time) RegistryOption {
	return func(r *Registry) { r.now = now }
}

// NewRegistry returns an empty Registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		tools: make(map[string]*Descriptor),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a descriptor. Registering a name twice is a
// DuplicateToolError.
func (r *Registry) Register(d *Descriptor) error {
	if _, exists := r.tools[d.Name]; exists {
		return &DuplicateToolError{Name: d.Name}
	}
	r.tools[d.Name] = d
	r.names = append(r.names, d.Name)
	return nil
}

// Names lists registered tool names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Descriptors lists registered descriptors in registration order.
func (r *Registry) Descriptors() []*Descriptor {
	out := make([]*Descriptor, 0, len(r.names))
	for _, name := range r.names {
		out = append(out, r.tools[name])
	}
	return out
}

// Dispatch validates args against the named tool's declared parameters
// and invokes its handler.
//
// Registry-level rejections (unknown tool, bad arguments) return a nil
// envelope and a typed error. Handler failures — including panics — are
// converted into an envelope whose output is {"error": <message>}; the
// typed error is returned alongside so synchronous callers can map it to
// a status code. A non-nil envelope is always safe to send to a session.
func (r *Registry) Dispatch(ctx context.Context, name string, args map[string]any) (*Envelope, error) {
	d, ok := r.tools[name]
	if !ok {
		return nil, &UnknownToolError{Name: name}
	}

	merged, err := d.mergeArgs(args)
	if err != nil {
		return nil, err
	}

	payload, err := invoke(ctx, d, merged)
	if err != nil {
		return newEnvelope(name, map[string]any{"error": err.Error()}, r.now()), err
	}
	return newEnvelope(name, payload, r.now()), nil
}

// mergeArgs rejects unexpected and missing-required keys, then fills in
// declared defaults for absent optional parameters.
func (d *Descriptor) mergeArgs(args map[string]any) (map[string]any, error) {
	declared := make(map[string]Param, len(d.Params))
	for _, p := range d.Params {
		declared[p.Name] = p
	}

	merged := make(map[string]any, len(d.Params))
	for k, v := range args {
		if _, ok := declared[k]; !ok {
			return nil, &InvalidArgumentError{Tool: d.Name, Reason: fmt.Sprintf("unexpected argument %q", k)}
		}
		merged[k] = v
	}
	for _, p := range d.Params {
		if _, ok := merged[p.Name]; ok {
			continue
		}
		if p.Required {
			return nil, &InvalidArgumentError{Tool: d.Name, Reason: fmt.Sprintf("missing required argument %q", p.Name)}
		}
		if p.Default != nil {
			merged[p.Name] = p.Default
		}
	}
	return merged, nil
}

// invoke runs the handler with panic recovery. A panicking handler must
// not take the session down with it.
func invoke(ctx context.Context, d *Descriptor, args map[string]any) (payload any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			payload = nil
			err = fmt.Errorf("tool %s panicked: %v", d.Name, rec)
		}
	}()
	return d.Handler(ctx, args)
}
