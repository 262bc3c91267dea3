package operator

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/ironsheep/object-convertor-mcp/internal/region"
)

// ApplyFunc transforms a region. It must not depend on anything but its
// arguments and must return a new region rather than modify its input.
type ApplyFunc func(params Params, r region.Region) (region.Region, error)

// Spec is a named, typed transformation.
type Spec struct {
	Name   string
	Schema map[string]ParamType
	Apply  ApplyFunc
}

// ParamNames returns the declared parameter names sorted.
func (s *Spec) ParamNames() []string {
	names := make([]string, 0, len(s.Schema))
	for name := range s.Schema {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Coerce returns a copy of params with each declared entry converted to its
// schema type where that is lossless.
func (s *Spec) Coerce(params Params) Params {
	out := make(Params, len(params))
	for name, v := range params {
		if want, ok := s.Schema[name]; ok {
			v = want.Coerce(v)
		}
		out[name] = v
	}
	return out
}

// Validate checks params against the schema. Every supplied entry must be
// declared and must satisfy its declared type.
func (s *Spec) Validate(params Params) error {
	for _, name := range params.Names() {
		want, ok := s.Schema[name]
		if !ok {
			return &ParamTypeError{Operator: s.Name, Field: name}
		}
		if v := params[name]; !want.Accepts(v) {
			return &ParamTypeError{
				Operator: s.Name,
				Field:    name,
				Expected: want.String(),
				Actual:   v.TypeName(),
			}
		}
	}
	return nil
}

// Instantiated is an operator bound to validated parameters.
type Instantiated struct {
	Spec   *Spec
	Params Params
}

// Apply runs the operator on r.
func (i *Instantiated) Apply(r region.Region) (region.Region, error) {
	return i.Spec.Apply(i.Params, r)
}

// Name returns the operator name.
func (i *Instantiated) Name() string {
	return i.Spec.Name
}

func (i *Instantiated) String() string {
	return fmt.Sprintf("%s(%s)", i.Spec.Name, i.Params)
}

// MarshalJSON writes {"operator": name, "params": {...}}.
func (i *Instantiated) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Operator string `json:"operator"`
		Params   Params `json:"params"`
	}{i.Spec.Name, i.Params})
}

// Registry holds the available operators in insertion order.
//
// Registry is safe for concurrent use. Specs are never mutated after insertion.
type Registry struct {
	mu    sync.RWMutex
	specs map[string]*Spec
	order []*Spec
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{specs: make(map[string]*Spec)}
}

// NewDefaultRegistry returns a registry holding DefaultSpecs.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for _, spec := range DefaultSpecs() {
		// Default names are unique.
		_ = r.Insert(spec)
	}
	return r
}

// Insert registers a spec.
func (r *Registry) Insert(spec *Spec) error {
	if spec == nil || spec.Name == "" || spec.Apply == nil {
		return fmt.Errorf("operator spec requires a name and an apply function")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.specs[spec.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateOperator, spec.Name)
	}
	r.specs[spec.Name] = spec
	r.order = append(r.order, spec)
	return nil
}

// Lookup returns the bare spec for introspection.
func (r *Registry) Lookup(name string) (*Spec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	spec, ok := r.specs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOperator, name)
	}
	return spec, nil
}

// Instantiate binds params to the named operator after validating them.
func (r *Registry) Instantiate(name string, params Params) (*Instantiated, error) {
	spec, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	if err := spec.Validate(params); err != nil {
		return nil, err
	}
	return &Instantiated{Spec: spec, Params: params.Clone()}, nil
}

// Apply runs an instantiated operator on a region.
func (r *Registry) Apply(inst *Instantiated, reg region.Region) (region.Region, error) {
	return inst.Apply(reg)
}

// Specs returns all specs in insertion order.
func (r *Registry) Specs() []*Spec {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*Spec(nil), r.order...)
}

// Len returns the number of registered operators.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
