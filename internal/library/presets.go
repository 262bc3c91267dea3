package library

import (
	"fmt"

	"github.com/ironsheep/object-convertor-mcp/internal/operator"
)

// Preset is a named parameter set for one operator.
type Preset struct {
	Name       string                 `json:"name" yaml:"name"`
	Parameters map[string]interface{} `json:"parameters" yaml:"parameters"`
}

type presetDocument struct {
	Operators []Preset `json:"operators" yaml:"operators"`
}

// Params converts the decoded parameters to values of the spec's schema.
// Lists become tuples and integral numbers in float slots become floats.
func (p Preset) Params(spec *operator.Spec) (operator.Params, error) {
	params, err := operator.ParamsFromJSON(p.Parameters)
	if err != nil {
		return nil, fmt.Errorf("preset %q: %w", p.Name, err)
	}
	return spec.Coerce(params), nil
}

// LoadPresets reads a {"operators": [...]} preset document.
func LoadPresets(path string) ([]Preset, error) {
	var doc presetDocument
	if err := ReadFile(path, &doc); err != nil {
		return nil, err
	}
	return doc.Operators, nil
}

// SavePresets writes presets as a {"operators": [...]} document.
func SavePresets(path string, presets []Preset) error {
	if presets == nil {
		presets = []Preset{}
	}
	return WriteFile(path, presetDocument{Operators: presets})
}

// Candidates validates presets against the registry and groups them by
// operator for use as search candidates.
func Candidates(reg *operator.Registry, presets []Preset) (operator.StaticCandidates, error) {
	out := operator.StaticCandidates{}
	for _, p := range presets {
		spec, err := reg.Lookup(p.Name)
		if err != nil {
			return nil, fmt.Errorf("preset %q: %w", p.Name, err)
		}
		params, err := p.Params(spec)
		if err != nil {
			return nil, err
		}
		if _, err := reg.Instantiate(p.Name, params); err != nil {
			return nil, fmt.Errorf("preset %q: %w", p.Name, err)
		}
		out.Add(p.Name, params)
	}
	return out, nil
}
