package region

import (
	"errors"
	"fmt"
)

// ObjectSet is a named canvas holding an ordered list of regions.
type ObjectSet struct {
	Name    string   `json:"name" yaml:"name"`
	Width   int      `json:"width" yaml:"width"`
	Height  int      `json:"height" yaml:"height"`
	Objects []Region `json:"objects" yaml:"objects"`
}

// Validate checks the set-level invariants.
func (s *ObjectSet) Validate() error {
	if s.Name == "" {
		return errors.New("object set name is required")
	}
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("object set %q: dimensions must be positive, got %dx%d", s.Name, s.Width, s.Height)
	}
	return nil
}

// Clone returns a deep copy.
func (s *ObjectSet) Clone() *ObjectSet {
	out := *s
	out.Objects = append([]Region(nil), s.Objects...)
	return &out
}

// Add appends an object.
func (s *ObjectSet) Add(r Region) {
	s.Objects = append(s.Objects, r)
}
