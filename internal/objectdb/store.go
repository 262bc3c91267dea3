// Package objectdb keeps named object sets in memory and persists them to
// disk.
package objectdb

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/ironsheep/object-convertor-mcp/internal/library"
	"github.com/ironsheep/object-convertor-mcp/internal/operator"
	"github.com/ironsheep/object-convertor-mcp/internal/region"
)

var (
	// ErrNotFound is returned for names that are not in the store.
	ErrNotFound = errors.New("object set not found")

	// ErrExists is returned by Add when the name is taken.
	ErrExists = errors.New("object set already exists")
)

// Store provides thread-safe storage of object sets keyed by name.
//
// Sets are copied on the way in and on the way out, so callers can modify
// what they pass or receive without affecting the stored state.
//
// # Example Usage
//
//	db := objectdb.NewStore()
//	if err := db.Add(set); err != nil {
//	    return err
//	}
//	stored, err := db.Get(set.Name)
type Store struct {
	mu   sync.RWMutex
	sets map[string]*region.ObjectSet
}

// Summary describes a stored set without its objects.
type Summary struct {
	Name    string `json:"name"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Objects int    `json:"objects"`
}

type document struct {
	Sets []*region.ObjectSet `json:"sets" yaml:"sets"`
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{sets: make(map[string]*region.ObjectSet)}
}

// Add stores a copy of set. It fails if the set is invalid or its name is
// already in use.
func (s *Store) Add(set *region.ObjectSet) error {
	if err := set.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sets[set.Name]; exists {
		return fmt.Errorf("%w: %q", ErrExists, set.Name)
	}
	s.sets[set.Name] = set.Clone()
	return nil
}

// Put stores a copy of set, replacing any set with the same name.
func (s *Store) Put(set *region.ObjectSet) error {
	if err := set.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	s.sets[set.Name] = set.Clone()
	s.mu.Unlock()
	return nil
}

// Get returns a copy of the named set.
func (s *Store) Get(name string) (*region.ObjectSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set, ok := s.sets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return set.Clone(), nil
}

// List summarizes the stored sets, sorted by name.
func (s *Store) List() []Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Summary, 0, len(s.sets))
	for _, set := range s.sets {
		out = append(out, Summary{
			Name:    set.Name,
			Width:   set.Width,
			Height:  set.Height,
			Objects: len(set.Objects),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Delete removes the named set.
func (s *Store) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sets[name]; !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	delete(s.sets, name)
	return nil
}

// Len returns the number of stored sets.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sets)
}

// Load reads a {"sets": [...]} document and adds every set in it, replacing
// sets of the same name. Nothing is stored if any set is invalid.
//
// A missing file is reported with an error matching fs.ErrNotExist.
func (s *Store) Load(path string) error {
	var doc document
	if err := library.ReadFile(path, &doc); err != nil {
		return err
	}
	for _, set := range doc.Sets {
		if set == nil {
			return fmt.Errorf("%s: empty object set entry", path)
		}
		if err := set.Validate(); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, set := range doc.Sets {
		s.sets[set.Name] = set.Clone()
	}
	return nil
}

// Save writes every stored set to path, sorted by name.
func (s *Store) Save(path string) error {
	s.mu.RLock()
	doc := document{Sets: make([]*region.ObjectSet, 0, len(s.sets))}
	for _, set := range s.sets {
		doc.Sets = append(doc.Sets, set.Clone())
	}
	s.mu.RUnlock()

	sort.Slice(doc.Sets, func(i, j int) bool { return doc.Sets[i].Name < doc.Sets[j].Name })
	return library.WriteFile(path, doc)
}

// Apply runs steps in order on the selected objects of set and returns the
// transformed copy. An empty indices slice selects every object; an index may
// appear at most once. set itself is not modified.
func Apply(set *region.ObjectSet, steps []*operator.Instantiated, indices []int) (*region.ObjectSet, error) {
	out := set.Clone()

	selected := indices
	if len(selected) == 0 {
		selected = make([]int, len(out.Objects))
		for i := range selected {
			selected[i] = i
		}
	}

	seen := make(map[int]bool, len(selected))
	for _, i := range selected {
		if i < 0 || i >= len(out.Objects) {
			return nil, fmt.Errorf("object index %d out of range [0, %d)", i, len(out.Objects))
		}
		if seen[i] {
			return nil, fmt.Errorf("object index %d selected more than once", i)
		}
		seen[i] = true
	}
	for _, i := range selected {
		obj := out.Objects[i]
		for _, step := range steps {
			next, err := step.Apply(obj)
			if err != nil {
				return nil, fmt.Errorf("object %d: %s: %w", i, step, err)
			}
			obj = next
		}
		out.Objects[i] = obj
	}
	return out, nil
}
