package search

import (
	"container/heap"
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/ironsheep/object-convertor-mcp/internal/operator"
	"github.com/ironsheep/object-convertor-mcp/internal/region"
)

// Default search bounds.
const (
	DefaultMaxSteps = 1000
	DefaultMaxCoord = 10000
)

// Outcome classifies a conversion result.
type Outcome int

const (
	// Trivial means source and target were already equal.
	Trivial Outcome = iota
	// Found means a path was found.
	Found
	// NotFound means the step budget or the frontier ran out first.
	NotFound
)

func (o Outcome) String() string {
	switch o {
	case Trivial:
		return "trivial"
	case Found:
		return "found"
	case NotFound:
		return "not_found"
	}
	return "unknown"
}

// MarshalJSON writes the outcome name.
func (o Outcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

// Result is the outcome of one conversion.
type Result struct {
	Outcome Outcome                  `json:"outcome"`
	Path    []*operator.Instantiated `json:"path"`
	Cost    float64                  `json:"cost"`
	Steps   int                      `json:"steps"`
}

// Evaluator prices one operator application.
type Evaluator interface {
	Evaluate(opType string, params operator.Params) (float64, error)
}

// Convertor searches for operator sequences between regions.
//
// A Convertor holds no per-search state and may be shared between goroutines
// as long as its registry and evaluator are.
type Convertor struct {
	registry   *operator.Registry
	evaluator  Evaluator
	candidates operator.CandidateSource
	maxSteps   int
	maxCoord   int
	log        zerolog.Logger
}

// Option configures a Convertor.
type Option func(*Convertor)

// WithMaxSteps bounds the number of frontier pops per search.
func WithMaxSteps(n int) Option {
	return func(c *Convertor) { c.maxSteps = n }
}

// WithMaxCoord rejects states with any coordinate above n.
func WithMaxCoord(n int) Option {
	return func(c *Convertor) { c.maxCoord = n }
}

// WithCandidates replaces the parameter discretization.
func WithCandidates(src operator.CandidateSource) Option {
	return func(c *Convertor) { c.candidates = src }
}

// WithLogger sets the logger used for skipped candidates.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Convertor) { c.log = l }
}

// New creates a Convertor.
func New(reg *operator.Registry, eval Evaluator, opts ...Option) *Convertor {
	c := &Convertor{
		registry:   reg,
		evaluator:  eval,
		candidates: operator.DefaultCandidates,
		maxSteps:   DefaultMaxSteps,
		maxCoord:   DefaultMaxCoord,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// MaxSteps returns the configured step budget.
func (c *Convertor) MaxSteps() int { return c.maxSteps }

// Convert searches for the cheapest operator sequence turning src into dst.
//
// Candidates that fail to instantiate, apply or price are skipped. The only
// error returned is the context's.
func (c *Convertor) Convert(ctx context.Context, src, dst region.Region) (*Result, error) {
	if src.Equal(dst) {
		return &Result{Outcome: Trivial, Path: []*operator.Instantiated{}}, nil
	}

	target := dst.Key()
	visited := make(map[region.Key]bool)
	q := &frontier{}
	counter := 0
	heap.Push(q, &entry{f: Heuristic(src, dst), state: src, counter: counter})
	counter++

	steps := 0
	for q.Len() > 0 && steps < c.maxSteps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		steps++

		cur := heap.Pop(q).(*entry)
		key := cur.state.Key()
		if key == target {
			return &Result{Outcome: Found, Path: cur.path.steps(), Cost: cur.g, Steps: steps}, nil
		}
		if visited[key] {
			continue
		}
		visited[key] = true

		for _, spec := range c.registry.Specs() {
			for _, params := range c.candidates.Candidates(spec) {
				next, inst, g, err := c.expand(spec, params, cur)
				if err != nil {
					c.log.Debug().
						Err(err).
						Str("operator", spec.Name).
						Stringer("params", params).
						Msg("candidate skipped")
					continue
				}
				if inst == nil || visited[next.Key()] {
					continue
				}
				heap.Push(q, &entry{
					f:       g + Heuristic(next, dst),
					g:       g,
					counter: counter,
					state:   next,
					path:    cur.path.extend(inst),
				})
				counter++
			}
		}
	}

	c.log.Debug().
		Int("steps", steps).
		Int("visited", len(visited)).
		Int("frontier", q.Len()).
		Msg("search exhausted")
	return &Result{Outcome: NotFound, Steps: steps}, nil
}

// expand runs one transition. A nil inst with nil error means the candidate
// was discarded without fault.
func (c *Convertor) expand(spec *operator.Spec, params operator.Params, cur *entry) (region.Region, *operator.Instantiated, float64, error) {
	inst, err := c.registry.Instantiate(spec.Name, params)
	if err != nil {
		return region.Region{}, nil, 0, err
	}
	next, err := c.registry.Apply(inst, cur.state)
	if err != nil {
		return region.Region{}, nil, 0, err
	}
	if !next.WithinBounds(c.maxCoord) {
		return next, nil, 0, nil
	}
	cost, err := c.evaluator.Evaluate(spec.Name, CostParams(inst, cur.state, next))
	if err != nil {
		return region.Region{}, nil, 0, err
	}
	return next, inst, cur.g + cost, nil
}
