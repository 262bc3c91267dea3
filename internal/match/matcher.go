// Package match pairs the objects of two equally sized sets so that the total
// conversion cost is minimal.
package match

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/object-convertor-mcp/internal/assign"
	"github.com/ironsheep/object-convertor-mcp/internal/operator"
	"github.com/ironsheep/object-convertor-mcp/internal/region"
	"github.com/ironsheep/object-convertor-mcp/internal/search"
)

// Infeasible is the matrix cost of a pair with no conversion path. It is
// finite so the assignment solver stays well defined.
const Infeasible = 1e12

// ErrSizeMismatch is returned when the two sets differ in length.
var ErrSizeMismatch = errors.New("object sets differ in size")

// Converter finds a conversion between two regions.
type Converter interface {
	Convert(ctx context.Context, src, dst region.Region) (*search.Result, error)
}

// Pair is one matched source and target. Cost and Path are nil when no
// conversion was found between them.
type Pair struct {
	SourceIndex int
	TargetIndex int
	Source      region.Region
	Target      region.Region
	Cost        *float64
	Path        []*operator.Instantiated
}

// Transformable reports whether a conversion path exists.
func (p Pair) Transformable() bool { return p.Cost != nil }

// MarshalJSON writes the pair with null cost and path when untransformable.
func (p Pair) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		SourceIndex   int                      `json:"source_index"`
		TargetIndex   int                      `json:"target_index"`
		Source        region.Region            `json:"source"`
		Target        region.Region            `json:"target"`
		Cost          *float64                 `json:"cost"`
		Path          []*operator.Instantiated `json:"path"`
		Transformable bool                     `json:"transformable"`
	}{p.SourceIndex, p.TargetIndex, p.Source, p.Target, p.Cost, p.Path, p.Transformable()})
}

// Matcher runs one search per object pair and solves the assignment.
type Matcher struct {
	convertor Converter
	workers   int
	log       zerolog.Logger
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithWorkers bounds the number of concurrent searches.
func WithWorkers(n int) Option {
	return func(m *Matcher) {
		if n > 0 {
			m.workers = n
		}
	}
}

// WithLogger sets the fallback logger. A logger attached to the context
// passed to Match takes precedence.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Matcher) { m.log = l }
}

// New creates a Matcher.
func New(c Converter, opts ...Option) *Matcher {
	m := &Matcher{
		convertor: c,
		workers:   runtime.GOMAXPROCS(0),
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Matcher) logger(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &m.log
}

type cell struct {
	result *search.Result
}

func (c cell) found() bool {
	return c.result != nil && c.result.Outcome != search.NotFound
}

// Match pairs objects1[i] with objects2[j] minimizing total conversion cost.
// The result has one entry per source object.
func (m *Matcher) Match(ctx context.Context, objects1, objects2 []region.Region) ([]Pair, error) {
	if len(objects1) != len(objects2) {
		return nil, fmt.Errorf("%w: %d and %d", ErrSizeMismatch, len(objects1), len(objects2))
	}
	n := len(objects1)
	if n == 0 {
		return []Pair{}, nil
	}

	log := m.logger(ctx)
	start := time.Now()

	if n == 1 {
		res, err := m.convertor.Convert(ctx, objects1[0], objects2[0])
		if err != nil {
			return nil, err
		}
		return []Pair{newPair(0, 0, objects1[0], objects2[0], cell{res})}, nil
	}

	cells, err := m.fill(ctx, objects1, objects2)
	if err != nil {
		return nil, err
	}

	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
		for j := range matrix[i] {
			matrix[i][j] = Infeasible
			if c := cells[i][j]; c.found() {
				matrix[i][j] = c.result.Cost
			}
		}
	}

	rowToCol, total, err := assign.Solve(matrix)
	if err != nil {
		return nil, fmt.Errorf("solving assignment: %w", err)
	}

	pairs := make([]Pair, 0, n)
	usedCols := make(map[int]bool, n)
	var freeRows []int
	for i, j := range rowToCol {
		if j < 0 {
			freeRows = append(freeRows, i)
			continue
		}
		usedCols[j] = true
		pairs = append(pairs, newPair(i, j, objects1[i], objects2[j], cells[i][j]))
	}

	var freeCols []int
	for j := 0; j < n; j++ {
		if !usedCols[j] {
			freeCols = append(freeCols, j)
		}
	}
	// A single leftover row and column are still reported as a pair.
	if len(freeRows) == 1 && len(freeCols) == 1 {
		i, j := freeRows[0], freeCols[0]
		pairs = append(pairs, newPair(i, j, objects1[i], objects2[j], cell{}))
	}

	log.Info().
		Int("objects", n).
		Float64("total_cost", total).
		Dur("elapsed", time.Since(start)).
		Msg("matching complete")
	return pairs, nil
}

// fill runs every pairwise search, at most m.workers at a time.
func (m *Matcher) fill(ctx context.Context, objects1, objects2 []region.Region) ([][]cell, error) {
	log := m.logger(ctx)
	cells := make([][]cell, len(objects1))
	for i := range cells {
		cells[i] = make([]cell, len(objects2))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.workers)
	for i := range objects1 {
		for j := range objects2 {
			i, j := i, j
			g.Go(func() error {
				res, err := m.convertor.Convert(gctx, objects1[i], objects2[j])
				if err != nil {
					return err
				}
				cells[i][j] = cell{res}
				log.Debug().
					Int("source", i).
					Int("target", j).
					Stringer("outcome", res.Outcome).
					Float64("cost", res.Cost).
					Int("steps", res.Steps).
					Msg("pair searched")
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return cells, nil
}

func newPair(i, j int, src, dst region.Region, c cell) Pair {
	p := Pair{SourceIndex: i, TargetIndex: j, Source: src, Target: dst}
	if c.found() {
		total := c.result.Cost
		p.Cost = &total
		p.Path = c.result.Path
	}
	return p
}
