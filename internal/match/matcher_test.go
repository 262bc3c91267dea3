package match

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/object-convertor-mcp/internal/cost"
	"github.com/ironsheep/object-convertor-mcp/internal/operator"
	"github.com/ironsheep/object-convertor-mcp/internal/region"
	"github.com/ironsheep/object-convertor-mcp/internal/search"
)

// tableConverter answers from a cost table keyed by the regions' X1 values;
// a negative cost means no path.
type tableConverter struct {
	costs [][]float64
	calls atomic.Int64
}

func (c *tableConverter) Convert(_ context.Context, src, dst region.Region) (*search.Result, error) {
	c.calls.Add(1)
	v := c.costs[src.X1][dst.X1]
	if v < 0 {
		return &search.Result{Outcome: search.NotFound}, nil
	}
	return &search.Result{Outcome: search.Found, Cost: v, Path: []*operator.Instantiated{}}, nil
}

type failingConverter struct{}

func (failingConverter) Convert(context.Context, region.Region, region.Region) (*search.Result, error) {
	return nil, context.DeadlineExceeded
}

func objects(n int) []region.Region {
	out := make([]region.Region, n)
	for i := range out {
		out[i] = region.New(i, 0, i+1, 1, region.Black)
	}
	return out
}

func TestMatch_SingleTrivialPair(t *testing.T) {
	eval := cost.NewEvaluator()
	m := New(search.New(operator.NewDefaultRegistry(), eval))

	r := region.New(10, 10, 20, 20, region.Blue)
	pairs, err := m.Match(context.Background(), []region.Region{r}, []region.Region{r})
	require.NoError(t, err)
	require.Len(t, pairs, 1)

	assert.True(t, pairs[0].Transformable())
	assert.Equal(t, 0.0, *pairs[0].Cost)
	assert.Empty(t, pairs[0].Path)
}

func TestMatch_SinglePairNotFound(t *testing.T) {
	m := New(&tableConverter{costs: [][]float64{{-1}}})

	pairs, err := m.Match(context.Background(), objects(1), objects(1))
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.False(t, pairs[0].Transformable())
	assert.Nil(t, pairs[0].Path)
}

func TestMatch_AllInfeasible(t *testing.T) {
	m := New(&tableConverter{costs: [][]float64{{-1, -1}, {-1, -1}}})

	pairs, err := m.Match(context.Background(), objects(2), objects(2))
	require.NoError(t, err)
	require.Len(t, pairs, 2)
	for _, p := range pairs {
		assert.False(t, p.Transformable())
		assert.Nil(t, p.Cost)
		assert.Nil(t, p.Path)
	}
}

func TestMatch_OptimalAssignment(t *testing.T) {
	conv := &tableConverter{costs: [][]float64{
		{9, 1, -1},
		{1, 9, 9},
		{-1, 9, 2},
	}}
	m := New(conv, WithWorkers(2))

	pairs, err := m.Match(context.Background(), objects(3), objects(3))
	require.NoError(t, err)
	require.Len(t, pairs, 3)
	assert.Equal(t, int64(9), conv.calls.Load())

	got := make(map[int]int)
	total := 0.0
	for _, p := range pairs {
		got[p.SourceIndex] = p.TargetIndex
		require.True(t, p.Transformable())
		total += *p.Cost
		assert.Equal(t, p.SourceIndex, p.Source.X1)
		assert.Equal(t, p.TargetIndex, p.Target.X1)
	}
	assert.Equal(t, map[int]int{0: 1, 1: 0, 2: 2}, got)
	assert.Equal(t, 4.0, total)
}

func TestMatch_MixedFeasibility(t *testing.T) {
	conv := &tableConverter{costs: [][]float64{
		{-1, 5},
		{-1, -1},
	}}
	pairs, err := New(conv).Match(context.Background(), objects(2), objects(2))
	require.NoError(t, err)
	require.Len(t, pairs, 2)

	for _, p := range pairs {
		switch p.SourceIndex {
		case 0:
			assert.Equal(t, 1, p.TargetIndex)
			require.True(t, p.Transformable())
			assert.Equal(t, 5.0, *p.Cost)
		case 1:
			assert.Equal(t, 0, p.TargetIndex)
			assert.False(t, p.Transformable())
		}
	}
}

func TestMatch_SizeMismatch(t *testing.T) {
	_, err := New(&tableConverter{}).Match(context.Background(), objects(2), objects(1))
	assert.True(t, errors.Is(err, ErrSizeMismatch))
}

func TestMatch_Empty(t *testing.T) {
	pairs, err := New(&tableConverter{}).Match(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, pairs)
}

func TestMatch_PropagatesSearchErrors(t *testing.T) {
	_, err := New(failingConverter{}).Match(context.Background(), objects(2), objects(2))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestPair_MarshalJSON(t *testing.T) {
	p := Pair{SourceIndex: 1, TargetIndex: 0, Source: objects(1)[0], Target: objects(1)[0]}
	data, err := json.Marshal(p)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Nil(t, decoded["cost"])
	assert.Nil(t, decoded["path"])
	assert.Equal(t, false, decoded["transformable"])
	assert.Equal(t, float64(1), decoded["source_index"])

	c := 2.5
	p.Cost = &c
	p.Path = []*operator.Instantiated{}
	data, err = json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"cost":2.5`)
	assert.Contains(t, string(data), `"path":[]`)
	assert.Contains(t, string(data), `"transformable":true`)
}
