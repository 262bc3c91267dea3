package search

import (
	"container/heap"

	"github.com/ironsheep/object-convertor-mcp/internal/operator"
	"github.com/ironsheep/object-convertor-mcp/internal/region"
)

// pathNode links a step to its predecessor so frontier entries share their
// common prefix.
type pathNode struct {
	step   *operator.Instantiated
	parent *pathNode
	depth  int
}

func (n *pathNode) extend(step *operator.Instantiated) *pathNode {
	depth := 1
	if n != nil {
		depth = n.depth + 1
	}
	return &pathNode{step: step, parent: n, depth: depth}
}

// steps returns the path from the start state, oldest first.
func (n *pathNode) steps() []*operator.Instantiated {
	if n == nil {
		return []*operator.Instantiated{}
	}
	out := make([]*operator.Instantiated, n.depth)
	for cur := n; cur != nil; cur = cur.parent {
		out[cur.depth-1] = cur.step
	}
	return out
}

type entry struct {
	f       float64
	g       float64
	counter int
	state   region.Region
	path    *pathNode
}

// frontier is a min-heap on (f, counter); the counter breaks ties in
// insertion order.
type frontier []*entry

func (q frontier) Len() int { return len(q) }

func (q frontier) Less(i, j int) bool {
	if q[i].f != q[j].f {
		return q[i].f < q[j].f
	}
	return q[i].counter < q[j].counter
}

func (q frontier) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *frontier) Push(x interface{}) { *q = append(*q, x.(*entry)) }

func (q *frontier) Pop() interface{} {
	old := *q
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return e
}

var _ heap.Interface = (*frontier)(nil)
