// Package assign solves the linear assignment problem.
package assign

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidMatrix is returned for ragged or non-finite cost matrices.
var ErrInvalidMatrix = errors.New("invalid cost matrix")

// Solve returns a minimum-cost assignment of rows to columns.
//
// rowToCol[i] is the column assigned to row i, or -1 when the matrix has more
// rows than columns and row i is left out. Every row is assigned when rows <=
// cols. total is the sum of the chosen cells.
func Solve(cost [][]float64) (rowToCol []int, total float64, err error) {
	rows := len(cost)
	if rows == 0 {
		return []int{}, 0, nil
	}
	cols := len(cost[0])
	for i, row := range cost {
		if len(row) != cols {
			return nil, 0, fmt.Errorf("%w: row %d has %d columns, want %d", ErrInvalidMatrix, i, len(row), cols)
		}
		for j, c := range row {
			if math.IsNaN(c) || math.IsInf(c, 0) {
				return nil, 0, fmt.Errorf("%w: cell (%d, %d) is %v", ErrInvalidMatrix, i, j, c)
			}
		}
	}

	rowToCol = make([]int, rows)
	for i := range rowToCol {
		rowToCol[i] = -1
	}
	if cols == 0 {
		return rowToCol, 0, nil
	}

	if rows <= cols {
		for i, j := range solve(cost, rows, cols) {
			rowToCol[i] = j
		}
	} else {
		// Assign each column a row on the transpose.
		for j, i := range solve(transpose(cost, rows, cols), cols, rows) {
			rowToCol[i] = j
		}
	}

	for i, j := range rowToCol {
		if j >= 0 {
			total += cost[i][j]
		}
	}
	return rowToCol, total, nil
}

func transpose(m [][]float64, rows, cols int) [][]float64 {
	t := make([][]float64, cols)
	for j := range t {
		t[j] = make([]float64, rows)
		for i := 0; i < rows; i++ {
			t[j][i] = m[i][j]
		}
	}
	return t
}

// solve runs the shortest augmenting path method with potentials for n <= m
// and returns the column of each row.
func solve(a [][]float64, n, m int) []int {
	inf := math.Inf(1)
	u := make([]float64, n+1)
	v := make([]float64, m+1)
	// p[j] is the row (1-based) matched to column j; p[0] is the row being added.
	p := make([]int, m+1)
	way := make([]int, m+1)

	for i := 1; i <= n; i++ {
		p[0] = i
		j0 := 0
		minv := make([]float64, m+1)
		used := make([]bool, m+1)
		for j := range minv {
			minv[j] = inf
		}

		for {
			used[j0] = true
			i0 := p[j0]
			delta := inf
			j1 := 0
			for j := 1; j <= m; j++ {
				if used[j] {
					continue
				}
				cur := a[i0-1][j-1] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			for j := 0; j <= m; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if p[j0] == 0 {
				break
			}
		}

		for j0 != 0 {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
		}
	}

	assignment := make([]int, n)
	for j := 1; j <= m; j++ {
		if p[j] != 0 {
			assignment[p[j]-1] = j - 1
		}
	}
	return assignment
}
