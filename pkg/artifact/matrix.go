package artifact

import (
	"fmt"
	"slices"
)

// Matrix is a sparse cell-by-gene matrix in compressed sparse row form.
// Row i holds Data[Indptr[i]:Indptr[i+1]] at columns
// Indices[Indptr[i]:Indptr[i+1]].
type Matrix struct {
	Rows    int
	Cols    int
	Indptr  []int
	Indices []int
	Data    []float64
}

// NewMatrix creates an empty matrix with the given number of columns.
func NewMatrix(cols int) *Matrix {
	return &Matrix{Cols: cols, Indptr: []int{0}}
}

// AppendRow adds a row from column positions and values. Zero values
// are skipped, columns are sorted.
func (m *Matrix) AppendRow(cols []int, vals []float64) error {
	if len(cols) != len(vals) {
		return fmt.Errorf("row has %d columns and %d values", len(cols), len(vals))
	}
	order := make([]int, len(cols))
	for i := range order {
		order[i] = i
	}
	slices.SortFunc(order, func(a, b int) int { return cols[a] - cols[b] })

	prev := -1
	for _, k := range order {
		c := cols[k]
		if c < 0 || c >= m.Cols {
			return fmt.Errorf("column %d out of range [0, %d)", c, m.Cols)
		}
		if c == prev {
			return fmt.Errorf("column %d repeats in a row", c)
		}
		prev = c
		if vals[k] == 0 {
			continue
		}
		m.Indices = append(m.Indices, c)
		m.Data = append(m.Data, vals[k])
	}
	m.Rows++
	m.Indptr = append(m.Indptr, len(m.Indices))
	return nil
}

// Row returns column positions and values of row i. The slices share
// memory with the matrix.
func (m *Matrix) Row(i int) ([]int, []float64) {
	lo, hi := m.Indptr[i], m.Indptr[i+1]
	return m.Indices[lo:hi], m.Data[lo:hi]
}

// At returns the value at row i, column j.
func (m *Matrix) At(i, j int) float64 {
	cols, vals := m.Row(i)
	if k, ok := slices.BinarySearch(cols, j); ok {
		return vals[k]
	}
	return 0
}

// NNZ returns the number of stored values.
func (m *Matrix) NNZ() int {
	return len(m.Data)
}

// Validate checks the CSR structure.
func (m *Matrix) Validate() error {
	if len(m.Indptr) != m.Rows+1 {
		return fmt.Errorf("indptr has %d entries for %d rows", len(m.Indptr), m.Rows)
	}
	if m.Indptr[0] != 0 || m.Indptr[m.Rows] != len(m.Indices) {
		return fmt.Errorf("indptr does not cover %d values", len(m.Indices))
	}
	if len(m.Indices) != len(m.Data) {
		return fmt.Errorf("%d indices for %d values", len(m.Indices), len(m.Data))
	}
	for i := range m.Rows {
		if m.Indptr[i] > m.Indptr[i+1] {
			return fmt.Errorf("indptr decreases at row %d", i)
		}
	}
	for _, c := range m.Indices {
		if c < 0 || c >= m.Cols {
			return fmt.Errorf("column %d out of range [0, %d)", c, m.Cols)
		}
	}
	return nil
}

// SelectColumns returns a copy keeping only the given columns, in the
// given order.
func (m *Matrix) SelectColumns(cols []int) *Matrix {
	remap := make(map[int]int, len(cols))
	for newPos, old := range cols {
		remap[old] = newPos
	}
	res := NewMatrix(len(cols))
	for i := range m.Rows {
		idx, vals := m.Row(i)
		var nc []int
		var nv []float64
		for k, c := range idx {
			if p, ok := remap[c]; ok {
				nc = append(nc, p)
				nv = append(nv, vals[k])
			}
		}
		// columns are unique after remapping, AppendRow cannot fail
		_ = res.AppendRow(nc, nv)
	}
	return res
}

// Stack joins matrices with the same number of columns along rows.
func Stack(ms ...*Matrix) (*Matrix, error) {
	if len(ms) == 0 {
		return NewMatrix(0), nil
	}
	res := NewMatrix(ms[0].Cols)
	for _, m := range ms {
		if m.Cols != res.Cols {
			return nil, fmt.Errorf("cannot stack %d columns onto %d", m.Cols, res.Cols)
		}
		offset := len(res.Indices)
		res.Indices = append(res.Indices, m.Indices...)
		res.Data = append(res.Data, m.Data...)
		for _, p := range m.Indptr[1:] {
			res.Indptr = append(res.Indptr, p+offset)
		}
		res.Rows += m.Rows
	}
	return res, nil
}
