package pbqp

import "math"

// Matrix is a PBQP edge cost matrix, rows indexed by the edge's source
// node choices and columns by its target node choices. Rebuilt from
// heuristical_co_ld.c's pbqp_matrix_get_row_min_index/
// pbqp_matrix_get_col_min_index call sites.
type Matrix [][]float64

// NewMatrix allocates a rows x cols zeroed cost matrix.
func NewMatrix(rows, cols int) Matrix {
	m := make(Matrix, rows)
	for i := range m {
		m[i] = make([]float64, cols)
	}
	return m
}

// RowMinIndex returns the column index and value of the minimum entry in
// row, pbqp_matrix_get_row_min_index.
func (m Matrix) RowMinIndex(row int) (idx int, min float64) {
	min = math.Inf(1)
	idx = -1
	for j, c := range m[row] {
		if c < min {
			min = c
			idx = j
		}
	}
	return idx, min
}

// ColMinIndex returns the row index and value of the minimum entry in
// col, pbqp_matrix_get_col_min_index.
func (m Matrix) ColMinIndex(col int) (idx int, min float64) {
	min = math.Inf(1)
	idx = -1
	for i := range m {
		if m[i][col] < min {
			min = m[i][col]
			idx = i
		}
	}
	return idx, min
}
