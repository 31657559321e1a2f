package pbqp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ssaback/pbqp"
)

func TestMatrixRowColMinIndex(t *testing.T) {
	m := pbqp.NewMatrix(2, 3)
	m[0] = []float64{5, 1, 9}
	m[1] = []float64{2, 2, 0}

	idx, min := m.RowMinIndex(0)
	assert.Equal(t, 1, idx)
	assert.Equal(t, 1.0, min)

	idx, min = m.ColMinIndex(1)
	assert.Equal(t, 0, idx)
	assert.Equal(t, 1.0, min)
}
