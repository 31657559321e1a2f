package fixtures_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ssaback/fixtures"
	"ssaback/pbqp"
)

func TestParseGraphScenarioF(t *testing.T) {
	src := `
# chain A-B-C, identity-minus matrices
node A [0, 0]
node B [0, 0]
node C [0, 0]

edge A B [[0, 1], [1, 0]]
edge B C [[0, 1], [1, 0]]

reduce A B
`
	g, nodes, err := fixtures.ParseGraph(src)
	require.NoError(t, err)
	require.NoError(t, pbqp.SolvePBQP(g, nil))

	assert.Equal(t, 0, nodes["A"].Solution)
	assert.Equal(t, 0, nodes["B"].Solution)
	assert.Equal(t, 0, nodes["C"].Solution)
	assert.Equal(t, 0.0, g.TotalCost)
}

func TestParseGraphRejectsUnknownEdgeTarget(t *testing.T) {
	_, _, err := fixtures.ParseGraph(`node A [0, 0]
edge A Z [[0, 1], [1, 0]]`)
	assert.Error(t, err)
}

func TestParseGraphHandlesInfinity(t *testing.T) {
	src := `
node A [0, 0]
node B [0, 0]
edge A B [[inf, inf], [inf, inf]]
reduce A
`
	g, nodes, err := fixtures.ParseGraph(src)
	require.NoError(t, err)
	err = pbqp.SolvePBQP(g, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no finite choice")
	_ = nodes
}
