package scc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ssaback/fixtures"
	"ssaback/ir"
	"ssaback/ir/scc"
)

// TestPartitionFindsLoop builds entry -> h -> b -> h (back edge) -> exit and
// checks the loop body (h, b) comes back as a single nontrivial component
// while entry and exit remain trivial singletons.
func TestPartitionFindsLoop(t *testing.T) {
	cb := fixtures.NewCFGBuilder("loop")
	cb.Edge("entry", "h")
	cb.Edge("h", "b")
	cb.Edge("b", "h")
	cb.Edge("h", "exit")
	f := cb.Build()

	comps := scc.Partition(f)

	byBlock := map[*ir.Block]string{
		cb.Block("entry"): "entry",
		cb.Block("h"):     "h",
		cb.Block("b"):     "b",
		cb.Block("exit"):  "exit",
	}

	var loopComp []string
	total := 0
	for _, comp := range comps {
		total += len(comp)
		if len(comp) == 2 {
			for _, b := range comp {
				loopComp = append(loopComp, byBlock[b])
			}
		}
	}
	assert.Equal(t, 4, total, "every reachable block appears in exactly one component")
	assert.ElementsMatch(t, []string{"h", "b"}, loopComp)
}
