package dom_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ssaback/fixtures"
	"ssaback/ir"
	"ssaback/ir/dom"
)

func TestPostorderDiamond(t *testing.T) {
	cb := fixtures.NewCFGBuilder("diamond")
	cb.Edge("entry", "p0")
	cb.Edge("entry", "p1")
	cb.Edge("p0", "join")
	cb.Edge("p1", "join")
	f := cb.Build()

	order := dom.Postorder(f)
	a := assert.New(t)
	a.Len(order, 4)
	a.Equal(cb.Block("entry"), order[len(order)-1], "entry is visited last in postorder")

	byBlock := map[*ir.Block]string{
		cb.Block("entry"): "entry",
		cb.Block("p0"):    "p0",
		cb.Block("p1"):    "p1",
		cb.Block("join"):  "join",
	}
	seen := make(map[string]bool)
	for _, b := range order {
		seen[byBlock[b]] = true
	}
	a.True(seen["entry"] && seen["p0"] && seen["p1"] && seen["join"])
}
