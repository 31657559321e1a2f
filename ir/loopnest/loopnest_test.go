package loopnest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ssaback/fixtures"
	"ssaback/ir/loopnest"
)

func TestForSingleLoop(t *testing.T) {
	cb := fixtures.NewCFGBuilder("loop")
	cb.Edge("entry", "h")
	cb.Edge("h", "b")
	cb.Edge("b", "h")
	cb.Edge("h", "exit")
	f := cb.Build()

	nest := loopnest.For(f)

	a := assert.New(t)
	a.False(nest.HasIrreducible)
	a.Equal(int16(0), nest.Depth(cb.Block("entry").ID))
	a.Equal(int16(0), nest.Depth(cb.Block("exit").ID))
	a.Equal(int16(1), nest.Depth(cb.Block("h").ID))
	a.Equal(int16(1), nest.Depth(cb.Block("b").ID))
}
