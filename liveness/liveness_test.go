package liveness_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ssaback/fixtures"
	"ssaback/liveness"
)

// TestIsLiveInAcrossBlock confirms a value defined in one block and used in
// a successor, past a phi, shows up as live-in to that successor.
func TestIsLiveInAcrossBlock(t *testing.T) {
	cb := fixtures.NewCFGBuilder("liveacross")
	cb.Edge("pred", "B")
	cb.Edge("B", "S")
	x := cb.Value("pred", "x", 1)
	cb.Phi("B", "phi", 0, "x")
	cb.Value("B", "use_x", 2, "x")
	f := cb.Build()

	live := liveness.Compute(f)
	assert.True(t, live.IsLiveIn(cb.Block("B"), x))
}

// TestInterfereSameBlock confirms two values defined in the same block
// interfere when the first is still referenced after the second is
// defined.
func TestInterfereSameBlock(t *testing.T) {
	cb := fixtures.NewCFGBuilder("samebk")
	a := cb.Value("entry", "a", 0)
	b := cb.Value("entry", "b", 1)
	cb.Value("entry", "c", 2, "a", "b")
	f := cb.Build()

	live := liveness.Compute(f)
	assert.True(t, live.Interfere(a, b), "a is still used by c, defined after b")
}

// TestInterfereDisjointRanges confirms values with no overlapping range do
// not interfere.
func TestInterfereDisjointRanges(t *testing.T) {
	cb := fixtures.NewCFGBuilder("disjoint")
	a := cb.Value("entry", "a", 0)
	cb.Value("entry", "use_a", 1, "a")
	b := cb.Value("entry", "b", 2)
	f := cb.Build()

	live := liveness.Compute(f)
	assert.False(t, live.Interfere(a, b), "a's last use precedes b's definition")
}
