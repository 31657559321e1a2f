package destruct_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ssaback/destruct"
	"ssaback/fixtures"
	"ssaback/ir"
	"ssaback/liveness"
)

// TestScenarioE_PlannerDoublesLiveInUse is spec §8 scenario E: a phi
// argument that is live-in to the phi-block must have its n_used entry
// incremented twice (once for the copy consumer, once for the
// continuing use), so the realizer never treats the register as free to
// overwrite.
func TestScenarioE_PlannerDoublesLiveInUse(t *testing.T) {
	cb := fixtures.NewCFGBuilder("scenarioE")
	cb.Edge("pred", "B")
	cb.Edge("B", "S")

	x := cb.Value("pred", "x", 1)
	cb.Phi("B", "phi", 0, "x")
	// A real use of x inside B (besides the phi) is what makes x live-in
	// to B: it is read again after the block entry.
	cb.Value("B", "use_x", 2, "x")
	cb.Edge("S", "exit")

	f := cb.Build()
	cls := ir.NewRegClass([]string{"r0", "r1", "r2"}, nil)
	live := liveness.Compute(f)

	b := cb.Block("B")
	require.True(t, live.IsLiveIn(b, x), "x must be live-in to B for this scenario")

	pc, err := destruct.PlanParallelCopy(b, 0, cls, live)
	require.NoError(t, err)

	assert.Equal(t, int32(2), pc.NUsed[1], "live-in source must be counted twice")
}

// TestPlannerSkipsNoOpAndJokerArgs verifies spec §4.1's skip rules: a phi
// whose argument already shares its register is a no-op, and joker/virtual
// registers are ignored entirely.
func TestPlannerSkipsNoOpAndJokerArgs(t *testing.T) {
	cb := fixtures.NewCFGBuilder("skip")
	cb.Edge("pred", "B")

	cb.Value("pred", "same", 0)
	cb.Phi("B", "phi_noop", 0, "same")

	joker := ir.NewRegClass([]string{"r0", "r1"}, []ir.RegType{ir.RegNormal, ir.RegJoker})
	// jokerval's register (0) deliberately differs from phi_joker's (1): if
	// the planner didn't special-case joker registers, this pair would look
	// like a real parcopy demand instead of a skip.
	cb.Value("pred", "jokerval", 0)
	cb.Phi("B", "phi_joker", 1, "jokerval")

	f := cb.Build()
	live := liveness.Compute(f)
	b := cb.Block("B")

	pc, err := destruct.PlanParallelCopy(b, 0, joker, live)
	require.NoError(t, err)
	for r, src := range pc.Parcopy {
		assert.Equal(t, ir.RegID(r), src, "no-op/joker phis must not produce any parcopy demand")
	}
}
