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

func threeRegClass() *ir.RegClass {
	return ir.NewRegClass([]string{"r0", "r1", "r2"}, nil)
}

// newPC builds a ParallelCopy with the given parcopy/n_used arrays, using
// one distinct placeholder value per register actually read as a source
// (the planner would have populated Src identically: one IR value per
// register that some destination currently demands).
func newPC(t *testing.T, pred *ir.Block, parcopy []ir.RegID, nUsed []int32) *destruct.ParallelCopy {
	t.Helper()
	f := pred.Func
	pc := &destruct.ParallelCopy{
		Parcopy: append([]ir.RegID(nil), parcopy...),
		NUsed:   append([]int32(nil), nUsed...),
		Src:     make(map[ir.RegID]*ir.Value),
	}
	for r, src := range parcopy {
		if ir.RegID(r) == src {
			continue
		}
		if _, ok := pc.Src[src]; !ok {
			v := f.NewValue(pred, ir.OpGeneric, src, true)
			pc.Src[src] = v
		}
	}
	return pc
}

func newPredFunc() (*ir.Func, *ir.Block, *liveness.Oracle) {
	cb := fixtures.NewCFGBuilder("f")
	pred := cb.Block("pred")
	f := cb.Build()
	return f, pred, liveness.Compute(f)
}

// TestScenarioA is spec §8 scenario A: pure chain r0 <- r1 <- r2. Expect
// two copies, no permutation, no restore. The realizer emits r1 -> r0
// first and r2 -> r1 second, so r1 is read before it is overwritten.
func TestScenarioA(t *testing.T) {
	_, pred, live := newPredFunc()
	cls := threeRegClass()
	pc := newPC(t, pred, []ir.RegID{1, 2, 2}, []int32{0, 1, 1})

	final, err := destruct.RealizeParallelCopy(pred, pc, cls, live, destruct.Options{})
	require.NoError(t, err)

	var copies, perms int
	for _, v := range pred.Values {
		switch v.Op {
		case ir.OpCopy:
			copies++
		case ir.OpPerm:
			perms++
		}
	}
	assert.Equal(t, 2, copies)
	assert.Equal(t, 0, perms)
	assert.NotNil(t, final[0])
	assert.NotNil(t, final[1])
}

// TestScenarioB is spec §8 scenario B: pure 2-cycle swap(r0, r1). Expect
// one permutation node with two inputs/outputs, no restore copies.
func TestScenarioB(t *testing.T) {
	_, pred, live := newPredFunc()
	cls := threeRegClass()
	pc := newPC(t, pred, []ir.RegID{1, 0, 2}, []int32{1, 1, 0})

	_, err := destruct.RealizeParallelCopy(pred, pc, cls, live, destruct.Options{})
	require.NoError(t, err)

	var perms, copies int
	var permNode *ir.Value
	for _, v := range pred.Values {
		switch v.Op {
		case ir.OpPerm:
			perms++
			permNode = v
		case ir.OpCopy:
			copies++
		}
	}
	assert.Equal(t, 1, perms)
	assert.Equal(t, 0, copies)
	require.NotNil(t, permNode)
	assert.Len(t, permNode.Args, 2)
}

// TestScenarioC is spec §8 scenario C: fork from r0 into chains targeting
// r1 and r2. The longest chain (tie broken toward the lower index, r1)
// stays driven directly; the other gets a restore copy.
func TestScenarioC(t *testing.T) {
	_, pred, live := newPredFunc()
	cls := threeRegClass()
	pc := newPC(t, pred, []ir.RegID{0, 0, 0}, []int32{2, 0, 0})

	final, err := destruct.RealizeParallelCopy(pred, pc, cls, live, destruct.Options{})
	require.NoError(t, err)

	var copies int
	for _, v := range pred.Values {
		if v.Op == ir.OpCopy {
			copies++
		}
	}
	assert.Equal(t, 2, copies, "one copy r0->r1 (or r0->r2), one restore to the other")
	assert.NotNil(t, final[1])
	assert.NotNil(t, final[2])
}

// TestScenarioD is spec §8 scenario D: cycle (r0, r1) with an
// out-of-cycle propagation to r2. Expect a permutation swapping r0/r1
// plus one restore copy landing the pre-swap r0 value in r2.
func TestScenarioD(t *testing.T) {
	_, pred, live := newPredFunc()
	cls := threeRegClass()
	pc := newPC(t, pred, []ir.RegID{1, 0, 0}, []int32{2, 1, 0})

	_, err := destruct.RealizeParallelCopy(pred, pc, cls, live, destruct.Options{})
	require.NoError(t, err)

	var perms, copies int
	for _, v := range pred.Values {
		switch v.Op {
		case ir.OpPerm:
			perms++
		case ir.OpCopy:
			copies++
		}
	}
	assert.Equal(t, 1, perms)
	assert.Equal(t, 1, copies)
}
