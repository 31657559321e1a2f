package destruct

import (
	"ssaback/diag"
	"ssaback/ir"
	"ssaback/liveness"
)

// ParallelCopy is the per-predecessor-edge parallel-copy specification
// spec §3 describes: parcopy[r] is the source register that must end up
// in r (identity meaning "no move"), n_used[r] counts how many times r is
// read as a source. Src additionally records, for every register with a
// pending demand, the concrete IR value presently occupying it — the
// planner has this for free (it is exactly the phi argument), and the
// realizer needs it to build real copy/permutation nodes rather than bare
// register indices.
type ParallelCopy struct {
	Parcopy []ir.RegID
	NUsed   []int32
	Src     map[ir.RegID]*ir.Value
}

func newParallelCopy(n int) *ParallelCopy {
	pc := &ParallelCopy{
		Parcopy: make([]ir.RegID, n),
		NUsed:   make([]int32, n),
		Src:     make(map[ir.RegID]*ir.Value),
	}
	for r := range pc.Parcopy {
		pc.Parcopy[r] = ir.RegID(r)
	}
	return pc
}

// PlanParallelCopy translates block b's phi-list at predecessor index i
// into a parallel-copy specification (spec §4.1). It never fails on
// well-formed input; a malformed input (two phis claiming the same
// destination register) is reported as an InvariantViolation fault rather
// than silently overwritten.
func PlanParallelCopy(b *ir.Block, i int, cls *ir.RegClass, live *liveness.Oracle) (*ParallelCopy, error) {
	pc := newParallelCopy(cls.N())

	for _, phi := range b.Phis() {
		arg := phi.Args[i]
		phiReg := phi.Reg

		if arg.Reg == phiReg {
			continue // no-op: phi and argument already share a register
		}
		if cls.Skip(arg.Reg) || cls.Skip(phiReg) {
			continue
		}

		if pc.Parcopy[phiReg] != phiReg {
			return nil, diag.NewFault(diag.InvariantViolation,
				"two phis in block %d claim destination register %s for predecessor %d",
				b.ID, cls.Name(phiReg), i)
		}

		pc.Parcopy[phiReg] = arg.Reg
		pc.Src[arg.Reg] = arg
		pc.NUsed[arg.Reg]++

		if live.IsLiveIn(b, arg) {
			// The source remains in use after the copy: count it twice so
			// the realizer never treats it as a one-shot end-of-chain
			// register it is free to overwrite.
			pc.NUsed[arg.Reg]++
		}
	}

	return pc, nil
}
