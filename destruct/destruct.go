// Package destruct is the SSA-Destruction Engine: it eliminates
// phi-functions of one register class after register allocation has
// assigned every value a register, replacing them with parallel copies,
// permutations, and duplicate moves that preserve program semantics at
// every control-flow merge. Grounded on
// _examples/original_source/ir/be/bessadestr.c.
package destruct

import (
	"ssaback/diag"
	"ssaback/ir"
	"ssaback/ir/dom"
	"ssaback/liveness"
)

// DestroySSA runs §4.1-§4.4 end to end over f for register class cls,
// mutating f in place. opts.UseParallelCopyPlanner selects the route: true
// runs the parallel-copy planner/realizer (§4.1/§4.2), false runs the
// perm-placement walker (§4.3) instead. Either way phi-destruction (§4.4)
// runs last over the merge-region values each route produced.
func DestroySSA(f *ir.Func, cls *ir.RegClass, live *liveness.Oracle, opts Options) error {
	pins := ir.NewPinTable()
	f.Pins = pins

	if opts.UseParallelCopyPlanner {
		// A DFS postorder of the CFG (dom.Postorder) is a stable block
		// walk; liveness is recomputed lazily so any stable order is
		// legal (spec §5).
		for _, b := range dom.Postorder(f) {
			phis := b.Phis()
			if len(phis) == 0 {
				continue
			}
			for i := range b.Preds {
				pred := b.CFGPred(i)
				pc, err := PlanParallelCopy(b, i, cls, live)
				if err != nil {
					return err
				}
				final, err := RealizeParallelCopy(pred, pc, cls, live, opts)
				if err != nil {
					return err
				}
				for _, phi := range phis {
					arg := phi.Args[i]
					if arg.Reg == phi.Reg || cls.Skip(arg.Reg) {
						continue // no move was planned for this argument
					}
					if v, ok := final[phi.Reg]; ok {
						phi.Args[i] = v
					}
				}
			}
		}
	} else if err := PlacePermutations(f, cls, live, opts); err != nil {
		return err
	}

	if err := DestroyPhis(f, cls, live, pins, opts); err != nil {
		return err
	}

	for _, b := range f.Blocks {
		b.ClearPhis()
	}

	if opts.dump(diag.DumpAfterRegisterSet) {
		opts.Debug.Section("ssa destruction complete: " + f.Name)
	}

	return nil
}

// CheckSSADestroyed is the post-condition verifier spec §6's
// destroy_ssa_check names: every phi of the processed class must be gone,
// and — spec §8 property 3 — every argument of every phi that was
// destroyed must share the phi's register and be pinned. Because this
// implementation physically drops resolved phis from Block.Values
// (rather than leaving them as inert dead code for a later DCE pass to
// sweep), they are walked back from Block.ResolvedPhis() instead of live
// IR; f.Pins is the table destruct.DestroySSA populated while resolving
// them.
func CheckSSADestroyed(f *ir.Func) error {
	for _, b := range f.Blocks {
		if n := len(b.Phis()); n != 0 {
			return diag.NewFault(diag.SuspectedBug,
				"block %d still has %d phi(s) after destruction", b.ID, n)
		}
		for _, phi := range b.ResolvedPhis() {
			for i, arg := range phi.Args {
				if arg.Reg != phi.Reg {
					return diag.NewFault(diag.SuspectedBug,
						"phi %d arg %d: register %d disagrees with phi's register %d",
						phi.ID, i, arg.Reg, phi.Reg)
				}
				if f.Pins == nil || !f.Pins.IsPinned(arg) {
					return diag.NewFault(diag.SuspectedBug,
						"phi %d arg %d: value %d is not pinned", phi.ID, i, arg.ID)
				}
			}
		}
	}
	return nil
}
