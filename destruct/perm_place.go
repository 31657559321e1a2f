package destruct

import (
	"ssaback/diag"
	"ssaback/ir"
	"ssaback/liveness"
)

// PlacePermutations implements the alternate perm-based phi placement
// route (spec §4.3), used in place of PlanParallelCopy/RealizeParallelCopy
// when Options.UseParallelCopyPlanner is false. For every predecessor edge
// of every phi-block it inserts one permutation node collecting the
// not-live-in phi arguments, deduplicated by identity so a value shared by
// several phis becomes exactly one permutation input, grounded on
// insert_all_perms_walker/perm_proj_t in the original.
func PlacePermutations(f *ir.Func, cls *ir.RegClass, live *liveness.Oracle, opts Options) error {
	for _, b := range f.Blocks {
		phis := b.Phis()
		if len(phis) == 0 {
			continue
		}
		for i := range b.Preds {
			if err := placePermAtEdge(b, i, cls, live, opts); err != nil {
				return err
			}
		}
	}
	return nil
}

func placePermAtEdge(b *ir.Block, i int, cls *ir.RegClass, live *liveness.Oracle, opts Options) error {
	pred := b.CFGPred(i)
	f := pred.Func

	// perm_proj_t equivalent: dedupe phi arguments by identity so a value
	// read by several phis becomes exactly one permutation input.
	proj := make(map[*ir.Value]*ir.Value)
	var order []*ir.Value

	for _, phi := range b.Phis() {
		arg := phi.Args[i]
		if live.IsLiveIn(b, arg) {
			// Interferes with the phi's own live range; §4.4 handles it
			// with a dedicated duplicate copy instead.
			continue
		}
		if cls.Skip(arg.Reg) {
			continue
		}
		if _, ok := proj[arg]; !ok {
			proj[arg] = nil
			order = append(order, arg)
		}
	}
	if len(order) == 0 {
		return nil
	}

	perm := f.NewDetachedValue(pred, ir.OpPerm, 0, false)
	perm.Args = append(perm.Args, order...)

	for idx, arg := range order {
		p := f.NewDetachedValue(pred, ir.OpPermProj, arg.Reg, true)
		p.Args = []*ir.Value{perm}
		p.Index = idx
		proj[arg] = p
		live.Introduce(p)
	}

	pred.InsertBefore(perm)
	for _, arg := range order {
		pred.InsertBefore(proj[arg])
	}

	for _, phi := range b.Phis() {
		arg := phi.Args[i]
		if p, ok := proj[arg]; ok && p != nil {
			phi.Args[i] = p
			live.Update(phi)
		}
	}

	if opts.dump(diag.DumpAfterPermPlacement) {
		opts.Debug.Tracef("placed permutation (%d inputs) at block %d pred %d", len(order), b.ID, i)
	}
	return nil
}
