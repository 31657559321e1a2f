package destruct

import (
	"ssaback/ir"
	"ssaback/liveness"
)

// DestroyPhis implements §4.4: after permutations/parallel copies are in
// place, decide for every (phi, argument) pair whether it can be pinned
// as-is, needs a duplicate copy, or can share an already-pinned value with
// another phi. Grounded on set_regs_or_place_dupls_walker.
func DestroyPhis(f *ir.Func, cls *ir.RegClass, live *liveness.Oracle, pins *ir.PinTable, opts Options) error {
	for _, b := range f.Blocks {
		phis := b.Phis()
		if len(phis) == 0 {
			continue
		}
		for _, phi := range phis {
			for i := range phi.Args {
				if err := destroyPhiArg(b, phi, i, cls, live, pins, opts); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func destroyPhiArg(b *ir.Block, phi *ir.Value, i int, cls *ir.RegClass, live *liveness.Oracle, pins *ir.PinTable, opts Options) error {
	arg := phi.Args[i]
	phiReg := phi.Reg

	if arg.Reg == phiReg || cls.Skip(arg.Reg) {
		pins.Pin(arg, b)
		return nil
	}

	if live.Interfere(arg, phi) {
		dup := insertDuplicate(b, i, arg, phiReg, live)
		phi.Args[i] = dup
		pins.Pin(dup, b)
		live.Update(arg)
		return nil
	}

	// No interference: the argument is a permutation projection (or
	// already-realized parallel-copy output). Try to share it with
	// another phi in the same block reading the same value at the same
	// predecessor with a matching register: that other phi will consume
	// it as-is, so pin it on its behalf. This does NOT mean the current
	// phi can use arg too — its own register may differ — so fall
	// through into the IsPinned check below rather than returning, the
	// same way the two ifs converge in set_regs_or_place_dupls_walker.
	for _, other := range b.Phis() {
		if other == phi {
			continue
		}
		if other.Args[i] == arg && other.Reg == arg.Reg {
			pins.Pin(arg, b)
			break
		}
	}

	if pins.IsPinned(arg) {
		// Already claimed — either by the sharing match just above (at a
		// register that may not be this phi's) or by an earlier phi at a
		// different register: emit a duplicate anyway, placed after the
		// permutation's output projections (InsertBefore always lands
		// before control ops and after whatever has already been
		// scheduled, which is exactly that position).
		dup := insertDuplicate(b, i, arg, phiReg, live)
		phi.Args[i] = dup
		pins.Pin(dup, b)
		return nil
	}

	arg.Reg = phiReg
	pins.Pin(arg, b)
	live.Update(arg)
	return nil
}

func insertDuplicate(b *ir.Block, i int, arg *ir.Value, reg ir.RegID, live *liveness.Oracle) *ir.Value {
	pred := b.CFGPred(i)
	f := pred.Func
	dup := f.NewDetachedValue(pred, ir.OpCopy, reg, true)
	dup.Args = []*ir.Value{arg}
	dup.Origin = arg
	pred.InsertBefore(dup)
	live.Introduce(dup)
	return dup
}
