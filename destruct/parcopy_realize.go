package destruct

import (
	"sort"

	"ssaback/diag"
	"ssaback/ir"
	"ssaback/liveness"
)

// restoreOp is a deferred restore-copy recorded during cycle/fork
// rewriting (spec §4.2 steps 2-3), replayed in order during step 5.
type restoreOp struct {
	from ir.RegID
	to   ir.RegID
}

// RealizeParallelCopy emits, at the end of pred (immediately before its
// control-flow-terminating values), the sequence of copy/permutation
// values that realize pc (spec §4.2). It mutates pc in place as it
// resolves entries, exactly as the original's impl_parallel_copy walks
// and rewrites its parcopy/n_used arrays.
func RealizeParallelCopy(pred *ir.Block, pc *ParallelCopy, cls *ir.RegClass, live *liveness.Oracle, opts Options) (map[ir.RegID]*ir.Value, error) {
	n := cls.N()
	f := pred.Func

	if opts.dump(diag.DumpParallelCopies) {
		opts.Debug.Section("parallel copy @ " + cls.Name(0) + " class")
		dumpParcopy(opts.Debug, cls, pc)
	}

	// Step 1: cycle identification via a non-destructive chain-end walk.
	isPartOfCycle := identifyCycles(pc, n)

	var restores []restoreOp

	// Step 2: out-of-cycle propagations.
	for fromReg := ir.RegID(0); int(fromReg) < n; fromReg++ {
		if !isPartOfCycle[fromReg] {
			continue
		}
		for toReg := ir.RegID(0); int(toReg) < n; toReg++ {
			if isPartOfCycle[toReg] || pc.Parcopy[toReg] != fromReg {
				continue
			}
			newSrc, ok := cycleReaderOf(pc, isPartOfCycle, fromReg)
			if !ok {
				return nil, diag.NewFault(diag.InvariantViolation,
					"unambiguous propagation source not found for %s", cls.Name(fromReg))
			}
			restores = append(restores, restoreOp{from: newSrc, to: toReg})
			pc.NUsed[fromReg]--
			pc.Parcopy[toReg] = toReg
		}
	}

	// Step 3: fork linearization over the remaining non-cycle entries.
	for r := ir.RegID(0); int(r) < n; r++ {
		if isPartOfCycle[r] || pc.NUsed[r] <= 1 {
			continue
		}
		var dsts []ir.RegID
		for d := ir.RegID(0); int(d) < n; d++ {
			// d == r is r's own identity entry, not a demand on r: a
			// fixpoint trivially satisfies Parcopy[d] == r when d == r,
			// but nothing actually needs r's value copied into r.
			if d != r && pc.Parcopy[d] == r {
				dsts = append(dsts, d)
			}
		}
		if len(dsts) < 2 {
			continue
		}
		sort.Slice(dsts, func(i, j int) bool {
			li, lj := chainLength(dsts[i], pc, isPartOfCycle), chainLength(dsts[j], pc, isPartOfCycle)
			if li != lj {
				return li > lj
			}
			return dsts[i] < dsts[j] // tie broken by lower index (Scenario C)
		})
		longestNext := dsts[0]
		if longestNext == r {
			return nil, diag.NewFault(diag.InvariantViolation,
				"fork's chosen longest-chain destination %s is itself", cls.Name(r))
		}
		for _, dst := range dsts[1:] {
			restores = append(restores, restoreOp{from: longestNext, to: dst})
			pc.NUsed[r]--
			pc.Parcopy[dst] = dst
		}
	}

	current := make(map[ir.RegID]*ir.Value, len(pc.Src))
	for r, v := range pc.Src {
		current[r] = v
	}
	var emitted []*ir.Value

	// Step 1 (emission pass): drain the now fork-free chains, recording
	// each resolved register's current value so later links in the same
	// chain, or the restores replayed in step 5, can reference it.
	workNUsed := append([]int32(nil), pc.NUsed...)
	resolved := make([]bool, n)
	var ready []ir.RegID
	for r := ir.RegID(0); int(r) < n; r++ {
		if pc.Parcopy[r] != r && workNUsed[r] == 0 {
			ready = append(ready, r)
		}
	}
	for len(ready) > 0 {
		r := ready[len(ready)-1]
		ready = ready[:len(ready)-1]
		s := pc.Parcopy[r]

		srcVal := current[s]
		cp := f.NewDetachedValue(pred, ir.OpCopy, r, true)
		cp.Args = []*ir.Value{srcVal}
		cp.Origin = srcVal
		emitted = append(emitted, cp)
		current[r] = cp
		live.Introduce(cp)

		resolved[r] = true
		pc.Parcopy[r] = r
		workNUsed[s]--
		if !resolved[s] && pc.Parcopy[s] != s && workNUsed[s] == 0 {
			ready = append(ready, s)
		}
	}

	// Step 4: permutation emission. Whatever parcopy entries remain
	// non-identity must all be cycle members; realize them as a single
	// atomic permutation node.
	var cycleDests []ir.RegID
	for r := ir.RegID(0); int(r) < n; r++ {
		if pc.Parcopy[r] == r {
			continue
		}
		if !isPartOfCycle[r] {
			return nil, diag.NewFault(diag.InvariantViolation,
				"residual parallel copy entry for %s is neither a fixpoint nor a cycle member", cls.Name(r))
		}
		cycleDests = append(cycleDests, r)
	}
	if len(cycleDests) > 0 {
		perm := f.NewDetachedValue(pred, ir.OpPerm, 0, false)
		perm.Args = make([]*ir.Value, 0, len(cycleDests))
		for _, r := range cycleDests {
			perm.Args = append(perm.Args, current[pc.Parcopy[r]])
		}
		emitted = append(emitted, perm)
		for i, r := range cycleDests {
			proj := f.NewDetachedValue(pred, ir.OpPermProj, r, true)
			proj.Args = []*ir.Value{perm}
			proj.Index = i
			emitted = append(emitted, proj)
			current[r] = proj
			live.Introduce(proj)
			pc.Parcopy[r] = r
		}
	}

	// Step 5: replay the deferred restore-copies in recorded order.
	for _, r := range restores {
		srcVal := current[r.from]
		cp := f.NewDetachedValue(pred, ir.OpCopy, r.to, true)
		cp.Args = []*ir.Value{srcVal}
		cp.Origin = srcVal
		emitted = append(emitted, cp)
		current[r.to] = cp
		live.Introduce(cp)
	}

	for _, v := range emitted {
		pred.InsertBefore(v)
	}

	if opts.dump(diag.DumpParallelCopies) {
		names := make([]string, 0, len(emitted))
		for _, v := range emitted {
			names = append(names, cls.Name(v.Reg))
		}
		opts.Debug.Chain(names)
	}

	return current, nil
}

// identifyCycles performs the non-destructive chain-end draining walk
// spec §4.2 step 1 describes, leaving pc untouched.
func identifyCycles(pc *ParallelCopy, n int) []bool {
	work := append([]int32(nil), pc.NUsed...)
	removed := make([]bool, n)

	var queue []ir.RegID
	for r := ir.RegID(0); int(r) < n; r++ {
		if pc.Parcopy[r] != r && work[r] == 0 {
			queue = append(queue, r)
		}
	}
	for len(queue) > 0 {
		r := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		removed[r] = true
		s := pc.Parcopy[r]
		work[s]--
		if !removed[s] && pc.Parcopy[s] != s && work[s] == 0 {
			queue = append(queue, s)
		}
	}

	isPartOfCycle := make([]bool, n)
	for r := ir.RegID(0); int(r) < n; r++ {
		isPartOfCycle[r] = pc.Parcopy[r] != r && !removed[r]
	}
	return isPartOfCycle
}

// cycleReaderOf returns the cycle member that reads fromReg as its source
// within the cycle itself, i.e. fromReg's unique in-cycle successor.
func cycleReaderOf(pc *ParallelCopy, isPartOfCycle []bool, fromReg ir.RegID) (ir.RegID, bool) {
	for m := ir.RegID(0); int(m) < len(pc.Parcopy); m++ {
		if isPartOfCycle[m] && pc.Parcopy[m] == fromReg {
			return m, true
		}
	}
	return 0, false
}

// chainLength measures the number of demands satisfied downstream of dst:
// dst's own demand plus, recursively, every non-cycle register that reads
// dst as its source (spec §4.2 step 3: "measured in number of demands
// satisfied").
func chainLength(dst ir.RegID, pc *ParallelCopy, isPartOfCycle []bool) int {
	steps := 1
	for x := ir.RegID(0); int(x) < len(pc.Parcopy); x++ {
		if x != dst && !isPartOfCycle[x] && pc.Parcopy[x] == dst {
			steps += chainLength(x, pc, isPartOfCycle)
		}
	}
	return steps
}

func dumpParcopy(s *diag.Sink, cls *ir.RegClass, pc *ParallelCopy) {
	for r := 0; r < cls.N(); r++ {
		src := pc.Parcopy[r]
		if ir.RegID(r) == src {
			continue
		}
		s.Tracef("%s <- %s (n_used=%d)", cls.Name(ir.RegID(r)), cls.Name(src), pc.NUsed[r])
	}
}
