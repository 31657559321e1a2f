// Package liveness is the concrete implementation of the LivenessOracle
// collaborator spec §6 treats as externally supplied: is_live_in,
// values_interfere, introduce, update, invalidate. It generalizes the
// teacher's regalloc.go computeLive family (three-tier acyclic / iterative
// / SCC dispatch) from full register-allocation liveness down to what
// SSA-destruction needs: live-in membership and same-context interference.
package liveness

import (
	"ssaback/ir"
	"ssaback/ir/dom"
	"ssaback/ir/loopnest"
	"ssaback/ir/scc"
)

// distance sentinels, mirroring the teacher's branchDistance constants but
// collapsed to a single "one step" unit since this package does not model
// branch-likelihood hints (out of scope: spec §1 excludes global dataflow
// beyond what SSA-destruction and its oracle need).
const normalDistance = 1

type liveInfo struct {
	id   ir.ID
	dist int32
}

// Oracle answers liveness and interference queries for one procedure.
// Recomputation is lazy (spec §5: "liveness is recomputed lazily"): any
// Introduce/Update/Invalidate call only marks the oracle dirty, and the
// next query rebuilds it.
type Oracle struct {
	f *ir.Func

	liveOut [][]liveInfo      // block ID -> live-out (s.live equivalent)
	liveIn  []map[ir.ID]int32 // block ID -> live-in, keyed for O(1) lookup

	dirty bool
}

// Compute builds a fresh Oracle for f.
func Compute(f *ir.Func) *Oracle {
	o := &Oracle{f: f}
	o.recompute()
	return o
}

func (o *Oracle) recompute() {
	f := o.f
	n := f.NumBlocks()
	o.liveOut = make([][]liveInfo, n)
	o.liveIn = make([]map[ir.ID]int32, n)
	for i := range o.liveIn {
		o.liveIn[i] = make(map[ir.ID]int32)
	}
	o.dirty = false

	if len(f.Blocks) <= 1 {
		return
	}

	po := dom.Postorder(f)
	nest := loopnest.For(f)

	live := newDistSet()
	t := newDistSet()

	switch {
	case len(nest.Loops) == 0 && !nest.HasIrreducible:
		// FAST PATH: acyclic CFGs need only a single postorder pass.
		for _, b := range po {
			o.processBlock(b, live, t)
		}
	case nest.HasIrreducible || len(po) < 30:
		// FALLBACK: irreducible CFGs or small functions converge fast
		// enough with a plain fixpoint iteration.
		for {
			changed := false
			for _, b := range po {
				if o.processBlock(b, live, t) {
					changed = true
				}
			}
			if !changed {
				break
			}
		}
	default:
		// LOOP PATH: reducible CFGs with loops use 3-pass SCC iteration.
		sccs := scc.Partition(f)
		for j := len(sccs) - 1; j >= 0; j-- {
			component := sccs[j]
			if len(component) == 1 {
				o.processBlock(component[0], live, t)
				continue
			}
			exitward, entryward := dom.SCCAlternatingOrders(component)
			for _, b := range exitward {
				o.processBlock(b, live, t)
			}
			for _, b := range entryward {
				o.processBlock(b, live, t)
			}
			for _, b := range exitward {
				o.processBlock(b, live, t)
			}
		}
	}
}

// processBlock updates liveOut/liveIn for b and expands liveOut of its
// predecessors. Returns true if any predecessor's live-out set changed,
// mirroring the teacher's processBlock return/iteration contract.
func (o *Oracle) processBlock(b *ir.Block, live, t *distSet) bool {
	live.clear()
	for _, e := range o.liveOut[b.ID] {
		live.set(e.id, e.dist)
	}

	update := false
	for _, e := range b.Succs {
		succ := e.B
		for _, v := range succ.Values {
			if v.Op != ir.OpPhi {
				break
			}
			arg := v.Args[e.I]
			if arg.NeedReg && (!live.contains(arg.ID) || normalDistance < live.get(arg.ID)) {
				live.set(arg.ID, normalDistance)
				update = true
			}
		}
	}
	if update {
		o.liveOut[b.ID] = updateLive(live, o.liveOut[b.ID])
	}

	for _, e := range live.contents() {
		live.set(e.id, e.dist+int32(len(b.Values)))
	}

	for i := len(b.Values) - 1; i >= 0; i-- {
		v := b.Values[i]
		live.remove(v.ID)
		if v.Op == ir.OpPhi {
			continue
		}
		for _, a := range v.Args {
			if a.NeedReg {
				live.set(a.ID, int32(i))
			}
		}
	}

	// live now holds the live-in set of b.
	m := make(map[ir.ID]int32, live.len())
	for _, e := range live.contents() {
		m[e.id] = e.dist
	}
	o.liveIn[b.ID] = m

	changed := false
	for _, e := range b.Preds {
		p := e.B
		t.clear()
		for _, le := range o.liveOut[p.ID] {
			t.set(le.id, le.dist)
		}
		upd := false
		for _, le := range live.contents() {
			d := le.dist + normalDistance
			if !t.contains(le.id) || d < t.get(le.id) {
				upd = true
				t.set(le.id, d)
			}
		}
		if upd {
			o.liveOut[p.ID] = updateLive(t, o.liveOut[p.ID])
			changed = true
		}
	}
	return changed
}

func updateLive(t *distSet, dst []liveInfo) []liveInfo {
	dst = dst[:0]
	if cap(dst) < t.len() {
		dst = make([]liveInfo, 0, t.len())
	}
	for _, e := range t.contents() {
		dst = append(dst, e)
	}
	return dst
}

// IsLiveIn reports whether v is live at the start of b (spec §6
// is_live_in).
func (o *Oracle) IsLiveIn(b *ir.Block, v *ir.Value) bool {
	if o.dirty {
		o.recompute()
	}
	_, ok := o.liveIn[b.ID][v.ID]
	return ok
}

// Interfere reports whether a and b's live ranges overlap (spec §6
// values_interfere). Two distinct values interfere if one is live at the
// program point where the other is defined: reaching in from outside the
// defining block (checked via live-in membership) or defined earlier in
// the same block and used at or after the later definition.
func (o *Oracle) Interfere(a, b *ir.Value) bool {
	if o.dirty {
		o.recompute()
	}
	if a == b {
		return false
	}
	return o.liveAtDef(a, b) || o.liveAtDef(b, a)
}

func (o *Oracle) liveAtDef(v, def *ir.Value) bool {
	if v == def {
		return false
	}
	if v.Block != def.Block {
		_, ok := o.liveIn[def.Block.ID][v.ID]
		return ok
	}
	defIdx := indexOf(def)
	vIdx := indexOf(v)
	if defIdx < 0 || vIdx < 0 || vIdx >= defIdx {
		return false
	}
	for i := defIdx; i < len(def.Block.Values); i++ {
		for _, a := range def.Block.Values[i].Args {
			if a == v {
				return true
			}
		}
	}
	return false
}

func indexOf(v *ir.Value) int {
	for i, w := range v.Block.Values {
		if w == v {
			return i
		}
	}
	return -1
}

// Introduce registers a newly created value (spec §6 introduce). This
// oracle recomputes lazily, so Introduce only marks it stale.
func (o *Oracle) Introduce(v *ir.Value) { o.dirty = true }

// Update refreshes liveness after an existing value's uses change (spec §6
// update).
func (o *Oracle) Update(v *ir.Value) { o.dirty = true }

// Invalidate forces a full recompute on the next query (spec §6
// invalidate).
func (o *Oracle) Invalidate() { o.dirty = true }

// distSet is a small map-backed working set mirroring the shape of the
// teacher's sparseMapPos: clear/contains/get/set/remove/contents.
type distSet struct {
	m map[ir.ID]int32
}

func newDistSet() *distSet { return &distSet{m: make(map[ir.ID]int32)} }

func (s *distSet) clear() {
	for k := range s.m {
		delete(s.m, k)
	}
}
func (s *distSet) contains(id ir.ID) bool { _, ok := s.m[id]; return ok }
func (s *distSet) get(id ir.ID) int32     { return s.m[id] }
func (s *distSet) set(id ir.ID, d int32)  { s.m[id] = d }
func (s *distSet) remove(id ir.ID)        { delete(s.m, id) }
func (s *distSet) len() int               { return len(s.m) }
func (s *distSet) contents() []liveInfo {
	out := make([]liveInfo, 0, len(s.m))
	for k, v := range s.m {
		out = append(out, liveInfo{k, v})
	}
	return out
}
