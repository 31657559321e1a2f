package ir

// ID is a small dense identifier, assigned once and never reused within a
// procedure — the same role as ID in the teacher's compiler IR.
type ID int32

// Op tags phi-functions and the copy/permutation nodes SSA destruction
// creates; every other value is OpGeneric, and the core never needs to
// know what such a value computes.
type Op uint8

const (
	OpGeneric Op = iota
	OpPhi
	// OpCopy is a plain register-to-register move, the Go value for the
	// original's "copy node": Args[0] is the source value, Reg the
	// destination register.
	OpCopy
	// OpPerm is a synthetic multi-in/multi-out permutation node (spec
	// GLOSSARY "Permutation node"): Args are its ordered inputs, one per
	// OpPermProj consumer.
	OpPerm
	// OpPermProj projects one output out of an OpPerm: Args[0] is the
	// OpPerm value, Index selects which input/output pair it realizes.
	OpPermProj
)

// Value is a single SSA value: a phi or an ordinary instruction. Only the
// fields SSA-destruction and the liveness oracle need are modeled; this is
// deliberately not a full compiler IR.
type Value struct {
	ID      ID
	Op      Op
	Block   *Block
	Args    []*Value // for a phi, Args[i] is the i-th predecessor's value
	Reg     RegID
	NeedReg bool // false for values ignored by register placement

	// Index selects which OpPerm input/output pair an OpPermProj
	// realizes; unused by any other Op.
	Index int

	// Origin records, for diagnostics only, the value a copy or
	// duplicate was made from (spec §6 IR-construction collaborator:
	// "attribute-setter for ... this node is a copy of ...").
	Origin *Value
}

// Edge is one directed control-flow edge, annotated with the index of this
// edge in the other block's sibling list — exactly the teacher's
// {b *Block; i int} edge encoding, which is what lets a phi's i-th
// argument be found from a Block.Preds entry without a separate search.
type Edge struct {
	B *Block
	I int
}

// Block is a basic block: a predecessor list, a successor list, and a
// straight-line value list in which any phis come first.
type Block struct {
	ID     ID
	Func   *Func
	Preds  []Edge
	Succs  []Edge
	Values []*Value

	// phis is the per-block phi-list (spec §3 "Phi-list per block"): an
	// ordered work-list of this block's phis of the current register
	// class. Func.NewValue appends every new OpPhi value to it through
	// AddPhi.
	phis []*Value

	// resolvedPhis holds the phis ClearPhis has removed from phis/Values,
	// with their Args left exactly as destruct.DestroyPhis last rewrote
	// them. destroy_ssa_check (spec §6) needs this: once a phi is gone
	// from Phis()/Values, it would otherwise have no way to verify every
	// argument ended up agreeing with the phi's register (spec §8
	// property 3).
	resolvedPhis []*Value

	numControlOps int
}

// Phis returns the block's phi work-list, insertion order, no semantic
// meaning beyond that (spec §3).
func (b *Block) Phis() []*Value { return b.phis }

// ResolvedPhis returns the phis ClearPhis has already removed from this
// block, for destroy_ssa_check's postcondition walk.
func (b *Block) ResolvedPhis() []*Value { return b.resolvedPhis }

// AddPhi appends v to b's phi-list. Func.NewValue calls it for every new
// OpPhi value.
func (b *Block) AddPhi(v *Value) { b.phis = append(b.phis, v) }

// ClearPhis drops every phi currently in b's work-list from both the
// work-list and b.Values, moving them to b.ResolvedPhis(). Called once
// every remaining use of a phi has been rewritten to its resolved
// register or permutation projection (spec §8 property 2: "no
// phi-function of the processed register class exists" once destruction
// finishes).
func (b *Block) ClearPhis() {
	if len(b.phis) == 0 {
		return
	}
	drop := make(map[*Value]bool, len(b.phis))
	for _, p := range b.phis {
		drop[p] = true
	}
	kept := b.Values[:0]
	for _, v := range b.Values {
		if !drop[v] {
			kept = append(kept, v)
		}
	}
	b.Values = kept
	b.resolvedPhis = append(b.resolvedPhis, b.phis...)
	b.phis = nil
}

// CFGPred returns the predecessor block that flows into b along edge i.
func (b *Block) CFGPred(i int) *Block { return b.Preds[i].B }

// NonControlInsertionPoint returns the index in p.Values just before any
// trailing control-flow values, i.e. where a copy or duplicate must be
// scheduled so it runs before branch/jump operations but after every real
// instruction (spec §4.2 step 5, §4.4). Control-flow values are modeled as
// trailing values with NeedReg == false and Op == OpGeneric whose presence
// is recorded via Block.numControlOps; by default (no control values
// tracked) it is simply len(p.Values).
func (p *Block) NonControlInsertionPoint() int {
	return len(p.Values) - p.numControlOps
}

// SetNumControlOps records the count of trailing control-flow operations
// (branch, jump, return) in Values that must remain last. The default,
// zero, means "no explicit control ops modeled", matching a backend that
// represents control flow purely via the block terminator rather than a
// value in Values.
func (b *Block) SetNumControlOps(n int) { b.numControlOps = n }

// Func is a single procedure: its blocks and a dense ID allocator. It is
// the unit of work the whole pipeline operates on one at a time (spec §5).
type Func struct {
	Name   string
	Blocks []*Block
	Entry  *Block

	// Pins is the pinning table destruct.DestroySSA populates while it
	// runs. destroy_ssa_check (spec §6) reads it back to confirm every
	// resolved phi argument was actually pinned, not just left at the
	// right register by coincidence.
	Pins *PinTable

	nextValueID ID
	nextBlockID ID

	cachedPostorder []*Block
}

// NewFunc creates an empty procedure.
func NewFunc(name string) *Func {
	return &Func{Name: name}
}

// NewBlock appends a fresh, unconnected block to f.
func (f *Func) NewBlock() *Block {
	b := &Block{ID: f.nextBlockID, Func: f}
	f.nextBlockID++
	f.Blocks = append(f.Blocks, b)
	if f.Entry == nil {
		f.Entry = b
	}
	f.invalidateCFG()
	return b
}

// NewValue appends a fresh value to b.
func (f *Func) NewValue(b *Block, op Op, reg RegID, needReg bool) *Value {
	v := &Value{ID: f.nextValueID, Op: op, Block: b, Reg: reg, NeedReg: needReg}
	f.nextValueID++
	b.Values = append(b.Values, v)
	if op == OpPhi {
		b.AddPhi(v)
	}
	return v
}

// NewDetachedValue allocates a fresh value bound to b but not yet present
// in b.Values. Callers that need precise placement (a copy or permutation
// node scheduled before control-flow ops) create the value with this and
// place it with InsertBefore; callers that just want it appended use
// NewValue instead.
func (f *Func) NewDetachedValue(b *Block, op Op, reg RegID, needReg bool) *Value {
	v := &Value{ID: f.nextValueID, Op: op, Block: b, Reg: reg, NeedReg: needReg}
	f.nextValueID++
	return v
}

// InsertBefore inserts v into b's value list immediately before the
// non-control insertion point, i.e. "before block-termination control-flow
// ops" (spec §4.2 step 5, §4.4).
func (b *Block) InsertBefore(v *Value) {
	at := b.NonControlInsertionPoint()
	b.Values = append(b.Values, nil)
	copy(b.Values[at+1:], b.Values[at:])
	b.Values[at] = v
}

// AddEdge connects from -> to, recording the index each endpoint occupies
// in the other's sibling list.
func AddEdge(from, to *Block) {
	fromIdx := len(to.Preds)
	toIdx := len(from.Succs)
	from.Succs = append(from.Succs, Edge{B: to, I: fromIdx})
	to.Preds = append(to.Preds, Edge{B: from, I: toIdx})
}

// NumBlocks reports the number of blocks in f.
func (f *Func) NumBlocks() int { return len(f.Blocks) }

func (f *Func) invalidateCFG() { f.cachedPostorder = nil }

// PinTable is a dense per-procedure pinning map (spec §3 "Pinning mark",
// §9's replacement for the original's "link" slot reuse): once a value is
// pinned to a block, no later phi in that block may rewrite it.
type PinTable struct {
	pins map[*Value]*Block
}

// NewPinTable creates an empty pinning table.
func NewPinTable() *PinTable {
	return &PinTable{pins: make(map[*Value]*Block)}
}

// Pin marks v as pinned at block b.
func (p *PinTable) Pin(v *Value, b *Block) { p.pins[v] = b }

// IsPinned reports whether v has been pinned.
func (p *PinTable) IsPinned(v *Value) bool {
	_, ok := p.pins[v]
	return ok
}

// PinnedBlock returns the block v is pinned at, or nil if unpinned.
func (p *PinTable) PinnedBlock(v *Value) *Block { return p.pins[v] }
