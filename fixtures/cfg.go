// Package fixtures provides test-only builders for constructing small
// *ir.Func and *pbqp.Graph values by name instead of hand-wiring pointer
// graphs, grounded on the teacher's Bloc/Valu/Goto test-harness style in
// regalloc_bench_test.go (the bloc/fun helpers themselves were not
// retrieved verbatim, so this rebuilds the same by-name-reference idiom
// against the ir package's own Func/Block/Value shapes).
package fixtures

import "ssaback/ir"

// CFGBuilder accumulates named blocks and values so test cases can wire a
// small control-flow graph (with phis across a configurable register
// file) by name, the way regalloc_bench_test.go's buildLinearChain et al.
// wire blocks via Bloc/Valu/Goto.
type CFGBuilder struct {
	f      *ir.Func
	blocks map[string]*ir.Block
	values map[string]*ir.Value
}

// NewCFGBuilder creates an empty builder for a procedure named name.
func NewCFGBuilder(name string) *CFGBuilder {
	return &CFGBuilder{
		f:      ir.NewFunc(name),
		blocks: make(map[string]*ir.Block),
		values: make(map[string]*ir.Value),
	}
}

// Block creates (or returns, if it already exists) the named block.
func (cb *CFGBuilder) Block(name string) *ir.Block {
	if b, ok := cb.blocks[name]; ok {
		return b
	}
	b := cb.f.NewBlock()
	cb.blocks[name] = b
	return b
}

// Edge connects from -> to by name, creating either block if needed.
func (cb *CFGBuilder) Edge(from, to string) {
	ir.AddEdge(cb.Block(from), cb.Block(to))
}

// Value defines a new, named, register-carrying value in block, using
// argNames (already-defined values) as its arguments.
func (cb *CFGBuilder) Value(block, name string, reg ir.RegID, argNames ...string) *ir.Value {
	b := cb.Block(block)
	v := cb.f.NewValue(b, ir.OpGeneric, reg, true)
	cb.bindArgs(v, argNames)
	cb.values[name] = v
	return v
}

// Phi defines a phi in block with one argument per predecessor, named in
// predecessor-index order. Block's Preds must already be wired via Edge
// before calling Phi, since a phi's i-th argument corresponds to the i-th
// predecessor edge (spec §3 "Phi-list per block").
func (cb *CFGBuilder) Phi(block, name string, reg ir.RegID, argNames ...string) *ir.Value {
	b := cb.Block(block)
	v := cb.f.NewValue(b, ir.OpPhi, reg, true)
	cb.bindArgs(v, argNames)
	cb.values[name] = v
	return v
}

func (cb *CFGBuilder) bindArgs(v *ir.Value, argNames []string) {
	args := make([]*ir.Value, len(argNames))
	for i, n := range argNames {
		args[i] = cb.values[n]
	}
	v.Args = args
}

// Val looks up a previously defined value by name.
func (cb *CFGBuilder) Val(name string) *ir.Value { return cb.values[name] }

// Build returns the assembled procedure.
func (cb *CFGBuilder) Build() *ir.Func { return cb.f }
