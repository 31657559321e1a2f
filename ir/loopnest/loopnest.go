// Package loopnest builds a loop nest over an ir.Func's control-flow graph
// using Bourdoncle's algorithm, generalized from the teacher's
// likelyadjust.go. The liveness oracle uses this to decide whether a
// procedure needs the SCC 3-pass liveness path (spec §5: loops require
// a stable, not necessarily unique, block order).
package loopnest

import "ssaback/ir"

// Loop is one natural loop: a header block plus the set of blocks whose
// innermost containing loop is this one.
type Loop struct {
	Header  *ir.Block
	Outer   *Loop
	Depth   int16
	IsInner bool
	NBlocks int
}

// Nest is the full loop-nest result for one procedure.
type Nest struct {
	B2L            []*Loop // block ID -> innermost containing loop
	Loops          []*Loop
	HasIrreducible bool
}

// Depth returns the nesting depth of block id, 0 if it is in no loop.
func (n *Nest) Depth(id ir.ID) int16 {
	if l := n.B2L[id]; l != nil {
		return l.Depth
	}
	return 0
}

// For computes the loop nest of f.
//
// The algorithm:
//  1. Compute the top-level SCCs of the CFG.
//  2. Each non-trivial SCC with a single entry is a reducible loop; its
//     header is the entry block.
//  3. Remove the header and recursively partition the remainder to find
//     nested loops.
//  4. Nesting depth follows directly from the recursion.
func For(f *ir.Func) *Nest {
	b2l := make([]*Loop, f.NumBlocks())
	var loops []*Loop
	sawIrred := false

	for _, component := range partition(f, nil) {
		if !isLoopComponent(component) {
			continue
		}
		processLoop(component, nil, b2l, &loops, &sawIrred)
	}

	computeDepths(loops)

	return &Nest{B2L: b2l, Loops: loops, HasIrreducible: sawIrred}
}

// isLoopComponent reports whether an SCC denotes a real loop: more than
// one block, or a single block with a self edge.
func isLoopComponent(component []*ir.Block) bool {
	if len(component) > 1 {
		return true
	}
	b := component[0]
	for _, e := range b.Succs {
		if e.B == b {
			return true
		}
	}
	return false
}

func processLoop(component []*ir.Block, outer *Loop, b2l []*Loop, loops *[]*Loop, sawIrred *bool) {
	header := findHeader(component)
	if header == nil {
		*sawIrred = true
		return
	}

	l := &Loop{Header: header, Outer: outer, IsInner: true, NBlocks: 1}
	*loops = append(*loops, l)
	b2l[header.ID] = l

	if outer != nil {
		outer.IsInner = false
	}

	remaining := make([]*ir.Block, 0, len(component)-1)
	for _, b := range component {
		if b != header {
			remaining = append(remaining, b)
		}
	}
	if len(remaining) == 0 {
		return
	}

	for _, sub := range partition(header.Func, restrictedTo(remaining, header)) {
		if isLoopComponent(sub) {
			processLoop(sub, l, b2l, loops, sawIrred)
			continue
		}
		for _, b := range sub {
			if b2l[b.ID] == nil {
				b2l[b.ID] = l
				l.NBlocks++
			}
		}
	}
}

// findHeader returns the unique block in component reached from outside
// it, i.e. the natural-loop entry. Returns nil (irreducible) if more than
// one block qualifies or none does.
func findHeader(component []*ir.Block) *ir.Block {
	in := make(map[*ir.Block]bool, len(component))
	for _, b := range component {
		in[b] = true
	}
	var header *ir.Block
	for _, b := range component {
		for _, e := range b.Preds {
			if !in[e.B] {
				if header != nil && header != b {
					return nil
				}
				header = b
			}
		}
	}
	return header
}

// restrictedTo builds a membership predicate for the subgraph consisting
// of blocks, with the loop header removed (i.e. edges passing through the
// header are cut, which is what exposes the loop's nested structure).
func restrictedTo(blocks []*ir.Block, excluded *ir.Block) map[*ir.Block]bool {
	valid := make(map[*ir.Block]bool, len(blocks))
	for _, b := range blocks {
		if b != excluded {
			valid[b] = true
		}
	}
	return valid
}

// partition computes the SCCs of f restricted to valid (nil means "all
// blocks"), via Tarjan's algorithm. This is only used to recursively
// decompose a loop's body once its header has been cut away, so it need
// not share scc.Partition's Kosaraju implementation or its global-postorder
// caching concerns.
func partition(f *ir.Func, valid map[*ir.Block]bool) [][]*ir.Block {
	allowed := func(b *ir.Block) bool {
		return valid == nil || valid[b]
	}

	index := 0
	indices := make(map[*ir.Block]int)
	lowlink := make(map[*ir.Block]int)
	onStack := make(map[*ir.Block]bool)
	var stack []*ir.Block
	var result [][]*ir.Block

	var strongconnect func(v *ir.Block)
	strongconnect = func(v *ir.Block) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, e := range v.Succs {
			w := e.B
			if !allowed(w) {
				continue
			}
			if _, ok := indices[w]; !ok {
				strongconnect(w)
				if lowlink[w] < lowlink[v] {
					lowlink[v] = lowlink[w]
				}
			} else if onStack[w] {
				if indices[w] < lowlink[v] {
					lowlink[v] = indices[w]
				}
			}
		}

		if lowlink[v] == indices[v] {
			var component []*ir.Block
			for {
				n := len(stack) - 1
				w := stack[n]
				stack = stack[:n]
				onStack[w] = false
				component = append(component, w)
				if w == v {
					break
				}
			}
			result = append(result, component)
		}
	}

	var roots []*ir.Block
	if valid == nil {
		roots = f.Blocks
	} else {
		for b := range valid {
			roots = append(roots, b)
		}
	}
	for _, b := range roots {
		if !allowed(b) {
			continue
		}
		if _, ok := indices[b]; !ok {
			strongconnect(b)
		}
	}
	return result
}

func computeDepths(loops []*Loop) {
	for _, l := range loops {
		if l.Depth != 0 {
			continue
		}
		d := int16(0)
		for x := l; x != nil; x = x.Outer {
			if x.Depth != 0 {
				d += x.Depth
				break
			}
			d++
		}
		for x := l; x != nil; x = x.Outer {
			if x.Depth != 0 {
				break
			}
			x.Depth = d
			d--
		}
	}
}
