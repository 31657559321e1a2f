// Package scc detects strongly connected components of an ir.Func's
// control-flow graph using the Kosaraju-Sharir algorithm, generalized from
// the teacher's scc.go onto the ir package's Func/Block types.
package scc

import (
	"ssaback/ir"
	"ssaback/ir/dom"
)

// Seq yields the strongly connected components of f's control-flow
// graph, topologically sorted by the kernel DAG. Each SCC corresponds to a
// loop (or trivial single-block component) in f.
//
// Kosaraju-Sharir was chosen over Tarjan's single-pass algorithm because
// it is straightforward to implement iteratively and requires no
// auxiliary per-node data, and because the first DFS pass (postorder) is
// typically already computed and cached elsewhere in the pipeline, making
// this choice effectively free.
//
// The returned function has the shape of an iter.Seq[[]*ir.Block]; the
// iter package itself is not imported, since it postdates the module's
// go1.21 language version.
func Seq(f *ir.Func) func(yield func([]*ir.Block) bool) {
	return func(yield func([]*ir.Block) bool) {
		po := dom.Postorder(f)

		seen := make([]bool, f.NumBlocks())
		reachable := make([]bool, f.NumBlocks())
		for _, b := range po {
			reachable[b.ID] = true
		}

		queue := make([]*ir.Block, 0, len(po))

		for i := len(po) - 1; i >= 0; i-- {
			leader := po[i]
			if seen[leader.ID] {
				continue
			}

			component := make([]*ir.Block, 0, 4)
			queue = append(queue, leader)
			seen[leader.ID] = true

			for len(queue) > 0 {
				b := queue[0]
				queue = queue[1:]
				component = append(component, b)

				for _, e := range b.Preds {
					pred := e.B
					if reachable[pred.ID] && !seen[pred.ID] {
						seen[pred.ID] = true
						queue = append(queue, pred)
					}
				}
			}

			if !yield(component) {
				return
			}
		}
	}
}

// Partition returns all SCCs as a slice for callers that need random
// access. Prefer Seq when iterating once.
func Partition(f *ir.Func) [][]*ir.Block {
	var result [][]*ir.Block
	Seq(f)(func(c []*ir.Block) bool {
		result = append(result, c)
		return true
	})
	return result
}
