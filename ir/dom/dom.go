// Package dom computes postorder traversals, SCC-local traversal orders,
// and dominator queries over an ir.Func's control-flow graph. It is a
// direct generalization of the teacher's dom.go onto the ir package's
// Block/Func types.
package dom

import "ssaback/ir"

// Postorder computes a postorder traversal ordering for the basic blocks
// in f. Unreachable blocks do not appear.
func Postorder(f *ir.Func) []*ir.Block {
	return postorderWithNumbering(f, nil)
}

type blockAndIndex struct {
	b     *ir.Block
	index int // number of successor edges of b already explored
}

func postorderWithNumbering(f *ir.Func, ponums []int32) []*ir.Block {
	valid := make([]bool, f.NumBlocks())
	for i := range valid {
		valid[i] = true
	}
	return poWithNumberingForValidBlocks(f.Entry, valid, ponums)
}

func poWithNumberingForValidBlocks(entry *ir.Block, valid []bool, ponums []int32) []*ir.Block {
	f := entry.Func
	seen := make([]bool, f.NumBlocks())

	order := make([]*ir.Block, 0, len(f.Blocks))

	s := make([]blockAndIndex, 0, 32)
	s = append(s, blockAndIndex{b: entry})
	seen[entry.ID] = true
	for len(s) > 0 {
		tos := len(s) - 1
		x := s[tos]
		b := x.b
		if i := x.index; i < len(b.Succs) {
			s[tos].index++
			bb := b.Succs[i].B
			if valid[bb.ID] && !seen[bb.ID] {
				seen[bb.ID] = true
				s = append(s, blockAndIndex{b: bb})
			}
			continue
		}
		s = s[:tos]
		if ponums != nil {
			ponums[b.ID] = int32(len(order))
		}
		order = append(order, b)
	}
	return order
}

// Intersect finds the closest common dominator of b and c, given a
// postorder numbering and immediate-dominator array for all blocks.
func Intersect(b, c *ir.Block, postnum []int, idom []*ir.Block) *ir.Block {
	for b != c {
		if postnum[b.ID] < postnum[c.ID] {
			b = idom[b.ID]
		} else {
			c = idom[c.ID]
		}
	}
	return b
}

// SCCAlternatingOrders computes the postorder (exitward) and a modified
// reverse-postorder (entryward) traversal of a single SCC, used by
// liveness's 3-pass loop iteration (spec §5: "any order is legal provided
// it is stable").
func SCCAlternatingOrders(scc []*ir.Block) (exitward, entryward []*ir.Block) {
	switch len(scc) {
	case 1:
		return scc, scc
	case 2:
		return scc, []*ir.Block{scc[1], scc[0]}
	case 3:
		return order3BlockSCC(scc)
	default:
		return sccOrdersDFS(scc)
	}
}

func order3BlockSCC(scc []*ir.Block) (exitward, entryward []*ir.Block) {
	a, b, c := scc[0], scc[1], scc[2]
	f := a.Func

	inSCC := make([]bool, f.NumBlocks())
	inSCC[a.ID] = true
	inSCC[b.ID] = true
	inSCC[c.ID] = true

	var aSucc *ir.Block
	for _, s := range a.Succs {
		sb := s.B
		if inSCC[sb.ID] && sb != a {
			aSucc = sb
			break
		}
	}

	other := b
	if aSucc == b {
		other = c
	}

	aSuccReachesOther := false
	if aSucc != nil {
		for _, s := range aSucc.Succs {
			if s.B == other {
				aSuccReachesOther = true
				break
			}
		}
	}

	if aSuccReachesOther {
		entryward = []*ir.Block{other, aSucc, a}
	} else {
		entryward = []*ir.Block{aSucc, other, a}
	}

	exitward = []*ir.Block{entryward[2], entryward[1], entryward[0]}
	return
}

func sccOrdersDFS(scc []*ir.Block) (exitward, entryward []*ir.Block) {
	entry := scc[0]
	f := entry.Func

	valid := make([]bool, f.NumBlocks())
	for _, b := range scc {
		valid[b.ID] = true
	}

	entryward = poWithNumberingForValidBlocks(entry, valid, nil)
	exitward = poWithNumberingForValidBlocks(entryward[0], valid, nil)
	return
}
