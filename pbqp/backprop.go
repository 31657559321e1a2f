package pbqp

import (
	"math"

	"ssaback/diag"
)

// SolvePBQP runs only the back-propagation half of PBQP solving (spec §1:
// the forward/reduction direction is an external collaborator). It walks
// g.ReducedBucket from top to bottom — most-recently-reduced first,
// exactly the reverse of forward reduction order — and assigns every
// node's Solution, a direct port of
// back_propagate_RI/back_propagate_RII/back_propagate_RN from
// heuristical_co_ld.c. rpeo is accepted for interface fidelity with spec
// §6's solve_pbqp(graph, rpeo); the chain-optimization merge accounting
// it hints at is handled here simply by trusting each node's stored
// (possibly post-merge) Costs vector, per spec §9.
func SolvePBQP(g *Graph, rpeo []*Node) error {
	_ = rpeo

	inBucket := make(map[*Node]bool, len(g.ReducedBucket))
	for _, n := range g.ReducedBucket {
		inBucket[n] = true
	}

	// Nodes the forward solver never popped are the roots left standing
	// once every other node in their component was reduced away: none of
	// their neighbors have a solution yet (they are, by construction,
	// solved after every root), so each is assigned independently from
	// its own cost vector.
	for _, n := range g.Nodes {
		if inBucket[n] {
			continue
		}
		idx, min := n.Costs.MinIndex()
		if idx < 0 || math.IsInf(min, 1) {
			return diag.NewFault(diag.InvariantViolation,
				"root node %d has no finite-cost choice", n.ID)
		}
		n.Solution = idx
	}

	for i := len(g.ReducedBucket) - 1; i >= 0; i-- {
		node := g.ReducedBucket[i]
		if err := backPropagateNode(node); err != nil {
			return err
		}
	}

	g.TotalCost = 0
	for _, n := range g.Nodes {
		if n.Solution < 0 || n.Solution >= len(n.Costs) {
			continue
		}
		g.TotalCost += n.Costs[n.Solution]
	}
	for _, e := range g.Edges {
		if e.Src.Solution < 0 || e.Tgt.Solution < 0 {
			continue
		}
		g.TotalCost += e.Matrix[e.Src.Solution][e.Tgt.Solution]
	}

	return nil
}

func backPropagateNode(node *Node) error {
	switch len(node.Edges) {
	case 0:
		idx, _ := node.Costs.MinIndex()
		node.Solution = idx
		return nil
	case 1:
		return backPropagateR1(node)
	case 2:
		return backPropagateR2(node)
	default:
		return backPropagateRN(node)
	}
}

// backPropagateR1 implements back_propagate_RI: the node's sole neighbor
// already has a solution; pick the choice minimizing cost plus the
// matrix entry fixed by that neighbor's index.
func backPropagateR1(node *Node) error {
	e := node.Edges[0]
	neighbor := e.Other(node)

	cost := node.Costs.Copy()
	applyEdge(cost, e, node, neighbor.Solution)

	idx, _ := cost.MinIndex()
	if idx < 0 {
		return diag.NewFault(diag.InvariantViolation, "R1: no finite choice for node %d", node.ID)
	}
	node.Solution = idx
	return nil
}

// backPropagateR2 implements back_propagate_RII. Both neighbors already
// have solutions; to exactly mirror the forward solver's own
// tie-breaking, the lower-indexed neighbor's edge is folded in first.
func backPropagateR2(node *Node) error {
	e1, e2 := node.Edges[0], node.Edges[1]
	n1, n2 := e1.Other(node), e2.Other(node)
	if n1.ID > n2.ID {
		e1, e2 = e2, e1
		n1, n2 = n2, n1
	}

	cost := node.Costs.Copy()
	applyEdge(cost, e1, node, n1.Solution)
	applyEdge(cost, e2, node, n2.Solution)

	idx, _ := cost.MinIndex()
	if idx < 0 {
		return diag.NewFault(diag.InvariantViolation, "R2: no finite choice for node %d", node.ID)
	}
	node.Solution = idx
	return nil
}

// backPropagateRN implements back_propagate_RN: fold every incident edge
// into a scratch cost vector using each neighbor's already-assigned
// solution. An all-infinite result means the forward solver produced an
// infeasible assignment, a fatal invariant violation (spec §4.5 RN
// assertion, §7, §8 property 7).
func backPropagateRN(node *Node) error {
	cost := node.Costs.Copy()
	for _, e := range node.Edges {
		applyEdge(cost, e, node, e.Other(node).Solution)
	}

	idx, min := cost.MinIndex()
	if idx < 0 || math.IsInf(min, 1) {
		return diag.NewFault(diag.InvariantViolation,
			"RN: node %d has no finite-cost choice (forward reduction produced an infeasible assignment)", node.ID)
	}
	node.Solution = idx
	return nil
}

// applyEdge folds e's contribution into cost, given that the far
// endpoint's chosen index is neighborSolution. Which row/column is added
// depends on whether node sits on the src or tgt side of e (spec §4.5
// R1's "If the node is the src side ... ; if tgt ...").
func applyEdge(cost Vector, e *Edge, node *Node, neighborSolution int) {
	if e.Src == node {
		cost.AddMatrixCol(e.Matrix, neighborSolution)
	} else {
		cost.AddMatrixRow(e.Matrix, neighborSolution)
	}
}
