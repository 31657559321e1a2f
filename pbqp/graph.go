// Package pbqp implements the Partitioned Boolean Quadratic Problem graph
// ADT and its back-propagation solver (spec §3 "PBQP graph", §4.5).
// Forward reduction — the pass that builds ReducedBucket by repeatedly
// applying R1/R2/RN and removing nodes — is an external collaborator and
// is not implemented here; this package only consumes its recorded trace.
// Grounded on _examples/original_source/ir/kaps/heuristical_co_ld.c.
package pbqp

// NodeID is a stable integer index identifying a Node within a Graph.
type NodeID int

// Node is one PBQP node: a cost vector over its choices, its neighbor
// edges as they stood at the time it was removed by the forward solver,
// and its back-propagated Solution (-1 until assigned).
type Node struct {
	ID       NodeID
	Costs    Vector
	Edges    []*Edge
	Solution int
}

// NewNode creates a node with n choices and an undefined solution.
func NewNode(id NodeID, costs Vector) *Node {
	return &Node{ID: id, Costs: costs, Solution: -1}
}

// Edge is an undirected PBQP edge; Src/Tgt only fix row-vs-column
// indexing into Matrix, not a semantic direction (spec §3).
type Edge struct {
	Src, Tgt *Node
	Matrix   Matrix
}

// Other returns the node at the far end of e from n.
func (e *Edge) Other(n *Node) *Node {
	if e.Src == n {
		return e.Tgt
	}
	return e.Src
}

// Graph owns every node and edge for one PBQP instance plus the recorded
// reduction trace.
type Graph struct {
	Nodes []*Node

	// Edges is the canonical, deduplicated edge list used only for
	// Graph.TotalCost bookkeeping. Node.Edges (see Node) instead holds
	// the per-node snapshot the forward solver recorded at removal time,
	// which is generally a subset of Edges and may omit edges this
	// package has no way to reconstruct on its own.
	Edges []*Edge

	// ReducedBucket is the stack of nodes in forward-reduction order
	// (index 0 = first reduced, i.e. bottom of the stack). Back
	// propagation walks it top to bottom: from the last entry to the
	// first (spec §4.5 "Ordering").
	ReducedBucket []*Node

	// TotalCost accumulates the sum of each node's chosen cost plus its
	// incident edge costs, populated by SolvePBQP.
	TotalCost float64

	// reduced tracks which nodes ReduceNode has already popped, so a
	// later ReduceNode call knows which of a node's edges still point at
	// a live neighbor.
	reduced map[*Node]bool
}

// AddNode appends n to g.
func (g *Graph) AddNode(n *Node) { g.Nodes = append(g.Nodes, n) }

// AddEdge connects src and tgt with the given cost matrix, records it on
// both endpoints' neighbor lists, and adds it to g.Edges. Fixture code
// building a full graph for the (out-of-scope) forward solver should use
// this; code constructing only a back-propagation snapshot should instead
// set Node.Edges directly to whatever subset the forward solver would
// have recorded at removal time.
func (g *Graph) AddEdge(src, tgt *Node, m Matrix) *Edge {
	e := &Edge{Src: src, Tgt: tgt, Matrix: m}
	src.Edges = append(src.Edges, e)
	tgt.Edges = append(tgt.Edges, e)
	g.Edges = append(g.Edges, e)
	return e
}

// Push records n as the next node removed by the forward solver, in
// forward-reduction order.
func (g *Graph) Push(n *Node) { g.ReducedBucket = append(g.ReducedBucket, n) }

// ReduceNode is a test/fixture convenience standing in for what the
// (out-of-scope) forward solver does at the moment it pops n: trim n's
// recorded neighbor list down to edges whose other endpoint is still
// live, i.e. not yet reduced, then push n onto ReducedBucket. This is
// exactly spec §3's "each retaining its neighbor set as it was at
// removal time" — since forward reduction proper is a collaborator this
// package does not implement, fixtures call ReduceNode in the same order
// a real forward solver would have popped nodes, so back-propagation
// sees the same trimmed snapshots it would in production.
func (g *Graph) ReduceNode(n *Node) {
	if g.reduced == nil {
		g.reduced = make(map[*Node]bool)
	}
	live := n.Edges[:0]
	for _, e := range n.Edges {
		if !g.reduced[e.Other(n)] {
			live = append(live, e)
		}
	}
	n.Edges = live
	g.reduced[n] = true
	g.Push(n)
}
