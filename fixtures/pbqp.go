// Package fixtures also provides a small participle-based text grammar
// for PBQP graphs, so pbqp's tests can express scenario F (spec §8) and
// larger graphs as text instead of hand-building Node/Edge Go literals,
// grounded on kanso's grammar/{lexer,grammar,parser}.go construction
// (participle.Build + a lexer.MustStateful token set).
package fixtures

import (
	"fmt"
	"math"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"ssaback/pbqp"
)

// pbqpLexer tokenizes the small PBQP graph text format:
//
//	node A [0, 0]
//	node B [0, 0]
//	edge A B [[0, 1], [1, 0]]
var pbqpLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"Comment", `#[^\n]*`, nil},
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},
		{"Number", `-?(inf|[0-9]+(\.[0-9]+)?)`, nil},
		{"Punct", `[\[\],]`, nil},
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})

type pbqpProgram struct {
	Stmts []*pbqpStmt `@@*`
}

type pbqpStmt struct {
	Node   *pbqpNode   `  @@`
	Edge   *pbqpEdge   `| @@`
	Reduce *pbqpReduce `| @@`
}

// pbqpReduce names the forward-reduction order a fixture wants
// ReduceNode applied in (spec §3 reduced_bucket), so a text fixture can
// express scenario F's "forward reduces A, then B" without re-deriving
// it: "reduce A B" pops A then B, leaving every other declared node a
// root solved directly from its own cost vector.
type pbqpReduce struct {
	Names []string `"reduce" @Ident+`
}

type pbqpNode struct {
	Name  string     `"node" @Ident`
	Costs []pbqpCost `"[" @@ ("," @@)* "]"`
}

type pbqpEdge struct {
	Src     string       `"edge" @Ident`
	Tgt     string       `@Ident`
	Matrix  []pbqpVector `"[" @@ ("," @@)* "]"`
}

type pbqpVector struct {
	Costs []pbqpCost `"[" @@ ("," @@)* "]"`
}

type pbqpCost struct {
	Value string `@(Number | "inf")`
}

func (c pbqpCost) float() float64 {
	if c.Value == "inf" || c.Value == "-inf" {
		sign := 1.0
		if c.Value[0] == '-' {
			sign = -1
		}
		return sign * math.Inf(1)
	}
	var f float64
	fmt.Sscanf(c.Value, "%g", &f)
	return f
}

// ParseGraph parses src in the node/edge/reduce text format above into a
// *pbqp.Graph plus a name -> Node lookup for the calling test to assert
// against. Each reduce statement applies Graph.ReduceNode to the named
// nodes in the order given.
func ParseGraph(src string) (*pbqp.Graph, map[string]*pbqp.Node, error) {
	parser, err := participle.Build[pbqpProgram](
		participle.Lexer(pbqpLexer),
		participle.Elide("Whitespace", "Comment"),
	)
	if err != nil {
		return nil, nil, err
	}

	prog, err := parser.ParseString("", src)
	if err != nil {
		return nil, nil, err
	}

	g := &pbqp.Graph{}
	byName := make(map[string]*pbqp.Node)
	var nextID pbqp.NodeID

	for _, st := range prog.Stmts {
		if st.Node != nil {
			costs := make(pbqp.Vector, len(st.Node.Costs))
			for i, c := range st.Node.Costs {
				costs[i] = c.float()
			}
			n := pbqp.NewNode(nextID, costs)
			nextID++
			g.AddNode(n)
			byName[st.Node.Name] = n
		}
	}

	for _, st := range prog.Stmts {
		if st.Edge != nil {
			src, ok := byName[st.Edge.Src]
			if !ok {
				return nil, nil, fmt.Errorf("edge references unknown node %q", st.Edge.Src)
			}
			tgt, ok := byName[st.Edge.Tgt]
			if !ok {
				return nil, nil, fmt.Errorf("edge references unknown node %q", st.Edge.Tgt)
			}
			m := pbqp.NewMatrix(len(st.Edge.Matrix), len(st.Edge.Matrix[0]))
			for i, row := range st.Edge.Matrix {
				for j, c := range row.Costs {
					m[i][j] = c.float()
				}
			}
			g.AddEdge(src, tgt, m)
		}
	}

	for _, st := range prog.Stmts {
		if st.Reduce != nil {
			for _, name := range st.Reduce.Names {
				n, ok := byName[name]
				if !ok {
					return nil, nil, fmt.Errorf("reduce references unknown node %q", name)
				}
				g.ReduceNode(n)
			}
		}
	}

	return g, byName, nil
}
