// Command ssabackend-demo is a thin harness for exercising the core end
// to end: it is not the pipeline driver (spec §1 keeps file I/O,
// compilation-unit naming and timing out of core scope), just a way to
// drive pbqp.SolvePBQP against a PBQP graph text fixture and print each
// node's solution and the total cost, grounded on kanso-lang-kanso's
// cmd/kanso-cli/main.go (read a file, parse, report, exit). It does not
// run destruct.DestroySSA.
package main

import (
	"fmt"
	"os"

	"ssaback/diag"
	"ssaback/fixtures"
	"ssaback/pbqp"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: ssabackend-demo <pbqp-graph-file>")
		os.Exit(1)
	}

	path := os.Args[1]
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read %s: %v\n", path, err)
		os.Exit(1)
	}

	g, byName, err := fixtures.ParseGraph(string(src))
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse %s: %v\n", path, err)
		os.Exit(1)
	}

	sink := diag.NewSink(os.Stdout, diag.DumpPBQPBackPropagation)
	sink.Section("pbqp back-propagation: " + path)

	if err := pbqp.SolvePBQP(g, nil); err != nil {
		fmt.Fprintf(os.Stderr, "solve: %v\n", err)
		os.Exit(1)
	}

	for name, n := range byName {
		sink.Tracef("%s: solution=%d", name, n.Solution)
	}
	sink.Tracef("total cost: %g", g.TotalCost)
}
