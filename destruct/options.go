package destruct

import "ssaback/diag"

// Options is the Go shape of spec §6's destroy_ssa option bundle: a
// dump-flags bitset, the route switch between the parallel-copy planner
// (§4.1/§4.2) and the perm-placement walker (§4.3/§4.4), and the sink
// debug traces go to.
type Options struct {
	DumpFlags              diag.Flag
	UseParallelCopyPlanner bool
	Debug                  *diag.Sink
}

func (o Options) dump(f diag.Flag) bool { return o.Debug != nil && o.DumpFlags.Has(f) }
