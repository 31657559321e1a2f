// Package diag implements the diagnostic dump sink and fatal-error kinds
// spec §6/§7 describe: textual dumps of parallel-copy chains and PBQP
// sections gated by dump-flag bits, and the three fatal error kinds
// (InvariantViolation, Unimplemented, SuspectedBug) that are the only way
// the core reports failure.
//
// Sink styling follows the pack's own convention for rendering compiler
// diagnostics (kanso's internal/errors/reporter.go): bold section titles
// and faint trace lines via fatih/color. Faults are not colored.
package diag

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/pkg/errors"
)

// Flag is a bitset of dump points, the Go shape of spec §6's "dump-flags
// bitset (dump_after_perm_placement, dump_after_register_set, …)".
type Flag uint32

const (
	// DumpParallelCopies dumps each predecessor edge's parallel-copy
	// chains/cycles before realization (the C original's print_parcopy).
	DumpParallelCopies Flag = 1 << iota
	// DumpAfterPermPlacement traces one line per permutation the
	// perm-placement route inserts (the ssa_destr_perms_placed point in
	// bessadestr.c); the IR itself is not dumped.
	DumpAfterPermPlacement
	// DumpAfterRegisterSet writes a section line once SSA destruction has
	// assigned registers and placed duplicates (ssa_destr_regs_set); the
	// IR itself is not dumped.
	DumpAfterRegisterSet
	// DumpPBQPBackPropagation selects the PBQP solution dump (the
	// KAPS_DUMP sections of heuristical_co_ld.c). The pbqp package writes
	// nothing itself; cmd/ssabackend-demo opens its sink with this flag and
	// prints every node's solution and the total cost after SolvePBQP.
	DumpPBQPBackPropagation
)

// Has reports whether f is set in flags.
func (flags Flag) Has(f Flag) bool { return flags&f != 0 }

// Sink is a per-procedure diagnostic sink. The pipeline driver owns its
// lifetime and io.Writer target; the core only ever writes through it, per
// spec §6 ("content is for human consumption and not part of the external
// contract").
type Sink struct {
	w      io.Writer
	flags  Flag
	colors bool
}

// NewSink creates a sink writing to w, gated by flags. Pass nil for w to
// use os.Stderr.
func NewSink(w io.Writer, flags Flag) *Sink {
	if w == nil {
		w = os.Stderr
	}
	return &Sink{w: w, flags: flags, colors: true}
}

// Enabled reports whether dump point f is active for this sink.
func (s *Sink) Enabled(f Flag) bool { return s != nil && s.flags.Has(f) }

// Section writes a bold section header, matching the original's
// dump_section calls around each KAPS_DUMP/BE_CH_DUMP_SSADESTR block.
func (s *Sink) Section(title string) {
	if s == nil {
		return
	}
	bold := s.sprint(color.Bold)
	fmt.Fprintf(s.w, "%s\n", bold(title))
}

// Tracef writes one dim trace line, the equivalent of the original's DB/DBG
// debug-module output.
func (s *Sink) Tracef(format string, args ...any) {
	if s == nil {
		return
	}
	dim := s.sprint(color.Faint)
	fmt.Fprintf(s.w, "%s\n", dim(fmt.Sprintf(format, args...)))
}

// Chain renders a parallel-copy chain or cycle as one trace line of the
// given names joined by " -> " ("r2 -> r1 -> r0"), after the arrow chains
// print_parcopy/mark_cycle_parts print in bessadestr.c. The names are
// written as given; no register index is added.
func (s *Sink) Chain(names []string) {
	if s == nil || len(names) == 0 {
		return
	}
	var line string
	for i, n := range names {
		if i > 0 {
			line += " -> "
		}
		line += n
	}
	s.Tracef("%s", line)
}

func (s *Sink) sprint(attrs ...color.Attribute) func(a ...any) string {
	if !s.colors {
		return fmt.Sprint
	}
	return color.New(attrs...).SprintFunc()
}

// Kind classifies a Fault per spec §7's error-kind table.
type Kind int

const (
	// InvariantViolation covers every "should never fire in well-formed
	// IR" assertion spec §7 lists: missing register assignment,
	// duplicate phi target register, unambiguous-source not found,
	// residual non-cycle entries, an ∞ minimum in PBQP RN.
	InvariantViolation Kind = iota
	// Unimplemented covers a recognized-but-unsupported clobber or
	// constraint modifier.
	Unimplemented
	// SuspectedBug covers a destroy_ssa_check postcondition violation.
	SuspectedBug
)

func (k Kind) String() string {
	switch k {
	case InvariantViolation:
		return "invariant violation"
	case Unimplemented:
		return "unimplemented"
	case SuspectedBug:
		return "suspected bug"
	default:
		return "unknown fault"
	}
}

// Fault is the only error type the core's public entry points return. Per
// spec §7 no fault is recoverable within the core; it carries a stack
// trace (via github.com/pkg/errors) so a post-mortem dump can show both
// the IR context and where the invariant was caught, the Go analogue of
// the C original's assert() + dump_ir_graph pattern.
type Fault struct {
	Kind Kind
	err  error
}

// NewFault builds a Fault of the given kind with a pkg/errors-wrapped
// stack trace attached.
func NewFault(kind Kind, format string, args ...any) *Fault {
	return &Fault{Kind: kind, err: errors.WithStack(fmt.Errorf(format, args...))}
}

func (f *Fault) Error() string {
	return fmt.Sprintf("%s: %v", f.Kind, f.err)
}

// Unwrap exposes the wrapped, stack-trace-carrying error.
func (f *Fault) Unwrap() error { return f.err }

// StackTrace returns the recorded call stack, delegating to pkg/errors.
func (f *Fault) StackTrace() errors.StackTrace {
	type tracer interface{ StackTrace() errors.StackTrace }
	if t, ok := f.err.(tracer); ok {
		return t.StackTrace()
	}
	return nil
}
