// Package ir defines the target-independent IR surface that the
// SSA-destruction engine and the PBQP back-propagation solver operate on:
// basic blocks, values, phi-functions, a register-class descriptor, and the
// dense pinning table that replaces the original's per-node "link" slot.
package ir

// RegID indexes a register within a RegClass's closed register file,
// [0, N).
type RegID int32

// RegType is a bitset of modifiers on a register's role in allocation.
type RegType uint8

const (
	// RegNormal registers participate in placement as usual.
	RegNormal RegType = 0
	// RegJoker marks a wildcard register: skip it in parallel-copy
	// planning and phi-destruction.
	RegJoker RegType = 1 << 0
	// RegVirtual marks a register that allocation ignores entirely.
	RegVirtual RegType = 1 << 1
)

// RegClass is a closed set of N registers, indexed by RegID. It is fixed
// for the duration of a single SSA-destruction or PBQP invocation; spec
// Open Question and §9 treat it as read-only collaborator state, not
// something the core mutates.
type RegClass struct {
	names []string
	types []RegType
}

// NewRegClass builds a register class from parallel name/type slices;
// len(names) becomes N. If types does not have that same length (nil,
// for instance), every register gets RegNormal.
func NewRegClass(names []string, types []RegType) *RegClass {
	if len(types) != len(names) {
		types = make([]RegType, len(names))
	}
	return &RegClass{names: names, types: types}
}

// N returns the number of registers in the class.
func (c *RegClass) N() int { return len(c.names) }

// Name returns the human-readable name of register r, used only for
// diagnostics.
func (c *RegClass) Name(r RegID) string {
	if int(r) < 0 || int(r) >= len(c.names) {
		return "?"
	}
	return c.names[r]
}

// Is reports whether register r has type flag t set.
func (c *RegClass) Is(r RegID, t RegType) bool {
	if int(r) < 0 || int(r) >= len(c.types) {
		return false
	}
	return c.types[r]&t != 0
}

// Skip reports whether r should be skipped by parallel-copy planning and
// phi-destruction: jokers and virtuals are ignored in placement (spec
// §4.1: "Arguments whose register type is joker or virtual ... are
// skipped entirely").
func (c *RegClass) Skip(r RegID) bool {
	return c.Is(r, RegJoker) || c.Is(r, RegVirtual)
}
