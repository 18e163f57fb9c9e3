package core

import (
	"fmt"
	"slices"
)

// Args holds the arguments of one call, in declaration order. A variadic parameter is carried as a single
// slice-valued argument.
type Args []any

// Results holds one value per declared return value. A nil entry stands for the zero value of its type.
type Results []any

// ActualInvocation is the immutable record of one call: which slot, what arguments, and where it falls in the
// handle's call sequence.
type ActualInvocation struct {
	seq  uint64
	slot OperationSlot
	args Args
}

// NewActualInvocation builds an invocation record. The argument slice is copied.
func NewActualInvocation(seq uint64, slot OperationSlot, args Args) ActualInvocation {
	return ActualInvocation{seq: seq, slot: slot, args: slices.Clone(args)}
}

// Arg returns the i'th argument.
func (inv ActualInvocation) Arg(i int) any {
	return inv.args[i]
}

// Args returns a copy of the call's arguments.
func (inv ActualInvocation) Args() Args {
	return slices.Clone(inv.args)
}

// NumArgs returns the number of arguments.
func (inv ActualInvocation) NumArgs() int {
	return len(inv.args)
}

// Sequence returns the call's position in the handle's call sequence. Sequence numbers start at 1 and only grow.
func (inv ActualInvocation) Sequence() uint64 {
	return inv.seq
}

// Slot returns the operation slot that was called.
func (inv ActualInvocation) Slot() OperationSlot {
	return inv.slot
}

func (inv ActualInvocation) String() string {
	return fmt.Sprintf("#%d %s(%s)", inv.seq, inv.slot.Name, formatArgs(inv.args))
}

// sequencer hands out monotonically increasing sequence numbers. It is shared by every controller of one handle.
type sequencer struct {
	last uint64
}

func (s *sequencer) next() uint64 {
	s.last++

	return s.last
}
