package core

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. Callers match them with errors.Is.
var (
	// ErrUnmockedOperation is reported when a call reaches a slot with no bound handler, or when no stub
	// registered on the slot accepts the call.
	ErrUnmockedOperation = errors.New("unmocked operation")
	// ErrInvalidRegistration is returned for structurally invalid stub input. The rejected registration has no
	// effect on existing stubs.
	ErrInvalidRegistration = errors.New("invalid registration")
	// ErrSlotOutOfRange is returned (or panicked with, on the dispatch path) for a slot index outside the
	// interface description.
	ErrSlotOutOfRange = errors.New("slot out of range")
	// ErrResultMismatch is panicked with when a behavior produced results that cannot be returned through the
	// slot's signature.
	ErrResultMismatch = errors.New("result does not fit signature")
)

// UnmockedOperationError carries the slot and the actual arguments of a call nobody was configured to answer.
type UnmockedOperationError struct {
	Slot   OperationSlot
	Args   Args
	Reason string
}

func (e *UnmockedOperationError) Error() string {
	return fmt.Sprintf("%s: %s called with (%s): %s", ErrUnmockedOperation, e.Slot, formatArgs(e.Args), e.Reason)
}

// Is reports whether target is ErrUnmockedOperation.
func (e *UnmockedOperationError) Is(target error) bool {
	return target == ErrUnmockedOperation
}

// unexported constants.
const (
	reasonNoHandler = "no handler bound to slot"
	reasonNoStub    = "no stub matched the call"
)

func formatArgs(args Args) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprintf("%#v", a)
	}

	return strings.Join(parts, ", ")
}

func invalidRegistration(format string, args ...any) error {
	//nolint:err113 // wraps the sentinel with dynamic context
	return fmt.Errorf("%w: %s", ErrInvalidRegistration, fmt.Sprintf(format, args...))
}

func slotOutOfRange(slot, size int) error {
	return fmt.Errorf("%w: %w: slot %d, description has %d slots", ErrInvalidRegistration, ErrSlotOutOfRange, slot, size)
}
