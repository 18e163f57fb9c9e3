package core

import (
	"fmt"
	"reflect"
)

// AdapterFunc builds a substitute for I whose every method forwards to the given Dispatcher. Generated adapters,
// hand-written adapters, and reflect.MakeFunc wrappers all take this shape.
type AdapterFunc[I any] func(Dispatcher) I

// Dispatcher is what a substitute's methods call into.
type Dispatcher interface {
	// Description returns the interface description the dispatcher routes for.
	Description() *InterfaceDescription
	// Dispatch forwards one call to the handler currently bound to slot and returns its results.
	Dispatch(slot int, args ...any) Results
}

// DispatchTable maps each slot of a description to its current CapabilityHandler.
type DispatchTable struct {
	desc     *InterfaceDescription
	handlers []CapabilityHandler
	reporter TestReporter
}

// Construct builds a dispatch table for desc with every slot bound to the unmocked trap, and asks adapter for a
// substitute routed through it.
func Construct[I any](desc *InterfaceDescription, adapter AdapterFunc[I]) (I, *DispatchTable, error) {
	var zero I

	if adapter == nil {
		return zero, nil, invalidRegistration("nil adapter")
	}

	if want := reflect.TypeFor[I](); desc.Type() != want {
		return zero, nil, invalidRegistration("description is for %v, substitute must be %v", desc.Type(), want)
	}

	table := newDispatchTable(desc)

	return adapter(table), table, nil
}

// Bind rebinds slot to handler. A nil handler rebinds the slot to the unmocked trap. The last bind wins.
//
// An out-of-range slot is rejected and no entry changes.
func (t *DispatchTable) Bind(slot int, handler CapabilityHandler) error {
	if slot < 0 || slot >= len(t.handlers) {
		return slotOutOfRange(slot, len(t.handlers))
	}

	if handler == nil {
		handler = t.trap(slot)
	}

	t.handlers[slot] = handler

	return nil
}

// Description returns the description the table routes for.
func (t *DispatchTable) Description() *InterfaceDescription {
	return t.desc
}

// Dispatch forwards a call to slot's handler and returns the results, with nil entries replaced by zero values of
// the declared result types.
//
// Dispatch panics with an *UnmockedOperationError if the handler reports one, after passing it to the
// configured TestReporter. It panics with ErrSlotOutOfRange for a bad slot and with ErrResultMismatch when the
// results do not fit the slot's signature.
func (t *DispatchTable) Dispatch(slot int, args ...any) Results {
	values := t.dispatch(slot, args)

	return unreflectValues(values)
}

// Handler returns the handler currently bound to slot.
func (t *DispatchTable) Handler(slot int) (CapabilityHandler, error) {
	if slot < 0 || slot >= len(t.handlers) {
		return nil, slotOutOfRange(slot, len(t.handlers))
	}

	return t.handlers[slot], nil
}

// Invoke forwards a call to slot's handler without panicking: unmocked calls come back as errors.
func (t *DispatchTable) Invoke(slot int, args ...any) (Results, error) {
	if slot < 0 || slot >= len(t.handlers) {
		return nil, slotOutOfRange(slot, len(t.handlers))
	}

	return t.handlers[slot].Handle(Args(args))
}

// dispatch is Dispatch with the results left as reflect values, for reflect.MakeFunc substitutes.
func (t *DispatchTable) dispatch(slot int, args Args) []reflect.Value {
	if slot < 0 || slot >= len(t.handlers) {
		panic(slotOutOfRange(slot, len(t.handlers)))
	}

	out, err := t.handlers[slot].Handle(args)
	if err != nil {
		if t.reporter != nil {
			t.reporter.Helper()
			t.reporter.Fatalf("%v", err)
		}

		panic(err)
	}

	slotDesc, _ := t.desc.Slot(slot)

	values, err := slotDesc.conform(out)
	if err != nil {
		panic(err)
	}

	return values
}

func (t *DispatchTable) trap(slot int) CapabilityHandler {
	slotDesc, _ := t.desc.Slot(slot)

	return unmockedTrap{slot: slotDesc}
}

// Result extracts the i'th result as a T. Adapters use it to unpack Dispatch's results; a nil entry yields T's zero
// value.
func Result[T any](out Results, i int) T {
	v, _ := out[i].(T)

	return v
}

// Slots resolves operation names to slot indices. Adapters call it once, at construction, so they do not depend on
// how slots are ordered.
//
// Slots panics if a name is not in the dispatcher's description: the adapter and the interface disagree.
func Slots(d Dispatcher, names ...string) []int {
	desc := d.Description()
	out := make([]int, len(names))

	for i, name := range names {
		slot, ok := desc.Lookup(name)
		if !ok {
			panic(fmt.Sprintf("imposter: %v has no operation %q", desc.Type(), name))
		}

		out[i] = slot.Index
	}

	return out
}

// TestReporter is the minimal interface imposter needs from test frameworks.
type TestReporter interface {
	Helper()
	Fatalf(format string, args ...any)
}

// unmockedTrap is bound to every slot until a handler replaces it.
type unmockedTrap struct {
	slot OperationSlot
}

func (u unmockedTrap) Handle(args Args) (Results, error) {
	return nil, &UnmockedOperationError{Slot: u.slot, Args: args, Reason: reasonNoHandler}
}

func newDispatchTable(desc *InterfaceDescription) *DispatchTable {
	table := &DispatchTable{
		desc:     desc,
		handlers: make([]CapabilityHandler, desc.Len()),
	}

	for i := range table.handlers {
		table.handlers[i] = table.trap(i)
	}

	return table
}
