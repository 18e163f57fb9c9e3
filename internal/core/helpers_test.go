package core_test

import (
	"fmt"

	"github.com/toejough/imposter/internal/core"
)

// Calculator is the interface most tests substitute. reflect orders its slots Divide, Log, Sum.
type Calculator interface {
	Sum(a, b int) int
	Divide(a, b int) (int, error)
	Log(format string, args ...any)
}

// Adder is a function type for reflect.MakeFunc substitutes.
type Adder func(a, b int) int

// calculatorSubstitute is a hand-written adapter, shaped like impostergen output.
type calculatorSubstitute struct {
	d     core.Dispatcher
	slots []int
}

func (s *calculatorSubstitute) Divide(a, b int) (int, error) {
	out := s.d.Dispatch(s.slots[0], a, b)

	return core.Result[int](out, 0), core.Result[error](out, 1)
}

func (s *calculatorSubstitute) Log(format string, args ...any) {
	s.d.Dispatch(s.slots[1], format, args)
}

func (s *calculatorSubstitute) Sum(a, b int) int {
	out := s.d.Dispatch(s.slots[2], a, b)

	return core.Result[int](out, 0)
}

// fakeReporter records what the dispatch table reports.
type fakeReporter struct {
	helpers  int
	messages []string
}

func (r *fakeReporter) Fatalf(format string, args ...any) {
	r.messages = append(r.messages, fmt.Sprintf(format, args...))
}

func (r *fakeReporter) Helper() {
	r.helpers++
}

func newCalculatorSubstitute(d core.Dispatcher) Calculator {
	return &calculatorSubstitute{d: d, slots: core.Slots(d, "Divide", "Log", "Sum")}
}

func mustDescribe[I any]() *core.InterfaceDescription {
	desc, err := core.Describe[I]()
	if err != nil {
		panic(err)
	}

	return desc
}

func mustSlot(desc *core.InterfaceDescription, name string) core.OperationSlot {
	slot, ok := desc.Lookup(name)
	if !ok {
		panic("no slot " + name)
	}

	return slot
}
