package core

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/eapache/queue"
)

// BehaviorSource produces the results of one matched call.
type BehaviorSource interface {
	Produce(args Args) Results
}

// BehaviorQueue is an ordered, partially consumable sequence of behaviors. Each Next consumes the head until a
// single entry remains; that last entry is sticky and answers every further call.
type BehaviorQueue struct {
	entries *queue.Queue
}

// NewBehaviorQueue returns a queue holding sources in order.
func NewBehaviorQueue(sources ...BehaviorSource) *BehaviorQueue {
	q := &BehaviorQueue{entries: queue.New()}
	for _, s := range sources {
		q.Append(s)
	}

	return q
}

// Append adds a source at the tail.
func (q *BehaviorQueue) Append(source BehaviorSource) {
	q.entries.Add(source)
}

// Len returns the number of queued sources.
func (q *BehaviorQueue) Len() int {
	return q.entries.Length()
}

// Next returns the source that answers the current call. It removes the head only when more than one source is
// queued. Next returns nil on an empty queue.
func (q *BehaviorQueue) Next() BehaviorSource {
	switch q.entries.Length() {
	case 0:
		return nil
	case 1:
		return q.entries.Peek().(BehaviorSource) //nolint:forcetypeassert // only BehaviorSources are added
	default:
		return q.entries.Remove().(BehaviorSource) //nolint:forcetypeassert // only BehaviorSources are added
	}
}

func (q *BehaviorQueue) validateFor(slot OperationSlot) error {
	for i := range q.entries.Length() {
		entry := q.entries.Get(i)
		if entry == nil {
			return invalidRegistration("behavior %d is nil", i)
		}

		source, ok := entry.(slotValidator)
		if !ok {
			continue
		}

		err := source.validateFor(slot)
		if err != nil {
			return fmt.Errorf("behavior %d: %w", i, err)
		}
	}

	return nil
}

// Computed returns a behavior that calls fn with the call's arguments every time it is dequeued.
func Computed(fn func(Args) Results) BehaviorSource {
	return computedBehavior{fn: fn}
}

// Do returns a computed behavior backed by a typed function such as func(a, b int) int. Its parameters and
// results must line up with the slot's; AddStub rejects it otherwise. Panics raised by fn reach the caller
// unchanged.
//
// Do panics if fn is not a function.
func Do(fn any) BehaviorSource {
	fnVal := reflect.ValueOf(fn)
	if fnVal.Kind() != reflect.Func {
		panic(fmt.Sprintf("imposter.Do: expected a function, got %T", fn))
	}

	return doBehavior{fn: fnVal}
}

// ReturnValue returns a behavior that always produces the given results, one value per declared result.
func ReturnValue(values ...any) BehaviorSource {
	return returnValueBehavior{values: Results(values)}
}

type computedBehavior struct {
	fn func(Args) Results
}

func (b computedBehavior) Produce(args Args) Results {
	return b.fn(args)
}

func (b computedBehavior) validateFor(OperationSlot) error {
	if b.fn == nil {
		return invalidRegistration("nil computed behavior")
	}

	return nil
}

type doBehavior struct {
	fn reflect.Value
}

func (b doBehavior) Produce(args Args) Results {
	out, err := callTyped(b.fn, args)
	if err != nil {
		// AddStub validated the signature; reaching here means the caller bypassed the slot.
		panic(fmt.Errorf("%w: %w", ErrResultMismatch, err))
	}

	return unreflectValues(out)
}

func (b doBehavior) validateFor(slot OperationSlot) error {
	err := checkParams("behavior", b.fn.Type(), slot)
	if err != nil {
		return err
	}

	return checkResults("behavior", b.fn.Type(), slot)
}

type returnValueBehavior struct {
	values Results
}

func (b returnValueBehavior) Produce(Args) Results {
	return slices.Clone(b.values)
}

func (b returnValueBehavior) validateFor(slot OperationSlot) error {
	_, err := slot.conform(b.values)
	if err != nil {
		return invalidRegistration("%v", err)
	}

	return nil
}
