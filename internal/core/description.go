package core

import (
	"fmt"
	"reflect"
	"strings"
)

// InterfaceDescription is the immutable, ordered set of operation slots a substitute must provide.
type InterfaceDescription struct {
	typ   reflect.Type
	slots []OperationSlot
	index map[string]int
}

// OperationSlot is one positioned operation within an InterfaceDescription.
type OperationSlot struct {
	Index int
	Name  string
	// Type is the operation's function type, without a receiver.
	Type reflect.Type
}

// Describe builds the description of I, which must be an interface or a function type.
func Describe[I any]() (*InterfaceDescription, error) {
	return DescribeType(reflect.TypeFor[I]())
}

// DescribeType builds the description of an interface or function type.
//
// Interface slots follow reflect's method order, which is sorted by name. A function type has exactly one slot,
// named after FuncSlotName.
func DescribeType(typ reflect.Type) (*InterfaceDescription, error) {
	if typ == nil {
		return nil, fmt.Errorf("%w: nil type", ErrInvalidRegistration)
	}

	desc := &InterfaceDescription{typ: typ, index: map[string]int{}}

	switch typ.Kind() { //nolint:exhaustive // every other kind is rejected
	case reflect.Interface:
		for i := range typ.NumMethod() {
			method := typ.Method(i)
			desc.add(method.Name, method.Type)
		}
	case reflect.Func:
		desc.add(FuncSlotName, typ)
	default:
		return nil, invalidRegistration("%v is neither an interface nor a function type", typ)
	}

	return desc, nil
}

// FuncSlotName is the name of the only slot of a function-type description.
const FuncSlotName = "Call"

// Len returns the number of slots.
func (d *InterfaceDescription) Len() int {
	return len(d.slots)
}

// Lookup returns the slot with the given operation name.
func (d *InterfaceDescription) Lookup(name string) (OperationSlot, bool) {
	i, ok := d.index[name]
	if !ok {
		return OperationSlot{}, false
	}

	return d.slots[i], true
}

// Slot returns the slot at index i.
func (d *InterfaceDescription) Slot(i int) (OperationSlot, bool) {
	if i < 0 || i >= len(d.slots) {
		return OperationSlot{}, false
	}

	return d.slots[i], true
}

// Slots returns every slot in index order.
func (d *InterfaceDescription) Slots() []OperationSlot {
	out := make([]OperationSlot, len(d.slots))
	copy(out, d.slots)

	return out
}

func (d *InterfaceDescription) String() string {
	names := make([]string, len(d.slots))
	for i, s := range d.slots {
		names[i] = s.String()
	}

	return fmt.Sprintf("%v{%s}", d.typ, strings.Join(names, "; "))
}

// Type returns the described interface or function type.
func (d *InterfaceDescription) Type() reflect.Type {
	return d.typ
}

func (d *InterfaceDescription) add(name string, typ reflect.Type) {
	d.index[name] = len(d.slots)
	d.slots = append(d.slots, OperationSlot{Index: len(d.slots), Name: name, Type: typ})
}

// NumIn returns the number of declared parameters.
func (s OperationSlot) NumIn() int {
	return s.Type.NumIn()
}

// NumOut returns the number of declared results.
func (s OperationSlot) NumOut() int {
	return s.Type.NumOut()
}

// String renders the slot as a method signature, e.g. "Sum(int, int) int".
func (s OperationSlot) String() string {
	if s.Type == nil {
		return s.Name
	}

	// reflect renders "func(int, int) int"; drop the keyword and keep the rest.
	return s.Name + strings.TrimPrefix(s.Type.String(), "func")
}

// checkArity verifies a matcher or behavior that takes n arguments fits the slot.
func (s OperationSlot) checkArity(what string, n int) error {
	if n != s.NumIn() {
		return invalidRegistration("%s expects %d arguments, %s takes %d", what, n, s, s.NumIn())
	}

	return nil
}

// conform converts results into reflect values of the slot's declared result types. A nil entry becomes the
// zero value.
func (s OperationSlot) conform(out Results) ([]reflect.Value, error) {
	if len(out) != s.NumOut() {
		return nil, fmt.Errorf("%w: %s returns %d values, behavior produced %d",
			ErrResultMismatch, s, s.NumOut(), len(out))
	}

	values := make([]reflect.Value, len(out))

	for i, v := range out {
		want := s.Type.Out(i)

		val, err := valueFor(v, want)
		if err != nil {
			return nil, fmt.Errorf("%w: %s result %d: %w", ErrResultMismatch, s, i, err)
		}

		values[i] = val
	}

	return values, nil
}

// valueFor converts v into a reflect.Value assignable to want.
func valueFor(v any, want reflect.Type) (reflect.Value, error) {
	if v == nil {
		return reflect.Zero(want), nil
	}

	val := reflect.ValueOf(v)
	if !val.Type().AssignableTo(want) {
		//nolint:err113 // dynamic context
		return reflect.Value{}, fmt.Errorf("%v is not assignable to %v", val.Type(), want)
	}

	if val.Type() != want {
		converted := reflect.New(want).Elem()
		converted.Set(val)

		return converted, nil
	}

	return val, nil
}
