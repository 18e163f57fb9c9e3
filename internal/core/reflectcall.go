package core

import (
	"fmt"
	"reflect"
)

// callArgs converts a call's arguments into values fnType accepts.
func callArgs(fnType reflect.Type, args Args) ([]reflect.Value, error) {
	if len(args) != fnType.NumIn() {
		//nolint:err113 // dynamic context
		return nil, fmt.Errorf("%v takes %d arguments, call has %d", fnType, fnType.NumIn(), len(args))
	}

	in := make([]reflect.Value, len(args))

	for i, arg := range args {
		val, err := valueFor(arg, fnType.In(i))
		if err != nil {
			return nil, fmt.Errorf("arg %d: %w", i, err)
		}

		in[i] = val
	}

	return in, nil
}

// callTyped invokes fn with the call's arguments. A variadic fn receives the trailing slice argument spread out.
// Panics raised by fn pass through unchanged.
func callTyped(fn reflect.Value, args Args) ([]reflect.Value, error) {
	in, err := callArgs(fn.Type(), args)
	if err != nil {
		return nil, err
	}

	if fn.Type().IsVariadic() {
		return fn.CallSlice(in), nil
	}

	return fn.Call(in), nil
}

// checkParams verifies that every argument the slot can receive is assignable to fnType's parameters.
func checkParams(what string, fnType reflect.Type, slot OperationSlot) error {
	err := slot.checkArity(what, fnType.NumIn())
	if err != nil {
		return err
	}

	for i := range fnType.NumIn() {
		if !slot.Type.In(i).AssignableTo(fnType.In(i)) {
			return invalidRegistration("%s parameter %d is %v, %s passes %v",
				what, i, fnType.In(i), slot, slot.Type.In(i))
		}
	}

	return nil
}

// checkResults verifies that fnType's results can be returned through the slot.
func checkResults(what string, fnType reflect.Type, slot OperationSlot) error {
	if fnType.NumOut() != slot.NumOut() {
		return invalidRegistration("%s returns %d values, %s returns %d", what, fnType.NumOut(), slot, slot.NumOut())
	}

	for i := range fnType.NumOut() {
		if !fnType.Out(i).AssignableTo(slot.Type.Out(i)) {
			return invalidRegistration("%s result %d is %v, %s returns %v",
				what, i, fnType.Out(i), slot, slot.Type.Out(i))
		}
	}

	return nil
}

func unreflectValues(values []reflect.Value) Results {
	out := make(Results, len(values))
	for i, v := range values {
		out[i] = v.Interface()
	}

	return out
}
