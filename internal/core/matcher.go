package core

import (
	"fmt"
	"reflect"
	"strings"
)

// InvocationMatcher decides whether a stub applies to a call, and selects calls out of history.
//
// Matchers must not change test state when evaluated: Matches runs once per candidate stub per call, and again for
// every history query.
type InvocationMatcher interface {
	Matches(inv ActualInvocation) bool
	String() string
}

// Matcher defines the interface for per-argument value matching.
// Compatible with gomega.GomegaMatcher via duck typing - any type
// implementing Match and FailureMessage will work.
type Matcher interface {
	Match(actual any) (success bool, err error)
	FailureMessage(actual any) string
}

// Default returns a matcher that accepts every call.
func Default() InvocationMatcher {
	return defaultMatcher{}
}

// ExpectedArguments returns a matcher that accepts a call iff its arguments equal the given values, component-wise.
// A value implementing Matcher is applied to its argument instead of being compared with it.
func ExpectedArguments(values ...any) InvocationMatcher {
	return &expectedArgumentsMatcher{expected: Args(values)}
}

// MatchValue checks if actual matches expected.
// If expected implements the Matcher interface, uses its Match method.
// Otherwise, uses reflect.DeepEqual for comparison.
// Returns (success, errorMessage). If success is true, errorMessage is empty.
func MatchValue(actual, expected any) (bool, string) {
	if matcher, ok := expected.(Matcher); ok {
		success, err := matcher.Match(actual)
		if err != nil {
			return false, err.Error()
		}

		if !success {
			return false, matcher.FailureMessage(actual)
		}

		return true, ""
	}

	if reflect.DeepEqual(actual, expected) {
		return true, ""
	}

	return false, fmt.Sprintf("expected %#v, got %#v", expected, actual)
}

// Predicate returns a matcher that accepts a call iff fn returns true for its arguments.
func Predicate(fn func(Args) bool) InvocationMatcher {
	return predicateMatcher{fn: fn}
}

// Where returns a matcher backed by a typed predicate such as func(a, b int) bool. The predicate's parameters must
// line up with the slot's; AddStub rejects it otherwise.
//
// Where panics if fn is not a function returning exactly one bool.
func Where(fn any) InvocationMatcher {
	fnVal := reflect.ValueOf(fn)
	if fnVal.Kind() != reflect.Func {
		panic(fmt.Sprintf("imposter.Where: expected a function, got %T", fn))
	}

	fnType := fnVal.Type()
	if fnType.NumOut() != 1 || fnType.Out(0).Kind() != reflect.Bool {
		panic(fmt.Sprintf("imposter.Where: predicate must return a single bool, got %v", fnType))
	}

	return whereMatcher{fn: fnVal}
}

// slotValidator is implemented by matchers and behaviors that can check themselves against a slot's signature
// before they are registered.
type slotValidator interface {
	validateFor(slot OperationSlot) error
}

type defaultMatcher struct{}

func (defaultMatcher) Matches(ActualInvocation) bool {
	return true
}

func (defaultMatcher) String() string {
	return "any arguments"
}

type expectedArgumentsMatcher struct {
	expected Args
}

// Explain describes why inv does not match, or returns "" if it does.
func (m *expectedArgumentsMatcher) Explain(inv ActualInvocation) string {
	if inv.NumArgs() != len(m.expected) {
		return fmt.Sprintf("expected %d args, got %d", len(m.expected), inv.NumArgs())
	}

	for i, expected := range m.expected {
		ok, msg := MatchValue(inv.Arg(i), expected)
		if !ok {
			return fmt.Sprintf("arg %d: %s", i, msg)
		}
	}

	return ""
}

func (m *expectedArgumentsMatcher) Matches(inv ActualInvocation) bool {
	return m.Explain(inv) == ""
}

func (m *expectedArgumentsMatcher) String() string {
	parts := make([]string, len(m.expected))
	for i, e := range m.expected {
		if _, ok := e.(Matcher); ok {
			parts[i] = fmt.Sprintf("<%T>", e)

			continue
		}

		parts[i] = fmt.Sprintf("%#v", e)
	}

	return "arguments (" + strings.Join(parts, ", ") + ")"
}

func (m *expectedArgumentsMatcher) validateFor(slot OperationSlot) error {
	err := slot.checkArity("expected arguments", len(m.expected))
	if err != nil {
		return err
	}

	for i, expected := range m.expected {
		if _, ok := expected.(Matcher); ok || expected == nil {
			continue
		}

		if got := reflect.TypeOf(expected); !got.AssignableTo(slot.Type.In(i)) {
			return invalidRegistration("expected argument %d is %v, %s takes %v", i, got, slot, slot.Type.In(i))
		}
	}

	return nil
}

type predicateMatcher struct {
	fn func(Args) bool
}

func (m predicateMatcher) Matches(inv ActualInvocation) bool {
	return m.fn(inv.Args())
}

func (predicateMatcher) String() string {
	return "arguments satisfying predicate"
}

func (m predicateMatcher) validateFor(OperationSlot) error {
	if m.fn == nil {
		return invalidRegistration("nil predicate")
	}

	return nil
}

type whereMatcher struct {
	fn reflect.Value
}

func (m whereMatcher) Matches(inv ActualInvocation) bool {
	out, err := callTyped(m.fn, inv.args)
	if err != nil {
		return false
	}

	return out[0].Bool()
}

func (m whereMatcher) String() string {
	return fmt.Sprintf("arguments satisfying %v", m.fn.Type())
}

func (m whereMatcher) validateFor(slot OperationSlot) error {
	return checkParams("predicate", m.fn.Type(), slot)
}
