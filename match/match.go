// Package match holds argument matchers for imposter.ExpectedArguments. Dot-import it next to gomega; any gomega
// matcher also works as an argument matcher:
//
//	import (
//	    . "github.com/onsi/gomega"
//	    . "github.com/toejough/imposter/match"
//	)
//
//	handle.AddStub(slot, imposter.ExpectedArguments(BeNumerically(">", 0), BeAny), queue)
package match

import (
	"errors"
	"fmt"

	"github.com/toejough/imposter"
)

// BeAny accepts every argument, nil included.
//
//nolint:gochecknoglobals // stateless, shared by every caller
var BeAny imposter.Matcher = anyMatcher{}

// BeOfType accepts any argument whose dynamic type is T. For interface T, any implementation is accepted.
func BeOfType[T any]() imposter.Matcher {
	return Satisfy(func(T) error { return nil })
}

// Satisfy accepts an argument of type T for which check returns nil. An argument of another type is rejected.
// Matchers returned by Satisfy keep no state between calls, so one can serve several stubs.
//
//	imposter.ExpectedArguments(Satisfy(func(id string) error {
//	    if !strings.HasPrefix(id, "user/") { return fmt.Errorf("%q is not a user key", id) }
//	    return nil
//	}), BeAny)
func Satisfy[T any](check func(T) error) imposter.Matcher {
	return satisfyMatcher[T]{check: check}
}

var errWrongType = errors.New("wrong type")

type anyMatcher struct{}

func (anyMatcher) FailureMessage(any) string {
	return ""
}

func (anyMatcher) Match(any) (bool, error) {
	return true, nil
}

type satisfyMatcher[T any] struct {
	check func(T) error
}

func (m satisfyMatcher[T]) FailureMessage(actual any) string {
	err := m.verdict(actual)
	if err == nil {
		return fmt.Sprintf("%#v satisfies the check", actual)
	}

	return fmt.Sprintf("%#v fails the check: %v", actual, err)
}

// Match reports a mismatch rather than an error, so one bad argument cannot break stub resolution.
func (m satisfyMatcher[T]) Match(actual any) (bool, error) {
	return m.verdict(actual) == nil, nil
}

func (m satisfyMatcher[T]) verdict(actual any) error {
	val, ok := actual.(T)
	if !ok {
		return fmt.Errorf("%w: want %v, got %T", errWrongType, typeName[T](), actual)
	}

	return m.check(val)
}

func typeName[T any]() string {
	return fmt.Sprintf("%T", (*T)(nil))[1:]
}
