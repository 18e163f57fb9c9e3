// Package imposter builds substitute implementations of interfaces and function types for tests. Calls on a
// substitute are matched against configured stubs, answered by the matching stub's behaviors, and recorded for
// later verification.
//
// This is the public API entry point. Implementation lives in internal/core.
package imposter

import (
	"github.com/toejough/imposter/internal/core"
	"go.uber.org/zap"
)

// ActualInvocation is the immutable record of one call.
type ActualInvocation = core.ActualInvocation

// AdapterFunc builds a substitute for I that forwards every method to a Dispatcher.
type AdapterFunc[I any] = core.AdapterFunc[I]

// Args holds the arguments of one call.
type Args = core.Args

// BehaviorQueue is an ordered sequence of behaviors whose last entry is sticky.
type BehaviorQueue = core.BehaviorQueue

// BehaviorSource produces the results of one matched call.
type BehaviorSource = core.BehaviorSource

// CapabilityHandler answers calls for one operation slot.
type CapabilityHandler = core.CapabilityHandler

// DispatchTable maps each slot to its current handler.
type DispatchTable = core.DispatchTable

// Dispatcher is what a substitute's methods call into.
type Dispatcher = core.Dispatcher

// Handle owns a substitute and one MethodController per slot.
type Handle[I any] = core.Handle[I]

// InterfaceDescription is the ordered set of operation slots of an interface or function type.
type InterfaceDescription = core.InterfaceDescription

// InvocationMatcher decides whether a stub applies to a call.
type InvocationMatcher = core.InvocationMatcher

// Matcher defines the interface for per-argument value matching. Gomega matchers satisfy it.
type Matcher = core.Matcher

// MethodController owns one slot's stubs and history.
type MethodController = core.MethodController

// OperationSlot is one positioned operation within an InterfaceDescription.
type OperationSlot = core.OperationSlot

// Option configures a Handle.
type Option = core.Option

// Results holds one value per declared return value.
type Results = core.Results

// StubRegistration pairs a matcher with its behavior queue.
type StubRegistration = core.StubRegistration

// TestReporter is the minimal interface imposter needs from test frameworks.
type TestReporter = core.TestReporter

// UnmockedOperationError carries the slot and arguments of an unanswered call.
type UnmockedOperationError = core.UnmockedOperationError

// FuncSlotName is the name of the only slot of a function-type handle.
const FuncSlotName = core.FuncSlotName

// Errors re-exported from internal/core.
var (
	ErrInvalidRegistration = core.ErrInvalidRegistration
	ErrResultMismatch      = core.ErrResultMismatch
	ErrSlotOutOfRange      = core.ErrSlotOutOfRange
	ErrUnmockedOperation   = core.ErrUnmockedOperation
)

// Computed returns a behavior that calls fn with the call's arguments.
func Computed(fn func(Args) Results) BehaviorSource {
	return core.Computed(fn)
}

// Default returns a matcher that accepts every call.
func Default() InvocationMatcher {
	return core.Default()
}

// Describe builds the description of an interface or function type.
func Describe[I any]() (*InterfaceDescription, error) {
	return core.Describe[I]()
}

// Do returns a computed behavior backed by a typed function.
func Do(fn any) BehaviorSource {
	return core.Do(fn)
}

// ExpectedArguments returns a matcher that accepts calls whose arguments equal values.
func ExpectedArguments(values ...any) InvocationMatcher {
	return core.ExpectedArguments(values...)
}

// New builds a handle for interface I using adapter to build the substitute.
func New[I any](adapter AdapterFunc[I], opts ...Option) (*Handle[I], error) {
	return core.New(adapter, opts...)
}

// NewBehaviorQueue returns a queue holding sources in order.
func NewBehaviorQueue(sources ...BehaviorSource) *BehaviorQueue {
	return core.NewBehaviorQueue(sources...)
}

// NewFunc builds a handle for function type F.
func NewFunc[F any](opts ...Option) (*Handle[F], error) {
	return core.NewFunc[F](opts...)
}

// Predicate returns a matcher that accepts calls for which fn returns true.
func Predicate(fn func(Args) bool) InvocationMatcher {
	return core.Predicate(fn)
}

// Result extracts the i'th result as a T.
func Result[T any](out Results, i int) T {
	return core.Result[T](out, i)
}

// ReturnValue returns a behavior that always produces values.
func ReturnValue(values ...any) BehaviorSource {
	return core.ReturnValue(values...)
}

// Slots resolves operation names to slot indices for adapters.
func Slots(d Dispatcher, names ...string) []int {
	return core.Slots(d, names...)
}

// Where returns a matcher backed by a typed predicate.
func Where(fn any) InvocationMatcher {
	return core.Where(fn)
}

// WithLogger routes a handle's debug logging to logger.
func WithLogger(logger *zap.Logger) Option {
	return core.WithLogger(logger)
}

// WithReporter reports unmocked calls to reporter before the substitute panics.
func WithReporter(reporter TestReporter) Option {
	return core.WithReporter(reporter)
}
