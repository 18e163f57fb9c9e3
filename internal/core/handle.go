package core

import (
	"fmt"
	"reflect"
	"slices"

	"go.uber.org/zap"
)

// Handle owns one substitute, its dispatch table, and one MethodController per operation slot. Everything it owns
// lives and dies with it; calling the substitute after the handle is discarded is undefined.
//
// A Handle is not safe for concurrent use.
type Handle[I any] struct {
	desc        *InterfaceDescription
	table       *DispatchTable
	controllers []*MethodController
	substitute  I
}

// Option configures a Handle.
type Option func(*handleConfig)

// New builds a handle for interface I. The adapter builds the substitute; it is typically generated by impostergen,
// but any func(Dispatcher) I that forwards each method to Dispatch works.
func New[I any](adapter AdapterFunc[I], opts ...Option) (*Handle[I], error) {
	desc, err := Describe[I]()
	if err != nil {
		return nil, err
	}

	if desc.Type().Kind() != reflect.Interface {
		return nil, invalidRegistration("%v is not an interface; use NewFunc for function types", desc.Type())
	}

	return build(desc, adapter, opts)
}

// NewFunc builds a handle for function type F. The substitute is synthesized with reflect.MakeFunc, so no adapter is
// needed. Its only slot is named FuncSlotName.
func NewFunc[F any](opts ...Option) (*Handle[F], error) {
	desc, err := Describe[F]()
	if err != nil {
		return nil, err
	}

	if desc.Type().Kind() != reflect.Func {
		return nil, invalidRegistration("%v is not a function type; use New for interfaces", desc.Type())
	}

	adapter := func(d Dispatcher) F {
		table, _ := d.(*DispatchTable)
		fn := reflect.MakeFunc(desc.Type(), func(in []reflect.Value) []reflect.Value {
			args := make(Args, len(in))
			for i, v := range in {
				args[i] = v.Interface()
			}

			return table.dispatch(0, args)
		})

		return fn.Interface().(F) //nolint:forcetypeassert // MakeFunc returns the requested type
	}

	return build(desc, adapter, opts)
}

// WithLogger routes the handle's debug logging to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *handleConfig) {
		c.logger = logger
	}
}

// WithReporter reports unmocked calls to reporter before the substitute panics.
func WithReporter(reporter TestReporter) Option {
	return func(c *handleConfig) {
		c.reporter = reporter
	}
}

// AddStub registers a rule on slot. See MethodController.AddStub.
func (h *Handle[I]) AddStub(slot int, matcher InvocationMatcher, behaviors *BehaviorQueue) (*StubRegistration, error) {
	ctrl, err := h.Controller(slot)
	if err != nil {
		return nil, err
	}

	return ctrl.AddStub(matcher, behaviors)
}

// AlwaysCompute answers every call on slot with fn, which may be a func(Args) Results or a typed function as
// accepted by Do.
func (h *Handle[I]) AlwaysCompute(slot int, fn any) (*StubRegistration, error) {
	var source BehaviorSource

	switch typed := fn.(type) {
	case func(Args) Results:
		source = Computed(typed)
	case nil:
		return nil, invalidRegistration("nil computed behavior")
	default:
		if reflect.TypeOf(fn).Kind() != reflect.Func {
			return nil, invalidRegistration("expected a function, got %T", fn)
		}

		source = Do(fn)
	}

	return h.AddStub(slot, Default(), NewBehaviorQueue(source))
}

// AlwaysReturn answers every call on slot with values.
func (h *Handle[I]) AlwaysReturn(slot int, values ...any) (*StubRegistration, error) {
	return h.AddStub(slot, Default(), NewBehaviorQueue(ReturnValue(values...)))
}

// ClearStubs drops the slot's registrations. Its history is kept.
func (h *Handle[I]) ClearStubs(slot int) error {
	ctrl, err := h.Controller(slot)
	if err != nil {
		return err
	}

	ctrl.ClearStubs()

	return nil
}

// Controller returns the controller bound to slot.
func (h *Handle[I]) Controller(slot int) (*MethodController, error) {
	if slot < 0 || slot >= len(h.controllers) {
		return nil, slotOutOfRange(slot, len(h.controllers))
	}

	return h.controllers[slot], nil
}

// Description returns the interface description of I.
func (h *Handle[I]) Description() *InterfaceDescription {
	return h.desc
}

// Dispatcher returns the dispatch table the substitute routes through.
func (h *Handle[I]) Dispatcher() *DispatchTable {
	return h.table
}

// History returns every recorded call on every slot, in the order they happened.
func (h *Handle[I]) History() []ActualInvocation {
	var out []ActualInvocation
	for _, ctrl := range h.controllers {
		out = append(out, ctrl.history...)
	}

	slices.SortFunc(out, func(a, b ActualInvocation) int {
		switch {
		case a.seq < b.seq:
			return -1
		case a.seq > b.seq:
			return 1
		default:
			return 0
		}
	})

	return out
}

// MustSlot is Slot for test setup: it panics if name is unknown.
func (h *Handle[I]) MustSlot(name string) int {
	slot, err := h.Slot(name)
	if err != nil {
		panic(err)
	}

	return slot
}

// QueryHistory returns the calls on slot that matcher accepts, in the order they happened.
func (h *Handle[I]) QueryHistory(slot int, matcher InvocationMatcher) ([]ActualInvocation, error) {
	ctrl, err := h.Controller(slot)
	if err != nil {
		return nil, err
	}

	return ctrl.QueryHistory(matcher), nil
}

// Reset drops every registration and the whole history on every slot. Sequence numbers keep growing.
func (h *Handle[I]) Reset() {
	for _, ctrl := range h.controllers {
		ctrl.Reset()
	}
}

// ReturnSequence answers calls matcher accepts with steps in order, then keeps answering with the last step.
func (h *Handle[I]) ReturnSequence(slot int, matcher InvocationMatcher, steps ...Results) (*StubRegistration, error) {
	queue := NewBehaviorQueue()
	for _, step := range steps {
		queue.Append(ReturnValue(step...))
	}

	return h.AddStub(slot, matcher, queue)
}

// Slot returns the index of the operation called name.
func (h *Handle[I]) Slot(name string) (int, error) {
	slot, ok := h.desc.Lookup(name)
	if !ok {
		return 0, fmt.Errorf("%w: %v has no operation %q", ErrSlotOutOfRange, h.desc.Type(), name)
	}

	return slot.Index, nil
}

// Substitute returns the stand-in implementation of I.
func (h *Handle[I]) Substitute() I {
	return h.substitute
}

type handleConfig struct {
	logger   *zap.Logger
	reporter TestReporter
}

func build[I any](desc *InterfaceDescription, adapter AdapterFunc[I], opts []Option) (*Handle[I], error) {
	cfg := handleConfig{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	substitute, table, err := Construct(desc, adapter)
	if err != nil {
		return nil, err
	}

	table.reporter = cfg.reporter

	handle := &Handle[I]{
		desc:        desc,
		table:       table,
		controllers: make([]*MethodController, desc.Len()),
		substitute:  substitute,
	}

	seq := &sequencer{}
	for _, slot := range desc.Slots() {
		ctrl := newMethodController(slot, seq, cfg.logger.With(zap.Stringer("interface", desc.Type())))
		handle.controllers[slot.Index] = ctrl

		err = table.Bind(slot.Index, ctrl)
		if err != nil {
			return nil, err
		}
	}

	cfg.logger.Debug("handle constructed", zap.Stringer("description", desc))

	return handle, nil
}
