// Package core provides the internal implementation of imposter's substitute objects, stub dispatch, and call
// history.
package core

import (
	"go.uber.org/zap"
)

// CapabilityHandler answers calls for one operation slot.
type CapabilityHandler interface {
	Handle(args Args) (Results, error)
}

// MethodController is the sole authority over one slot's behavior and history.
type MethodController struct {
	slot    OperationSlot
	seq     *sequencer
	logger  *zap.Logger
	stubs   []*StubRegistration
	history []ActualInvocation
}

// NewMethodController creates a controller for slot with its own sequence counter and no logging. Handles create
// their controllers with a shared counter instead.
func NewMethodController(slot OperationSlot) *MethodController {
	return newMethodController(slot, &sequencer{}, zap.NewNop())
}

// AddStub registers a rule on the slot. Later registrations take precedence over earlier ones when both accept a
// call. AddStub rejects a nil matcher, an empty queue, and built-in matchers or behaviors whose shape cannot fit
// the slot; a rejected registration leaves existing stubs untouched.
func (c *MethodController) AddStub(matcher InvocationMatcher, behaviors *BehaviorQueue) (*StubRegistration, error) {
	if matcher == nil {
		return nil, invalidRegistration("%s: nil matcher", c.slot)
	}

	if behaviors == nil || behaviors.Len() == 0 {
		return nil, invalidRegistration("%s: empty behavior queue", c.slot)
	}

	if v, ok := matcher.(slotValidator); ok {
		err := v.validateFor(c.slot)
		if err != nil {
			return nil, err
		}
	}

	err := behaviors.validateFor(c.slot)
	if err != nil {
		return nil, err
	}

	stub := &StubRegistration{
		index:     len(c.stubs),
		matcher:   matcher,
		behaviors: behaviors,
		slot:      c.slot,
	}
	c.stubs = append(c.stubs, stub)

	c.logger.Debug("stub added",
		zap.String("slot", c.slot.Name),
		zap.Int("stub", stub.index),
		zap.Stringer("matcher", matcher),
		zap.Int("behaviors", behaviors.Len()),
	)

	return stub, nil
}

// ClearStubs drops every registration on the slot. History is kept.
func (c *MethodController) ClearStubs() {
	c.stubs = nil

	c.logger.Debug("stubs cleared", zap.String("slot", c.slot.Name))
}

// Handle records the call, picks the newest stub that accepts it, and runs that stub's next behavior.
//
// If no stub accepts the call, Handle returns an *UnmockedOperationError. A panic raised by a computed behavior
// is not recovered.
func (c *MethodController) Handle(args Args) (Results, error) {
	inv := NewActualInvocation(c.seq.next(), c.slot, args)
	c.history = append(c.history, inv)

	stub := c.resolve(inv)
	if stub == nil {
		c.logger.Debug("unmocked call",
			zap.String("slot", c.slot.Name),
			zap.Uint64("seq", inv.Sequence()),
			zap.Stringer("call", inv),
		)

		return nil, &UnmockedOperationError{Slot: c.slot, Args: inv.Args(), Reason: reasonNoStub}
	}

	c.logger.Debug("dispatch",
		zap.String("slot", c.slot.Name),
		zap.Uint64("seq", inv.Sequence()),
		zap.Int("stub", stub.index),
	)

	return stub.behaviors.Next().Produce(inv.Args()), nil
}

// History returns every recorded call on the slot, oldest first.
func (c *MethodController) History() []ActualInvocation {
	out := make([]ActualInvocation, len(c.history))
	copy(out, c.history)

	return out
}

// QueryHistory returns the recorded calls matcher accepts, in the order they happened.
func (c *MethodController) QueryHistory(matcher InvocationMatcher) []ActualInvocation {
	var out []ActualInvocation

	for _, inv := range c.history {
		if matcher.Matches(inv) {
			out = append(out, inv)
		}
	}

	return out
}

// Reset drops every registration and the whole history.
func (c *MethodController) Reset() {
	c.stubs = nil
	c.history = nil

	c.logger.Debug("reset", zap.String("slot", c.slot.Name))
}

// Slot returns the slot this controller serves.
func (c *MethodController) Slot() OperationSlot {
	return c.slot
}

// Stubs returns the number of registrations on the slot.
func (c *MethodController) Stubs() int {
	return len(c.stubs)
}

// resolve walks registrations newest to oldest and returns the first that accepts inv.
func (c *MethodController) resolve(inv ActualInvocation) *StubRegistration {
	for i := len(c.stubs) - 1; i >= 0; i-- {
		if c.stubs[i].matcher.Matches(inv) {
			return c.stubs[i]
		}
	}

	return nil
}

// StubRegistration pairs a matcher with the queue of behaviors that answer the calls it accepts.
type StubRegistration struct {
	index     int
	matcher   InvocationMatcher
	behaviors *BehaviorQueue
	slot      OperationSlot
}

// Matcher returns the registration's matcher.
func (s *StubRegistration) Matcher() InvocationMatcher {
	return s.matcher
}

// Pending returns the number of behaviors left in the queue.
func (s *StubRegistration) Pending() int {
	return s.behaviors.Len()
}

// Then appends a behavior to the registration's queue. If the queue was down to its sticky last entry, that entry
// answers one more call and the new behavior takes over after it.
func (s *StubRegistration) Then(source BehaviorSource) error {
	if source == nil {
		return invalidRegistration("%s: nil behavior", s.slot)
	}

	if v, ok := source.(slotValidator); ok {
		err := v.validateFor(s.slot)
		if err != nil {
			return err
		}
	}

	s.behaviors.Append(source)

	return nil
}

func newMethodController(slot OperationSlot, seq *sequencer, logger *zap.Logger) *MethodController {
	return &MethodController{
		slot:   slot,
		seq:    seq,
		logger: logger,
	}
}
