package core_test

import (
	"testing"

	. "github.com/onsi/gomega"
	"github.com/toejough/imposter/internal/core"
)

func TestBehaviorQueue_DrainsToStickyLast(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	queue := core.NewBehaviorQueue(core.ReturnValue(10), core.ReturnValue(20), core.ReturnValue(30))
	g.Expect(queue.Len()).To(Equal(3))

	got := make([]any, 0, 5)
	for range 5 {
		got = append(got, queue.Next().Produce(nil)[0])
	}

	g.Expect(got).To(Equal([]any{10, 20, 30, 30, 30}))
	g.Expect(queue.Len()).To(Equal(1), "the last entry is never removed")
}

func TestBehaviorQueue_SingleEntryIsStickyImmediately(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	queue := core.NewBehaviorQueue(core.ReturnValue("only"))

	g.Expect(queue.Next().Produce(nil)).To(Equal(core.Results{"only"}))
	g.Expect(queue.Next().Produce(nil)).To(Equal(core.Results{"only"}))
	g.Expect(queue.Len()).To(Equal(1))
}

func TestBehaviorQueue_EmptyNextIsNil(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	g.Expect(core.NewBehaviorQueue().Next()).To(BeNil())
}

func TestBehaviorQueue_AppendAfterSticky(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	queue := core.NewBehaviorQueue(core.ReturnValue(1))
	g.Expect(queue.Next().Produce(nil)).To(Equal(core.Results{1}))

	queue.Append(core.ReturnValue(2))

	g.Expect(queue.Next().Produce(nil)).To(Equal(core.Results{1}))
	g.Expect(queue.Next().Produce(nil)).To(Equal(core.Results{2}))
	g.Expect(queue.Next().Produce(nil)).To(Equal(core.Results{2}))
}

func TestReturnValue_ProducesACopy(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	source := core.ReturnValue(1, "a")
	first := source.Produce(nil)
	first[0] = 99

	g.Expect(source.Produce(nil)).To(Equal(core.Results{1, "a"}))
}

func TestComputed_RunsOnEveryDequeue(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	calls := 0
	source := core.Computed(func(args core.Args) core.Results {
		calls++

		a, _ := args[0].(int)
		b, _ := args[1].(int)

		return core.Results{a * b}
	})

	g.Expect(source.Produce(core.Args{3, 4})).To(Equal(core.Results{12}))
	g.Expect(source.Produce(core.Args{5, 5})).To(Equal(core.Results{25}))
	g.Expect(calls).To(Equal(2))
}

func TestDo_TypedFunction(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	source := core.Do(func(a, b int) int { return a - b })

	g.Expect(source.Produce(core.Args{9, 4})).To(Equal(core.Results{5}))
}

func TestDo_VariadicFunction(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	var seen []any

	source := core.Do(func(format string, args ...any) {
		seen = append([]any{format}, args...)
	})

	g.Expect(source.Produce(core.Args{"%d-%d", []any{1, 2}})).To(BeEmpty())
	g.Expect(seen).To(Equal([]any{"%d-%d", 1, 2}))
}

// Failures inside a computed behavior reach the caller untouched.
func TestDo_PanicPropagatesUnchanged(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	type boom struct{ code int }

	source := core.Do(func(int, int) int { panic(boom{code: 7}) })

	g.Expect(func() { source.Produce(core.Args{1, 2}) }).To(PanicWith(boom{code: 7}))
}

func TestDo_PanicsOnNonFunction(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	g.Expect(func() { core.Do("nope") }).To(PanicWith(ContainSubstring("expected a function")))
}
