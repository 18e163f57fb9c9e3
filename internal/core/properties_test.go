package core_test

import (
	"testing"

	. "github.com/onsi/gomega"
	"github.com/toejough/imposter/internal/core"
	"pgregory.net/rapid"
)

// TestProperty_FreshSubstituteRejectsEveryCall proves that nothing answers until a stub is added.
func TestProperty_FreshSubstituteRejectsEveryCall(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		g := NewWithT(rt)
		a := rapid.Int().Draw(rt, "a")
		b := rapid.Int().Draw(rt, "b")

		handle, err := core.New(newSummer)
		g.Expect(err).NotTo(HaveOccurred())

		g.Expect(func() { handle.Substitute().Sum(a, b) }).To(PanicWith(MatchError(core.ErrUnmockedOperation)))
		g.Expect(handle.History()).To(HaveLen(1), "rejected calls are still recorded")
	})
}

// TestProperty_DisjointMatchersRouteIndependently proves that a call reaches the stub whose matcher accepts it,
// whatever order the stubs were added in.
func TestProperty_DisjointMatchersRouteIndependently(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		g := NewWithT(rt)
		pivot := rapid.IntRange(-1000, 1000).Draw(rt, "pivot")
		below := rapid.Int().Draw(rt, "below")
		above := rapid.Int().Draw(rt, "above")
		lowFirst := rapid.Bool().Draw(rt, "lowFirst")

		handle, err := core.New(newSummer)
		g.Expect(err).NotTo(HaveOccurred())

		slot := handle.MustSlot("Sum")
		low := func() {
			_, err := handle.AddStub(slot, core.Where(func(a, _ int) bool { return a < pivot }),
				core.NewBehaviorQueue(core.ReturnValue(below)))
			g.Expect(err).NotTo(HaveOccurred())
		}
		high := func() {
			_, err := handle.AddStub(slot, core.Where(func(a, _ int) bool { return a >= pivot }),
				core.NewBehaviorQueue(core.ReturnValue(above)))
			g.Expect(err).NotTo(HaveOccurred())
		}

		if lowFirst {
			low()
			high()
		} else {
			high()
			low()
		}

		arg := rapid.IntRange(-2000, 2000).Draw(rt, "arg")
		want := above

		if arg < pivot {
			want = below
		}

		g.Expect(handle.Substitute().Sum(arg, 0)).To(Equal(want))
	})
}

// TestProperty_LastRegisteredWins proves that among overlapping stubs the newest answers.
func TestProperty_LastRegisteredWins(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		g := NewWithT(rt)
		values := rapid.SliceOfN(rapid.Int(), 1, 10).Draw(rt, "values")

		handle, err := core.New(newSummer)
		g.Expect(err).NotTo(HaveOccurred())

		for _, v := range values {
			_, err := handle.AlwaysReturn(handle.MustSlot("Sum"), v)
			g.Expect(err).NotTo(HaveOccurred())
		}

		a := rapid.Int().Draw(rt, "a")
		b := rapid.Int().Draw(rt, "b")
		g.Expect(handle.Substitute().Sum(a, b)).To(Equal(values[len(values)-1]))
	})
}

// TestProperty_QueueConsumesThenSticks proves that a queue of n behaviors answers n calls in order and then
// repeats its last behavior.
func TestProperty_QueueConsumesThenSticks(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		g := NewWithT(rt)
		values := rapid.SliceOfN(rapid.Int(), 1, 8).Draw(rt, "values")
		extra := rapid.IntRange(1, 5).Draw(rt, "extra")

		handle, err := core.New(newSummer)
		g.Expect(err).NotTo(HaveOccurred())

		steps := make([]core.Results, len(values))
		for i, v := range values {
			steps[i] = core.Results{v}
		}

		_, err = handle.ReturnSequence(handle.MustSlot("Sum"), core.Default(), steps...)
		g.Expect(err).NotTo(HaveOccurred())

		summer := handle.Substitute()
		for _, v := range values {
			g.Expect(summer.Sum(0, 0)).To(Equal(v))
		}

		for range extra {
			g.Expect(summer.Sum(0, 0)).To(Equal(values[len(values)-1]))
		}
	})
}

// TestProperty_HistoryIsFaithful proves that history holds every call with its arguments, in order, and that
// queries return exactly the matching subsequence.
func TestProperty_HistoryIsFaithful(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		g := NewWithT(rt)
		calls := rapid.SliceOfN(rapid.IntRange(-5, 5), 0, 20).Draw(rt, "calls")
		target := rapid.IntRange(-5, 5).Draw(rt, "target")

		handle, err := core.New(newSummer)
		g.Expect(err).NotTo(HaveOccurred())

		slot := handle.MustSlot("Sum")
		_, err = handle.AlwaysReturn(slot, 0)
		g.Expect(err).NotTo(HaveOccurred())

		summer := handle.Substitute()
		for _, a := range calls {
			summer.Sum(a, target)
		}

		history, err := handle.QueryHistory(slot, core.Default())
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(history).To(HaveLen(len(calls)))

		var want []int

		for i, inv := range history {
			g.Expect(inv.Args()).To(Equal(core.Args{calls[i], target}))
			g.Expect(inv.Sequence()).To(Equal(uint64(i + 1)))

			if calls[i] == target {
				want = append(want, calls[i])
			}
		}

		matching, err := handle.QueryHistory(slot, core.ExpectedArguments(target, target))
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(matching).To(HaveLen(len(want)))

		for i := 1; i < len(matching); i++ {
			g.Expect(matching[i].Sequence()).To(BeNumerically(">", matching[i-1].Sequence()))
		}
	})
}

// TestProperty_ClearStubsRestoresUnmocked proves that clearing a slot's stubs makes every call unmocked again
// without losing history.
func TestProperty_ClearStubsRestoresUnmocked(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		g := NewWithT(rt)
		stubs := rapid.IntRange(1, 5).Draw(rt, "stubs")
		before := rapid.IntRange(0, 5).Draw(rt, "before")

		handle, err := core.New(newSummer)
		g.Expect(err).NotTo(HaveOccurred())

		slot := handle.MustSlot("Sum")
		for i := range stubs {
			_, err := handle.AlwaysReturn(slot, i)
			g.Expect(err).NotTo(HaveOccurred())
		}

		summer := handle.Substitute()
		for range before {
			summer.Sum(1, 1)
		}

		g.Expect(handle.ClearStubs(slot)).To(Succeed())
		g.Expect(func() { summer.Sum(1, 1) }).To(PanicWith(MatchError(core.ErrUnmockedOperation)))
		g.Expect(handle.History()).To(HaveLen(before + 1))
	})
}
