package basic

// BasicOps covers the shapes a substitute has to forward: single and multiple results, no results, and variadic
// arguments.
type BasicOps interface {
	// Add has parameters and a single result.
	Add(a, b int) int

	// Store has multiple results, the usual shape for error handling.
	Store(key string, value any) (int, error)

	// Log has no results.
	Log(message string)

	// Notify is variadic.
	Notify(message string, ids ...int) bool
}

// PerformOps is the code under test.
func PerformOps(ops BasicOps) (int, error) {
	const (
		val1 = 1
		val2 = 2
		val3 = 3
	)

	sum := ops.Add(val1, val2)

	stored, err := ops.Store("foo", "bar")
	if err != nil {
		ops.Log("store failed")

		return 0, err
	}

	ops.Log("action performed")

	if !ops.Notify("alert", val1, val2, val3) {
		return sum, nil
	}

	return sum + stored, nil
}
