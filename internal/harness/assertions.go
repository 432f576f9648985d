package harness

import (
	"fmt"
	"strings"
)

// AssertionError is returned when a scenario expectation fails. It
// carries the full trace so a failure report stands on its own.
type AssertionError struct {
	Check    string       // Which expectation failed
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Check)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)
	fmt.Fprintf(&buf, "\nFull trace:\n")
	for _, te := range e.Trace {
		fmt.Fprintf(&buf, "  [cycle %d] %s\n", te.Cycle, te.Event.Line())
	}
	return buf.String()
}

// CheckExpect evaluates an expect block against a result.
// Returns all failures (does not fail-fast). A nil expect passes.
func CheckExpect(result *Result, expect *Expect) []error {
	if expect == nil {
		return nil
	}
	var errs []error
	if expect.Counts != nil {
		errs = append(errs, checkCounts(result, expect.Counts)...)
	}
	for _, final := range expect.Final {
		if err := checkFinalState(result, final); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func checkCounts(result *Result, counts *ExpectCounts) []error {
	var errs []error
	check := func(name string, want *int, got int) {
		if want != nil && *want != got {
			errs = append(errs, &AssertionError{
				Check:    "counts." + name,
				Expected: fmt.Sprintf("%d %s events", *want, name),
				Actual:   fmt.Sprintf("%d", got),
				Trace:    result.Trace,
			})
		}
	}
	check("state_changed", counts.StateChanged, result.Counts.StateChanged)
	check("no_match", counts.NoMatch, result.Counts.NoMatch)
	check("duplicate_ignored", counts.DuplicateIgnored, result.Counts.DuplicateIgnored)
	check("out_of_order_ignored", counts.OutOfOrderIgnored, result.Counts.OutOfOrderIgnored)
	return errs
}

func checkFinalState(result *Result, final ExpectFinalState) error {
	view, ok := result.Final[final.ID]
	if !ok {
		return &AssertionError{
			Check:    "final",
			Expected: fmt.Sprintf("obligation %s in final state", final.ID),
			Actual:   "obligation not found",
			Trace:    result.Trace,
		}
	}
	if final.State != nil && view.State.String() != *final.State {
		return &AssertionError{
			Check:    "final.state",
			Expected: fmt.Sprintf("obligation %s in state %s", final.ID, *final.State),
			Actual:   view.State.String(),
			Trace:    result.Trace,
		}
	}
	if final.Settled != nil && view.SettledQty != *final.Settled {
		return &AssertionError{
			Check:    "final.settled",
			Expected: fmt.Sprintf("obligation %s settled=%d", final.ID, *final.Settled),
			Actual:   fmt.Sprintf("%d", view.SettledQty),
			Trace:    result.Trace,
		}
	}
	if final.Remaining != nil && view.RemainingQty != *final.Remaining {
		return &AssertionError{
			Check:    "final.remaining",
			Expected: fmt.Sprintf("obligation %s remaining=%d", final.ID, *final.Remaining),
			Actual:   fmt.Sprintf("%d", view.RemainingQty),
			Trace:    result.Trace,
		}
	}
	return nil
}
