package harness

import (
	"fmt"

	"github.com/settlerec/settlerec/internal/domain"
	"github.com/settlerec/settlerec/internal/engine"
)

// TraceEvent is one domain event in a scenario trace, tagged with the
// cycle (1-based) that emitted it.
type TraceEvent struct {
	Cycle int
	Event domain.Event
}

// Counts tallies trace events by kind.
type Counts struct {
	StateChanged      int
	NoMatch           int
	DuplicateIgnored  int
	OutOfOrderIgnored int
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Trace contains every emitted event in emission order.
	Trace []TraceEvent

	// Counts tallies the trace by event kind.
	Counts Counts

	// Final maps obligation id to its final snapshot. When several
	// obligations share an id, the last created wins.
	Final map[string]domain.ObligationView
}

// StateChangedTo counts StateChanged events with the given target state.
func (r *Result) StateChangedTo(state domain.ObligationState) int {
	n := 0
	for _, te := range r.Trace {
		if sc, ok := te.Event.(domain.StateChanged); ok && sc.To == state {
			n++
		}
	}
	return n
}

// Run executes a scenario against a fresh engine.
//
// Obligations are created up front; each cycles entry ingests its
// messages in order and runs one engine cycle. The outbox is read and
// cleared after every cycle, mirroring the orchestration contract.
func Run(scenario *Scenario) (*Result, error) {
	eng := engine.New()

	handles := make(map[string]engine.Handle, len(scenario.Obligations))
	for i, spec := range scenario.Obligations {
		ob, err := spec.obligation()
		if err != nil {
			return nil, fmt.Errorf("obligations[%d]: %w", i, err)
		}
		handles[ob.ID] = eng.CreateObligation(ob)
	}

	result := &Result{Final: make(map[string]domain.ObligationView)}
	for ci, cycle := range scenario.Cycles {
		for mi, spec := range cycle.Messages {
			msg, err := spec.message()
			if err != nil {
				return nil, fmt.Errorf("cycles[%d].messages[%d]: %w", ci, mi, err)
			}
			eng.IngestStatus(msg)
		}
		eng.RunCycle()
		for _, ev := range eng.Outbox() {
			result.Trace = append(result.Trace, TraceEvent{Cycle: ci + 1, Event: ev})
			switch ev.Kind() {
			case domain.KindStateChanged:
				result.Counts.StateChanged++
			case domain.KindNoMatch:
				result.Counts.NoMatch++
			case domain.KindDuplicateIgnored:
				result.Counts.DuplicateIgnored++
			case domain.KindOutOfOrderIgnored:
				result.Counts.OutOfOrderIgnored++
			}
		}
		eng.ClearOutbox()
	}

	for id, h := range handles {
		view, err := eng.Obligation(h)
		if err != nil {
			return nil, fmt.Errorf("snapshot obligation %s: %w", id, err)
		}
		result.Final[id] = view
	}
	return result, nil
}

// RunAndCheck executes a scenario and evaluates its expect block.
// Assertion failures are returned as errors; execution errors abort.
func RunAndCheck(scenario *Scenario) (*Result, []error, error) {
	result, err := Run(scenario)
	if err != nil {
		return nil, nil, err
	}
	return result, CheckExpect(result, scenario.Expect), nil
}
