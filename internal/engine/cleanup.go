package engine

// cleanup drops every in-flight record that reached a terminal outcome
// this cycle, so the in-flight set is empty when the next cycle starts.
//
// Records that correlated but whose obligation could not be resolved by
// the lifecycle stage are carried over rather than silently dropped; with
// the current stage ordering that never happens, but losing a message
// would be worse than re-examining it.
func (e *Engine) cleanup() {
	kept := e.store.inflight[:0]
	for _, rec := range e.store.inflight {
		if rec.done {
			continue
		}
		kept = append(kept, rec)
	}
	// Nil out dropped slots so the backing array does not retain them.
	for i := len(kept); i < len(e.store.inflight); i++ {
		e.store.inflight[i] = nil
	}
	e.store.inflight = kept
}
