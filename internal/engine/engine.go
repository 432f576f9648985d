package engine

import (
	"io"
	"log/slog"

	"github.com/settlerec/settlerec/internal/domain"
)

// Engine is the reconciliation engine facade.
//
// The public contract is exactly: create obligation (immediate), ingest
// status (buffers), run one cycle (synchronous, full pipeline), read
// outbox (non-destructive), clear outbox (explicit), and read an
// obligation snapshot by handle. There is no implicit ticking; the caller
// owns cycle boundaries.
//
// INVARIANTS:
//   - All state is exclusively owned by one Engine instance
//   - Cycles run the stage order index -> dedup/correlate -> lifecycle ->
//     cleanup, never partially
//   - Concurrent calls are not supported; callers serialize
type Engine struct {
	store  *entityStore
	index  *matchIndex
	outbox *outbox
	log    *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger. The default discards everything;
// the engine only logs at debug level.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) {
		e.log = log
	}
}

// New creates an empty engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		store:  newEntityStore(),
		index:  newMatchIndex(),
		outbox: &outbox{},
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CreateObligation creates an obligation immediately and synchronously,
// bypassing staged processing, and returns its stable handle.
func (e *Engine) CreateObligation(o domain.NewObligation) Handle {
	h := e.store.createObligation(o)
	e.log.Debug("obligation created",
		"handle", int64(h),
		"obligation_id", o.ID,
		"venue", o.Venue,
		"key", o.Key.String(),
		"intended_qty", o.IntendedQty,
	)
	return h
}

// IngestStatus buffers a status message for the next cycle.
func (e *Engine) IngestStatus(m domain.StatusMessage) {
	e.store.ingestStatus(m)
	e.log.Debug("status buffered",
		"msg_id", m.MessageID,
		"seq", m.Seq,
		"code", m.Code.String(),
		"key", m.Key.String(),
	)
}

// RunCycle executes one full pipeline pass over the current in-flight
// set. It always succeeds: every per-message outcome, including the
// rejections, is reported as a domain event in the outbox.
func (e *Engine) RunCycle() {
	pending := e.store.inflightCount()
	e.index.reconcile(e.store)
	e.dedupCorrelate()
	e.lifecycle()
	e.cleanup()
	e.log.Debug("cycle complete",
		"processed", pending-e.store.inflightCount(),
		"carried", e.store.inflightCount(),
		"outbox", e.outbox.len(),
	)
}

// Outbox returns a snapshot of all events accumulated since the last
// clear, in emission order. It does not clear.
func (e *Engine) Outbox() []domain.Event {
	return e.outbox.snapshot()
}

// ClearOutbox empties the event buffer.
func (e *Engine) ClearOutbox() {
	e.outbox.clear()
}

// Obligation returns a read-only snapshot of the obligation behind h.
// Returns a NotFoundError if h does not resolve to a live obligation.
func (e *Engine) Obligation(h Handle) (domain.ObligationView, error) {
	rec, ok := e.store.obligation(h)
	if !ok {
		return domain.ObligationView{}, &NotFoundError{Handle: h}
	}
	return rec.view(), nil
}

// ObligationCount returns the number of live obligations.
func (e *Engine) ObligationCount() int {
	return e.store.obligationCount()
}

// InFlightCount returns the number of buffered status messages.
func (e *Engine) InFlightCount() int {
	return e.store.inflightCount()
}

// EntityCount returns the total number of live entity records, obligation
// and in-flight both. The benchmark harness samples it for its
// peak-entities metric.
func (e *Engine) EntityCount() int {
	return e.store.obligationCount() + e.store.inflightCount()
}
