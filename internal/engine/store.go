package engine

import (
	"github.com/settlerec/settlerec/internal/domain"
)

// idemKey identifies one delivery of a status message for dedup purposes.
type idemKey struct {
	messageID string
	seq       int64
}

// obligationRecord is the long-lived entity store record for one
// obligation. Quantities are plain int64s; remaining is always derived as
// intended - settled and never stored.
type obligationRecord struct {
	id       string
	venue    string
	key      domain.MatchKey
	state    domain.ObligationState
	intended int64
	settled  int64

	// last is the correlation metadata of the most recently applied
	// message; nil until the first message is applied.
	last *domain.Correlation

	// applied is the idempotency set of (message id, seq) pairs.
	applied map[idemKey]struct{}
}

func (o *obligationRecord) remaining() int64 {
	return o.intended - o.settled
}

func (o *obligationRecord) view() domain.ObligationView {
	v := domain.ObligationView{
		ID:           o.id,
		Venue:        o.venue,
		Key:          o.key,
		State:        o.state,
		IntendedQty:  o.intended,
		SettledQty:   o.settled,
		RemainingQty: o.remaining(),
	}
	if o.last != nil {
		last := *o.last
		v.LastApplied = &last
	}
	return v
}

// statusRecord is an ephemeral in-flight status message. It lives from
// IngestStatus until the cleanup stage of the cycle that fully processes
// it.
type statusRecord struct {
	msg domain.StatusMessage

	// correlated is set by the dedup/correlate stage once the record is
	// matched to an obligation; target is the obligation's handle.
	correlated bool
	target     Handle

	// done marks a terminal outcome (rejected, or applied by the
	// lifecycle stage). Done records are dropped by cleanup.
	done bool
}

// entityStore owns all obligation records and in-flight status records.
//
// Obligations are iterated in creation order (ascending handle, tracked
// by the order slice) and are never deleted in normal operation; the
// store has no obligation-deletion API. In-flight records are kept in
// ingestion order.
type entityStore struct {
	alloc handleAllocator

	obligations map[Handle]*obligationRecord
	order       []Handle

	inflight []*statusRecord
}

func newEntityStore() *entityStore {
	return &entityStore{
		obligations: make(map[Handle]*obligationRecord),
	}
}

// createObligation allocates a new obligation record in state New with
// settled = 0 and an empty idempotency set.
func (s *entityStore) createObligation(o domain.NewObligation) Handle {
	h := s.alloc.Next()
	s.obligations[h] = &obligationRecord{
		id:       o.ID,
		venue:    o.Venue,
		key:      o.Key,
		state:    domain.StateNew,
		intended: o.IntendedQty,
		applied:  make(map[idemKey]struct{}),
	}
	s.order = append(s.order, h)
	return h
}

// ingestStatus buffers a status message as an in-flight record. The
// obligation half of the store is untouched.
func (s *entityStore) ingestStatus(m domain.StatusMessage) {
	s.inflight = append(s.inflight, &statusRecord{msg: m})
}

// obligation resolves a handle to its live record.
func (s *entityStore) obligation(h Handle) (*obligationRecord, bool) {
	rec, ok := s.obligations[h]
	return rec, ok
}

// obligationHandles returns live obligation handles in creation order.
func (s *entityStore) obligationHandles() []Handle {
	return s.order
}

func (s *entityStore) obligationCount() int {
	return len(s.obligations)
}

func (s *entityStore) inflightCount() int {
	return len(s.inflight)
}
