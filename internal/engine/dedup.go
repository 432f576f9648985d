package engine

import (
	"github.com/settlerec/settlerec/internal/domain"
)

// dedupCorrelate runs the dedup/correlate stage over every pending
// in-flight record, in ingestion order.
//
// Per message:
//  1. Resolve the obligation by matching key. Absent -> NoMatch, terminal.
//  2. (message id, seq) already applied -> DuplicateIgnored, terminal.
//  3. seq <= last applied seq -> OutOfOrderIgnored, terminal. The event
//     carries the sequence number recorded on the obligation at rejection
//     time.
//  4. Otherwise the pair joins the idempotency set, the obligation's
//     correlation metadata is updated, and the record is forwarded to the
//     lifecycle stage still in flight.
//
// The duplicate check runs strictly before the out-of-order check: a
// literal redelivery that is also numerically behind reports as a
// duplicate. Correlation metadata is updated here, in the same step as
// the idempotency set, so no intermediate state is observable between
// correlation and the metadata update.
func (e *Engine) dedupCorrelate() {
	for _, rec := range e.store.inflight {
		if rec.done || rec.correlated {
			continue
		}
		msg := rec.msg

		h, ok := e.index.lookup(msg.Key)
		if !ok {
			e.outbox.append(domain.NoMatch{
				MessageID: msg.MessageID,
				Seq:       msg.Seq,
				Key:       msg.Key,
			})
			rec.done = true
			continue
		}

		ob, ok := e.store.obligation(h)
		if !ok {
			// Index reconciliation precedes this stage, so an indexed
			// handle always resolves. Treat a miss as no match rather
			// than dropping the message silently.
			e.outbox.append(domain.NoMatch{
				MessageID: msg.MessageID,
				Seq:       msg.Seq,
				Key:       msg.Key,
			})
			rec.done = true
			continue
		}

		if _, seen := ob.applied[idemKey{msg.MessageID, msg.Seq}]; seen {
			e.outbox.append(domain.DuplicateIgnored{
				ObligationID: ob.id,
				MessageID:    msg.MessageID,
				Seq:          msg.Seq,
			})
			rec.done = true
			continue
		}

		if ob.last != nil && msg.Seq <= ob.last.Seq {
			e.outbox.append(domain.OutOfOrderIgnored{
				ObligationID: ob.id,
				LastSeq:      ob.last.Seq,
				MessageID:    msg.MessageID,
				Seq:          msg.Seq,
			})
			rec.done = true
			continue
		}

		ob.applied[idemKey{msg.MessageID, msg.Seq}] = struct{}{}
		ob.last = &domain.Correlation{
			Code:      msg.Code,
			MessageID: msg.MessageID,
			Seq:       msg.Seq,
			At:        msg.At,
		}
		rec.correlated = true
		rec.target = h
	}
}
