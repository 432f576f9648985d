package engine

import (
	"github.com/settlerec/settlerec/internal/domain"
)

// lifecycle runs the lifecycle stage over every correlated in-flight
// record, in correlation order (which equals ingestion order under the
// single-threaded staging).
//
// Transition table:
//
//	code             quantities                     next state
//	ACK              none                           New
//	MATCHED          none                           Matched
//	PARTIAL_SETTLED  settled += qty                 Settled if settled >= intended,
//	                                                else PartiallySettled
//	SETTLED          settled = intended             Settled
//
// Emission policy: settlement codes always emit StateChanged, even when
// the state does not move, because quantities changed or a terminal state
// was (re)reached. ACK and MATCHED emit only on an actual state change.
// The state field itself updates whenever the computed state differs.
//
// Two behaviors are preserved from the observed system rather than
// designed: an accepted ACK regresses any state back to New, and repeated
// partial settlements are not clamped, so settled may exceed intended and
// remaining go negative.
func (e *Engine) lifecycle() {
	for _, rec := range e.store.inflight {
		if rec.done || !rec.correlated {
			continue
		}

		ob, ok := e.store.obligation(rec.target)
		if !ok {
			// Correlated but the obligation is gone. Leave the record in
			// flight for the next cycle instead of dropping it.
			continue
		}

		msg := rec.msg
		prior := ob.state
		var next domain.ObligationState
		alwaysEmit := false

		switch msg.Code {
		case domain.CodeAck:
			next = domain.StateNew
		case domain.CodeMatched:
			next = domain.StateMatched
		case domain.CodePartialSettled:
			ob.settled += msg.Quantity
			if ob.settled >= ob.intended {
				next = domain.StateSettled
			} else {
				next = domain.StatePartiallySettled
			}
			alwaysEmit = true
		case domain.CodeSettled:
			ob.settled = ob.intended
			next = domain.StateSettled
			alwaysEmit = true
		default:
			// Boundary adapters validate codes; an unknown code here is
			// a programmer error. Drop the record without an event.
			rec.done = true
			continue
		}

		if next != prior {
			ob.state = next
		}
		if alwaysEmit || next != prior {
			e.outbox.append(domain.StateChanged{
				ObligationID: ob.id,
				From:         prior,
				To:           next,
				SettledQty:   ob.settled,
				RemainingQty: ob.remaining(),
				MessageID:    msg.MessageID,
				Seq:          msg.Seq,
				At:           msg.At,
			})
		}
		rec.done = true
	}
}
