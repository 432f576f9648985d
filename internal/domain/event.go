package domain

import (
	"fmt"
	"time"
)

// EventKind tags the variants of the Event sum type.
type EventKind string

const (
	// KindNoMatch is emitted when no obligation exists for a message's key.
	KindNoMatch EventKind = "no_match"
	// KindDuplicateIgnored is emitted when a (message id, seq) pair was already applied.
	KindDuplicateIgnored EventKind = "duplicate_ignored"
	// KindOutOfOrderIgnored is emitted when a message arrives at or behind the
	// obligation's last applied sequence number.
	KindOutOfOrderIgnored EventKind = "out_of_order_ignored"
	// KindStateChanged is emitted for every observable lifecycle transition.
	KindStateChanged EventKind = "state_changed"
)

// Event is the sealed sum type of reconciliation outcomes.
//
// One variant exists per outcome, each carrying only its own fields.
// Line() renders the exact status-file form consumed by the external
// tail/assert tooling; the prefixes (`NoMatch(`, `DuplicateIgnored(`,
// `StateChanged(` with `to=...`) are load-bearing.
type Event interface {
	Kind() EventKind
	Line() string

	// sealed restricts implementations to this package.
	sealed()
}

// NoMatch reports a status message whose key matched no obligation.
type NoMatch struct {
	MessageID string
	Seq       int64
	Key       MatchKey
}

func (NoMatch) Kind() EventKind { return KindNoMatch }
func (NoMatch) sealed()         {}

func (e NoMatch) Line() string {
	return fmt.Sprintf("NoMatch(msgId=%s, seq=%d, key=%s)", e.MessageID, e.Seq, e.Key)
}

// DuplicateIgnored reports a redelivered (message id, seq) pair.
type DuplicateIgnored struct {
	ObligationID string
	MessageID    string
	Seq          int64
}

func (DuplicateIgnored) Kind() EventKind { return KindDuplicateIgnored }
func (DuplicateIgnored) sealed()         {}

func (e DuplicateIgnored) Line() string {
	return fmt.Sprintf("DuplicateIgnored(obligationId=%s, msgId=%s, seq=%d)",
		e.ObligationID, e.MessageID, e.Seq)
}

// OutOfOrderIgnored reports a message rejected by the ordering check.
// LastSeq is the sequence number recorded on the obligation at rejection time.
type OutOfOrderIgnored struct {
	ObligationID string
	LastSeq      int64
	MessageID    string
	Seq          int64
}

func (OutOfOrderIgnored) Kind() EventKind { return KindOutOfOrderIgnored }
func (OutOfOrderIgnored) sealed()         {}

func (e OutOfOrderIgnored) Line() string {
	return fmt.Sprintf("OutOfOrderIgnored(obligationId=%s, lastSeq=%d, msgId=%s, seq=%d)",
		e.ObligationID, e.LastSeq, e.MessageID, e.Seq)
}

// StateChanged reports an applied, observable lifecycle transition.
// SettledQty and RemainingQty are the obligation's quantities after the
// transition; At is the triggering message's timestamp.
type StateChanged struct {
	ObligationID string
	From         ObligationState
	To           ObligationState
	SettledQty   int64
	RemainingQty int64
	MessageID    string
	Seq          int64
	At           time.Time
}

func (StateChanged) Kind() EventKind { return KindStateChanged }
func (StateChanged) sealed()         {}

func (e StateChanged) Line() string {
	return fmt.Sprintf("StateChanged(obligationId=%s, from=%s, to=%s, settled=%d, remaining=%d, msgId=%s, seq=%d, at=%s)",
		e.ObligationID, e.From, e.To, e.SettledQty, e.RemainingQty,
		e.MessageID, e.Seq, e.At.UTC().Format(time.RFC3339))
}
