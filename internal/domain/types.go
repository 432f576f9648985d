package domain

import (
	"fmt"
	"time"
)

// ObligationState is the lifecycle state of a settlement obligation.
//
// States only advance through status messages accepted by the engine's
// dedup/ordering checks. An accepted ACK maps back to StateNew regardless
// of the current state (observed venue behavior, kept as-is).
type ObligationState int

const (
	// StateNew is the initial state of every obligation.
	StateNew ObligationState = iota
	// StateMatched means the venue confirmed the obligation against its own records.
	StateMatched
	// StatePartiallySettled means some, but not all, of the intended quantity settled.
	StatePartiallySettled
	// StateSettled means the full intended quantity settled.
	StateSettled
)

// String returns the state name used in rendered status lines.
func (s ObligationState) String() string {
	switch s {
	case StateNew:
		return "New"
	case StateMatched:
		return "Matched"
	case StatePartiallySettled:
		return "PartiallySettled"
	case StateSettled:
		return "Settled"
	default:
		return fmt.Sprintf("ObligationState(%d)", int(s))
	}
}

// StatusCode classifies an incoming venue status message.
type StatusCode int

const (
	// CodeAck acknowledges receipt; no quantity effect.
	CodeAck StatusCode = iota + 1
	// CodeMatched confirms the obligation matched at the venue.
	CodeMatched
	// CodePartialSettled reports a partial settlement of the carried quantity.
	CodePartialSettled
	// CodeSettled reports full settlement of the intended quantity.
	CodeSettled
)

// Wire forms as they appear in market feed lines.
const (
	wireAck            = "ACK"
	wireMatched        = "MATCHED"
	wirePartialSettled = "PARTIAL_SETTLED"
	wireSettled        = "SETTLED"
)

// String returns the wire form of the code.
func (c StatusCode) String() string {
	switch c {
	case CodeAck:
		return wireAck
	case CodeMatched:
		return wireMatched
	case CodePartialSettled:
		return wirePartialSettled
	case CodeSettled:
		return wireSettled
	default:
		return fmt.Sprintf("StatusCode(%d)", int(c))
	}
}

// ParseStatusCode parses the wire form of a status code.
func ParseStatusCode(s string) (StatusCode, error) {
	switch s {
	case wireAck:
		return CodeAck, nil
	case wireMatched:
		return CodeMatched, nil
	case wirePartialSettled:
		return CodePartialSettled, nil
	case wireSettled:
		return CodeSettled, nil
	default:
		return 0, fmt.Errorf("unknown status code %q", s)
	}
}

// Date is a settlement date in ISO form (YYYY-MM-DD).
//
// Dates are kept as validated strings rather than time.Time: the matching
// key must be comparable and byte-identical across replays, and no date
// arithmetic happens anywhere in the engine.
type Date string

// ParseDate validates s as an ISO calendar date.
func ParseDate(s string) (Date, error) {
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return "", fmt.Errorf("invalid settlement date %q: %w", s, err)
	}
	return Date(s), nil
}

// MatchKey identifies the obligation a status message refers to.
// At most one obligation occupies a key in the matching index at a time.
type MatchKey struct {
	ISIN       string
	Account    string
	SettleDate Date
}

// String renders the key in the composed form used by NoMatch events.
func (k MatchKey) String() string {
	return fmt.Sprintf("%s-%s-%s", k.ISIN, k.Account, k.SettleDate)
}

// NewObligation carries the fields of an obligation-creation request.
type NewObligation struct {
	ID          string
	Venue       string
	Key         MatchKey
	IntendedQty int64
}

// StatusMessage is one externally-sourced status notification.
//
// Seq is strictly increasing per source for a given matching key;
// MessageID plus Seq identify a delivery for dedup purposes. The meaning
// of Quantity depends on Code (settled amount for PARTIAL_SETTLED,
// ignored for ACK/MATCHED/SETTLED).
type StatusMessage struct {
	MessageID string
	Seq       int64
	Code      StatusCode
	Key       MatchKey
	Quantity  int64
	At        time.Time
}

// Correlation records the last status message applied to an obligation.
// A nil *Correlation means no message has been applied yet.
type Correlation struct {
	Code      StatusCode
	MessageID string
	Seq       int64
	At        time.Time
}

// ObligationView is a read-only snapshot of an obligation.
type ObligationView struct {
	ID           string
	Venue        string
	Key          MatchKey
	State        ObligationState
	IntendedQty  int64
	SettledQty   int64
	RemainingQty int64
	LastApplied  *Correlation
}
