package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// Line formats are consumed by external tail/assert tooling that counts
// lines by prefix; these tests pin the exact rendering.

func TestNoMatch_Line(t *testing.T) {
	e := NoMatch{
		MessageID: "M1",
		Seq:       1,
		Key:       MatchKey{ISIN: "US0378331005", Account: "ACC123", SettleDate: "2024-03-15"},
	}
	assert.Equal(t, "NoMatch(msgId=M1, seq=1, key=US0378331005-ACC123-2024-03-15)", e.Line())
	assert.Equal(t, KindNoMatch, e.Kind())
}

func TestDuplicateIgnored_Line(t *testing.T) {
	e := DuplicateIgnored{ObligationID: "OBL00001", MessageID: "M1", Seq: 3}
	assert.Equal(t, "DuplicateIgnored(obligationId=OBL00001, msgId=M1, seq=3)", e.Line())
	assert.Equal(t, KindDuplicateIgnored, e.Kind())
}

func TestOutOfOrderIgnored_Line(t *testing.T) {
	e := OutOfOrderIgnored{ObligationID: "OBL00001", LastSeq: 5, MessageID: "M1", Seq: 2}
	assert.Equal(t, "OutOfOrderIgnored(obligationId=OBL00001, lastSeq=5, msgId=M1, seq=2)", e.Line())
	assert.Equal(t, KindOutOfOrderIgnored, e.Kind())
}

func TestStateChanged_Line(t *testing.T) {
	e := StateChanged{
		ObligationID: "OBL00001",
		From:         StateNew,
		To:           StateMatched,
		SettledQty:   0,
		RemainingQty: 1000,
		MessageID:    "M1",
		Seq:          1,
		At:           time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t,
		"StateChanged(obligationId=OBL00001, from=New, to=Matched, settled=0, remaining=1000, msgId=M1, seq=1, at=2024-01-01T00:00:00Z)",
		e.Line())
	assert.Equal(t, KindStateChanged, e.Kind())
}

func TestStateChanged_Line_TimestampNormalizedToUTC(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	e := StateChanged{
		ObligationID: "OBL00001",
		From:         StateMatched,
		To:           StateSettled,
		SettledQty:   1000,
		MessageID:    "M2",
		Seq:          2,
		At:           time.Date(2024, 1, 1, 1, 0, 0, 0, loc),
	}
	assert.Contains(t, e.Line(), "at=2024-01-01T00:00:00Z")
}

func TestStateChanged_Line_NegativeRemaining(t *testing.T) {
	// Over-settlement is representable; remaining renders signed.
	e := StateChanged{
		ObligationID: "OBL00001",
		From:         StateSettled,
		To:           StateSettled,
		SettledQty:   1200,
		RemainingQty: -200,
		MessageID:    "M3",
		Seq:          3,
		At:           time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	assert.Contains(t, e.Line(), "settled=1200, remaining=-200")
}
