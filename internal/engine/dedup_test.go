package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/settlerec/settlerec/internal/domain"
)

func TestDedup_NoMatchForUnknownKey(t *testing.T) {
	e := New()
	e.IngestStatus(testMessage("M1", 1, domain.CodeMatched, 1000))
	e.RunCycle()

	events := e.Outbox()
	require.Len(t, events, 1)
	nm, ok := events[0].(domain.NoMatch)
	require.True(t, ok)
	assert.Equal(t, "M1", nm.MessageID)
	assert.Equal(t, int64(1), nm.Seq)
	assert.Equal(t, testKey, nm.Key)
}

func TestDedup_DuplicateDeliveryIgnored(t *testing.T) {
	e := New()
	e.CreateObligation(testObligation("OBL00001", 1000))

	e.IngestStatus(testMessage("M1", 1, domain.CodeMatched, 1000))
	e.RunCycle()
	e.ClearOutbox()

	// Exact redelivery of the same (msgId, seq).
	e.IngestStatus(testMessage("M1", 1, domain.CodeMatched, 1000))
	e.RunCycle()

	events := e.Outbox()
	require.Len(t, events, 1)
	dup, ok := events[0].(domain.DuplicateIgnored)
	require.True(t, ok)
	assert.Equal(t, "OBL00001", dup.ObligationID)
	assert.Equal(t, "M1", dup.MessageID)
	assert.Equal(t, int64(1), dup.Seq)
}

func TestDedup_DuplicateInSameCycle(t *testing.T) {
	e := New()
	e.CreateObligation(testObligation("OBL00001", 1000))

	e.IngestStatus(testMessage("M1", 1, domain.CodeMatched, 1000))
	e.IngestStatus(testMessage("M1", 1, domain.CodeMatched, 1000))
	e.RunCycle()

	events := e.Outbox()
	require.Len(t, events, 2)
	assert.Equal(t, domain.KindDuplicateIgnored, events[0].Kind())
	assert.Equal(t, domain.KindStateChanged, events[1].Kind())
}

func TestDedup_OutOfOrderRejected(t *testing.T) {
	e := New()
	e.CreateObligation(testObligation("OBL00001", 1000))

	e.IngestStatus(testMessage("M1", 5, domain.CodeMatched, 1000))
	e.RunCycle()
	e.ClearOutbox()

	// Behind the last applied sequence, different message id.
	e.IngestStatus(testMessage("M2", 3, domain.CodeSettled, 1000))
	e.RunCycle()

	events := e.Outbox()
	require.Len(t, events, 1)
	ooo, ok := events[0].(domain.OutOfOrderIgnored)
	require.True(t, ok)
	assert.Equal(t, "OBL00001", ooo.ObligationID)
	assert.Equal(t, int64(5), ooo.LastSeq)
	assert.Equal(t, "M2", ooo.MessageID)
	assert.Equal(t, int64(3), ooo.Seq)
}

func TestDedup_EqualSeqRejected(t *testing.T) {
	e := New()
	e.CreateObligation(testObligation("OBL00001", 1000))

	e.IngestStatus(testMessage("M1", 1, domain.CodeMatched, 1000))
	e.RunCycle()
	e.ClearOutbox()

	// Same sequence number under a new message id: ordering check, not dedup.
	e.IngestStatus(testMessage("M2", 1, domain.CodeSettled, 1000))
	e.RunCycle()

	events := e.Outbox()
	require.Len(t, events, 1)
	assert.Equal(t, domain.KindOutOfOrderIgnored, events[0].Kind())
}

func TestDedup_DuplicateCheckedBeforeOrdering(t *testing.T) {
	e := New()
	e.CreateObligation(testObligation("OBL00001", 1000))

	e.IngestStatus(testMessage("M1", 1, domain.CodeMatched, 1000))
	e.IngestStatus(testMessage("M2", 2, domain.CodeSettled, 1000))
	e.RunCycle()
	e.ClearOutbox()

	// A redelivery of M1 seq 1 is both a duplicate and numerically
	// behind; it must report as a duplicate.
	e.IngestStatus(testMessage("M1", 1, domain.CodeMatched, 1000))
	e.RunCycle()

	events := e.Outbox()
	require.Len(t, events, 1)
	assert.Equal(t, domain.KindDuplicateIgnored, events[0].Kind())
}

func TestDedup_RejectedMessageUpdatesNothing(t *testing.T) {
	e := New()
	h := e.CreateObligation(testObligation("OBL00001", 1000))

	e.IngestStatus(testMessage("M1", 5, domain.CodeMatched, 1000))
	e.RunCycle()
	e.ClearOutbox()

	e.IngestStatus(testMessage("M2", 2, domain.CodePartialSettled, 400))
	e.RunCycle()

	view, err := e.Obligation(h)
	require.NoError(t, err)
	assert.Equal(t, domain.StateMatched, view.State)
	assert.Equal(t, int64(0), view.SettledQty)
	require.NotNil(t, view.LastApplied)
	assert.Equal(t, "M1", view.LastApplied.MessageID)
	assert.Equal(t, int64(5), view.LastApplied.Seq)
}
