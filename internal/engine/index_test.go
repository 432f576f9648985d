package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/settlerec/settlerec/internal/domain"
)

func TestMatchIndex_ReconcileAddsNewObligations(t *testing.T) {
	s := newEntityStore()
	x := newMatchIndex()

	h := s.createObligation(testObligation("OBL00001", 1000))
	x.reconcile(s)

	got, ok := x.lookup(testKey)
	require.True(t, ok)
	assert.Equal(t, h, got)
	assert.Equal(t, 1, x.size())
}

func TestMatchIndex_ReconcileIsIdempotent(t *testing.T) {
	s := newEntityStore()
	x := newMatchIndex()

	s.createObligation(testObligation("OBL00001", 1000))
	x.reconcile(s)
	x.reconcile(s)
	x.reconcile(s)

	assert.Equal(t, 1, x.size())
}

func TestMatchIndex_LookupMiss(t *testing.T) {
	x := newMatchIndex()
	_, ok := x.lookup(testKey)
	assert.False(t, ok)
}

func TestMatchIndex_KeyCollisionLaterObligationWins(t *testing.T) {
	s := newEntityStore()
	x := newMatchIndex()

	s.createObligation(testObligation("OBL00001", 1000))
	second := s.createObligation(testObligation("OBL00002", 500))
	x.reconcile(s)

	// Both obligations share the key; the later creation owns the index
	// entry, the earlier one stays readable by handle only.
	got, ok := x.lookup(testKey)
	require.True(t, ok)
	assert.Equal(t, second, got)
}

func TestMatchIndex_DistinctKeys(t *testing.T) {
	s := newEntityStore()
	x := newMatchIndex()

	otherKey := domain.MatchKey{ISIN: "DE0005557508", Account: "ACC900", SettleDate: "2024-06-01"}
	h1 := s.createObligation(testObligation("OBL00001", 1000))
	h2 := s.createObligation(domain.NewObligation{ID: "OBL00002", Venue: "XETRA", Key: otherKey, IntendedQty: 500})
	x.reconcile(s)

	got1, ok := x.lookup(testKey)
	require.True(t, ok)
	got2, ok := x.lookup(otherKey)
	require.True(t, ok)
	assert.Equal(t, h1, got1)
	assert.Equal(t, h2, got2)
	assert.Equal(t, 2, x.size())
}
