package engine

import (
	"github.com/settlerec/settlerec/internal/domain"
)

// matchIndex maintains the bidirectional mapping between matching keys
// and obligation handles.
//
// The index is reconciled against the entity store at the start of every
// cycle, before any matching occurs: newly created obligations are added,
// and handles no longer present in the store are removed through the
// reverse map without scanning. Lookup is O(1) regardless of obligation
// count, which is what keeps cycle cost near O(pending messages).
//
// INVARIANT: at most one obligation occupies a key at a time. Creating a
// second obligation with an occupied key overwrites the entry, making the
// first obligation unreachable for matching (it stays readable by
// handle). Whether shared keys are legitimate is an open product
// question; the overwrite behavior is preserved deliberately.
type matchIndex struct {
	byKey    map[domain.MatchKey]Handle
	byHandle map[Handle]domain.MatchKey
}

func newMatchIndex() *matchIndex {
	return &matchIndex{
		byKey:    make(map[domain.MatchKey]Handle),
		byHandle: make(map[Handle]domain.MatchKey),
	}
}

// reconcile brings the index in sync with the store's obligation set.
// Handles are visited in creation order so a later obligation wins any
// key collision deterministically.
func (x *matchIndex) reconcile(s *entityStore) {
	for _, h := range s.obligationHandles() {
		if _, indexed := x.byHandle[h]; indexed {
			continue
		}
		rec, ok := s.obligation(h)
		if !ok {
			continue
		}
		x.byKey[rec.key] = h
		x.byHandle[h] = rec.key
	}

	// Remove entries whose obligation left the store. No deletion API
	// exists today, so this is a no-op in normal operation, but the
	// reverse map keeps it O(1) per removed handle if one ever does.
	for h, key := range x.byHandle {
		if _, ok := s.obligation(h); ok {
			continue
		}
		delete(x.byHandle, h)
		if x.byKey[key] == h {
			delete(x.byKey, key)
		}
	}
}

// lookup resolves a matching key to an obligation handle.
func (x *matchIndex) lookup(key domain.MatchKey) (Handle, bool) {
	h, ok := x.byKey[key]
	return h, ok
}

func (x *matchIndex) size() int {
	return len(x.byHandle)
}
