// Package engine implements the settlement reconciliation engine.
//
// The engine reconciles internally-tracked settlement obligations against
// venue/depository status messages. Obligation creation is immediate and
// synchronous; status messages buffer as in-flight records until the
// caller runs a cycle.
//
// ARCHITECTURE:
//
// Single-Threaded Cycle:
// All mutation happens inside RunCycle, on the caller's goroutine. One
// cycle executes a fixed stage order over the entire in-flight set:
//
//  1. Index reconcile - matching index catches up with the entity store
//  2. Dedup/Correlate - NoMatch / DuplicateIgnored / OutOfOrderIgnored
//     rejection, or correlation to the matching obligation
//  3. Lifecycle - state and quantity transitions, StateChanged emission
//  4. Cleanup - terminal in-flight records are discarded
//
// Rejections are data, not errors: a cycle never fails, every outcome is
// reported as a domain event in the outbox.
//
// CRITICAL PATTERNS:
//
// Determinism:
// Messages are processed in ingestion order, stages in fixed order, and
// no wall-clock reads or randomness occur anywhere in a cycle. Replaying
// the same ordered sequence of calls on a fresh engine reproduces the
// exact outbox event sequence and final obligation state.
//
// Idempotency and ordering:
// Each obligation carries the set of (message id, seq) pairs already
// applied plus the last applied sequence number. The duplicate check is
// evaluated strictly before the out-of-order check, so a literal
// redelivery is always reported as DuplicateIgnored even when its
// sequence number is also behind.
//
// Indexed matching:
// Obligations are located through a bidirectional key<->handle index that
// is reconciled incrementally at the start of each cycle. Lookup is O(1);
// per-cycle cost stays close to O(pending messages) instead of
// O(messages x obligations).
//
// The engine performs no I/O. Concurrent use of a single Engine is not
// supported; callers requiring parallelism run one engine per key
// partition, which preserves per-key ordering.
package engine
