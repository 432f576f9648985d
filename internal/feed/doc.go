// Package feed implements the file-backed queue adapters that connect
// the engine to external scripts.
//
// Three append-only text files live in a runtime directory:
//
//	bank.txt    obligation creations  id,venue,isin,account,settleDate,intendedQty
//	market.txt  status messages       msgId,seq,code,isin,account,settleDate,qty,at
//	status.txt  rendered domain events, one line each
//
// The code is ACK, MATCHED, PARTIAL_SETTLED or SETTLED; at is RFC 3339.
// Fields are comma-joined without quoting, exactly as the external feeder
// scripts write them, so a strict split is used instead of a CSV reader.
//
// Readers are offset-tracking tailers: each Drain returns only the
// complete lines appended since the previous Drain, leaving a trailing
// partial line for the next pass. A shrunken file resets the offset, so
// regenerated datasets are picked up from the start.
package feed
