// Package bench measures reconciliation engine performance across
// standard dataset sizes.
//
// Each scenario fixes an obligation count, a status-event count and the
// amount of duplicate and unmatched noise. The runner generates the
// dataset deterministically, feeds it through a fresh engine, and
// records duration, throughput, heap growth, GC pause time and peak
// entity count per iteration. Warmup iterations run first and are
// discarded.
//
// Results persist to a SQLite database so runs can be compared over
// time; the report generator aggregates stored measurements into a
// markdown performance report.
package bench
