// Package testutil provides deterministic fixtures for tests.
package testutil

import (
	"fmt"
	"sync"
	"time"
)

// FixedInstant is the timestamp used for deterministic datasets and
// golden traces, matching the instant the external generator scripts
// stamp on synthetic market lines.
var FixedInstant = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// At returns FixedInstant offset by the given number of seconds.
// Handy when a test needs distinct but reproducible timestamps.
func At(seconds int) time.Time {
	return FixedInstant.Add(time.Duration(seconds) * time.Second)
}

// IDGenerator produces reproducible message ids: PREFIX0001, PREFIX0002...
//
// Unlike uuid-based ids, these survive golden-file comparison. Reset
// allows the same generator to be reused across scenario runs with
// identical output.
//
// Thread-safety: all methods are safe for concurrent use.
type IDGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewIDGenerator creates a generator with the given prefix.
func NewIDGenerator(prefix string) *IDGenerator {
	return &IDGenerator{prefix: prefix}
}

// Next returns the next id in sequence.
func (g *IDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s%04d", g.prefix, g.n)
}

// Reset restarts the sequence.
func (g *IDGenerator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n = 0
}
