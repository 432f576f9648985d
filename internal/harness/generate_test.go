package harness

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/settlerec/settlerec/internal/domain"
	"github.com/settlerec/settlerec/internal/engine"
	"github.com/settlerec/settlerec/internal/feed"
)

func newTestRuntime(t *testing.T) *feed.Runtime {
	t.Helper()
	rt, err := feed.NewRuntime(t.TempDir())
	require.NoError(t, err)
	return rt
}

func drainRuntime(t *testing.T, rt *feed.Runtime) ([]domain.NewObligation, []domain.StatusMessage) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	obligations, err := feed.NewBankSource(rt, log).Drain()
	require.NoError(t, err)
	messages, err := feed.NewMarketSource(rt, log).Drain()
	require.NoError(t, err)
	return obligations, messages
}

// runDataset feeds a generated dataset through a fresh engine in one
// cycle and tallies the emitted events.
func runDataset(d *Dataset) Counts {
	eng := engine.New()
	for _, ob := range d.Obligations {
		eng.CreateObligation(ob)
	}
	for _, msg := range d.Messages {
		eng.IngestStatus(msg)
	}
	eng.RunCycle()

	var counts Counts
	for _, ev := range eng.Outbox() {
		switch ev.Kind() {
		case domain.KindStateChanged:
			counts.StateChanged++
		case domain.KindNoMatch:
			counts.NoMatch++
		case domain.KindDuplicateIgnored:
			counts.DuplicateIgnored++
		case domain.KindOutOfOrderIgnored:
			counts.OutOfOrderIgnored++
		}
	}
	return counts
}

func stateChangedToMatched(d *Dataset) int {
	eng := engine.New()
	for _, ob := range d.Obligations {
		eng.CreateObligation(ob)
	}
	for _, msg := range d.Messages {
		eng.IngestStatus(msg)
	}
	eng.RunCycle()

	n := 0
	for _, ev := range eng.Outbox() {
		if sc, ok := ev.(domain.StateChanged); ok && sc.To == domain.StateMatched {
			n++
		}
	}
	return n
}

func TestGenerate_SameSeedSameDataset(t *testing.T) {
	opts := GenerateOptions{
		Obligations:  50,
		StatusEvents: 120,
		Duplicates:   8,
		Unmatches:    4,
		Seed:         42,
		Shuffle:      true,
	}
	first := Generate(opts)
	second := Generate(opts)
	assert.Equal(t, first.Obligations, second.Obligations)
	assert.Equal(t, first.Messages, second.Messages)
	assert.Equal(t, first.Expected, second.Expected)
}

func TestGenerate_DifferentSeedsDiffer(t *testing.T) {
	opts := GenerateOptions{Obligations: 50, StatusEvents: 50, Seed: 1}
	first := Generate(opts)
	opts.Seed = 2
	second := Generate(opts)
	assert.NotEqual(t, first.Obligations, second.Obligations)
}

func TestGenerate_Shape(t *testing.T) {
	d := Generate(GenerateOptions{
		Obligations:  10,
		StatusEvents: 25,
		Duplicates:   3,
		Unmatches:    2,
		Seed:         7,
	})
	assert.Len(t, d.Obligations, 10)
	assert.Len(t, d.Messages, 25+3+2)
	assert.Equal(t, "OBL00001", d.Obligations[0].ID)
	assert.Equal(t, "OBL00010", d.Obligations[9].ID)
	assert.Equal(t, ExpectedCounts{MatchedObligations: 10, NoMatch: 2, DuplicateIgnored: 3}, d.Expected)
}

func TestGenerate_ExpectedCountsHold_PrimaryOnly(t *testing.T) {
	// Every message carries seq 1, so the shuffled order cannot produce
	// out-of-order rejections and the expected counts are exact.
	d := Generate(GenerateOptions{
		Obligations:  25,
		StatusEvents: 25,
		Duplicates:   5,
		Unmatches:    7,
		Seed:         42,
		Shuffle:      true,
	})

	counts := runDataset(d)
	assert.Equal(t, d.Expected.NoMatch, counts.NoMatch)
	assert.Equal(t, d.Expected.DuplicateIgnored, counts.DuplicateIgnored)
	assert.Equal(t, 0, counts.OutOfOrderIgnored)
	assert.Equal(t, d.Expected.MatchedObligations, stateChangedToMatched(d))
}

func TestGenerate_ExpectedCountsHold_LifecycleEventsUnshuffled(t *testing.T) {
	d := Generate(GenerateOptions{
		Obligations:  20,
		StatusEvents: 60,
		Duplicates:   6,
		Unmatches:    3,
		Seed:         12345,
	})

	counts := runDataset(d)
	assert.Equal(t, d.Expected.NoMatch, counts.NoMatch)
	assert.Equal(t, d.Expected.DuplicateIgnored, counts.DuplicateIgnored)
	assert.Equal(t, 0, counts.OutOfOrderIgnored)
	assert.Equal(t, d.Expected.MatchedObligations, stateChangedToMatched(d))
}

func TestGenerate_StatusEventsFloorAtObligations(t *testing.T) {
	d := Generate(GenerateOptions{Obligations: 10, StatusEvents: 3, Seed: 1})
	assert.Len(t, d.Messages, 10)
}

func TestGenerate_WriteRuntimeRoundTrip(t *testing.T) {
	d := Generate(GenerateOptions{
		Obligations:  5,
		StatusEvents: 12,
		Duplicates:   2,
		Unmatches:    1,
		Seed:         9,
	})

	rt := newTestRuntime(t)
	require.NoError(t, d.WriteRuntime(rt))

	obligations, messages := drainRuntime(t, rt)
	assert.Equal(t, d.Obligations, obligations)
	assert.Equal(t, d.Messages, messages)
}
