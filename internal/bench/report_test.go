package bench

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReport_Sections(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	runs := []StoredRun{
		{
			RunID: "a", Scenario: "micro", Obligations: 10, StatusEvents: 20, StartedAt: base,
			Metrics: []Metrics{
				{ScenarioName: "micro", Obligations: 10, StatusEvents: 20, DurationMS: 1, ThroughputOpsPerSec: 20000, MemoryUsedMB: 0.1, GCTimeMS: 0.05, PeakEntities: 33},
				{ScenarioName: "micro", Obligations: 10, StatusEvents: 20, DurationMS: 1.2, ThroughputOpsPerSec: 16000, MemoryUsedMB: 0.1, GCTimeMS: 0.04, PeakEntities: 33},
			},
		},
		{
			RunID: "b", Scenario: "large", Obligations: 5000, StatusEvents: 12500, StartedAt: base,
			Metrics: []Metrics{
				{ScenarioName: "large", Obligations: 5000, StatusEvents: 12500, DurationMS: 80, ThroughputOpsPerSec: 156000, MemoryUsedMB: 12, GCTimeMS: 2, PeakEntities: 17850},
			},
		},
	}

	report := Report(runs)

	assert.True(t, strings.HasPrefix(report, "# Settlement Reconciliation - Performance Report\n"))
	assert.Contains(t, report, "## Performance Overview")
	assert.Contains(t, report, "| Scenario | Obligations | Events | Throughput (ops/sec) | Duration (ms) | Memory (MB) |")
	assert.Contains(t, report, "micro")
	assert.Contains(t, report, "large")

	assert.Contains(t, report, "## Scalability Analysis")
	assert.Contains(t, report, "**Dataset Size Range**: 10 to 5000 obligations (500.0x increase)")

	assert.Contains(t, report, "## Memory Efficiency")
	assert.Contains(t, report, "KB per obligation")

	assert.Contains(t, report, "## Garbage Collection Impact")
	assert.Contains(t, report, "% overhead)")

	// Only runs with at least two iterations appear under Variance.
	assert.Contains(t, report, "## Variance")
	assert.Contains(t, report, "- **micro**: throughput stddev")
	assert.NotContains(t, report, "- **large**: throughput stddev")
}

func TestReport_SingleRunSkipsScalability(t *testing.T) {
	runs := []StoredRun{
		{
			RunID: "a", Scenario: "micro", Obligations: 10, StatusEvents: 20,
			Metrics: []Metrics{
				{ScenarioName: "micro", Obligations: 10, StatusEvents: 20, DurationMS: 1, ThroughputOpsPerSec: 20000},
			},
		},
	}
	report := Report(runs)
	assert.NotContains(t, report, "## Scalability Analysis")
	assert.Contains(t, report, "## Performance Overview")
}

func TestStddev(t *testing.T) {
	assert.Zero(t, stddev(nil))
	assert.Zero(t, stddev([]float64{5}))
	require.InDelta(t, 1.0, stddev([]float64{1, 2, 3}), 1e-9)
}
