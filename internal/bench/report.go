package bench

import (
	"fmt"
	"math"
	"strings"
)

// Report renders a markdown performance report from stored runs.
// Runs are expected ordered by obligation count ascending, one per
// scenario (the shape LatestRuns produces).
func Report(runs []StoredRun) string {
	var b strings.Builder
	b.WriteString("# Settlement Reconciliation - Performance Report\n\n")

	b.WriteString("## Performance Overview\n\n")
	b.WriteString("| Scenario | Obligations | Events | Throughput (ops/sec) | Duration (ms) | Memory (MB) |\n")
	b.WriteString("|----------|-------------|--------|----------------------|---------------|-------------|\n")
	means := make([]Metrics, len(runs))
	for i, run := range runs {
		cfg := Config{Name: run.Scenario, Obligations: run.Obligations, StatusEvents: run.StatusEvents}
		means[i] = meanMetrics(cfg, run.Metrics)
		m := means[i]
		fmt.Fprintf(&b, "| %-8s | %11d | %6d | %20.1f | %13.1f | %11.1f |\n",
			m.ScenarioName, m.Obligations, m.StatusEvents,
			m.ThroughputOpsPerSec, m.DurationMS, m.MemoryUsedMB)
	}

	if len(means) > 1 {
		b.WriteString("\n## Scalability Analysis\n\n")
		first, last := means[0], means[len(means)-1]
		if first.Obligations > 0 && first.ThroughputOpsPerSec > 0 {
			sizeIncrease := float64(last.Obligations) / float64(first.Obligations)
			throughputChange := last.ThroughputOpsPerSec / first.ThroughputOpsPerSec
			fmt.Fprintf(&b, "- **Dataset Size Range**: %d to %d obligations (%.1fx increase)\n",
				first.Obligations, last.Obligations, sizeIncrease)
			fmt.Fprintf(&b, "- **Throughput Scaling**: %.2fx (ideal would be ~1.0x)\n", throughputChange)
			if first.MemoryUsedMB > 0 {
				fmt.Fprintf(&b, "- **Memory Scaling**: %.2fx (vs %.1fx data increase)\n",
					last.MemoryUsedMB/first.MemoryUsedMB, sizeIncrease)
			}
		}
	}

	b.WriteString("\n## Memory Efficiency\n\n")
	for _, m := range means {
		if m.Obligations == 0 {
			continue
		}
		kbPerObligation := (m.MemoryUsedMB * 1024) / float64(m.Obligations)
		fmt.Fprintf(&b, "- **%s**: %.1f KB per obligation\n", m.ScenarioName, kbPerObligation)
	}

	b.WriteString("\n## Garbage Collection Impact\n\n")
	for _, m := range means {
		overhead := 0.0
		if m.DurationMS > 0 {
			overhead = (m.GCTimeMS / m.DurationMS) * 100
		}
		fmt.Fprintf(&b, "- **%s**: %.1fms GC time (%.1f%% overhead)\n", m.ScenarioName, m.GCTimeMS, overhead)
	}

	b.WriteString("\n## Variance\n\n")
	for i, run := range runs {
		if len(run.Metrics) < 2 {
			continue
		}
		throughputs := make([]float64, len(run.Metrics))
		durations := make([]float64, len(run.Metrics))
		for j, m := range run.Metrics {
			throughputs[j] = m.ThroughputOpsPerSec
			durations[j] = m.DurationMS
		}
		fmt.Fprintf(&b, "- **%s**: throughput stddev %.1f ops/sec, duration stddev %.1f ms (%d iterations)\n",
			means[i].ScenarioName, stddev(throughputs), stddev(durations), len(run.Metrics))
	}

	return b.String()
}

// stddev is the sample standard deviation.
func stddev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	var variance float64
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	return math.Sqrt(variance / float64(len(values)-1))
}
