package bench

import (
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"time"

	"github.com/google/uuid"

	"github.com/settlerec/settlerec/internal/engine"
	"github.com/settlerec/settlerec/internal/harness"
)

// baseSeed anchors dataset generation so benchmark inputs are
// reproducible; each iteration offsets it to vary data without losing
// determinism.
const baseSeed int64 = 12345

// Metrics is one iteration's measurement.
type Metrics struct {
	ScenarioName        string
	Obligations         int
	StatusEvents        int
	DurationMS          float64
	ThroughputOpsPerSec float64
	MemoryUsedMB        float64
	GCTimeMS            float64
	PeakEntities        int
}

// RunResult is a complete benchmark run: all measurement iterations
// plus their mean.
type RunResult struct {
	RunID     string
	Config    Config
	StartedAt time.Time
	Metrics   []Metrics
	Mean      Metrics
}

// Runner executes benchmark scenarios.
type Runner struct {
	store *ResultStore
	log   *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithResultStore persists every run to the given store.
func WithResultStore(s *ResultStore) Option {
	return func(r *Runner) { r.store = s }
}

// WithLogger sets the runner's logger.
func WithLogger(log *slog.Logger) Option {
	return func(r *Runner) { r.log = log }
}

// NewRunner creates a benchmark runner. Without options it logs nowhere
// and persists nothing.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes one scenario: warmup iterations first (discarded), then
// measurement iterations. Results are persisted when a store is
// configured.
func (r *Runner) Run(cfg Config) (*RunResult, error) {
	cfg = cfg.withDefaults()
	r.log.Info("running benchmark scenario",
		"scenario", cfg.Name,
		"obligations", cfg.Obligations,
		"status_events", cfg.StatusEvents)

	for i := 0; i < cfg.WarmupIterations; i++ {
		r.measure(cfg, int64(i))
	}

	result := &RunResult{
		RunID:     uuid.NewString(),
		Config:    cfg,
		StartedAt: time.Now().UTC(),
	}
	for i := 0; i < cfg.MeasurementIterations; i++ {
		m := r.measure(cfg, int64(cfg.WarmupIterations+i))
		result.Metrics = append(result.Metrics, m)
		r.log.Debug("benchmark iteration complete",
			"scenario", cfg.Name,
			"iteration", i+1,
			"duration_ms", m.DurationMS,
			"throughput", m.ThroughputOpsPerSec)
	}
	result.Mean = meanMetrics(cfg, result.Metrics)

	if r.store != nil {
		if err := r.store.SaveRun(result); err != nil {
			return nil, fmt.Errorf("persist benchmark run: %w", err)
		}
	}
	return result, nil
}

// measure runs one full dataset through a fresh engine and samples heap
// and GC deltas around the processing window.
func (r *Runner) measure(cfg Config, seedOffset int64) Metrics {
	dataset := harness.Generate(harness.GenerateOptions{
		Obligations:  cfg.Obligations,
		StatusEvents: cfg.StatusEvents,
		Duplicates:   cfg.Duplicates,
		Unmatches:    cfg.Unmatches,
		Seed:         baseSeed + seedOffset,
		Shuffle:      true,
	})

	eng := engine.New()

	runtime.GC()
	var before runtime.MemStats
	runtime.ReadMemStats(&before)

	start := time.Now()
	for _, ob := range dataset.Obligations {
		eng.CreateObligation(ob)
	}
	for _, msg := range dataset.Messages {
		eng.IngestStatus(msg)
	}
	peak := eng.EntityCount()
	eng.RunCycle()
	eng.ClearOutbox()
	elapsed := time.Since(start)

	var after runtime.MemStats
	runtime.ReadMemStats(&after)

	durationMS := float64(elapsed.Nanoseconds()) / 1e6
	throughput := 0.0
	if durationMS > 0 {
		throughput = float64(cfg.StatusEvents) / (durationMS / 1000)
	}
	var memoryMB float64
	if after.HeapAlloc > before.HeapAlloc {
		memoryMB = float64(after.HeapAlloc-before.HeapAlloc) / (1024 * 1024)
	}
	gcMS := float64(after.PauseTotalNs-before.PauseTotalNs) / 1e6

	return Metrics{
		ScenarioName:        cfg.Name,
		Obligations:         cfg.Obligations,
		StatusEvents:        cfg.StatusEvents,
		DurationMS:          durationMS,
		ThroughputOpsPerSec: throughput,
		MemoryUsedMB:        memoryMB,
		GCTimeMS:            gcMS,
		PeakEntities:        peak,
	}
}

// MetricsLine renders the machine-readable metrics line emitted after a
// single-pass run. External tooling parses this format; do not change
// the key names or separators.
func MetricsLine(memoryMB, gcTimeMS, durationMS float64, peakEntities int) string {
	return fmt.Sprintf("BENCHMARK_METRICS: memory_mb=%.2f, gc_time_ms=%.2f, duration_ms=%.2f, peak_entities=%d",
		memoryMB, gcTimeMS, durationMS, peakEntities)
}

// meanMetrics averages measurement iterations.
func meanMetrics(cfg Config, metrics []Metrics) Metrics {
	if len(metrics) == 0 {
		return Metrics{ScenarioName: cfg.Name, Obligations: cfg.Obligations, StatusEvents: cfg.StatusEvents}
	}
	mean := Metrics{
		ScenarioName: cfg.Name,
		Obligations:  cfg.Obligations,
		StatusEvents: cfg.StatusEvents,
	}
	var peaks float64
	for _, m := range metrics {
		mean.DurationMS += m.DurationMS
		mean.ThroughputOpsPerSec += m.ThroughputOpsPerSec
		mean.MemoryUsedMB += m.MemoryUsedMB
		mean.GCTimeMS += m.GCTimeMS
		peaks += float64(m.PeakEntities)
	}
	n := float64(len(metrics))
	mean.DurationMS /= n
	mean.ThroughputOpsPerSec /= n
	mean.MemoryUsedMB /= n
	mean.GCTimeMS /= n
	mean.PeakEntities = int(peaks / n)
	return mean
}
