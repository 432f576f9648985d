package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/settlerec/settlerec/internal/bench"
	"github.com/settlerec/settlerec/internal/config"
)

// BenchOptions holds flags for the bench command.
type BenchOptions struct {
	*RootOptions
	Database   string
	Iterations int
}

// NewBenchCommand creates the bench command.
func NewBenchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BenchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "bench [scenario]",
		Short: "Run benchmark scenarios",
		Long: `Run one or all benchmark scenarios against an in-process engine and
persist the measurements to the benchmark database.

Scenarios: micro, small, medium, large, xl, throughput, memory.

Example:
  settlerec bench
  settlerec bench medium --iterations 10`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			scenario := "all"
			if len(args) == 1 {
				scenario = args[0]
			}
			return runBench(opts, scenario, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "benchmark database path (default from SETTLEREC_BENCH_DB)")
	cmd.Flags().IntVar(&opts.Iterations, "iterations", 0, "override measurement iterations for every scenario")

	return cmd
}

func runBench(opts *BenchOptions, scenario string, cmd *cobra.Command) error {
	store, err := openBenchStore(opts.Database)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Error("error closing benchmark database", "error", closeErr)
		}
	}()

	var configs []bench.Config
	if scenario == "all" {
		configs = bench.StandardScenarios()
	} else {
		cfg, err := bench.ScenarioByName(scenario)
		if err != nil {
			return WrapExitError(ExitCommandError, "unknown scenario", err)
		}
		configs = []bench.Config{cfg}
	}
	if opts.Iterations > 0 {
		for i := range configs {
			configs[i].MeasurementIterations = opts.Iterations
		}
	}

	runner := bench.NewRunner(bench.WithResultStore(store))
	var results []*bench.RunResult
	for _, cfg := range configs {
		fmt.Fprintf(cmd.OutOrStdout(), "Running benchmark: %s (%s)\n", cfg.Name, cfg.Description)
		result, err := runner.Run(cfg)
		if err != nil {
			return WrapExitError(ExitFailure, "benchmark failed", err)
		}
		results = append(results, result)
		printBenchSummary(cmd, result)
	}

	if len(results) > 1 {
		fmt.Fprintf(cmd.OutOrStdout(), "\nComparative Results\n")
		fmt.Fprintf(cmd.OutOrStdout(), "%-12s %-12s %-8s %-16s %-10s\n",
			"Scenario", "Obligations", "Events", "Throughput", "Duration")
		for _, result := range results {
			m := result.Mean
			fmt.Fprintf(cmd.OutOrStdout(), "%-12s %-12d %-8d %-16.1f %-10.1f\n",
				m.ScenarioName, m.Obligations, m.StatusEvents,
				m.ThroughputOpsPerSec, m.DurationMS)
		}
	}
	return nil
}

func printBenchSummary(cmd *cobra.Command, result *bench.RunResult) {
	m := result.Mean
	fmt.Fprintf(cmd.OutOrStdout(), "  obligations=%d events=%d duration=%.1fms throughput=%.1f ops/sec memory=%.1fMB gc=%.1fms peak_entities=%d\n",
		m.Obligations, m.StatusEvents, m.DurationMS, m.ThroughputOpsPerSec,
		m.MemoryUsedMB, m.GCTimeMS, m.PeakEntities)
}

// openBenchStore resolves the benchmark database path from flag or
// config and opens it.
func openBenchStore(flagPath string) (*bench.ResultStore, error) {
	path := flagPath
	if path == "" {
		cfg, err := config.Load()
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to load configuration", err)
		}
		path = cfg.BenchDB
	}
	store, err := bench.OpenResultStore(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open benchmark database", err)
	}
	return store, nil
}
