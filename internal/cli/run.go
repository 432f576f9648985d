package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/settlerec/settlerec/internal/bench"
	"github.com/settlerec/settlerec/internal/config"
	"github.com/settlerec/settlerec/internal/engine"
	"github.com/settlerec/settlerec/internal/feed"
	"github.com/settlerec/settlerec/internal/orchestrator"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	RuntimeDir string
	Interval   time.Duration
	Once       bool
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the reconciliation engine",
		Long: `Start the reconciliation engine against a runtime directory.

The engine polls bank.txt for obligation creations and market.txt for
status messages, runs one reconciliation cycle per poll, and appends
every emitted event to status.txt.

Example:
  settlerec run --runtime ./runtime
  settlerec run --runtime ./runtime --interval 100ms --verbose
  settlerec run --runtime ./runtime --once`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEngine(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.RuntimeDir, "runtime", "", "runtime directory (default from SETTLEREC_RUNTIME_DIR)")
	cmd.Flags().DurationVar(&opts.Interval, "interval", 0, "poll interval (default from SETTLEREC_POLL_INTERVAL)")
	cmd.Flags().BoolVar(&opts.Once, "once", false, "drain the feeds once, print metrics, and exit")

	return cmd
}

func runEngine(opts *RunOptions, cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load configuration", err)
	}
	if opts.RuntimeDir != "" {
		cfg.RuntimeDir = opts.RuntimeDir
	}
	if opts.Interval > 0 {
		cfg.PollInterval = opts.Interval
	}

	logger := newLogger(cfg.LogLevel, opts.Verbose)
	slog.SetDefault(logger)

	rt, err := feed.NewRuntime(cfg.RuntimeDir)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to initialize runtime directory", err)
	}
	logger.Info("runtime ready", "dir", cfg.RuntimeDir)

	eng := engine.New(engine.WithLogger(logger))
	orch := orchestrator.New(
		eng,
		feed.NewBankSource(rt, logger),
		feed.NewMarketSource(rt, logger),
		feed.NewStatusSink(rt),
		orchestrator.WithLogger(logger),
	)

	if opts.Once {
		return runOnce(orch, cmd)
	}

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	logger.Info("engine starting", "runtime", cfg.RuntimeDir, "interval", cfg.PollInterval.String())
	fmt.Fprintln(cmd.OutOrStdout(), "Engine started. Watching runtime feeds...")
	fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl-C to stop.")

	if err := orch.Run(ctx, cfg.PollInterval); err != nil && !errors.Is(err, context.Canceled) {
		return WrapExitError(ExitFailure, "engine error", err)
	}

	logger.Info("engine stopped gracefully")
	return nil
}

// runOnce drains the feeds through a single pass and prints the
// machine-readable metrics line external benchmark tooling parses.
func runOnce(orch *orchestrator.Orchestrator, cmd *cobra.Command) error {
	runtime.GC()
	var before runtime.MemStats
	runtime.ReadMemStats(&before)

	start := time.Now()
	stats, err := orch.RunOnce()
	elapsed := time.Since(start)
	if err != nil {
		return WrapExitError(ExitFailure, "pass failed", err)
	}

	var after runtime.MemStats
	runtime.ReadMemStats(&after)

	var memoryMB float64
	if after.HeapAlloc > before.HeapAlloc {
		memoryMB = float64(after.HeapAlloc-before.HeapAlloc) / (1024 * 1024)
	}
	gcMS := float64(after.PauseTotalNs-before.PauseTotalNs) / 1e6
	durationMS := float64(elapsed.Nanoseconds()) / 1e6

	fmt.Fprintf(cmd.OutOrStdout(), "Processed %d obligations, %d messages, %d events\n",
		stats.Obligations, stats.Messages, stats.Events)
	fmt.Fprintln(cmd.OutOrStdout(),
		bench.MetricsLine(memoryMB, gcMS, durationMS, orch.Engine().EntityCount()))
	return nil
}

// newLogger builds the process logger. Verbose forces debug level.
func newLogger(level string, verbose bool) *slog.Logger {
	logLevel := slog.LevelInfo
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	if verbose {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
}
