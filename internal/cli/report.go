package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/settlerec/settlerec/internal/bench"
)

// ReportOptions holds flags for the report command.
type ReportOptions struct {
	*RootOptions
	Database string
	Output   string
}

// NewReportCommand creates the report command: render the latest stored
// benchmark run per scenario as a markdown performance report.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate a benchmark performance report",
		Example: `  settlerec report
  settlerec report --output performance_report.md`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openBenchStore(opts.Database)
			if err != nil {
				return err
			}
			defer func() {
				if closeErr := store.Close(); closeErr != nil {
					slog.Error("error closing benchmark database", "error", closeErr)
				}
			}()

			runs, err := store.LatestRuns()
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to load benchmark results", err)
			}
			if len(runs) == 0 {
				return NewExitError(ExitCommandError, "no benchmark results found; run 'settlerec bench' first")
			}

			report := bench.Report(runs)
			if opts.Output != "" {
				if err := os.WriteFile(opts.Output, []byte(report), 0o644); err != nil {
					return WrapExitError(ExitCommandError, "failed to write report", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Report saved to: %s\n", opts.Output)
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), report)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "benchmark database path (default from SETTLEREC_BENCH_DB)")
	cmd.Flags().StringVar(&opts.Output, "output", "", "write the report to this file instead of stdout")

	return cmd
}
