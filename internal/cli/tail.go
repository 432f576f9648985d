package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/settlerec/settlerec/internal/feed"
)

// NewTailCommand creates the tail command: follow status.txt and print
// each new event line.
func NewTailCommand(rootOpts *RootOptions) *cobra.Command {
	var runtimeDir string

	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Follow the status feed",
		Long: `Follow status.txt and print each newly appended event line,
prefixed with [STATUS]. Starts at the current end of the file; existing
lines are not replayed.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(runtimeDir)
			if err != nil {
				return err
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
				case <-sigChan:
					cancel()
				case <-ctx.Done():
				}
			}()

			err = feed.Follow(ctx, rt.Path(feed.StatusFile), func(line string) {
				fmt.Fprintf(cmd.OutOrStdout(), "[STATUS] %s\n", line)
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				return WrapExitError(ExitFailure, "tail failed", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&runtimeDir, "runtime", "", "runtime directory (default from SETTLEREC_RUNTIME_DIR)")
	return cmd
}
