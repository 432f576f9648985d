package cli

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/settlerec/settlerec/internal/config"
	"github.com/settlerec/settlerec/internal/domain"
	"github.com/settlerec/settlerec/internal/feed"
)

// FeedOptions holds flags shared by the feed subcommands.
type FeedOptions struct {
	*RootOptions
	RuntimeDir string
}

// NewFeedCommand creates the feed command group: manual appends to the
// bank and market queue files, for demos and debugging.
func NewFeedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FeedOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Append entries to the runtime feeds",
	}
	cmd.PersistentFlags().StringVar(&opts.RuntimeDir, "runtime", "", "runtime directory (default from SETTLEREC_RUNTIME_DIR)")

	cmd.AddCommand(newFeedBankCommand(opts))
	cmd.AddCommand(newFeedMarketCommand(opts))
	return cmd
}

func newFeedBankCommand(opts *FeedOptions) *cobra.Command {
	var (
		id, venue, isin, account, settleDate string
		qty                                  int64
	)

	cmd := &cobra.Command{
		Use:   "bank",
		Short: "Append an obligation creation to bank.txt",
		Example: `  settlerec feed bank --id OBL00001 --venue LSE --isin US0378331005 \
    --account ACC123 --settle-date 2024-03-15 --qty 1000`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := domain.ParseDate(settleDate)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid settle date", err)
			}
			if qty < 0 {
				return NewExitError(ExitCommandError, fmt.Sprintf("negative quantity %d", qty))
			}
			rt, err := openRuntime(opts.RuntimeDir)
			if err != nil {
				return err
			}
			ob := domain.NewObligation{
				ID:    id,
				Venue: venue,
				Key: domain.MatchKey{
					ISIN:       isin,
					Account:    account,
					SettleDate: date,
				},
				IntendedQty: qty,
			}
			if err := feed.AppendBank(rt, ob); err != nil {
				return WrapExitError(ExitCommandError, "failed to append bank line", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote bank update: %s\n", feed.FormatBankLine(ob))
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "obligation id")
	cmd.Flags().StringVar(&venue, "venue", "", "trading venue")
	cmd.Flags().StringVar(&isin, "isin", "", "instrument ISIN")
	cmd.Flags().StringVar(&account, "account", "", "settlement account")
	cmd.Flags().StringVar(&settleDate, "settle-date", "", "settlement date (YYYY-MM-DD)")
	cmd.Flags().Int64Var(&qty, "qty", 0, "intended quantity")
	for _, flag := range []string{"id", "venue", "isin", "account", "settle-date", "qty"} {
		_ = cmd.MarkFlagRequired(flag)
	}
	return cmd
}

func newFeedMarketCommand(opts *FeedOptions) *cobra.Command {
	var (
		msgID, code, isin, account, settleDate, at string
		seq, qty                                   int64
	)

	cmd := &cobra.Command{
		Use:   "market",
		Short: "Append a status message to market.txt",
		Example: `  settlerec feed market --seq 1 --code MATCHED --isin US0378331005 \
    --account ACC123 --settle-date 2024-03-15 --qty 1000`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			statusCode, err := domain.ParseStatusCode(code)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid status code", err)
			}
			date, err := domain.ParseDate(settleDate)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid settle date", err)
			}
			timestamp := time.Now().UTC()
			if at != "" {
				timestamp, err = time.Parse(time.RFC3339, at)
				if err != nil {
					return WrapExitError(ExitCommandError, "invalid timestamp", err)
				}
			}
			if msgID == "" {
				msgID = uuid.NewString()
			}
			rt, err := openRuntime(opts.RuntimeDir)
			if err != nil {
				return err
			}
			msg := domain.StatusMessage{
				MessageID: msgID,
				Seq:       seq,
				Code:      statusCode,
				Key: domain.MatchKey{
					ISIN:       isin,
					Account:    account,
					SettleDate: date,
				},
				Quantity: qty,
				At:       timestamp,
			}
			if err := feed.AppendMarket(rt, msg); err != nil {
				return WrapExitError(ExitCommandError, "failed to append market line", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote market update: %s\n", feed.FormatMarketLine(msg))
			return nil
		},
	}

	cmd.Flags().StringVar(&msgID, "msg-id", "", "message id (defaults to a random UUID)")
	cmd.Flags().Int64Var(&seq, "seq", 0, "per-message sequence number")
	cmd.Flags().StringVar(&code, "code", "", "status code (ACK|MATCHED|PARTIAL_SETTLED|SETTLED)")
	cmd.Flags().StringVar(&isin, "isin", "", "instrument ISIN")
	cmd.Flags().StringVar(&account, "account", "", "settlement account")
	cmd.Flags().StringVar(&settleDate, "settle-date", "", "settlement date (YYYY-MM-DD)")
	cmd.Flags().Int64Var(&qty, "qty", 0, "message quantity")
	cmd.Flags().StringVar(&at, "at", "", "message timestamp (RFC 3339; defaults to now)")
	for _, flag := range []string{"seq", "code", "isin", "account", "settle-date", "qty"} {
		_ = cmd.MarkFlagRequired(flag)
	}
	return cmd
}

// openRuntime resolves the runtime directory from flag or config and
// ensures the queue files exist.
func openRuntime(flagDir string) (*feed.Runtime, error) {
	dir := flagDir
	if dir == "" {
		cfg, err := config.Load()
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to load configuration", err)
		}
		dir = cfg.RuntimeDir
	}
	rt, err := feed.NewRuntime(dir)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to initialize runtime directory", err)
	}
	return rt, nil
}
