package cli

import (
	"errors"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/scholarstr/internal/timestamp"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show zap and comment statistics",
}

var statsZapsCmd = &cobra.Command{
	Use:   "zaps <event-id>",
	Short: "Show Lightning zaps received by a paper",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatsZaps,
}

var statsCommentsCmd = &cobra.Command{
	Use:   "comments <event-id>",
	Short: "Count thread comments on a paper",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatsComments,
}

var statsUserCmd = &cobra.Command{
	Use:   "user <pubkey>",
	Short: "Count zaps sent and received by a user",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatsUser,
}

func init() {
	statsCmd.PersistentFlags().BoolVar(&statsJSON, "json", false, "output as JSON")
	statsCmd.AddCommand(statsZapsCmd)
	statsCmd.AddCommand(statsCommentsCmd)
	statsCmd.AddCommand(statsUserCmd)
	rootCmd.AddCommand(statsCmd)
}

func runStatsZaps(cmd *cobra.Command, args []string) error {
	if statsService == nil {
		return errors.New("stats service not configured")
	}

	zs, err := statsService.ZapStats(commandContext(cmd), args[0])
	if err != nil {
		return userError(err)
	}
	if statsJSON {
		return printJSON(cmd, zs)
	}

	cmd.Printf("Zaps:           %d\n", zs.TotalZaps)
	cmd.Printf("Total:          %s sats\n", humanize.Commaf(zs.TotalSats))
	cmd.Printf("Average:        %s sats\n", humanize.Comma(zs.AverageSats))
	cmd.Printf("Unique zappers: %d\n", zs.UniqueZappers)

	if len(zs.Receipts) > 0 {
		cmd.Println()
		cmd.Println("Recent:")
		at := now()
		for _, r := range zs.Receipts {
			cmd.Printf("  %12s sats  %s  %s\n",
				humanize.Commaf(r.Amount), timestamp.FormatRelative(r.CreatedAt, at), r.Zapper)
		}
	}
	return nil
}

func runStatsComments(cmd *cobra.Command, args []string) error {
	if statsService == nil {
		return errors.New("stats service not configured")
	}

	n, err := statsService.CommentCount(commandContext(cmd), args[0])
	if err != nil {
		return userError(err)
	}
	if statsJSON {
		return printJSON(cmd, map[string]any{"event_id": args[0], "count": n})
	}

	cmd.Printf("%s comments\n", humanize.Comma(int64(n)))
	return nil
}

func runStatsUser(cmd *cobra.Command, args []string) error {
	if statsService == nil {
		return errors.New("stats service not configured")
	}

	us, err := statsService.UserZapStats(commandContext(cmd), args[0])
	if err != nil {
		return userError(err)
	}
	if statsJSON {
		return printJSON(cmd, us)
	}

	cmd.Printf("Zaps sent:     %d\n", us.SentCount)
	cmd.Printf("Zaps received: %d\n", us.ReceivedCount)
	return nil
}
