package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var (
	feedLimit int
	feedJSON  bool
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "List the newest research papers",
	Long: `Lists the newest long-form events tagged as research on the configured
relays. Authors of papers published in the last 90 days are shown as
"Anonymous Researcher".`,
	Args: cobra.NoArgs,
	RunE: runFeed,
}

func init() {
	feedCmd.Flags().IntVarP(&feedLimit, "limit", "n", 20, "maximum number of papers")
	feedCmd.Flags().BoolVar(&feedJSON, "json", false, "output papers as JSON")
	rootCmd.AddCommand(feedCmd)
}

func runFeed(cmd *cobra.Command, _ []string) error {
	if paperService == nil {
		return errors.New("paper service not configured")
	}

	papers, err := paperService.Feed(commandContext(cmd), feedLimit)
	if err != nil {
		return userError(err)
	}

	if feedJSON {
		return printJSON(cmd, papers)
	}
	printPapers(cmd, papers)
	return nil
}
