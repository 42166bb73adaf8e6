package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var (
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search research papers",
	Long: `Searches research papers on the configured relays.
Matches the query against titles, abstracts and keywords. Queries shorter
than three characters return no results.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if paperService == nil {
		return errors.New("paper service not configured")
	}

	results, err := paperService.Search(commandContext(cmd), query, searchLimit)
	if err != nil {
		return userError(err)
	}

	if searchJSON {
		return printJSON(cmd, results)
	}

	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}
	cmd.Println("Results:")
	cmd.Println()
	printPapers(cmd, results)
	return nil
}
