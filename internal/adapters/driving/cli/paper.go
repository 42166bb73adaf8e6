package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var (
	paperLimit   int
	paperJSON    bool
	paperContent bool
)

var paperCmd = &cobra.Command{
	Use:   "paper",
	Short: "Read research papers",
}

var paperGetCmd = &cobra.Command{
	Use:   "get <pubkey> <slug>",
	Short: "Show one paper",
	Long:  `Shows the metadata and abstract of the paper addressed by its author's pubkey and slug.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runPaperGet,
}

var paperTopicCmd = &cobra.Command{
	Use:   "topic <topic>",
	Short: "List papers tagged with a topic",
	Args:  cobra.ExactArgs(1),
	RunE:  runPaperTopic,
}

func init() {
	paperGetCmd.Flags().BoolVar(&paperContent, "content", false, "print the full markdown body")
	paperGetCmd.Flags().BoolVar(&paperJSON, "json", false, "output the paper as JSON")
	paperTopicCmd.Flags().IntVarP(&paperLimit, "limit", "n", 20, "maximum number of papers")
	paperTopicCmd.Flags().BoolVar(&paperJSON, "json", false, "output papers as JSON")

	paperCmd.AddCommand(paperGetCmd)
	paperCmd.AddCommand(paperTopicCmd)
	rootCmd.AddCommand(paperCmd)
}

func runPaperGet(cmd *cobra.Command, args []string) error {
	if paperService == nil {
		return errors.New("paper service not configured")
	}

	p, err := paperService.Get(commandContext(cmd), args[0], args[1])
	if err != nil {
		return userError(err)
	}

	if paperJSON {
		return printJSON(cmd, p)
	}
	printPaper(cmd, p)
	if paperContent {
		cmd.Println(p.Content)
	}
	return nil
}

func runPaperTopic(cmd *cobra.Command, args []string) error {
	if paperService == nil {
		return errors.New("paper service not configured")
	}

	papers, err := paperService.ByTopic(commandContext(cmd), args[0], paperLimit)
	if err != nil {
		return userError(err)
	}

	if paperJSON {
		return printJSON(cmd, papers)
	}
	printPapers(cmd, papers)
	return nil
}
