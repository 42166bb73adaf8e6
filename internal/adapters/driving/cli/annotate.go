package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/scholarstr/internal/anchoring"
	"github.com/custodia-labs/scholarstr/internal/logger"
)

var (
	annotateStart   int
	annotateEnd     int
	annotateComment string
	annotateRender  bool
)

var annotateCmd = &cobra.Command{
	Use:   "annotate <pubkey> <slug>",
	Short: "Comment on a passage of a paper",
	Long: `Publishes a comment anchored to a passage of a paper.

The passage is the character range [start, end) of the paper's markdown
body, counted in Unicode characters. Anchored comments are regular comment
events carrying the selected text; other clients show them as thread
comments.`,
	Args: cobra.ExactArgs(2),
	RunE: runAnnotate,
}

func init() {
	annotateCmd.Flags().IntVar(&annotateStart, "start", 0, "first character of the passage")
	annotateCmd.Flags().IntVar(&annotateEnd, "end", 0, "character after the passage")
	annotateCmd.Flags().StringVarP(&annotateComment, "comment", "m", "", "comment text")
	annotateCmd.Flags().BoolVar(&annotateRender, "render", false, "print the body with the anchor highlighted")
	_ = annotateCmd.MarkFlagRequired("end")     //nolint:errcheck // flag exists
	_ = annotateCmd.MarkFlagRequired("comment") //nolint:errcheck // flag exists
	rootCmd.AddCommand(annotateCmd)
}

func runAnnotate(cmd *cobra.Command, args []string) error {
	if paperService == nil || annotationService == nil {
		return errors.New("annotation service not configured")
	}
	ctx := commandContext(cmd)

	p, err := paperService.Get(ctx, args[0], args[1])
	if err != nil {
		return userError(err)
	}

	region := anchoring.NewTextRegion(p.Content)
	session := annotationService.NewSession(p, region)
	session.Attach()
	defer session.Detach()

	if err := region.Select(annotateStart, annotateEnd); err != nil {
		return err
	}
	sel, ok := session.Selection()
	if !ok {
		return errors.New("selection was not captured")
	}
	logger.Debug("selected %s", sel)
	cmd.Printf("Passage: %q\n", sel.Text)

	comment, err := session.Submit(ctx, annotateComment)
	if err != nil {
		return userError(err)
	}

	cmd.Printf("Comment published (event %s).\n", comment.EventID)
	if annotateRender {
		cmd.Println()
		cmd.Println(session.Render())
	}
	return nil
}
