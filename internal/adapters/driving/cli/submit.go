package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/scholarstr/internal/core/domain"
)

var (
	submitTitle       string
	submitAbstract    string
	submitContent     string
	submitContentFile string
	submitAuthors     string
	submitKeywords    string
	submitTopics      []string
	submitDOI         string
	submitFunding     string
	submitInstitution string
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Publish a research paper",
	Long: `Validates and publishes a research paper as a long-form event signed
with your key. The author list is hidden for 90 days after publication.

Requirements:
  --title        10 to 200 characters
  --abstract     100 to 2000 characters
  --content      at least 500 characters (or --content-file)
  --authors      required
  --keywords     required, comma separated
  --topic        at least one (repeatable)

Example:
  scholarstr submit --title "Entanglement in warm qubits" \
    --abstract "$(cat abstract.txt)" --content-file paper.md \
    --authors "A. Researcher, B. Researcher" --keywords "qubits, decoherence" \
    --topic physics --topic quantum-computing`,
	Args: cobra.NoArgs,
	RunE: runSubmit,
}

func init() {
	f := submitCmd.Flags()
	f.StringVar(&submitTitle, "title", "", "paper title")
	f.StringVar(&submitAbstract, "abstract", "", "paper abstract")
	f.StringVar(&submitContent, "content", "", "markdown body")
	f.StringVar(&submitContentFile, "content-file", "", "read the markdown body from a file")
	f.StringVar(&submitAuthors, "authors", "", "author list")
	f.StringVar(&submitKeywords, "keywords", "", "comma separated keywords")
	f.StringArrayVar(&submitTopics, "topic", nil, "research topic (repeatable)")
	f.StringVar(&submitDOI, "doi", "", "DOI, if any")
	f.StringVar(&submitFunding, "funding", "", "funding statement")
	f.StringVar(&submitInstitution, "institution", "", "institution")
	submitCmd.MarkFlagsMutuallyExclusive("content", "content-file")
	rootCmd.AddCommand(submitCmd)
}

func runSubmit(cmd *cobra.Command, _ []string) error {
	if paperService == nil {
		return errors.New("paper service not configured")
	}

	content := submitContent
	if submitContentFile != "" {
		data, err := os.ReadFile(submitContentFile)
		if err != nil {
			return fmt.Errorf("reading content file: %w", err)
		}
		content = string(data)
	}

	sub := domain.PaperSubmission{
		Title:       submitTitle,
		Abstract:    submitAbstract,
		Content:     content,
		Authors:     submitAuthors,
		Keywords:    submitKeywords,
		Topics:      submitTopics,
		DOI:         submitDOI,
		Funding:     submitFunding,
		Institution: submitInstitution,
	}

	p, err := paperService.Submit(commandContext(cmd), sub)
	if err != nil {
		var verrs domain.ValidationErrors
		if errors.As(err, &verrs) {
			cmd.Println("The paper was not published:")
			for _, fe := range verrs {
				cmd.Printf("  %-12s %s\n", fe.Field+":", fe.Message)
			}
			return errors.New("submission rejected")
		}
		return userError(err)
	}

	cmd.Println("Paper published.")
	cmd.Printf("  Event:   %s\n", p.ID)
	cmd.Printf("  Address: %s\n", p.Address())
	cmd.Printf("  Read it: scholarstr paper get %s %s\n", p.Author, p.Slug)
	return nil
}
