package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/scholarstr/internal/core/domain"
	"github.com/custodia-labs/scholarstr/internal/timestamp"
)

// abstractPreview is the rune length of abstracts in listings.
const abstractPreview = 160

func publishedLabel(p *domain.Paper, at time.Time) string {
	if !p.PublishedAtValid {
		return timestamp.InvalidDate
	}
	unix := p.PublishedAt.Unix()
	return fmt.Sprintf("%s (%s)",
		timestamp.FormatDate(unix, timestamp.DefaultLayout),
		timestamp.FormatRelative(unix, at))
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func printPapers(cmd *cobra.Command, papers []*domain.Paper) {
	if len(papers) == 0 {
		cmd.Println("No papers found.")
		return
	}

	at := now()
	for i, p := range papers {
		cmd.Printf("  [%d] %s\n", i+1, p.Title)
		cmd.Printf("      by %s, %s\n", p.DisplayAuthor(at), publishedLabel(p, at))
		if len(p.Topics) > 0 {
			cmd.Printf("      topics: %s\n", strings.Join(p.Topics, ", "))
		}
		if p.Abstract != "" {
			cmd.Printf("      %s\n", truncate(p.Abstract, abstractPreview))
		}
		cmd.Printf("      %s/%s\n", p.Author, p.Slug)
		cmd.Println()
	}
}

func printPaper(cmd *cobra.Command, p *domain.Paper) {
	at := now()
	win := p.Anonymity(at)

	cmd.Println(p.Title)
	cmd.Println(strings.Repeat("=", len([]rune(p.Title))))
	cmd.Println()
	cmd.Printf("Authors:     %s\n", p.DisplayAuthor(at))
	if win.Anonymous {
		cmd.Printf("Anonymity:   until %s\n", timestamp.FormatDate(win.EndsAt.Unix(), timestamp.DefaultLayout))
	}
	cmd.Printf("Published:   %s\n", publishedLabel(p, at))
	if len(p.Topics) > 0 {
		cmd.Printf("Topics:      %s\n", strings.Join(p.Topics, ", "))
	}
	if len(p.Keywords) > 0 {
		cmd.Printf("Keywords:    %s\n", strings.Join(p.Keywords, ", "))
	}
	if p.Institution != "" {
		cmd.Printf("Institution: %s\n", p.Institution)
	}
	if p.DOI != "" {
		cmd.Printf("DOI:         %s\n", p.DOI)
	}
	if p.Funding != "" {
		cmd.Printf("Funding:     %s\n", p.Funding)
	}
	cmd.Printf("Zap limit:   %d sats\n", p.ZapLimit)
	cmd.Printf("Event:       %s\n", p.ID)
	cmd.Println()
	if p.Abstract != "" {
		cmd.Println("Abstract")
		cmd.Println("--------")
		cmd.Println(p.Abstract)
		cmd.Println()
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
