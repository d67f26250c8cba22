package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/luochenhu/gh-issuelens/internal/github"
	"github.com/luochenhu/gh-issuelens/pkg/models"
)

func newSearchCmd() *cobra.Command {
	var (
		repo       string
		maxResults int
		onlyClosed bool
		details    bool
		exportPath string
	)

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search a repository's issues",
		Long: `Search issues in a repository. An empty query lists all issues.
With --details each result is enriched with labels, comments and
reactions, in batches with a cooldown between them.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			query := ""
			if len(args) == 1 {
				query = args[0]
			}

			cfg, cfgPath, err := loadConfig()
			if err != nil {
				return err
			}

			owner, repoName, err := resolveRepo(cfg, repo)
			if err != nil {
				return err
			}

			session, err := newSession(cfg)
			if err != nil {
				return err
			}

			closed := onlyClosed || cfg.Search.OnlyClosedIssues

			results, err := session.Search(ctx, owner, repoName, query, maxResults, closed)
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}

			rememberRepo(cfg, cfgPath, owner, repoName)

			if len(results) == 0 {
				fmt.Println("No issues found")
				return nil
			}

			if details {
				fmt.Printf("Fetching details for %d issues...\n", len(results))
				err := session.FetchDetails(ctx, owner, repoName, func(percent int) {
					fmt.Printf("\rProgress: %3d%%", percent)
				})
				fmt.Println()
				if err != nil {
					return fmt.Errorf("detail fetch failed: %w", err)
				}
			}

			printResults(os.Stdout, results)

			if exportPath != "" {
				if err := session.ExportJSON(exportPath); err != nil {
					return err
				}
				fmt.Printf("\nExported %d issues to %s\n", len(results), exportPath)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&repo, "repo", "", "target repository (owner/repo)")
	cmd.Flags().IntVar(&maxResults, "max", github.DefaultMaxResults, "maximum issues to fetch")
	cmd.Flags().BoolVar(&onlyClosed, "closed", false, "only closed issues")
	cmd.Flags().BoolVar(&details, "details", false, "fetch full detail for each issue")
	cmd.Flags().StringVar(&exportPath, "export", "", "write results to a JSON file")

	return cmd
}

func printResults(w io.Writer, results models.ResultSet) {
	fmt.Fprintf(w, "Found %d issues:\n\n", len(results))
	for i, r := range results {
		status := "Open"
		if r.State == "closed" {
			status = "Closed"
		}
		detail := ""
		if r.HasDetail {
			detail = fmt.Sprintf(" | Comments: %d", len(r.UserComments))
		}
		number, _ := r.Number()
		fmt.Fprintf(w, "%d. #%d - %s\n", i+1, number, r.Title)
		fmt.Fprintf(w, "   Status: %s%s\n", status, detail)
		fmt.Fprintf(w, "   %s\n\n", r.HTMLURL)
	}
}
