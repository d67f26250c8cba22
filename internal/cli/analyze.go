package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/luochenhu/gh-issuelens/internal/github"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		repo       string
		query      string
		maxResults int
		onlyClosed bool
		details    bool
	)

	cmd := &cobra.Command{
		Use:   "analyze [question]",
		Short: "Ask the LLM a question about matching issues",
		Long: `Search issues and stream an LLM answer to the given question over
them. Failures from the LLM are rendered as an error section in the
output instead of aborting.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			question := args[0]

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
			fmt.Printf("Analyzing %d issues...\n", len(results))

			rememberRepo(cfg, cfgPath, owner, repoName)

			if details {
				err := session.FetchDetails(ctx, owner, repoName, func(percent int) {
					fmt.Printf("\rFetching details: %3d%%", percent)
				})
				fmt.Println()
				if err != nil {
					return fmt.Errorf("detail fetch failed: %w", err)
				}
			}

			fmt.Println()
			resp, err := session.Analyze(ctx, question, func(chunk string) {
				fmt.Print(chunk)
			})
			if err != nil {
				return err
			}
			fmt.Println()

			if resp.TokensUsed > 0 {
				fmt.Printf("\nTokens used: %d\n", resp.TokensUsed)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&repo, "repo", "", "target repository (owner/repo)")
	cmd.Flags().StringVar(&query, "query", "", "search query to select issues")
	cmd.Flags().IntVar(&maxResults, "max", github.DefaultMaxResults, "maximum issues to fetch")
	cmd.Flags().BoolVar(&onlyClosed, "closed", false, "only closed issues")
	cmd.Flags().BoolVar(&details, "details", false, "fetch full detail before analyzing")

	return cmd
}
