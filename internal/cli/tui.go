package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/luochenhu/gh-issuelens/internal/github"
	"github.com/luochenhu/gh-issuelens/internal/tui"
)

func newTUICmd() *cobra.Command {
	var (
		repo       string
		maxResults int
		onlyClosed bool
	)

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Interactive issue browser",
		Long: `Open the interactive frontend: search, browse results, fetch details
with a progress bar, and stream AI analysis, all in one screen.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

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

			rememberRepo(cfg, cfgPath, owner, repoName)

			closed := onlyClosed || cfg.Search.OnlyClosedIssues
			return tui.Run(ctx, session, owner, repoName, maxResults, closed)
		},
	}

	cmd.Flags().StringVar(&repo, "repo", "", "target repository (owner/repo)")
	cmd.Flags().IntVar(&maxResults, "max", github.DefaultMaxResults, "maximum issues to fetch")
	cmd.Flags().BoolVar(&onlyClosed, "closed", false, "only closed issues")

	return cmd
}
