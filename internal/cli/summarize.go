package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/luochenhu/gh-issuelens/internal/bus"
	"github.com/luochenhu/gh-issuelens/internal/config"
	"github.com/luochenhu/gh-issuelens/internal/coordinator"
	"github.com/luochenhu/gh-issuelens/internal/llm"
	"github.com/luochenhu/gh-issuelens/internal/overlay"
)

func newSummarizeCmd() *cobra.Command {
	var width int

	cmd := &cobra.Command{
		Use:   "summarize [issue-url]",
		Short: "Summarize a single issue from its page URL",
		Long: `Fetch one issue with its comments and stream an LLM summary into an
overlay panel. The summary grows in place as fragments arrive, the way
it would over the issue page itself.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			logger := newLogger()

			out := bus.New(16, logger)
			replies := bus.New(4, logger)

			presenter := overlay.New(os.Stdout, width, replies)
			done := make(chan struct{})
			go func() {
				defer close(done)
				presenter.Run(out.Messages())
			}()

			loadCfg := func() (*config.Config, error) {
				cfg, _, err := loadConfig()
				return cfg, err
			}
			summarizer := llm.NewClient(settingsSource())

			coord := coordinator.New(loadCfg, summarizer, out, replies, logger)
			coord.Summarize(ctx, args[0])

			out.Close()
			<-done
			replies.Close()

			fmt.Println()
			return nil
		},
	}

	cmd.Flags().IntVar(&width, "width", 80, "overlay panel width")

	return cmd
}
