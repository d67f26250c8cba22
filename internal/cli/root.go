package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
	version = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "gh-issuelens",
	Short: "GitHub issue search and AI analysis",
	Long: `gh-issuelens searches a repository's issues, enriches them with full
detail (labels, comments, reactions) and answers questions about them
using an LLM with streamed output.

Supports DeepSeek, OpenAI, Gemini and any OpenAI-compatible endpoint.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging")

	rootCmd.AddCommand(newSearchCmd())
	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newSummarizeCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newTUICmd())
	rootCmd.AddCommand(newVersionCmd())
}

// newLogger builds the process logger. Debug level only with --verbose so
// normal runs keep stdout clean for command output.
func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("gh-issuelens version %s\n", version)
		},
	}
}
