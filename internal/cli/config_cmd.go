package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/luochenhu/gh-issuelens/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management commands",
	}

	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigPathCmd())
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := loadConfig()
			if err != nil {
				return err
			}

			fmt.Printf("Config file: %s\n\n", path)
			fmt.Printf("  github-token: %s\n", redactSecret(cfg.GitHubToken))
			fmt.Printf("  language:     %s\n", cfg.Language)
			fmt.Printf("  repo:         %s\n", valueOr(cfg.CurrentRepo, "(not set)"))
			fmt.Printf("  provider:     %s\n", cfg.LLM.Provider)
			fmt.Printf("  api-url:      %s\n", cfg.LLM.APIURL)
			fmt.Printf("  api-key:      %s\n", redactSecret(cfg.LLM.APIKey))
			fmt.Printf("  model:        %s\n", cfg.LLM.Model)
			fmt.Printf("\nModels for %s: %s\n", cfg.LLM.Provider, strings.Join(config.ModelsFor(cfg), ", "))
			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set [key] [value]",
		Short: "Set a configuration value",
		Long: `Set one configuration value. Keys: github-token, language, repo,
provider, api-url, api-key, model.

Changing the provider resets api-url and model to the provider's
defaults unless they are set explicitly afterwards.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]

			path := config.FindConfigPath(cfgFile)
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}

			switch key {
			case "github-token":
				cfg.GitHubToken = value
			case "language":
				if !config.IsSupportedLanguage(value) {
					return fmt.Errorf("unsupported language %q; supported: %s", value, supportedLanguages())
				}
				cfg.Language = value
			case "repo":
				cfg.CurrentRepo = value
			case "provider":
				p, ok := config.LookupProvider(value)
				if !ok {
					return fmt.Errorf("unknown provider %q; known: %s", value, knownProviders())
				}
				cfg.LLM.Provider = p.Name
				cfg.LLM.APIURL = p.APIURL
				if len(p.Models) > 0 {
					cfg.LLM.Model = p.Models[0]
				}
			case "api-url":
				cfg.LLM.APIURL = value
			case "api-key":
				cfg.LLM.APIKey = value
			case "model":
				cfg.LLM.Model = value
			default:
				return fmt.Errorf("unknown config key %q", key)
			}

			if err := config.Save(path, cfg); err != nil {
				return err
			}

			fmt.Printf("Set %s in %s\n", key, path)
			return nil
		},
	}
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(config.FindConfigPath(cfgFile))
		},
	}
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func supportedLanguages() string {
	codes := make([]string, len(config.Languages))
	for i, l := range config.Languages {
		codes[i] = l.Value
	}
	return strings.Join(codes, ", ")
}

func knownProviders() string {
	names := make([]string, len(config.Providers))
	for i, p := range config.Providers {
		names[i] = p.Name
	}
	return strings.Join(names, ", ")
}
