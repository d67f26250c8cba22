package cli

import (
	"fmt"
	"strings"

	"github.com/luochenhu/gh-issuelens/internal/app"
	"github.com/luochenhu/gh-issuelens/internal/config"
	"github.com/luochenhu/gh-issuelens/internal/enrich"
	"github.com/luochenhu/gh-issuelens/internal/github"
	"github.com/luochenhu/gh-issuelens/internal/llm"
)

// loadConfig resolves the config path and loads the configuration.
func loadConfig() (*config.Config, string, error) {
	path := config.FindConfigPath(cfgFile)
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, path, nil
}

// settingsSource re-reads the config on every LLM call so edits take
// effect without restarting.
func settingsSource() llm.SettingsSource {
	return func() (llm.Settings, error) {
		cfg, _, err := loadConfig()
		if err != nil {
			return llm.Settings{}, err
		}
		return llm.Settings{
			Provider: cfg.LLM.Provider,
			APIKey:   cfg.LLM.APIKey,
			APIURL:   cfg.LLM.APIURL,
			Model:    cfg.LLM.Model,
			Language: cfg.Language,
		}, nil
	}
}

// newSession wires the search, enrichment and LLM collaborators behind a
// single session.
func newSession(cfg *config.Config) (*app.Session, error) {
	client, err := github.NewClient(cfg.GitHubToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub client: %w", err)
	}

	return app.NewSession(client, enrich.New(client), llm.NewClient(settingsSource())), nil
}

// resolveRepo picks the target repository: explicit flag first, then the
// last repository remembered in the config.
func resolveRepo(cfg *config.Config, flag string) (owner, repo string, err error) {
	target := flag
	if target == "" {
		target = cfg.CurrentRepo
	}
	if target == "" {
		return "", "", fmt.Errorf("no repository given; use --repo owner/repo")
	}

	owner, repo, err = github.ParseRepo(target)
	if err != nil {
		return "", "", err
	}
	return owner, repo, nil
}

// rememberRepo persists the repository for later runs. Best effort; a
// failed save only costs the convenience default.
func rememberRepo(cfg *config.Config, path, owner, repo string) {
	full := owner + "/" + repo
	if cfg.CurrentRepo == full {
		return
	}
	cfg.CurrentRepo = full
	if err := config.Save(path, cfg); err != nil {
		fmt.Printf("warning: failed to remember repository: %v\n", err)
	}
}

// redactSecret masks all but a short prefix of a credential.
func redactSecret(s string) string {
	if s == "" {
		return "(not set)"
	}
	if len(s) <= 8 {
		return strings.Repeat("*", len(s))
	}
	return s[:4] + strings.Repeat("*", 8)
}
