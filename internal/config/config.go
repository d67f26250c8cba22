package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the full persisted configuration. Issue data is never
// persisted; only these settings survive between runs.
type Config struct {
	GitHubToken string       `yaml:"github_token"`
	Language    string       `yaml:"language"`
	LLM         LLMConfig    `yaml:"llm"`
	Search      SearchConfig `yaml:"search"`
	CurrentRepo string       `yaml:"current_repo,omitempty"`
}

// LLMConfig contains the active LLM provider settings. One active
// configuration at a time; the only per-request override is model
// selection from the provider's model list.
type LLMConfig struct {
	Provider     string   `yaml:"provider"`
	APIKey       string   `yaml:"api_key"`
	APIURL       string   `yaml:"api_url"`
	Model        string   `yaml:"model"`
	CustomModels []string `yaml:"custom_models,omitempty"`
}

// SearchConfig contains issue search settings.
type SearchConfig struct {
	OnlyClosedIssues bool `yaml:"only_closed_issues"`
}

// Load reads and parses config from the given path. A missing file yields
// a default config rather than an error so that first runs work before
// anything has been saved.
func Load(path string) (*Config, error) {
	// Secrets may live in a .env file next to the working directory.
	_ = godotenv.Load()

	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	expandConfigEnvVars(&cfg)
	applyDefaults(&cfg)

	return &cfg, nil
}

// Save writes the config back to the given path, creating parent
// directories as needed. Last write wins; concurrent writers are not
// defended against.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// FindConfigPath looks for config in common locations, falling back to the
// default path so that Save always has a target.
func FindConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}

	paths := []string{
		"issuelens.yaml",
		"issuelens.yml",
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return DefaultConfigPath()
}

// DefaultConfigPath returns the per-user config location.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "issuelens.yaml"
	}
	return filepath.Join(home, ".config", "gh-issuelens", "config.yaml")
}

// applyDefaults sets default values for unset fields
func applyDefaults(cfg *Config) {
	if cfg.Language == "" {
		cfg.Language = DefaultLanguage
	}
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = DefaultProvider
	}
	if cfg.LLM.APIURL == "" {
		if p, ok := LookupProvider(cfg.LLM.Provider); ok {
			cfg.LLM.APIURL = p.APIURL
		}
	}
	if cfg.LLM.Model == "" {
		if p, ok := LookupProvider(cfg.LLM.Provider); ok && len(p.Models) > 0 {
			cfg.LLM.Model = p.Models[0]
		}
	}
}
