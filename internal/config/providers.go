package config

// Provider describes a selectable LLM provider: its default endpoint and
// the fixed model list offered for it. The Custom provider has neither;
// the user supplies both.
type Provider struct {
	Name   string
	APIURL string
	Models []string
}

// DefaultProvider is used when no provider has been configured.
const DefaultProvider = "DeepSeek"

// Providers is the built-in provider catalog, in display order.
var Providers = []Provider{
	{
		Name:   "DeepSeek",
		APIURL: "https://api.deepseek.com/v1",
		Models: []string{"deepseek-chat", "deepseek-reasoner"},
	},
	{
		Name:   "OpenAI",
		APIURL: "https://api.openai.com/v1",
		Models: []string{"gpt-4", "gpt-4-turbo", "gpt-3.5-turbo"},
	},
	{
		Name:   "Gemini",
		APIURL: "",
		Models: []string{"gemini-1.5-flash", "gemini-1.5-pro"},
	},
	{
		Name: "Custom",
	},
}

// LookupProvider finds a provider by name.
func LookupProvider(name string) (Provider, bool) {
	for _, p := range Providers {
		if p.Name == name {
			return p, true
		}
	}
	return Provider{}, false
}

// ModelsFor returns the selectable models for the configured provider,
// using the custom list when the Custom provider is active.
func ModelsFor(cfg *Config) []string {
	if cfg.LLM.Provider == "Custom" {
		return cfg.LLM.CustomModels
	}
	if p, ok := LookupProvider(cfg.LLM.Provider); ok {
		return p.Models
	}
	return nil
}
