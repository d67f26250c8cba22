package llm

import (
	"context"
	"fmt"

	"github.com/luochenhu/gh-issuelens/pkg/models"
)

// errorSuggestion is the fixed actionable hint appended under every
// substituted error message.
const errorSuggestion = "Narrow the search scope and reduce the amount of data to analyze to prevent exceeding the maximum tokens tree of large models"

// SettingsSource returns the latest persisted provider settings. Called
// once per request so edits to the config take effect immediately.
type SettingsSource func() (Settings, error)

// ProviderFactory builds a Provider from resolved settings.
type ProviderFactory func(Settings) (Provider, error)

// Client resolves configuration per call and uniformly converts any
// failure (missing key, network, auth, malformed response) into a
// two-section markdown message delivered as if it were normal content,
// with TokensUsed zeroed. Callers never receive an error.
type Client struct {
	settings SettingsSource
	factory  ProviderFactory
}

// NewClient creates a completion client over the given settings source.
func NewClient(settings SettingsSource) *Client {
	return &Client{
		settings: settings,
		factory:  defaultProvider,
	}
}

// defaultProvider picks the implementation for the configured provider.
// Everything except Gemini speaks the OpenAI-compatible protocol.
func defaultProvider(s Settings) (Provider, error) {
	if s.Provider == "Gemini" {
		return NewGeminiProvider(s.APIKey, s.Model)
	}
	return NewOpenAIProvider(s.APIKey, s.APIURL, s.Model)
}

// Generate runs a completion. A nil onChunk selects buffered mode;
// otherwise fragments stream through onChunk and the returned content is
// their concatenation. On failure the substituted error message is
// delivered through the same channel the answer would have used.
func (c *Client) Generate(ctx context.Context, system, prompt string, onChunk StreamFunc) *models.LLMResponse {
	resp, err := c.generate(ctx, system, prompt, onChunk)
	if err != nil {
		content := FormatError(err)
		if onChunk != nil {
			onChunk(content)
		}
		return &models.LLMResponse{Content: content, TokensUsed: 0}
	}
	return resp
}

func (c *Client) generate(ctx context.Context, system, prompt string, onChunk StreamFunc) (*models.LLMResponse, error) {
	settings, err := c.settings()
	if err != nil {
		return nil, fmt.Errorf("failed to load LLM settings: %w", err)
	}

	// Fail fast before any network call.
	if settings.APIKey == "" {
		return nil, fmt.Errorf("LLM API key not configured")
	}

	provider, err := c.factory(settings)
	if err != nil {
		return nil, err
	}
	defer provider.Close()

	if onChunk != nil {
		return provider.CompleteStream(ctx, system, prompt, onChunk)
	}
	return provider.Complete(ctx, system, prompt)
}

// FormatError renders a failure as the markdown shown in place of an
// answer.
func FormatError(err error) string {
	return fmt.Sprintf("## Error\n%s\n\n## Suggestion\n%s", err.Error(), errorSuggestion)
}
