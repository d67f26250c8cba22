package llm

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"testing"

	"github.com/luochenhu/gh-issuelens/pkg/models"
)

// fakeProvider replays fixed fragments or fails.
type fakeProvider struct {
	fragments []string
	err       error
	usage     int
	closed    bool
}

func (f *fakeProvider) Complete(ctx context.Context, system, prompt string) (*models.LLMResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.LLMResponse{
		Content:    strings.Join(f.fragments, ""),
		TokensUsed: f.usage,
	}, nil
}

func (f *fakeProvider) CompleteStream(ctx context.Context, system, prompt string, onChunk StreamFunc) (*models.LLMResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	var builder strings.Builder
	for _, frag := range f.fragments {
		builder.WriteString(frag)
		if onChunk != nil {
			onChunk(frag)
		}
	}
	return &models.LLMResponse{Content: builder.String(), TokensUsed: 0}, nil
}

func (f *fakeProvider) Close() error {
	f.closed = true
	return nil
}

func newFakeClient(settings Settings, provider Provider) *Client {
	return &Client{
		settings: func() (Settings, error) { return settings, nil },
		factory:  func(Settings) (Provider, error) { return provider, nil },
	}
}

func TestGenerate_StreamingConcatenation(t *testing.T) {
	provider := &fakeProvider{fragments: []string{"Hel", "lo, ", "world"}}
	client := newFakeClient(Settings{APIKey: "key"}, provider)

	var chunks []string
	resp := client.Generate(context.Background(), "sys", "prompt", func(chunk string) {
		chunks = append(chunks, chunk)
	})

	if resp.Content != "Hello, world" {
		t.Errorf("Content = %q, want %q", resp.Content, "Hello, world")
	}
	if resp.TokensUsed != 0 {
		t.Errorf("TokensUsed = %d, want 0 in streaming mode", resp.TokensUsed)
	}
	if len(chunks) != 3 {
		t.Fatalf("onChunk called %d times, want 3", len(chunks))
	}
	for i, want := range []string{"Hel", "lo, ", "world"} {
		if chunks[i] != want {
			t.Errorf("chunks[%d] = %q, want %q", i, chunks[i], want)
		}
	}
	if !provider.closed {
		t.Error("provider was not closed")
	}
}

func TestGenerate_BufferedUsage(t *testing.T) {
	provider := &fakeProvider{fragments: []string{"answer"}, usage: 321}
	client := newFakeClient(Settings{APIKey: "key"}, provider)

	resp := client.Generate(context.Background(), "sys", "prompt", nil)

	if resp.Content != "answer" {
		t.Errorf("Content = %q, want answer", resp.Content)
	}
	if resp.TokensUsed != 321 {
		t.Errorf("TokensUsed = %d, want 321 (provider-reported)", resp.TokensUsed)
	}
}

var errorPattern = regexp.MustCompile(`^## Error\n.+\n\n## Suggestion\n.+`)

func TestGenerate_MissingKeySubstitution(t *testing.T) {
	// No API key: fail fast, no provider is ever constructed.
	client := &Client{
		settings: func() (Settings, error) { return Settings{}, nil },
		factory: func(Settings) (Provider, error) {
			t.Fatal("factory must not be called without an API key")
			return nil, nil
		},
	}

	var chunks []string
	resp := client.Generate(context.Background(), "sys", "prompt", func(chunk string) {
		chunks = append(chunks, chunk)
	})

	if !errorPattern.MatchString(resp.Content) {
		t.Errorf("Content = %q, want '## Error ... ## Suggestion ...' shape", resp.Content)
	}
	if resp.TokensUsed != 0 {
		t.Errorf("TokensUsed = %d, want 0", resp.TokensUsed)
	}
	// The substituted message flows through the normal streaming channel.
	if len(chunks) != 1 || chunks[0] != resp.Content {
		t.Errorf("chunks = %v, want the full substituted message once", chunks)
	}
}

func TestGenerate_ProviderFailureSubstitution(t *testing.T) {
	provider := &fakeProvider{err: fmt.Errorf("429 rate limit exceeded")}
	client := newFakeClient(Settings{APIKey: "key"}, provider)

	// Buffered-mode failures follow the same substitution, not an error.
	resp := client.Generate(context.Background(), "sys", "prompt", nil)

	if !strings.Contains(resp.Content, "429 rate limit exceeded") {
		t.Errorf("Content = %q, want the upstream message embedded", resp.Content)
	}
	if !errorPattern.MatchString(resp.Content) {
		t.Errorf("Content = %q, want the two-section markdown shape", resp.Content)
	}
	if resp.TokensUsed != 0 {
		t.Errorf("TokensUsed = %d, want 0", resp.TokensUsed)
	}
}

func TestAnalyze_PromptShape(t *testing.T) {
	system := AnalysisSystemPrompt(`[{"title":"t"}]`)

	if !strings.Contains(system, "## User Data") {
		t.Error("analysis prompt missing data section")
	}
	if !strings.Contains(system, `[{"title":"t"}]`) {
		t.Error("analysis prompt does not embed the issue data")
	}
	if !strings.Contains(system, "do not fabricate information") {
		t.Error("analysis prompt missing grounding instruction")
	}
	if !strings.Contains(system, "same language as the user's input") {
		t.Error("analysis prompt missing language instruction")
	}
}

func TestSummarize_LanguageFromSettings(t *testing.T) {
	var gotPrompt string
	provider := &fakeProvider{fragments: []string{"ok"}}
	client := &Client{
		settings: func() (Settings, error) {
			return Settings{APIKey: "key", Language: "ja"}, nil
		},
		factory: func(Settings) (Provider, error) {
			return providerSpy{provider, &gotPrompt}, nil
		},
	}

	client.Summarize(context.Background(), `{"title":"t"}`, nil)

	if !strings.Contains(gotPrompt, "Response me by: ja") {
		t.Errorf("prompt = %q, want configured language embedded", gotPrompt)
	}
	if !strings.Contains(gotPrompt, "## GitHub Issue Data") {
		t.Errorf("prompt = %q, want issue data section", gotPrompt)
	}
}

// providerSpy records the user prompt passed through.
type providerSpy struct {
	Provider
	prompt *string
}

func (s providerSpy) Complete(ctx context.Context, system, prompt string) (*models.LLMResponse, error) {
	*s.prompt = prompt
	return s.Provider.Complete(ctx, system, prompt)
}
