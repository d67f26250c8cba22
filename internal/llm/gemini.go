package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/luochenhu/gh-issuelens/pkg/models"
)

// GeminiProvider implements Provider using Google's Gemini API
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider creates a new Gemini chat provider
func NewGeminiProvider(apiKey, model string) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("LLM API key is required")
	}

	ctx := context.Background()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	if model == "" {
		model = "gemini-1.5-flash"
	}

	return &GeminiProvider{
		client: client,
		model:  model,
	}, nil
}

func geminiRequest(system, prompt string) ([]*genai.Content, *genai.GenerateContentConfig) {
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(completionTemperature)),
	}
	if system != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}

	return contents, config
}

// Complete generates a buffered completion. Gemini reports no
// OpenAI-style usage total, so TokensUsed stays 0.
func (p *GeminiProvider) Complete(ctx context.Context, system, prompt string) (*models.LLMResponse, error) {
	contents, config := geminiRequest(system, prompt)

	result, err := p.client.Models.GenerateContent(ctx, p.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no content generated")
	}

	return &models.LLMResponse{
		Content:    result.Candidates[0].Content.Parts[0].Text,
		TokensUsed: 0,
	}, nil
}

// CompleteStream streams generated fragments to onChunk in arrival order.
func (p *GeminiProvider) CompleteStream(ctx context.Context, system, prompt string, onChunk StreamFunc) (*models.LLMResponse, error) {
	contents, config := geminiRequest(system, prompt)

	var builder strings.Builder
	for result, err := range p.client.Models.GenerateContentStream(ctx, p.model, contents, config) {
		if err != nil {
			return nil, fmt.Errorf("failed to read content stream: %w", err)
		}
		if len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
			continue
		}
		for _, part := range result.Candidates[0].Content.Parts {
			if part.Text == "" {
				continue
			}
			builder.WriteString(part.Text)
			if onChunk != nil {
				onChunk(part.Text)
			}
		}
	}

	return &models.LLMResponse{
		Content:    builder.String(),
		TokensUsed: 0,
	}, nil
}

// Close releases resources
func (p *GeminiProvider) Close() error {
	return nil
}
