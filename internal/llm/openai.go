package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/luochenhu/gh-issuelens/pkg/models"
)

const completionTemperature = 0.7

// OpenAIProvider implements Provider against any OpenAI-compatible chat
// completion API: OpenAI itself, DeepSeek, or a custom gateway.
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

// NewOpenAIProvider creates a provider for the given endpoint. An empty
// apiURL falls back to the official OpenAI base URL.
func NewOpenAIProvider(apiKey, apiURL, model string) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("LLM API key is required")
	}

	cfg := openai.DefaultConfig(apiKey)
	if apiURL != "" {
		cfg.BaseURL = apiURL
	}

	if model == "" {
		model = "gpt-4"
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}, nil
}

func chatMessages(system, prompt string) []openai.ChatCompletionMessage {
	return []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: system},
		{Role: openai.ChatMessageRoleUser, Content: prompt},
	}
}

// Complete performs a buffered completion; TokensUsed comes from the
// provider's usage metadata when reported.
func (p *OpenAIProvider) Complete(ctx context.Context, system, prompt string) (*models.LLMResponse, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    chatMessages(system, prompt),
		Temperature: completionTemperature,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no completion choices returned")
	}

	return &models.LLMResponse{
		Content:    resp.Choices[0].Message.Content,
		TokensUsed: resp.Usage.TotalTokens,
	}, nil
}

// CompleteStream consumes the delta stream, forwarding each non-empty
// fragment to onChunk in arrival order.
func (p *OpenAIProvider) CompleteStream(ctx context.Context, system, prompt string, onChunk StreamFunc) (*models.LLMResponse, error) {
	stream, err := p.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    chatMessages(system, prompt),
		Temperature: completionTemperature,
		Stream:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open chat stream: %w", err)
	}
	defer stream.Close()

	var builder strings.Builder
	for {
		response, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read chat stream: %w", err)
		}
		if len(response.Choices) == 0 {
			continue
		}

		chunk := response.Choices[0].Delta.Content
		if chunk == "" {
			continue
		}

		builder.WriteString(chunk)
		if onChunk != nil {
			onChunk(chunk)
		}
	}

	return &models.LLMResponse{
		Content:    builder.String(),
		TokensUsed: 0,
	}, nil
}

// Close releases resources
func (p *OpenAIProvider) Close() error {
	return nil
}
