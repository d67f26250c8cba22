// Package llm wraps chat completion against the configured provider in two
// modes, buffered and streaming, and converts every failure into in-band
// formatted content so call sites never need an error branch.
package llm

import (
	"context"

	"github.com/luochenhu/gh-issuelens/pkg/models"
)

// StreamFunc receives each incremental text fragment in arrival order,
// exactly once per fragment.
type StreamFunc func(chunk string)

// Provider defines the interface for LLM chat completion
type Provider interface {
	// Complete performs a single buffered round trip.
	Complete(ctx context.Context, system, prompt string) (*models.LLMResponse, error)
	// CompleteStream delivers fragments to onChunk as they arrive. The
	// returned content equals the concatenation of all delivered
	// fragments; TokensUsed is always 0 in streaming mode since the
	// provider reports no usage there.
	CompleteStream(ctx context.Context, system, prompt string, onChunk StreamFunc) (*models.LLMResponse, error)
	// Close releases resources
	Close() error
}

// Settings is the provider configuration resolved for a single call.
// Re-read from the persisted store before every request, never cached.
type Settings struct {
	Provider string
	APIKey   string
	APIURL   string
	Model    string
	Language string
}
