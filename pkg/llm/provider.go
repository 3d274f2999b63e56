// Package llm provides thin completion clients for OpenAI-compatible,
// Anthropic and Ollama endpoints. One prompt in, one completion out.
package llm

import (
	"context"
)

type Provider interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
