package llm

import (
	"context"
	"fmt"

	"github.com/m4xw311/gpterm/errors"
	"github.com/m4xw311/gpterm/transcript"
)

// LLMClient is the interface for interacting with a Large Language Model.
// Chat receives the whole transcript and returns the next assistant turn.
// Provider failures come back as *errors.CompletionError.
type LLMClient interface {
	Chat(ctx context.Context, turns []transcript.Turn) (*transcript.Turn, error)
}

// Options carries the provider-independent request settings.
type Options struct {
	Model     string
	MaxTokens int64
}

// NewClient builds the client for the named provider.
func NewClient(ctx context.Context, provider string, opts Options) (LLMClient, error) {
	switch provider {
	case "openai", "":
		return NewOpenAILLMClient(ctx, opts)
	case "anthropic":
		return NewAnthropicLLMClient(ctx, opts)
	case "gemini":
		return NewGeminiLLMClient(ctx, opts)
	case "bedrock":
		return NewBedrockLLMClient(ctx, opts)
	case "mock":
		return &MockLLMClient{}, nil
	}
	return nil, errors.New("unknown llm provider %q", provider)
}

// MockLLMClient answers without any network access. It parrots the last
// turn back, which is enough to exercise the session offline.
type MockLLMClient struct{}

func (m *MockLLMClient) Chat(ctx context.Context, turns []transcript.Turn) (*transcript.Turn, error) {
	if len(turns) == 0 {
		return nil, &errors.CompletionError{Provider: "mock", Err: errors.New("empty conversation")}
	}
	last := turns[len(turns)-1].Content
	return &transcript.Turn{
		Role:    transcript.RoleAssistant,
		Content: fmt.Sprintf("I am a mock LLM. You said: '%s'.", last),
	}, nil
}
