package llm

import (
	"context"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/m4xw311/gpterm/errors"
	"github.com/m4xw311/gpterm/transcript"
)

const defaultMaxTokens = 4096

// AnthropicLLMClient is a client for the Anthropic API.
type AnthropicLLMClient struct {
	client    *anthropic.Client
	model     string
	maxTokens int64
}

// NewAnthropicLLMClient creates a new AnthropicLLMClient.
// It requires the ANTHROPIC_API_KEY environment variable to be set.
func NewAnthropicLLMClient(ctx context.Context, opts Options) (*AnthropicLLMClient, error) {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return nil, errors.New("ANTHROPIC_API_KEY environment variable not set")
	}

	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
	)

	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return &AnthropicLLMClient{
		client:    &client,
		model:     opts.Model,
		maxTokens: maxTokens,
	}, nil
}

// Chat sends a chat request to the Anthropic API.
func (a *AnthropicLLMClient) Chat(ctx context.Context, turns []transcript.Turn) (*transcript.Turn, error) {
	messages, systemPrompt := convertTurnsToAnthropicMessages(turns)

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: a.maxTokens,
		Messages:  messages,
	}
	if systemPrompt != "" {
		params.System = []anthropic.TextBlockParam{
			{Text: systemPrompt},
		}
	}

	resp, err := a.client.Messages.New(ctx, params)
	if err != nil {
		return nil, completionError("anthropic", err, anthropicRateLimited)
	}

	return processAnthropicResponse(resp), nil
}

// convertTurnsToAnthropicMessages splits the system turns out of the
// transcript, since Anthropic takes the system prompt as a separate field.
func convertTurnsToAnthropicMessages(turns []transcript.Turn) ([]anthropic.MessageParam, string) {
	var messages []anthropic.MessageParam
	var system []string

	for _, turn := range turns {
		switch turn.Role {
		case transcript.RoleUser:
			messages = append(messages, anthropic.NewUserMessage(anthropic.NewTextBlock(turn.Content)))
		case transcript.RoleAssistant:
			if turn.Content == "" {
				continue
			}
			messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(turn.Content)))
		case transcript.RoleSystem:
			system = append(system, turn.Content)
		}
	}

	return messages, strings.Join(system, "\n\n")
}

// processAnthropicResponse joins the text blocks of a response into one turn.
func processAnthropicResponse(resp *anthropic.Message) *transcript.Turn {
	var content strings.Builder
	for _, block := range resp.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			content.WriteString(text.Text)
		}
	}
	return &transcript.Turn{Role: transcript.RoleAssistant, Content: content.String()}
}
