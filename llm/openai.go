package llm

import (
	"context"
	"os"

	"github.com/m4xw311/gpterm/errors"
	"github.com/m4xw311/gpterm/transcript"
	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

// OpenAILLMClient is a client for the OpenAI Chat Completion API.
type OpenAILLMClient struct {
	client    *openai.Client
	model     string
	maxTokens int64
}

// NewOpenAILLMClient creates a new OpenAILLMClient. It requires the OPENAI_API_KEY environment variable to be set.
// It also supports OPENAI_BASE_URL for custom API endpoints.
func NewOpenAILLMClient(ctx context.Context, opts Options) (*OpenAILLMClient, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("OPENAI_API_KEY environment variable not set")
	}

	options := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}

	// Check for custom base URL
	baseURL := os.Getenv("OPENAI_BASE_URL")
	if baseURL != "" {
		options = append(options, option.WithBaseURL(baseURL))
	}

	// The v2 SDK uses functional options for configuration.
	c := openai.NewClient(options...)
	// NewClient returns a value; keep a pointer so every call shares it.
	return &OpenAILLMClient{client: &c, model: opts.Model, maxTokens: opts.MaxTokens}, nil
}

// Chat sends the transcript to OpenAI and converts the first choice into an assistant turn.
func (o *OpenAILLMClient) Chat(ctx context.Context, turns []transcript.Turn) (*transcript.Turn, error) {
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(o.model),
		Messages: convertTurnsToOpenAIMessages(turns),
	}
	if o.maxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(o.maxTokens)
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, completionError("openai", err, openAIRateLimited)
	}

	return processOpenAIResponse(resp), nil
}

// processOpenAIResponse converts an OpenAI API response into an assistant turn.
func processOpenAIResponse(resp *openai.ChatCompletion) *transcript.Turn {
	if len(resp.Choices) == 0 {
		return &transcript.Turn{Role: transcript.RoleAssistant, Content: ""}
	}
	return &transcript.Turn{Role: transcript.RoleAssistant, Content: resp.Choices[0].Message.Content}
}

// convertTurnsToOpenAIMessages converts the transcript to OpenAI chat messages.
func convertTurnsToOpenAIMessages(turns []transcript.Turn) []openai.ChatCompletionMessageParamUnion {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(turns))
	for _, turn := range turns {
		switch turn.Role {
		case transcript.RoleSystem:
			messages = append(messages, openai.SystemMessage(turn.Content))
		case transcript.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(turn.Content))
		default:
			messages = append(messages, openai.UserMessage(turn.Content))
		}
	}
	return messages
}
