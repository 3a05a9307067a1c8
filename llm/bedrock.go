package llm

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/m4xw311/gpterm/errors"
	"github.com/m4xw311/gpterm/transcript"
)

const bedrockAnthropicVersion = "bedrock-2023-05-31"

// BedrockLLMClient is a client for the Anthropic models on AWS Bedrock.
type BedrockLLMClient struct {
	client    *bedrockruntime.Client
	modelID   string
	maxTokens int64
}

// NewBedrockLLMClient creates a new BedrockLLMClient.
// It requires AWS credentials to be configured in the environment.
func NewBedrockLLMClient(ctx context.Context, opts Options) (*BedrockLLMClient, error) {
	var loadOpts []func(*config.LoadOptions) error
	if os.Getenv("AWS_REGION") == "" && os.Getenv("AWS_DEFAULT_REGION") == "" {
		loadOpts = append(loadOpts, config.WithRegion("us-east-1"))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load AWS config")
	}

	var clientOpts []func(*bedrockruntime.Options)
	// A custom endpoint is useful for testing against a local stub.
	if endpoint := os.Getenv("BEDROCK_ENDPOINT_URL"); endpoint != "" {
		clientOpts = append(clientOpts, func(o *bedrockruntime.Options) {
			o.BaseEndpoint = aws.String(endpoint)
		})
	}

	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return &BedrockLLMClient{
		client:    bedrockruntime.NewFromConfig(cfg, clientOpts...),
		modelID:   opts.Model,
		maxTokens: maxTokens,
	}, nil
}

type bedrockContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type bedrockMessage struct {
	Role    string           `json:"role"`
	Content []bedrockContent `json:"content"`
}

type bedrockRequest struct {
	AnthropicVersion string           `json:"anthropic_version"`
	MaxTokens        int64            `json:"max_tokens"`
	System           string           `json:"system,omitempty"`
	Messages         []bedrockMessage `json:"messages"`
}

type bedrockResponse struct {
	Content []bedrockContent `json:"content"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Chat sends a chat request to the Anthropic model via AWS Bedrock.
func (b *BedrockLLMClient) Chat(ctx context.Context, turns []transcript.Turn) (*transcript.Turn, error) {
	requestBody, err := createBedrockRequest(turns, b.maxTokens)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create Bedrock request")
	}

	resp, err := b.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(b.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        requestBody,
	})
	if err != nil {
		return nil, completionError("bedrock", err, bedrockRateLimited)
	}

	return processBedrockResponse(resp.Body)
}

// createBedrockRequest builds the Anthropic messages body expected by Bedrock.
func createBedrockRequest(turns []transcript.Turn, maxTokens int64) ([]byte, error) {
	request := bedrockRequest{
		AnthropicVersion: bedrockAnthropicVersion,
		MaxTokens:        maxTokens,
		Messages:         []bedrockMessage{},
	}

	var system []string
	for _, turn := range turns {
		switch turn.Role {
		case transcript.RoleSystem:
			system = append(system, turn.Content)
		case transcript.RoleUser, transcript.RoleAssistant:
			if turn.Content == "" {
				continue
			}
			request.Messages = append(request.Messages, bedrockMessage{
				Role:    string(turn.Role),
				Content: []bedrockContent{{Type: "text", Text: turn.Content}},
			})
		}
	}
	request.System = strings.Join(system, "\n\n")

	return json.Marshal(request)
}

// processBedrockResponse converts a Bedrock response body into an assistant turn.
func processBedrockResponse(body []byte) (*transcript.Turn, error) {
	var response bedrockResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, &errors.CompletionError{Provider: "bedrock", Err: errors.Wrapf(err, "failed to unmarshal Bedrock response")}
	}
	if response.Error != nil {
		return nil, &errors.CompletionError{Provider: "bedrock", Err: errors.New("Bedrock API error: %s", response.Error.Message)}
	}

	var content strings.Builder
	for _, item := range response.Content {
		if item.Type == "text" {
			content.WriteString(item.Text)
		}
	}
	return &transcript.Turn{Role: transcript.RoleAssistant, Content: content.String()}, nil
}
