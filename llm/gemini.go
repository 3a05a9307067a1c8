package llm

import (
	"context"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/m4xw311/gpterm/errors"
	"github.com/m4xw311/gpterm/transcript"
	"google.golang.org/api/option"
)

// GeminiLLMClient is a client for the Google Gemini API.
type GeminiLLMClient struct {
	model *genai.GenerativeModel
}

// NewGeminiLLMClient creates a new GeminiLLMClient.
// It requires the GEMINI_API_KEY environment variable to be set.
func NewGeminiLLMClient(ctx context.Context, opts Options) (*GeminiLLMClient, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY environment variable not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create genai client")
	}

	model := client.GenerativeModel(opts.Model)
	if opts.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(opts.MaxTokens))
	}

	return &GeminiLLMClient{
		model: model,
	}, nil
}

// Chat sends a chat request to the Gemini API.
func (g *GeminiLLMClient) Chat(ctx context.Context, turns []transcript.Turn) (*transcript.Turn, error) {
	history, system := convertTurnsToGeminiContent(turns)
	if len(history) == 0 {
		return nil, &errors.CompletionError{Provider: "gemini", Err: errors.New("no user turn to send")}
	}

	g.model.SystemInstruction = nil
	if system != "" {
		g.model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}

	// The last turn is the new prompt.
	last := history[len(history)-1]

	chatSession := g.model.StartChat()
	chatSession.History = history[:len(history)-1]
	resp, err := chatSession.SendMessage(ctx, last.Parts...)
	if err != nil {
		return nil, completionError("gemini", err, geminiRateLimited)
	}

	return processGeminiResponse(resp)
}

// convertTurnsToGeminiContent converts the transcript to Gemini contents and
// returns the system turns separately.
func convertTurnsToGeminiContent(turns []transcript.Turn) ([]*genai.Content, string) {
	var contents []*genai.Content
	var system []string
	for _, turn := range turns {
		role := "user"
		switch turn.Role {
		case transcript.RoleSystem:
			system = append(system, turn.Content)
			continue
		case transcript.RoleAssistant:
			role = "model"
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(turn.Content)},
		})
	}
	return contents, strings.Join(system, "\n\n")
}

// processGeminiResponse concatenates the text parts of the first candidate.
func processGeminiResponse(resp *genai.GenerateContentResponse) (*transcript.Turn, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, &errors.CompletionError{Provider: "gemini", Err: errors.New("received an empty response from Gemini")}
	}

	var content strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			content.WriteString(string(text))
		}
	}

	return &transcript.Turn{
		Role:    transcript.RoleAssistant,
		Content: content.String(),
	}, nil
}
