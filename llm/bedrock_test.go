package llm

import (
	"encoding/json"
	"testing"

	"github.com/m4xw311/gpterm/errors"
	"github.com/m4xw311/gpterm/transcript"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBedrockRequest(t *testing.T) {
	turns := []transcript.Turn{
		{Role: transcript.RoleSystem, Content: "be brief"},
		{Role: transcript.RoleUser, Content: "Hello!"},
		{Role: transcript.RoleAssistant, Content: "Hi."},
		{Role: transcript.RoleUser, Content: "How are you?"},
	}

	body, err := createBedrockRequest(turns, 512)
	require.NoError(t, err)

	var req bedrockRequest
	require.NoError(t, json.Unmarshal(body, &req))
	assert.Equal(t, bedrockAnthropicVersion, req.AnthropicVersion)
	assert.Equal(t, int64(512), req.MaxTokens)
	assert.Equal(t, "be brief", req.System)
	require.Len(t, req.Messages, 3)
	assert.Equal(t, "user", req.Messages[0].Role)
	assert.Equal(t, "assistant", req.Messages[1].Role)
	assert.Equal(t, "How are you?", req.Messages[2].Content[0].Text)
	assert.Equal(t, "text", req.Messages[2].Content[0].Type)
}

func TestCreateBedrockRequestWithoutSystem(t *testing.T) {
	body, err := createBedrockRequest([]transcript.Turn{{Role: transcript.RoleUser, Content: "x"}}, 10)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(body, &raw))
	_, hasSystem := raw["system"]
	assert.False(t, hasSystem)
}

func TestProcessBedrockResponse(t *testing.T) {
	turn, err := processBedrockResponse([]byte(`{"content":[{"type":"text","text":"Hel"},{"type":"tool_use","text":""},{"type":"text","text":"lo"}]}`))
	require.NoError(t, err)
	assert.Equal(t, transcript.Turn{Role: transcript.RoleAssistant, Content: "Hello"}, *turn)

	turn, err = processBedrockResponse([]byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, "", turn.Content)
}

func TestProcessBedrockResponseErrors(t *testing.T) {
	_, err := processBedrockResponse([]byte(`{"error":{"message":"model not ready"}}`))
	var ce *errors.CompletionError
	require.True(t, errors.As(err, &ce))
	assert.Contains(t, ce.Description(), "model not ready")

	_, err = processBedrockResponse([]byte(`not json`))
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, errors.CompletionFailed, ce.Kind)
}
