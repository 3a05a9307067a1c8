package errors

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIncludesLocation(t *testing.T) {
	err := New("bad %s", "thing")
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "[errors_test.go:"), err.Error())
	assert.Contains(t, err.Error(), "bad thing")
}

func TestWrapfKeepsChain(t *testing.T) {
	assert.Nil(t, Wrapf(nil, "ignored"))

	err := Wrapf(ErrNotFound, "loading %s", "chat.json")
	assert.True(t, Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "loading chat.json: file not found")
}

func TestCompletionError(t *testing.T) {
	base := fmt.Errorf("429 Too Many Requests")
	err := Wrapf(&CompletionError{Kind: CompletionRateLimited, Provider: "openai", Err: base}, "chat")

	assert.True(t, RateLimited(err))
	assert.True(t, Is(err, base))

	var ce *CompletionError
	require.True(t, As(err, &ce))
	assert.Equal(t, "429 Too Many Requests", ce.Description())
	assert.Equal(t, "openai: rate limited: 429 Too Many Requests", ce.Error())

	assert.False(t, RateLimited(&CompletionError{Kind: CompletionFailed, Err: base}))
	assert.False(t, RateLimited(base))
}
