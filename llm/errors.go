package llm

import (
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/m4xw311/gpterm/errors"
	"github.com/openai/openai-go/v2"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func completionError(provider string, err error, rateLimited func(error) bool) error {
	kind := errors.CompletionFailed
	if rateLimited(err) {
		kind = errors.CompletionRateLimited
	}
	return &errors.CompletionError{Kind: kind, Provider: provider, Err: err}
}

func openAIRateLimited(err error) bool {
	var apiErr *openai.Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests
}

func anthropicRateLimited(err error) bool {
	var apiErr *anthropic.Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests
}

func geminiRateLimited(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
		return true
	}
	return status.Code(err) == codes.ResourceExhausted
}

func bedrockRateLimited(err error) bool {
	var throttled *types.ThrottlingException
	return errors.As(err, &throttled)
}
