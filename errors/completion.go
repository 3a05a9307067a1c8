package errors

import "fmt"

// CompletionKind tells rate limiting apart from every other provider failure.
type CompletionKind int

const (
	CompletionFailed CompletionKind = iota
	CompletionRateLimited
)

func (k CompletionKind) String() string {
	if k == CompletionRateLimited {
		return "rate limited"
	}
	return "completion failed"
}

// CompletionError is returned by every llm client when the provider call
// fails. Description is what the user gets to see.
type CompletionError struct {
	Kind     CompletionKind
	Provider string
	Err      error
}

func (e *CompletionError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *CompletionError) Unwrap() error { return e.Err }

// Description returns the provider's message without the location prefix.
func (e *CompletionError) Description() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return e.Err.Error()
}

// RateLimited reports whether err is a rate-limit CompletionError.
func RateLimited(err error) bool {
	var ce *CompletionError
	return As(err, &ce) && ce.Kind == CompletionRateLimited
}
