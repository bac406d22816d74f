package llm

import (
	"context"
	"errors"
	"fmt"
)

// Completer sends a single prompt to an LLM provider and returns the raw text reply.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ErrCompletionFailed marks any transport or provider-side failure of a completion call.
var ErrCompletionFailed = errors.New("llm completion failed")

// CompletionError carries the provider name and its message for server-side logging.
type CompletionError struct {
	Provider string
	Err      error
}

func (e *CompletionError) Error() string {
	return fmt.Sprintf("%s completion: %v", e.Provider, e.Err)
}

func (e *CompletionError) Unwrap() []error {
	return []error{ErrCompletionFailed, e.Err}
}

// Fail wraps err so callers can match it with errors.Is(err, ErrCompletionFailed).
func Fail(provider string, err error) error {
	if err == nil {
		return nil
	}
	return &CompletionError{Provider: provider, Err: err}
}
