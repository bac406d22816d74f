package llm

import (
	"errors"
	"testing"
)

func TestFailWrapsProviderError(t *testing.T) {
	cause := errors.New("quota exceeded")
	err := Fail("gemini", cause)

	if !errors.Is(err, ErrCompletionFailed) {
		t.Fatalf("expected ErrCompletionFailed in chain")
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected provider cause in chain")
	}
	if err.Error() != "gemini completion: quota exceeded" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
	if Fail("gemini", nil) != nil {
		t.Fatalf("expected nil for nil cause")
	}
}

