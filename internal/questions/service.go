package questions

import (
	"context"
	"errors"
	"time"

	"clauselens-backend/internal/llm"
	"clauselens-backend/internal/shared/metrics"
	"clauselens-backend/internal/shared/telemetry"
	"clauselens-backend/internal/shared/util"
)

// Service answers questions about a document body supplied by the caller.
type Service struct {
	LLM      llm.Completer
	Provider string
}

// NewService constructs a Service.
func NewService(completer llm.Completer, provider string) *Service {
	return &Service{LLM: completer, Provider: provider}
}

// Ask returns the model's reply verbatim. An empty documentContext is forwarded as-is.
func (s *Service) Ask(ctx context.Context, question, documentContext string) (string, error) {
	if s.LLM == nil {
		return "", errors.New("question service has no completer")
	}

	requestID := telemetry.RequestIDFromContext(ctx)
	prompt := llm.BuildQAPrompt(question, documentContext)
	start := time.Now()
	answer, err := s.LLM.Complete(ctx, prompt)
	elapsed := time.Since(start)
	metrics.ObserveCompletionDuration(elapsed)
	if err != nil {
		metrics.IncQuestionFailed()
		telemetry.Error("question.provider_failed", map[string]any{
			"request_id":  requestID,
			"provider":    s.Provider,
			"duration_ms": elapsed.Milliseconds(),
			"err":         util.Snippet(err.Error(), 2000),
		})
		return "", err
	}

	metrics.IncQuestionAnswered()
	telemetry.Info("question.answered", map[string]any{
		"request_id":    requestID,
		"provider":      s.Provider,
		"duration_ms":   elapsed.Milliseconds(),
		"context_chars": len(documentContext),
		"not_found":     answer == llm.NotFoundAnswer,
	})
	return answer, nil
}
