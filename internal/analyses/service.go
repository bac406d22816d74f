package analyses

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"clauselens-backend/internal/extract"
	"clauselens-backend/internal/llm"
	"clauselens-backend/internal/shared/metrics"
	"clauselens-backend/internal/shared/telemetry"
	"clauselens-backend/internal/shared/util"
)

const rawLogLimit = 2000

// Service runs extract, prompt, completion and parse for one uploaded document.
type Service struct {
	LLM         llm.Completer
	Parser      llm.ResponseParser
	Provider    string
	SchemaCheck bool
}

// NewService constructs a Service. A nil parser falls back to the greedy strategy.
func NewService(completer llm.Completer, parser llm.ResponseParser, provider string, schemaCheck bool) *Service {
	if parser == nil {
		parser = llm.GreedyParser{}
	}
	return &Service{
		LLM:         completer,
		Parser:      parser,
		Provider:    provider,
		SchemaCheck: schemaCheck,
	}
}

// Analyze returns the JSON object the model produced for the document, unchanged.
// Errors wrap extract.ErrUnsupportedType, extract.ErrUnreadablePDF,
// extract.ErrEmptyDocument, llm.ErrCompletionFailed or ErrUnparseableResponse.
func (s *Service) Analyze(ctx context.Context, fileName string, data []byte) (json.RawMessage, error) {
	if s.LLM == nil {
		return nil, errors.New("analysis service has no completer")
	}
	requestID := telemetry.RequestIDFromContext(ctx)
	metrics.IncAnalysisStarted()
	telemetry.Info("analysis.start", map[string]any{
		"request_id":  requestID,
		"file_name":   util.LogFileName(fileName),
		"size_bytes":  len(data),
		"fingerprint": util.Fingerprint(data),
		"sniffed":     extract.Sniff(data),
		"provider":    s.Provider,
	})

	text, err := extract.ExtractText(ctx, data, fileName)
	if err != nil {
		metrics.IncAnalysisFailed()
		telemetry.Warn("analysis.extract_failed", map[string]any{
			"request_id": requestID,
			"file_name":  util.LogFileName(fileName),
			"err":        err,
		})
		return nil, err
	}

	prompt := llm.BuildAnalysisPrompt(text)
	start := time.Now()
	raw, err := s.LLM.Complete(ctx, prompt)
	elapsed := time.Since(start)
	metrics.ObserveCompletionDuration(elapsed)
	if err != nil {
		metrics.IncAnalysisFailed()
		telemetry.Error("analysis.provider_failed", map[string]any{
			"request_id":  requestID,
			"provider":    s.Provider,
			"duration_ms": elapsed.Milliseconds(),
			"err":         util.Snippet(err.Error(), rawLogLimit),
		})
		return nil, err
	}

	result, err := s.Parser.ParseObject(raw)
	if err != nil {
		metrics.IncAnalysisFailed()
		fields := map[string]any{
			"request_id": requestID,
			"provider":   s.Provider,
			"err":        err,
			"raw":        util.Snippet(raw, rawLogLimit),
		}
		var parseErr *llm.ParseError
		if errors.As(err, &parseErr) {
			fields["candidate"] = util.Snippet(parseErr.Candidate, rawLogLimit)
		}
		telemetry.Error("analysis.parse_failed", fields)
		return nil, fmt.Errorf("%w: %w", ErrUnparseableResponse, err)
	}

	if s.SchemaCheck {
		if err := ValidateResult(result); err != nil {
			metrics.IncAnalysisSchemaMismatch()
			telemetry.Warn("analysis.schema_mismatch", map[string]any{
				"request_id": requestID,
				"provider":   s.Provider,
				"err":        util.Snippet(err.Error(), rawLogLimit),
			})
		}
	}

	metrics.IncAnalysisCompleted()
	done := map[string]any{
		"request_id":   requestID,
		"provider":     s.Provider,
		"duration_ms":  elapsed.Milliseconds(),
		"text_chars":   len(text),
		"result_bytes": len(result),
	}
	if typed, err := DecodeResult(result); err == nil {
		done["risk_flags"] = len(typed.RiskFlags)
		done["key_clauses"] = len(typed.KeyClauses)
	}
	telemetry.Info("analysis.complete", done)
	return result, nil
}
