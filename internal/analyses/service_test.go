package analyses

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clauselens-backend/internal/extract"
	"clauselens-backend/internal/llm"
	"clauselens-backend/internal/shared/telemetry"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	restore := telemetry.SetOutput(&buf)
	t.Cleanup(restore)
	return &buf
}

func TestAnalyzeReturnsRawObject(t *testing.T) {
	completer := &fakeCompleter{reply: "```json\n{\"summary\":\"A lease.\",\"riskFlags\":[{\"level\":\"Red\",\"title\":\"Deposit\",\"explanation\":\"High\"}],\"keyClauses\":[]}\n```"}
	svc := NewService(completer, nil, "fake", true)

	result, err := svc.Analyze(context.Background(), "lease.txt", []byte("Rent is 25000 per month."))
	require.NoError(t, err)
	assert.JSONEq(t, `{"summary":"A lease.","riskFlags":[{"level":"Red","title":"Deposit","explanation":"High"}],"keyClauses":[]}`, string(result))
}

func TestAnalyzeUnsupportedSkipsCompletion(t *testing.T) {
	completer := &fakeCompleter{reply: "{}"}
	svc := NewService(completer, nil, "fake", false)

	_, err := svc.Analyze(context.Background(), "notes.docx", []byte("text"))
	assert.ErrorIs(t, err, extract.ErrUnsupportedType)
	assert.Zero(t, completer.calls())
}

func TestAnalyzeProviderFailureIsLogged(t *testing.T) {
	logs := captureLogs(t)
	svc := NewService(&fakeCompleter{err: errTransport}, nil, "fake", false)

	ctx := telemetry.WithRequestID(context.Background(), "req-1")
	_, err := svc.Analyze(ctx, "lease.txt", []byte("Rent is 25000 per month."))
	require.Error(t, err)
	assert.True(t, errors.Is(err, llm.ErrCompletionFailed))

	out := logs.String()
	assert.Contains(t, out, `"msg":"analysis.provider_failed"`)
	assert.Contains(t, out, `"request_id":"req-1"`)
	assert.Contains(t, out, "connection refused")
	assert.NotContains(t, out, "Rent is 25000", "document text must not be logged")
}

func TestAnalyzeUnparseableLogsRawText(t *testing.T) {
	logs := captureLogs(t)
	svc := NewService(&fakeCompleter{reply: `Result: {"summary": oops}`}, nil, "fake", false)

	_, err := svc.Analyze(context.Background(), "lease.txt", []byte("Rent is 25000 per month."))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnparseableResponse)
	assert.ErrorIs(t, err, llm.ErrMalformedJSON)

	out := logs.String()
	assert.Contains(t, out, `"msg":"analysis.parse_failed"`)
	assert.Contains(t, out, `"candidate":"{\"summary\": oops}"`)
}

func TestAnalyzeSchemaMismatchStillReturnsObject(t *testing.T) {
	logs := captureLogs(t)
	svc := NewService(&fakeCompleter{reply: `{"summary":"A lease.","riskFlags":[{"level":"Green"}]}`}, nil, "fake", true)

	result, err := svc.Analyze(context.Background(), "lease.txt", []byte("Rent is 25000 per month."))
	require.NoError(t, err)
	assert.JSONEq(t, `{"summary":"A lease.","riskFlags":[{"level":"Green"}]}`, string(result))
	assert.Contains(t, logs.String(), `"msg":"analysis.schema_mismatch"`)
}

func TestAnalyzeSchemaCheckDisabled(t *testing.T) {
	logs := captureLogs(t)
	svc := NewService(&fakeCompleter{reply: `{"anything":true}`}, nil, "fake", false)

	_, err := svc.Analyze(context.Background(), "lease.txt", []byte("Rent is 25000 per month."))
	require.NoError(t, err)
	assert.False(t, strings.Contains(logs.String(), "schema_mismatch"))
}

func TestAnalyzeWithBalancedParser(t *testing.T) {
	reply := `{"summary":"first","riskFlags":[],"keyClauses":[]} and a second {"summary":"second"}`

	_, err := NewService(&fakeCompleter{reply: reply}, llm.GreedyParser{}, "fake", false).
		Analyze(context.Background(), "lease.txt", []byte("Rent"))
	assert.ErrorIs(t, err, ErrUnparseableResponse)

	result, err := NewService(&fakeCompleter{reply: reply}, llm.BalancedParser{}, "fake", false).
		Analyze(context.Background(), "lease.txt", []byte("Rent"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"summary":"first","riskFlags":[],"keyClauses":[]}`, string(result))
}

func TestAnalyzeWithoutCompleter(t *testing.T) {
	_, err := (&Service{}).Analyze(context.Background(), "lease.txt", []byte("Rent"))
	assert.Error(t, err)
}
