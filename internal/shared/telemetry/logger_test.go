package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestWriteEmitsJSONLine(t *testing.T) {
	var buf bytes.Buffer
	restore := SetOutput(&buf)
	defer restore()

	Warn("llm.parse.failed", map[string]any{
		"request_id": "req-1",
		"err":        errors.New("boom"),
		"msg":        "overridden",
	})

	line := strings.TrimSpace(buf.String())
	var payload map[string]any
	if err := json.Unmarshal([]byte(line), &payload); err != nil {
		t.Fatalf("decode log line %q: %v", line, err)
	}
	if payload["level"] != "warn" {
		t.Fatalf("expected level warn, got %v", payload["level"])
	}
	if payload["msg"] != "llm.parse.failed" {
		t.Fatalf("expected msg to win over fields, got %v", payload["msg"])
	}
	if payload["err"] != "boom" {
		t.Fatalf("expected error to be stringified, got %v", payload["err"])
	}
	if payload["ts"] == "" {
		t.Fatalf("expected ts field")
	}
}

func TestRequestIDContext(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-7")
	if got := RequestIDFromContext(ctx); got != "req-7" {
		t.Fatalf("expected req-7, got %q", got)
	}
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Fatalf("expected empty id, got %q", got)
	}
	if WithRequestID(ctx, "") != ctx {
		t.Fatalf("empty id must not wrap the context")
	}
}
