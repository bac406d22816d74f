package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoJSONFound is returned when the model output has no {...} span.
	ErrNoJSONFound = errors.New("no json object found in model output")
	// ErrMalformedJSON is returned when the located span does not decode.
	ErrMalformedJSON = errors.New("malformed json in model output")
)

// ParseError reports a span that looked like JSON but failed to decode.
type ParseError struct {
	Candidate string
	Err       error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v: %v", ErrMalformedJSON, e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrMalformedJSON, e.Err}
}

// ResponseParser locates and decodes the JSON object embedded in a model reply.
type ResponseParser interface {
	ParseObject(raw string) (json.RawMessage, error)
}

// NewResponseParser returns the parser for a strategy name; unknown names get GreedyParser.
func NewResponseParser(strategy string) ResponseParser {
	if strings.EqualFold(strings.TrimSpace(strategy), "balanced") {
		return BalancedParser{}
	}
	return GreedyParser{}
}

// ParseJSONObject decodes the span from the first '{' to the last '}' in raw.
func ParseJSONObject(raw string) (json.RawMessage, error) {
	return GreedyParser{}.ParseObject(raw)
}

// GreedyParser takes the leftmost '{' through the rightmost '}'.
// Output holding several top-level objects is treated as one span and fails to decode.
type GreedyParser struct{}

func (GreedyParser) ParseObject(raw string) (json.RawMessage, error) {
	start := strings.IndexByte(raw, '{')
	end := strings.LastIndexByte(raw, '}')
	if start < 0 || end < start {
		return nil, ErrNoJSONFound
	}
	return decodeObject(raw[start : end+1])
}

// BalancedParser returns the first '{' whose braces balance, ignoring braces inside strings.
// Unlike GreedyParser it succeeds when the reply carries more than one object.
type BalancedParser struct{}

func (BalancedParser) ParseObject(raw string) (json.RawMessage, error) {
	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return nil, ErrNoJSONFound
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		ch := raw[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return decodeObject(raw[start : i+1])
			}
		}
	}

	// Unterminated object: report what we found so the caller can log it.
	if strings.LastIndexByte(raw, '}') < start {
		return nil, ErrNoJSONFound
	}
	return decodeObject(raw[start:])
}

func decodeObject(candidate string) (json.RawMessage, error) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(candidate), &obj); err != nil {
		return nil, &ParseError{Candidate: candidate, Err: err}
	}
	return json.RawMessage(candidate), nil
}
