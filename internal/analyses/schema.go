package analyses

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// JSON Schema (schemas/analysis.schema.json):
// {
//   "summary": "string",
//   "riskFlags": [
//     { "level": "Red | Yellow", "title": "string", "explanation": "string" }
//   ],
//   "keyClauses": [
//     { "title": "string", "originalText": "string", "simplifiedText": "string" }
//   ]
// }
type AnalysisResult struct {
	Summary    string      `json:"summary"`
	RiskFlags  []RiskFlag  `json:"riskFlags"`
	KeyClauses []KeyClause `json:"keyClauses"`
}

type RiskLevel string

const (
	RiskLevelRed    RiskLevel = "Red"
	RiskLevelYellow RiskLevel = "Yellow"
)

type RiskFlag struct {
	Level       RiskLevel `json:"level"`
	Title       string    `json:"title"`
	Explanation string    `json:"explanation"`
}

type KeyClause struct {
	Title          string `json:"title"`
	OriginalText   string `json:"originalText"`
	SimplifiedText string `json:"simplifiedText"`
}

//go:embed schemas/analysis.schema.json
var analysisSchemaJSON []byte

const analysisSchemaURL = "analysis.schema.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func analysisSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(analysisSchemaURL, bytes.NewReader(analysisSchemaJSON)); err != nil {
			schemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile(analysisSchemaURL)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile schema: %w", schemaErr)
		}
	})
	return compiledSchema, schemaErr
}

// ValidateResult checks a decoded model reply against the analysis schema.
// The reply is still returned to callers when this fails.
func ValidateResult(data []byte) error {
	schema, err := analysisSchema()
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}

// DecodeResult returns the typed view of a passthrough result.
func DecodeResult(data []byte) (AnalysisResult, error) {
	var out AnalysisResult
	if err := json.Unmarshal(data, &out); err != nil {
		return AnalysisResult{}, err
	}
	return out, nil
}
