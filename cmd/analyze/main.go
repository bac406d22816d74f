package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"clauselens-backend/internal/bootstrap"
	"clauselens-backend/internal/extract"
	"clauselens-backend/internal/shared/config"
	"clauselens-backend/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()

	filePath := flag.String("file", "", "Path to document (.pdf or .txt)")
	question := flag.String("question", "", "Ask a question about the document instead of analyzing it")
	outPath := flag.String("out", "", "Path to write JSON output (optional)")
	provider := flag.String("provider", cfg.LLMProvider, "LLM provider (gemini, vertex, openai)")
	model := flag.String("model", "", "LLM model (default: LLM_MODEL, or the provider's default)")
	parser := flag.String("parser", cfg.ResponseParser, "Response parser (greedy, balanced)")
	flag.Parse()

	if strings.TrimSpace(*filePath) == "" {
		exitErr("file path is required")
	}

	cfg = applyFlags(cfg, *provider, *model, *parser)

	// Keep stdout for the result.
	telemetry.SetOutput(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ctx = telemetry.WithRequestID(ctx, "cli")

	app, err := bootstrap.Build(ctx, cfg)
	if err != nil {
		exitErr(err.Error())
	}

	var out []byte
	if strings.TrimSpace(*question) != "" {
		text, err := extract.ExtractFile(ctx, *filePath)
		if err != nil {
			exitErr(fmt.Sprintf("extract text: %v", err))
		}
		answer, err := app.QuestionsService.Ask(ctx, *question, text)
		if err != nil {
			exitErr(fmt.Sprintf("ask: %v", err))
		}
		out, err = json.MarshalIndent(map[string]string{"answer": answer}, "", "  ")
		if err != nil {
			exitErr(fmt.Sprintf("format json: %v", err))
		}
	} else {
		data, err := os.ReadFile(*filePath)
		if err != nil {
			exitErr(fmt.Sprintf("read document: %v", err))
		}
		raw, err := app.AnalysesService.Analyze(ctx, filepath.Base(*filePath), data)
		if err != nil {
			exitErr(fmt.Sprintf("analyze: %v", err))
		}
		out, err = prettyJSON(raw)
		if err != nil {
			exitErr(fmt.Sprintf("format json: %v", err))
		}
	}

	if *outPath != "" {
		if err := os.WriteFile(*outPath, out, 0o644); err != nil {
			exitErr(fmt.Sprintf("write output: %v", err))
		}
	}

	if _, err := os.Stdout.Write(out); err != nil {
		exitErr(fmt.Sprintf("write stdout: %v", err))
	}
	if len(out) == 0 || out[len(out)-1] != '\n' {
		_, _ = os.Stdout.Write([]byte("\n"))
	}
}

// applyFlags overlays command-line choices on the loaded config. A provider
// switch without -model picks that provider's default model.
func applyFlags(cfg config.Config, provider, model, parser string) config.Config {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if provider != "" && provider != cfg.LLMProvider {
		cfg.LLMProvider = provider
		cfg.LLMModel = config.DefaultModel(provider)
	}
	if model = strings.TrimSpace(model); model != "" {
		cfg.LLMModel = model
	}
	if strings.TrimSpace(parser) != "" {
		cfg.ResponseParser = parser
	}
	return cfg
}

func prettyJSON(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func exitErr(msg string) {
	_, _ = fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
