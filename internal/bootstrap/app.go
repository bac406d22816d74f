package bootstrap

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"clauselens-backend/internal/analyses"
	"clauselens-backend/internal/llm"
	"clauselens-backend/internal/llm/gemini"
	"clauselens-backend/internal/llm/openai"
	"clauselens-backend/internal/questions"
	"clauselens-backend/internal/services/health"
	"clauselens-backend/internal/shared/config"
	"clauselens-backend/internal/shared/server"
)

// App holds shared dependencies.
type App struct {
	Config           config.Config
	Router           *gin.Engine
	Completer        llm.Completer
	AnalysesService  *analyses.Service
	QuestionsService *questions.Service
	AnalysisHandler  *analyses.Handler
	QuestionHandler  *questions.Handler
}

// Build validates cfg, constructs the provider client and wires routes.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	completer, err := BuildCompleter(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return BuildWithCompleter(cfg, completer), nil
}

// BuildWithCompleter wires services and routes around an existing completer.
func BuildWithCompleter(cfg config.Config, completer llm.Completer) *App {
	app := &App{
		Config:    cfg,
		Completer: completer,
	}
	app.AnalysesService = analyses.NewService(completer, llm.NewResponseParser(cfg.ResponseParser), cfg.LLMProvider, cfg.SchemaCheck)
	app.QuestionsService = questions.NewService(completer, cfg.LLMProvider)
	app.AnalysisHandler = analyses.NewHandler(app.AnalysesService, cfg.MaxUploadBytes)
	app.QuestionHandler = questions.NewHandler(app.QuestionsService, cfg.MaxContextChars)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          cfg,
		Health:          health.NewService(cfg.LLMProvider),
		AnalysisHandler: app.AnalysisHandler,
		QuestionHandler: app.QuestionHandler,
	})
	return app
}

// BuildCompleter returns the provider client selected by cfg.LLMProvider.
func BuildCompleter(ctx context.Context, cfg config.Config) (llm.Completer, error) {
	switch cfg.LLMProvider {
	case config.ProviderGemini:
		client, err := gemini.NewClient(cfg.GeminiAPIKey, cfg.LLMModel, cfg.LLMTimeout)
		if err != nil {
			return nil, err
		}
		return client, nil
	case config.ProviderVertex:
		client, err := gemini.NewVertexClient(ctx, cfg.GCPProject, cfg.GCPLocation, cfg.LLMModel, cfg.LLMTimeout)
		if err != nil {
			return nil, err
		}
		return client, nil
	case config.ProviderOpenAI:
		client, err := openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel, cfg.LLMTimeout)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unsupported LLM_PROVIDER %q", cfg.LLMProvider)
	}
}
