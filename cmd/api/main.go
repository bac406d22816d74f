package main

import (
	"context"
	"log"

	"clauselens-backend/internal/bootstrap"
	"clauselens-backend/internal/shared/config"
	"clauselens-backend/internal/shared/server"
)

func main() {
	cfg := config.Load()
	app, err := bootstrap.Build(context.Background(), cfg)
	if err != nil {
		log.Fatalf("startup: %v", err)
	}

	addr := server.Addr(cfg.Port)
	log.Printf("Starting API server on %s (provider=%s model=%s)", addr, cfg.LLMProvider, cfg.LLMModel)

	if err := app.Router.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
