package main

import (
	"context"
	"errors"

	"github.com/xaenox/notedesk/internal/auth"
	"github.com/xaenox/notedesk/internal/session"
	"github.com/xaenox/notedesk/internal/storage"
	"github.com/xaenox/notedesk/internal/summarizer"
	"github.com/xaenox/notedesk/pkg/config"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Load configuration
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err), zap.String("path", "config.yaml"))
	}

	// Initialize the note gateway
	var gateway storage.Gateway
	if cfg.Database.UseInMemory {
		logger.Info("Using in-memory storage")
		gateway = storage.NewMemoryGateway()
	} else {
		logger.Info("Using PostgreSQL storage")
		dbConfig := storage.DatabaseConfig{
			Host:        cfg.Database.Host,
			Port:        cfg.Database.Port,
			User:        cfg.Database.User,
			Password:    cfg.Database.Password,
			DBName:      cfg.Database.DBName,
			SSLMode:     cfg.Database.SSLMode,
			UseInMemory: cfg.Database.UseInMemory,
		}
		gateway, err = storage.NewPostgresGateway(dbConfig, logger)
		if err != nil {
			logger.Fatal("Failed to initialize storage", zap.Error(err))
		}
	}
	defer gateway.Close()

	// Initialize the summarization client
	sum := summarizer.NewOpenAISummarizer(
		cfg.OpenAI.APIKey,
		cfg.OpenAI.Model,
		cfg.OpenAI.MaxTokens,
		cfg.OpenAI.Temperature,
		logger,
	)

	// Initialize the auth provider and core components
	provider := auth.NewLocalProvider()
	defer provider.Close()

	collection := session.NewCollection(gateway, logger)
	editor := session.NewEditor(gateway, sum, logger)
	coordinator := session.NewCoordinator(collection, editor, gateway, provider, logger)

	ctx := context.Background()

	if cfg.Auth.UserID != "" {
		provider.SignIn(cfg.Auth.UserID)
		if err := coordinator.Start(ctx); err != nil {
			logger.Fatal("Failed to start session", zap.Error(err))
		}
	}

	// React to session changes until shut down
	if err := coordinator.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("Coordinator error", zap.Error(err))
	}
}
