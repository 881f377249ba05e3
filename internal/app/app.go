// Package app assembles the storage and model backends selected by config.
package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/banglish/backend/internal/config"
	"github.com/banglish/backend/internal/llm"
	"github.com/banglish/backend/internal/models"
	"github.com/banglish/backend/internal/services"
)

type Stores struct {
	Contributions services.ContributionStore
	Accounts      services.AccountStore

	mongoClient *mongo.Client
}

// OpenStores connects the configured backend. Close must be called when done.
func OpenStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Stores, error) {
	switch cfg.Storage.Backend {
	case "mongo":
		client, err := services.ConnectMongo(ctx, cfg.Mongo.URI)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		db := client.Database(cfg.Mongo.Database)

		contributions, err := services.NewMongoContributionStore(ctx, db, logger)
		if err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		accounts, err := services.NewMongoAccountService(ctx, db, logger)
		if err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}

		logger.Info("using mongo storage", zap.String("database", cfg.Mongo.Database))
		return &Stores{Contributions: contributions, Accounts: accounts, mongoClient: client}, nil

	default:
		contributions, err := services.NewFileContributionStore(filepath.Join(cfg.Storage.DataDir, "contributions"), logger)
		if err != nil {
			return nil, err
		}
		accounts, err := services.NewAccountService(cfg.Storage.DataDir)
		if err != nil {
			return nil, err
		}

		logger.Info("using file storage", zap.String("data_dir", cfg.Storage.DataDir))
		return &Stores{Contributions: contributions, Accounts: accounts}, nil
	}
}

func (s *Stores) Close(ctx context.Context) error {
	if s.mongoClient == nil {
		return nil
	}
	return s.mongoClient.Disconnect(ctx)
}

// SeedAdmin creates the configured administrator unless it already exists.
func SeedAdmin(ctx context.Context, cfg *config.Config, accounts services.AccountStore, logger *zap.Logger) error {
	if !cfg.SeedAdmin() {
		return nil
	}

	_, err := accounts.CreateAdmin(ctx, &models.RegisterRequest{
		Username: cfg.Admin.Username,
		Email:    cfg.Admin.Email,
		Password: cfg.Admin.Password,
	})
	switch {
	case err == nil:
		logger.Info("admin account created", zap.String("email", cfg.Admin.Email))
		return nil
	case errors.Is(err, services.ErrEmailExists), errors.Is(err, services.ErrUsernameExists):
		return nil
	default:
		return fmt.Errorf("seed admin: %w", err)
	}
}

// NewGenerator builds the configured model client behind a circuit breaker.
// A provider that cannot be constructed (typically a missing API key) yields
// nil; every model-backed request then fails as an external service error
// while the rest of the API keeps working.
func NewGenerator(ctx context.Context, cfg *config.Config, logger *zap.Logger) llm.Generator {
	gen, err := llm.New(ctx, llm.Config{
		Provider: cfg.LLM.Provider,
		APIKey:   cfg.LLM.APIKey,
		Model:    cfg.LLM.Model,
		BaseURL:  cfg.LLM.BaseURL,
	})
	if err != nil {
		logger.Warn("language model unavailable", zap.String("provider", cfg.LLM.Provider), zap.Error(err))
		return nil
	}

	logger.Info("language model configured", zap.String("provider", cfg.LLM.Provider), zap.String("model", cfg.LLM.Model))
	return llm.NewBreakerGenerator(gen, cfg.LLM.Breaker.MaxFailures, cfg.LLM.Breaker.Cooldown, logger)
}
