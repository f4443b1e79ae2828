package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"resume-coach/internal/config"
	"resume-coach/internal/database"
	"resume-coach/internal/database/migration"
	dbpostgres "resume-coach/internal/database/postgres"
	"resume-coach/internal/infrastructure/cache"
	"resume-coach/internal/llm"
)

// Container holds the process-wide dependencies shared by the HTTP layer.
type Container struct {
	Config config.Config
	DB     database.DB
	Cache  *cache.Redis
	Model  *llm.Client
}

func NewContainer(cfg config.Config) (*Container, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := migration.Run(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	model, err := llm.New(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init gemini client: %w", err)
	}

	return &Container{
		Config: cfg,
		DB:     db,
		Cache:  cache.NewRedis(log.Default()),
		Model:  model,
	}, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}

	var firstErr error
	if c.Model != nil {
		if err := c.Model.Close(); err != nil {
			firstErr = err
		}
	}
	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
