package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"hnradar/internal/config"
	"hnradar/internal/infrastructure/feed"
	"hnradar/internal/infrastructure/llm"
	"hnradar/internal/infrastructure/preview"
	"hnradar/internal/infrastructure/storage"
	"hnradar/internal/server"
	"hnradar/internal/usecase"
)

const shutdownTimeout = 5 * time.Second

// Application wires configuration to components and owns their lifecycle:
// one background aggregator and one HTTP server sharing the repository.
type Application struct {
	cfg        config.Config
	logger     *slog.Logger
	repo       *storage.SQLiteRepository
	aggregator *usecase.Aggregator
	server     *server.Server
}

// New builds a runnable application instance.
func New(cfg config.Config, logger *slog.Logger) (*Application, error) {
	repo, err := storage.NewSQLiteRepository(cfg.Database.Path, cfg.Analysis.Categories)
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}

	aggregator := usecase.NewAggregator(usecase.AggregatorDeps{
		Feed:       feed.NewClient(cfg.Feed.APIURL, nil),
		Repository: repo,
		Analyzer:   llm.NewOllamaClient(cfg.Ollama, cfg.Analysis),
		Preview:    preview.NewClient(nil),
		Logger:     logger.With("component", "aggregator"),
		Categories: cfg.Analysis.Categories,
		TopStories: cfg.Feed.TopStoriesCount,
		Interval:   time.Duration(cfg.Feed.FetchIntervalMinutes) * time.Minute,
	})

	srv := server.New(cfg.Server,
		usecase.NewQueryService(repo),
		logger.With("component", "server"))

	return &Application{
		cfg:        cfg,
		logger:     logger,
		repo:       repo,
		aggregator: aggregator,
		server:     srv,
	}, nil
}

// Run starts the aggregator and the HTTP server, blocking until the context
// is cancelled or the server fails.
func (a *Application) Run(ctx context.Context) error {
	go a.aggregator.Run(ctx)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- a.server.Start()
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		a.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

// Close releases the repository.
func (a *Application) Close() error {
	return a.repo.Close()
}
