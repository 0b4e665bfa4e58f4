package server

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hnradar/internal/config"
	"hnradar/internal/usecase"
)

// Server exposes the query contract as a JSON API, plus liveness and
// metrics endpoints. It never blocks on the aggregation cycle: reads go
// straight to the repository.
type Server struct {
	app    *fiber.App
	addr   string
	query  *usecase.QueryService
	logger *slog.Logger
}

// New creates the Fiber app with middleware and routes configured.
func New(cfg config.ServerConfig, query *usecase.QueryService, logger *slog.Logger) *Server {
	app := fiber.New(fiber.Config{
		AppName: "hnradar",
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())

	s := &Server{
		app:    app,
		addr:   cfg.Addr,
		query:  query,
		logger: logger,
	}
	s.registerRoutes()

	return s
}

func (s *Server) registerRoutes() {
	s.app.Get("/healthz", s.health)
	s.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	s.app.Get("/api/items", s.listItems)
	s.app.Get("/api/categories", s.listCategories)
}

// Start blocks serving requests until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("http server listening", "addr", s.addr)
	return s.app.Listen(s.addr)
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
