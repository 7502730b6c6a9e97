package server

import (
	"context"
	"fmt"
	"net/http"

	"feed-syncer/internal/core/config"
	"feed-syncer/internal/core/logger"

	"github.com/gofiber/contrib/fiberzap/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"
)

// HealthCheck probes a single dependency (database, redis, ...).
type HealthCheck func(ctx context.Context) error

// Server holds the Fiber application serving the ops endpoints.
type Server struct {
	// App is the main Fiber application instance.
	App *fiber.App
	// cfg holds the application configuration.
	cfg *config.AppConfig
}

// New creates a new Server instance with configured middleware and the
// liveness/readiness endpoints. checks are probed by GET /health.
func New(cfg *config.AppConfig, checks map[string]HealthCheck) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		AppName:               "feed-syncer",
	})

	app.Use(requestid.New(requestid.Config{
		Header: "X-Ray-ID",
	}))

	app.Use(fiberzap.New(fiberzap.Config{
		Logger: logger.Get(),
	}))

	app.Get("/live", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		for name, check := range checks {
			if err := check(c.UserContext()); err != nil {
				logger.Get().Error("Health check failed",
					zap.String("check", name),
					zap.Error(err),
				)
				return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{
					"status": "unavailable",
					"failed": name,
				})
			}
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	return &Server{
		App: app,
		cfg: cfg,
	}
}

// Run starts the HTTP server.
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%d", s.cfg.ServerPort)
	logger.Get().Info("Starting ops server", zap.String("address", addr))
	return s.App.Listen(addr)
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown() error {
	return s.App.Shutdown()
}
