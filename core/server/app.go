package server

import (
	"time"

	"country-pipeline/core/logger"
	"country-pipeline/core/middleware/auth"
	"country-pipeline/core/middleware/rayid"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// New builds the Fiber app with the standard middleware chain:
// ray id first, then request logging, then API key auth.
// GET /health is registered ahead of auth.
func New(cfg Config, logg *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	app.Use(rayid.New())

	app.Use(func(c *fiber.Ctx) error {
		l := logger.WithRayID(logg, c)
		start := time.Now()
		err := c.Next()
		if err != nil {
			l.Error("Request error", zap.Error(err))
		}
		l.Info("Request handled",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
		)
		return err
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	app.Use(auth.New(auth.Config{ApiKey: cfg.ApiKey}))

	return app
}
