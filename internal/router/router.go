package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sreedhar1227/llm-interview-api/internal/config"
	"github.com/sreedhar1227/llm-interview-api/internal/handler"
	"github.com/sreedhar1227/llm-interview-api/internal/middleware"
	"github.com/sreedhar1227/llm-interview-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	InterviewHandler   *handler.InterviewHandler
	InterviewWSHandler *handler.InterviewWSHandler
	TranscriptHandler  *handler.TranscriptHandler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	app.Get("/metrics", observability.MetricsHandler())

	if deps.InterviewHandler != nil {
		interviews := api.Group("/interviews",
			middleware.RateLimit("interviews", cfg.RateLimitMax, cfg.RateLimitWindow))
		deps.InterviewHandler.Register(interviews)

		if deps.InterviewWSHandler != nil {
			deps.InterviewWSHandler.Register(api.Group("/interviews"))
		}
	}

	if deps.TranscriptHandler != nil {
		deps.TranscriptHandler.Register(api.Group("/transcripts"))
	}
}
