// Package server hosts the skill as an HTTPS endpoint for self-hosted
// deployments.
package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"

	"github.com/pricofy/wolfram-skill/internal/handler"
	"github.com/pricofy/wolfram-skill/internal/metrics"
	"github.com/pricofy/wolfram-skill/internal/router"
)

const serviceName = "wolfram-skill"

// New builds the Fiber app serving h. m may be nil, in which case /metrics
// is not mounted.
func New(h *handler.Handler, m *metrics.Metrics, log *zap.Logger) *fiber.App {
	if log == nil {
		log = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		AppName:               serviceName,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(log),
	})
	app.Use(recover.New())

	app.Get("/health/live", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})

	if m != nil {
		metricsHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.HandlerFor(m.Gatherer, promhttp.HandlerOpts{}))
		app.Get("/metrics", func(c *fiber.Ctx) error {
			metricsHandler(c.Context())
			return nil
		})
	}

	app.Post("/alexa", skillHandler(h))

	return app
}

func skillHandler(h *handler.Handler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		outcome, err := h.HandleRaw(c.UserContext(), c.Body())
		if err != nil {
			return fiber.NewError(handler.StatusCode(err), err.Error())
		}
		if outcome.Disposition != router.Replied {
			c.Status(fiber.StatusOK)
			return nil
		}
		return c.JSON(outcome.Response)
	}
}

func errorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		if code >= fiber.StatusInternalServerError {
			log.Error("request failed", zap.Error(err), zap.String("path", c.Path()))
		}

		return c.Status(code).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
}
