package metrics

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers the metrics routes with the Fiber app.
func RegisterRoutes(app *fiber.App, metrics *Metrics) {
	handler := NewHandler(metrics)

	app.Get("/metrics", handler.Scrape())
}
