package bridge

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers the routes for the bridge feature.
func RegisterRoutes(app *fiber.App, emitter *Emitter) {
	handler := NewHandler(emitter)

	app.Get("/events", handler.Stream)
	app.Get("/events/status", handler.Status)
}
