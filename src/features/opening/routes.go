package opening

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers the routes for the opening feature.
func RegisterRoutes(app *fiber.App, router *Router) {
	handler := NewHandler(router)

	app.Post("/intents", handler.PostIntent)
}
