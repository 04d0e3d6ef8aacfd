package opening

import (
	"log/slog"

	"github.com/contre95/lxbridge/src/music"
	"github.com/gofiber/fiber/v2"
)

// Handler is the handler for the opening feature.
type Handler struct {
	router *Router
}

// NewHandler creates a new handler for the opening feature.
func NewHandler(router *Router) *Handler {
	return &Handler{router: router}
}

// PostIntent receives an intent from the launcher shim.
func (h *Handler) PostIntent(c *fiber.Ctx) error {
	var in Intent
	if err := c.BodyParser(&in); err != nil {
		slog.Warn("Invalid intent body", "error", err)
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"code":    music.KindInvalid,
			"message": "Intent body must be JSON",
		})
	}
	if in.URI == "" {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"code":    music.KindInvalid,
			"message": "Intent uri is required",
		})
	}

	res := h.router.HandleIntent(c.UserContext(), in)
	return c.Status(fiber.StatusAccepted).JSON(res)
}
