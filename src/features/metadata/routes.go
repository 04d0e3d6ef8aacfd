package metadata

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers the routes for the metadata feature
func RegisterRoutes(app *fiber.App, service *Service) {
	handler := NewHandler(service)

	meta := app.Group("/meta")
	meta.Post("/read", handler.ReadMetadata)
	meta.Post("/save", handler.SaveMetadata)
	meta.Post("/quality/read", handler.ReadQuality)
	meta.Post("/quality/write", handler.WriteQuality)
	meta.Post("/pic/read", handler.ReadPic)
	meta.Post("/pic/base64", handler.ReadBase64Pic)
	meta.Post("/pic/write", handler.WritePic)
}
