package metadata

import (
	"fmt"
	"log/slog"

	"github.com/contre95/lxbridge/src/music"
	"github.com/gofiber/fiber/v2"
)

// Handler exposes the metadata call surface over HTTP.
type Handler struct {
	service *Service
}

// NewHandler creates a new metadata handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type pathRequest struct {
	Path string `json:"path"`
}

type saveRequest struct {
	Path      string `json:"path"`
	Metadata  Fields `json:"metadata"`
	Overwrite bool   `json:"overwrite"`
}

type qualityRequest struct {
	Path    string `json:"path"`
	Quality string `json:"quality"`
}

type readPicRequest struct {
	Path      string `json:"path"`
	OutputDir string `json:"outputDir"`
}

type writePicRequest struct {
	Path    string `json:"path"`
	PicPath string `json:"picPath"`
}

// ReadMetadata handles POST /meta/read.
func (h *Handler) ReadMetadata(c *fiber.Ctx) error {
	var req pathRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	fields, err := h.service.ReadMetadata(c.UserContext(), req.Path).Wait(c.UserContext())
	if err != nil {
		return reject(c, err)
	}
	return c.JSON(fields)
}

// SaveMetadata handles POST /meta/save.
func (h *Handler) SaveMetadata(c *fiber.Ctx) error {
	var req saveRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	if _, err := h.service.SaveMetadata(c.UserContext(), req.Path, req.Metadata, req.Overwrite).Wait(c.UserContext()); err != nil {
		return reject(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ReadQuality handles POST /meta/quality/read.
func (h *Handler) ReadQuality(c *fiber.Ctx) error {
	var req pathRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	quality, err := h.service.ReadQuality(c.UserContext(), req.Path).Wait(c.UserContext())
	if err != nil {
		return reject(c, err)
	}
	return c.JSON(fiber.Map{"quality": quality})
}

// WriteQuality handles POST /meta/quality/write.
func (h *Handler) WriteQuality(c *fiber.Ctx) error {
	var req qualityRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	if _, err := h.service.WriteQuality(c.UserContext(), req.Path, req.Quality).Wait(c.UserContext()); err != nil {
		return reject(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ReadPic handles POST /meta/pic/read.
func (h *Handler) ReadPic(c *fiber.Ctx) error {
	var req readPicRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	path, err := h.service.ReadPic(c.UserContext(), req.Path, req.OutputDir).Wait(c.UserContext())
	if err != nil {
		return reject(c, err)
	}
	return c.JSON(fiber.Map{"path": path})
}

// ReadBase64Pic handles POST /meta/pic/base64.
func (h *Handler) ReadBase64Pic(c *fiber.Ctx) error {
	var req pathRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	uri, err := h.service.ReadBase64Pic(c.UserContext(), req.Path).Wait(c.UserContext())
	if err != nil {
		return reject(c, err)
	}
	return c.JSON(fiber.Map{"data": uri})
}

// WritePic handles POST /meta/pic/write.
func (h *Handler) WritePic(c *fiber.Ctx) error {
	var req writePicRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, err)
	}
	if _, err := h.service.WritePic(c.UserContext(), req.Path, req.PicPath).Wait(c.UserContext()); err != nil {
		return reject(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func badRequest(c *fiber.Ctx, err error) error {
	slog.Warn("Invalid metadata request", "path", c.Path(), "error", err)
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
		"code":    music.KindInvalid,
		"message": "Request body must be JSON",
	})
}

// reject converts an operation error into a structured rejection.
func reject(c *fiber.Ctx, err error) error {
	kind := music.KindOf(err)
	status := fiber.StatusInternalServerError
	if kind == music.KindInvalid {
		status = fiber.StatusUnprocessableEntity
	}
	code := string(kind)
	if code == "" {
		code = "UnexpectedError"
	}
	return c.Status(status).JSON(fiber.Map{
		"code":    code,
		"message": fmt.Sprintf("%s: %v", kind.Message(), err),
	})
}
