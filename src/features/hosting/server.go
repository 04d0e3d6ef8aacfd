package hosting

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/contre95/lxbridge/src/features/bridge"
	"github.com/contre95/lxbridge/src/features/config"
	"github.com/contre95/lxbridge/src/features/metadata"
	"github.com/contre95/lxbridge/src/features/metrics"
	"github.com/contre95/lxbridge/src/features/opening"
	"github.com/gofiber/fiber/v2"
)

// Server is the HTTP server for the application.
type Server struct {
	app     *fiber.App
	emitter *bridge.Emitter
	port    uint32
}

// NewServer creates a new HTTP server.
func NewServer(cfg *config.Manager, router *opening.Router, emitter *bridge.Emitter, metadataService *metadata.Service, appMetrics *metrics.Metrics) *Server {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				code = fe.Code
			}
			if code >= fiber.StatusInternalServerError {
				slog.Error("Internal Server Error", "error", err)
			}
			return c.Status(code).JSON(fiber.Map{
				"code":    "UnexpectedError",
				"message": err.Error(),
			})
		},
		AppName:               "lxbridge",
		DisableStartupMessage: true,
		EnablePrintRoutes:     cfg.Get().Server.PrintRoutes,
		BodyLimit:             32 * 1024 * 1024, // data URIs of large covers
	})

	// Add middleware
	app.Use(RequestIDMiddleware())
	app.Use(LogAllRequestsMiddleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})

	config.RegisterRoutes(app, cfg)
	opening.RegisterRoutes(app, router)
	bridge.RegisterRoutes(app, emitter)
	metadata.RegisterRoutes(app, metadataService)
	metrics.RegisterRoutes(app, appMetrics)

	return &Server{app: app, emitter: emitter, port: cfg.Get().Server.Port}
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	return s.app.Listen(":" + fmt.Sprint(s.port))
}

// Shutdown closes the event stream, then gracefully shuts down the server.
func (s *Server) Shutdown() error {
	s.emitter.Close()
	return s.app.Shutdown()
}
