package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler handles HTTP requests for the metrics feature.
type Handler struct {
	metrics *Metrics
}

// NewHandler creates a new metrics handler.
func NewHandler(metrics *Metrics) *Handler {
	return &Handler{metrics: metrics}
}

// Scrape serves the collectors in the Prometheus exposition format.
func (h *Handler) Scrape() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(h.metrics.Registry(), promhttp.HandlerOpts{}))
}
