package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campusops/issue-service/internal/observability"
)

// MetricsHandler exposes the in-memory request and error counters.
type MetricsHandler struct {
	metrics *observability.Metrics
}

func NewMetricsHandler(metrics *observability.Metrics) *MetricsHandler {
	return &MetricsHandler{metrics: metrics}
}

func (h *MetricsHandler) Metrics(c *fiber.Ctx) error {
	requests, errors := h.metrics.Snapshot()
	return c.JSON(fiber.Map{
		"requests": requests,
		"errors":   errors,
	})
}
