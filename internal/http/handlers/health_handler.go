package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"stockroom/internal/log"
	"stockroom/internal/services"
)

type HealthHandler struct {
	Items *services.ItemService
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ts := time.Now().UTC().Format(time.RFC3339)
	if err := h.Items.Ping(); err != nil {
		log.Error(c, "health.db", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":    "unhealthy",
			"error":     err.Error(),
			"timestamp": ts,
		})
	}
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": ts,
	})
}
