package handler

import "github.com/gofiber/fiber/v2"

// Live reports process liveness.
func (h *Handler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "alive", "service": "shift-planner"})
}

// Ready reports readiness by pinging the database.
func (h *Handler) Ready(c *fiber.Ctx) error {
	if err := h.storage.Ping(); err != nil {
		h.logger.WithError(err).Warn("Readiness check failed")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "DEPENDENCY_UNAVAILABLE",
				"message": "database unavailable",
				"details": fiber.Map{"sqlite": err.Error()},
			},
		})
	}
	return c.JSON(fiber.Map{
		"status":       "ready",
		"dependencies": fiber.Map{"sqlite": "ok"},
	})
}
