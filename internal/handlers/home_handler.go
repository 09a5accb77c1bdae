package handlers

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
)

// HomeHandler serves the welcome and health endpoints.
type HomeHandler struct {
	ping func() error
}

// NewHomeHandler creates a new HomeHandler. ping reports whether the store is reachable.
func NewHomeHandler(ping func() error) *HomeHandler {
	return &HomeHandler{ping: ping}
}

// RegisterRoutes registers the welcome and health routes with the Fiber app.
func (h *HomeHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/", h.HandleHome)
	router.Get("/health", h.HandleHealth)
}

// HandleHome greets the caller.
func (h *HomeHandler) HandleHome(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Hello! Welcome to the FASTAPI Tutorial.",
	})
}

// HandleHealth reports whether the store answers.
func (h *HomeHandler) HandleHealth(c *fiber.Ctx) error {
	if h.ping != nil {
		if err := h.ping(); err != nil {
			log.Printf("Health check failed: %v", err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "unhealthy",
				"error":  err.Error(),
			})
		}
	}
	return c.JSON(fiber.Map{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}
