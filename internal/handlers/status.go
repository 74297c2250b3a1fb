package handlers

import "github.com/gofiber/fiber/v2"

// Version is reported by /health
const Version = "1.0.0"

// StatusHandler serves liveness checks
type StatusHandler struct {
	apiKeyConfigured bool
}

// NewStatusHandler creates a status handler for the configured credential
func NewStatusHandler(apiKey string) *StatusHandler {
	return &StatusHandler{
		apiKeyConfigured: apiKey != "",
	}
}

// Test reports liveness and whether the provider credential is set
func (h *StatusHandler) Test(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":             "ok",
		"api_key_configured": h.apiKeyConfigured,
	})
}

// Health is the plain health check
func (h *StatusHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"version": Version,
	})
}
