package handlers

import (
	"context"
	"time"

	"forecastai/database"

	"github.com/gofiber/fiber/v2"
)

// HandleHealth is a public liveness check for monitoring services.
// GET|HEAD /health
func HandleHealth(c *fiber.Ctx) error {
	dbStatus := "connected"
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if db := database.GetDB(); db == nil || db.Ping(ctx) != nil {
		dbStatus = "disconnected"
	}

	if c.Method() == fiber.MethodHead {
		return c.SendStatus(fiber.StatusOK)
	}
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"service":   "ForecastAI",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"database":  dbStatus,
	})
}
