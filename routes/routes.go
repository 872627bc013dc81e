package routes

import (
	"forecastai/handlers"
	"forecastai/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes defines all the routes for the application.
func SetupRoutes(app *fiber.App) {
	// --- Health ---
	app.Get("/health", handlers.HandleHealth)
	app.Head("/health", handlers.HandleHealth)

	// --- Authentication Routes ---
	auth := app.Group("/auth")
	auth.Post("/register", handlers.HandleRegister)
	auth.Post("/login", handlers.HandleLogin)
	auth.Post("/forgot-password", handlers.HandleForgotPassword)
	auth.Post("/reset-password", handlers.HandleResetPassword)

	// --- Forecasting Routes ---
	forecast := app.Group("/api/forecast", middleware.JWTMiddleware)
	forecast.Post("/preview", handlers.HandlePreview)
	forecast.Post("/upload-and-process", handlers.HandleUploadAndProcess)

	// --- AI Insights Routes ---
	insights := app.Group("/api/insights", middleware.JWTMiddleware)
	insights.Post("/summary", handlers.HandleInsightsSummary)
}
