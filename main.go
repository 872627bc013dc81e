package main

import (
	"log"
	"os"
	"strconv"

	"forecastai/config"
	"forecastai/database"
	"forecastai/middleware"
	"forecastai/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	// Load configuration
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	// Set up the application configuration
	config.AppConfig.JWTSecret = jwtSecret
	config.AppConfig.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	config.AppConfig.SMTPHost = os.Getenv("SMTP_HOST")
	config.AppConfig.SMTPPort = os.Getenv("SMTP_PORT")
	config.AppConfig.SMTPUser = os.Getenv("SMTP_USER")
	config.AppConfig.SMTPPass = os.Getenv("SMTP_PASS")
	config.AppConfig.SMTPFrom = os.Getenv("SMTP_FROM")

	config.AppConfig.TrialDays = 14
	if v := os.Getenv("TRIAL_DAYS"); v != "" {
		if days, err := strconv.Atoi(v); err == nil && days > 0 {
			config.AppConfig.TrialDays = days
		}
	}

	// Initialize database
	database.Connect(databaseURL)
	defer database.Close()

	app := fiber.New(fiber.Config{BodyLimit: 32 * 1024 * 1024})

	// Add CORS middleware
	app.Use(cors.New())
	app.Use(middleware.RequestLogger)

	// Setup routes
	routes.SetupRoutes(app)

	// Start server
	log.Fatal(app.Listen(":3000"))
}
