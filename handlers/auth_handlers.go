package handlers

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"forecastai/config"
	"forecastai/database"
	"forecastai/models"
	"forecastai/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

const otpTTL = 10 * time.Minute

// HandleRegister creates a new account and starts its free trial.
// POST /auth/register
func HandleRegister(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Cannot parse JSON"})
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" || req.FullName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Missing required fields (email, password, full_name)"})
	}
	if len(req.Password) < 8 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Password must be at least 8 characters"})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Could not process password"})
	}

	user, err := database.CreateUser(context.Background(), req.Email, string(hashedPassword),
		req.FullName, req.CompanyName, config.AppConfig.TrialDays)
	if err != nil {
		if errors.Is(err, database.ErrEmailTaken) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Email already registered"})
		}
		log.Printf("Error creating user in database: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Could not create user"})
	}

	log.Printf("✅ Registered %s (trial until %s)", user.Email, user.TrialEndsAt.Format("2006-01-02"))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"status": "success", "data": user})
}

// HandleLogin authenticates a user and returns a JWT token.
// POST /auth/login
func HandleLogin(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Cannot parse JSON"})
	}

	ctx := context.Background()
	user, passwordHash, err := database.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": "Invalid credentials"})
		}
		log.Printf("Database error during login for email %s: %v", req.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Database error"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"status": "error", "message": "Invalid credentials"})
	}

	token, err := createJWT(user.ID, user.Email, req.StayLoggedIn)
	if err != nil {
		log.Printf("Error creating JWT for user %s: %v", user.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Could not sign token"})
	}

	if err := database.TouchLastLogin(ctx, user.ID); err != nil {
		log.Printf("⚠️  Failed to record last login for %s: %v", user.ID, err)
	}

	return c.JSON(fiber.Map{"accessToken": token, "user": user})
}

// HandleForgotPassword generates a reset OTP and emails it. The response is
// the same whether or not the email exists, so accounts cannot be enumerated.
// POST /auth/forgot-password
func HandleForgotPassword(c *fiber.Ctx) error {
	var req models.PasswordResetRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Cannot parse JSON"})
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	neutral := fiber.Map{"status": "success", "message": "If the email is registered, a reset code has been sent"}

	otp, err := utils.GenerateOTP()
	if err != nil {
		log.Printf("Error generating OTP: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Could not generate reset code"})
	}

	otpHash, err := bcrypt.GenerateFromPassword([]byte(otp), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Could not process reset code"})
	}

	err = database.SetResetOTP(context.Background(), email, string(otpHash), time.Now().Add(otpTTL))
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			return c.JSON(neutral)
		}
		log.Printf("Error storing OTP for %s: %v", email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Database error"})
	}

	if err := utils.SendOTPEmail(email, otp); err != nil {
		log.Printf("⚠️  Failed to send OTP email to %s: %v", email, err)
	}
	return c.JSON(neutral)
}

// HandleResetPassword verifies the OTP and rewrites the password hash.
// POST /auth/reset-password
func HandleResetPassword(c *fiber.Ctx) error {
	var req models.PasswordResetConfirm
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Cannot parse JSON"})
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if len(req.NewPassword) < 8 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Password must be at least 8 characters"})
	}

	ctx := context.Background()
	otpHash, expiresAt, err := database.GetResetOTP(ctx, email)
	if err != nil {
		if errors.Is(err, database.ErrUserNotFound) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid or expired reset code"})
		}
		log.Printf("Error reading OTP for %s: %v", email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Database error"})
	}

	if otpHash == "" || time.Now().After(expiresAt) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid or expired reset code"})
	}
	if err := bcrypt.CompareHashAndPassword([]byte(otpHash), []byte(req.OTP)); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid or expired reset code"})
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Could not process password"})
	}
	if err := database.UpdatePassword(ctx, email, string(newHash)); err != nil {
		log.Printf("Error updating password for %s: %v", email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Database error"})
	}

	log.Printf("✅ Password reset for %s", email)
	return c.JSON(fiber.Map{"status": "success", "message": "Password updated"})
}

// createJWT signs an access token. Stay-logged-in sessions last 30 days,
// regular ones 24 hours.
func createJWT(userID, email string, stayLoggedIn bool) (string, error) {
	ttl := 24 * time.Hour
	if stayLoggedIn {
		ttl = 30 * 24 * time.Hour
	}

	claims := models.JwtClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.AppConfig.JWTSecret))
}
