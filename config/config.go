package config

// Config struct holds application configuration
// This is a simple way to make config accessible globally.
// A more advanced approach might use dependency injection.
type Config struct {
	JWTSecret    string
	GeminiAPIKey string

	// SMTP settings for password-reset OTP delivery.
	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
	SMTPFrom string

	// TrialDays is the free-trial length granted at registration.
	TrialDays int
}

// AppConfig holds the application-wide configuration
var AppConfig Config
