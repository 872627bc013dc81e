package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"net/smtp"

	"forecastai/config"
)

// GenerateOTP returns a random 6-digit one-time code.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// SendOTPEmail delivers a password-reset code. Delivery is best-effort glue
// around the core; the caller decides how to react to failure.
func SendOTPEmail(toEmail, otp string) error {
	cfg := config.AppConfig
	if cfg.SMTPHost == "" {
		return fmt.Errorf("SMTP not configured")
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: Your password reset code\r\n\r\n"+
		"Your one-time password reset code is: %s\r\n\r\nIt expires in 10 minutes.\r\n",
		cfg.SMTPFrom, toEmail, otp)

	addr := cfg.SMTPHost + ":" + cfg.SMTPPort
	auth := smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPHost)
	return smtp.SendMail(addr, auth, cfg.SMTPFrom, []string{toEmail}, []byte(msg))
}
