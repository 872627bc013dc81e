package database

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"forecastai/models"
)

// ErrUserNotFound is returned when no user record matches the lookup.
var ErrUserNotFound = errors.New("user not found")

// ErrEmailTaken is returned when registering an email that already exists.
var ErrEmailTaken = errors.New("email already registered")

// CreateUser inserts a new account and starts its free trial.
func CreateUser(ctx context.Context, email, passwordHash, fullName, companyName string, trialDays int) (*models.User, error) {
	query := `
		INSERT INTO users (email, password_hash, full_name, company_name, trial_started_at, trial_ends_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW() + ($5 || ' days')::interval)
		ON CONFLICT (email) DO NOTHING
		RETURNING id, email, full_name, company_name, is_verified, trial_started_at, trial_ends_at, created_at
	`

	var user models.User
	err := GetDB().QueryRow(ctx, query, email, passwordHash, fullName, companyName, trialDays).Scan(
		&user.ID, &user.Email, &user.FullName, &user.CompanyName,
		&user.IsVerified, &user.TrialStartedAt, &user.TrialEndsAt, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail fetches a user record plus its password hash.
func GetUserByEmail(ctx context.Context, email string) (*models.User, string, error) {
	query := `
		SELECT id, email, password_hash, full_name, company_name, is_verified,
		       trial_started_at, trial_ends_at, created_at, last_login_at
		FROM users
		WHERE email = $1
	`

	var user models.User
	var passwordHash string
	err := GetDB().QueryRow(ctx, query, email).Scan(
		&user.ID, &user.Email, &passwordHash, &user.FullName, &user.CompanyName,
		&user.IsVerified, &user.TrialStartedAt, &user.TrialEndsAt, &user.CreatedAt, &user.LastLoginAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", ErrUserNotFound
		}
		return nil, "", err
	}
	return &user, passwordHash, nil
}

// TrialEndsAt reads only the trial expiry field for a user.
func TrialEndsAt(ctx context.Context, userID string) (time.Time, error) {
	var endsAt time.Time
	err := GetDB().QueryRow(ctx, `SELECT trial_ends_at FROM users WHERE id = $1`, userID).Scan(&endsAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, ErrUserNotFound
		}
		return time.Time{}, err
	}
	return endsAt, nil
}

// TouchLastLogin stamps the user's last successful login.
func TouchLastLogin(ctx context.Context, userID string) error {
	_, err := GetDB().Exec(ctx, `UPDATE users SET last_login_at = NOW() WHERE id = $1`, userID)
	return err
}

// SetResetOTP stores a hashed password-reset code and its expiry.
func SetResetOTP(ctx context.Context, email, otpHash string, expiresAt time.Time) error {
	tag, err := GetDB().Exec(ctx,
		`UPDATE users SET reset_otp_hash = $2, reset_otp_expires_at = $3 WHERE email = $1`,
		email, otpHash, expiresAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// GetResetOTP reads the stored reset code hash and expiry for an email.
func GetResetOTP(ctx context.Context, email string) (otpHash string, expiresAt time.Time, err error) {
	err = GetDB().QueryRow(ctx,
		`SELECT COALESCE(reset_otp_hash, ''), COALESCE(reset_otp_expires_at, 'epoch'::timestamptz)
		 FROM users WHERE email = $1`, email).Scan(&otpHash, &expiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", time.Time{}, ErrUserNotFound
	}
	return otpHash, expiresAt, err
}

// UpdatePassword rewrites the password hash and clears any pending OTP.
func UpdatePassword(ctx context.Context, email, passwordHash string) error {
	tag, err := GetDB().Exec(ctx,
		`UPDATE users SET password_hash = $2, reset_otp_hash = NULL, reset_otp_expires_at = NULL WHERE email = $1`,
		email, passwordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}
