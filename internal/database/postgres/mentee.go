package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/mentorlinq/mentorlinq-api/internal/models"
	"github.com/mentorlinq/mentorlinq-api/pkg/apperrors"
	"github.com/mentorlinq/mentorlinq-api/pkg/logger"
	"github.com/mentorlinq/mentorlinq-api/pkg/metrics"
	"go.uber.org/zap"
)

// CreateMentee inserts a new mentee account and returns the stored row
func (c *Client) CreateMentee(ctx context.Context, m *models.Mentee) (*models.Mentee, error) {
	start := time.Now()
	operation := "createMentee"

	query := fmt.Sprintf(`
		INSERT INTO mentees (email, password_hash, name, specialization, bio, linkedin_url,
		                     mobile_no, photo_url, career_interests, mentorship_areas)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING %s
	`, models.MenteeColumns)

	row := c.pool.QueryRow(ctx, query,
		m.Email,
		m.PasswordHash,
		m.Name,
		nilIfEmpty(m.Specialization),
		nilIfEmpty(m.Bio),
		nilIfEmpty(m.LinkedinURL),
		nilIfEmpty(m.MobileNo),
		nilIfEmpty(m.PhotoURL),
		m.CareerInterests,
		m.MentorshipAreas,
	)

	created, err := models.ScanMentee(row)
	duration := metrics.MeasureDuration(start)

	if err != nil {
		if isUniqueViolation(err, "mentees_email_key") {
			recordMetrics(operation, "conflict", duration)
			return nil, fmt.Errorf("mentee email taken: %w", apperrors.ErrConflict)
		}
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to create mentee: %w", err)
	}

	recordMetrics(operation, "success", duration)
	logger.LogAPICall("postgres", operation, "success", duration, zap.Int64("mentee_id", created.ID))

	return created, nil
}

// GetMenteeByID returns a mentee by primary key
func (c *Client) GetMenteeByID(ctx context.Context, id int64) (*models.Mentee, error) {
	start := time.Now()
	operation := "getMenteeByID"

	query := fmt.Sprintf("SELECT %s FROM mentees WHERE id = $1", models.MenteeColumns)
	mentee, err := models.ScanMentee(c.pool.QueryRow(ctx, query, id))

	duration := metrics.MeasureDuration(start)

	if errors.Is(err, pgx.ErrNoRows) {
		recordMetrics(operation, "not_found", duration)
		return nil, fmt.Errorf("mentee %d: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		recordMetrics(operation, "error", duration)
		return nil, fmt.Errorf("failed to get mentee: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return mentee, nil
}

// GetMenteeByEmail returns a mentee by email
func (c *Client) GetMenteeByEmail(ctx context.Context, email string) (*models.Mentee, error) {
	start := time.Now()
	operation := "getMenteeByEmail"

	query := fmt.Sprintf("SELECT %s FROM mentees WHERE email = $1", models.MenteeColumns)
	mentee, err := models.ScanMentee(c.pool.QueryRow(ctx, query, email))

	duration := metrics.MeasureDuration(start)

	if errors.Is(err, pgx.ErrNoRows) {
		recordMetrics(operation, "not_found", duration)
		return nil, fmt.Errorf("mentee by email: %w", apperrors.ErrNotFound)
	}
	if err != nil {
		recordMetrics(operation, "error", duration)
		return nil, fmt.Errorf("failed to get mentee by email: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return mentee, nil
}

// UpdateMenteePhotoURL stores the uploaded profile picture URL
func (c *Client) UpdateMenteePhotoURL(ctx context.Context, id int64, photoURL string) error {
	return c.updatePhotoURL(ctx, "mentees", "updateMenteePhotoURL", id, photoURL)
}

// SetMenteeVerifyOTP stores a fresh email verification code
func (c *Client) SetMenteeVerifyOTP(ctx context.Context, id int64, otp string, expiresAt time.Time) error {
	return c.setOTP(ctx, "mentees", "verify", "setMenteeVerifyOTP", id, otp, expiresAt)
}

// MarkMenteeVerified flips is_verified and clears the verification code
func (c *Client) MarkMenteeVerified(ctx context.Context, id int64) error {
	return c.markVerified(ctx, "mentees", "markMenteeVerified", id)
}

// SetMenteeResetOTP stores a fresh password reset code
func (c *Client) SetMenteeResetOTP(ctx context.Context, id int64, otp string, expiresAt time.Time) error {
	return c.setOTP(ctx, "mentees", "reset", "setMenteeResetOTP", id, otp, expiresAt)
}

// UpdateMenteePassword replaces the password hash and clears the reset code
func (c *Client) UpdateMenteePassword(ctx context.Context, id int64, passwordHash string) error {
	return c.updatePassword(ctx, "mentees", "updateMenteePassword", id, passwordHash)
}

// updatePhotoURL is shared by both principal tables
func (c *Client) updatePhotoURL(ctx context.Context, table, operation string, id int64, photoURL string) error {
	start := time.Now()

	query := fmt.Sprintf("UPDATE %s SET photo_url = $1, updated_at = NOW() WHERE id = $2", table)
	result, err := c.pool.Exec(ctx, query, photoURL, id)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return fmt.Errorf("failed to update photo url: %w", err)
	}
	if result.RowsAffected() == 0 {
		recordMetrics(operation, "not_found", duration)
		return fmt.Errorf("principal %d: %w", id, apperrors.ErrNotFound)
	}

	recordMetrics(operation, "success", duration)
	return nil
}

// setOTP writes either the verify or reset code pair
func (c *Client) setOTP(ctx context.Context, table, kind, operation string, id int64, otp string, expiresAt time.Time) error {
	start := time.Now()

	query := fmt.Sprintf(
		"UPDATE %s SET %s_otp = $1, %s_otp_expires_at = $2, updated_at = NOW() WHERE id = $3",
		table, kind, kind)
	result, err := c.pool.Exec(ctx, query, otp, expiresAt, id)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return fmt.Errorf("failed to set otp: %w", err)
	}
	if result.RowsAffected() == 0 {
		recordMetrics(operation, "not_found", duration)
		return fmt.Errorf("principal %d: %w", id, apperrors.ErrNotFound)
	}

	recordMetrics(operation, "success", duration)
	return nil
}

func (c *Client) markVerified(ctx context.Context, table, operation string, id int64) error {
	start := time.Now()

	query := fmt.Sprintf(`
		UPDATE %s
		SET is_verified = TRUE, verify_otp = '', verify_otp_expires_at = NULL, updated_at = NOW()
		WHERE id = $1
	`, table)
	result, err := c.pool.Exec(ctx, query, id)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		return fmt.Errorf("failed to mark verified: %w", err)
	}
	if result.RowsAffected() == 0 {
		recordMetrics(operation, "not_found", duration)
		return fmt.Errorf("principal %d: %w", id, apperrors.ErrNotFound)
	}

	recordMetrics(operation, "success", duration)
	return nil
}

func (c *Client) updatePassword(ctx context.Context, table, operation string, id int64, passwordHash string) error {
	start := time.Now()

	query := fmt.Sprintf(`
		UPDATE %s
		SET password_hash = $1, reset_otp = '', reset_otp_expires_at = NULL, updated_at = NOW()
		WHERE id = $2
	`, table)
	result, err := c.pool.Exec(ctx, query, passwordHash, id)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return fmt.Errorf("failed to update password: %w", err)
	}
	if result.RowsAffected() == 0 {
		recordMetrics(operation, "not_found", duration)
		return fmt.Errorf("principal %d: %w", id, apperrors.ErrNotFound)
	}

	recordMetrics(operation, "success", duration)
	return nil
}

// nilIfEmpty returns nil if string is empty, otherwise returns pointer to string
func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
