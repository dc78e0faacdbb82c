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

// CreateMentor inserts a new mentor account and returns the stored row.
// The slug is generated by the caller after the insert assigns an id, so
// the insert uses a placeholder slug derived from the email.
func (c *Client) CreateMentor(ctx context.Context, m *models.Mentor) (*models.Mentor, error) {
	start := time.Now()
	operation := "createMentor"

	query := fmt.Sprintf(`
		INSERT INTO mentors (email, password_hash, name, slug, specialization, internship_company,
		                     experience_years, bio, linkedin_url, mobile_no, photo_url, skills, career_areas)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING %s
	`, models.MentorColumns)

	row := c.pool.QueryRow(ctx, query,
		m.Email,
		m.PasswordHash,
		m.Name,
		m.Slug,
		nilIfEmpty(m.Specialization),
		nilIfEmpty(m.InternshipCompany),
		m.ExperienceYears,
		nilIfEmpty(m.Bio),
		nilIfEmpty(m.LinkedinURL),
		nilIfEmpty(m.MobileNo),
		nilIfEmpty(m.PhotoURL),
		m.Skills,
		m.CareerAreas,
	)

	created, err := models.ScanMentor(row)
	duration := metrics.MeasureDuration(start)

	if err != nil {
		if isUniqueViolation(err, "mentors_email_key") {
			recordMetrics(operation, "conflict", duration)
			return nil, fmt.Errorf("mentor email taken: %w", apperrors.ErrConflict)
		}
		if isUniqueViolation(err, "mentors_slug_key") {
			recordMetrics(operation, "conflict", duration)
			return nil, fmt.Errorf("mentor slug taken: %w", apperrors.ErrConflict)
		}
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to create mentor: %w", err)
	}

	recordMetrics(operation, "success", duration)
	logger.LogAPICall("postgres", operation, "success", duration, zap.Int64("mentor_id", created.ID))

	return created, nil
}

// UpdateMentorSlug sets the final slug once the row id is known
func (c *Client) UpdateMentorSlug(ctx context.Context, id int64, slug string) error {
	start := time.Now()
	operation := "updateMentorSlug"

	result, err := c.pool.Exec(ctx,
		"UPDATE mentors SET slug = $1, updated_at = NOW() WHERE id = $2", slug, id)

	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		return fmt.Errorf("failed to update mentor slug: %w", err)
	}
	if result.RowsAffected() == 0 {
		recordMetrics(operation, "not_found", duration)
		return fmt.Errorf("mentor %d: %w", id, apperrors.ErrNotFound)
	}

	recordMetrics(operation, "success", duration)
	return nil
}

// GetMentorByID returns a mentor by primary key
func (c *Client) GetMentorByID(ctx context.Context, id int64) (*models.Mentor, error) {
	start := time.Now()
	operation := "getMentorByID"

	query := fmt.Sprintf("SELECT %s FROM mentors WHERE id = $1", models.MentorColumns)
	mentor, err := models.ScanMentor(c.pool.QueryRow(ctx, query, id))

	duration := metrics.MeasureDuration(start)

	if errors.Is(err, pgx.ErrNoRows) {
		recordMetrics(operation, "not_found", duration)
		return nil, fmt.Errorf("mentor %d: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		recordMetrics(operation, "error", duration)
		return nil, fmt.Errorf("failed to get mentor: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return mentor, nil
}

// GetMentorByEmail returns a mentor by email
func (c *Client) GetMentorByEmail(ctx context.Context, email string) (*models.Mentor, error) {
	start := time.Now()
	operation := "getMentorByEmail"

	query := fmt.Sprintf("SELECT %s FROM mentors WHERE email = $1", models.MentorColumns)
	mentor, err := models.ScanMentor(c.pool.QueryRow(ctx, query, email))

	duration := metrics.MeasureDuration(start)

	if errors.Is(err, pgx.ErrNoRows) {
		recordMetrics(operation, "not_found", duration)
		return nil, fmt.Errorf("mentor by email: %w", apperrors.ErrNotFound)
	}
	if err != nil {
		recordMetrics(operation, "error", duration)
		return nil, fmt.Errorf("failed to get mentor by email: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return mentor, nil
}

// GetMentorBySlug returns a mentor by its public slug
func (c *Client) GetMentorBySlug(ctx context.Context, slug string) (*models.Mentor, error) {
	start := time.Now()
	operation := "getMentorBySlug"

	query := fmt.Sprintf("SELECT %s FROM mentors WHERE slug = $1", models.MentorColumns)
	mentor, err := models.ScanMentor(c.pool.QueryRow(ctx, query, slug))

	duration := metrics.MeasureDuration(start)

	if errors.Is(err, pgx.ErrNoRows) {
		recordMetrics(operation, "not_found", duration)
		return nil, fmt.Errorf("mentor %q: %w", slug, apperrors.ErrNotFound)
	}
	if err != nil {
		recordMetrics(operation, "error", duration)
		return nil, fmt.Errorf("failed to get mentor by slug: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return mentor, nil
}

// ListMentors returns all mentors for the browse page, newest first
func (c *Client) ListMentors(ctx context.Context) ([]*models.Mentor, error) {
	start := time.Now()
	operation := "listMentors"

	query := fmt.Sprintf("SELECT %s FROM mentors ORDER BY created_at DESC", models.MentorColumns)

	rows, err := c.pool.Query(ctx, query)
	if err != nil {
		duration := metrics.MeasureDuration(start)
		recordMetrics(operation, "error", duration)
		return nil, fmt.Errorf("failed to list mentors: %w", err)
	}

	mentors, err := models.ScanMentors(rows)
	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		return nil, fmt.Errorf("failed to scan mentors: %w", err)
	}

	recordMetrics(operation, "success", duration)
	logger.LogAPICall("postgres", operation, "success", duration, zap.Int("count", len(mentors)))

	return mentors, nil
}

// UpdateMentorPhotoURL stores the uploaded profile picture URL
func (c *Client) UpdateMentorPhotoURL(ctx context.Context, id int64, photoURL string) error {
	return c.updatePhotoURL(ctx, "mentors", "updateMentorPhotoURL", id, photoURL)
}

// SetMentorVerifyOTP stores a fresh email verification code
func (c *Client) SetMentorVerifyOTP(ctx context.Context, id int64, otp string, expiresAt time.Time) error {
	return c.setOTP(ctx, "mentors", "verify", "setMentorVerifyOTP", id, otp, expiresAt)
}

// MarkMentorVerified flips is_verified and clears the verification code
func (c *Client) MarkMentorVerified(ctx context.Context, id int64) error {
	return c.markVerified(ctx, "mentors", "markMentorVerified", id)
}

// SetMentorResetOTP stores a fresh password reset code
func (c *Client) SetMentorResetOTP(ctx context.Context, id int64, otp string, expiresAt time.Time) error {
	return c.setOTP(ctx, "mentors", "reset", "setMentorResetOTP", id, otp, expiresAt)
}

// UpdateMentorPassword replaces the password hash and clears the reset code
func (c *Client) UpdateMentorPassword(ctx context.Context, id int64, passwordHash string) error {
	return c.updatePassword(ctx, "mentors", "updateMentorPassword", id, passwordHash)
}
