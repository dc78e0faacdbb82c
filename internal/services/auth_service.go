package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/mentorlinq/mentorlinq-api/config"
	"github.com/mentorlinq/mentorlinq-api/internal/models"
	"github.com/mentorlinq/mentorlinq-api/internal/repository"
	"github.com/mentorlinq/mentorlinq-api/pkg/apperrors"
	"github.com/mentorlinq/mentorlinq-api/pkg/httpclient"
	"github.com/mentorlinq/mentorlinq-api/pkg/jwt"
	"github.com/mentorlinq/mentorlinq-api/pkg/logger"
	"github.com/mentorlinq/mentorlinq-api/pkg/metrics"
	"github.com/mentorlinq/mentorlinq-api/pkg/slug"
	"github.com/mentorlinq/mentorlinq-api/pkg/trigger"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	bcryptCost   = 12
	verifyOTPTTL = 24 * time.Hour
	resetOTPTTL  = 15 * time.Minute
)

// AuthService handles registration, login and the OTP flows for both
// principal kinds
type AuthService struct {
	mentees      repository.MenteeRepository
	mentors      repository.MentorRepository
	tokenManager *jwt.TokenManager
	config       *config.Config
	httpClient   httpclient.Client
}

// NewAuthService creates a new AuthService
func NewAuthService(
	mentees repository.MenteeRepository,
	mentors repository.MentorRepository,
	tokenManager *jwt.TokenManager,
	cfg *config.Config,
	httpClient httpclient.Client,
) *AuthService {
	return &AuthService{
		mentees:      mentees,
		mentors:      mentors,
		tokenManager: tokenManager,
		config:       cfg,
		httpClient:   httpClient,
	}
}

// principalRecord is the kind-neutral account view the auth flows
// operate on
type principalRecord struct {
	ID              int64
	Email           string
	Name            string
	PasswordHash    string
	IsVerified      bool
	VerifyOTP       string
	VerifyOTPExpiry *time.Time
	ResetOTP        string
	ResetOTPExpiry  *time.Time
}

func menteeRecord(m *models.Mentee) *principalRecord {
	return &principalRecord{
		ID: m.ID, Email: m.Email, Name: m.Name, PasswordHash: m.PasswordHash,
		IsVerified: m.IsVerified,
		VerifyOTP:  m.VerifyOTP, VerifyOTPExpiry: m.VerifyOTPExpiry,
		ResetOTP: m.ResetOTP, ResetOTPExpiry: m.ResetOTPExpiry,
	}
}

func mentorRecord(m *models.Mentor) *principalRecord {
	return &principalRecord{
		ID: m.ID, Email: m.Email, Name: m.Name, PasswordHash: m.PasswordHash,
		IsVerified: m.IsVerified,
		VerifyOTP:  m.VerifyOTP, VerifyOTPExpiry: m.VerifyOTPExpiry,
		ResetOTP: m.ResetOTP, ResetOTPExpiry: m.ResetOTPExpiry,
	}
}

// RegisterMentee creates a mentee account and opens a session
func (s *AuthService) RegisterMentee(ctx context.Context, req *models.RegisterMenteeRequest) (*models.Mentee, *models.Session, string, error) {
	passwordHash, err := hashPassword(req.Password)
	if err != nil {
		return nil, nil, "", err
	}

	mentee, err := s.mentees.CreateMentee(ctx, &models.Mentee{
		Email:           req.Email,
		PasswordHash:    passwordHash,
		Name:            req.Name,
		Specialization:  req.Specialization,
		Bio:             req.Bio,
		LinkedinURL:     req.LinkedinURL,
		MobileNo:        req.MobileNo,
		CareerInterests: req.CareerInterests,
		MentorshipAreas: req.MentorshipAreas,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			metrics.Registrations.WithLabelValues(string(models.KindMentee), "conflict").Inc()
		} else {
			metrics.Registrations.WithLabelValues(string(models.KindMentee), "error").Inc()
		}
		return nil, nil, "", err
	}

	metrics.Registrations.WithLabelValues(string(models.KindMentee), "success").Inc()
	logger.Info("Mentee registered", zap.Int64("mentee_id", mentee.ID))

	session, token, err := s.openSession(models.KindMentee, menteeRecord(mentee))
	if err != nil {
		return nil, nil, "", err
	}

	// Kick off email verification right away; failure only delays the
	// verified badge, never the signup.
	if err := s.SendVerificationOTP(ctx, models.KindMentee, mentee.ID); err != nil {
		logger.Warn("Failed to send verification code after signup",
			zap.Int64("mentee_id", mentee.ID), zap.Error(err))
	}

	return mentee, session, token, nil
}

// RegisterMentor creates a mentor account, assigns its public slug and
// opens a session
func (s *AuthService) RegisterMentor(ctx context.Context, req *models.RegisterMentorRequest) (*models.Mentor, *models.Session, string, error) {
	passwordHash, err := hashPassword(req.Password)
	if err != nil {
		return nil, nil, "", err
	}

	mentor, err := s.mentors.CreateMentor(ctx, &models.Mentor{
		Email:             req.Email,
		PasswordHash:      passwordHash,
		Name:              req.Name,
		Slug:              "pending-" + uuid.NewString(),
		Specialization:    req.Specialization,
		InternshipCompany: req.InternshipCompany,
		ExperienceYears:   req.ExperienceYears,
		Bio:               req.Bio,
		LinkedinURL:       req.LinkedinURL,
		MobileNo:          req.MobileNo,
		Skills:            req.Skills,
		CareerAreas:       req.CareerAreas,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			metrics.Registrations.WithLabelValues(string(models.KindMentor), "conflict").Inc()
		} else {
			metrics.Registrations.WithLabelValues(string(models.KindMentor), "error").Inc()
		}
		return nil, nil, "", err
	}

	// The slug embeds the row id, so it is assigned after the insert
	finalSlug := slug.GenerateProfileSlug(mentor.Name, mentor.ID)
	if err := s.mentors.UpdateMentorSlug(ctx, mentor.ID, finalSlug); err != nil {
		logger.Error("Failed to assign mentor slug",
			zap.Int64("mentor_id", mentor.ID), zap.Error(err))
	} else {
		mentor.Slug = finalSlug
	}

	metrics.Registrations.WithLabelValues(string(models.KindMentor), "success").Inc()
	logger.Info("Mentor registered",
		zap.Int64("mentor_id", mentor.ID),
		zap.String("slug", mentor.Slug))

	session, token, err := s.openSession(models.KindMentor, mentorRecord(mentor))
	if err != nil {
		return nil, nil, "", err
	}

	if err := s.SendVerificationOTP(ctx, models.KindMentor, mentor.ID); err != nil {
		logger.Warn("Failed to send verification code after signup",
			zap.Int64("mentor_id", mentor.ID), zap.Error(err))
	}

	return mentor, session, token, nil
}

// Login verifies credentials and opens a session of the given kind.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, kind models.PrincipalKind, req *models.LoginRequest) (*models.Session, string, error) {
	record, err := s.getByEmail(ctx, kind, req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			metrics.AuthLogins.WithLabelValues(string(kind), "unknown_email").Inc()
			return nil, "", fmt.Errorf("invalid credentials: %w", apperrors.ErrUnauthorized)
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(record.PasswordHash), []byte(req.Password)); err != nil {
		metrics.AuthLogins.WithLabelValues(string(kind), "bad_password").Inc()
		logger.Warn("Login failed: password mismatch",
			zap.String("kind", string(kind)),
			zap.Int64("principal_id", record.ID))
		return nil, "", fmt.Errorf("invalid credentials: %w", apperrors.ErrUnauthorized)
	}

	session, token, err := s.openSession(kind, record)
	if err != nil {
		return nil, "", err
	}

	metrics.AuthLogins.WithLabelValues(string(kind), "success").Inc()
	logger.Info("Login successful",
		zap.String("kind", string(kind)),
		zap.Int64("principal_id", record.ID))

	return session, token, nil
}

// SendVerificationOTP stores a fresh 6-digit code and fans it out to
// the email trigger. Already-verified accounts get a conflict.
func (s *AuthService) SendVerificationOTP(ctx context.Context, kind models.PrincipalKind, principalID int64) error {
	record, err := s.getByID(ctx, kind, principalID)
	if err != nil {
		return err
	}

	if record.IsVerified {
		return fmt.Errorf("account already verified: %w", apperrors.ErrConflict)
	}

	otp, err := generateOTP()
	if err != nil {
		return err
	}

	expiresAt := time.Now().Add(verifyOTPTTL)
	if err := s.setVerifyOTP(ctx, kind, principalID, otp, expiresAt); err != nil {
		return err
	}

	s.deliverOTP(s.config.EventTriggers.VerificationEmailTriggerURL, kind, record, otp, "verification")
	return nil
}

// VerifyEmail confirms a verification code and flips is_verified
func (s *AuthService) VerifyEmail(ctx context.Context, kind models.PrincipalKind, principalID int64, otp string) error {
	record, err := s.getByID(ctx, kind, principalID)
	if err != nil {
		return err
	}

	if record.IsVerified {
		return fmt.Errorf("account already verified: %w", apperrors.ErrConflict)
	}

	if err := checkOTP(record.VerifyOTP, record.VerifyOTPExpiry, otp); err != nil {
		return err
	}

	if err := s.markVerified(ctx, kind, principalID); err != nil {
		return err
	}

	logger.Info("Email verified",
		zap.String("kind", string(kind)),
		zap.Int64("principal_id", principalID))
	return nil
}

// SendResetOTP stores a short-lived password reset code for the account
// behind the given email
func (s *AuthService) SendResetOTP(ctx context.Context, kind models.PrincipalKind, email string) error {
	record, err := s.getByEmail(ctx, kind, email)
	if err != nil {
		return err
	}

	otp, err := generateOTP()
	if err != nil {
		return err
	}

	expiresAt := time.Now().Add(resetOTPTTL)
	if err := s.setResetOTP(ctx, kind, record.ID, otp, expiresAt); err != nil {
		return err
	}

	s.deliverOTP(s.config.EventTriggers.PasswordResetTriggerURL, kind, record, otp, "password_reset")
	return nil
}

// ResetPassword confirms the reset code and replaces the password hash
func (s *AuthService) ResetPassword(ctx context.Context, kind models.PrincipalKind, req *models.ResetPasswordRequest) error {
	record, err := s.getByEmail(ctx, kind, req.Email)
	if err != nil {
		return err
	}

	if err := checkOTP(record.ResetOTP, record.ResetOTPExpiry, req.OTP); err != nil {
		return err
	}

	passwordHash, err := hashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	if err := s.updatePassword(ctx, kind, record.ID, passwordHash); err != nil {
		return err
	}

	logger.Info("Password reset completed",
		zap.String("kind", string(kind)),
		zap.Int64("principal_id", record.ID))
	return nil
}

// GetSessionTTL returns the session lifetime in hours
func (s *AuthService) GetSessionTTL() int {
	return s.config.Session.SessionTTLHours
}

// GetCookieDomain returns the cookie domain
func (s *AuthService) GetCookieDomain() string {
	return s.config.Session.CookieDomain
}

// GetCookieSecure returns whether cookies require HTTPS
func (s *AuthService) GetCookieSecure() bool {
	return s.config.Session.CookieSecure
}

// GetTokenManager returns the JWT token manager
func (s *AuthService) GetTokenManager() *jwt.TokenManager {
	return s.tokenManager
}

func (s *AuthService) openSession(kind models.PrincipalKind, record *principalRecord) (*models.Session, string, error) {
	token, err := s.tokenManager.GenerateToken(record.ID, string(kind), record.Email, record.Name)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue session token: %w", err)
	}

	now := time.Now()
	session := &models.Session{
		PrincipalID: record.ID,
		Kind:        kind,
		Email:       record.Email,
		Name:        record.Name,
		IssuedAt:    now.Unix(),
		ExpiresAt:   now.Add(time.Duration(s.config.Session.SessionTTLHours) * time.Hour).Unix(),
	}

	return session, token, nil
}

// deliverOTP fans the code out to the webhook trigger; in development
// the code is logged instead so local flows work without the function.
func (s *AuthService) deliverOTP(triggerURL string, kind models.PrincipalKind, record *principalRecord, otp, purpose string) {
	if s.config.IsDevelopment() || triggerURL == "" {
		logger.Info("OTP issued (development delivery)",
			zap.String("kind", string(kind)),
			zap.String("purpose", purpose),
			zap.String("email", record.Email),
			zap.String("otp", otp))
		return
	}

	trigger.CallAsyncWithPayload(triggerURL, map[string]interface{}{
		"email":   record.Email,
		"name":    record.Name,
		"otp":     otp,
		"purpose": purpose,
		"kind":    string(kind),
	}, s.httpClient)
}

func (s *AuthService) getByEmail(ctx context.Context, kind models.PrincipalKind, email string) (*principalRecord, error) {
	if kind == models.KindMentor {
		mentor, err := s.mentors.GetMentorByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		return mentorRecord(mentor), nil
	}
	mentee, err := s.mentees.GetMenteeByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return menteeRecord(mentee), nil
}

func (s *AuthService) getByID(ctx context.Context, kind models.PrincipalKind, id int64) (*principalRecord, error) {
	if kind == models.KindMentor {
		mentor, err := s.mentors.GetMentorByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return mentorRecord(mentor), nil
	}
	mentee, err := s.mentees.GetMenteeByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return menteeRecord(mentee), nil
}

func (s *AuthService) setVerifyOTP(ctx context.Context, kind models.PrincipalKind, id int64, otp string, expiresAt time.Time) error {
	if kind == models.KindMentor {
		return s.mentors.SetMentorVerifyOTP(ctx, id, otp, expiresAt)
	}
	return s.mentees.SetMenteeVerifyOTP(ctx, id, otp, expiresAt)
}

func (s *AuthService) markVerified(ctx context.Context, kind models.PrincipalKind, id int64) error {
	if kind == models.KindMentor {
		return s.mentors.MarkMentorVerified(ctx, id)
	}
	return s.mentees.MarkMenteeVerified(ctx, id)
}

func (s *AuthService) setResetOTP(ctx context.Context, kind models.PrincipalKind, id int64, otp string, expiresAt time.Time) error {
	if kind == models.KindMentor {
		return s.mentors.SetMentorResetOTP(ctx, id, otp, expiresAt)
	}
	return s.mentees.SetMenteeResetOTP(ctx, id, otp, expiresAt)
}

func (s *AuthService) updatePassword(ctx context.Context, kind models.PrincipalKind, id int64, passwordHash string) error {
	if kind == models.KindMentor {
		return s.mentors.UpdateMentorPassword(ctx, id, passwordHash)
	}
	return s.mentees.UpdateMenteePassword(ctx, id, passwordHash)
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// generateOTP returns a 6-digit zero-padded code
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// checkOTP validates a submitted code against the stored pair
func checkOTP(stored string, expiry *time.Time, submitted string) error {
	if stored == "" || stored != submitted {
		return fmt.Errorf("invalid code: %w", apperrors.ErrInvalidInput)
	}
	if expiry == nil || time.Now().After(*expiry) {
		return fmt.Errorf("code expired: %w", apperrors.ErrInvalidInput)
	}
	return nil
}
