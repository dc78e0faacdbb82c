package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/mentorlinq/mentorlinq-api/config"
	"github.com/mentorlinq/mentorlinq-api/internal/models"
	"github.com/mentorlinq/mentorlinq-api/internal/services"
	"github.com/mentorlinq/mentorlinq-api/pkg/apperrors"
	"github.com/mentorlinq/mentorlinq-api/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthService(mentees *MockMenteeRepository, mentors *MockMentorRepository) *services.AuthService {
	cfg := &config.Config{}
	cfg.Server.AppEnv = "development"
	cfg.Session.SessionTTLHours = 24
	tokenManager := jwt.NewTokenManager("test-secret", "test-issuer", 24)
	return services.NewAuthService(mentees, mentors, tokenManager, cfg, &MockHTTPClient{})
}

func hashFor(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestLoginSuccess(t *testing.T) {
	mentees := new(MockMenteeRepository)
	mentors := new(MockMentorRepository)

	mentees.On("GetMenteeByEmail", mock.Anything, "jane@example.com").Return(&models.Mentee{
		ID:           10,
		Email:        "jane@example.com",
		Name:         "Jane",
		PasswordHash: hashFor(t, "correct-horse"),
	}, nil)

	svc := newAuthService(mentees, mentors)
	session, token, err := svc.Login(context.Background(), models.KindMentee, &models.LoginRequest{
		Email:    "jane@example.com",
		Password: "correct-horse",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, int64(10), session.PrincipalID)
	assert.Equal(t, models.KindMentee, session.Kind)
}

func TestLoginWrongPassword(t *testing.T) {
	mentees := new(MockMenteeRepository)
	mentors := new(MockMentorRepository)

	mentees.On("GetMenteeByEmail", mock.Anything, "jane@example.com").Return(&models.Mentee{
		ID:           10,
		Email:        "jane@example.com",
		PasswordHash: hashFor(t, "correct-horse"),
	}, nil)

	svc := newAuthService(mentees, mentors)
	_, _, err := svc.Login(context.Background(), models.KindMentee, &models.LoginRequest{
		Email:    "jane@example.com",
		Password: "wrong-password",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestLoginUnknownEmailIndistinguishable(t *testing.T) {
	mentees := new(MockMenteeRepository)
	mentors := new(MockMentorRepository)

	mentors.On("GetMentorByEmail", mock.Anything, "ghost@example.com").Return(nil, apperrors.ErrNotFound)

	svc := newAuthService(mentees, mentors)
	_, _, err := svc.Login(context.Background(), models.KindMentor, &models.LoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever123",
	})

	require.Error(t, err)
	// Unknown email surfaces as the same error as a bad password
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.NotErrorIs(t, err, apperrors.ErrNotFound)
}

func TestVerifyEmailSuccess(t *testing.T) {
	mentees := new(MockMenteeRepository)
	mentors := new(MockMentorRepository)

	expiry := time.Now().Add(time.Hour)
	mentees.On("GetMenteeByID", mock.Anything, int64(10)).Return(&models.Mentee{
		ID:              10,
		VerifyOTP:       "123456",
		VerifyOTPExpiry: &expiry,
	}, nil)
	mentees.On("MarkMenteeVerified", mock.Anything, int64(10)).Return(nil)

	svc := newAuthService(mentees, mentors)
	err := svc.VerifyEmail(context.Background(), models.KindMentee, 10, "123456")

	require.NoError(t, err)
	mentees.AssertExpectations(t)
}

func TestVerifyEmailWrongCode(t *testing.T) {
	mentees := new(MockMenteeRepository)
	mentors := new(MockMentorRepository)

	expiry := time.Now().Add(time.Hour)
	mentees.On("GetMenteeByID", mock.Anything, int64(10)).Return(&models.Mentee{
		ID:              10,
		VerifyOTP:       "123456",
		VerifyOTPExpiry: &expiry,
	}, nil)

	svc := newAuthService(mentees, mentors)
	err := svc.VerifyEmail(context.Background(), models.KindMentee, 10, "654321")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	mentees.AssertNotCalled(t, "MarkMenteeVerified", mock.Anything, mock.Anything)
}

func TestVerifyEmailExpiredCode(t *testing.T) {
	mentees := new(MockMenteeRepository)
	mentors := new(MockMentorRepository)

	expiry := time.Now().Add(-time.Minute)
	mentees.On("GetMenteeByID", mock.Anything, int64(10)).Return(&models.Mentee{
		ID:              10,
		VerifyOTP:       "123456",
		VerifyOTPExpiry: &expiry,
	}, nil)

	svc := newAuthService(mentees, mentors)
	err := svc.VerifyEmail(context.Background(), models.KindMentee, 10, "123456")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestVerifyEmailAlreadyVerifiedConflicts(t *testing.T) {
	mentees := new(MockMenteeRepository)
	mentors := new(MockMentorRepository)

	mentees.On("GetMenteeByID", mock.Anything, int64(10)).Return(&models.Mentee{
		ID:         10,
		IsVerified: true,
	}, nil)

	svc := newAuthService(mentees, mentors)
	err := svc.VerifyEmail(context.Background(), models.KindMentee, 10, "123456")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestSendVerificationOTPStoresCode(t *testing.T) {
	mentees := new(MockMenteeRepository)
	mentors := new(MockMentorRepository)

	mentors.On("GetMentorByID", mock.Anything, int64(20)).Return(&models.Mentor{
		ID: 20, Email: "mentor@example.com", Name: "Mentor",
	}, nil)
	mentors.On("SetMentorVerifyOTP", mock.Anything, int64(20),
		mock.MatchedBy(func(otp string) bool { return len(otp) == 6 }),
		mock.Anything).Return(nil)

	svc := newAuthService(mentees, mentors)
	err := svc.SendVerificationOTP(context.Background(), models.KindMentor, 20)

	require.NoError(t, err)
	mentors.AssertExpectations(t)
}

func TestResetPasswordSuccess(t *testing.T) {
	mentees := new(MockMenteeRepository)
	mentors := new(MockMentorRepository)

	expiry := time.Now().Add(10 * time.Minute)
	mentees.On("GetMenteeByEmail", mock.Anything, "jane@example.com").Return(&models.Mentee{
		ID:             10,
		Email:          "jane@example.com",
		ResetOTP:       "123456",
		ResetOTPExpiry: &expiry,
	}, nil)
	mentees.On("UpdateMenteePassword", mock.Anything, int64(10), mock.Anything).Return(nil)

	svc := newAuthService(mentees, mentors)
	err := svc.ResetPassword(context.Background(), models.KindMentee, &models.ResetPasswordRequest{
		Email:       "jane@example.com",
		OTP:         "123456",
		NewPassword: "new-password-1",
	})

	require.NoError(t, err)
	mentees.AssertExpectations(t)
}

func TestResetPasswordBadCode(t *testing.T) {
	mentees := new(MockMenteeRepository)
	mentors := new(MockMentorRepository)

	expiry := time.Now().Add(10 * time.Minute)
	mentees.On("GetMenteeByEmail", mock.Anything, "jane@example.com").Return(&models.Mentee{
		ID:             10,
		ResetOTP:       "123456",
		ResetOTPExpiry: &expiry,
	}, nil)

	svc := newAuthService(mentees, mentors)
	err := svc.ResetPassword(context.Background(), models.KindMentee, &models.ResetPasswordRequest{
		Email:       "jane@example.com",
		OTP:         "000000",
		NewPassword: "new-password-1",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	mentees.AssertNotCalled(t, "UpdateMenteePassword", mock.Anything, mock.Anything, mock.Anything)
}

func TestRegisterMentorAssignsSlug(t *testing.T) {
	mentees := new(MockMenteeRepository)
	mentors := new(MockMentorRepository)

	mentors.On("CreateMentor", mock.Anything, mock.Anything).Return(&models.Mentor{
		ID: 42, Email: "m@example.com", Name: "Grace Hopper",
	}, nil)
	mentors.On("UpdateMentorSlug", mock.Anything, int64(42), "grace-hopper-42").Return(nil)
	mentors.On("GetMentorByID", mock.Anything, int64(42)).Return(&models.Mentor{ID: 42}, nil)
	mentors.On("SetMentorVerifyOTP", mock.Anything, int64(42), mock.Anything, mock.Anything).Return(nil)

	svc := newAuthService(mentees, mentors)
	mentor, session, token, err := svc.RegisterMentor(context.Background(), &models.RegisterMentorRequest{
		Name:     "Grace Hopper",
		Email:    "m@example.com",
		Password: "password123",
	})

	require.NoError(t, err)
	assert.Equal(t, "grace-hopper-42", mentor.Slug)
	assert.Equal(t, models.KindMentor, session.Kind)
	assert.NotEmpty(t, token)
	mentors.AssertExpectations(t)
}

func TestRegisterMenteeDuplicateEmailConflicts(t *testing.T) {
	mentees := new(MockMenteeRepository)
	mentors := new(MockMentorRepository)

	mentees.On("CreateMentee", mock.Anything, mock.Anything).Return(nil, apperrors.ErrConflict)

	svc := newAuthService(mentees, mentors)
	_, _, _, err := svc.RegisterMentee(context.Background(), &models.RegisterMenteeRequest{
		Name:     "Jane",
		Email:    "jane@example.com",
		Password: "password123",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}
