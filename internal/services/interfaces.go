package services

import (
	"context"

	"github.com/mentorlinq/mentorlinq-api/internal/models"
	"github.com/mentorlinq/mentorlinq-api/pkg/jwt"
)

// ConnectionServiceInterface defines the ledger and projection operations
type ConnectionServiceInterface interface {
	CreateRequest(ctx context.Context, menteeID, mentorID int64) (*models.ConnectionRequest, error)
	ListIncoming(ctx context.Context, mentorID int64) (*models.RequestsResponse, error)
	ListOutgoing(ctx context.Context, menteeID int64) (*models.RequestsResponse, error)
	Accept(ctx context.Context, mentorID, requestID int64) (*models.RequestWithPeer, error)
	Reject(ctx context.Context, mentorID, requestID int64) (*models.ConnectionRequest, error)
	ListConnections(ctx context.Context, principalID int64, kind models.PrincipalKind) (*models.ConnectionsResponse, error)
	RebuildProjections(ctx context.Context) (*models.RebuildResult, error)
}

// AuthServiceInterface defines registration, login and OTP flows
type AuthServiceInterface interface {
	RegisterMentee(ctx context.Context, req *models.RegisterMenteeRequest) (*models.Mentee, *models.Session, string, error)
	RegisterMentor(ctx context.Context, req *models.RegisterMentorRequest) (*models.Mentor, *models.Session, string, error)
	Login(ctx context.Context, kind models.PrincipalKind, req *models.LoginRequest) (*models.Session, string, error)
	SendVerificationOTP(ctx context.Context, kind models.PrincipalKind, principalID int64) error
	VerifyEmail(ctx context.Context, kind models.PrincipalKind, principalID int64, otp string) error
	SendResetOTP(ctx context.Context, kind models.PrincipalKind, email string) error
	ResetPassword(ctx context.Context, kind models.PrincipalKind, req *models.ResetPasswordRequest) error
	GetSessionTTL() int
	GetCookieDomain() string
	GetCookieSecure() bool
	GetTokenManager() *jwt.TokenManager
}

// MentorServiceInterface defines the public browse operations
type MentorServiceInterface interface {
	ListMentors(ctx context.Context) (*models.MentorsResponse, error)
	GetMentorBySlug(ctx context.Context, mentorSlug string) (*models.MentorCard, error)
}

// ProfileServiceInterface defines own-profile operations
type ProfileServiceInterface interface {
	GetMenteeProfile(ctx context.Context, menteeID int64) (*models.MenteeProfile, error)
	GetMentorProfile(ctx context.Context, mentorID int64) (*models.MentorProfile, error)
	UploadPicture(ctx context.Context, kind models.PrincipalKind, principalID int64, req *models.ProfilePictureRequest) (string, error)
}

// StreamServiceInterface defines the chat bridge operations
type StreamServiceInterface interface {
	Token(ctx context.Context, principalID int64, kind models.PrincipalKind) (*models.StreamTokenResponse, error)
	EnsurePeer(ctx context.Context, peerID int64) (*models.EnsurePeerResponse, error)
}

// Ensure services implement their interfaces
var _ ConnectionServiceInterface = (*ConnectionService)(nil)
var _ AuthServiceInterface = (*AuthService)(nil)
var _ MentorServiceInterface = (*MentorService)(nil)
var _ ProfileServiceInterface = (*ProfileService)(nil)
var _ StreamServiceInterface = (*StreamService)(nil)
