package repository

import (
	"context"
	"time"

	"github.com/mentorlinq/mentorlinq-api/internal/database/postgres"
	"github.com/mentorlinq/mentorlinq-api/internal/models"
)

// MenteeRepository defines mentee persistence operations
type MenteeRepository interface {
	CreateMentee(ctx context.Context, m *models.Mentee) (*models.Mentee, error)
	GetMenteeByID(ctx context.Context, id int64) (*models.Mentee, error)
	GetMenteeByEmail(ctx context.Context, email string) (*models.Mentee, error)
	UpdateMenteePhotoURL(ctx context.Context, id int64, photoURL string) error
	SetMenteeVerifyOTP(ctx context.Context, id int64, otp string, expiresAt time.Time) error
	MarkMenteeVerified(ctx context.Context, id int64) error
	SetMenteeResetOTP(ctx context.Context, id int64, otp string, expiresAt time.Time) error
	UpdateMenteePassword(ctx context.Context, id int64, passwordHash string) error
}

// MentorRepository defines mentor persistence operations
type MentorRepository interface {
	CreateMentor(ctx context.Context, m *models.Mentor) (*models.Mentor, error)
	UpdateMentorSlug(ctx context.Context, id int64, slug string) error
	GetMentorByID(ctx context.Context, id int64) (*models.Mentor, error)
	GetMentorByEmail(ctx context.Context, email string) (*models.Mentor, error)
	GetMentorBySlug(ctx context.Context, slug string) (*models.Mentor, error)
	ListMentors(ctx context.Context) ([]*models.Mentor, error)
	UpdateMentorPhotoURL(ctx context.Context, id int64, photoURL string) error
	SetMentorVerifyOTP(ctx context.Context, id int64, otp string, expiresAt time.Time) error
	MarkMentorVerified(ctx context.Context, id int64) error
	SetMentorResetOTP(ctx context.Context, id int64, otp string, expiresAt time.Time) error
	UpdateMentorPassword(ctx context.Context, id int64, passwordHash string) error
}

// ConnectionRequestRepository defines ledger and projection operations
type ConnectionRequestRepository interface {
	CreateConnectionRequest(ctx context.Context, senderID, recipientID int64) (*models.ConnectionRequest, error)
	GetConnectionRequestByID(ctx context.Context, id int64) (*models.ConnectionRequest, error)
	ListIncomingRequests(ctx context.Context, mentorID int64) ([]*models.RequestWithPeer, error)
	ListOutgoingRequests(ctx context.Context, menteeID int64) ([]*models.RequestWithPeer, error)
	AcceptAndConnect(ctx context.Context, requestID int64) (*models.ConnectionRequest, error)
	RejectRequest(ctx context.Context, requestID int64) (*models.ConnectionRequest, error)
	ListConnections(ctx context.Context, principalID int64, kind models.PrincipalKind) ([]*models.Connection, error)
	RebuildProjections(ctx context.Context) (*models.RebuildResult, error)
}

// The postgres client implements every repository interface
var (
	_ MenteeRepository            = (*postgres.Client)(nil)
	_ MentorRepository            = (*postgres.Client)(nil)
	_ ConnectionRequestRepository = (*postgres.Client)(nil)
)
