package services_test

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/mentorlinq/mentorlinq-api/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockMenteeRepository is a mock implementation of repository.MenteeRepository
type MockMenteeRepository struct {
	mock.Mock
}

func (m *MockMenteeRepository) CreateMentee(ctx context.Context, mentee *models.Mentee) (*models.Mentee, error) {
	args := m.Called(ctx, mentee)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Mentee), args.Error(1)
}

func (m *MockMenteeRepository) GetMenteeByID(ctx context.Context, id int64) (*models.Mentee, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Mentee), args.Error(1)
}

func (m *MockMenteeRepository) GetMenteeByEmail(ctx context.Context, email string) (*models.Mentee, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Mentee), args.Error(1)
}

func (m *MockMenteeRepository) UpdateMenteePhotoURL(ctx context.Context, id int64, photoURL string) error {
	args := m.Called(ctx, id, photoURL)
	return args.Error(0)
}

func (m *MockMenteeRepository) SetMenteeVerifyOTP(ctx context.Context, id int64, otp string, expiresAt time.Time) error {
	args := m.Called(ctx, id, otp, expiresAt)
	return args.Error(0)
}

func (m *MockMenteeRepository) MarkMenteeVerified(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockMenteeRepository) SetMenteeResetOTP(ctx context.Context, id int64, otp string, expiresAt time.Time) error {
	args := m.Called(ctx, id, otp, expiresAt)
	return args.Error(0)
}

func (m *MockMenteeRepository) UpdateMenteePassword(ctx context.Context, id int64, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

// MockMentorRepository is a mock implementation of repository.MentorRepository
type MockMentorRepository struct {
	mock.Mock
}

func (m *MockMentorRepository) CreateMentor(ctx context.Context, mentor *models.Mentor) (*models.Mentor, error) {
	args := m.Called(ctx, mentor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Mentor), args.Error(1)
}

func (m *MockMentorRepository) UpdateMentorSlug(ctx context.Context, id int64, slug string) error {
	args := m.Called(ctx, id, slug)
	return args.Error(0)
}

func (m *MockMentorRepository) GetMentorByID(ctx context.Context, id int64) (*models.Mentor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Mentor), args.Error(1)
}

func (m *MockMentorRepository) GetMentorByEmail(ctx context.Context, email string) (*models.Mentor, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Mentor), args.Error(1)
}

func (m *MockMentorRepository) GetMentorBySlug(ctx context.Context, slug string) (*models.Mentor, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Mentor), args.Error(1)
}

func (m *MockMentorRepository) ListMentors(ctx context.Context) ([]*models.Mentor, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Mentor), args.Error(1)
}

func (m *MockMentorRepository) UpdateMentorPhotoURL(ctx context.Context, id int64, photoURL string) error {
	args := m.Called(ctx, id, photoURL)
	return args.Error(0)
}

func (m *MockMentorRepository) SetMentorVerifyOTP(ctx context.Context, id int64, otp string, expiresAt time.Time) error {
	args := m.Called(ctx, id, otp, expiresAt)
	return args.Error(0)
}

func (m *MockMentorRepository) MarkMentorVerified(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockMentorRepository) SetMentorResetOTP(ctx context.Context, id int64, otp string, expiresAt time.Time) error {
	args := m.Called(ctx, id, otp, expiresAt)
	return args.Error(0)
}

func (m *MockMentorRepository) UpdateMentorPassword(ctx context.Context, id int64, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

// MockConnectionRequestRepository is a mock implementation of
// repository.ConnectionRequestRepository
type MockConnectionRequestRepository struct {
	mock.Mock
}

func (m *MockConnectionRequestRepository) CreateConnectionRequest(ctx context.Context, senderID, recipientID int64) (*models.ConnectionRequest, error) {
	args := m.Called(ctx, senderID, recipientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ConnectionRequest), args.Error(1)
}

func (m *MockConnectionRequestRepository) GetConnectionRequestByID(ctx context.Context, id int64) (*models.ConnectionRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ConnectionRequest), args.Error(1)
}

func (m *MockConnectionRequestRepository) ListIncomingRequests(ctx context.Context, mentorID int64) ([]*models.RequestWithPeer, error) {
	args := m.Called(ctx, mentorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.RequestWithPeer), args.Error(1)
}

func (m *MockConnectionRequestRepository) ListOutgoingRequests(ctx context.Context, menteeID int64) ([]*models.RequestWithPeer, error) {
	args := m.Called(ctx, menteeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.RequestWithPeer), args.Error(1)
}

func (m *MockConnectionRequestRepository) AcceptAndConnect(ctx context.Context, requestID int64) (*models.ConnectionRequest, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ConnectionRequest), args.Error(1)
}

func (m *MockConnectionRequestRepository) RejectRequest(ctx context.Context, requestID int64) (*models.ConnectionRequest, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ConnectionRequest), args.Error(1)
}

func (m *MockConnectionRequestRepository) ListConnections(ctx context.Context, principalID int64, kind models.PrincipalKind) ([]*models.Connection, error) {
	args := m.Called(ctx, principalID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Connection), args.Error(1)
}

func (m *MockConnectionRequestRepository) RebuildProjections(ctx context.Context) (*models.RebuildResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RebuildResult), args.Error(1)
}

// MockStreamClient is a mock implementation of stream.ClientInterface
type MockStreamClient struct {
	mock.Mock
}

func (m *MockStreamClient) CreateUserToken(userID string) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

func (m *MockStreamClient) UpsertUser(ctx context.Context, userID, name, imageURL string) error {
	args := m.Called(ctx, userID, name, imageURL)
	return args.Error(0)
}

// MockStorageClient is a mock implementation of objectstore.StorageClientInterface
type MockStorageClient struct {
	mock.Mock
}

func (m *MockStorageClient) UploadImage(ctx context.Context, imageData, key, contentType string) (string, error) {
	args := m.Called(ctx, imageData, key, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockStorageClient) GenerateFileName(prefix string, principalID int64, contentType string) string {
	args := m.Called(prefix, principalID, contentType)
	return args.String(0)
}

func (m *MockStorageClient) ValidateImageType(contentType string) error {
	args := m.Called(contentType)
	return args.Error(0)
}

func (m *MockStorageClient) ValidateImageSize(imageData string) error {
	args := m.Called(imageData)
	return args.Error(0)
}

// MockHTTPClient is a mock implementation of httpclient.Client
type MockHTTPClient struct {
	mock.Mock
}

func (m *MockHTTPClient) Post(url, contentType string, body io.Reader) (*http.Response, error) {
	args := m.Called(url, contentType, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*http.Response), args.Error(1)
}

func (m *MockHTTPClient) Get(url string) (*http.Response, error) {
	args := m.Called(url)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*http.Response), args.Error(1)
}

func (m *MockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*http.Response), args.Error(1)
}
