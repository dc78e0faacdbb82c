package services_test

import (
	"context"
	"testing"

	"github.com/mentorlinq/mentorlinq-api/config"
	"github.com/mentorlinq/mentorlinq-api/internal/models"
	"github.com/mentorlinq/mentorlinq-api/internal/services"
	"github.com/mentorlinq/mentorlinq-api/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newConnectionService(
	requests *MockConnectionRequestRepository,
	mentees *MockMenteeRepository,
	mentors *MockMentorRepository,
) *services.ConnectionService {
	return services.NewConnectionService(requests, mentees, mentors, &config.Config{}, &MockHTTPClient{})
}

func pendingRequest(id, senderID, recipientID int64) *models.ConnectionRequest {
	return &models.ConnectionRequest{
		ID:          id,
		SenderID:    senderID,
		RecipientID: recipientID,
		Status:      models.StatusPending,
	}
}

func TestCreateRequestSuccess(t *testing.T) {
	requests := new(MockConnectionRequestRepository)
	mentees := new(MockMenteeRepository)
	mentors := new(MockMentorRepository)

	mentors.On("GetMentorByID", mock.Anything, int64(20)).Return(&models.Mentor{ID: 20, Name: "Mentor"}, nil)
	requests.On("CreateConnectionRequest", mock.Anything, int64(10), int64(20)).
		Return(pendingRequest(1, 10, 20), nil)

	svc := newConnectionService(requests, mentees, mentors)
	request, err := svc.CreateRequest(context.Background(), 10, 20)

	require.NoError(t, err)
	assert.Equal(t, int64(1), request.ID)
	assert.Equal(t, models.StatusPending, request.Status)
	requests.AssertExpectations(t)
	mentors.AssertExpectations(t)
}

func TestCreateRequestMentorNotFound(t *testing.T) {
	requests := new(MockConnectionRequestRepository)
	mentees := new(MockMenteeRepository)
	mentors := new(MockMentorRepository)

	mentors.On("GetMentorByID", mock.Anything, int64(99)).Return(nil, apperrors.ErrNotFound)

	svc := newConnectionService(requests, mentees, mentors)
	_, err := svc.CreateRequest(context.Background(), 10, 99)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	requests.AssertNotCalled(t, "CreateConnectionRequest", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateRequestDuplicatePairConflicts(t *testing.T) {
	requests := new(MockConnectionRequestRepository)
	mentees := new(MockMenteeRepository)
	mentors := new(MockMentorRepository)

	mentors.On("GetMentorByID", mock.Anything, int64(20)).Return(&models.Mentor{ID: 20}, nil)
	requests.On("CreateConnectionRequest", mock.Anything, int64(10), int64(20)).
		Return(nil, apperrors.ErrConflict)

	svc := newConnectionService(requests, mentees, mentors)
	_, err := svc.CreateRequest(context.Background(), 10, 20)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestAcceptSuccess(t *testing.T) {
	requests := new(MockConnectionRequestRepository)
	mentees := new(MockMenteeRepository)
	mentors := new(MockMentorRepository)

	requests.On("GetConnectionRequestByID", mock.Anything, int64(1)).
		Return(pendingRequest(1, 10, 20), nil)
	accepted := &models.ConnectionRequest{ID: 1, SenderID: 10, RecipientID: 20, Status: models.StatusAccepted}
	requests.On("AcceptAndConnect", mock.Anything, int64(1)).Return(accepted, nil)
	mentees.On("GetMenteeByID", mock.Anything, int64(10)).
		Return(&models.Mentee{ID: 10, Name: "Mentee"}, nil)

	svc := newConnectionService(requests, mentees, mentors)
	result, err := svc.Accept(context.Background(), 20, 1)

	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, result.Status)
	assert.Equal(t, "Mentee", result.Peer.Name)
	assert.Equal(t, int64(10), result.Peer.ID)
	requests.AssertExpectations(t)
	mentees.AssertExpectations(t)
}

func TestAcceptRequestNotFound(t *testing.T) {
	requests := new(MockConnectionRequestRepository)
	mentees := new(MockMenteeRepository)
	mentors := new(MockMentorRepository)

	requests.On("GetConnectionRequestByID", mock.Anything, int64(404)).
		Return(nil, apperrors.ErrNotFound)

	svc := newConnectionService(requests, mentees, mentors)
	_, err := svc.Accept(context.Background(), 20, 404)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestAcceptByWrongMentorDenied(t *testing.T) {
	requests := new(MockConnectionRequestRepository)
	mentees := new(MockMenteeRepository)
	mentors := new(MockMentorRepository)

	requests.On("GetConnectionRequestByID", mock.Anything, int64(1)).
		Return(pendingRequest(1, 10, 20), nil)

	svc := newConnectionService(requests, mentees, mentors)
	_, err := svc.Accept(context.Background(), 77, 1)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrAccessDenied)
	requests.AssertNotCalled(t, "AcceptAndConnect", mock.Anything, mock.Anything)
}

func TestAcceptTerminalRequestConflicts(t *testing.T) {
	requests := new(MockConnectionRequestRepository)
	mentees := new(MockMenteeRepository)
	mentors := new(MockMentorRepository)

	resolved := &models.ConnectionRequest{ID: 1, SenderID: 10, RecipientID: 20, Status: models.StatusRejected}
	requests.On("GetConnectionRequestByID", mock.Anything, int64(1)).Return(resolved, nil)

	svc := newConnectionService(requests, mentees, mentors)
	_, err := svc.Accept(context.Background(), 20, 1)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	requests.AssertNotCalled(t, "AcceptAndConnect", mock.Anything, mock.Anything)
}

func TestAcceptLosesRaceConflicts(t *testing.T) {
	requests := new(MockConnectionRequestRepository)
	mentees := new(MockMenteeRepository)
	mentors := new(MockMentorRepository)

	// Pre-read sees pending, but a concurrent resolver wins the
	// conditional update in between.
	requests.On("GetConnectionRequestByID", mock.Anything, int64(1)).
		Return(pendingRequest(1, 10, 20), nil)
	requests.On("AcceptAndConnect", mock.Anything, int64(1)).
		Return(nil, apperrors.ErrConflict)

	svc := newConnectionService(requests, mentees, mentors)
	_, err := svc.Accept(context.Background(), 20, 1)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestRejectSuccessTouchesNoProjection(t *testing.T) {
	requests := new(MockConnectionRequestRepository)
	mentees := new(MockMenteeRepository)
	mentors := new(MockMentorRepository)

	requests.On("GetConnectionRequestByID", mock.Anything, int64(1)).
		Return(pendingRequest(1, 10, 20), nil)
	rejected := &models.ConnectionRequest{ID: 1, SenderID: 10, RecipientID: 20, Status: models.StatusRejected}
	requests.On("RejectRequest", mock.Anything, int64(1)).Return(rejected, nil)

	svc := newConnectionService(requests, mentees, mentors)
	result, err := svc.Reject(context.Background(), 20, 1)

	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, result.Status)
	mentees.AssertNotCalled(t, "GetMenteeByID", mock.Anything, mock.Anything)
}

func TestRejectByWrongMentorDenied(t *testing.T) {
	requests := new(MockConnectionRequestRepository)
	mentees := new(MockMenteeRepository)
	mentors := new(MockMentorRepository)

	requests.On("GetConnectionRequestByID", mock.Anything, int64(1)).
		Return(pendingRequest(1, 10, 20), nil)

	svc := newConnectionService(requests, mentees, mentors)
	_, err := svc.Reject(context.Background(), 55, 1)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrAccessDenied)
	requests.AssertNotCalled(t, "RejectRequest", mock.Anything, mock.Anything)
}

func TestListIncoming(t *testing.T) {
	requests := new(MockConnectionRequestRepository)
	mentees := new(MockMenteeRepository)
	mentors := new(MockMentorRepository)

	items := []*models.RequestWithPeer{
		{ConnectionRequest: *pendingRequest(1, 10, 20), Peer: models.PeerSummary{ID: 10, Name: "A"}},
		{ConnectionRequest: *pendingRequest(2, 11, 20), Peer: models.PeerSummary{ID: 11, Name: "B"}},
	}
	requests.On("ListIncomingRequests", mock.Anything, int64(20)).Return(items, nil)

	svc := newConnectionService(requests, mentees, mentors)
	resp, err := svc.ListIncoming(context.Background(), 20)

	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, "A", resp.Requests[0].Peer.Name)
}

func TestListConnectionsEmpty(t *testing.T) {
	requests := new(MockConnectionRequestRepository)
	mentees := new(MockMenteeRepository)
	mentors := new(MockMentorRepository)

	requests.On("ListConnections", mock.Anything, int64(10), models.KindMentee).
		Return([]*models.Connection{}, nil)

	svc := newConnectionService(requests, mentees, mentors)
	resp, err := svc.ListConnections(context.Background(), 10, models.KindMentee)

	require.NoError(t, err)
	assert.Equal(t, 0, resp.Total)
	assert.NotNil(t, resp.Connections)
}

func TestRebuildProjections(t *testing.T) {
	requests := new(MockConnectionRequestRepository)
	mentees := new(MockMenteeRepository)
	mentors := new(MockMentorRepository)

	requests.On("RebuildProjections", mock.Anything).
		Return(&models.RebuildResult{MenteesUpdated: 5, MentorsUpdated: 3}, nil)

	svc := newConnectionService(requests, mentees, mentors)
	result, err := svc.RebuildProjections(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(5), result.MenteesUpdated)
	assert.Equal(t, int64(3), result.MentorsUpdated)
}
