package services_test

import (
	"context"
	"testing"

	"github.com/mentorlinq/mentorlinq-api/internal/models"
	"github.com/mentorlinq/mentorlinq-api/internal/services"
	"github.com/mentorlinq/mentorlinq-api/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestTokenForMentee(t *testing.T) {
	client := new(MockStreamClient)
	mentees := new(MockMenteeRepository)
	mentors := new(MockMentorRepository)

	mentees.On("GetMenteeByID", mock.Anything, int64(10)).
		Return(&models.Mentee{ID: 10, Name: "Jane", PhotoURL: "https://cdn.example.com/10.jpg"}, nil)
	client.On("UpsertUser", mock.Anything, "mentee-10", "Jane", "https://cdn.example.com/10.jpg").Return(nil)
	client.On("CreateUserToken", "mentee-10").Return("token-abc", nil)

	svc := services.NewStreamService(client, mentees, mentors)
	resp, err := svc.Token(context.Background(), 10, models.KindMentee)

	require.NoError(t, err)
	assert.Equal(t, "token-abc", resp.Token)
	assert.Equal(t, "mentee-10", resp.UserID)
	client.AssertExpectations(t)
}

func TestTokenReplacesUnsafeAvatar(t *testing.T) {
	client := new(MockStreamClient)
	mentees := new(MockMenteeRepository)
	mentors := new(MockMentorRepository)

	// Local path is not an http(s) URL, so the bridge substitutes the
	// generated placeholder.
	mentees.On("GetMenteeByID", mock.Anything, int64(10)).
		Return(&models.Mentee{ID: 10, Name: "Jane Doe", PhotoURL: "/uploads/10.jpg"}, nil)
	client.On("UpsertUser", mock.Anything, "mentee-10", "Jane Doe",
		"https://ui-avatars.com/api/?name=Jane+Doe&background=random").Return(nil)
	client.On("CreateUserToken", "mentee-10").Return("token-abc", nil)

	svc := services.NewStreamService(client, mentees, mentors)
	resp, err := svc.Token(context.Background(), 10, models.KindMentee)

	require.NoError(t, err)
	assert.Equal(t, "https://ui-avatars.com/api/?name=Jane+Doe&background=random", resp.ImageURL)
	client.AssertExpectations(t)
}

func TestTokenUnknownPrincipal(t *testing.T) {
	client := new(MockStreamClient)
	mentees := new(MockMenteeRepository)
	mentors := new(MockMentorRepository)

	mentors.On("GetMentorByID", mock.Anything, int64(404)).Return(nil, apperrors.ErrNotFound)

	svc := services.NewStreamService(client, mentees, mentors)
	_, err := svc.Token(context.Background(), 404, models.KindMentor)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	client.AssertNotCalled(t, "CreateUserToken", mock.Anything)
}

func TestTokenKeepsKindsDistinct(t *testing.T) {
	client := new(MockStreamClient)
	mentees := new(MockMenteeRepository)
	mentors := new(MockMentorRepository)

	// Separate sequences mean a mentee and a mentor can share row id 7;
	// the chat-side ids must still name two different users.
	mentees.On("GetMenteeByID", mock.Anything, int64(7)).
		Return(&models.Mentee{ID: 7, Name: "Alice"}, nil)
	mentors.On("GetMentorByID", mock.Anything, int64(7)).
		Return(&models.Mentor{ID: 7, Name: "Bob"}, nil)
	client.On("UpsertUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	client.On("CreateUserToken", mock.Anything).Return("token-xyz", nil)

	svc := services.NewStreamService(client, mentees, mentors)

	menteeResp, err := svc.Token(context.Background(), 7, models.KindMentee)
	require.NoError(t, err)
	mentorResp, err := svc.Token(context.Background(), 7, models.KindMentor)
	require.NoError(t, err)

	assert.Equal(t, "mentee-7", menteeResp.UserID)
	assert.Equal(t, "mentor-7", mentorResp.UserID)
	assert.NotEqual(t, menteeResp.UserID, mentorResp.UserID)

	// Peer resolution keys on the bare id, mentee first, and lands on
	// the mentee's namespaced identity.
	peer, err := svc.EnsurePeer(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "mentee-7", peer.UserID)
	assert.Equal(t, "Alice", peer.Name)
}

func TestEnsurePeerResolvesMenteeFirst(t *testing.T) {
	client := new(MockStreamClient)
	mentees := new(MockMenteeRepository)
	mentors := new(MockMentorRepository)

	mentees.On("GetMenteeByID", mock.Anything, int64(7)).
		Return(&models.Mentee{ID: 7, Name: "Mentee Seven"}, nil)
	client.On("UpsertUser", mock.Anything, "mentee-7", "Mentee Seven", mock.Anything).Return(nil)

	svc := services.NewStreamService(client, mentees, mentors)
	resp, err := svc.EnsurePeer(context.Background(), 7)

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "Mentee Seven", resp.Name)
	mentors.AssertNotCalled(t, "GetMentorByID", mock.Anything, mock.Anything)
}

func TestEnsurePeerFallsBackToMentor(t *testing.T) {
	client := new(MockStreamClient)
	mentees := new(MockMenteeRepository)
	mentors := new(MockMentorRepository)

	mentees.On("GetMenteeByID", mock.Anything, int64(8)).Return(nil, apperrors.ErrNotFound)
	mentors.On("GetMentorByID", mock.Anything, int64(8)).
		Return(&models.Mentor{ID: 8, Name: "Mentor Eight"}, nil)
	client.On("UpsertUser", mock.Anything, "mentor-8", "Mentor Eight", mock.Anything).Return(nil)

	svc := services.NewStreamService(client, mentees, mentors)
	resp, err := svc.EnsurePeer(context.Background(), 8)

	require.NoError(t, err)
	assert.Equal(t, "Mentor Eight", resp.Name)
}

func TestEnsurePeerUnknownID(t *testing.T) {
	client := new(MockStreamClient)
	mentees := new(MockMenteeRepository)
	mentors := new(MockMentorRepository)

	mentees.On("GetMenteeByID", mock.Anything, int64(404)).Return(nil, apperrors.ErrNotFound)
	mentors.On("GetMentorByID", mock.Anything, int64(404)).Return(nil, apperrors.ErrNotFound)

	svc := services.NewStreamService(client, mentees, mentors)
	_, err := svc.EnsurePeer(context.Background(), 404)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	client.AssertNotCalled(t, "UpsertUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
