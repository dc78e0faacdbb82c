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

// Tests run without a cache instance, which exercises the database
// fallback paths the browse surface uses when caching is disabled.

func TestListMentorsFromRepository(t *testing.T) {
	mentors := new(MockMentorRepository)

	mentors.On("ListMentors", mock.Anything).Return([]*models.Mentor{
		{ID: 1, Name: "Ada", Slug: "ada-1"},
		{ID: 2, Name: "Grace", Slug: "grace-2"},
	}, nil)

	svc := services.NewMentorService(nil, mentors, &config.Config{})
	resp, err := svc.ListMentors(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, "ada-1", resp.Mentors[0].Slug)
}

func TestGetMentorBySlug(t *testing.T) {
	mentors := new(MockMentorRepository)

	mentors.On("GetMentorBySlug", mock.Anything, "ada-1").
		Return(&models.Mentor{ID: 1, Name: "Ada", Slug: "ada-1"}, nil)

	svc := services.NewMentorService(nil, mentors, &config.Config{})
	card, err := svc.GetMentorBySlug(context.Background(), "ada-1")

	require.NoError(t, err)
	assert.Equal(t, "Ada", card.Name)
}

func TestGetMentorBySlugNotFound(t *testing.T) {
	mentors := new(MockMentorRepository)

	mentors.On("GetMentorBySlug", mock.Anything, "nobody-99").Return(nil, apperrors.ErrNotFound)

	svc := services.NewMentorService(nil, mentors, &config.Config{})
	_, err := svc.GetMentorBySlug(context.Background(), "nobody-99")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
