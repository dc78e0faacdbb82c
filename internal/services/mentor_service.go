package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/mentorlinq/mentorlinq-api/config"
	"github.com/mentorlinq/mentorlinq-api/internal/cache"
	"github.com/mentorlinq/mentorlinq-api/internal/models"
	"github.com/mentorlinq/mentorlinq-api/internal/repository"
	"github.com/mentorlinq/mentorlinq-api/pkg/apperrors"
	"github.com/mentorlinq/mentorlinq-api/pkg/logger"
	"go.uber.org/zap"
)

// MentorService serves the public browse surface
type MentorService struct {
	cache   *cache.MentorCache
	mentors repository.MentorRepository
	config  *config.Config
}

// NewMentorService creates a new MentorService
func NewMentorService(mentorCache *cache.MentorCache, mentors repository.MentorRepository, cfg *config.Config) *MentorService {
	return &MentorService{
		cache:   mentorCache,
		mentors: mentors,
		config:  cfg,
	}
}

// ListMentors returns the browse list, normally straight from cache
func (s *MentorService) ListMentors(ctx context.Context) (*models.MentorsResponse, error) {
	var mentors []*models.Mentor
	var err error

	if s.config.Cache.DisableMentorsCache || s.cache == nil {
		mentors, err = s.mentors.ListMentors(ctx)
	} else {
		mentors, err = s.cache.Get()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list mentors: %w", err)
	}

	cards := make([]*models.MentorCard, 0, len(mentors))
	for _, m := range mentors {
		cards = append(cards, m.ToCard())
	}

	return &models.MentorsResponse{Mentors: cards, Total: len(cards)}, nil
}

// GetMentorBySlug returns a single public mentor profile
func (s *MentorService) GetMentorBySlug(ctx context.Context, mentorSlug string) (*models.MentorCard, error) {
	if !s.config.Cache.DisableMentorsCache && s.cache != nil {
		if mentor, err := s.cache.GetBySlug(mentorSlug); err == nil {
			return mentor.ToCard(), nil
		}
		// Fall through to the database: a freshly registered mentor may
		// not be cached yet.
	}

	mentor, err := s.mentors.GetMentorBySlug(ctx, mentorSlug)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		logger.Error("Failed to fetch mentor by slug",
			zap.String("slug", mentorSlug), zap.Error(err))
		return nil, fmt.Errorf("failed to fetch mentor: %w", err)
	}

	return mentor.ToCard(), nil
}
