package services

import (
	"context"
	"fmt"

	"github.com/mentorlinq/mentorlinq-api/internal/cache"
	"github.com/mentorlinq/mentorlinq-api/internal/models"
	"github.com/mentorlinq/mentorlinq-api/internal/repository"
	"github.com/mentorlinq/mentorlinq-api/pkg/apperrors"
	"github.com/mentorlinq/mentorlinq-api/pkg/logger"
	"github.com/mentorlinq/mentorlinq-api/pkg/objectstore"
	"github.com/mentorlinq/mentorlinq-api/pkg/retry"
	"go.uber.org/zap"
)

// ProfileService handles own-profile reads and picture uploads
type ProfileService struct {
	storage     objectstore.StorageClientInterface
	mentees     repository.MenteeRepository
	mentors     repository.MentorRepository
	mentorCache *cache.MentorCache
}

// NewProfileService creates a new ProfileService
func NewProfileService(
	storage objectstore.StorageClientInterface,
	mentees repository.MenteeRepository,
	mentors repository.MentorRepository,
	mentorCache *cache.MentorCache,
) *ProfileService {
	return &ProfileService{
		storage:     storage,
		mentees:     mentees,
		mentors:     mentors,
		mentorCache: mentorCache,
	}
}

// GetMenteeProfile returns the mentee's own profile
func (s *ProfileService) GetMenteeProfile(ctx context.Context, menteeID int64) (*models.MenteeProfile, error) {
	mentee, err := s.mentees.GetMenteeByID(ctx, menteeID)
	if err != nil {
		return nil, err
	}
	return mentee.ToProfile(), nil
}

// GetMentorProfile returns the mentor's own profile
func (s *ProfileService) GetMentorProfile(ctx context.Context, mentorID int64) (*models.MentorProfile, error) {
	mentor, err := s.mentors.GetMentorByID(ctx, mentorID)
	if err != nil {
		return nil, err
	}
	return mentor.ToProfile(), nil
}

// UploadPicture validates and uploads a base64 profile picture, stores
// the resulting public URL on the principal row and refreshes the
// mentor browse cache when applicable
func (s *ProfileService) UploadPicture(ctx context.Context, kind models.PrincipalKind, principalID int64, req *models.ProfilePictureRequest) (string, error) {
	if err := s.storage.ValidateImageType(req.ContentType); err != nil {
		return "", fmt.Errorf("%s: %w", err.Error(), apperrors.ErrInvalidInput)
	}
	if err := s.storage.ValidateImageSize(req.ImageData); err != nil {
		return "", fmt.Errorf("%s: %w", err.Error(), apperrors.ErrInvalidInput)
	}

	key := s.storage.GenerateFileName(string(kind)+"s", principalID, req.ContentType)

	photoURL, err := retry.DoWithResult(ctx, retry.StorageConfig(), "objectstore.uploadImage", func() (string, error) {
		return s.storage.UploadImage(ctx, req.ImageData, key, req.ContentType)
	})
	if err != nil {
		logger.Error("Profile picture upload failed",
			zap.String("kind", string(kind)),
			zap.Int64("principal_id", principalID),
			zap.Error(err))
		return "", fmt.Errorf("failed to upload picture: %w", apperrors.ErrInternal)
	}

	if kind == models.KindMentor {
		if err := s.mentors.UpdateMentorPhotoURL(ctx, principalID, photoURL); err != nil {
			return "", err
		}
		s.refreshMentorCacheEntry(ctx, principalID)
	} else {
		if err := s.mentees.UpdateMenteePhotoURL(ctx, principalID, photoURL); err != nil {
			return "", err
		}
	}

	logger.Info("Profile picture updated",
		zap.String("kind", string(kind)),
		zap.Int64("principal_id", principalID))

	return photoURL, nil
}

// refreshMentorCacheEntry keeps the browse cache in step with a photo
// change. Cache failures are logged only; the database already holds
// the new URL.
func (s *ProfileService) refreshMentorCacheEntry(ctx context.Context, mentorID int64) {
	if s.mentorCache == nil {
		return
	}
	mentor, err := s.mentors.GetMentorByID(ctx, mentorID)
	if err != nil {
		logger.Warn("Failed to reload mentor for cache refresh",
			zap.Int64("mentor_id", mentorID), zap.Error(err))
		return
	}
	if err := s.mentorCache.UpdateSingleMentor(mentor.Slug); err != nil {
		logger.Warn("Failed to refresh mentor cache entry",
			zap.String("slug", mentor.Slug), zap.Error(err))
	}
}
