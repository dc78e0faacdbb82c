package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/mentorlinq/mentorlinq-api/internal/models"
	"github.com/mentorlinq/mentorlinq-api/internal/repository"
	"github.com/mentorlinq/mentorlinq-api/pkg/apperrors"
	"github.com/mentorlinq/mentorlinq-api/pkg/avatar"
	"github.com/mentorlinq/mentorlinq-api/pkg/logger"
	"github.com/mentorlinq/mentorlinq-api/pkg/stream"
	"go.uber.org/zap"
)

// StreamService bridges principal identities onto the Stream chat
// platform. It only syncs users and mints tokens; messaging itself
// never touches this service.
type StreamService struct {
	client  stream.ClientInterface
	mentees repository.MenteeRepository
	mentors repository.MentorRepository
}

// NewStreamService creates a new StreamService
func NewStreamService(client stream.ClientInterface, mentees repository.MenteeRepository, mentors repository.MentorRepository) *StreamService {
	return &StreamService{
		client:  client,
		mentees: mentees,
		mentors: mentors,
	}
}

// streamIdentity is what the bridge pushes to the chat platform
type streamIdentity struct {
	UserID   string
	Name     string
	ImageURL string
}

// Token upserts the caller's chat-side user and returns their per-user
// token. The session already fixes the kind, so no cross-table lookup
// is needed here.
func (s *StreamService) Token(ctx context.Context, principalID int64, kind models.PrincipalKind) (*models.StreamTokenResponse, error) {
	identity, err := s.identityForKind(ctx, principalID, kind)
	if err != nil {
		return nil, err
	}

	if err := s.client.UpsertUser(ctx, identity.UserID, identity.Name, identity.ImageURL); err != nil {
		return nil, fmt.Errorf("failed to sync chat identity: %w", apperrors.ErrInternal)
	}

	token, err := s.client.CreateUserToken(identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to mint chat token: %w", apperrors.ErrInternal)
	}

	logger.Info("Stream token issued",
		zap.String("kind", string(kind)),
		zap.Int64("principal_id", principalID))

	return &models.StreamTokenResponse{
		Token:    token,
		UserID:   identity.UserID,
		Name:     identity.Name,
		ImageURL: identity.ImageURL,
	}, nil
}

// EnsurePeer upserts a counterpart's chat-side user before a channel is
// opened against it. The id resolves against mentees first, then
// mentors; an id in neither table is NotFound.
func (s *StreamService) EnsurePeer(ctx context.Context, peerID int64) (*models.EnsurePeerResponse, error) {
	identity, err := s.resolveIdentity(ctx, peerID)
	if err != nil {
		return nil, err
	}

	if err := s.client.UpsertUser(ctx, identity.UserID, identity.Name, identity.ImageURL); err != nil {
		return nil, fmt.Errorf("failed to sync peer identity: %w", apperrors.ErrInternal)
	}

	return &models.EnsurePeerResponse{
		Success:  true,
		UserID:   identity.UserID,
		Name:     identity.Name,
		ImageURL: identity.ImageURL,
	}, nil
}

func (s *StreamService) identityForKind(ctx context.Context, principalID int64, kind models.PrincipalKind) (*streamIdentity, error) {
	if kind == models.KindMentor {
		mentor, err := s.mentors.GetMentorByID(ctx, principalID)
		if err != nil {
			return nil, err
		}
		return mentorIdentity(mentor), nil
	}
	mentee, err := s.mentees.GetMenteeByID(ctx, principalID)
	if err != nil {
		return nil, err
	}
	return menteeIdentity(mentee), nil
}

// resolveIdentity checks mentees before mentors, mirroring how the
// ledger orients its pairs (senders are mentees)
func (s *StreamService) resolveIdentity(ctx context.Context, id int64) (*streamIdentity, error) {
	mentee, err := s.mentees.GetMenteeByID(ctx, id)
	if err == nil {
		return menteeIdentity(mentee), nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	mentor, err := s.mentors.GetMentorByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return mentorIdentity(mentor), nil
}

// chatUserID namespaces the chat-side user id by kind. Mentee and
// mentor rows come from independent sequences, so a bare row id is not
// unique across the two populations.
func chatUserID(kind models.PrincipalKind, id int64) string {
	return string(kind) + "-" + strconv.FormatInt(id, 10)
}

func menteeIdentity(m *models.Mentee) *streamIdentity {
	return &streamIdentity{
		UserID:   chatUserID(models.KindMentee, m.ID),
		Name:     m.Name,
		ImageURL: avatar.SafeURL(m.PhotoURL, m.Name),
	}
}

func mentorIdentity(m *models.Mentor) *streamIdentity {
	return &streamIdentity{
		UserID:   chatUserID(models.KindMentor, m.ID),
		Name:     m.Name,
		ImageURL: avatar.SafeURL(m.PhotoURL, m.Name),
	}
}
