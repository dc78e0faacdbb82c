package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/mentorlinq/mentorlinq-api/config"
	"github.com/mentorlinq/mentorlinq-api/internal/models"
	"github.com/mentorlinq/mentorlinq-api/internal/repository"
	"github.com/mentorlinq/mentorlinq-api/pkg/apperrors"
	"github.com/mentorlinq/mentorlinq-api/pkg/httpclient"
	"github.com/mentorlinq/mentorlinq-api/pkg/logger"
	"github.com/mentorlinq/mentorlinq-api/pkg/metrics"
	"github.com/mentorlinq/mentorlinq-api/pkg/trigger"
	"go.uber.org/zap"
)

// ConnectionService owns the connection-request ledger and the derived
// connections projection
type ConnectionService struct {
	requests   repository.ConnectionRequestRepository
	mentees    repository.MenteeRepository
	mentors    repository.MentorRepository
	config     *config.Config
	httpClient httpclient.Client
}

// NewConnectionService creates a new ConnectionService
func NewConnectionService(
	requests repository.ConnectionRequestRepository,
	mentees repository.MenteeRepository,
	mentors repository.MentorRepository,
	cfg *config.Config,
	httpClient httpclient.Client,
) *ConnectionService {
	return &ConnectionService{
		requests:   requests,
		mentees:    mentees,
		mentors:    mentors,
		config:     cfg,
		httpClient: httpClient,
	}
}

// CreateRequest records a mentee's pending request to a mentor. The
// mentor must exist; the pair uniqueness is enforced by storage, so a
// duplicate in any status comes back as a conflict.
func (s *ConnectionService) CreateRequest(ctx context.Context, menteeID, mentorID int64) (*models.ConnectionRequest, error) {
	if _, err := s.mentors.GetMentorByID(ctx, mentorID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			metrics.ConnectionRequestsCreated.WithLabelValues("not_found").Inc()
			return nil, fmt.Errorf("recipient mentor %d: %w", mentorID, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to check recipient: %w", err)
	}

	request, err := s.requests.CreateConnectionRequest(ctx, menteeID, mentorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			metrics.ConnectionRequestsCreated.WithLabelValues("conflict").Inc()
			return nil, err
		}
		metrics.ConnectionRequestsCreated.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.ConnectionRequestsCreated.WithLabelValues("success").Inc()
	logger.Info("Connection request created",
		zap.Int64("request_id", request.ID),
		zap.Int64("sender_id", menteeID),
		zap.Int64("recipient_id", mentorID))

	trigger.CallAsync(s.config.EventTriggers.RequestCreatedTriggerURL,
		strconv.FormatInt(request.ID, 10), s.httpClient)

	return request, nil
}

// ListIncoming returns pending requests addressed to a mentor
func (s *ConnectionService) ListIncoming(ctx context.Context, mentorID int64) (*models.RequestsResponse, error) {
	requests, err := s.requests.ListIncomingRequests(ctx, mentorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list incoming requests: %w", err)
	}
	return &models.RequestsResponse{Requests: requests, Total: len(requests)}, nil
}

// ListOutgoing returns pending requests a mentee has sent
func (s *ConnectionService) ListOutgoing(ctx context.Context, menteeID int64) (*models.RequestsResponse, error) {
	requests, err := s.requests.ListOutgoingRequests(ctx, menteeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list outgoing requests: %w", err)
	}
	return &models.RequestsResponse{Requests: requests, Total: len(requests)}, nil
}

// Accept resolves a pending request as accepted and records the mutual
// connection on both sides. Only the named recipient may accept; a
// terminal request conflicts regardless of who asks.
func (s *ConnectionService) Accept(ctx context.Context, mentorID, requestID int64) (*models.RequestWithPeer, error) {
	request, err := s.precheckResolution(ctx, mentorID, requestID)
	if err != nil {
		return nil, err
	}

	accepted, err := s.requests.AcceptAndConnect(ctx, requestID)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			// Lost the race to a concurrent resolver
			metrics.ConnectionRequestsResolved.WithLabelValues("conflict").Inc()
		}
		return nil, err
	}

	metrics.ConnectionRequestsResolved.WithLabelValues("accepted").Inc()
	logger.Info("Connection request accepted",
		zap.Int64("request_id", requestID),
		zap.Int64("mentor_id", mentorID),
		zap.Int64("mentee_id", request.SenderID))

	trigger.CallAsync(s.config.EventTriggers.RequestResolvedTriggerURL,
		strconv.FormatInt(requestID, 10), s.httpClient)

	result := &models.RequestWithPeer{ConnectionRequest: *accepted}
	if mentee, err := s.mentees.GetMenteeByID(ctx, accepted.Counterpart(mentorID)); err == nil {
		result.Peer = menteePeerSummary(mentee)
	}

	return result, nil
}

// Reject resolves a pending request as rejected. The projection is
// never touched.
func (s *ConnectionService) Reject(ctx context.Context, mentorID, requestID int64) (*models.ConnectionRequest, error) {
	if _, err := s.precheckResolution(ctx, mentorID, requestID); err != nil {
		return nil, err
	}

	rejected, err := s.requests.RejectRequest(ctx, requestID)
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			metrics.ConnectionRequestsResolved.WithLabelValues("conflict").Inc()
		}
		return nil, err
	}

	metrics.ConnectionRequestsResolved.WithLabelValues("rejected").Inc()
	logger.Info("Connection request rejected",
		zap.Int64("request_id", requestID),
		zap.Int64("mentor_id", mentorID))

	trigger.CallAsync(s.config.EventTriggers.RequestResolvedTriggerURL,
		strconv.FormatInt(requestID, 10), s.httpClient)

	return rejected, nil
}

// precheckResolution loads the request and enforces resolver identity.
// Ordering matters: a missing request is NotFound, a wrong mentor is
// AccessDenied even when the request is already terminal, and only then
// does terminality produce Conflict.
func (s *ConnectionService) precheckResolution(ctx context.Context, mentorID, requestID int64) (*models.ConnectionRequest, error) {
	request, err := s.requests.GetConnectionRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if !request.CanBeResolvedBy(mentorID) {
		logger.Warn("Resolution denied: not the recipient",
			zap.Int64("request_id", requestID),
			zap.Int64("recipient_id", request.RecipientID),
			zap.Int64("acting_mentor_id", mentorID))
		return nil, fmt.Errorf("request %d belongs to another mentor: %w", requestID, apperrors.ErrAccessDenied)
	}

	if request.Status.IsTerminal() {
		return nil, fmt.Errorf("request %d is already %s: %w", requestID, request.Status, apperrors.ErrConflict)
	}

	return request, nil
}

// ListConnections returns accepted pairings for a principal of either
// kind, with deleted counterparts silently dropped
func (s *ConnectionService) ListConnections(ctx context.Context, principalID int64, kind models.PrincipalKind) (*models.ConnectionsResponse, error) {
	connections, err := s.requests.ListConnections(ctx, principalID, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}
	return &models.ConnectionsResponse{Connections: connections, Total: len(connections)}, nil
}

// RebuildProjections recomputes every connections array from accepted
// ledger rows
func (s *ConnectionService) RebuildProjections(ctx context.Context) (*models.RebuildResult, error) {
	result, err := s.requests.RebuildProjections(ctx)
	if err != nil {
		metrics.ProjectionRebuilds.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.ProjectionRebuilds.WithLabelValues("success").Inc()
	logger.Info("Connections projection rebuilt",
		zap.Int64("mentees_updated", result.MenteesUpdated),
		zap.Int64("mentors_updated", result.MentorsUpdated))

	return result, nil
}

// menteePeerSummary builds the display block for a sending mentee
func menteePeerSummary(m *models.Mentee) models.PeerSummary {
	return models.PeerSummary{
		ID:             m.ID,
		Name:           m.Name,
		Specialization: m.Specialization,
		Bio:            m.Bio,
		LinkedinURL:    m.LinkedinURL,
		PhotoURL:       m.PhotoURL,
		Tags:           append(append([]string{}, m.CareerInterests...), m.MentorshipAreas...),
	}
}
