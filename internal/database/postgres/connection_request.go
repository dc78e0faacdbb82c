package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/mentorlinq/mentorlinq-api/internal/models"
	"github.com/mentorlinq/mentorlinq-api/pkg/apperrors"
	"github.com/mentorlinq/mentorlinq-api/pkg/logger"
	"github.com/mentorlinq/mentorlinq-api/pkg/metrics"
	"go.uber.org/zap"
)

const connectionRequestColumns = "id, sender_id, recipient_id, status, created_at, updated_at"

// CreateConnectionRequest inserts a pending ledger row. The unique
// (sender, recipient) index decides racing inserts, so duplicates map to
// ErrConflict without any pre-read.
func (c *Client) CreateConnectionRequest(ctx context.Context, senderID, recipientID int64) (*models.ConnectionRequest, error) {
	start := time.Now()
	operation := "createConnectionRequest"

	query := fmt.Sprintf(`
		INSERT INTO connection_requests (sender_id, recipient_id, status)
		VALUES ($1, $2, $3)
		RETURNING %s
	`, connectionRequestColumns)

	request, err := models.ScanConnectionRequest(
		c.pool.QueryRow(ctx, query, senderID, recipientID, models.StatusPending))

	duration := metrics.MeasureDuration(start)

	if err != nil {
		if isUniqueViolation(err, "connection_requests_pair_unique") {
			recordMetrics(operation, "conflict", duration)
			return nil, fmt.Errorf("request already exists for this pair: %w", apperrors.ErrConflict)
		}
		recordMetrics(operation, "error", duration)
		logger.LogAPICall("postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to create connection request: %w", err)
	}

	recordMetrics(operation, "success", duration)
	logger.LogAPICall("postgres", operation, "success", duration,
		zap.Int64("request_id", request.ID),
		zap.Int64("sender_id", senderID),
		zap.Int64("recipient_id", recipientID))

	return request, nil
}

// GetConnectionRequestByID returns a single ledger row
func (c *Client) GetConnectionRequestByID(ctx context.Context, id int64) (*models.ConnectionRequest, error) {
	start := time.Now()
	operation := "getConnectionRequestByID"

	query := fmt.Sprintf("SELECT %s FROM connection_requests WHERE id = $1", connectionRequestColumns)
	request, err := models.ScanConnectionRequest(c.pool.QueryRow(ctx, query, id))

	duration := metrics.MeasureDuration(start)

	if errors.Is(err, pgx.ErrNoRows) {
		recordMetrics(operation, "not_found", duration)
		return nil, fmt.Errorf("connection request %d: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		recordMetrics(operation, "error", duration)
		return nil, fmt.Errorf("failed to get connection request: %w", err)
	}

	recordMetrics(operation, "success", duration)
	return request, nil
}

// ListIncomingRequests returns pending requests addressed to a mentor,
// joined with the sending mentee's display fields. The inner join drops
// rows whose sender has been deleted.
func (c *Client) ListIncomingRequests(ctx context.Context, mentorID int64) ([]*models.RequestWithPeer, error) {
	query := `
		SELECT cr.id, cr.sender_id, cr.recipient_id, cr.status, cr.created_at, cr.updated_at,
		       me.id, me.name, COALESCE(me.specialization, ''), COALESCE(me.bio, ''),
		       COALESCE(me.linkedin_url, ''), COALESCE(me.photo_url, ''),
		       me.career_interests || me.mentorship_areas
		FROM connection_requests cr
		JOIN mentees me ON me.id = cr.sender_id
		WHERE cr.recipient_id = $1 AND cr.status = 'pending'
		ORDER BY cr.created_at DESC
	`
	return c.listRequestsWithPeer(ctx, "listIncomingRequests", query, mentorID)
}

// ListOutgoingRequests returns pending requests a mentee has sent,
// joined with the recipient mentor's display fields
func (c *Client) ListOutgoingRequests(ctx context.Context, menteeID int64) ([]*models.RequestWithPeer, error) {
	query := `
		SELECT cr.id, cr.sender_id, cr.recipient_id, cr.status, cr.created_at, cr.updated_at,
		       m.id, m.name, COALESCE(m.specialization, ''), COALESCE(m.bio, ''),
		       COALESCE(m.linkedin_url, ''), COALESCE(m.photo_url, ''),
		       m.skills || m.career_areas
		FROM connection_requests cr
		JOIN mentors m ON m.id = cr.recipient_id
		WHERE cr.sender_id = $1 AND cr.status = 'pending'
		ORDER BY cr.created_at DESC
	`
	return c.listRequestsWithPeer(ctx, "listOutgoingRequests", query, menteeID)
}

func (c *Client) listRequestsWithPeer(ctx context.Context, operation, query string, principalID int64) ([]*models.RequestWithPeer, error) {
	start := time.Now()

	rows, err := c.pool.Query(ctx, query, principalID)
	if err != nil {
		duration := metrics.MeasureDuration(start)
		recordMetrics(operation, "error", duration)
		return nil, fmt.Errorf("failed to query requests: %w", err)
	}

	requests, err := models.ScanRequestsWithPeer(rows)
	duration := metrics.MeasureDuration(start)

	if err != nil {
		recordMetrics(operation, "error", duration)
		return nil, fmt.Errorf("failed to scan requests: %w", err)
	}

	recordMetrics(operation, "success", duration)
	logger.LogAPICall("postgres", operation, "success", duration, zap.Int("count", len(requests)))

	return requests, nil
}

// AcceptAndConnect flips a pending request to accepted and records the
// mutual connection on both principal rows in one transaction. The
// conditional update makes concurrent resolvers lose cleanly: whoever
// arrives second sees zero affected rows and gets ErrConflict.
func (c *Client) AcceptAndConnect(ctx context.Context, requestID int64) (*models.ConnectionRequest, error) {
	start := time.Now()
	operation := "acceptAndConnect"

	tx, err := c.pool.Begin(ctx)
	if err != nil {
		recordMetrics(operation, "error", metrics.MeasureDuration(start))
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // Rollback after commit is a no-op

	query := fmt.Sprintf(`
		UPDATE connection_requests
		SET status = 'accepted', updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING %s
	`, connectionRequestColumns)

	request, err := models.ScanConnectionRequest(tx.QueryRow(ctx, query, requestID))
	if errors.Is(err, pgx.ErrNoRows) {
		recordMetrics(operation, "conflict", metrics.MeasureDuration(start))
		return nil, fmt.Errorf("request %d already resolved: %w", requestID, apperrors.ErrConflict)
	}
	if err != nil {
		recordMetrics(operation, "error", metrics.MeasureDuration(start))
		return nil, fmt.Errorf("failed to accept request: %w", err)
	}

	// Idempotent appends: the containment guard keeps the arrays
	// duplicate-free even if the same pair is rebuilt or replayed.
	if _, err := tx.Exec(ctx, `
		UPDATE mentees
		SET connections = connections || $2::bigint, updated_at = NOW()
		WHERE id = $1 AND NOT (connections @> ARRAY[$2]::bigint[])
	`, request.SenderID, request.RecipientID); err != nil {
		recordMetrics(operation, "error", metrics.MeasureDuration(start))
		return nil, fmt.Errorf("failed to record mentee connection: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE mentors
		SET connections = connections || $2::bigint, updated_at = NOW()
		WHERE id = $1 AND NOT (connections @> ARRAY[$2]::bigint[])
	`, request.RecipientID, request.SenderID); err != nil {
		recordMetrics(operation, "error", metrics.MeasureDuration(start))
		return nil, fmt.Errorf("failed to record mentor connection: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		recordMetrics(operation, "error", metrics.MeasureDuration(start))
		return nil, fmt.Errorf("failed to commit accept transaction: %w", err)
	}

	duration := metrics.MeasureDuration(start)
	recordMetrics(operation, "success", duration)
	logger.LogAPICall("postgres", operation, "success", duration,
		zap.Int64("request_id", request.ID),
		zap.Int64("sender_id", request.SenderID),
		zap.Int64("recipient_id", request.RecipientID))

	return request, nil
}

// RejectRequest flips a pending request to rejected. Terminal rows are
// left untouched and reported as ErrConflict. The projection is never
// involved.
func (c *Client) RejectRequest(ctx context.Context, requestID int64) (*models.ConnectionRequest, error) {
	start := time.Now()
	operation := "rejectRequest"

	query := fmt.Sprintf(`
		UPDATE connection_requests
		SET status = 'rejected', updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING %s
	`, connectionRequestColumns)

	request, err := models.ScanConnectionRequest(c.pool.QueryRow(ctx, query, requestID))

	duration := metrics.MeasureDuration(start)

	if errors.Is(err, pgx.ErrNoRows) {
		recordMetrics(operation, "conflict", duration)
		return nil, fmt.Errorf("request %d already resolved: %w", requestID, apperrors.ErrConflict)
	}
	if err != nil {
		recordMetrics(operation, "error", duration)
		return nil, fmt.Errorf("failed to reject request: %w", err)
	}

	recordMetrics(operation, "success", duration)
	logger.LogAPICall("postgres", operation, "success", duration, zap.Int64("request_id", request.ID))

	return request, nil
}

// ListConnections returns accepted pairings for a principal, joined
// with the counterpart's display fields. Deleted counterparts drop out
// through the inner join.
func (c *Client) ListConnections(ctx context.Context, principalID int64, kind models.PrincipalKind) ([]*models.Connection, error) {
	start := time.Now()
	operation := "listConnections"

	var query string
	var peerKind models.PrincipalKind
	if kind == models.KindMentee {
		peerKind = models.KindMentor
		query = `
			SELECT cr.id, cr.updated_at,
			       m.id, m.name, COALESCE(m.specialization, ''), COALESCE(m.bio, ''),
			       COALESCE(m.linkedin_url, ''), COALESCE(m.photo_url, ''),
			       m.skills || m.career_areas
			FROM connection_requests cr
			JOIN mentors m ON m.id = cr.recipient_id
			WHERE cr.sender_id = $1 AND cr.status = 'accepted'
			ORDER BY cr.updated_at DESC
		`
	} else {
		peerKind = models.KindMentee
		query = `
			SELECT cr.id, cr.updated_at,
			       me.id, me.name, COALESCE(me.specialization, ''), COALESCE(me.bio, ''),
			       COALESCE(me.linkedin_url, ''), COALESCE(me.photo_url, ''),
			       me.career_interests || me.mentorship_areas
			FROM connection_requests cr
			JOIN mentees me ON me.id = cr.sender_id
			WHERE cr.recipient_id = $1 AND cr.status = 'accepted'
			ORDER BY cr.updated_at DESC
		`
	}

	rows, err := c.pool.Query(ctx, query, principalID)
	if err != nil {
		duration := metrics.MeasureDuration(start)
		recordMetrics(operation, "error", duration)
		return nil, fmt.Errorf("failed to query connections: %w", err)
	}
	defer rows.Close()

	connections := []*models.Connection{}
	for rows.Next() {
		conn := &models.Connection{PeerKind: peerKind}
		err := rows.Scan(
			&conn.RequestID,
			&conn.ConnectedAt,
			&conn.Peer.ID,
			&conn.Peer.Name,
			&conn.Peer.Specialization,
			&conn.Peer.Bio,
			&conn.Peer.LinkedinURL,
			&conn.Peer.PhotoURL,
			&conn.Peer.Tags,
		)
		if err != nil {
			duration := metrics.MeasureDuration(start)
			recordMetrics(operation, "error", duration)
			return nil, fmt.Errorf("failed to scan connection row: %w", err)
		}
		connections = append(connections, conn)
	}

	duration := metrics.MeasureDuration(start)

	if err := rows.Err(); err != nil {
		recordMetrics(operation, "error", duration)
		return nil, fmt.Errorf("failed to read connection rows: %w", err)
	}

	recordMetrics(operation, "success", duration)
	logger.LogAPICall("postgres", operation, "success", duration, zap.Int("count", len(connections)))

	return connections, nil
}

// RebuildProjections recomputes every connections array strictly from
// accepted ledger rows. Runs in one transaction so readers never see a
// half-rebuilt projection.
func (c *Client) RebuildProjections(ctx context.Context) (*models.RebuildResult, error) {
	start := time.Now()
	operation := "rebuildProjections"

	tx, err := c.pool.Begin(ctx)
	if err != nil {
		recordMetrics(operation, "error", metrics.MeasureDuration(start))
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // Rollback after commit is a no-op

	menteeResult, err := tx.Exec(ctx, `
		UPDATE mentees
		SET connections = COALESCE(
			(SELECT array_agg(cr.recipient_id ORDER BY cr.recipient_id)
			 FROM connection_requests cr
			 WHERE cr.sender_id = mentees.id AND cr.status = 'accepted'),
			'{}'),
		    updated_at = NOW()
	`)
	if err != nil {
		recordMetrics(operation, "error", metrics.MeasureDuration(start))
		return nil, fmt.Errorf("failed to rebuild mentee projections: %w", err)
	}

	mentorResult, err := tx.Exec(ctx, `
		UPDATE mentors
		SET connections = COALESCE(
			(SELECT array_agg(cr.sender_id ORDER BY cr.sender_id)
			 FROM connection_requests cr
			 WHERE cr.recipient_id = mentors.id AND cr.status = 'accepted'),
			'{}'),
		    updated_at = NOW()
	`)
	if err != nil {
		recordMetrics(operation, "error", metrics.MeasureDuration(start))
		return nil, fmt.Errorf("failed to rebuild mentor projections: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		recordMetrics(operation, "error", metrics.MeasureDuration(start))
		return nil, fmt.Errorf("failed to commit rebuild transaction: %w", err)
	}

	result := &models.RebuildResult{
		MenteesUpdated: menteeResult.RowsAffected(),
		MentorsUpdated: mentorResult.RowsAffected(),
	}

	duration := metrics.MeasureDuration(start)
	recordMetrics(operation, "success", duration)
	logger.LogAPICall("postgres", operation, "success", duration,
		zap.Int64("mentees_updated", result.MenteesUpdated),
		zap.Int64("mentors_updated", result.MentorsUpdated))

	return result, nil
}
