package models

import (
	"time"

	"github.com/jackc/pgx/v5"
)

// RequestStatus represents the status of a connection request
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusAccepted RequestStatus = "accepted"
	StatusRejected RequestStatus = "rejected"
)

// IsTerminal returns true if the status allows no further transitions
func (s RequestStatus) IsTerminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

// ConnectionRequest is a row in the connection-request ledger. Senders
// are always mentees, recipients always mentors, and the
// (sender, recipient) pair is unique across all statuses.
type ConnectionRequest struct {
	ID          int64         `json:"id"`
	SenderID    int64         `json:"senderId"`
	RecipientID int64         `json:"recipientId"`
	Status      RequestStatus `json:"status"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// CanBeResolvedBy reports whether the mentor may accept or reject this
// request. Only the named recipient qualifies.
func (r *ConnectionRequest) CanBeResolvedBy(mentorID int64) bool {
	return r.RecipientID == mentorID
}

// Counterpart returns the other party of the request relative to selfID
func (r *ConnectionRequest) Counterpart(selfID int64) int64 {
	if r.SenderID == selfID {
		return r.RecipientID
	}
	return r.SenderID
}

// ScanConnectionRequest scans a single PostgreSQL row into a
// ConnectionRequest struct.
// Expected columns: id, sender_id, recipient_id, status, created_at, updated_at
func ScanConnectionRequest(row pgx.Row) (*ConnectionRequest, error) {
	var r ConnectionRequest

	err := row.Scan(
		&r.ID,
		&r.SenderID,
		&r.RecipientID,
		&r.Status,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &r, nil
}

// PeerSummary is the counterpart display block attached to joined
// request and connection views
type PeerSummary struct {
	ID             int64    `json:"id"`
	Name           string   `json:"name"`
	Specialization string   `json:"specialization"`
	Bio            string   `json:"bio"`
	LinkedinURL    string   `json:"linkedinUrl"`
	PhotoURL       string   `json:"photoUrl"`
	Tags           []string `json:"tags"`
}

// RequestWithPeer is a ledger row joined with one side's display fields.
// For incoming lists the peer is the sending mentee, for outgoing lists
// the recipient mentor.
type RequestWithPeer struct {
	ConnectionRequest
	Peer PeerSummary `json:"peer"`
}

// ScanRequestWithPeer scans a joined row.
// Expected columns: request columns, then peer id, name, specialization,
// bio, linkedin_url, photo_url, tags
func ScanRequestWithPeer(row pgx.Row) (*RequestWithPeer, error) {
	var r RequestWithPeer

	err := row.Scan(
		&r.ID,
		&r.SenderID,
		&r.RecipientID,
		&r.Status,
		&r.CreatedAt,
		&r.UpdatedAt,
		&r.Peer.ID,
		&r.Peer.Name,
		&r.Peer.Specialization,
		&r.Peer.Bio,
		&r.Peer.LinkedinURL,
		&r.Peer.PhotoURL,
		&r.Peer.Tags,
	)
	if err != nil {
		return nil, err
	}

	return &r, nil
}

// ScanRequestsWithPeer scans multiple joined rows
func ScanRequestsWithPeer(rows pgx.Rows) ([]*RequestWithPeer, error) {
	defer rows.Close()

	requests := []*RequestWithPeer{}
	for rows.Next() {
		request, err := ScanRequestWithPeer(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return requests, nil
}

// RequestsResponse is the response for incoming/outgoing listings
type RequestsResponse struct {
	Requests []*RequestWithPeer `json:"requests"`
	Total    int                `json:"total"`
}

// Connection is an accepted pairing viewed from one side
type Connection struct {
	RequestID   int64         `json:"requestId"`
	ConnectedAt time.Time     `json:"connectedAt"`
	Peer        PeerSummary   `json:"peer"`
	PeerKind    PrincipalKind `json:"peerKind"`
}

// ConnectionsResponse is the response for the connections listing
type ConnectionsResponse struct {
	Connections []*Connection `json:"connections"`
	Total       int           `json:"total"`
}

// RebuildResult reports the outcome of a projection rebuild
type RebuildResult struct {
	MenteesUpdated int64 `json:"menteesUpdated"`
	MentorsUpdated int64 `json:"mentorsUpdated"`
}
