package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mentorlinq/mentorlinq-api/internal/models"
	"github.com/mentorlinq/mentorlinq-api/pkg/apperrors"
	"github.com/mentorlinq/mentorlinq-api/pkg/logger"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	// Initialize logger for tests
	if err := logger.Initialize(logger.Config{
		Level:       "debug",
		Environment: "development",
	}); err != nil {
		panic(err)
	}
}

func newMockClient(t *testing.T) (pgxmock.PgxPoolIface, *Client) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, &Client{pool: mock}
}

func requestRow(id, senderID, recipientID int64, status models.RequestStatus) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows([]string{"id", "sender_id", "recipient_id", "status", "created_at", "updated_at"}).
		AddRow(id, senderID, recipientID, status, now, now)
}

func TestAcceptAndConnectRecordsBothSides(t *testing.T) {
	mock, client := newMockClient(t)

	// One transaction: the conditional status flip, then an append on
	// each participant's connections array, both guarded against
	// duplicates by the containment check.
	mock.ExpectBegin()
	mock.ExpectQuery(`(?s)UPDATE connection_requests.+WHERE id = \$1 AND status = 'pending'`).
		WithArgs(int64(42)).
		WillReturnRows(requestRow(42, 7, 9, models.StatusAccepted))
	mock.ExpectExec(`(?s)UPDATE mentees.+NOT \(connections @> ARRAY\[\$2\]::bigint\[\]\)`).
		WithArgs(int64(7), int64(9)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`(?s)UPDATE mentors.+NOT \(connections @> ARRAY\[\$2\]::bigint\[\]\)`).
		WithArgs(int64(9), int64(7)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	request, err := client.AcceptAndConnect(context.Background(), 42)

	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, request.Status)
	assert.Equal(t, int64(7), request.SenderID)
	assert.Equal(t, int64(9), request.RecipientID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAcceptAndConnectReplayConflicts(t *testing.T) {
	mock, client := newMockClient(t)

	// A replay finds no pending row: the conditional update returns
	// nothing and the transaction rolls back before either array is
	// touched.
	mock.ExpectBegin()
	mock.ExpectQuery(`(?s)UPDATE connection_requests.+WHERE id = \$1 AND status = 'pending'`).
		WithArgs(int64(42)).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	_, err := client.AcceptAndConnect(context.Background(), 42)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRejectRequestLeavesProjectionAlone(t *testing.T) {
	mock, client := newMockClient(t)

	mock.ExpectQuery(`(?s)UPDATE connection_requests.+SET status = 'rejected'`).
		WithArgs(int64(42)).
		WillReturnRows(requestRow(42, 7, 9, models.StatusRejected))

	request, err := client.RejectRequest(context.Background(), 42)

	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, request.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateConnectionRequestDuplicatePair(t *testing.T) {
	mock, client := newMockClient(t)

	mock.ExpectQuery(`INSERT INTO connection_requests`).
		WithArgs(int64(7), int64(9), models.StatusPending).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "connection_requests_pair_unique"})

	_, err := client.CreateConnectionRequest(context.Background(), 7, 9)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}
