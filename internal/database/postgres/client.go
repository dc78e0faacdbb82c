package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mentorlinq/mentorlinq-api/pkg/logger"
	"github.com/mentorlinq/mentorlinq-api/pkg/metrics"
)

// querier is the subset of pgxpool.Pool the client issues statements
// through. Tests substitute a mock pool here.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
}

// Client wraps a pgx connection pool with observability
type Client struct {
	pool querier
	raw  *pgxpool.Pool
}

// NewClient creates a new PostgreSQL client over an existing pool
func NewClient(pool *pgxpool.Pool) *Client {
	return &Client{pool: pool, raw: pool}
}

// Close closes the connection pool
func (c *Client) Close() {
	if c.raw != nil {
		c.raw.Close()
		logger.Info("PostgreSQL connection pool closed")
	}
}

// Pool returns the underlying connection pool for advanced usage
func (c *Client) Pool() *pgxpool.Pool {
	return c.raw
}

// Ping checks if the database connection is alive
func (c *Client) Ping(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

// Stats returns connection pool statistics
func (c *Client) Stats() *pgxpool.Stat {
	if c.raw == nil {
		return nil
	}
	return c.raw.Stat()
}

// recordMetrics records database operation metrics
func recordMetrics(operation, status string, duration float64) {
	metrics.DBRequestDuration.WithLabelValues(operation, status).Observe(duration)
	metrics.DBRequestTotal.WithLabelValues(operation, status).Inc()
}

// isUniqueViolation reports whether err is a unique constraint violation.
// An empty constraint matches any unique index.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	if pgErr.Code != "23505" {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}
