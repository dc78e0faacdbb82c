package stream

import (
	"context"
	"fmt"
	"time"

	streamchat "github.com/GetStream/stream-chat-go/v5"
	"github.com/mentorlinq/mentorlinq-api/pkg/circuitbreaker"
	"github.com/mentorlinq/mentorlinq-api/pkg/logger"
	"github.com/mentorlinq/mentorlinq-api/pkg/metrics"
	"github.com/mentorlinq/mentorlinq-api/pkg/retry"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// ClientInterface defines the chat platform operations used by services
type ClientInterface interface {
	CreateUserToken(userID string) (string, error)
	UpsertUser(ctx context.Context, userID, name, imageURL string) error
}

// Client wraps the Stream chat SDK with retry and circuit breaker logic
type Client struct {
	chat        *streamchat.Client
	breaker     *gobreaker.CircuitBreaker
	retryConfig retry.Config
	tokenTTL    time.Duration
}

// NewClient creates a Stream chat client. tokenTTLHours of zero means
// issued tokens never expire.
func NewClient(apiKey, apiSecret string, tokenTTLHours int) (*Client, error) {
	if apiKey == "" || apiSecret == "" {
		return nil, fmt.Errorf("stream api key and secret are required")
	}

	chat, err := streamchat.NewClient(apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create stream client: %w", err)
	}

	logger.Info("Stream chat client initialized")

	return &Client{
		chat:        chat,
		breaker:     circuitbreaker.NewCircuitBreaker(circuitbreaker.DefaultConfig("stream-chat")),
		retryConfig: retry.StreamConfig(),
		tokenTTL:    time.Duration(tokenTTLHours) * time.Hour,
	}, nil
}

// CreateUserToken issues a chat token for the given platform user id.
// Token creation is local HMAC signing, no network call involved.
func (c *Client) CreateUserToken(userID string) (string, error) {
	start := time.Now()
	operation := "createToken"

	var expire time.Time
	if c.tokenTTL > 0 {
		expire = time.Now().Add(c.tokenTTL)
	}

	token, err := c.chat.CreateToken(userID, expire)
	duration := metrics.MeasureDuration(start)

	if err != nil {
		metrics.StreamRequestDuration.WithLabelValues(operation, "error").Observe(duration)
		metrics.StreamRequestTotal.WithLabelValues(operation, "error").Inc()
		return "", fmt.Errorf("failed to create stream token: %w", err)
	}

	metrics.StreamRequestDuration.WithLabelValues(operation, "success").Observe(duration)
	metrics.StreamRequestTotal.WithLabelValues(operation, "success").Inc()
	return token, nil
}

// UpsertUser creates or updates the chat-side user record so that
// counterparts appear with a name and avatar inside channels
func (c *Client) UpsertUser(ctx context.Context, userID, name, imageURL string) error {
	start := time.Now()
	operation := "upsertUser"

	_, err := circuitbreaker.Execute(c.breaker, func() (*streamchat.UpsertUserResponse, error) {
		return retry.DoWithResult(ctx, c.retryConfig, "stream.upsertUser", func() (*streamchat.UpsertUserResponse, error) {
			return c.chat.UpsertUser(ctx, &streamchat.User{
				ID:    userID,
				Name:  name,
				Image: imageURL,
			})
		})
	})

	duration := metrics.MeasureDuration(start)

	if err != nil {
		metrics.StreamRequestDuration.WithLabelValues(operation, "error").Observe(duration)
		metrics.StreamRequestTotal.WithLabelValues(operation, "error").Inc()
		logger.LogAPICall("stream", operation, "error", duration,
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return fmt.Errorf("failed to upsert stream user: %w", err)
	}

	metrics.StreamRequestDuration.WithLabelValues(operation, "success").Observe(duration)
	metrics.StreamRequestTotal.WithLabelValues(operation, "success").Inc()
	logger.LogAPICall("stream", operation, "success", duration,
		zap.String("user_id", userID),
	)
	return nil
}
