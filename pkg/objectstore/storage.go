package objectstore

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/mentorlinq/mentorlinq-api/pkg/logger"
	"github.com/mentorlinq/mentorlinq-api/pkg/metrics"
	"go.uber.org/zap"
)

// maxImageSizeBytes limits decoded profile picture size (2 MB, same limit
// the web client enforces)
const maxImageSizeBytes = 2 * 1024 * 1024

var allowedContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
}

// StorageClientInterface defines the object storage operations used by services
type StorageClientInterface interface {
	UploadImage(ctx context.Context, imageData, key, contentType string) (string, error)
	GenerateFileName(prefix string, principalID int64, contentType string) string
	ValidateImageType(contentType string) error
	ValidateImageSize(imageData string) error
}

// StorageClient is an S3-compatible object storage client used for
// profile pictures
type StorageClient struct {
	s3Client   *s3.Client
	bucketName string
	endpoint   string
}

// NewStorageClient creates a new object storage client using the S3 SDK
func NewStorageClient(accessKeyID, secretAccessKey, bucketName, endpoint, region string) (*StorageClient, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("object storage endpoint is required")
	}
	if region == "" {
		region = "us-east-1"
	}

	s3Client := s3.New(s3.Options{
		Region:       region,
		BaseEndpoint: aws.String(endpoint),
		Credentials: credentials.NewStaticCredentialsProvider(
			accessKeyID,
			secretAccessKey,
			"", // session token not needed
		),
	})

	logger.Info("Object storage client initialized",
		zap.String("bucket", bucketName),
		zap.String("endpoint", endpoint),
		zap.String("region", region),
	)

	return &StorageClient{
		s3Client:   s3Client,
		bucketName: bucketName,
		endpoint:   endpoint,
	}, nil
}

// UploadImage uploads a base64-encoded image and returns its public URL
func (s *StorageClient) UploadImage(ctx context.Context, imageData, key, contentType string) (string, error) {
	start := time.Now()
	operation := "uploadImage"

	imageBytes, err := decodeImage(imageData)
	if err != nil {
		metrics.ObjectStorageRequestDuration.WithLabelValues(operation, "error").Observe(metrics.MeasureDuration(start))
		metrics.ObjectStorageRequestTotal.WithLabelValues(operation, "error").Inc()
		return "", err
	}

	_, err = s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(imageBytes),
		ContentType: aws.String(contentType),
	})

	duration := metrics.MeasureDuration(start)

	if err != nil {
		metrics.ObjectStorageRequestDuration.WithLabelValues(operation, "error").Observe(duration)
		metrics.ObjectStorageRequestTotal.WithLabelValues(operation, "error").Inc()
		logger.LogAPICall("object_storage", operation, "error", duration,
			zap.Error(err),
			zap.String("key", key),
		)
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	metrics.ObjectStorageRequestDuration.WithLabelValues(operation, "success").Observe(duration)
	metrics.ObjectStorageRequestTotal.WithLabelValues(operation, "success").Inc()
	logger.LogAPICall("object_storage", operation, "success", duration,
		zap.String("key", key),
		zap.Int("size_bytes", len(imageBytes)),
	)

	// Public URL format: {endpoint}/{bucket}/{key}
	return fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucketName, key), nil
}

// GenerateFileName produces a collision-free storage key for a profile picture
func (s *StorageClient) GenerateFileName(prefix string, principalID int64, contentType string) string {
	ext := allowedContentTypes[strings.ToLower(contentType)]
	if ext == "" {
		ext = ".jpg"
	}
	return filepath.Join(prefix, fmt.Sprintf("%d-%s%s", principalID, uuid.NewString(), ext))
}

// ValidateImageType checks that the content type is an allowed image format
func (s *StorageClient) ValidateImageType(contentType string) error {
	if _, ok := allowedContentTypes[strings.ToLower(contentType)]; !ok {
		return fmt.Errorf("unsupported image type %q: only JPEG and PNG are allowed", contentType)
	}
	return nil
}

// ValidateImageSize checks the decoded payload against the size limit
func (s *StorageClient) ValidateImageSize(imageData string) error {
	imageBytes, err := decodeImage(imageData)
	if err != nil {
		return err
	}
	if len(imageBytes) > maxImageSizeBytes {
		return fmt.Errorf("image too large: %d bytes (max %d)", len(imageBytes), maxImageSizeBytes)
	}
	return nil
}

// decodeImage decodes base64 image data, tolerating the data URI form
// (data:image/png;base64,...)
func decodeImage(imageData string) ([]byte, error) {
	payload := imageData
	if strings.HasPrefix(imageData, "data:") {
		parts := strings.SplitN(imageData, ",", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid data URI format")
		}
		payload = parts[1]
	}

	imageBytes, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 image: %w", err)
	}
	return imageBytes, nil
}
