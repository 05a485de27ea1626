// Package receipt renders and stores plain-text sale receipts.
package receipt

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// Store persists rendered receipts and returns their storage location.
type Store interface {
	// Put stores the receipt body under the given key and returns the
	// location it was stored at.
	Put(ctx context.Context, key string, body []byte) (string, error)
}

// fileStore writes receipts to a local directory.
type fileStore struct {
	dir    string
	logger zerolog.Logger
}

// NewFileStore creates a receipt store backed by a local directory.
func NewFileStore(dir string, logger zerolog.Logger) Store {
	return &fileStore{
		dir:    dir,
		logger: logger.With().Str("component", "receipt-store").Logger(),
	}
}

func (s *fileStore) Put(ctx context.Context, key string, body []byte) (string, error) {
	path := filepath.Join(s.dir, key)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create receipt directory: %w", err)
	}

	if err := os.WriteFile(path, body, 0o644); err != nil {
		s.logger.Error().Err(err).Str("path", path).Msg("failed to write receipt")
		return "", fmt.Errorf("failed to write receipt %s: %w", path, err)
	}

	s.logger.Debug().Str("path", path).Msg("receipt stored")
	return path, nil
}

// s3Store writes receipts to an S3 bucket.
type s3Store struct {
	client *s3.Client
	bucket string
	prefix string
	logger zerolog.Logger
}

// NewS3Store creates a receipt store backed by AWS S3.
func NewS3Store(ctx context.Context, bucket, region, prefix string, logger zerolog.Logger) (Store, error) {
	logger = logger.With().Str("component", "s3-receipt-store").Logger()

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Msg("S3 receipt store initialised")

	return &s3Store{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		prefix: prefix,
		logger: logger,
	}, nil
}

func (s *s3Store) Put(ctx context.Context, key string, body []byte) (string, error) {
	objectKey := s.prefix + key

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("text/plain; charset=utf-8"),
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("bucket", s.bucket).
			Str("key", objectKey).
			Msg("failed to upload receipt")
		return "", fmt.Errorf("failed to upload receipt %s: %w", objectKey, err)
	}

	location := fmt.Sprintf("s3://%s/%s", s.bucket, objectKey)
	s.logger.Debug().Str("location", location).Msg("receipt stored")
	return location, nil
}
