package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/JaimeStill/reception-registry/pkg/lifecycle"
)

// s3Storage implements System on an S3-compatible bucket.
type s3Storage struct {
	client  *s3.Client
	bucket  string
	maxSize int64
	logger  *slog.Logger
}

// NewS3 creates an S3 storage system. Credentials come from the default AWS
// provider chain. A configured endpoint switches to path-style addressing
// for S3-compatible services such as LocalStack or MinIO.
func NewS3(ctx context.Context, cfg *Config, logger *slog.Logger) (System, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket required")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &s3Storage{
		client:  client,
		bucket:  cfg.Bucket,
		maxSize: cfg.MaxArtifactSizeBytes(),
		logger:  logger.With("system", "storage", "backend", BackendS3),
	}, nil
}

func (s *s3Storage) Start(lc *lifecycle.Coordinator) error {
	s.logger.Info("starting storage system", "bucket", s.bucket)

	lc.OnStartup(func() {
		_, err := s.client.HeadBucket(lc.Context(), &s3.HeadBucketInput{
			Bucket: aws.String(s.bucket),
		})
		if err != nil {
			s.logger.Error("storage bucket unreachable", "bucket", s.bucket, "error", err)
			return
		}
		s.logger.Info("storage bucket verified")
	})

	return nil
}

func (s *s3Storage) Store(ctx context.Context, key string, data []byte) error {
	if key == "" {
		return ErrInvalidKey
	}
	if err := checkSize(data, s.maxSize); err != nil {
		return err
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return mapS3Error(err, "put object")
	}
	return nil
}

func (s *s3Storage) Retrieve(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrInvalidKey
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, mapS3Error(err, "get object")
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read object body: %w", err)
	}
	return data, nil
}

func (s *s3Storage) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrInvalidKey
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if errors.Is(mapS3Error(err, ""), ErrNotFound) {
			return nil
		}
		return mapS3Error(err, "delete object")
	}
	return nil
}

func (s *s3Storage) Validate(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, ErrInvalidKey
	}

	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		mapped := mapS3Error(err, "head object")
		if errors.Is(mapped, ErrNotFound) {
			return false, nil
		}
		return false, mapped
	}
	return true, nil
}

func mapS3Error(err error, op string) error {
	var noKey *types.NoSuchKey
	var notFound *types.NotFound
	if errors.As(err, &noKey) || errors.As(err, &notFound) {
		return ErrNotFound
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey":
			return ErrNotFound
		case "AccessDenied", "Forbidden":
			return ErrPermissionDenied
		}
	}

	return fmt.Errorf("%s: %w", op, err)
}
