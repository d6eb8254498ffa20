package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/taskforce-app/taskforce-api/internal/constants"
)

// S3Store is an ObjectStore backed by S3 presigned URLs.
type S3Store struct {
	presignClient *s3.PresignClient
	bucket        string
}

// S3Config holds the settings needed to reach the bucket.
type S3Config struct {
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
}

// NewS3Store creates a new S3Store.
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)

	return &S3Store{
		presignClient: s3.NewPresignClient(client),
		bucket:        cfg.Bucket,
	}, nil
}

// PresignUpload returns a presigned PUT URL for the given key.
func (s *S3Store) PresignUpload(ctx context.Context, key, contentType string) (string, error) {
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	result, err := s.presignClient.PresignPutObject(ctx, input,
		s3.WithPresignExpires(constants.UploadURLLifetime*time.Minute))
	if err != nil {
		return "", fmt.Errorf("failed to presign upload: %w", err)
	}

	return result.URL, nil
}

// PresignDownload returns a presigned GET URL for the given key.
func (s *S3Store) PresignDownload(ctx context.Context, key string) (string, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}

	result, err := s.presignClient.PresignGetObject(ctx, input,
		s3.WithPresignExpires(constants.DownloadURLLifetime*time.Minute))
	if err != nil {
		return "", fmt.Errorf("failed to presign download: %w", err)
	}

	return result.URL, nil
}
