package assets

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/phrazzld/places-api/internal/config"
	"github.com/phrazzld/places-api/internal/platform/logger"
)

const s3KeyPrefix = "images/"

// objectAPI is the part of *s3.Client the store calls.
type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store keeps images in an S3-compatible bucket under the images/ prefix.
// baseURL must be the public URL of that prefix.
type S3Store struct {
	client  objectAPI
	bucket  string
	baseURL string
	logger  *slog.Logger
}

// NewS3Store wraps an existing client.
func NewS3Store(client objectAPI, bucket, baseURL string, logger *slog.Logger) *S3Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &S3Store{
		client:  client,
		bucket:  bucket,
		baseURL: baseURL,
		logger:  logger.With(slog.String("component", "s3_assets"), slog.String("bucket", bucket)),
	}
}

// NewS3StoreFromConfig builds the S3 client from cfg. Static credentials are used
// when both keys are set, otherwise the default AWS credential chain applies.
// A custom endpoint switches to path-style addressing for MinIO and friends.
func NewS3StoreFromConfig(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (*S3Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.S3Region)}
	if cfg.S3AccessKey != "" && cfg.S3SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	return NewS3Store(client, cfg.S3Bucket, cfg.PublicBaseURL, logger), nil
}

// Save uploads r under a fresh key and returns its public reference.
func (s *S3Store) Save(ctx context.Context, ext string, r io.Reader) (string, error) {
	name, err := newObjectName(ext)
	if err != nil {
		return "", err
	}

	// The SDK needs a seekable body to sign the payload.
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read asset: %w", err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s3KeyPrefix + name),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(allowedExtensions[path.Ext(name)]),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload asset: %w", err)
	}

	ref := publicRef(s.baseURL, name)
	logger.FromContextOrDefault(ctx, s.logger).Debug("asset uploaded", slog.String("ref", ref))
	return ref, nil
}

// Delete removes the object behind ref. S3 treats deleting a missing key as success.
func (s *S3Store) Delete(ctx context.Context, ref string) error {
	name, err := nameFromRef(s.baseURL, ref)
	if err != nil {
		return err
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s3KeyPrefix + name),
	})
	if err != nil {
		return fmt.Errorf("failed to delete asset: %w", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("asset deleted", slog.String("ref", ref))
	return nil
}
