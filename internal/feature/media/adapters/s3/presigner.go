// Package s3 provides the S3-backed object storage adapter for the media feature.
package s3

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"

	"greetings_backend/internal/feature/media/usecase"
	"greetings_backend/internal/platform/config"
)

// presignExpiry is how long presigned upload and download URLs stay valid.
const presignExpiry = 15 * time.Minute

// Presigner issues presigned S3 URLs for media objects.
type Presigner struct {
	bucket  string
	presign *awss3.PresignClient
}

// Compile-time check to ensure Presigner implements ObjectStorage.
var _ usecase.ObjectStorage = (*Presigner)(nil)

// NewPresigner builds a Presigner from S3 configuration. A non-empty
// BaseEndpoint switches the client to path-style addressing (MinIO).
func NewPresigner(ctx context.Context, cfg config.S3Config) (*Presigner, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := awss3.NewFromConfig(awsCfg, func(o *awss3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return &Presigner{
		bucket:  cfg.Bucket,
		presign: awss3.NewPresignClient(client),
	}, nil
}

// PresignUpload returns a presigned PUT URL for the given key and content type.
func (p *Presigner) PresignUpload(ctx context.Context, key, contentType string) (string, error) {
	req, err := p.presign.PresignPutObject(ctx, &awss3.PutObjectInput{
		Bucket:      &p.bucket,
		Key:         &key,
		ContentType: &contentType,
	}, awss3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

// PresignDownload returns a presigned GET URL for the given key.
func (p *Presigner) PresignDownload(ctx context.Context, key string) (string, error) {
	req, err := p.presign.PresignGetObject(ctx, &awss3.GetObjectInput{
		Bucket: &p.bucket,
		Key:    &key,
	}, awss3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}
