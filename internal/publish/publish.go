// Package publish uploads the trends summary to S3.
package publish

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stahnma/gh-trends/internal/retry"
)

// DatePlaceholder in an object key is replaced by the summary's latest date.
const DatePlaceholder = "%s"

// PutObjectAPI is the part of the S3 client used for uploads.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// NewClient builds an S3 client from the default AWS credential chain.
func NewClient(ctx context.Context, region string) (*s3.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return s3.NewFromConfig(cfg), nil
}

// Publisher uploads files to one bucket.
type Publisher struct {
	client PutObjectAPI
	bucket string
	retry  []retry.Option
	logger *slog.Logger
}

// New returns a Publisher. Retry options override the default backoff.
func New(client PutObjectAPI, bucket string, logger *slog.Logger, opts ...retry.Option) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	if len(opts) == 0 {
		opts = []retry.Option{retry.WithMaxRetries(2), retry.WithInitialDelay(time.Second)}
	}
	return &Publisher{client: client, bucket: bucket, retry: opts, logger: logger}
}

// ObjectKey fills the date into a key pattern.
func ObjectKey(pattern, date string) string {
	return strings.ReplaceAll(pattern, DatePlaceholder, date)
}

// UploadFile uploads the file at path under key.
func (p *Publisher) UploadFile(ctx context.Context, path, key string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if len(data) == 0 {
		return fmt.Errorf("refusing to upload empty file %s", path)
	}
	return p.Upload(ctx, key, data)
}

// Upload puts data under key as JSON.
func (p *Publisher) Upload(ctx context.Context, key string, data []byte) error {
	err := retry.Do(ctx, func() error {
		_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(p.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(data),
			ContentType: aws.String("application/json"),
		})
		return err
	}, p.retry...)
	if err != nil {
		return fmt.Errorf("failed to upload s3://%s/%s: %w", p.bucket, key, err)
	}
	p.logger.Info("uploaded to S3", "bucket", p.bucket, "key", key, "bytes", len(data))
	return nil
}
