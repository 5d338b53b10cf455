// Package storage serves e-book files through short-lived presigned URLs on
// an S3-compatible bucket. The platform never parses or proxies the files.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Config carries bucket credentials; Endpoint is set for S3-compatible
// providers and left empty for AWS itself.
type Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	URLTTL    time.Duration
}

type Downloads struct {
	presign *s3.PresignClient
	bucket  string
	urlTTL  time.Duration
}

func New(ctx context.Context, cfg Config) (*Downloads, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey, cfg.SecretKey, "",
		)),
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load storage config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	ttl := cfg.URLTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}

	return &Downloads{
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Bucket,
		urlTTL:  ttl,
	}, nil
}

// PresignDownload returns a time-limited GET URL for one object key.
func (d *Downloads) PresignDownload(ctx context.Context, key string) (string, time.Time, error) {
	req, err := d.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(d.urlTTL))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("presign download: %w", err)
	}
	return req.URL, time.Now().Add(d.urlTTL), nil
}
