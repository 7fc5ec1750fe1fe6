package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds S3 client and bucket info
type S3Config struct {
	Client        *s3.Client
	BucketName    string
	Region        string
	PublicBaseURL string
}

// NewS3Config initializes the S3 client from the shared AWS config chain.
// It returns nil, nil when no bucket is configured.
func NewS3Config(ctx context.Context, settings S3Settings) (*S3Config, error) {
	if settings.Bucket == "" {
		return nil, nil
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(settings.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &S3Config{
		Client:        s3.NewFromConfig(awsCfg),
		BucketName:    settings.Bucket,
		Region:        settings.Region,
		PublicBaseURL: settings.PublicBaseURL,
	}, nil
}

// ObjectURL is the public URL of an object in the bucket.
func (s *S3Config) ObjectURL(key string) string {
	return ObjectURL(s.PublicBaseURL, s.BucketName, s.Region, key)
}

// ObjectURL builds an object URL, preferring a configured public base such as a CDN.
func ObjectURL(publicBase, bucket, region, key string) string {
	if publicBase != "" {
		return strings.TrimRight(publicBase, "/") + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, region, key)
}
