package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pageza/healthbite/backend/config"
	"github.com/pageza/healthbite/backend/internal/logger"
)

const maxImageBytes = 10 << 20

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// objectPutter is the slice of the S3 client the image store needs.
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3ImageStore downloads recipe images and re-hosts them in the configured bucket.
type S3ImageStore struct {
	putter objectPutter
	bucket string
	urlFor func(key string) string
	client *resty.Client
}

// NewS3ImageStore returns nil when cfg is nil so callers can pass it straight through.
func NewS3ImageStore(cfg *config.S3Config) *S3ImageStore {
	if cfg == nil {
		return nil
	}
	return newImageStore(cfg.Client, cfg.BucketName, cfg.ObjectURL)
}

func newImageStore(putter objectPutter, bucket string, urlFor func(string) string) *S3ImageStore {
	return &S3ImageStore{
		putter: putter,
		bucket: bucket,
		urlFor: urlFor,
		client: resty.New().SetTimeout(30 * time.Second),
	}
}

// Store fetches sourceURL and uploads it under recipes/<recipeID>.
func (s *S3ImageStore) Store(ctx context.Context, sourceURL string, recipeID uuid.UUID) (string, error) {
	resp, err := s.client.R().SetContext(ctx).Get(sourceURL)
	if err != nil {
		return "", fmt.Errorf("failed to download image: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("failed to download image: status %d", resp.StatusCode())
	}

	contentType := strings.TrimSpace(strings.Split(resp.Header().Get("Content-Type"), ";")[0])
	ext, ok := imageExtensions[strings.ToLower(contentType)]
	if !ok {
		return "", fmt.Errorf("unsupported image content type %q", contentType)
	}
	body := resp.Body()
	if len(body) == 0 || len(body) > maxImageBytes {
		return "", fmt.Errorf("image size %d bytes is out of range", len(body))
	}

	key := "recipes/" + recipeID.String() + ext
	_, err = s.putter.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image to S3: %w", err)
	}

	logger.Get().Info("recipe image stored",
		zap.String("recipe_id", recipeID.String()),
		zap.String("key", key),
	)
	return s.urlFor(key), nil
}
