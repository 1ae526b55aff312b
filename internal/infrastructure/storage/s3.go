// Package storage uploads avatars and logos to S3-compatible object storage
// and derives the public URL stored on the role record.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"internmatch/internal/config"
)

type Uploader struct {
	client     *s3.Client
	cfg        config.StorageConfig
	publicHost string
}

// NewUploader builds an S3 client with path-style addressing so it works
// against MinIO and other S3-compatible endpoints.
func NewUploader(cfg config.StorageConfig) (*Uploader, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("storage endpoint not configured")
	}

	endpoint := cfg.Endpoint
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}

	client := s3.New(s3.Options{
		Region: cfg.Region,
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID, cfg.SecretKey, "",
		),
		BaseEndpoint: aws.String(endpoint),
		UsePathStyle: true,
	})

	publicHost := cfg.PublicHost
	if publicHost == "" {
		publicHost = endpoint
	}

	return &Uploader{client: client, cfg: cfg, publicHost: publicHost}, nil
}

// UploadAvatar stores a student avatar under a per-user prefix and returns
// the public URL.
func (u *Uploader) UploadAvatar(ctx context.Context, userID uuid.UUID, filename, contentType string, body io.Reader) (string, error) {
	key := fmt.Sprintf("%s/%d_%s", userID, time.Now().UnixMilli(), sanitizeFilename(filename))
	return u.put(ctx, u.cfg.AvatarBucket, key, contentType, body)
}

// UploadLogo stores a company logo at a stable per-company key, replacing
// any previous upload.
func (u *Uploader) UploadLogo(ctx context.Context, companyID uuid.UUID, filename, contentType string, body io.Reader) (string, error) {
	ext := path.Ext(filename)
	if ext == "" {
		ext = ".png"
	}
	key := fmt.Sprintf("companies/%s/logo%s", companyID, ext)
	return u.put(ctx, u.cfg.LogoBucket, key, contentType, body)
}

func (u *Uploader) put(ctx context.Context, bucket, key, contentType string, body io.Reader) (string, error) {
	if bucket == "" {
		return "", fmt.Errorf("storage bucket not configured")
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := u.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("put object %s/%s: %w", bucket, key, err)
	}

	return u.PublicURL(bucket, key), nil
}

// PublicURL is the path-style URL of an object on the configured host.
func (u *Uploader) PublicURL(bucket, key string) string {
	host := strings.TrimSuffix(u.publicHost, "/")
	return fmt.Sprintf("%s/%s/%s", host, bucket, key)
}

func sanitizeFilename(name string) string {
	name = path.Base(name)
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	if name == "" || name == "." {
		return "file"
	}
	return name
}
