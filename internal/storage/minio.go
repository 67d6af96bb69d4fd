package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/folio/folio/backend/api/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOStorage is a thin wrapper around the minio client.
type MinIOStorage struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

// NewMinIOStorage creates a client, ensures the bucket exists and makes its
// objects publicly readable so returned URLs work without signing.
func NewMinIOStorage(cfg config.MinIOConfig) (*MinIOStorage, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio config missing")
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio new: %w", err)
	}
	s := &MinIOStorage{client: mc, bucket: cfg.Bucket, baseURL: publicBase(cfg)}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := mc.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		// ignore "already exists" style errors
		exist, xerr := mc.BucketExists(ctx, s.bucket)
		if xerr != nil || !exist {
			return nil, fmt.Errorf("minio bucket ensure: %w", err)
		}
	}
	if err := mc.SetBucketPolicy(ctx, s.bucket, readOnlyPolicy(s.bucket)); err != nil {
		return nil, fmt.Errorf("minio bucket policy: %w", err)
	}
	return s, nil
}

func (s *MinIOStorage) Upload(ctx context.Context, key string, data io.Reader, size int64, contentType string) (string, error) {
	if _, err := s.client.PutObject(ctx, s.bucket, key, data, size, minio.PutObjectOptions{ContentType: contentType}); err != nil {
		return "", fmt.Errorf("minio put %s: %w", key, err)
	}
	return s.URL(key), nil
}

func (s *MinIOStorage) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("minio remove %s: %w", key, err)
	}
	return nil
}

// URL is the public address of key.
func (s *MinIOStorage) URL(key string) string {
	return s.baseURL + "/" + key
}

func publicBase(cfg config.MinIOConfig) string {
	if cfg.PublicURL != "" {
		return strings.TrimRight(cfg.PublicURL, "/") + "/" + cfg.Bucket
	}
	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	return scheme + "://" + cfg.Endpoint + "/" + cfg.Bucket
}

func readOnlyPolicy(bucket string) string {
	return `{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::` + bucket + `/*"]}]}`
}

func (s *MinIOStorage) Ping(ctx context.Context) error {
	ok, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("minio bucket check: %w", err)
	}
	if !ok {
		return fmt.Errorf("minio bucket %s missing", s.bucket)
	}
	return nil
}
