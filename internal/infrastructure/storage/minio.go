package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"

	"github.com/goride/admin-api/internal/core/domain"
	"github.com/goride/admin-api/internal/core/ports"
)

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// MinIO stores pictures as objects keyed <kind>/<name>.
type MinIO struct {
	mc     *minio.Client
	bucket string
	log    zerolog.Logger
}

func NewMinIO(cfg MinIOConfig, log zerolog.Logger) (*MinIO, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("minio access key and secret key are required")
	}

	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	bucket := cfg.Bucket
	if bucket == "" {
		bucket = "goride-uploads"
	}
	return &MinIO{mc: mc, bucket: bucket, log: log}, nil
}

// EnsureBucket creates the bucket when it does not exist yet.
func (m *MinIO) EnsureBucket(ctx context.Context) error {
	exists, err := m.mc.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := m.mc.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}
		m.log.Info().Str("bucket", m.bucket).Msg("created bucket")
	}
	return nil
}

// Ping reports whether the bucket is reachable, for readiness checks.
func (m *MinIO) Ping(ctx context.Context) error {
	_, err := m.mc.BucketExists(ctx, m.bucket)
	return err
}

func (m *MinIO) Save(ctx context.Context, kind string, img ports.ImageUpload) (string, error) {
	name, data, contentType, err := prepare(img)
	if err != nil {
		return "", err
	}
	key := kind + "/" + name
	_, err = m.mc.PutObject(ctx, m.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return name, nil
}

func (m *MinIO) Open(ctx context.Context, kind, name string) (io.ReadCloser, string, error) {
	if !validName(kind, name) {
		return nil, "", domain.ErrNotFound
	}
	key := kind + "/" + name
	obj, err := m.mc.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", fmt.Errorf("download %s: %w", key, err)
	}
	// GetObject is lazy; Stat surfaces a missing key.
	info, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, "", domain.ErrNotFound
		}
		return nil, "", fmt.Errorf("stat %s: %w", key, err)
	}
	ct := info.ContentType
	if ct == "" {
		ct = contentTypeOf(name)
	}
	return obj, ct, nil
}

func (m *MinIO) Delete(ctx context.Context, kind, name string) error {
	if !validName(kind, name) {
		return nil
	}
	key := kind + "/" + name
	if err := m.mc.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}
