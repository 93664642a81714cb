// Package storage keeps document payloads in an S3-compatible object store.
package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"family-finance-go/internal/config"
	"family-finance-go/pkg/logger"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinIOStore struct {
	client    *minio.Client
	bucket    string
	urlExpiry time.Duration
	log       logger.Logger
}

func NewMinIOStore(cfg config.StorageConfig, log logger.Logger) (*MinIOStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	return &MinIOStore{
		client:    client,
		bucket:    cfg.Bucket,
		urlExpiry: cfg.URLExpiry,
		log:       log,
	}, nil
}

func (m *MinIOStore) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	_, err := m.client.PutObject(ctx, m.bucket, key, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		m.log.InternalError("storage.put: upload failed", err, "key", key, "size", size, "bucket", m.bucket)
		return err
	}
	m.log.Debug("storage.put: uploaded", "key", key, "size", size, "bucket", m.bucket)
	return nil
}

// URL returns a presigned GET link valid for the configured expiry.
func (m *MinIOStore) URL(ctx context.Context, key string) (string, error) {
	value, err := m.client.PresignedGetObject(ctx, m.bucket, key, m.urlExpiry, nil)
	if err != nil {
		return "", err
	}
	return value.String(), nil
}

func (m *MinIOStore) Delete(ctx context.Context, key string) error {
	err := m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{})
	if err != nil {
		m.log.InternalError("storage.delete: remove failed", err, "key", key, "bucket", m.bucket)
	}
	return err
}

func (m *MinIOStore) EnsureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed creating bucket %s: %w", m.bucket, err)
	}
	m.log.Info("storage: bucket created", "bucket", m.bucket)
	return nil
}
