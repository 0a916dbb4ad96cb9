package backup

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/roach88/consultorio/internal/config"
)

// MinioUploader uploads to an S3-compatible bucket.
type MinioUploader struct {
	client      *minio.Client
	bucket      string
	bucketReady bool
}

// NewMinioUploader builds a client from cfg. It does not contact the
// server; the bucket is checked on the first upload.
func NewMinioUploader(cfg config.BackupConfig) (*MinioUploader, error) {
	if !cfg.Complete() {
		return nil, errors.New("backup credentials incomplete")
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio new: %w", err)
	}
	return &MinioUploader{client: mc, bucket: cfg.Bucket}, nil
}

// Upload stores r under key, creating the bucket if it does not exist.
func (u *MinioUploader) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	if err := u.ensureBucket(ctx); err != nil {
		return err
	}
	_, err := u.client.PutObject(ctx, u.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

func (u *MinioUploader) ensureBucket(ctx context.Context) error {
	if u.bucketReady {
		return nil
	}
	exists, err := u.client.BucketExists(ctx, u.bucket)
	if err != nil {
		return fmt.Errorf("bucket %s: %w", u.bucket, err)
	}
	if !exists {
		if err := u.client.MakeBucket(ctx, u.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket %s: %w", u.bucket, err)
		}
	}
	u.bucketReady = true
	return nil
}

// FromConfig builds the backup service for the data directory. Backups are
// unavailable when the credentials are incomplete.
func FromConfig(snap Snapshotter, cfg config.BackupConfig, opts ...Option) *Service {
	opts = append([]Option{WithFolder(cfg.Folder), WithDBName(config.DBFileName)}, opts...)
	up, err := NewMinioUploader(cfg)
	if err != nil {
		return New(snap, nil, opts...)
	}
	return New(snap, up, opts...)
}
