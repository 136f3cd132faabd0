// Package storage uploads user media to an S3-compatible object
// store and hands back public retrieval URLs.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string
}

type Uploader struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

func New(cfg Config) (*Uploader, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create object store client: %w", err)
	}

	return &Uploader{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
	}, nil
}

// EnsureBucket creates the bucket if it does not exist yet. Called
// once at startup.
func (u *Uploader) EnsureBucket(ctx context.Context) error {
	exists, err := u.client.BucketExists(ctx, u.bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := u.client.MakeBucket(ctx, u.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket: %w", err)
	}
	return nil
}

// ObjectPath builds the user media key: users/{userId}/{field}_{timestamp}.
func ObjectPath(userID uuid.UUID, field string, now time.Time) string {
	return fmt.Sprintf("users/%s/%s_%d", userID, field, now.Unix())
}

// UploadUserImage stores an avatar or cover image and returns its
// public URL.
func (u *Uploader) UploadUserImage(ctx context.Context, userID uuid.UUID, field, contentType string, r io.Reader, size int64) (string, error) {
	key := ObjectPath(userID, field, time.Now())

	_, err := u.client.PutObject(ctx, u.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", field, err)
	}

	return u.publicURL + "/" + key, nil
}
