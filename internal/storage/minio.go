package storage

import (
	"bytes"
	"context"
	"errors"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/harentsoaR/mentorship-api/internal/config"
)

// MinioUploader stores assets in a self-hosted MinIO bucket.
type MinioUploader struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

func NewMinioUploader(ctx context.Context, cfg config.MinioConfig) (*MinioUploader, error) {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, errors.New("minio endpoint is required")
	}
	if strings.TrimSpace(cfg.AccessKey) == "" || strings.TrimSpace(cfg.SecretKey) == "" {
		return nil, errors.New("minio access key and secret key are required")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}

	publicURL := strings.TrimRight(cfg.PublicURL, "/")
	if publicURL == "" {
		publicURL = strings.TrimRight(client.EndpointURL().String(), "/")
	}
	u := &MinioUploader{client: client, bucket: cfg.Bucket, publicURL: publicURL}
	if err := u.ensureBucket(ctx); err != nil {
		return nil, err
	}
	return u, nil
}

func (u *MinioUploader) ensureBucket(ctx context.Context) error {
	exists, err := u.client.BucketExists(ctx, u.bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return u.client.MakeBucket(ctx, u.bucket, minio.MakeBucketOptions{})
}

func (u *MinioUploader) Upload(ctx context.Context, folder, filename string, data []byte) (Asset, error) {
	key := objectKey(folder, filename)
	_, err := u.client.PutObject(ctx, u.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType(data),
	})
	if err != nil {
		return Asset{}, err
	}
	return Asset{URL: u.publicURL + "/" + u.bucket + "/" + key, Key: key}, nil
}

func (u *MinioUploader) Delete(ctx context.Context, asset Asset) error {
	return u.client.RemoveObject(ctx, u.bucket, asset.Key, minio.RemoveObjectOptions{})
}
