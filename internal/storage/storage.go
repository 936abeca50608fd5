// Package storage relays uploaded files to object storage and returns a
// public reference for each one.
package storage

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/harentsoaR/mentorship-api/internal/config"
)

// MaxUploadSize is the per-file limit for relayed uploads.
const MaxUploadSize = 5 << 20

// Destination folders for mentor assets.
const (
	FolderProfiles = "mentors_profiles"
	FolderIDCards  = "mentors_ids"
)

// Asset is a stored object. Key is whatever the provider needs to delete it.
type Asset struct {
	URL          string
	Key          string
	ResourceType string
}

// Uploader pushes a buffered file to object storage.
type Uploader interface {
	Upload(ctx context.Context, folder, filename string, data []byte) (Asset, error)
	Delete(ctx context.Context, asset Asset) error
}

// New builds the uploader for the configured provider.
func New(ctx context.Context, cfg config.StorageConfig) (Uploader, error) {
	switch cfg.Provider {
	case config.StorageCloudinary:
		return NewCloudinaryUploader(cfg.Cloudinary)
	case config.StorageMinio:
		return NewMinioUploader(ctx, cfg.Minio)
	case config.StorageS3:
		return NewS3Uploader(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Provider)
	}
}

// objectKey returns a collision-free key under folder that keeps the
// original file extension.
func objectKey(folder, filename string) string {
	return path.Join(folder, uuid.NewString()+strings.ToLower(filepath.Ext(filename)))
}

func contentType(data []byte) string {
	return http.DetectContentType(data)
}
