package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	cld "github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"

	"github.com/harentsoaR/mentorship-api/internal/config"
)

type CloudinaryUploader struct {
	cld *cld.Cloudinary
}

func NewCloudinaryUploader(cfg config.CloudinaryConfig) (*CloudinaryUploader, error) {
	var (
		cloud *cld.Cloudinary
		err   error
	)
	if cfg.URL != "" {
		cloud, err = cld.NewFromURL(cfg.URL)
	} else {
		cloud, err = cld.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	}
	if err != nil {
		return nil, fmt.Errorf("cloudinary: %w", err)
	}
	return &CloudinaryUploader{cld: cloud}, nil
}

func (u *CloudinaryUploader) Upload(ctx context.Context, folder, _ string, data []byte) (Asset, error) {
	res, err := u.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		Folder:       folder,
		PublicID:     uuid.NewString(),
		ResourceType: "auto",
	})
	if err != nil {
		return Asset{}, err
	}
	if res.Error.Message != "" {
		return Asset{}, errors.New(res.Error.Message)
	}
	return Asset{URL: res.SecureURL, Key: res.PublicID, ResourceType: res.ResourceType}, nil
}

func (u *CloudinaryUploader) Delete(ctx context.Context, asset Asset) error {
	res, err := u.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     asset.Key,
		ResourceType: asset.ResourceType,
	})
	if err != nil {
		return err
	}
	if res.Error.Message != "" {
		return errors.New(res.Error.Message)
	}
	return nil
}
