// Package storage implements the blob storage port on Cloudinary.
package storage

import (
	"context"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"

	"github.com/nagrathcare/clinic-api/internal/core/ports"
)

// Config carries the Cloudinary account credentials.
type Config struct {
	CloudName string
	APIKey    string
	APISecret string
}

// CloudinaryUploader streams files into per-entity folders and returns the
// stable HTTPS delivery URL.
type CloudinaryUploader struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryUploader(cfg Config) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}
	return &CloudinaryUploader{cld: cld}, nil
}

func (u *CloudinaryUploader) Upload(ctx context.Context, folder string, file ports.UploadFile) (string, error) {
	resp, err := u.cld.Upload.Upload(ctx, file.Content, uploader.UploadParams{
		Folder:       folder,
		PublicID:     uuid.New().String(),
		ResourceType: resourceType(file.ContentType),
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	// The SDK reports API-level rejections in the body, not as an error.
	if resp.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload: %s", resp.Error.Message)
	}
	return resp.SecureURL, nil
}

// resourceType picks Cloudinary's delivery pipeline: images go through the
// image pipeline, PDFs are stored as raw files.
func resourceType(contentType string) string {
	if contentType == "application/pdf" {
		return "raw"
	}
	return "image"
}
