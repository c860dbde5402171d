package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/rs/zerolog"

	"github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/internal/core/domain"
	"github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/internal/core/ports"
)

// allowedTypes are the image content types accepted for upload.
var allowedTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/jpg":  {},
	"image/png":  {},
	"image/webp": {},
}

// CloudinaryStore implements ports.ImageStore on top of Cloudinary.
type CloudinaryStore struct {
	client  *cloudinary.Cloudinary
	folder  string
	maxSize int64
	log     zerolog.Logger
}

// NewCloudinaryStore builds a store from the cloudinary:// connection URL.
func NewCloudinaryStore(url, folder string, maxSize int64, log zerolog.Logger) (*CloudinaryStore, error) {
	client, err := cloudinary.NewFromURL(url)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}
	return &CloudinaryStore{
		client:  client,
		folder:  folder,
		maxSize: maxSize,
		log:     log,
	}, nil
}

// Upload validates the file and streams it to Cloudinary.
func (s *CloudinaryStore) Upload(ctx context.Context, file ports.ImageUpload) (*ports.UploadedImage, error) {
	if _, ok := allowedTypes[file.ContentType]; !ok {
		return nil, domain.ErrInvalidFileType
	}
	if file.Size > s.maxSize {
		return nil, domain.ErrFileTooLarge
	}

	resp, err := s.client.Upload.Upload(ctx, bytes.NewReader(file.Data), uploader.UploadParams{
		Folder: s.folder,
	})
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload: %w", err)
	}

	s.log.Debug().Str("public_id", resp.PublicID).Msg("image uploaded")

	return &ports.UploadedImage{
		URL:      resp.SecureURL,
		PublicID: resp.PublicID,
	}, nil
}

// Delete removes an image by its public id.
func (s *CloudinaryStore) Delete(ctx context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}
	_, err := s.client.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("cloudinary destroy: %w", err)
	}
	return nil
}
