package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/segyhp/microloan-engine/internal/config"
	"github.com/segyhp/microloan-engine/internal/domain"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// ErrStorageDisabled is returned when no document storage has been configured.
var ErrStorageDisabled = errors.New("document storage is not configured")

// DocumentStorage persists customer documents and returns a public URL for them.
type DocumentStorage interface {
	Upload(ctx context.Context, doc *domain.Document, kind string) (string, error)
}

type cloudinaryStorage struct {
	client *cloudinary.Cloudinary
	folder string
}

// NewCloudinaryStorage builds a DocumentStorage from either CLOUDINARY_URL or
// the individual credentials.
func NewCloudinaryStorage(cfg config.CloudinaryConfig) (DocumentStorage, error) {
	var (
		client *cloudinary.Cloudinary
		err    error
	)
	if cfg.URL != "" {
		client, err = cloudinary.NewFromURL(cfg.URL)
	} else {
		client, err = cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}

	return &cloudinaryStorage{client: client, folder: cfg.Folder}, nil
}

func (s *cloudinaryStorage) Upload(ctx context.Context, doc *domain.Document, kind string) (string, error) {
	if doc == nil || doc.Content == nil {
		return "", errors.New("empty document")
	}

	result, err := s.client.Upload.Upload(ctx, doc.Content, uploader.UploadParams{
		Folder:    folderFor(s.folder, kind),
		PublicID:  generatePublicID(doc.Filename),
		Overwrite: func(b bool) *bool { return &b }(true),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to Cloudinary: %w", err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("cloudinary rejected upload: %s", result.Error.Message)
	}

	return result.SecureURL, nil
}

func folderFor(base, kind string) string {
	switch {
	case base == "":
		return kind
	case kind == "":
		return base
	default:
		return base + "/" + kind
	}
}

// generatePublicID keeps the file's base name and appends a random suffix.
func generatePublicID(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	base = strings.Map(func(r rune) rune {
		if r == ' ' || r == '/' || r == '\\' {
			return '_'
		}
		return r
	}, base)
	if base == "" || base == "." {
		base = "document"
	}
	return base + "_" + uuid.NewString()[:8]
}
