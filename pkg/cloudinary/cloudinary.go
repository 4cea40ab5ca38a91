package cloudinary

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Config contains the Cloudinary credentials and the folder all assignment,
// submission, material and question attachments land in.
type Config struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// Storage stores attachments in Cloudinary. It satisfies the upload
// service's FileStorage contract; names arriving here are already sanitized,
// so only a uniqueness suffix is added.
type Storage struct {
	client *cloudinary.Cloudinary
	folder string
	logger zerolog.Logger
}

// New builds a Storage from credentials. The folder is normalized once here
// rather than on every upload.
func New(cfg Config, logger zerolog.Logger) (*Storage, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, fmt.Errorf("cloudinary credentials must be provided")
	}

	client, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}

	return &Storage{
		client: client,
		folder: strings.Trim(cfg.Folder, "/"),
		logger: logger.With().Str("component", "cloudinary").Logger(),
	}, nil
}

// Upload stores the attachment and returns its secure delivery URL.
func (s *Storage) Upload(ctx context.Context, name string, reader io.Reader) (string, error) {
	result, err := s.client.Upload.Upload(ctx, reader, uploader.UploadParams{
		Folder:       s.folder,
		PublicID:     publicID(name),
		ResourceType: "auto",
	})
	if err != nil {
		return "", fmt.Errorf("failed to store attachment: %w", err)
	}

	s.logger.Info().
		Str("public_id", result.PublicID).
		Int("bytes", result.Bytes).
		Msg("attachment stored")

	return result.SecureURL, nil
}

// publicID strips the extension (Cloudinary derives the format itself) and
// appends a random suffix so resubmitted files never collide.
func publicID(name string) string {
	base := strings.Trim(strings.TrimSuffix(name, filepath.Ext(name)), "-")
	suffix := uuid.NewString()[:8]
	if base == "" {
		return "attachment-" + suffix
	}
	return base + "-" + suffix
}
