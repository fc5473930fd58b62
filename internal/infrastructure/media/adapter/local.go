package adapter

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Ishwar-meena/whatsappchat/internal/infrastructure/media/port"
)

// LocalUploader stores media on the local filesystem and serves it under a
// base URL. It stands in for an external blob store in single-instance
// deployments.
type LocalUploader struct {
	baseDir string
	baseURL string
	log     zerolog.Logger
}

var _ port.Uploader = (*LocalUploader)(nil)

// NewLocalUploader creates the base directory if needed.
func NewLocalUploader(baseDir, baseURL string, log zerolog.Logger) (*LocalUploader, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create media directory: %w", err)
	}
	return &LocalUploader{
		baseDir: baseDir,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log.With().Str("component", "media").Logger(),
	}, nil
}

func (u *LocalUploader) Upload(ctx context.Context, filename, contentType string, body io.Reader) (*port.Upload, error) {
	kind, err := kindFor(contentType)
	if err != nil {
		return nil, err
	}

	name := uuid.NewString() + strings.ToLower(filepath.Ext(filename))
	path := filepath.Join(u.baseDir, name)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", port.ErrUploadFailed, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, body); err != nil {
		_ = os.Remove(path)
		return nil, fmt.Errorf("%w: %v", port.ErrUploadFailed, err)
	}

	u.log.Debug().Str("file", name).Str("kind", kind).Msg("media stored")
	return &port.Upload{URL: u.baseURL + "/" + name, Kind: kind}, nil
}

func kindFor(contentType string) (string, error) {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return "image", nil
	case strings.HasPrefix(contentType, "video/"):
		return "video", nil
	}
	return "", port.ErrUnsupportedType
}
