package port

import (
	"context"
	"errors"
	"io"
)

// ErrUploadFailed wraps storage failures from the media backend.
var ErrUploadFailed = errors.New("media upload failed")

// ErrUnsupportedType means the file is neither an image nor a video.
var ErrUnsupportedType = errors.New("unsupported file type")

// Upload is the result of a completed media upload.
type Upload struct {
	URL string
	// Kind is "image" or "video", derived from the declared content type.
	Kind string
}

// Uploader stores user media and returns a serveable URL. Implementations
// must reject content types outside image/* and video/* with
// ErrUnsupportedType before writing anything.
type Uploader interface {
	Upload(ctx context.Context, filename, contentType string, body io.Reader) (*Upload, error)
}
