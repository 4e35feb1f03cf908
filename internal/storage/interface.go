package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

var ErrInvalidKey = errors.New("invalid storage key")

// StorageInterface defines the interface for media storage backends.
// Implemented by the Firebase Storage bucket and by a local-filesystem mock.
type StorageInterface interface {
	// GeneratePresignedUploadURL returns a URL the client PUTs the file to
	GeneratePresignedUploadURL(ctx context.Context, key string, contentType string, expiresIn time.Duration) (string, error)

	// GeneratePresignedDownloadURL returns a time-limited read URL
	GeneratePresignedDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, error)

	// PublicURL is the long-lived URL stored in documents (vehicle photos, ads)
	PublicURL(key string) string

	// FileExists checks if a file exists and returns its size
	FileExists(ctx context.Context, key string) (exists bool, size int64, err error)

	DeleteFile(ctx context.Context, key string) error

	SaveFile(ctx context.Context, key string, reader io.Reader) error

	ReadFile(ctx context.Context, key string) (io.ReadCloser, error)
}
