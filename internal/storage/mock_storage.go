package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"wotro-backend/internal/logger"
)

// MockStorageService implements media storage using the local filesystem,
// served back through the API's upload and download routes.
type MockStorageService struct {
	baseURL  string // Server URL (e.g., "http://localhost:8080")
	mediaDir string
}

func NewMockStorageService(baseURL, uploadsDir string) (*MockStorageService, error) {
	mediaDir := filepath.Join(uploadsDir, "media")
	if err := os.MkdirAll(mediaDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create media directory: %w", err)
	}
	return &MockStorageService{
		baseURL:  strings.TrimRight(baseURL, "/"),
		mediaDir: mediaDir,
	}, nil
}

// GeneratePresignedUploadURL returns a one-shot server URL; the key travels
// in the query so the upload handler knows where to save.
func (m *MockStorageService) GeneratePresignedUploadURL(ctx context.Context, key string, contentType string, expiresIn time.Duration) (string, error) {
	if _, err := m.path(key); err != nil {
		return "", err
	}
	uploadToken := uuid.NewString()
	return fmt.Sprintf("%s/api/v1/upload/%s?key=%s", m.baseURL, uploadToken, url.QueryEscape(key)), nil
}

func (m *MockStorageService) GeneratePresignedDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, error) {
	if _, err := m.path(key); err != nil {
		return "", err
	}
	return m.PublicURL(key), nil
}

func (m *MockStorageService) PublicURL(key string) string {
	return fmt.Sprintf("%s/api/v1/download/%s?key=%s", m.baseURL, url.PathEscape(filepath.Base(key)), url.QueryEscape(key))
}

func (m *MockStorageService) FileExists(ctx context.Context, key string) (bool, int64, error) {
	fullPath, err := m.path(key)
	if err != nil {
		return false, 0, err
	}
	info, err := os.Stat(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, 0, nil
		}
		return false, 0, err
	}
	return true, info.Size(), nil
}

func (m *MockStorageService) DeleteFile(ctx context.Context, key string) error {
	fullPath, err := m.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (m *MockStorageService) SaveFile(ctx context.Context, key string, reader io.Reader) error {
	fullPath, err := m.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	n, err := io.Copy(file, reader)
	if err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	logger.Debug("Mock storage saved file", "key", key, "bytes", n)
	return nil
}

func (m *MockStorageService) ReadFile(ctx context.Context, key string) (io.ReadCloser, error) {
	fullPath, err := m.path(key)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// path resolves key inside the media directory, refusing traversal.
func (m *MockStorageService) path(key string) (string, error) {
	if key == "" || strings.Contains(key, "..") || filepath.IsAbs(key) {
		return "", ErrInvalidKey
	}
	return filepath.Join(m.mediaDir, filepath.FromSlash(key)), nil
}
