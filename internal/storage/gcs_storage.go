package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"time"

	gcs "cloud.google.com/go/storage"

	"wotro-backend/internal/logger"
)

// GCSStorage stores media in the Firebase Storage bucket.
type GCSStorage struct {
	bucket     *gcs.BucketHandle
	bucketName string
}

func NewGCSStorage(bucket *gcs.BucketHandle, bucketName string) *GCSStorage {
	return &GCSStorage{bucket: bucket, bucketName: bucketName}
}

func (s *GCSStorage) GeneratePresignedUploadURL(ctx context.Context, key string, contentType string, expiresIn time.Duration) (string, error) {
	logger.ExternalServiceCall("gcs", "sign_upload", "key", key)
	u, err := s.bucket.SignedURL(key, &gcs.SignedURLOptions{
		Scheme:      gcs.SigningSchemeV4,
		Method:      "PUT",
		ContentType: contentType,
		Expires:     time.Now().Add(expiresIn),
	})
	logger.ExternalServiceResult("gcs", "sign_upload", err)
	if err != nil {
		return "", fmt.Errorf("failed to sign upload url: %w", err)
	}
	return u, nil
}

func (s *GCSStorage) GeneratePresignedDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, error) {
	u, err := s.bucket.SignedURL(key, &gcs.SignedURLOptions{
		Scheme:  gcs.SigningSchemeV4,
		Method:  "GET",
		Expires: time.Now().Add(expiresIn),
	})
	if err != nil {
		return "", fmt.Errorf("failed to sign download url: %w", err)
	}
	return u, nil
}

// PublicURL follows the Firebase download URL format; read access is
// governed by the bucket's security rules.
func (s *GCSStorage) PublicURL(key string) string {
	return fmt.Sprintf("https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media", s.bucketName, url.PathEscape(key))
}

func (s *GCSStorage) FileExists(ctx context.Context, key string) (bool, int64, error) {
	attrs, err := s.bucket.Object(key).Attrs(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return false, 0, nil
	}
	if err != nil {
		return false, 0, err
	}
	return true, attrs.Size, nil
}

func (s *GCSStorage) DeleteFile(ctx context.Context, key string) error {
	err := s.bucket.Object(key).Delete(ctx)
	if err != nil && !errors.Is(err, gcs.ErrObjectNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *GCSStorage) SaveFile(ctx context.Context, key string, reader io.Reader) error {
	w := s.bucket.Object(key).NewWriter(ctx)
	if _, err := io.Copy(w, reader); err != nil {
		w.Close()
		return fmt.Errorf("failed to write file: %w", err)
	}
	return w.Close()
}

func (s *GCSStorage) ReadFile(ctx context.Context, key string) (io.ReadCloser, error) {
	return s.bucket.Object(key).NewReader(ctx)
}
