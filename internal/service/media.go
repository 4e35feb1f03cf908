package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"wotro-backend/internal/domain"
	"wotro-backend/internal/logger"
	"wotro-backend/internal/storage"
)

var imageContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

type mediaService struct {
	store     storage.StorageInterface
	urlExpiry time.Duration
	maxBytes  int64
}

func NewMediaService(store storage.StorageInterface, urlExpiry time.Duration, maxBytes int64) MediaService {
	if urlExpiry <= 0 {
		urlExpiry = 15 * time.Minute
	}
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	return &mediaService{store: store, urlExpiry: urlExpiry, maxBytes: maxBytes}
}

// extensionFor returns the object extension for an accepted content type.
func extensionFor(purpose domain.UploadPurpose, contentType string) (string, bool) {
	if ext, ok := imageContentTypes[contentType]; ok {
		return ext, true
	}
	if purpose == domain.UploadPurposeChat && contentType == "audio/webm" {
		return ".webm", true
	}
	return "", false
}

func (s *mediaService) RequestUpload(ctx context.Context, sess *domain.Session, purpose domain.UploadPurpose, filename, contentType string) (*domain.UploadTicket, error) {
	switch purpose {
	case domain.UploadPurposeVehicle, domain.UploadPurposeDocument, domain.UploadPurposeChat:
	case domain.UploadPurposeAd:
		if !sess.IsAdmin() {
			return nil, fmt.Errorf("%w: ad images are uploaded by administrators", ErrForbidden)
		}
	default:
		return nil, invalidf("unknown upload purpose %q", purpose)
	}
	ext, ok := extensionFor(purpose, contentType)
	if !ok {
		return nil, invalidf("content type %q is not accepted", contentType)
	}

	key := fmt.Sprintf("%s/%s/%s%s", purpose, sess.UID, uuid.NewString(), ext)
	uploadURL, err := s.store.GeneratePresignedUploadURL(ctx, key, contentType, s.urlExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to sign upload url: %w", err)
	}
	logger.Debug("Upload ticket issued", "uid", sess.UID, "key", key, "filename", filename)

	return &domain.UploadTicket{
		Key:         key,
		UploadURL:   uploadURL,
		DownloadURL: s.store.PublicURL(key),
		ContentType: contentType,
		ExpiresAt:   time.Now().Add(s.urlExpiry).Unix(),
	}, nil
}

// splitKey parses a "purpose/uid/object" key.
func splitKey(key string) (domain.UploadPurpose, string, error) {
	parts := strings.SplitN(key, "/", 3)
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return "", "", invalidf("malformed object key")
	}
	return domain.UploadPurpose(parts[0]), parts[1], nil
}

// ownedKey checks that key belongs to the caller. Admins may touch any key.
func ownedKey(sess *domain.Session, key string) (domain.UploadPurpose, error) {
	purpose, owner, err := splitKey(key)
	if err != nil {
		return "", err
	}
	if owner != sess.UID && !sess.IsAdmin() {
		return "", fmt.Errorf("%w: object belongs to another user", ErrForbidden)
	}
	return purpose, nil
}

func (s *mediaService) ConfirmUpload(ctx context.Context, sess *domain.Session, key string) (*domain.StoredObject, error) {
	purpose, err := ownedKey(sess, key)
	if err != nil {
		return nil, err
	}
	exists, size, err := s.store.FileExists(ctx, key)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("upload %s: %w", key, ErrNotFound)
	}
	if size > s.maxBytes {
		if err := s.store.DeleteFile(ctx, key); err != nil {
			logger.Warn("Failed to delete oversized upload", "key", key, "error", err)
		}
		return nil, invalidf("file exceeds %d MB", s.maxBytes>>20)
	}

	obj := &domain.StoredObject{Key: key, URL: s.store.PublicURL(key), Size: size}
	// Documents are private: the URL is a preview link, the key is what
	// gets attached to the profile.
	if purpose == domain.UploadPurposeDocument {
		obj.URL, err = s.store.GeneratePresignedDownloadURL(ctx, key, s.urlExpiry)
		if err != nil {
			return nil, fmt.Errorf("failed to sign download url: %w", err)
		}
		obj.ExpiresAt = time.Now().Add(s.urlExpiry).Unix()
	}
	return obj, nil
}

func (s *mediaService) DeleteUpload(ctx context.Context, sess *domain.Session, key string) error {
	if _, err := ownedKey(sess, key); err != nil {
		return err
	}
	if err := s.store.DeleteFile(ctx, key); err != nil {
		return err
	}
	logger.Info("Upload deleted", "uid", sess.UID, "key", key)
	return nil
}
