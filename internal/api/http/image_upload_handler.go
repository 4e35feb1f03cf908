package http

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"

	"github.com/gorilla/mux"

	"wotro-backend/internal/logger"
	"wotro-backend/internal/storage"
)

var uploadContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"audio/webm": true,
}

// ImageUploadHandler stands in for the object store when storage type is
// "mock": clients PUT to the signed upload URL and GET the public URL.
type ImageUploadHandler struct {
	mockStorage storage.StorageInterface
	maxBytes    int64
}

func NewImageUploadHandler(mockStorage storage.StorageInterface, maxBytes int64) *ImageUploadHandler {
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	return &ImageUploadHandler{mockStorage: mockStorage, maxBytes: maxBytes}
}

// HandleMockUpload handles HTTP PUT requests to mock presigned URLs
func (h *ImageUploadHandler) HandleMockUpload(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		http.Error(w, "Missing key parameter", http.StatusBadRequest)
		return
	}
	if !uploadContentTypes[r.Header.Get("Content-Type")] {
		http.Error(w, "Invalid content type", http.StatusBadRequest)
		return
	}

	err := h.mockStorage.SaveFile(r.Context(), key, http.MaxBytesReader(w, r.Body, h.maxBytes))
	if err != nil {
		if errors.Is(err, storage.ErrInvalidKey) {
			http.Error(w, "Invalid key", http.StatusBadRequest)
			return
		}
		logger.Error("Mock upload failed", "key", key, "error", err)
		http.Error(w, "Failed to save file", http.StatusInternalServerError)
		return
	}

	// Mimic the object store response
	w.Header().Set("ETag", `"mock-etag-success"`)
	w.WriteHeader(http.StatusOK)
}

// HandleMockDownload handles HTTP GET requests to download media
func (h *ImageUploadHandler) HandleMockDownload(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		http.Error(w, "Missing key parameter", http.StatusBadRequest)
		return
	}

	file, err := h.mockStorage.ReadFile(r.Context(), key)
	if err != nil {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}
	defer file.Close()

	contentType := "application/octet-stream"
	switch filepath.Ext(key) {
	case ".jpg", ".jpeg":
		contentType = "image/jpeg"
	case ".png":
		contentType = "image/png"
	case ".webp":
		contentType = "image/webp"
	case ".webm":
		contentType = "audio/webm"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")

	if _, err := io.Copy(w, file); err != nil {
		logger.Debug("Mock download interrupted", "key", key, "error", err)
	}
}

// RegisterMockStorageRoutes registers the mock storage HTTP endpoints
func RegisterMockStorageRoutes(router *mux.Router, mockStorage storage.StorageInterface, maxBytes int64) {
	handler := NewImageUploadHandler(mockStorage, maxBytes)
	router.HandleFunc("/api/v1/upload/{token}", handler.HandleMockUpload).Methods(http.MethodPut)
	router.HandleFunc("/api/v1/download/{key}", handler.HandleMockDownload).Methods(http.MethodGet)
}
