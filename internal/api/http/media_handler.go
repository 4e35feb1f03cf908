package http

import (
	"net/http"

	"wotro-backend/internal/domain"
	"wotro-backend/internal/service"
)

type MediaHandler struct {
	mediaSvc service.MediaService
}

func NewMediaHandler(mediaSvc service.MediaService) *MediaHandler {
	return &MediaHandler{mediaSvc: mediaSvc}
}

func (h *MediaHandler) RequestUpload(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Purpose     domain.UploadPurpose `json:"purpose"`
		Filename    string               `json:"filename"`
		ContentType string               `json:"content_type"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	ticket, err := h.mediaSvc.RequestUpload(r.Context(), SessionFromContext(r.Context()), req.Purpose, req.Filename, req.ContentType)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ticket)
}

type objectKey struct {
	Key string `json:"key"`
}

func (h *MediaHandler) ConfirmUpload(w http.ResponseWriter, r *http.Request) {
	var req objectKey
	if !decodeJSON(w, r, &req) {
		return
	}
	obj, err := h.mediaSvc.ConfirmUpload(r.Context(), SessionFromContext(r.Context()), req.Key)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, obj)
}

func (h *MediaHandler) DeleteUpload(w http.ResponseWriter, r *http.Request) {
	var req objectKey
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.mediaSvc.DeleteUpload(r.Context(), SessionFromContext(r.Context()), req.Key); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
