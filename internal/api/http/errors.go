package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"wotro-backend/internal/logger"
	"wotro-backend/internal/service"
)

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// statusFor maps service sentinels to a status code and a stable error code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrInvalidRange):
		return http.StatusBadRequest, "invalid_range"
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest, "invalid_input"
	case errors.Is(err, service.ErrDatesUnavailable):
		return http.StatusConflict, "dates_unavailable"
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict, "conflict"
	case errors.Is(err, service.ErrWriteFailed):
		return http.StatusServiceUnavailable, "write_failed"
	case errors.Is(err, service.ErrUnauthenticated):
		return http.StatusUnauthorized, "unauthenticated"
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, service.ErrRateLimited):
		return http.StatusTooManyRequests, "rate_limited"
	}
	return http.StatusInternalServerError, "internal"
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	msg := err.Error()
	switch status {
	case http.StatusInternalServerError:
		logger.ErrorContext(r.Context(), "Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		msg = "internal error"
	case http.StatusServiceUnavailable:
		logger.WarnContext(r.Context(), "Store write failed", "path", r.URL.Path, "error", err)
		msg = "temporary error, please retry"
	case http.StatusBadRequest:
		if errors.Is(err, service.ErrInvalidRange) {
			msg = service.ErrInvalidRange.Error()
		}
	case http.StatusConflict:
		if errors.Is(err, service.ErrDatesUnavailable) {
			msg = service.ErrDatesUnavailable.Error()
		}
	}
	writeJSON(w, status, errorBody{Error: code, Message: msg})
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid_input", Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to encode response", "error", err)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(dst); err != nil {
		badRequest(w, "invalid request body")
		return false
	}
	return true
}
