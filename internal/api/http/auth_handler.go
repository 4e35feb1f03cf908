package http

import (
	"net/http"

	"wotro-backend/internal/domain"
	"wotro-backend/internal/service"
)

type AuthHandler struct {
	authSvc service.AuthService
}

func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

type sessionResponse struct {
	*service.TokenPair
	Session *domain.Session `json:"session"`
}

// OpenSession exchanges a Firebase ID token for API tokens.
func (h *AuthHandler) OpenSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDToken string `json:"id_token"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	pair, sess, err := h.authSvc.ExchangeIDToken(r.Context(), req.IDToken)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{TokenPair: pair, Session: sess})
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	pair, err := h.authSvc.Refresh(r.Context(), rawTokenFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if r.ContentLength > 0 && !decodeJSON(w, r, &req) {
		return
	}
	if err := h.authSvc.Logout(r.Context(), SessionFromContext(r.Context()), req.RefreshToken); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
