package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"wotro-backend/internal/domain"
	"wotro-backend/internal/repository"
	"wotro-backend/internal/service"
)

type UserHandler struct {
	userSvc service.UserService
}

func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	u, err := h.userSvc.GetProfile(r.Context(), SessionFromContext(r.Context()).UID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName *string `json:"full_name"`
		Phone    *string `json:"phone"`
		City     *string `json:"city"`
		PhotoURL *string `json:"photo_url"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	u, err := h.userSvc.UpdateProfile(r.Context(), SessionFromContext(r.Context()), repository.ProfileUpdate{
		FullName: req.FullName,
		Phone:    req.Phone,
		City:     req.City,
		PhotoURL: req.PhotoURL,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *UserHandler) RegisterClient(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName string `json:"full_name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	u, err := h.userSvc.RegisterClient(r.Context(), SessionFromContext(r.Context()), req.FullName)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (h *UserHandler) RegisterHost(w http.ResponseWriter, r *http.Request) {
	var req service.HostRegistration
	if !decodeJSON(w, r, &req) {
		return
	}
	u, err := h.userSvc.RegisterHost(r.Context(), SessionFromContext(r.Context()), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (h *UserHandler) RegisterAdmin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MasterKey string `json:"master_key"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	u, err := h.userSvc.RegisterAdmin(r.Context(), SessionFromContext(r.Context()), req.MasterKey)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (h *UserHandler) AttachDocument(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Kind domain.DocumentKind `json:"kind"`
		Key  string              `json:"key"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	u, err := h.userSvc.AttachDocument(r.Context(), SessionFromContext(r.Context()), req.Kind, req.Key)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// GetDocument signs a download link for one of the caller's documents, or
// any user's when routed under /admin/users/{uid}.
func (h *UserHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	vars := mux.Vars(r)
	uid := vars["uid"]
	if uid == "" {
		uid = sess.UID
	}
	obj, err := h.userSvc.DocumentURL(r.Context(), sess, uid, domain.DocumentKind(vars["kind"]))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, obj)
}
