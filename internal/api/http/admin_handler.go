package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"wotro-backend/internal/service"
)

// AdminHandler serves the advertising console and platform statistics.
// ActiveAd is the one public route.
type AdminHandler struct {
	adSvc    service.AdService
	statsSvc service.StatsService
}

func NewAdminHandler(adSvc service.AdService, statsSvc service.StatsService) *AdminHandler {
	return &AdminHandler{adSvc: adSvc, statsSvc: statsSvc}
}

func (h *AdminHandler) ActiveAd(w http.ResponseWriter, r *http.Request) {
	ad, err := h.adSvc.ActiveAd(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if ad == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, ad)
}

func (h *AdminHandler) ListAds(w http.ResponseWriter, r *http.Request) {
	ads, err := h.adSvc.ListAds(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ads)
}

func (h *AdminHandler) CreateAd(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Company  string `json:"company"`
		ImageURL string `json:"image_url"`
		Link     string `json:"link"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	ad, err := h.adSvc.CreateAd(r.Context(), req.Company, req.ImageURL, req.Link)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, ad)
}

func (h *AdminHandler) ToggleAd(w http.ResponseWriter, r *http.Request) {
	ad, err := h.adSvc.ToggleAd(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ad)
}

func (h *AdminHandler) DeleteAd(w http.ResponseWriter, r *http.Request) {
	if err := h.adSvc.DeleteAd(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsSvc.PlatformStats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
