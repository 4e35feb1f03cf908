package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"wotro-backend/internal/domain"
	"wotro-backend/internal/service"
)

type VehicleHandler struct {
	vehicleSvc service.VehicleService
	bookingSvc service.BookingService
	userSvc    service.UserService
}

func NewVehicleHandler(vehicleSvc service.VehicleService, bookingSvc service.BookingService, userSvc service.UserService) *VehicleHandler {
	return &VehicleHandler{vehicleSvc: vehicleSvc, bookingSvc: bookingSvc, userSvc: userSvc}
}

func queryInt(r *http.Request, name string) (int64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	return v, err == nil
}

func (h *VehicleHandler) ListCatalogue(w http.ResponseWriter, r *http.Request) {
	maxPrice, ok := queryInt(r, "max_price")
	if !ok {
		badRequest(w, "max_price must be an integer")
		return
	}
	limit, ok := queryInt(r, "limit")
	if !ok {
		badRequest(w, "limit must be an integer")
		return
	}
	q := r.URL.Query()
	list, err := h.vehicleSvc.ListCatalogue(r.Context(), domain.VehicleFilter{
		Commune:  q.Get("commune"),
		Category: q.Get("category"),
		MaxPrice: maxPrice,
		Limit:    int(limit),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *VehicleHandler) ListTop(w http.ResponseWriter, r *http.Request) {
	n, ok := queryInt(r, "n")
	if !ok {
		badRequest(w, "n must be an integer")
		return
	}
	list, err := h.vehicleSvc.ListTop(r.Context(), int(n))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *VehicleHandler) GetVehicle(w http.ResponseWriter, r *http.Request) {
	v, err := h.vehicleSvc.GetVehicle(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *VehicleHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.vehicleSvc.ListReviews(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

type dateRange struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (h *VehicleHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req dateRange
	if !decodeJSON(w, r, &req) {
		return
	}
	q, err := h.bookingSvc.Quote(r.Context(), mux.Vars(r)["id"], req.StartDate, req.EndDate)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

// Contact returns the WhatsApp deep link to the vehicle's host.
func (h *VehicleHandler) Contact(w http.ResponseWriter, r *http.Request) {
	v, err := h.vehicleSvc.GetVehicle(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	host, err := h.userSvc.GetProfile(r.Context(), v.OwnerID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if host.Phone == "" {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not_found", Message: "host has no phone number"})
		return
	}
	text := "Bonjour, je suis intéressé par votre " + v.Name + " sur Wotro."
	writeJSON(w, http.StatusOK, map[string]string{"whatsapp_url": service.WhatsAppLink(host.Phone, text)})
}

func (h *VehicleHandler) AddVehicle(w http.ResponseWriter, r *http.Request) {
	var v domain.Vehicle
	if !decodeJSON(w, r, &v) {
		return
	}
	if err := h.vehicleSvc.AddVehicle(r.Context(), SessionFromContext(r.Context()), &v); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (h *VehicleHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	list, err := h.vehicleSvc.ListByOwner(r.Context(), SessionFromContext(r.Context()).UID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *VehicleHandler) ToggleAvailability(w http.ResponseWriter, r *http.Request) {
	v, err := h.vehicleSvc.ToggleAvailability(r.Context(), SessionFromContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *VehicleHandler) UpdateExactAddress(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ExactAddress string `json:"exact_address"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.vehicleSvc.UpdateExactAddress(r.Context(), SessionFromContext(r.Context()), mux.Vars(r)["id"], req.ExactAddress); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *VehicleHandler) DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	if err := h.vehicleSvc.DeleteVehicle(r.Context(), SessionFromContext(r.Context()), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
