package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"wotro-backend/internal/domain"
	"wotro-backend/internal/service"
)

type BookingHandler struct {
	bookingSvc  service.BookingService
	contractSvc service.ContractService
}

func NewBookingHandler(bookingSvc service.BookingService, contractSvc service.ContractService) *BookingHandler {
	return &BookingHandler{bookingSvc: bookingSvc, contractSvc: contractSvc}
}

func (h *BookingHandler) RequestBooking(w http.ResponseWriter, r *http.Request) {
	var req struct {
		VehicleID string `json:"vehicle_id"`
		dateRange
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	b, err := h.bookingSvc.RequestBooking(r.Context(), SessionFromContext(r.Context()), req.VehicleID, req.StartDate, req.EndDate)
	if err != nil {
		var limited *service.RateLimitError
		if errors.As(err, &limited) {
			w.Header().Set("Retry-After", strconv.FormatInt(limited.RetryAfterSeconds(), 10))
		}
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

// ListBookings returns the caller's rentals, or the requests on their
// vehicles with ?as=owner.
func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	var (
		list []domain.Booking
		err  error
	)
	if r.URL.Query().Get("as") == "owner" {
		list, err = h.bookingSvc.ListOwnerBookings(r.Context(), sess)
	} else {
		list, err = h.bookingSvc.ListTenantBookings(r.Context(), sess)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	b, err := h.bookingSvc.GetBooking(r.Context(), SessionFromContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *BookingHandler) Decide(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status domain.BookingStatus `json:"status"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	b, err := h.bookingSvc.DecideBooking(r.Context(), SessionFromContext(r.Context()), mux.Vars(r)["id"], req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *BookingHandler) Review(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	review, err := h.bookingSvc.SubmitReview(r.Context(), SessionFromContext(r.Context()), mux.Vars(r)["id"], req.Rating, req.Comment)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

func (h *BookingHandler) Contract(w http.ResponseWriter, r *http.Request) {
	page, err := h.contractSvc.GenerateContract(r.Context(), SessionFromContext(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(page)
}
