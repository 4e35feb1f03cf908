package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

type Handlers struct {
	Auth     *AuthHandler
	User     *UserHandler
	Vehicle  *VehicleHandler
	Booking  *BookingHandler
	Earnings *EarningsHandler
	Chat     *ChatHandler
	Admin    *AdminHandler
	Media    *MediaHandler
	Stream   *StreamHandler
}

// NewRouter registers every /api/v1 route. Security levels come from
// config.EndpointSecurityConfig, keyed by the same method and path template.
func NewRouter(h Handlers, authMW *AuthMiddleware) *mux.Router {
	router := mux.NewRouter()
	router.Use(authMW.Handler)
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	// Session
	api.HandleFunc("/auth/session", h.Auth.OpenSession).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh", h.Auth.Refresh).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", h.Auth.Logout).Methods(http.MethodPost)

	// Profile
	api.HandleFunc("/me", h.User.GetMe).Methods(http.MethodGet)
	api.HandleFunc("/me", h.User.UpdateMe).Methods(http.MethodPatch)
	api.HandleFunc("/me/register/client", h.User.RegisterClient).Methods(http.MethodPost)
	api.HandleFunc("/me/register/host", h.User.RegisterHost).Methods(http.MethodPost)
	api.HandleFunc("/me/register/admin", h.User.RegisterAdmin).Methods(http.MethodPost)
	api.HandleFunc("/me/documents", h.User.AttachDocument).Methods(http.MethodPost)
	api.HandleFunc("/me/documents/{kind}", h.User.GetDocument).Methods(http.MethodGet)
	api.HandleFunc("/me/vehicles", h.Vehicle.ListMine).Methods(http.MethodGet)

	// Vehicles
	api.HandleFunc("/vehicles", h.Vehicle.ListCatalogue).Methods(http.MethodGet)
	api.HandleFunc("/vehicles", h.Vehicle.AddVehicle).Methods(http.MethodPost)
	api.HandleFunc("/vehicles/top", h.Vehicle.ListTop).Methods(http.MethodGet)
	api.HandleFunc("/vehicles/{id}", h.Vehicle.GetVehicle).Methods(http.MethodGet)
	api.HandleFunc("/vehicles/{id}", h.Vehicle.DeleteVehicle).Methods(http.MethodDelete)
	api.HandleFunc("/vehicles/{id}/reviews", h.Vehicle.ListReviews).Methods(http.MethodGet)
	api.HandleFunc("/vehicles/{id}/quote", h.Vehicle.Quote).Methods(http.MethodPost)
	api.HandleFunc("/vehicles/{id}/contact", h.Vehicle.Contact).Methods(http.MethodGet)
	api.HandleFunc("/vehicles/{id}/availability", h.Vehicle.ToggleAvailability).Methods(http.MethodPost)
	api.HandleFunc("/vehicles/{id}/address", h.Vehicle.UpdateExactAddress).Methods(http.MethodPut)

	// Bookings
	api.HandleFunc("/bookings", h.Booking.RequestBooking).Methods(http.MethodPost)
	api.HandleFunc("/bookings", h.Booking.ListBookings).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{id}", h.Booking.GetBooking).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{id}/decision", h.Booking.Decide).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id}/review", h.Booking.Review).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id}/contract", h.Booking.Contract).Methods(http.MethodGet)

	// Host earnings
	api.HandleFunc("/dashboard", h.Earnings.Dashboard).Methods(http.MethodGet)
	api.HandleFunc("/earnings", h.Earnings.History).Methods(http.MethodGet)
	api.HandleFunc("/earnings/summary", h.Earnings.Summary).Methods(http.MethodGet)

	// Chat
	api.HandleFunc("/chats", h.Chat.OpenThread).Methods(http.MethodPost)
	api.HandleFunc("/chats", h.Chat.ListThreads).Methods(http.MethodGet)
	api.HandleFunc("/chats/{id}/messages", h.Chat.ListMessages).Methods(http.MethodGet)
	api.HandleFunc("/chats/{id}/messages", h.Chat.SendMessage).Methods(http.MethodPost)
	api.HandleFunc("/chats/{id}/read", h.Chat.MarkRead).Methods(http.MethodPost)

	// Media
	api.HandleFunc("/uploads", h.Media.RequestUpload).Methods(http.MethodPost)
	api.HandleFunc("/uploads/confirm", h.Media.ConfirmUpload).Methods(http.MethodPost)
	api.HandleFunc("/uploads/delete", h.Media.DeleteUpload).Methods(http.MethodPost)

	// Live updates
	api.HandleFunc("/stream/bookings", h.Stream.Bookings).Methods(http.MethodGet)
	api.HandleFunc("/stream/chats/{id}", h.Stream.ChatMessages).Methods(http.MethodGet)

	// Ads and statistics
	api.HandleFunc("/ads/active", h.Admin.ActiveAd).Methods(http.MethodGet)
	api.HandleFunc("/admin/ads", h.Admin.ListAds).Methods(http.MethodGet)
	api.HandleFunc("/admin/ads", h.Admin.CreateAd).Methods(http.MethodPost)
	api.HandleFunc("/admin/ads/{id}/toggle", h.Admin.ToggleAd).Methods(http.MethodPost)
	api.HandleFunc("/admin/ads/{id}", h.Admin.DeleteAd).Methods(http.MethodDelete)
	api.HandleFunc("/admin/stats", h.Admin.Stats).Methods(http.MethodGet)
	api.HandleFunc("/admin/users/{uid}/documents/{kind}", h.User.GetDocument).Methods(http.MethodGet)

	return router
}
