package domain

import "time"

// Timestamp formats t the way createdAt fields are stored: RFC 3339 in UTC
// without fractional seconds, so lexical order matches time order.
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "Pending"
	BookingStatusConfirmed BookingStatus = "Confirmed"
	BookingStatusRejected  BookingStatus = "Rejected"
)

// IsTerminal reports whether no further transition is allowed.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusConfirmed || s == BookingStatusRejected
}

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusRejected:
		return true
	}
	return false
}

// Booking is the reservation record persisted in the "bookings" collection.
// Dates are calendar dates formatted as YYYY-MM-DD.
type Booking struct {
	ID           string        `json:"id" firestore:"-"`
	VehicleID    string        `json:"vehicle_id" firestore:"vehicleId"`
	VehicleName  string        `json:"vehicle_name" firestore:"vehicleName"`
	VehicleImage string        `json:"vehicle_image,omitempty" firestore:"vehicleImage,omitempty"`
	OwnerID      string        `json:"owner_id" firestore:"ownerId"`
	TenantID     string        `json:"tenant_id" firestore:"tenantId"`
	TenantName   string        `json:"tenant_name" firestore:"tenantName"`
	StartDate    string        `json:"start_date" firestore:"startDate"`
	EndDate      string        `json:"end_date" firestore:"endDate"`
	TotalPrice   int64         `json:"total_price" firestore:"totalPrice"`
	Status       BookingStatus `json:"status" firestore:"status"`
	HasReviewed  bool          `json:"has_reviewed" firestore:"hasReviewed"`
	CreatedAt    string        `json:"created_at" firestore:"createdAt"`
	UpdatedAt    string        `json:"updated_at,omitempty" firestore:"updatedAt,omitempty"`
}

// BookedRange is the date interval of a Confirmed booking, used only for
// conflict testing.
type BookedRange struct {
	BookingID string `json:"booking_id,omitempty"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (b *Booking) Range() BookedRange {
	return BookedRange{BookingID: b.ID, StartDate: b.StartDate, EndDate: b.EndDate}
}

func (b *Booking) IsParticipant(uid string) bool {
	return uid != "" && (b.TenantID == uid || b.OwnerID == uid)
}

// Quote is the outcome of checking a candidate range against a vehicle's
// calendar without writing anything.
type Quote struct {
	VehicleID  string `json:"vehicle_id"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Days       int64  `json:"days"`
	DailyPrice int64  `json:"daily_price"`
	TotalPrice int64  `json:"total_price"`
	Available  bool   `json:"available"`
	Reason     string `json:"reason,omitempty"`
}

type ChangeKind string

const (
	ChangeAdded    ChangeKind = "added"
	ChangeModified ChangeKind = "modified"
	ChangeRemoved  ChangeKind = "removed"
)

// BookingChange is one live update delivered to a booking subscriber.
type BookingChange struct {
	Kind    ChangeKind `json:"kind"`
	Booking Booking    `json:"booking"`
}

type HostDashboard struct {
	TotalEarnings   int64 `json:"total_earnings"`
	ActiveRentals   int32 `json:"active_rentals"`
	PendingRequests int32 `json:"pending_requests"`
}
