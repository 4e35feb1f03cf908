package repository

import (
	"context"
	"errors"

	"wotro-backend/internal/domain"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrAlreadyReviewed = errors.New("booking already reviewed")
	ErrStatusChanged   = errors.New("booking is no longer pending")
)

// Subscription is a live query handle. Unsubscribe stops delivery and waits
// for the listener goroutine to return; it is safe to call more than once.
type Subscription interface {
	Unsubscribe()
}

type ProfileUpdate struct {
	FullName *string
	Phone    *string
	City     *string
	PhotoURL *string
}

type UserRepository interface {
	// Upsert merges the profile into users/{uid}.
	Upsert(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, uid string) (*domain.User, error)
	UpdateProfile(ctx context.Context, uid string, update ProfileUpdate) error
	SetDocument(ctx context.Context, uid string, kind domain.DocumentKind, url string) error
	CountByRole(ctx context.Context, roles ...domain.UserRole) (int32, error)
}

type VehicleRepository interface {
	Create(ctx context.Context, vehicle *domain.Vehicle) error
	GetByID(ctx context.Context, id string) (*domain.Vehicle, error)
	ListAvailable(ctx context.Context, filter domain.VehicleFilter) ([]domain.Vehicle, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Vehicle, error)
	SetAvailability(ctx context.Context, id string, available bool) error
	UpdateExactAddress(ctx context.Context, id, address string) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int32, error)
}

// ConfirmPlan decides, inside the confirmation transaction, whether target
// may become Confirmed given the vehicle's current Confirmed ranges, and which
// Pending requests of the same vehicle must be rejected alongside it.
type ConfirmPlan func(target *domain.Booking, confirmed []domain.BookedRange, pending []domain.Booking) (rejectIDs []string, err error)

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	// ListConfirmedRanges is the query consumed by the availability check.
	ListConfirmedRanges(ctx context.Context, vehicleID string) ([]domain.BookedRange, error)
	ListByTenant(ctx context.Context, tenantID string) ([]domain.Booking, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Booking, error)
	ListByStatus(ctx context.Context, status domain.BookingStatus) ([]domain.Booking, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Booking, error)
	// Reject moves a Pending booking to Rejected.
	Reject(ctx context.Context, id string) (*domain.Booking, error)
	// Confirm atomically re-reads the vehicle calendar, applies plan and
	// writes the confirmation and the resulting rejections.
	Confirm(ctx context.Context, id string, plan ConfirmPlan) (*domain.Booking, []domain.Booking, error)
	WatchByOwner(ctx context.Context, ownerID string, listener func(domain.BookingChange)) (Subscription, error)
	WatchByTenant(ctx context.Context, tenantID string, listener func(domain.BookingChange)) (Subscription, error)
}

type ReviewRepository interface {
	// Submit writes the review, credits the vehicle score and flags the
	// booking as reviewed in one transaction.
	Submit(ctx context.Context, review *domain.Review) error
	ListByVehicle(ctx context.Context, carID string) ([]domain.Review, error)
}

type ChatRepository interface {
	UpsertThread(ctx context.Context, thread *domain.ChatThread) error
	GetThread(ctx context.Context, id string) (*domain.ChatThread, error)
	ListThreads(ctx context.Context, uid string) ([]domain.ChatThread, error)
	// AddMessage appends the message and refreshes the thread preview.
	AddMessage(ctx context.Context, threadID string, msg *domain.Message, preview string) error
	ListMessages(ctx context.Context, threadID string) ([]domain.Message, error)
	MarkRead(ctx context.Context, threadID, readerID string) (int, error)
	WatchMessages(ctx context.Context, threadID string, listener func(domain.MessageChange)) (Subscription, error)
}

type AdRepository interface {
	Create(ctx context.Context, ad *domain.Ad) error
	GetByID(ctx context.Context, id string) (*domain.Ad, error)
	List(ctx context.Context) ([]domain.Ad, error)
	FirstActive(ctx context.Context) (*domain.Ad, error)
	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
}

type LedgerRepository interface {
	CreateTransaction(ctx context.Context, tx *domain.LedgerTransaction) error
	ExistsForBooking(ctx context.Context, bookingID string) (bool, error)
	GetBalance(ctx context.Context, hostID string) (int64, error)
	ListTransactions(ctx context.Context, hostID string, page, pageSize int32) ([]domain.LedgerTransaction, int32, error)
	GetSummary(ctx context.Context, hostID string) (*domain.EarningsSummary, error)
}
