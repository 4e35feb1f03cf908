package service

import (
	"context"
	"time"

	"wotro-backend/internal/cache"
	"wotro-backend/internal/domain"
	"wotro-backend/internal/repository"
)

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type AuthService interface {
	// ExchangeIDToken verifies a Firebase ID token and opens a session.
	ExchangeIDToken(ctx context.Context, idToken string) (*TokenPair, *domain.Session, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, session *domain.Session, refreshToken string) error
	Authenticate(ctx context.Context, accessToken string) (*domain.Session, error)
}

type HostRegistration struct {
	FullName    string `json:"full_name"`
	Phone       string `json:"phone"`
	City        string `json:"city"`
	AccountType string `json:"account_type"`
	PhotoURL    string `json:"photo_url"`
}

type UserService interface {
	RegisterClient(ctx context.Context, s *domain.Session, fullName string) (*domain.User, error)
	RegisterHost(ctx context.Context, s *domain.Session, reg HostRegistration) (*domain.User, error)
	RegisterAdmin(ctx context.Context, s *domain.Session, masterKey string) (*domain.User, error)
	GetProfile(ctx context.Context, uid string) (*domain.User, error)
	UpdateProfile(ctx context.Context, s *domain.Session, update repository.ProfileUpdate) (*domain.User, error)
	AttachDocument(ctx context.Context, s *domain.Session, kind domain.DocumentKind, key string) (*domain.User, error)
	DocumentURL(ctx context.Context, s *domain.Session, uid string, kind domain.DocumentKind) (*domain.StoredObject, error)
}

type VehicleService interface {
	AddVehicle(ctx context.Context, s *domain.Session, v *domain.Vehicle) error
	GetVehicle(ctx context.Context, id string) (*domain.Vehicle, error)
	ListCatalogue(ctx context.Context, filter domain.VehicleFilter) ([]domain.Vehicle, error)
	ListTop(ctx context.Context, n int) ([]domain.Vehicle, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Vehicle, error)
	ListReviews(ctx context.Context, id string) ([]domain.Review, error)
	ToggleAvailability(ctx context.Context, s *domain.Session, id string) (*domain.Vehicle, error)
	UpdateExactAddress(ctx context.Context, s *domain.Session, id, address string) error
	DeleteVehicle(ctx context.Context, s *domain.Session, id string) error
}

type BookingService interface {
	Quote(ctx context.Context, vehicleID, startDate, endDate string) (*domain.Quote, error)
	RequestBooking(ctx context.Context, s *domain.Session, vehicleID, startDate, endDate string) (*domain.Booking, error)
	DecideBooking(ctx context.Context, s *domain.Session, bookingID string, decision domain.BookingStatus) (*domain.Booking, error)
	GetBooking(ctx context.Context, s *domain.Session, id string) (*domain.Booking, error)
	ListTenantBookings(ctx context.Context, s *domain.Session) ([]domain.Booking, error)
	ListOwnerBookings(ctx context.Context, s *domain.Session) ([]domain.Booking, error)
	WatchOwnerBookings(ctx context.Context, s *domain.Session, listener func(domain.BookingChange)) (repository.Subscription, error)
	WatchTenantBookings(ctx context.Context, s *domain.Session, listener func(domain.BookingChange)) (repository.Subscription, error)
	SubmitReview(ctx context.Context, s *domain.Session, bookingID string, rating int, comment string) (*domain.Review, error)
	// ExpireStalePending rejects Pending requests whose start date has passed.
	ExpireStalePending(ctx context.Context, today string) (int, error)
}

type EarningsService interface {
	HostDashboard(ctx context.Context, s *domain.Session) (*domain.HostDashboard, error)
	EarningsHistory(ctx context.Context, s *domain.Session, page, pageSize int32) ([]domain.LedgerTransaction, int32, error)
	EarningsSummary(ctx context.Context, s *domain.Session) (*domain.EarningsSummary, error)
	// CreditBooking records the host earning of a Confirmed booking once.
	CreditBooking(ctx context.Context, b *domain.Booking) error
	ReconcileLedger(ctx context.Context) (int, error)
}

type ContractService interface {
	GenerateContract(ctx context.Context, s *domain.Session, bookingID string) ([]byte, error)
}

type MessageInput struct {
	Type      domain.MessageType `json:"type"`
	Text      string             `json:"text"`
	FileURL   string             `json:"file_url"`
	Latitude  *float64           `json:"latitude"`
	Longitude *float64           `json:"longitude"`
}

type ChatService interface {
	OpenThread(ctx context.Context, s *domain.Session, carID string) (*domain.ChatThread, error)
	SendMessage(ctx context.Context, s *domain.Session, threadID string, in MessageInput) (*domain.Message, error)
	ListMessages(ctx context.Context, s *domain.Session, threadID string) ([]domain.Message, error)
	MarkRead(ctx context.Context, s *domain.Session, threadID string) (int, error)
	ListThreads(ctx context.Context, s *domain.Session) ([]domain.ChatThread, error)
	WatchMessages(ctx context.Context, s *domain.Session, threadID string, listener func(domain.MessageChange)) (repository.Subscription, error)
}

type AdService interface {
	CreateAd(ctx context.Context, company, imageURL, link string) (*domain.Ad, error)
	ToggleAd(ctx context.Context, id string) (*domain.Ad, error)
	DeleteAd(ctx context.Context, id string) error
	ListAds(ctx context.Context) ([]domain.Ad, error)
	// ActiveAd returns nil when no banner is active.
	ActiveAd(ctx context.Context) (*domain.Ad, error)
}

type StatsService interface {
	PlatformStats(ctx context.Context) (*domain.PlatformStats, error)
}

type MediaService interface {
	RequestUpload(ctx context.Context, s *domain.Session, purpose domain.UploadPurpose, filename, contentType string) (*domain.UploadTicket, error)
	// ConfirmUpload checks the object landed within the size limit.
	ConfirmUpload(ctx context.Context, s *domain.Session, key string) (*domain.StoredObject, error)
	DeleteUpload(ctx context.Context, s *domain.Session, key string) error
}

type NotificationService interface {
	// HandleEvent consumes one booking.* event body.
	HandleEvent(ctx context.Context, routingKey string, body []byte) error
	SendPendingReminders(ctx context.Context) (int, error)
}

type EmailService interface {
	SendBookingRequested(ctx context.Context, toEmail, toName string, b *domain.Booking) error
	SendBookingDecision(ctx context.Context, toEmail, toName string, b *domain.Booking) error
	SendPendingReminder(ctx context.Context, toEmail, toName string, pending int) error
}

type WhatsAppService interface {
	SendMessage(ctx context.Context, toPhone, body string) error
}

// EventPublisher is satisfied by the RabbitMQ publisher and the in-process bus.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

type RateLimiter interface {
	Allow(ctx context.Context, key string) (cache.Decision, error)
}

type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
