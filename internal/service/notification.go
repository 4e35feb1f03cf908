package service

import (
	"context"
	"encoding/json"
	"fmt"

	"wotro-backend/internal/domain"
	"wotro-backend/internal/logger"
	"wotro-backend/internal/queue"
	"wotro-backend/internal/repository"
)

type notificationService struct {
	userRepo    repository.UserRepository
	bookingRepo repository.BookingRepository
	email       EmailService
	whatsapp    WhatsAppService
}

func NewNotificationService(userRepo repository.UserRepository, bookingRepo repository.BookingRepository, email EmailService, whatsapp WhatsAppService) NotificationService {
	return &notificationService{userRepo: userRepo, bookingRepo: bookingRepo, email: email, whatsapp: whatsapp}
}

func (s *notificationService) HandleEvent(ctx context.Context, routingKey string, body []byte) error {
	var event queue.BookingEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("failed to decode booking event: %w", err)
	}
	b := &event.Booking
	ctx = logger.WithAttrs(ctx, "routing_key", routingKey, "booking_id", b.ID)

	switch routingKey {
	case queue.RoutingBookingRequested:
		return s.notifyHost(ctx, b)
	case queue.RoutingBookingConfirmed, queue.RoutingBookingRejected:
		return s.notifyTenant(ctx, b)
	}
	logger.WarnContext(ctx, "Ignoring unknown booking event")
	return nil
}

func (s *notificationService) notifyHost(ctx context.Context, b *domain.Booking) error {
	host, err := s.userRepo.GetByID(ctx, b.OwnerID)
	if err != nil {
		return fmt.Errorf("failed to load host %s: %w", b.OwnerID, err)
	}
	name := host.DisplayName("Hôte Wotro")

	var firstErr error
	if host.Email != "" {
		if err := s.email.SendBookingRequested(ctx, host.Email, name, b); err != nil {
			logger.ErrorContext(ctx, "Host email failed", "error", err)
			firstErr = err
		}
	}
	if host.Phone != "" {
		text := fmt.Sprintf("Wotro : %s demande votre %s du %s au %s (%s FCFA).",
			b.TenantName, b.VehicleName, b.StartDate, b.EndDate, FormatFCFA(b.TotalPrice))
		if err := s.whatsapp.SendMessage(ctx, host.Phone, text); err != nil {
			logger.ErrorContext(ctx, "Host WhatsApp failed", "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (s *notificationService) notifyTenant(ctx context.Context, b *domain.Booking) error {
	tenant, err := s.userRepo.GetByID(ctx, b.TenantID)
	if err != nil {
		return fmt.Errorf("failed to load tenant %s: %w", b.TenantID, err)
	}
	if tenant.Email == "" {
		return nil
	}
	return s.email.SendBookingDecision(ctx, tenant.Email, tenant.DisplayName(b.TenantName), b)
}

// SendPendingReminders emails each host once with the number of requests
// still waiting for an answer.
func (s *notificationService) SendPendingReminders(ctx context.Context) (int, error) {
	pending, err := s.bookingRepo.ListByStatus(ctx, domain.BookingStatusPending)
	if err != nil {
		return 0, err
	}
	perHost := map[string]int{}
	var order []string
	for _, b := range pending {
		if perHost[b.OwnerID] == 0 {
			order = append(order, b.OwnerID)
		}
		perHost[b.OwnerID]++
	}

	sent := 0
	for _, hostID := range order {
		host, err := s.userRepo.GetByID(ctx, hostID)
		if err != nil {
			logger.Warn("Skipping reminder, host not found", "host_id", hostID, "error", err)
			continue
		}
		if host.Email == "" {
			continue
		}
		if err := s.email.SendPendingReminder(ctx, host.Email, host.DisplayName("Hôte Wotro"), perHost[hostID]); err != nil {
			logger.Error("Reminder email failed", "host_id", hostID, "error", err)
			continue
		}
		sent++
	}
	return sent, nil
}
