package service

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"wotro-backend/internal/domain"
	"wotro-backend/internal/logger"
)

type emailService struct {
	apiKey    string
	fromEmail string
	fromName  string
}

// NewEmailService returns a SendGrid-backed sender. Without an API key the
// messages are only logged.
func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	if fromName == "" {
		fromName = "Wotro"
	}
	return &emailService{apiKey: apiKey, fromEmail: fromEmail, fromName: fromName}
}

func (s *emailService) send(ctx context.Context, toEmail, toName, subject, body string) error {
	if toEmail == "" {
		return invalidf("recipient email is empty")
	}
	if s.apiKey == "" {
		logger.InfoContext(ctx, "Email not sent, SendGrid disabled", "to", toEmail, "subject", subject)
		return nil
	}

	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, body, "")

	logger.ExternalServiceCall("sendgrid", "Send", "to", toEmail)
	response, err := sendgrid.NewSendClient(s.apiKey).Send(message)
	if err != nil {
		logger.ExternalServiceResult("sendgrid", "Send", err)
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
		logger.ExternalServiceResult("sendgrid", "Send", err)
		return err
	}
	logger.ExternalServiceResult("sendgrid", "Send", nil, "status", response.StatusCode)
	return nil
}

func (s *emailService) SendBookingRequested(ctx context.Context, toEmail, toName string, b *domain.Booking) error {
	subject := fmt.Sprintf("Nouvelle demande de réservation : %s", b.VehicleName)
	body := fmt.Sprintf("Bonjour %s,\n\n%s souhaite louer votre %s du %s au %s pour un total de %s FCFA.\n\nConnectez-vous à Wotro pour accepter ou refuser la demande.\n\nL'équipe Wotro",
		toName, b.TenantName, b.VehicleName, b.StartDate, b.EndDate, FormatFCFA(b.TotalPrice))
	return s.send(ctx, toEmail, toName, subject, body)
}

func (s *emailService) SendBookingDecision(ctx context.Context, toEmail, toName string, b *domain.Booking) error {
	verdict := "refusée"
	next := "D'autres véhicules sont disponibles sur Wotro."
	if b.Status == domain.BookingStatusConfirmed {
		verdict = "confirmée"
		next = "Votre contrat de location est disponible dans votre espace."
	}
	subject := fmt.Sprintf("Réservation %s : %s", verdict, b.VehicleName)
	body := fmt.Sprintf("Bonjour %s,\n\nVotre réservation du %s du %s au %s a été %s.\n%s\n\nL'équipe Wotro",
		toName, b.VehicleName, b.StartDate, b.EndDate, verdict, next)
	return s.send(ctx, toEmail, toName, subject, body)
}

func (s *emailService) SendPendingReminder(ctx context.Context, toEmail, toName string, pending int) error {
	subject := fmt.Sprintf("%d demande(s) de réservation en attente", pending)
	body := fmt.Sprintf("Bonjour %s,\n\nVous avez %d demande(s) de réservation en attente de réponse sur Wotro.\n\nL'équipe Wotro",
		toName, pending)
	return s.send(ctx, toEmail, toName, subject, body)
}
