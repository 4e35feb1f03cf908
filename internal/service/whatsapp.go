package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"wotro-backend/internal/logger"
)

const ivoryCoastPrefix = "225"

type messageCreator interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

type whatsAppService struct {
	api  messageCreator
	from string
}

// NewWhatsAppService sends through Twilio's WhatsApp channel. It returns a
// logging no-op when credentials are missing.
func NewWhatsAppService(accountSID, authToken, from string) WhatsAppService {
	if accountSID == "" || authToken == "" || from == "" {
		return &whatsAppService{}
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username:   accountSID,
		Password:   authToken,
		AccountSid: accountSID,
	})
	return &whatsAppService{api: client.Api, from: from}
}

func (s *whatsAppService) SendMessage(ctx context.Context, toPhone, body string) error {
	digits := NormalizePhone(toPhone)
	if digits == "" {
		return invalidf("phone number is empty")
	}
	if s.api == nil {
		logger.InfoContext(ctx, "WhatsApp not sent, Twilio disabled", "to", digits)
		return nil
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo("whatsapp:+" + digits)
	params.SetFrom(whatsAppAddress(s.from))
	params.SetBody(body)

	logger.ExternalServiceCall("twilio", "CreateMessage", "to", digits)
	resp, err := s.api.CreateMessage(params)
	if err != nil {
		logger.ExternalServiceResult("twilio", "CreateMessage", err)
		return fmt.Errorf("failed to send whatsapp message: %w", err)
	}
	sid := ""
	if resp != nil && resp.Sid != nil {
		sid = *resp.Sid
	}
	logger.ExternalServiceResult("twilio", "CreateMessage", nil, "sid", sid)
	return nil
}

func whatsAppAddress(number string) string {
	if strings.HasPrefix(number, "whatsapp:") {
		return number
	}
	if !strings.HasPrefix(number, "+") {
		number = "+" + number
	}
	return "whatsapp:" + number
}

// NormalizePhone keeps the digits of phone and adds the Côte d'Ivoire
// country code to local 10-digit numbers.
func NormalizePhone(phone string) string {
	var sb strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	digits := strings.TrimPrefix(sb.String(), "00")
	if len(digits) == 10 {
		digits = ivoryCoastPrefix + digits
	}
	return digits
}

// WhatsAppLink builds the wa.me deep link used to contact a host.
func WhatsAppLink(phone, text string) string {
	link := "https://wa.me/" + NormalizePhone(phone)
	if text != "" {
		link += "?text=" + url.QueryEscape(text)
	}
	return link
}
