package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

type fakeMessageCreator struct {
	params *openapi.CreateMessageParams
	err    error
}

func (f *fakeMessageCreator) CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error) {
	f.params = params
	if f.err != nil {
		return nil, f.err
	}
	sid := "SM123"
	return &openapi.ApiV2010Message{Sid: &sid}, nil
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "2250707070707", NormalizePhone("07 07 07 07 07"))
	assert.Equal(t, "2250707070707", NormalizePhone("+225 07 07 07 07 07"))
	assert.Equal(t, "2250707070707", NormalizePhone("00225 0707070707"))
	assert.Equal(t, "", NormalizePhone("n/a"))
}

func TestWhatsAppLink(t *testing.T) {
	assert.Equal(t, "https://wa.me/2250707070707", WhatsAppLink("0707070707", ""))
	assert.Equal(t, "https://wa.me/2250707070707?text=Bonjour+%C3%A0+vous", WhatsAppLink("0707070707", "Bonjour à vous"))
}

func TestWhatsAppService_SendMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("Sends Through Twilio", func(t *testing.T) {
		fake := &fakeMessageCreator{}
		svc := &whatsAppService{api: fake, from: "+14155238886"}

		require.NoError(t, svc.SendMessage(ctx, "07 07 07 07 07", "Nouvelle demande"))
		require.NotNil(t, fake.params)
		assert.Equal(t, "whatsapp:+2250707070707", *fake.params.To)
		assert.Equal(t, "whatsapp:+14155238886", *fake.params.From)
		assert.Equal(t, "Nouvelle demande", *fake.params.Body)
	})

	t.Run("Twilio Error", func(t *testing.T) {
		svc := &whatsAppService{api: &fakeMessageCreator{err: errors.New("21211 invalid number")}, from: "whatsapp:+1"}
		assert.Error(t, svc.SendMessage(ctx, "0707070707", "x"))
	})

	t.Run("Disabled Without Credentials", func(t *testing.T) {
		svc := NewWhatsAppService("", "", "")
		assert.NoError(t, svc.SendMessage(ctx, "0707070707", "x"))
		assert.ErrorIs(t, svc.SendMessage(ctx, "", "x"), ErrInvalidInput)
	})
}

func TestEmailService_DisabledWithoutAPIKey(t *testing.T) {
	svc := NewEmailService("", "noreply@wotro.ci", "")
	ctx := context.Background()
	assert.NoError(t, svc.SendPendingReminder(ctx, "kofi@example.ci", "Kofi", 2))
	assert.ErrorIs(t, svc.SendPendingReminder(ctx, "", "Kofi", 2), ErrInvalidInput)
}
