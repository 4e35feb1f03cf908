package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"wotro-backend/internal/domain"
	"wotro-backend/internal/repository"
)

type chatService struct {
	chatRepo    repository.ChatRepository
	vehicleRepo repository.VehicleRepository
	userRepo    repository.UserRepository
}

func NewChatService(chatRepo repository.ChatRepository, vehicleRepo repository.VehicleRepository, userRepo repository.UserRepository) ChatService {
	return &chatService{chatRepo: chatRepo, vehicleRepo: vehicleRepo, userRepo: userRepo}
}

// ThreadID is deterministic so both parties land in the same conversation
// for a given car.
func ThreadID(uidA, uidB, carID string) string {
	ids := []string{uidA, uidB}
	sort.Strings(ids)
	return ids[0] + "_" + ids[1] + "_" + carID
}

// LocationURL is the map link sent for a shared position.
func LocationURL(lat, lng float64) string {
	return "https://www.google.com/maps?q=" +
		strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lng, 'f', -1, 64)
}

func (s *chatService) OpenThread(ctx context.Context, sess *domain.Session, carID string) (*domain.ChatThread, error) {
	v, err := s.vehicleRepo.GetByID(ctx, carID)
	if err != nil {
		return nil, fromRepo(err, "vehicle")
	}
	if v.OwnerID == sess.UID {
		return nil, invalidf("cannot open a conversation about your own vehicle")
	}

	id := ThreadID(sess.UID, v.OwnerID, carID)
	if existing, err := s.chatRepo.GetThread(ctx, id); err == nil {
		return existing, nil
	}

	thread := &domain.ChatThread{
		ID:           id,
		Participants: []string{sess.UID, v.OwnerID},
		CarID:        carID,
		CarName:      v.Name,
		CarImage:     v.Image,
		OwnerID:      v.OwnerID,
		OwnerName:    "Hôte Wotro",
		TenantID:     sess.UID,
		LastMessage:  "Nouvelle discussion",
		UpdatedAt:    time.Now().UTC(),
	}
	if owner, err := s.userRepo.GetByID(ctx, v.OwnerID); err == nil {
		thread.OwnerName = owner.DisplayName(thread.OwnerName)
		thread.OwnerPhoto = owner.PhotoURL
	}
	if err := s.chatRepo.UpsertThread(ctx, thread); err != nil {
		return nil, err
	}
	return thread, nil
}

func (s *chatService) participantThread(ctx context.Context, sess *domain.Session, threadID string) (*domain.ChatThread, error) {
	thread, err := s.chatRepo.GetThread(ctx, threadID)
	if err != nil {
		return nil, fromRepo(err, "chat")
	}
	if !thread.HasParticipant(sess.UID) {
		return nil, fmt.Errorf("%w: not a participant of this chat", ErrForbidden)
	}
	return thread, nil
}

func (s *chatService) SendMessage(ctx context.Context, sess *domain.Session, threadID string, in MessageInput) (*domain.Message, error) {
	if _, err := s.participantThread(ctx, sess, threadID); err != nil {
		return nil, err
	}
	msg, preview, err := buildMessage(sess.UID, in)
	if err != nil {
		return nil, err
	}
	if err := s.chatRepo.AddMessage(ctx, threadID, msg, preview); err != nil {
		return nil, err
	}
	return msg, nil
}

// buildMessage validates the input and returns the message with the thread
// preview text.
func buildMessage(senderID string, in MessageInput) (*domain.Message, string, error) {
	msg := &domain.Message{Type: in.Type, SenderID: senderID, CreatedAt: time.Now().UTC()}
	switch in.Type {
	case domain.MessageTypeText:
		text := strings.TrimSpace(in.Text)
		if text == "" {
			return nil, "", invalidf("message text is required")
		}
		msg.Text = text
		return msg, text, nil
	case domain.MessageTypeLocation:
		if in.Latitude == nil || in.Longitude == nil {
			return nil, "", invalidf("latitude and longitude are required")
		}
		if *in.Latitude < -90 || *in.Latitude > 90 || *in.Longitude < -180 || *in.Longitude > 180 {
			return nil, "", invalidf("coordinates out of range")
		}
		msg.Text = LocationURL(*in.Latitude, *in.Longitude)
		return msg, "📍 Position partagée", nil
	case domain.MessageTypeImage, domain.MessageTypeAudio:
		if strings.TrimSpace(in.FileURL) == "" {
			return nil, "", invalidf("file url is required")
		}
		msg.FileURL = in.FileURL
		if in.Type == domain.MessageTypeImage {
			return msg, "📷 Photo", nil
		}
		return msg, "🎤 Message vocal", nil
	}
	return nil, "", invalidf("unknown message type %q", in.Type)
}

func (s *chatService) ListMessages(ctx context.Context, sess *domain.Session, threadID string) ([]domain.Message, error) {
	if _, err := s.participantThread(ctx, sess, threadID); err != nil {
		return nil, err
	}
	return s.chatRepo.ListMessages(ctx, threadID)
}

func (s *chatService) MarkRead(ctx context.Context, sess *domain.Session, threadID string) (int, error) {
	if _, err := s.participantThread(ctx, sess, threadID); err != nil {
		return 0, err
	}
	return s.chatRepo.MarkRead(ctx, threadID, sess.UID)
}

func (s *chatService) ListThreads(ctx context.Context, sess *domain.Session) ([]domain.ChatThread, error) {
	return s.chatRepo.ListThreads(ctx, sess.UID)
}

func (s *chatService) WatchMessages(ctx context.Context, sess *domain.Session, threadID string, listener func(domain.MessageChange)) (repository.Subscription, error) {
	if _, err := s.participantThread(ctx, sess, threadID); err != nil {
		return nil, err
	}
	return s.chatRepo.WatchMessages(ctx, threadID, listener)
}
