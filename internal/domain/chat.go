package domain

import "time"

type MessageType string

const (
	MessageTypeText     MessageType = "text"
	MessageTypeLocation MessageType = "location"
	MessageTypeImage    MessageType = "image"
	MessageTypeAudio    MessageType = "audio"
)

type ChatThread struct {
	ID           string    `json:"id" firestore:"id"`
	Participants []string  `json:"participants" firestore:"participants"`
	CarID        string    `json:"car_id" firestore:"carId"`
	CarName      string    `json:"car_name" firestore:"carName"`
	CarImage     string    `json:"car_image,omitempty" firestore:"carImage"`
	OwnerID      string    `json:"owner_id" firestore:"ownerId"`
	OwnerName    string    `json:"owner_name,omitempty" firestore:"ownerName"`
	OwnerPhoto   string    `json:"owner_photo,omitempty" firestore:"ownerPhoto"`
	TenantID     string    `json:"tenant_id" firestore:"tenantId"`
	LastMessage  string    `json:"last_message" firestore:"lastMessage"`
	UpdatedAt    time.Time `json:"updated_at" firestore:"updatedAt"`
}

func (t *ChatThread) HasParticipant(uid string) bool {
	for _, p := range t.Participants {
		if p == uid {
			return true
		}
	}
	return false
}

type Message struct {
	ID        string      `json:"id" firestore:"-"`
	Type      MessageType `json:"type" firestore:"type"`
	Text      string      `json:"text,omitempty" firestore:"text,omitempty"`
	FileURL   string      `json:"file_url,omitempty" firestore:"fileUrl,omitempty"`
	SenderID  string      `json:"sender_id" firestore:"senderId"`
	Read      bool        `json:"read" firestore:"read"`
	CreatedAt time.Time   `json:"created_at" firestore:"createdAt"`
}

// MessageChange is one live update delivered to a chat subscriber.
type MessageChange struct {
	Kind    ChangeKind `json:"kind"`
	Message Message    `json:"message"`
}
