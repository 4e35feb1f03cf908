package firestoredb

import (
	"context"

	"cloud.google.com/go/firestore"

	"wotro-backend/internal/domain"
	"wotro-backend/internal/logger"
	"wotro-backend/internal/repository"
)

type chatRepository struct {
	client *firestore.Client
}

func NewChatRepository(client *firestore.Client) repository.ChatRepository {
	return &chatRepository{client: client}
}

func (r *chatRepository) thread(id string) *firestore.DocumentRef {
	return r.client.Collection(chatsCollection).Doc(id)
}

func (r *chatRepository) messages(threadID string) *firestore.CollectionRef {
	return r.thread(threadID).Collection(messagesCollection)
}

func decodeMessage(snap *firestore.DocumentSnapshot) (domain.Message, error) {
	var m domain.Message
	if err := snap.DataTo(&m); err != nil {
		return m, err
	}
	m.ID = snap.Ref.ID
	return m, nil
}

// UpsertThread merges thread metadata so reopening a conversation keeps its history.
func (r *chatRepository) UpsertThread(ctx context.Context, t *domain.ChatThread) error {
	data := map[string]interface{}{
		"id":           t.ID,
		"participants": t.Participants,
		"carId":        t.CarID,
		"carName":      t.CarName,
		"carImage":     t.CarImage,
		"ownerId":      t.OwnerID,
		"ownerName":    t.OwnerName,
		"ownerPhoto":   t.OwnerPhoto,
		"tenantId":     t.TenantID,
		"updatedAt":    firestore.ServerTimestamp,
	}
	if t.LastMessage != "" {
		data["lastMessage"] = t.LastMessage
	}

	logger.StoreCall("firestore", "upsert_thread", chatsCollection, "id", t.ID)
	_, err := r.thread(t.ID).Set(ctx, data, firestore.MergeAll)
	logger.StoreResult("firestore", "upsert_thread", 1, err)
	return err
}

func (r *chatRepository) GetThread(ctx context.Context, id string) (*domain.ChatThread, error) {
	snap, err := r.thread(id).Get(ctx)
	if err != nil {
		return nil, mapErr(err)
	}
	var t domain.ChatThread
	if err := snap.DataTo(&t); err != nil {
		return nil, err
	}
	t.ID = snap.Ref.ID
	return &t, nil
}

func (r *chatRepository) ListThreads(ctx context.Context, uid string) ([]domain.ChatThread, error) {
	q := r.client.Collection(chatsCollection).
		Where("participants", "array-contains", uid).
		OrderBy("updatedAt", firestore.Desc)
	return collect(q.Documents(ctx), func(snap *firestore.DocumentSnapshot) (domain.ChatThread, error) {
		var t domain.ChatThread
		if err := snap.DataTo(&t); err != nil {
			return t, err
		}
		t.ID = snap.Ref.ID
		return t, nil
	})
}

func (r *chatRepository) AddMessage(ctx context.Context, threadID string, msg *domain.Message, preview string) error {
	threadRef := r.thread(threadID)
	msgRef := r.messages(threadID).NewDoc()

	logger.StoreCall("firestore", "add_message", messagesCollection, "thread_id", threadID)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if err := tx.Create(msgRef, msg); err != nil {
			return err
		}
		return tx.Update(threadRef, []firestore.Update{
			{Path: "lastMessage", Value: preview},
			{Path: "updatedAt", Value: firestore.ServerTimestamp},
		})
	})
	logger.StoreResult("firestore", "add_message", 2, err)
	if err != nil {
		return mapErr(err)
	}
	msg.ID = msgRef.ID
	return nil
}

func (r *chatRepository) ListMessages(ctx context.Context, threadID string) ([]domain.Message, error) {
	q := r.messages(threadID).OrderBy("createdAt", firestore.Asc)
	return collect(q.Documents(ctx), decodeMessage)
}

// MarkRead flags as read every unread message sent by the other participant.
func (r *chatRepository) MarkRead(ctx context.Context, threadID, readerID string) (int, error) {
	unread, err := collect(r.messages(threadID).Where("read", "==", false).Documents(ctx), decodeMessage)
	if err != nil {
		return 0, err
	}

	bw := r.client.BulkWriter(ctx)
	marked := 0
	for _, m := range unread {
		if m.SenderID == readerID {
			continue
		}
		if _, err := bw.Update(r.messages(threadID).Doc(m.ID), []firestore.Update{{Path: "read", Value: true}}); err != nil {
			bw.End()
			return marked, err
		}
		marked++
	}
	bw.End()
	return marked, nil
}

func (r *chatRepository) WatchMessages(ctx context.Context, threadID string, listener func(domain.MessageChange)) (repository.Subscription, error) {
	q := r.messages(threadID).OrderBy("createdAt", firestore.Asc)
	return watchQuery(ctx, q, func(kind domain.ChangeKind, snap *firestore.DocumentSnapshot) {
		m, err := decodeMessage(snap)
		if err != nil {
			logger.Warn("Skipping undecodable message", "id", snap.Ref.ID, "error", err)
			return
		}
		listener(domain.MessageChange{Kind: kind, Message: m})
	})
}
