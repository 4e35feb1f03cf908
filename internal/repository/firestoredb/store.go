package firestoredb

import (
	"context"
	"errors"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/firestore/apiv1/firestorepb"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"wotro-backend/internal/repository"
)

// Collection names shared with the web client.
const (
	usersCollection    = "users"
	carsCollection     = "cars"
	bookingsCollection = "bookings"
	chatsCollection    = "chats"
	messagesCollection = "messages"
	adsCollection      = "ads"
	reviewsCollection  = "reviews"
)

// Store groups the Firestore-backed repositories.
type Store struct {
	client *firestore.Client
	repository.UserRepository
	repository.VehicleRepository
	repository.BookingRepository
	repository.ReviewRepository
	repository.ChatRepository
	repository.AdRepository
}

func NewStore(client *firestore.Client) *Store {
	return &Store{
		client:            client,
		UserRepository:    NewUserRepository(client),
		VehicleRepository: NewVehicleRepository(client),
		BookingRepository: NewBookingRepository(client),
		ReviewRepository:  NewReviewRepository(client),
		ChatRepository:    NewChatRepository(client),
		AdRepository:      NewAdRepository(client),
	}
}

func (s *Store) Close() error {
	return s.client.Close()
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// mapErr turns Firestore not-found into repository.ErrNotFound.
func mapErr(err error) error {
	if err != nil && isNotFound(err) {
		return repository.ErrNotFound
	}
	return err
}

// collect drains a document iterator, decoding each snapshot with decode.
func collect[T any](it *firestore.DocumentIterator, decode func(*firestore.DocumentSnapshot) (T, error)) ([]T, error) {
	defer it.Stop()
	var out []T
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		v, err := decode(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// count runs a server-side count aggregation.
func count(ctx context.Context, q firestore.Query) (int32, error) {
	res, err := q.NewAggregationQuery().WithCount("all").Get(ctx)
	if err != nil {
		return 0, err
	}
	v, ok := res["all"].(*firestorepb.Value)
	if !ok {
		return 0, errors.New("unexpected aggregation result")
	}
	return int32(v.GetIntegerValue()), nil
}
