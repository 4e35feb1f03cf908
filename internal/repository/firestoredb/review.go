package firestoredb

import (
	"context"

	"cloud.google.com/go/firestore"

	"wotro-backend/internal/domain"
	"wotro-backend/internal/logger"
	"wotro-backend/internal/repository"
)

type reviewRepository struct {
	client *firestore.Client
}

func NewReviewRepository(client *firestore.Client) repository.ReviewRepository {
	return &reviewRepository{client: client}
}

func (r *reviewRepository) Submit(ctx context.Context, review *domain.Review) error {
	bookingRef := r.client.Collection(bookingsCollection).Doc(review.BookingID)
	carRef := r.client.Collection(carsCollection).Doc(review.CarID)
	reviewRef := r.client.Collection(reviewsCollection).NewDoc()

	logger.StoreCall("firestore", "submit_review", reviewsCollection, "booking_id", review.BookingID)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(bookingRef)
		if err != nil {
			return mapErr(err)
		}
		reviewed, err := snap.DataAt("hasReviewed")
		if err == nil {
			if done, _ := reviewed.(bool); done {
				return repository.ErrAlreadyReviewed
			}
		}

		if err := tx.Create(reviewRef, review); err != nil {
			return err
		}
		if err := tx.Update(carRef, []firestore.Update{
			{Path: "priorityScore", Value: firestore.Increment(review.Rating)},
			{Path: "reviewCount", Value: firestore.Increment(1)},
		}); err != nil {
			return err
		}
		return tx.Update(bookingRef, []firestore.Update{{Path: "hasReviewed", Value: true}})
	})
	logger.StoreResult("firestore", "submit_review", 3, err)
	if err != nil {
		return mapErr(err)
	}
	review.ID = reviewRef.ID
	return nil
}

func (r *reviewRepository) ListByVehicle(ctx context.Context, carID string) ([]domain.Review, error) {
	q := r.client.Collection(reviewsCollection).Where("carId", "==", carID).OrderBy("createdAt", firestore.Desc)
	return collect(q.Documents(ctx), func(snap *firestore.DocumentSnapshot) (domain.Review, error) {
		var rv domain.Review
		if err := snap.DataTo(&rv); err != nil {
			return rv, err
		}
		rv.ID = snap.Ref.ID
		return rv, nil
	})
}
