package firestoredb

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"

	"wotro-backend/internal/domain"
	"wotro-backend/internal/logger"
	"wotro-backend/internal/repository"
)

type bookingRepository struct {
	client *firestore.Client
}

func NewBookingRepository(client *firestore.Client) repository.BookingRepository {
	return &bookingRepository{client: client}
}

func (r *bookingRepository) bookings() *firestore.CollectionRef {
	return r.client.Collection(bookingsCollection)
}

func decodeBooking(snap *firestore.DocumentSnapshot) (domain.Booking, error) {
	var b domain.Booking
	if err := snap.DataTo(&b); err != nil {
		return b, err
	}
	b.ID = snap.Ref.ID
	return b, nil
}

func decodeRange(snap *firestore.DocumentSnapshot) (domain.BookedRange, error) {
	var rg struct {
		StartDate string `firestore:"startDate"`
		EndDate   string `firestore:"endDate"`
	}
	if err := snap.DataTo(&rg); err != nil {
		return domain.BookedRange{}, err
	}
	return domain.BookedRange{BookingID: snap.Ref.ID, StartDate: rg.StartDate, EndDate: rg.EndDate}, nil
}

// Create issues a single write of a new booking document. It is not retried.
func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	ref := r.bookings().NewDoc()
	logger.StoreCall("firestore", "create_booking", bookingsCollection, "vehicle_id", b.VehicleID, "tenant_id", b.TenantID)
	_, err := ref.Create(ctx, b)
	logger.StoreResult("firestore", "create_booking", 1, err)
	if err != nil {
		return err
	}
	b.ID = ref.ID
	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	snap, err := r.bookings().Doc(id).Get(ctx)
	if err != nil {
		return nil, mapErr(err)
	}
	b, err := decodeBooking(snap)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepository) confirmedQuery(vehicleID string) firestore.Query {
	return r.bookings().
		Where("vehicleId", "==", vehicleID).
		Where("status", "==", string(domain.BookingStatusConfirmed)).
		Select("startDate", "endDate")
}

func (r *bookingRepository) ListConfirmedRanges(ctx context.Context, vehicleID string) ([]domain.BookedRange, error) {
	logger.StoreCall("firestore", "list_confirmed_ranges", bookingsCollection, "vehicle_id", vehicleID)
	ranges, err := collect(r.confirmedQuery(vehicleID).Documents(ctx), decodeRange)
	logger.StoreResult("firestore", "list_confirmed_ranges", int64(len(ranges)), err)
	return ranges, err
}

func (r *bookingRepository) ListByTenant(ctx context.Context, tenantID string) ([]domain.Booking, error) {
	q := r.bookings().Where("tenantId", "==", tenantID).OrderBy("createdAt", firestore.Desc)
	return collect(q.Documents(ctx), decodeBooking)
}

func (r *bookingRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Booking, error) {
	q := r.bookings().Where("ownerId", "==", ownerID).OrderBy("createdAt", firestore.Desc)
	return collect(q.Documents(ctx), decodeBooking)
}

func (r *bookingRepository) ListByStatus(ctx context.Context, status domain.BookingStatus) ([]domain.Booking, error) {
	q := r.bookings().Where("status", "==", string(status))
	return collect(q.Documents(ctx), decodeBooking)
}

func (r *bookingRepository) ListRecent(ctx context.Context, limit int) ([]domain.Booking, error) {
	q := r.bookings().OrderBy("createdAt", firestore.Desc).Limit(limit)
	return collect(q.Documents(ctx), decodeBooking)
}

func (r *bookingRepository) Reject(ctx context.Context, id string) (*domain.Booking, error) {
	var out *domain.Booking
	ref := r.bookings().Doc(id)

	logger.StoreCall("firestore", "reject_booking", bookingsCollection, "id", id)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		out = nil
		snap, err := tx.Get(ref)
		if err != nil {
			return mapErr(err)
		}
		b, err := decodeBooking(snap)
		if err != nil {
			return err
		}
		if b.Status != domain.BookingStatusPending {
			return repository.ErrStatusChanged
		}
		b.Status = domain.BookingStatusRejected
		b.UpdatedAt = domain.Timestamp(time.Now())
		out = &b
		return tx.Update(ref, statusUpdate(b.Status, b.UpdatedAt))
	})
	logger.StoreResult("firestore", "reject_booking", 1, err)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *bookingRepository) Confirm(ctx context.Context, id string, plan repository.ConfirmPlan) (*domain.Booking, []domain.Booking, error) {
	var (
		confirmed *domain.Booking
		rejected  []domain.Booking
	)
	ref := r.bookings().Doc(id)

	logger.StoreCall("firestore", "confirm_booking", bookingsCollection, "id", id)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		confirmed, rejected = nil, nil

		snap, err := tx.Get(ref)
		if err != nil {
			return mapErr(err)
		}
		target, err := decodeBooking(snap)
		if err != nil {
			return err
		}
		if target.Status != domain.BookingStatusPending {
			return repository.ErrStatusChanged
		}

		rangeDocs, err := tx.Documents(r.confirmedQuery(target.VehicleID)).GetAll()
		if err != nil {
			return err
		}
		ranges := make([]domain.BookedRange, 0, len(rangeDocs))
		for _, d := range rangeDocs {
			rg, err := decodeRange(d)
			if err != nil {
				return err
			}
			ranges = append(ranges, rg)
		}

		pendingDocs, err := tx.Documents(r.bookings().
			Where("vehicleId", "==", target.VehicleID).
			Where("status", "==", string(domain.BookingStatusPending))).GetAll()
		if err != nil {
			return err
		}
		pending := make([]domain.Booking, 0, len(pendingDocs))
		byID := make(map[string]domain.Booking, len(pendingDocs))
		for _, d := range pendingDocs {
			b, err := decodeBooking(d)
			if err != nil {
				return err
			}
			if b.ID == target.ID {
				continue
			}
			pending = append(pending, b)
			byID[b.ID] = b
		}

		rejectIDs, err := plan(&target, ranges, pending)
		if err != nil {
			return err
		}

		now := domain.Timestamp(time.Now())
		target.Status = domain.BookingStatusConfirmed
		target.UpdatedAt = now
		if err := tx.Update(ref, statusUpdate(target.Status, now)); err != nil {
			return err
		}
		for _, rid := range rejectIDs {
			b, ok := byID[rid]
			if !ok {
				continue
			}
			b.Status = domain.BookingStatusRejected
			b.UpdatedAt = now
			if err := tx.Update(r.bookings().Doc(rid), statusUpdate(b.Status, now)); err != nil {
				return err
			}
			rejected = append(rejected, b)
		}
		confirmed = &target
		return nil
	})
	logger.StoreResult("firestore", "confirm_booking", int64(1+len(rejected)), err)
	if err != nil {
		return nil, nil, err
	}
	return confirmed, rejected, nil
}

func statusUpdate(status domain.BookingStatus, at string) []firestore.Update {
	return []firestore.Update{
		{Path: "status", Value: string(status)},
		{Path: "updatedAt", Value: at},
	}
}

func (r *bookingRepository) WatchByOwner(ctx context.Context, ownerID string, listener func(domain.BookingChange)) (repository.Subscription, error) {
	return r.watch(ctx, r.bookings().Where("ownerId", "==", ownerID), listener)
}

func (r *bookingRepository) WatchByTenant(ctx context.Context, tenantID string, listener func(domain.BookingChange)) (repository.Subscription, error) {
	return r.watch(ctx, r.bookings().Where("tenantId", "==", tenantID), listener)
}

func (r *bookingRepository) watch(ctx context.Context, q firestore.Query, listener func(domain.BookingChange)) (repository.Subscription, error) {
	return watchQuery(ctx, q, func(kind domain.ChangeKind, snap *firestore.DocumentSnapshot) {
		b, err := decodeBooking(snap)
		if err != nil {
			logger.Warn("Skipping undecodable booking", "id", snap.Ref.ID, "error", err)
			return
		}
		listener(domain.BookingChange{Kind: kind, Booking: b})
	})
}
