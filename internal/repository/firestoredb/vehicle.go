package firestoredb

import (
	"context"

	"cloud.google.com/go/firestore"

	"wotro-backend/internal/domain"
	"wotro-backend/internal/logger"
	"wotro-backend/internal/repository"
)

type vehicleRepository struct {
	client *firestore.Client
}

func NewVehicleRepository(client *firestore.Client) repository.VehicleRepository {
	return &vehicleRepository{client: client}
}

func (r *vehicleRepository) cars() *firestore.CollectionRef {
	return r.client.Collection(carsCollection)
}

func decodeVehicle(snap *firestore.DocumentSnapshot) (domain.Vehicle, error) {
	var v domain.Vehicle
	if err := snap.DataTo(&v); err != nil {
		return v, err
	}
	v.ID = snap.Ref.ID
	return v, nil
}

func (r *vehicleRepository) Create(ctx context.Context, v *domain.Vehicle) error {
	ref := r.cars().NewDoc()
	logger.StoreCall("firestore", "create_vehicle", carsCollection, "owner_id", v.OwnerID)
	_, err := ref.Create(ctx, v)
	logger.StoreResult("firestore", "create_vehicle", 1, err)
	if err != nil {
		return err
	}
	v.ID = ref.ID
	return nil
}

func (r *vehicleRepository) GetByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	snap, err := r.cars().Doc(id).Get(ctx)
	if err != nil {
		return nil, mapErr(err)
	}
	v, err := decodeVehicle(snap)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// ListAvailable returns listed vehicles ordered by priority score. The price
// ceiling is applied in memory since Firestore cannot combine it with the
// priority ordering.
func (r *vehicleRepository) ListAvailable(ctx context.Context, filter domain.VehicleFilter) ([]domain.Vehicle, error) {
	q := r.cars().Where("isAvailable", "==", true)
	if filter.Commune != "" {
		q = q.Where("location", "==", filter.Commune)
	}
	if filter.Category != "" {
		q = q.Where("category", "==", filter.Category)
	}
	q = q.OrderBy("priorityScore", firestore.Desc)
	if filter.Limit > 0 && filter.MaxPrice == 0 {
		q = q.Limit(filter.Limit)
	}

	logger.StoreCall("firestore", "list_available_vehicles", carsCollection, "commune", filter.Commune, "category", filter.Category)
	all, err := collect(q.Documents(ctx), decodeVehicle)
	logger.StoreResult("firestore", "list_available_vehicles", int64(len(all)), err)
	if err != nil {
		return nil, err
	}
	if filter.MaxPrice == 0 {
		return all, nil
	}

	out := all[:0]
	for _, v := range all {
		if v.Price <= filter.MaxPrice {
			out = append(out, v)
		}
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

func (r *vehicleRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Vehicle, error) {
	return collect(r.cars().Where("ownerId", "==", ownerID).Documents(ctx), decodeVehicle)
}

func (r *vehicleRepository) SetAvailability(ctx context.Context, id string, available bool) error {
	_, err := r.cars().Doc(id).Update(ctx, []firestore.Update{{Path: "isAvailable", Value: available}})
	return mapErr(err)
}

func (r *vehicleRepository) UpdateExactAddress(ctx context.Context, id, address string) error {
	_, err := r.cars().Doc(id).Update(ctx, []firestore.Update{{Path: "exactAddress", Value: address}})
	return mapErr(err)
}

func (r *vehicleRepository) Delete(ctx context.Context, id string) error {
	logger.StoreCall("firestore", "delete_vehicle", carsCollection, "id", id)
	_, err := r.cars().Doc(id).Delete(ctx)
	logger.StoreResult("firestore", "delete_vehicle", 1, err)
	return err
}

func (r *vehicleRepository) Count(ctx context.Context) (int32, error) {
	return count(ctx, r.cars().Query)
}
