package firestoredb

import (
	"context"

	"cloud.google.com/go/firestore"

	"wotro-backend/internal/domain"
	"wotro-backend/internal/repository"
)

type adRepository struct {
	client *firestore.Client
}

func NewAdRepository(client *firestore.Client) repository.AdRepository {
	return &adRepository{client: client}
}

func (r *adRepository) ads() *firestore.CollectionRef {
	return r.client.Collection(adsCollection)
}

func decodeAd(snap *firestore.DocumentSnapshot) (domain.Ad, error) {
	var a domain.Ad
	if err := snap.DataTo(&a); err != nil {
		return a, err
	}
	a.ID = snap.Ref.ID
	return a, nil
}

func (r *adRepository) Create(ctx context.Context, ad *domain.Ad) error {
	ref := r.ads().NewDoc()
	if _, err := ref.Create(ctx, ad); err != nil {
		return err
	}
	ad.ID = ref.ID
	return nil
}

func (r *adRepository) GetByID(ctx context.Context, id string) (*domain.Ad, error) {
	snap, err := r.ads().Doc(id).Get(ctx)
	if err != nil {
		return nil, mapErr(err)
	}
	a, err := decodeAd(snap)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *adRepository) List(ctx context.Context) ([]domain.Ad, error) {
	return collect(r.ads().OrderBy("createdAt", firestore.Desc).Documents(ctx), decodeAd)
}

func (r *adRepository) FirstActive(ctx context.Context) (*domain.Ad, error) {
	ads, err := collect(r.ads().Where("isActive", "==", true).Limit(1).Documents(ctx), decodeAd)
	if err != nil {
		return nil, err
	}
	if len(ads) == 0 {
		return nil, repository.ErrNotFound
	}
	return &ads[0], nil
}

func (r *adRepository) SetActive(ctx context.Context, id string, active bool) error {
	_, err := r.ads().Doc(id).Update(ctx, []firestore.Update{{Path: "isActive", Value: active}})
	return mapErr(err)
}

func (r *adRepository) Delete(ctx context.Context, id string) error {
	_, err := r.ads().Doc(id).Delete(ctx)
	return err
}
