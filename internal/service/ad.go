package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"wotro-backend/internal/domain"
	"wotro-backend/internal/logger"
	"wotro-backend/internal/repository"
)

type adService struct {
	adRepo repository.AdRepository
}

func NewAdService(adRepo repository.AdRepository) AdService {
	return &adService{adRepo: adRepo}
}

func (s *adService) CreateAd(ctx context.Context, company, imageURL, link string) (*domain.Ad, error) {
	company = strings.TrimSpace(company)
	imageURL = strings.TrimSpace(imageURL)
	if company == "" || imageURL == "" {
		return nil, invalidf("company and image are required")
	}
	ad := &domain.Ad{
		Company:   company,
		ImageURL:  imageURL,
		Link:      strings.TrimSpace(link),
		IsActive:  true,
		CreatedAt: domain.Timestamp(time.Now()),
	}
	if err := s.adRepo.Create(ctx, ad); err != nil {
		return nil, err
	}
	logger.Info("Ad created", "ad_id", ad.ID, "company", ad.Company)
	return ad, nil
}

func (s *adService) ToggleAd(ctx context.Context, id string) (*domain.Ad, error) {
	ad, err := s.adRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "ad")
	}
	ad.IsActive = !ad.IsActive
	if err := s.adRepo.SetActive(ctx, id, ad.IsActive); err != nil {
		return nil, fromRepo(err, "ad")
	}
	return ad, nil
}

func (s *adService) DeleteAd(ctx context.Context, id string) error {
	return fromRepo(s.adRepo.Delete(ctx, id), "ad")
}

func (s *adService) ListAds(ctx context.Context) ([]domain.Ad, error) {
	return s.adRepo.List(ctx)
}

func (s *adService) ActiveAd(ctx context.Context) (*domain.Ad, error) {
	ad, err := s.adRepo.FirstActive(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return ad, err
}
