package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"wotro-backend/internal/domain"
	"wotro-backend/internal/logger"
	"wotro-backend/internal/repository"
)

const defaultTopVehicles = 3

type vehicleService struct {
	vehicleRepo repository.VehicleRepository
	userRepo    repository.UserRepository
	reviewRepo  repository.ReviewRepository
}

func NewVehicleService(vehicleRepo repository.VehicleRepository, userRepo repository.UserRepository, reviewRepo repository.ReviewRepository) VehicleService {
	return &vehicleService{vehicleRepo: vehicleRepo, userRepo: userRepo, reviewRepo: reviewRepo}
}

func (s *vehicleService) AddVehicle(ctx context.Context, sess *domain.Session, v *domain.Vehicle) error {
	logger.EnterMethod("vehicleService.AddVehicle", "owner_id", sess.UID)

	if sess.Role != domain.UserRoleHost && sess.Role != domain.UserRoleAdmin {
		return fmt.Errorf("%w: only hosts can list vehicles", ErrForbidden)
	}
	if err := validateVehicle(v); err != nil {
		logger.ExitMethodWithError("vehicleService.AddVehicle", err)
		return err
	}

	v.OwnerID = sess.UID
	v.IsAvailable = true
	v.IsValidated = true
	v.PriorityScore = domain.DefaultPriorityScore
	v.ReviewCount = 0
	v.CreatedAt = domain.Timestamp(time.Now())

	if err := s.vehicleRepo.Create(ctx, v); err != nil {
		logger.ExitMethodWithError("vehicleService.AddVehicle", err)
		return err
	}
	logger.ExitMethod("vehicleService.AddVehicle", "vehicle_id", v.ID)
	return nil
}

func validateVehicle(v *domain.Vehicle) error {
	v.Name = strings.TrimSpace(v.Name)
	v.Brand = strings.TrimSpace(v.Brand)
	switch {
	case v.Name == "":
		return invalidf("name is required")
	case v.Brand == "":
		return invalidf("brand is required")
	case v.Price <= 0:
		return invalidf("daily price must be positive")
	case v.Image == "":
		return invalidf("main image is required")
	case len(v.Gallery) < domain.MinGalleryPhotos:
		return invalidf("at least %d gallery photos are required", domain.MinGalleryPhotos)
	case !contains(domain.Communes, v.Location):
		return invalidf("unknown commune %q", v.Location)
	case !contains(domain.VehicleCategories, v.Category):
		return invalidf("unknown category %q", v.Category)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func (s *vehicleService) GetVehicle(ctx context.Context, id string) (*domain.Vehicle, error) {
	v, err := s.vehicleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "vehicle")
	}
	if owner, err := s.userRepo.GetByID(ctx, v.OwnerID); err == nil {
		v.OwnerName = owner.DisplayName("Hôte Wotro")
		v.OwnerPhoto = owner.PhotoURL
	} else {
		logger.Debug("Vehicle owner profile unavailable", "vehicle_id", id, "error", err)
		v.OwnerName = "Hôte Wotro"
	}
	return v, nil
}

func (s *vehicleService) ListCatalogue(ctx context.Context, filter domain.VehicleFilter) ([]domain.Vehicle, error) {
	if filter.Commune != "" && !contains(domain.Communes, filter.Commune) {
		return nil, invalidf("unknown commune %q", filter.Commune)
	}
	if filter.Category != "" && !contains(domain.VehicleCategories, filter.Category) {
		return nil, invalidf("unknown category %q", filter.Category)
	}
	if filter.MaxPrice < 0 {
		return nil, invalidf("max price must not be negative")
	}
	return s.vehicleRepo.ListAvailable(ctx, filter)
}

func (s *vehicleService) ListTop(ctx context.Context, n int) ([]domain.Vehicle, error) {
	if n <= 0 {
		n = defaultTopVehicles
	}
	return s.vehicleRepo.ListAvailable(ctx, domain.VehicleFilter{Limit: n})
}

func (s *vehicleService) ListByOwner(ctx context.Context, ownerID string) ([]domain.Vehicle, error) {
	return s.vehicleRepo.ListByOwner(ctx, ownerID)
}

func (s *vehicleService) ListReviews(ctx context.Context, id string) ([]domain.Review, error) {
	return s.reviewRepo.ListByVehicle(ctx, id)
}

// ToggleAvailability flips the host's listing switch. It does not touch bookings.
func (s *vehicleService) ToggleAvailability(ctx context.Context, sess *domain.Session, id string) (*domain.Vehicle, error) {
	v, err := s.ownedVehicle(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	v.IsAvailable = !v.IsAvailable
	if err := s.vehicleRepo.SetAvailability(ctx, id, v.IsAvailable); err != nil {
		return nil, fromRepo(err, "vehicle")
	}
	return v, nil
}

func (s *vehicleService) UpdateExactAddress(ctx context.Context, sess *domain.Session, id, address string) error {
	if _, err := s.ownedVehicle(ctx, sess, id); err != nil {
		return err
	}
	return fromRepo(s.vehicleRepo.UpdateExactAddress(ctx, id, strings.TrimSpace(address)), "vehicle")
}

func (s *vehicleService) DeleteVehicle(ctx context.Context, sess *domain.Session, id string) error {
	if _, err := s.ownedVehicle(ctx, sess, id); err != nil {
		return err
	}
	return s.vehicleRepo.Delete(ctx, id)
}

func (s *vehicleService) ownedVehicle(ctx context.Context, sess *domain.Session, id string) (*domain.Vehicle, error) {
	v, err := s.vehicleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err, "vehicle")
	}
	if v.OwnerID != sess.UID && !sess.IsAdmin() {
		return nil, fmt.Errorf("%w: not the owner of this vehicle", ErrForbidden)
	}
	return v, nil
}
