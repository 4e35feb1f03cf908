package service

import (
	"context"

	"wotro-backend/internal/domain"
	"wotro-backend/internal/repository"
)

const recentBookingsShown = 5

type statsService struct {
	userRepo    repository.UserRepository
	vehicleRepo repository.VehicleRepository
	bookingRepo repository.BookingRepository
}

func NewStatsService(userRepo repository.UserRepository, vehicleRepo repository.VehicleRepository, bookingRepo repository.BookingRepository) StatsService {
	return &statsService{userRepo: userRepo, vehicleRepo: vehicleRepo, bookingRepo: bookingRepo}
}

func (s *statsService) PlatformStats(ctx context.Context) (*domain.PlatformStats, error) {
	clients, err := s.userRepo.CountByRole(ctx, domain.UserRoleClient)
	if err != nil {
		return nil, err
	}
	hosts, err := s.userRepo.CountByRole(ctx, domain.UserRoleHost, domain.UserRoleAdmin)
	if err != nil {
		return nil, err
	}
	cars, err := s.vehicleRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	confirmed, err := s.bookingRepo.ListByStatus(ctx, domain.BookingStatusConfirmed)
	if err != nil {
		return nil, err
	}
	recent, err := s.bookingRepo.ListRecent(ctx, recentBookingsShown)
	if err != nil {
		return nil, err
	}

	stats := &domain.PlatformStats{
		Clients:        clients,
		Hosts:          hosts,
		TotalCars:      cars,
		RecentBookings: recent,
	}
	for _, b := range confirmed {
		stats.TotalRevenue += b.TotalPrice
	}
	return stats, nil
}
