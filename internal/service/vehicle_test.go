package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"wotro-backend/internal/domain"
	"wotro-backend/internal/repository"
	"wotro-backend/internal/service"
)

func validVehicle() *domain.Vehicle {
	return &domain.Vehicle{
		Name:     "Prado",
		Brand:    "Toyota",
		Price:    45000,
		Location: "Cocody",
		Category: "Suv/4x4",
		Image:    "https://cdn/1.jpg",
		Gallery:  []string{"a", "b", "c", "d", "e"},
	}
}

func TestVehicleService_AddVehicle(t *testing.T) {
	ctx := context.Background()
	host := &domain.Session{UID: "host-1", Role: domain.UserRoleHost}

	t.Run("Success", func(t *testing.T) {
		vehicles := new(MockVehicleRepo)
		svc := service.NewVehicleService(vehicles, new(MockUserRepo), new(MockReviewRepo))
		vehicles.On("Create", ctx, mock.AnythingOfType("*domain.Vehicle")).Return(nil)

		v := validVehicle()
		require.NoError(t, svc.AddVehicle(ctx, host, v))
		assert.Equal(t, "host-1", v.OwnerID)
		assert.True(t, v.IsAvailable)
		assert.True(t, v.IsValidated)
		assert.Equal(t, int64(domain.DefaultPriorityScore), v.PriorityScore)
		assert.Zero(t, v.ReviewCount)
	})

	t.Run("Client Refused", func(t *testing.T) {
		svc := service.NewVehicleService(new(MockVehicleRepo), new(MockUserRepo), new(MockReviewRepo))
		err := svc.AddVehicle(ctx, &domain.Session{UID: "c", Role: domain.UserRoleClient}, validVehicle())
		assert.ErrorIs(t, err, service.ErrForbidden)
	})

	cases := map[string]func(v *domain.Vehicle){
		"Missing Name":     func(v *domain.Vehicle) { v.Name = " " },
		"Missing Brand":    func(v *domain.Vehicle) { v.Brand = "" },
		"Zero Price":       func(v *domain.Vehicle) { v.Price = 0 },
		"Missing Image":    func(v *domain.Vehicle) { v.Image = "" },
		"Short Gallery":    func(v *domain.Vehicle) { v.Gallery = v.Gallery[:4] },
		"Unknown Commune":  func(v *domain.Vehicle) { v.Location = "Paris" },
		"Unknown Category": func(v *domain.Vehicle) { v.Category = "Tank" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			svc := service.NewVehicleService(new(MockVehicleRepo), new(MockUserRepo), new(MockReviewRepo))
			v := validVehicle()
			mutate(v)
			assert.ErrorIs(t, svc.AddVehicle(ctx, host, v), service.ErrInvalidInput)
		})
	}
}

func TestVehicleService_GetVehicle(t *testing.T) {
	ctx := context.Background()
	vehicles := new(MockVehicleRepo)
	users := new(MockUserRepo)
	svc := service.NewVehicleService(vehicles, users, new(MockReviewRepo))

	vehicles.On("GetByID", ctx, "car-1").Return(&domain.Vehicle{ID: "car-1", OwnerID: "host-1"}, nil)
	vehicles.On("GetByID", ctx, "car-2").Return(&domain.Vehicle{ID: "car-2", OwnerID: "ghost"}, nil)
	vehicles.On("GetByID", ctx, "nope").Return(nil, repository.ErrNotFound)
	users.On("GetByID", ctx, "host-1").Return(&domain.User{FullName: "Kofi", PhotoURL: "https://cdn/k.jpg"}, nil)
	users.On("GetByID", ctx, "ghost").Return(nil, repository.ErrNotFound)

	v, err := svc.GetVehicle(ctx, "car-1")
	require.NoError(t, err)
	assert.Equal(t, "Kofi", v.OwnerName)
	assert.Equal(t, "https://cdn/k.jpg", v.OwnerPhoto)

	v, err = svc.GetVehicle(ctx, "car-2")
	require.NoError(t, err)
	assert.Equal(t, "Hôte Wotro", v.OwnerName)

	_, err = svc.GetVehicle(ctx, "nope")
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestVehicleService_Catalogue(t *testing.T) {
	ctx := context.Background()
	vehicles := new(MockVehicleRepo)
	svc := service.NewVehicleService(vehicles, new(MockUserRepo), new(MockReviewRepo))

	filter := domain.VehicleFilter{Commune: "Marcory", Category: "Berline", MaxPrice: 30000}
	vehicles.On("ListAvailable", ctx, filter).Return([]domain.Vehicle{{ID: "car-1"}}, nil)
	vehicles.On("ListAvailable", ctx, domain.VehicleFilter{Limit: 3}).Return([]domain.Vehicle{{ID: "a"}, {ID: "b"}, {ID: "c"}}, nil)

	list, err := svc.ListCatalogue(ctx, filter)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	top, err := svc.ListTop(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, top, 3)

	_, err = svc.ListCatalogue(ctx, domain.VehicleFilter{Commune: "Lyon"})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
	_, err = svc.ListCatalogue(ctx, domain.VehicleFilter{MaxPrice: -1})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestVehicleService_OwnerActions(t *testing.T) {
	ctx := context.Background()
	owner := &domain.Session{UID: "host-1", Role: domain.UserRoleHost}
	stranger := &domain.Session{UID: "host-2", Role: domain.UserRoleHost}

	vehicles := new(MockVehicleRepo)
	svc := service.NewVehicleService(vehicles, new(MockUserRepo), new(MockReviewRepo))
	vehicles.On("GetByID", ctx, "car-1").Return(&domain.Vehicle{ID: "car-1", OwnerID: "host-1", IsAvailable: true}, nil)
	vehicles.On("SetAvailability", ctx, "car-1", false).Return(nil)
	vehicles.On("UpdateExactAddress", ctx, "car-1", "Rue des Jardins, Cocody").Return(nil)
	vehicles.On("Delete", ctx, "car-1").Return(nil)

	v, err := svc.ToggleAvailability(ctx, owner, "car-1")
	require.NoError(t, err)
	assert.False(t, v.IsAvailable)

	require.NoError(t, svc.UpdateExactAddress(ctx, owner, "car-1", " Rue des Jardins, Cocody "))
	require.NoError(t, svc.DeleteVehicle(ctx, owner, "car-1"))

	_, err = svc.ToggleAvailability(ctx, stranger, "car-1")
	assert.ErrorIs(t, err, service.ErrForbidden)
	assert.ErrorIs(t, svc.DeleteVehicle(ctx, stranger, "car-1"), service.ErrForbidden)
}
