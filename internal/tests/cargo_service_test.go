package tests

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cargoexchange/internal/domain"
	internalRedis "cargoexchange/internal/redis"
	"cargoexchange/internal/repository"
	"cargoexchange/internal/service"
)

func newCargoFixture() (*service.CargoService, *MockCargoRepository, *MockSummaryCache) {
	cargoRepo := NewMockCargoRepository()
	userRepo := NewMockUserRepository()
	userRepo.AddUser(&domain.User{ID: "user-1", Name: "Asha Logistics", Email: "ops@asha.example"})
	cache := NewMockSummaryCache()

	matchingService := service.NewMatchingService(
		cargoRepo, NewMockMatchRepository(cargoRepo), nil, cache, NewMockLockStore(), nil, 0,
	)
	cargoService := service.NewCargoService(cargoRepo, userRepo, matchingService, service.NewNotificationService(), 0)
	return cargoService, cargoRepo, cache
}

func validCreateRequest() service.CreateListingRequest {
	return service.CreateListingRequest{
		UserID:       "user-1",
		CargoType:    domain.CargoTypeTextiles,
		Origin:       "Surat",
		Destination:  "Kolkata",
		Weight:       1200,
		Budget:       45000,
		PickupDate:   baseTime,
		DeliveryDate: baseTime.Add(96 * time.Hour),
	}
}

func TestCreateListing_ValidInput_AppliesDefaults(t *testing.T) {
	t.Parallel()

	cargoService, cargoRepo, _ := newCargoFixture()

	listing, err := cargoService.CreateListing(context.Background(), validCreateRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, listing.ID)
	assert.Equal(t, domain.CargoStatusActive, listing.Status)
	assert.Equal(t, domain.CargoPriorityMedium, listing.Priority)
	assert.Equal(t, 0.0, listing.Volume)
	assert.False(t, listing.CreatedAt.IsZero())
	require.NotNil(t, listing.Owner)
	assert.Equal(t, "Asha Logistics", listing.Owner.Name)
	assert.Equal(t, int32(1), cargoRepo.CreateCallCount)
	assert.NotNil(t, cargoRepo.GetListing(listing.ID))
}

func TestCreateListing_TrimsEndpoints(t *testing.T) {
	t.Parallel()

	cargoService, _, _ := newCargoFixture()
	req := validCreateRequest()
	req.Origin = "  Surat "
	req.Destination = "Kolkata\t"

	listing, err := cargoService.CreateListing(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "Surat → Kolkata", listing.Route())
}

func TestCreateListing_InvalidatesSummary(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cargoService, _, cache := newCargoFixture()
	cache.Seed(&internalRedis.CachedMatchSummary{MatchesFound: 3, TotalCargo: 8})

	_, err := cargoService.CreateListing(ctx, validCreateRequest())
	require.NoError(t, err)

	assert.Nil(t, cache.Cached())
	assert.Equal(t, int32(1), cache.InvalidateCallCount)
}

func TestCreateListing_Validation(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		mutate  func(*service.CreateListingRequest)
		wantErr error
	}{
		{"missing user", func(r *service.CreateListingRequest) { r.UserID = "" }, service.ErrInvalidUserID},
		{"unknown cargo type", func(r *service.CreateListingRequest) { r.CargoType = "livestock" }, service.ErrInvalidCargoType},
		{"blank origin", func(r *service.CreateListingRequest) { r.Origin = " " }, service.ErrInvalidOrigin},
		{"missing destination", func(r *service.CreateListingRequest) { r.Destination = "" }, service.ErrInvalidDestination},
		{"latitude out of range", func(r *service.CreateListingRequest) {
			r.OriginCoords = &domain.Coordinates{Lat: -91, Lng: 10}
		}, service.ErrInvalidCoordinates},
		{"longitude out of range", func(r *service.CreateListingRequest) {
			r.DestinationCoords = &domain.Coordinates{Lat: 10, Lng: 181}
		}, service.ErrInvalidCoordinates},
		{"zero weight", func(r *service.CreateListingRequest) { r.Weight = 0 }, service.ErrInvalidWeight},
		{"negative volume", func(r *service.CreateListingRequest) { r.Volume = -1 }, service.ErrInvalidVolume},
		{"zero budget", func(r *service.CreateListingRequest) { r.Budget = 0 }, service.ErrInvalidBudget},
		{"missing pickup", func(r *service.CreateListingRequest) { r.PickupDate = time.Time{} }, service.ErrInvalidSchedule},
		{"delivery before pickup", func(r *service.CreateListingRequest) {
			r.DeliveryDate = r.PickupDate.Add(-time.Hour)
		}, service.ErrInvalidSchedule},
		{"unknown priority", func(r *service.CreateListingRequest) { r.Priority = "asap" }, service.ErrInvalidPriority},
		{"unknown owner", func(r *service.CreateListingRequest) { r.UserID = "user-404" }, repository.ErrNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cargoService, cargoRepo, _ := newCargoFixture()
			req := validCreateRequest()
			tc.mutate(&req)

			listing, err := cargoService.CreateListing(context.Background(), req)

			assert.ErrorIs(t, err, tc.wantErr)
			assert.Nil(t, listing)
			assert.Equal(t, int32(0), cargoRepo.CreateCallCount)
		})
	}
}

func TestCreateListing_BoundaryValuesAccepted(t *testing.T) {
	t.Parallel()

	cargoService, _, _ := newCargoFixture()
	req := validCreateRequest()
	req.OriginCoords = &domain.Coordinates{Lat: -90, Lng: -180}
	req.DestinationCoords = &domain.Coordinates{Lat: 90, Lng: 180}
	req.DeliveryDate = req.PickupDate
	req.Priority = domain.CargoPriorityUrgent

	listing, err := cargoService.CreateListing(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, domain.CargoPriorityUrgent, listing.Priority)
}

func TestCreateListing_RepositoryErrorPropagates(t *testing.T) {
	t.Parallel()

	cargoService, cargoRepo, cache := newCargoFixture()
	cargoRepo.CreateError = ErrMockDBConstraint

	_, err := cargoService.CreateListing(context.Background(), validCreateRequest())

	assert.ErrorIs(t, err, ErrMockDBConstraint)
	assert.Equal(t, int32(0), cache.InvalidateCallCount)
}

func TestGetListing(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cargoService, cargoRepo, _ := newCargoFixture()
	cargoRepo.AddListing(newListing("cargo-a", "Mumbai", "Delhi", 10000, 1))

	listing, err := cargoService.GetListing(ctx, "cargo-a")
	require.NoError(t, err)
	assert.Equal(t, "Mumbai → Delhi", listing.Route())

	_, err = cargoService.GetListing(ctx, "cargo-x")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = cargoService.GetListing(ctx, "")
	assert.ErrorIs(t, err, service.ErrInvalidCargoID)
}

func TestListActive_NewestFirst(t *testing.T) {
	t.Parallel()

	cargoService, cargoRepo, _ := newCargoFixture()
	cargoRepo.AddListing(newListing("cargo-a", "A", "B", 100, 1))
	cargoRepo.AddListing(newListing("cargo-b", "B", "A", 100, 2))
	matched := newListing("cargo-c", "C", "D", 100, 3)
	matched.Status = domain.CargoStatusMatched
	cargoRepo.AddListing(matched)

	listings, err := cargoService.ListActive(context.Background())
	require.NoError(t, err)

	require.Len(t, listings, 2)
	assert.Equal(t, "cargo-b", listings[0].ID)
	assert.Equal(t, "cargo-a", listings[1].ID)
}
