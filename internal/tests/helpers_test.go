package tests

import (
	"time"

	"cargoexchange/internal/domain"
)

var baseTime = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

var (
	mumbai    = &domain.Coordinates{Lat: 19.0760, Lng: 72.8777}
	delhi     = &domain.Coordinates{Lat: 28.7041, Lng: 77.1025}
	originPt  = &domain.Coordinates{Lat: 0, Lng: 0}
	threeFour = &domain.Coordinates{Lat: 3, Lng: 4}
)

// newListing builds an active listing created minutesAfter baseTime.
func newListing(id, origin, destination string, budget float64, minutesAfter int) *domain.CargoListing {
	created := baseTime.Add(time.Duration(minutesAfter) * time.Minute)
	return &domain.CargoListing{
		ID:           id,
		UserID:       "user-" + id,
		CargoType:    domain.CargoTypeElectronics,
		Origin:       origin,
		Destination:  destination,
		Weight:       500,
		Budget:       budget,
		PickupDate:   baseTime.Add(24 * time.Hour),
		DeliveryDate: baseTime.Add(72 * time.Hour),
		Status:       domain.CargoStatusActive,
		Priority:     domain.CargoPriorityMedium,
		CreatedAt:    created,
		UpdatedAt:    created,
		Owner: &domain.User{
			ID:    "user-" + id,
			Name:  "Shipper " + id,
			Email: id + "@example.com",
		},
	}
}

func withCoords(l *domain.CargoListing, origin, destination *domain.Coordinates) *domain.CargoListing {
	l.OriginCoords = origin
	l.DestinationCoords = destination
	return l
}
