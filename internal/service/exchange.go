package service

import (
	"fmt"
	"math"

	"cargoexchange/internal/domain"
)

const (
	// kmPerDegree approximates one degree of lat/lng in km across India.
	kmPerDegree = 111.0

	// fallbackDistanceKm is reported when no coordinates are available.
	fallbackDistanceKm = 500
)

// knownExchangePoints maps "origin-destination" to an established swap town.
// Both directions are listed as separate keys.
var knownExchangePoints = map[string]string{
	"Mumbai-Delhi":      "Udaipur (Rajasthan)",
	"Delhi-Mumbai":      "Udaipur (Rajasthan)",
	"Pune-Nagpur":       "Aurangabad (Maharashtra)",
	"Nagpur-Pune":       "Aurangabad (Maharashtra)",
	"Bangalore-Chennai": "Hosur (Tamil Nadu)",
	"Chennai-Bangalore": "Hosur (Tamil Nadu)",
}

// ComputeExchange proposes the point where two reverse-route loads are swapped.
// With both coordinate pairs it returns the midpoint and straight-line
// distance; otherwise it falls back to the static city-pair table.
func ComputeExchange(originCoords, destCoords *domain.Coordinates, origin, destination string) domain.ExchangeInfo {
	if originCoords != nil && destCoords != nil {
		mid := domain.Coordinates{
			Lat: (originCoords.Lat + destCoords.Lat) / 2,
			Lng: (originCoords.Lng + destCoords.Lng) / 2,
		}
		return domain.ExchangeInfo{
			ExchangePoint: fmt.Sprintf("Midpoint: %.2f°N, %.2f°E", mid.Lat, mid.Lng),
			Distance:      int(math.Round(straightLineKm(*originCoords, *destCoords))),
			Coordinates:   &mid,
		}
	}

	label, ok := knownExchangePoints[origin+"-"+destination]
	if !ok {
		label = fmt.Sprintf("Midpoint between %s and %s", origin, destination)
	}

	return domain.ExchangeInfo{
		ExchangePoint: label,
		Distance:      fallbackDistanceKm,
	}
}

// straightLineKm is the Euclidean distance in degree space scaled to km.
// It ignores Earth curvature and the shrinking of longitude degrees.
func straightLineKm(a, b domain.Coordinates) float64 {
	dLat := b.Lat - a.Lat
	dLng := b.Lng - a.Lng
	return math.Sqrt(dLat*dLat+dLng*dLng) * kmPerDegree
}
