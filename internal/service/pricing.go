package service

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"cargoexchange/internal/domain"
)

const (
	defaultCargoWeightKg  = 1000.0
	defaultFuelEfficiency = 6.0 // km per litre
	defaultVehicleType    = "truck"
)

// CostRates contains the per-unit rates used for route cost estimates.
type CostRates struct {
	FuelPricePerLitre  float64 // currency per litre of diesel
	TollPerKm          float64
	DriverPerKm        float64
	AverageSpeedKmh    float64
	FallbackDistanceKm float64 // used when coordinates are missing
}

// DefaultCostRates returns the reference Indian road-freight rates.
func DefaultCostRates() CostRates {
	return CostRates{
		FuelPricePerLitre:  95,
		TollPerKm:          2.5,
		DriverPerKm:        8,
		AverageSpeedKmh:    50,
		FallbackDistanceKm: fallbackDistanceKm,
	}
}

// RouteCostEstimator estimates fuel, toll, driver cost and travel time for a route.
type RouteCostEstimator struct {
	rates CostRates
}

// NewRouteCostEstimator creates a new RouteCostEstimator.
// Non-positive fuel price, speed and fallback distance use the defaults, as
// do negative toll and driver rates. A zero toll or driver rate is kept.
func NewRouteCostEstimator(rates CostRates) *RouteCostEstimator {
	defaults := DefaultCostRates()
	if rates.FuelPricePerLitre <= 0 {
		rates.FuelPricePerLitre = defaults.FuelPricePerLitre
	}
	if rates.TollPerKm < 0 {
		rates.TollPerKm = defaults.TollPerKm
	}
	if rates.DriverPerKm < 0 {
		rates.DriverPerKm = defaults.DriverPerKm
	}
	if rates.AverageSpeedKmh <= 0 {
		rates.AverageSpeedKmh = defaults.AverageSpeedKmh
	}
	if rates.FallbackDistanceKm <= 0 {
		rates.FallbackDistanceKm = defaults.FallbackDistanceKm
	}
	return &RouteCostEstimator{rates: rates}
}

// EstimateRequest contains the parameters for a route cost estimate.
type EstimateRequest struct {
	Origin            string
	Destination       string
	OriginCoords      *domain.Coordinates // Optional
	DestinationCoords *domain.Coordinates // Optional
	CargoWeight       float64             // Optional: <= 0 uses 1000 kg
	VehicleType       string              // Optional: empty means truck
	FuelEfficiency    float64             // Optional: <= 0 uses 6 km/l
}

// Estimate computes the cost breakdown for a single route.
func (e *RouteCostEstimator) Estimate(req EstimateRequest) (*domain.RouteCostEstimate, error) {
	if strings.TrimSpace(req.Origin) == "" {
		return nil, ErrInvalidOrigin
	}
	if strings.TrimSpace(req.Destination) == "" {
		return nil, ErrInvalidDestination
	}

	weight := req.CargoWeight
	if weight <= 0 {
		weight = defaultCargoWeightKg
	}

	efficiency := req.FuelEfficiency
	if efficiency <= 0 {
		efficiency = defaultFuelEfficiency
	}

	vehicle := req.VehicleType
	if vehicle == "" {
		vehicle = defaultVehicleType
	}

	distance := e.rates.FallbackDistanceKm
	if req.OriginCoords != nil && req.DestinationCoords != nil {
		distance = straightLineKm(*req.OriginCoords, *req.DestinationCoords)
	}

	fuelCost := distance / efficiency * e.rates.FuelPricePerLitre
	tollCost := distance * e.rates.TollPerKm
	driverCost := distance * e.rates.DriverPerKm
	totalCost := fuelCost + tollCost + driverCost

	return &domain.RouteCostEstimate{
		Route:         domain.FormatRoute(req.Origin, req.Destination),
		Distance:      math.Round(distance*10) / 10,
		EstimatedTime: formatDuration(distance / e.rates.AverageSpeedKmh),
		FuelCost:      int(math.Round(fuelCost)),
		TollCost:      int(math.Round(tollCost)),
		DriverCost:    int(math.Round(driverCost)),
		TotalCost:     int(math.Round(totalCost)),
		Recommendations: []string{
			"Consider travel during off-peak hours to avoid traffic",
			"Plan fuel stops at competitive stations",
			"Check for alternate routes to avoid heavy traffic",
			fmt.Sprintf("Vehicle type '%s' is suitable for %skg cargo", vehicle, strconv.FormatFloat(weight, 'f', -1, 64)),
		},
	}, nil
}

// formatDuration renders fractional hours as "<h>h <m>m", truncating minutes.
func formatDuration(hours float64) string {
	whole := math.Floor(hours)
	minutes := math.Floor((hours - whole) * 60)
	return fmt.Sprintf("%dh %dm", int(whole), int(minutes))
}
