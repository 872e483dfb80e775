package tests

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cargoexchange/internal/service"
)

func TestEstimate_NoCoordinates_UsesFallbackDistance(t *testing.T) {
	t.Parallel()

	estimator := service.NewRouteCostEstimator(service.DefaultCostRates())

	estimate, err := estimator.Estimate(service.EstimateRequest{
		Origin:      "Mumbai",
		Destination: "Delhi",
	})
	require.NoError(t, err)

	assert.Equal(t, "Mumbai → Delhi", estimate.Route)
	assert.Equal(t, 500.0, estimate.Distance)
	assert.Equal(t, "10h 0m", estimate.EstimatedTime)
	assert.Equal(t, 7917, estimate.FuelCost)
	assert.Equal(t, 1250, estimate.TollCost)
	assert.Equal(t, 4000, estimate.DriverCost)
	assert.Equal(t, 13167, estimate.TotalCost)
	assert.Equal(t, []string{
		"Consider travel during off-peak hours to avoid traffic",
		"Plan fuel stops at competitive stations",
		"Check for alternate routes to avoid heavy traffic",
		"Vehicle type 'truck' is suitable for 1000kg cargo",
	}, estimate.Recommendations)
}

func TestEstimate_WithCoordinates(t *testing.T) {
	t.Parallel()

	estimator := service.NewRouteCostEstimator(service.DefaultCostRates())

	estimate, err := estimator.Estimate(service.EstimateRequest{
		Origin:            "Mumbai",
		Destination:       "Delhi",
		OriginCoords:      mumbai,
		DestinationCoords: delhi,
	})
	require.NoError(t, err)

	assert.Equal(t, 1167.1, estimate.Distance)
	assert.Equal(t, "23h 20m", estimate.EstimatedTime)
	assert.Equal(t, 18479, estimate.FuelCost)
	assert.Equal(t, 2918, estimate.TollCost)
	assert.Equal(t, 9337, estimate.DriverCost)
	assert.Equal(t, 30733, estimate.TotalCost)
}

func TestEstimate_CustomInputs(t *testing.T) {
	t.Parallel()

	estimator := service.NewRouteCostEstimator(service.DefaultCostRates())

	estimate, err := estimator.Estimate(service.EstimateRequest{
		Origin:            "A",
		Destination:       "B",
		OriginCoords:      originPt,
		DestinationCoords: threeFour,
		CargoWeight:       2500.5,
		VehicleType:       "trailer",
		FuelEfficiency:    5,
	})
	require.NoError(t, err)

	assert.Equal(t, 555.0, estimate.Distance)
	assert.Equal(t, 10545, estimate.FuelCost)
	assert.Equal(t, 1388, estimate.TollCost) // 1387.5 rounds half away from zero
	assert.Equal(t, 4440, estimate.DriverCost)
	assert.Equal(t, 16373, estimate.TotalCost)
	// 11.1h: the fractional part is just under 0.1, so minutes truncate to 5.
	assert.Equal(t, "11h 5m", estimate.EstimatedTime)
	assert.Equal(t, "Vehicle type 'trailer' is suitable for 2500.5kg cargo", estimate.Recommendations[3])
}

func TestEstimate_NonPositiveInputs_UseDefaults(t *testing.T) {
	t.Parallel()

	estimator := service.NewRouteCostEstimator(service.DefaultCostRates())

	estimate, err := estimator.Estimate(service.EstimateRequest{
		Origin:         "Mumbai",
		Destination:    "Delhi",
		CargoWeight:    -10,
		FuelEfficiency: 0,
	})
	require.NoError(t, err)

	assert.Equal(t, 7917, estimate.FuelCost)
	assert.Equal(t, "Vehicle type 'truck' is suitable for 1000kg cargo", estimate.Recommendations[3])
}

func TestEstimate_MissingEndpoints_Fails(t *testing.T) {
	t.Parallel()

	estimator := service.NewRouteCostEstimator(service.DefaultCostRates())

	testCases := []struct {
		name    string
		req     service.EstimateRequest
		wantErr error
	}{
		{"empty origin", service.EstimateRequest{Destination: "Delhi"}, service.ErrInvalidOrigin},
		{"blank origin", service.EstimateRequest{Origin: "   ", Destination: "Delhi"}, service.ErrInvalidOrigin},
		{"empty destination", service.EstimateRequest{Origin: "Mumbai"}, service.ErrInvalidDestination},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			estimate, err := estimator.Estimate(tc.req)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Nil(t, estimate)
		})
	}
}

func TestEstimate_IsDeterministic(t *testing.T) {
	t.Parallel()

	estimator := service.NewRouteCostEstimator(service.DefaultCostRates())
	req := service.EstimateRequest{
		Origin:            "Mumbai",
		Destination:       "Delhi",
		OriginCoords:      mumbai,
		DestinationCoords: delhi,
	}

	first, err := estimator.Estimate(req)
	require.NoError(t, err)
	second, err := estimator.Estimate(req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestNewRouteCostEstimator_ConfiguredRates(t *testing.T) {
	t.Parallel()

	estimator := service.NewRouteCostEstimator(service.CostRates{
		FuelPricePerLitre:  100,
		TollPerKm:          0,
		DriverPerKm:        10,
		AverageSpeedKmh:    40,
		FallbackDistanceKm: 400,
	})

	estimate, err := estimator.Estimate(service.EstimateRequest{
		Origin:         "X",
		Destination:    "Y",
		FuelEfficiency: 4,
	})
	require.NoError(t, err)

	assert.Equal(t, 400.0, estimate.Distance)
	assert.Equal(t, 10000, estimate.FuelCost)
	assert.Equal(t, 0, estimate.TollCost)
	assert.Equal(t, 4000, estimate.DriverCost)
	assert.Equal(t, 14000, estimate.TotalCost)
	assert.Equal(t, "10h 0m", estimate.EstimatedTime)
}

func TestNewRouteCostEstimator_ZeroRates_UseDefaults(t *testing.T) {
	t.Parallel()

	estimator := service.NewRouteCostEstimator(service.CostRates{})

	estimate, err := estimator.Estimate(service.EstimateRequest{Origin: "Mumbai", Destination: "Delhi"})
	require.NoError(t, err)

	// Fuel, speed and fallback distance fall back; zero toll and driver rates are kept.
	assert.Equal(t, 500.0, estimate.Distance)
	assert.Equal(t, 7917, estimate.FuelCost)
	assert.Equal(t, 0, estimate.TollCost)
	assert.Equal(t, 0, estimate.DriverCost)
	assert.Equal(t, "10h 0m", estimate.EstimatedTime)
}
