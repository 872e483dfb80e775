package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cargoexchange/internal/domain"
	"cargoexchange/internal/service"
)

// exchangeRecommendations are the fixed handover steps returned with an exchange point.
var exchangeRecommendations = []string{
	"Both parties meet at the exchange point",
	"Swap cargo containers/packages",
	"Continue to respective final destinations",
	"Coordinate timing for simultaneous arrival",
}

// RouteHandler handles HTTP requests for route costing and exchange points.
type RouteHandler struct {
	estimator *service.RouteCostEstimator
}

// NewRouteHandler creates a new RouteHandler.
func NewRouteHandler(estimator *service.RouteCostEstimator) *RouteHandler {
	return &RouteHandler{estimator: estimator}
}

// OptimizeRouteRequest is the HTTP request body for a route estimate.
type OptimizeRouteRequest struct {
	Origin            string              `json:"origin"`
	Destination       string              `json:"destination"`
	OriginCoords      *domain.Coordinates `json:"origin_coords,omitempty"`
	DestinationCoords *domain.Coordinates `json:"destination_coords,omitempty"`
	CargoWeight       float64             `json:"cargo_weight,omitempty"`
	VehicleType       string              `json:"vehicle_type,omitempty"`
	FuelEfficiency    float64             `json:"fuel_efficiency,omitempty"`
}

// OptimizeRouteResponse is the HTTP response for a route estimate.
type OptimizeRouteResponse struct {
	Route           string   `json:"route"`
	Distance        float64  `json:"distance"`
	EstimatedTime   string   `json:"estimated_time"`
	FuelCost        int      `json:"fuel_cost"`
	TollCost        int      `json:"toll_cost"`
	DriverCost      int      `json:"driver_cost"`
	TotalCost       int      `json:"total_cost"`
	Recommendations []string `json:"recommendations"`
}

// RouteInput is one route in an exchange-point request.
type RouteInput struct {
	Origin            string              `json:"origin"`
	Destination       string              `json:"destination"`
	OriginCoords      *domain.Coordinates `json:"origin_coords,omitempty"`
	DestinationCoords *domain.Coordinates `json:"destination_coords,omitempty"`
}

// ExchangePointRequest is the HTTP request body for an exchange-point lookup.
type ExchangePointRequest struct {
	Route1 *RouteInput `json:"route1"`
	Route2 *RouteInput `json:"route2"`
}

// ExchangePointResponse is the HTTP response for an exchange-point lookup.
type ExchangePointResponse struct {
	Route1          string              `json:"route1"`
	Route2          string              `json:"route2"`
	ExchangePoint   string              `json:"exchange_point"`
	Distance        int                 `json:"distance"`
	Coordinates     *domain.Coordinates `json:"coordinates"`
	Recommendations []string            `json:"recommendations"`
}

// Optimize handles POST /v1/routes/optimize
func (h *RouteHandler) Optimize(c *gin.Context) {
	var req OptimizeRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	estimate, err := h.estimator.Estimate(service.EstimateRequest{
		Origin:            req.Origin,
		Destination:       req.Destination,
		OriginCoords:      req.OriginCoords,
		DestinationCoords: req.DestinationCoords,
		CargoWeight:       req.CargoWeight,
		VehicleType:       req.VehicleType,
		FuelEfficiency:    req.FuelEfficiency,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, OptimizeRouteResponse{
		Route:           estimate.Route,
		Distance:        estimate.Distance,
		EstimatedTime:   estimate.EstimatedTime,
		FuelCost:        estimate.FuelCost,
		TollCost:        estimate.TollCost,
		DriverCost:      estimate.DriverCost,
		TotalCost:       estimate.TotalCost,
		Recommendations: estimate.Recommendations,
	})
}

// ExchangePoint handles POST /v1/routes/exchange-point
func (h *RouteHandler) ExchangePoint(c *gin.Context) {
	var req ExchangePointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	if req.Route1 == nil || req.Route2 == nil {
		respondError(c, service.ErrInvalidRoute)
		return
	}

	plan, err := service.PlanExchange(toEndpoints(req.Route1), toEndpoints(req.Route2))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, ExchangePointResponse{
		Route1:          plan.Route1,
		Route2:          plan.Route2,
		ExchangePoint:   plan.Exchange.ExchangePoint,
		Distance:        plan.Exchange.Distance,
		Coordinates:     plan.Exchange.Coordinates,
		Recommendations: exchangeRecommendations,
	})
}

func toEndpoints(r *RouteInput) service.RouteEndpoints {
	return service.RouteEndpoints{
		Origin:            r.Origin,
		Destination:       r.Destination,
		OriginCoords:      r.OriginCoords,
		DestinationCoords: r.DestinationCoords,
	}
}
