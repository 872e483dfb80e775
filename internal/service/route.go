package service

import (
	"strings"

	"cargoexchange/internal/domain"
)

// RouteEndpoints is one side of a two-route exchange request.
type RouteEndpoints struct {
	Origin            string
	Destination       string
	OriginCoords      *domain.Coordinates // Optional
	DestinationCoords *domain.Coordinates // Optional
}

// ExchangePlan is the exchange point proposed for two routes.
type ExchangePlan struct {
	Exchange domain.ExchangeInfo
	Route1   string
	Route2   string
}

// PlanExchange proposes where the carriers of two routes swap loads.
// The point is derived from route1 only; route2 is validated and echoed back.
func PlanExchange(route1, route2 RouteEndpoints) (*ExchangePlan, error) {
	for _, r := range []RouteEndpoints{route1, route2} {
		if strings.TrimSpace(r.Origin) == "" || strings.TrimSpace(r.Destination) == "" {
			return nil, ErrInvalidRoute
		}
		if r.OriginCoords != nil && !r.OriginCoords.Valid() {
			return nil, ErrInvalidCoordinates
		}
		if r.DestinationCoords != nil && !r.DestinationCoords.Valid() {
			return nil, ErrInvalidCoordinates
		}
	}

	return &ExchangePlan{
		Exchange: ComputeExchange(route1.OriginCoords, route1.DestinationCoords, route1.Origin, route1.Destination),
		Route1:   domain.FormatRoute(route1.Origin, route1.Destination),
		Route2:   domain.FormatRoute(route2.Origin, route2.Destination),
	}, nil
}
