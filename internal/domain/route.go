package domain

import (
	"strings"
)

// RouteSeparator joins origin and destination in route strings.
const RouteSeparator = " → "

// FormatRoute renders a route as "origin → destination".
func FormatRoute(origin, destination string) string {
	return origin + RouteSeparator + destination
}

// ParseRoute splits a string produced by FormatRoute back into its endpoints.
// It splits on the first separator, so origins must not contain " → ".
func ParseRoute(route string) (origin, destination string, ok bool) {
	origin, destination, ok = strings.Cut(route, RouteSeparator)
	return origin, destination, ok
}

// ExchangeInfo describes where two cargo owners should swap loads.
type ExchangeInfo struct {
	ExchangePoint string
	Distance      int          // km, rounded
	Coordinates   *Coordinates // nil when resolved from the static table
}

// RouteCostEstimate is the cost/time breakdown for moving cargo over one route.
type RouteCostEstimate struct {
	Route           string
	Distance        float64 // km, one decimal
	EstimatedTime   string
	FuelCost        int
	TollCost        int
	DriverCost      int
	TotalCost       int
	Recommendations []string
}
