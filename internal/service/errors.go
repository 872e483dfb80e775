package service

import "errors"

var (
	// ErrInvalidOrigin is returned when a route has no origin.
	ErrInvalidOrigin = errors.New("origin is required")

	// ErrInvalidDestination is returned when a route has no destination.
	ErrInvalidDestination = errors.New("destination is required")

	// ErrInvalidRoute is returned when an exchange-point request is missing a route endpoint.
	ErrInvalidRoute = errors.New("both routes must have origin and destination")

	// ErrInvalidCoordinates is returned when coordinates fall outside lat/lng ranges.
	ErrInvalidCoordinates = errors.New("invalid coordinates")

	// ErrInvalidUserID is returned when the owning user ID is empty.
	ErrInvalidUserID = errors.New("invalid user id")

	// ErrInvalidCargoID is returned when a listing ID is empty.
	ErrInvalidCargoID = errors.New("invalid cargo id")

	// ErrInvalidMatchID is returned when a match ID is empty.
	ErrInvalidMatchID = errors.New("invalid match id")

	// ErrInvalidCargoType is returned when the cargo category is not recognised.
	ErrInvalidCargoType = errors.New("invalid cargo type")

	// ErrInvalidPriority is returned when the priority is not recognised.
	ErrInvalidPriority = errors.New("invalid priority")

	// ErrInvalidWeight is returned when weight is not positive.
	ErrInvalidWeight = errors.New("weight must be positive")

	// ErrInvalidVolume is returned when volume is negative.
	ErrInvalidVolume = errors.New("volume must not be negative")

	// ErrInvalidBudget is returned when budget is not positive.
	ErrInvalidBudget = errors.New("budget must be positive")

	// ErrInvalidSchedule is returned when dates are missing or delivery precedes pickup.
	ErrInvalidSchedule = errors.New("invalid pickup or delivery date")

	// ErrSameListing is returned when a match is requested between a listing and itself.
	ErrSameListing = errors.New("a listing cannot be matched with itself")

	// ErrRoutesNotReverse is returned when two listings do not run opposite to each other.
	ErrRoutesNotReverse = errors.New("listings are not reverse routes")

	// ErrListingNotActive is returned when a listing is not eligible for matching.
	ErrListingNotActive = errors.New("cargo listing is not active")

	// ErrMatchInProgress is returned when another acceptance holds one of the listings.
	ErrMatchInProgress = errors.New("match acceptance already in progress for this listing")
)
