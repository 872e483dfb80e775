package repository

import (
	"context"

	"cargoexchange/internal/domain"
)

// CargoRepository defines the persistence operations for cargo listings.
type CargoRepository interface {
	// Create persists a new listing.
	Create(ctx context.Context, listing *domain.CargoListing) error

	// GetByID retrieves a listing by ID, including its owner summary.
	GetByID(ctx context.Context, id string) (*domain.CargoListing, error)

	// ListByStatus retrieves listings with the given status, newest first.
	// At most limit rows are returned; limit <= 0 means no limit.
	ListByStatus(ctx context.Context, status domain.CargoStatus, limit int) ([]*domain.CargoListing, error)

	// UpdateStatus moves a listing from one status to another.
	// Returns ErrUnexpectedStatus when the listing is not in the from state.
	UpdateStatus(ctx context.Context, id string, from, to domain.CargoStatus) error
}
