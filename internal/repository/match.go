package repository

import (
	"context"

	"cargoexchange/internal/domain"
)

// MatchRepository defines the persistence operations for accepted matches.
type MatchRepository interface {
	// Accept stores the match and moves both listings to matched atomically.
	// Returns ErrUnexpectedStatus if either listing is no longer active.
	Accept(ctx context.Context, match *domain.Match) error

	// GetByID retrieves a match by ID.
	GetByID(ctx context.Context, id string) (*domain.Match, error)
}
