package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"cargoexchange/internal/domain"
	"cargoexchange/internal/repository"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique constraint failures.
const uniqueViolation = "23505"

// MatchRepository is a PostgreSQL implementation of repository.MatchRepository.
type MatchRepository struct {
	db *sql.DB
}

// NewMatchRepository creates a new PostgreSQL match repository.
func NewMatchRepository(db *sql.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

// Accept inserts the match and marks both listings as matched in one transaction.
func (r *MatchRepository) Accept(ctx context.Context, match *domain.Match) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	txCargoRepo := NewCargoRepositoryWithTx(tx)

	for _, id := range []string{match.Listing1ID, match.Listing2ID} {
		if err = txCargoRepo.UpdateStatus(ctx, id, domain.CargoStatusActive, domain.CargoStatusMatched); err != nil {
			return err
		}
	}

	query := `
		INSERT INTO matches (id, cargo1_id, cargo2_id, exchange_point, cost_savings, compatibility_score, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = tx.ExecContext(ctx, query,
		match.ID,
		match.Listing1ID,
		match.Listing2ID,
		match.ExchangePoint,
		match.CostSavings,
		match.CompatibilityScore,
		match.Status,
		match.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			err = repository.ErrDuplicateMatch
		}
		return err
	}

	err = tx.Commit()
	return err
}

// GetByID retrieves a match by ID.
func (r *MatchRepository) GetByID(ctx context.Context, id string) (*domain.Match, error) {
	query := `
		SELECT id, cargo1_id, cargo2_id, COALESCE(exchange_point, ''), COALESCE(cost_savings, 0), compatibility_score, status, created_at
		FROM matches WHERE id = $1
	`

	var match domain.Match
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&match.ID,
		&match.Listing1ID,
		&match.Listing2ID,
		&match.ExchangePoint,
		&match.CostSavings,
		&match.CompatibilityScore,
		&match.Status,
		&match.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &match, nil
}
