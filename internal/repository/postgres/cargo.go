package postgres

import (
	"context"
	"database/sql"
	"errors"

	"cargoexchange/internal/domain"
	"cargoexchange/internal/repository"
)

// CargoRepository is a PostgreSQL implementation of repository.CargoRepository.
type CargoRepository struct {
	q Querier
}

// NewCargoRepository creates a new PostgreSQL cargo repository.
func NewCargoRepository(db *sql.DB) *CargoRepository {
	return &CargoRepository{q: db}
}

// NewCargoRepositoryWithTx creates a cargo repository using a transaction.
func NewCargoRepositoryWithTx(tx *sql.Tx) *CargoRepository {
	return &CargoRepository{q: tx}
}

const cargoColumns = `
	c.id, c.user_id, c.cargo_type, c.origin, c.destination,
	c.origin_lat, c.origin_lng, c.destination_lat, c.destination_lng,
	c.weight, c.volume, COALESCE(c.special_requirements, ''), c.budget,
	c.pickup_date, c.delivery_date, c.status, c.priority, c.created_at, c.updated_at,
	COALESCE(u.name, ''), COALESCE(u.email, ''), COALESCE(u.phone, ''), COALESCE(u.company, '')
`

// Create persists a new listing.
func (r *CargoRepository) Create(ctx context.Context, listing *domain.CargoListing) error {
	query := `
		INSERT INTO cargo (id, user_id, cargo_type, origin, destination, origin_lat, origin_lng, destination_lat, destination_lng, weight, volume, special_requirements, budget, pickup_date, delivery_date, status, priority, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`

	originLat, originLng := nullCoords(listing.OriginCoords)
	destLat, destLng := nullCoords(listing.DestinationCoords)

	_, err := r.q.ExecContext(ctx, query,
		listing.ID,
		listing.UserID,
		listing.CargoType,
		listing.Origin,
		listing.Destination,
		originLat,
		originLng,
		destLat,
		destLng,
		listing.Weight,
		listing.Volume,
		listing.SpecialRequirements,
		listing.Budget,
		listing.PickupDate,
		listing.DeliveryDate,
		listing.Status,
		listing.Priority,
		listing.CreatedAt,
		listing.UpdatedAt,
	)

	return err
}

// GetByID retrieves a listing by ID.
func (r *CargoRepository) GetByID(ctx context.Context, id string) (*domain.CargoListing, error) {
	query := `SELECT ` + cargoColumns + `
		FROM cargo c LEFT JOIN users u ON u.id = c.user_id
		WHERE c.id = $1
	`

	listing, err := scanListing(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return listing, nil
}

// ListByStatus retrieves listings with the given status, newest first.
func (r *CargoRepository) ListByStatus(ctx context.Context, status domain.CargoStatus, limit int) ([]*domain.CargoListing, error) {
	query := `SELECT ` + cargoColumns + `
		FROM cargo c LEFT JOIN users u ON u.id = c.user_id
		WHERE c.status = $1
		ORDER BY c.created_at DESC, c.id
	`
	args := []any{status}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []*domain.CargoListing
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, listing)
	}
	return listings, rows.Err()
}

// UpdateStatus moves a listing from one status to another.
func (r *CargoRepository) UpdateStatus(ctx context.Context, id string, from, to domain.CargoStatus) error {
	query := `UPDATE cargo SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`

	result, err := r.q.ExecContext(ctx, query, to, id, from)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		// Distinguish a missing row from one in another state.
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return repository.ErrUnexpectedStatus
	}

	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanListing(row rowScanner) (*domain.CargoListing, error) {
	var listing domain.CargoListing
	var originLat, originLng, destLat, destLng sql.NullFloat64
	var owner domain.User

	err := row.Scan(
		&listing.ID,
		&listing.UserID,
		&listing.CargoType,
		&listing.Origin,
		&listing.Destination,
		&originLat,
		&originLng,
		&destLat,
		&destLng,
		&listing.Weight,
		&listing.Volume,
		&listing.SpecialRequirements,
		&listing.Budget,
		&listing.PickupDate,
		&listing.DeliveryDate,
		&listing.Status,
		&listing.Priority,
		&listing.CreatedAt,
		&listing.UpdatedAt,
		&owner.Name,
		&owner.Email,
		&owner.Phone,
		&owner.Company,
	)
	if err != nil {
		return nil, err
	}

	listing.OriginCoords = coordsFromNull(originLat, originLng)
	listing.DestinationCoords = coordsFromNull(destLat, destLng)

	owner.ID = listing.UserID
	listing.Owner = &owner

	return &listing, nil
}

func nullCoords(c *domain.Coordinates) (sql.NullFloat64, sql.NullFloat64) {
	if c == nil {
		return sql.NullFloat64{}, sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: c.Lat, Valid: true}, sql.NullFloat64{Float64: c.Lng, Valid: true}
}

// coordsFromNull returns nil unless both halves of the pair are set.
func coordsFromNull(lat, lng sql.NullFloat64) *domain.Coordinates {
	if !lat.Valid || !lng.Valid {
		return nil
	}
	return &domain.Coordinates{Lat: lat.Float64, Lng: lng.Float64}
}
