package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"cargoexchange/internal/domain"
	"cargoexchange/internal/repository"
)

// CargoService handles cargo listing operations.
type CargoService struct {
	cargoRepo           repository.CargoRepository
	userRepo            repository.UserRepository
	matchingService     MatchingServiceInterface // Optional
	notificationService *NotificationService     // Optional
	maxListings         int
}

// NewCargoService creates a new CargoService.
func NewCargoService(
	cargoRepo repository.CargoRepository,
	userRepo repository.UserRepository,
	matchingService MatchingServiceInterface,
	notificationService *NotificationService,
	maxListings int,
) *CargoService {
	if maxListings <= 0 {
		maxListings = DefaultMaxListings
	}
	return &CargoService{
		cargoRepo:           cargoRepo,
		userRepo:            userRepo,
		matchingService:     matchingService,
		notificationService: notificationService,
		maxListings:         maxListings,
	}
}

// CreateListingRequest contains the parameters for posting a cargo listing.
type CreateListingRequest struct {
	UserID              string
	CargoType           domain.CargoType
	Origin              string
	Destination         string
	OriginCoords        *domain.Coordinates // Optional
	DestinationCoords   *domain.Coordinates // Optional
	Weight              float64
	Volume              float64 // Optional: defaults to 0
	SpecialRequirements string  // Optional
	Budget              float64
	PickupDate          time.Time
	DeliveryDate        time.Time
	Priority            domain.CargoPriority // Optional: defaults to medium
}

// CreateListing validates and stores a new active listing.
func (s *CargoService) CreateListing(ctx context.Context, req CreateListingRequest) (*domain.CargoListing, error) {
	if err := validateCreateListing(req); err != nil {
		return nil, err
	}

	priority := req.Priority
	if priority == "" {
		priority = domain.CargoPriorityMedium
	}

	var owner *domain.User
	if s.userRepo != nil {
		user, err := s.userRepo.GetByID(ctx, req.UserID)
		if err != nil {
			return nil, err
		}
		owner = user
	}

	now := time.Now()
	listing := &domain.CargoListing{
		ID:                  uuid.New().String(),
		UserID:              req.UserID,
		CargoType:           req.CargoType,
		Origin:              strings.TrimSpace(req.Origin),
		Destination:         strings.TrimSpace(req.Destination),
		OriginCoords:        req.OriginCoords,
		DestinationCoords:   req.DestinationCoords,
		Weight:              req.Weight,
		Volume:              req.Volume,
		SpecialRequirements: req.SpecialRequirements,
		Budget:              req.Budget,
		PickupDate:          req.PickupDate,
		DeliveryDate:        req.DeliveryDate,
		Status:              domain.CargoStatusActive,
		Priority:            priority,
		CreatedAt:           now,
		UpdatedAt:           now,
		Owner:               owner,
	}

	if err := s.cargoRepo.Create(ctx, listing); err != nil {
		return nil, err
	}

	if s.matchingService != nil {
		s.matchingService.InvalidateSummary(ctx)
	}

	if s.notificationService != nil {
		if err := s.notificationService.NotifyListingCreated(ctx, listing); err != nil {
			log.Printf("Failed to notify listing %s: %v", listing.ID, err)
		}
	}

	return listing, nil
}

// GetListing retrieves a listing by ID.
func (s *CargoService) GetListing(ctx context.Context, cargoID string) (*domain.CargoListing, error) {
	if cargoID == "" {
		return nil, ErrInvalidCargoID
	}
	return s.cargoRepo.GetByID(ctx, cargoID)
}

// ListActive returns the active listings, newest first.
func (s *CargoService) ListActive(ctx context.Context) ([]*domain.CargoListing, error) {
	return s.cargoRepo.ListByStatus(ctx, domain.CargoStatusActive, s.maxListings)
}

func validateCreateListing(req CreateListingRequest) error {
	if strings.TrimSpace(req.UserID) == "" {
		return ErrInvalidUserID
	}

	if !req.CargoType.Valid() {
		return ErrInvalidCargoType
	}

	if strings.TrimSpace(req.Origin) == "" {
		return ErrInvalidOrigin
	}

	if strings.TrimSpace(req.Destination) == "" {
		return ErrInvalidDestination
	}

	if req.OriginCoords != nil && !req.OriginCoords.Valid() {
		return ErrInvalidCoordinates
	}

	if req.DestinationCoords != nil && !req.DestinationCoords.Valid() {
		return ErrInvalidCoordinates
	}

	if req.Weight <= 0 {
		return ErrInvalidWeight
	}

	if req.Volume < 0 {
		return ErrInvalidVolume
	}

	if req.Budget <= 0 {
		return ErrInvalidBudget
	}

	if req.PickupDate.IsZero() || req.DeliveryDate.IsZero() || req.DeliveryDate.Before(req.PickupDate) {
		return ErrInvalidSchedule
	}

	if req.Priority != "" && !req.Priority.Valid() {
		return ErrInvalidPriority
	}

	return nil
}
