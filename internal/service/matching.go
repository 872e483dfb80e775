package service

import (
	"context"
	"errors"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"cargoexchange/internal/domain"
	"cargoexchange/internal/redis"
	"cargoexchange/internal/repository"
)

const (
	// DefaultMaxListings bounds the active-listing snapshot fed to the matcher.
	DefaultMaxListings = 1000

	listingLockTTL = 10 * time.Second
)

// MatchingServiceInterface defines the matching service contract.
// This interface allows for testing with mock implementations.
type MatchingServiceInterface interface {
	FindMatches(ctx context.Context) ([]*domain.MatchCandidate, error)
	CountMatches(ctx context.Context) (domain.MatchSummary, error)
	InvalidateSummary(ctx context.Context)
}

// Ensure MatchingService implements MatchingServiceInterface.
var _ MatchingServiceInterface = (*MatchingService)(nil)

// MatchingService runs the pair matcher over the current active listings
// and handles match acceptance.
type MatchingService struct {
	cargoRepo           repository.CargoRepository
	matchRepo           repository.MatchRepository
	matcher             *PairMatcher
	cacheStore          redis.SummaryCacheInterface // Optional
	lockStore           redis.LockStoreInterface    // Optional
	notificationService *NotificationService        // Optional
	maxListings         int
}

// NewMatchingService creates a new MatchingService.
func NewMatchingService(
	cargoRepo repository.CargoRepository,
	matchRepo repository.MatchRepository,
	matcher *PairMatcher,
	cacheStore redis.SummaryCacheInterface,
	lockStore redis.LockStoreInterface,
	notificationService *NotificationService,
	maxListings int,
) *MatchingService {
	if matcher == nil {
		matcher = NewPairMatcher(DefaultSavingsRate, DefaultCompatibilityScore)
	}
	if maxListings <= 0 {
		maxListings = DefaultMaxListings
	}
	return &MatchingService{
		cargoRepo:           cargoRepo,
		matchRepo:           matchRepo,
		matcher:             matcher,
		cacheStore:          cacheStore,
		lockStore:           lockStore,
		notificationService: notificationService,
		maxListings:         maxListings,
	}
}

// FindMatches fetches the active listings and returns every reverse-route pair.
// Listing errors are returned unchanged and no partial result is produced.
func (s *MatchingService) FindMatches(ctx context.Context) ([]*domain.MatchCandidate, error) {
	listings, err := s.activeListings(ctx)
	if err != nil {
		return nil, err
	}
	return s.matcher.FindMatches(listings), nil
}

// CountMatches returns the match summary, served from cache when available.
// A computed summary is only cached if no invalidation happened while it was
// being computed.
func (s *MatchingService) CountMatches(ctx context.Context) (domain.MatchSummary, error) {
	generation, cacheable := int64(0), false
	if s.cacheStore != nil {
		cached, err := s.cacheStore.GetMatchSummary(ctx)
		if err == nil && cached != nil {
			return domain.MatchSummary{
				MatchesFound: cached.MatchesFound,
				TotalCargo:   cached.TotalCargo,
			}, nil
		}

		generation, err = s.cacheStore.SummaryGeneration(ctx)
		if err != nil {
			log.Printf("Failed to read match summary generation: %v", err)
		} else {
			cacheable = true
		}
	}

	listings, err := s.activeListings(ctx)
	if err != nil {
		return domain.MatchSummary{}, err
	}

	summary := s.matcher.CountMatches(listings)

	if cacheable {
		stored, err := s.cacheStore.SetMatchSummary(ctx, generation, &redis.CachedMatchSummary{
			MatchesFound: summary.MatchesFound,
			TotalCargo:   summary.TotalCargo,
		})
		if err != nil {
			log.Printf("Failed to cache match summary: %v", err)
		} else if !stored {
			log.Printf("Match summary changed during count; not cached")
		}
	}

	return summary, nil
}

// InvalidateSummary drops the cached summary after listings change.
func (s *MatchingService) InvalidateSummary(ctx context.Context) {
	if s.cacheStore == nil {
		return
	}
	if err := s.cacheStore.InvalidateMatchSummary(ctx); err != nil {
		log.Printf("Failed to invalidate match summary: %v", err)
	}
}

// CounterpartsFor returns the active listings running opposite to the given one.
func (s *MatchingService) CounterpartsFor(ctx context.Context, cargoID string) ([]*domain.CargoListing, error) {
	if cargoID == "" {
		return nil, ErrInvalidCargoID
	}

	target, err := s.cargoRepo.GetByID(ctx, cargoID)
	if err != nil {
		return nil, err
	}

	listings, err := s.activeListings(ctx)
	if err != nil {
		return nil, err
	}

	return s.matcher.ReverseCounterparts(target, listings), nil
}

// GetMatch retrieves an accepted match by ID.
func (s *MatchingService) GetMatch(ctx context.Context, matchID string) (*domain.Match, error) {
	if strings.TrimSpace(matchID) == "" {
		return nil, ErrInvalidMatchID
	}
	return s.matchRepo.GetByID(ctx, matchID)
}

// AcceptMatchRequest contains the parameters for accepting a pair.
type AcceptMatchRequest struct {
	Listing1ID string
	Listing2ID string
}

// AcceptMatchResult contains the persisted match and the pairing it came from.
type AcceptMatchResult struct {
	Match     *domain.Match
	Candidate *domain.MatchCandidate
}

// AcceptMatch pairs two active reverse-route listings and marks both as matched.
// Both listings are locked for the duration so concurrent accepts cannot
// claim the same listing twice.
func (s *MatchingService) AcceptMatch(ctx context.Context, req AcceptMatchRequest) (*AcceptMatchResult, error) {
	id1 := strings.TrimSpace(req.Listing1ID)
	id2 := strings.TrimSpace(req.Listing2ID)
	if id1 == "" || id2 == "" {
		return nil, ErrInvalidCargoID
	}
	if id1 == id2 {
		return nil, ErrSameListing
	}

	// Lock in a fixed order so two accepts over overlapping pairs cannot deadlock.
	ids := []string{id1, id2}
	sort.Strings(ids)
	if s.lockStore != nil {
		for _, id := range ids {
			token, locked, err := s.lockStore.AcquireListingLock(ctx, id, listingLockTTL)
			if err != nil {
				return nil, err
			}
			if !locked {
				return nil, ErrMatchInProgress
			}
			defer s.releaseListingLock(ctx, id, token)
		}
	}

	first, err := s.cargoRepo.GetByID(ctx, id1)
	if err != nil {
		return nil, err
	}
	second, err := s.cargoRepo.GetByID(ctx, id2)
	if err != nil {
		return nil, err
	}

	if first.Status != domain.CargoStatusActive || second.Status != domain.CargoStatusActive {
		return nil, ErrListingNotActive
	}
	if !first.IsReverseOf(second) {
		return nil, ErrRoutesNotReverse
	}

	candidate := s.matcher.Candidate(first, second)
	candidate.Status = domain.MatchStatusAccepted

	match := &domain.Match{
		ID:                 uuid.New().String(),
		Listing1ID:         candidate.Listing1.ID,
		Listing2ID:         candidate.Listing2.ID,
		ExchangePoint:      candidate.ExchangePoint,
		CostSavings:        float64(candidate.CostSavings),
		CompatibilityScore: candidate.CompatibilityScore,
		Status:             domain.MatchStatusAccepted,
		CreatedAt:          time.Now(),
	}

	if err := s.matchRepo.Accept(ctx, match); err != nil {
		if errors.Is(err, repository.ErrUnexpectedStatus) {
			return nil, ErrListingNotActive
		}
		return nil, err
	}

	candidate.Listing1.Status = domain.CargoStatusMatched
	candidate.Listing2.Status = domain.CargoStatusMatched

	s.InvalidateSummary(ctx)

	if s.notificationService != nil {
		if err := s.notificationService.NotifyMatchAccepted(ctx, candidate); err != nil {
			log.Printf("Failed to notify match %s: %v", match.ID, err)
		}
	}

	return &AcceptMatchResult{
		Match:     match,
		Candidate: candidate,
	}, nil
}

// releaseListingLock frees the lock even after the request context is cancelled.
func (s *MatchingService) releaseListingLock(ctx context.Context, listingID, token string) {
	if err := s.lockStore.ReleaseListingLock(context.WithoutCancel(ctx), listingID, token); err != nil {
		log.Printf("Failed to release lock for cargo %s: %v", listingID, err)
	}
}

func (s *MatchingService) activeListings(ctx context.Context) ([]*domain.CargoListing, error) {
	return s.cargoRepo.ListByStatus(ctx, domain.CargoStatusActive, s.maxListings)
}
