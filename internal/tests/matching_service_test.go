package tests

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cargoexchange/internal/domain"
	internalRedis "cargoexchange/internal/redis"
	"cargoexchange/internal/repository"
	"cargoexchange/internal/service"
)

type matchingFixture struct {
	cargoRepo *MockCargoRepository
	matchRepo *MockMatchRepository
	cache     *MockSummaryCache
	locks     *MockLockStore
	service   *service.MatchingService
}

func newMatchingFixture(maxListings int) *matchingFixture {
	cargoRepo := NewMockCargoRepository()
	matchRepo := NewMockMatchRepository(cargoRepo)
	cache := NewMockSummaryCache()
	locks := NewMockLockStore()

	return &matchingFixture{
		cargoRepo: cargoRepo,
		matchRepo: matchRepo,
		cache:     cache,
		locks:     locks,
		service: service.NewMatchingService(
			cargoRepo, matchRepo, newMatcher(), cache, locks, service.NewNotificationService(), maxListings,
		),
	}
}

func (f *matchingFixture) addPair() (*domain.CargoListing, *domain.CargoListing) {
	a := newListing("cargo-a", "Mumbai", "Delhi", 10000, 1)
	b := newListing("cargo-b", "Delhi", "Mumbai", 20000, 2)
	f.cargoRepo.AddListing(a)
	f.cargoRepo.AddListing(b)
	return a, b
}

// ──────────────────────────────────────────────
// 1. FIND AND COUNT
// ──────────────────────────────────────────────

func TestMatchingService_FindMatches(t *testing.T) {
	t.Parallel()

	f := newMatchingFixture(0)
	f.addPair()
	f.cargoRepo.AddListing(newListing("cargo-c", "Pune", "Nagpur", 5000, 3))

	matches, err := f.service.FindMatches(context.Background())
	require.NoError(t, err)

	require.Len(t, matches, 1)
	assert.Equal(t, "cargo-a", matches[0].Listing1.ID)
	assert.Equal(t, 4500, matches[0].CostSavings)
	assert.Equal(t, service.DefaultMaxListings, f.cargoRepo.LastLimit)
}

func TestMatchingService_FindMatches_PropagatesUpstreamError(t *testing.T) {
	t.Parallel()

	f := newMatchingFixture(0)
	f.cargoRepo.ListByStatusError = ErrMockTimeout

	matches, err := f.service.FindMatches(context.Background())

	assert.ErrorIs(t, err, ErrMockTimeout)
	assert.Nil(t, matches)
}

func TestMatchingService_FindMatches_BoundsSnapshot(t *testing.T) {
	t.Parallel()

	f := newMatchingFixture(1)
	f.addPair()

	matches, err := f.service.FindMatches(context.Background())
	require.NoError(t, err)

	assert.Empty(t, matches)
	assert.Equal(t, 1, f.cargoRepo.LastLimit)
}

func TestMatchingService_CountMatches_CachesSummary(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newMatchingFixture(0)
	f.addPair()

	summary, err := f.service.CountMatches(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.MatchSummary{MatchesFound: 1, TotalCargo: 2}, summary)
	assert.Equal(t, &internalRedis.CachedMatchSummary{MatchesFound: 1, TotalCargo: 2}, f.cache.Cached())

	// Second call is served from cache.
	summary, err = f.service.CountMatches(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.MatchSummary{MatchesFound: 1, TotalCargo: 2}, summary)
	assert.Equal(t, int32(1), f.cargoRepo.ListByStatusCallCount)
}

func TestMatchingService_CountMatches_CacheFailureFallsBackToRepository(t *testing.T) {
	t.Parallel()

	f := newMatchingFixture(0)
	f.addPair()
	f.cache.GetError = ErrMockTimeout
	f.cache.SetError = ErrMockTimeout

	summary, err := f.service.CountMatches(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.MatchesFound)
	assert.Equal(t, int32(1), f.cargoRepo.ListByStatusCallCount)
}

func TestMatchingService_CountMatches_ErrorIsNotCached(t *testing.T) {
	t.Parallel()

	f := newMatchingFixture(0)
	f.cargoRepo.ListByStatusError = ErrMockTimeout

	_, err := f.service.CountMatches(context.Background())

	assert.ErrorIs(t, err, ErrMockTimeout)
	assert.Nil(t, f.cache.Cached())
	assert.Equal(t, int32(0), f.cache.SetCallCount)
}

// changingCargoRepository adds a listing and invalidates the summary right
// after the first snapshot is read, as a concurrent CreateListing would.
type changingCargoRepository struct {
	*MockCargoRepository
	once    sync.Once
	added   *domain.CargoListing
	service *service.MatchingService
}

func (r *changingCargoRepository) ListByStatus(ctx context.Context, status domain.CargoStatus, limit int) ([]*domain.CargoListing, error) {
	listings, err := r.MockCargoRepository.ListByStatus(ctx, status, limit)
	r.once.Do(func() {
		r.MockCargoRepository.AddListing(r.added)
		r.service.InvalidateSummary(ctx)
	})
	return listings, err
}

func TestMatchingService_CountMatches_ListingChangeDuringCountIsNotCached(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	cargoRepo := &changingCargoRepository{
		MockCargoRepository: NewMockCargoRepository(),
		added:               newListing("cargo-b", "Delhi", "Mumbai", 20000, 2),
	}
	cargoRepo.AddListing(newListing("cargo-a", "Mumbai", "Delhi", 10000, 1))
	cache := NewMockSummaryCache()
	svc := service.NewMatchingService(cargoRepo, NewMockMatchRepository(cargoRepo.MockCargoRepository), newMatcher(), cache, nil, nil, 0)
	cargoRepo.service = svc

	// The first count sees the snapshot taken before the new listing landed.
	summary, err := svc.CountMatches(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.MatchesFound)
	assert.Nil(t, cache.Cached())
	assert.Equal(t, int32(1), cache.StaleSetCount)

	summary, err = svc.CountMatches(ctx)
	require.NoError(t, err)
	matches, err := svc.FindMatches(ctx)
	require.NoError(t, err)

	assert.Equal(t, len(matches), summary.MatchesFound)
	assert.Equal(t, 1, summary.MatchesFound)
	assert.Equal(t, &internalRedis.CachedMatchSummary{MatchesFound: 1, TotalCargo: 2}, cache.Cached())
}

func TestMatchingService_WithoutCache(t *testing.T) {
	t.Parallel()

	cargoRepo := NewMockCargoRepository()
	cargoRepo.AddListing(newListing("cargo-a", "A", "B", 100, 1))
	svc := service.NewMatchingService(cargoRepo, NewMockMatchRepository(cargoRepo), nil, nil, nil, nil, 0)

	summary, err := svc.CountMatches(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.MatchSummary{MatchesFound: 0, TotalCargo: 1}, summary)

	svc.InvalidateSummary(context.Background())
}

func TestMatchingService_CounterpartsFor(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newMatchingFixture(0)
	f.addPair()

	counterparts, err := f.service.CounterpartsFor(ctx, "cargo-a")
	require.NoError(t, err)
	require.Len(t, counterparts, 1)
	assert.Equal(t, "cargo-b", counterparts[0].ID)

	_, err = f.service.CounterpartsFor(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = f.service.CounterpartsFor(ctx, "")
	assert.ErrorIs(t, err, service.ErrInvalidCargoID)
}

// ──────────────────────────────────────────────
// 2. ACCEPTANCE
// ──────────────────────────────────────────────

func TestMatchingService_AcceptMatch_Succeeds(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newMatchingFixture(0)
	f.addPair()
	f.cache.Seed(&internalRedis.CachedMatchSummary{MatchesFound: 1, TotalCargo: 2})

	// Request order is reversed; the match still records the smaller ID first.
	result, err := f.service.AcceptMatch(ctx, service.AcceptMatchRequest{
		Listing1ID: "cargo-b",
		Listing2ID: "cargo-a",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, result.Match.ID)
	assert.Equal(t, "cargo-a", result.Match.Listing1ID)
	assert.Equal(t, "cargo-b", result.Match.Listing2ID)
	assert.Equal(t, domain.MatchStatusAccepted, result.Match.Status)
	assert.Equal(t, 4500.0, result.Match.CostSavings)
	assert.Equal(t, "Udaipur (Rajasthan)", result.Match.ExchangePoint)
	assert.Equal(t, domain.MatchStatusAccepted, result.Candidate.Status)

	assert.Equal(t, domain.CargoStatusMatched, f.cargoRepo.GetListing("cargo-a").Status)
	assert.Equal(t, domain.CargoStatusMatched, f.cargoRepo.GetListing("cargo-b").Status)
	assert.Equal(t, 1, f.matchRepo.Count())

	// Summary cache was invalidated and locks were taken in ID order and released.
	assert.Nil(t, f.cache.Cached())
	assert.Equal(t, []string{"cargo-a", "cargo-b"}, f.locks.Acquired)
	assert.False(t, f.locks.IsLocked("cargo-a"))
	assert.False(t, f.locks.IsLocked("cargo-b"))

	// The pair no longer shows up.
	matches, err := f.service.FindMatches(ctx)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestMatchingService_AcceptMatch_Validation(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		req     service.AcceptMatchRequest
		wantErr error
	}{
		{"missing first id", service.AcceptMatchRequest{Listing2ID: "cargo-b"}, service.ErrInvalidCargoID},
		{"blank second id", service.AcceptMatchRequest{Listing1ID: "cargo-a", Listing2ID: " "}, service.ErrInvalidCargoID},
		{"same listing", service.AcceptMatchRequest{Listing1ID: "cargo-a", Listing2ID: "cargo-a"}, service.ErrSameListing},
		{"unknown listing", service.AcceptMatchRequest{Listing1ID: "cargo-a", Listing2ID: "cargo-x"}, repository.ErrNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newMatchingFixture(0)
			f.addPair()

			_, err := f.service.AcceptMatch(context.Background(), tc.req)

			assert.ErrorIs(t, err, tc.wantErr)
			assert.Equal(t, int32(0), f.matchRepo.AcceptCallCount)
		})
	}
}

func TestMatchingService_AcceptMatch_RoutesNotReverse(t *testing.T) {
	t.Parallel()

	f := newMatchingFixture(0)
	f.addPair()
	f.cargoRepo.AddListing(newListing("cargo-c", "Mumbai", "Delhi", 1000, 3))

	_, err := f.service.AcceptMatch(context.Background(), service.AcceptMatchRequest{
		Listing1ID: "cargo-a",
		Listing2ID: "cargo-c",
	})

	assert.ErrorIs(t, err, service.ErrRoutesNotReverse)
	assert.Equal(t, domain.CargoStatusActive, f.cargoRepo.GetListing("cargo-a").Status)
}

func TestMatchingService_AcceptMatch_ListingNotActive(t *testing.T) {
	t.Parallel()

	f := newMatchingFixture(0)
	_, b := f.addPair()
	b.Status = domain.CargoStatusInTransit

	_, err := f.service.AcceptMatch(context.Background(), service.AcceptMatchRequest{
		Listing1ID: "cargo-a",
		Listing2ID: "cargo-b",
	})

	assert.ErrorIs(t, err, service.ErrListingNotActive)
	assert.Equal(t, int32(0), f.matchRepo.AcceptCallCount)
}

func TestMatchingService_AcceptMatch_LostRaceInRepository(t *testing.T) {
	t.Parallel()

	f := newMatchingFixture(0)
	f.addPair()
	f.matchRepo.AcceptError = repository.ErrUnexpectedStatus

	_, err := f.service.AcceptMatch(context.Background(), service.AcceptMatchRequest{
		Listing1ID: "cargo-a",
		Listing2ID: "cargo-b",
	})

	assert.ErrorIs(t, err, service.ErrListingNotActive)
}

func TestMatchingService_AcceptMatch_RepositoryErrorPropagates(t *testing.T) {
	t.Parallel()

	f := newMatchingFixture(0)
	f.addPair()
	f.matchRepo.AcceptError = ErrMockDBConstraint

	_, err := f.service.AcceptMatch(context.Background(), service.AcceptMatchRequest{
		Listing1ID: "cargo-a",
		Listing2ID: "cargo-b",
	})

	assert.ErrorIs(t, err, ErrMockDBConstraint)
	assert.False(t, f.locks.IsLocked("cargo-a"))
}

func TestMatchingService_AcceptMatch_LockHeld(t *testing.T) {
	t.Parallel()

	f := newMatchingFixture(0)
	f.addPair()
	f.locks.Hold("cargo-b")

	_, err := f.service.AcceptMatch(context.Background(), service.AcceptMatchRequest{
		Listing1ID: "cargo-a",
		Listing2ID: "cargo-b",
	})

	assert.ErrorIs(t, err, service.ErrMatchInProgress)
	assert.Equal(t, int32(0), f.matchRepo.AcceptCallCount)
	// The lock taken before the conflict is released.
	assert.False(t, f.locks.IsLocked("cargo-a"))
	assert.True(t, f.locks.IsLocked("cargo-b"))
}

func TestMatchingService_AcceptMatch_LockStoreError(t *testing.T) {
	t.Parallel()

	f := newMatchingFixture(0)
	f.addPair()
	f.locks.AcquireError = ErrMockTimeout

	_, err := f.service.AcceptMatch(context.Background(), service.AcceptMatchRequest{
		Listing1ID: "cargo-a",
		Listing2ID: "cargo-b",
	})

	assert.ErrorIs(t, err, ErrMockTimeout)
}

func TestMatchingService_AcceptMatch_ReleasesLocksAfterCancel(t *testing.T) {
	t.Parallel()

	f := newMatchingFixture(0)
	f.addPair()
	ctx, cancel := context.WithCancel(context.Background())

	// The mocks ignore cancellation, so the accept completes and the
	// cancelled context only reaches the deferred release.
	cancel()
	_, err := f.service.AcceptMatch(ctx, service.AcceptMatchRequest{
		Listing1ID: "cargo-a",
		Listing2ID: "cargo-b",
	})
	require.NoError(t, err)

	assert.Equal(t, int32(2), f.locks.ReleaseCallCount)
	assert.False(t, f.locks.IsLocked("cargo-a"))
	assert.False(t, f.locks.IsLocked("cargo-b"))
}

func TestMatchingService_GetMatch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newMatchingFixture(0)
	f.addPair()

	result, err := f.service.AcceptMatch(ctx, service.AcceptMatchRequest{
		Listing1ID: "cargo-a",
		Listing2ID: "cargo-b",
	})
	require.NoError(t, err)

	match, err := f.service.GetMatch(ctx, result.Match.ID)
	require.NoError(t, err)
	assert.Equal(t, result.Match.ID, match.ID)
	assert.Equal(t, "cargo-a", match.Listing1ID)
	assert.Equal(t, domain.MatchStatusAccepted, match.Status)

	_, err = f.service.GetMatch(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = f.service.GetMatch(ctx, " ")
	assert.ErrorIs(t, err, service.ErrInvalidMatchID)
}

func TestMatchingService_AcceptMatch_ConcurrentClaims(t *testing.T) {
	t.Parallel()

	f := newMatchingFixture(0)
	f.addPair()
	f.cargoRepo.AddListing(newListing("cargo-c", "Delhi", "Mumbai", 15000, 3))

	// cargo-a can pair with either b or c, but only one acceptance may win.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, partner := range []string{"cargo-b", "cargo-c"} {
		wg.Add(1)
		go func(i int, partner string) {
			defer wg.Done()
			_, errs[i] = f.service.AcceptMatch(context.Background(), service.AcceptMatchRequest{
				Listing1ID: "cargo-a",
				Listing2ID: partner,
			})
		}(i, partner)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t,
			errors.Is(err, service.ErrMatchInProgress) || errors.Is(err, service.ErrListingNotActive),
			"unexpected error: %v", err)
	}

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, f.matchRepo.Count())
}
