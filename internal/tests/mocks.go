package tests

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"cargoexchange/internal/domain"
	"cargoexchange/internal/redis"
	"cargoexchange/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK CARGO REPOSITORY
// ──────────────────────────────────────────────

// MockCargoRepository is a mock implementation of CargoRepository.
type MockCargoRepository struct {
	mu       sync.RWMutex
	listings map[string]*domain.CargoListing

	// Counters for verification
	CreateCallCount       int32
	ListByStatusCallCount int32
	UpdateStatusCallCount int32

	// LastLimit is the limit passed to the latest ListByStatus call.
	LastLimit int

	// Error injection
	CreateError       error
	GetByIDError      error
	ListByStatusError error
}

// NewMockCargoRepository creates a new mock cargo repository.
func NewMockCargoRepository() *MockCargoRepository {
	return &MockCargoRepository{
		listings: make(map[string]*domain.CargoListing),
	}
}

// AddListing adds a listing to the mock repository.
func (m *MockCargoRepository) AddListing(listing *domain.CargoListing) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listings[listing.ID] = listing
}

func (m *MockCargoRepository) Create(ctx context.Context, listing *domain.CargoListing) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listings[listing.ID] = listing
	return nil
}

func (m *MockCargoRepository) GetByID(ctx context.Context, id string) (*domain.CargoListing, error) {
	if m.GetByIDError != nil {
		return nil, m.GetByIDError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	listing, ok := m.listings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *listing
	return &copy, nil
}

func (m *MockCargoRepository) ListByStatus(ctx context.Context, status domain.CargoStatus, limit int) ([]*domain.CargoListing, error) {
	atomic.AddInt32(&m.ListByStatusCallCount, 1)
	if m.ListByStatusError != nil {
		return nil, m.ListByStatusError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastLimit = limit
	result := make([]*domain.CargoListing, 0, len(m.listings))
	for _, l := range m.listings {
		if l.Status == status {
			copy := *l
			result = append(result, &copy)
		}
	}
	// Newest first, ties broken by ID, like the SQL ORDER BY.
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *MockCargoRepository) UpdateStatus(ctx context.Context, id string, from, to domain.CargoStatus) error {
	atomic.AddInt32(&m.UpdateStatusCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	listing, ok := m.listings[id]
	if !ok {
		return repository.ErrNotFound
	}
	if listing.Status != from {
		return repository.ErrUnexpectedStatus
	}
	listing.Status = to
	return nil
}

// GetListing returns listing for test assertions.
func (m *MockCargoRepository) GetListing(id string) *domain.CargoListing {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listings[id]
}

// ──────────────────────────────────────────────
// MOCK MATCH REPOSITORY
// ──────────────────────────────────────────────

// MockMatchRepository is a mock implementation of MatchRepository.
// Accept moves both listings in the linked cargo repository, rolling back
// the first when the second fails.
type MockMatchRepository struct {
	mu        sync.RWMutex
	matches   map[string]*domain.Match
	cargoRepo *MockCargoRepository

	// Counters
	AcceptCallCount int32

	// Error injection
	AcceptError error
}

// NewMockMatchRepository creates a new mock match repository.
func NewMockMatchRepository(cargoRepo *MockCargoRepository) *MockMatchRepository {
	return &MockMatchRepository{
		matches:   make(map[string]*domain.Match),
		cargoRepo: cargoRepo,
	}
}

func (m *MockMatchRepository) Accept(ctx context.Context, match *domain.Match) error {
	atomic.AddInt32(&m.AcceptCallCount, 1)
	if m.AcceptError != nil {
		return m.AcceptError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.matches {
		if existing.Listing1ID == match.Listing1ID && existing.Listing2ID == match.Listing2ID {
			return repository.ErrDuplicateMatch
		}
	}

	if m.cargoRepo != nil {
		if err := m.cargoRepo.UpdateStatus(ctx, match.Listing1ID, domain.CargoStatusActive, domain.CargoStatusMatched); err != nil {
			return err
		}
		if err := m.cargoRepo.UpdateStatus(ctx, match.Listing2ID, domain.CargoStatusActive, domain.CargoStatusMatched); err != nil {
			_ = m.cargoRepo.UpdateStatus(ctx, match.Listing1ID, domain.CargoStatusMatched, domain.CargoStatusActive)
			return err
		}
	}

	copy := *match
	m.matches[match.ID] = &copy
	return nil
}

func (m *MockMatchRepository) GetByID(ctx context.Context, id string) (*domain.Match, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	match, ok := m.matches[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *match
	return &copy, nil
}

// Count returns the number of stored matches.
func (m *MockMatchRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.matches)
}

// ──────────────────────────────────────────────
// MOCK USER REPOSITORY
// ──────────────────────────────────────────────

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	// Counters
	CreateCallCount int32

	// Error injection
	CreateError error
	GetAllError error
}

// NewMockUserRepository creates a new mock user repository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]*domain.User),
	}
}

// AddUser adds a user to the mock repository.
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *user
	return &copy, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			copy := *u
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *MockUserRepository) GetAll(ctx context.Context) ([]*domain.User, error) {
	if m.GetAllError != nil {
		return nil, m.GetAllError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.User, 0, len(m.users))
	for _, u := range m.users {
		copy := *u
		result = append(result, &copy)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// ──────────────────────────────────────────────
// MOCK SUMMARY CACHE
// ──────────────────────────────────────────────

// MockSummaryCache is a mock implementation of SummaryCacheInterface.
// Writes carrying an outdated generation are rejected like the Redis store does.
type MockSummaryCache struct {
	mu         sync.Mutex
	summary    *redis.CachedMatchSummary
	generation int64

	// Counters
	GetCallCount        int32
	SetCallCount        int32
	StaleSetCount       int32
	InvalidateCallCount int32

	// Error injection
	GetError        error
	SetError        error
	InvalidateError error
}

// NewMockSummaryCache creates a new mock summary cache.
func NewMockSummaryCache() *MockSummaryCache {
	return &MockSummaryCache{}
}

func (m *MockSummaryCache) GetMatchSummary(ctx context.Context) (*redis.CachedMatchSummary, error) {
	atomic.AddInt32(&m.GetCallCount, 1)
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.summary == nil {
		return nil, nil // Cache miss
	}
	copy := *m.summary
	return &copy, nil
}

func (m *MockSummaryCache) SummaryGeneration(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generation, nil
}

func (m *MockSummaryCache) SetMatchSummary(ctx context.Context, generation int64, summary *redis.CachedMatchSummary) (bool, error) {
	atomic.AddInt32(&m.SetCallCount, 1)
	if m.SetError != nil {
		return false, m.SetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if generation != m.generation {
		atomic.AddInt32(&m.StaleSetCount, 1)
		return false, nil
	}
	copy := *summary
	m.summary = &copy
	return true, nil
}

func (m *MockSummaryCache) InvalidateMatchSummary(ctx context.Context) error {
	atomic.AddInt32(&m.InvalidateCallCount, 1)
	if m.InvalidateError != nil {
		return m.InvalidateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generation++
	m.summary = nil
	return nil
}

// Seed stores a summary directly (for test setup).
func (m *MockSummaryCache) Seed(summary *redis.CachedMatchSummary) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *summary
	m.summary = &copy
}

// Cached returns the stored summary (for test assertions).
func (m *MockSummaryCache) Cached() *redis.CachedMatchSummary {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.summary
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

type mockLock struct {
	token  string
	expiry time.Time
}

// MockLockStore is a mock implementation of LockStore.
// Release only removes a lock still owned by the given token, and fails
// like a Redis call would when its context is already cancelled.
type MockLockStore struct {
	mu     sync.Mutex
	locks  map[string]mockLock
	tokens int

	// Counters
	AcquireCallCount int32
	ReleaseCallCount int32

	// Acquired records listing IDs in acquisition order.
	Acquired []string

	// Error injection
	AcquireError error
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{
		locks: make(map[string]mockLock),
	}
}

func (m *MockLockStore) AcquireListingLock(ctx context.Context, listingID string, ttl time.Duration) (string, bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return "", false, m.AcquireError
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	key := "lock:cargo:" + listingID
	if lock, exists := m.locks[key]; exists && time.Now().Before(lock.expiry) {
		return "", false, nil // Lock still held.
	}

	m.tokens++
	token := fmt.Sprintf("token-%d", m.tokens)
	m.locks[key] = mockLock{token: token, expiry: time.Now().Add(ttl)}
	m.Acquired = append(m.Acquired, listingID)
	return token, true, nil
}

func (m *MockLockStore) ReleaseListingLock(ctx context.Context, listingID, token string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := "lock:cargo:" + listingID
	if lock, exists := m.locks[key]; exists && lock.token == token {
		delete(m.locks, key)
	}
	return nil
}

// Hold locks a listing as if another request owned it and returns its token.
func (m *MockLockStore) Hold(listingID string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens++
	token := fmt.Sprintf("held-%d", m.tokens)
	m.locks["lock:cargo:"+listingID] = mockLock{token: token, expiry: time.Now().Add(time.Minute)}
	return token
}

// IsLocked checks if a listing is locked (for test assertions).
func (m *MockLockStore) IsLocked(listingID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	lock, exists := m.locks["lock:cargo:"+listingID]
	return exists && time.Now().Before(lock.expiry)
}

// Ensure mocks implement the interfaces the services depend on.
var (
	_ repository.CargoRepository  = (*MockCargoRepository)(nil)
	_ repository.MatchRepository  = (*MockMatchRepository)(nil)
	_ repository.UserRepository   = (*MockUserRepository)(nil)
	_ redis.SummaryCacheInterface = (*MockSummaryCache)(nil)
	_ redis.LockStoreInterface    = (*MockLockStore)(nil)
)

// ──────────────────────────────────────────────
// HELPER ERRORS
// ──────────────────────────────────────────────

var (
	ErrMockDBConstraint = errors.New("mock: unique constraint violation")
	ErrMockTimeout      = errors.New("mock: operation timeout")
)
