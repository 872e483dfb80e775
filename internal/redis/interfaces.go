package redis

import (
	"context"
	"time"
)

// SummaryCacheInterface defines the interface for match-summary caching.
type SummaryCacheInterface interface {
	GetMatchSummary(ctx context.Context) (*CachedMatchSummary, error)
	SummaryGeneration(ctx context.Context) (int64, error)
	SetMatchSummary(ctx context.Context, generation int64, summary *CachedMatchSummary) (bool, error)
	InvalidateMatchSummary(ctx context.Context) error
}

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	AcquireListingLock(ctx context.Context, listingID string, ttl time.Duration) (token string, acquired bool, err error)
	ReleaseListingLock(ctx context.Context, listingID, token string) error
}

// Ensure concrete types implement interfaces.
var (
	_ SummaryCacheInterface = (*CacheStore)(nil)
	_ LockStoreInterface    = (*LockStore)(nil)
)
