package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultSummaryTTL bounds how stale a cached match summary may be.
const DefaultSummaryTTL = 15 * time.Second

const (
	matchSummaryKey           = "cache:matches:summary"
	matchSummaryGenerationKey = "cache:matches:generation"
)

// CachedMatchSummary represents a cached countMatches result.
type CachedMatchSummary struct {
	MatchesFound int `json:"matches_found"`
	TotalCargo   int `json:"total_cargo"`
}

// CacheStore handles derived-data caching in Redis.
type CacheStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCacheStore creates a new CacheStore. A non-positive ttl uses DefaultSummaryTTL.
func NewCacheStore(client *redis.Client, ttl time.Duration) *CacheStore {
	if ttl <= 0 {
		ttl = DefaultSummaryTTL
	}
	return &CacheStore{client: client, ttl: ttl}
}

// GetMatchSummary retrieves the cached summary. It returns nil, nil on a miss.
func (s *CacheStore) GetMatchSummary(ctx context.Context) (*CachedMatchSummary, error) {
	data, err := s.client.Get(ctx, matchSummaryKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var summary CachedMatchSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// SummaryGeneration returns the current summary generation. Read it before
// loading the listings a summary is computed from and pass it to
// SetMatchSummary.
func (s *CacheStore) SummaryGeneration(ctx context.Context) (int64, error) {
	generation, err := s.client.Get(ctx, matchSummaryGenerationKey).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return generation, err
}

// SetMatchSummary stores the summary for the configured TTL, but only while
// the generation is unchanged. It reports false when an invalidation happened
// after the generation was read, in which case nothing is written.
func (s *CacheStore) SetMatchSummary(ctx context.Context, generation int64, summary *CachedMatchSummary) (bool, error) {
	data, err := json.Marshal(summary)
	if err != nil {
		return false, err
	}

	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, matchSummaryGenerationKey).Int64()
		if err != nil && err != redis.Nil {
			return err
		}
		if current != generation {
			return redis.TxFailedErr
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, matchSummaryKey, data, s.ttl)
			return nil
		})
		return err
	}, matchSummaryGenerationKey)

	if err == redis.TxFailedErr {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// InvalidateMatchSummary bumps the generation and drops the cached summary
// after listings change.
func (s *CacheStore) InvalidateMatchSummary(ctx context.Context) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, matchSummaryGenerationKey)
		pipe.Del(ctx, matchSummaryKey)
		return nil
	})
	return err
}
