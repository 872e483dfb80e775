package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseListingLockScript deletes the lock only while it still carries the
// caller's token, so an expired holder cannot drop a lock taken after it.
var releaseListingLockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// LockStore handles distributed locking in Redis.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

// AcquireListingLock attempts to lock a cargo listing while a match is accepted.
// On success it returns the token that ReleaseListingLock needs; acquired is
// false if the lock is already held.
func (s *LockStore) AcquireListingLock(ctx context.Context, listingID string, ttl time.Duration) (string, bool, error) {
	token := uuid.New().String()
	acquired, err := s.client.SetNX(ctx, listingLockKey(listingID), token, ttl).Result()
	if err != nil || !acquired {
		return "", false, err
	}
	return token, true, nil
}

// ReleaseListingLock releases the lock for the given listing if token still owns it.
func (s *LockStore) ReleaseListingLock(ctx context.Context, listingID, token string) error {
	return releaseListingLockScript.Run(ctx, s.client, []string{listingLockKey(listingID)}, token).Err()
}

func listingLockKey(listingID string) string {
	return fmt.Sprintf("lock:cargo:%s", listingID)
}
