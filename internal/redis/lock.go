package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LockStore handles distributed locking in Redis. It serializes webhook
// processing for a single record: the provider may redeliver a notification
// while a prior delivery is still in flight.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

// AcquireRecordLock attempts to acquire a processing lock for the given
// record. Returns true if the lock was acquired, false if already held.
func (s *LockStore) AcquireRecordLock(ctx context.Context, recordID string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("lock:webhook:%s", recordID)

	ok, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// ReleaseRecordLock releases the processing lock for the given record.
func (s *LockStore) ReleaseRecordLock(ctx context.Context, recordID string) error {
	key := fmt.Sprintf("lock:webhook:%s", recordID)

	return s.client.Del(ctx, key).Err()
}

// AcquireSweepLock attempts to acquire the global batch sweep lock so only
// one sweep runs at a time across instances.
func (s *LockStore) AcquireSweepLock(ctx context.Context, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, "lock:batch_sweep", "1", ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// ReleaseSweepLock releases the global batch sweep lock.
func (s *LockStore) ReleaseSweepLock(ctx context.Context) error {
	return s.client.Del(ctx, "lock:batch_sweep").Err()
}
