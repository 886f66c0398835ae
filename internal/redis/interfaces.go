package redis

import (
	"context"
	"time"
)

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	AcquireRecordLock(ctx context.Context, recordID string, ttl time.Duration) (bool, error)
	ReleaseRecordLock(ctx context.Context, recordID string) error
	AcquireSweepLock(ctx context.Context, ttl time.Duration) (bool, error)
	ReleaseSweepLock(ctx context.Context) error
}

// CacheStoreInterface defines the interface for entity caching.
type CacheStoreInterface interface {
	GetDriver(ctx context.Context, driverID string) (*CachedDriver, error)
	SetDriver(ctx context.Context, driver *CachedDriver) error
	InvalidateDriver(ctx context.Context, driverID string) error
	GetStats(ctx context.Context) ([]byte, error)
	SetStats(ctx context.Context, data []byte) error
}

// Ensure concrete types implement interfaces.
var (
	_ LockStoreInterface  = (*LockStore)(nil)
	_ CacheStoreInterface = (*CacheStore)(nil)
)
