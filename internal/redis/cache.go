package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheStore handles entity caching in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// Cache TTL constants
const (
	// DriverCacheTTL covers the public driver card served on the pay page.
	// Balances are excluded from the cached shape, so a longer TTL is safe.
	DriverCacheTTL = 5 * time.Minute
	StatsCacheTTL  = 15 * time.Second
)

// Key prefixes
const (
	driverCachePrefix = "cache:driver:"
	statsCacheKey     = "cache:admin_stats"
)

// CachedDriver is the public shape of a driver served to passengers.
type CachedDriver struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	VehicleType   string `json:"vehicle_type"`
	VehicleNumber string `json:"vehicle_number"`
	QRCodeURL     string `json:"qr_code_url"`
}

// GetDriver retrieves a driver from cache.
func (s *CacheStore) GetDriver(ctx context.Context, driverID string) (*CachedDriver, error) {
	key := driverCachePrefix + driverID
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var driver CachedDriver
	if err := json.Unmarshal(data, &driver); err != nil {
		return nil, err
	}
	return &driver, nil
}

// SetDriver stores a driver in cache.
func (s *CacheStore) SetDriver(ctx context.Context, driver *CachedDriver) error {
	key := driverCachePrefix + driver.ID
	data, err := json.Marshal(driver)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, DriverCacheTTL).Err()
}

// InvalidateDriver removes a driver from cache.
func (s *CacheStore) InvalidateDriver(ctx context.Context, driverID string) error {
	key := driverCachePrefix + driverID
	return s.client.Del(ctx, key).Err()
}

// GetStats retrieves the cached admin stats snapshot.
func (s *CacheStore) GetStats(ctx context.Context) ([]byte, error) {
	data, err := s.client.Get(ctx, statsCacheKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}
	return data, nil
}

// SetStats stores an admin stats snapshot.
func (s *CacheStore) SetStats(ctx context.Context, data []byte) error {
	return s.client.Set(ctx, statsCacheKey, data, StatsCacheTTL).Err()
}
