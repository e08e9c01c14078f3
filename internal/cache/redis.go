package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache keys for hot diesel lookups
const (
	VendorStockKey     = "vendors:active_stock"
	BookNumbersKeyFmt  = "receipt_book:%d:numbers"
	SlipDetailsKeyFmt  = "slip:%d:details"
	PeriodAllotmentFmt = "allotments:%d:%d" // year, month
)

var client *redis.Client

// Init initializes the Redis connection. A failed ping leaves the client nil
// and every cache call degrades to a miss, so the API keeps working without
// Redis.
func Init(addr, password string, db int) error {
	if addr == "" {
		addr = "redis:6379"
	}

	client = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		client = nil
		return err
	}
	return nil
}

// GetClient returns the Redis client
func GetClient() *redis.Client {
	return client
}

// GetCached returns cached data for a key
func GetCached(ctx context.Context, key string) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// SetCached stores data with a TTL
func SetCached(ctx context.Context, key string, data []byte, ttl time.Duration) {
	if client == nil {
		return
	}
	client.Set(ctx, key, data, ttl)
}

// InvalidatePattern removes all keys matching a glob pattern
func InvalidatePattern(ctx context.Context, pattern string) {
	if client == nil {
		return
	}
	keys, err := client.Keys(ctx, pattern).Result()
	if err == nil && len(keys) > 0 {
		client.Del(ctx, keys...)
	}
}

// InvalidateKeys removes specific cache keys
func InvalidateKeys(ctx context.Context, keys ...string) {
	if client == nil || len(keys) == 0 {
		return
	}
	client.Del(ctx, keys...)
}

// BookNumbersKey builds the cache key for a receipt book's number list
func BookNumbersKey(bookID int) string {
	return fmt.Sprintf(BookNumbersKeyFmt, bookID)
}

// SlipDetailsKey builds the cache key for a slip lookup
func SlipDetailsKey(slipNumber int) string {
	return fmt.Sprintf(SlipDetailsKeyFmt, slipNumber)
}

// PeriodKey builds the cache key for a saved period's allotment list
func PeriodKey(year, month int) string {
	return fmt.Sprintf(PeriodAllotmentFmt, year, month)
}

// InvalidateVendorCaches clears vendor and stock caches
// Called when: CreateVendor, UpdateVendor, or any receipt book change
func InvalidateVendorCaches(ctx context.Context) {
	InvalidateKeys(ctx, VendorStockKey)
	InvalidatePattern(ctx, "vendors:*")
}

// InvalidateReceiptBookCaches clears number lists and vendor stock
// Called when: CreateReceiptBook, UpdateReceiptBook, or a detail save that
// consumes receipts
func InvalidateReceiptBookCaches(ctx context.Context) {
	InvalidatePattern(ctx, "receipt_book:*")
	InvalidateKeys(ctx, VendorStockKey)
}

// InvalidateAllotmentCaches clears period, slip and receipt caches
// Called when: SaveAllotments, UpdateAllotment
func InvalidateAllotmentCaches(ctx context.Context) {
	InvalidatePattern(ctx, "allotments:*")
	InvalidatePattern(ctx, "slip:*")
	InvalidateReceiptBookCaches(ctx)
}

// IsHealthy returns true if Redis connection is working
func IsHealthy() bool {
	if client == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return client.Ping(ctx).Err() == nil
}
