package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	kitchenListCacheKey = "kitchens"
	kitchenCacheKeyFmt  = "kitchen:%d"

	kitchenListCacheTTL = 5 * time.Minute
	kitchenCacheTTL     = 3 * time.Minute
)

// cacheGet reads a cached JSON view. A miss or a redis error both read as a
// miss; the caller falls back to the database.
func cacheGet(ctx context.Context, rdb *redis.Client, key string, out interface{}) bool {
	data, err := rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		log.Printf("failed to decode cached view %s: %v\n", key, err)
		return false
	}
	return true
}

func cacheSet(ctx context.Context, rdb *redis.Client, key string, val interface{}, ttl time.Duration) {
	data, err := json.Marshal(val)
	if err != nil {
		log.Printf("failed to encode cached view %s: %v\n", key, err)
		return
	}
	if err := rdb.Set(ctx, key, data, ttl).Err(); err != nil {
		log.Printf("failed to store cached view %s: %v\n", key, err)
	}
}

// invalidateKitchenCaches drops the home-page kitchen list and the page of
// one kitchen so reads after an order or menu mutation see fresh data.
func invalidateKitchenCaches(ctx context.Context, rdb *redis.Client, kitchenID uint) {
	keys := []string{kitchenListCacheKey, fmt.Sprintf(kitchenCacheKeyFmt, kitchenID)}
	if err := rdb.Del(ctx, keys...).Err(); err != nil {
		log.Printf("failed to invalidate kitchen caches: %v\n", err)
	}
}
