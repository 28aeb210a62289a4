package cart

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const storageKeyPrefix = "khabee-cart"

// Storage persists the serialized item array under a fixed per-owner key.
// Last write wins; concurrent writers are not merged.
type Storage interface {
	Load(ctx context.Context, owner string) (*Cart, error)
	Save(ctx context.Context, owner string, c *Cart) error
	Clear(ctx context.Context, owner string) error
}

type RedisStorage struct {
	rdb *redis.Client
}

func NewRedisStorage(rdb *redis.Client) *RedisStorage {
	return &RedisStorage{rdb: rdb}
}

func storageKey(owner string) string {
	return fmt.Sprintf("%s:%s", storageKeyPrefix, owner)
}

func (s *RedisStorage) Load(ctx context.Context, owner string) (*Cart, error) {
	data, err := s.rdb.Get(ctx, storageKey(owner)).Bytes()
	if err == redis.Nil {
		return New(), nil
	}
	if err != nil {
		return nil, err
	}

	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		// A corrupt entry reads as an empty cart; the next save repairs it.
		return New(), nil
	}

	return &Cart{Items: items}, nil
}

func (s *RedisStorage) Save(ctx context.Context, owner string, c *Cart) error {
	data, err := json.Marshal(c.Items)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, storageKey(owner), data, 0).Err()
}

func (s *RedisStorage) Clear(ctx context.Context, owner string) error {
	return s.rdb.Del(ctx, storageKey(owner)).Err()
}
