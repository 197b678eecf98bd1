package search

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"mediacatalog/searchservice/internal/domain"
)

const defaultRedisTitleTTL = 30 * time.Minute

// RedisTitleCache stores per-token title match lists in Redis with JSON
// serialization. The store generation is part of the key, so entries written
// against an older catalog are never read back; stale generations simply age
// out through the TTL instead of being deleted explicitly.
type RedisTitleCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisTitleCache(client *redis.Client, ttl time.Duration) *RedisTitleCache {
	if ttl <= 0 {
		ttl = defaultRedisTitleTTL
	}
	return &RedisTitleCache{client: client, ttl: ttl}
}

func titleCacheKey(generation uint64, token string) string {
	return fmt.Sprintf("msearch:title:%d:%s", generation, token)
}

func (r *RedisTitleCache) Get(ctx context.Context, generation uint64, token string) ([]domain.Media, bool, error) {
	data, err := r.client.Get(ctx, titleCacheKey(generation, token)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, err
	}
	var matches []domain.Media
	if err := json.Unmarshal(data, &matches); err != nil {
		return nil, false, err
	}
	return matches, true, nil
}

func (r *RedisTitleCache) Set(ctx context.Context, generation uint64, token string, matches []domain.Media) error {
	data, err := json.Marshal(matches)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, titleCacheKey(generation, token), data, r.ttl).Err()
}

func (r *RedisTitleCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
