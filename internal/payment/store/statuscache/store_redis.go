// Package statuscache remembers the last known payment status per checkout so
// verification can answer without calling the gateway.
package statuscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"cosmonumero/internal/payment/models"
	"cosmonumero/pkg/platform/sentinel"
)

const keyPrefix = "payment:status:"

// RedisStore keeps statuses as JSON values with a TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func key(externalReference string) string {
	return keyPrefix + externalReference
}

func (s *RedisStore) Get(ctx context.Context, externalReference string) (*models.CachedStatus, error) {
	raw, err := s.client.Get(ctx, key(externalReference)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("status %s: %w", externalReference, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get cached status: %w", err)
	}
	var status models.CachedStatus
	if err := json.Unmarshal(raw, &status); err != nil {
		return nil, fmt.Errorf("decode cached status: %w", err)
	}
	return &status, nil
}

func (s *RedisStore) Set(ctx context.Context, externalReference string, status models.CachedStatus) error {
	raw, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("encode cached status: %w", err)
	}
	if err := s.client.Set(ctx, key(externalReference), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("set cached status: %w", err)
	}
	return nil
}
