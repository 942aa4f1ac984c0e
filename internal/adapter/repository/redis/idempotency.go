package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// processingMarker is stored while the first request with a key is still in
// flight. A replay arriving before completion sees the marker instead of a
// recorded response.
const processingMarker = "processing"

// IdempotencyStore implements usecase.IdempotencyStore using Redis. Keys are
// scoped per operation so a deposit and a withdrawal cannot collide on the
// same client-supplied key.
type IdempotencyStore struct {
	client *redis.Client
	prefix string
}

// NewIdempotencyStore creates a new IdempotencyStore.
func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{
		client: client,
		prefix: "idempotency:",
	}
}

// CheckAndSet atomically claims key for the caller. It returns (true, body)
// when the key was already claimed, where body is the recorded response or
// nil while the original request is still processing.
func (s *IdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	fullKey := s.prefix + key

	if response != nil {
		set, err := s.client.SetNX(ctx, fullKey, response, ttl).Result()
		if err != nil {
			return false, nil, err
		}
		if set {
			return false, nil, nil
		}
	} else {
		set, err := s.client.SetNX(ctx, fullKey, processingMarker, ttl).Result()
		if err != nil {
			return false, nil, err
		}
		if set {
			return false, nil, nil
		}
	}

	existing, err := s.client.Get(ctx, fullKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// Claimed and expired between SetNX and Get.
			return true, nil, nil
		}
		return false, nil, err
	}

	if string(existing) == processingMarker {
		return true, nil, nil
	}

	return true, existing, nil
}

// Update records the final response for an already claimed key.
func (s *IdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return s.client.Set(ctx, s.prefix+key, response, ttl).Err()
}
