package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iho/feefines/internal/usecase"
)

const keyPrefix = "feefines:idempotency:"

// IdempotencyStore implements usecase.IdempotencyStore using Redis.
// Records are stored as JSON under a prefixed key.
type IdempotencyStore struct {
	client redis.Cmdable
	prefix string
}

// NewIdempotencyStore creates a new IdempotencyStore.
func NewIdempotencyStore(client redis.Cmdable) *IdempotencyStore {
	return &IdempotencyStore{
		client: client,
		prefix: keyPrefix,
	}
}

// Reserve claims key with a pending record using SET NX.
func (s *IdempotencyStore) Reserve(ctx context.Context, key, fingerprint string, ttl time.Duration) (*usecase.IdempotencyRecord, bool, error) {
	pending, err := json.Marshal(usecase.IdempotencyRecord{Fingerprint: fingerprint, Pending: true})
	if err != nil {
		return nil, false, err
	}

	set, err := s.client.SetNX(ctx, s.prefix+key, pending, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("reserve idempotency key: %w", err)
	}
	if set {
		return nil, true, nil
	}

	existing, err := s.get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		// Expired between SETNX and GET; try once more.
		set, err = s.client.SetNX(ctx, s.prefix+key, pending, ttl).Result()
		if err != nil {
			return nil, false, fmt.Errorf("reserve idempotency key: %w", err)
		}
		if set {
			return nil, true, nil
		}
		if existing, err = s.get(ctx, key); err != nil {
			return nil, false, err
		}
	}

	return existing, false, nil
}

// Complete replaces the pending record with the final response.
func (s *IdempotencyStore) Complete(ctx context.Context, key string, record usecase.IdempotencyRecord, ttl time.Duration) error {
	record.Pending = false
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	if err := s.client.Set(ctx, s.prefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("complete idempotency key: %w", err)
	}
	return nil
}

// Release deletes key.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("release idempotency key: %w", err)
	}
	return nil
}

func (s *IdempotencyStore) get(ctx context.Context, key string) (*usecase.IdempotencyRecord, error) {
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read idempotency key: %w", err)
	}

	var record usecase.IdempotencyRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("decode idempotency record: %w", err)
	}
	return &record, nil
}
