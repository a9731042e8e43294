package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/peerlend/loan-tracker/internal/core/ports"
)

// DefaultIdempotencyTTL is how long a stored response stays replayable.
const DefaultIdempotencyTTL = 24 * time.Hour

// lockTTL bounds an in-progress reservation so a crashed request does not
// block its key forever.
const lockTTL = 30 * time.Second

// ErrKeyNotFound is returned by Load when the key has expired or was released.
var ErrKeyNotFound = errors.New("idempotency key not found")

// IdempotencyStore implements ports.IdempotencyStore on Redis.
// Entries are JSON-encoded ports.StoredResponse values.
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdempotencyStore wraps client. A non-positive ttl falls back to DefaultIdempotencyTTL.
func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = DefaultIdempotencyTTL
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

// Reserve writes a provisional in-progress entry with SETNX.
func (s *IdempotencyStore) Reserve(ctx context.Context, key, bodySHA256 string) (bool, error) {
	b, err := json.Marshal(ports.StoredResponse{
		InProgress: true,
		BodySHA256: bodySHA256,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		return false, fmt.Errorf("idempotency reserve: %w", err)
	}
	ok, err := s.client.SetNX(ctx, key, b, lockTTL).Result()
	if err != nil {
		return false, fmt.Errorf("idempotency reserve: %w", err)
	}
	return ok, nil
}

func (s *IdempotencyStore) Load(ctx context.Context, key string) (*ports.StoredResponse, error) {
	raw, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("idempotency load: %w", err)
	}
	var resp ports.StoredResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("idempotency decode: %w", err)
	}
	return &resp, nil
}

// Save overwrites the reservation with the final response and the full TTL.
func (s *IdempotencyStore) Save(ctx context.Context, key string, resp ports.StoredResponse) error {
	resp.InProgress = false
	b, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("idempotency save: %w", err)
	}
	return s.client.Set(ctx, key, b, s.ttl).Err()
}

func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}
